package http

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/bft-labs/mediaship/internal/domain"
)

// blockReader feeds a request body from src one fixed-size block at a time.
// A block counts as sent once the transport has consumed all of it, at which
// point onBlock is called.
type blockReader struct {
	src     io.Reader
	block   []byte
	buf     []byte
	pos     int
	rng     domain.ByteRange
	session string
	onBlock domain.ProgressFunc

	sent   int64
	blocks int
	// err is the first local read failure; it distinguishes file errors
	// from transport errors once the request fails. The transport may still
	// be reading when Do returns, so access goes through mu.
	mu  sync.Mutex
	err error
}

func newBlockReader(src io.Reader, blockSize int, rng domain.ByteRange, sessionURL string, onBlock domain.ProgressFunc) *blockReader {
	return &blockReader{
		src:     src,
		block:   make([]byte, blockSize),
		rng:     rng,
		session: sessionURL,
		onBlock: onBlock,
	}
}

func (b *blockReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if b.pos == len(b.buf) {
		if err := b.fill(); err != nil {
			return 0, err
		}
	}
	n := copy(p, b.buf[b.pos:])
	b.pos += n
	if b.pos == len(b.buf) {
		b.sent += int64(len(b.buf))
		b.blocks++
		if b.onBlock != nil {
			b.onBlock(domain.Progress{
				SessionURL: b.session,
				Sent:       b.sent,
				Total:      b.rng.Len(),
				Offset:     b.rng.Begin + b.sent,
				Block:      b.blocks,
			})
		}
	}
	return n, nil
}

func (b *blockReader) fill() error {
	n, err := io.ReadFull(b.src, b.block)
	switch {
	case err == nil, errors.Is(err, io.ErrUnexpectedEOF):
		// full block, or the short final one
	case errors.Is(err, io.EOF):
		if b.sent < b.rng.Len() {
			return b.fail(fmt.Errorf("file ended after %d of %d bytes: %w", b.sent, b.rng.Len(), io.ErrUnexpectedEOF))
		}
		return io.EOF
	default:
		return b.fail(err)
	}
	b.buf = b.block[:n]
	b.pos = 0
	return nil
}

func (b *blockReader) fail(err error) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err == nil {
		b.err = err
	}
	return err
}

// readErr returns the first local read failure, if any.
func (b *blockReader) readErr() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.err
}
