package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/bft-labs/mediaship/internal/domain"
	"github.com/bft-labs/mediaship/internal/ports"
)

// DefaultBlockSize is the number of bytes read from the file per send.
const DefaultBlockSize = 1024

// RangeUploader implements ports.RangeUploader with a streamed PUT.
type RangeUploader struct {
	client    ports.HTTPClient
	endpoint  Endpoint
	blockSize int
	progress  domain.ProgressFunc
	logger    ports.Logger
}

// NewRangeUploader creates a RangeUploader. A non-positive blockSize selects
// DefaultBlockSize; progress may be nil.
func NewRangeUploader(client ports.HTTPClient, endpoint Endpoint, blockSize int, progress domain.ProgressFunc, logger ports.Logger) *RangeUploader {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	return &RangeUploader{
		client:    client,
		endpoint:  endpoint,
		blockSize: blockSize,
		progress:  progress,
		logger:    logger,
	}
}

// UploadRange streams bytes begin..end of filename to sessionURL and returns
// the server's response verbatim.
func (u *RangeUploader) UploadRange(ctx context.Context, filename, sessionURL string, begin, end int64) (domain.UploadResult, error) {
	target, err := u.endpoint.UploadURL(sessionURL)
	if err != nil {
		return domain.UploadResult{}, err
	}

	info, err := os.Stat(filename)
	if err != nil {
		return domain.UploadResult{}, &domain.IOError{Op: "stat", Path: filename, Err: err}
	}
	rng, err := domain.ResolveRange(begin, end, info.Size())
	if err != nil {
		return domain.UploadResult{}, &domain.IOError{Op: "seek", Path: filename, Err: err}
	}

	f, err := os.Open(filename)
	if err != nil {
		return domain.UploadResult{}, &domain.IOError{Op: "open", Path: filename, Err: err}
	}
	defer f.Close()

	body := newBlockReader(io.NewSectionReader(f, rng.Begin, rng.Len()), u.blockSize, rng, sessionURL, u.progress)

	var reqBody io.Reader = body
	if rng.Empty() {
		reqBody = http.NoBody
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, target, reqBody)
	if err != nil {
		return domain.UploadResult{}, fmt.Errorf("create request: %w", err)
	}
	req.ContentLength = rng.Len()
	req.Header.Set("Content-Range", rng.ContentRange())
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Close = true

	u.logger.Debug("uploading range",
		ports.String("file", filename),
		ports.String("url", target),
		ports.String("content_range", rng.ContentRange()),
		ports.Size("length", rng.Len()),
		ports.Int("block_size", u.blockSize),
	)

	resp, err := u.client.Do(req)
	if err != nil {
		if readErr := body.readErr(); readErr != nil {
			return domain.UploadResult{}, &domain.IOError{Op: "read", Path: filename, Err: readErr}
		}
		return domain.UploadResult{}, &domain.TransportError{Op: "put range", Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.UploadResult{}, &domain.TransportError{Op: "read put response", Err: err}
	}

	u.logger.Debug("range upload answered",
		ports.Int("status", resp.StatusCode),
		ports.Size("response_size", int64(len(data))),
	)

	return domain.UploadResult{
		StatusCode:   resp.StatusCode,
		StatusReason: reasonPhrase(resp),
		Body:         string(data),
	}, nil
}
