// Package watch uploads files as they appear in a directory.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/mediaship/internal/domain"
	"github.com/bft-labs/mediaship/internal/ports"
)

// DefaultDebounce is how long a file must stay quiet before it is uploaded.
const DefaultDebounce = 500 * time.Millisecond

// Uploader performs a fresh upload of one file.
type Uploader interface {
	UploadFile(ctx context.Context, params domain.UploadRequestParams, filename string) (domain.UploadResult, error)
}

// ResultFunc is told about every finished upload attempt.
type ResultFunc func(path string, res domain.UploadResult, err error)

// Config controls a Watcher.
type Config struct {
	Dir string
	// Extensions restricts uploads to these suffixes (case-insensitive,
	// with or without the dot). Empty means every file.
	Extensions []string
	Debounce   time.Duration
	Params     domain.UploadRequestParams
}

// Watcher monitors a directory via fsnotify and uploads created or written
// files one at a time.
type Watcher struct {
	cfg      Config
	uploader Uploader
	logger   ports.Logger
	onResult ResultFunc

	mu      sync.Mutex
	pending map[string]*time.Timer
	queue   chan string
}

// New creates a Watcher. onResult may be nil.
func New(cfg Config, uploader Uploader, logger ports.Logger, onResult ResultFunc) *Watcher {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	return &Watcher{
		cfg:      cfg,
		uploader: uploader,
		logger:   logger,
		onResult: onResult,
		pending:  make(map[string]*time.Timer),
		queue:    make(chan string, 64),
	}
}

// Run watches until ctx is canceled. The upload in flight, if any, is
// canceled with ctx.
func (w *Watcher) Run(ctx context.Context) error {
	info, err := os.Stat(w.cfg.Dir)
	if err != nil {
		return fmt.Errorf("stat watch dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", w.cfg.Dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(w.cfg.Dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.cfg.Dir, err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.uploadLoop(ctx)
	}()
	defer func() {
		w.stopPending()
		wg.Wait()
	}()

	w.logger.Info("watching directory",
		ports.String("dir", w.cfg.Dir),
		ports.Duration("debounce", w.cfg.Debounce),
	)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if !w.accepts(event.Name) {
				continue
			}
			w.debounceEnqueue(ctx, event.Name)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", ports.Err(err))
		}
	}
}

func (w *Watcher) accepts(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") {
		return false
	}
	if len(w.cfg.Extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, want := range w.cfg.Extensions {
		want = strings.ToLower(want)
		if !strings.HasPrefix(want, ".") {
			want = "." + want
		}
		if ext == want {
			return true
		}
	}
	return false
}

// debounceEnqueue restarts path's quiet timer; the file is queued once no
// event has touched it for the debounce delay.
func (w *Watcher) debounceEnqueue(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.pending[path]; ok {
		t.Stop()
	}
	w.pending[path] = time.AfterFunc(w.cfg.Debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()

		select {
		case w.queue <- path:
		case <-ctx.Done():
		}
	})
}

func (w *Watcher) stopPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
}

func (w *Watcher) uploadLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case path := <-w.queue:
			w.upload(ctx, path)
		}
	}
}

func (w *Watcher) upload(ctx context.Context, path string) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return
	}

	w.logger.Info("uploading new file", ports.String("file", path), ports.Size("size", info.Size()))
	res, err := w.uploader.UploadFile(ctx, w.cfg.Params, path)
	if err != nil {
		w.logger.Error("upload failed", ports.String("file", path), ports.Err(err))
	} else {
		w.logger.Info("upload done",
			ports.String("file", path),
			ports.Int("status", res.StatusCode),
			ports.String("reason", res.StatusReason),
		)
	}
	if w.onResult != nil {
		w.onResult(path, res, err)
	}
}
