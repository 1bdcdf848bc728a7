package mediaship

import (
	"context"
	"os"
	"time"

	httpAdapter "github.com/bft-labs/mediaship/internal/adapters/http"
	"github.com/bft-labs/mediaship/internal/app"
	"github.com/bft-labs/mediaship/internal/ports"
	"github.com/bft-labs/mediaship/internal/watch"
)

// Client uploads files to the render service. It is safe for concurrent
// use; calls share no state.
type Client struct {
	config       Config
	orchestrator *app.Orchestrator
	logger       ports.Logger
}

// New creates a Client with the given configuration.
// Returns an error if the configuration is invalid.
func New(cfg Config, opts ...Option) (*Client, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.httpClient == nil {
		o.httpClient = httpAdapter.DefaultHTTPClient()
	}

	endpoint, err := httpAdapter.ParseEndpoint(cfg.Endpoint)
	if err != nil {
		return nil, err
	}

	orchestrator := app.NewOrchestrator(
		httpAdapter.NewNegotiator(o.httpClient, endpoint, o.logger),
		httpAdapter.NewProber(o.httpClient, endpoint, o.logger),
		httpAdapter.NewRangeUploader(o.httpClient, endpoint, cfg.BlockSize, o.progress, o.logger),
		o.logger,
		cfg.Timeout,
	)

	return &Client{config: cfg, orchestrator: orchestrator, logger: o.logger}, nil
}

// Config returns the client's configuration.
func (c *Client) Config() Config {
	return c.config
}

// UploadFile opens a session with the configured parameters and uploads
// the whole file.
func (c *Client) UploadFile(ctx context.Context, filename string) (UploadResult, error) {
	return c.orchestrator.UploadFile(ctx, c.config.Params(), filename)
}

// UploadFileWithParams is UploadFile with explicit session parameters.
func (c *Client) UploadFileWithParams(ctx context.Context, params UploadRequestParams, filename string) (UploadResult, error) {
	return c.orchestrator.UploadFile(ctx, params, filename)
}

// ResumeUpload continues an interrupted upload of filename to sessionURL
// from the first byte the service does not have, up to end (-1 for the end
// of the file).
func (c *Client) ResumeUpload(ctx context.Context, filename, sessionURL string, end int64) (UploadResult, error) {
	return c.orchestrator.ResumeUpload(ctx, filename, sessionURL, end)
}

// ResumeWithRetry calls ResumeUpload up to attempts times while it fails
// with a transport error, waiting with exponential backoff in between.
func (c *Client) ResumeWithRetry(ctx context.Context, filename, sessionURL string, end int64, attempts int) (UploadResult, error) {
	r := app.NewResumer(c.orchestrator, attempts, app.DefaultBackoffInitial, app.DefaultBackoffMax, c.logger)
	return r.Resume(ctx, filename, sessionURL, end)
}

// UploadRange uploads bytes begin through end (inclusive; -1 for the last
// byte) of filename to an existing session.
func (c *Client) UploadRange(ctx context.Context, filename, sessionURL string, begin, end int64) (UploadResult, error) {
	return c.orchestrator.UploadRange(ctx, filename, sessionURL, begin, end)
}

// Negotiate opens a session for filename and returns its URL without
// uploading anything.
func (c *Client) Negotiate(ctx context.Context, filename string) (string, error) {
	return c.orchestrator.Negotiate(ctx, c.config.Params(), filename)
}

// OpenSession opens a session for filename and describes it. The file must
// exist; its size is recorded as the session's total.
func (c *Client) OpenSession(ctx context.Context, filename string) (UploadSession, error) {
	info, err := os.Stat(filename)
	if err != nil {
		return UploadSession{}, &IOError{Op: "stat", Path: filename, Err: err}
	}
	sessionURL, err := c.Negotiate(ctx, filename)
	if err != nil {
		return UploadSession{}, err
	}
	return UploadSession{SessionURL: sessionURL, TargetFile: filename, TotalSize: info.Size()}, nil
}

// Probe returns how many bytes the service holds for sessionURL.
func (c *Client) Probe(ctx context.Context, sessionURL string) (int64, error) {
	return c.orchestrator.Probe(ctx, sessionURL)
}

// WatchConfig controls Watch.
type WatchConfig struct {
	Dir        string
	Extensions []string
	// Debounce is how long a file must stay unmodified before it is
	// uploaded.
	Debounce time.Duration
	// OnResult, if set, is told about every finished upload.
	OnResult func(path string, res UploadResult, err error)
}

// Watch uploads every file created or written in a directory, one at a
// time, until ctx is canceled.
func (c *Client) Watch(ctx context.Context, cfg WatchConfig) error {
	w := watch.New(watch.Config{
		Dir:        cfg.Dir,
		Extensions: cfg.Extensions,
		Debounce:   cfg.Debounce,
		Params:     c.config.Params(),
	}, c.orchestrator, c.logger, cfg.OnResult)
	return w.Run(ctx)
}
