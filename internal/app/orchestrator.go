package app

import (
	"context"
	"time"

	"github.com/bft-labs/mediaship/internal/domain"
	"github.com/bft-labs/mediaship/internal/ports"
)

// DefaultTimeout bounds each public operation end to end.
const DefaultTimeout = 300 * time.Second

// Orchestrator composes negotiation, probing and range upload into the
// fresh and resumed upload flows. It keeps no state between calls.
type Orchestrator struct {
	negotiator ports.Negotiator
	prober     ports.Prober
	uploader   ports.RangeUploader
	logger     ports.Logger
	timeout    time.Duration
}

// NewOrchestrator creates an Orchestrator. A non-positive timeout selects
// DefaultTimeout.
func NewOrchestrator(
	negotiator ports.Negotiator,
	prober ports.Prober,
	uploader ports.RangeUploader,
	logger ports.Logger,
	timeout time.Duration,
) *Orchestrator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Orchestrator{
		negotiator: negotiator,
		prober:     prober,
		uploader:   uploader,
		logger:     logger,
		timeout:    timeout,
	}
}

// Timeout returns the per-operation deadline.
func (o *Orchestrator) Timeout() time.Duration {
	return o.timeout
}

// UploadFile negotiates a new session and uploads the whole file to it.
// The file is not touched when negotiation fails.
func (o *Orchestrator) UploadFile(ctx context.Context, params domain.UploadRequestParams, filename string) (domain.UploadResult, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	sessionURL, err := o.negotiator.Negotiate(ctx, params, filename)
	if err != nil {
		o.logger.Debug("negotiation failed", ports.String("file", filename), ports.Err(err))
		return domain.UploadResult{}, err
	}
	o.logger.Info("upload session started",
		ports.String("file", filename),
		ports.String("session_url", sessionURL),
	)

	return o.upload(ctx, filename, sessionURL, 0, -1)
}

// ResumeUpload asks the server how many bytes of sessionURL it holds and
// uploads the rest of the file, up to end (-1 for the last byte).
func (o *Orchestrator) ResumeUpload(ctx context.Context, filename, sessionURL string, end int64) (domain.UploadResult, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	received, err := o.prober.Probe(ctx, sessionURL)
	if err != nil {
		o.logger.Debug("probe failed", ports.String("session_url", sessionURL), ports.Err(err))
		return domain.UploadResult{}, err
	}
	o.logger.Info("resuming upload",
		ports.String("file", filename),
		ports.String("session_url", sessionURL),
		ports.Size("received", received),
	)

	return o.upload(ctx, filename, sessionURL, received, end)
}

// UploadRange uploads an explicit byte range to an existing session.
func (o *Orchestrator) UploadRange(ctx context.Context, filename, sessionURL string, begin, end int64) (domain.UploadResult, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	return o.upload(ctx, filename, sessionURL, begin, end)
}

// Negotiate only opens a session.
func (o *Orchestrator) Negotiate(ctx context.Context, params domain.UploadRequestParams, filename string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	return o.negotiator.Negotiate(ctx, params, filename)
}

// Probe only queries the received length of a session.
func (o *Orchestrator) Probe(ctx context.Context, sessionURL string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	return o.prober.Probe(ctx, sessionURL)
}

func (o *Orchestrator) upload(ctx context.Context, filename, sessionURL string, begin, end int64) (domain.UploadResult, error) {
	start := time.Now()
	res, err := o.uploader.UploadRange(ctx, filename, sessionURL, begin, end)
	if err != nil {
		o.logger.Warn("range upload failed",
			ports.String("session_url", sessionURL),
			ports.Int64("begin", begin),
			ports.Err(err),
		)
		return domain.UploadResult{}, err
	}

	o.logger.Info("range upload finished",
		ports.String("session_url", sessionURL),
		ports.Int("status", res.StatusCode),
		ports.String("reason", res.StatusReason),
		ports.Duration("elapsed", time.Since(start)),
	)
	return res, nil
}
