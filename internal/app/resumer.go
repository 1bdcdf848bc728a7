package app

import (
	"context"
	"errors"
	"time"

	"github.com/bft-labs/mediaship/internal/domain"
	"github.com/bft-labs/mediaship/internal/ports"
)

// Resumer repeats ResumeUpload after transport failures. Every attempt
// probes the server again, so no byte is sent twice. It is opt-in: the
// Orchestrator itself never retries.
type Resumer struct {
	orchestrator *Orchestrator
	attempts     int
	backoff      *backoff
	logger       ports.Logger
}

// NewResumer creates a Resumer making at most attempts calls. Values below
// one are treated as one.
func NewResumer(o *Orchestrator, attempts int, initial, max time.Duration, logger ports.Logger) *Resumer {
	if attempts < 1 {
		attempts = 1
	}
	if initial <= 0 {
		initial = DefaultBackoffInitial
	}
	if max < initial {
		max = DefaultBackoffMax
	}
	return &Resumer{
		orchestrator: o,
		attempts:     attempts,
		backoff:      newBackoff(initial, max),
		logger:       logger,
	}
}

// Resume runs ResumeUpload until it succeeds, fails with a non-transport
// error, or the attempts are used up. The last error is returned.
func (r *Resumer) Resume(ctx context.Context, filename, sessionURL string, end int64) (domain.UploadResult, error) {
	r.backoff.Reset()

	var lastErr error
	for attempt := 1; attempt <= r.attempts; attempt++ {
		res, err := r.orchestrator.ResumeUpload(ctx, filename, sessionURL, end)
		if err == nil {
			return res, nil
		}
		lastErr = err
		if !errors.Is(err, domain.ErrTransport) || attempt == r.attempts {
			break
		}

		r.logger.Warn("resume attempt failed, retrying",
			ports.Int("attempt", attempt),
			ports.Int("attempts", r.attempts),
			ports.Duration("backoff", r.backoff.Current()),
			ports.Err(err),
		)
		if err := r.backoff.Wait(ctx); err != nil {
			return domain.UploadResult{}, err
		}
	}
	return domain.UploadResult{}, lastErr
}
