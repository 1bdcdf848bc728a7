package ports

import (
	"context"

	"github.com/bft-labs/mediaship/internal/domain"
)

// Negotiator requests a one-time upload target from the service.
type Negotiator interface {
	// Negotiate returns the session URL the file bytes must be sent to.
	Negotiate(ctx context.Context, params domain.UploadRequestParams, filename string) (string, error)
}

// Prober reports how many bytes the service already holds for a session.
type Prober interface {
	Probe(ctx context.Context, sessionURL string) (int64, error)
}

// RangeUploader streams part of a local file to a session.
type RangeUploader interface {
	// UploadRange sends bytes begin..end (inclusive) of filename. end == -1
	// means the last byte of the file; larger values are clamped.
	UploadRange(ctx context.Context, filename, sessionURL string, begin, end int64) (domain.UploadResult, error)
}
