package mediaship

import (
	"github.com/bft-labs/mediaship/pkg/log"
)

// Option configures optional behavior of a Client.
type Option func(*options)

type options struct {
	httpClient HTTPClient
	logger     Logger
	progress   func(Progress)
}

func defaultOptions() options {
	return options{logger: log.NewNoopLogger()}
}

// WithHTTPClient sets a custom HTTP client. If not provided, a client that
// opens a fresh connection per request is used. Deadlines come from
// Config.Timeout, so the client needs no timeout of its own.
func WithHTTPClient(client HTTPClient) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithProgress registers a callback receiving an event after every block
// sent. It runs on the goroutine writing the request body and should return
// quickly.
func WithProgress(fn func(Progress)) Option {
	return func(o *options) {
		o.progress = fn
	}
}
