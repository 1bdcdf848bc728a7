package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/bft-labs/mediaship/internal/domain"
	"github.com/bft-labs/mediaship/internal/ports"
)

// Prober implements ports.Prober with a HEAD request on the session's put
// resource.
type Prober struct {
	client   ports.HTTPClient
	endpoint Endpoint
	logger   ports.Logger
}

// NewProber creates a Prober.
func NewProber(client ports.HTTPClient, endpoint Endpoint, logger ports.Logger) *Prober {
	return &Prober{client: client, endpoint: endpoint, logger: logger}
}

// Probe returns the number of bytes the server holds for sessionURL, read
// from the Content-Length header.
func (p *Prober) Probe(ctx context.Context, sessionURL string) (int64, error) {
	id, err := domain.SessionIDFromURL(sessionURL)
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.endpoint.ProbeURL(id), nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Close = true

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, &domain.TransportError{Op: "head put", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return 0, &domain.ServerError{Code: strconv.Itoa(resp.StatusCode), Message: reasonPhrase(resp)}
	}

	// The raw header is used because a HEAD response without it still
	// reports ContentLength -1 rather than failing.
	raw := strings.TrimSpace(resp.Header.Get("Content-Length"))
	if raw == "" {
		return 0, domain.NewWrongHeaders(errors.New("missing Content-Length header"))
	}
	size, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, domain.NewWrongHeaders(fmt.Errorf("parse Content-Length: %w", err))
	}
	if size < 0 {
		return 0, domain.NewWrongHeaders(fmt.Errorf("negative Content-Length %d", size))
	}

	p.logger.Debug("probed session length",
		ports.String("session_id", id),
		ports.Int64("received", size),
		ports.Int("status", resp.StatusCode),
	)
	return size, nil
}
