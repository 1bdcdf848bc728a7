package http

import (
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/bft-labs/mediaship/internal/domain"
)

const (
	startPath = "start"
	putPath   = "put"
)

// Endpoint locates the media service: scheme://host[:port]/base-path.
type Endpoint struct {
	base url.URL
}

// ParseEndpoint validates raw and returns an Endpoint.
func ParseEndpoint(raw string) (Endpoint, error) {
	u, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil {
		return Endpoint{}, fmt.Errorf("parse endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Endpoint{}, fmt.Errorf("endpoint %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return Endpoint{}, fmt.Errorf("endpoint %q: missing host", raw)
	}
	u.RawQuery, u.Fragment = "", ""
	return Endpoint{base: *u}, nil
}

// String returns the endpoint URL.
func (e Endpoint) String() string {
	return e.base.String()
}

// StartURL is the negotiation endpoint.
func (e Endpoint) StartURL() string {
	return e.join(startPath)
}

// ProbeURL is the length probe target for a session id.
func (e Endpoint) ProbeURL(sessionID string) string {
	return e.join(putPath, sessionID)
}

// UploadURL maps a server-issued session URL onto the configured origin,
// keeping only the session URL's path.
func (e Endpoint) UploadURL(sessionURL string) (string, error) {
	su, err := url.Parse(sessionURL)
	if err != nil || su.Path == "" || su.Path == "/" {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidSessionURL, sessionURL)
	}
	u := e.base
	u.Path = su.Path
	u.RawPath = su.RawPath
	return u.String(), nil
}

func (e Endpoint) join(elem ...string) string {
	u := e.base
	u.RawPath = ""
	u.Path = path.Join(append([]string{"/", e.base.Path}, elem...)...)
	return u.String()
}

// DefaultHTTPClient returns a client that opens a fresh connection per
// request. Deadlines come from the request context, so no client timeout
// is set.
func DefaultHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			DisableKeepAlives:   true,
			TLSHandshakeTimeout: 10 * time.Second,
		},
	}
}
