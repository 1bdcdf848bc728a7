package domain

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// UploadSession is an upload target issued by the server for one file.
// Callers that want to resume later must keep SessionURL themselves.
type UploadSession struct {
	SessionURL string
	TargetFile string
	TotalSize  int64
}

// SessionID returns the session identifier embedded in SessionURL.
func (s UploadSession) SessionID() (string, error) {
	return SessionIDFromURL(s.SessionURL)
}

// SessionIDFromURL extracts the final path segment of a session URL.
func SessionIDFromURL(sessionURL string) (string, error) {
	u, err := url.Parse(sessionURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSessionURL, err)
	}
	id := path.Base(strings.TrimRight(u.Path, "/"))
	if id == "" || id == "." || id == "/" {
		return "", fmt.Errorf("%w: no session id in %q", ErrInvalidSessionURL, sessionURL)
	}
	return id, nil
}

// Credentials is an account username/password pair.
type Credentials struct {
	Username string
	Password string
}

// UploadRequestParams is what the negotiation request carries besides the
// file name. It is built per call and never stored.
type UploadRequestParams struct {
	DeveloperKey string
	Cookie       string
	Credentials  *Credentials
	Tags         []string
	Public       bool
}

// Validate reports ErrInvalidParams when the developer key is missing.
func (p UploadRequestParams) Validate() error {
	if strings.TrimSpace(p.DeveloperKey) == "" {
		return fmt.Errorf("%w: developer key is required", ErrInvalidParams)
	}
	return nil
}

// UploadResult is the server's final answer to a range upload, passed
// through verbatim.
type UploadResult struct {
	StatusCode   int
	StatusReason string
	Body         string
}

// Progress is emitted after every block written to the upload body.
type Progress struct {
	SessionURL string
	// Sent counts bytes of this request body written so far.
	Sent int64
	// Total is the request body length.
	Total int64
	// Offset is the absolute file offset reached.
	Offset int64
	Block  int
}

// ProgressFunc receives progress events. It runs on the goroutine writing
// the request body and must return quickly.
type ProgressFunc func(Progress)
