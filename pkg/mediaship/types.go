package mediaship

import (
	"github.com/bft-labs/mediaship/internal/domain"
	"github.com/bft-labs/mediaship/internal/ports"
	"github.com/bft-labs/mediaship/pkg/log"
)

// HTTPClient is the interface for making HTTP requests.
// *http.Client satisfies this interface.
type HTTPClient = ports.HTTPClient

// Logger is the interface for structured logging.
type Logger = log.Logger

type (
	// UploadRequestParams is what a session request carries besides the
	// file name.
	UploadRequestParams = domain.UploadRequestParams

	// Credentials is an account username/password pair.
	Credentials = domain.Credentials

	// UploadResult is the service's answer to a range upload.
	UploadResult = domain.UploadResult

	// Progress is reported after every block sent.
	Progress = domain.Progress

	// UploadSession describes an open session.
	UploadSession = domain.UploadSession
)

// Error types.
type (
	TransportError = domain.TransportError
	ServerError    = domain.ServerError
	IOError        = domain.IOError
)

// Error kinds for errors.Is.
var (
	ErrTransport = domain.ErrTransport
	ErrServer    = domain.ErrServer
	ErrIO        = domain.ErrIO

	ErrInvalidParams     = domain.ErrInvalidParams
	ErrInvalidRange      = domain.ErrInvalidRange
	ErrInvalidSessionURL = domain.ErrInvalidSessionURL
)

// Server error codes that are not HTTP statuses.
const (
	CodeWrongResponse = domain.CodeWrongResponse
	CodeWrongHeaders  = domain.CodeWrongHeaders
)
