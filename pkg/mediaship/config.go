package mediaship

import (
	"errors"
	"fmt"
	"strings"
	"time"

	httpAdapter "github.com/bft-labs/mediaship/internal/adapters/http"
	"github.com/bft-labs/mediaship/internal/app"
	"github.com/bft-labs/mediaship/internal/domain"
)

// DefaultEndpoint is the public render service.
const DefaultEndpoint = "http://render1.imageshack.us:8080/renderapi"

// Defaults applied by SetDefaults.
const (
	DefaultBlockSize = httpAdapter.DefaultBlockSize
	DefaultTimeout   = app.DefaultTimeout
)

// DefaultPublic is the visibility DefaultConfig gives uploads.
const DefaultPublic = true

// Config holds the client configuration.
type Config struct {
	// Endpoint is scheme://host[:port]/base of the service.
	Endpoint string

	// DeveloperKey is required to open sessions.
	DeveloperKey string
	// Cookie identifies a logged-in account. Optional.
	Cookie string
	// Username and Password authenticate an account. Optional, but both or
	// neither.
	Username string
	Password string

	Tags   []string
	Public bool

	// BlockSize is the number of bytes read from the file per send.
	BlockSize int
	// Timeout bounds each public operation end to end.
	Timeout time.Duration
}

// DefaultConfig returns a Config with default values. Uploads are public
// unless Public is cleared. DeveloperKey must still be set before uploading.
func DefaultConfig() Config {
	cfg := Config{Public: DefaultPublic}
	cfg.SetDefaults()
	return cfg
}

// SetDefaults fills unset fields with default values.
func (c *Config) SetDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}
	if c.BlockSize <= 0 {
		c.BlockSize = DefaultBlockSize
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
}

// Validate checks the configuration. The developer key is checked when a
// session is opened, so a Client used only to probe or resume needs none.
func (c Config) Validate() error {
	if _, err := httpAdapter.ParseEndpoint(c.Endpoint); err != nil {
		return err
	}
	if (c.Username == "") != (c.Password == "") {
		return errors.New("username and password must be set together")
	}
	if c.BlockSize <= 0 {
		return fmt.Errorf("block size must be positive, got %d", c.BlockSize)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	return nil
}

// Params returns the negotiation parameters described by the config.
func (c Config) Params() UploadRequestParams {
	p := domain.UploadRequestParams{
		DeveloperKey: strings.TrimSpace(c.DeveloperKey),
		Cookie:       c.Cookie,
		Tags:         append([]string(nil), c.Tags...),
		Public:       c.Public,
	}
	if c.Username != "" {
		p.Credentials = &domain.Credentials{Username: c.Username, Password: c.Password}
	}
	return p
}
