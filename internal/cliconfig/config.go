package cliconfig

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/docker/go-units"
)

// DefaultEndpoint is the media service the CLI talks to when none is set.
const DefaultEndpoint = "http://render1.imageshack.us:8080/renderapi"

// Default transfer settings.
const (
	DefaultBlockSize = 1024
	DefaultTimeout   = 300 * time.Second
	DefaultLogLevel  = "info"
)

// Config holds CLI configuration for mediaship.
type Config struct {
	Endpoint string

	DeveloperKey string
	Cookie       string
	Username     string
	Password     string

	Tags   []string
	Public bool

	BlockSize int
	Timeout   time.Duration

	LogLevel string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Endpoint:  DefaultEndpoint,
		BlockSize: DefaultBlockSize,
		Timeout:   DefaultTimeout,
		LogLevel:  DefaultLogLevel,
		Public:    true,
	}
}

// Validate checks the configuration for errors and normalizes it.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}

	// Ensure no trailing slash
	c.Endpoint = strings.TrimRight(c.Endpoint, "/")

	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return fmt.Errorf("parse endpoint: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("endpoint must be an absolute http(s) URL, got %q", c.Endpoint)
	}

	if (c.Username == "") != (c.Password == "") {
		return fmt.Errorf("username and password must be set together")
	}
	if c.BlockSize <= 0 {
		return fmt.Errorf("block size must be positive")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}

	return nil
}

// RequireKey reports an error when no developer key is configured. Only
// commands that open a session need one.
func (c *Config) RequireKey() error {
	if strings.TrimSpace(c.DeveloperKey) == "" {
		return fmt.Errorf("developer key is required (--key or MEDIASHIP_DEVELOPER_KEY)")
	}
	return nil
}

// Redacted returns a copy safe to log.
func (c Config) Redacted() Config {
	c.DeveloperKey = mask(c.DeveloperKey)
	c.Cookie = mask(c.Cookie)
	c.Password = mask(c.Password)
	c.Tags = append([]string(nil), c.Tags...)
	return c
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return "****"
	}
	return s[:2] + "****" + s[len(s)-2:]
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setStrings sets a list if not empty and flag not changed.
func (s *configSetter) setStrings(flag string, value []string, dst *[]string) {
	if len(value) == 0 || s.changed[flag] {
		return
	}
	*dst = append([]string(nil), value...)
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setSize parses a size such as "1024", "4k" or "64KiB" and sets the
// destination if positive and flag not changed.
func (s *configSetter) setSize(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	n, err := ParseSize(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = n
	return nil
}

// setStringsFromString splits a comma-separated list.
// Used for environment variables that come as strings.
func (s *configSetter) setStringsFromString(flag, value string, dst *[]string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = SplitList(value)
}

// setBoolFromString parses a string to bool and sets the destination.
// Used for environment variables that come as strings.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = b
	return nil
}

// ParseSize parses a human-readable size with binary units.
func ParseSize(value string) (int, error) {
	n, err := units.RAMInBytes(strings.TrimSpace(value))
	if err != nil {
		return 0, err
	}
	if n <= 0 || int64(int(n)) != n {
		return 0, fmt.Errorf("size %q out of range", value)
	}
	return int(n), nil
}

// SplitList splits a comma-separated list, dropping blanks.
func SplitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
