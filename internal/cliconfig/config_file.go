package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations and sizes to make
// TOML friendly.
type FileConfig struct {
	Endpoint     string   `toml:"endpoint"`
	DeveloperKey string   `toml:"developer_key"`
	Cookie       string   `toml:"cookie"`
	Username     string   `toml:"username"`
	Password     string   `toml:"password"`
	Tags         []string `toml:"tags"`
	Public       *bool    `toml:"public"`
	BlockSize    string   `toml:"block_size"`
	Timeout      string   `toml:"timeout"`
	LogLevel     string   `toml:"log_level"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.mediaship/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".mediaship", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("endpoint", fc.Endpoint, &cfg.Endpoint)
	s.setString("key", fc.DeveloperKey, &cfg.DeveloperKey)
	s.setString("cookie", fc.Cookie, &cfg.Cookie)
	s.setString("username", fc.Username, &cfg.Username)
	s.setString("password", fc.Password, &cfg.Password)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)
	s.setStrings("tags", fc.Tags, &cfg.Tags)
	s.setBool("public", fc.Public, &cfg.Public)

	if err := s.setSize("block-size", fc.BlockSize, &cfg.BlockSize); err != nil {
		return err
	}
	if err := s.setDuration("timeout", fc.Timeout, &cfg.Timeout); err != nil {
		return err
	}

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
