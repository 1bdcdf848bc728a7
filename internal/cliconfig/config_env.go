package cliconfig

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables read by ApplyEnvConfig.
const (
	EnvEndpoint     = "MEDIASHIP_ENDPOINT"
	EnvDeveloperKey = "MEDIASHIP_DEVELOPER_KEY"
	EnvCookie       = "MEDIASHIP_COOKIE"
	EnvUsername     = "MEDIASHIP_USERNAME"
	EnvPassword     = "MEDIASHIP_PASSWORD"
	EnvTags         = "MEDIASHIP_TAGS"
	EnvPublic       = "MEDIASHIP_PUBLIC"
	EnvBlockSize    = "MEDIASHIP_BLOCK_SIZE"
	EnvTimeout      = "MEDIASHIP_TIMEOUT"
	EnvLogLevel     = "MEDIASHIP_LOG_LEVEL"
)

// LoadDotEnv loads variables from a .env file into the process environment
// without overriding variables that are already set. A missing file is not
// an error.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}

// ApplyEnvConfig applies MEDIASHIP_* environment variables to cfg.
// It respects flags that have been explicitly set (changed map).
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("endpoint", os.Getenv(EnvEndpoint), &cfg.Endpoint)
	s.setString("key", os.Getenv(EnvDeveloperKey), &cfg.DeveloperKey)
	s.setString("cookie", os.Getenv(EnvCookie), &cfg.Cookie)
	s.setString("username", os.Getenv(EnvUsername), &cfg.Username)
	s.setString("password", os.Getenv(EnvPassword), &cfg.Password)
	s.setString("log-level", os.Getenv(EnvLogLevel), &cfg.LogLevel)
	s.setStringsFromString("tags", os.Getenv(EnvTags), &cfg.Tags)

	if err := s.setBoolFromString("public", os.Getenv(EnvPublic), &cfg.Public); err != nil {
		return err
	}
	if err := s.setSize("block-size", os.Getenv(EnvBlockSize), &cfg.BlockSize); err != nil {
		return err
	}
	if err := s.setDuration("timeout", os.Getenv(EnvTimeout), &cfg.Timeout); err != nil {
		return err
	}

	return nil
}
