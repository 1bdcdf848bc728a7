package cliconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestApplyEnvConfig(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		changed  map[string]bool
		initial  Config
		expected Config
		wantErr  bool
	}{
		{
			name: "applies all valid env vars",
			envVars: map[string]string{
				EnvEndpoint:     "http://localhost:9000/renderapi",
				EnvDeveloperKey: "KEY",
				EnvCookie:       "c00kie",
				EnvUsername:     "alice",
				EnvPassword:     "secret",
				EnvTags:         "a, b",
				EnvPublic:       "true",
				EnvBlockSize:    "4k",
				EnvTimeout:      "45s",
				EnvLogLevel:     "debug",
			},
			changed: map[string]bool{},
			initial: DefaultConfig(),
			expected: Config{
				Endpoint:     "http://localhost:9000/renderapi",
				DeveloperKey: "KEY",
				Cookie:       "c00kie",
				Username:     "alice",
				Password:     "secret",
				Tags:         []string{"a", "b"},
				Public:       true,
				BlockSize:    4096,
				Timeout:      45 * time.Second,
				LogLevel:     "debug",
			},
		},
		{
			name: "respects changed flags",
			envVars: map[string]string{
				EnvEndpoint:     "http://env/renderapi",
				EnvDeveloperKey: "ENVKEY",
			},
			changed: map[string]bool{"endpoint": true},
			initial: Config{Endpoint: "http://flag/renderapi"},
			expected: Config{
				Endpoint:     "http://flag/renderapi",
				DeveloperKey: "ENVKEY",
			},
		},
		{
			name:    "returns error for invalid duration",
			envVars: map[string]string{EnvTimeout: "soon"},
			changed: map[string]bool{},
			wantErr: true,
		},
		{
			name:    "returns error for invalid size",
			envVars: map[string]string{EnvBlockSize: "big"},
			changed: map[string]bool{},
			wantErr: true,
		},
		{
			name:    "returns error for invalid bool",
			envVars: map[string]string{EnvPublic: "sometimes"},
			changed: map[string]bool{},
			wantErr: true,
		},
		{
			name:     "handles bool 'false' as false",
			envVars:  map[string]string{EnvPublic: "false"},
			changed:  map[string]bool{},
			initial:  Config{Public: true},
			expected: Config{Public: false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg := tt.initial
			err := ApplyEnvConfig(&cfg, tt.changed)

			if tt.wantErr {
				if err == nil {
					t.Error("ApplyEnvConfig() expected error but got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ApplyEnvConfig() unexpected error: %v", err)
			}

			if cfg.Endpoint != tt.expected.Endpoint {
				t.Errorf("Endpoint = %v, want %v", cfg.Endpoint, tt.expected.Endpoint)
			}
			if cfg.DeveloperKey != tt.expected.DeveloperKey {
				t.Errorf("DeveloperKey = %v, want %v", cfg.DeveloperKey, tt.expected.DeveloperKey)
			}
			if cfg.Cookie != tt.expected.Cookie {
				t.Errorf("Cookie = %v, want %v", cfg.Cookie, tt.expected.Cookie)
			}
			if cfg.Username != tt.expected.Username || cfg.Password != tt.expected.Password {
				t.Errorf("credentials = %v/%v, want %v/%v", cfg.Username, cfg.Password, tt.expected.Username, tt.expected.Password)
			}
			if strings.Join(cfg.Tags, ",") != strings.Join(tt.expected.Tags, ",") {
				t.Errorf("Tags = %v, want %v", cfg.Tags, tt.expected.Tags)
			}
			if cfg.Public != tt.expected.Public {
				t.Errorf("Public = %v, want %v", cfg.Public, tt.expected.Public)
			}
			if cfg.BlockSize != tt.expected.BlockSize {
				t.Errorf("BlockSize = %v, want %v", cfg.BlockSize, tt.expected.BlockSize)
			}
			if cfg.Timeout != tt.expected.Timeout {
				t.Errorf("Timeout = %v, want %v", cfg.Timeout, tt.expected.Timeout)
			}
			if cfg.LogLevel != tt.expected.LogLevel {
				t.Errorf("LogLevel = %v, want %v", cfg.LogLevel, tt.expected.LogLevel)
			}
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "MEDIASHIP_DEVELOPER_KEY=FROMFILE\nMEDIASHIP_COOKIE=filecookie\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	// Already-set variables win over the file.
	t.Setenv(EnvCookie, "shell")
	t.Setenv(EnvDeveloperKey, "")
	os.Unsetenv(EnvDeveloperKey)

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv() error = %v", err)
	}

	if got := os.Getenv(EnvDeveloperKey); got != "FROMFILE" {
		t.Errorf("%s = %q, want FROMFILE", EnvDeveloperKey, got)
	}
	if got := os.Getenv(EnvCookie); got != "shell" {
		t.Errorf("%s = %q, want shell", EnvCookie, got)
	}
}

func TestLoadDotEnvMissingFile(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Errorf("LoadDotEnv() error = %v, want nil", err)
	}
	if err := LoadDotEnv(""); err != nil {
		t.Errorf("LoadDotEnv(\"\") error = %v, want nil", err)
	}
}
