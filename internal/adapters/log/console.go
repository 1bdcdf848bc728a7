package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bft-labs/mediaship/internal/ports"
	pkglog "github.com/bft-labs/mediaship/pkg/log"
)

// DefaultLevel is used when no level is configured.
const DefaultLevel = "info"

// Console is the CLI's logger: human-readable zerolog output exposed both as
// a zerolog.Logger for the command layer and as ports.Logger for the core.
type Console struct {
	zl zerolog.Logger
}

// NewConsole creates a Console writing to out (stderr when nil) at the given
// level. It also sets zerolog's global level so every logger derived from
// the process agrees.
func NewConsole(out io.Writer, level string) (*Console, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = os.Stderr
	}
	zerolog.SetGlobalLevel(lvl)

	w := zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	return &Console{zl: zerolog.New(w).Level(lvl).With().Timestamp().Logger()}, nil
}

// ParseLevel maps a level name to a zerolog level. An empty name is
// DefaultLevel.
func ParseLevel(level string) (zerolog.Level, error) {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "" {
		level = DefaultLevel
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q", level)
	}
	return lvl, nil
}

// Zerolog returns the underlying logger.
func (c *Console) Zerolog() zerolog.Logger {
	return c.zl
}

// Ports returns the logger handed to internal packages.
func (c *Console) Ports() ports.Logger {
	return pkglog.NewZerologAdapterWithLogger(c.zl)
}
