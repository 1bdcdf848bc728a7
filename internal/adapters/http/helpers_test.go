package http

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/bft-labs/mediaship/pkg/log"
	"github.com/stretchr/testify/require"
)

// roundTripFunc lets a test answer requests without a server.
type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) Do(req *http.Request) (*http.Response, error) { return f(req) }

// writeTestFile creates a file of n bytes with a repeating, non-trivial
// pattern so misplaced offsets show up in comparisons.
func writeTestFile(t *testing.T, n int) (string, []byte) {
	t.Helper()
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i % 251)
	}
	path := filepath.Join(t.TempDir(), "media.bin")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path, data
}

func mustEndpoint(t *testing.T, raw string) Endpoint {
	t.Helper()
	e, err := ParseEndpoint(raw)
	require.NoError(t, err)
	return e
}

func noopLogger() log.Logger { return log.NewNoopLogger() }
