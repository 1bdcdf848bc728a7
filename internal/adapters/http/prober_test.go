package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bft-labs/mediaship/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbeReadsContentLength(t *testing.T) {
	tests := []struct {
		name   string
		length string
		want   int64
	}{
		{name: "partial", length: "4096", want: 4096},
		{name: "nothing received", length: "0", want: 0},
		{name: "large", length: "8589934592", want: 8589934592},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodHead, r.Method)
				assert.Equal(t, "/renderapi/put/abc123", r.URL.Path)
				w.Header().Set("Content-Length", tt.length)
			}))
			defer srv.Close()

			p := NewProber(srv.Client(), mustEndpoint(t, srv.URL+"/renderapi"), noopLogger())
			got, err := p.Probe(context.Background(), "http://render1.imageshack.us:8080/renderapi/put/abc123")

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProbeMissingHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := NewProber(srv.Client(), mustEndpoint(t, srv.URL), noopLogger())
	_, err := p.Probe(context.Background(), srv.URL+"/put/abc123")

	var serverErr *domain.ServerError
	require.True(t, errors.As(err, &serverErr), "want ServerError, got %v", err)
	assert.Equal(t, domain.CodeWrongHeaders, serverErr.Code)
	assert.Equal(t, "Wrong server headers response", serverErr.Message)
}

func TestProbeMalformedHeader(t *testing.T) {
	tests := []string{"abc", "-5", "12.5"}

	for _, value := range tests {
		t.Run(value, func(t *testing.T) {
			client := roundTripFunc(func(req *http.Request) (*http.Response, error) {
				return &http.Response{
					Status:     "200 OK",
					StatusCode: http.StatusOK,
					Header:     http.Header{"Content-Length": []string{value}},
					Body:       http.NoBody,
					Request:    req,
				}, nil
			})

			p := NewProber(client, mustEndpoint(t, "http://localhost/renderapi"), noopLogger())
			_, err := p.Probe(context.Background(), "http://localhost/renderapi/put/abc123")

			var serverErr *domain.ServerError
			require.True(t, errors.As(err, &serverErr), "want ServerError, got %v", err)
			assert.Equal(t, domain.CodeWrongHeaders, serverErr.Code)
		})
	}
}

func TestProbeUnknownSession(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	p := NewProber(srv.Client(), mustEndpoint(t, srv.URL), noopLogger())
	_, err := p.Probe(context.Background(), srv.URL+"/put/missing")

	var serverErr *domain.ServerError
	require.True(t, errors.As(err, &serverErr), "want ServerError, got %v", err)
	assert.Equal(t, "404", serverErr.Code)
	assert.Equal(t, "Not Found", serverErr.Message)
}

func TestProbeUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := mustEndpoint(t, srv.URL)
	srv.Close()

	p := NewProber(DefaultHTTPClient(), endpoint, noopLogger())
	_, err := p.Probe(context.Background(), "http://example.com/put/abc123")

	assert.True(t, errors.Is(err, domain.ErrTransport), "want ErrTransport, got %v", err)
}

func TestProbeInvalidSessionURL(t *testing.T) {
	client := roundTripFunc(func(*http.Request) (*http.Response, error) {
		t.Fatal("no request expected")
		return nil, nil
	})

	p := NewProber(client, mustEndpoint(t, "http://localhost"), noopLogger())
	for _, raw := range []string{"", "http://host/", "://bad"} {
		_, err := p.Probe(context.Background(), raw)
		assert.ErrorIs(t, err, domain.ErrInvalidSessionURL, "session url %q", raw)
	}
}
