package devserver

import (
	"encoding/xml"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/mediaship/pkg/log"
)

func newTestServer(t *testing.T, cfg Config) (*Server, *httptest.Server) {
	t.Helper()
	s := New(cfg, log.NewNoopLogger())
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func openSession(t *testing.T, ts *httptest.Server, form url.Values) string {
	t.Helper()
	resp, err := http.PostForm(ts.URL+"/renderapi/start", form)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var info uploadInfo
	require.NoError(t, xml.NewDecoder(resp.Body).Decode(&info))
	require.True(t, strings.HasPrefix(info.PutURL, ts.URL+"/renderapi/put/"), info.PutURL)
	return info.PutURL
}

func put(t *testing.T, target, contentRange, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPut, target, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Range", contentRange)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return resp
}

func head(t *testing.T, target string) *http.Response {
	t.Helper()
	resp, err := http.Head(target)
	require.NoError(t, err)
	resp.Body.Close()
	return resp
}

func TestStartPutAndProbe(t *testing.T) {
	s, ts := newTestServer(t, Config{})
	putURL := openSession(t, ts, url.Values{
		"filename": {"a.jpg"},
		"key":      {"K"},
		"tags":     {"x,y"},
		"public":   {"True"},
	})
	id := path.Base(putURL)

	resp := head(t, putURL)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "0", resp.Header.Get("Content-Length"))

	resp = put(t, putURL, "bytes 0-4/10", "hello")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "5", head(t, putURL).Header.Get("Content-Length"))

	resp = put(t, putURL, "bytes 5-9/10", "world")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	sess, ok := s.Session(id)
	require.True(t, ok)
	assert.Equal(t, "a.jpg", sess.Filename)
	assert.Equal(t, []string{"x", "y"}, sess.Tags)
	assert.True(t, sess.Public)
	assert.Equal(t, "helloworld", string(sess.Data))
	assert.True(t, sess.Complete())
}

func TestStartRejectsBadRequests(t *testing.T) {
	_, ts := newTestServer(t, Config{DeveloperKey: "GOOD"})

	resp, err := http.PostForm(ts.URL+"/renderapi/start", url.Values{"filename": {"a.jpg"}})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.PostForm(ts.URL+"/renderapi/start", url.Values{"filename": {"a.jpg"}, "key": {"BAD"}})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestPutRejectsGapsAndMismatches(t *testing.T) {
	_, ts := newTestServer(t, Config{})
	putURL := openSession(t, ts, url.Values{"filename": {"a.jpg"}, "key": {"K"}})

	assert.Equal(t, http.StatusRequestedRangeNotSatisfiable, put(t, putURL, "bytes 3-4/10", "lo").StatusCode)
	assert.Equal(t, http.StatusBadRequest, put(t, putURL, "bytes 0-4/10", "hi").StatusCode)
	assert.Equal(t, http.StatusBadRequest, put(t, putURL, "0-4/10", "hello").StatusCode)
	assert.Equal(t, http.StatusNotFound, put(t, ts.URL+"/renderapi/put/nope", "bytes 0-4/10", "hello").StatusCode)
	assert.Equal(t, http.StatusNotFound, head(t, ts.URL+"/renderapi/put/nope").StatusCode)
}

func TestPutOverlappingResume(t *testing.T) {
	s, ts := newTestServer(t, Config{})
	putURL := openSession(t, ts, url.Values{"filename": {"a.jpg"}, "key": {"K"}})
	id := path.Base(putURL)

	put(t, putURL, "bytes 0-9/10", "0123456789")
	require.True(t, s.Truncate(id, 4))
	assert.Equal(t, "4", head(t, putURL).Header.Get("Content-Length"))

	resp := put(t, putURL, "bytes 4-9/10", "456789")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	sess, _ := s.Session(id)
	assert.Equal(t, "0123456789", string(sess.Data))
}

func TestParseContentRange(t *testing.T) {
	tests := []struct {
		in      string
		want    contentRange
		wantErr bool
	}{
		{in: "bytes 0-9999/10000", want: contentRange{begin: 0, end: 9999, total: 10000}},
		{in: "bytes */10000", want: contentRange{total: 10000, empty: true}},
		{in: "bytes 0-10000/10000", wantErr: true},
		{in: "bytes 5-4/10", wantErr: true},
		{in: "bytes 0-4", wantErr: true},
		{in: "items 0-4/10", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := parseContentRange(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
