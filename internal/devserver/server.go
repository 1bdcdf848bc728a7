// Package devserver is a local stand-in for the media service. It speaks
// the start/put protocol and keeps received bytes in memory.
package devserver

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/bft-labs/mediaship/internal/ports"
)

// DefaultBasePath matches the public service's API prefix.
const DefaultBasePath = "/renderapi"

// Session is what the server knows about one upload.
type Session struct {
	ID       string
	Filename string
	Tags     []string
	Public   bool
	Total    int64
	Data     []byte
}

// Complete reports whether every announced byte has arrived.
func (s Session) Complete() bool {
	return s.Total > 0 && int64(len(s.Data)) == s.Total
}

// Config controls a Server.
type Config struct {
	BasePath string
	// DeveloperKey, when set, is the only key /start accepts.
	DeveloperKey string
}

// Server implements the upload protocol over chi.
type Server struct {
	cfg    Config
	logger ports.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

// New creates a Server.
func New(cfg Config, logger ports.Logger) *Server {
	if cfg.BasePath == "" {
		cfg.BasePath = DefaultBasePath
	}
	cfg.BasePath = "/" + strings.Trim(cfg.BasePath, "/")
	return &Server{cfg: cfg, logger: logger, sessions: make(map[string]*Session)}
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Route(s.cfg.BasePath, func(r chi.Router) {
		r.Post("/start", s.start)
		r.Head("/put/{sessionID}", s.length)
		r.Put("/put/{sessionID}", s.put)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return r
}

// Session returns a copy of the session with the given id.
func (s *Server) Session(id string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, false
	}
	cp := *sess
	cp.Data = append([]byte(nil), sess.Data...)
	cp.Tags = append([]string(nil), sess.Tags...)
	return cp, true
}

// Truncate drops everything after the first n bytes of a session, as if the
// connection had broken there.
func (s *Server) Truncate(id string, n int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok || n < 0 || n > int64(len(sess.Data)) {
		return false
	}
	sess.Data = sess.Data[:n]
	return true
}

type uploadInfo struct {
	XMLName xml.Name `xml:"uploadInfo"`
	PutURL  string   `xml:"putURL,attr"`
}

type uploadStatus struct {
	XMLName  xml.Name `xml:"upload"`
	ID       string   `xml:"id,attr"`
	Received int64    `xml:"received,attr"`
	Total    int64    `xml:"total,attr"`
	Complete bool     `xml:"complete,attr"`
}

func (s *Server) start(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed form", http.StatusBadRequest)
		return
	}
	filename := r.PostForm.Get("filename")
	key := r.PostForm.Get("key")
	if filename == "" || key == "" {
		http.Error(w, "filename and key are required", http.StatusBadRequest)
		return
	}
	if s.cfg.DeveloperKey != "" && key != s.cfg.DeveloperKey {
		http.Error(w, "invalid developer key", http.StatusForbidden)
		return
	}
	if (r.PostForm.Get("a_username") == "") != (r.PostForm.Get("a_password") == "") {
		http.Error(w, "incomplete credentials", http.StatusBadRequest)
		return
	}

	sess := &Session{
		ID:       uuid.NewString(),
		Filename: filename,
		Public:   r.PostForm.Get("public") == "True",
	}
	if tags := r.PostForm.Get("tags"); tags != "" {
		sess.Tags = strings.Split(tags, ",")
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	putURL := scheme + "://" + r.Host + path.Join(s.cfg.BasePath, "put", sess.ID)

	s.logger.Info("session opened",
		ports.String("session_id", sess.ID),
		ports.String("filename", filename),
	)
	writeXML(w, http.StatusOK, uploadInfo{PutURL: putURL})
}

func (s *Server) length(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	sess, ok := s.sessions[chi.URLParam(r, "sessionID")]
	var n int
	if ok {
		n = len(sess.Data)
	}
	s.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Length", strconv.Itoa(n))
	w.WriteHeader(http.StatusOK)
}

func (s *Server) put(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	cr, err := parseContentRange(r.Header.Get("Content-Range"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "read body", http.StatusBadRequest)
		return
	}
	if int64(len(body)) != cr.length() {
		http.Error(w, fmt.Sprintf("body has %d bytes, range announces %d", len(body), cr.length()), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		http.Error(w, "unknown session", http.StatusNotFound)
		return
	}
	if sess.Total != 0 && sess.Total != cr.total {
		http.Error(w, "total size changed", http.StatusBadRequest)
		return
	}
	if !cr.empty && cr.begin > int64(len(sess.Data)) {
		http.Error(w, "range leaves a gap", http.StatusRequestedRangeNotSatisfiable)
		return
	}

	sess.Total = cr.total
	if !cr.empty {
		sess.Data = append(sess.Data[:cr.begin], body...)
	}

	s.logger.Debug("range stored",
		ports.String("session_id", id),
		ports.Int64("received", int64(len(sess.Data))),
		ports.Int64("total", sess.Total),
	)
	writeXML(w, http.StatusOK, uploadStatus{
		ID:       id,
		Received: int64(len(sess.Data)),
		Total:    sess.Total,
		Complete: sess.Complete(),
	})
}

func writeXML(w http.ResponseWriter, status int, v interface{}) {
	out, err := xml.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/xml; charset=utf-8")
	w.WriteHeader(status)
	io.WriteString(w, xml.Header)
	w.Write(out)
}

// contentRange is a parsed "bytes b-e/total" or "bytes */total" header.
type contentRange struct {
	begin, end, total int64
	empty             bool
}

func (c contentRange) length() int64 {
	if c.empty {
		return 0
	}
	return c.end - c.begin + 1
}

func parseContentRange(h string) (contentRange, error) {
	value, ok := strings.CutPrefix(strings.TrimSpace(h), "bytes ")
	if !ok {
		return contentRange{}, errors.New("missing or malformed Content-Range")
	}
	rng, totalStr, ok := strings.Cut(value, "/")
	if !ok {
		return contentRange{}, errors.New("Content-Range has no total")
	}
	total, err := strconv.ParseInt(totalStr, 10, 64)
	if err != nil || total < 0 {
		return contentRange{}, errors.New("invalid Content-Range total")
	}
	if rng == "*" {
		return contentRange{total: total, empty: true}, nil
	}

	b, e, ok := strings.Cut(rng, "-")
	if !ok {
		return contentRange{}, errors.New("invalid Content-Range span")
	}
	begin, err1 := strconv.ParseInt(b, 10, 64)
	end, err2 := strconv.ParseInt(e, 10, 64)
	if err1 != nil || err2 != nil || begin < 0 || end < begin || end >= total {
		return contentRange{}, errors.New("invalid Content-Range span")
	}
	return contentRange{begin: begin, end: end, total: total}, nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			s.logger.Debug("http_request",
				ports.String("request_id", middleware.GetReqID(r.Context())),
				ports.String("method", r.Method),
				ports.String("path", r.URL.Path),
				ports.Int("status", ww.Status()),
				ports.Duration("duration", time.Since(start)),
			)
		}()
		next.ServeHTTP(ww, r)
	})
}
