package preview

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/vtree/pkg/render"
	"github.com/vango-dev/vtree/pkg/vdom"
)

// maxBodyBytes limits POST bodies.
const maxBodyBytes = 1 << 20

// DispatchFunc runs a named action against the root instance.
type DispatchFunc func(root *vdom.Instance, action string, args map[string]any) error

// Config configures a preview Server.
type Config struct {
	// Root is the component mounted at startup. Required.
	Root *vdom.Descriptor

	// Props are passed to the root component.
	Props vdom.Props

	// Render configures the document.
	Render render.Config

	// Page wraps the document for GET /.
	Page render.PageData

	// Dispatch handles POST /actions/{name}. Nil disables the route.
	Dispatch DispatchFunc

	// Gatherer is exposed at MetricsPath. Nil disables metrics.
	Gatherer prometheus.Gatherer

	// MetricsPath defaults to "/metrics".
	MetricsPath string

	// AllowedOrigins are accepted for websocket upgrades.
	AllowedOrigins []string

	Logger   *slog.Logger
	Tracer   trace.Tracer
	Recorder vdom.Recorder
}

// Server renders one live component tree and serves it over HTTP.
//
// Every cycle (state change, action) runs under a single mutex; the
// reconciler itself is not safe for concurrent use.
type Server struct {
	config Config
	logger *slog.Logger
	hub    *Hub

	mu      sync.Mutex
	doc     *render.Document
	root    *vdom.Node
	version uint64
}

// New mounts the root component and returns a server for it.
func New(config Config) (*Server, error) {
	if config.Root == nil {
		return nil, errors.New("preview: no root component")
	}
	if config.MetricsPath == "" {
		config.MetricsPath = "/metrics"
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		config:  config,
		logger:  logger,
		hub:     NewHub(config.AllowedOrigins, logger),
		version: 1,
	}
	if err := s.mount(); err != nil {
		return nil, err
	}
	return s, nil
}

// mount builds a fresh document and root instance. Callers hold mu or own s
// exclusively.
func (s *Server) mount() error {
	root, err := vdom.Build(s.config.Root, s.config.Props)
	if err != nil {
		return err
	}

	doc := render.NewDocument(s.config.Render)
	r := vdom.NewReconciler(doc,
		vdom.WithLogger(s.logger),
		vdom.WithTracer(s.config.Tracer),
		vdom.WithRecorder(s.config.Recorder),
	)
	if err := r.RenderRoot(root, doc.Root()); err != nil {
		return fmt.Errorf("preview: mount %s: %w", s.config.Root.Name, err)
	}
	s.doc, s.root = doc, root
	return nil
}

// Reset discards the current tree and mounts the root component again with
// its initial state. Connected clients receive the new markup.
func (s *Server) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.mount(); err != nil {
		s.hub.Broadcast(Message{Type: MessageError, Version: s.version, Error: err.Error()})
		return err
	}
	return s.broadcastLocked()
}

// Handler returns the HTTP routes of the server.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/", s.handlePage)
	r.Get("/fragment", s.handleFragment)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Post("/state", s.handleState)
	r.Post("/reset", func(w http.ResponseWriter, r *http.Request) {
		s.respond(w, s.Reset())
	})
	if s.config.Dispatch != nil {
		r.Post("/actions/{name}", s.handleAction)
	}
	r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		s.hub.HandleWebSocket(w, r, s.snapshot)
	})
	if s.config.Gatherer != nil {
		r.Handle(s.config.MetricsPath, promhttp.HandlerFor(s.config.Gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// requestLogger logs each request at debug level.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("preview: request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// Instance returns the root component instance.
func (s *Server) Instance() *vdom.Instance {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.root.Comp
}

// Version returns the number of committed renders.
func (s *Server) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Hub returns the websocket hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// HTML returns the markup below the document root.
func (s *Server) HTML() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.InnerHTML()
}

// SetState merges partial into the root state and broadcasts the result.
func (s *Server) SetState(partial vdom.State) error {
	return s.cycle(func(root *vdom.Instance) error {
		return root.SetState(partial)
	})
}

// Dispatch runs a named action and broadcasts the result.
func (s *Server) Dispatch(action string, args map[string]any) error {
	if s.config.Dispatch == nil {
		return fmt.Errorf("preview: no dispatcher for %q", action)
	}
	return s.cycle(func(root *vdom.Instance) error {
		return s.config.Dispatch(root, action, args)
	})
}

// cycle runs fn under the lock and broadcasts the outcome.
func (s *Server) cycle(fn func(*vdom.Instance) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := fn(s.root.Comp); err != nil {
		s.hub.Broadcast(Message{Type: MessageError, Version: s.version, Error: err.Error()})
		return err
	}
	return s.broadcastLocked()
}

func (s *Server) broadcastLocked() error {
	html, err := s.doc.InnerHTML()
	if err != nil {
		return err
	}
	s.version++
	s.hub.Broadcast(Message{Type: MessageHTML, Version: s.version, HTML: html})
	return nil
}

func (s *Server) snapshot() Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	html, err := s.doc.InnerHTML()
	if err != nil {
		return Message{Type: MessageError, Version: s.version, Error: err.Error()}
	}
	return Message{Type: MessageHTML, Version: s.version, HTML: html}
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	page := s.config.Page
	page.Scripts = append(append([]string(nil), page.Scripts...), clientScript)

	var buf bytes.Buffer
	s.mu.Lock()
	err := s.doc.WritePage(&buf, page)
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (s *Server) handleFragment(w http.ResponseWriter, r *http.Request) {
	html, err := s.HTML()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, html)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	var partial map[string]any
	if err := decodeBody(r, &partial); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	s.respond(w, s.SetState(partial))
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	args := map[string]any{}
	if r.ContentLength != 0 {
		if err := decodeBody(r, &args); err != nil {
			s.writeError(w, http.StatusBadRequest, err)
			return
		}
	}
	s.respond(w, s.Dispatch(chi.URLParam(r, "name"), args))
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// respond writes the cycle result. Failures raised by component code map to
// 422; target failures are server errors.
func (s *Server) respond(w http.ResponseWriter, err error) {
	if err == nil {
		writeJSON(w, http.StatusOK, map[string]any{"version": s.Version()})
		return
	}
	status := http.StatusUnprocessableEntity
	if errors.Is(err, vdom.ErrNoTarget) || errors.Is(err, render.ErrForeignAnchor) {
		status = http.StatusInternalServerError
	}
	s.writeError(w, status, err)
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if status >= 500 {
		s.logger.Error("preview: request failed", "status", status, "error", err)
	}
	writeJSON(w, status, map[string]any{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Close disconnects websocket clients.
func (s *Server) Close() {
	s.hub.Close()
}
