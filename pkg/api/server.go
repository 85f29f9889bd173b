package api

import (
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/matzehuels/flowedit/pkg/cache"
	"github.com/matzehuels/flowedit/pkg/editor"
	"github.com/matzehuels/flowedit/pkg/errors"
	"github.com/matzehuels/flowedit/pkg/flow"
	"github.com/matzehuels/flowedit/pkg/flow/bounds"
	"github.com/matzehuels/flowedit/pkg/graph"
	"github.com/matzehuels/flowedit/pkg/render/nodelink"
)

// maxEventBytes bounds a single POST /events body.
const maxEventBytes = 1 << 20

// Options configures a Server.
type Options struct {
	// Logger receives request logs. Nil discards them.
	Logger *log.Logger

	// AllowedOrigins lists origins permitted by CORS. Empty allows none.
	AllowedOrigins []string

	// Metrics, if set, is served at GET /metrics.
	Metrics http.Handler

	// Renders caches GET /export.svg output by DOT source. Nil renders on
	// every request.
	Renders cache.Cache
}

// Server serves one editor controller.
type Server struct {
	mu     sync.Mutex
	ctrl   *editor.Controller
	logger *log.Logger
	opts   Options
}

// New creates a server for ctrl.
func New(ctrl *editor.Controller, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Server{ctrl: ctrl, logger: logger, opts: opts}
}

// Handler returns the HTTP handler with all routes and middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger(s.logger))
	if len(s.opts.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.opts.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
	}

	r.Get("/health", s.health)
	r.Get("/state", s.state)
	r.Post("/events", s.events)
	r.Get("/document", s.document)
	r.Get("/export.dot", s.exportDOT)
	r.Get("/export.svg", s.exportSVG)
	if s.opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.opts.Metrics)
	}
	return r
}

// StateResponse is the body of GET /state.
type StateResponse struct {
	Nodes            []graph.Node    `json:"nodes"`
	Edges            []graph.Edge    `json:"edges"`
	CanUndo          bool            `json:"canUndo"`
	CanRedo          bool            `json:"canRedo"`
	LayoutInProgress bool            `json:"layoutInProgress"`
	Viewport         bounds.Viewport `json:"viewport"`
	Dragging         string          `json:"dragging,omitempty"`
}

// EventResponse is the body of POST /events.
type EventResponse struct {
	Outcome editor.Outcome `json:"outcome"`
	State   StateResponse  `json:"state"`
}

type errorBody struct {
	Error struct {
		Code    errors.Code `json:"code"`
		Message string      `json:"message"`
	} `json:"error"`
}

// Load replaces the diagram with g and clears the undo history.
func (s *Server) Load(g flow.Graph) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctrl.Load(g)
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) state(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	resp := s.snapshot()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) events(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxEventBytes))
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body"))
		return
	}
	ev, err := editor.ParseEvent(data)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.mu.Lock()
	out, err := s.ctrl.Dispatch(ev)
	resp := EventResponse{Outcome: out, State: s.snapshot()}
	s.mu.Unlock()

	if err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Debug("event", "type", ev.Type, "applied", out.Applied, "committed", out.Committed)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) document(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	vp := s.ctrl.Viewport()
	doc := graph.FromFlow(s.ctrl.Graph(), &vp)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) exportDOT(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, s.dot())
}

func (s *Server) exportSVG(w http.ResponseWriter, r *http.Request) {
	svg, hit, err := nodelink.RenderSVGCached(r.Context(), s.opts.Renders, s.dot())
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	if hit {
		w.Header().Set("X-Cache", "hit")
	}
	w.WriteHeader(http.StatusOK)
	w.Write(svg)
}

func (s *Server) dot() string {
	s.mu.Lock()
	g := s.ctrl.Graph()
	s.mu.Unlock()
	return nodelink.ToDOT(g, nodelink.Options{})
}

// snapshot must be called with s.mu held.
func (s *Server) snapshot() StateResponse {
	st := s.ctrl.State()
	doc := graph.FromFlow(s.ctrl.Graph(), nil)
	return StateResponse{
		Nodes:            doc.Nodes,
		Edges:            doc.Edges,
		CanUndo:          st.CanUndo,
		CanRedo:          st.CanRedo,
		LayoutInProgress: st.LayoutInProgress,
		Viewport:         st.Viewport,
		Dragging:         st.Dragging,
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	var body errorBody
	body.Error.Code = code
	body.Error.Message = errors.UserMessage(err)
	writeJSON(w, status, body)
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidEvent, errors.ErrCodeInvalidDocument,
		errors.ErrCodeInvalidGraph, errors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// requestLogger logs each request at debug level.
func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Debug("http",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", chimiddleware.GetReqID(r.Context()),
			)
		})
	}
}
