// Package server exposes graph storage and rendering over HTTP.
//
// Routes:
//
//	GET    /healthz                     liveness probe
//	POST   /api/render                  render a graph blob to an artifact
//	GET    /api/graphs                  list stored graph names
//	GET    /api/graphs/{name}           fetch a stored graph blob
//	PUT    /api/graphs/{name}           store a graph blob
//	DELETE /api/graphs/{name}           delete a stored graph
//	GET    /api/graphs/{name}/render    render a stored graph
//
// Render endpoints take `format` and `engine` query parameters. The engine
// defaults by graph directedness when absent. Artifacts are served with the
// Content-Type matching the format and cached by a hash of the serialized
// DOT text plus the render options.
package server

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/dotforge/pkg/cache"
	"github.com/matzehuels/dotforge/pkg/dot"
	"github.com/matzehuels/dotforge/pkg/errors"
	"github.com/matzehuels/dotforge/pkg/render"
	"github.com/matzehuels/dotforge/pkg/store"
)

// Server handles HTTP requests over a graph store and an artifact cache.
type Server struct {
	store    store.Store
	cache    cache.Cache
	log      *log.Logger
	cacheTTL time.Duration
}

// New creates a server. The cache may be a [cache.NullCache] to disable
// artifact caching.
func New(st store.Store, c cache.Cache, logger *log.Logger, cacheTTL time.Duration) *Server {
	return &Server{store: st, cache: c, log: logger, cacheTTL: cacheTTL}
}

// Router builds the HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/render", s.handleRender)
		r.Route("/graphs", func(r chi.Router) {
			r.Get("/", s.handleList)
			r.Get("/{name}", s.handleGet)
			r.Put("/{name}", s.handlePut)
			r.Delete("/{name}", s.handleDelete)
			r.Get("/{name}/render", s.handleRenderStored)
		})
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleRender renders a graph blob posted in the request body.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body"))
		return
	}

	g, err := dot.Decode(body)
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidGraph, err, "decode graph blob"))
		return
	}

	s.renderGraph(w, r, g)
}

// handleRenderStored renders a graph previously stored under a name.
func (s *Server) handleRenderStored(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	g, err := s.store.Load(r.Context(), name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.renderGraph(w, r, g)
}

func (s *Server) renderGraph(w http.ResponseWriter, r *http.Request, g *dot.Graph) {
	ctx := r.Context()

	format := render.FormatSVG
	if q := r.URL.Query().Get("format"); q != "" {
		var err error
		if format, err = render.ParseFormat(q); err != nil {
			s.writeError(w, err)
			return
		}
	}

	engine := render.DefaultEngine(g.Directed())
	if q := r.URL.Query().Get("engine"); q != "" {
		var err error
		if engine, err = render.ParseEngine(q); err != nil {
			s.writeError(w, err)
			return
		}
	}

	dotText, err := g.Serialize()
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidGraph, err, "serialize graph"))
		return
	}

	key := cache.ArtifactKey(dotText, string(format), string(engine))
	if data, hit, err := s.cache.Get(ctx, key); err == nil && hit {
		w.Header().Set("Content-Type", format.ContentType())
		w.Header().Set("X-Cache", "hit")
		_, _ = w.Write(data)
		return
	}

	data, err := render.Render(ctx, dotText, format, engine)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
		s.log.Warn("cache write failed", "key", key, "error", err)
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("X-Cache", "miss")
	_, _ = w.Write(data)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	names, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"graphs": names})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	g, err := s.store.Load(r.Context(), name)
	if err != nil {
		s.writeError(w, err)
		return
	}

	blob, err := dot.Encode(g)
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "encode graph %s", name))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(blob)
}

func (s *Server) handlePut(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body"))
		return
	}
	g, err := dot.Decode(body)
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidGraph, err, "decode graph blob"))
		return
	}

	if err := s.store.Save(r.Context(), name, g); err != nil {
		s.writeError(w, err)
		return
	}
	s.log.Info("graph saved", "name", name)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := s.store.Delete(r.Context(), name); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps error codes to HTTP status codes and emits a JSON body.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidEngine, errors.ErrCodeInvalidGraph:
		status = http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeGraphNotFound, errors.ErrCodeFileNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeRenderFailed:
		status = http.StatusBadGateway
	}

	if status == http.StatusInternalServerError {
		s.log.Error("request failed", "error", err)
	}
	s.writeJSON(w, status, map[string]string{
		"code":  string(errors.GetCode(err)),
		"error": errors.UserMessage(err),
	})
}
