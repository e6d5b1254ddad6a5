package server

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/archscope/pkg/arch"
	"github.com/matzehuels/archscope/pkg/cache"
	"github.com/matzehuels/archscope/pkg/errors"
	"github.com/matzehuels/archscope/pkg/layout"
	"github.com/matzehuels/archscope/pkg/pipeline"
)

// Source provides the snapshots the API serves. *arch.Store implements it.
type Source interface {
	Snapshot() arch.Snapshot
}

// DefaultMaxIterations bounds ?iterations= when NewRouter is given a
// non-positive limit.
const DefaultMaxIterations = 1000

// NewRouter builds the chi router for the API. force holds the layout
// options used when a request does not override them, and maxIterations
// is the largest ?iterations= a request may ask for. Layouts are cached
// in c, keyed by snapshot content and options; a nil c caches in memory.
func NewRouter(src Source, force layout.ForceOptions, maxIterations int, c cache.Cache, logger *log.Logger) http.Handler {
	if c == nil {
		c = cache.NewMemoryCache(0)
	}
	if maxIterations < 1 {
		maxIterations = DefaultMaxIterations
	}
	h := &handler{
		src:           src,
		force:         force,
		maxIterations: maxIterations,
		runner:        pipeline.NewRunner(c, nil, logger),
		instance:      uuid.NewString(),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, errors.New(errors.ErrCodeNotFound, "no route for %s", r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeErrorStatus(w, http.StatusMethodNotAllowed,
			errors.New(errors.ErrCodeUnsupported, "method %s not allowed on %s", r.Method, r.URL.Path))
	})

	r.Get("/healthz", h.getHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/graph", h.getGraph)
		r.Get("/components/{id}", h.getComponent)
		r.Get("/smells", h.getSmells)
		r.Get("/layout/{kind}", h.getLayout)
	})
	return r
}
