package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/archscope/pkg/arch"
	"github.com/matzehuels/archscope/pkg/errors"
	"github.com/matzehuels/archscope/pkg/graph"
	"github.com/matzehuels/archscope/pkg/layout"
	"github.com/matzehuels/archscope/pkg/pipeline"
	"github.com/matzehuels/archscope/pkg/smell"
)

type handler struct {
	src           Source
	force         layout.ForceOptions
	maxIterations int
	runner        *pipeline.Runner
	instance      string
}

// HealthResponse is the body of GET /healthz. Instance changes on every
// server start.
type HealthResponse struct {
	Status   string `json:"status"`
	Revision uint64 `json:"revision"`
	Instance string `json:"instance"`
}

// ComponentResponse is the body of GET /api/v1/components/{id}.
type ComponentResponse struct {
	Component graph.Node   `json:"component"`
	Outgoing  []graph.Edge `json:"outgoing"`
	Incoming  []graph.Edge `json:"incoming"`
	Smells    []smell.Pair `json:"smells"`
}

type errorBody struct {
	Error struct {
		Code    errors.Code `json:"code"`
		Message string      `json:"message"`
	} `json:"error"`
}

func (h *handler) getHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:   "ok",
		Revision: h.src.Snapshot().Revision,
		Instance: h.instance,
	})
}

func (h *handler) getGraph(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, graph.FromSnapshot(h.src.Snapshot()))
}

func (h *handler) getComponent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	snap := h.src.Snapshot()

	c, ok := snap.Component(id)
	if !ok {
		writeError(w, errors.New(errors.ErrCodeNotFound, "component %q not found", id))
		return
	}

	var pairs []smell.Pair
	for _, p := range smell.DetectCycles(snap) {
		if p.Involves(id) {
			pairs = append(pairs, p)
		}
	}

	resp := ComponentResponse{
		Component: graph.Node{ID: c.ID, Name: c.Name, Metadata: c.Metadata, Smell: len(pairs) > 0},
		Outgoing:  toEdges(snap.Outgoing(id), pairs),
		Incoming:  toEdges(snap.Incoming(id), pairs),
		Smells:    pairs,
	}
	if resp.Smells == nil {
		resp.Smells = []smell.Pair{}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) getSmells(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, smell.NewReport(h.src.Snapshot()))
}

func (h *handler) getLayout(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	if err := graph.ValidateVizType(kind); err != nil {
		writeError(w, err)
		return
	}

	opts, err := h.forceOptions(r)
	if err != nil {
		writeError(w, err)
		return
	}

	l, hit, err := h.runner.GenerateLayoutWithCacheInfo(r.Context(), h.src.Snapshot(), pipeline.Options{
		VizType: kind,
		Force:   opts,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	if hit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	writeJSON(w, http.StatusOK, l)
}

// forceOptions applies ?seed= and ?iterations= on top of the defaults.
// Iterations above h.maxIterations are rejected.
func (h *handler) forceOptions(r *http.Request) (layout.ForceOptions, error) {
	opts := h.force
	q := r.URL.Query()
	if v := q.Get("seed"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "seed must be a non-negative integer, got %q", v)
		}
		opts.Seed = seed
	}
	if v := q.Get("iterations"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return opts, errors.New(errors.ErrCodeInvalidInput, "iterations must be a positive integer, got %q", v)
		}
		if n > h.maxIterations {
			return opts, errors.New(errors.ErrCodeInvalidInput, "iterations must be at most %d, got %d", h.maxIterations, n)
		}
		opts.Iterations = n
	}
	return opts, nil
}

func toEdges(rels []arch.Relationship, pairs []smell.Pair) []graph.Edge {
	out := make([]graph.Edge, len(rels))
	for i, r := range rels {
		e := graph.Edge{From: r.From, To: r.To, Type: r.Type}
		for _, p := range pairs {
			if p.Matches(r.From, r.To) {
				e.Smell = true
				break
			}
		}
		out[i] = e
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeErrorStatus(w, errors.HTTPStatus(err), err)
}

func writeErrorStatus(w http.ResponseWriter, status int, err error) {
	var body errorBody
	body.Error.Code = errors.GetCode(err)
	if body.Error.Code == "" {
		body.Error.Code = errors.ErrCodeInternal
	}
	body.Error.Message = errors.UserMessage(err)
	writeJSON(w, status, body)
}
