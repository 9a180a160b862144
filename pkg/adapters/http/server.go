// Package http exposes braid models over HTTP: a JSON call endpoint
// per model, signature inspection, and Prometheus metrics.
package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"braid"
	"braid/pkg/domain"
)

// Server routes HTTP requests to registered models.
//
// Calls to one model are serialized with a per-model mutex: the
// durable strategy does not support concurrent calls, and the lock is
// cheap for the in-memory strategies.
type Server struct {
	models  map[string]*braid.Model
	locks   map[string]*sync.Mutex
	logger  *slog.Logger
	metrics prometheus.Gatherer
}

// Option configures the server.
type Option func(*Server)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics exposes the gatherer at GET /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = g
	}
}

// NewHandler creates the HTTP handler for a set of models keyed by
// name.
func NewHandler(models map[string]*braid.Model, opts ...Option) http.Handler {
	s := &Server{
		models: models,
		locks:  make(map[string]*sync.Mutex, len(models)),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for name := range models {
		s.locks[name] = &sync.Mutex{}
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Get("/models", s.handleList)
	r.Get("/models/{name}", s.handleDescribe)
	r.Post("/models/{name}/call", s.handleCall)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.metrics, promhttp.HandlerOpts{}))
	}
	return r
}

type modelInfo struct {
	Name    string   `json:"name"`
	Inputs  []string `json:"inputs"`
	Outputs []string `json:"outputs"`
}

type callRequest struct {
	Inputs map[string]any `json:"inputs"`
}

type callResponse struct {
	Outputs map[string]any `json:"outputs"`
}

type errorResponse struct {
	Error  string `json:"error"`
	NodeID string `json:"node_id,omitempty"`
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	infos := make([]modelInfo, 0, len(s.models))
	for name, m := range s.models {
		infos = append(infos, modelInfo{Name: name, Inputs: m.Inputs(), Outputs: m.Outputs()})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	writeJSON(w, http.StatusOK, infos)
}

func (s *Server) handleDescribe(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	m, ok := s.models[name]
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "model not found: " + name})
		return
	}
	writeJSON(w, http.StatusOK, modelInfo{Name: name, Inputs: m.Inputs(), Outputs: m.Outputs()})
}

func (s *Server) handleCall(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	m, ok := s.models[name]
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "model not found: " + name})
		return
	}

	var req callRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	lock := s.locks[name]
	lock.Lock()
	result, err := m.Call(r.Context(), req.Inputs)
	lock.Unlock()

	if err != nil {
		s.logger.Error("model call failed", "model", name, "error", err)

		var nodeErr *domain.NodeError
		if errors.As(err, &nodeErr) {
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error(), NodeID: nodeErr.NodeID})
			return
		}
		// Signature violations are caller mistakes; anything else
		// (store open, handler setup) is a server-side fault.
		if errors.Is(err, domain.ErrInvalidInput) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, callResponse{Outputs: shapeOutputs(m.Outputs(), result)})
}

// shapeOutputs re-keys the call result by output name: a single output
// arrives raw, several arrive as a []any in sorted output order.
func shapeOutputs(names []string, result any) map[string]any {
	outputs := make(map[string]any, len(names))
	if len(names) == 1 {
		outputs[names[0]] = result
		return outputs
	}
	values, ok := result.([]any)
	if !ok {
		return outputs
	}
	for i, name := range names {
		if i < len(values) {
			outputs[name] = values[i]
		}
	}
	return outputs
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
