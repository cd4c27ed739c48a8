package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/yourusername/maiaengine/internal/evalstore"
	"github.com/yourusername/maiaengine/pkg/engine"
)

// Handlers holds the HTTP handlers and engine reference.
type Handlers struct {
	engine  *engine.Engine
	store   *evalstore.Store
	version string
	pool    *WorkerPool
}

// NewHandlers creates a new Handlers instance without a worker pool.
func NewHandlers(e *engine.Engine, version string) *Handlers {
	return &Handlers{
		engine:  e,
		version: version,
	}
}

// NewHandlersWithPool creates a new Handlers instance with a worker pool
// and an optional persistent result store.
func NewHandlersWithPool(e *engine.Engine, store *evalstore.Store, version string, pool *WorkerPool) *Handlers {
	return &Handlers{
		engine:  e,
		store:   store,
		version: version,
		pool:    pool,
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, msg string, code string) {
	writeJSON(w, status, ErrorResponse{
		Error: msg,
		Code:  code,
	})
}

// writeEvalError maps an engine error to an HTTP error response.
func writeEvalError(w http.ResponseWriter, err error) {
	if errors.Is(err, engine.ErrInvalidFEN) {
		writeError(w, http.StatusBadRequest, err.Error(), "INVALID_FEN")
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error(), "EVAL_ERROR")
}

// Health handles GET /api/health
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:  "ok",
		Version: h.version,
		Ready:   h.engine != nil,
	}

	// Include pool stats if available
	if h.pool != nil {
		stats := h.pool.Stats()
		resp.Pool = &stats
	}

	writeJSON(w, http.StatusOK, resp)
}

// Evaluate handles POST /api/evaluate
func (h *Handlers) Evaluate(w http.ResponseWriter, r *http.Request) {
	// Acquire fast worker slot if pool is configured
	if h.pool != nil {
		if err := h.pool.AcquireFast(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "server busy", "SERVER_BUSY")
			return
		}
		defer h.pool.ReleaseFast()
	}

	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON", "INVALID_JSON")
		return
	}

	if req.FEN == "" {
		writeError(w, http.StatusBadRequest, "fen is required", "MISSING_FEN")
		return
	}

	if h.engine == nil {
		writeError(w, http.StatusServiceUnavailable, "no model loaded", "NO_MODEL")
		return
	}

	// Stored results skip inference entirely.
	if h.store != nil {
		if rec, err := h.store.Get(req.FEN, req.EloSelf, req.EloOppo); err == nil {
			writeJSON(w, http.StatusOK, storedToResponse(rec))
			return
		}
	}

	ev, err := h.engine.EvaluateFEN(req.FEN, req.EloSelf, req.EloOppo)
	if err != nil {
		writeEvalError(w, err)
		return
	}

	if h.store != nil {
		if err := h.store.Put(recordFrom(&req, ev)); err != nil {
			log.Printf("evalstore put failed: %v", err)
		}
	}

	writeJSON(w, http.StatusOK, EvalToResponse(req.FEN, ev))
}

// EvaluateBatch handles POST /api/evaluate/batch
func (h *Handlers) EvaluateBatch(w http.ResponseWriter, r *http.Request) {
	// Batches hold the session longer, so they use the slow pool
	if h.pool != nil {
		if err := h.pool.AcquireSlow(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "server busy", "SERVER_BUSY")
			return
		}
		defer h.pool.ReleaseSlow()
	}

	var req BatchEvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON", "INVALID_JSON")
		return
	}

	if len(req.Positions) == 0 {
		writeError(w, http.StatusBadRequest, "positions array is required", "MISSING_POSITIONS")
		return
	}
	for i, p := range req.Positions {
		if p.FEN == "" {
			writeError(w, http.StatusBadRequest,
				fmt.Sprintf("positions[%d]: fen is required", i), "MISSING_FEN")
			return
		}
	}

	if h.engine == nil {
		writeError(w, http.StatusServiceUnavailable, "no model loaded", "NO_MODEL")
		return
	}

	fens := make([]string, len(req.Positions))
	eloSelfs := make([]int, len(req.Positions))
	eloOppos := make([]int, len(req.Positions))
	for i, p := range req.Positions {
		fens[i] = p.FEN
		eloSelfs[i] = p.EloSelf
		eloOppos[i] = p.EloOppo
	}

	evals, err := h.engine.EvaluateBatchFEN(fens, eloSelfs, eloOppos)
	if err != nil {
		writeEvalError(w, err)
		return
	}

	resp := BatchEvaluateResponse{Results: make([]EvaluateResponse, len(evals))}
	for i, ev := range evals {
		resp.Results[i] = EvalToResponse(fens[i], ev)
		if h.store != nil {
			if err := h.store.Put(recordFrom(&req.Positions[i], ev)); err != nil {
				log.Printf("evalstore put failed: %v", err)
			}
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// recordFrom builds a store record from a request and its result.
func recordFrom(req *EvaluateRequest, ev *engine.Evaluation) *evalstore.Record {
	policy := make([]evalstore.MoveProbability, len(ev.Policy))
	for i, mp := range ev.Policy {
		policy[i] = evalstore.MoveProbability{UCI: mp.UCI, Probability: mp.Probability}
	}
	return &evalstore.Record{
		FEN:     req.FEN,
		EloSelf: req.EloSelf,
		EloOppo: req.EloOppo,
		WinProb: ev.WinProb,
		Policy:  policy,
	}
}

// storedToResponse converts a store record back to an API response.
func storedToResponse(rec *evalstore.Record) EvaluateResponse {
	policy := make([]MoveProbabilityResponse, len(rec.Policy))
	for i, mp := range rec.Policy {
		policy[i] = MoveProbabilityResponse{UCI: mp.UCI, Probability: mp.Probability}
	}
	return EvaluateResponse{
		FEN:     rec.FEN,
		WinProb: rec.WinProb,
		Policy:  policy,
		Cached:  true,
	}
}
