// Package api provides the HTTP/JSON REST API for the evaluation engine.
package api

import "github.com/yourusername/maiaengine/pkg/engine"

// ============================================================================
// Request Types
// ============================================================================

// EvaluateRequest is the request body for single-position evaluation.
type EvaluateRequest struct {
	FEN     string `json:"fen"`      // Position in FEN notation
	EloSelf int    `json:"elo_self"` // Rating of the player to move
	EloOppo int    `json:"elo_oppo"` // Rating of the opponent
}

// BatchEvaluateRequest is the request body for batch evaluation.
type BatchEvaluateRequest struct {
	Positions []EvaluateRequest `json:"positions"` // Positions to evaluate, order preserved
}

// ============================================================================
// Response Types
// ============================================================================

// MoveProbabilityResponse is one move of a returned policy.
type MoveProbabilityResponse struct {
	UCI         string  `json:"uci"`         // Move in UCI notation (e.g. "e2e4")
	Probability float32 `json:"probability"` // Model probability for this move
}

// EvaluateResponse is the response for position evaluation.
type EvaluateResponse struct {
	FEN     string                    `json:"fen"`              // Position evaluated
	WinProb float32                   `json:"win_prob"`         // P(win) for the side to move, 0..1
	Policy  []MoveProbabilityResponse `json:"policy"`           // Legal moves, best first
	Cached  bool                      `json:"cached,omitempty"` // Served from the persistent store
}

// BatchEvaluateResponse is the response for batch evaluation.
type BatchEvaluateResponse struct {
	Results []EvaluateResponse `json:"results"` // One result per requested position
}

// ErrorResponse is returned when an error occurs.
type ErrorResponse struct {
	Error string `json:"error"`          // Error message
	Code  string `json:"code,omitempty"` // Error code
}

// HealthResponse is the response for health check.
type HealthResponse struct {
	Status  string     `json:"status"`         // "ok" or "error"
	Version string     `json:"version"`        // Engine version
	Ready   bool       `json:"ready"`          // Whether the model is loaded
	Pool    *PoolStats `json:"pool,omitempty"` // Worker pool statistics
}

// ============================================================================
// Helper Functions
// ============================================================================

// EvalToResponse converts an engine Evaluation to an API response.
func EvalToResponse(fen string, ev *engine.Evaluation) EvaluateResponse {
	policy := make([]MoveProbabilityResponse, len(ev.Policy))
	for i, mp := range ev.Policy {
		policy[i] = MoveProbabilityResponse{UCI: mp.UCI, Probability: mp.Probability}
	}
	return EvaluateResponse{
		FEN:     fen,
		WinProb: ev.WinProb,
		Policy:  policy,
	}
}
