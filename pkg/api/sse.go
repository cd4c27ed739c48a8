package api

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// EvaluateSSE handles Server-Sent Events for streaming batch evaluation.
// Each position is emitted as its chunk finishes, so large batches show
// progress instead of a single long wait.
// GET /api/evaluate/stream?fen=...&fen=...&elo_self=1500&elo_oppo=1500
func (h *Handlers) EvaluateSSE(w http.ResponseWriter, r *http.Request) {
	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	query := r.URL.Query()
	fens := query["fen"]
	if len(fens) == 0 {
		writeSSEError(w, "fen is required")
		return
	}

	eloSelf := parseIntParam(query.Get("elo_self"), 1500)
	eloOppo := parseIntParam(query.Get("elo_oppo"), 1500)
	chunk := parseIntParam(query.Get("chunk"), 16)
	if chunk <= 0 {
		chunk = 16
	}

	if h.engine == nil {
		writeSSEError(w, "no model loaded")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeSSEError(w, "streaming not supported")
		return
	}

	for start := 0; start < len(fens); start += chunk {
		end := start + chunk
		if end > len(fens) {
			end = len(fens)
		}
		part := fens[start:end]

		eloSelfs := make([]int, len(part))
		eloOppos := make([]int, len(part))
		for i := range part {
			eloSelfs[i] = eloSelf
			eloOppos[i] = eloOppo
		}

		evals, err := h.engine.EvaluateBatchFEN(part, eloSelfs, eloOppos)
		if err != nil {
			writeSSEError(w, "evaluation failed: "+err.Error())
			return
		}

		for i, ev := range evals {
			writeSSEEvent(w, "result", EvalToResponse(part[i], ev))
		}
		flusher.Flush()
	}

	// Send done event to signal completion
	writeSSEEvent(w, "done", nil)
	flusher.Flush()
}

// writeSSEEvent writes a Server-Sent Event to the response.
func writeSSEEvent(w http.ResponseWriter, event string, data interface{}) {
	fmt.Fprintf(w, "event: %s\n", event)
	if data != nil {
		jsonData, _ := json.Marshal(data)
		fmt.Fprintf(w, "data: %s\n", jsonData)
	}
	fmt.Fprintf(w, "\n")
}

// writeSSEError writes an error event and closes the stream.
func writeSSEError(w http.ResponseWriter, message string) {
	writeSSEEvent(w, "error", map[string]string{"error": message})
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
}

// parseIntParam parses an integer from a string with a default value.
func parseIntParam(s string, defaultVal int) int {
	if s == "" {
		return defaultVal
	}
	var val int
	if _, err := fmt.Sscanf(s, "%d", &val); err != nil {
		return defaultVal
	}
	return val
}
