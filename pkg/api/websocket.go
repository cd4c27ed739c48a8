package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins - configure properly in production
	},
}

// WSMessage is a generic WebSocket message.
type WSMessage struct {
	Type    string          `json:"type"`    // Message type: "evaluate", "batch", "ping"
	ID      string          `json:"id"`      // Request ID for correlating responses
	Payload json.RawMessage `json:"payload"` // Type-specific payload
}

// WSResponse is a generic WebSocket response.
type WSResponse struct {
	Type    string      `json:"type"`              // Response type: "result", "error", "pong"
	ID      string      `json:"id,omitempty"`      // Request ID
	Payload interface{} `json:"payload,omitempty"` // Response data
	Error   string      `json:"error,omitempty"`   // Error message if any
}

// WSClient represents a connected WebSocket client.
type WSClient struct {
	conn     *websocket.Conn
	handlers *Handlers
	sendChan chan WSResponse
}

// WebSocket handles WebSocket connections for real-time evaluation.
func (h *Handlers) WebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}
	client := &WSClient{conn: conn, handlers: h, sendChan: make(chan WSResponse, 256)}
	go client.writePump()
	client.readPump()
}

func (c *WSClient) writePump() {
	defer c.conn.Close()
	for msg := range c.sendChan {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

func (c *WSClient) readPump() {
	defer func() { close(c.sendChan); c.conn.Close() }()
	for {
		var msg WSMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}
		if msg.ID == "" {
			msg.ID = uuid.NewString()
		}
		c.handleMessage(msg)
	}
}

func (c *WSClient) handleMessage(msg WSMessage) {
	switch msg.Type {
	case "evaluate":
		c.handleEvaluate(msg)
	case "batch":
		c.handleBatch(msg)
	case "ping":
		c.sendChan <- WSResponse{Type: "pong", ID: msg.ID}
	default:
		c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: "unknown message type"}
	}
}

func (c *WSClient) handleEvaluate(msg WSMessage) {
	var req EvaluateRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: "invalid payload"}
		return
	}
	if req.FEN == "" {
		c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: "fen is required"}
		return
	}
	if c.handlers.engine == nil {
		c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: "no model loaded"}
		return
	}
	ev, err := c.handlers.engine.EvaluateFEN(req.FEN, req.EloSelf, req.EloOppo)
	if err != nil {
		c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: err.Error()}
		return
	}
	c.sendChan <- WSResponse{Type: "result", ID: msg.ID, Payload: EvalToResponse(req.FEN, ev)}
}

func (c *WSClient) handleBatch(msg WSMessage) {
	var req BatchEvaluateRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: "invalid payload"}
		return
	}
	if len(req.Positions) == 0 {
		c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: "positions array is required"}
		return
	}
	if c.handlers.engine == nil {
		c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: "no model loaded"}
		return
	}

	fens := make([]string, len(req.Positions))
	eloSelfs := make([]int, len(req.Positions))
	eloOppos := make([]int, len(req.Positions))
	for i, p := range req.Positions {
		if p.FEN == "" {
			c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: "fen is required"}
			return
		}
		fens[i] = p.FEN
		eloSelfs[i] = p.EloSelf
		eloOppos[i] = p.EloOppo
	}

	evals, err := c.handlers.engine.EvaluateBatchFEN(fens, eloSelfs, eloOppos)
	if err != nil {
		c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: err.Error()}
		return
	}

	resp := BatchEvaluateResponse{Results: make([]EvaluateResponse, len(evals))}
	for i, ev := range evals {
		resp.Results[i] = EvalToResponse(fens[i], ev)
	}
	c.sendChan <- WSResponse{Type: "result", ID: msg.ID, Payload: resp}
}
