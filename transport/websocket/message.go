package websocket

import (
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/minesweeper-backend/internal/viewmodel"
)

const (
	actionSessionNew   = "session:new"
	actionSessionGet   = "session:get"
	actionSessionReset = "session:reset"
	actionCellReveal   = "cell:reveal"
	actionCellFlag     = "cell:flag"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Payload is the union of every request field. Row and Col are pointers so a
// missing coordinate can be told apart from zero.
type Payload struct {
	SessionID  string `json:"session_id,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	Mines      int    `json:"mines,omitempty"`
	Row        *int   `json:"row,omitempty"`
	Col        *int   `json:"col,omitempty"`
}

type ResponsePayload struct {
	Session *viewmodel.SessionView `json:"session,omitempty"`
	Error   string                 `json:"error,omitempty"`
}

func (that *Server) sendMessage(conn *websocket.Conn, action string, payload ResponsePayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	response, err := json.Marshal(Message{Action: action, Payload: body})
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}

	if err = conn.WriteMessage(websocket.TextMessage, response); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func (that *Server) sendErrorResponse(conn *websocket.Conn, action, errorMsg string) error {
	if err := that.sendMessage(conn, action, ResponsePayload{Error: errorMsg}); err != nil {
		return fmt.Errorf("failed to send error response: %w", err)
	}

	return nil
}
