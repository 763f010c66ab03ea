package websocket

import (
	"encoding/json"

	"github.com/vkarchevskyi/ultimate-tictactoe-backend/internal/entity"
)

// Message is the wire envelope: an action name plus an action-specific
// payload. Responses echo the action of the request they answer.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Payload carries every request and response field; unused fields are
// omitted. Board, Row and Col are pointers so a missing coordinate can be
// told apart from zero.
type Payload struct {
	Player *entity.Player `json:"player,omitempty"`
	Game   *entity.Game   `json:"game,omitempty"`

	Board *int `json:"board,omitempty"`
	Row   *int `json:"row,omitempty"`
	Col   *int `json:"col,omitempty"`

	Error string `json:"error,omitempty"`
}
