package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/reversi-backend/internal/entity"
	"github.com/rocketscienceinc/reversi-backend/internal/reversi"
)

// Message is one WebSocket exchange: an action name plus its payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type Payload struct {
	Player     *entity.Player `json:"player,omitempty"`
	Game       *entity.Game   `json:"game,omitempty"`
	Move       *reversi.Move  `json:"move,omitempty"`
	Type       string         `json:"type,omitempty"`
	Difficulty string         `json:"difficulty,omitempty"`
	Error      string         `json:"error,omitempty"`
}
