package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/tictactoe-core/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-core/internal/entity"
)

const (
	actionState = "game:state"
	actionTurn  = "game:turn"
	actionReset = "game:reset"
	actionNames = "game:names"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type RequestPayload struct {
	Row     *int   `json:"row,omitempty"`
	Col     *int   `json:"col,omitempty"`
	PlayerA string `json:"player_a,omitempty"`
	PlayerB string `json:"player_b,omitempty"`
}

type ResponsePayload struct {
	Game     *entity.GameView           `json:"game,omitempty"`
	Accepted *bool                      `json:"accepted,omitempty"`
	Reason   apperror.InvalidMoveReason `json:"reason,omitempty"`
	Error    string                     `json:"error,omitempty"`
}

type response struct {
	Action  string          `json:"action"`
	Payload ResponsePayload `json:"payload"`
}
