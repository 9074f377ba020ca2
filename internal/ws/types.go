package ws

import (
	"encoding/json"
)

// MessageType tags every frame sent over a game socket.
type MessageType string

const (
	// client -> server
	MessageTypeClick    MessageType = "click"
	MessageTypePurchase MessageType = "purchase"
	MessageTypePromote  MessageType = "promote"
	MessageTypeEscape   MessageType = "escape"
	MessageTypePause    MessageType = "pause"
	MessageTypeReset    MessageType = "reset"

	// server -> client
	MessageTypeGameState MessageType = "gameState"
	MessageTypeError     MessageType = "error"
)

type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ClickPayload is a square press. Display means the coordinates are in the
// side to move's orientation.
type ClickPayload struct {
	X       *int `json:"x" validate:"required,min=0,max=7"`
	Y       *int `json:"y" validate:"required,min=0,max=7"`
	Display bool `json:"display"`
}

// PiecePayload picks a piece type for a purchase or promotion.
type PiecePayload struct {
	Type string `json:"type" validate:"required,max=6"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}
