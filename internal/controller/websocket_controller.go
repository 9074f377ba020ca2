package controller

import (
	"encoding/json"
	"fmt"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/benbeisheim/goldchess-backend/internal/middleware"
	"github.com/benbeisheim/goldchess-backend/internal/service"
	"github.com/benbeisheim/goldchess-backend/internal/ws"
)

type WebSocketController struct {
	gameService *service.GameService
	logger      *zap.Logger
}

func NewWebSocketController(gameService *service.GameService, logger *zap.Logger) *WebSocketController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebSocketController{
		gameService: gameService,
		logger:      logger,
	}
}

// HandleConnection serves one socket for the lifetime of the connection.
// State updates arrive through the game's broadcast; input events are read
// here.
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID, _ := c.Locals(middleware.GameIDKey).(string)

	connID, err := wsc.gameService.RegisterConnection(gameID, c)
	if err != nil {
		wsc.logger.Warn("failed to register connection", zap.String("game_id", gameID), zap.Error(err))
		c.Close()
		return
	}
	defer wsc.gameService.UnregisterConnection(gameID, connID)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			wsc.logger.Debug("connection closed", zap.String("game_id", gameID), zap.Error(err))
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			wsc.gameService.SendError(gameID, connID, fmt.Errorf("parse error: %w", err))
			continue
		}
		if err := wsc.handleMessage(gameID, msg); err != nil {
			wsc.gameService.SendError(gameID, connID, err)
		}
	}
}

func (wsc *WebSocketController) handleMessage(gameID string, msg ws.Message) error {
	var err error
	switch msg.Type {
	case ws.MessageTypeClick:
		var p ws.ClickPayload
		if err := decodePayload(msg.Payload, &p); err != nil {
			return err
		}
		_, err = wsc.gameService.Click(gameID, *p.X, *p.Y, p.Display)
	case ws.MessageTypePurchase:
		var p ws.PiecePayload
		if err := decodePayload(msg.Payload, &p); err != nil {
			return err
		}
		_, err = wsc.gameService.Purchase(gameID, p.Type)
	case ws.MessageTypePromote:
		var p ws.PiecePayload
		if err := decodePayload(msg.Payload, &p); err != nil {
			return err
		}
		_, err = wsc.gameService.Promote(gameID, p.Type)
	case ws.MessageTypeEscape:
		_, err = wsc.gameService.Escape(gameID)
	case ws.MessageTypePause:
		_, err = wsc.gameService.TogglePause(gameID)
	case ws.MessageTypeReset:
		_, err = wsc.gameService.Reset(gameID)
	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
	return err
}

func decodePayload(raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 {
		return fmt.Errorf("missing payload")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	return validateStruct(v)
}
