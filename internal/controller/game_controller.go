package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/benbeisheim/goldchess-backend/internal/middleware"
	"github.com/benbeisheim/goldchess-backend/internal/model"
	"github.com/benbeisheim/goldchess-backend/internal/service"
	"github.com/benbeisheim/goldchess-backend/internal/ws"
)

type GameController struct {
	gameService *service.GameService
	logger      *zap.Logger
}

func NewGameController(gameService *service.GameService, logger *zap.Logger) *GameController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GameController{gameService: gameService, logger: logger}
}

// statusFor maps service and rule errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrArchiveDisabled):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, model.ErrGameOver),
		errors.Is(err, model.ErrPaused),
		errors.Is(err, model.ErrWrongPhase):
		return fiber.StatusConflict
	case errors.Is(err, model.ErrInvalidPieceType),
		errors.Is(err, model.ErrOutOfBounds),
		errors.Is(err, model.ErrUnknownTimeControl):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

func (gc *GameController) fail(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		gc.logger.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func gameID(c *fiber.Ctx) string {
	id, _ := c.Locals(middleware.GameIDKey).(string)
	return id
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	var req CreateGameRequest
	if handled, err := parseBody(c, &req); handled {
		return err
	}

	gameID, name, err := gc.gameService.CreateGame(req.TimeControl)
	if err != nil {
		return gc.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"gameId": gameID,
		"name":   name,
	})
}

func (gc *GameController) ListGames(c *fiber.Ctx) error {
	games, err := gc.gameService.ListGames()
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(games)
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	view, err := gc.gameService.GetGameState(gameID(c))
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(view)
}

// GetMoveLog returns the numbered move list as plain text, one line per move
// pair.
func (gc *GameController) GetMoveLog(c *fiber.Ctx) error {
	lines, err := gc.gameService.MoveLog(gameID(c))
	if err != nil {
		return gc.fail(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString(strings.Join(lines, "\n"))
}

func (gc *GameController) GetPlies(c *fiber.Ctx) error {
	plies, err := gc.gameService.Plies(gameID(c))
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(plies)
}

func (gc *GameController) Click(c *fiber.Ctx) error {
	var req ws.ClickPayload
	if handled, err := parseBody(c, &req); handled {
		return err
	}
	return gc.respond(c)(gc.gameService.Click(gameID(c), *req.X, *req.Y, req.Display))
}

func (gc *GameController) Purchase(c *fiber.Ctx) error {
	var req ws.PiecePayload
	if handled, err := parseBody(c, &req); handled {
		return err
	}
	return gc.respond(c)(gc.gameService.Purchase(gameID(c), req.Type))
}

func (gc *GameController) Promote(c *fiber.Ctx) error {
	var req ws.PiecePayload
	if handled, err := parseBody(c, &req); handled {
		return err
	}
	return gc.respond(c)(gc.gameService.Promote(gameID(c), req.Type))
}

func (gc *GameController) Escape(c *fiber.Ctx) error {
	return gc.respond(c)(gc.gameService.Escape(gameID(c)))
}

func (gc *GameController) TogglePause(c *fiber.Ctx) error {
	return gc.respond(c)(gc.gameService.TogglePause(gameID(c)))
}

func (gc *GameController) Reset(c *fiber.Ctx) error {
	return gc.respond(c)(gc.gameService.Reset(gameID(c)))
}

// respond writes the state after an action, or the mapped error.
func (gc *GameController) respond(c *fiber.Ctx) func(service.GameView, error) error {
	return func(view service.GameView, err error) error {
		if err != nil {
			return gc.fail(c, err)
		}
		return c.JSON(view)
	}
}

func (gc *GameController) Health(healthy func() bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		storage := "disabled"
		if healthy != nil {
			storage = "ok"
			if !healthy() {
				storage = "degraded"
			}
		}
		return c.JSON(fiber.Map{
			"status":  "ok",
			"storage": storage,
		})
	}
}
