package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// GameIDKey is the Locals key the validated game id is stored under.
const GameIDKey = "gameID"

// EnsureGameID rejects requests whose :gameId is not a UUID and stores the id
// for the handlers behind it.
func EnsureGameID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		gameID := c.Params("gameId")
		if gameID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "game ID is required",
			})
		}
		if _, err := uuid.Parse(gameID); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "game ID must be a UUID",
			})
		}

		c.Locals(GameIDKey, gameID)
		return c.Next()
	}
}
