package controller

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/benbeisheim/goldchess-backend/internal/middleware"
	"github.com/benbeisheim/goldchess-backend/internal/service"
)

type AppConfig struct {
	AllowOrigins string
	// RateLimit is the number of API requests allowed per client per second.
	// Zero disables limiting.
	RateLimit int
	// AccessLog turns on fiber's request logger.
	AccessLog bool
	// StorageHealthy reports archive health on /health. Nil means no archive.
	StorageHealthy func() bool
}

func NewApp(cfg AppConfig, gameService *service.GameService, log *zap.Logger) *fiber.App {
	gameController := NewGameController(gameService, log)
	wsController := NewWebSocketController(gameService, log)

	app := fiber.New(fiber.Config{
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	})

	app.Use(recover.New())
	if cfg.AccessLog {
		app.Use(logger.New(logger.Config{
			Format: "${time} ${status} ${method} ${path} ${latency}\n",
		}))
	}
	if cfg.AllowOrigins != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins: cfg.AllowOrigins,
			AllowHeaders: "Origin, Content-Type, Accept",
			AllowMethods: "GET, POST, OPTIONS",
		}))
	}

	app.Get("/health", gameController.Health(cfg.StorageHealthy))

	app.Get("/ws/game/:gameId",
		middleware.EnsureGameID(),
		middleware.WebSocketUpgrade(),
		websocket.New(wsController.HandleConnection, websocket.Config{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		}),
	)

	api := app.Group("/api")
	if cfg.RateLimit > 0 {
		api.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimit,
			Expiration: time.Second,
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
					"error": fmt.Sprintf("rate limit exceeded, %d requests per second allowed", cfg.RateLimit),
				})
			},
		}))
	}

	games := api.Group("/games")
	games.Post("/", gameController.CreateGame)
	games.Get("/", gameController.ListGames)

	game := games.Group("/:gameId", middleware.EnsureGameID())
	game.Get("/", gameController.GetGameState)
	game.Get("/log", gameController.GetMoveLog)
	game.Get("/plies", gameController.GetPlies)
	game.Post("/click", gameController.Click)
	game.Post("/purchase", gameController.Purchase)
	game.Post("/promotion", gameController.Promote)
	game.Post("/escape", gameController.Escape)
	game.Post("/pause", gameController.TogglePause)
	game.Post("/reset", gameController.Reset)

	return app
}
