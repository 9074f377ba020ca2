package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/benbeisheim/goldchess-backend/internal/controller"
	"github.com/benbeisheim/goldchess-backend/internal/service"
	"github.com/benbeisheim/goldchess-backend/internal/storage"
)

const gracefulShutdownTimeout = 5 * time.Second

type Config struct {
	Host          string
	Port          int
	StoragePath   string
	Dev           bool
	AllowOrigins  string
	RateLimit     int
	FrameInterval time.Duration
}

func parseFlags() Config {
	var cfg Config
	flag.StringVar(&cfg.Host, "host", "localhost", "API server host")
	flag.IntVar(&cfg.Port, "port", 3000, "API server port")
	flag.StringVar(&cfg.StoragePath, "storage-path", "", "Path to SQLite database file (disables persistence if empty)")
	flag.BoolVar(&cfg.Dev, "dev", false, "Development mode (debug logging, access log, relaxed rate limits)")
	flag.StringVar(&cfg.AllowOrigins, "allow-origins", "http://localhost:5173", "CORS allowed origins, empty to disable CORS")
	flag.IntVar(&cfg.RateLimit, "rate-limit", 20, "API requests per second per client, 0 to disable")
	flag.DurationVar(&cfg.FrameInterval, "frame", service.DefaultFrameInterval, "Clock update interval")
	flag.Parse()
	return cfg
}

func newLogger(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func main() {
	cfg := parseFlags()

	log, err := newLogger(cfg.Dev)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}

	err = run(cfg, log)
	log.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

// run owns every resource the server opens, so returning always releases them.
func run(cfg Config, log *zap.Logger) error {
	appCfg := controller.AppConfig{
		AllowOrigins: cfg.AllowOrigins,
		RateLimit:    cfg.RateLimit,
		AccessLog:    cfg.Dev,
	}
	if cfg.Dev && appCfg.RateLimit > 0 {
		appCfg.RateLimit *= 2
	}

	var gameManager *service.GameManager
	managerCfg := service.Config{FrameInterval: cfg.FrameInterval}
	if cfg.StoragePath != "" {
		store, err := storage.NewStore(cfg.StoragePath, log.Named("storage"))
		if err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
		defer func() {
			if err := store.Close(); err != nil {
				log.Warn("failed to close storage cleanly", zap.Error(err))
			}
		}()
		if err := store.InitDB(); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
		appCfg.StorageHealthy = store.IsHealthy
		gameManager = service.NewGameManager(managerCfg, store, log.Named("games"))
		log.Info("storage enabled", zap.String("path", cfg.StoragePath))
	} else {
		gameManager = service.NewGameManager(managerCfg, nil, log.Named("games"))
		log.Info("storage disabled (use -storage-path to enable)")
	}
	gameService := service.NewGameService(gameManager)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go gameManager.Run(ctx)

	app := controller.NewApp(appCfg, gameService, log.Named("http"))
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	listenErr := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("addr", addr))
		listenErr <- app.Listen(addr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-listenErr:
		return fmt.Errorf("listen on %s: %w", addr, err)
	}

	log.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer shutdownCancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Warn("server forced to shutdown", zap.Error(err))
	}
	return nil
}
