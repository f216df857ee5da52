package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/wfunc/drawguess/config"
	"github.com/wfunc/drawguess/logger"
	"github.com/wfunc/drawguess/persistence"
	"github.com/wfunc/drawguess/server"
	"github.com/wfunc/drawguess/timer"
	"github.com/wfunc/drawguess/words"
)

func main() {
	configPath := flag.String("config", ".", "directory holding config.yaml and .env")
	flag.Parse()

	// Bootstrap logger until the configured one is ready
	if err := logger.Init(logger.Options{}); err != nil {
		panic(err)
	}

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.LoggerOptions()); err != nil {
		logger.Log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	bank, err := words.NewBank(cfg.Game.Words)
	if err != nil {
		logger.Log.Fatalf("Invalid word list: %v", err)
	}

	// Initialize Database
	var db persistence.Database
	if cfg.Database.Enabled {
		pg, err := persistence.NewGormPostgreSQL(cfg.PostgresOptions())
		if err != nil {
			logger.Log.Fatalf("Failed to connect to database: %v", err)
		}
		defer pg.Close()
		db = pg
		logger.Log.Info("Database connection successful.")
	}

	timers := timer.NewTimerManager()
	defer timers.Stop()

	gin.SetMode(gin.ReleaseMode)
	gameServer := server.NewGameServer(server.Options{
		HTTPAddress:    cfg.Server.HTTPAddress,
		RPCAddress:     cfg.Server.RPCAddress,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Heartbeat:      cfg.Server.Heartbeat,
	}, server.Deps{
		Settings:  cfg.GameSettings(),
		Words:     bank,
		Scheduler: timers,
		Database:  db,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- gameServer.Start() }()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Log.Errorf("Server failed: %v", err)
		}
	case <-ctx.Done():
		logger.Log.Info("Shutdown signal received.")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownGrace)
	defer cancel()
	if err := gameServer.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorf("Shutdown: %v", err)
	}
	logger.Log.Info("Server stopped.")
}
