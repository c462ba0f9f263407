package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mcoot/blockdrop/internal/api"
	"github.com/mcoot/blockdrop/internal/config"
	"github.com/mcoot/blockdrop/internal/factory"
	"github.com/mcoot/blockdrop/internal/services/auth"
	"github.com/mcoot/blockdrop/internal/services/driver"
	redisstorage "github.com/mcoot/blockdrop/internal/storage/redis"
)

const hubCleanupInterval = time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// Level is already validated by Load
	level, _ := cfg.Level()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	authCfg := auth.DefaultConfig()
	authCfg.SessionDuration = cfg.SessionDuration
	driverCfg := driver.DefaultConfig()
	driverCfg.Interval = cfg.TickInterval

	factoryCfg := factory.Config{
		AuthConfig:   authCfg,
		DriverConfig: driverCfg,
		Logger:       logger,
		StorageType:  cfg.StorageType,
	}
	if cfg.StorageType == config.StorageRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		factoryCfg.RedisConfig = &redisCfg
	}

	app, err := factory.New(factoryCfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	router := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		AuthService:    app.AuthService,
		GameController: app.GameController,
		HubManager:     app.HubManager,
	})

	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = cfg.Host
	serverConfig.Port = cfg.Port
	server := api.NewServer(router, serverConfig, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.DriverEnabled {
		go app.Driver.Run(ctx)
	} else {
		logger.Info("game driver disabled; games advance only on tick requests")
	}
	go app.HubManager.RunCleanup(ctx, hubCleanupInterval)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.String("storage", cfg.StorageType),
		slog.Bool("driver", cfg.DriverEnabled),
	)

	exitCode := 0
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			exitCode = 1
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		// Event streams never finish on their own
		app.HubManager.Close()
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			exitCode = 1
		}
	}

	if err := app.Close(); err != nil {
		logger.Error("failed to close storage", slog.String("error", err.Error()))
		exitCode = 1
	}

	logger.Info("server stopped")
	os.Exit(exitCode)
}
