package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"vecdb-go/internal/api"
	"vecdb-go/internal/config"
	"vecdb-go/internal/engine"
)

func main() {
	mode := flag.String("mode", "dev", "Run mode (dev or test)")
	configPath := flag.String("config", "", "Path to config.toml; built-in defaults are used if empty")
	requestTimeout := flag.Duration("request-timeout", 30*time.Second, "Per-request timeout; 0 disables")

	flag.Parse()

	profile := "dev"
	if *mode == "test" {
		profile = "test"
	}

	appConfig, err := loadConfig(*configPath, profile)
	if err != nil {
		slog.Error("error loading config", "error", err, "profile", profile)
		os.Exit(1)
	}

	slog.Info("loaded configuration", "profile", profile)
	setupLogging(appConfig.Server.LogLevel)
	setupGinMode(appConfig.Server.LogLevel)

	slog.Info("opening engine", "snapshot_path", appConfig.Persistence.SnapshotPath, "wal_path", appConfig.Persistence.WalPath)
	eng, err := engine.Open(appConfig)
	if err != nil {
		slog.Error("error opening engine", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := eng.Close(); closeErr != nil {
			slog.Error("error on final checkpoint", "error", closeErr)
		}
	}()

	server := api.New(eng, *requestTimeout)
	router := server.Router()

	addr := fmt.Sprintf(":%d", appConfig.Server.Port)
	slog.Info("server listening", "address", addr)
	runWithGracefulShutdown(router, addr)
}

func loadConfig(path, profile string) (config.AppConfig, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path, profile)
}

func setupLogging(logLevel string) {
	var level slog.Level
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

func setupGinMode(logLevel string) {
	switch strings.ToLower(logLevel) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}
}

// runWithGracefulShutdown blocks serving addr until SIGINT/SIGTERM, then lets
// in-flight requests drain before returning so the deferred engine.Close
// checkpoint above runs against a quiet engine.
func runWithGracefulShutdown(router *gin.Engine, addr string) {
	srv := &http.Server{Addr: addr, Handler: router}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
		}
	}()

	<-done
	slog.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("error during shutdown", "error", err)
	}
}
