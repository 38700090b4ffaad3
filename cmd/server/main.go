package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"colloquy.app/server/common/id"
	"colloquy.app/server/common/llm"
	"colloquy.app/server/common/logger"
	"colloquy.app/server/common/otel"
	"colloquy.app/server/core/config"
	"colloquy.app/server/core/db"
	"colloquy.app/server/internal/engine"
	"colloquy.app/server/internal/http/middleware"
	httprouter "colloquy.app/server/internal/http/router"
	"colloquy.app/server/internal/inflight"
	"colloquy.app/server/internal/service"
	"colloquy.app/server/internal/store"
)

func main() {
	fmt.Printf("%s\n", banner)
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	// OTel must init before logger (logger uses OTel provider in production)
	telemetry, err := otel.Setup(ctx, cfg.OTel)
	if err != nil {
		// Can't use slog yet — OTel failed before logger setup
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	if telemetry != nil {
		slog.InfoContext(ctx, "otel initialized", "endpoint", cfg.OTel.Endpoint)
	} else {
		slog.InfoContext(ctx, "otel disabled (no endpoint configured)")
	}

	slog.InfoContext(ctx, "colloquy starting", "env", cfg.Env, "service", cfg.OTel.ServiceName)
	if err := id.Init(1); err != nil {
		slog.ErrorContext(ctx, "failed to initialize snowflake id generator", "error", err)
		os.Exit(1)
	}

	database, err := db.New(ctx, cfg.DB)
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()
	slog.InfoContext(ctx, "database connected")

	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		slog.ErrorContext(ctx, "failed to parse redis url", "error", err)
		os.Exit(1)
	}

	redisClient := redis.NewClient(redisOpts)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.ErrorContext(ctx, "failed to connect to redis", "error", err)
		os.Exit(1)
	}
	slog.InfoContext(ctx, "redis connected")

	// Lock TTL exceeds the engine timeout so a crashed analysis never
	// wedges its message.
	guard := inflight.NewRedisGuard(redisClient, cfg.Assessment.Timeout+15*time.Second, nil)
	defer guard.Close()

	completionClient, err := llm.NewCompletionClient(llm.Config{
		Provider:  cfg.AssessmentLLM.Provider,
		APIKey:    cfg.AssessmentLLM.APIKey,
		BaseURL:   cfg.AssessmentLLM.BaseURL,
		Model:     cfg.AssessmentLLM.Model,
		MaxTokens: cfg.AssessmentLLM.MaxTokens,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to build completion client", "error", err)
		os.Exit(1)
	}

	stores := store.NewStores(database.Querier())
	services := service.NewServices(
		stores,
		service.NewTxRunner(database),
		engine.New(completionClient),
		guard,
		cfg.Assessment,
	)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := setupRouter(cfg, services)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      90 * time.Second, // analyze-batch holds the request open
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.InfoContext(ctx, "http server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.ErrorContext(ctx, "http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "http server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(shutdownCtx, "shutdown complete")
}

func setupRouter(cfg config.Config, services *service.Services) *gin.Engine {
	router := gin.New()

	// Order matters: OTel creates span → Recovery catches panics → Logger logs with trace context
	if cfg.OTel.Enabled() {
		router.Use(otelgin.Middleware(cfg.OTel.ServiceName))
	}
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())

	httprouter.SetupRoutes(router, services, httprouter.RouterConfig{
		AdminAPIKey: cfg.AdminAPIKey,
	})

	return router
}

const banner = `
 ██████╗ ██████╗ ██╗     ██╗      ██████╗  ██████╗ ██╗   ██╗██╗   ██╗
██╔════╝██╔═══██╗██║     ██║     ██╔═══██╗██╔═══██╗██║   ██║╚██╗ ██╔╝
██║     ██║   ██║██║     ██║     ██║   ██║██║   ██║██║   ██║ ╚████╔╝
██║     ██║   ██║██║     ██║     ██║   ██║██║▄▄ ██║██║   ██║  ╚██╔╝
╚██████╗╚██████╔╝███████╗███████╗╚██████╔╝╚██████╔╝╚██████╔╝   ██║
 ╚═════╝ ╚═════╝ ╚══════╝╚══════╝ ╚═════╝  ╚══▀▀═╝  ╚═════╝    ╚═╝
`
