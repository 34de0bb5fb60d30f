package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sysdesk/nowsms_channel/internal/channel/app"
	channelpg "github.com/sysdesk/nowsms_channel/internal/channel/repository/postgres"
	"github.com/sysdesk/nowsms_channel/internal/middleware"
	"github.com/sysdesk/nowsms_channel/internal/nowsms"
	"github.com/sysdesk/nowsms_channel/internal/platform/config"
	"github.com/sysdesk/nowsms_channel/internal/platform/database"
	"github.com/sysdesk/nowsms_channel/internal/platform/logger"
	"github.com/sysdesk/nowsms_channel/internal/platform/messagebroker"
	httptransport "github.com/sysdesk/nowsms_channel/internal/transport/http"
)

const serviceName = "channel_adapter"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "service", serviceName, "error", err)
		os.Exit(1)
	}

	appLogger := logger.New(cfg.LogLevel)
	appLogger.Info("Channel adapter starting...", "port", cfg.ServerPort)

	dbPool, err := database.NewDBPool(context.Background(), cfg.PostgresDSN)
	if err != nil {
		appLogger.Error("Failed to connect to PostgreSQL", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()
	appLogger.Info("Connected to PostgreSQL")

	var events app.EventPublisher
	if cfg.NATSUrl != "" {
		natsClient, err := messagebroker.NewNatsClient(cfg.NATSUrl, serviceName, appLogger)
		if err != nil {
			appLogger.Error("Failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer natsClient.Close()
		events = natsClient
		appLogger.Info("Connected to NATS", "url", cfg.NATSUrl)
	} else {
		appLogger.Info("NATS URL not configured, event publication disabled")
	}

	userRepo := channelpg.NewPgUserRepository(dbPool, appLogger)
	callerIDRepo := channelpg.NewPgCallerIDRepository(dbPool, appLogger)
	ticketRepo := channelpg.NewPgTicketRepository(dbPool, appLogger)
	articleRepo := channelpg.NewPgArticleRepository(dbPool, appLogger)
	groupRepo := channelpg.NewPgGroupRepository(dbPool, appLogger)
	metaRepo := channelpg.NewPgTicketMetaRepository(dbPool, appLogger)
	channelRepo := channelpg.NewPgChannelRepository(dbPool, appLogger)

	processor := app.NewProcessor(userRepo, callerIDRepo, ticketRepo, articleRepo, groupRepo, metaRepo, events, appLogger)
	gatewayClient := nowsms.NewClient(appLogger, nowsms.Modes{Developer: cfg.DeveloperMode, Import: cfg.ImportMode}, nil)

	validate := validator.New()
	webhookHandler := httptransport.NewWebhookHandler(channelRepo, processor, appLogger, validate)
	messageHandler := httptransport.NewMessageHandler(channelRepo, gatewayClient, appLogger, validate)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))
	r.Use(httptransport.PrometheusMetricsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "Channel adapter is healthy"})
	})
	r.Handle("/metrics", promhttp.Handler())

	// Inbound callbacks are authenticated by webhook token, not by JWT, and
	// rate limited per source IP.
	r.Group(func(webhookRouter chi.Router) {
		webhookRouter.Use(httprate.LimitByIP(cfg.WebhookRateLimit, time.Minute))
		webhookHandler.RegisterRoutes(webhookRouter)
	})

	r.Route("/api/v1", func(apiRouter chi.Router) {
		apiRouter.Use(middleware.JWTAuth(cfg.JWTSecret, appLogger))
		messageHandler.RegisterRoutes(apiRouter)
	})

	httpServer := &http.Server{Addr: fmt.Sprintf(":%d", cfg.ServerPort), Handler: r}
	go func() {
		appLogger.Info(fmt.Sprintf("Channel adapter listening on port %d", cfg.ServerPort))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("HTTP server failed to serve", "error", err)
		}
	}()

	quitChan := make(chan os.Signal, 1)
	signal.Notify(quitChan, syscall.SIGINT, syscall.SIGTERM)
	<-quitChan
	appLogger.Info("Shutdown signal received, shutting down HTTP server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()
	if err := httpServer.Shutdown(ctxShutdown); err != nil {
		appLogger.Error("HTTP server shutdown failed", "error", err)
	} else {
		appLogger.Info("HTTP server shut down gracefully.")
	}
	appLogger.Info("Channel adapter shut down.")
}
