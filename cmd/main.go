package main

import (
	"context"
	"dm-chat/auth"
	"dm-chat/contract"
	"dm-chat/domain/event"
	"dm-chat/infrastructure/http/server"
	"dm-chat/moderation"
	"dm-chat/observability"
	"dm-chat/repositories"
	"dm-chat/runtime"
	"dm-chat/runtime/workers"
	"dm-chat/services"
	"dm-chat/sink"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run wires every component and returns once the server has shut down, so that
// deferred cleanups always execute.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Database (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.INFO))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()
	sequences, err := repositories.OpenSequences(db)
	if err != nil {
		return fmt.Errorf("sequences opening failed: %w", err)
	}
	defer func() { _ = sequences.Release() }()

	// 3. Core services
	moderator, err := moderation.NewModerator(config.censoredWords(), config.replacement(), log)
	if err != nil {
		return fmt.Errorf("moderator creation failed: %w", err)
	}
	users := repositories.NewUserRepository(db)
	issuer := auth.NewTokenIssuer(config.JWTSecret, config.AuthTokenDuration)
	events := make(chan event.DomainEvent, config.BufferSize)
	chatService := services.NewChatService(
		repositories.NewRoomRepository(db, log, sequences),
		repositories.NewMessageRepository(db, log, sequences),
		services.ChatConfig{
			MaxContentLength: config.MaxContentLength,
			DefaultPageSize:  config.DefaultPageSize,
			MaxPageSize:      config.MaxPageSize,
		},
		log,
		services.WithUserDirectory(users),
		services.WithCensor(moderator),
		services.WithEvents(events))

	// 4. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 5. Supervision & realtime delivery
	registry := runtime.NewRegistry()
	metrics := observability.NewMetrics(registry.Count)
	monitoring := observability.NewMonitoringManager(log, registry.Count)
	var permanentSinks []contract.EventSink
	if config.LogEvents {
		permanentSinks = append(permanentSinks, sink.NewLogSink(log))
	}
	sup := workers.NewSupervisor(log).OnRestart(metrics.WorkerRestarted)
	sup.Add(
		workers.NewEventFanoutWorker(log, events, registry, metrics, config.DeliveryTimeout, permanentSinks...),
		workers.NewHealthMonitoringWorker(log, config.MetricInterval, monitoring, metrics),
	)
	supervisorDone := make(chan struct{})
	go func() {
		defer close(supervisorDone)
		sup.Run(ctx)
	}()

	// 6. HTTP Server Setup
	gin.SetMode(gin.ReleaseMode)
	router := server.NewRouter(log, server.Dependencies{
		Chat:                 chatService,
		Auth:                 services.NewAuthService(users, issuer, log),
		Identity:             auth.NewJWTResolver(issuer),
		Registry:             registry,
		Metrics:              metrics,
		Monitoring:           monitoring,
		ConnectionBufferSize: config.ConnectionBufferSize,
		AllowedOrigins:       config.allowedOrigins(),
	})
	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	httpServer := &http.Server{
		Addr:              address,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		// Open websockets observe the shutdown through their request context.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "address", address, "at", time.Now().UTC())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// 7. Wait for Stop or Error
	var serveErr error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case serveErr = <-errChan:
		stop()
	}

	// 8. Final Cleanup
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warn("HTTP server shutdown incomplete", "error", err)
	}
	<-supervisorDone
	log.Info("Program stopped cleanly")

	return serveErr
}
