package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"

	"roomchat/auth"
	"roomchat/infrastructure/httpapi"
	"roomchat/infrastructure/ws"
	"roomchat/internal"
	"roomchat/moderation"
	"roomchat/observability"
	"roomchat/runtime"
	"roomchat/runtime/workers"
	"roomchat/storage"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	// The main function acts as a thin wrapper.
	// Its only responsibility is to call run() and handle the OS exit code.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Server terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run initializes all components, manages the server lifecycle, and centralizes error reporting.
// This pattern ensures all 'defer' statements (like database cleanup) execute before the
// program exits and keeps the initialization logic testable.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	logger := logs.GetLoggerFromString(config.LogLevel)
	ctx := context.Background()

	// 2. Database (BadgerDB)
	db, err := badger.Open(buildBadgerOpts(config, logger, ctx))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		// Defer ensures the database lock is released and buffers are flushed.
		logger.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Moderation pipeline
	lexicon, err := moderation.LoadLexicon(config.LexiconFilepath, config.RedactionToken, logger)
	if err != nil {
		return exitRuntime, fmt.Errorf("lexicon loading failed: %w", err)
	}
	classifier := moderation.NewClassifier(config.ModelFilepath, logger)
	pipeline := moderation.NewPipeline(lexicon, classifier, config.ToxicityThreshold, config.RemovalNotice, logger)

	// 4. Repositories & Gateway
	messageRepository := storage.NewMessageRepository(db, logger)
	userRepository := storage.NewUserRepository(db, logger)
	roomRepository, err := storage.NewRoomRepository(db, logger)
	if err != nil {
		return exitRuntime, fmt.Errorf("room repository init failed: %w", err)
	}
	defer func() {
		_ = roomRepository.Release()
	}()
	gateway := storage.NewGateway(messageRepository, userRepository, roomRepository, logger)

	// 5. Supervision & background workers
	samples := make(chan observability.Sample, config.TelemetryBufferSize)
	handlers := []observability.Handler{
		observability.NewCensorHits(logger),
		observability.NewLatencyHandler(logger, config.LatencyThreshold),
	}
	sup := workers.NewSupervisor(logger, config.RestartInterval)
	sup.Add(
		workers.NewTelemetryWorker(logger, samples, handlers),
		workers.NewHealthMonitoringWorker(logger, config.MetricInterval),
		workers.NewStoreGCWorker(logger, db, config.GCInterval),
	)

	// 6. Context & Signals
	// NotifyContext captures OS signals and cancels the context to trigger a shutdown.
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	supDone := make(chan struct{})
	go func() {
		sup.Run(ctx)
		close(supDone)
	}()

	// 7. HTTP surface: REST API + websocket endpoint
	tokens := auth.NewTokenManager(config.JWTSecret, config.AuthTokenDuration)
	registry := runtime.NewRegistry(logger)

	wsHandler := ws.NewHandler(tokens, ws.Options{
		Registry:         registry,
		Gateway:          gateway,
		Pipeline:         pipeline,
		Samples:          samples,
		Log:              logger,
		BufferSize:       config.ConnectionBufferSize,
		WriteTimeout:     config.WriteTimeout,
		PongTimeout:      config.PongTimeout,
		PingInterval:     config.PingInterval,
		DefaultAvatarURL: config.DefaultAvatarURL,
		BlockedNotice:    config.BlockedNotice,
	}, logger)

	mux := http.NewServeMux()
	mux.Handle("/ws", wsHandler)
	httpapi.Routes(mux,
		httpapi.NewAuthHandlers(userRepository, tokens, config.DefaultAvatarURL, logger),
		httpapi.NewRoomHandlers(roomRepository, messageRepository, tokens, logger))

	address := fmt.Sprintf("0.0.0.0:%d", config.Port)
	server := &http.Server{Addr: address, Handler: mux}

	// Use an error channel to capture serve issues asynchronously.
	errChan := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", "address", address, "at", time.Now().UTC())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// 8. Wait for Stop or Error
	// The execution blocks here until either a signal is received or the server crashes.
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errChan:
		return exitRuntime, err
	}

	// 9. Final Cleanup (Graceful Shutdown)
	// Let in-flight requests finish and workers drain their channels.
	logger.Info("Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP shutdown incomplete", "error", err)
	}
	sup.Stop()
	<-supDone
	logger.Info("Program stopped cleanly")

	return exitOK, nil
}

func buildBadgerOpts(config internal.Config, logger *slog.Logger, ctx context.Context) badger.Options {
	options := badger.DefaultOptions(config.BadgerFilepath)

	if logger.Enabled(ctx, slog.LevelDebug) {
		options = options.WithLoggingLevel(badger.DEBUG).
			WithBypassLockGuard(true)
	} else {
		options = options.WithLoggingLevel(badger.INFO)
	}

	return options
}
