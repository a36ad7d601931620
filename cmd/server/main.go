// File: cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/ampersand-labs/homework/internal/composer"
	"github.com/ampersand-labs/homework/internal/config"
	"github.com/ampersand-labs/homework/internal/handlers"
	"github.com/ampersand-labs/homework/internal/services"
	"github.com/ampersand-labs/homework/internal/services/account"
	"github.com/ampersand-labs/homework/internal/services/llm"
	"github.com/ampersand-labs/homework/internal/services/transcript"
	"github.com/ampersand-labs/homework/internal/store/local"
	"github.com/ampersand-labs/homework/internal/store/remote"
	statesync "github.com/ampersand-labs/homework/internal/sync"
)

func main() {
	cfg := config.Load()
	logger := services.NewLogger("homework")

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		log.Fatalf("Data directory error: %v", err)
	}

	localStore, err := local.New(cfg.DataDir)
	if err != nil {
		log.Fatalf("Local store error: %v", err)
	}

	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{})
	if err != nil {
		log.Fatalf("DB Error: %v", err)
	}
	if err := remote.Migrate(db); err != nil {
		log.Fatalf("DB Migration Error: %v", err)
	}
	if err := account.Migrate(db); err != nil {
		log.Fatalf("DB Migration Error: %v", err)
	}

	// --- Services ---
	accounts := account.NewService(db, cfg.JWTSecretKey)

	llmConfig := llm.DefaultConfig()
	llmConfig.APIKey = cfg.LLMAPIKey
	llmConfig.BaseURL = cfg.LLMBaseURL
	llmConfig.ChatModel = cfg.ChatModel
	llmConfig.TitleModel = cfg.TitleModel
	llmConfig.HistoryWindow = cfg.HistoryWindow
	modelClient := llm.NewOpenAIProvider(llmConfig)

	var transcriptClient *transcript.Client
	if cfg.TranscriptAPIURL != "" {
		transcriptConfig := transcript.DefaultConfig()
		transcriptConfig.APIURL = cfg.TranscriptAPIURL
		transcriptClient = transcript.NewClient(transcriptConfig)
	}

	notifications := handlers.NewNotificationBuffer()
	state := statesync.New(localStore, remote.NewGormStore(db), logger, notifications.Push)

	startupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := state.Start(startupCtx); err != nil {
		log.Fatalf("State restore error: %v", err)
	}
	cancel()

	session := composer.NewSession(state, modelClient, logger)

	// --- Handlers ---
	router := handlers.NewRouter(handlers.Deps{
		Auth:          handlers.NewAuthHandler(accounts, state, logger),
		Chats:         handlers.NewChatHandler(state, session, logger),
		Templates:     handlers.NewTemplateHandler(state, logger),
		Settings:      handlers.NewSettingsHandler(state),
		Export:        handlers.NewExportHandler(state, logger),
		Transcript:    handlers.NewTranscriptHandler(transcriptClient, logger),
		Notifications: notifications,
		Accounts:      accounts,
		Logger:        logger,
	})

	port := ":" + cfg.ServerPort
	srv := &http.Server{
		Addr:    port,
		Handler: router,
	}

	logger.Info("server starting", "port", cfg.ServerPort, "env", cfg.Environment)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server startup failed: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}

	// Drain in-flight cloud writes before exiting.
	state.Flush()
	logger.Info("server stopped")
}
