package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dvloznov/finance-copilot/internal/api/handlers"
	"github.com/dvloznov/finance-copilot/internal/api/middleware"
	"github.com/dvloznov/finance-copilot/internal/assistant"
	"github.com/dvloznov/finance-copilot/internal/config"
	"github.com/dvloznov/finance-copilot/internal/infra/postgres"
	"github.com/dvloznov/finance-copilot/internal/insights"
	"github.com/dvloznov/finance-copilot/internal/llm"
	"github.com/dvloznov/finance-copilot/internal/logger"
	"github.com/dvloznov/finance-copilot/internal/rag"
)

func main() {
	// Parse command-line flags
	var (
		port       = flag.String("port", "8080", "HTTP server port")
		configPath = flag.String("config", "config.yaml", "Path to config file")
	)
	flag.Parse()

	// Initialize logger
	log := logger.New()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	dsn, err := cfg.DSN()
	if err != nil {
		log.Fatal().Err(err).Msg("Database DSN is not configured")
	}

	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	llmClient, err := llm.NewClient(ctx, cfg.Gemini.GenerationModel, cfg.Gemini.EmbeddingModel, cfg.Gemini.EmbeddingDims)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Gemini client")
	}

	// Initialize repositories
	categoryRepo := postgres.NewCategoryRepo(pool)
	expenseRepo := postgres.NewExpenseRepo(pool)
	resourceRepo := postgres.NewResourceRepo(pool)
	runner := postgres.NewRunner(pool)

	// Initialize services
	insightsService := insights.NewService(llmClient, runner, cfg.Assistant.Currency, log)
	chat := assistant.NewChat(llmClient, assistant.NewTools(categoryRepo, expenseRepo), log)
	retriever := rag.NewRetriever(llmClient, resourceRepo, log)
	responder := rag.NewResponder(llmClient, retriever, log)

	// Initialize handlers
	insightsHandler := handlers.NewInsightsHandler(insightsService, log)
	chatHandler := handlers.NewChatHandler(chat, log)
	knowledgeHandler := handlers.NewKnowledgeHandler(responder, log)

	// Create router
	mux := http.NewServeMux()

	mux.HandleFunc("/api/ask", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			insightsHandler.Ask(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/chat", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			chatHandler.Chat(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/knowledge/chat", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			knowledgeHandler.Chat(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Apply middleware
	handler := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(
				middleware.CORS(mux),
			),
		),
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + *port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", *port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
