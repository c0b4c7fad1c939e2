package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/dvloznov/finance-copilot/internal/assistant"
	"github.com/dvloznov/finance-copilot/internal/config"
	"github.com/dvloznov/finance-copilot/internal/infra/postgres"
	"github.com/dvloznov/finance-copilot/internal/insights"
	"github.com/dvloznov/finance-copilot/internal/llm"
	"github.com/dvloznov/finance-copilot/internal/logger"
	"github.com/dvloznov/finance-copilot/internal/rag"
)

func main() {
	var (
		configPath = flag.String("config", "config.yaml", "Path to config file")
		mode       = flag.String("mode", "ask", "Interaction mode: ask, chat or knowledge")
	)
	flag.Parse()

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

	categoryRepo := postgres.NewCategoryRepo(pool)
	expenseRepo := postgres.NewExpenseRepo(pool)
	resourceRepo := postgres.NewResourceRepo(pool)

	service := insights.NewService(llmClient, postgres.NewRunner(pool), cfg.Assistant.Currency, log)
	chat := assistant.NewChat(llmClient, assistant.NewTools(categoryRepo, expenseRepo), log)
	responder := rag.NewResponder(llmClient, rag.NewRetriever(llmClient, resourceRepo, log), log)

	fmt.Printf("finance-copilot (%s mode, empty line or Ctrl-D to exit)\n", *mode)

	var chatHistory []assistant.Message
	var knowledgeHistory []rag.Message

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			break
		}

		switch *mode {
		case "ask":
			result, err := service.Ask(ctx, input)
			if err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				continue
			}
			fmt.Printf("\nSQL: %s\n\n", result.Query)
			for _, section := range result.Explanations {
				fmt.Printf("  %s: %s\n", section.Section, section.Explanation)
			}
			fmt.Printf("\n%s\n\n", result.Summary)

		case "chat":
			chatHistory = append(chatHistory, assistant.Message{Role: "user", Content: input})
			reply, err := chat.Respond(ctx, chatHistory)
			if err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				continue
			}
			chatHistory = append(chatHistory, assistant.Message{Role: "assistant", Content: reply})
			fmt.Printf("\n%s\n\n", reply)

		case "knowledge":
			knowledgeHistory = append(knowledgeHistory, rag.Message{Role: "user", Content: input})
			reply, err := responder.Respond(ctx, knowledgeHistory)
			if err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				continue
			}
			knowledgeHistory = append(knowledgeHistory, rag.Message{Role: "assistant", Content: reply})
			fmt.Printf("\n%s\n\n", reply)

		default:
			log.Fatal().Str("mode", *mode).Msg("Unknown mode")
		}
	}
}
