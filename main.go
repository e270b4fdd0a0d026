package main

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Bookline-core-poc-v1/server/internal/agent/conversations"
	"github.com/Bookline-core-poc-v1/server/internal/agent/llm"
	"github.com/Bookline-core-poc-v1/server/internal/agent/model"
	"github.com/Bookline-core-poc-v1/server/internal/agent/notify"
	"github.com/Bookline-core-poc-v1/server/internal/agent/repo"
	"github.com/Bookline-core-poc-v1/server/internal/agent/run"
	"github.com/Bookline-core-poc-v1/server/internal/agent/session"
	"github.com/Bookline-core-poc-v1/server/internal/agent/tools"
	pkgredis "github.com/Bookline-core-poc-v1/server/pkg/redis"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// AppConfig defines all configurable parameters for the booking agent demo,
// sourced from environment variables (loaded from .env for local runs).
type AppConfig struct {
	// Infrastructure
	Redis pkgredis.Config

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY" required:"true"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Agent configs
	Planner      model.PlannerModelConfig
	Response     model.ResponseModelConfig
	Prompt       model.ResponsePromptConfig
	Conversation model.ConversationConfig
	Runtime      model.RuntimeConfig
	Notifier     model.NotifierConfig
}

// consoleMessenger stands in for the real outbound message channel.
type consoleMessenger struct{}

func (consoleMessenger) Send(_ context.Context, userID, text string) error {
	fmt.Printf("  [notify -> %s] %s\n", userID, text)
	return nil
}

func main() {
	fmt.Println("Booking agent demo...")
	ctx := context.Background()
	// Load .env file
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	// Load structured config from env
	var envCfg AppConfig
	if err := envconfig.Process("", &envCfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	rdb, err := envCfg.Redis.New()
	if err != nil {
		log.Fatalf("Failed to initialise Redis client: %v", err)
	}
	defer rdb.Close()

	fmt.Println("Connected to Redis successfully")

	// ====================================================
	// Assemble the agent entirely from env
	ttl, err := time.ParseDuration(envCfg.Conversation.TTL)
	if err != nil {
		log.Fatalf("Invalid CONVERSATION_TTL '%s': %v", envCfg.Conversation.TTL, err)
	}
	toolTimeout, err := time.ParseDuration(envCfg.Runtime.ToolTimeout)
	if err != nil {
		log.Fatalf("Invalid RUNTIME_TOOL_TIMEOUT '%s': %v", envCfg.Runtime.ToolTimeout, err)
	}
	notifierCfg, err := notify.ConfigFrom(envCfg.Notifier)
	if err != nil {
		log.Fatalf("Invalid notifier config: %v", err)
	}

	registry, err := tools.NewRegistry(ctx, toolTimeout, tools.GetBookingTools()...)
	if err != nil {
		log.Fatalf("Failed to build tool registry: %v", err)
	}

	cms, err := llm.NewChatModels(ctx, llm.ChatModelConfig{
		APIKey:        envCfg.APIKey,
		BaseURL:       envCfg.BaseURL,
		PlannerConfig: &envCfg.Planner,
		RespConfig:    &envCfg.Response,
	})
	if err != nil {
		log.Fatalf("Failed to create chat models: %v", err)
	}

	msgs := conversations.NewMessagesManager(
		repo.NewRedisConversationRepository(rdb, ttl),
		envCfg.Conversation,
	)

	orchestrator := run.NewOrchestrator(
		llm.NewGeminiPlanner(cms, envCfg.Prompt, registry.Catalog()),
		llm.NewGeminiResponder(cms, msgs, envCfg.Prompt),
		registry,
		msgs,
		envCfg.Runtime,
	)

	messenger := consoleMessenger{}
	sessions := session.NewManager(orchestrator, messenger, notifierCfg)

	userID := "demo-user-48213"

	testMessages := []struct {
		description string
		text        string
	}{
		{
			description: "Initial availability inquiry with fuzzy dates",
			text:        "Hi! Do you have a room for two this weekend?",
		},
		{
			description: "Follow-up detail question",
			text:        "What does the Deluxe King include?",
		},
		{
			description: "Price quote for a longer stay",
			text:        "How much would it be for a week from 2026-09-07?",
		},
	}

	for i, test := range testMessages {
		fmt.Printf("\nMessage %d: %s\n", i+1, test.description)
		fmt.Printf("User: %q\n", test.text)
		fmt.Println("Processing...")

		outcome := sessions.ProcessMessage(ctx, userID, test.text)
		printOutcome(outcome)

		// slight delay between messages for readability
		time.Sleep(500 * time.Millisecond)
	}

	// Demonstrate single-flight: a second message sent while the first is in
	// flight cancels it and takes over.
	fmt.Println("\nSupersede demo: two messages back to back")
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		outcome := sessions.ProcessMessage(ctx, userID, "Any family rooms for six people next week?")
		fmt.Printf("First message finished with status %s\n", outcome.Status)
	}()
	time.Sleep(50 * time.Millisecond)
	outcome := sessions.ProcessMessage(ctx, userID, "Actually just a suite for two, tomorrow night.")
	wg.Wait()
	printOutcome(outcome)

	fmt.Println("\nDemo finished.")
}

func printOutcome(outcome run.Outcome) {
	switch outcome.Status {
	case run.StatusSuccess:
		fmt.Printf("Agent: %s\n", outcome.Response)
		fmt.Printf("(%d tool results)\n", len(outcome.Results))
	case run.StatusCancelled:
		fmt.Printf("Run cancelled, %d partial results kept\n", len(outcome.Results))
	case run.StatusFailure:
		fmt.Printf("Run failed: %v\n", outcome.Err)
	}
	fmt.Println("─────────────────────────────────────────────")
}
