package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/openai"

	"github.com/Basemism/booking-agent/agent"
	"github.com/Basemism/booking-agent/booking"
	"github.com/Basemism/booking-agent/handlers"
	"github.com/Basemism/booking-agent/parser"
	"github.com/Basemism/booking-agent/session"
)

func main() {
	envFile := flag.String("env", "", "path to .env file")
	flag.Parse()
	conf, err := loadConfig(*envFile)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := startApp(context.Background(), conf); err != nil {
		log.Fatalf("start app: %v", err)
	}
}

func startApp(ctx context.Context, conf *Config) error {
	slog.SetLogLoggerLevel(logLevel(conf.LogLevel))

	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:  conf.OpenAIAPIKey,
		Model:   conf.OpenAIModel,
		BaseURL: conf.OpenAIBaseURL,
	})
	if err != nil {
		return err
	}
	planner, err := parser.NewToolBasedStateManager(chatModel)
	if err != nil {
		return err
	}
	api := booking.NewClient(booking.Config{
		BaseURL:    conf.BaseURL,
		Restaurant: conf.RestaurantName,
		Token:      conf.BearerToken,
	})
	bot := agent.New(
		planner,
		handlers.NewRouter(api),
		session.NewMemoryStore(),
		agent.WithTrimmer(session.KeepLastNTrimmer{N: 50}),
	)
	ctx = session.WithKey(ctx, "repl")

	printWelcome()
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("You: ")
		line, rErr := reader.ReadString('\n')
		if rErr != nil {
			fmt.Println("\nAgent: Goodbye!")
			return nil
		}
		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		if strings.EqualFold(input, "exit") {
			fmt.Println("Agent: Goodbye!")
			return nil
		}
		resp, iErr := bot.Invoke(ctx, input)
		if iErr != nil {
			return iErr
		}
		if resp.Message != "" {
			// continuation lines align under the first one
			fmt.Printf("Agent: %s\n", strings.ReplaceAll(resp.Message, "\n", "\n       "))
		}
	}
}

func printWelcome() {
	fmt.Println("Welcome to The Hungry Unicorn Booking Assistant")
	fmt.Println("I am able to:")
	fmt.Println("  1. Check availability")
	fmt.Println("  2. Create a booking")
	fmt.Println("  3. Cancel a booking")
	fmt.Println("  4. Modify a booking")
	fmt.Println()
	fmt.Println("Type 'exit' to quit.")
	fmt.Println()
}

func logLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
