// Command ask is an interactive console for the case graph engine. It
// keeps the conversation in memory so follow-up questions resolve against
// earlier turns.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/casegraph/casegraph"
	"github.com/casegraph/casegraph/llm"
	"github.com/casegraph/casegraph/store"
)

// maxHistoryTurns bounds the in-memory conversation; entity extraction
// only looks at the trailing window anyway.
const maxHistoryTurns = 20

func main() {
	configPath := flag.String("config", "", "Path to config file (JSON or YAML)")
	showQueries := flag.Bool("queries", false, "Print executed Cypher query names after each answer")
	flag.Parse()

	// Keep stdout for the conversation; warnings and errors go to stderr.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	godotenv.Load()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	engine, err := casegraph.New(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating engine: %v\n", err)
		os.Exit(1)
	}
	defer engine.Close(ctx)

	fmt.Println("CaseGraph console. Ask about organizations, suspects, locations, or connections.")
	fmt.Println("Type 'exit' to quit.")

	var history []casegraph.Turn
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\n> ")
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if question == "exit" || question == "quit" {
			break
		}

		answer, err := engine.Ask(ctx, question, history)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}

		fmt.Println("\n" + answer.Text)
		if len(answer.Sources) > 0 {
			fmt.Printf("\n[%d queries, %d context keys]\n",
				len(answer.CypherQueries), len(answer.Sources))
		}
		if *showQueries {
			for _, q := range answer.CypherQueries {
				fmt.Printf("  - %s\n", q.Name)
			}
		}

		history = append(history,
			casegraph.Turn{Role: "user", Text: question},
			casegraph.Turn{Role: "assistant", Text: answer.Text},
		)
		if len(history) > maxHistoryTurns {
			history = history[len(history)-maxHistoryTurns:]
		}
	}
}

// loadConfig layers defaults, an optional config file, and CASEGRAPH_*
// environment variables.
func loadConfig(path string) (casegraph.Config, error) {
	def := casegraph.DefaultConfig()

	v := viper.New()
	v.SetDefault("graph.uri", def.Graph.URI)
	v.SetDefault("graph.username", def.Graph.Username)
	v.SetDefault("graph.password", "")
	v.SetDefault("graph.database", "")
	v.SetDefault("chat.provider", def.Chat.Provider)
	v.SetDefault("chat.model", def.Chat.Model)
	v.SetDefault("chat.base_url", "")
	v.SetDefault("chat.api_key", "")
	v.SetDefault("cache.addr", "")
	v.SetDefault("cache.password", "")
	v.SetDefault("cache.db", 0)
	v.SetDefault("cache.ttl", time.Duration(0))
	v.SetDefault("history_window", def.HistoryWindow)
	v.SetDefault("generation_window", def.GenerationWindow)
	v.SetDefault("query_concurrency", def.QueryConcurrency)
	v.SetDefault("max_rows", def.MaxRows)
	v.SetDefault("temperature", def.Temperature)
	v.SetDefault("max_tokens", def.MaxTokens)
	v.SetDefault("request_timeout", def.RequestTimeout)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return casegraph.Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("CASEGRAPH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := casegraph.Config{
		Graph: store.GraphConfig{
			URI:      v.GetString("graph.uri"),
			Username: v.GetString("graph.username"),
			Password: v.GetString("graph.password"),
			Database: v.GetString("graph.database"),
		},
		Chat: llm.Config{
			Provider: v.GetString("chat.provider"),
			Model:    v.GetString("chat.model"),
			BaseURL:  v.GetString("chat.base_url"),
			APIKey:   v.GetString("chat.api_key"),
		},
		Cache: store.CacheConfig{
			Addr:     v.GetString("cache.addr"),
			Password: v.GetString("cache.password"),
			DB:       v.GetInt("cache.db"),
			TTL:      v.GetDuration("cache.ttl"),
		},
		HistoryWindow:    v.GetInt("history_window"),
		GenerationWindow: v.GetInt("generation_window"),
		QueryConcurrency: v.GetInt("query_concurrency"),
		MaxRows:          v.GetInt("max_rows"),
		Temperature:      v.GetFloat64("temperature"),
		MaxTokens:        v.GetInt("max_tokens"),
		RequestTimeout:   v.GetDuration("request_timeout"),
	}

	if cfg.Chat.APIKey == "" {
		switch cfg.Chat.Provider {
		case "openrouter":
			cfg.Chat.APIKey = os.Getenv("OPENROUTER_API_KEY")
		case "openai":
			cfg.Chat.APIKey = os.Getenv("OPENAI_API_KEY")
		case "groq":
			cfg.Chat.APIKey = os.Getenv("GROQ_API_KEY")
		case "xai":
			cfg.Chat.APIKey = os.Getenv("XAI_API_KEY")
		case "gemini":
			cfg.Chat.APIKey = os.Getenv("GEMINI_API_KEY")
		}
	}
	return cfg, nil
}
