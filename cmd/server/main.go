// Command server exposes the case graph engine over HTTP: POST /ask for
// questions, GET /health for probes, GET /metrics for Prometheus.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/viper"

	"github.com/casegraph/casegraph"
	"github.com/casegraph/casegraph/llm"
	"github.com/casegraph/casegraph/store"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (JSON or YAML)")
	addr := flag.String("addr", ":8080", "Listen address")
	flag.Parse()

	// Structured JSON logging.
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	// Optional .env for local development; absence is fine.
	if err := godotenv.Load(); err == nil {
		slog.Info("loaded environment from .env")
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}

	apiKey := os.Getenv("CASEGRAPH_API_KEY")
	corsOrigins := os.Getenv("CASEGRAPH_CORS_ORIGINS")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	engine, err := casegraph.New(ctx, cfg)
	cancel()
	if err != nil {
		slog.Error("creating engine", "error", err)
		os.Exit(1)
	}
	defer engine.Close(context.Background())

	h := newHandler(engine)
	mux := http.NewServeMux()

	mux.HandleFunc("POST /ask", h.handleAsk)
	mux.HandleFunc("GET /health", h.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Middleware chain: recovery -> cors -> auth -> request id -> logging -> mux
	var handler http.Handler = mux
	handler = logMiddleware(handler)
	handler = requestIDMiddleware(handler)
	handler = authMiddleware(apiKey, handler)
	handler = corsMiddleware(corsOrigins, handler)
	handler = recoveryMiddleware(handler)

	srv := &http.Server{
		Addr:         *addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 3 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown on SIGTERM/SIGINT.
	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", *addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-done
	slog.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("server stopped")
}

// loadConfig layers defaults, an optional config file, and CASEGRAPH_*
// environment variables (e.g. CASEGRAPH_GRAPH_URI, CASEGRAPH_CHAT_API_KEY).
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

	// Fallback: check well-known provider env vars for API keys.
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
