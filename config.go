package casegraph

import (
	"time"

	"github.com/casegraph/casegraph/llm"
	"github.com/casegraph/casegraph/store"
)

// Config holds all configuration for the CaseGraph engine.
type Config struct {
	// Graph connects the Neo4j case database. URI is required.
	Graph store.GraphConfig `json:"graph" yaml:"graph"`

	// Chat configures the answer model. Leaving the provider empty, or
	// pointing it at an unreachable backend, is not an error: the engine
	// starts anyway and serves deterministic fallback answers.
	Chat llm.Config `json:"chat" yaml:"chat"`

	// Cache optionally wraps the graph store in a Redis read-through
	// cache. Empty Addr disables it.
	Cache store.CacheConfig `json:"cache" yaml:"cache"`

	// HistoryWindow is how many trailing conversation turns feed entity
	// extraction for follow-up questions. Defaults to 6.
	HistoryWindow int `json:"history_window" yaml:"history_window"`

	// GenerationWindow is how many trailing turns the answer model sees.
	// Defaults to 10.
	GenerationWindow int `json:"generation_window" yaml:"generation_window"`

	// QueryConcurrency caps parallel catalog queries per question
	// (default 4). MaxRows caps rows kept per context key (default 50).
	QueryConcurrency int `json:"query_concurrency" yaml:"query_concurrency"`
	MaxRows          int `json:"max_rows" yaml:"max_rows"`

	// Generation parameters.
	Temperature    float64       `json:"temperature" yaml:"temperature"`
	MaxTokens      int           `json:"max_tokens" yaml:"max_tokens"`
	RequestTimeout time.Duration `json:"request_timeout" yaml:"request_timeout"`
}

// DefaultConfig returns a Config with sensible defaults: a local Neo4j
// instance and the free OpenRouter tier for answers.
func DefaultConfig() Config {
	return Config{
		Graph: store.GraphConfig{
			URI:      "neo4j://localhost:7687",
			Username: "neo4j",
		},
		Chat: llm.Config{
			Provider: "openrouter",
			Model:    "openai/gpt-oss-20b:free",
		},
		HistoryWindow:    6,
		GenerationWindow: 10,
		QueryConcurrency: 4,
		MaxRows:          50,
		Temperature:      0.3,
		MaxTokens:        600,
		RequestTimeout:   25 * time.Second,
	}
}
