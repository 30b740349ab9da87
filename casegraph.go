// Package casegraph answers natural-language questions about a criminal
// case graph stored in Neo4j.
//
// Every question runs the same pipeline: extract entities from the
// question and recent conversation turns, dispatch the question through an
// ordered rule table to a set of Cypher catalog queries, assemble the
// results into an ordered context bundle, and generate an answer grounded
// in that bundle. Generation prefers a chat model but degrades to a
// deterministic renderer, so the engine stays useful with no LLM at all.
//
// The engine keeps no conversation state. History travels with each call,
// which makes a single Engine safe to share across concurrent sessions.
package casegraph

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/casegraph/casegraph/extract"
	"github.com/casegraph/casegraph/generate"
	"github.com/casegraph/casegraph/llm"
	"github.com/casegraph/casegraph/metrics"
	"github.com/casegraph/casegraph/retrieval"
	"github.com/casegraph/casegraph/store"
)

// Turn is one prior exchange in a conversation, oldest first in history.
// Role is "user" or "assistant".
type Turn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Answer is the result of a single question.
type Answer struct {
	// Text is the rendered answer, from the chat model or the fallback.
	Text string `json:"answer"`

	// Sources lists the context bundle keys that back the answer, in
	// assembly order.
	Sources []string `json:"sources"`

	// CypherQueries records every catalog query attempted for this
	// question with its final executed text, including queries that
	// failed or returned nothing.
	CypherQueries []retrieval.ExecutedQuery `json:"cypher_queries"`

	// Context is the assembled bundle the answer was grounded in.
	Context *retrieval.Bundle `json:"context"`
}

// Engine is the main entry point for the case graph engine.
type Engine interface {
	// Ask answers a question about the case graph. History carries the
	// conversation so far; entities mentioned in recent turns scope
	// follow-up questions. Safe for concurrent use.
	Ask(ctx context.Context, question string, history []Turn) (*Answer, error)

	// Close shuts down the graph driver and cache connection.
	Close(ctx context.Context) error
}

type engine struct {
	cfg       Config
	graph     *store.Graph
	cache     *redis.Client
	extractor *extract.Extractor
	assembler *retrieval.Assembler
	generator *generate.Generator
	log       *slog.Logger
}

// New connects to the graph database and builds an Engine. The chat
// provider is optional: if it is unconfigured or fails to construct, the
// engine still starts and every answer uses the fallback renderer.
func New(ctx context.Context, cfg Config) (Engine, error) {
	if cfg.Graph.URI == "" {
		return nil, fmt.Errorf("%w: graph uri is required", ErrInvalidConfig)
	}

	log := slog.Default().With("component", "casegraph")

	g, err := store.NewGraph(ctx, cfg.Graph)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGraphUnavailable, err)
	}

	var querier store.Querier = g
	var cacheClient *redis.Client
	if cfg.Cache.Addr != "" {
		cacheClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.Addr,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
		})
		querier = store.NewCache(querier, cacheClient, cfg.Cache.TTL, log)
	}

	var provider llm.Provider
	if cfg.Chat.Provider != "" {
		provider, err = llm.NewProvider(cfg.Chat)
		if err != nil {
			log.Warn("chat provider unavailable, serving fallback answers", "error", err)
			provider = nil
		}
	} else {
		log.Info("no chat provider configured, serving fallback answers")
	}

	e := newEngine(cfg, querier, provider, log)
	e.graph = g
	e.cache = cacheClient
	return e, nil
}

// NewWithClients builds an Engine over an existing store and provider,
// bypassing connection setup. Tests and embedders use it to supply fakes.
// provider may be nil; Close does not own either dependency.
func NewWithClients(cfg Config, q store.Querier, provider llm.Provider) Engine {
	return newEngine(cfg, q, provider, slog.Default().With("component", "casegraph"))
}

func newEngine(cfg Config, q store.Querier, provider llm.Provider, log *slog.Logger) *engine {
	return &engine{
		cfg:       cfg,
		extractor: extract.New(q, log),
		assembler: retrieval.New(q, log, retrieval.Config{
			Concurrency: cfg.QueryConcurrency,
			MaxRows:     cfg.MaxRows,
		}),
		generator: generate.New(provider, log, generate.Config{
			Model:          cfg.Chat.Model,
			Temperature:    cfg.Temperature,
			MaxTokens:      cfg.MaxTokens,
			HistoryWindow:  cfg.GenerationWindow,
			RequestTimeout: cfg.RequestTimeout,
		}),
		log: log,
	}
}

func (e *engine) Ask(ctx context.Context, question string, history []Turn) (*Answer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, ErrEmptyQuestion
	}

	start := time.Now()
	metrics.QuestionsTotal.Inc()
	log := e.log.With("request_id", uuid.NewString())
	log.Info("question received", "length", len(question), "history_turns", len(history))

	ents := e.extractor.Extract(ctx, question)
	if len(history) > 0 {
		past := e.extractor.FromHistory(ctx, extractTurns(history), e.cfg.HistoryWindow)
		ents = extract.Merge(ents, past)
	}
	log.Debug("entities resolved",
		"persons", ents.Persons, "organizations", ents.Organizations,
		"locations", ents.Locations, "crime_types", ents.CrimeTypes)

	bounds := retrieval.Dispatch(question, ents)
	bundle, executed := e.assembler.Run(ctx, bounds)

	text, fellBack := e.generator.Answer(ctx, question, chatHistory(history), bundle)

	// Non-fatal: flags model output that names entities or counts absent
	// from the retrieved context.
	if !fellBack {
		if terms := generate.UnsupportedTerms(text, generate.Serialize(bundle), question); len(terms) > 0 {
			log.Warn("answer mentions terms not in retrieved context", "terms", terms)
		}
	}

	metrics.AskDuration.Observe(time.Since(start).Seconds())
	metrics.ContextKeys.Observe(float64(bundle.Len()))
	log.Info("question answered",
		"context_keys", bundle.Len(), "queries", len(executed),
		"fallback", fellBack, "elapsed", time.Since(start))

	return &Answer{
		Text:          text,
		Sources:       bundle.Keys(),
		CypherQueries: executed,
		Context:       bundle,
	}, nil
}

func (e *engine) Close(ctx context.Context) error {
	var errs []error
	if e.cache != nil {
		if err := e.cache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing cache: %w", err))
		}
	}
	if e.graph != nil {
		if err := e.graph.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("closing graph: %w", err))
		}
	}
	return errors.Join(errs...)
}

func extractTurns(history []Turn) []extract.Turn {
	turns := make([]extract.Turn, len(history))
	for i, t := range history {
		turns[i] = extract.Turn{Role: t.Role, Text: t.Text}
	}
	return turns
}

// chatHistory maps conversation turns to chat messages. Unknown roles are
// treated as user turns.
func chatHistory(history []Turn) []llm.Message {
	msgs := make([]llm.Message, 0, len(history))
	for _, t := range history {
		role := llm.RoleUser
		if strings.EqualFold(t.Role, llm.RoleAssistant) {
			role = llm.RoleAssistant
		}
		msgs = append(msgs, llm.Message{Role: role, Content: t.Text})
	}
	return msgs
}
