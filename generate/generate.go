// Package generate renders the final answer for a question from its
// evidence bundle, either through the configured chat model or through a
// deterministic fallback that formats the bundle directly. Both paths are
// grounded: every name and number in the output comes from the bundle or
// the question.
package generate

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/casegraph/casegraph/llm"
	"github.com/casegraph/casegraph/metrics"
	"github.com/casegraph/casegraph/retrieval"
)

const (
	defaultTemperature   = 0.3
	defaultMaxTokens     = 600
	defaultHistoryWindow = 10
	defaultTimeout       = 25 * time.Second

	// minAnswerLength is the shortest completion accepted from the model;
	// anything below it reads as a refusal or an empty echo.
	minAnswerLength = 10
)

// Fallback reasons used as metric labels.
const (
	reasonNoProvider    = "no_provider"
	reasonBackendFailed = "backend_failed"
	reasonBlankAnswer   = "blank_answer"
)

// Config holds generator configuration. Zero values select the defaults.
type Config struct {
	Model          string
	Temperature    float64
	MaxTokens      int
	HistoryWindow  int
	RequestTimeout time.Duration
}

// Generator produces answer text. A nil provider is valid and means every
// answer uses the deterministic fallback.
type Generator struct {
	provider llm.Provider
	log      *slog.Logger
	cfg      Config
}

// New creates a Generator. provider may be nil.
func New(provider llm.Provider, log *slog.Logger, cfg Config) *Generator {
	if log == nil {
		log = slog.Default()
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = defaultTemperature
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	if cfg.HistoryWindow == 0 {
		cfg.HistoryWindow = defaultHistoryWindow
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = defaultTimeout
	}
	return &Generator{provider: provider, log: log, cfg: cfg}
}

// Answer renders the answer for a question. It reports whether the
// deterministic fallback produced the text. The model is given the most
// recent history turns up to the configured window; a transport failure,
// timeout, or blank completion never surfaces as an error, it degrades to
// the fallback.
func (g *Generator) Answer(ctx context.Context, question string, history []llm.Message, bundle *retrieval.Bundle) (string, bool) {
	if g.provider == nil {
		metrics.FallbackAnswers.WithLabelValues(reasonNoProvider).Inc()
		return Fallback(bundle), true
	}

	text, err := g.complete(ctx, question, history, Serialize(bundle))
	if err != nil {
		metrics.FallbackAnswers.WithLabelValues(reasonBackendFailed).Inc()
		g.log.Warn("answer generation failed, using fallback", "error", err)
		return Fallback(bundle), true
	}
	if len(strings.TrimSpace(text)) < minAnswerLength {
		metrics.FallbackAnswers.WithLabelValues(reasonBlankAnswer).Inc()
		g.log.Warn("model returned a blank answer, using fallback", "length", len(text))
		return Fallback(bundle), true
	}
	return strings.TrimSpace(text), false
}

func (g *Generator) complete(ctx context.Context, question string, history []llm.Message, serialized string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.cfg.RequestTimeout)
	defer cancel()

	if len(history) > g.cfg.HistoryWindow {
		history = history[len(history)-g.cfg.HistoryWindow:]
	}

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: systemPrompt})
	messages = append(messages, history...)
	messages = append(messages, llm.Message{
		Role:    llm.RoleUser,
		Content: buildUserPrompt(question, serialized),
	})

	resp, err := g.provider.Chat(ctx, llm.ChatRequest{
		Model:       g.cfg.Model,
		Messages:    messages,
		Temperature: g.cfg.Temperature,
		MaxTokens:   g.cfg.MaxTokens,
	})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

const systemPrompt = `You are a crime analysis assistant working over an investigative case graph. Answer questions using ONLY the database results provided.
Rules:
1. Never invent names, numbers, dates, or events that are not in the database results.
2. Write natural, conversational paragraphs rather than raw lists.
3. Mark the names of people, organizations, and locations and any counts in **bold**.
4. If the database results do not answer the question, say so plainly.
5. End with one short follow-up question suggesting the next line of inquiry.`

func buildUserPrompt(question, serialized string) string {
	var b strings.Builder
	b.WriteString(serialized)
	b.WriteString("\nQuestion: ")
	b.WriteString(question)
	return b.String()
}
