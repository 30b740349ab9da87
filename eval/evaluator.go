// Package eval scores the engine against golden question sets. Each test
// case pins the context keys retrieval must produce and facts the answer
// must mention, plus a grounding score that checks every name and number
// in the answer against the retrieved context.
package eval

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/casegraph/casegraph"
	"github.com/casegraph/casegraph/generate"
)

// Evaluator runs evaluation datasets against a CaseGraph engine.
type Evaluator struct {
	engine casegraph.Engine
}

// NewEvaluator creates a new evaluator.
func NewEvaluator(engine casegraph.Engine) *Evaluator {
	return &Evaluator{engine: engine}
}

// Report holds the results of an evaluation run.
type Report struct {
	Dataset    string           `json:"dataset"`
	TotalTests int              `json:"total_tests"`
	Passed     int              `json:"passed"`
	Failed     int              `json:"failed"`
	Metrics    AggregateMetrics `json:"metrics"`
	Results    []TestResult     `json:"results"`
	RunTime    time.Duration    `json:"run_time"`
}

// AggregateMetrics holds averaged scores across all scored tests.
type AggregateMetrics struct {
	AvgKeyRecall    float64 `json:"avg_key_recall"`
	AvgFactAccuracy float64 `json:"avg_fact_accuracy"`
	AvgGrounding    float64 `json:"avg_grounding"`
	AvgContextKeys  float64 `json:"avg_context_keys"`
	AvgQueries      float64 `json:"avg_queries"`
}

// TestResult holds the result of a single test case with diagnostics.
type TestResult struct {
	Question     string   `json:"question"`
	Category     string   `json:"category,omitempty"`
	Answer       string   `json:"answer"`
	Sources      []string `json:"sources"`
	MissingKeys  []string `json:"missing_keys,omitempty"`
	MissingFacts []string `json:"missing_facts,omitempty"`
	KeyRecall    float64  `json:"key_recall"`
	FactAccuracy float64  `json:"fact_accuracy"`
	Grounding    float64  `json:"grounding"`
	Queries      int      `json:"queries"`
	Passed       bool     `json:"passed"`
	Error        string   `json:"error,omitempty"`
	ElapsedMs    int64    `json:"elapsed_ms"`
}

// Run executes an evaluation dataset against the engine.
func (e *Evaluator) Run(ctx context.Context, dataset Dataset) (*Report, error) {
	start := time.Now()
	report := &Report{
		Dataset:    dataset.Name,
		TotalTests: len(dataset.Tests),
	}

	scored := 0
	for i, test := range dataset.Tests {
		result := e.runTest(ctx, test)
		report.Results = append(report.Results, result)

		status := "PASS"
		if !result.Passed {
			status = "FAIL"
		}
		if result.Error != "" {
			status = "ERROR"
		}
		slog.Info("eval: test complete",
			"progress", fmt.Sprintf("%d/%d", i+1, len(dataset.Tests)),
			"status", status,
			"key_recall", fmt.Sprintf("%.2f", result.KeyRecall),
			"fact_accuracy", fmt.Sprintf("%.2f", result.FactAccuracy),
			"grounding", fmt.Sprintf("%.2f", result.Grounding),
			"elapsed_ms", result.ElapsedMs,
			"question", truncate(test.Question, 80))

		if result.Passed {
			report.Passed++
		} else {
			report.Failed++
		}

		// Errored tests contribute all zeros, which would artificially
		// depress the averages; score only completed tests.
		if result.Error != "" {
			continue
		}
		scored++
		report.Metrics.AvgKeyRecall += result.KeyRecall
		report.Metrics.AvgFactAccuracy += result.FactAccuracy
		report.Metrics.AvgGrounding += result.Grounding
		report.Metrics.AvgContextKeys += float64(len(result.Sources))
		report.Metrics.AvgQueries += float64(result.Queries)
	}

	if scored > 0 {
		n := float64(scored)
		report.Metrics.AvgKeyRecall /= n
		report.Metrics.AvgFactAccuracy /= n
		report.Metrics.AvgGrounding /= n
		report.Metrics.AvgContextKeys /= n
		report.Metrics.AvgQueries /= n
	}
	report.RunTime = time.Since(start)
	return report, nil
}

// RunAll executes every dataset and returns one report per dataset.
func (e *Evaluator) RunAll(ctx context.Context, datasets []Dataset) ([]*Report, error) {
	reports := make([]*Report, 0, len(datasets))
	for _, ds := range datasets {
		report, err := e.Run(ctx, ds)
		if err != nil {
			return reports, fmt.Errorf("running dataset %q: %w", ds.Name, err)
		}
		reports = append(reports, report)
	}
	return reports, nil
}

func (e *Evaluator) runTest(ctx context.Context, test TestCase) TestResult {
	result := TestResult{Question: test.Question, Category: test.Category}

	start := time.Now()
	ans, err := e.engine.Ask(ctx, test.Question, test.History)
	result.ElapsedMs = time.Since(start).Milliseconds()
	if err != nil {
		result.Error = err.Error()
		return result
	}

	result.Answer = ans.Text
	result.Sources = ans.Sources
	result.Queries = len(ans.CypherQueries)
	result.KeyRecall, result.MissingKeys = scoreKeys(ans.Sources, test.ExpectedKeys)
	result.FactAccuracy, result.MissingFacts = scoreFacts(ans.Text, test.ExpectedFacts)
	result.Grounding = computeGrounding(ans.Text, generate.Serialize(ans.Context), test.Question)
	result.Passed = result.KeyRecall == 1 && result.FactAccuracy == 1
	return result
}
