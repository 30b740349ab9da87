// Command eval runs the golden question datasets against a live engine
// and reports key recall, fact accuracy, and grounding per dataset. It
// needs a seeded graph database; the chat provider is optional.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/casegraph/casegraph"
	"github.com/casegraph/casegraph/eval"
	"github.com/casegraph/casegraph/llm"
)

func main() {
	var (
		graphURI   = flag.String("graph-uri", "", "Neo4j URI (default: $CASEGRAPH_GRAPH_URI or neo4j://localhost:7687)")
		graphUser  = flag.String("graph-user", "", "Neo4j username")
		graphPass  = flag.String("graph-pass", "", "Neo4j password")
		provider   = flag.String("chat-provider", "", "Chat provider (empty runs the deterministic fallback only)")
		model      = flag.String("chat-model", "", "Chat model name")
		dataset    = flag.String("dataset", "all", "Dataset to run: overview, entity, analysis, follow-up, all")
		outputFile = flag.String("output", "", "Path to write the JSON report")
	)
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	godotenv.Load()

	cfg := casegraph.DefaultConfig()
	cfg.Chat = llm.Config{} // fallback-only unless a provider is requested
	if v := os.Getenv("CASEGRAPH_GRAPH_URI"); v != "" {
		cfg.Graph.URI = v
	}
	if v := os.Getenv("CASEGRAPH_GRAPH_USERNAME"); v != "" {
		cfg.Graph.Username = v
	}
	if v := os.Getenv("CASEGRAPH_GRAPH_PASSWORD"); v != "" {
		cfg.Graph.Password = v
	}
	if *graphURI != "" {
		cfg.Graph.URI = *graphURI
	}
	if *graphUser != "" {
		cfg.Graph.Username = *graphUser
	}
	if *graphPass != "" {
		cfg.Graph.Password = *graphPass
	}
	if *provider != "" {
		cfg.Chat = llm.Config{Provider: *provider, Model: *model}
		if cfg.Chat.APIKey == "" {
			cfg.Chat.APIKey = os.Getenv("CASEGRAPH_CHAT_API_KEY")
		}
	}

	datasets, err := selectDatasets(*dataset)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	engine, err := casegraph.New(ctx, cfg)
	cancel()
	if err != nil {
		slog.Error("creating engine", "error", err)
		os.Exit(1)
	}
	defer engine.Close(context.Background())

	evaluator := eval.NewEvaluator(engine)
	reports, err := evaluator.RunAll(context.Background(), datasets)
	if err != nil {
		slog.Error("evaluation failed", "error", err)
		os.Exit(1)
	}

	failed := 0
	fmt.Println()
	for _, report := range reports {
		fmt.Printf("%-36s %d/%d passed  key_recall=%.2f  fact_accuracy=%.2f  grounding=%.2f  (%s)\n",
			report.Dataset, report.Passed, report.TotalTests,
			report.Metrics.AvgKeyRecall, report.Metrics.AvgFactAccuracy,
			report.Metrics.AvgGrounding, report.RunTime.Round(time.Millisecond))
		failed += report.Failed

		for _, result := range report.Results {
			if result.Passed {
				continue
			}
			fmt.Printf("  FAIL %q\n", result.Question)
			if len(result.MissingKeys) > 0 {
				fmt.Printf("       missing keys: %s\n", strings.Join(result.MissingKeys, ", "))
			}
			if len(result.MissingFacts) > 0 {
				fmt.Printf("       missing facts: %s\n", strings.Join(result.MissingFacts, ", "))
			}
			if result.Error != "" {
				fmt.Printf("       error: %s\n", result.Error)
			}
		}
	}

	if *outputFile != "" {
		if err := writeReport(*outputFile, reports); err != nil {
			slog.Error("writing report", "path", *outputFile, "error", err)
			os.Exit(1)
		}
		fmt.Printf("\nreport written to %s\n", *outputFile)
	}

	if failed > 0 {
		os.Exit(1)
	}
}

func selectDatasets(name string) ([]eval.Dataset, error) {
	switch name {
	case "all":
		return eval.AllDatasets(), nil
	case "overview":
		return []eval.Dataset{eval.OverviewDataset()}, nil
	case "entity":
		return []eval.Dataset{eval.EntityDataset()}, nil
	case "analysis":
		return []eval.Dataset{eval.AnalysisDataset()}, nil
	case "follow-up":
		return []eval.Dataset{eval.FollowUpDataset()}, nil
	}
	return nil, fmt.Errorf("unknown dataset %q: want overview, entity, analysis, follow-up, or all", name)
}

func writeReport(path string, reports []*eval.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(reports)
}
