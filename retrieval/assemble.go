package retrieval

import (
	"context"
	"log/slog"
	"sync"

	"github.com/casegraph/casegraph/graph"
	"github.com/casegraph/casegraph/metrics"
	"github.com/casegraph/casegraph/store"
)

const (
	defaultConcurrency = 4
	defaultMaxRows     = 50
)

// Config holds assembler configuration.
type Config struct {
	// Concurrency bounds how many queries run at once. Zero means 4.
	Concurrency int
	// MaxRows caps the rows kept per list result. Zero means 50.
	MaxRows int
}

// Assembler executes bound queries and collects their results into a
// bundle.
type Assembler struct {
	store       store.Querier
	log         *slog.Logger
	concurrency int
	maxRows     int
}

// New creates an Assembler over the given store.
func New(q store.Querier, log *slog.Logger, cfg Config) *Assembler {
	if log == nil {
		log = slog.Default()
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	if cfg.MaxRows <= 0 {
		cfg.MaxRows = defaultMaxRows
	}
	return &Assembler{
		store:       q,
		log:         log,
		concurrency: cfg.Concurrency,
		maxRows:     cfg.MaxRows,
	}
}

// Run executes every bound query and assembles the bundle. Queries run
// concurrently up to the configured bound, but results enter the bundle in
// bound order so output is deterministic. Failures are isolated: a failed
// query is logged and its key omitted while every sibling still runs.
// Empty results are omitted as well, so key presence means data exists.
//
// The returned records cover every query that was attempted, in order, with
// the final query text.
func (a *Assembler) Run(ctx context.Context, bounds []graph.Bound) (*Bundle, []ExecutedQuery) {
	type result struct {
		rows []store.Row
		err  error
	}
	results := make([]result, len(bounds))

	sem := make(chan struct{}, a.concurrency)
	var wg sync.WaitGroup
	for i, b := range bounds {
		wg.Add(1)
		go func(i int, b graph.Bound) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			rows, err := a.store.Query(ctx, b.Query, b.Params)
			results[i] = result{rows: rows, err: err}
		}(i, b)
	}
	wg.Wait()

	bundle := NewBundle()
	executed := make([]ExecutedQuery, 0, len(bounds))
	for i, b := range bounds {
		executed = append(executed, ExecutedQuery{Name: b.Descriptor.Name, Query: b.Query})
		metrics.QueryExecutions.WithLabelValues(b.Descriptor.Name).Inc()

		res := results[i]
		if res.err != nil {
			metrics.QueryFailures.WithLabelValues(b.Descriptor.Name).Inc()
			a.log.Warn("catalog query failed",
				"query", b.Descriptor.Name, "key", b.Key, "error", res.err)
			continue
		}
		if len(res.rows) == 0 {
			continue
		}

		if b.Descriptor.Kind == graph.KindStats {
			bundle.Add(b.Key, Item{Stats: res.rows[0]})
			continue
		}
		rows := res.rows
		if len(rows) > a.maxRows {
			rows = rows[:a.maxRows]
		}
		bundle.Add(b.Key, Item{Rows: rows})
	}
	return bundle, executed
}
