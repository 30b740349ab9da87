package retrieval

import (
	"context"
	"errors"
	"testing"

	"github.com/casegraph/casegraph/graph"
	"github.com/casegraph/casegraph/store"
)

func listBound(name, key, query string) graph.Bound {
	return graph.Bound{
		Descriptor: graph.Descriptor{Name: name, Key: key, Kind: graph.KindList, Template: query},
		Key:        key,
		Query:      query,
	}
}

func statsBound(name, key, query string) graph.Bound {
	b := listBound(name, key, query)
	b.Descriptor.Kind = graph.KindStats
	return b
}

func TestRunIsolatesFailures(t *testing.T) {
	stub := store.NewStub().
		On("QUERY ONE", store.Row{"name": "West Side Crew"}).
		Fail("QUERY TWO", errors.New("connection reset")).
		On("QUERY THREE", store.Row{"location": "Austin"})

	a := New(stub, nil, Config{})
	bundle, executed := a.Run(context.Background(), []graph.Bound{
		listBound("q1", "k1", "QUERY ONE"),
		listBound("q2", "k2", "QUERY TWO"),
		listBound("q3", "k3", "QUERY THREE"),
	})

	if _, ok := bundle.Get("k2"); ok {
		t.Error("failed query produced a bundle key")
	}
	if _, ok := bundle.Get("k1"); !ok {
		t.Error("k1 missing despite sibling failure")
	}
	if _, ok := bundle.Get("k3"); !ok {
		t.Error("k3 missing despite sibling failure")
	}
	if len(executed) != 3 {
		t.Errorf("executed = %d records, want 3", len(executed))
	}
}

func TestRunOmitsEmptyResults(t *testing.T) {
	stub := store.NewStub().
		On("QUERY ONE", store.Row{"name": "John Smith"}).
		On("QUERY TWO") // zero rows

	a := New(stub, nil, Config{})
	bundle, executed := a.Run(context.Background(), []graph.Bound{
		listBound("q1", "k1", "QUERY ONE"),
		listBound("q2", "k2", "QUERY TWO"),
	})

	if _, ok := bundle.Get("k2"); ok {
		t.Error("empty result produced a bundle key")
	}
	if bundle.Len() != 1 {
		t.Errorf("bundle keys = %v, want [k1]", bundle.Keys())
	}
	// The attempt is still recorded for traceability.
	if len(executed) != 2 {
		t.Errorf("executed = %d records, want 2", len(executed))
	}
}

func TestRunPreservesBoundOrder(t *testing.T) {
	stub := store.NewStub().
		On("QUERY ONE", store.Row{"a": 1}).
		On("QUERY TWO", store.Row{"b": 2}).
		On("QUERY THREE", store.Row{"c": 3}).
		On("QUERY FOUR", store.Row{"d": 4})

	a := New(stub, nil, Config{Concurrency: 4})
	bundle, executed := a.Run(context.Background(), []graph.Bound{
		listBound("q1", "k1", "QUERY ONE"),
		listBound("q2", "k2", "QUERY TWO"),
		listBound("q3", "k3", "QUERY THREE"),
		listBound("q4", "k4", "QUERY FOUR"),
	})

	want := []string{"k1", "k2", "k3", "k4"}
	got := bundle.Keys()
	if len(got) != len(want) {
		t.Fatalf("keys = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("keys[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	for i, name := range []string{"q1", "q2", "q3", "q4"} {
		if executed[i].Name != name {
			t.Errorf("executed[%d].Name = %q, want %q", i, executed[i].Name, name)
		}
	}
}

func TestRunStatsKind(t *testing.T) {
	stub := store.NewStub().
		On("STATS QUERY", store.Row{"crimes": int64(75), "persons": int64(60)})

	a := New(stub, nil, Config{})
	bundle, _ := a.Run(context.Background(), []graph.Bound{
		statsBound("database_stats", "database_stats", "STATS QUERY"),
	})

	item, ok := bundle.Get("database_stats")
	if !ok {
		t.Fatal("database_stats missing")
	}
	if item.Stats == nil {
		t.Fatal("stats item has no Stats row")
	}
	if item.Rows != nil {
		t.Error("stats item also carries Rows")
	}
	if item.Stats["crimes"] != int64(75) {
		t.Errorf("crimes = %v, want 75", item.Stats["crimes"])
	}
}

func TestRunCapsRows(t *testing.T) {
	rows := make([]store.Row, 9)
	for i := range rows {
		rows[i] = store.Row{"n": i}
	}
	stub := store.NewStub().On("QUERY ONE", rows...)

	a := New(stub, nil, Config{MaxRows: 5})
	bundle, _ := a.Run(context.Background(), []graph.Bound{
		listBound("q1", "k1", "QUERY ONE"),
	})

	item, _ := bundle.Get("k1")
	if len(item.Rows) != 5 {
		t.Errorf("rows kept = %d, want 5", len(item.Rows))
	}
	if item.Rows[0]["n"] != 0 || item.Rows[4]["n"] != 4 {
		t.Errorf("cap changed row order: %v", item.Rows)
	}
}

func TestRunRecordsFinalQueryText(t *testing.T) {
	stub := store.NewStub()
	a := New(stub, nil, Config{})

	bound := graph.ShortestPath("John Smith", "Mike Jones")
	_, executed := a.Run(context.Background(), []graph.Bound{bound})

	if len(executed) != 1 {
		t.Fatalf("executed = %d records, want 1", len(executed))
	}
	if executed[0].Name != "shortest_path" {
		t.Errorf("Name = %q, want shortest_path", executed[0].Name)
	}
	if executed[0].Query != bound.Query {
		t.Errorf("Query = %q, want the interpolated text", executed[0].Query)
	}
}
