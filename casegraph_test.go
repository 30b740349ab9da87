package casegraph

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/casegraph/casegraph/llm"
	"github.com/casegraph/casegraph/store"
)

// scriptedStore returns a stub graph with the gazetteer, baseline stats,
// and organization queries scripted. Fragments are chosen to match exactly
// one catalog query each.
func scriptedStore() *store.Stub {
	return store.NewStub().
		On("MATCH (o:Organization) RETURN o.name AS name",
			store.Row{"name": "West Side Crew"},
			store.Row{"name": "South Side Syndicate"},
			store.Row{"name": "North River Gang"},
			store.Row{"name": "Downtown Dealers"},
			store.Row{"name": "East Side Burglars"},
		).
		On("MATCH (l:Location) RETURN l.name AS name",
			store.Row{"name": "Austin"},
			store.Row{"name": "Englewood"},
		).
		On("count(e) AS evidence",
			store.Row{
				"crimes": int64(75), "persons": int64(60), "organizations": int64(5),
				"locations": int64(12), "evidence": int64(40),
			},
		).
		On("ORDER BY o.members_count DESC",
			store.Row{"name": "West Side Crew", "type": "street gang", "territory": "Austin", "members": int64(14), "activity_level": "high"},
			store.Row{"name": "South Side Syndicate", "type": "syndicate", "territory": "Englewood", "members": int64(11), "activity_level": "high"},
			store.Row{"name": "North River Gang", "type": "street gang", "territory": "River North", "members": int64(9), "activity_level": "medium"},
			store.Row{"name": "Downtown Dealers", "type": "trafficking ring", "territory": "Loop", "members": int64(7), "activity_level": "medium"},
			store.Row{"name": "East Side Burglars", "type": "burglary crew", "territory": "South Shore", "members": int64(5), "activity_level": "low"},
		).
		On("collect(p.name) AS members",
			store.Row{"organization": "West Side Crew", "members": []any{"Carlos Vega", "Maria Lopez"}, "member_count": int64(2)},
		).
		On("$org_name",
			store.Row{"member": "Carlos Vega", "crime_type": "robbery", "date": "2024-03-02", "description": "armed robbery on Cicero Ave", "status": "open"},
		)
}

type scriptedProvider struct {
	mu      sync.Mutex
	content string
	err     error
	calls   int
	lastReq llm.ChatRequest
}

func (p *scriptedProvider) Chat(_ context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	p.lastReq = req
	if p.err != nil {
		return nil, p.err
	}
	return &llm.ChatResponse{Content: p.content}, nil
}

func hasSource(ans *Answer, key string) bool {
	for _, s := range ans.Sources {
		if s == key {
			return true
		}
	}
	return false
}

func TestAskEmptyQuestion(t *testing.T) {
	eng := NewWithClients(DefaultConfig(), scriptedStore(), nil)

	for _, q := range []string{"", "   ", "\t\n"} {
		ans, err := eng.Ask(context.Background(), q, nil)
		if !errors.Is(err, ErrEmptyQuestion) {
			t.Errorf("Ask(%q) error = %v, want ErrEmptyQuestion", q, err)
		}
		if ans != nil {
			t.Errorf("Ask(%q) answer = %+v, want nil", q, ans)
		}
	}
}

func TestAskOrganizationsQuestion(t *testing.T) {
	eng := NewWithClients(DefaultConfig(), scriptedStore(), nil)

	ans, err := eng.Ask(context.Background(), "what criminal organizations are in the database?", nil)
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}

	for _, key := range []string{"database_stats", "all_organizations", "organization_members"} {
		if !hasSource(ans, key) {
			t.Errorf("sources = %v, missing %q", ans.Sources, key)
		}
	}
	if _, ok := ans.Context.Get("all_organizations"); !ok {
		t.Error("context bundle missing all_organizations")
	}

	// With no chat provider the fallback must still name every
	// organization the database returned.
	orgs := []string{"West Side Crew", "South Side Syndicate", "North River Gang", "Downtown Dealers", "East Side Burglars"}
	for _, name := range orgs {
		if !strings.Contains(ans.Text, name) {
			t.Errorf("answer does not mention %q:\n%s", name, ans.Text)
		}
	}

	if len(ans.CypherQueries) == 0 {
		t.Fatal("no cypher queries recorded")
	}
	if got := ans.CypherQueries[0].Name; got != "database_stats" {
		t.Errorf("first executed query = %q, want database_stats", got)
	}
}

func TestAskFollowUpUsesHistory(t *testing.T) {
	eng := NewWithClients(DefaultConfig(), scriptedStore(), nil)

	history := []Turn{
		{Role: "user", Text: "what gangs are active right now?"},
		{Role: "assistant", Text: "The most active organization is the West Side Crew."},
	}
	ans, err := eng.Ask(context.Background(), "tell me more about their recent crimes", history)
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}

	if !hasSource(ans, "org_West Side Crew_crimes") {
		t.Errorf("sources = %v, want org_West Side Crew_crimes from history entity", ans.Sources)
	}
	if hasSource(ans, "all_organizations") {
		t.Errorf("sources = %v, overview should not fire when an entity scoped the question", ans.Sources)
	}

	found := false
	for _, q := range ans.CypherQueries {
		if q.Name == "organization_crimes" {
			found = true
			if !strings.Contains(q.Query, "$org_name") {
				t.Errorf("organization_crimes query lost its parameter binding:\n%s", q.Query)
			}
		}
	}
	if !found {
		t.Errorf("executed queries %v missing organization_crimes", ans.CypherQueries)
	}
}

func TestAskUnknownPersonOmitsEmptyKeys(t *testing.T) {
	eng := NewWithClients(DefaultConfig(), scriptedStore(), nil)

	ans, err := eng.Ask(context.Background(), "what do we know about John Nobody?", nil)
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}

	for _, s := range ans.Sources {
		if strings.Contains(s, "John Nobody") {
			t.Errorf("empty person results must be omitted, got source %q", s)
		}
	}
	if hasSource(ans, "all_organizations") {
		t.Errorf("sources = %v, overview should not fire when a person rule matched", ans.Sources)
	}
	if !hasSource(ans, "database_stats") {
		t.Errorf("sources = %v, baseline stats missing", ans.Sources)
	}
	if !strings.Contains(ans.Text, "**75**") {
		t.Errorf("stats-only answer should fall back to the overview:\n%s", ans.Text)
	}
}

func TestAskStoreFailureNeverEscalates(t *testing.T) {
	st := store.NewStub().Fail("MATCH", errors.New("neo4j: connection refused"))
	eng := NewWithClients(DefaultConfig(), st, nil)

	ans, err := eng.Ask(context.Background(), "what criminal organizations are in the database?", nil)
	if err != nil {
		t.Fatalf("store failures must not escalate, got %v", err)
	}
	if len(ans.Sources) != 0 {
		t.Errorf("sources = %v, want none when every query failed", ans.Sources)
	}
	if len(ans.CypherQueries) != 3 {
		t.Errorf("executed queries = %d, want 3 (stats, organizations, members)", len(ans.CypherQueries))
	}
	if !strings.Contains(ans.Text, "could not find matching records") {
		t.Errorf("empty bundle should produce the no-data answer:\n%s", ans.Text)
	}
}

func TestAskProviderReceivesContext(t *testing.T) {
	p := &scriptedProvider{content: "The **West Side Crew** leads with **14** members."}
	eng := NewWithClients(DefaultConfig(), scriptedStore(), p)

	history := []Turn{
		{Role: "user", Text: "hello"},
		{Role: "assistant", Text: "hi, ask me about the case graph"},
	}
	ans, err := eng.Ask(context.Background(), "which gangs are most active?", history)
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}

	if ans.Text != p.content {
		t.Errorf("answer = %q, want provider content", ans.Text)
	}
	if p.calls != 1 {
		t.Fatalf("provider calls = %d, want 1", p.calls)
	}

	req := p.lastReq
	if req.Model != "openai/gpt-oss-20b:free" {
		t.Errorf("model = %q, want configured default", req.Model)
	}
	if len(req.Messages) != 4 {
		t.Fatalf("messages = %d, want system + 2 history + user", len(req.Messages))
	}
	if req.Messages[0].Role != llm.RoleSystem {
		t.Errorf("first message role = %q, want system", req.Messages[0].Role)
	}
	if req.Messages[2].Role != llm.RoleAssistant {
		t.Errorf("history assistant turn role = %q", req.Messages[2].Role)
	}
	last := req.Messages[len(req.Messages)-1]
	if !strings.Contains(last.Content, "=== DATABASE RESULTS ===") {
		t.Error("user prompt missing serialized context")
	}
	if !strings.Contains(last.Content, "which gangs are most active?") {
		t.Error("user prompt missing the question")
	}
}

func TestAskProviderErrorFallsBack(t *testing.T) {
	p := &scriptedProvider{err: errors.New("request timed out")}
	eng := NewWithClients(DefaultConfig(), scriptedStore(), p)

	ans, err := eng.Ask(context.Background(), "which gangs are most active?", nil)
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if p.calls != 1 {
		t.Errorf("provider calls = %d, want 1", p.calls)
	}
	if !strings.Contains(ans.Text, "West Side Crew") {
		t.Errorf("fallback should render retrieved organizations:\n%s", ans.Text)
	}
}

func TestAskResolvesGazetteerCaseInsensitively(t *testing.T) {
	eng := NewWithClients(DefaultConfig(), scriptedStore(), nil)

	ans, err := eng.Ask(context.Background(), "tell me about the west side crew", nil)
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if !hasSource(ans, "org_West Side Crew_crimes") {
		t.Errorf("sources = %v, want canonical org key for lowercase mention", ans.Sources)
	}
}

func TestAskIsStateless(t *testing.T) {
	eng := NewWithClients(DefaultConfig(), scriptedStore(), nil)
	ctx := context.Background()

	history := []Turn{{Role: "assistant", Text: "The West Side Crew runs Austin."}}
	if _, err := eng.Ask(ctx, "tell me more about their recent crimes", history); err != nil {
		t.Fatalf("first Ask: %v", err)
	}

	// A later call without history must not inherit entities from the
	// previous conversation.
	ans, err := eng.Ask(ctx, "any hotspots lately?", nil)
	if err != nil {
		t.Fatalf("second Ask: %v", err)
	}
	for _, s := range ans.Sources {
		if strings.Contains(s, "West Side Crew") {
			t.Errorf("entity leaked across calls: source %q", s)
		}
	}
}

func TestAskConcurrent(t *testing.T) {
	eng := NewWithClients(DefaultConfig(), scriptedStore(), nil)

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	texts := make([]string, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ans, err := eng.Ask(context.Background(), "what criminal organizations are in the database?", nil)
			if err != nil {
				errs[i] = err
				return
			}
			texts[i] = ans.Text
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		if errs[i] != nil {
			t.Fatalf("worker %d: %v", i, errs[i])
		}
		if !strings.Contains(texts[i], "West Side Crew") {
			t.Errorf("worker %d got an answer without retrieved data:\n%s", i, texts[i])
		}
		if texts[i] != texts[0] {
			t.Errorf("worker %d answer differs from worker 0", i)
		}
	}
}

func TestNewRejectsMissingGraphURI(t *testing.T) {
	_, err := New(context.Background(), Config{})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("New with empty graph uri = %v, want ErrInvalidConfig", err)
	}
}

func TestCloseWithoutOwnedConnections(t *testing.T) {
	eng := NewWithClients(DefaultConfig(), scriptedStore(), nil)
	if err := eng.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Chat.Provider != "openrouter" {
		t.Errorf("chat provider = %q, want openrouter", cfg.Chat.Provider)
	}
	if cfg.HistoryWindow != 6 {
		t.Errorf("history window = %d, want 6", cfg.HistoryWindow)
	}
	if cfg.GenerationWindow != 10 {
		t.Errorf("generation window = %d, want 10", cfg.GenerationWindow)
	}
	if cfg.Temperature != 0.3 {
		t.Errorf("temperature = %v, want 0.3", cfg.Temperature)
	}
	if cfg.MaxTokens != 600 {
		t.Errorf("max tokens = %d, want 600", cfg.MaxTokens)
	}
}
