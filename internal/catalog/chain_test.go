package catalog

import (
	"context"
	"fmt"
	"testing"

	"ytmusicbot/internal/logger"
)

type mockSearcher struct {
	name    string
	results []Track
	err     error
	calls   int
}

func (m *mockSearcher) Name() string { return m.name }
func (m *mockSearcher) Search(_ context.Context, _ string, _ int) ([]Track, error) {
	m.calls++
	return m.results, m.err
}

func TestChain_FirstSuccess(t *testing.T) {
	s1 := &mockSearcher{name: "first", results: []Track{{ID: "a", Title: "from-first"}}}
	s2 := &mockSearcher{name: "second", results: []Track{{ID: "b", Title: "from-second"}}}

	chain := NewChain([]Searcher{s1, s2}, logger.New(false))
	results, err := chain.Search(context.Background(), "test", 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].Title != "from-first" {
		t.Errorf("expected result from first searcher, got %v", results)
	}
	if s2.calls != 0 {
		t.Errorf("second searcher should not run, got %d calls", s2.calls)
	}
}

func TestChain_FallbackOnError(t *testing.T) {
	s1 := &mockSearcher{name: "failing", err: fmt.Errorf("api down")}
	s2 := &mockSearcher{name: "fallback", results: []Track{{ID: "b", Title: "from-fallback"}}}

	chain := NewChain([]Searcher{s1, s2}, logger.New(false))
	results, err := chain.Search(context.Background(), "test", 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].Title != "from-fallback" {
		t.Errorf("expected result from fallback searcher, got %v", results)
	}
}

func TestChain_FallbackOnEmpty(t *testing.T) {
	s1 := &mockSearcher{name: "empty"}
	s2 := &mockSearcher{name: "has-results", results: []Track{{ID: "c", Title: "found"}}}

	chain := NewChain([]Searcher{s1, s2}, logger.New(false))
	results, err := chain.Search(context.Background(), "test", 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].Title != "found" {
		t.Errorf("expected result from second searcher, got %v", results)
	}
}

func TestChain_AllFail(t *testing.T) {
	s1 := &mockSearcher{name: "fail1", err: fmt.Errorf("error1")}
	s2 := &mockSearcher{name: "fail2", err: fmt.Errorf("error2")}

	chain := NewChain([]Searcher{s1, s2}, logger.New(false))
	results, err := chain.Search(context.Background(), "test", 20)
	if err == nil {
		t.Fatal("expected joined error when every searcher fails")
	}
	if results != nil {
		t.Errorf("expected nil results, got %v", results)
	}
}

func TestChain_NothingFound(t *testing.T) {
	s1 := &mockSearcher{name: "fail", err: fmt.Errorf("error1")}
	s2 := &mockSearcher{name: "empty"}

	chain := NewChain([]Searcher{s1, s2}, logger.New(false))
	results, err := chain.Search(context.Background(), "test", 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results != nil {
		t.Errorf("expected nil results, got %v", results)
	}
}

func TestChain_Name(t *testing.T) {
	chain := NewChain(nil, logger.New(false))
	if chain.Name() != "chain" {
		t.Errorf("Name() = %q, want %q", chain.Name(), "chain")
	}
}
