package suggest

import (
	"context"
	"strings"
	"testing"
)

func TestCacheLRUEviction(t *testing.T) {
	c := NewCache(3)
	c.Set("a", []Suggestion{{Word: "aa", Rank: 1}})
	c.Set("b", []Suggestion{{Word: "bb", Rank: 1}})
	c.Set("c", []Suggestion{{Word: "cc", Rank: 1}})

	// Touch "a" so "b" becomes the eviction candidate.
	if _, ok := c.Get("a"); !ok {
		t.Fatal("expected hit for a")
	}
	c.Set("d", []Suggestion{{Word: "dd", Rank: 1}})

	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("a should have survived")
	}
	if c.Len() != 3 {
		t.Errorf("Len = %d, want 3", c.Len())
	}
}

func TestCacheEmptyListIsAHit(t *testing.T) {
	c := NewCache(0)
	c.Set("zzz", nil)
	got, ok := c.Get("zzz")
	if !ok {
		t.Fatal("cached empty list must be a hit")
	}
	if len(got) != 0 {
		t.Errorf("got %v, want empty", got)
	}
}

func TestCacheCopiesResults(t *testing.T) {
	c := NewCache(0)
	in := []Suggestion{{Word: "one", Rank: 1}}
	c.Set("o", in)
	out, _ := c.Get("o")
	out[0].Word = "mutated"
	again, _ := c.Get("o")
	if again[0].Word != "one" {
		t.Error("cache entry was mutated through a returned slice")
	}
}

func TestWordListEngineComplete(t *testing.T) {
	e := NewWordListEngine([]string{"program", "project", "protein", "banana", "pro"})

	resp, err := e.Complete(context.Background(), Request{Prefix: "pro", Limit: 2})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if len(resp.Suggestions) != 2 {
		t.Fatalf("got %d suggestions, want 2", len(resp.Suggestions))
	}
	// Frequency order preserved, exact match excluded, ranks dense from 1.
	if resp.Suggestions[0] != (Suggestion{Word: "program", Rank: 1}) {
		t.Errorf("first = %+v", resp.Suggestions[0])
	}
	if resp.Suggestions[1] != (Suggestion{Word: "project", Rank: 2}) {
		t.Errorf("second = %+v", resp.Suggestions[1])
	}
}

func TestWordListEngineExcludesExactMatch(t *testing.T) {
	e := NewWordListEngine([]string{"pro"})
	resp, err := e.Complete(context.Background(), Request{Prefix: "pro"})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if len(resp.Suggestions) != 0 {
		t.Errorf("got %v, want none", resp.Suggestions)
	}
}

func TestReadWordList(t *testing.T) {
	in := "# comment\nprogram\n\nproject\n  protein  \n"
	words, err := ReadWordList(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadWordList: %v", err)
	}
	want := []string{"program", "project", "protein"}
	if len(words) != len(want) {
		t.Fatalf("got %d words, want %d", len(words), len(want))
	}
	for i := range want {
		if words[i] != want[i] {
			t.Errorf("word %d = %q, want %q", i, words[i], want[i])
		}
	}
}
