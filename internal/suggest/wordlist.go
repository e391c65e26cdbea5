package suggest

import (
	"bufio"
	"context"
	"io"
	"sort"
	"strings"
)

// WordListEngine is an in-process Engine backed by a frequency-ordered
// word list. It exists for the demo host and for tests; production hosts
// plug a real engine in behind the Engine interface.
type WordListEngine struct {
	// words holds the dictionary in frequency order (most frequent
	// first). Rank is derived from match position in this order.
	words []string
}

// NewWordListEngine creates an engine from words listed in frequency
// order, most frequent first.
func NewWordListEngine(words []string) *WordListEngine {
	owned := make([]string, len(words))
	copy(owned, words)
	return &WordListEngine{words: owned}
}

// ReadWordList reads one word per line, skipping blanks and # comments.
// Line order is frequency order.
func ReadWordList(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	return words, scanner.Err()
}

// Ready implements Engine. A word list is ready as soon as it exists.
func (e *WordListEngine) Ready(ctx context.Context) error {
	return ctx.Err()
}

// Complete implements Engine. Matching is case-insensitive prefix match;
// results keep frequency order and exclude the prefix itself as an exact
// match (completing a word with itself is useless).
func (e *WordListEngine) Complete(ctx context.Context, req Request) (Response, error) {
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}

	prefix := strings.ToLower(req.Prefix)
	limit := req.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	var out []Suggestion
	for _, w := range e.words {
		lw := strings.ToLower(w)
		if lw == prefix || !strings.HasPrefix(lw, prefix) {
			continue
		}
		out = append(out, Suggestion{Word: w, Rank: len(out) + 1})
		if len(out) >= limit {
			break
		}
	}
	return Response{Suggestions: out}, nil
}

// Sorted returns the dictionary in alphabetical order, mainly for
// diagnostics.
func (e *WordListEngine) Sorted() []string {
	out := make([]string, len(e.words))
	copy(out, e.words)
	sort.Strings(out)
	return out
}
