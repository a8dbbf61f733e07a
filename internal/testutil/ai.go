//go:build integration

package testutil

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"sync"
	"unicode"

	pgvector "github.com/pgvector/pgvector-go"
)

// WordEmbedder is a deterministic test-double for the Embedder port: each
// lowercased word adds weight to one of 1536 hash bins and the vector is
// normalized, so cosine similarity reflects word overlap between texts. Two
// texts sharing most of their words land well above the search threshold;
// texts with no shared words score zero.
type WordEmbedder struct{}

func (WordEmbedder) Embed(_ context.Context, text string) (pgvector.Vector, error) {
	v := make([]float32, 1536)
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	for _, w := range words {
		h := fnv.New32a()
		h.Write([]byte(w))
		v[h.Sum32()%1536]++
	}

	var norm float64
	for _, x := range v {
		norm += float64(x * x)
	}
	if norm > 0 {
		scale := float32(1 / math.Sqrt(norm))
		for i := range v {
			v[i] *= scale
		}
	}
	return pgvector.NewVector(v), nil
}

func (WordEmbedder) Dimensions() int { return 1536 }

// ScriptedCompleter is a test-double for the Completer port. It answers with
// the response whose key is a substring of the user message, and the empty
// string when nothing matches — which exercises the callers' fail-open and
// fail-soft paths. Calls are recorded under a mutex for concurrent use.
type ScriptedCompleter struct {
	Responses map[string]string

	mu    sync.Mutex
	Calls []string
}

func (c *ScriptedCompleter) Complete(_ context.Context, _, user string) (string, error) {
	c.mu.Lock()
	c.Calls = append(c.Calls, user)
	c.mu.Unlock()

	for key, resp := range c.Responses {
		if strings.Contains(user, key) {
			return resp, nil
		}
	}
	return "", nil
}

// CallCount returns how many completions were requested.
func (c *ScriptedCompleter) CallCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.Calls)
}
