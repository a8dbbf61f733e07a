package search

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/okwan/promptvault/internal/port/ai"
)

// expandSystemPrompt asks for sibling terms, not a paraphrase: short queries
// under-specify intent, and related keywords raise overlap with stored
// prompts whose wording differs from the query.
const expandSystemPrompt = "You help expand search queries for a prompt library. " +
	"Given a user's task or need, output 5-8 related keywords that describe AI prompts " +
	"or tools they might need. Output only the keywords, comma-separated, no explanation."

const expansionTTL = 10 * time.Minute

// ExpansionCache stores expanded queries for a short TTL so repeated searches
// don't re-spend a model call. Only expansions are cached — never embeddings.
type ExpansionCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Expander enriches a raw search phrase with related keywords from a language
// model. It is fail-open by contract: whatever goes wrong, the caller gets a
// usable query back — expansion failure must never abort a search.
type Expander struct {
	llm   ai.Completer
	cache ExpansionCache
}

// NewExpander creates an expander. cache may be nil to disable caching.
func NewExpander(llm ai.Completer, cache ExpansionCache) *Expander {
	return &Expander{llm: llm, cache: cache}
}

// Expand returns "{query}. Related: {keywords}", or the query unchanged when
// the model call fails or produces nothing.
func (e *Expander) Expand(ctx context.Context, query string) string {
	key := cacheKey(query)
	if e.cache != nil {
		if cached, err := e.cache.Get(ctx, key); err == nil {
			return string(cached)
		}
	}

	keywords, err := e.llm.Complete(ctx, expandSystemPrompt, query)
	if err != nil {
		slog.Warn("query expansion failed, using raw query", "error", err)
		return query
	}
	if keywords == "" {
		return query
	}

	expanded := query + ". Related: " + keywords
	if e.cache != nil {
		_ = e.cache.Set(ctx, key, []byte(expanded), expansionTTL)
	}
	return expanded
}

func cacheKey(query string) string {
	sum := sha256.Sum256([]byte(query))
	return "expand:" + hex.EncodeToString(sum[:])
}
