package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	domainprompt "github.com/okwan/promptvault/internal/domain/prompt"
	"github.com/okwan/promptvault/internal/port/ai"
	portprompt "github.com/okwan/promptvault/internal/port/prompt"
)

const (
	// DefaultLimit caps result count when the caller doesn't ask for one.
	DefaultLimit = 10

	// SimilarityThreshold is the quality floor: the store excludes matches
	// below it, so an unrelated library returns nothing rather than noise.
	SimilarityThreshold = 0.4
)

// ErrEmptyQuery rejects a blank search phrase before any external call.
var ErrEmptyQuery = errors.New("search: query is required")

// Service runs the semantic retrieval pipeline: validate, expand, embed,
// owner-scoped vector query. The pipeline is strictly sequential per request
// and shares no mutable state across requests.
// [SRP] Retrieval only — it never writes to the store.
// [DIP] Depends on the Embedder and PromptRepository ports.
type Service struct {
	expander *Expander
	embedder ai.Embedder
	repo     portprompt.PromptRepository
}

func NewService(expander *Expander, embedder ai.Embedder, repo portprompt.PromptRepository) *Service {
	return &Service{expander: expander, embedder: embedder, repo: repo}
}

// Search returns up to limit prompts of the owner ranked by descending
// similarity to the query's intent. Expansion is fail-open; an embedding
// failure aborts the request with an error wrapping ai.ErrEmbedding.
func (s *Service) Search(ctx context.Context, ownerID, query string, limit int) ([]domainprompt.SearchMatch, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, ErrEmptyQuery
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	expanded := s.expander.Expand(ctx, q)

	vec, err := s.embedder.Embed(ctx, expanded)
	if err != nil {
		return nil, fmt.Errorf("embedding search query: %w", err)
	}

	matches, err := s.repo.SearchSimilar(ctx, ownerID, vec, limit, SimilarityThreshold)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	slog.Debug("semantic search", "owner_id", ownerID, "expanded", expanded != q, "results", len(matches))
	return matches, nil
}
