package prompt

import (
	"context"
	"errors"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"

	domainprompt "github.com/okwan/promptvault/internal/domain/prompt"
)

// ErrNotFound is returned when no record matches (id, ownerID) — including
// when the id exists but belongs to a different owner.
var ErrNotFound = errors.New("prompt: not found")

// PromptRepository is the storage abstraction for prompt records.
// Every method is scoped to a single owner — implementations must never let
// one owner's query read or write another owner's rows.
// [DIP] service/prompt, service/search and service/backfill depend on this
// interface, not on any concrete storage.
// [LSP] Postgres and in-memory implementations are both valid substitutes.
type PromptRepository interface {
	Create(ctx context.Context, p domainprompt.Prompt) error

	GetByID(ctx context.Context, id uuid.UUID, ownerID string) (domainprompt.Prompt, error)

	// ListByOwner returns all prompts for the owner, newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]domainprompt.Prompt, error)

	// Update replaces name/content/tags and the enrichment fields of the
	// record identified by (p.ID, p.OwnerID).
	Update(ctx context.Context, p domainprompt.Prompt) error

	Delete(ctx context.Context, id uuid.UUID, ownerID string) error

	// ListMissingUseCases returns the owner's prompts whose use_cases column
	// is NULL — the backfill candidate set. Order is stable within one call
	// but otherwise unspecified.
	ListMissingUseCases(ctx context.Context, ownerID string) ([]domainprompt.Prompt, error)

	// UpdateEnrichment writes use_cases and embedding together for the record
	// identified by (id, ownerID). The owner scope on the write guards
	// against cross-tenant updates.
	UpdateEnrichment(ctx context.Context, id uuid.UUID, ownerID string, useCases string, embedding pgvector.Vector) error

	// SearchSimilar returns up to limit prompts whose embedding similarity to
	// the query vector is at least threshold, ordered by descending
	// similarity. Prompts without an embedding are never returned.
	SearchSimilar(ctx context.Context, ownerID string, query pgvector.Vector, limit int, threshold float64) ([]domainprompt.SearchMatch, error)
}
