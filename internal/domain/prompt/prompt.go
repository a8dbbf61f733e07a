package prompt

import (
	"strings"
	"time"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
)

// Field limits enforced at the service boundary.
const (
	MaxNameLen    = 100
	MaxContentLen = 10000
	MaxTagsLen    = 500
)

// Prompt is a user-owned reusable prompt record.
// UseCases and Embedding are enrichment fields: both nil until the backfill
// pass populates them, and always written together — a record with one set
// and not the other is a consistency defect.
type Prompt struct {
	ID        uuid.UUID        `json:"id"`
	OwnerID   string           `json:"owner_id"`
	Name      string           `json:"name"`
	Content   string           `json:"content"`
	Tags      *string          `json:"tags,omitempty"`
	UseCases  *string          `json:"use_cases,omitempty"`
	Embedding *pgvector.Vector `json:"-"`
	CreatedAt time.Time        `json:"created_at"`
}

func New(ownerID, name, content string, tags *string) Prompt {
	return Prompt{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Name:      name,
		Content:   content,
		Tags:      tags,
		CreatedAt: time.Now().UTC(),
	}
}

// EmbeddingText builds the canonical text an embedding is computed from:
// name, then content, then tags and useCases when present, single-space
// separated, in that order. A stored embedding is valid only if it was
// computed from this function applied to the record's current fields.
func EmbeddingText(name, content string, tags, useCases *string) string {
	parts := []string{name, content}
	if tags != nil && *tags != "" {
		parts = append(parts, *tags)
	}
	if useCases != nil && *useCases != "" {
		parts = append(parts, *useCases)
	}
	return strings.Join(parts, " ")
}

// SearchMatch is a prompt paired with its similarity score from a vector
// search, in [0, 1] where 1 is an exact match.
type SearchMatch struct {
	Prompt
	Similarity float64 `json:"similarity"`
}
