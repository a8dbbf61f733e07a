package prompt

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	domainprompt "github.com/okwan/promptvault/internal/domain/prompt"
	portprompt "github.com/okwan/promptvault/internal/port/prompt"
)

// Repository implements port/prompt.PromptRepository using Postgres with the
// pgvector extension. Similarity search runs entirely in SQL: the threshold
// filter and the limit are applied by the database, not post-filtered here.
// [LSP] Any conforming PromptRepository can substitute.
type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Create(ctx context.Context, p domainprompt.Prompt) error {
	query := `
		INSERT INTO prompts (id, owner_id, name, content, tags, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, query, p.ID, p.OwnerID, p.Name, p.Content, p.Tags, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting prompt: %w", err)
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID, ownerID string) (domainprompt.Prompt, error) {
	query := `
		SELECT id, owner_id, name, content, tags, use_cases, embedding, created_at
		FROM prompts WHERE id = $1 AND owner_id = $2`

	var p domainprompt.Prompt
	err := r.pool.QueryRow(ctx, query, id, ownerID).Scan(
		&p.ID, &p.OwnerID, &p.Name, &p.Content, &p.Tags, &p.UseCases, &p.Embedding, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domainprompt.Prompt{}, portprompt.ErrNotFound
		}
		return domainprompt.Prompt{}, fmt.Errorf("querying prompt: %w", err)
	}
	return p, nil
}

func (r *Repository) ListByOwner(ctx context.Context, ownerID string) ([]domainprompt.Prompt, error) {
	query := `
		SELECT id, owner_id, name, content, tags, use_cases, embedding, created_at
		FROM prompts WHERE owner_id = $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing prompts: %w", err)
	}
	defer rows.Close()

	return scanPrompts(rows)
}

func (r *Repository) Update(ctx context.Context, p domainprompt.Prompt) error {
	query := `
		UPDATE prompts
		SET name = $3, content = $4, tags = $5, use_cases = $6, embedding = $7
		WHERE id = $1 AND owner_id = $2`

	tag, err := r.pool.Exec(ctx, query, p.ID, p.OwnerID, p.Name, p.Content, p.Tags, p.UseCases, p.Embedding)
	if err != nil {
		return fmt.Errorf("updating prompt: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return portprompt.ErrNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID, ownerID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM prompts WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("deleting prompt: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return portprompt.ErrNotFound
	}
	return nil
}

func (r *Repository) ListMissingUseCases(ctx context.Context, ownerID string) ([]domainprompt.Prompt, error) {
	query := `
		SELECT id, owner_id, name, content, tags, use_cases, embedding, created_at
		FROM prompts WHERE owner_id = $1 AND use_cases IS NULL
		ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing prompts missing use cases: %w", err)
	}
	defer rows.Close()

	return scanPrompts(rows)
}

// UpdateEnrichment writes use_cases and embedding in a single statement —
// the two fields are never persisted separately.
func (r *Repository) UpdateEnrichment(ctx context.Context, id uuid.UUID, ownerID string, useCases string, embedding pgvector.Vector) error {
	query := `
		UPDATE prompts SET use_cases = $3, embedding = $4
		WHERE id = $1 AND owner_id = $2`

	tag, err := r.pool.Exec(ctx, query, id, ownerID, useCases, embedding)
	if err != nil {
		return fmt.Errorf("updating enrichment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return portprompt.ErrNotFound
	}
	return nil
}

// SearchSimilar ranks the owner's embedded prompts by cosine similarity to
// the query vector. `<=>` is cosine distance, so similarity = 1 - distance.
func (r *Repository) SearchSimilar(ctx context.Context, ownerID string, query pgvector.Vector, limit int, threshold float64) ([]domainprompt.SearchMatch, error) {
	sql := `
		SELECT id, owner_id, name, content, tags, use_cases, created_at,
		       1 - (embedding <=> $2) AS similarity
		FROM prompts
		WHERE owner_id = $1
		  AND embedding IS NOT NULL
		  AND 1 - (embedding <=> $2) >= $3
		ORDER BY embedding <=> $2
		LIMIT $4`

	rows, err := r.pool.Query(ctx, sql, ownerID, query, threshold, limit)
	if err != nil {
		return nil, fmt.Errorf("searching prompts: %w", err)
	}
	defer rows.Close()

	var matches []domainprompt.SearchMatch
	for rows.Next() {
		var m domainprompt.SearchMatch
		if err := rows.Scan(
			&m.ID, &m.OwnerID, &m.Name, &m.Content, &m.Tags, &m.UseCases, &m.CreatedAt,
			&m.Similarity,
		); err != nil {
			return nil, fmt.Errorf("scanning search match: %w", err)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func scanPrompts(rows pgx.Rows) ([]domainprompt.Prompt, error) {
	var prompts []domainprompt.Prompt
	for rows.Next() {
		var p domainprompt.Prompt
		if err := rows.Scan(
			&p.ID, &p.OwnerID, &p.Name, &p.Content, &p.Tags, &p.UseCases, &p.Embedding, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning prompt row: %w", err)
		}
		prompts = append(prompts, p)
	}
	return prompts, rows.Err()
}
