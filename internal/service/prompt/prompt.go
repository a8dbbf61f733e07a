package prompt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/okwan/promptvault/internal/domain/event"
	domainprompt "github.com/okwan/promptvault/internal/domain/prompt"
	portbus "github.com/okwan/promptvault/internal/port/eventbus"
	portprompt "github.com/okwan/promptvault/internal/port/prompt"
)

// ErrInvalid marks caller-supplied input that violates a precondition.
// Wrapped errors carry the specific field complaint.
var ErrInvalid = errors.New("prompt: invalid input")

// Service manages the prompt CRUD lifecycle. Enrichment fields are owned by
// the backfill coordinator — this service only ever clears them.
// [SRP] Record lifecycle only; search and enrichment live elsewhere.
// [DIP] Depends on the PromptRepository port, not on any concrete storage.
type Service struct {
	repo portprompt.PromptRepository
	bus  portbus.EventBus
}

func NewService(repo portprompt.PromptRepository, bus portbus.EventBus) *Service {
	return &Service{repo: repo, bus: bus}
}

// Create stores a new prompt without enrichment: use_cases and embedding stay
// NULL until the next backfill pass picks the record up.
func (s *Service) Create(ctx context.Context, ownerID, name, content string, tags *string) (domainprompt.Prompt, error) {
	name, content, tags, err := sanitize(name, content, tags)
	if err != nil {
		return domainprompt.Prompt{}, err
	}

	p := domainprompt.New(ownerID, name, content, tags)
	if err := s.repo.Create(ctx, p); err != nil {
		return domainprompt.Prompt{}, fmt.Errorf("create prompt: %w", err)
	}

	s.publish(ctx, event.New(event.TypePromptCreated, p.ID, ownerID))
	return p, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID, ownerID string) (domainprompt.Prompt, error) {
	p, err := s.repo.GetByID(ctx, id, ownerID)
	if err != nil {
		return domainprompt.Prompt{}, fmt.Errorf("get prompt: %w", err)
	}
	return p, nil
}

func (s *Service) List(ctx context.Context, ownerID string) ([]domainprompt.Prompt, error) {
	prompts, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list prompts: %w", err)
	}
	return prompts, nil
}

// Update replaces name/content/tags. If any embedded field changed, the
// enrichment fields are cleared so the record re-enters the backfill
// candidate set — a stale embedding must never survive a content edit.
func (s *Service) Update(ctx context.Context, id uuid.UUID, ownerID, name, content string, tags *string) (domainprompt.Prompt, error) {
	name, content, tags, err := sanitize(name, content, tags)
	if err != nil {
		return domainprompt.Prompt{}, err
	}

	p, err := s.repo.GetByID(ctx, id, ownerID)
	if err != nil {
		return domainprompt.Prompt{}, fmt.Errorf("get prompt for update: %w", err)
	}

	changed := p.Name != name || p.Content != content || !tagsEqual(p.Tags, tags)
	p.Name = name
	p.Content = content
	p.Tags = tags
	if changed {
		p.UseCases = nil
		p.Embedding = nil
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return domainprompt.Prompt{}, fmt.Errorf("update prompt: %w", err)
	}

	s.publish(ctx, event.New(event.TypePromptUpdated, p.ID, ownerID))
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID, ownerID string) error {
	if err := s.repo.Delete(ctx, id, ownerID); err != nil {
		return fmt.Errorf("delete prompt: %w", err)
	}

	s.publish(ctx, event.New(event.TypePromptDeleted, id, ownerID))
	return nil
}

// publish is best-effort: a NOTIFY failure must not fail the mutation that
// already committed.
func (s *Service) publish(ctx context.Context, e event.Event) {
	if err := s.bus.Publish(ctx, e); err != nil {
		slog.Warn("prompt event publish failed", "type", e.Type, "entity_id", e.EntityID, "error", err)
	}
}

func sanitize(name, content string, tags *string) (string, string, *string, error) {
	name = strings.TrimSpace(name)
	content = strings.TrimSpace(content)

	// Limits are character counts, not byte counts.
	if name == "" {
		return "", "", nil, fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if utf8.RuneCountInString(name) > domainprompt.MaxNameLen {
		return "", "", nil, fmt.Errorf("%w: name too long (max %d characters)", ErrInvalid, domainprompt.MaxNameLen)
	}
	if content == "" {
		return "", "", nil, fmt.Errorf("%w: content is required", ErrInvalid)
	}
	if utf8.RuneCountInString(content) > domainprompt.MaxContentLen {
		return "", "", nil, fmt.Errorf("%w: content too long (max %d characters)", ErrInvalid, domainprompt.MaxContentLen)
	}

	if tags != nil {
		trimmed := strings.TrimSpace(*tags)
		if trimmed == "" {
			tags = nil
		} else {
			if utf8.RuneCountInString(trimmed) > domainprompt.MaxTagsLen {
				return "", "", nil, fmt.Errorf("%w: tags too long (max %d characters)", ErrInvalid, domainprompt.MaxTagsLen)
			}
			tags = &trimmed
		}
	}

	return name, content, tags, nil
}

func tagsEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
