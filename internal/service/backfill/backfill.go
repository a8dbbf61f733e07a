package backfill

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"

	"github.com/google/uuid"

	"github.com/okwan/promptvault/internal/domain/event"
	domainprompt "github.com/okwan/promptvault/internal/domain/prompt"
	"github.com/okwan/promptvault/internal/port/ai"
	portbus "github.com/okwan/promptvault/internal/port/eventbus"
	portlocker "github.com/okwan/promptvault/internal/port/locker"
	portprompt "github.com/okwan/promptvault/internal/port/prompt"
)

// Summary reports the outcome of one backfill pass. A pass always yields a
// summary — per-record failures are enumerated, never propagated.
type Summary struct {
	Total   int      `json:"total"`
	Updated int      `json:"updated"`
	Errors  []string `json:"errors,omitempty"`
}

// Coordinator repairs prompts whose enrichment is missing: for every record
// of an owner with NULL use_cases it generates use cases, recomputes the
// embedding from the enriched text, and writes both back atomically.
//
// Candidates are processed sequentially — one model call in flight at a time
// keeps cost and rate pressure on the external API bounded — and each record
// is isolated: one failure is recorded and the pass moves on. Re-running is
// safe; repaired records drop out of the candidate predicate.
// [DIP] Depends only on ports; the Generator is the one concrete collaborator.
type Coordinator struct {
	repo     portprompt.PromptRepository
	gen      *Generator
	embedder ai.Embedder
	locker   portlocker.AdvisoryLocker
	bus      portbus.EventBus
}

func NewCoordinator(
	repo portprompt.PromptRepository,
	gen *Generator,
	embedder ai.Embedder,
	locker portlocker.AdvisoryLocker,
	bus portbus.EventBus,
) *Coordinator {
	return &Coordinator{repo: repo, gen: gen, embedder: embedder, locker: locker, bus: bus}
}

// Run executes one repair pass for the owner. The pg advisory lock serialises
// passes per owner so concurrent invocations cannot double-spend model calls.
// An error is returned only when the pass itself cannot run (lock or
// candidate listing failed), never for record-level failures.
func (c *Coordinator) Run(ctx context.Context, ownerID string) (Summary, error) {
	var summary Summary

	err := c.locker.WithLock(ctx, lockKey(ownerID), func(ctx context.Context) error {
		candidates, err := c.repo.ListMissingUseCases(ctx, ownerID)
		if err != nil {
			return fmt.Errorf("listing backfill candidates: %w", err)
		}
		summary.Total = len(candidates)

		for _, p := range candidates {
			if err := c.enrich(ctx, p); err != nil {
				slog.Warn("backfill: record failed", "prompt_id", p.ID, "error", err)
				summary.Errors = append(summary.Errors, fmt.Sprintf("prompt %s: %v", p.ID, err))
				continue
			}
			summary.Updated++
		}
		return nil
	})
	if err != nil {
		return Summary{}, err
	}

	c.publish(ctx, event.New(event.TypeBackfillCompleted, uuid.Nil, ownerID))

	slog.Info("backfill pass complete",
		"owner_id", ownerID,
		"total", summary.Total,
		"updated", summary.Updated,
		"failed", len(summary.Errors),
	)
	return summary, nil
}

// enrich runs the generate → compose → embed → write sequence for one record.
func (c *Coordinator) enrich(ctx context.Context, p domainprompt.Prompt) error {
	useCases := c.gen.Generate(ctx, p.Name, p.Content)
	if useCases == "" {
		// Persisting an empty string would remove the record from the repair
		// predicate with nothing gained. Leave it NULL for the next pass.
		return errors.New("use case generation produced no output")
	}

	text := domainprompt.EmbeddingText(p.Name, p.Content, p.Tags, &useCases)
	vec, err := c.embedder.Embed(ctx, text)
	if err != nil {
		return fmt.Errorf("embedding enriched text: %w", err)
	}

	if err := c.repo.UpdateEnrichment(ctx, p.ID, p.OwnerID, useCases, vec); err != nil {
		return fmt.Errorf("persisting enrichment: %w", err)
	}

	c.publish(ctx, event.New(event.TypePromptEnriched, p.ID, p.OwnerID))
	return nil
}

func (c *Coordinator) publish(ctx context.Context, e event.Event) {
	if err := c.bus.Publish(ctx, e); err != nil {
		slog.Warn("backfill event publish failed", "type", e.Type, "owner_id", e.OwnerID, "error", err)
	}
}

func lockKey(ownerID string) int64 {
	h := fnv.New64a()
	h.Write([]byte("backfill:" + ownerID))
	return int64(h.Sum64())
}
