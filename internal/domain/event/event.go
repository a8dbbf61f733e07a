package event

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypePromptCreated     Type = "prompt_created"
	TypePromptUpdated     Type = "prompt_updated"
	TypePromptDeleted     Type = "prompt_deleted"
	TypePromptEnriched    Type = "prompt_enriched"
	TypeBackfillCompleted Type = "backfill_completed"
)

// Channel is a domain-scoped Postgres NOTIFY channel.
// All event types within a domain share one LISTEN connection.
type Channel string

const (
	ChannelPrompt   Channel = "prompt"
	ChannelBackfill Channel = "backfill"
)

var typeToChannel = map[Type]Channel{
	TypePromptCreated:     ChannelPrompt,
	TypePromptUpdated:     ChannelPrompt,
	TypePromptDeleted:     ChannelPrompt,
	TypePromptEnriched:    ChannelPrompt,
	TypeBackfillCompleted: ChannelBackfill,
}

// ChannelFor returns the domain channel for a given event type.
func ChannelFor(t Type) Channel { return typeToChannel[t] }

// Event carries identifiers only, not full state.
// Subscribers fetch fresh state from the prompt repository.
type Event struct {
	Type      Type      `json:"type"`
	EntityID  uuid.UUID `json:"entity_id"`
	OwnerID   string    `json:"owner_id"`
	Timestamp time.Time `json:"timestamp"`
}

func New(eventType Type, entityID uuid.UUID, ownerID string) Event {
	return Event{
		Type:      eventType,
		EntityID:  entityID,
		OwnerID:   ownerID,
		Timestamp: time.Now().UTC(),
	}
}
