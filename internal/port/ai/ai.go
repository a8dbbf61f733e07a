package ai

import (
	"context"
	"errors"

	pgvector "github.com/pgvector/pgvector-go"
)

// ErrEmbedding marks a failed or malformed embedding model call. Callers
// decide policy: the search service propagates it, the backfill coordinator
// records it per candidate and moves on.
var ErrEmbedding = errors.New("ai: embedding service failed")

// Embedder turns text into a fixed-dimensionality vector via an external
// embedding model. Every call is a fresh request — implementations must not
// cache, so stored and query vectors always come from the live model.
// [DIP] Services depend on this interface, not on any concrete provider.
type Embedder interface {
	// Embed returns the embedding for the given non-empty text.
	// Failures wrap ErrEmbedding.
	Embed(ctx context.Context, text string) (pgvector.Vector, error)

	// Dimensions returns the vector size produced by the model.
	Dimensions() int
}

// Completer runs a single system+user chat completion against an external
// language model and returns the text of the first choice.
// [LSP] Any OpenAI-compatible backend is a valid substitute.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}
