package backfill

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/okwan/promptvault/internal/port/ai"
)

// useCaseSystemPrompt asks for breadth on purpose: varied phrasings and
// contexts are what let a vague search phrase land on the right prompt.
const useCaseSystemPrompt = "You generate use cases for AI prompts in a personal prompt library. " +
	"Given a prompt's name and content, output 8-10 diverse task descriptions a user might search for, covering: " +
	"specific tasks, general tasks, different contexts (work, school, personal), " +
	"and different phrasings of the same need. " +
	"Output only the task descriptions, comma-separated, no explanation."

// Generator synthesizes natural-language use cases for a prompt. The output
// is an opaque comma-separated string — it is fed straight into the embedding
// text, never parsed.
type Generator struct {
	llm ai.Completer
}

func NewGenerator(llm ai.Completer) *Generator {
	return &Generator{llm: llm}
}

// Generate is fail-soft: on any model failure it returns the empty string and
// lets the coordinator decide what an un-enriched record means.
func (g *Generator) Generate(ctx context.Context, name, content string) string {
	user := fmt.Sprintf("Prompt name: %s\n\nPrompt content: %s", name, content)

	useCases, err := g.llm.Complete(ctx, useCaseSystemPrompt, user)
	if err != nil {
		slog.Warn("use case generation failed", "prompt_name", name, "error", err)
		return ""
	}
	return useCases
}
