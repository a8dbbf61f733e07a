package openai

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	pgvector "github.com/pgvector/pgvector-go"
	openai "github.com/sashabaranov/go-openai"

	"github.com/okwan/promptvault/internal/port/ai"
)

// Dimensions is the vector size produced by text-embedding-3-small. The
// prompts table's vector column must match.
const Dimensions = 1536

const (
	embeddingModel = openai.SmallEmbedding3
	chatModel      = openai.GPT4oMini

	chatMaxTokens   = 200
	chatTemperature = 0.3
)

// Client implements port/ai.Embedder and port/ai.Completer against the OpenAI
// API or any OpenAI-compatible backend. The client is stateless: construct
// once in the wire, inject everywhere, no teardown needed.
type Client struct {
	api *openai.Client
}

// Config configures the OpenAI client.
type Config struct {
	// APIKey authenticates against the backend. Required for OpenAI cloud.
	APIKey string

	// BaseURL overrides the API endpoint for OpenAI-compatible backends
	// (LocalAI, TEI, vLLM). Empty means OpenAI cloud.
	BaseURL string

	// Timeout for HTTP requests (default: 30s).
	Timeout time.Duration
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	config.HTTPClient = &http.Client{Timeout: timeout}

	return &Client{api: openai.NewClientWithConfig(config)}
}

var (
	_ ai.Embedder  = (*Client)(nil)
	_ ai.Completer = (*Client)(nil)
)

// Embed requests a fresh embedding for the given text. Transport failures and
// malformed responses (empty payload, wrong dimensionality) all wrap
// ai.ErrEmbedding so callers can classify with errors.Is.
func (c *Client) Embed(ctx context.Context, text string) (pgvector.Vector, error) {
	resp, err := c.api.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: embeddingModel,
	})
	if err != nil {
		return pgvector.Vector{}, fmt.Errorf("%w: %v", ai.ErrEmbedding, err)
	}

	if len(resp.Data) != 1 {
		return pgvector.Vector{}, fmt.Errorf("%w: got %d embeddings for 1 input", ai.ErrEmbedding, len(resp.Data))
	}
	vec := resp.Data[0].Embedding
	if len(vec) != Dimensions {
		return pgvector.Vector{}, fmt.Errorf("%w: got %d dimensions, want %d", ai.ErrEmbedding, len(vec), Dimensions)
	}

	return pgvector.NewVector(vec), nil
}

func (c *Client) Dimensions() int {
	return Dimensions
}

// Complete runs a single system+user chat completion and returns the trimmed
// first-choice text. Errors are returned as-is — the fail-open/fail-soft
// policies live in the callers, which never surface these errors upward.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: chatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		MaxTokens:   chatMaxTokens,
		Temperature: chatTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: empty response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
