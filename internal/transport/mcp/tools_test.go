package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	mcpmcp "github.com/mark3labs/mcp-go/mcp"
	pgvector "github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainprompt "github.com/okwan/promptvault/internal/domain/prompt"
	"github.com/okwan/promptvault/internal/mocks"
	portprompt "github.com/okwan/promptvault/internal/port/prompt"
	promptsvc "github.com/okwan/promptvault/internal/service/prompt"
	searchsvc "github.com/okwan/promptvault/internal/service/search"
)

// ── helpers ───────────────────────────────────────────────────────────────────

type toolsDeps struct {
	repo     *mocks.MockPromptRepository
	llm      *mocks.MockCompleter
	embedder *mocks.MockEmbedder
}

func newToolsDeps(t *testing.T) (*promptsvc.Service, *searchsvc.Service, toolsDeps) {
	t.Helper()
	ctrl := gomock.NewController(t)
	d := toolsDeps{
		repo:     mocks.NewMockPromptRepository(ctrl),
		llm:      mocks.NewMockCompleter(ctrl),
		embedder: mocks.NewMockEmbedder(ctrl),
	}
	bus := mocks.NewMockEventBus(ctrl)
	bus.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	pSvc := promptsvc.NewService(d.repo, bus)
	sSvc := searchsvc.NewService(searchsvc.NewExpander(d.llm, nil), d.embedder, d.repo)
	return pSvc, sSvc, d
}

func makeReq(args map[string]any) mcpmcp.CallToolRequest {
	var req mcpmcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(r *mcpmcp.CallToolResult) string {
	if r == nil || len(r.Content) == 0 {
		return ""
	}
	b, _ := json.Marshal(r.Content[0])
	var m map[string]interface{}
	json.Unmarshal(b, &m) //nolint:errcheck
	if t, ok := m["text"].(string); ok {
		return t
	}
	return ""
}

// ── search_prompts ────────────────────────────────────────────────────────────

func TestSearchPromptsHandler(t *testing.T) {
	t.Run("returns ranked matches as JSON", func(t *testing.T) {
		_, sSvc, d := newToolsDeps(t)

		d.llm.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any()).Return("keywords", nil)
		d.embedder.EXPECT().Embed(gomock.Any(), gomock.Any()).
			Return(pgvector.NewVector(make([]float32, 3)), nil)
		d.repo.EXPECT().SearchSimilar(gomock.Any(), "owner-1", gomock.Any(), searchsvc.DefaultLimit, searchsvc.SimilarityThreshold).
			Return([]domainprompt.SearchMatch{
				{Prompt: domainprompt.New("owner-1", "Essay Humanizer", "Rewrite this", nil), Similarity: 0.9},
			}, nil)

		res, err := searchPromptsHandler(sSvc)(context.Background(), makeReq(map[string]any{
			"owner_id": "owner-1",
			"query":    "make my essay sound human",
		}))
		require.NoError(t, err)

		var matches []domainprompt.SearchMatch
		require.NoError(t, json.Unmarshal([]byte(resultText(res)), &matches))
		require.Len(t, matches, 1)
		assert.Equal(t, "Essay Humanizer", matches[0].Name)
	})

	t.Run("missing owner_id", func(t *testing.T) {
		_, sSvc, _ := newToolsDeps(t)

		res, err := searchPromptsHandler(sSvc)(context.Background(), makeReq(map[string]any{
			"query": "anything",
		}))
		require.NoError(t, err)
		assert.Contains(t, resultText(res), "error: owner_id required")
	})

	t.Run("empty query surfaces as tool error text", func(t *testing.T) {
		_, sSvc, _ := newToolsDeps(t)

		res, err := searchPromptsHandler(sSvc)(context.Background(), makeReq(map[string]any{
			"owner_id": "owner-1",
			"query":    "",
		}))
		require.NoError(t, err)
		assert.Contains(t, resultText(res), "error:")
	})
}

// ── get_prompt ────────────────────────────────────────────────────────────────

func TestGetPromptHandler(t *testing.T) {
	t.Run("returns the prompt as JSON", func(t *testing.T) {
		pSvc, _, d := newToolsDeps(t)

		p := domainprompt.New("owner-1", "Cover Letter", "Write a cover letter", nil)
		d.repo.EXPECT().GetByID(gomock.Any(), p.ID, "owner-1").Return(p, nil)

		res, err := getPromptHandler(pSvc)(context.Background(), makeReq(map[string]any{
			"owner_id":  "owner-1",
			"prompt_id": p.ID.String(),
		}))
		require.NoError(t, err)

		var got domainprompt.Prompt
		require.NoError(t, json.Unmarshal([]byte(resultText(res)), &got))
		assert.Equal(t, p.ID, got.ID)
		assert.Equal(t, "Cover Letter", got.Name)
	})

	t.Run("invalid prompt_id", func(t *testing.T) {
		pSvc, _, _ := newToolsDeps(t)

		res, err := getPromptHandler(pSvc)(context.Background(), makeReq(map[string]any{
			"owner_id":  "owner-1",
			"prompt_id": "not-a-uuid",
		}))
		require.NoError(t, err)
		assert.Contains(t, resultText(res), "error: invalid prompt_id")
	})

	t.Run("not found", func(t *testing.T) {
		pSvc, _, d := newToolsDeps(t)

		id := uuid.New()
		d.repo.EXPECT().GetByID(gomock.Any(), id, "owner-1").
			Return(domainprompt.Prompt{}, portprompt.ErrNotFound)

		res, err := getPromptHandler(pSvc)(context.Background(), makeReq(map[string]any{
			"owner_id":  "owner-1",
			"prompt_id": id.String(),
		}))
		require.NoError(t, err)
		assert.Contains(t, resultText(res), "error:")
	})
}

// ── list_prompts ──────────────────────────────────────────────────────────────

func TestListPromptsHandler(t *testing.T) {
	t.Run("returns all prompts", func(t *testing.T) {
		pSvc, _, d := newToolsDeps(t)

		d.repo.EXPECT().ListByOwner(gomock.Any(), "owner-1").
			Return([]domainprompt.Prompt{
				domainprompt.New("owner-1", "One", "first", nil),
				domainprompt.New("owner-1", "Two", "second", nil),
			}, nil)

		res, err := listPromptsHandler(pSvc)(context.Background(), makeReq(map[string]any{
			"owner_id": "owner-1",
		}))
		require.NoError(t, err)

		var got []domainprompt.Prompt
		require.NoError(t, json.Unmarshal([]byte(resultText(res)), &got))
		assert.Len(t, got, 2)
	})

	t.Run("missing owner_id", func(t *testing.T) {
		pSvc, _, _ := newToolsDeps(t)

		res, err := listPromptsHandler(pSvc)(context.Background(), makeReq(map[string]any{}))
		require.NoError(t, err)
		assert.Contains(t, resultText(res), "error: owner_id required")
	})
}
