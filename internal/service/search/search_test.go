package search_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	pgvector "github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainprompt "github.com/okwan/promptvault/internal/domain/prompt"
	"github.com/okwan/promptvault/internal/mocks"
	"github.com/okwan/promptvault/internal/port/ai"
	searchsvc "github.com/okwan/promptvault/internal/service/search"
)

type searchDeps struct {
	llm      *mocks.MockCompleter
	embedder *mocks.MockEmbedder
	repo     *mocks.MockPromptRepository
}

func newSearchSvc(t *testing.T) (*searchsvc.Service, searchDeps) {
	t.Helper()
	ctrl := gomock.NewController(t)
	d := searchDeps{
		llm:      mocks.NewMockCompleter(ctrl),
		embedder: mocks.NewMockEmbedder(ctrl),
		repo:     mocks.NewMockPromptRepository(ctrl),
	}
	svc := searchsvc.NewService(searchsvc.NewExpander(d.llm, nil), d.embedder, d.repo)
	return svc, d
}

func TestSearch_EmptyQueryRejectedBeforeAnyExternalCall(t *testing.T) {
	for _, q := range []string{"", "   ", "\t\n"} {
		svc, _ := newSearchSvc(t)
		// No EXPECT on llm/embedder/repo: any call would fail the test.
		_, err := svc.Search(context.Background(), "owner-1", q, 10)
		assert.ErrorIs(t, err, searchsvc.ErrEmptyQuery)
	}
}

func TestSearch_EmbedsExpandedQuery(t *testing.T) {
	svc, d := newSearchSvc(t)

	d.llm.EXPECT().Complete(gomock.Any(), gomock.Any(), "help me sound less robotic in my essay").
		Return("humanize text, natural writing, essay editing", nil)

	var embedded string
	d.embedder.EXPECT().Embed(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, text string) (pgvector.Vector, error) {
			embedded = text
			return pgvector.NewVector(make([]float32, 3)), nil
		})
	d.repo.EXPECT().SearchSimilar(gomock.Any(), "owner-1", gomock.Any(), 10, searchsvc.SimilarityThreshold).
		Return([]domainprompt.SearchMatch{}, nil)

	_, err := svc.Search(context.Background(), "owner-1", "  help me sound less robotic in my essay  ", 0)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(embedded, "help me sound less robotic in my essay"),
		"expanded query must keep the original text as prefix")
	assert.Contains(t, embedded, "Related:")
}

func TestSearch_ExpansionFailureStillSearches(t *testing.T) {
	svc, d := newSearchSvc(t)

	d.llm.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any()).
		Return("", errors.New("model down"))
	d.embedder.EXPECT().Embed(gomock.Any(), "find a summarizer").
		Return(pgvector.NewVector(make([]float32, 3)), nil)
	d.repo.EXPECT().SearchSimilar(gomock.Any(), "owner-1", gomock.Any(), 10, searchsvc.SimilarityThreshold).
		Return(nil, nil)

	_, err := svc.Search(context.Background(), "owner-1", "find a summarizer", 10)
	require.NoError(t, err, "expansion failure must never fail the search")
}

func TestSearch_EmbeddingFailureAborts(t *testing.T) {
	svc, d := newSearchSvc(t)

	d.llm.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any()).Return("keywords", nil)
	d.embedder.EXPECT().Embed(gomock.Any(), gomock.Any()).
		Return(pgvector.Vector{}, ai.ErrEmbedding)
	// Repo must never be reached.

	_, err := svc.Search(context.Background(), "owner-1", "query", 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, ai.ErrEmbedding)
}

func TestSearch_DefaultLimit(t *testing.T) {
	svc, d := newSearchSvc(t)

	d.llm.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any()).Return("", nil)
	d.embedder.EXPECT().Embed(gomock.Any(), gomock.Any()).
		Return(pgvector.NewVector(make([]float32, 3)), nil)
	d.repo.EXPECT().SearchSimilar(gomock.Any(), "owner-1", gomock.Any(), searchsvc.DefaultLimit, searchsvc.SimilarityThreshold).
		Return(nil, nil)

	_, err := svc.Search(context.Background(), "owner-1", "query", -5)
	require.NoError(t, err)
}

func TestSearch_ReturnsRankedMatches(t *testing.T) {
	svc, d := newSearchSvc(t)

	matches := []domainprompt.SearchMatch{
		{Prompt: domainprompt.New("owner-1", "Essay Humanizer", "Rewrite this text", nil), Similarity: 0.91},
		{Prompt: domainprompt.New("owner-1", "Tone Fixer", "Adjust tone", nil), Similarity: 0.55},
	}

	d.llm.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any()).Return("", nil)
	d.embedder.EXPECT().Embed(gomock.Any(), gomock.Any()).
		Return(pgvector.NewVector(make([]float32, 3)), nil)
	d.repo.EXPECT().SearchSimilar(gomock.Any(), "owner-1", gomock.Any(), 2, searchsvc.SimilarityThreshold).
		Return(matches, nil)

	got, err := svc.Search(context.Background(), "owner-1", "make my essay sound human", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Essay Humanizer", got[0].Name)
	assert.GreaterOrEqual(t, got[0].Similarity, searchsvc.SimilarityThreshold)
	assert.GreaterOrEqual(t, got[0].Similarity, got[1].Similarity)
}
