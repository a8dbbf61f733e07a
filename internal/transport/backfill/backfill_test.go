package backfill_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	pgvector "github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainprompt "github.com/okwan/promptvault/internal/domain/prompt"
	"github.com/okwan/promptvault/internal/mocks"
	backfillsvc "github.com/okwan/promptvault/internal/service/backfill"
	"github.com/okwan/promptvault/internal/transport"
	backfillhandler "github.com/okwan/promptvault/internal/transport/backfill"
)

type handlerDeps struct {
	repo   *mocks.MockPromptRepository
	llm    *mocks.MockCompleter
	locker *mocks.MockAdvisoryLocker
}

func setupRouter(t *testing.T) (*gin.Engine, handlerDeps) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	d := handlerDeps{
		repo:   mocks.NewMockPromptRepository(ctrl),
		llm:    mocks.NewMockCompleter(ctrl),
		locker: mocks.NewMockAdvisoryLocker(ctrl),
	}
	embedder := mocks.NewMockEmbedder(ctrl)
	embedder.EXPECT().Embed(gomock.Any(), gomock.Any()).
		Return(pgvector.NewVector(make([]float32, 3)), nil).AnyTimes()
	bus := mocks.NewMockEventBus(ctrl)
	bus.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	coord := backfillsvc.NewCoordinator(d.repo, backfillsvc.NewGenerator(d.llm), embedder, d.locker, bus)

	r := gin.New()
	rg := r.Group("/api/prompts/backfill", transport.OwnerAuth())
	backfillhandler.Register(rg, coord)
	return r, d
}

func passThroughLock(d handlerDeps) {
	d.locker.EXPECT().WithLock(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ int64, fn func(context.Context) error) error {
			return fn(ctx)
		})
}

func postBackfill(t *testing.T, r *gin.Engine, owner string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/prompts/backfill", nil)
	if owner != "" {
		req.Header.Set(transport.OwnerHeader, owner)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestBackfillEndpoint_NothingToDo(t *testing.T) {
	r, d := setupRouter(t)
	passThroughLock(d)
	d.repo.EXPECT().ListMissingUseCases(gomock.Any(), "owner-1").Return(nil, nil)

	w := postBackfill(t, r, "owner-1")

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Message string   `json:"message"`
		Total   int      `json:"total"`
		Updated int      `json:"updated"`
		Errors  []string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "No prompts to backfill", resp.Message)
	assert.Zero(t, resp.Total)
	assert.Empty(t, resp.Errors)
}

func TestBackfillEndpoint_ReportsPartialFailure(t *testing.T) {
	r, d := setupRouter(t)
	passThroughLock(d)

	good := domainprompt.New("owner-1", "Good", "content", nil)
	bad := domainprompt.New("owner-1", "Bad", "content", nil)
	d.repo.EXPECT().ListMissingUseCases(gomock.Any(), "owner-1").
		Return([]domainprompt.Prompt{good, bad}, nil)
	gomock.InOrder(
		d.llm.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any()).Return("uses", nil),
		d.llm.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any()).Return("", errors.New("boom")),
	)
	d.repo.EXPECT().UpdateEnrichment(gomock.Any(), good.ID, "owner-1", "uses", gomock.Any()).Return(nil)

	w := postBackfill(t, r, "owner-1")

	require.Equal(t, http.StatusOK, w.Code, "record failures still answer 200 with a summary")
	var resp struct {
		Message string   `json:"message"`
		Total   int      `json:"total"`
		Updated int      `json:"updated"`
		Errors  []string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Backfill complete", resp.Message)
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, 1, resp.Updated)
	assert.Len(t, resp.Errors, 1)
}

func TestBackfillEndpoint_PassFailure(t *testing.T) {
	r, d := setupRouter(t)
	d.locker.EXPECT().WithLock(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("lock timeout"))

	w := postBackfill(t, r, "owner-1")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestBackfillEndpoint_MissingOwnerHeader(t *testing.T) {
	r, _ := setupRouter(t)

	w := postBackfill(t, r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
