package wire

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/okwan/promptvault/internal/adapter/memory"
	aiopenai "github.com/okwan/promptvault/internal/adapter/openai"
	pgdb "github.com/okwan/promptvault/internal/adapter/postgres"
	pgeventbus "github.com/okwan/promptvault/internal/adapter/postgres/eventbus"
	pglocker "github.com/okwan/promptvault/internal/adapter/postgres/locker"
	pgprompt "github.com/okwan/promptvault/internal/adapter/postgres/prompt"

	backfillsvc "github.com/okwan/promptvault/internal/service/backfill"
	promptsvc "github.com/okwan/promptvault/internal/service/prompt"
	searchsvc "github.com/okwan/promptvault/internal/service/search"

	mcptransport "github.com/okwan/promptvault/internal/transport/mcp"
	routertransport "github.com/okwan/promptvault/internal/transport/router"
)

// App holds the top-level resources needed to run and gracefully stop the server.
type App struct {
	Pool   *pgxpool.Pool
	Server *http.Server
}

// Build is the composition root: the only place concrete types are wired to
// their interface dependencies.
func Build(ctx context.Context) (*App, error) {
	// ── Database ─────────────────────────────────────────────────────────────
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL not set")
	}
	pool, err := pgdb.Connect(ctx, dbURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	// ── Adapters ─────────────────────────────────────────────────────────────
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		pool.Close()
		return nil, fmt.Errorf("OPENAI_API_KEY not set")
	}
	aiClient := aiopenai.NewClient(aiopenai.Config{
		APIKey:  apiKey,
		BaseURL: os.Getenv("OPENAI_BASE_URL"),
	})

	promptRepo := pgprompt.New(pool)
	eventBus := pgeventbus.New(pool)
	locker := pglocker.New(pool)
	cache := memory.NewCache()

	// ── Services ─────────────────────────────────────────────────────────────
	promptSvcInstance := promptsvc.NewService(promptRepo, eventBus)

	expander := searchsvc.NewExpander(aiClient, cache)
	searchSvcInstance := searchsvc.NewService(expander, aiClient, promptRepo)

	useCaseGen := backfillsvc.NewGenerator(aiClient)
	backfillCoord := backfillsvc.NewCoordinator(promptRepo, useCaseGen, aiClient, locker, eventBus)

	mcpServer := mcptransport.New(promptSvcInstance, searchSvcInstance)

	// ── Transport ─────────────────────────────────────────────────────────────
	router := routertransport.NewRouter(
		ctx,
		promptSvcInstance,
		searchSvcInstance,
		backfillCoord,
		mcpServer,
		eventBus,
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	server := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	slog.Info("application wired", "port", port)

	return &App{
		Pool:   pool,
		Server: server,
	}, nil
}
