package router

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/okwan/promptvault/internal/domain/event"
	porteventbus "github.com/okwan/promptvault/internal/port/eventbus"
	backfillsvc "github.com/okwan/promptvault/internal/service/backfill"
	promptsvc "github.com/okwan/promptvault/internal/service/prompt"
	searchsvc "github.com/okwan/promptvault/internal/service/search"

	"github.com/okwan/promptvault/internal/transport"
	backfillhandler "github.com/okwan/promptvault/internal/transport/backfill"
	mcptransport "github.com/okwan/promptvault/internal/transport/mcp"
	prompthandler "github.com/okwan/promptvault/internal/transport/prompt"
	searchhandler "github.com/okwan/promptvault/internal/transport/search"
	wshandler "github.com/okwan/promptvault/internal/transport/ws"
)

func NewRouter(
	ctx context.Context,
	promptSvc *promptsvc.Service,
	searchSvc *searchsvc.Service,
	backfillCoord *backfillsvc.Coordinator,
	mcpServer *mcptransport.Server,
	eventBus porteventbus.EventBus,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(transport.RequestLogger())
	r.Use(transport.CORSMiddleware())

	api := r.Group("/api", transport.OwnerAuth())

	prompts := api.Group("/prompts")
	searchhandler.Register(prompts.Group("/search"), searchSvc)
	backfillhandler.Register(prompts.Group("/backfill"), backfillCoord)
	prompthandler.Register(prompts, promptSvc)

	hub := wshandler.NewHub()
	hub.Register(api.Group("/ws"))

	r.Any("/mcp", gin.WrapH(mcpServer.Handler()))

	// Bridge: one subscription per domain channel. Event payloads carry
	// identifiers only; the client refetches state through the REST surface.
	for _, ch := range []event.Channel{
		event.ChannelPrompt,
		event.ChannelBackfill,
	} {
		c := ch
		if _, err := eventBus.Subscribe(ctx, c, func(_ context.Context, e event.Event) {
			hub.Broadcast(e)
		}); err != nil {
			slog.Error("failed to subscribe channel to WS hub", "channel", c, "error", err)
		}
	}

	return r
}
