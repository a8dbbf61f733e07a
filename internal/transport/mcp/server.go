package mcp

import (
	"net/http"

	mcpserver "github.com/mark3labs/mcp-go/server"

	promptsvc "github.com/okwan/promptvault/internal/service/prompt"
	searchsvc "github.com/okwan/promptvault/internal/service/search"
)

// Server wraps the mark3labs/mcp-go MCPServer and its StreamableHTTPServer,
// exposing the prompt library to agent clients as tools.
// [SRP] Server lifecycle only — tools are registered in tools.go.
// [OCP] Adding a tool never requires changes to this file.
type Server struct {
	httpSrv *mcpserver.StreamableHTTPServer
}

// New creates the MCP transport server. The surface is stateless: no session
// registry, no liveness — every call carries its own owner scope, supplied by
// the gateway that fronts this server.
func New(promptSvc *promptsvc.Service, searchSvc *searchsvc.Service) *Server {
	mcpSrv := mcpserver.NewMCPServer(
		"promptvault",
		"1.0.0",
		mcpserver.WithToolCapabilities(true),
	)

	RegisterTools(mcpSrv, promptSvc, searchSvc)

	return &Server{httpSrv: mcpserver.NewStreamableHTTPServer(mcpSrv)}
}

// Handler returns an http.Handler that serves the MCP endpoint.
func (s *Server) Handler() http.Handler {
	return s.httpSrv
}
