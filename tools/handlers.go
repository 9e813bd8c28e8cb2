package tools

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/redactle/redactle-server/internal/game"
)

// Handlers exposes a game.Service as MCP tool handlers.
type Handlers struct {
	svc *game.Service
}

// NewHandlers creates tool handlers backed by svc.
func NewHandlers(svc *game.Service) *Handlers {
	return &Handlers{svc: svc}
}

// Register registers every game tool with server and returns how many were added.
func (h *Handlers) Register(server *mcp.Server) int {
	return h.registerWordTools(server) +
		h.registerPageTools(server) +
		h.registerListTools(server)
}
