// ABOUTME: MCP server exposing the glucoscope analysis session.
// ABOUTME: Wraps an MCP server around one Session shared by every tool call.
package mcp

import (
	"context"

	"github.com/harperreed/glucoscope/internal/session"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server with session access.
type Server struct {
	mcpServer *mcp.Server
	sess      *session.Session
}

// NewServer creates a new MCP server over the given session.
func NewServer(sess *session.Session) (*Server, error) {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "glucoscope",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		sess:      sess,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
