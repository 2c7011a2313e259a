// ABOUTME: MCP resource exposing the current session state.
// ABOUTME: glucoscope://session reports selection, filter, and dataset summary.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const sessionURI = "glucoscope://session"

func (s *Server) registerResources() {
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         sessionURI,
		Name:        "Analysis Session",
		Description: "Current participant, axis, filter, and highlight counts",
		MIMEType:    "application/json",
	}, s.handleSessionResource)
}

func (s *Server) handleSessionResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(s.sess.Snapshot(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      sessionURI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
