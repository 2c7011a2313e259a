// ABOUTME: CLI command for starting the MCP server.
// ABOUTME: Runs a stdio MCP server over the participant session.
package main

import (
	"github.com/harperreed/glucoscope/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

The server communicates over stdin/stdout. Logs go to stderr.

CLAUDE DESKTOP CONFIGURATION:

  {
    "mcpServers": {
      "glucoscope": {
        "command": "glucoscope",
        "args": ["mcp", "--data-dir", "/path/to/csv"]
      }
    }
  }

AVAILABLE TOOLS:

  load_participant   Load a participant's glucose, food, and heart-rate files
  apply_filter       Classify glucose samples around meals above a threshold
  list_food_groups   List meals with combined macros
  diagnose           HbA1c prediabetes classification
  rank_countries     Global diabetes prevalence ranking

AVAILABLE RESOURCES:

  glucoscope://session   Current participant, filter, and highlight counts`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(sess)
		if err != nil {
			return err
		}
		return server.Serve(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
