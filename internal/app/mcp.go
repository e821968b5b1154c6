package app

import (
	"fmt"
	"os"

	"github.com/blackwell-systems/roicalc/internal/mcp"
	"github.com/blackwell-systems/roicalc/internal/store"
	"github.com/spf13/cobra"
)

var mcpNoHistory bool

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run an MCP stdio server",
	Long: `Start a Model Context Protocol stdio server that an MCP client can query.
The server exposes these tools:

  list_use_cases      The use case catalog and default selection
  compute_projection  Savings, costs, ROI and payback for a department
  recommend           Ranked recommendations for a selection
  get_history         Last N saved projections (unless --no-history)

Add to an MCP client configuration:
  {"mcpServers":{"roicalc":{"command":"roicalc","args":["mcp"]}}}`,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().BoolVar(&mcpNoHistory, "no-history", false, "Do not open the history database or expose get_history")
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var db *store.DB
	if !mcpNoHistory {
		db, err = store.Open(cfg.Store.Path)
		if err != nil {
			// History is optional; the projection tools still work.
			newLogger(os.Stderr).Warn("history unavailable", "path", cfg.Store.Path, "err", err)
			db = nil
		} else {
			defer func() { _ = db.Close() }()
		}
	}

	srv := mcp.NewServer(cfg, appVersion, db)
	if err := srv.Run(cmd.Context(), os.Stdin, os.Stdout); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}
