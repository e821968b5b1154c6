package app

import (
	"fmt"
	"os"

	"github.com/blackwell-systems/roicalc/internal/config"
	"github.com/blackwell-systems/roicalc/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serve the projection engine over HTTP until interrupted.

Endpoints:
  GET  /healthz             liveness check
  GET  /v1/use-cases        catalog and default selection
  POST /v1/projections      {"officer_count", "avg_salary", "use_cases"}
  POST /v1/recommendations  same body, ranked recommendations

Listener settings come from the environment (or a .env file):
  ROICALC_ADDR             listen address (default :8080)
  ROICALC_READ_TIMEOUT     request read timeout (default 10s)
  ROICALC_WRITE_TIMEOUT    response write timeout (default 10s)
  ROICALC_MAX_BODY_BYTES   request body limit (default 1048576)`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	env, err := config.ParseServerEnv()
	if err != nil {
		return fmt.Errorf("loading server settings: %w", err)
	}

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	return server.New(cfg, env, newLogger(os.Stderr)).ListenAndServe(ctx)
}
