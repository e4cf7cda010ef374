package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"coinfixi/internal/gateway"
)

var (
	serveAddr        string
	serveEnvironment string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP gateway in front of the admin API",
	Long: `Serve the admin API through a gateway:

  /api/*             proxied to the admin API, with CORS and error wrapping
  /api/version       gateway build information
  /api/test-backend  probes the admin API
  /tables/{name}     a resource searched and sorted like the console (?q=&sort=&dir=)
  /metrics           Prometheus metrics

Requests to /tables use the caller's Authorization header, never the
session saved by fixi login.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default: gateway.addr)")
	serveCmd.Flags().StringVar(&serveEnvironment, "environment", "development", "Environment reported by /api/version")
}

func runServe(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	srv, err := gateway.New(gateway.Options{
		Client:      e.client,
		BuildID:     cfg.Gateway.BuildID,
		Environment: serveEnvironment,
	})
	if err != nil {
		return err
	}

	addr := serveAddr
	if addr == "" {
		addr = cfg.Gateway.Addr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return srv.ListenAndServe(ctx, addr, cfg.GetShutdownTimeout())
}
