package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abyanmajid/trump/internal/history"
	"github.com/abyanmajid/trump/internal/inspect/server"
)

var (
	serveHost     string
	serveHTTPPort int
	serveGRPCPort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the inspection API",
	Long: `Starts the HTTP/WebSocket API and the gRPC service.

HTTP endpoints:
  GET    /health
  POST   /v1/parse
  POST   /v1/tokens
  GET    /v1/ws
  GET    /v1/history
  GET    /v1/history/{id}
  DELETE /v1/history/{id}

gRPC service: trump.v1.Frontend (Parse, Tokenize)`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveHost, "host", "", "listen host (default from config)")
	serveCmd.Flags().IntVar(&serveHTTPPort, "http-port", 0, "HTTP port (default from config)")
	serveCmd.Flags().IntVar(&serveGRPCPort, "grpc-port", 0, "gRPC port (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, engine, err := setup()
	if err != nil {
		return err
	}
	if serveHost != "" {
		cfg.Server.Host = serveHost
	}
	if serveHTTPPort != 0 {
		cfg.Server.HTTPPort = serveHTTPPort
	}
	if serveGRPCPort != 0 {
		cfg.Server.GRPCPort = serveGRPCPort
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	var store *history.Store
	if cfg.History.Enabled {
		store, err = openHistory(cfg, false)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(server.Options{
		Config:  cfg.Server,
		Engine:  engine,
		History: store,
		Logger:  logger,
	})

	fmt.Fprintf(cmd.ErrOrStderr(), "HTTP on %s, gRPC on %s (ctrl+c to stop)\n", cfg.HTTPAddress(), cfg.GRPCAddress())
	return srv.Run(ctx)
}
