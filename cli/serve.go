package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/yuezhaodesign/Inkspire/api"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Starts the HTTP server the web frontend talks to and keeps the course
libraries in sync with the materials folder while it runs.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	wf, err := newCourseWorkflow()
	if err != nil {
		return err
	}

	srv := api.NewServer(cfg.ServerAddr, wf, store, searcher, loader, logger)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	go func() {
		if err := registry.Sync(ctx); err != nil {
			logger.Error("materials sync failed", "error", err)
			return
		}
		if err := registry.Watch(ctx); err != nil {
			logger.Error("materials watch failed", "error", err)
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-sigch:
		logger.Info("shutdown signal received")
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()
		return srv.Shutdown(shutdownCtx)
	}
}
