package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kwhalen/escalation-helper/internal/feedback"
	"github.com/kwhalen/escalation-helper/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API for the support-desk UI",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Int("port", 0, "port to listen on (overrides config)")
	serveCmd.Flags().Bool("allow-all-origins", false, "allow all CORS origins (dev mode)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if port, _ := cmd.Flags().GetInt("port"); port > 0 {
		cfg.Server.Port = port
	}
	if allowAll, _ := cmd.Flags().GetBool("allow-all-origins"); allowAll {
		cfg.Server.AllowAll = true
	}

	eng, _, database, err := buildEngine(ctx, cfg, true)
	if err != nil {
		return err
	}
	defer database.Close()

	srv := server.New(cfg.Server, eng, feedback.NewStore(database))

	// Graceful shutdown on SIGINT/SIGTERM.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	case <-stop:
		fmt.Println("\nshutting down...")
		shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
