package cmd

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ledgerworks/bookkeeper/internal/api"
	"github.com/ledgerworks/bookkeeper/pkg/config"
)

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the bookkeeping JSON API",
	Long: `Serve the bookkeeping reports over a JSON API.

Endpoints cover statement upload, company listing, ledgers,
category reports, trial balances and statement download.

Example:
  bookkeeper serve
  BOOKKEEPER_PORT=9090 bookkeeper serve`,
	Run: runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	// The server logs structured JSON; the CLI-wide text handler is for
	// interactive commands.
	logLevel := slog.LevelInfo
	if debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))

	slog.Info("Loading configuration")

	cfg, err := config.Load(getConfigFile())
	exitOnError(err, "failed to load configuration")

	if err := cfg.Validate("dbPath", "port"); err != nil {
		exitOnError(err, "invalid configuration")
	}

	svc, conn := openService(cfg)
	defer conn.Close()

	srv := api.NewServer(svc, cfg.Server.UploadToken, cfg.Books.MaxUploadSize)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      srv.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		slog.Info("shutting down server")
		if err := server.Close(); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("starting bookkeeper API", "addr", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
