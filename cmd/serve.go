package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/mmwwxz/website-scanner/internal/api"
	"github.com/mmwwxz/website-scanner/internal/config"
	"github.com/mmwwxz/website-scanner/internal/report"
	"github.com/mmwwxz/website-scanner/pkg/scanner"
)

var (
	serverHost string
	serverPort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the webscan web front-end",
	Long: `Start the HTTP server with the scan form UI, the JSON API and report
downloads.

Routes:
  GET  /                   scan form
  POST /scan               run a scan from the form
  GET  /download/:filename download a written report
  GET  /health             liveness check
  POST /api/v1/scan        run a scan, JSON in and out

Example:
  webscan serve --port 8000
  webscan serve --host 127.0.0.1 --port 9090`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverHost, "host", "", "host to bind to (default from config)")
	serveCmd.Flags().IntVar(&serverPort, "port", 0, "port to listen on (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	host := cfg.Server.Host
	if serverHost != "" {
		host = serverHost
	}
	port := cfg.Server.Port
	if serverPort > 0 {
		port = serverPort
	}

	checks, err := config.DefaultChecks()
	if err != nil {
		return fmt.Errorf("failed to load check catalog: %w", err)
	}

	// The web pipeline always writes xlsx; that is what the download
	// endpoint advertises.
	writer := report.NewWriter(cfg.Report.Directory, report.NewXLSXExporter(), log)
	engine := scanner.NewEngine(cfg.Scanner, checks, writer, tel, log)

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	server := api.NewServer(engine, writer.Dir(), cfg.Server.RateLimit, log)

	addr := fmt.Sprintf("%s:%d", host, port)
	// Scans run synchronously inside POST /scan, so the write timeout must
	// cover a full sweep against a slow host.
	httpServer := &http.Server{
		Addr:           addr,
		Handler:        server.Router(),
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   10 * time.Minute,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Infow("HTTP server listening",
			"address", addr,
			"report_dir", writer.Dir(),
		)
		serverErrors <- httpServer.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		log.Infow("Received shutdown signal",
			"signal", sig.String(),
		)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(ctx); err != nil {
			log.Errorw("Failed to shutdown gracefully",
				"error", err,
			)
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		log.Infow("Server shutdown complete")
	}

	return nil
}
