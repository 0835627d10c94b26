package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nikogura/portfolio/pkg/contact"
	"github.com/nikogura/portfolio/pkg/portfolio"
	"github.com/nikogura/portfolio/pkg/site"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

//nolint:gochecknoglobals // Cobra boilerplate
var serveListen string

//nolint:gochecknoglobals // Cobra boilerplate
var serveDataFile string

//nolint:gochecknoglobals // Cobra boilerplate
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the portfolio, resume and contact relay over HTTP",
	Long: `Serve the portfolio site.

The document is loaded once at startup. Routes that need it answer 503 while
loading and 500 if the load failed; POST /admin/reload retries a failed load.

Example:
  portfolio serve --listen :8080 --data-file ./portfolio_structured.json`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "Listen address (default from config, then :8080)")
	serveCmd.Flags().StringVar(&serveDataFile, "data-file", "", "Portfolio JSON file to load and serve (default from config)")
}

func runServe(cmd *cobra.Command, args []string) (err error) {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(serveDataFile)
	if err != nil {
		return err
	}

	dataFile := serveDataFile
	if dataFile == "" {
		dataFile = cfg.Server.DataFile
	}

	source := cfg.DataSource
	if dataFile != "" {
		source = dataFile
	}

	listen := serveListen
	if listen == "" {
		listen = cfg.Server.Listen
	}

	if !getVerbose() {
		gin.SetMode(gin.ReleaseMode)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// no display floor on the server; requests see 503 until ready
	loader := portfolio.NewLoader(source, portfolio.WithMinDisplay(0))
	loader.Start(ctx)

	var server *site.Server
	server, err = site.New(site.Options{
		Loader:      loader,
		DataFile:    dataFile,
		Relay:       contact.NewClient(cfg.RelayURL),
		Registry:    reg,
		BaseContext: ctx,
	})
	if err != nil {
		err = errors.Wrap(err, "failed to build site")
		return err
	}

	httpServer := &http.Server{
		Addr:              listen,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		fmt.Printf("Serving portfolio from %s on %s\n", source, listen)
		serveErr <- httpServer.ListenAndServe()
	}()

	select {
	case err = <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		if err != nil {
			err = errors.Wrap(err, "server failed")
		}
		return err
	case <-ctx.Done():
	}

	log.Printf("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err = httpServer.Shutdown(shutdownCtx)
	if err != nil {
		err = errors.Wrap(err, "graceful shutdown failed")
		return err
	}

	return err
}
