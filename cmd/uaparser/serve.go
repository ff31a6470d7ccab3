package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/praetorian-inc/uaparser/pkg/metrics"
	"github.com/praetorian-inc/uaparser/pkg/serve"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var serveMetricsAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run as a streaming NDJSON parse server",
	Long: `Run uaparser as a long-lived streaming server that accepts parse requests
via stdin and writes results to stdout using NDJSON format.

The process loads rules once at startup and processes requests until
stdin closes, a close request arrives or SIGTERM is received.

With --metrics-addr a Prometheus endpoint is served at /metrics.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveMetricsAddr, "metrics-addr", "", "Listen address for the /metrics endpoint (disabled when empty)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd)

	parser, err := newParser(logger)
	if err != nil {
		return err
	}

	// Set up signal handling
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	opts := []serve.Option{serve.WithLogger(logger)}

	metricsSrv, m, err := startMetricsServer(serveMetricsAddr, logger)
	if err != nil {
		return err
	}
	if metricsSrv != nil {
		defer func() {
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			_ = metricsSrv.Shutdown(shutdownCtx)
		}()
		opts = append(opts, serve.WithObserver(m))
	}

	srv := serve.NewServer(parser, cmd.InOrStdin(), cmd.OutOrStdout(), opts...)
	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// startMetricsServer serves /metrics on addr. It returns a nil server when
// addr is empty.
func startMetricsServer(addr string, logger *slog.Logger) (*http.Server, *metrics.Metrics, error) {
	if addr == "" {
		return nil, nil, nil
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler(reg))

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, fmt.Errorf("metrics listener: %w", err)
	}

	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", "error", err)
		}
	}()
	logger.Info("serving metrics", "addr", ln.Addr().String())

	return srv, m, nil
}
