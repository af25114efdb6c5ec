package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LumeraProtocol/web3go/pkg/logtrace"
	"github.com/LumeraProtocol/web3go/pkg/observability"
	"github.com/LumeraProtocol/web3go/pkg/web3"
	"github.com/LumeraProtocol/web3go/pkg/web3/modules/eth"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var (
	watchStream      string
	watchCount       int
	watchMetricsAddr string
)

var watchHeadsCmd = &cobra.Command{
	Use:   "watch-heads",
	Short: "Stream new block headers",
	Long: `Stream new block headers until interrupted.

Subscriptions need a WebSocket or IPC provider. When the configured provider cannot
hold subscriptions, --stream names one to switch to before subscribing.

Example:
  web3cli watch-heads --provider http://localhost:8545 --stream ws://localhost:8546`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		ctx = logtrace.CtxWithCorrelationID(ctx, "watch-heads")

		metrics := observability.NewMetrics()
		if watchMetricsAddr != "" {
			stop := serveMetrics(ctx, watchMetricsAddr, metrics)
			defer stop()
		}

		w, err := newClient(web3.WithMetrics(metrics), web3.WithTransportChangedHook(logTransportChange))
		if err != nil {
			return err
		}

		sub, err := w.Eth().SubscribeNewHeads(ctx)
		if errors.Is(err, web3.ErrSubscriptionsNotSupported) && watchStream != "" {
			if err := w.SetTransport(watchStream); err != nil {
				return fmt.Errorf("switch to %s: %w", watchStream, err)
			}
			sub, err = w.Eth().SubscribeNewHeads(ctx)
		}
		if err != nil {
			return fmt.Errorf("failed to subscribe to new heads: %w", err)
		}
		defer func() { _ = sub.Unsubscribe() }()

		out := cmd.OutOrStdout()
		seen := 0
		for {
			select {
			case <-ctx.Done():
				return nil
			case err, ok := <-sub.Err():
				if ok && err != nil {
					return fmt.Errorf("subscription ended: %w", err)
				}
				return nil
			case raw, ok := <-sub.Notifications():
				if !ok {
					return nil
				}
				h, err := eth.DecodeHeader(raw)
				if err != nil {
					logtrace.Warn(ctx, "Skipping undecodable header", logtrace.Fields{logtrace.FieldError: err.Error()})
					continue
				}
				fmt.Fprintf(out, "%s %s\n", h.Number, h.Hash)
				seen++
				if watchCount > 0 && seen >= watchCount {
					return nil
				}
			}
		}
	},
}

func serveMetrics(ctx context.Context, addr string, m *observability.Metrics) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logtrace.Error(ctx, "Metrics server failed", logtrace.Fields{logtrace.FieldError: err.Error()})
		}
	}()
	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
}

func init() {
	watchHeadsCmd.Flags().StringVar(&watchStream, "stream", "", "WebSocket or IPC provider to switch to when the configured one cannot subscribe")
	watchHeadsCmd.Flags().IntVar(&watchCount, "count", 0, "stop after this many headers (0 streams until interrupted)")
	watchHeadsCmd.Flags().StringVar(&watchMetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")

	rootCmd.AddCommand(watchHeadsCmd)
}
