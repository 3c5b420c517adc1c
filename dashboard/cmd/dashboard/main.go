package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"

	"github.com/menuscore/menuscore/dashboard/internal/api"
	"github.com/menuscore/menuscore/dashboard/internal/config"
	"github.com/menuscore/menuscore/dashboard/internal/probe"
	"github.com/menuscore/menuscore/dashboard/internal/store"
	"github.com/menuscore/menuscore/dashboard/internal/ws"
	"github.com/menuscore/menuscore/pkg/dataset"
	"github.com/menuscore/menuscore/pkg/logging"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	dataPath := flag.String("data", "", "scored dataset to serve (overrides dashboard.scored_path)")
	httpPort := flag.Int("http-port", 0, "HTTP port (overrides dashboard.http_port)")
	grpcPort := flag.Int("grpc-port", 0, "gRPC health port (overrides dashboard.grpc_port)")
	logLevel := flag.String("log-level", "info", "log level: debug|info|warn|error")
	flag.Parse()

	level, err := logging.ParseLevel(*logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	slog.SetDefault(logging.NewStructuredLogger(os.Stdout, level))

	slog.Info("menuscore-dashboard starting", "config", *configPath)

	ov := overrides{data: *dataPath, httpPort: *httpPort, grpcPort: *grpcPort}
	cfg, err := loadConfig(*configPath, ov)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	d := cfg.Dashboard

	slog.Info("config loaded",
		"http_port", d.HTTPPort,
		"grpc_port", d.GRPCPort,
		"scored_path", d.ScoredPath,
		"broadcast_interval", d.BroadcastInterval,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Scored dataset store. A missing file is not fatal: the pipeline may
	// not have run yet and the watcher picks the file up once it appears.
	st := store.New(d.ScoredPath)
	if err := st.Load(); err != nil {
		if errors.Is(err, dataset.ErrNotFound) {
			slog.Warn("scored dataset not found, waiting for the pipeline", "path", d.ScoredPath)
		} else {
			logging.LogError(slog.Default(), "scored dataset not loaded", err,
				slog.String("path", d.ScoredPath))
		}
	}
	go func() {
		if err := st.Watch(ctx); err != nil {
			slog.Error("store watcher stopped", "err", err)
		}
	}()

	h := api.New(st, settingsFrom(d))

	// WebSocket hub: pushes on every tick and on every dataset reload.
	hub := ws.New(h, d.BroadcastInterval)
	st.OnChange(func(snap *store.Snapshot) {
		slog.Info("scored dataset reloaded", "path", snap.Path, "items", len(snap.Items))
		hub.Notify()
	})
	go hub.Run(ctx)
	h.Mount("/ws/stream", hub)

	if *configPath != "" {
		go func() {
			err := config.Watch(ctx, *configPath, func(next *config.Config) {
				if err := ov.apply(next); err != nil {
					slog.Error("config: reload rejected", "err", err)
					return
				}
				applyReload(d, next.Dashboard, h, hub)
			})
			if err != nil {
				slog.Error("config watcher stopped", "err", err)
			}
		}()
	}

	// gRPC health probe.
	pr := probe.New(st)
	grpcSrv := grpc.NewServer()
	pr.Register(grpcSrv)

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", d.GRPCPort))
	if err != nil {
		slog.Error("failed to listen on gRPC port", "port", d.GRPCPort, "err", err)
		os.Exit(1)
	}
	go func() {
		slog.Info("gRPC health service listening", "port", d.GRPCPort)
		if err := grpcSrv.Serve(lis); err != nil {
			slog.Error("gRPC server stopped", "err", err)
		}
	}()

	httpSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", d.HTTPPort),
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		slog.Info("HTTP server listening", "port", d.HTTPPort)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server stopped", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("menuscore-dashboard shutting down")
	pr.Shutdown()

	shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
	defer done()
	httpSrv.Shutdown(shutdownCtx) //nolint:errcheck
	grpcSrv.GracefulStop()
}

// overrides are the command-line flags that take precedence over the config
// file and the environment. Zero values leave the config untouched.
type overrides struct {
	data     string
	httpPort int
	grpcPort int
}

func (o overrides) apply(cfg *config.Config) error {
	if o.data != "" {
		cfg.Dashboard.ScoredPath = o.data
	}
	if o.httpPort != 0 {
		cfg.Dashboard.HTTPPort = o.httpPort
	}
	if o.grpcPort != 0 {
		cfg.Dashboard.GRPCPort = o.grpcPort
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("dashboard config: %w", err)
	}
	return nil
}

// loadConfig loads the config file and applies the command-line overrides.
func loadConfig(path string, ov overrides) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := ov.apply(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func settingsFrom(d config.DashboardConfig) api.Settings {
	return api.Settings{
		Thresholds: store.Thresholds{
			HighProteinGrams: d.Thresholds.HighProteinGrams,
			LowSodiumMg:      d.Thresholds.LowSodiumMg,
		},
		TopN:                d.TopN,
		PipelineMetricsPath: d.PipelineMetricsPath,
	}
}

// applyReload pushes the hot-reloadable settings of next into the running
// handler and hub. Ports and the dataset path are fixed at startup.
func applyReload(running, next config.DashboardConfig, h *api.Handler, hub *ws.Hub) {
	if next.HTTPPort != running.HTTPPort || next.GRPCPort != running.GRPCPort || next.ScoredPath != running.ScoredPath {
		slog.Warn("config: ports and scored_path changes need a restart",
			"http_port", next.HTTPPort, "grpc_port", next.GRPCPort, "scored_path", next.ScoredPath)
	}
	h.SetSettings(settingsFrom(next))
	hub.SetInterval(next.BroadcastInterval)
	slog.Info("config: settings applied",
		"high_protein_grams", next.Thresholds.HighProteinGrams,
		"low_sodium_mg", next.Thresholds.LowSodiumMg,
		"top_n", next.TopN,
		"broadcast_interval", next.BroadcastInterval,
	)
}
