package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Wilaroo/Trading-and-Analysis-Platform-sub002/internal/api"
	"github.com/Wilaroo/Trading-and-Analysis-Platform-sub002/internal/chart"
	"github.com/Wilaroo/Trading-and-Analysis-Platform-sub002/internal/config"
	"github.com/Wilaroo/Trading-and-Analysis-Platform-sub002/internal/dispatch"
	"github.com/Wilaroo/Trading-and-Analysis-Platform-sub002/internal/fetch"
	"github.com/Wilaroo/Trading-and-Analysis-Platform-sub002/internal/logging"
	"github.com/Wilaroo/Trading-and-Analysis-Platform-sub002/internal/metrics"
	"github.com/Wilaroo/Trading-and-Analysis-Platform-sub002/internal/model"
	"github.com/Wilaroo/Trading-and-Analysis-Platform-sub002/internal/quote"
	"github.com/Wilaroo/Trading-and-Analysis-Platform-sub002/internal/stream"
	"github.com/Wilaroo/Trading-and-Analysis-Platform-sub002/internal/version"
	"github.com/Wilaroo/Trading-and-Analysis-Platform-sub002/internal/view"
)

func main() {
	godotenv.Load()

	configPath := flag.String("config", "configs/dashboard.yaml", "path to config file")
	flag.Parse()

	// Bootstrap logger until config is loaded
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = logging.New(cfg.Logging.Level, cfg.Logging.File)
	slog.SetDefault(logger)

	logger.Info("starting dashboard",
		"version", version.Version,
		"commit", version.Commit,
		"rest_url", cfg.Backend.RestURL,
		"ws_url", cfg.Backend.WSURL,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	counters := metrics.New()

	apiClient := api.NewClient(
		cfg.Backend.RestURL,
		api.WithLogger(logger),
		api.WithTimeout(cfg.Backend.Timeout),
	)

	// Chart hub: the front end attaches here and receives draw commands.
	hub := chart.NewHub(logger.With("component", "chart_hub"))
	go hub.Run(ctx)

	mux := http.NewServeMux()
	mux.Handle("/ws/chart", hub)
	server := &http.Server{Addr: cfg.Chart.ListenAddr, Handler: mux}
	go func() {
		logger.Info("chart hub listening", "addr", cfg.Chart.ListenAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("chart hub server failed", "error", err)
			cancel()
		}
	}()

	views := view.NewController(
		view.Config{
			SettleDelay:   cfg.Chart.SettleDelay,
			DefaultWidth:  cfg.Chart.DefaultWidth,
			DefaultHeight: cfg.Chart.DefaultHeight,
		},
		chart.NewRemoteFactory(hub),
		hub,
		counters,
		logger.With("component", "view"),
	)

	book := quote.NewBook()

	dispatcher := dispatch.New(
		dispatch.Config{BufferSize: cfg.Stream.BufferSize},
		book,
		hub,
		counters,
		logger.With("component", "dispatch"),
	)

	manager := stream.NewManager(
		stream.ManagerConfig{
			URL:            cfg.Backend.WSURL,
			ReconnectDelay: cfg.Stream.ReconnectDelay,
			PingTimeout:    cfg.Stream.PingTimeout,
			WriteTimeout:   cfg.Stream.WriteTimeout,
			BufferSize:     cfg.Stream.BufferSize,
		},
		dispatcher,
		counters,
		logger.With("component", "stream"),
	)
	dispatcher.SetFilter(manager.Subscribed)

	scheduler := fetch.New(
		fetch.Config{
			IntervalConnected: cfg.Fetch.IntervalConnected,
			IntervalBusy:      cfg.Fetch.IntervalBusy,
			IntervalIdle:      cfg.Fetch.IntervalIdle,
			ReadyRetryDelay:   cfg.Fetch.ReadyRetryDelay,
			RequestTimeout:    cfg.Fetch.RequestTimeout,
		},
		apiClient,
		views,
		counters,
		logger.With("component", "fetch"),
	)

	if err := dispatcher.Start(ctx); err != nil {
		logger.Error("failed to start dispatcher", "error", err)
		os.Exit(1)
	}
	if err := manager.Start(ctx); err != nil {
		logger.Error("failed to start stream manager", "error", err)
		os.Exit(1)
	}
	if err := scheduler.Start(ctx); err != nil {
		logger.Error("failed to start fetch scheduler", "error", err)
		os.Exit(1)
	}

	if len(cfg.Watchlist.Symbols) > 0 {
		manager.Subscribe(cfg.Watchlist.Symbols...)
	}
	if cfg.Watchlist.InitialSymbol != "" {
		preset, ok := model.PresetByLabel(cfg.Watchlist.InitialPreset)
		if !ok {
			preset = model.TimeframePresets[0]
		}
		views.Select(cfg.Watchlist.InitialSymbol, preset)
	}

	// Periodic counter report
	go func() {
		ticker := time.NewTicker(60 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				snap := counters.Snapshot()
				logger.Info("engine counters",
					"frames", snap.FramesReceived,
					"frames_dropped", snap.FramesDropped,
					"reconnects", snap.Reconnects,
					"fetch_cycles", snap.FetchCycles,
					"fetch_errors", snap.FetchErrors,
					"stale_discards", snap.StaleDiscards,
					"quotes", snap.QuotesApplied,
				)
			}
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	scheduler.Stop(shutdownCtx)
	manager.Stop(shutdownCtx)
	dispatcher.Stop(shutdownCtx)
	views.Close()
	server.Shutdown(shutdownCtx)

	logger.Info("dashboard stopped")
}
