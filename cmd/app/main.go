package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hangerine/coin-trader/internal/app"
	"github.com/hangerine/coin-trader/internal/domain"
	"github.com/hangerine/coin-trader/internal/engine"
	"github.com/hangerine/coin-trader/internal/event"
	"github.com/hangerine/coin-trader/internal/infra"
	"github.com/hangerine/coin-trader/internal/infra/binance"
	"github.com/hangerine/coin-trader/internal/infra/bithumb"
	"github.com/hangerine/coin-trader/internal/infra/paper"
	"github.com/hangerine/coin-trader/internal/server"
	"github.com/hangerine/coin-trader/internal/service"

	"github.com/shopspring/decimal"

	_ "net/http/pprof" // For pprof profiling
)

func main() {
	// 1. Pprof Server (for performance profiling)
	go func() {
		// Localhost only for security
		slog.Info("🕵️ Pprof server started on localhost:6060")
		if err := http.ListenAndServe("localhost:6060", nil); err != nil {
			slog.Error("Pprof server failed", slog.Any("error", err))
		}
	}()

	// 2. System Bootstrapping
	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(); err != nil {
		slog.Error("❌ Bootstrapping failed", slog.Any("error", err))
		os.Exit(1)
	}
	cfg := bootstrap.Config

	// 3. Graceful Shutdown Context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Background Asset Sync (catalog rows + icons)
	go bootstrap.SyncAssets(ctx)

	// 5. Market Store + Controller (The Hotpath Loop)
	event.Warmup()
	store := service.NewMarketStore()

	controller := engine.NewController(1024, store, nil)
	hub := server.NewHub(controller.Inbox())
	controller.OnUpdate(hub.BroadcastView)
	var tickRepo domain.TickRepository = bootstrap.Storage
	controller.OnTick(func(symbol string, tick domain.Tick) {
		if err := tickRepo.SaveTick(symbol, tick); err != nil {
			slog.Error("Failed to persist tick", slog.String("symbol", symbol), slog.Any("error", err))
		}
		infra.GlobalMetrics.RecordTick()
	})
	controller.OnRemove(hub.BroadcastRemoval)

	go controller.Run(ctx)
	go hub.Run()
	slog.InfoContext(ctx, "✅ Controller (Hotpath) started")

	// 6. FX Rate Client (KRW per USD)
	fxClient := infra.NewFxRateClientWithConfig(nil, cfg.API.FxRate.URL, cfg.API.FxRate.PollIntervalSec)
	if err := fxClient.Start(ctx); err != nil {
		slog.Error("Failed to start FX rate client", slog.Any("error", err))
	}
	defer fxClient.Stop()

	// 7. Venue Clients + Market Poller
	primaryClient := bithumb.NewClient(cfg.API.Bithumb.RestURL)
	var crossClient infra.CrossPriceClient
	if cfg.API.Binance.RestURL != "" {
		crossClient = binance.NewClient(cfg.API.Binance.RestURL)
	}

	poller := infra.NewMarketPoller(
		primaryClient,
		crossClient,
		cfg.API.Bithumb.Symbols,
		cfg.API.Binance.Symbols,
		fxClient,
		controller.Inbox(),
		cfg.Market.PollIntervalSec,
	)
	if err := poller.Start(ctx); err != nil {
		slog.Error("Failed to start market poller", slog.Any("error", err))
	}
	defer poller.Stop()
	slog.InfoContext(ctx, "✅ Market poller started",
		slog.Int("symbols", len(cfg.API.Bithumb.Symbols)))

	// 8. Paper Trading Venue + HTTP Server
	venue := paper.NewVenue(decimal.NewFromInt(10_000_000)) // 10M KRW starting balance
	srv := server.New(cfg, controller, store, bootstrap.Storage, venue, venue, hub)
	srv.Start(ctx)

	slog.InfoContext(ctx, "✨ Coin Trader fully operational. Press Ctrl+C to exit.")

	// Wait for shutdown signal
	<-ctx.Done()

	slog.InfoContext(ctx, "👋 Shutting down gracefully...")
}
