package infra

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/hangerine/coin-trader/internal/domain"
	"github.com/hangerine/coin-trader/internal/event"

	"github.com/shopspring/decimal"
)

// PrimaryTickerClient quotes an asset in KRW on the primary venue.
type PrimaryTickerClient interface {
	Ticker(ctx context.Context, symbol string) (decimal.Decimal, error)
}

// CrossPriceClient quotes a venue pair (e.g. BTCUSDT) on a cross venue.
type CrossPriceClient interface {
	Price(ctx context.Context, pair string) (decimal.Decimal, error)
}

// MarketPoller assembles one MarketSnapshot per cycle from the primary and
// cross venue clients plus the FX provider, and sends it to the controller
// inbox. A venue that fails this cycle is simply absent from the snapshot;
// a cycle that yields nothing at all is dropped entirely so engine state is
// never touched by a failed fetch.
type MarketPoller struct {
	primary      PrimaryTickerClient
	cross        CrossPriceClient
	crossName    string
	symbols      []string
	crossPairs   map[string]string // asset symbol -> venue pair
	fx           domain.ExchangeRateProvider
	inbox        chan<- event.Event
	pollInterval time.Duration
	cancel       context.CancelFunc
	wg           sync.WaitGroup
}

// NewMarketPoller creates a poller over the given venue clients. crossPairs
// maps asset symbols to the cross venue's pair names; assets without an
// entry get no cross price.
func NewMarketPoller(
	primary PrimaryTickerClient,
	cross CrossPriceClient,
	symbols []string,
	crossPairs map[string]string,
	fx domain.ExchangeRateProvider,
	inbox chan<- event.Event,
	pollIntervalSec int,
) *MarketPoller {
	interval := 5 * time.Second
	if pollIntervalSec > 0 {
		interval = time.Duration(pollIntervalSec) * time.Second
	}
	return &MarketPoller{
		primary:      primary,
		cross:        cross,
		crossName:    domain.ExchangeBinance,
		symbols:      symbols,
		crossPairs:   crossPairs,
		fx:           fx,
		inbox:        inbox,
		pollInterval: interval,
	}
}

// Start begins the polling loop.
func (p *MarketPoller) Start(ctx context.Context) error {
	ctx, p.cancel = context.WithCancel(ctx)

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				slog.Error("Market polling panic recovered", slog.Any("panic", r))
			}
		}()

		// First cycle immediately so the dashboard is not empty for a full
		// interval after startup.
		p.poll(ctx)

		ticker := time.NewTicker(p.pollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				slog.Info("Market polling stopped")
				return
			case <-ticker.C:
				p.poll(ctx)
			}
		}
	}()

	return nil
}

// poll runs one fetch cycle. Failures are logged and retried on the next
// scheduled interval; partial data is preferable to freezing the dashboard.
func (p *MarketPoller) poll(ctx context.Context) {
	snap := domain.MarketSnapshot{
		Timestamp: time.Now().UnixMilli(),
		FxRate:    p.fx.GetRate(),
		Assets:    make(map[string]domain.AssetQuote, len(p.symbols)),
	}

	for _, symbol := range p.symbols {
		price, err := p.primary.Ticker(ctx, symbol)
		if err != nil {
			slog.Warn("Primary ticker fetch failed",
				slog.String("symbol", symbol), slog.Any("error", err))
			GlobalMetrics.RecordFetchError()
			continue
		}

		quote := domain.AssetQuote{Primary: price}
		if pair, ok := p.crossPairs[symbol]; ok && p.cross != nil {
			crossPrice, err := p.cross.Price(ctx, pair)
			if err != nil {
				slog.Warn("Cross price fetch failed",
					slog.String("symbol", symbol), slog.Any("error", err))
				GlobalMetrics.RecordFetchError()
			} else {
				quote.CrossPrices = map[string]decimal.Decimal{p.crossName: crossPrice}
			}
		}
		snap.Assets[symbol] = quote
	}

	if len(snap.Assets) == 0 {
		slog.Warn("Market poll cycle yielded no quotes, skipping")
		return
	}

	ev := event.AcquireSnapshotEvent()
	ev.Snapshot = snap

	select {
	case <-ctx.Done():
		event.ReleaseSnapshotEvent(ev)
	case p.inbox <- ev:
		GlobalMetrics.RecordSnapshot()
	}
}

// Stop stops the polling loop.
func (p *MarketPoller) Stop() {
	if p.cancel != nil {
		p.cancel()
		p.wg.Wait()
	}
}
