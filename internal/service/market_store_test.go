package service

import (
	"testing"

	"github.com/hangerine/coin-trader/internal/domain"

	"github.com/shopspring/decimal"
)

func snap(ts int64, assets map[string]domain.AssetQuote) domain.MarketSnapshot {
	return domain.MarketSnapshot{
		Timestamp: ts,
		FxRate:    decimal.NewFromInt(1400),
		Assets:    assets,
	}
}

func TestMarketStore_IngestAppends(t *testing.T) {
	store := NewMarketStore()

	appended := store.Ingest(snap(1000, map[string]domain.AssetQuote{
		"BTC": {Primary: decimal.NewFromInt(160_000_000)},
		"ETH": {Primary: decimal.NewFromInt(5_000_000)},
	}))

	if len(appended) != 2 {
		t.Fatalf("Expected 2 appends, got %d", len(appended))
	}
	// Deterministic symbol order
	if appended[0].Symbol != "BTC" || appended[1].Symbol != "ETH" {
		t.Errorf("Appends not sorted: %s, %s", appended[0].Symbol, appended[1].Symbol)
	}
	if store.Len("BTC") != 1 || store.Len("ETH") != 1 {
		t.Errorf("Expected length 1 each, got %d and %d", store.Len("BTC"), store.Len("ETH"))
	}
}

func TestMarketStore_SkipsNonPositivePrice(t *testing.T) {
	store := NewMarketStore()

	appended := store.Ingest(snap(1000, map[string]domain.AssetQuote{
		"BTC": {Primary: decimal.Zero},
		"ETH": {Primary: decimal.NewFromInt(-5)},
	}))

	if len(appended) != 0 {
		t.Errorf("Expected no appends, got %d", len(appended))
	}
	if store.Len("BTC") != 0 {
		t.Errorf("Zero price was stored")
	}
}

func TestMarketStore_SkipsNonAdvancingTimestamp(t *testing.T) {
	store := NewMarketStore()
	quote := map[string]domain.AssetQuote{"BTC": {Primary: decimal.NewFromInt(100)}}

	store.Ingest(snap(2000, quote))
	store.Ingest(snap(2000, quote)) // duplicate
	store.Ingest(snap(1500, quote)) // out of order

	if store.Len("BTC") != 1 {
		t.Errorf("Expected 1 tick, got %d", store.Len("BTC"))
	}
}

func TestMarketStore_DropsNonPositiveCrossPrices(t *testing.T) {
	store := NewMarketStore()

	store.Ingest(snap(1000, map[string]domain.AssetQuote{
		"BTC": {
			Primary: decimal.NewFromInt(160_000_000),
			CrossPrices: map[string]decimal.Decimal{
				domain.ExchangeBinance: decimal.Zero,
			},
		},
	}))

	last, ok := store.Last("BTC")
	if !ok {
		t.Fatal("Tick should exist")
	}
	if len(last.CrossPrices) != 0 {
		t.Errorf("Zero cross price was stored: %v", last.CrossPrices)
	}
}

func TestMarketStore_PriceOn(t *testing.T) {
	store := NewMarketStore()

	store.Ingest(snap(1000, map[string]domain.AssetQuote{
		"BTC": {
			Primary: decimal.NewFromInt(160_000_000),
			CrossPrices: map[string]decimal.Decimal{
				domain.ExchangeBinance: decimal.NewFromInt(110_000),
			},
		},
	}))

	if p := store.PriceOn("BTC", domain.ExchangeBithumb); !p.Equal(decimal.NewFromInt(160_000_000)) {
		t.Errorf("Primary price: got %s", p)
	}
	if p := store.PriceOn("BTC", domain.ExchangeBinance); !p.Equal(decimal.NewFromInt(110_000)) {
		t.Errorf("Cross price: got %s", p)
	}
	// Unknown venue or symbol means no price, not an error
	if p := store.PriceOn("BTC", "KRAKEN"); !p.IsZero() {
		t.Errorf("Unknown venue price should be zero, got %s", p)
	}
	if p := store.PriceOn("DOGE", domain.ExchangeBithumb); !p.IsZero() {
		t.Errorf("Unknown symbol price should be zero, got %s", p)
	}
}

func TestMarketStore_SliceClamps(t *testing.T) {
	store := NewMarketStore()
	for i := 0; i < 10; i++ {
		store.Ingest(snap(int64(1000+i*1000), map[string]domain.AssetQuote{
			"BTC": {Primary: decimal.NewFromInt(int64(100 + i))},
		}))
	}

	points := store.Slice("BTC", -3, 50)
	if len(points) != 10 {
		t.Fatalf("Expected full series, got %d points", len(points))
	}
	if !points[9].Value.Equal(decimal.NewFromInt(109)) {
		t.Errorf("Last point value: %s", points[9].Value)
	}

	if points := store.Slice("BTC", 8, 4); points != nil {
		t.Errorf("Inverted range should be empty, got %d points", len(points))
	}
}

func TestMarketStore_Remove(t *testing.T) {
	store := NewMarketStore()
	store.Ingest(snap(1000, map[string]domain.AssetQuote{"BTC": {Primary: decimal.NewFromInt(100)}}))

	store.Remove("BTC")

	if store.Len("BTC") != 0 {
		t.Error("Series should be gone")
	}
	if len(store.Symbols()) != 0 {
		t.Errorf("Symbols not empty: %v", store.Symbols())
	}
}
