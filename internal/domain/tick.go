package domain

import (
	"github.com/shopspring/decimal"
)

// Tick is one normalized price observation for a single asset at one instant.
// Value is the price in the primary quote currency (KRW). CrossPrices holds
// per-exchange prices in each venue's native quote currency; a venue that did
// not report simply has no entry (never a zero price).
type Tick struct {
	Timestamp   int64                      `json:"timestamp"` // epoch milliseconds
	Value       decimal.Decimal            `json:"value"`
	CrossPrices map[string]decimal.Decimal `json:"cross_prices,omitempty"`
	FxRate      decimal.Decimal            `json:"fx_rate"` // USD/KRW at this instant
}

// Series is the append-only, time-ordered tick history of a single asset.
// Timestamps are strictly increasing. The MarketStore is the only writer.
type Series []Tick

// Last returns the most recent tick. ok is false for an empty series.
func (s Series) Last() (Tick, bool) {
	if len(s) == 0 {
		return Tick{}, false
	}
	return s[len(s)-1], true
}

// AssetQuote is the raw per-asset portion of a market snapshot, before
// normalization. Primary is the price on the primary venue in KRW.
type AssetQuote struct {
	Primary     decimal.Decimal            `json:"primary"`
	CrossPrices map[string]decimal.Decimal `json:"cross_prices,omitempty"`
}

// MarketSnapshot is one polling cycle's worth of raw data: every asset the
// transport could quote, plus the FX rate in effect. Assets the transport
// failed to quote are absent, not zeroed.
type MarketSnapshot struct {
	Timestamp int64                 `json:"timestamp"`
	FxRate    decimal.Decimal       `json:"fx_rate"`
	Assets    map[string]AssetQuote `json:"assets"`
}

// Exchange identifiers. Bithumb is the primary venue (KRW quotes); cross
// venues quote in their own currency and are compared through the FX rate.
const (
	ExchangeBithumb = "BITHUMB"
	ExchangeBinance = "BINANCE"
)

// QuoteCurrency returns the quote currency a venue trades in.
func QuoteCurrency(exchange string) string {
	if exchange == ExchangeBinance {
		return "USDT"
	}
	return "KRW"
}
