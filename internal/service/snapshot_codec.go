package service

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/hangerine/coin-trader/internal/domain"

	"github.com/shopspring/decimal"
)

// DecodeSnapshot parses a raw snapshot payload into the normalized form the
// MarketStore ingests. Two shapes are accepted at this boundary so the core
// only ever sees one:
//
//   - normalized: {"timestamp": ..., "fx_rate": ..., "assets": {"BTC": {"primary": ..., "cross_prices": {...}}}}
//   - legacy flat: {"timestamp": ..., "usd_krw_rate": ..., "btc_price": ..., "eth_price": ...}
//
// The legacy shape is what the old dashboard feed produced; translating it
// here keeps the migration shim out of the engine. Unparseable per-asset
// values are dropped silently, matching the skip semantics of ingestion.
func DecodeSnapshot(data []byte) (domain.MarketSnapshot, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return domain.MarketSnapshot{}, fmt.Errorf("snapshot decode: %w", err)
	}

	snap := domain.MarketSnapshot{
		Timestamp: decodeTimestamp(raw["timestamp"]),
		Assets:    make(map[string]domain.AssetQuote),
	}

	if assets, ok := raw["assets"]; ok {
		if err := decodeNormalized(assets, raw["fx_rate"], &snap); err != nil {
			return domain.MarketSnapshot{}, err
		}
		return snap, nil
	}

	decodeLegacyFlat(raw, &snap)
	return snap, nil
}

func decodeNormalized(assets, fxRate json.RawMessage, snap *domain.MarketSnapshot) error {
	snap.FxRate, _ = decodeDecimal(fxRate)

	var parsed map[string]struct {
		Primary     json.RawMessage            `json:"primary"`
		CrossPrices map[string]json.RawMessage `json:"cross_prices"`
	}
	if err := json.Unmarshal(assets, &parsed); err != nil {
		return fmt.Errorf("snapshot assets decode: %w", err)
	}

	for symbol, quote := range parsed {
		aq := domain.AssetQuote{}
		primary, ok := decodeDecimal(quote.Primary)
		if !ok {
			continue
		}
		aq.Primary = primary
		for exchange, price := range quote.CrossPrices {
			p, ok := decodeDecimal(price)
			if !ok {
				continue
			}
			if aq.CrossPrices == nil {
				aq.CrossPrices = make(map[string]decimal.Decimal)
			}
			aq.CrossPrices[strings.ToUpper(exchange)] = p
		}
		snap.Assets[strings.ToUpper(symbol)] = aq
	}
	return nil
}

// decodeLegacyFlat maps "<sym>_price" keys to assets and "usd_krw_rate" to
// the FX rate. The legacy feed quoted everything on the primary venue only.
func decodeLegacyFlat(raw map[string]json.RawMessage, snap *domain.MarketSnapshot) {
	if rate, ok := decodeDecimal(raw["usd_krw_rate"]); ok {
		snap.FxRate = rate
	}
	for key, value := range raw {
		symbol, ok := strings.CutSuffix(key, "_price")
		if !ok || symbol == "" {
			continue
		}
		price, ok := decodeDecimal(value)
		if !ok {
			continue
		}
		snap.Assets[strings.ToUpper(symbol)] = domain.AssetQuote{Primary: price}
	}
}

// decodeDecimal accepts a JSON number or numeric string. ok is false for
// anything else, including null and absent fields.
func decodeDecimal(raw json.RawMessage) (decimal.Decimal, bool) {
	if len(raw) == 0 {
		return decimal.Zero, false
	}
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		d, err := decimal.NewFromString(strings.TrimSpace(asString))
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	}
	var asFloat float64
	if err := json.Unmarshal(raw, &asFloat); err != nil {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(asFloat), true
}

// decodeTimestamp accepts epoch milliseconds or RFC3339; anything else
// falls back to the receive time, since a snapshot without a usable
// timestamp is still worth ingesting once.
func decodeTimestamp(raw json.RawMessage) int64 {
	if len(raw) == 0 {
		return time.Now().UnixMilli()
	}
	var ms int64
	if err := json.Unmarshal(raw, &ms); err == nil && ms > 0 {
		return ms
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t.UnixMilli()
		}
	}
	return time.Now().UnixMilli()
}
