package service

import (
	"testing"
	"time"

	"github.com/hangerine/coin-trader/internal/domain"

	"github.com/shopspring/decimal"
)

func TestDecodeSnapshot_Normalized(t *testing.T) {
	payload := []byte(`{
		"timestamp": 1700000000000,
		"fx_rate": "1432.5",
		"assets": {
			"btc": {
				"primary": 160000000,
				"cross_prices": {"binance": "110250.5"}
			},
			"eth": {"primary": "5000000"}
		}
	}`)

	snap, err := DecodeSnapshot(payload)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if snap.Timestamp != 1700000000000 {
		t.Errorf("Timestamp: got %d", snap.Timestamp)
	}
	if !snap.FxRate.Equal(decimal.NewFromFloat(1432.5)) {
		t.Errorf("FxRate: got %s", snap.FxRate)
	}

	btc, ok := snap.Assets["BTC"]
	if !ok {
		t.Fatal("BTC missing (symbols should be uppercased)")
	}
	if !btc.Primary.Equal(decimal.NewFromInt(160_000_000)) {
		t.Errorf("BTC primary: got %s", btc.Primary)
	}
	if !btc.CrossPrices[domain.ExchangeBinance].Equal(decimal.NewFromFloat(110250.5)) {
		t.Errorf("BTC cross: got %s", btc.CrossPrices[domain.ExchangeBinance])
	}

	if _, ok := snap.Assets["ETH"]; !ok {
		t.Error("ETH missing")
	}
}

func TestDecodeSnapshot_LegacyFlat(t *testing.T) {
	payload := []byte(`{
		"timestamp": 1700000000000,
		"usd_krw_rate": 1432.5,
		"btc_price": 160000000,
		"eth_price": "5000000",
		"note": "ignored"
	}`)

	snap, err := DecodeSnapshot(payload)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !snap.FxRate.Equal(decimal.NewFromFloat(1432.5)) {
		t.Errorf("FxRate: got %s", snap.FxRate)
	}
	if len(snap.Assets) != 2 {
		t.Fatalf("Expected 2 assets, got %d: %v", len(snap.Assets), snap.Assets)
	}
	if !snap.Assets["BTC"].Primary.Equal(decimal.NewFromInt(160_000_000)) {
		t.Errorf("BTC: got %s", snap.Assets["BTC"].Primary)
	}
	if !snap.Assets["ETH"].Primary.Equal(decimal.NewFromInt(5_000_000)) {
		t.Errorf("ETH: got %s", snap.Assets["ETH"].Primary)
	}
}

func TestDecodeSnapshot_UnparseableValuesDropped(t *testing.T) {
	payload := []byte(`{
		"timestamp": 1700000000000,
		"assets": {
			"btc": {"primary": "not-a-number"},
			"eth": {"primary": 5000000, "cross_prices": {"binance": null}}
		}
	}`)

	snap, err := DecodeSnapshot(payload)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if _, ok := snap.Assets["BTC"]; ok {
		t.Error("Unparseable primary should drop the asset")
	}
	eth := snap.Assets["ETH"]
	if len(eth.CrossPrices) != 0 {
		t.Errorf("Null cross price should be dropped, got %v", eth.CrossPrices)
	}
}

func TestDecodeSnapshot_TimestampForms(t *testing.T) {
	// RFC3339 string
	snap, err := DecodeSnapshot([]byte(`{"timestamp": "2023-11-14T22:13:20Z", "assets": {}}`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if snap.Timestamp != 1700000000000 {
		t.Errorf("RFC3339 timestamp: got %d", snap.Timestamp)
	}

	// Missing timestamp falls back to receive time
	before := time.Now().UnixMilli()
	snap, err = DecodeSnapshot([]byte(`{"assets": {}}`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if snap.Timestamp < before {
		t.Errorf("Fallback timestamp %d predates decode", snap.Timestamp)
	}
}

func TestDecodeSnapshot_Invalid(t *testing.T) {
	if _, err := DecodeSnapshot([]byte(`not json`)); err == nil {
		t.Error("Expected error for malformed payload")
	}
}
