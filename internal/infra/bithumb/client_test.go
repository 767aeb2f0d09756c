package bithumb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
)

func TestClient_Ticker(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/public/ticker/BTC_KRW" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"0000","data":{"closing_price":"160000000","units_traded_24H":"123.4"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	price, err := client.Ticker(context.Background(), "BTC")
	if err != nil {
		t.Fatalf("Ticker failed: %v", err)
	}
	if !price.Equal(decimal.NewFromInt(160_000_000)) {
		t.Errorf("Expected 160000000, got %s", price)
	}
}

func TestClient_TickerErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"5600","data":{}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	if _, err := client.Ticker(context.Background(), "NOPE"); err == nil {
		t.Error("Expected error for non-0000 status")
	}
}

func TestClient_TickerHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	if _, err := client.Ticker(context.Background(), "BTC"); err == nil {
		t.Error("Expected error for HTTP 500")
	}
}
