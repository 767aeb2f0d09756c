package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hangerine/coin-trader/internal/domain"
	"github.com/hangerine/coin-trader/internal/infra"

	"github.com/shopspring/decimal"
)

// BaseURL is the Binance spot REST API host.
const BaseURL = "https://api.binance.com"

// Client fetches USDT-quoted reference prices from Binance. These are the
// cross-exchange values that feed the premium calculation; failures only
// cost this cycle's cross entry, never the primary tick.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new Binance API client.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = BaseURL
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:    10,
				IdleConnTimeout: 30 * time.Second,
			},
		},
	}
}

type priceResponse struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

// Price fetches the latest price for a venue pair (e.g. BTCUSDT).
func (c *Client) Price(ctx context.Context, pair string) (decimal.Decimal, error) {
	url := fmt.Sprintf("%s/api/v3/ticker/price?symbol=%s", c.baseURL, pair)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return decimal.Zero, err
	}
	req.Header.Set("User-Agent", infra.DefaultUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, domain.NewNetworkError("binance price", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, domain.NewNetworkError("binance price",
			fmt.Errorf("unexpected status code: %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return decimal.Zero, err
	}

	var pr priceResponse
	if err := json.Unmarshal(body, &pr); err != nil {
		return decimal.Zero, fmt.Errorf("binance decode: %w", err)
	}

	price, err := decimal.NewFromString(pr.Price)
	if err != nil {
		return decimal.Zero, fmt.Errorf("binance price parse: %w", err)
	}
	return price, nil
}
