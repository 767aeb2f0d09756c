package bithumb

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

const (
	// BaseURL is the Bithumb public REST API host.
	BaseURL = "https://api.bithumb.com"

	statusOK = "0000"
)

// Client is the Bithumb public REST API client (Boundary Layer). Bithumb is
// the primary venue: all its quotes are KRW.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new Bithumb API client.
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

// tickerResponse is the /public/ticker envelope. ClosingPrice arrives as a
// string; parsing failures surface as a skipped asset upstream.
type tickerResponse struct {
	Status string `json:"status"`
	Data   struct {
		ClosingPrice string `json:"closing_price"`
		UnitsTraded  string `json:"units_traded_24H"`
		Fluctate     string `json:"fluctate_rate_24H"`
	} `json:"data"`
}

// Ticker fetches the latest KRW closing price for one symbol. A zero price
// with nil error never happens: any defect is reported as an error and the
// caller decides to skip the asset for this cycle.
func (c *Client) Ticker(ctx context.Context, symbol string) (decimal.Decimal, error) {
	url := fmt.Sprintf("%s/public/ticker/%s_KRW", c.baseURL, symbol)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return decimal.Zero, err
	}
	req.Header.Set("User-Agent", infra.DefaultUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, domain.NewNetworkError("bithumb ticker", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, domain.NewNetworkError("bithumb ticker",
			fmt.Errorf("unexpected status code: %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return decimal.Zero, err
	}

	var ticker tickerResponse
	if err := json.Unmarshal(body, &ticker); err != nil {
		return decimal.Zero, fmt.Errorf("bithumb decode: %w", err)
	}
	if ticker.Status != statusOK {
		return decimal.Zero, fmt.Errorf("bithumb status %s for %s", ticker.Status, symbol)
	}

	price, err := decimal.NewFromString(ticker.Data.ClosingPrice)
	if err != nil {
		return decimal.Zero, fmt.Errorf("bithumb price parse: %w", err)
	}
	return price, nil
}
