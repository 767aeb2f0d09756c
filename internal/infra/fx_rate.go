package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// frankfurterResponse represents the Frankfurter FX API response
type frankfurterResponse struct {
	Amount float64            `json:"amount"`
	Base   string             `json:"base"`
	Date   string             `json:"date"`
	Rates  map[string]float64 `json:"rates"`
}

// FxRateClient polls the USD/KRW exchange rate. The rate stamps every
// normalized tick so cross-exchange prices stay comparable.
type FxRateClient struct {
	onUpdate     func(decimal.Decimal)
	rate         decimal.Decimal
	mu           sync.RWMutex
	pollInterval time.Duration
	apiURL       string
	httpClient   *http.Client
	cancel       context.CancelFunc
	wg           sync.WaitGroup
}

// NewFxRateClient creates a new FX rate client
func NewFxRateClient(onUpdate func(decimal.Decimal)) *FxRateClient {
	return &FxRateClient{
		onUpdate:     onUpdate,
		rate:         decimal.Zero,
		pollInterval: 60 * time.Second, // Default: 1 minute
		apiURL:       "https://api.frankfurter.app/latest?from=USD&to=KRW",
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// NewFxRateClientWithConfig creates a client with custom configuration
func NewFxRateClientWithConfig(onUpdate func(decimal.Decimal), apiURL string, pollIntervalSec int) *FxRateClient {
	client := NewFxRateClient(onUpdate)
	if apiURL != "" {
		client.apiURL = apiURL
	}
	if pollIntervalSec > 0 {
		client.pollInterval = time.Duration(pollIntervalSec) * time.Second
	}
	return client
}

// Start begins polling for exchange rate updates
func (c *FxRateClient) Start(ctx context.Context) error {
	ctx, c.cancel = context.WithCancel(ctx)

	// Fetch immediately on start
	if err := c.fetchRate(ctx); err != nil {
		slog.Warn("Initial FX rate fetch failed", slog.Any("error", err))
		// Continue anyway - will retry on next tick
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				slog.Error("FX rate polling panic recovered", slog.Any("panic", r))
			}
		}()

		ticker := time.NewTicker(c.pollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				slog.Info("FX rate polling stopped")
				return
			case <-ticker.C:
				if err := c.fetchRate(ctx); err != nil {
					slog.Warn("FX rate fetch failed", slog.Any("error", err))
				}
			}
		}
	}()

	return nil
}

// fetchRate fetches the current rate with retry logic
func (c *FxRateClient) fetchRate(ctx context.Context) error {
	var lastErr error
	for i := 0; i < 3; i++ {
		if i > 0 {
			delay := CalculateBackoff(i - 1)
			slog.Info("Retrying FX rate fetch", slog.Int("attempt", i), slog.Duration("delay", delay))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		err := c.doFetch(ctx)
		if err == nil {
			return nil
		}
		lastErr = err
		slog.Warn("FX rate fetch attempt failed", slog.Int("attempt", i+1), slog.Any("error", err))
	}
	return lastErr
}

func (c *FxRateClient) doFetch(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", DefaultUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var data frankfurterResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return err
	}

	krw, ok := data.Rates["KRW"]
	if !ok || krw <= 0 {
		return fmt.Errorf("no KRW rate in response")
	}

	newRate := decimal.NewFromFloat(krw)

	c.mu.Lock()
	oldRate := c.rate
	c.rate = newRate
	c.mu.Unlock()

	// Notify if rate changed
	if !oldRate.Equal(newRate) && c.onUpdate != nil {
		slog.Info("FX rate updated",
			slog.String("rate", newRate.String()),
			slog.String("old_rate", oldRate.String()),
		)
		c.onUpdate(newRate)
	}

	return nil
}

// Stop stops the polling
func (c *FxRateClient) Stop() {
	if c.cancel != nil {
		c.cancel()
		c.wg.Wait()
	}
}

// GetRate returns the current exchange rate
func (c *FxRateClient) GetRate() decimal.Decimal {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.rate
}
