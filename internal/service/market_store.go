package service

import (
	"sort"
	"sync"

	"github.com/hangerine/coin-trader/internal/domain"

	"github.com/shopspring/decimal"
)

// MarketStore owns every asset's tick series. It is the only writer; all
// other components read copies. Each asset's series is independent, so there
// is no cross-asset coordination beyond the store lock.
type MarketStore struct {
	mu     sync.RWMutex
	series map[string]domain.Series
}

// NewMarketStore creates an empty MarketStore.
func NewMarketStore() *MarketStore {
	return &MarketStore{
		series: make(map[string]domain.Series),
	}
}

// Appended reports one tick accepted by Ingest.
type Appended struct {
	Symbol string
	Tick   domain.Tick
	Length int // series length after the append
}

// Ingest normalizes one raw snapshot into per-asset ticks. Per asset: a
// non-positive primary price skips the asset for this cycle (expected when a
// venue has no quote, never an error), and a timestamp that does not advance
// past the stored series skips it too, so re-ingesting the same snapshot
// appends nothing. Cross-exchange entries with non-positive prices are
// dropped rather than stored as zero. Results are sorted by symbol so
// downstream processing is deterministic.
func (s *MarketStore) Ingest(snap domain.MarketSnapshot) []Appended {
	s.mu.Lock()
	defer s.mu.Unlock()

	var appended []Appended
	for symbol, quote := range snap.Assets {
		if !quote.Primary.IsPositive() {
			continue
		}
		series := s.series[symbol]
		if last, ok := series.Last(); ok && snap.Timestamp <= last.Timestamp {
			continue
		}

		tick := domain.Tick{
			Timestamp: snap.Timestamp,
			Value:     quote.Primary,
			FxRate:    snap.FxRate,
		}
		for exchange, price := range quote.CrossPrices {
			if !price.IsPositive() {
				continue
			}
			if tick.CrossPrices == nil {
				tick.CrossPrices = make(map[string]decimal.Decimal, len(quote.CrossPrices))
			}
			tick.CrossPrices[exchange] = price
		}

		s.series[symbol] = append(series, tick)
		appended = append(appended, Appended{
			Symbol: symbol,
			Tick:   tick,
			Length: len(s.series[symbol]),
		})
	}

	sort.Slice(appended, func(i, j int) bool {
		return appended[i].Symbol < appended[j].Symbol
	})
	return appended
}

// Len returns the series length for a symbol.
func (s *MarketStore) Len(symbol string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.series[symbol])
}

// Slice returns a copy of series[start..end] (inclusive), clamped to the
// series bounds. Empty outside them.
func (s *MarketStore) Slice(symbol string, start, end int) []domain.Tick {
	s.mu.RLock()
	defer s.mu.RUnlock()

	series := s.series[symbol]
	if start < 0 {
		start = 0
	}
	if end >= len(series) {
		end = len(series) - 1
	}
	if start > end {
		return nil
	}
	out := make([]domain.Tick, end-start+1)
	copy(out, series[start:end+1])
	return out
}

// Last returns the most recent tick for a symbol.
func (s *MarketStore) Last(symbol string) (domain.Tick, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.series[symbol].Last()
}

// PriceOn returns the latest price of an asset on the given exchange, in
// that exchange's native quote currency. Zero when the venue has not
// reported, which the sizing calculator treats as price unavailable.
func (s *MarketStore) PriceOn(symbol, exchange string) decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	last, ok := s.series[symbol].Last()
	if !ok {
		return decimal.Zero
	}
	if exchange == "" || exchange == domain.ExchangeBithumb {
		return last.Value
	}
	return last.CrossPrices[exchange]
}

// Symbols returns all tracked symbols sorted for consistent ordering.
func (s *MarketStore) Symbols() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]string, 0, len(s.series))
	for symbol := range s.series {
		result = append(result, symbol)
	}
	sort.Strings(result)
	return result
}

// Remove drops an asset's series. Used when the asset is taken off the
// dashboard.
func (s *MarketStore) Remove(symbol string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.series, symbol)
}
