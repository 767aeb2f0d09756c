package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// ExchangeRateProvider defines the interface for currency exchange rate sources
type ExchangeRateProvider interface {
	Start(ctx context.Context) error
	GetRate() decimal.Decimal
}

// TickRepository defines how normalized ticks are persisted for history
// queries. The in-memory series never reads back from it.
type TickRepository interface {
	SaveTick(symbol string, tick Tick) error
	RecentTicks(symbol string, limit int) ([]TickLog, error)
}
