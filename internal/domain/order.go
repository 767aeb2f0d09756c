package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Order is a sized trade request handed to the submission collaborator.
// Quantities are already validated by the sizing calculator.
type Order struct {
	Symbol     string          `json:"symbol"`
	Exchange   string          `json:"exchange"`
	Side       string          `json:"side"` // "BUY", "SELL"
	FiatAmount decimal.Decimal `json:"fiat_amount"`
	Quantity   decimal.Decimal `json:"quantity"`
	Price      decimal.Decimal `json:"price"` // price used for sizing
	CreatedAt  time.Time       `json:"created_at"`
}

const (
	SideBuy  = "BUY"
	SideSell = "SELL"
)

// Fill is the submission collaborator's answer to an order.
type Fill struct {
	OrderID    string          `json:"order_id"`
	Symbol     string          `json:"symbol"`
	Exchange   string          `json:"exchange"`
	Side       string          `json:"side"`
	Price      decimal.Decimal `json:"price"`
	Quantity   decimal.Decimal `json:"quantity"`
	FiatAmount decimal.Decimal `json:"fiat_amount"`
	ExecutedAt time.Time       `json:"executed_at"`
}

// OrderSubmitter executes sized orders against an exchange. Execution
// semantics live entirely behind this boundary; the core only estimates.
type OrderSubmitter interface {
	Submit(ctx context.Context, order Order) (Fill, error)
}

// BalanceProvider supplies the account balances used for sell-side
// validation. Backed by the exchange account collaborator.
type BalanceProvider interface {
	Balances(ctx context.Context) (*BalanceBook, error)
}
