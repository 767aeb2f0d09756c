package service

import (
	"github.com/hangerine/coin-trader/internal/domain"

	"github.com/shopspring/decimal"
)

// Infeasibility reasons surfaced to the order-entry layer. These are
// user-visible but never fatal.
const (
	ReasonPriceUnavailable    = "price unavailable"
	ReasonInsufficientBalance = "insufficient balance"
	ReasonInvalidAmount       = "invalid amount"
)

// SizingRequest asks how much of an asset a fiat amount buys (or sells) at
// the current price on the selected exchange.
type SizingRequest struct {
	FiatAmount decimal.Decimal `json:"fiat_amount"`
	Asset      string          `json:"asset"`
	Exchange   string          `json:"exchange"`
	Side       string          `json:"side"` // domain.SideBuy or domain.SideSell
}

// TradeSizingResult is the structured answer: either a feasible quantity or
// an infeasible result with the reason. Infeasibility blocks submission and
// must reach the caller, never be silently zeroed.
type TradeSizingResult struct {
	EstimatedQuantity decimal.Decimal `json:"estimated_quantity"`
	Feasible          bool            `json:"feasible"`
	Reason            string          `json:"reason,omitempty"`
}

func infeasible(reason string) TradeSizingResult {
	return TradeSizingResult{EstimatedQuantity: decimal.Zero, Feasible: false, Reason: reason}
}

// EstimateOrder converts a fiat amount into an estimated asset quantity at
// the given price and, for sell-side orders, validates it against the
// available balance. Pure: submission is the collaborator's job.
func EstimateOrder(req SizingRequest, price decimal.Decimal, balances *domain.BalanceBook) TradeSizingResult {
	if !req.FiatAmount.IsPositive() {
		return infeasible(ReasonInvalidAmount)
	}
	if !price.IsPositive() {
		return infeasible(ReasonPriceUnavailable)
	}

	quantity := req.FiatAmount.Div(price)

	if req.Side == domain.SideSell {
		available := decimal.Zero
		if balances != nil {
			available = balances.Available(req.Asset)
		}
		if quantity.GreaterThan(available) {
			return infeasible(ReasonInsufficientBalance)
		}
	}

	return TradeSizingResult{EstimatedQuantity: quantity, Feasible: true}
}

// SellableAssets lists the assets eligible for the sell-side catalog:
// strictly positive available balance only. Buy-side uses the full catalog;
// this restriction is the display-layer consequence of sizing validation.
func SellableAssets(balances *domain.BalanceBook) []domain.Balance {
	if balances == nil {
		return nil
	}
	return balances.Sellable()
}
