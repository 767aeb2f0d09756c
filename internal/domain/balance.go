package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Balance is one currency's holdings in the trading account.
type Balance struct {
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
	Reserved decimal.Decimal `json:"reserved"` // locked by open orders
}

// Available returns the spendable balance (total - reserved).
func (b Balance) Available() decimal.Decimal {
	return b.Amount.Sub(b.Reserved)
}

// BalanceBook holds the per-currency balances the sizing calculator
// validates against. Balances arrive from the account collaborator; the
// book only reads them.
type BalanceBook struct {
	balances map[string]Balance
}

// NewBalanceBook creates an empty balance book.
func NewBalanceBook() *BalanceBook {
	return &BalanceBook{balances: make(map[string]Balance)}
}

// Set stores the balance for a currency, replacing any previous record.
func (bb *BalanceBook) Set(b Balance) {
	bb.balances[b.Currency] = b
}

// Available returns the spendable amount of a currency. Unknown currencies
// have zero available balance.
func (bb *BalanceBook) Available(currency string) decimal.Decimal {
	b, ok := bb.balances[currency]
	if !ok {
		return decimal.Zero
	}
	return b.Available()
}

// Sellable returns the currencies with strictly positive available balance,
// sorted for stable display. The sell-side asset list is restricted to these.
func (bb *BalanceBook) Sellable() []Balance {
	result := make([]Balance, 0, len(bb.balances))
	for _, b := range bb.balances {
		if b.Available().IsPositive() {
			result = append(result, b)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Currency < result[j].Currency
	})
	return result
}

// Snapshot returns a copy of all balances keyed by currency.
func (bb *BalanceBook) Snapshot() map[string]Balance {
	result := make(map[string]Balance, len(bb.balances))
	for k, v := range bb.balances {
		result[k] = v
	}
	return result
}
