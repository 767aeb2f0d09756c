package paper

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hangerine/coin-trader/internal/domain"

	"github.com/shopspring/decimal"
)

// Venue is a paper-trading stand-in for the order-submission and balance
// collaborators: every order fills immediately at its sizing price and
// balances move accordingly. Real exchange execution plugs in behind the
// same interfaces.
type Venue struct {
	mu       sync.Mutex
	balances *domain.BalanceBook
	orderSeq atomic.Uint64
}

// NewVenue creates a paper venue seeded with a KRW balance.
func NewVenue(initialKRW decimal.Decimal) *Venue {
	book := domain.NewBalanceBook()
	book.Set(domain.Balance{Currency: "KRW", Amount: initialKRW})
	return &Venue{balances: book}
}

// Submit fills the order instantly. Buy debits KRW and credits the asset;
// sell does the reverse. Insufficient funds reject the order, mirroring
// what a real venue would answer.
func (v *Venue) Submit(_ context.Context, order domain.Order) (domain.Fill, error) {
	if !order.Quantity.IsPositive() || !order.Price.IsPositive() {
		return domain.Fill{}, domain.ErrPriceUnavailable
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	switch order.Side {
	case domain.SideBuy:
		if v.balances.Available("KRW").LessThan(order.FiatAmount) {
			return domain.Fill{}, domain.ErrInsufficientBalance
		}
		v.adjust("KRW", order.FiatAmount.Neg())
		v.adjust(order.Symbol, order.Quantity)
	case domain.SideSell:
		if v.balances.Available(order.Symbol).LessThan(order.Quantity) {
			return domain.Fill{}, domain.ErrInsufficientBalance
		}
		v.adjust(order.Symbol, order.Quantity.Neg())
		v.adjust("KRW", order.FiatAmount)
	default:
		return domain.Fill{}, fmt.Errorf("unknown side: %s", order.Side)
	}

	return domain.Fill{
		OrderID:    fmt.Sprintf("PAPER-%d", v.orderSeq.Add(1)),
		Symbol:     order.Symbol,
		Exchange:   order.Exchange,
		Side:       order.Side,
		Price:      order.Price,
		Quantity:   order.Quantity,
		FiatAmount: order.FiatAmount,
		ExecutedAt: time.Now(),
	}, nil
}

// Balances returns a copy of the current balance book.
func (v *Venue) Balances(_ context.Context) (*domain.BalanceBook, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	book := domain.NewBalanceBook()
	for _, b := range v.balances.Snapshot() {
		book.Set(b)
	}
	return book, nil
}

// adjust moves a currency balance by delta. Caller holds the lock.
func (v *Venue) adjust(currency string, delta decimal.Decimal) {
	snap := v.balances.Snapshot()
	b, ok := snap[currency]
	if !ok {
		b = domain.Balance{Currency: currency}
	}
	b.Amount = b.Amount.Add(delta)
	v.balances.Set(b)
}
