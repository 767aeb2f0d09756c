package paper

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hangerine/coin-trader/internal/domain"

	"github.com/shopspring/decimal"
)

func order(side string, fiat, qty, price int64) domain.Order {
	return domain.Order{
		Symbol:     "BTC",
		Exchange:   domain.ExchangeBithumb,
		Side:       side,
		FiatAmount: decimal.NewFromInt(fiat),
		Quantity:   decimal.NewFromInt(qty),
		Price:      decimal.NewFromInt(price),
		CreatedAt:  time.Now(),
	}
}

func TestVenue_BuyMovesBalances(t *testing.T) {
	v := NewVenue(decimal.NewFromInt(1_000_000))
	ctx := context.Background()

	fill, err := v.Submit(ctx, order(domain.SideBuy, 400_000, 4, 100_000))
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if fill.OrderID == "" {
		t.Error("Fill should carry an order id")
	}

	book, _ := v.Balances(ctx)
	if !book.Available("KRW").Equal(decimal.NewFromInt(600_000)) {
		t.Errorf("KRW: expected 600000, got %s", book.Available("KRW"))
	}
	if !book.Available("BTC").Equal(decimal.NewFromInt(4)) {
		t.Errorf("BTC: expected 4, got %s", book.Available("BTC"))
	}
}

func TestVenue_SellMovesBalances(t *testing.T) {
	v := NewVenue(decimal.NewFromInt(1_000_000))
	ctx := context.Background()

	if _, err := v.Submit(ctx, order(domain.SideBuy, 400_000, 4, 100_000)); err != nil {
		t.Fatalf("setup buy failed: %v", err)
	}
	if _, err := v.Submit(ctx, order(domain.SideSell, 200_000, 2, 100_000)); err != nil {
		t.Fatalf("sell failed: %v", err)
	}

	book, _ := v.Balances(ctx)
	if !book.Available("KRW").Equal(decimal.NewFromInt(800_000)) {
		t.Errorf("KRW: expected 800000, got %s", book.Available("KRW"))
	}
	if !book.Available("BTC").Equal(decimal.NewFromInt(2)) {
		t.Errorf("BTC: expected 2, got %s", book.Available("BTC"))
	}
}

func TestVenue_RejectsOverdraft(t *testing.T) {
	v := NewVenue(decimal.NewFromInt(100))
	ctx := context.Background()

	_, err := v.Submit(ctx, order(domain.SideBuy, 400_000, 4, 100_000))
	if !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Errorf("Expected ErrInsufficientBalance, got %v", err)
	}

	_, err = v.Submit(ctx, order(domain.SideSell, 100_000, 1, 100_000))
	if !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Errorf("Expected ErrInsufficientBalance for unheld asset, got %v", err)
	}
}

func TestVenue_RejectsUnpricedOrder(t *testing.T) {
	v := NewVenue(decimal.NewFromInt(1_000_000))

	_, err := v.Submit(context.Background(), order(domain.SideBuy, 400_000, 4, 0))
	if !errors.Is(err, domain.ErrPriceUnavailable) {
		t.Errorf("Expected ErrPriceUnavailable, got %v", err)
	}
}

func TestVenue_BalancesAreACopy(t *testing.T) {
	v := NewVenue(decimal.NewFromInt(1_000_000))
	ctx := context.Background()

	book, _ := v.Balances(ctx)
	book.Set(domain.Balance{Currency: "KRW", Amount: decimal.Zero})

	fresh, _ := v.Balances(ctx)
	if !fresh.Available("KRW").Equal(decimal.NewFromInt(1_000_000)) {
		t.Error("Mutating a returned book leaked into the venue")
	}
}
