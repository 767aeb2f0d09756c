package domain

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// PercentChange returns the relative change from first to last in percent.
// A non-positive first value yields zero: the change is undefined without a
// valid starting price, and a degenerate result beats a division by zero.
func PercentChange(first, last decimal.Decimal) decimal.Decimal {
	if !first.IsPositive() {
		return decimal.Zero
	}
	return last.Sub(first).Div(first).Mul(hundred)
}

// PercentChangeInWindow computes the percent change across the visible window
// of a series: first visible value vs last visible value.
func PercentChangeInWindow(points []Tick) decimal.Decimal {
	if len(points) == 0 {
		return decimal.Zero
	}
	return PercentChange(points[0].Value, points[len(points)-1].Value)
}

// Premium returns the percentage by which the local (KRW) price exceeds the
// foreign price after conversion: 100 * (local - foreign*fx) / (foreign*fx).
// Zero if the converted foreign price is not positive, since there is no
// reference price to compare against.
func Premium(local, foreign, fxRate decimal.Decimal) decimal.Decimal {
	converted := foreign.Mul(fxRate)
	if !converted.IsPositive() {
		return decimal.Zero
	}
	return local.Sub(converted).Div(converted).Mul(hundred)
}

// DerivedMetrics is recomputed from series + window + latest tick on every
// mutating event. It is never persisted.
type DerivedMetrics struct {
	PercentChange decimal.Decimal            `json:"percent_change"`
	Premiums      map[string]decimal.Decimal `json:"premiums,omitempty"`
}

// ComputeMetrics derives the window percent change and the premium of the
// primary venue over each cross venue present in the latest tick.
func ComputeMetrics(points []Tick, latest Tick) DerivedMetrics {
	m := DerivedMetrics{PercentChange: PercentChangeInWindow(points)}
	if len(latest.CrossPrices) == 0 {
		return m
	}
	m.Premiums = make(map[string]decimal.Decimal, len(latest.CrossPrices))
	for exchange, foreign := range latest.CrossPrices {
		m.Premiums[exchange] = Premium(latest.Value, foreign, latest.FxRate)
	}
	return m
}
