package orders

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PricePlaces is the decimal precision grid level prices are submitted at.
const PricePlaces = 2

// GridPlan is an ordered ladder of price levels at uniform spacing. Levels
// strictly below the midpoint index are BUY legs and levels strictly above
// it are SELL legs; the midpoint level itself is never traded.
type GridPlan struct {
	Prices []decimal.Decimal
	Mid    int
}

// DeriveGrid computes count levels lower + i*(upper-lower)/(count-1),
// each rounded to PricePlaces.
func DeriveGrid(lower, upper decimal.Decimal, count int) (GridPlan, error) {
	if count < 2 {
		return GridPlan{}, fmt.Errorf("grid count must be at least 2, got %d", count)
	}
	if lower.GreaterThanOrEqual(upper) {
		return GridPlan{}, fmt.Errorf("grid range invalid: lower %s >= upper %s", lower, upper)
	}

	gap := upper.Sub(lower).Div(decimal.NewFromInt(int64(count - 1)))
	prices := make([]decimal.Decimal, count)
	for i := 0; i < count; i++ {
		prices[i] = lower.Add(gap.Mul(decimal.NewFromInt(int64(i)))).Round(PricePlaces)
	}
	return GridPlan{Prices: prices, Mid: count / 2}, nil
}

// BuyLegs are the levels below the midpoint.
func (p GridPlan) BuyLegs() []decimal.Decimal { return p.Prices[:p.Mid] }

// SellLegs are the levels above the midpoint.
func (p GridPlan) SellLegs() []decimal.Decimal { return p.Prices[p.Mid+1:] }
