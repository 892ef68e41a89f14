package orders

import (
	"github.com/shopspring/decimal"

	"binance-gobot/internal/binance"
)

// Band is the coarse sentiment regime derived from a fear & greed score.
// The thresholds and multipliers below are a fixed step function, not a
// tunable mapping.
type Band int

const (
	BandNeutral Band = iota
	BandFear         // score <= 25, "Extreme Fear"
	BandGreed        // score >= 75, "Extreme Greed"
)

func (b Band) String() string {
	switch b {
	case BandFear:
		return "extreme fear"
	case BandGreed:
		return "extreme greed"
	default:
		return "neutral"
	}
}

// BandFor maps a 0-100 score to its band.
func BandFor(score int) Band {
	switch {
	case score <= 25:
		return BandFear
	case score >= 75:
		return BandGreed
	default:
		return BandNeutral
	}
}

var (
	fearGridLower = decimal.RequireFromString("0.98")
	fearGridUpper = decimal.RequireFromString("1.02")
	fearGridQty   = decimal.RequireFromString("1.2")

	greedGridLower = decimal.RequireFromString("1.01")
	greedGridUpper = decimal.RequireFromString("0.99")
	greedGridQty   = decimal.RequireFromString("0.8")

	fearTWAPBuy  = decimal.RequireFromString("1.25")
	fearTWAPSell = decimal.RequireFromString("0.8")

	greedTWAPBuy  = decimal.RequireFromString("0.7")
	greedTWAPSell = decimal.RequireFromString("1.3")
)

// AdjustGrid applies the sentiment policy to a grid request: extreme fear
// widens the range and buys 20% more per level, extreme greed shifts the
// range up/in and buys 20% less. The middle band changes nothing.
func AdjustGrid(req GridRequest, score int) (GridRequest, Band) {
	switch BandFor(score) {
	case BandFear:
		req.Lower = req.Lower.Mul(fearGridLower)
		req.Upper = req.Upper.Mul(fearGridUpper)
		req.Quantity = req.Quantity.Mul(fearGridQty)
		return req, BandFear
	case BandGreed:
		req.Lower = req.Lower.Mul(greedGridLower)
		req.Upper = req.Upper.Mul(greedGridUpper)
		req.Quantity = req.Quantity.Mul(greedGridQty)
		return req, BandGreed
	default:
		return req, BandNeutral
	}
}

// AdjustTWAPChunk scales a per-slice chunk by the sentiment policy:
// extreme fear buys 25% more and sells 20% less per slice, extreme greed
// buys 30% less and sells 30% more.
func AdjustTWAPChunk(chunk decimal.Decimal, side binance.Side, score int) (decimal.Decimal, Band) {
	switch BandFor(score) {
	case BandFear:
		if side == binance.SideBuy {
			return chunk.Mul(fearTWAPBuy), BandFear
		}
		return chunk.Mul(fearTWAPSell), BandFear
	case BandGreed:
		if side == binance.SideBuy {
			return chunk.Mul(greedTWAPBuy), BandGreed
		}
		return chunk.Mul(greedTWAPSell), BandGreed
	default:
		return chunk, BandNeutral
	}
}
