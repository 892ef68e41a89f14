package orders

import "github.com/shopspring/decimal"

// QtyPlaces is the decimal precision market-order quantities are
// submitted at.
const QtyPlaces = 6

// SubmitQty rounds a chunk quantity to the submission precision.
func SubmitQty(q decimal.Decimal) decimal.Decimal {
	return q.Round(QtyPlaces)
}
