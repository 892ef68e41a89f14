package orders

import (
	"github.com/shopspring/decimal"
)

// Semantic validation. Checks run in a fixed order with the first failure
// winning: symbol, variant range rules, notional floor, then
// price-ordering against the current market price. Checks that need the
// market price are skipped with a warning when the price lookup degraded.
//
// The returned warnings describe any skipped checks; the error, when
// non-nil, is a *Rejection.

func checkSymbol(req string, snap Snapshot) error {
	if snap.SymbolKnown.Degraded {
		// Symbol verification fails open.
		return nil
	}
	if !snap.SymbolKnown.Value {
		return reject(RejectUnknownSymbol, "invalid trading symbol: %s", req)
	}
	return nil
}

// checkNotionalAt enforces price*qty >= minNotional for a known execution
// price. The boundary (== minNotional) passes.
func checkNotionalAt(price, qty decimal.Decimal, snap Snapshot, what string) error {
	notional := price.Mul(qty)
	if notional.LessThan(snap.MinNotional.Value) {
		return reject(RejectBelowNotional,
			"%s notional (%s USDT) is below the minimum required (%s USDT)",
			what, notional.StringFixed(2), snap.MinNotional.Value.StringFixed(2))
	}
	return nil
}

// checkNotionalAtMarket is checkNotionalAt using the market price, skipped
// with a warning when the price is unavailable.
func checkNotionalAtMarket(qty decimal.Decimal, snap Snapshot, what string) (string, error) {
	if !snap.PriceAvailable() {
		return "could not verify notional value (price unavailable), proceed with caution", nil
	}
	return "", checkNotionalAt(snap.Price.Value, qty, snap, what)
}

const priceCheckSkipped = "could not verify price ordering (price unavailable)"

// ValidateMarket checks a market order request against the snapshot.
func ValidateMarket(req MarketRequest, snap Snapshot) ([]string, error) {
	if err := checkSymbol(req.Symbol, snap); err != nil {
		return nil, err
	}
	warn, err := checkNotionalAtMarket(req.Quantity, snap, "order")
	if err != nil {
		return nil, err
	}
	var warnings []string
	if warn != "" {
		warnings = append(warnings, warn)
	}
	return warnings, nil
}

// ValidateLimit checks a limit order request. The notional check uses the
// limit price (the order's fixed execution price), so it runs even when
// the market price is unavailable.
func ValidateLimit(req LimitRequest, snap Snapshot) ([]string, error) {
	if err := checkSymbol(req.Symbol, snap); err != nil {
		return nil, err
	}
	if err := checkNotionalAt(req.Price, req.Quantity, snap, "order"); err != nil {
		return nil, err
	}
	if !snap.PriceAvailable() {
		return []string{priceCheckSkipped}, nil
	}
	cur := snap.Price.Value
	switch req.Side {
	case "BUY":
		if req.Price.GreaterThanOrEqual(cur) {
			return nil, reject(RejectPriceOrdering,
				"for BUY orders, limit price must be BELOW current market price (%s)", cur.StringFixed(2))
		}
	case "SELL":
		if req.Price.LessThanOrEqual(cur) {
			return nil, reject(RejectPriceOrdering,
				"for SELL orders, limit price must be ABOVE current market price (%s)", cur.StringFixed(2))
		}
	}
	return nil, nil
}

// ValidateStopLimit checks a stop-limit request: notional against the
// limit price, then stop/limit ordering relative to the market price.
func ValidateStopLimit(req StopLimitRequest, snap Snapshot) ([]string, error) {
	if err := checkSymbol(req.Symbol, snap); err != nil {
		return nil, err
	}
	if err := checkNotionalAt(req.LimitPrice, req.Quantity, snap, "order"); err != nil {
		return nil, err
	}
	if !snap.PriceAvailable() {
		return []string{priceCheckSkipped}, nil
	}
	cur := snap.Price.Value
	switch req.Side {
	case "BUY":
		if req.StopPrice.LessThanOrEqual(cur) {
			return nil, reject(RejectPriceOrdering,
				"for BUY stop-limit, stop price must be ABOVE current market price (%s)", cur.StringFixed(2))
		}
		if req.LimitPrice.LessThan(req.StopPrice) {
			return nil, reject(RejectPriceOrdering, "for BUY stop-limit, limit price must be >= stop price")
		}
	case "SELL":
		if req.StopPrice.GreaterThanOrEqual(cur) {
			return nil, reject(RejectPriceOrdering,
				"for SELL stop-limit, stop price must be BELOW current market price (%s)", cur.StringFixed(2))
		}
		if req.LimitPrice.GreaterThan(req.StopPrice) {
			return nil, reject(RejectPriceOrdering, "for SELL stop-limit, limit price must be <= stop price")
		}
	}
	return nil, nil
}

// ValidateOCO checks an OCO request. The inequality direction per side is
// kept exactly as observed in the source scripts (BUY expects
// takeProfit < current < stopLoss, SELL the reverse) even though it reads
// inverted relative to conventional take-profit/stop-loss naming.
func ValidateOCO(req OCORequest, snap Snapshot) ([]string, error) {
	if err := checkSymbol(req.Symbol, snap); err != nil {
		return nil, err
	}
	warn, err := checkNotionalAtMarket(req.Quantity, snap, "order")
	if err != nil {
		return nil, err
	}
	if !snap.PriceAvailable() {
		return []string{warn, priceCheckSkipped}, nil
	}
	cur := snap.Price.Value
	switch req.Side {
	case "BUY":
		if !(req.TakeProfit.LessThan(cur) && cur.LessThan(req.StopLoss)) {
			return nil, reject(RejectPriceOrdering,
				"for BUY OCO, expected takeProfit < %s < stopLoss", cur.StringFixed(2))
		}
	case "SELL":
		if !(req.TakeProfit.GreaterThan(cur) && cur.GreaterThan(req.StopLoss)) {
			return nil, reject(RejectPriceOrdering,
				"for SELL OCO, expected takeProfit > %s > stopLoss", cur.StringFixed(2))
		}
	}
	return nil, nil
}

// ValidateGrid checks the ladder range and the per-level notional.
func ValidateGrid(req GridRequest, snap Snapshot) ([]string, error) {
	if err := checkSymbol(req.Symbol, snap); err != nil {
		return nil, err
	}
	if req.Lower.GreaterThanOrEqual(req.Upper) {
		return nil, reject(RejectBadRange, "invalid price range: lower price must be < upper price")
	}
	warn, err := checkNotionalAtMarket(req.Quantity, snap, "per-level order")
	if err != nil {
		return nil, err
	}
	var warnings []string
	if warn != "" {
		warnings = append(warnings, warn)
	}
	return warnings, nil
}

// ValidateTWAP checks the per-chunk notional against the market price.
func ValidateTWAP(req TWAPRequest, snap Snapshot) ([]string, error) {
	if err := checkSymbol(req.Symbol, snap); err != nil {
		return nil, err
	}
	warn, err := checkNotionalAtMarket(req.ChunkQty(), snap, "each chunk")
	if err != nil {
		return nil, err
	}
	var warnings []string
	if warn != "" {
		warnings = append(warnings, warn)
	}
	return warnings, nil
}
