package orders

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"binance-gobot/internal/binance"
)

// ParseSide normalizes s to BUY or SELL, case-insensitively.
func ParseSide(s string) (binance.Side, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(binance.SideBuy):
		return binance.SideBuy, true
	case string(binance.SideSell):
		return binance.SideSell, true
	}
	return "", false
}

type MarketRequest struct {
	Symbol   string
	Side     binance.Side
	Quantity decimal.Decimal
}

type LimitRequest struct {
	Symbol   string
	Side     binance.Side
	Quantity decimal.Decimal
	Price    decimal.Decimal
}

type StopLimitRequest struct {
	Symbol     string
	Side       binance.Side
	Quantity   decimal.Decimal
	StopPrice  decimal.Decimal
	LimitPrice decimal.Decimal
}

// OCORequest is a take-profit limit leg plus a stop-loss stop leg sharing
// symbol, side, and quantity. The two legs are submitted independently;
// nothing cancels the sibling when one fills.
type OCORequest struct {
	Symbol     string
	Side       binance.Side
	Quantity   decimal.Decimal
	TakeProfit decimal.Decimal
	StopLoss   decimal.Decimal
}

type GridRequest struct {
	Symbol    string
	Lower     decimal.Decimal
	Upper     decimal.Decimal
	GridCount int
	Quantity  decimal.Decimal
}

type TWAPRequest struct {
	Symbol     string
	Side       binance.Side
	TotalQty   decimal.Decimal
	SliceCount int
	Interval   time.Duration
}

/// ChunkQty is the per-slice base quantity: TotalQty split evenly with no
// remainder redistribution.
func (r TWAPRequest) ChunkQty() decimal.Decimal {
	return r.TotalQty.Div(decimal.NewFromInt(int64(r.SliceCount)))
}

const (
	MarketUsage    = "market <symbol> <BUY/SELL> <quantity>"
	LimitUsage     = "limit <symbol> <BUY/SELL> <quantity> <price>"
	StopLimitUsage = "stoplimit <symbol> <BUY/SELL> <quantity> <stopPrice> <limitPrice>"
	OCOUsage       = "oco <symbol> <BUY/SELL> <quantity> <takeProfitPrice> <stopLossPrice>"
	GridUsage      = "grid <symbol> <lowerPrice> <upperPrice> <numGrids> <quantity>"
	TWAPUsage      = "twap <symbol> <BUY/SELL> <totalQty> <numSlices> <intervalSeconds>"
)

func parseDecimalArg(usage, name, raw string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Decimal{}, usageErr(usage, "%s must be a number, got %q", name, raw)
	}
	return v, nil
}

func parsePositiveDecimalArg(usage, name, raw string) (decimal.Decimal, error) {
	v, err := parseDecimalArg(usage, name, raw)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if !v.IsPositive() {
		return decimal.Decimal{}, usageErr(usage, "%s must be greater than 0", name)
	}
	return v, nil
}

func parseIntArg(usage, name, raw string, min int) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, usageErr(usage, "%s must be an integer, got %q", name, raw)
	}
	if v < min {
		return 0, usageErr(usage, "%s must be at least %d", name, min)
	}
	return v, nil
}

func parseSideArg(usage, raw string) (binance.Side, error) {
	side, ok := ParseSide(raw)
	if !ok {
		return "", usageErr(usage, "invalid side %q: use BUY or SELL", raw)
	}
	return side, nil
}

func normalizeSymbol(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// ParseMarketArgs builds a MarketRequest from positional args
// <symbol> <BUY/SELL> <quantity>.
func ParseMarketArgs(args []string) (MarketRequest, error) {
	if len(args) != 3 {
		return MarketRequest{}, &UsageError{Usage: MarketUsage}
	}
	side, err := parseSideArg(MarketUsage, args[1])
	if err != nil {
		return MarketRequest{}, err
	}
	qty, err := parsePositiveDecimalArg(MarketUsage, "quantity", args[2])
	if err != nil {
		return MarketRequest{}, err
	}
	return MarketRequest{Symbol: normalizeSymbol(args[0]), Side: side, Quantity: qty}, nil
}

// ParseLimitArgs builds a LimitRequest from positional args
// <symbol> <BUY/SELL> <quantity> <price>.
func ParseLimitArgs(args []string) (LimitRequest, error) {
	if len(args) != 4 {
		return LimitRequest{}, &UsageError{Usage: LimitUsage}
	}
	side, err := parseSideArg(LimitUsage, args[1])
	if err != nil {
		return LimitRequest{}, err
	}
	qty, err := parsePositiveDecimalArg(LimitUsage, "quantity", args[2])
	if err != nil {
		return LimitRequest{}, err
	}
	price, err := parsePositiveDecimalArg(LimitUsage, "price", args[3])
	if err != nil {
		return LimitRequest{}, err
	}
	return LimitRequest{Symbol: normalizeSymbol(args[0]), Side: side, Quantity: qty, Price: price}, nil
}

// ParseStopLimitArgs builds a StopLimitRequest from positional args
// <symbol> <BUY/SELL> <quantity> <stopPrice> <limitPrice>.
func ParseStopLimitArgs(args []string) (StopLimitRequest, error) {
	if len(args) != 5 {
		return StopLimitRequest{}, &UsageError{Usage: StopLimitUsage}
	}
	side, err := parseSideArg(StopLimitUsage, args[1])
	if err != nil {
		return StopLimitRequest{}, err
	}
	qty, err := parsePositiveDecimalArg(StopLimitUsage, "quantity", args[2])
	if err != nil {
		return StopLimitRequest{}, err
	}
	stop, err := parsePositiveDecimalArg(StopLimitUsage, "stopPrice", args[3])
	if err != nil {
		return StopLimitRequest{}, err
	}
	limit, err := parsePositiveDecimalArg(StopLimitUsage, "limitPrice", args[4])
	if err != nil {
		return StopLimitRequest{}, err
	}
	return StopLimitRequest{
		Symbol:     normalizeSymbol(args[0]),
		Side:       side,
		Quantity:   qty,
		StopPrice:  stop,
		LimitPrice: limit,
	}, nil
}

// ParseOCOArgs builds an OCORequest from positional args
// <symbol> <BUY/SELL> <quantity> <takeProfitPrice> <stopLossPrice>.
func ParseOCOArgs(args []string) (OCORequest, error) {
	if len(args) != 5 {
		return OCORequest{}, &UsageError{Usage: OCOUsage}
	}
	side, err := parseSideArg(OCOUsage, args[1])
	if err != nil {
		return OCORequest{}, err
	}
	qty, err := parsePositiveDecimalArg(OCOUsage, "quantity", args[2])
	if err != nil {
		return OCORequest{}, err
	}
	tp, err := parsePositiveDecimalArg(OCOUsage, "takeProfitPrice", args[3])
	if err != nil {
		return OCORequest{}, err
	}
	sl, err := parsePositiveDecimalArg(OCOUsage, "stopLossPrice", args[4])
	if err != nil {
		return OCORequest{}, err
	}
	return OCORequest{
		Symbol:     normalizeSymbol(args[0]),
		Side:       side,
		Quantity:   qty,
		TakeProfit: tp,
		StopLoss:   sl,
	}, nil
}

// ParseGridArgs builds a GridRequest from positional args
// <symbol> <lowerPrice> <upperPrice> <numGrids> <quantity>.
func ParseGridArgs(args []string) (GridRequest, error) {
	if len(args) != 5 {
		return GridRequest{}, &UsageError{Usage: GridUsage}
	}
	lower, err := parsePositiveDecimalArg(GridUsage, "lowerPrice", args[1])
	if err != nil {
		return GridRequest{}, err
	}
	upper, err := parsePositiveDecimalArg(GridUsage, "upperPrice", args[2])
	if err != nil {
		return GridRequest{}, err
	}
	count, err := parseIntArg(GridUsage, "numGrids", args[3], 2)
	if err != nil {
		return GridRequest{}, err
	}
	qty, err := parsePositiveDecimalArg(GridUsage, "quantity", args[4])
	if err != nil {
		return GridRequest{}, err
	}
	return GridRequest{
		Symbol:    normalizeSymbol(args[0]),
		Lower:     lower,
		Upper:     upper,
		GridCount: count,
		Quantity:  qty,
	}, nil
}

// ParseTWAPArgs builds a TWAPRequest from positional args
// <symbol> <BUY/SELL> <totalQty> <numSlices> <intervalSeconds>.
func ParseTWAPArgs(args []string) (TWAPRequest, error) {
	if len(args) != 5 {
		return TWAPRequest{}, &UsageError{Usage: TWAPUsage}
	}
	side, err := parseSideArg(TWAPUsage, args[1])
	if err != nil {
		return TWAPRequest{}, err
	}
	total, err := parsePositiveDecimalArg(TWAPUsage, "totalQty", args[2])
	if err != nil {
		return TWAPRequest{}, err
	}
	slices, err := parseIntArg(TWAPUsage, "numSlices", args[3], 1)
	if err != nil {
		return TWAPRequest{}, err
	}
	intervalS, err := parseIntArg(TWAPUsage, "intervalSeconds", args[4], 1)
	if err != nil {
		return TWAPRequest{}, err
	}
	return TWAPRequest{
		Symbol:     normalizeSymbol(args[0]),
		Side:       side,
		TotalQty:   total,
		SliceCount: slices,
		Interval:   time.Duration(intervalS) * time.Second,
	}, nil
}
