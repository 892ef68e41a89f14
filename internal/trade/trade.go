// Package trade drives validated order plans against the exchange,
// recording every outcome in the run log. Each variant keeps its own
// failure policy: single orders and TWAP runs stop on the first
// submission failure, grid and OCO legs are best-effort.
package trade

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"binance-gobot/internal/binance"
	"binance-gobot/internal/botlog"
	"binance-gobot/internal/orders"
)

// Gateway is the write-side exchange surface plus the per-slice price
// read TWAP needs.
type Gateway interface {
	NewOrder(ctx context.Context, p binance.NewOrderParams) (binance.OrderAck, error)
	TickerPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
}

type Trader struct {
	gw  Gateway
	log *botlog.Writer
	dry bool
}

func New(gw Gateway, logw *botlog.Writer, dry bool) *Trader {
	return &Trader{gw: gw, log: logw, dry: dry}
}

func (t *Trader) mode() string {
	if t.dry {
		return "dry"
	}
	return "live"
}

// submit places one order (or skips it in dry mode) and logs the outcome.
func (t *Trader) submit(ctx context.Context, p binance.NewOrderParams) (binance.OrderAck, error) {
	p.ClientOrderID = uuid.NewString()

	ev := botlog.Event{
		Event:         "order",
		Mode:          t.mode(),
		Symbol:        p.Symbol,
		Side:          string(p.Side),
		OrderType:     string(p.Type),
		Quantity:      p.Quantity.String(),
		ClientOrderID: p.ClientOrderID,
	}
	if p.Price.IsPositive() {
		ev.Price = p.Price.String()
	}
	if p.StopPrice.IsPositive() {
		ev.StopPrice = p.StopPrice.String()
	}

	if t.dry {
		ev.Ok = true
		ev.Reason = "dry run, order not sent"
		t.log.Log(ev)
		return binance.OrderAck{ClientOrderID: p.ClientOrderID, Status: "DRY"}, nil
	}

	ack, err := t.gw.NewOrder(ctx, p)
	if err != nil {
		ev.Err = err.Error()
		t.log.Log(ev)
		return binance.OrderAck{}, err
	}
	ev.Ok = true
	ev.Resp = map[string]any{
		"orderId": ack.OrderID,
		"status":  ack.Status,
		"origQty": ack.OrigQty,
	}
	t.log.Log(ev)
	return ack, nil
}

// PlaceMarket submits one market order. Failure is fatal to the run.
func (t *Trader) PlaceMarket(ctx context.Context, req orders.MarketRequest) error {
	_, err := t.submit(ctx, binance.NewOrderParams{
		Symbol:   req.Symbol,
		Side:     req.Side,
		Type:     binance.OrderTypeMarket,
		Quantity: req.Quantity,
	})
	if err == nil {
		log.Printf("market %s order placed for %s %s", req.Side, req.Quantity, req.Symbol)
	}
	return err
}

// PlaceLimit submits one GTC limit order. Failure is fatal to the run.
func (t *Trader) PlaceLimit(ctx context.Context, req orders.LimitRequest) error {
	_, err := t.submit(ctx, binance.NewOrderParams{
		Symbol:      req.Symbol,
		Side:        req.Side,
		Type:        binance.OrderTypeLimit,
		TimeInForce: binance.TimeInForceGTC,
		Quantity:    req.Quantity,
		Price:       req.Price,
	})
	if err == nil {
		log.Printf("limit %s order placed for %s %s at %s", req.Side, req.Quantity, req.Symbol, req.Price)
	}
	return err
}

// PlaceStopLimit submits one GTC stop order. Failure is fatal to the run.
func (t *Trader) PlaceStopLimit(ctx context.Context, req orders.StopLimitRequest) error {
	_, err := t.submit(ctx, binance.NewOrderParams{
		Symbol:      req.Symbol,
		Side:        req.Side,
		Type:        binance.OrderTypeStop,
		TimeInForce: binance.TimeInForceGTC,
		Quantity:    req.Quantity,
		Price:       req.LimitPrice,
		StopPrice:   req.StopPrice,
	})
	if err == nil {
		log.Printf("stop-limit %s order placed for %s %s (stop %s, limit %s)",
			req.Side, req.Quantity, req.Symbol, req.StopPrice, req.LimitPrice)
	}
	return err
}

// OCOResult reports both leg outcomes of an OCO submission.
type OCOResult struct {
	TakeProfitErr error
	StopLossErr   error
}

// AllFailed reports whether neither leg was placed.
func (r OCOResult) AllFailed() bool {
	return r.TakeProfitErr != nil && r.StopLossErr != nil
}

// PlaceOCO submits the take-profit limit leg and the stop-loss stop leg
// independently. A leg failure never skips the sibling leg; there is no
// cancellation linkage between the two once placed.
func (t *Trader) PlaceOCO(ctx context.Context, req orders.OCORequest) OCOResult {
	var res OCOResult

	if _, err := t.submit(ctx, binance.NewOrderParams{
		Symbol:      req.Symbol,
		Side:        req.Side,
		Type:        binance.OrderTypeLimit,
		TimeInForce: binance.TimeInForceGTC,
		Quantity:    req.Quantity,
		Price:       req.TakeProfit,
	}); err != nil {
		res.TakeProfitErr = err
		log.Printf("[warn] take-profit leg failed: %v", err)
	} else {
		log.Printf("take-profit %s limit placed at %s", req.Side, req.TakeProfit)
	}

	if _, err := t.submit(ctx, binance.NewOrderParams{
		Symbol:      req.Symbol,
		Side:        req.Side,
		Type:        binance.OrderTypeStop,
		TimeInForce: binance.TimeInForceGTC,
		Quantity:    req.Quantity,
		Price:       req.StopLoss,
		StopPrice:   req.StopLoss,
	}); err != nil {
		res.StopLossErr = err
		log.Printf("[warn] stop-loss leg failed: %v", err)
	} else {
		log.Printf("stop-loss %s stop placed at %s", req.Side, req.StopLoss)
	}

	return res
}

// GridResult summarizes a best-effort ladder sweep.
type GridResult struct {
	Placed int
	Failed int
}

// RunGrid places one GTC limit order per ladder leg, BUY legs below the
// midpoint then SELL legs above it. A failed leg is logged and the sweep
// continues; there is no rollback across the ladder.
func (t *Trader) RunGrid(ctx context.Context, symbol string, qty decimal.Decimal, plan orders.GridPlan) GridResult {
	var res GridResult

	place := func(side binance.Side, i int, price decimal.Decimal) {
		_, err := t.submit(ctx, binance.NewOrderParams{
			Symbol:      symbol,
			Side:        side,
			Type:        binance.OrderTypeLimit,
			TimeInForce: binance.TimeInForceGTC,
			Quantity:    qty,
			Price:       price,
		})
		if err != nil {
			res.Failed++
			log.Printf("[warn] failed to place %s order at %s: %v", side, price, err)
			return
		}
		res.Placed++
		log.Printf("%s limit [%d] at %s for %s %s", side, i+1, price, qty, symbol)
	}

	for i, price := range plan.BuyLegs() {
		place(binance.SideBuy, i, price)
	}
	for i, price := range plan.SellLegs() {
		place(binance.SideSell, i, price)
	}
	return res
}

// RunTWAP executes req.SliceCount market orders of chunk quantity,
// waiting req.Interval between slices. A slice whose price read fails is
// skipped (consumed, not retried, no wait); the first submission failure
// aborts the remaining slices.
func (t *Trader) RunTWAP(ctx context.Context, req orders.TWAPRequest, chunk decimal.Decimal) error {
	qty := orders.SubmitQty(chunk)

	for i := 1; i <= req.SliceCount; i++ {
		price, err := t.gw.TickerPrice(ctx, req.Symbol)
		if err != nil {
			log.Printf("[warn] price unavailable, skipping slice %d/%d: %v", i, req.SliceCount, err)
			t.log.Log(botlog.Event{
				Event:  "twap_slice_skipped",
				Mode:   t.mode(),
				Symbol: req.Symbol,
				Side:   string(req.Side),
				Slice:  i, SliceCount: req.SliceCount,
				Err: err.Error(),
			})
			continue
		}

		if _, err := t.submit(ctx, binance.NewOrderParams{
			Symbol:   req.Symbol,
			Side:     req.Side,
			Type:     binance.OrderTypeMarket,
			Quantity: qty,
		}); err != nil {
			log.Printf("[warn] failed at slice %d/%d: %v", i, req.SliceCount, err)
			return err
		}
		log.Printf("[%d/%d] %s %s %s at ~%s USDT", i, req.SliceCount, req.Side, qty, req.Symbol, price.StringFixed(2))

		if i < req.SliceCount {
			if err := sleepCtx(ctx, req.Interval); err != nil {
				return err
			}
		}
	}
	return nil
}

// sleepCtx waits d, returning early with the context error when the run
// is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
