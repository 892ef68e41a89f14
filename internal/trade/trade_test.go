package trade

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"binance-gobot/internal/binance"
	"binance-gobot/internal/orders"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fakeGateway struct {
	placed   []binance.NewOrderParams
	failWhen func(p binance.NewOrderParams) error

	price    decimal.Decimal
	priceErr []error // one per TickerPrice call, nil entries succeed
	calls    int
}

func (g *fakeGateway) NewOrder(_ context.Context, p binance.NewOrderParams) (binance.OrderAck, error) {
	if g.failWhen != nil {
		if err := g.failWhen(p); err != nil {
			return binance.OrderAck{}, err
		}
	}
	g.placed = append(g.placed, p)
	return binance.OrderAck{OrderID: int64(len(g.placed)), Status: "NEW", ClientOrderID: p.ClientOrderID}, nil
}

func (g *fakeGateway) TickerPrice(context.Context, string) (decimal.Decimal, error) {
	g.calls++
	if g.calls <= len(g.priceErr) {
		if err := g.priceErr[g.calls-1]; err != nil {
			return decimal.Decimal{}, err
		}
	}
	return g.price, nil
}

func TestRunGrid_BestEffortContinuesPastFailures(t *testing.T) {
	gw := &fakeGateway{
		failWhen: func(p binance.NewOrderParams) error {
			if p.Price.Equal(d("90250")) {
				return fmt.Errorf("boom")
			}
			return nil
		},
	}
	plan, err := orders.DeriveGrid(d("90000"), d("91000"), 5)
	if err != nil {
		t.Fatalf("DeriveGrid: %v", err)
	}

	tr := New(gw, nil, false)
	res := tr.RunGrid(context.Background(), "BTCUSDT", d("0.01"), plan)

	if res.Placed != 3 || res.Failed != 1 {
		t.Fatalf("result=%+v want 3 placed, 1 failed", res)
	}
	// BUY legs below the midpoint, SELL legs above; 90500 never submitted.
	wantSides := []binance.Side{binance.SideBuy, binance.SideSell, binance.SideSell}
	wantPrices := []string{"90000", "90750", "91000"}
	for i, p := range gw.placed {
		if p.Side != wantSides[i] || !p.Price.Equal(d(wantPrices[i])) {
			t.Fatalf("placed[%d]=%s@%s want %s@%s", i, p.Side, p.Price, wantSides[i], wantPrices[i])
		}
		if p.Type != binance.OrderTypeLimit || p.TimeInForce != binance.TimeInForceGTC {
			t.Fatalf("placed[%d] type=%s tif=%s", i, p.Type, p.TimeInForce)
		}
	}
}

func twapReq(slices int) orders.TWAPRequest {
	return orders.TWAPRequest{
		Symbol:     "BTCUSDT",
		Side:       binance.SideBuy,
		TotalQty:   d("1"),
		SliceCount: slices,
		Interval:   time.Millisecond,
	}
}

func TestRunTWAP_AbortsOnSubmissionFailure(t *testing.T) {
	gw := &fakeGateway{price: d("90000")}
	gw.failWhen = func(binance.NewOrderParams) error {
		if len(gw.placed) >= 2 {
			return fmt.Errorf("margin insufficient")
		}
		return nil
	}

	tr := New(gw, nil, false)
	err := tr.RunTWAP(context.Background(), twapReq(5), d("0.2"))
	if err == nil {
		t.Fatalf("expected run to abort")
	}
	if len(gw.placed) != 2 {
		t.Fatalf("placed %d slices, want 2 before abort", len(gw.placed))
	}
	if gw.calls != 3 {
		t.Fatalf("ticker calls = %d, want 3 (none after abort)", gw.calls)
	}
}

func TestRunTWAP_SkipsSliceWhenPriceUnavailable(t *testing.T) {
	gw := &fakeGateway{
		price:    d("90000"),
		priceErr: []error{nil, fmt.Errorf("ticker down"), nil},
	}

	tr := New(gw, nil, false)
	if err := tr.RunTWAP(context.Background(), twapReq(3), d("0.333333")); err != nil {
		t.Fatalf("RunTWAP: %v", err)
	}
	// The failed slice is consumed, not retried: 3 price reads, 2 orders.
	if gw.calls != 3 {
		t.Fatalf("ticker calls = %d, want 3", gw.calls)
	}
	if len(gw.placed) != 2 {
		t.Fatalf("placed %d slices, want 2", len(gw.placed))
	}
	for i, p := range gw.placed {
		if p.Type != binance.OrderTypeMarket || !p.Quantity.Equal(d("0.333333")) {
			t.Fatalf("placed[%d]=%+v", i, p)
		}
	}
}

func TestPlaceOCO_LegsAreIsolated(t *testing.T) {
	gw := &fakeGateway{
		failWhen: func(p binance.NewOrderParams) error {
			if p.Type == binance.OrderTypeLimit {
				return fmt.Errorf("tp leg rejected")
			}
			return nil
		},
	}

	tr := New(gw, nil, false)
	res := tr.PlaceOCO(context.Background(), orders.OCORequest{
		Symbol: "BTCUSDT", Side: binance.SideSell,
		Quantity: d("0.01"), TakeProfit: d("105000"), StopLoss: d("95000"),
	})

	if res.TakeProfitErr == nil {
		t.Fatalf("expected take-profit failure")
	}
	if res.StopLossErr != nil {
		t.Fatalf("stop-loss leg should still be attempted: %v", res.StopLossErr)
	}
	if res.AllFailed() {
		t.Fatalf("AllFailed should be false")
	}
	if len(gw.placed) != 1 || gw.placed[0].Type != binance.OrderTypeStop {
		t.Fatalf("unexpected placed legs: %+v", gw.placed)
	}
	if !gw.placed[0].StopPrice.Equal(d("95000")) || !gw.placed[0].Price.Equal(d("95000")) {
		t.Fatalf("stop leg prices: %+v", gw.placed[0])
	}
}

func TestSubmit_DryModeSendsNothing(t *testing.T) {
	gw := &fakeGateway{}
	tr := New(gw, nil, true)

	if err := tr.PlaceMarket(context.Background(), orders.MarketRequest{
		Symbol: "BTCUSDT", Side: binance.SideBuy, Quantity: d("0.01"),
	}); err != nil {
		t.Fatalf("dry PlaceMarket: %v", err)
	}
	if len(gw.placed) != 0 {
		t.Fatalf("dry run must not place orders: %+v", gw.placed)
	}
}

func TestSleepCtx_CancelledContextReturns(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	if err := sleepCtx(ctx, time.Minute); err == nil {
		t.Fatalf("expected context error")
	}
	if time.Since(start) > time.Second {
		t.Fatalf("sleep did not return promptly on cancel")
	}
}
