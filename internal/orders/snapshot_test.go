package orders

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"

	"binance-gobot/internal/fng"
)

type fakeGateway struct {
	symbols     []string
	symbolsErr  error
	price       decimal.Decimal
	priceErr    error
	notional    decimal.Decimal
	notionalErr error
}

func (g *fakeGateway) Symbols(context.Context) ([]string, error) {
	return g.symbols, g.symbolsErr
}

func (g *fakeGateway) TickerPrice(context.Context, string) (decimal.Decimal, error) {
	return g.price, g.priceErr
}

func (g *fakeGateway) MinNotional(context.Context, string) (decimal.Decimal, error) {
	return g.notional, g.notionalErr
}

type fakeSentiment struct {
	idx fng.Index
	err error
}

func (s *fakeSentiment) Latest(context.Context) (fng.Index, error) { return s.idx, s.err }

func TestBuildSnapshot_AllReadsSucceed(t *testing.T) {
	gw := &fakeGateway{
		symbols:  []string{"BTCUSDT", "ETHUSDT"},
		price:    d("50000"),
		notional: d("200"),
	}
	snap := BuildSnapshot(context.Background(), gw, "BTCUSDT")

	if snap.SymbolKnown.Degraded || !snap.SymbolKnown.Value {
		t.Fatalf("symbol lookup: %+v", snap.SymbolKnown)
	}
	if !snap.PriceAvailable() || !snap.Price.Value.Equal(d("50000")) {
		t.Fatalf("price lookup: %+v", snap.Price)
	}
	if snap.MinNotional.Degraded || !snap.MinNotional.Value.Equal(d("200")) {
		t.Fatalf("notional lookup: %+v", snap.MinNotional)
	}
	if len(snap.Warnings()) != 0 {
		t.Fatalf("unexpected warnings: %v", snap.Warnings())
	}
}

func TestBuildSnapshot_UnknownSymbol(t *testing.T) {
	gw := &fakeGateway{symbols: []string{"ETHUSDT"}, price: d("1"), notional: d("100")}
	snap := BuildSnapshot(context.Background(), gw, "NOPEUSDT")
	if snap.SymbolKnown.Degraded || snap.SymbolKnown.Value {
		t.Fatalf("symbol lookup: %+v", snap.SymbolKnown)
	}
}

func TestBuildSnapshot_AllReadsFail(t *testing.T) {
	netErr := fmt.Errorf("connection refused")
	gw := &fakeGateway{symbolsErr: netErr, priceErr: netErr, notionalErr: netErr}
	snap := BuildSnapshot(context.Background(), gw, "BTCUSDT")

	// Symbol verification fails open.
	if !snap.SymbolKnown.Degraded || !snap.SymbolKnown.Value {
		t.Fatalf("symbol lookup should fail open: %+v", snap.SymbolKnown)
	}
	// Price degrades to unavailable.
	if snap.PriceAvailable() {
		t.Fatalf("price should be unavailable")
	}
	// Min notional degrades to the conservative 100 floor.
	if !snap.MinNotional.Degraded || !snap.MinNotional.Value.Equal(d("100")) {
		t.Fatalf("notional lookup: %+v", snap.MinNotional)
	}
	if got := len(snap.Warnings()); got != 3 {
		t.Fatalf("warnings=%d want 3: %v", got, snap.Warnings())
	}
}

func TestAddSentiment_FallsBackToNeutral(t *testing.T) {
	snap := Snapshot{Sentiment: LookupOK(fng.Neutral)}
	snap.AddSentiment(context.Background(), &fakeSentiment{err: fmt.Errorf("timeout")})
	if !snap.Sentiment.Degraded {
		t.Fatalf("sentiment should be degraded")
	}
	if snap.Sentiment.Value != fng.Neutral {
		t.Fatalf("sentiment=%+v want neutral fallback", snap.Sentiment.Value)
	}

	snap.AddSentiment(context.Background(), &fakeSentiment{idx: fng.Index{Value: 12, Classification: "Extreme Fear"}})
	if snap.Sentiment.Degraded || snap.Sentiment.Value.Value != 12 {
		t.Fatalf("sentiment=%+v", snap.Sentiment)
	}
}
