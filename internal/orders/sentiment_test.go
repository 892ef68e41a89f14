package orders

import (
	"testing"

	"binance-gobot/internal/binance"
)

func TestBandFor_Boundaries(t *testing.T) {
	cases := []struct {
		score int
		want  Band
	}{
		{0, BandFear},
		{24, BandFear},
		{25, BandFear},
		{26, BandNeutral},
		{50, BandNeutral},
		{74, BandNeutral},
		{75, BandGreed},
		{76, BandGreed},
		{100, BandGreed},
	}
	for _, c := range cases {
		if got := BandFor(c.score); got != c.want {
			t.Fatalf("BandFor(%d)=%v want %v", c.score, got, c.want)
		}
	}
}

func TestAdjustGrid_Fear(t *testing.T) {
	req := GridRequest{Symbol: "BTCUSDT", Lower: d("100"), Upper: d("200"), GridCount: 5, Quantity: d("1")}
	out, band := AdjustGrid(req, 25)
	if band != BandFear {
		t.Fatalf("band=%v want fear", band)
	}
	if !out.Lower.Equal(d("98")) || !out.Upper.Equal(d("204")) || !out.Quantity.Equal(d("1.2")) {
		t.Fatalf("adjusted=%s/%s qty=%s", out.Lower, out.Upper, out.Quantity)
	}
}

func TestAdjustGrid_Greed(t *testing.T) {
	req := GridRequest{Symbol: "BTCUSDT", Lower: d("100"), Upper: d("200"), GridCount: 5, Quantity: d("1")}
	out, band := AdjustGrid(req, 75)
	if band != BandGreed {
		t.Fatalf("band=%v want greed", band)
	}
	if !out.Lower.Equal(d("101")) || !out.Upper.Equal(d("198")) || !out.Quantity.Equal(d("0.8")) {
		t.Fatalf("adjusted=%s/%s qty=%s", out.Lower, out.Upper, out.Quantity)
	}
}

func TestAdjustGrid_NeutralUnchanged(t *testing.T) {
	req := GridRequest{Symbol: "BTCUSDT", Lower: d("100"), Upper: d("200"), GridCount: 5, Quantity: d("1")}
	out, band := AdjustGrid(req, 50)
	if band != BandNeutral {
		t.Fatalf("band=%v want neutral", band)
	}
	if !out.Lower.Equal(req.Lower) || !out.Upper.Equal(req.Upper) || !out.Quantity.Equal(req.Quantity) {
		t.Fatalf("neutral band changed the request: %+v", out)
	}
}

func TestAdjustGrid_BoundaryDiverges(t *testing.T) {
	req := GridRequest{Lower: d("100"), Upper: d("200"), GridCount: 5, Quantity: d("1")}
	at25, _ := AdjustGrid(req, 25)
	at26, _ := AdjustGrid(req, 26)
	if at25.Quantity.Equal(at26.Quantity) {
		t.Fatalf("score 25 and 26 should diverge: %s vs %s", at25.Quantity, at26.Quantity)
	}
	at74, _ := AdjustGrid(req, 74)
	at75, _ := AdjustGrid(req, 75)
	if at74.Quantity.Equal(at75.Quantity) {
		t.Fatalf("score 74 and 75 should diverge: %s vs %s", at74.Quantity, at75.Quantity)
	}
}

func TestAdjustTWAPChunk_PerSideMultipliers(t *testing.T) {
	chunk := d("1")
	cases := []struct {
		score int
		side  binance.Side
		want  string
	}{
		{10, binance.SideBuy, "1.25"},
		{10, binance.SideSell, "0.8"},
		{90, binance.SideBuy, "0.7"},
		{90, binance.SideSell, "1.3"},
		{50, binance.SideBuy, "1"},
		{50, binance.SideSell, "1"},
	}
	for _, c := range cases {
		got, _ := AdjustTWAPChunk(chunk, c.side, c.score)
		if !got.Equal(d(c.want)) {
			t.Fatalf("score=%d side=%s: got %s want %s", c.score, c.side, got, c.want)
		}
	}
}
