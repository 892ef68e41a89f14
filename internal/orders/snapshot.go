package orders

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"binance-gobot/internal/fng"
)

// Lookup is the outcome of one reference read: either a live value or a
// documented default with the reason the read degraded. Degradation is
// never fatal.
type Lookup[T any] struct {
	Value    T
	Degraded bool
	Reason   string
}

func LookupOK[T any](v T) Lookup[T] {
	return Lookup[T]{Value: v}
}

func LookupDegraded[T any](v T, reason string) Lookup[T] {
	return Lookup[T]{Value: v, Degraded: true, Reason: reason}
}

// DefaultMinNotional is the conservative quote-currency floor used when
// the exchange filter cannot be read.
var DefaultMinNotional = decimal.NewFromInt(100)

// Gateway is the read-only exchange surface the snapshot needs.
type Gateway interface {
	Symbols(ctx context.Context) ([]string, error)
	TickerPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
	MinNotional(ctx context.Context, symbol string) (decimal.Decimal, error)
}

// SentimentSource is the fear & greed read used by the sentiment variants.
type SentimentSource interface {
	Latest(ctx context.Context) (fng.Index, error)
}

// Snapshot is the reference data a validation pass runs against. Each
// field records its own degrade decision:
//
//   - SymbolKnown fails open (assume the symbol is valid),
//   - Price degrades to unavailable (price-dependent checks are skipped),
//   - MinNotional degrades to the 100 floor,
//   - Sentiment degrades to (50, "Neutral").
type Snapshot struct {
	SymbolKnown Lookup[bool]
	Price       Lookup[decimal.Decimal]
	MinNotional Lookup[decimal.Decimal]
	Sentiment   Lookup[fng.Index]
}

// PriceAvailable reports whether the market price read succeeded.
func (s Snapshot) PriceAvailable() bool { return !s.Price.Degraded }

// Warnings lists the degrade reasons accumulated while building the
// snapshot, for console and run-log reporting.
func (s Snapshot) Warnings() []string {
	var out []string
	for _, r := range []string{s.SymbolKnown.Reason, s.Price.Reason, s.MinNotional.Reason, s.Sentiment.Reason} {
		if r != "" {
			out = append(out, r)
		}
	}
	return out
}

// BuildSnapshot performs the three exchange reads for symbol, applying
// the per-lookup degrade policy. Sentiment starts at a non-degraded
// Neutral; sentiment variants overwrite it via AddSentiment.
func BuildSnapshot(ctx context.Context, gw Gateway, symbol string) Snapshot {
	snap := Snapshot{Sentiment: LookupOK(fng.Neutral)}

	syms, err := gw.Symbols(ctx)
	if err != nil {
		snap.SymbolKnown = LookupDegraded(true, fmt.Sprintf("could not verify symbol (network issue): %v", err))
	} else {
		known := false
		for _, s := range syms {
			if s == symbol {
				known = true
				break
			}
		}
		snap.SymbolKnown = LookupOK(known)
	}

	price, err := gw.TickerPrice(ctx, symbol)
	if err != nil {
		snap.Price = LookupDegraded(decimal.Decimal{}, fmt.Sprintf("could not fetch current price: %v", err))
	} else {
		snap.Price = LookupOK(price)
	}

	minNotional, err := gw.MinNotional(ctx, symbol)
	if err != nil {
		snap.MinNotional = LookupDegraded(DefaultMinNotional, fmt.Sprintf("could not fetch minimum notional info: %v", err))
	} else {
		snap.MinNotional = LookupOK(minNotional)
	}

	return snap
}

// AddSentiment fetches the fear & greed index into the snapshot, falling
// back to Neutral on any failure.
func (s *Snapshot) AddSentiment(ctx context.Context, src SentimentSource) {
	idx, err := src.Latest(ctx)
	if err != nil {
		s.Sentiment = LookupDegraded(fng.Neutral, fmt.Sprintf("could not fetch fear & greed index: %v", err))
		return
	}
	s.Sentiment = LookupOK(idx)
}
