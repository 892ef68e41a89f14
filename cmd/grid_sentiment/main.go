package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"binance-gobot/internal/binance"
	"binance-gobot/internal/botlog"
	"binance-gobot/internal/dotenv"
	"binance-gobot/internal/fng"
	"binance-gobot/internal/orders"
	"binance-gobot/internal/trade"
)

func main() {
	log.SetFlags(0)

	if err := dotenv.Load(); err != nil {
		log.Printf("[warn] %v", err)
	}

	var logPath string
	var dry bool
	flag.StringVar(&logPath, "log", botlog.DefaultPath, "JSONL run log path")
	flag.BoolVar(&dry, "dry", false, "Validate and print the plan without sending orders")
	flag.Parse()

	req, err := orders.ParseGridArgs(flag.Args())
	if err != nil {
		log.Fatalf("%v", err)
	}

	cfg, err := binance.ConfigFromEnv()
	if err != nil {
		log.Fatalf("[fatal] %v", err)
	}
	client, err := binance.NewClient(cfg)
	if err != nil {
		log.Fatalf("[fatal] %v", err)
	}
	sentiment, err := fng.NewClient(dotenv.Default("FNG_URL", fng.DefaultURL))
	if err != nil {
		log.Fatalf("[fatal] %v", err)
	}

	runLog := botlog.New(logPath)
	defer runLog.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := client.Ping(ctx); err != nil {
		log.Printf("[warn] exchange unreachable: %v", err)
	}

	snap := orders.BuildSnapshot(ctx, client, req.Symbol)
	snap.AddSentiment(ctx, sentiment)
	for _, w := range snap.Warnings() {
		log.Printf("[warn] %s", w)
	}

	warnings, err := orders.ValidateGrid(req, snap)
	for _, w := range warnings {
		log.Printf("[warn] %s", w)
	}
	if err != nil {
		runLog.Log(botlog.Event{
			Event:  "rejected",
			Symbol: req.Symbol,
			LowerPrice: req.Lower.String(), UpperPrice: req.Upper.String(),
			GridCount: req.GridCount,
			Quantity:  req.Quantity.String(),
			Reason:    err.Error(),
		})
		log.Fatalf("[fatal] %v", err)
	}

	idx := snap.Sentiment.Value
	log.Printf("fear & greed index: %d (%s)", idx.Value, idx.Classification)

	adjusted, band := orders.AdjustGrid(req, idx.Value)
	switch band {
	case orders.BandFear:
		log.Printf("market in extreme fear: widening grid and increasing buy size")
	case orders.BandGreed:
		log.Printf("market in extreme greed: tightening grid and reducing buy size")
	default:
		log.Printf("market neutral: standard grid parameters")
	}

	plan, err := orders.DeriveGrid(adjusted.Lower, adjusted.Upper, adjusted.GridCount)
	if err != nil {
		log.Fatalf("[fatal] %v", err)
	}

	log.Printf("starting grid strategy for %s: range %s - %s, grids %d, quantity %s",
		adjusted.Symbol, adjusted.Lower.StringFixed(2), adjusted.Upper.StringFixed(2),
		adjusted.GridCount, adjusted.Quantity)
	runLog.Log(botlog.Event{
		Event:  "grid_start",
		Symbol: adjusted.Symbol,
		LowerPrice: adjusted.Lower.String(), UpperPrice: adjusted.Upper.String(),
		GridCount:      adjusted.GridCount,
		Quantity:       adjusted.Quantity.String(),
		SentimentScore: idx.Value,
		SentimentLabel: idx.Classification,
		Ok:             true,
	})

	trader := trade.New(client, runLog, dry)
	res := trader.RunGrid(ctx, adjusted.Symbol, adjusted.Quantity, plan)
	log.Printf("grid sweep finished: %d placed, %d failed", res.Placed, res.Failed)
	runLog.Log(botlog.Event{
		Event:  "grid_done",
		Symbol: adjusted.Symbol,
		Ok:     res.Failed == 0,
	})
}
