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

	runLog := botlog.New(logPath)
	defer runLog.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := client.Ping(ctx); err != nil {
		log.Printf("[warn] exchange unreachable: %v", err)
	}

	snap := orders.BuildSnapshot(ctx, client, req.Symbol)
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

	plan, err := orders.DeriveGrid(req.Lower, req.Upper, req.GridCount)
	if err != nil {
		log.Fatalf("[fatal] %v", err)
	}

	if snap.PriceAvailable() {
		log.Printf("current %s price: %s USDT", req.Symbol, snap.Price.Value.StringFixed(2))
	}
	log.Printf("starting grid strategy for %s: range %s - %s, grids %d, quantity %s",
		req.Symbol, req.Lower, req.Upper, req.GridCount, req.Quantity)
	runLog.Log(botlog.Event{
		Event:  "grid_start",
		Symbol: req.Symbol,
		LowerPrice: req.Lower.String(), UpperPrice: req.Upper.String(),
		GridCount: req.GridCount,
		Quantity:  req.Quantity.String(),
		Ok:        true,
	})

	trader := trade.New(client, runLog, dry)
	res := trader.RunGrid(ctx, req.Symbol, req.Quantity, plan)
	log.Printf("grid sweep finished: %d placed, %d failed", res.Placed, res.Failed)
	runLog.Log(botlog.Event{
		Event:  "grid_done",
		Symbol: req.Symbol,
		Ok:     res.Failed == 0,
	})
}
