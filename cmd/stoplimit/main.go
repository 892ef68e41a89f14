package main

import (
	"context"
	"flag"
	"log"
	"time"

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

	req, err := orders.ParseStopLimitArgs(flag.Args())
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

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := client.Ping(ctx); err != nil {
		log.Printf("[warn] exchange unreachable: %v", err)
	}

	snap := orders.BuildSnapshot(ctx, client, req.Symbol)
	for _, w := range snap.Warnings() {
		log.Printf("[warn] %s", w)
	}

	warnings, err := orders.ValidateStopLimit(req, snap)
	for _, w := range warnings {
		log.Printf("[warn] %s", w)
	}
	if err != nil {
		runLog.Log(botlog.Event{
			Event:  "rejected",
			Symbol: req.Symbol, Side: string(req.Side),
			OrderType: string(binance.OrderTypeStop),
			Quantity:  req.Quantity.String(),
			Price:     req.LimitPrice.String(),
			StopPrice: req.StopPrice.String(),
			Reason:    err.Error(),
		})
		log.Fatalf("[fatal] %v", err)
	}
	runLog.Log(botlog.Event{
		Event:  "validated",
		Symbol: req.Symbol, Side: string(req.Side),
		OrderType: string(binance.OrderTypeStop),
		Quantity:  req.Quantity.String(),
		Price:     req.LimitPrice.String(),
		StopPrice: req.StopPrice.String(),
		Ok:        true,
	})

	trader := trade.New(client, runLog, dry)
	if err := trader.PlaceStopLimit(ctx, req); err != nil {
		log.Fatalf("[fatal] failed to place stop-limit order: %v", err)
	}
}
