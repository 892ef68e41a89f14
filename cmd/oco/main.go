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

	req, err := orders.ParseOCOArgs(flag.Args())
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
	if snap.PriceAvailable() {
		cur := snap.Price.Value.StringFixed(2)
		log.Printf("current %s price: %s USDT", req.Symbol, cur)
		if req.Side == binance.SideBuy {
			log.Printf("for BUY OCO: takeProfit < %s < stopLoss", cur)
		} else {
			log.Printf("for SELL OCO: takeProfit > %s > stopLoss", cur)
		}
	}

	warnings, err := orders.ValidateOCO(req, snap)
	for _, w := range warnings {
		log.Printf("[warn] %s", w)
	}
	if err != nil {
		runLog.Log(botlog.Event{
			Event:  "rejected",
			Symbol: req.Symbol, Side: string(req.Side),
			OrderType: "OCO",
			Quantity:  req.Quantity.String(),
			Price:     req.TakeProfit.String(),
			StopPrice: req.StopLoss.String(),
			Reason:    err.Error(),
		})
		log.Fatalf("[fatal] %v", err)
	}
	runLog.Log(botlog.Event{
		Event:  "validated",
		Symbol: req.Symbol, Side: string(req.Side),
		OrderType: "OCO",
		Quantity:  req.Quantity.String(),
		Price:     req.TakeProfit.String(),
		StopPrice: req.StopLoss.String(),
		Ok:        true,
	})

	trader := trade.New(client, runLog, dry)
	res := trader.PlaceOCO(ctx, req)
	if res.AllFailed() {
		log.Fatalf("[fatal] failed to place OCO order: tp=%v sl=%v", res.TakeProfitErr, res.StopLossErr)
	}
	log.Printf("OCO %s order placed for %s %s (take profit %s, stop loss %s)",
		req.Side, req.Quantity, req.Symbol, req.TakeProfit, req.StopLoss)
}
