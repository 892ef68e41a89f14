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

	req, err := orders.ParseTWAPArgs(flag.Args())
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

	warnings, err := orders.ValidateTWAP(req, snap)
	for _, w := range warnings {
		log.Printf("[warn] %s", w)
	}
	if err != nil {
		runLog.Log(botlog.Event{
			Event:  "rejected",
			Symbol: req.Symbol, Side: string(req.Side),
			Quantity:   req.TotalQty.String(),
			SliceCount: req.SliceCount,
			IntervalS:  int(req.Interval.Seconds()),
			Reason:     err.Error(),
		})
		log.Fatalf("[fatal] %v", err)
	}

	chunk := req.ChunkQty()
	if snap.PriceAvailable() {
		log.Printf("current %s price: %s USDT", req.Symbol, snap.Price.Value.StringFixed(2))
	}
	log.Printf("starting TWAP for %s: %s %s in %d slices of %s every %s",
		req.Symbol, req.Side, req.TotalQty, req.SliceCount, orders.SubmitQty(chunk), req.Interval)
	runLog.Log(botlog.Event{
		Event:  "twap_start",
		Symbol: req.Symbol, Side: string(req.Side),
		Quantity:   req.TotalQty.String(),
		SliceCount: req.SliceCount,
		IntervalS:  int(req.Interval.Seconds()),
		Ok:         true,
	})

	trader := trade.New(client, runLog, dry)
	if err := trader.RunTWAP(ctx, req, chunk); err != nil {
		runLog.Log(botlog.Event{Event: "twap_aborted", Symbol: req.Symbol, Err: err.Error()})
		log.Fatalf("[fatal] TWAP aborted: %v", err)
	}
	log.Printf("TWAP execution completed")
	runLog.Log(botlog.Event{Event: "twap_done", Symbol: req.Symbol, Ok: true})
}
