package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"binance-gobot/internal/markstream"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	var symbol, url string
	flag.StringVar(&symbol, "symbol", "BTCUSDT", "Futures symbol to watch")
	flag.StringVar(&url, "url", markstream.DefaultURL, "Futures websocket base URL")
	flag.Parse()

	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		log.Fatalf("[fatal] symbol required")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	updates, errs := markstream.Start(ctx, url, symbol, markstream.Options{})
	log.Printf("watching mark price for %s", symbol)

	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-errs:
			if !ok {
				return
			}
			log.Printf("[warn] %v", err)
		case u, ok := <-updates:
			if !ok {
				return
			}
			log.Printf("%s mark=%s index=%s funding=%s next_funding=%s",
				u.Symbol, u.MarkPrice, u.IndexPrice, u.FundingRate,
				time.UnixMilli(u.NextFunding).UTC().Format(time.RFC3339))
		}
	}
}
