package binance

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"
)

type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

type OrderType string

const (
	OrderTypeMarket OrderType = "MARKET"
	OrderTypeLimit  OrderType = "LIMIT"
	OrderTypeStop   OrderType = "STOP"
)

type TimeInForce string

const TimeInForceGTC TimeInForce = "GTC"

// NewOrderParams carries one /fapi/v1/order request. Price and StopPrice
// are only sent for order types that use them.
type NewOrderParams struct {
	Symbol      string
	Side        Side
	Type        OrderType
	TimeInForce TimeInForce
	Quantity    decimal.Decimal
	Price       decimal.Decimal
	StopPrice   decimal.Decimal

	// ClientOrderID is echoed back by the exchange; it ties the ack to
	// the run-log record.
	ClientOrderID string
}

func (p NewOrderParams) validate() error {
	if p.Symbol == "" {
		return fmt.Errorf("order symbol required")
	}
	if p.Side != SideBuy && p.Side != SideSell {
		return fmt.Errorf("order side must be BUY or SELL, got %q", p.Side)
	}
	if !p.Quantity.IsPositive() {
		return fmt.Errorf("order quantity must be positive, got %s", p.Quantity)
	}
	switch p.Type {
	case OrderTypeMarket:
	case OrderTypeLimit:
		if !p.Price.IsPositive() {
			return fmt.Errorf("limit order requires a positive price")
		}
	case OrderTypeStop:
		if !p.Price.IsPositive() || !p.StopPrice.IsPositive() {
			return fmt.Errorf("stop order requires positive stop and limit prices")
		}
	default:
		return fmt.Errorf("unsupported order type %q", p.Type)
	}
	return nil
}

// OrderAck mirrors the order placement response fields the commands report.
type OrderAck struct {
	OrderID       int64  `json:"orderId"`
	ClientOrderID string `json:"clientOrderId"`
	Symbol        string `json:"symbol"`
	Status        string `json:"status"`
	Side          string `json:"side"`
	Type          string `json:"type"`
	OrigQty       string `json:"origQty"`
	Price         string `json:"price"`
	StopPrice     string `json:"stopPrice"`
	AvgPrice      string `json:"avgPrice"`
}

// NewOrder places one order. It never retries; the caller decides whether
// a failure is fatal for its variant.
func (c *Client) NewOrder(ctx context.Context, p NewOrderParams) (OrderAck, error) {
	if err := p.validate(); err != nil {
		return OrderAck{}, err
	}

	params := url.Values{}
	params.Set("symbol", p.Symbol)
	params.Set("side", string(p.Side))
	params.Set("type", string(p.Type))
	params.Set("quantity", p.Quantity.String())
	if p.TimeInForce != "" {
		params.Set("timeInForce", string(p.TimeInForce))
	}
	if p.Price.IsPositive() {
		params.Set("price", p.Price.String())
	}
	if p.StopPrice.IsPositive() {
		params.Set("stopPrice", p.StopPrice.String())
	}
	if p.ClientOrderID != "" {
		params.Set("newClientOrderId", p.ClientOrderID)
	}

	var ack OrderAck
	if err := c.doJSON(ctx, http.MethodPost, "/fapi/v1/order", params, true, &ack); err != nil {
		return OrderAck{}, err
	}
	return ack, nil
}
