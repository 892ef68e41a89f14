package binance

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func testClient(t *testing.T, srvURL string) *Client {
	t.Helper()
	c, err := NewClient(Config{BaseURL: srvURL, APIKey: "test-key", APISecret: "test-secret"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func testCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestNewClient_RejectsBadConfig(t *testing.T) {
	if _, err := NewClient(Config{BaseURL: "ftp://example.com", APIKey: "k", APISecret: "s"}); err == nil {
		t.Fatalf("expected scheme error")
	}
	if _, err := NewClient(Config{BaseURL: "https://example.com", APIKey: "", APISecret: "s"}); err == nil {
		t.Fatalf("expected missing-key error")
	}
}

func TestTickerPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/fapi/v1/ticker/price" {
			http.NotFound(w, r)
			return
		}
		if got := r.URL.Query().Get("symbol"); got != "BTCUSDT" {
			http.Error(w, "bad symbol", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"symbol":"BTCUSDT","price":"50123.40"}`))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	p, err := c.TickerPrice(testCtx(t), "BTCUSDT")
	if err != nil {
		t.Fatalf("TickerPrice: %v", err)
	}
	if !p.Equal(decimal.RequireFromString("50123.40")) {
		t.Fatalf("price=%s want 50123.40", p)
	}
}

func TestMinNotional(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"symbols":[
  {"symbol":"BTCUSDT","status":"TRADING","filters":[
    {"filterType":"PRICE_FILTER"},
    {"filterType":"MIN_NOTIONAL","notional":"250"}
  ]},
  {"symbol":"ETHUSDT","status":"TRADING","filters":[{"filterType":"PRICE_FILTER"}]}
]}`))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)

	v, err := c.MinNotional(testCtx(t), "BTCUSDT")
	if err != nil {
		t.Fatalf("MinNotional: %v", err)
	}
	if !v.Equal(decimal.NewFromInt(250)) {
		t.Fatalf("notional=%s want 250", v)
	}

	// Missing filter falls back to the default floor.
	v, err = c.MinNotional(testCtx(t), "ETHUSDT")
	if err != nil {
		t.Fatalf("MinNotional fallback: %v", err)
	}
	if !v.Equal(DefaultMinNotional) {
		t.Fatalf("notional=%s want default %s", v, DefaultMinNotional)
	}
}

func TestSymbols(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"symbols":[{"symbol":"BTCUSDT"},{"symbol":"ETHUSDT"}]}`))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	syms, err := c.Symbols(testCtx(t))
	if err != nil {
		t.Fatalf("Symbols: %v", err)
	}
	if len(syms) != 2 || syms[0] != "BTCUSDT" || syms[1] != "ETHUSDT" {
		t.Fatalf("unexpected symbols: %v", syms)
	}
}

func TestNewOrder_SignsAndSendsParams(t *testing.T) {
	var gotQuery, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/fapi/v1/order" {
			http.NotFound(w, r)
			return
		}
		gotQuery = r.URL.RawQuery
		gotKey = r.Header.Get("X-MBX-APIKEY")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"orderId":12345,"clientOrderId":"abc","symbol":"BTCUSDT","status":"NEW","side":"BUY","type":"LIMIT","origQty":"0.010","price":"49000"}`))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	ack, err := c.NewOrder(testCtx(t), NewOrderParams{
		Symbol:        "BTCUSDT",
		Side:          SideBuy,
		Type:          OrderTypeLimit,
		TimeInForce:   TimeInForceGTC,
		Quantity:      decimal.RequireFromString("0.01"),
		Price:         decimal.RequireFromString("49000"),
		ClientOrderID: "abc",
	})
	if err != nil {
		t.Fatalf("NewOrder: %v", err)
	}
	if ack.OrderID != 12345 || ack.Status != "NEW" {
		t.Fatalf("unexpected ack: %+v", ack)
	}
	if gotKey != "test-key" {
		t.Fatalf("X-MBX-APIKEY=%q", gotKey)
	}
	for _, frag := range []string{
		"symbol=BTCUSDT", "side=BUY", "type=LIMIT", "timeInForce=GTC",
		"quantity=0.01", "price=49000", "newClientOrderId=abc",
		"timestamp=", "recvWindow=", "signature=",
	} {
		if !strings.Contains(gotQuery, frag) {
			t.Fatalf("query missing %q: %s", frag, gotQuery)
		}
	}
	// The signature must be over the query as sent, minus itself.
	idx := strings.LastIndex(gotQuery, "&signature=")
	if idx < 0 {
		t.Fatalf("signature not appended last: %s", gotQuery)
	}
	want := buildQuerySignature("test-secret", gotQuery[:idx])
	if got := gotQuery[idx+len("&signature="):]; got != want {
		t.Fatalf("signature=%q want %q", got, want)
	}
}

func TestNewOrder_RejectsInvalidParams(t *testing.T) {
	c := testClient(t, "https://example.com")
	one := decimal.NewFromInt(1)
	cases := []struct {
		name string
		p    NewOrderParams
	}{
		{"no symbol", NewOrderParams{Side: SideBuy, Type: OrderTypeMarket, Quantity: one}},
		{"bad side", NewOrderParams{Symbol: "BTCUSDT", Side: "HOLD", Type: OrderTypeMarket, Quantity: one}},
		{"zero quantity", NewOrderParams{Symbol: "BTCUSDT", Side: SideBuy, Type: OrderTypeMarket}},
		{"limit without price", NewOrderParams{Symbol: "BTCUSDT", Side: SideBuy, Type: OrderTypeLimit, Quantity: one}},
		{"unsupported type", NewOrderParams{Symbol: "BTCUSDT", Side: SideBuy, Type: "TRAILING_STOP", Quantity: one}},
		{"stop without prices", NewOrderParams{Symbol: "BTCUSDT", Side: SideBuy, Type: OrderTypeStop, Quantity: one}},
	}
	for _, c2 := range cases {
		if _, err := c.NewOrder(context.Background(), c2.p); err == nil {
			t.Fatalf("%s: expected validation error", c2.name)
		}
	}
}

func TestDoJSON_DecodesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":-1121,"msg":"Invalid symbol."}`))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	_, err := c.TickerPrice(testCtx(t), "NOPEUSDT")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != -1121 || apiErr.Status != http.StatusBadRequest {
		t.Fatalf("unexpected APIError: %+v", apiErr)
	}
}
