// Package binance is a minimal USD-M futures REST client covering the
// calls the order commands need: exchange metadata, ticker price, and
// signed order placement.
package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"binance-gobot/internal/dotenv"
)

const DefaultBaseURL = "https://testnet.binancefuture.com"

const defaultRecvWindowMs = 5000

// DefaultMinNotional is the quote-currency floor used when the exchange
// does not report a MIN_NOTIONAL filter for a symbol.
var DefaultMinNotional = decimal.NewFromInt(100)

type Config struct {
	BaseURL   string
	APIKey    string
	APISecret string
}

// ConfigFromEnv reads API_KEY/API_SECRET (required) and BASE_URL
// (optional) from the environment.
func ConfigFromEnv() (Config, error) {
	key, err := dotenv.Require("API_KEY")
	if err != nil {
		return Config{}, err
	}
	secret, err := dotenv.Require("API_SECRET")
	if err != nil {
		return Config{}, err
	}
	return Config{
		BaseURL:   dotenv.Default("BASE_URL", DefaultBaseURL),
		APIKey:    key,
		APISecret: secret,
	}, nil
}

// APIError is a Binance business error ({"code":-1121,"msg":"..."}).
type APIError struct {
	Code   int    `json:"code"`
	Msg    string `json:"msg"`
	Status int    `json:"-"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("binance: code %d: %s (http %d)", e.Code, e.Msg, e.Status)
}

type Client struct {
	baseURL    string
	apiKey     string
	apiSecret  string
	httpClient *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	host := strings.TrimSpace(cfg.BaseURL)
	if host == "" {
		host = DefaultBaseURL
	}
	host = strings.TrimRight(host, "/")

	u, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("base url parse %q: %w", host, err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return nil, fmt.Errorf("base url must be http(s), got %q", host)
	}
	if strings.TrimSpace(cfg.APIKey) == "" || strings.TrimSpace(cfg.APISecret) == "" {
		return nil, fmt.Errorf("api key and secret required")
	}

	return &Client{
		baseURL:   host,
		apiKey:    strings.TrimSpace(cfg.APIKey),
		apiSecret: strings.TrimSpace(cfg.APISecret),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}, nil
}

// Ping is a cheap connectivity probe against /fapi/v1/ping.
func (c *Client) Ping(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodGet, "/fapi/v1/ping", nil, false, nil)
}

type ExchangeInfo struct {
	Symbols []SymbolInfo `json:"symbols"`
}

type SymbolInfo struct {
	Symbol  string         `json:"symbol"`
	Status  string         `json:"status"`
	Filters []SymbolFilter `json:"filters"`
}

type SymbolFilter struct {
	FilterType string `json:"filterType"`
	Notional   string `json:"notional,omitempty"`
}

func (c *Client) ExchangeInfo(ctx context.Context) (*ExchangeInfo, error) {
	var info ExchangeInfo
	if err := c.doJSON(ctx, http.MethodGet, "/fapi/v1/exchangeInfo", nil, false, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Symbols returns the tradable symbol set.
func (c *Client) Symbols(ctx context.Context) ([]string, error) {
	info, err := c.ExchangeInfo(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(info.Symbols))
	for _, s := range info.Symbols {
		out = append(out, s.Symbol)
	}
	return out, nil
}

// MinNotional returns the MIN_NOTIONAL filter value for symbol, falling
// back to DefaultMinNotional when the symbol or filter is absent.
func (c *Client) MinNotional(ctx context.Context, symbol string) (decimal.Decimal, error) {
	info, err := c.ExchangeInfo(ctx)
	if err != nil {
		return decimal.Decimal{}, err
	}
	for _, s := range info.Symbols {
		if s.Symbol != symbol {
			continue
		}
		for _, f := range s.Filters {
			if f.FilterType != "MIN_NOTIONAL" || f.Notional == "" {
				continue
			}
			v, err := decimal.NewFromString(f.Notional)
			if err != nil {
				return decimal.Decimal{}, fmt.Errorf("parse MIN_NOTIONAL %q for %s: %w", f.Notional, symbol, err)
			}
			return v, nil
		}
	}
	return DefaultMinNotional, nil
}

type tickerPriceResp struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

func (c *Client) TickerPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	params := url.Values{"symbol": []string{symbol}}
	var resp tickerPriceResp
	if err := c.doJSON(ctx, http.MethodGet, "/fapi/v1/ticker/price", params, false, &resp); err != nil {
		return decimal.Decimal{}, err
	}
	p, err := decimal.NewFromString(resp.Price)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse ticker price %q for %s: %w", resp.Price, symbol, err)
	}
	return p, nil
}

// doJSON issues one request. When signed is true the query gains
// timestamp/recvWindow and an HMAC-SHA256 signature, and the API key
// header is attached.
func (c *Client) doJSON(ctx context.Context, method, path string, params url.Values, signed bool, out any) error {
	if params == nil {
		params = url.Values{}
	}
	if signed {
		params.Set("timestamp", fmt.Sprintf("%d", time.Now().UnixMilli()))
		params.Set("recvWindow", fmt.Sprintf("%d", defaultRecvWindowMs))
	}

	query := params.Encode()
	if signed {
		query += "&signature=" + buildQuerySignature(c.apiSecret, query)
	}

	u := c.baseURL + path
	if query != "" {
		u += "?" + query
	}

	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return err
	}
	if signed {
		req.Header.Set("X-MBX-APIKEY", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr APIError
		if json.Unmarshal(b, &apiErr) == nil && apiErr.Msg != "" {
			apiErr.Status = resp.StatusCode
			return &apiErr
		}
		return fmt.Errorf("binance %s %s: status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(b)))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("decode %s response: %w (body=%s)", path, err, strings.TrimSpace(string(b)))
	}
	return nil
}
