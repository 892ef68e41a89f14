// Package fng reads the alternative.me crypto Fear & Greed index.
package fng

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const DefaultURL = "https://api.alternative.me"

// Neutral is the fallback reading used whenever the index is unreachable.
var Neutral = Index{Value: 50, Classification: "Neutral"}

// Index is one Fear & Greed reading: a 0-100 score plus its label.
type Index struct {
	Value          int
	Classification string
}

type Client struct {
	host       string
	httpClient *http.Client
}

func NewClient(host string) (*Client, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		host = DefaultURL
	}
	host = strings.TrimRight(host, "/")

	u, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("fng url parse %q: %w", host, err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return nil, fmt.Errorf("fng url must be http(s), got %q", host)
	}

	return &Client{
		host: host,
		// The index fetch is the one lookup with a bounded wait of its own.
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

type fngResp struct {
	Data []struct {
		Value          string `json:"value"`
		Classification string `json:"value_classification"`
	} `json:"data"`
}

// Latest returns the most recent index reading, clamped to [0,100].
func (c *Client) Latest(ctx context.Context) (Index, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.host+"/fng/?limit=1", nil)
	if err != nil {
		return Index{}, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Index{}, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Index{}, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Index{}, fmt.Errorf("fng: status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var parsed fngResp
	if err := json.Unmarshal(b, &parsed); err != nil {
		return Index{}, fmt.Errorf("fng decode: %w", err)
	}
	if len(parsed.Data) == 0 {
		return Index{}, fmt.Errorf("fng: empty data")
	}

	v, err := strconv.Atoi(strings.TrimSpace(parsed.Data[0].Value))
	if err != nil {
		return Index{}, fmt.Errorf("fng value %q: %w", parsed.Data[0].Value, err)
	}
	if v < 0 {
		v = 0
	}
	if v > 100 {
		v = 100
	}
	return Index{Value: v, Classification: parsed.Data[0].Classification}, nil
}
