// Package botlog appends newline-delimited JSON run records to a shared
// log file. Every validation decision, degraded lookup, and order outcome
// across the order commands ends up here.
package botlog

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// DefaultPath is the shared run log used by all order commands.
const DefaultPath = "bot.log"

// Event is a single run-log record. Zero-valued fields are omitted so each
// command only carries the fields that apply to its variant.
type Event struct {
	TsMs  int64  `json:"ts_ms"`
	Event string `json:"event"`
	Mode  string `json:"mode,omitempty"` // dry | live

	Symbol    string `json:"symbol,omitempty"`
	Side      string `json:"side,omitempty"`
	OrderType string `json:"order_type,omitempty"`
	Quantity  string `json:"quantity,omitempty"`
	Price     string `json:"price,omitempty"`
	StopPrice string `json:"stop_price,omitempty"`

	// Grid / TWAP plan fields.
	LowerPrice string `json:"lower_price,omitempty"`
	UpperPrice string `json:"upper_price,omitempty"`
	GridCount  int    `json:"grid_count,omitempty"`
	Slice      int    `json:"slice,omitempty"`
	SliceCount int    `json:"slice_count,omitempty"`
	IntervalS  int    `json:"interval_s,omitempty"`

	SentimentScore int    `json:"sentiment_score,omitempty"`
	SentimentLabel string `json:"sentiment_label,omitempty"`

	ClientOrderID string         `json:"client_order_id,omitempty"`
	Ok            bool           `json:"ok,omitempty"`
	Reason        string         `json:"reason,omitempty"`
	Err           string         `json:"err,omitempty"`
	Resp          map[string]any `json:"resp,omitempty"`
}

// Writer appends Events to a file. It is safe for concurrent use, and a
// nil *Writer discards records so callers never need to branch.
type Writer struct {
	mu   sync.Mutex
	path string
	file *os.File
	w    *bufio.Writer
}

// New returns a run-log writer that appends to path. An empty/blank path
// returns nil (logging disabled).
func New(path string) *Writer {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	return &Writer{path: path}
}

func (w *Writer) ensureOpenLocked() error {
	if w.file != nil {
		return nil
	}
	if dir := filepath.Dir(w.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	w.file = f
	w.w = bufio.NewWriterSize(f, 64*1024)
	return nil
}

// Write appends ev as one JSON object followed by '\n', stamping TsMs when
// the caller left it zero. It flushes so tailers see the record right away.
func (w *Writer) Write(ev Event) error {
	if w == nil {
		return nil
	}
	if ev.Event == "" {
		return fmt.Errorf("botlog: event name required")
	}
	if ev.TsMs == 0 {
		ev.TsMs = time.Now().UnixMilli()
	}

	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.ensureOpenLocked(); err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return err
	}
	return w.w.Flush()
}

// Log writes ev and downgrades a write failure to a console warning; the
// run log must never take down a trading run.
func (w *Writer) Log(ev Event) {
	if err := w.Write(ev); err != nil {
		log.Printf("[warn] run log write failed: %v", err)
	}
}

// Close flushes buffered data and closes the underlying file.
func (w *Writer) Close() error {
	if w == nil {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	var firstErr error
	if w.w != nil {
		if err := w.w.Flush(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if w.file != nil {
		if err := w.file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	w.w = nil
	w.file = nil

	if firstErr != nil && errors.Is(firstErr, os.ErrClosed) {
		return nil
	}
	return firstErr
}
