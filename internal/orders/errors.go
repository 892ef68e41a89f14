package orders

import "fmt"

// UsageError means the positional arguments were malformed (wrong count or
// a non-numeric value). Commands print the usage line and exit non-zero.
type UsageError struct {
	Usage string
	Msg   string
}

func (e *UsageError) Error() string {
	if e.Msg == "" {
		return "usage: " + e.Usage
	}
	return fmt.Sprintf("%s\nusage: %s", e.Msg, e.Usage)
}

func usageErr(usage, format string, args ...any) error {
	return &UsageError{Usage: usage, Msg: fmt.Sprintf(format, args...)}
}

// RejectReason names the business rule a request failed.
type RejectReason string

const (
	RejectUnknownSymbol RejectReason = "unknown_symbol"
	RejectBadRange      RejectReason = "bad_range"
	RejectBelowNotional RejectReason = "below_min_notional"
	RejectPriceOrdering RejectReason = "price_ordering"
)

// Rejection is a named validation failure. It is fatal to the run and
// never retried.
type Rejection struct {
	Reason RejectReason
	Msg    string
}

func (r *Rejection) Error() string { return r.Msg }

func reject(reason RejectReason, format string, args ...any) error {
	return &Rejection{Reason: reason, Msg: fmt.Sprintf(format, args...)}
}
