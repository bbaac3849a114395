package stats

import (
	"fmt"
	"strings"
	"time"

	"github.com/rustyeddy/tradejournal/trade"
)

// Query selects a subset of the journal. Empty fields match everything.
// From and To bound the trade date inclusively.
type Query struct {
	Symbol     string `form:"symbol" json:"symbol,omitempty"`
	AssetClass string `form:"asset" json:"asset,omitempty"`
	Status     string `form:"status" json:"status,omitempty"`
	From       string `form:"from" json:"from,omitempty"`
	To         string `form:"to" json:"to,omitempty"`

	from, to time.Time
}

// Empty reports whether q matches every trade.
func (q Query) Empty() bool {
	return q.Symbol == "" && q.AssetClass == "" && q.Status == "" && q.From == "" && q.To == ""
}

// Compile checks the date bounds and returns a query ready for Match.
func (q Query) Compile() (Query, error) {
	var ok bool
	if q.From != "" {
		if q.from, ok = ParseDate(q.From); !ok {
			return q, fmt.Errorf("from: %q is not a date", q.From)
		}
	}
	if q.To != "" {
		if q.to, ok = ParseDate(q.To); !ok {
			return q, fmt.Errorf("to: %q is not a date", q.To)
		}
	}
	if q.From != "" && q.To != "" && q.to.Before(q.from) {
		return q, fmt.Errorf("to %s is before from %s", q.To, q.From)
	}
	return q, nil
}

// Match reports whether t passes every set filter. Trades with an
// unparsable date never match a date bound.
func (q Query) Match(t trade.Trade) bool {
	if q.Symbol != "" && !strings.EqualFold(q.Symbol, t.Symbol) {
		return false
	}
	if q.AssetClass != "" && !strings.EqualFold(q.AssetClass, string(t.AssetClass)) {
		return false
	}
	if q.Status != "" && !strings.EqualFold(q.Status, string(t.Status)) {
		return false
	}
	if q.From == "" && q.To == "" {
		return true
	}

	at, ok := ParseDate(t.Date)
	if !ok {
		return false
	}
	if q.From != "" && at.Before(q.from) {
		return false
	}
	if q.To != "" && at.After(endOfDay(q.to, q.To)) {
		return false
	}
	return true
}

// Filter compiles q and returns the matching trades in their original order.
func Filter(trades []trade.Trade, q Query) ([]trade.Trade, error) {
	q, err := q.Compile()
	if err != nil {
		return nil, err
	}
	out := make([]trade.Trade, 0, len(trades))
	for _, t := range trades {
		if q.Match(t) {
			out = append(out, t)
		}
	}
	return out, nil
}

// endOfDay widens a bare date bound to the whole day.
func endOfDay(t time.Time, raw string) time.Time {
	if len(raw) == len("2006-01-02") {
		return t.Add(24*time.Hour - time.Nanosecond)
	}
	return t
}
