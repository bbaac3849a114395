package stats

import (
	"sort"
	"strconv"
	"time"

	"github.com/rustyeddy/tradejournal/trade"
)

// StartLabel names the synthetic first point of every equity curve.
const StartLabel = "start"

// Point is one step of the equity curve.
type Point struct {
	Label   string  `json:"label" yaml:"label"`
	Balance float64 `json:"balance" yaml:"balance"`
	PnL     float64 `json:"pnl" yaml:"pnl"`
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006/01/02",
}

// ParseDate parses the date formats the journal accepts.
func ParseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Curve folds the closed trades, ordered by date, into a running balance.
// Ties and unparsable dates keep log order; unparsable dates sort last.
// Labels are ordinals ("T1", "T2", ...) and do not depend on trade ids.
func Curve(trades []trade.Trade, initialBalance float64) []Point {
	type dated struct {
		t  trade.Trade
		at time.Time
		ok bool
	}

	closed := make([]dated, 0, len(trades))
	for _, t := range trades {
		if !t.IsClosed() {
			continue
		}
		at, ok := ParseDate(t.Date)
		closed = append(closed, dated{t: t, at: at, ok: ok})
	}

	sort.SliceStable(closed, func(i, j int) bool {
		a, b := closed[i], closed[j]
		if a.ok != b.ok {
			return a.ok
		}
		return a.ok && a.at.Before(b.at)
	})

	out := make([]Point, 0, len(closed)+1)
	out = append(out, Point{Label: StartLabel, Balance: initialBalance})

	running := initialBalance
	for i, d := range closed {
		running += d.t.PnL()
		out = append(out, Point{
			Label:   "T" + strconv.Itoa(i+1),
			Balance: running,
			PnL:     d.t.PnL(),
		})
	}
	return out
}

// Drawdown is the deepest peak to trough fall along an equity curve.
type Drawdown struct {
	Amount float64 `json:"amount" yaml:"amount"`
	Pct    float64 `json:"pct" yaml:"pct"`
	Peak   string  `json:"peak" yaml:"peak"`
	Trough string  `json:"trough" yaml:"trough"`
}

// MaxDrawdown scans the curve for the largest fall from a running peak. Pct
// is relative to that peak and is zero when the peak is not positive.
func MaxDrawdown(curve []Point) Drawdown {
	var dd Drawdown
	if len(curve) == 0 {
		return dd
	}

	peak := curve[0]
	for _, p := range curve[1:] {
		if p.Balance > peak.Balance {
			peak = p
			continue
		}
		if fall := peak.Balance - p.Balance; fall > dd.Amount {
			dd.Amount = fall
			dd.Peak = peak.Label
			dd.Trough = p.Label
			if peak.Balance > 0 {
				dd.Pct = fall / peak.Balance * 100
			}
		}
	}
	return dd
}

// ReturnPct is the percentage change from the initial to the current balance.
func ReturnPct(initial, current float64) float64 {
	if initial == 0 {
		return 0
	}
	return (current - initial) / initial * 100
}
