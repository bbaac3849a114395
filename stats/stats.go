// Package stats derives performance figures from a ledger snapshot. Every
// function recomputes from scratch; nothing is cached between calls.
package stats

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/rustyeddy/tradejournal/trade"
)

// Ratio is a quotient that may legitimately be infinite or undefined.
type Ratio float64

func (r Ratio) IsFinite() bool {
	return !math.IsInf(float64(r), 0) && !math.IsNaN(float64(r))
}

func (r Ratio) IsInf() bool { return math.IsInf(float64(r), 1) }

func (r Ratio) Float64() float64 { return float64(r) }

// String renders finite values with two decimals, +Inf as "∞" and anything
// else as "n/a".
func (r Ratio) String() string {
	switch {
	case r.IsFinite():
		return strconv.FormatFloat(float64(r), 'f', 2, 64)
	case r.IsInf():
		return "∞"
	default:
		return "n/a"
	}
}

// MarshalJSON encodes non-finite ratios as null.
func (r Ratio) MarshalJSON() ([]byte, error) {
	if !r.IsFinite() {
		return []byte("null"), nil
	}
	return json.Marshal(float64(r))
}

type Stats struct {
	TotalTrades  int     `json:"totalTrades" yaml:"totalTrades"`
	Wins         int     `json:"wins" yaml:"wins"`
	Losses       int     `json:"losses" yaml:"losses"`
	WinRate      float64 `json:"winRate" yaml:"winRate"`
	TotalPnL     float64 `json:"totalPnL" yaml:"totalPnL"`
	GrossProfit  float64 `json:"grossProfit" yaml:"grossProfit"`
	GrossLoss    float64 `json:"grossLoss" yaml:"grossLoss"`
	ProfitFactor Ratio   `json:"profitFactor" yaml:"-"`
}

// Compute summarizes the closed trades. A closed trade with zero PnL counts
// as a loss. WinRate is a percentage and is zero when nothing is closed.
//
// With no losing trades the profit factor is the number of wins, matching
// the journal's historical output. Otherwise it is gross profit over the
// magnitude of gross loss, which is infinite or undefined when every loss
// is exactly zero.
func Compute(trades []trade.Trade) Stats {
	var s Stats
	for _, t := range trades {
		if !t.IsClosed() {
			continue
		}
		pnl := t.PnL()
		s.TotalTrades++
		s.TotalPnL += pnl
		switch {
		case pnl > 0:
			s.Wins++
			s.GrossProfit += pnl
		case pnl < 0:
			s.Losses++
			s.GrossLoss += pnl
		default:
			s.Losses++
		}
	}

	if s.TotalTrades > 0 {
		s.WinRate = float64(s.Wins) / float64(s.TotalTrades) * 100
	}

	if s.Losses == 0 {
		s.ProfitFactor = Ratio(s.Wins)
	} else {
		s.ProfitFactor = Ratio(s.GrossProfit / math.Abs(s.GrossLoss))
	}
	return s
}
