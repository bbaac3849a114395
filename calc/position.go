package calc

import (
	"errors"
	"math"

	"github.com/rustyeddy/tradejournal/trade"
)

var ErrZeroStop = errors.New("stop distance is zero")

// SizeInputs describes a planned forex entry.
//
// EUR_USD in a USD account → QuoteToAccount = 1.0
// USD_JPY in a USD account → QuoteToAccount = 1 / USDJPY mid
type SizeInputs struct {
	Equity         float64 `json:"equity"`
	RiskPct        float64 `json:"riskPct"` // 0.01 = 1%
	EntryPrice     float64 `json:"entryPrice"`
	StopPrice      float64 `json:"stopPrice"`
	PipLocation    int     `json:"pipLocation"`
	QuoteToAccount float64 `json:"quoteToAccount"`
}

type SizeResult struct {
	Units      float64 `json:"units"`
	Lots       float64 `json:"lots"`
	StopPips   float64 `json:"stopPips"`
	RiskAmount float64 `json:"riskAmount"`
}

// PositionSize returns the whole number of units that loses RiskPct of
// equity if the stop is hit, and the same size in standard lots.
func PositionSize(in SizeInputs) (SizeResult, error) {
	pip := PipSize(in.PipLocation)
	stopPips := math.Abs(in.EntryPrice-in.StopPrice) / pip
	if stopPips == 0 {
		return SizeResult{}, ErrZeroStop
	}

	q := in.QuoteToAccount
	if q == 0 {
		q = 1
	}

	riskAmt := in.Equity * in.RiskPct
	units := math.Floor(riskAmt / (stopPips * pip * q))

	return SizeResult{
		Units:      units,
		Lots:       units / trade.ForexLotUnits,
		StopPips:   stopPips,
		RiskAmount: riskAmt,
	}, nil
}

// RR is the reward to risk multiple of a planned trade, zero without risk.
func RR(entry, stop, takeProfit float64) float64 {
	risk := math.Abs(entry - stop)
	if risk == 0 {
		return 0
	}
	return math.Abs(takeProfit-entry) / risk
}
