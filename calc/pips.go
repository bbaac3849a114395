// Package calc holds the journal's standalone trading calculators. Inputs
// are prices as typed by a user, so the arithmetic runs in decimal to keep
// 1.1050 - 1.1000 equal to 0.0050.
package calc

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Per pip value of one standard lot in USD, approximated per pair family.
const (
	PipValueUSD = 10
	PipValueJPY = 9
)

// PipLocation is the decimal exponent of one pip: -2 for JPY pairs, -4 otherwise.
func PipLocation(pair string) int {
	if IsJPY(pair) {
		return -2
	}
	return -4
}

func IsJPY(pair string) bool {
	return strings.Contains(strings.ToUpper(pair), "JPY")
}

// PipSize returns the price size of one pip for a pip location.
func PipSize(loc int) float64 {
	return math.Pow(10, float64(loc))
}

type PipsInput struct {
	Pair  string   `json:"pair"`
	Entry *float64 `json:"entry"`
	Exit  *float64 `json:"exit"`
	Lots  *float64 `json:"lots"`
}

type PipsResult struct {
	Pips   float64 `json:"pips"`
	Profit float64 `json:"profit"`
}

// Pips measures the move from entry to exit in pips and estimates the USD
// result for the lot size (default one lot). A missing entry or exit gives
// a zero result.
func Pips(in PipsInput) PipsResult {
	if in.Entry == nil || in.Exit == nil {
		return PipsResult{}
	}
	lots := decimal.NewFromInt(1)
	if in.Lots != nil {
		lots = decimal.NewFromFloat(*in.Lots)
	}

	mult := decimal.New(1, int32(-PipLocation(in.Pair)))
	pips := decimal.NewFromFloat(*in.Exit).Sub(decimal.NewFromFloat(*in.Entry)).Mul(mult)

	perPip := decimal.NewFromInt(PipValueUSD)
	if IsJPY(in.Pair) {
		perPip = decimal.NewFromInt(PipValueJPY)
	}

	return PipsResult{
		Pips:   pips.InexactFloat64(),
		Profit: pips.Mul(lots).Mul(perPip).InexactFloat64(),
	}
}
