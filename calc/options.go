package calc

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ContractMultiplier is the number of shares one equity option controls.
const ContractMultiplier = 100

type OptionType string

const (
	Call OptionType = "Call"
	Put  OptionType = "Put"
)

func ParseOptionType(s string) (OptionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "call", "":
		return Call, nil
	case "put":
		return Put, nil
	}
	return "", fmt.Errorf("unknown option type %q", s)
}

type OptionsInput struct {
	Type         OptionType `json:"type"`
	Contracts    float64    `json:"contracts"`
	EntryPremium *float64   `json:"entryPremium"`
	ExitPremium  *float64   `json:"exitPremium"`
}

// OptionsPnL is (exit premium - entry premium) * 100 * contracts. The same
// formula holds for calls and puts bought to open. A missing premium gives 0.
func OptionsPnL(in OptionsInput) float64 {
	if in.EntryPremium == nil || in.ExitPremium == nil {
		return 0
	}
	return decimal.NewFromFloat(*in.ExitPremium).
		Sub(decimal.NewFromFloat(*in.EntryPremium)).
		Mul(decimal.NewFromInt(ContractMultiplier)).
		Mul(decimal.NewFromFloat(in.Contracts)).
		InexactFloat64()
}
