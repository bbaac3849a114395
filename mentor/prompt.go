// Package mentor asks a language model for qualitative feedback on recent
// trades.
package mentor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"text/template"

	"github.com/rustyeddy/tradejournal/trade"
)

const (
	// SampleSize caps how many of the latest trades are sent.
	SampleSize = 10
	// MinTrades is the journal size below which no request is made.
	MinTrades = 3
)

// Request is the input to one analysis.
type Request struct {
	Trades  []trade.Trade
	Balance float64
}

// NewRequest keeps the last SampleSize trades in log order.
func NewRequest(trades []trade.Trade, balance float64) Request {
	if len(trades) > SampleSize {
		trades = trades[len(trades)-SampleSize:]
	}
	return Request{Trades: append([]trade.Trade(nil), trades...), Balance: balance}
}

const promptTemplate = `
You are a world-class trading mentor at 'Chart Decoders'.
Current Account Balance: ${{.Balance}}.

Here is a JSON list of the user's recent trades:
{{.TradesJSON}}

Please provide a concise, professional analysis (max 3 paragraphs).
1. Identify any patterns in winning vs losing trades.
2. Comment on risk management based on the PnL sizes.
3. Give one actionable piece of advice to improve profitability.

Keep the tone encouraging but strict regarding discipline.
`

var prompt = template.Must(template.New("mentor").Parse(promptTemplate))

// FormatPrompt renders the request as model input text.
func FormatPrompt(req Request) (string, error) {
	trades := req.Trades
	if trades == nil {
		trades = []trade.Trade{}
	}
	tj, err := json.Marshal(trades)
	if err != nil {
		return "", fmt.Errorf("encode trades: %w", err)
	}

	var buf bytes.Buffer
	err = prompt.Execute(&buf, struct {
		Balance    string
		TradesJSON string
	}{
		Balance:    fmt.Sprintf("%.2f", req.Balance),
		TradesJSON: string(tj),
	})
	if err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return buf.String(), nil
}
