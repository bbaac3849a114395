package journal

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/rustyeddy/tradejournal/ledger"
	"github.com/rustyeddy/tradejournal/stats"
	"github.com/rustyeddy/tradejournal/trade"
	"gopkg.in/yaml.v3"
)

// Dump is the full ledger with its derived statistics.
type Dump struct {
	Account ledger.AccountState `json:"account" yaml:"account"`
	Stats   stats.Stats         `json:"stats" yaml:"stats"`

	// ProfitFactor repeats Stats.ProfitFactor as text; YAML has no infinity
	// literal that every reader accepts.
	ProfitFactor string        `json:"profitFactorLabel" yaml:"profitFactor"`
	Trades       []trade.Trade `json:"trades" yaml:"trades"`
}

func NewDump(s ledger.Snapshot) Dump {
	st := stats.Compute(s.Trades)
	d := Dump{
		Account:      s.Account,
		Stats:        st,
		ProfitFactor: st.ProfitFactor.String(),
		Trades:       s.Trades,
	}
	if d.Trades == nil {
		d.Trades = []trade.Trade{}
	}
	return d
}

func WriteYAML(w io.Writer, s ledger.Snapshot) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(NewDump(s)); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

func WriteJSON(w io.Writer, s ledger.Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewDump(s)); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
