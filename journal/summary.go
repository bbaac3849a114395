package journal

import (
	"fmt"
	"io"
	"text/template"
	"time"

	"github.com/rustyeddy/tradejournal/stats"
	"github.com/rustyeddy/tradejournal/trade"
)

// Summary is the performance report of a whole ledger.
type Summary struct {
	Title   string
	Created time.Time

	// first and last trade dates, as entered
	FirstDate string
	LastDate  string

	Stats stats.Stats
	Open  int

	StartBalance float64
	EndBalance   float64
	ReturnPct    float64
	MaxDD        stats.Drawdown

	Trades []trade.Trade
	Notes  []string
}

// NewSummary derives the report from the ledger's trades and balances.
// Notes carries observations about what the numbers leave out.
func NewSummary(trades []trade.Trade, initial, current float64) Summary {
	s := Summary{
		Title:        "Trading Journal",
		Created:      time.Now(),
		Stats:        stats.Compute(trades),
		StartBalance: initial,
		EndBalance:   current,
		ReturnPct:    stats.ReturnPct(initial, current),
		Trades:       trades,
	}

	curve := stats.Curve(trades, initial)
	s.MaxDD = stats.MaxDrawdown(curve)

	var first, last time.Time
	undated := 0
	for _, t := range trades {
		if !t.IsClosed() {
			s.Open++
		}
		at, ok := stats.ParseDate(t.Date)
		if !ok {
			undated++
			continue
		}
		if s.FirstDate == "" || at.Before(first) {
			first, s.FirstDate = at, t.Date
		}
		if s.LastDate == "" || at.After(last) {
			last, s.LastDate = at, t.Date
		}
	}

	if s.Open > 0 {
		s.Notes = append(s.Notes, fmt.Sprintf("%d open trade(s) left out of win rate and profit factor", s.Open))
	}
	if undated > 0 {
		s.Notes = append(s.Notes, fmt.Sprintf("%d trade(s) without a readable date left out of the date range", undated))
	}
	if s.Stats.Wins > 0 && s.Stats.Losses == 0 {
		s.Notes = append(s.Notes, "no losing trades, profit factor is the win count")
	}
	return s
}

var summaryOrgFuncs = template.FuncMap{
	"money":     money,
	"orgTrades": FormatTradesOrg,
}

var summaryOrg = template.Must(template.New("summary").Funcs(summaryOrgFuncs).Parse(SummaryOrgTemplate))

// WriteOrg renders the summary, followed by one block per trade.
func (s Summary) WriteOrg(w io.Writer) error {
	if err := summaryOrg.Execute(w, s); err != nil {
		return fmt.Errorf("render org summary: %w", err)
	}
	return nil
}

const SummaryOrgTemplate = `* JOURNAL: {{.Title}}
:PROPERTIES:
:START_DATE:  {{if .FirstDate}}{{.FirstDate}}{{else}}(none){{end}}
:END_DATE:    {{if .LastDate}}{{.LastDate}}{{else}}(none){{end}}
:START_BAL:   {{money .StartBalance}}
:END_BAL:     {{money .EndBalance}}
:NET_PL:      {{money .Stats.TotalPnL}}
:RETURN_PCT:  {{printf "%.2f" .ReturnPct}}
:MAX_DD_PCT:  {{printf "%.2f" .MaxDD.Pct}}
:TRADES:      {{.Stats.TotalTrades}}
:OPEN:        {{.Open}}
:WINS:        {{.Stats.Wins}}
:LOSSES:      {{.Stats.Losses}}
:WIN_RATE:    {{printf "%.2f" .Stats.WinRate}}
:PROFIT_FAC:  {{.Stats.ProfitFactor}}
:CREATED:     [{{.Created.Format "2006-01-02 Mon 15:04"}}]
:END:

** Performance Summary
- Net P/L:          *{{money .Stats.TotalPnL}}*
- Return:           *{{printf "%.2f" .ReturnPct}}%*
- Max Drawdown:     *{{money .MaxDD.Amount}} ({{printf "%.2f" .MaxDD.Pct}}%)*
- Win Rate:         *{{printf "%.2f" .Stats.WinRate}}%*
- Profit Factor:    *{{.Stats.ProfitFactor}}*
- Gross Profit:     *{{money .Stats.GrossProfit}}*
- Gross Loss:       *{{money .Stats.GrossLoss}}*

** Trade Distribution
| Outcome | Count |
|---------+-------|
| Wins    | {{.Stats.Wins}} |
| Losses  | {{.Stats.Losses}} |
| Open    | {{.Open}} |
| Total   | {{len .Trades}} |

{{- if .Notes }}

** Observations
{{- range .Notes }}
- {{.}}
{{- end }}
{{- end }}
{{- if .Trades }}

** Trades
{{orgTrades .Trades}}
{{- end }}
`
