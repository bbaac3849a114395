package journal

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/tradejournal/trade"
)

// FormatTradeOrg renders a trade as an Org-mode block suitable for pasting into a journal.
// Structured facts go in a PROPERTIES drawer for search; the narrative
// sections are left for the trader to fill in.
func FormatTradeOrg(t trade.Trade) string {
	heading := fmt.Sprintf("** %s %s %s (%s)", t.Date, t.Direction, t.Symbol, shortID(t.ID))
	if t.IsClosed() {
		heading += " :" + winLoss(t.PnL()) + ":"
	}

	var b strings.Builder
	b.WriteString(heading)
	b.WriteString("\n")
	b.WriteString(":PROPERTIES:\n")
	b.WriteString(fmt.Sprintf(":ID: %s\n", t.ID))
	b.WriteString(fmt.Sprintf(":DATE: %s\n", t.Date))
	b.WriteString(fmt.Sprintf(":ASSET_CLASS: %s\n", t.AssetClass))
	b.WriteString(fmt.Sprintf(":SYMBOL: %s\n", t.Symbol))
	b.WriteString(fmt.Sprintf(":DIRECTION: %s\n", t.Direction))
	b.WriteString(fmt.Sprintf(":QUANTITY: %s\n", f(t.Quantity)))
	b.WriteString(fmt.Sprintf(":ENTRY_PRICE: %s\n", f(t.EntryPrice)))
	b.WriteString(fmt.Sprintf(":EXIT_PRICE: %s\n", f(t.ExitPrice)))
	b.WriteString(fmt.Sprintf(":STATUS: %s\n", t.Status))
	b.WriteString(fmt.Sprintf(":PNL: %s\n", money(t.PnL())))
	if t.Fees != nil {
		b.WriteString(fmt.Sprintf(":FEES: %s\n", money(*t.Fees)))
	}
	b.WriteString(":END:\n")
	b.WriteString("\n")
	b.WriteString("*** Thesis\n")
	if t.Notes != "" {
		b.WriteString(t.Notes)
		b.WriteString("\n\n")
	} else {
		b.WriteString("- \n\n")
	}
	b.WriteString("*** Execution\n- \n\n")
	b.WriteString("*** Review\n- \n")

	return b.String()
}

// FormatTradesOrg renders multiple trades separated by blank lines.
func FormatTradesOrg(trades []trade.Trade) string {
	var b strings.Builder
	for i, t := range trades {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(FormatTradeOrg(t))
	}
	return b.String()
}

func winLoss(pnl float64) string {
	if pnl > 0 {
		return "win"
	}
	return "loss"
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[len(full)-8:]
}
