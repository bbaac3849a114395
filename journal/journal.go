// Package journal renders the ledger for use outside the application:
// CSV for spreadsheets, Org-mode for notes and YAML/JSON dumps.
package journal

import (
	"github.com/rustyeddy/tradejournal/stats"
	"github.com/rustyeddy/tradejournal/trade"
	"github.com/shopspring/decimal"
)

// Journal receives trades and equity points in ledger order.
type Journal interface {
	RecordTrade(trade.Trade) error
	RecordEquity(stats.Point) error
	Close() error
}

// Record feeds every trade and every point of the equity curve into j and
// closes it.
func Record(j Journal, trades []trade.Trade, curve []stats.Point) error {
	for _, t := range trades {
		if err := j.RecordTrade(t); err != nil {
			j.Close()
			return err
		}
	}
	for _, p := range curve {
		if err := j.RecordEquity(p); err != nil {
			j.Close()
			return err
		}
	}
	return j.Close()
}

// money rounds half away from zero to cents.
func money(x float64) string {
	return decimal.NewFromFloat(x).StringFixed(2)
}
