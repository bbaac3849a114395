package journal

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/rustyeddy/tradejournal/stats"
	"github.com/rustyeddy/tradejournal/trade"
)

var (
	TradeHeader  = []string{"id", "date", "asset_class", "symbol", "direction", "entry_price", "exit_price", "quantity", "status", "pnl", "fees", "notes"}
	EquityHeader = []string{"label", "balance", "pnl"}
)

type CSVJournal struct {
	trades  *csv.Writer
	equity  *csv.Writer
	closers []io.Closer
}

// NewCSV creates (or truncates) the two CSV files and writes their headers.
func NewCSV(tradesPath, equityPath string) (*CSVJournal, error) {
	tf, err := os.Create(tradesPath)
	if err != nil {
		return nil, err
	}
	ef, err := os.Create(equityPath)
	if err != nil {
		tf.Close()
		return nil, err
	}

	j, err := NewCSVWriter(tf, ef)
	if err != nil {
		tf.Close()
		ef.Close()
		return nil, err
	}
	j.closers = []io.Closer{tf, ef}
	return j, nil
}

// NewCSVWriter writes to caller owned writers. Either may be io.Discard.
func NewCSVWriter(trades, equity io.Writer) (*CSVJournal, error) {
	tw := csv.NewWriter(trades)
	ew := csv.NewWriter(equity)

	if err := tw.Write(TradeHeader); err != nil {
		return nil, err
	}
	if err := ew.Write(EquityHeader); err != nil {
		return nil, err
	}

	tw.Flush()
	if err := tw.Error(); err != nil {
		return nil, err
	}
	ew.Flush()
	if err := ew.Error(); err != nil {
		return nil, err
	}

	return &CSVJournal{trades: tw, equity: ew}, nil
}

func (j *CSVJournal) RecordTrade(t trade.Trade) error {
	fees := ""
	if t.Fees != nil {
		fees = f(*t.Fees)
	}
	err := j.trades.Write([]string{
		t.ID,
		t.Date,
		string(t.AssetClass),
		t.Symbol,
		string(t.Direction),
		f(t.EntryPrice),
		f(t.ExitPrice),
		f(t.Quantity),
		string(t.Status),
		money(t.PnL()),
		fees,
		t.Notes,
	})
	if err != nil {
		return err
	}
	j.trades.Flush()
	return j.trades.Error()
}

func (j *CSVJournal) RecordEquity(p stats.Point) error {
	err := j.equity.Write([]string{
		p.Label,
		money(p.Balance),
		money(p.PnL),
	})
	if err != nil {
		return err
	}

	j.equity.Flush()
	return j.equity.Error()
}

func (j *CSVJournal) Close() error {
	j.trades.Flush()
	if err := j.trades.Error(); err != nil {
		return err
	}
	j.equity.Flush()
	if err := j.equity.Error(); err != nil {
		return err
	}

	for _, c := range j.closers {
		if err := c.Close(); err != nil {
			return err
		}
	}
	j.closers = nil
	return nil
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
