// Package trade defines the journal's trade record and the arithmetic that
// prices it.
package trade

import (
	"encoding/json"
	"fmt"
	"strings"
)

type AssetClass string

const (
	Forex     AssetClass = "Forex"
	Crypto    AssetClass = "Crypto"
	Index     AssetClass = "Index"
	Commodity AssetClass = "Commodity"
	Futures   AssetClass = "Futures"
	Metals    AssetClass = "Metals"
	Stocks    AssetClass = "Stocks"
)

// AssetClasses lists every supported asset class in display order.
var AssetClasses = []AssetClass{Forex, Crypto, Index, Commodity, Futures, Metals, Stocks}

type Direction string

const (
	Long  Direction = "Long"
	Short Direction = "Short"
)

type Status string

const (
	Open   Status = "Open"
	Closed Status = "Closed"
)

// ParseAssetClass matches s case-insensitively against the known asset classes.
func ParseAssetClass(s string) (AssetClass, error) {
	for _, a := range AssetClasses {
		if strings.EqualFold(strings.TrimSpace(s), string(a)) {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown asset class %q", s)
}

func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "long", "buy":
		return Long, nil
	case "short", "sell":
		return Short, nil
	}
	return "", fmt.Errorf("unknown direction %q", s)
}

func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "open":
		return Open, nil
	case "closed", "close":
		return Closed, nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// Draft is a normalized trade that has not been assigned an id yet.
type Draft struct {
	Date       string
	AssetClass AssetClass
	Symbol     string
	Direction  Direction
	EntryPrice float64
	ExitPrice  float64
	Quantity   float64
	Status     Status
	Notes      string
	Fees       *float64
}

// Trade is one logged position. Its PnL is fixed when the trade is created
// and is never recomputed afterwards.
type Trade struct {
	ID         string
	Date       string
	AssetClass AssetClass
	Symbol     string
	Direction  Direction
	EntryPrice float64
	ExitPrice  float64
	Quantity   float64
	Status     Status
	Notes      string
	Fees       *float64

	pnl float64
}

// New turns a draft into a trade, pricing it once. Open trades carry zero PnL.
func New(id string, d Draft) Trade {
	t := Trade{
		ID:         id,
		Date:       d.Date,
		AssetClass: d.AssetClass,
		Symbol:     d.Symbol,
		Direction:  d.Direction,
		EntryPrice: d.EntryPrice,
		ExitPrice:  d.ExitPrice,
		Quantity:   d.Quantity,
		Status:     d.Status,
		Notes:      d.Notes,
		Fees:       d.Fees,
	}
	if d.Status == Closed {
		t.pnl = ComputePnL(d.EntryPrice, d.ExitPrice, d.Quantity, d.Direction, d.AssetClass)
	}
	return t
}

func (t Trade) PnL() float64 { return t.pnl }

func (t Trade) IsClosed() bool { return t.Status == Closed }

// record is the persisted shape. Field names follow the journal's stored
// format so existing blobs load unchanged.
type record struct {
	ID         string     `json:"id" yaml:"id"`
	Date       string     `json:"date" yaml:"date"`
	AssetClass AssetClass `json:"assetClass" yaml:"assetClass"`
	Symbol     string     `json:"symbol" yaml:"symbol"`
	Direction  Direction  `json:"direction" yaml:"direction"`
	EntryPrice float64    `json:"entryPrice" yaml:"entryPrice"`
	ExitPrice  float64    `json:"exitPrice" yaml:"exitPrice"`
	Quantity   float64    `json:"quantity" yaml:"quantity"`
	PnL        float64    `json:"pnl" yaml:"pnl"`
	Status     Status     `json:"status" yaml:"status"`
	Notes      string     `json:"notes,omitempty" yaml:"notes,omitempty"`
	Fees       *float64   `json:"fees,omitempty" yaml:"fees,omitempty"`
}

func (t Trade) toRecord() record {
	return record{
		ID:         t.ID,
		Date:       t.Date,
		AssetClass: t.AssetClass,
		Symbol:     t.Symbol,
		Direction:  t.Direction,
		EntryPrice: t.EntryPrice,
		ExitPrice:  t.ExitPrice,
		Quantity:   t.Quantity,
		PnL:        t.pnl,
		Status:     t.Status,
		Notes:      t.Notes,
		Fees:       t.Fees,
	}
}

func (r record) toTrade() Trade {
	return Trade{
		ID:         r.ID,
		Date:       r.Date,
		AssetClass: r.AssetClass,
		Symbol:     r.Symbol,
		Direction:  r.Direction,
		EntryPrice: r.EntryPrice,
		ExitPrice:  r.ExitPrice,
		Quantity:   r.Quantity,
		Status:     r.Status,
		Notes:      r.Notes,
		Fees:       r.Fees,
		pnl:        r.PnL,
	}
}

func (t Trade) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.toRecord())
}

// UnmarshalJSON restores a stored trade, keeping the PnL it was logged with.
func (t *Trade) UnmarshalJSON(b []byte) error {
	var r record
	if err := json.Unmarshal(b, &r); err != nil {
		return err
	}
	*t = r.toTrade()
	return nil
}

func (t Trade) MarshalYAML() (any, error) {
	return t.toRecord(), nil
}
