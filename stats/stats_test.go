package stats

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/rustyeddy/tradejournal/trade"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withPnL(id, date string, entry, exit float64) trade.Trade {
	return trade.New(id, trade.Draft{
		Date:       date,
		AssetClass: trade.Stocks,
		Symbol:     "SPY",
		Direction:  trade.Long,
		EntryPrice: entry,
		ExitPrice:  exit,
		Quantity:   1,
		Status:     trade.Closed,
	})
}

func open(id, date string) trade.Trade {
	return trade.New(id, trade.Draft{
		Date:       date,
		AssetClass: trade.Stocks,
		Symbol:     "QQQ",
		Direction:  trade.Short,
		EntryPrice: 10,
		ExitPrice:  10,
		Quantity:   1,
		Status:     trade.Open,
	})
}

func TestComputeEmpty(t *testing.T) {
	t.Parallel()

	s := Compute(nil)
	assert.Equal(t, 0, s.TotalTrades)
	assert.Equal(t, 0.0, s.WinRate)
	assert.False(t, math.IsNaN(s.WinRate))
	assert.Equal(t, Ratio(0), s.ProfitFactor)

	s = Compute([]trade.Trade{open("o", "2024-01-01")})
	assert.Equal(t, 0, s.TotalTrades)
	assert.Equal(t, 0.0, s.WinRate)
}

func TestComputeScenarios(t *testing.T) {
	t.Parallel()

	fx := trade.New("a", trade.Draft{
		Date:       "2024-01-01",
		AssetClass: trade.Forex,
		Symbol:     "EURUSD",
		Direction:  trade.Long,
		EntryPrice: 1.1000,
		ExitPrice:  1.1050,
		Quantity:   1,
		Status:     trade.Closed,
	})

	// one winning forex trade
	s := Compute([]trade.Trade{fx})
	assert.Equal(t, 1, s.TotalTrades)
	assert.Equal(t, 100.0, s.WinRate)
	assert.Equal(t, Ratio(1), s.ProfitFactor)

	// a 200 loss added
	loser := withPnL("b", "2024-01-02", 400, 200)
	s = Compute([]trade.Trade{fx, loser})
	assert.InDelta(t, 300, s.TotalPnL, 1e-6)
	assert.Equal(t, 50.0, s.WinRate)
	assert.InDelta(t, 2.5, s.ProfitFactor.Float64(), 1e-9)

	// an open trade changes nothing
	s = Compute([]trade.Trade{fx, loser, open("c", "2024-01-03")})
	assert.Equal(t, 2, s.TotalTrades)
	assert.Equal(t, 50.0, s.WinRate)
	assert.InDelta(t, 2.5, s.ProfitFactor.Float64(), 1e-9)
}

func TestProfitFactorFallbackIsWinCount(t *testing.T) {
	t.Parallel()

	trades := []trade.Trade{
		withPnL("a", "2024-01-01", 10, 20),
		withPnL("b", "2024-01-02", 10, 11),
		withPnL("c", "2024-01-03", 10, 500),
	}
	s := Compute(trades)
	assert.Equal(t, 0, s.Losses)
	assert.Equal(t, Ratio(3), s.ProfitFactor)
	assert.True(t, s.ProfitFactor.IsFinite())
}

func TestZeroPnLCountsAsLoss(t *testing.T) {
	t.Parallel()

	s := Compute([]trade.Trade{
		withPnL("a", "2024-01-01", 10, 20),
		withPnL("b", "2024-01-02", 10, 10),
	})
	assert.Equal(t, 1, s.Wins)
	assert.Equal(t, 1, s.Losses)
	assert.Equal(t, 50.0, s.WinRate)

	// gross loss is zero, so the ratio is infinite rather than a number
	assert.False(t, s.ProfitFactor.IsFinite())
	assert.True(t, s.ProfitFactor.IsInf())
	assert.Equal(t, "∞", s.ProfitFactor.String())

	s = Compute([]trade.Trade{withPnL("z", "2024-01-01", 10, 10)})
	assert.True(t, math.IsNaN(s.ProfitFactor.Float64()))
	assert.Equal(t, "n/a", s.ProfitFactor.String())
}

func TestRatioJSON(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(struct {
		A Ratio `json:"a"`
		B Ratio `json:"b"`
	}{A: 2.5, B: Ratio(math.Inf(1))})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":2.5,"b":null}`, string(b))
	assert.Equal(t, "2.50", Ratio(2.5).String())
}
