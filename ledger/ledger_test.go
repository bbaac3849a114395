package ledger

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"testing"

	"github.com/rustyeddy/tradejournal/trade"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func closedTrade(id string, entry, exit float64) trade.Trade {
	return trade.New(id, trade.Draft{
		Date:       "2024-01-01",
		AssetClass: trade.Stocks,
		Symbol:     "AAPL",
		Direction:  trade.Long,
		EntryPrice: entry,
		ExitPrice:  exit,
		Quantity:   1,
		Status:     trade.Closed,
	})
}

func openTrade(id string) trade.Trade {
	return trade.New(id, trade.Draft{
		Date:       "2024-01-02",
		AssetClass: trade.Stocks,
		Symbol:     "MSFT",
		Direction:  trade.Long,
		EntryPrice: 400,
		ExitPrice:  400,
		Quantity:   1,
		Status:     trade.Open,
	})
}

func sumPnL(l *Ledger) float64 {
	s := l.InitialBalance()
	for _, t := range l.Trades() {
		s += t.PnL()
	}
	return s
}

func TestLedgerAppendRemove(t *testing.T) {
	t.Parallel()

	l := New(DefaultInitialBalance, zaptest.NewLogger(t))
	assert.Equal(t, 10000.0, l.CurrentBalance())

	require.NoError(t, l.Append(closedTrade("a", 100, 150)))
	require.NoError(t, l.Append(closedTrade("b", 100, 80)))
	require.NoError(t, l.Append(openTrade("c")))

	assert.Equal(t, 3, l.Len())
	assert.Equal(t, 10030.0, l.CurrentBalance())

	ids := []string{}
	for _, tr := range l.Trades() {
		ids = append(ids, tr.ID)
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)

	assert.True(t, l.Remove("b"))
	assert.False(t, l.Remove("b"))
	assert.False(t, l.Remove("missing"))
	assert.Equal(t, 10050.0, l.CurrentBalance())

	_, ok := l.Get("b")
	assert.False(t, ok)
	got, ok := l.Get("a")
	require.True(t, ok)
	assert.Equal(t, 50.0, got.PnL())
}

func TestLedgerRejectsBadIDs(t *testing.T) {
	t.Parallel()

	l := New(0, nil)
	assert.ErrorIs(t, l.Append(closedTrade("", 1, 2)), ErrEmptyID)
	require.NoError(t, l.Append(closedTrade("x", 1, 2)))
	assert.ErrorIs(t, l.Append(closedTrade("x", 1, 3)), ErrDuplicateID)
	assert.Equal(t, 1, l.Len())
}

func TestValidateInitialBalance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		v    float64
		want error
	}{
		{10000, nil},
		{0.01, nil},
		{0, ErrInvalidBalance},
		{-5, ErrInvalidBalance},
		{math.NaN(), ErrInvalidBalance},
		{math.Inf(1), ErrInvalidBalance},
	}
	for _, tt := range tests {
		assert.ErrorIs(t, ValidateInitialBalance(tt.v), tt.want, "%v", tt.v)
	}
}

func TestLedgerSetInitialBalance(t *testing.T) {
	t.Parallel()

	l := New(10000, nil)
	require.NoError(t, l.Append(closedTrade("a", 10, 15)))
	l.SetInitialBalance(2500)

	acct := l.Account()
	assert.Equal(t, 2500.0, acct.InitialBalance)
	assert.Equal(t, 2505.0, acct.CurrentBalance)
}

func TestLedgerBalanceConsistentUnderRandomOps(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(42))
	l := New(10000, nil)
	var ids []string

	for i := 0; i < 500; i++ {
		switch op := rng.Intn(4); {
		case op <= 1:
			id := fmt.Sprintf("t%d", i)
			var tr trade.Trade
			if rng.Intn(5) == 0 {
				tr = openTrade(id)
			} else {
				tr = closedTrade(id, 100, 100+rng.Float64()*40-20)
			}
			require.NoError(t, l.Append(tr))
			ids = append(ids, id)
		case op == 2 && len(ids) > 0:
			k := rng.Intn(len(ids))
			l.Remove(ids[k])
			ids = append(ids[:k], ids[k+1:]...)
		default:
			l.SetInitialBalance(rng.Float64() * 50000)
		}

		assert.Equal(t, sumPnL(l), l.CurrentBalance())
		assert.Equal(t, len(ids), l.Len())
	}
}

func TestLedgerDeleteRoundTrip(t *testing.T) {
	t.Parallel()

	l := New(10000, nil)
	require.NoError(t, l.Append(closedTrade("a", 100, 120)))
	require.NoError(t, l.Append(openTrade("b")))
	before := l.Snapshot()

	require.NoError(t, l.Append(closedTrade("c", 100, 37.5)))
	assert.NotEqual(t, before.Account, l.Account())
	require.True(t, l.Remove("c"))

	assert.Equal(t, before, l.Snapshot())
}

func TestLedgerRecent(t *testing.T) {
	t.Parallel()

	l := New(0, nil)
	for i := 0; i < 12; i++ {
		require.NoError(t, l.Append(closedTrade(fmt.Sprintf("t%02d", i), 1, 2)))
	}

	recent := l.Recent(10)
	require.Len(t, recent, 10)
	assert.Equal(t, "t02", recent[0].ID)
	assert.Equal(t, "t11", recent[9].ID)
	assert.Len(t, l.Recent(50), 12)
	assert.Nil(t, l.Recent(0))
}

func TestFromSnapshotIgnoresStoredBalance(t *testing.T) {
	t.Parallel()

	snap := Snapshot{
		Trades:  []trade.Trade{closedTrade("a", 1, 3), openTrade("b")},
		Account: AccountState{InitialBalance: 100, CurrentBalance: 999999},
	}
	l, err := FromSnapshot(snap, nil)
	require.NoError(t, err)
	assert.Equal(t, 102.0, l.CurrentBalance())

	snap.Trades = append(snap.Trades, closedTrade("a", 5, 6))
	_, err = FromSnapshot(snap, nil)
	assert.ErrorIs(t, err, ErrDuplicateID)
}

func TestLedgerConcurrentReadersSeeConsistentSnapshots(t *testing.T) {
	t.Parallel()

	l := New(1000, nil)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			id := fmt.Sprintf("w%d", i)
			_ = l.Append(closedTrade(id, 10, 11))
			if i%3 == 0 {
				l.Remove(id)
			}
		}
	}()

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				s := l.Snapshot()
				want := s.Account.InitialBalance
				for _, tr := range s.Trades {
					want += tr.PnL()
				}
				assert.Equal(t, want, s.Account.CurrentBalance)
			}
		}()
	}
	wg.Wait()
}
