// Package ledger owns the ordered trade collection and the account balance
// derived from it.
package ledger

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/rustyeddy/tradejournal/trade"
	"go.uber.org/zap"
)

// DefaultInitialBalance is the starting balance of a fresh journal.
const DefaultInitialBalance = 10000

var (
	ErrEmptyID        = errors.New("trade id is empty")
	ErrDuplicateID    = errors.New("trade id already in ledger")
	ErrInvalidBalance = errors.New("initial balance must be greater than 0")
)

// ValidateInitialBalance is the one rule for a starting balance, shared by
// the config file and every runtime change.
func ValidateInitialBalance(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return ErrInvalidBalance
	}
	return nil
}

// AccountState is the balance envelope around the trades. CurrentBalance is
// always derived; a stored value is ignored on load.
type AccountState struct {
	InitialBalance float64 `json:"initialBalance" yaml:"initialBalance"`
	CurrentBalance float64 `json:"currentBalance" yaml:"currentBalance"`
}

// Snapshot is a consistent copy of the ledger at one instant.
type Snapshot struct {
	Trades  []trade.Trade `json:"trades" yaml:"trades"`
	Account AccountState  `json:"account" yaml:"account"`
}

// Ledger keeps trades in log order. All methods are safe for concurrent use;
// readers always see a fully applied mutation.
type Ledger struct {
	mu      sync.RWMutex
	trades  []trade.Trade
	initial float64
	log     *zap.Logger
}

func New(initialBalance float64, logger *zap.Logger) *Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ledger{initial: initialBalance, log: logger}
}

// FromSnapshot rebuilds a ledger from persisted state. Trades keep their
// stored order and PnL.
func FromSnapshot(s Snapshot, logger *zap.Logger) (*Ledger, error) {
	l := New(s.Account.InitialBalance, logger)
	seen := make(map[string]bool, len(s.Trades))
	for _, t := range s.Trades {
		if t.ID == "" {
			return nil, fmt.Errorf("restore ledger: %w", ErrEmptyID)
		}
		if seen[t.ID] {
			return nil, fmt.Errorf("restore ledger: %q: %w", t.ID, ErrDuplicateID)
		}
		seen[t.ID] = true
		l.trades = append(l.trades, t)
	}
	return l, nil
}

// Append adds t at the end of the log.
func (l *Ledger) Append(t trade.Trade) error {
	if t.ID == "" {
		return ErrEmptyID
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.indexOf(t.ID) >= 0 {
		return fmt.Errorf("append %q: %w", t.ID, ErrDuplicateID)
	}
	l.trades = append(l.trades, t)

	l.log.Debug("trade appended",
		zap.String("id", t.ID),
		zap.String("symbol", t.Symbol),
		zap.Float64("pnl", t.PnL()),
		zap.Int("trades", len(l.trades)),
	)
	return nil
}

// Remove deletes the trade with the given id. It reports whether a trade was
// removed; an unknown id is not an error.
func (l *Ledger) Remove(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOf(id)
	if i < 0 {
		return false
	}
	out := make([]trade.Trade, 0, len(l.trades)-1)
	out = append(out, l.trades[:i]...)
	out = append(out, l.trades[i+1:]...)
	l.trades = out

	l.log.Debug("trade removed", zap.String("id", id), zap.Int("trades", len(l.trades)))
	return true
}

func (l *Ledger) SetInitialBalance(v float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.initial = v
	l.log.Debug("initial balance set", zap.Float64("initial_balance", v))
}

func (l *Ledger) InitialBalance() float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.initial
}

// CurrentBalance is the initial balance plus the PnL of every trade. Open
// trades contribute zero.
func (l *Ledger) CurrentBalance() float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.currentBalance()
}

func (l *Ledger) Account() AccountState {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return AccountState{InitialBalance: l.initial, CurrentBalance: l.currentBalance()}
}

func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.trades)
}

func (l *Ledger) Get(id string) (trade.Trade, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	i := l.indexOf(id)
	if i < 0 {
		return trade.Trade{}, false
	}
	return l.trades[i], true
}

// Trades returns a copy of the trades in log order.
func (l *Ledger) Trades() []trade.Trade {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]trade.Trade(nil), l.trades...)
}

// Recent returns up to n of the most recently logged trades, oldest first.
func (l *Ledger) Recent(n int) []trade.Trade {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if n <= 0 {
		return nil
	}
	start := len(l.trades) - n
	if start < 0 {
		start = 0
	}
	return append([]trade.Trade(nil), l.trades[start:]...)
}

func (l *Ledger) Snapshot() Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return Snapshot{
		Trades:  append([]trade.Trade{}, l.trades...),
		Account: AccountState{InitialBalance: l.initial, CurrentBalance: l.currentBalance()},
	}
}

func (l *Ledger) currentBalance() float64 {
	sum := l.initial
	for _, t := range l.trades {
		sum += t.PnL()
	}
	return sum
}

func (l *Ledger) indexOf(id string) int {
	for i := range l.trades {
		if l.trades[i].ID == id {
			return i
		}
	}
	return -1
}
