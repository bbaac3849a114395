// Package storage persists a ledger snapshot as two opaque blobs, one holding
// the trades and one holding the account state.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rustyeddy/tradejournal/ledger"
	"github.com/rustyeddy/tradejournal/trade"
)

const (
	TradesKey  = "decoders_trades"
	AccountKey = "decoders_account"
)

// ErrNotFound is returned by Load when neither blob has been written yet.
var ErrNotFound = errors.New("no saved journal")

// StorageError describes a failed blob operation.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Store loads and saves ledger snapshots. Load uses initialBalance when the
// trades blob exists without an account blob.
type Store interface {
	Load(ctx context.Context, initialBalance float64) (ledger.Snapshot, error)
	Save(ctx context.Context, s ledger.Snapshot) error
	Close() error
}

// blobs is the raw key/value surface a backend provides. get reports
// whether the key exists; put writes every pair or none.
type blobs interface {
	get(ctx context.Context, keys ...string) (map[string][]byte, error)
	put(ctx context.Context, kv map[string][]byte) error
}

// codec implements Store on top of any blobs backend.
type codec struct {
	b blobs
}

func (c codec) Load(ctx context.Context, initialBalance float64) (ledger.Snapshot, error) {
	got, err := c.b.get(ctx, TradesKey, AccountKey)
	if err != nil {
		return ledger.Snapshot{}, err
	}
	tb, hasTrades := got[TradesKey]
	ab, hasAccount := got[AccountKey]
	if !hasTrades && !hasAccount {
		return ledger.Snapshot{}, ErrNotFound
	}
	return decode(tb, ab, initialBalance)
}

func (c codec) Save(ctx context.Context, s ledger.Snapshot) error {
	kv, err := encode(s)
	if err != nil {
		return err
	}
	return c.b.put(ctx, kv)
}

func encode(s ledger.Snapshot) (map[string][]byte, error) {
	trades := s.Trades
	if trades == nil {
		trades = []trade.Trade{}
	}
	tb, err := json.Marshal(trades)
	if err != nil {
		return nil, &StorageError{Op: "encode", Key: TradesKey, Err: err}
	}
	ab, err := json.Marshal(s.Account)
	if err != nil {
		return nil, &StorageError{Op: "encode", Key: AccountKey, Err: err}
	}
	return map[string][]byte{TradesKey: tb, AccountKey: ab}, nil
}

// decode parses both blobs. A missing account blob starts from seed; the
// stored current balance is recomputed.
func decode(tb, ab []byte, seed float64) (ledger.Snapshot, error) {
	s := ledger.Snapshot{
		Trades:  []trade.Trade{},
		Account: ledger.AccountState{InitialBalance: seed},
	}
	if len(tb) > 0 {
		if err := json.Unmarshal(tb, &s.Trades); err != nil {
			return ledger.Snapshot{}, &StorageError{Op: "decode", Key: TradesKey, Err: err}
		}
	}
	if len(ab) > 0 {
		if err := json.Unmarshal(ab, &s.Account); err != nil {
			return ledger.Snapshot{}, &StorageError{Op: "decode", Key: AccountKey, Err: err}
		}
	}

	s.Account.CurrentBalance = s.Account.InitialBalance
	for _, t := range s.Trades {
		s.Account.CurrentBalance += t.PnL()
	}
	return s, nil
}
