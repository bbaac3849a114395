// Package app ties the ledger to its store and the mentor. It loads the
// journal once at start and saves it after every change.
package app

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/rustyeddy/tradejournal/config"
	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/ledger"
	"github.com/rustyeddy/tradejournal/mentor"
	"github.com/rustyeddy/tradejournal/pkg/id"
	"github.com/rustyeddy/tradejournal/stats"
	"github.com/rustyeddy/tradejournal/storage"
	"github.com/rustyeddy/tradejournal/trade"
	"go.uber.org/zap"
)

type Options struct {
	Store     storage.Store
	Generator mentor.Generator

	// InitialBalance seeds a journal that has never been saved, or one
	// whose account blob is missing. Zero means DefaultInitialBalance.
	InitialBalance float64
	Logger         *zap.Logger
}

type App struct {
	// mu orders mutate-then-save so snapshots reach the store in the
	// order the mutations happened.
	mu sync.Mutex

	ledger  *ledger.Ledger
	store   storage.Store
	session *mentor.Session
	log     *zap.Logger
	newID   func() string
}

// New loads the journal from opts.Store. A store that has never been
// written starts an empty ledger at opts.InitialBalance.
func New(ctx context.Context, opts Options) (*App, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Store == nil {
		opts.Store = storage.NewMemory()
	}
	initial := opts.InitialBalance
	if initial == 0 {
		initial = ledger.DefaultInitialBalance
	}
	if err := ledger.ValidateInitialBalance(initial); err != nil {
		return nil, fmt.Errorf("initial balance %v: %w", opts.InitialBalance, err)
	}

	var l *ledger.Ledger
	snap, err := opts.Store.Load(ctx, initial)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		log.Info("starting new journal", zap.Float64("initial_balance", initial))
		l = ledger.New(initial, log)
	case err != nil:
		return nil, fmt.Errorf("load journal: %w", err)
	default:
		l, err = ledger.FromSnapshot(snap, log)
		if err != nil {
			return nil, fmt.Errorf("load journal: %w", err)
		}
		log.Info("journal loaded",
			zap.Int("trades", l.Len()),
			zap.Float64("initial_balance", l.InitialBalance()),
			zap.Float64("current_balance", l.CurrentBalance()),
		)
	}

	return &App{
		ledger:  l,
		store:   opts.Store,
		session: mentor.NewSession(mentor.New(opts.Generator, log.Named("mentor"))),
		log:     log,
		newID:   id.New,
	}, nil
}

// Open builds the store and mentor client described by cfg and loads the
// journal.
func Open(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	store, err := storage.Open(ctx, StorageOptions(cfg))
	if err != nil {
		return nil, err
	}

	timeout, err := cfg.Mentor.ParseTimeout()
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("mentor timeout: %w", err)
	}
	gen := mentor.NewGeminiClient(cfg.Mentor.APIKey, cfg.Mentor.Model, timeout)
	if cfg.Mentor.BaseURL != "" {
		gen.WithBaseURL(cfg.Mentor.BaseURL)
	}

	a, err := New(ctx, Options{
		Store:          store,
		Generator:      gen,
		InitialBalance: cfg.Account.InitialBalance,
		Logger:         log,
	})
	if err != nil {
		store.Close()
		return nil, err
	}
	return a, nil
}

func StorageOptions(cfg *config.Config) storage.Options {
	return storage.Options{
		Type:   cfg.Storage.Type,
		Dir:    cfg.Storage.Dir,
		DBPath: cfg.Storage.DBPath,
		Redis: storage.RedisOptions{
			Addr:      cfg.Storage.Redis.Addr,
			Password:  cfg.Storage.Redis.Password,
			DB:        cfg.Storage.Redis.DB,
			KeyPrefix: cfg.Storage.Redis.KeyPrefix,
		},
	}
}

// AddTrade validates in, logs the trade and saves the journal. A save
// failure is returned as a *storage.StorageError together with the trade,
// which stays in the ledger.
func (a *App) AddTrade(ctx context.Context, in trade.Input) (trade.Trade, error) {
	d, err := trade.Normalize(in)
	if err != nil {
		return trade.Trade{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	t := trade.New(a.newID(), d)
	if err := a.ledger.Append(t); err != nil {
		return trade.Trade{}, err
	}
	a.log.Info("trade logged",
		zap.String("id", t.ID),
		zap.String("symbol", t.Symbol),
		zap.String("status", string(t.Status)),
		zap.Float64("pnl", t.PnL()),
	)
	return t, a.save(ctx)
}

// DeleteTrade removes a trade by id. Deleting an unknown id is not an error
// and does not touch the store.
func (a *App) DeleteTrade(ctx context.Context, tradeID string) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.ledger.Remove(tradeID) {
		return false, nil
	}
	a.log.Info("trade deleted", zap.String("id", tradeID))
	return true, a.save(ctx)
}

// SetInitialBalance replaces the starting balance. It follows the same rule
// as the config file: a finite amount greater than zero.
func (a *App) SetInitialBalance(ctx context.Context, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &trade.ValidationError{Field: "initialBalance", Reason: "not a finite number", Err: trade.ErrInvalidNumericField}
	}
	if err := ledger.ValidateInitialBalance(v); err != nil {
		return &trade.ValidationError{Field: "initialBalance", Reason: err.Error(), Err: trade.ErrOutOfRange}
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.ledger.SetInitialBalance(v)
	a.log.Info("initial balance set", zap.Float64("initial_balance", v))
	return a.save(ctx)
}

func (a *App) save(ctx context.Context) error {
	err := a.store.Save(ctx, a.ledger.Snapshot())
	if err == nil {
		return nil
	}
	var se *storage.StorageError
	if !errors.As(err, &se) {
		se = &storage.StorageError{Op: "save", Err: err}
	}
	a.log.Error("journal not saved", zap.Error(se))
	return se
}

func (a *App) Account() ledger.AccountState { return a.ledger.Account() }

func (a *App) Trades() []trade.Trade { return a.ledger.Trades() }

func (a *App) Trade(tradeID string) (trade.Trade, bool) { return a.ledger.Get(tradeID) }

func (a *App) Snapshot() ledger.Snapshot { return a.ledger.Snapshot() }

func (a *App) Stats() stats.Stats { return stats.Compute(a.ledger.Trades()) }

// FindTrades returns the trades matching q in log order.
func (a *App) FindTrades(q stats.Query) ([]trade.Trade, error) {
	return stats.Filter(a.ledger.Trades(), q)
}

// StatsFor computes statistics over the trades matching q.
func (a *App) StatsFor(q stats.Query) (stats.Stats, error) {
	ts, err := a.FindTrades(q)
	if err != nil {
		return stats.Stats{}, err
	}
	return stats.Compute(ts), nil
}

func (a *App) Curve() []stats.Point {
	s := a.ledger.Snapshot()
	return stats.Curve(s.Trades, s.Account.InitialBalance)
}

func (a *App) Summary() journal.Summary {
	s := a.ledger.Snapshot()
	return journal.NewSummary(s.Trades, s.Account.InitialBalance, s.Account.CurrentBalance)
}

// Analyze asks the mentor about the most recent trades. It does not hold
// the ledger, so trades can be logged while it runs. The returned state
// carries either the analysis or the message to show instead.
func (a *App) Analyze(ctx context.Context) (mentor.State, error) {
	a.mu.Lock()
	sample := a.ledger.Recent(mentor.SampleSize)
	balance := a.ledger.CurrentBalance()
	a.mu.Unlock()

	return a.session.Request(ctx, sample, balance)
}

func (a *App) Analysis() mentor.State { return a.session.State() }

func (a *App) ClearAnalysis() { a.session.Clear() }

func (a *App) Close() error {
	a.session.Clear()
	return a.store.Close()
}
