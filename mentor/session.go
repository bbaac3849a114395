package mentor

import (
	"context"
	"errors"
	"sync"

	"github.com/rustyeddy/tradejournal/trade"
)

// ErrSuperseded is returned to a request that was replaced by a newer one or
// by Clear before it finished.
var ErrSuperseded = errors.New("analysis superseded by a newer request")

// State is what a session currently shows.
type State struct {
	Loading  bool   `json:"loading"`
	Analysis string `json:"analysis,omitempty"`
	Err      error  `json:"-"`
	Message  string `json:"message,omitempty"`
}

// Session holds the latest analysis. Starting a request cancels the one in
// flight, and a late response from a cancelled request is dropped so it can
// never overwrite newer or cleared state.
type Session struct {
	mentor *Mentor

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
	state  State
}

func NewSession(m *Mentor) *Session {
	return &Session{mentor: m}
}

// Request runs one analysis and blocks until it resolves.
func (s *Session) Request(ctx context.Context, trades []trade.Trade, balance float64) (State, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.seq++
	seq := s.seq
	s.cancel = cancel
	s.state = State{Loading: true}
	s.mu.Unlock()

	text, err := s.mentor.Analyze(ctx, trades, balance)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		return State{}, ErrSuperseded
	}
	s.cancel = nil
	if err != nil {
		s.state = State{Err: err, Message: Message(err)}
		return s.state, err
	}
	s.state = State{Analysis: text}
	return s.state, nil
}

// Clear cancels any request in flight and forgets the last analysis.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.seq++
	s.state = State{}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
