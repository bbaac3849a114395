package mentor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rustyeddy/tradejournal/trade"
	"go.uber.org/zap"
)

// Messages shown in place of an analysis.
const (
	MessageNotEnoughTrades = "Please log at least 3 trades to get a meaningful analysis."
	MessageMissingAPIKey   = "API Key is missing. Please configure your environment."
	MessageServiceError    = "An error occurred while analyzing your trades. Please try again later."
	MessageEmptyResponse   = "Could not generate analysis."
)

var (
	ErrNotEnoughTrades = errors.New("not enough trades for analysis")
	ErrMissingAPIKey   = errors.New("mentor API key missing or misconfigured")
)

// ServiceError is a failed or timed out call to the model service. It is
// never retried.
type ServiceError struct {
	StatusCode int
	Err        error
}

func (e *ServiceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("mentor service error (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("mentor service error: %v", e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// Message maps an Analyze error to the text shown to the user.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotEnoughTrades):
		return MessageNotEnoughTrades
	case errors.Is(err, ErrMissingAPIKey):
		return MessageMissingAPIKey
	}
	return MessageServiceError
}

// Mentor turns a trade history into feedback text.
type Mentor struct {
	gen Generator
	log *zap.Logger
}

func New(gen Generator, logger *zap.Logger) *Mentor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mentor{gen: gen, log: logger}
}

// Analyze sends the latest trades and balance to the model. Fewer than
// MinTrades trades return ErrNotEnoughTrades without calling the service.
// Cancellation of ctx is returned as is.
func (m *Mentor) Analyze(ctx context.Context, trades []trade.Trade, balance float64) (string, error) {
	if len(trades) < MinTrades {
		return "", ErrNotEnoughTrades
	}
	if m.gen == nil {
		return "", ErrMissingAPIKey
	}

	req := NewRequest(trades, balance)
	p, err := FormatPrompt(req)
	if err != nil {
		return "", err
	}

	m.log.Debug("mentor request", zap.Int("trades", len(req.Trades)), zap.Float64("balance", balance))

	text, err := m.gen.Generate(ctx, p)
	switch {
	case err == nil:
	case ctx.Err() != nil:
		return "", ctx.Err()
	case errors.Is(err, ErrMissingAPIKey):
		m.log.Warn("mentor not configured", zap.Error(err))
		return "", err
	default:
		m.log.Warn("mentor analysis failed", zap.Error(err))
		var svc *ServiceError
		if errors.As(err, &svc) {
			return "", err
		}
		return "", &ServiceError{Err: err}
	}

	if strings.TrimSpace(text) == "" {
		return MessageEmptyResponse, nil
	}
	return text, nil
}
