package calc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

func TestPipSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		loc  int
		want float64
	}{
		{"zero", 0, 1},
		{"negative2", -2, 0.01},
		{"positive1", 1, 10},
		{"negative4", -4, 0.0001},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, PipSize(tt.loc), 1e-12)
		})
	}
}

func TestPips(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		in     PipsInput
		pips   float64
		profit float64
	}{
		{"eurusd_gain", PipsInput{Pair: "EURUSD", Entry: f(1.1000), Exit: f(1.1050), Lots: f(1)}, 50, 500},
		{"gbpusd_loss_half_lot", PipsInput{Pair: "GBPUSD", Entry: f(1.2700), Exit: f(1.2680), Lots: f(0.5)}, -20, -100},
		{"usdjpy_gain", PipsInput{Pair: "USDJPY", Entry: f(150.00), Exit: f(150.25), Lots: f(2)}, 25, 450},
		{"default_lot", PipsInput{Pair: "EURUSD", Entry: f(1.1), Exit: f(1.1001)}, 1, 10},
		{"missing_exit", PipsInput{Pair: "EURUSD", Entry: f(1.1)}, 0, 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Pips(tt.in)
			assert.Equal(t, tt.pips, got.Pips)
			assert.Equal(t, tt.profit, got.Profit)
		})
	}
}

func TestOptionsPnL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 250.0, OptionsPnL(OptionsInput{Type: Call, Contracts: 2, EntryPremium: f(1.10), ExitPremium: f(2.35)}))
	assert.Equal(t, -45.0, OptionsPnL(OptionsInput{Type: Put, Contracts: 1, EntryPremium: f(0.85), ExitPremium: f(0.40)}))
	assert.Equal(t, 0.0, OptionsPnL(OptionsInput{Contracts: 1, EntryPremium: f(1)}))

	typ, err := ParseOptionType("PUT")
	require.NoError(t, err)
	assert.Equal(t, Put, typ)
	_, err = ParseOptionType("straddle")
	assert.Error(t, err)
}

func TestPositionSize(t *testing.T) {
	t.Parallel()

	got, err := PositionSize(SizeInputs{
		Equity:         10000,
		RiskPct:        0.01,
		EntryPrice:     1.2000,
		StopPrice:      1.1900,
		PipLocation:    -4,
		QuoteToAccount: 1.0,
	})
	require.NoError(t, err)
	assert.InDelta(t, 100.0, got.StopPips, 1e-9)
	assert.InDelta(t, 100.0, got.RiskAmount, 1e-9)
	assert.InDelta(t, 10000.0, got.Units, 1.0)
	assert.InDelta(t, 0.1, got.Lots, 1e-4)

	_, err = PositionSize(SizeInputs{Equity: 1, RiskPct: 0.01, EntryPrice: 1, StopPrice: 1, PipLocation: -4})
	assert.ErrorIs(t, err, ErrZeroStop)
}

func TestRR(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 2.0, RR(1.2000, 1.1900, 1.2200), 1e-9)
	assert.Equal(t, 0.0, RR(1, 1, 2))
	assert.Equal(t, -2, PipLocation("usdjpy"))
	assert.Equal(t, -4, PipLocation("EURUSD"))
}
