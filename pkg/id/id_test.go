package id

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsUniqueAndSorted(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	prev := ""
	for i := 0; i < 1000; i++ {
		s := New()
		require.True(t, Valid(s))
		assert.False(t, seen[s], "duplicate id %s", s)
		seen[s] = true
		assert.Greater(t, s, prev)
		prev = s
	}
}

func TestTime(t *testing.T) {
	t.Parallel()

	before := time.Now().Add(-time.Second)
	s := New()
	ts, ok := Time(s)
	require.True(t, ok)
	assert.True(t, ts.After(before))

	_, ok = Time("not-an-id")
	assert.False(t, ok)
}

func TestValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want bool
	}{
		{New(), true},
		{"01HZX0000000000000UUUUU001", false}, // U is outside the alphabet
		{"1712345678901", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Valid(tt.in), tt.in)
	}
}
