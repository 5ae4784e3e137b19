package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSolToLamports(t *testing.T) {
	t.Parallel()

	tests := []struct {
		amount   string
		expected uint64
	}{
		{"1", 1e9},
		{"1.5", 15e8},
		{"0.000000001", 1},
		{"0", 0},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.amount, func(t *testing.T) {
			t.Parallel()

			lamports, err := solToLamports(tt.amount)
			require.NoError(t, err)
			require.Equal(t, tt.expected, lamports)
		})
	}

	t.Run("invalid", func(t *testing.T) {
		t.Parallel()

		for _, amount := range []string{
			"", "abc", "-1", "0.0000000001", "100000000000",
		} {
			_, err := solToLamports(amount)
			require.Error(t, err, amount)
		}
	})
}

func TestLamportsToSol(t *testing.T) {
	t.Parallel()

	require.Equal(t, "1.5", lamportsToSol(15e8))
	require.Equal(t, "0.000000001", lamportsToSol(1))
	require.Equal(t, "0", lamportsToSol(0))
}

func TestMerge(t *testing.T) {
	t.Parallel()

	merged := merge(
		map[string]string{"owner": "a", "trade_url": "x"},
		map[string]string{"owner": "b"},
	)
	require.Equal(t, map[string]string{"owner": "b", "trade_url": "x"}, merged)
}
