package mathutil_test

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/tswap-network/tswap-daemon/pkg/mathutil"
)

func TestCheckedOps(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		op          func() (uint64, error)
		expected    uint64
		expectedErr error
	}{
		{
			name:     "add",
			op:       func() (uint64, error) { return mathutil.Add(1, 2) },
			expected: 3,
		},
		{
			name:        "add overflow",
			op:          func() (uint64, error) { return mathutil.Add(math.MaxUint64, 1) },
			expectedErr: mathutil.ErrOverflow,
		},
		{
			name:     "sub",
			op:       func() (uint64, error) { return mathutil.Sub(3, 3) },
			expected: 0,
		},
		{
			name:        "sub underflow",
			op:          func() (uint64, error) { return mathutil.Sub(1, 2) },
			expectedErr: mathutil.ErrUnderflow,
		},
		{
			name:        "mul overflow",
			op:          func() (uint64, error) { return mathutil.Mul(math.MaxUint64, 2) },
			expectedErr: mathutil.ErrOverflow,
		},
		{
			name: "mul div with wide intermediate product",
			op: func() (uint64, error) {
				return mathutil.MulDiv(math.MaxUint64, 10000, 10000)
			},
			expected: math.MaxUint64,
		},
		{
			name:        "mul div by zero",
			op:          func() (uint64, error) { return mathutil.MulDiv(1, 1, 0) },
			expectedErr: mathutil.ErrDivisionByZero,
		},
		{
			name:     "bps of rounds down",
			op:       func() (uint64, error) { return mathutil.BpsOf(999, 150) },
			expected: 14,
		},
		{
			name:     "pct of",
			op:       func() (uint64, error) { return mathutil.PctOf(2e7, 50) },
			expected: 1e7,
		},
		{
			name: "sum overflow",
			op: func() (uint64, error) {
				return mathutil.Sum(math.MaxUint64, 1, 1)
			},
			expectedErr: mathutil.ErrOverflow,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res, err := tt.op()
			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.expected, res)
		})
	}
}

func TestBoundedPow(t *testing.T) {
	t.Parallel()

	res, ok := mathutil.BoundedPow(decimal.NewFromFloat(1.5), 3)
	require.True(t, ok)
	require.True(t, res.Equal(decimal.RequireFromString("3.375")))

	res, ok = mathutil.BoundedPow(decimal.NewFromInt(2), 63)
	require.True(t, ok)
	v, err := mathutil.ToUint64(res)
	require.NoError(t, err)
	require.Equal(t, uint64(1)<<63, v)

	_, ok = mathutil.BoundedPow(decimal.NewFromInt(2), 64)
	require.False(t, ok)

	base := decimal.New(10001, -4)
	_, ok = mathutil.BoundedPow(base, 443637)
	require.False(t, ok)
	_, ok = mathutil.BoundedPow(base, 1<<31)
	require.False(t, ok)

	res, ok = mathutil.BoundedPow(decimal.NewFromInt(1), 1<<31)
	require.True(t, ok)
	require.True(t, res.Equal(decimal.NewFromInt(1)))
}

func TestQuo(t *testing.T) {
	t.Parallel()

	x := mathutil.ToDecimal(10)
	y := mathutil.ToDecimal(3)
	require.True(t, mathutil.CeilQuo(x, y).Equal(decimal.NewFromInt(4)))
	require.True(t, mathutil.FloorQuo(x, y).Equal(decimal.NewFromInt(3)))
	require.True(t, mathutil.CeilQuo(x, decimal.NewFromInt(5)).Equal(decimal.NewFromInt(2)))

	_, err := mathutil.ToUint64(decimal.NewFromInt(-1))
	require.ErrorIs(t, err, mathutil.ErrOverflow)
}
