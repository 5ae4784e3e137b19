package mathutil

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// powMaxExp is the smallest exp for which powMinBase^exp >= 2^64.
const powMaxExp = 443637

var (
	powMinBase    = decimal.New(10001, -4)
	decimalOne    = decimal.NewFromInt(1)
	maxUint64Plus = decimal.NewFromBigInt(new(big.Int).Lsh(big.NewInt(1), 64), 0)
)

// ToDecimal converts an uint64 into an exact decimal.
func ToDecimal(x uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(x), 0)
}

// ToUint64 converts an integral decimal back to uint64 or returns
// ErrOverflow if it is negative or does not fit.
func ToUint64(d decimal.Decimal) (uint64, error) {
	i := d.BigInt()
	if i.Sign() < 0 || !i.IsUint64() {
		return 0, ErrOverflow
	}
	return i.Uint64(), nil
}

// BoundedPow computes base^exp exactly by repeated squaring. Since base is
// expected to be >= 1, every intermediate value is bounded by the final
// result: the computation stops as soon as one of them reaches 2^64 and
// reports that the bound was exceeded.
// Each squaring doubles the digits of base, so for base >= 1.0001 any exp
// from powMaxExp on is rejected upfront instead of being computed.
func BoundedPow(base decimal.Decimal, exp uint64) (decimal.Decimal, bool) {
	if exp >= powMaxExp && base.GreaterThanOrEqual(powMinBase) {
		return decimal.Zero, false
	}

	result := decimalOne
	for exp > 0 {
		if exp&1 == 1 {
			result = result.Mul(base)
			if result.GreaterThanOrEqual(maxUint64Plus) {
				return decimal.Zero, false
			}
		}
		exp >>= 1
		if exp > 0 {
			base = base.Mul(base)
			if base.GreaterThanOrEqual(maxUint64Plus) {
				return decimal.Zero, false
			}
		}
	}
	return result, true
}

// CeilQuo returns ceil(x / y) for positive integral decimal x and positive y,
// computed exactly.
func CeilQuo(x, y decimal.Decimal) decimal.Decimal {
	q, r := x.QuoRem(y, 0)
	if !r.IsZero() {
		q = q.Add(decimalOne)
	}
	return q
}

// FloorQuo returns floor(x / y) for positive integral decimal x and positive
// y, computed exactly.
func FloorQuo(x, y decimal.Decimal) decimal.Decimal {
	q, _ := x.QuoRem(y, 0)
	return q
}
