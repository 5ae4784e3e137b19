package domain

import (
	"github.com/shopspring/decimal"
	"github.com/tswap-network/tswap-daemon/pkg/mathutil"
)

// PoolConfig holds the pricing parameters of a pool.
type PoolConfig struct {
	PoolType  PoolType
	CurveType CurveType
	// StartingPrice is the price at offset 0, in lamports.
	StartingPrice uint64
	// Delta is a lamport step for linear curves and a basis-point rate for
	// exponential ones.
	Delta          uint64
	MMCompoundFees bool
	// MMFeeBps is set only for trade pools.
	MMFeeBps *uint16
}

// Validate checks the config is consistent with its pool type and curve.
func (c PoolConfig) Validate() error {
	if !c.PoolType.IsValid() {
		return ErrUnknownPoolType
	}
	if !c.CurveType.IsValid() {
		return ErrUnknownCurveType
	}
	if c.StartingPrice < 1 {
		return ErrStartingPriceTooSmall
	}
	if c.CurveType == CurveExponential && c.Delta > MaxDeltaBps {
		return ErrDeltaTooLarge
	}

	if c.PoolType == PoolTypeTrade {
		if c.MMFeeBps == nil {
			return ErrMissingMMFee
		}
		if *c.MMFeeBps > MaxMMFeeBps {
			return ErrMMFeeTooHigh
		}
		return nil
	}
	if c.MMFeeBps != nil {
		return ErrMMFeeNotAllowed
	}
	return nil
}

// ShiftPrice returns the price of the curve moved by offset ticks from the
// starting price. Exponential prices are rounded up for buys and down for
// sells so that rounding always favors the pool.
func (c PoolConfig) ShiftPrice(offset int32, side TakerSide) (uint64, error) {
	up := offset > 0
	magnitude := uint64(offset)
	if !up {
		magnitude = uint64(-int64(offset))
	}

	switch c.CurveType {
	case CurveLinear:
		return linearShift(c.StartingPrice, c.Delta, magnitude, up)
	case CurveExponential:
		return exponentialShift(c.StartingPrice, c.Delta, magnitude, up, side)
	default:
		return 0, ErrUnknownCurveType
	}
}

func linearShift(startingPrice, delta, magnitude uint64, up bool) (uint64, error) {
	step, err := mathutil.Mul(delta, magnitude)
	if err != nil {
		return 0, arithmeticError(err)
	}

	var price uint64
	if up {
		price, err = mathutil.Add(startingPrice, step)
	} else {
		price, err = mathutil.Sub(startingPrice, step)
	}
	if err != nil {
		return 0, arithmeticError(err)
	}
	return price, nil
}

func exponentialShift(
	startingPrice, deltaBps, magnitude uint64, up bool, side TakerSide,
) (uint64, error) {
	if magnitude == 0 || deltaBps == 0 || startingPrice == 0 {
		return startingPrice, nil
	}

	rateBps, err := mathutil.Add(mathutil.HundredPctBps, deltaBps)
	if err != nil {
		return 0, arithmeticError(err)
	}
	base := mathutil.ToDecimal(rateBps).Shift(-4)
	start := mathutil.ToDecimal(startingPrice)

	factor, ok := mathutil.BoundedPow(base, magnitude)
	if !ok {
		if up {
			return 0, arithmeticError(mathutil.ErrOverflow)
		}
		// factor > starting price, the exact result lies in (0, 1).
		if side == TakerSideBuy {
			return 1, nil
		}
		return 0, nil
	}

	var price decimal.Decimal
	if up {
		exact := start.Mul(factor)
		if side == TakerSideBuy {
			price = exact.Ceil()
		} else {
			price = exact.Floor()
		}
	} else {
		if side == TakerSideBuy {
			price = mathutil.CeilQuo(start, factor)
		} else {
			price = mathutil.FloorQuo(start, factor)
		}
	}

	result, err := mathutil.ToUint64(price)
	if err != nil {
		return 0, arithmeticError(err)
	}
	return result, nil
}
