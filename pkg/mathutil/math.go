package mathutil

import (
	"errors"

	"github.com/holiman/uint256"
)

var (
	// ErrOverflow is returned when the result of an operation does not fit
	// an uint64.
	ErrOverflow = errors.New("arithmetic overflow")
	// ErrUnderflow is returned when a subtraction would go below zero.
	ErrUnderflow = errors.New("arithmetic underflow")
	// ErrDivisionByZero ...
	ErrDivisionByZero = errors.New("division by zero")
)

// Add returns x + y or ErrOverflow.
func Add(x, y uint64) (uint64, error) {
	z, overflow := new(uint256.Int).AddOverflow(uint256.NewInt(x), uint256.NewInt(y))
	if overflow || !z.IsUint64() {
		return 0, ErrOverflow
	}
	return z.Uint64(), nil
}

// Sub returns x - y or ErrUnderflow.
func Sub(x, y uint64) (uint64, error) {
	if y > x {
		return 0, ErrUnderflow
	}
	z, _ := new(uint256.Int).SubOverflow(uint256.NewInt(x), uint256.NewInt(y))
	return z.Uint64(), nil
}

// Mul returns x * y or ErrOverflow.
func Mul(x, y uint64) (uint64, error) {
	z, overflow := new(uint256.Int).MulOverflow(uint256.NewInt(x), uint256.NewInt(y))
	if overflow || !z.IsUint64() {
		return 0, ErrOverflow
	}
	return z.Uint64(), nil
}

// MulDiv returns floor(x * y / d). The intermediate product is computed on
// 256 bits so only the final quotient needs to fit an uint64.
func MulDiv(x, y, d uint64) (uint64, error) {
	if d == 0 {
		return 0, ErrDivisionByZero
	}
	z, overflow := new(uint256.Int).MulDivOverflow(
		uint256.NewInt(x), uint256.NewInt(y), uint256.NewInt(d),
	)
	if overflow || !z.IsUint64() {
		return 0, ErrOverflow
	}
	return z.Uint64(), nil
}

// Sum adds up all the given values or returns ErrOverflow.
func Sum(values ...uint64) (uint64, error) {
	total := new(uint256.Int)
	for _, v := range values {
		total.Add(total, uint256.NewInt(v))
	}
	if !total.IsUint64() {
		return 0, ErrOverflow
	}
	return total.Uint64(), nil
}
