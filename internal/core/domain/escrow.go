package domain

import (
	"math"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/tswap-network/tswap-daemon/pkg/mathutil"
)

// SharedEscrow pools the currency of several pools of the same owner. Its
// balance is the one of its address in the account ledger.
type SharedEscrow struct {
	Address       solana.PublicKey
	Owner         solana.PublicKey
	Nonce         uint16
	PoolsAttached uint32
	// StateBond is the part of the balance that can't be spent.
	StateBond uint64
	CreatedAt int64
}

func NewSharedEscrow(
	address, owner solana.PublicKey, nonce uint16, stateBond uint64,
) *SharedEscrow {
	return &SharedEscrow{
		Address:   address,
		Owner:     owner,
		Nonce:     nonce,
		StateBond: stateBond,
		CreatedAt: time.Now().Unix(),
	}
}

// Spendable returns the part of the given escrow balance pools can use.
func (e *SharedEscrow) Spendable(balance uint64) uint64 {
	if balance <= e.StateBond {
		return 0
	}
	return balance - e.StateBond
}

func (e *SharedEscrow) IsInUse() bool {
	return e.PoolsAttached > 0
}

func (e *SharedEscrow) Attach(owner solana.PublicKey) error {
	if !e.Owner.Equals(owner) {
		return ErrWrongOwner
	}
	if e.PoolsAttached == math.MaxUint32 {
		return arithmeticError(mathutil.ErrOverflow)
	}
	e.PoolsAttached++
	return nil
}

func (e *SharedEscrow) Detach() error {
	if e.PoolsAttached == 0 {
		return arithmeticError(mathutil.ErrUnderflow)
	}
	e.PoolsAttached--
	return nil
}
