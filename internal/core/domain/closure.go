package domain

import (
	"time"

	"github.com/gagliardetto/solana-go"
)

// CloseReason tells why a pool was closed.
type CloseReason uint8

const (
	// CloseReasonOwner is for pools closed on request of their owner.
	CloseReasonOwner CloseReason = iota
	// CloseReasonAutoclose is for pools closed by a trade that left them
	// unable to trade anymore.
	CloseReasonAutoclose
)

func (r CloseReason) String() string {
	if r == CloseReasonAutoclose {
		return "autoclose"
	}
	return "owner"
}

// PoolClosure is the outcome of closing a pool. Refund is the amount
// returned to the owner, Bond the one returned to the rent payer.
type PoolClosure struct {
	Pool      solana.PublicKey
	Owner     solana.PublicKey
	RentPayer solana.PublicKey
	Reason    CloseReason
	Refund    uint64
	Bond      uint64
	Timestamp int64
}

func NewPoolClosure(pool *Pool, reason CloseReason) *PoolClosure {
	return &PoolClosure{
		Pool:      pool.Address,
		Owner:     pool.Owner,
		RentPayer: pool.RentPayer,
		Reason:    reason,
		Timestamp: time.Now().Unix(),
	}
}
