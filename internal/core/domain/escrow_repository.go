package domain

import (
	"context"

	"github.com/gagliardetto/solana-go"
)

// SharedEscrowRepository is the abstraction for any kind of database intended
// to persist SharedEscrows.
type SharedEscrowRepository interface {
	AddSharedEscrow(ctx context.Context, escrow *SharedEscrow) error
	GetSharedEscrow(
		ctx context.Context, address solana.PublicKey,
	) (*SharedEscrow, error)
	UpdateSharedEscrow(
		ctx context.Context, address solana.PublicKey,
		updateFn func(e *SharedEscrow) (*SharedEscrow, error),
	) error
	DeleteSharedEscrow(ctx context.Context, address solana.PublicKey) error
}
