package domain

import (
	"context"

	"github.com/gagliardetto/solana-go"
)

// AccountRepository is the lamport ledger. Lamports move between accounts
// only through Transfer, Fund being the single way to bring new lamports in.
type AccountRepository interface {
	// GetBalance returns the balance of an account, 0 if unknown.
	GetBalance(ctx context.Context, address solana.PublicKey) (uint64, error)
	// Fund credits an account with lamports coming from outside the ledger.
	Fund(ctx context.Context, address solana.PublicKey, amount uint64) error
	// Transfer moves lamports between two accounts or fails with
	// ErrInsufficientFunds.
	Transfer(
		ctx context.Context, from, to solana.PublicKey, amount uint64,
	) error
}
