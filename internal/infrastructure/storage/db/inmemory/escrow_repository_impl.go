package inmemory

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/tswap-network/tswap-daemon/internal/core/domain"
)

type sharedEscrowRepositoryImpl struct {
	db *dbStore
}

// NewSharedEscrowRepositoryImpl returns a new inmemory SharedEscrowRepository
// implementation.
func NewSharedEscrowRepositoryImpl(db *dbStore) domain.SharedEscrowRepository {
	return &sharedEscrowRepositoryImpl{db}
}

func (r *sharedEscrowRepositoryImpl) AddSharedEscrow(
	ctx context.Context, escrow *domain.SharedEscrow,
) error {
	return r.db.withLock(ctx, func() error {
		if _, ok := r.db.escrows[escrow.Address]; ok {
			return domain.ErrEscrowAlreadyExists
		}
		r.db.escrows[escrow.Address] = *escrow
		return nil
	})
}

func (r *sharedEscrowRepositoryImpl) GetSharedEscrow(
	ctx context.Context, address solana.PublicKey,
) (*domain.SharedEscrow, error) {
	var escrow *domain.SharedEscrow
	err := r.db.withLock(ctx, func() error {
		e, ok := r.db.escrows[address]
		if !ok {
			return domain.ErrEscrowNotFound
		}
		escrow = &e
		return nil
	})
	return escrow, err
}

func (r *sharedEscrowRepositoryImpl) UpdateSharedEscrow(
	ctx context.Context, address solana.PublicKey,
	updateFn func(e *domain.SharedEscrow) (*domain.SharedEscrow, error),
) error {
	return r.db.withLock(ctx, func() error {
		e, ok := r.db.escrows[address]
		if !ok {
			return domain.ErrEscrowNotFound
		}
		updated, err := updateFn(&e)
		if err != nil {
			return err
		}
		r.db.escrows[address] = *updated
		return nil
	})
}

func (r *sharedEscrowRepositoryImpl) DeleteSharedEscrow(
	ctx context.Context, address solana.PublicKey,
) error {
	return r.db.withLock(ctx, func() error {
		if _, ok := r.db.escrows[address]; !ok {
			return domain.ErrEscrowNotFound
		}
		delete(r.db.escrows, address)
		return nil
	})
}
