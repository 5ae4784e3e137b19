package dbbadger

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/timshannon/badgerhold/v4"
	"github.com/tswap-network/tswap-daemon/internal/core/domain"
)

type sharedEscrowRepositoryImpl struct {
	store *badgerhold.Store
}

// NewSharedEscrowRepositoryImpl initialize a badger implementation of the
// domain.SharedEscrowRepository.
func NewSharedEscrowRepositoryImpl(
	store *badgerhold.Store,
) domain.SharedEscrowRepository {
	return sharedEscrowRepositoryImpl{store}
}

func (r sharedEscrowRepositoryImpl) AddSharedEscrow(
	ctx context.Context, escrow *domain.SharedEscrow,
) error {
	if err := insert(ctx, r.store, escrow.Address.String(), *escrow); err != nil {
		if err == badgerhold.ErrKeyExists {
			return domain.ErrEscrowAlreadyExists
		}
		return err
	}
	return nil
}

func (r sharedEscrowRepositoryImpl) GetSharedEscrow(
	ctx context.Context, address solana.PublicKey,
) (*domain.SharedEscrow, error) {
	var escrow domain.SharedEscrow
	if err := get(ctx, r.store, address.String(), &escrow); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, domain.ErrEscrowNotFound
		}
		return nil, err
	}
	return &escrow, nil
}

func (r sharedEscrowRepositoryImpl) UpdateSharedEscrow(
	ctx context.Context, address solana.PublicKey,
	updateFn func(e *domain.SharedEscrow) (*domain.SharedEscrow, error),
) error {
	escrow, err := r.GetSharedEscrow(ctx, address)
	if err != nil {
		return err
	}

	updatedEscrow, err := updateFn(escrow)
	if err != nil {
		return err
	}

	return update(ctx, r.store, address.String(), *updatedEscrow)
}

func (r sharedEscrowRepositoryImpl) DeleteSharedEscrow(
	ctx context.Context, address solana.PublicKey,
) error {
	if err := remove(
		ctx, r.store, address.String(), domain.SharedEscrow{},
	); err != nil {
		if err == badgerhold.ErrNotFound {
			return domain.ErrEscrowNotFound
		}
		return err
	}
	return nil
}
