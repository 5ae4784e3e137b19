package dbbadger

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/timshannon/badgerhold/v4"
	"github.com/tswap-network/tswap-daemon/internal/core/domain"
	"github.com/tswap-network/tswap-daemon/pkg/mathutil"
)

// AccountBalance is the stored balance of an account.
type AccountBalance struct {
	Address string
	Balance uint64
}

type accountRepositoryImpl struct {
	store *badgerhold.Store
}

// NewAccountRepositoryImpl initialize a badger implementation of the
// domain.AccountRepository.
func NewAccountRepositoryImpl(store *badgerhold.Store) domain.AccountRepository {
	return accountRepositoryImpl{store}
}

func (r accountRepositoryImpl) GetBalance(
	ctx context.Context, address solana.PublicKey,
) (uint64, error) {
	return r.getBalance(ctx, address.String())
}

func (r accountRepositoryImpl) Fund(
	ctx context.Context, address solana.PublicKey, amount uint64,
) error {
	key := address.String()
	balance, err := r.getBalance(ctx, key)
	if err != nil {
		return err
	}
	if balance, err = mathutil.Add(balance, amount); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrArithmetic, err)
	}
	return r.setBalance(ctx, key, balance)
}

func (r accountRepositoryImpl) Transfer(
	ctx context.Context, from, to solana.PublicKey, amount uint64,
) error {
	fromKey, toKey := from.String(), to.String()

	fromBalance, err := r.getBalance(ctx, fromKey)
	if err != nil {
		return err
	}
	if fromBalance < amount {
		return domain.ErrInsufficientFunds
	}
	if from.Equals(to) {
		return nil
	}
	toBalance, err := r.getBalance(ctx, toKey)
	if err != nil {
		return err
	}
	if toBalance, err = mathutil.Add(toBalance, amount); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrArithmetic, err)
	}

	if err := r.setBalance(ctx, fromKey, fromBalance-amount); err != nil {
		return err
	}
	return r.setBalance(ctx, toKey, toBalance)
}

func (r accountRepositoryImpl) getBalance(
	ctx context.Context, key string,
) (uint64, error) {
	var account AccountBalance
	if err := get(ctx, r.store, key, &account); err != nil {
		if err == badgerhold.ErrNotFound {
			return 0, nil
		}
		return 0, err
	}
	return account.Balance, nil
}

func (r accountRepositoryImpl) setBalance(
	ctx context.Context, key string, balance uint64,
) error {
	return upsert(ctx, r.store, key, AccountBalance{key, balance})
}
