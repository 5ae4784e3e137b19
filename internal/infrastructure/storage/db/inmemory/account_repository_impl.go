package inmemory

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/tswap-network/tswap-daemon/internal/core/domain"
	"github.com/tswap-network/tswap-daemon/pkg/mathutil"
)

type accountRepositoryImpl struct {
	db *dbStore
}

// NewAccountRepositoryImpl returns a new inmemory AccountRepository
// implementation.
func NewAccountRepositoryImpl(db *dbStore) domain.AccountRepository {
	return &accountRepositoryImpl{db}
}

func (r *accountRepositoryImpl) GetBalance(
	ctx context.Context, address solana.PublicKey,
) (uint64, error) {
	var balance uint64
	err := r.db.withLock(ctx, func() error {
		balance = r.db.balances[address]
		return nil
	})
	return balance, err
}

func (r *accountRepositoryImpl) Fund(
	ctx context.Context, address solana.PublicKey, amount uint64,
) error {
	return r.db.withLock(ctx, func() error {
		balance, err := mathutil.Add(r.db.balances[address], amount)
		if err != nil {
			return fmt.Errorf("%w: %s", domain.ErrArithmetic, err)
		}
		r.db.balances[address] = balance
		return nil
	})
}

func (r *accountRepositoryImpl) Transfer(
	ctx context.Context, from, to solana.PublicKey, amount uint64,
) error {
	return r.db.withLock(ctx, func() error {
		fromBalance := r.db.balances[from]
		if fromBalance < amount {
			return domain.ErrInsufficientFunds
		}
		if from.Equals(to) {
			return nil
		}
		toBalance, err := mathutil.Add(r.db.balances[to], amount)
		if err != nil {
			return fmt.Errorf("%w: %s", domain.ErrArithmetic, err)
		}
		r.db.balances[from] = fromBalance - amount
		r.db.balances[to] = toBalance
		return nil
	})
}
