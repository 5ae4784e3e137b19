package operator

import (
	"context"

	"github.com/gagliardetto/solana-go"
	log "github.com/sirupsen/logrus"
	"github.com/tswap-network/tswap-daemon/internal/core/domain"
)

// CreateSharedEscrow creates the escrow of owner for the given nonce and
// funds it with the state bond plus amount.
func (s *service) CreateSharedEscrow(
	ctx context.Context, owner solana.PublicKey, nonce uint16, amount uint64,
) (*domain.SharedEscrow, error) {
	addr, err := s.deriver.SharedEscrowAddress(owner, nonce)
	if err != nil {
		return nil, err
	}
	escrow := domain.NewSharedEscrow(addr, owner, nonce, s.escrowStateBond)

	if err := s.withTx(ctx, func(ctx context.Context) error {
		if err := s.repoManager.SharedEscrowRepository().AddSharedEscrow(
			ctx, escrow,
		); err != nil {
			return err
		}
		total := s.escrowStateBond + amount
		if total < amount {
			return domain.ErrArithmetic
		}
		if total <= 0 {
			return nil
		}
		return s.repoManager.AccountRepository().Transfer(ctx, owner, addr, total)
	}); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"escrow": addr.String(),
		"owner":  owner.String(),
	}).Info("shared escrow created")
	return escrow, nil
}

func (s *service) GetSharedEscrow(
	ctx context.Context, addr solana.PublicKey,
) (*EscrowInfo, error) {
	escrow, err := s.repoManager.SharedEscrowRepository().GetSharedEscrow(
		ctx, addr,
	)
	if err != nil {
		return nil, err
	}
	balance, err := s.repoManager.AccountRepository().GetBalance(ctx, addr)
	if err != nil {
		return nil, err
	}
	return &EscrowInfo{*escrow, balance}, nil
}

func (s *service) DepositToSharedEscrow(
	ctx context.Context, addr, owner solana.PublicKey, amount uint64,
) error {
	return s.withTx(ctx, func(ctx context.Context) error {
		if _, err := s.ownedEscrow(ctx, addr, owner); err != nil {
			return err
		}
		return s.repoManager.AccountRepository().Transfer(ctx, owner, addr, amount)
	})
}

// WithdrawFromSharedEscrow can't touch the state bond of the escrow.
func (s *service) WithdrawFromSharedEscrow(
	ctx context.Context, addr, owner solana.PublicKey, amount uint64,
) error {
	return s.withTx(ctx, func(ctx context.Context) error {
		escrow, err := s.ownedEscrow(ctx, addr, owner)
		if err != nil {
			return err
		}
		accounts := s.repoManager.AccountRepository()
		balance, err := accounts.GetBalance(ctx, addr)
		if err != nil {
			return err
		}
		if escrow.Spendable(balance) < amount {
			return domain.ErrInsufficientFunds
		}
		return accounts.Transfer(ctx, addr, owner, amount)
	})
}

// CloseSharedEscrow refunds the whole balance of an escrow with no pools
// attached to its owner and deletes it.
func (s *service) CloseSharedEscrow(
	ctx context.Context, addr, owner solana.PublicKey,
) (uint64, error) {
	var refund uint64
	if err := s.withTx(ctx, func(ctx context.Context) error {
		escrow, err := s.ownedEscrow(ctx, addr, owner)
		if err != nil {
			return err
		}
		if escrow.IsInUse() {
			return domain.ErrEscrowInUse
		}
		accounts := s.repoManager.AccountRepository()
		if refund, err = accounts.GetBalance(ctx, addr); err != nil {
			return err
		}
		if refund > 0 {
			if err := accounts.Transfer(ctx, addr, owner, refund); err != nil {
				return err
			}
		}
		return s.repoManager.SharedEscrowRepository().DeleteSharedEscrow(
			ctx, addr,
		)
	}); err != nil {
		return 0, err
	}
	return refund, nil
}

// AttachPoolToSharedEscrow moves the amount of a token or trade pool into
// the escrow, which funds the pool from now on.
func (s *service) AttachPoolToSharedEscrow(
	ctx context.Context, poolAddr, owner, escrowAddr solana.PublicKey,
) error {
	unlock := s.lifecycle.Lock(poolAddr)
	defer unlock()

	return s.withTx(ctx, func(ctx context.Context) error {
		pool, err := s.ownedPool(ctx, poolAddr, owner)
		if err != nil {
			return err
		}
		if err := s.attachEscrow(ctx, pool, escrowAddr); err != nil {
			return err
		}
		return s.savePool(ctx, pool)
	})
}

// DetachPoolFromSharedEscrow moves amount from the escrow back into the pool,
// which tracks its own amount from now on.
func (s *service) DetachPoolFromSharedEscrow(
	ctx context.Context, poolAddr, owner, escrowAddr solana.PublicKey,
	amount uint64,
) error {
	unlock := s.lifecycle.Lock(poolAddr)
	defer unlock()

	return s.withTx(ctx, func(ctx context.Context) error {
		pool, err := s.ownedPool(ctx, poolAddr, owner)
		if err != nil {
			return err
		}
		if err := pool.DetachSharedEscrow(escrowAddr, amount); err != nil {
			return err
		}

		var escrow *domain.SharedEscrow
		if err := s.repoManager.SharedEscrowRepository().UpdateSharedEscrow(
			ctx, escrowAddr,
			func(e *domain.SharedEscrow) (*domain.SharedEscrow, error) {
				if err := e.Detach(); err != nil {
					return nil, err
				}
				escrow = e
				return e, nil
			},
		); err != nil {
			return err
		}

		accounts := s.repoManager.AccountRepository()
		balance, err := accounts.GetBalance(ctx, escrowAddr)
		if err != nil {
			return err
		}
		if escrow.Spendable(balance) < amount {
			return domain.ErrInsufficientFunds
		}
		if amount > 0 {
			if err := accounts.Transfer(ctx, escrowAddr, poolAddr, amount); err != nil {
				return err
			}
		}
		return s.savePool(ctx, pool)
	})
}

func (s *service) attachEscrow(
	ctx context.Context, pool *domain.Pool, escrowAddr solana.PublicKey,
) error {
	amount := pool.Amount
	if err := pool.AttachSharedEscrow(escrowAddr); err != nil {
		return err
	}
	if err := s.repoManager.SharedEscrowRepository().UpdateSharedEscrow(
		ctx, escrowAddr,
		func(e *domain.SharedEscrow) (*domain.SharedEscrow, error) {
			if err := e.Attach(pool.Owner); err != nil {
				return nil, err
			}
			return e, nil
		},
	); err != nil {
		return err
	}
	if amount <= 0 {
		return nil
	}
	return s.repoManager.AccountRepository().Transfer(
		ctx, pool.Address, escrowAddr, amount,
	)
}

func (s *service) ownedEscrow(
	ctx context.Context, addr, owner solana.PublicKey,
) (*domain.SharedEscrow, error) {
	escrow, err := s.repoManager.SharedEscrowRepository().GetSharedEscrow(
		ctx, addr,
	)
	if err != nil {
		return nil, err
	}
	if !escrow.Owner.Equals(owner) {
		return nil, domain.ErrWrongOwner
	}
	return escrow, nil
}
