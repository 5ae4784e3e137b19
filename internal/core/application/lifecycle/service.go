package lifecycle

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	log "github.com/sirupsen/logrus"
	"github.com/tswap-network/tswap-daemon/internal/core/domain"
	"github.com/tswap-network/tswap-daemon/internal/core/ports"
)

// Manager decides when pools close and serializes every write made to a
// pool by trades and operator actions.
type Manager struct {
	repoManager ports.RepoManager
	locker      *poolLocker
}

func NewManager(repoManager ports.RepoManager) (*Manager, error) {
	if repoManager == nil {
		return nil, fmt.Errorf("missing repo manager")
	}
	return &Manager{repoManager, newPoolLocker()}, nil
}

// Lock blocks until the caller is the only one operating on the given pool.
// The returned func releases the pool.
func (m *Manager) Lock(pool solana.PublicKey) func() {
	return m.locker.acquire(pool)
}

// TryAutoclose closes the pool if it can't trade anymore and returns the
// closure, nil otherwise. It must run within the transaction of the trade
// that updated the pool.
func (m *Manager) TryAutoclose(
	ctx context.Context, pool *domain.Pool, owner, rentPayer solana.PublicKey,
) (*domain.PoolClosure, error) {
	shouldClose, err := pool.ShouldAutoclose()
	if err != nil {
		return nil, err
	}
	if !shouldClose {
		return nil, nil
	}
	if err := pool.CheckCloseAuthority(owner, rentPayer); err != nil {
		return nil, err
	}
	return m.close(ctx, pool, domain.CloseReasonAutoclose)
}

// Close closes an empty pool on request of its owner.
func (m *Manager) Close(
	ctx context.Context, pool *domain.Pool, owner, rentPayer solana.PublicKey,
) (*domain.PoolClosure, error) {
	if err := pool.CheckCloseAuthority(owner, rentPayer); err != nil {
		return nil, err
	}
	if pool.NftsHeld > 0 {
		return nil, domain.ErrExistingNfts
	}
	return m.close(ctx, pool, domain.CloseReasonOwner)
}

// close returns the spendable balance of the pool to its owner and the
// state bond to the rent payer, then deletes the pool.
func (m *Manager) close(
	ctx context.Context, pool *domain.Pool, reason domain.CloseReason,
) (*domain.PoolClosure, error) {
	accounts := m.repoManager.AccountRepository()

	balance, err := accounts.GetBalance(ctx, pool.Address)
	if err != nil {
		return nil, err
	}
	bond := pool.StateBond
	if balance < bond {
		bond = balance
	}
	refund := balance - bond

	if refund > 0 {
		if err := accounts.Transfer(
			ctx, pool.Address, pool.Owner, refund,
		); err != nil {
			return nil, err
		}
	}
	if bond > 0 {
		if err := accounts.Transfer(
			ctx, pool.Address, pool.RentPayer, bond,
		); err != nil {
			return nil, err
		}
	}

	if pool.IsOnSharedEscrow() {
		if err := m.repoManager.SharedEscrowRepository().UpdateSharedEscrow(
			ctx, *pool.SharedEscrow,
			func(e *domain.SharedEscrow) (*domain.SharedEscrow, error) {
				if err := e.Detach(); err != nil {
					return nil, err
				}
				return e, nil
			},
		); err != nil {
			return nil, err
		}
	}

	if err := m.repoManager.PoolRepository().DeletePool(
		ctx, pool.Address,
	); err != nil {
		return nil, err
	}

	closure := domain.NewPoolClosure(pool, reason)
	closure.Refund = refund
	closure.Bond = bond

	log.WithFields(log.Fields{
		"pool":   pool.Address.String(),
		"reason": reason.String(),
		"refund": refund,
		"bond":   bond,
	}).Debug("pool closed")
	return closure, nil
}
