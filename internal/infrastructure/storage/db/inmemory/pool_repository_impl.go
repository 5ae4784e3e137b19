package inmemory

import (
	"context"
	"sort"

	"github.com/gagliardetto/solana-go"
	"github.com/tswap-network/tswap-daemon/internal/core/domain"
)

type poolRepositoryImpl struct {
	db *dbStore
}

// NewPoolRepositoryImpl returns a new inmemory PoolRepository implementation.
func NewPoolRepositoryImpl(db *dbStore) domain.PoolRepository {
	return &poolRepositoryImpl{db}
}

func (r *poolRepositoryImpl) AddPool(ctx context.Context, pool *domain.Pool) error {
	return r.db.withLock(ctx, func() error {
		if _, ok := r.db.pools[pool.Address]; ok {
			return domain.ErrPoolAlreadyExists
		}
		r.db.pools[pool.Address] = *pool
		return nil
	})
}

func (r *poolRepositoryImpl) GetPool(
	ctx context.Context, address solana.PublicKey,
) (*domain.Pool, error) {
	var pool *domain.Pool
	err := r.db.withLock(ctx, func() error {
		p, ok := r.db.pools[address]
		if !ok {
			return domain.ErrPoolNotFound
		}
		pool = &p
		return nil
	})
	return pool, err
}

func (r *poolRepositoryImpl) GetAllPools(ctx context.Context) ([]domain.Pool, error) {
	return r.findPools(ctx, func(domain.Pool) bool { return true })
}

func (r *poolRepositoryImpl) GetPoolsByOwner(
	ctx context.Context, owner solana.PublicKey,
) ([]domain.Pool, error) {
	return r.findPools(ctx, func(p domain.Pool) bool {
		return p.Owner.Equals(owner)
	})
}

func (r *poolRepositoryImpl) UpdatePool(
	ctx context.Context, address solana.PublicKey,
	updateFn func(p *domain.Pool) (*domain.Pool, error),
) error {
	return r.db.withLock(ctx, func() error {
		p, ok := r.db.pools[address]
		if !ok {
			return domain.ErrPoolNotFound
		}
		updated, err := updateFn(&p)
		if err != nil {
			return err
		}
		r.db.pools[address] = *updated
		return nil
	})
}

func (r *poolRepositoryImpl) DeletePool(
	ctx context.Context, address solana.PublicKey,
) error {
	return r.db.withLock(ctx, func() error {
		if _, ok := r.db.pools[address]; !ok {
			return domain.ErrPoolNotFound
		}
		delete(r.db.pools, address)
		return nil
	})
}

func (r *poolRepositoryImpl) findPools(
	ctx context.Context, filter func(domain.Pool) bool,
) ([]domain.Pool, error) {
	pools := make([]domain.Pool, 0)
	err := r.db.withLock(ctx, func() error {
		for _, p := range r.db.pools {
			if filter(p) {
				pools = append(pools, p)
			}
		}
		return nil
	})
	sort.SliceStable(pools, func(i, j int) bool {
		return pools[i].CreatedAt < pools[j].CreatedAt
	})
	return pools, err
}
