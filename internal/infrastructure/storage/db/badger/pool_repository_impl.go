package dbbadger

import (
	"context"
	"sort"

	"github.com/gagliardetto/solana-go"
	"github.com/timshannon/badgerhold/v4"
	"github.com/tswap-network/tswap-daemon/internal/core/domain"
)

// PoolRecord is the stored form of a pool. Gob drops pointers to zero
// values, so the market-making fee is kept apart from the config.
type PoolRecord struct {
	Pool     domain.Pool
	HasMMFee bool
	MMFeeBps uint16
}

func newPoolRecord(pool domain.Pool) PoolRecord {
	record := PoolRecord{Pool: pool}
	if fee := pool.Config.MMFeeBps; fee != nil {
		record.HasMMFee = true
		record.MMFeeBps = *fee
		record.Pool.Config.MMFeeBps = nil
	}
	return record
}

func (r PoolRecord) toDomain() domain.Pool {
	pool := r.Pool
	if r.HasMMFee {
		fee := r.MMFeeBps
		pool.Config.MMFeeBps = &fee
	}
	return pool
}

type poolRepositoryImpl struct {
	store *badgerhold.Store
}

// NewPoolRepositoryImpl initialize a badger implementation of the
// domain.PoolRepository.
func NewPoolRepositoryImpl(store *badgerhold.Store) domain.PoolRepository {
	return poolRepositoryImpl{store}
}

func (r poolRepositoryImpl) AddPool(ctx context.Context, pool *domain.Pool) error {
	if err := insert(
		ctx, r.store, pool.Address.String(), newPoolRecord(*pool),
	); err != nil {
		if err == badgerhold.ErrKeyExists {
			return domain.ErrPoolAlreadyExists
		}
		return err
	}
	return nil
}

func (r poolRepositoryImpl) GetPool(
	ctx context.Context, address solana.PublicKey,
) (*domain.Pool, error) {
	var record PoolRecord
	if err := get(ctx, r.store, address.String(), &record); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, domain.ErrPoolNotFound
		}
		return nil, err
	}
	pool := record.toDomain()
	return &pool, nil
}

func (r poolRepositoryImpl) GetAllPools(ctx context.Context) ([]domain.Pool, error) {
	return r.findPools(ctx, func(domain.Pool) bool { return true })
}

func (r poolRepositoryImpl) GetPoolsByOwner(
	ctx context.Context, owner solana.PublicKey,
) ([]domain.Pool, error) {
	return r.findPools(ctx, func(p domain.Pool) bool {
		return p.Owner.Equals(owner)
	})
}

func (r poolRepositoryImpl) UpdatePool(
	ctx context.Context, address solana.PublicKey,
	updateFn func(p *domain.Pool) (*domain.Pool, error),
) error {
	pool, err := r.GetPool(ctx, address)
	if err != nil {
		return err
	}

	updatedPool, err := updateFn(pool)
	if err != nil {
		return err
	}

	return update(
		ctx, r.store, address.String(), newPoolRecord(*updatedPool),
	)
}

func (r poolRepositoryImpl) DeletePool(
	ctx context.Context, address solana.PublicKey,
) error {
	if err := remove(ctx, r.store, address.String(), PoolRecord{}); err != nil {
		if err == badgerhold.ErrNotFound {
			return domain.ErrPoolNotFound
		}
		return err
	}
	return nil
}

func (r poolRepositoryImpl) findPools(
	ctx context.Context, filter func(domain.Pool) bool,
) ([]domain.Pool, error) {
	var records []PoolRecord
	if err := find(ctx, r.store, &records, nil); err != nil {
		return nil, err
	}

	pools := make([]domain.Pool, 0, len(records))
	for _, rec := range records {
		if p := rec.toDomain(); filter(p) {
			pools = append(pools, p)
		}
	}
	sort.SliceStable(pools, func(i, j int) bool {
		return pools[i].CreatedAt < pools[j].CreatedAt
	})
	return pools, nil
}
