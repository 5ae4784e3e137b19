package db_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tswap-network/tswap-daemon/internal/core/domain"
)

func TestPoolRepositoryImplementations(t *testing.T) {
	repositories := createRepoManagers(t)

	for i := range repositories {
		repo := repositories[i]

		t.Run(repo.Name, func(t *testing.T) {
			t.Parallel()

			t.Run("testAddAndGetPool", func(t *testing.T) {
				t.Parallel()
				testAddAndGetPool(t, repo)
			})

			t.Run("testGetPoolsByOwner", func(t *testing.T) {
				t.Parallel()
				testGetPoolsByOwner(t, repo)
			})

			t.Run("testUpdatePool", func(t *testing.T) {
				t.Parallel()
				testUpdatePool(t, repo)
			})

			t.Run("testUpdatePool_rollback", func(t *testing.T) {
				t.Parallel()
				testUpdatePoolRollback(t, repo)
			})

			t.Run("testDeletePool", func(t *testing.T) {
				t.Parallel()
				testDeletePool(t, repo)
			})
		})
	}
}

func testAddAndGetPool(t *testing.T, repo repoManager) {
	pool := makeRandomPool(t, domain.PoolTypeTrade)

	_, err := repo.write(func(ctx context.Context) (interface{}, error) {
		return nil, repo.PoolRepository().AddPool(ctx, pool)
	})
	require.NoError(t, err)

	_, err = repo.write(func(ctx context.Context) (interface{}, error) {
		return nil, repo.PoolRepository().AddPool(ctx, pool)
	})
	require.ErrorIs(t, err, domain.ErrPoolAlreadyExists)

	iPool, err := repo.read(func(ctx context.Context) (interface{}, error) {
		return repo.PoolRepository().GetPool(ctx, pool.Address)
	})
	require.NoError(t, err)
	gotPool, ok := iPool.(*domain.Pool)
	require.True(t, ok)
	require.Equal(t, pool.Address, gotPool.Address)
	require.Equal(t, pool.Owner, gotPool.Owner)
	require.Equal(t, pool.PoolID, gotPool.PoolID)
	require.Equal(t, pool.StateBond, gotPool.StateBond)
	require.NotNil(t, gotPool.Config.MMFeeBps)
	require.Zero(t, *gotPool.Config.MMFeeBps)
	require.NoError(t, gotPool.Config.Validate())

	_, err = repo.read(func(ctx context.Context) (interface{}, error) {
		return repo.PoolRepository().GetPool(ctx, randomKey())
	})
	require.ErrorIs(t, err, domain.ErrPoolNotFound)
}

func testGetPoolsByOwner(t *testing.T, repo repoManager) {
	pool := makeRandomPool(t, domain.PoolTypeNFT)
	otherPool := makeRandomPool(t, domain.PoolTypeToken)
	otherPool.Owner = pool.Owner
	anotherPool := makeRandomPool(t, domain.PoolTypeToken)

	_, err := repo.write(func(ctx context.Context) (interface{}, error) {
		for _, p := range []*domain.Pool{pool, otherPool, anotherPool} {
			if err := repo.PoolRepository().AddPool(ctx, p); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	require.NoError(t, err)

	iPools, err := repo.read(func(ctx context.Context) (interface{}, error) {
		return repo.PoolRepository().GetPoolsByOwner(ctx, pool.Owner)
	})
	require.NoError(t, err)
	pools, ok := iPools.([]domain.Pool)
	require.True(t, ok)
	require.Len(t, pools, 2)
	for _, p := range pools {
		require.Equal(t, pool.Owner, p.Owner)
		require.Nil(t, p.Config.MMFeeBps)
	}

	iPools, err = repo.read(func(ctx context.Context) (interface{}, error) {
		return repo.PoolRepository().GetAllPools(ctx)
	})
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(iPools.([]domain.Pool)), 3)
}

func testUpdatePool(t *testing.T, repo repoManager) {
	pool := makeRandomPool(t, domain.PoolTypeTrade)

	_, err := repo.write(func(ctx context.Context) (interface{}, error) {
		return nil, repo.PoolRepository().AddPool(ctx, pool)
	})
	require.NoError(t, err)

	_, err = repo.write(func(ctx context.Context) (interface{}, error) {
		return nil, repo.PoolRepository().UpdatePool(
			ctx, pool.Address, func(p *domain.Pool) (*domain.Pool, error) {
				if err := p.RecordSell(0); err != nil {
					return nil, err
				}
				return p, nil
			},
		)
	})
	require.NoError(t, err)

	iPool, err := repo.read(func(ctx context.Context) (interface{}, error) {
		return repo.PoolRepository().GetPool(ctx, pool.Address)
	})
	require.NoError(t, err)
	gotPool := iPool.(*domain.Pool)
	require.Equal(t, int32(-1), gotPool.PriceOffset)
	require.Equal(t, uint32(1), gotPool.Stats.TakerSellCount)

	_, err = repo.write(func(ctx context.Context) (interface{}, error) {
		return nil, repo.PoolRepository().UpdatePool(
			ctx, randomKey(), func(p *domain.Pool) (*domain.Pool, error) {
				return p, nil
			},
		)
	})
	require.ErrorIs(t, err, domain.ErrPoolNotFound)
}

func testUpdatePoolRollback(t *testing.T, repo repoManager) {
	pool := makeRandomPool(t, domain.PoolTypeTrade)

	_, err := repo.write(func(ctx context.Context) (interface{}, error) {
		return nil, repo.PoolRepository().AddPool(ctx, pool)
	})
	require.NoError(t, err)

	_, err = repo.write(func(ctx context.Context) (interface{}, error) {
		if err := repo.PoolRepository().UpdatePool(
			ctx, pool.Address, func(p *domain.Pool) (*domain.Pool, error) {
				if err := p.RecordSell(0); err != nil {
					return nil, err
				}
				return p, nil
			},
		); err != nil {
			return nil, err
		}
		return nil, domain.ErrPriceMismatch
	})
	require.ErrorIs(t, err, domain.ErrPriceMismatch)

	iPool, err := repo.read(func(ctx context.Context) (interface{}, error) {
		return repo.PoolRepository().GetPool(ctx, pool.Address)
	})
	require.NoError(t, err)
	gotPool := iPool.(*domain.Pool)
	require.Zero(t, gotPool.PriceOffset)
	require.Zero(t, gotPool.Stats.TakerSellCount)
}

func testDeletePool(t *testing.T, repo repoManager) {
	pool := makeRandomPool(t, domain.PoolTypeToken)

	_, err := repo.write(func(ctx context.Context) (interface{}, error) {
		return nil, repo.PoolRepository().AddPool(ctx, pool)
	})
	require.NoError(t, err)

	_, err = repo.write(func(ctx context.Context) (interface{}, error) {
		return nil, repo.PoolRepository().DeletePool(ctx, pool.Address)
	})
	require.NoError(t, err)

	_, err = repo.read(func(ctx context.Context) (interface{}, error) {
		return repo.PoolRepository().GetPool(ctx, pool.Address)
	})
	require.ErrorIs(t, err, domain.ErrPoolNotFound)

	_, err = repo.write(func(ctx context.Context) (interface{}, error) {
		return nil, repo.PoolRepository().DeletePool(ctx, pool.Address)
	})
	require.ErrorIs(t, err, domain.ErrPoolNotFound)
}
