package db_test

import (
	"context"
	"crypto/rand"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
	"github.com/tswap-network/tswap-daemon/internal/core/domain"
	"github.com/tswap-network/tswap-daemon/internal/core/ports"
	dbbadger "github.com/tswap-network/tswap-daemon/internal/infrastructure/storage/db/badger"
	"github.com/tswap-network/tswap-daemon/internal/infrastructure/storage/db/inmemory"
)

type repoManager struct {
	Name string
	ports.RepoManager
}

func (r repoManager) read(
	query func(context.Context) (interface{}, error),
) (interface{}, error) {
	return r.RunTransaction(context.Background(), true, query)
}

func (r repoManager) write(
	query func(context.Context) (interface{}, error),
) (interface{}, error) {
	return r.RunTransaction(context.Background(), false, query)
}

func createRepoManagers(t *testing.T) []repoManager {
	badgerDBManager, err := dbbadger.NewRepoManager("", nil)
	require.NoError(t, err)
	t.Cleanup(badgerDBManager.Close)

	return []repoManager{
		{
			Name:        "badger",
			RepoManager: badgerDBManager,
		},
		{
			Name:        "inmemory",
			RepoManager: inmemory.NewRepoManager(),
		},
	}
}

func makeRandomPool(t *testing.T, poolType domain.PoolType) *domain.Pool {
	config := domain.PoolConfig{
		PoolType:      poolType,
		CurveType:     domain.CurveLinear,
		StartingPrice: 1_000_000,
		Delta:         100_000,
	}
	if poolType == domain.PoolTypeTrade {
		// A zero fee must survive storage as a set fee.
		mmFee := uint16(0)
		config.MMFeeBps = &mmFee
	}
	owner := randomKey()
	pool, err := domain.NewPool(
		randomKey(), owner, owner, randomPoolID(), config, 1000,
	)
	require.NoError(t, err)
	return pool
}

func randomKey() solana.PublicKey {
	return solana.NewWallet().PublicKey()
}

func randomPoolID() [32]byte {
	var id [32]byte
	//nolint
	rand.Read(id[:])
	return id
}
