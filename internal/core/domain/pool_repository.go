package domain

import (
	"context"

	"github.com/gagliardetto/solana-go"
)

// PoolRepository is the abstraction for any kind of database intended to
// persist Pools.
type PoolRepository interface {
	// AddPool adds a new pool to the repository.
	AddPool(ctx context.Context, pool *Pool) error
	// GetPool returns the pool with the given address.
	GetPool(ctx context.Context, address solana.PublicKey) (*Pool, error)
	// GetAllPools returns all pools.
	GetAllPools(ctx context.Context) ([]Pool, error)
	// GetPoolsByOwner returns all pools of the given owner.
	GetPoolsByOwner(ctx context.Context, owner solana.PublicKey) ([]Pool, error)
	// UpdatePool updates the state of a pool. The closure function let's to
	// commit multiple changes to a certain pool in a transactional way.
	UpdatePool(
		ctx context.Context,
		address solana.PublicKey, updateFn func(p *Pool) (*Pool, error),
	) error
	// DeletePool removes a pool from the repository.
	DeletePool(ctx context.Context, address solana.PublicKey) error
}
