package ports

import (
	"context"

	"github.com/tswap-network/tswap-daemon/internal/core/domain"
)

// RepoManager interface defines the methods for pools, escrows, accounts,
// nfts, receipts and trades.
type RepoManager interface {
	PoolRepository() domain.PoolRepository
	SharedEscrowRepository() domain.SharedEscrowRepository
	AccountRepository() domain.AccountRepository
	NftRepository() domain.NftRepository
	NftReceiptRepository() domain.NftReceiptRepository
	TradeRepository() domain.TradeRepository

	// RunTransaction runs the handler in a single database transaction. All
	// the repository calls made by the handler with the given context are
	// either committed together or discarded if the handler fails.
	RunTransaction(
		ctx context.Context,
		readOnly bool,
		handler func(ctx context.Context) (interface{}, error),
	) (interface{}, error)

	Close()
}
