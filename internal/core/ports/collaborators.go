package ports

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/tswap-network/tswap-daemon/internal/core/domain"
)

// RoyaltyPolicy computes the royalty due to the creators of an nft traded
// at the given price. The returned amount never exceeds price.
type RoyaltyPolicy interface {
	CreatorsFee(
		ctx context.Context, mint solana.PublicKey, price uint64,
		overridePct *uint16,
	) (domain.CreatorsFee, error)
}

// TokenTransfer moves the custody of an nft. The authorization payload is
// opaque and passed through as given by the taker.
type TokenTransfer interface {
	Transfer(
		ctx context.Context, from, to, mint solana.PublicKey,
		authorization []byte,
	) error
}

// WhitelistPolicy tells whether a pool accepts an nft.
type WhitelistPolicy interface {
	IsWhitelisted(
		ctx context.Context, pool *domain.Pool, mint solana.PublicKey,
	) (bool, error)
}
