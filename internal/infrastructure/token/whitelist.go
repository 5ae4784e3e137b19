package token

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/tswap-network/tswap-daemon/internal/core/domain"
	"github.com/tswap-network/tswap-daemon/internal/core/ports"
)

// Whitelist accepts an nft if its collection matches the pool whitelist.
// Pools with an empty whitelist accept any registered nft.
type Whitelist struct {
	repoManager ports.RepoManager
}

func NewWhitelist(repoManager ports.RepoManager) (*Whitelist, error) {
	if repoManager == nil {
		return nil, fmt.Errorf("missing repo manager")
	}
	return &Whitelist{repoManager}, nil
}

func (w *Whitelist) IsWhitelisted(
	ctx context.Context, pool *domain.Pool, mint solana.PublicKey,
) (bool, error) {
	nft, err := w.repoManager.NftRepository().GetNft(ctx, mint)
	if err != nil {
		return false, err
	}
	return nft.IsWhitelisted(pool.Whitelist), nil
}
