package royalty

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	lru "github.com/hashicorp/golang-lru/v2"
	log "github.com/sirupsen/logrus"
	"github.com/tswap-network/tswap-daemon/internal/core/domain"
	"github.com/tswap-network/tswap-daemon/internal/core/ports"
)

const DefaultCacheSize = 1024

// Policy computes creators fees from the royalty configuration of the
// registered nfts. A royalty configuration never changes once the nft is
// registered, therefore it's kept in a LRU cache after the first lookup.
type Policy struct {
	repoManager ports.RepoManager
	cache       *lru.Cache[solana.PublicKey, domain.Royalty]
}

func NewPolicy(repoManager ports.RepoManager, cacheSize int) (*Policy, error) {
	if repoManager == nil {
		return nil, fmt.Errorf("missing repo manager")
	}
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[solana.PublicKey, domain.Royalty](cacheSize)
	if err != nil {
		return nil, err
	}
	return &Policy{repoManager, cache}, nil
}

func (p *Policy) CreatorsFee(
	ctx context.Context, mint solana.PublicKey, price uint64,
	overridePct *uint16,
) (domain.CreatorsFee, error) {
	royalty, err := p.getRoyalty(ctx, mint)
	if err != nil {
		return domain.CreatorsFee{}, err
	}

	fee, err := royalty.CreatorsFee(price, overridePct)
	if err != nil {
		return domain.CreatorsFee{}, err
	}
	if fee.Amount > price {
		return domain.CreatorsFee{}, fmt.Errorf(
			"%w: creators fee %d exceeds price %d",
			domain.ErrArithmetic, fee.Amount, price,
		)
	}
	return fee, nil
}

func (p *Policy) getRoyalty(
	ctx context.Context, mint solana.PublicKey,
) (domain.Royalty, error) {
	if royalty, ok := p.cache.Get(mint); ok {
		return royalty, nil
	}

	nft, err := p.repoManager.NftRepository().GetNft(ctx, mint)
	if err != nil {
		return domain.Royalty{}, err
	}

	p.cache.Add(mint, nft.Royalty)
	log.Debugf("royalty: cached configuration of nft %s", mint)
	return nft.Royalty, nil
}
