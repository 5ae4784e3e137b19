package token

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	log "github.com/sirupsen/logrus"
	"github.com/tswap-network/tswap-daemon/internal/core/domain"
	"github.com/tswap-network/tswap-daemon/internal/core/ports"
)

// Transfer moves the custody of registered nfts by updating their holder in
// the nft registry. The authorization payload is only traced, no rule set is
// evaluated.
type Transfer struct {
	repoManager ports.RepoManager
}

func NewTransfer(repoManager ports.RepoManager) (*Transfer, error) {
	if repoManager == nil {
		return nil, fmt.Errorf("missing repo manager")
	}
	return &Transfer{repoManager}, nil
}

func (t *Transfer) Transfer(
	ctx context.Context, from, to, mint solana.PublicKey, authorization []byte,
) error {
	if err := t.repoManager.NftRepository().UpdateNft(
		ctx, mint, func(n *domain.Nft) (*domain.Nft, error) {
			if err := n.MoveTo(from, to); err != nil {
				return nil, err
			}
			return n, nil
		},
	); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"mint":          mint.String(),
		"from":          from.String(),
		"to":            to.String(),
		"authorization": len(authorization),
	}).Debug("token: nft transferred")
	return nil
}
