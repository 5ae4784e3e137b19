package operator

import (
	"context"

	"github.com/gagliardetto/solana-go"
	log "github.com/sirupsen/logrus"
	"github.com/tswap-network/tswap-daemon/internal/core/domain"
)

func (s *service) RegisterNft(
	ctx context.Context, req RegisterNftRequest,
) (*domain.Nft, error) {
	nft, err := domain.NewNft(req.Mint, req.Holder, req.Collection, req.Royalty)
	if err != nil {
		return nil, err
	}
	if err := s.repoManager.NftRepository().AddNft(ctx, nft); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"mint":       req.Mint.String(),
		"holder":     req.Holder.String(),
		"collection": req.Collection,
	}).Info("nft registered")
	return nft, nil
}

func (s *service) GetNft(
	ctx context.Context, mint solana.PublicKey,
) (*domain.Nft, error) {
	return s.repoManager.NftRepository().GetNft(ctx, mint)
}
