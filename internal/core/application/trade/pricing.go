package trade

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/tswap-network/tswap-daemon/internal/core/domain"
)

type pricing struct {
	currentPrice uint64
	mmFee        uint64
	fees         domain.Fees
	creators     domain.CreatorsFee
}

func (s *Service) price(
	ctx context.Context, pool *domain.Pool, side domain.TakerSide,
	mint *solana.PublicKey, withTakerBroker bool, royaltyPct *uint16,
) (*pricing, error) {
	currentPrice, err := pool.CurrentPrice(side)
	if err != nil {
		return nil, err
	}
	fees, err := s.cfg.Fees.Split(
		currentPrice, pool.MakerBroker != nil, withTakerBroker,
	)
	if err != nil {
		return nil, err
	}
	mmFee, err := pool.CalcMMFee(currentPrice)
	if err != nil {
		return nil, err
	}

	var creators domain.CreatorsFee
	if mint != nil {
		creators, err = s.royalty.CreatorsFee(ctx, *mint, currentPrice, royaltyPct)
		if err != nil {
			return nil, err
		}
		if creators.Amount > currentPrice {
			return nil, fmt.Errorf(
				"%w: creators fee exceeds price", domain.ErrArithmetic,
			)
		}
	}

	return &pricing{currentPrice, mmFee, fees, creators}, nil
}

func arithmeticError(err error) error {
	return fmt.Errorf("%w: %s", domain.ErrArithmetic, err)
}
