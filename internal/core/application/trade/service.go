package trade

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	log "github.com/sirupsen/logrus"
	"github.com/tswap-network/tswap-daemon/internal/core/application/lifecycle"
	"github.com/tswap-network/tswap-daemon/internal/core/application/pubsub"
	"github.com/tswap-network/tswap-daemon/internal/core/domain"
	"github.com/tswap-network/tswap-daemon/internal/core/ports"
	"github.com/tswap-network/tswap-daemon/pkg/mathutil"
	"github.com/tswap-network/tswap-daemon/pkg/stats"
)

type Service struct {
	repoManager ports.RepoManager
	pubsub      *pubsub.Service
	lifecycle   *lifecycle.Manager
	royalty     ports.RoyaltyPolicy
	token       ports.TokenTransfer
	whitelist   ports.WhitelistPolicy
	cfg         SettlementConfig
}

func NewService(
	repoManager ports.RepoManager,
	pubsubSvc *pubsub.Service,
	lifecycleMgr *lifecycle.Manager,
	royalty ports.RoyaltyPolicy,
	token ports.TokenTransfer,
	whitelist ports.WhitelistPolicy,
	cfg SettlementConfig,
) (*Service, error) {
	if repoManager == nil {
		return nil, fmt.Errorf("missing repo manager")
	}
	if pubsubSvc == nil {
		return nil, fmt.Errorf("missing pubsub service")
	}
	if lifecycleMgr == nil {
		return nil, fmt.Errorf("missing pool lifecycle manager")
	}
	if royalty == nil {
		return nil, fmt.Errorf("missing royalty policy")
	}
	if token == nil {
		return nil, fmt.Errorf("missing token transfer")
	}
	if whitelist == nil {
		return nil, fmt.Errorf("missing whitelist policy")
	}
	if err := cfg.Fees.Validate(); err != nil {
		return nil, err
	}
	if cfg.FeeVault.IsZero() {
		return nil, fmt.Errorf("missing fee vault")
	}

	return &Service{
		repoManager, pubsubSvc, lifecycleMgr, royalty, token, whitelist, cfg,
	}, nil
}

// Buy settles the purchase of an nft from a nft or trade pool. The taker
// pays at most MaxPrice plus the taker fee. A trade that fails after pricing
// returns a *domain.SettlementError and is recorded as failed.
func (s *Service) Buy(ctx context.Context, req BuyRequest) (*domain.Trade, error) {
	return s.settle(ctx, domain.TakerSideBuy, req.TradeRequest,
		func(st *settlement) error {
			return st.buy(req.MaxPrice)
		},
	)
}

// Sell settles the sale of an nft to a token or trade pool. The taker
// receives at least MinPrice minus the taker fee.
func (s *Service) Sell(ctx context.Context, req SellRequest) (*domain.Trade, error) {
	return s.settle(ctx, domain.TakerSideSell, req.TradeRequest,
		func(st *settlement) error {
			return st.sell(req.MinPrice)
		},
	)
}

func (s *Service) settle(
	ctx context.Context, side domain.TakerSide, req TradeRequest,
	run func(st *settlement) error,
) (*domain.Trade, error) {
	unlock := s.lifecycle.Lock(req.Pool)
	defer unlock()

	var st *settlement
	if _, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			st = s.newSettlement(ctx, side, req)
			if err := run(st); err != nil {
				return nil, st.wrapError(err)
			}
			return nil, nil
		},
	); err != nil {
		s.recordFailure(ctx, st, err)
		return nil, err
	}

	trade := *st.trade
	s.recordSuccess(trade, st)
	return &trade, nil
}

// recordFailure stores and publishes a trade that failed after its
// settlement event was emitted. Anything before that is a bad request.
func (s *Service) recordFailure(ctx context.Context, st *settlement, err error) {
	if st == nil || !st.emitted {
		return
	}
	trade := *st.trade
	trade.Fail(err)
	trade.Fees = domain.Fees{}
	trade.SkippedFees = 0
	trade.TakerAmount = 0

	stats.RecordTrade(
		trade.PoolType.String(), trade.Side.String(), trade.Status.String(),
	)
	if err := s.repoManager.TradeRepository().AddTrade(ctx, &trade); err != nil {
		log.WithError(err).Warnf("failed to store failed trade %s", trade.ID)
	}
	go func() {
		if err := s.pubsub.PublishTradeFailedEvent(trade); err != nil {
			log.WithError(err).Warn("failed to publish trade failed event")
		}
	}()
}

func (s *Service) recordSuccess(trade domain.Trade, st *settlement) {
	stats.RecordTrade(
		trade.PoolType.String(), trade.Side.String(), trade.Status.String(),
	)
	stats.RecordVolume(trade.Side.String(), st.pricing.currentPrice)
	stats.RecordFee(stats.FeeMM, st.pricing.mmFee)
	stats.RecordFee(stats.FeeCreators, st.pricing.creators.Amount)
	stats.RecordFee(stats.FeeSkipped, trade.SkippedFees)
	for _, fee := range st.feesPaid {
		stats.RecordFee(fee.kind, fee.amount)
	}

	log.WithFields(log.Fields{
		"id":           trade.ID,
		"pool":         trade.Pool.String(),
		"side":         trade.Side.String(),
		"price":        trade.Event.CurrentPrice,
		"taker_amount": trade.TakerAmount,
	}).Info("trade settled")

	closure := st.closure
	if closure != nil {
		stats.RecordPoolClosed(closure.Reason.String())
		log.Infof("pool %s closed after trade %s", closure.Pool, trade.ID)
	}

	go func() {
		if err := s.pubsub.PublishTradeSettledEvent(trade); err != nil {
			log.WithError(err).Warn("failed to publish trade settled event")
		}
		if closure == nil {
			return
		}
		if err := s.pubsub.PublishPoolClosedEvent(*closure); err != nil {
			log.WithError(err).Warn("failed to publish pool closed event")
		}
	}()
}

// Quote previews the next trade on the given side of a pool. Royalties are
// included only if mint is given.
func (s *Service) Quote(
	ctx context.Context, poolAddr solana.PublicKey, side domain.TakerSide,
	mint *solana.PublicKey, withTakerBroker bool, royaltyPct *uint16,
) (*Quote, error) {
	if !side.IsValid() {
		return nil, domain.ErrUnknownTakerSide
	}
	pool, err := s.repoManager.PoolRepository().GetPool(ctx, poolAddr)
	if err != nil {
		return nil, err
	}
	p, err := s.price(ctx, pool, side, mint, withTakerBroker, royaltyPct)
	if err != nil {
		return nil, err
	}

	var total uint64
	if side == domain.TakerSideBuy {
		total, err = mathutil.Sum(
			p.currentPrice, p.mmFee, p.creators.Amount, p.fees.TakerFee,
		)
	} else {
		total, err = mathutil.Sub(p.currentPrice, p.mmFee)
		if err == nil {
			total, err = mathutil.Sub(total, p.creators.Amount)
		}
		if err == nil {
			total, err = mathutil.Sub(total, p.fees.TakerFee)
		}
	}
	if err != nil {
		return nil, arithmeticError(err)
	}

	return &Quote{
		Pool:         pool.Address,
		Side:         side,
		CurrentPrice: p.currentPrice,
		MMFee:        p.mmFee,
		Fees:         p.fees,
		CreatorsFee:  p.creators.Amount,
		Total:        total,
	}, nil
}

func (s *Service) GetPool(
	ctx context.Context, addr solana.PublicKey,
) (*PoolInfo, error) {
	pool, err := s.repoManager.PoolRepository().GetPool(ctx, addr)
	if err != nil {
		return nil, err
	}
	balance, err := s.repoManager.AccountRepository().GetBalance(ctx, addr)
	if err != nil {
		return nil, err
	}
	return &PoolInfo{*pool, balance}, nil
}

func (s *Service) ListPools(ctx context.Context) ([]domain.Pool, error) {
	return s.repoManager.PoolRepository().GetAllPools(ctx)
}

// ListTrades returns the trades of the given pool, or all of them if pool
// is nil.
func (s *Service) ListTrades(
	ctx context.Context, pool *solana.PublicKey,
) ([]domain.Trade, error) {
	if pool != nil {
		return s.repoManager.TradeRepository().GetTradesByPool(ctx, *pool)
	}
	return s.repoManager.TradeRepository().GetAllTrades(ctx)
}

func (s *Service) GetTrade(ctx context.Context, id string) (*domain.Trade, error) {
	return s.repoManager.TradeRepository().GetTradeByID(ctx, id)
}
