package application

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/tswap-network/tswap-daemon/internal/core/application/lifecycle"
	"github.com/tswap-network/tswap-daemon/internal/core/application/pubsub"
	"github.com/tswap-network/tswap-daemon/internal/core/application/trade"
	"github.com/tswap-network/tswap-daemon/internal/core/domain"
	"github.com/tswap-network/tswap-daemon/internal/core/ports"
)

type (
	BuyRequest       = trade.BuyRequest
	SellRequest      = trade.SellRequest
	TradeRequest     = trade.TradeRequest
	Quote            = trade.Quote
	PoolInfo         = trade.PoolInfo
	SettlementConfig = trade.SettlementConfig
)

type TradeService interface {
	ListPools(ctx context.Context) ([]domain.Pool, error)
	GetPool(ctx context.Context, addr solana.PublicKey) (*PoolInfo, error)
	Quote(
		ctx context.Context, pool solana.PublicKey, side domain.TakerSide,
		mint *solana.PublicKey, withTakerBroker bool, royaltyPct *uint16,
	) (*Quote, error)
	Buy(ctx context.Context, req BuyRequest) (*domain.Trade, error)
	Sell(ctx context.Context, req SellRequest) (*domain.Trade, error)
	ListTrades(
		ctx context.Context, pool *solana.PublicKey,
	) ([]domain.Trade, error)
	GetTrade(ctx context.Context, id string) (*domain.Trade, error)
}

func NewTradeService(
	repoManager ports.RepoManager,
	pubsubSvc PubSubService,
	lifecycleMgr *lifecycle.Manager,
	royalty ports.RoyaltyPolicy,
	token ports.TokenTransfer,
	whitelist ports.WhitelistPolicy,
	cfg SettlementConfig,
) (TradeService, error) {
	p, _ := pubsubSvc.(*pubsub.Service)
	svc, err := trade.NewService(
		repoManager, p, lifecycleMgr, royalty, token, whitelist, cfg,
	)
	if err != nil {
		return nil, err
	}
	return svc, nil
}
