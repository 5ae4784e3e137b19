package inmemory

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/tswap-network/tswap-daemon/internal/core/domain"
)

type tradeRepositoryImpl struct {
	db *dbStore
}

// NewTradeRepositoryImpl returns a new inmemory TradeRepository implementation.
func NewTradeRepositoryImpl(db *dbStore) domain.TradeRepository {
	return &tradeRepositoryImpl{db}
}

func (r *tradeRepositoryImpl) AddTrade(ctx context.Context, trade *domain.Trade) error {
	return r.db.withLock(ctx, func() error {
		if _, ok := r.db.trades[trade.ID]; !ok {
			r.db.tradeIDs = append(r.db.tradeIDs, trade.ID)
		}
		r.db.trades[trade.ID] = *trade
		return nil
	})
}

func (r *tradeRepositoryImpl) GetTradeByID(
	ctx context.Context, id string,
) (*domain.Trade, error) {
	var trade *domain.Trade
	err := r.db.withLock(ctx, func() error {
		t, ok := r.db.trades[id]
		if !ok {
			return domain.ErrTradeNotFound
		}
		trade = &t
		return nil
	})
	return trade, err
}

func (r *tradeRepositoryImpl) GetAllTrades(ctx context.Context) ([]domain.Trade, error) {
	return r.findTrades(ctx, func(domain.Trade) bool { return true })
}

func (r *tradeRepositoryImpl) GetTradesByPool(
	ctx context.Context, pool solana.PublicKey,
) ([]domain.Trade, error) {
	return r.findTrades(ctx, func(t domain.Trade) bool {
		return t.Pool.Equals(pool)
	})
}

func (r *tradeRepositoryImpl) findTrades(
	ctx context.Context, filter func(domain.Trade) bool,
) ([]domain.Trade, error) {
	trades := make([]domain.Trade, 0)
	err := r.db.withLock(ctx, func() error {
		for _, id := range r.db.tradeIDs {
			if t := r.db.trades[id]; filter(t) {
				trades = append(trades, t)
			}
		}
		return nil
	})
	return trades, err
}
