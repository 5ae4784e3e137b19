package dbbadger

import (
	"context"
	"sort"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/timshannon/badgerhold/v4"
	"github.com/tswap-network/tswap-daemon/internal/core/domain"
)

// TradeRecord wraps a trade with its insertion time, used to sort trades
// settled within the same second.
type TradeRecord struct {
	Trade      domain.Trade
	InsertedAt int64
}

type tradeRepositoryImpl struct {
	store *badgerhold.Store
}

// NewTradeRepositoryImpl initialize a badger implementation of the
// domain.TradeRepository.
func NewTradeRepositoryImpl(store *badgerhold.Store) domain.TradeRepository {
	return tradeRepositoryImpl{store}
}

func (r tradeRepositoryImpl) AddTrade(ctx context.Context, trade *domain.Trade) error {
	record := TradeRecord{*trade, time.Now().UnixNano()}
	return upsert(ctx, r.store, trade.ID, record)
}

func (r tradeRepositoryImpl) GetTradeByID(
	ctx context.Context, id string,
) (*domain.Trade, error) {
	var record TradeRecord
	if err := get(ctx, r.store, id, &record); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, domain.ErrTradeNotFound
		}
		return nil, err
	}
	return &record.Trade, nil
}

func (r tradeRepositoryImpl) GetAllTrades(ctx context.Context) ([]domain.Trade, error) {
	return r.findTrades(ctx, func(domain.Trade) bool { return true })
}

func (r tradeRepositoryImpl) GetTradesByPool(
	ctx context.Context, pool solana.PublicKey,
) ([]domain.Trade, error) {
	return r.findTrades(ctx, func(t domain.Trade) bool {
		return t.Pool.Equals(pool)
	})
}

func (r tradeRepositoryImpl) findTrades(
	ctx context.Context, filter func(domain.Trade) bool,
) ([]domain.Trade, error) {
	var records []TradeRecord
	if err := find(ctx, r.store, &records, nil); err != nil {
		return nil, err
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].InsertedAt < records[j].InsertedAt
	})

	trades := make([]domain.Trade, 0, len(records))
	for _, rec := range records {
		if filter(rec.Trade) {
			trades = append(trades, rec.Trade)
		}
	}
	return trades, nil
}
