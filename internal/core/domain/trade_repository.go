package domain

import (
	"context"

	"github.com/gagliardetto/solana-go"
)

// TradeRepository is the abstraction for any kind of database intended to
// persist Trades.
type TradeRepository interface {
	// AddTrade adds a new trade to the repository.
	AddTrade(ctx context.Context, trade *Trade) error
	// GetTradeByID returns the trade with the given id.
	GetTradeByID(ctx context.Context, id string) (*Trade, error)
	// GetAllTrades returns all trades sorted by timestamp.
	GetAllTrades(ctx context.Context) ([]Trade, error)
	// GetTradesByPool returns all trades of a pool sorted by timestamp.
	GetTradesByPool(ctx context.Context, pool solana.PublicKey) ([]Trade, error)
}
