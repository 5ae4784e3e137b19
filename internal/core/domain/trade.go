package domain

import (
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
)

// TradeStatus ...
type TradeStatus uint8

const (
	TradeStatusSettled TradeStatus = iota
	TradeStatusFailed
)

func (s TradeStatus) String() string {
	if s == TradeStatusFailed {
		return "failed"
	}
	return "settled"
}

func (s TradeStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *TradeStatus) UnmarshalText(text []byte) error {
	if string(text) == "failed" {
		*s = TradeStatusFailed
	} else {
		*s = TradeStatusSettled
	}
	return nil
}

// SettlementEvent is emitted by every trade attempt before its slippage
// check.
type SettlementEvent struct {
	CurrentPrice uint64
	TakerFee     uint64
	MMFee        uint64
	CreatorsFee  uint64
}

// Trade is the record of a trade attempt against a pool.
type Trade struct {
	ID       string
	Pool     solana.PublicKey
	PoolType PoolType
	Side     TakerSide
	Mint     solana.PublicKey
	Taker    solana.PublicKey
	Event    SettlementEvent
	Fees     Fees
	// TakerAmount is the total paid by the buyer or received by the seller.
	TakerAmount uint64
	// SkippedFees is the part of the taker fee not transferred because the
	// recipient would have been left below the dust threshold.
	SkippedFees   uint64
	PoolClosed    bool
	Status        TradeStatus
	FailureReason string
	Timestamp     int64
}

func NewTrade(pool *Pool, side TakerSide, mint, taker solana.PublicKey) *Trade {
	return &Trade{
		ID:        uuid.New().String(),
		Pool:      pool.Address,
		PoolType:  pool.Config.PoolType,
		Side:      side,
		Mint:      mint,
		Taker:     taker,
		Timestamp: time.Now().Unix(),
	}
}

func (t *Trade) Fail(err error) {
	t.Status = TradeStatusFailed
	t.FailureReason = err.Error()
}
