package trade

import (
	"github.com/gagliardetto/solana-go"
	"github.com/tswap-network/tswap-daemon/internal/core/domain"
)

// SettlementConfig holds the protocol-wide parameters of a settlement.
type SettlementConfig struct {
	Fees domain.FeeConfig
	// Deriver derives the address of the receipts of the nfts sold to
	// trade pools.
	Deriver domain.AddressDeriver
	// FeeVault collects the protocol fee.
	FeeVault solana.PublicKey
	// MinAccountBalance is the dust threshold below which a fee transfer is
	// skipped.
	MinAccountBalance uint64
}

// TradeRequest carries the accounts a taker provides to trade against a pool.
type TradeRequest struct {
	Pool      solana.PublicKey
	Taker     solana.PublicKey
	Mint      solana.PublicKey
	Owner     solana.PublicKey
	RentPayer solana.PublicKey
	// SharedEscrow must match the escrow of the pool, if any.
	SharedEscrow *solana.PublicKey
	TakerBroker  *solana.PublicKey
	Cosigner     *solana.PublicKey
	// OptionalRoyaltyPct is the share of royalties the taker agrees to pay
	// for nfts that don't enforce them.
	OptionalRoyaltyPct *uint16
	// Authorization is passed through to the token transfer.
	Authorization []byte
}

type BuyRequest struct {
	TradeRequest
	MaxPrice uint64
}

type SellRequest struct {
	TradeRequest
	MinPrice uint64
}

// Quote is the preview of the next trade on one side of a pool.
type Quote struct {
	Pool         solana.PublicKey
	Side         domain.TakerSide
	CurrentPrice uint64
	MMFee        uint64
	Fees         domain.Fees
	CreatorsFee  uint64
	// Total is what the taker pays for a buy, or receives for a sell.
	Total uint64
}

// PoolInfo is a pool along with the balance of its address.
type PoolInfo struct {
	domain.Pool
	Balance uint64
}

type feeTransfer struct {
	kind   string
	to     solana.PublicKey
	amount uint64
}
