package operator

import (
	"github.com/gagliardetto/solana-go"
	"github.com/tswap-network/tswap-daemon/internal/core/domain"
)

type CreatePoolRequest struct {
	Owner     solana.PublicKey
	RentPayer solana.PublicKey
	// PoolID is random if not given.
	PoolID *[32]byte
	Config domain.PoolConfig
	// Currency must be nil, only native pools are supported.
	Currency          *solana.PublicKey
	SharedEscrow      *solana.PublicKey
	Cosigner          *solana.PublicKey
	MakerBroker       *solana.PublicKey
	Whitelist         string
	MaxTakerSellCount uint32
	Expiry            int64
}

// EditPoolRequest changes only the non-nil fields of a pool.
type EditPoolRequest struct {
	Pool             solana.PublicKey
	Owner            solana.PublicKey
	Config           *domain.PoolConfig
	ResetPriceOffset bool
	Cosigner         *solana.PublicKey
	MakerBroker      *solana.PublicKey
	// ClearCosigner and ClearMakerBroker remove the account from the pool and
	// take precedence over Cosigner and MakerBroker.
	ClearCosigner     bool
	ClearMakerBroker  bool
	MaxTakerSellCount *uint32
	Expiry            *int64
}

type NftRequest struct {
	Pool          solana.PublicKey
	Owner         solana.PublicKey
	Mint          solana.PublicKey
	Authorization []byte
}

type RegisterNftRequest struct {
	Mint       solana.PublicKey
	Holder     solana.PublicKey
	Collection string
	Royalty    domain.Royalty
}

type EscrowInfo struct {
	domain.SharedEscrow
	Balance uint64
}
