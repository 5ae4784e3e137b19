package domain

const (
	// PoolVersion is the schema version of newly created pools. Pools
	// persisted with a greater version are rejected on load.
	PoolVersion = uint8(1)

	// MaxDeltaBps is the greatest delta allowed for an exponential curve.
	MaxDeltaBps = uint64(9999)
	// MaxMMFeeBps is the greatest market-making fee of a trade pool.
	MaxMMFeeBps = uint16(9999)
	// MaxSellerFeeBps ...
	MaxSellerFeeBps = uint16(10000)
	// HundredPct ...
	HundredPct = uint16(100)

	poolSeed         = "pool"
	sharedEscrowSeed = "shared_escrow"
	nftReceiptSeed   = "nft_receipt"
	feeVaultSeed     = "fee_vault"
)
