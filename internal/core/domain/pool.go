package domain

import (
	"math"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/tswap-network/tswap-daemon/pkg/mathutil"
)

// PoolStats are running counters of a pool, they never decrease.
type PoolStats struct {
	TakerSellCount      uint32
	TakerBuyCount       uint32
	AccumulatedMMProfit uint64
}

// Pool is a bonding-curve liquidity pool owned by a maker. It's identified
// by an address derived from its owner and pool id.
type Pool struct {
	Version   uint8
	Address   solana.PublicKey
	PoolID    [32]byte
	Owner     solana.PublicKey
	RentPayer solana.PublicKey
	Config    PoolConfig
	// PriceOffset is the net number of taker buys minus taker sells.
	PriceOffset int32
	Stats       PoolStats
	// SharedEscrow, when set, holds the currency of the pool in place of the
	// pool's own balance.
	SharedEscrow *solana.PublicKey
	Cosigner     *solana.PublicKey
	MakerBroker  *solana.PublicKey
	// Whitelist is the collection accepted by the pool, empty accepts any.
	Whitelist string
	// MaxTakerSellCount caps net taker sells for shared escrow pools, 0
	// means unlimited.
	MaxTakerSellCount uint32
	// Currency is nil for native pools.
	Currency *solana.PublicKey
	// Amount is the spendable balance of the pool, ie. its actual balance
	// minus the state bond, when not on a shared escrow.
	Amount uint64
	// StateBond is the part of the pool balance paid by the rent payer to
	// keep the pool record, refunded on close.
	StateBond uint64
	NftsHeld  uint32
	// Expiry is a unix timestamp, 0 means the pool never expires.
	Expiry    int64
	CreatedAt int64
	UpdatedAt int64
}

// NewPool returns a pool with zero stats and price offset for the given
// validated config.
func NewPool(
	address, owner, rentPayer solana.PublicKey, poolID [32]byte,
	config PoolConfig, stateBond uint64,
) (*Pool, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	now := time.Now().Unix()
	return &Pool{
		Version:   PoolVersion,
		Address:   address,
		PoolID:    poolID,
		Owner:     owner,
		RentPayer: rentPayer,
		Config:    config,
		StateBond: stateBond,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Validate checks the pool can be loaded by this version of the daemon.
func (p *Pool) Validate() error {
	if p.Version == 0 || p.Version > PoolVersion {
		return ErrUnsupportedPoolVersion
	}
	return nil
}

func (p *Pool) IsNative() bool {
	return p.Currency == nil
}

func (p *Pool) IsOnSharedEscrow() bool {
	return p.SharedEscrow != nil
}

func (p *Pool) IsExpired(now int64) bool {
	return p.Expiry > 0 && now > p.Expiry
}

// CurrentPrice returns the price a taker trades at on the given side.
// Selling into a trade pool is quoted one tick below the buy price so that
// the spread can't be drained with matched buy and sell pairs.
func (p *Pool) CurrentPrice(side TakerSide) (uint64, error) {
	switch {
	case p.Config.PoolType == PoolTypeTrade && side == TakerSideBuy,
		p.Config.PoolType == PoolTypeToken && side == TakerSideSell,
		p.Config.PoolType == PoolTypeNFT && side == TakerSideBuy:
		return p.Config.ShiftPrice(p.PriceOffset, side)
	case p.Config.PoolType == PoolTypeTrade && side == TakerSideSell:
		if p.PriceOffset == math.MinInt32 {
			return 0, arithmeticError(mathutil.ErrUnderflow)
		}
		return p.Config.ShiftPrice(p.PriceOffset-1, side)
	default:
		return 0, ErrWrongPoolType
	}
}

// CalcMMFee returns the market-making fee due on price. Only trade pools
// charge it; a trade pool lacking a rate (never created by this daemon)
// charges nothing.
func (p *Pool) CalcMMFee(currentPrice uint64) (uint64, error) {
	if p.Config.PoolType != PoolTypeTrade || p.Config.MMFeeBps == nil {
		return 0, nil
	}
	fee, err := mathutil.BpsOf(currentPrice, uint64(*p.Config.MMFeeBps))
	if err != nil {
		return 0, arithmeticError(err)
	}
	return fee, nil
}

func (p *Pool) netTakerSells() uint32 {
	if p.Stats.TakerSellCount <= p.Stats.TakerBuyCount {
		return 0
	}
	return p.Stats.TakerSellCount - p.Stats.TakerBuyCount
}

// TakerAllowedToSell returns an error if a shared escrow pool has already
// bought its max number of nfts net of the sold ones.
func (p *Pool) TakerAllowedToSell() error {
	if !p.IsOnSharedEscrow() || p.MaxTakerSellCount == 0 {
		return nil
	}
	if p.netTakerSells() >= p.MaxTakerSellCount {
		return ErrMaxTakerSellCountExceeded
	}
	return nil
}

// ValidMaxSellCount returns an error if count is below the current net
// number of taker sells.
func (p *Pool) ValidMaxSellCount(count uint32) error {
	if count == 0 {
		return nil
	}
	if count < p.netTakerSells() {
		return ErrMaxTakerSellCountTooSmall
	}
	return nil
}

func (p *Pool) SetMaxTakerSellCount(count uint32) error {
	if err := p.ValidMaxSellCount(count); err != nil {
		return err
	}
	p.MaxTakerSellCount = count
	return nil
}

// CheckSharedEscrow validates the escrow given for a trade against the one
// stored in the pool.
func (p *Pool) CheckSharedEscrow(escrow *solana.PublicKey) error {
	if !p.IsOnSharedEscrow() {
		if escrow != nil {
			return ErrPoolNotOnSharedEscrow
		}
		return nil
	}
	if escrow == nil || !escrow.Equals(*p.SharedEscrow) {
		return ErrBadSharedEscrow
	}
	return nil
}

// UpdateConfig replaces the pricing config, the pool type can't change.
func (p *Pool) UpdateConfig(config PoolConfig) error {
	if config.PoolType != p.Config.PoolType {
		return ErrWrongPoolType
	}
	if err := config.Validate(); err != nil {
		return err
	}
	p.Config = config
	p.touch()
	return nil
}

func (p *Pool) ResetPriceOffset() {
	p.PriceOffset = 0
	p.touch()
}

// AttachSharedEscrow moves the pool onto the given escrow. The caller is in
// charge of moving the pool amount to the escrow.
func (p *Pool) AttachSharedEscrow(escrow solana.PublicKey) error {
	if p.IsOnSharedEscrow() {
		return ErrPoolOnSharedEscrow
	}
	if p.Config.PoolType == PoolTypeNFT {
		return ErrWrongPoolType
	}
	p.SharedEscrow = &escrow
	p.Amount = 0
	p.touch()
	return nil
}

// DetachSharedEscrow moves the pool back to its own balance, amount is what
// the caller moved from the escrow to the pool.
func (p *Pool) DetachSharedEscrow(escrow solana.PublicKey, amount uint64) error {
	if !p.IsOnSharedEscrow() {
		return ErrPoolNotOnSharedEscrow
	}
	if !p.SharedEscrow.Equals(escrow) {
		return ErrBadSharedEscrow
	}
	p.SharedEscrow = nil
	p.Amount = amount
	p.touch()
	return nil
}

// DepositSol credits the tracked amount of a token or trade pool.
func (p *Pool) DepositSol(amount uint64) error {
	if p.Config.PoolType == PoolTypeNFT {
		return ErrWrongPoolType
	}
	if p.IsOnSharedEscrow() {
		return ErrPoolOnSharedEscrow
	}
	total, err := mathutil.Add(p.Amount, amount)
	if err != nil {
		return arithmeticError(err)
	}
	p.Amount = total
	p.touch()
	return nil
}

// WithdrawSol debits the tracked amount of a token or trade pool.
func (p *Pool) WithdrawSol(amount uint64) error {
	if p.Config.PoolType == PoolTypeNFT {
		return ErrWrongPoolType
	}
	if p.IsOnSharedEscrow() {
		return ErrPoolOnSharedEscrow
	}
	if amount > p.Amount {
		return ErrInsufficientFunds
	}
	p.Amount -= amount
	p.touch()
	return nil
}

func (p *Pool) DepositNft() error {
	if p.Config.PoolType == PoolTypeToken {
		return ErrWrongPoolType
	}
	if p.NftsHeld == math.MaxUint32 {
		return arithmeticError(mathutil.ErrOverflow)
	}
	p.NftsHeld++
	p.touch()
	return nil
}

func (p *Pool) WithdrawNft() error {
	if p.Config.PoolType == PoolTypeToken {
		return ErrWrongPoolType
	}
	if p.NftsHeld == 0 {
		return arithmeticError(mathutil.ErrUnderflow)
	}
	p.NftsHeld--
	p.touch()
	return nil
}

// RecordBuy applies a taker buy to the pool state.
func (p *Pool) RecordBuy(mmFee uint64) error {
	if p.NftsHeld == 0 {
		return arithmeticError(mathutil.ErrUnderflow)
	}
	if p.PriceOffset == math.MaxInt32 || p.Stats.TakerBuyCount == math.MaxUint32 {
		return arithmeticError(mathutil.ErrOverflow)
	}
	profit, err := p.addMMProfit(mmFee)
	if err != nil {
		return err
	}

	p.NftsHeld--
	p.PriceOffset++
	p.Stats.TakerBuyCount++
	p.Stats.AccumulatedMMProfit = profit
	p.touch()
	return nil
}

// RecordSell applies a taker sell to the pool state. Only trade pools keep
// the sold nft.
func (p *Pool) RecordSell(mmFee uint64) error {
	if p.PriceOffset == math.MinInt32 || p.Stats.TakerSellCount == math.MaxUint32 {
		return arithmeticError(mathutil.ErrOverflow)
	}
	if p.Config.PoolType == PoolTypeTrade && p.NftsHeld == math.MaxUint32 {
		return arithmeticError(mathutil.ErrOverflow)
	}
	profit, err := p.addMMProfit(mmFee)
	if err != nil {
		return err
	}

	if p.Config.PoolType == PoolTypeTrade {
		p.NftsHeld++
	}
	p.PriceOffset--
	p.Stats.TakerSellCount++
	p.Stats.AccumulatedMMProfit = profit
	p.touch()
	return nil
}

func (p *Pool) addMMProfit(mmFee uint64) (uint64, error) {
	if p.Config.PoolType != PoolTypeTrade {
		return p.Stats.AccumulatedMMProfit, nil
	}
	profit, err := mathutil.Add(p.Stats.AccumulatedMMProfit, mmFee)
	if err != nil {
		return 0, arithmeticError(err)
	}
	return profit, nil
}

// ShouldAutoclose tells whether the pool can't trade anymore. Trade pools
// never close on their own, nft pools close once empty, token pools close
// when their amount can't pay for one more nft. Token pools on a shared
// escrow don't own their balance and are left open.
func (p *Pool) ShouldAutoclose() (bool, error) {
	switch p.Config.PoolType {
	case PoolTypeNFT:
		return p.NftsHeld == 0, nil
	case PoolTypeToken:
		if p.IsOnSharedEscrow() {
			return false, nil
		}
		price, err := p.CurrentPrice(TakerSideSell)
		if err != nil {
			return false, err
		}
		return p.Amount < price, nil
	default:
		return false, nil
	}
}

// CheckCloseAuthority verifies the accounts given to close the pool.
func (p *Pool) CheckCloseAuthority(owner, rentPayer solana.PublicKey) error {
	if !p.Owner.Equals(owner) {
		return ErrWrongOwner
	}
	if !p.RentPayer.Equals(rentPayer) {
		return ErrWrongRentPayer
	}
	return nil
}

func (p *Pool) touch() {
	p.UpdatedAt = time.Now().Unix()
}
