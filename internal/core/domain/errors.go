package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrArithmetic is returned when any checked operation overflows,
	// underflows or a fixed-point result does not fit a price.
	ErrArithmetic = errors.New("arithmetic error")
	// ErrWrongPoolType is returned when an operation is not supported by the
	// type of the pool, ie. quoting a buy from a token pool.
	ErrWrongPoolType = errors.New("wrong pool type")
	// ErrPriceMismatch is returned when the price of a trade exceeds the
	// slippage bound given by the taker.
	ErrPriceMismatch = errors.New("price mismatch")
	// ErrMaxTakerSellCountExceeded ...
	ErrMaxTakerSellCountExceeded = errors.New("max taker sell count exceeded")
	// ErrMaxTakerSellCountTooSmall ...
	ErrMaxTakerSellCountTooSmall = errors.New(
		"max taker sell count is smaller than the current net sell count",
	)
	// ErrBadSharedEscrow is returned when the given shared escrow does not
	// match the one the pool is attached to.
	ErrBadSharedEscrow = errors.New("bad shared escrow")
	// ErrPoolOnSharedEscrow ...
	ErrPoolOnSharedEscrow = errors.New("pool is attached to a shared escrow")
	// ErrPoolNotOnSharedEscrow ...
	ErrPoolNotOnSharedEscrow = errors.New("pool is not attached to a shared escrow")
	// ErrInvalidPoolAmount is returned when the tracked amount of a pool does
	// not match its actual balance after a trade.
	ErrInvalidPoolAmount = errors.New("invalid pool amount")
	// ErrWrongRentPayer ...
	ErrWrongRentPayer = errors.New("wrong rent payer")
	// ErrWrongOwner ...
	ErrWrongOwner = errors.New("wrong owner")

	// ErrUnknownPoolType ...
	ErrUnknownPoolType = errors.New("unknown pool type")
	// ErrUnknownCurveType ...
	ErrUnknownCurveType = errors.New("unknown curve type")
	// ErrUnknownTakerSide ...
	ErrUnknownTakerSide = errors.New("unknown taker side")
	// ErrStartingPriceTooSmall ...
	ErrStartingPriceTooSmall = errors.New("starting price must be at least 1")
	// ErrDeltaTooLarge ...
	ErrDeltaTooLarge = errors.New("exponential delta must not exceed 9999 bps")
	// ErrMissingMMFee ...
	ErrMissingMMFee = errors.New("trade pool requires a market-making fee")
	// ErrMMFeeNotAllowed ...
	ErrMMFeeNotAllowed = errors.New("market-making fee is allowed only for trade pools")
	// ErrMMFeeTooHigh ...
	ErrMMFeeTooHigh = errors.New("market-making fee must not exceed 9999 bps")
	// ErrUnsupportedCurrency ...
	ErrUnsupportedCurrency = errors.New("only native currency pools are supported")
	// ErrUnsupportedPoolVersion ...
	ErrUnsupportedPoolVersion = errors.New("unsupported pool version")
	// ErrExistingNfts is returned when closing a pool that still holds NFTs.
	ErrExistingNfts = errors.New("pool still holds nfts")
	// ErrPoolExpired ...
	ErrPoolExpired = errors.New("pool is expired")
	// ErrBadCosigner ...
	ErrBadCosigner = errors.New("bad cosigner")
	// ErrNftNotWhitelisted ...
	ErrNftNotWhitelisted = errors.New("nft is not whitelisted by the pool")
	// ErrNftNotInPool ...
	ErrNftNotInPool = errors.New("nft is not deposited in the pool")
	// ErrNftNotOwned is returned when moving an nft from an account that does
	// not hold it.
	ErrNftNotOwned = errors.New("nft is not held by the source account")
	// ErrInsufficientFunds ...
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrEscrowInUse ...
	ErrEscrowInUse = errors.New("shared escrow has pools attached")
	// ErrInvalidRoyalty ...
	ErrInvalidRoyalty = errors.New("invalid royalty configuration")
	// ErrInvalidFeeConfig ...
	ErrInvalidFeeConfig = errors.New("invalid fee configuration")

	// ErrPoolNotFound ...
	ErrPoolNotFound = errors.New("pool not found")
	// ErrPoolAlreadyExists ...
	ErrPoolAlreadyExists = errors.New("pool already exists")
	// ErrEscrowNotFound ...
	ErrEscrowNotFound = errors.New("shared escrow not found")
	// ErrEscrowAlreadyExists ...
	ErrEscrowAlreadyExists = errors.New("shared escrow already exists")
	// ErrNftNotFound ...
	ErrNftNotFound = errors.New("nft not found")
	// ErrNftAlreadyExists ...
	ErrNftAlreadyExists = errors.New("nft already exists")
	// ErrReceiptNotFound ...
	ErrReceiptNotFound = errors.New("nft deposit receipt not found")
	// ErrTradeNotFound ...
	ErrTradeNotFound = errors.New("trade not found")
)

func arithmeticError(err error) error {
	return fmt.Errorf("%w: %s", ErrArithmetic, err)
}

// SettlementError is returned by a trade that failed after its settlement
// event had been emitted. It carries the event so that the failed attempt
// remains diagnosable.
type SettlementError struct {
	Event SettlementEvent
	Err   error
}

func (e *SettlementError) Error() string {
	return fmt.Sprintf(
		"%s (current price: %d, taker fee: %d, mm fee: %d, creators fee: %d)",
		e.Err, e.Event.CurrentPrice, e.Event.TakerFee, e.Event.MMFee,
		e.Event.CreatorsFee,
	)
}

func (e *SettlementError) Unwrap() error {
	return e.Err
}
