package trade

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	log "github.com/sirupsen/logrus"
	"github.com/tswap-network/tswap-daemon/internal/core/domain"
	"github.com/tswap-network/tswap-daemon/pkg/mathutil"
	"github.com/tswap-network/tswap-daemon/pkg/stats"
)

// settlement is a single attempt to settle a trade. It lives within one
// repository transaction, a retried transaction starts a new one.
type settlement struct {
	*Service
	ctx  context.Context
	side domain.TakerSide
	req  TradeRequest

	pool     *domain.Pool
	trade    *domain.Trade
	pricing  *pricing
	emitted  bool
	feesPaid []feeTransfer
	closure  *domain.PoolClosure
}

func (s *Service) newSettlement(
	ctx context.Context, side domain.TakerSide, req TradeRequest,
) *settlement {
	return &settlement{Service: s, ctx: ctx, side: side, req: req}
}

func (st *settlement) buy(maxPrice uint64) error {
	if err := st.loadPool(); err != nil {
		return err
	}
	pool := st.pool

	if pool.Config.PoolType == domain.PoolTypeToken {
		return domain.ErrWrongPoolType
	}
	if _, err := st.repoManager.NftReceiptRepository().GetReceipt(
		st.ctx, st.req.Mint, pool.Address,
	); err != nil {
		if errors.Is(err, domain.ErrReceiptNotFound) {
			return domain.ErrNftNotInPool
		}
		return err
	}

	initialBalance, err := st.balanceOf(pool.Address)
	if err != nil {
		return err
	}
	if err := st.quote(); err != nil {
		return err
	}
	p := st.pricing

	maxAmount, err := mathutil.Sum(p.currentPrice, p.mmFee, p.creators.Amount)
	if err != nil {
		return arithmeticError(err)
	}
	if maxAmount > maxPrice {
		return domain.ErrPriceMismatch
	}

	transfers, err := st.planFees()
	if err != nil {
		return err
	}

	if err := st.token.Transfer(
		st.ctx, pool.Address, st.req.Taker, st.req.Mint, st.req.Authorization,
	); err != nil {
		return err
	}
	if err := st.repoManager.NftReceiptRepository().DeleteReceipt(
		st.ctx, st.req.Mint, pool.Address,
	); err != nil {
		return err
	}

	feesPaid, err := st.payFees(st.req.Taker, transfers)
	if err != nil {
		return err
	}
	if err := st.payCreators(st.req.Taker); err != nil {
		return err
	}

	destination := pool.Owner
	if pool.Config.PoolType == domain.PoolTypeTrade {
		destination = pool.Address
		if pool.IsOnSharedEscrow() {
			destination = *pool.SharedEscrow
		}
	}
	if err := st.pay(st.req.Taker, destination, p.currentPrice); err != nil {
		return err
	}
	if p.mmFee > 0 {
		mmFeeDestination := pool.Owner
		if pool.Config.MMCompoundFees {
			mmFeeDestination = destination
		}
		if err := st.pay(st.req.Taker, mmFeeDestination, p.mmFee); err != nil {
			return err
		}
	}

	if err := pool.RecordBuy(p.mmFee); err != nil {
		return err
	}
	if err := st.reconcileAmount(initialBalance); err != nil {
		return err
	}

	takerAmount, err := mathutil.Sum(maxAmount, feesPaid)
	if err != nil {
		return arithmeticError(err)
	}
	st.trade.TakerAmount = takerAmount
	return st.finalize()
}

func (st *settlement) sell(minPrice uint64) error {
	if err := st.loadPool(); err != nil {
		return err
	}
	pool := st.pool

	if pool.Config.PoolType == domain.PoolTypeNFT {
		return domain.ErrWrongPoolType
	}
	whitelisted, err := st.whitelist.IsWhitelisted(st.ctx, pool, st.req.Mint)
	if err != nil {
		return err
	}
	if !whitelisted {
		return domain.ErrNftNotWhitelisted
	}
	if err := pool.TakerAllowedToSell(); err != nil {
		return err
	}

	initialBalance, err := st.balanceOf(pool.Address)
	if err != nil {
		return err
	}
	if err := st.quote(); err != nil {
		return err
	}
	p := st.pricing

	minAmount, err := mathutil.Sub(p.currentPrice, p.mmFee)
	if err != nil {
		return arithmeticError(err)
	}
	if minAmount, err = mathutil.Sub(minAmount, p.creators.Amount); err != nil {
		return arithmeticError(err)
	}
	if minAmount < minPrice {
		return domain.ErrPriceMismatch
	}
	sellerAmount, err := mathutil.Sub(minAmount, p.fees.TakerFee)
	if err != nil {
		return arithmeticError(err)
	}

	transfers, err := st.planFees()
	if err != nil {
		return err
	}
	feesTotal := uint64(0)
	for _, t := range transfers {
		feesTotal += t.amount
	}
	mmFeeToOwner := uint64(0)
	if pool.Config.PoolType == domain.PoolTypeTrade && !pool.Config.MMCompoundFees {
		mmFeeToOwner = p.mmFee
	}
	outflow, err := mathutil.Sum(
		sellerAmount, feesTotal, p.creators.Amount, mmFeeToOwner,
	)
	if err != nil {
		return arithmeticError(err)
	}

	if pool.IsOnSharedEscrow() {
		if err := st.withdrawFromEscrow(outflow); err != nil {
			return err
		}
	} else if outflow > pool.Amount {
		return domain.ErrInsufficientFunds
	}

	if err := st.depositSoldNft(); err != nil {
		return err
	}

	if err := st.pay(pool.Address, st.req.Taker, sellerAmount); err != nil {
		return err
	}
	if _, err := st.payFees(pool.Address, transfers); err != nil {
		return err
	}
	if err := st.payCreators(pool.Address); err != nil {
		return err
	}
	if err := st.pay(pool.Address, pool.Owner, mmFeeToOwner); err != nil {
		return err
	}

	if err := pool.RecordSell(p.mmFee); err != nil {
		return err
	}
	if err := st.reconcileAmount(initialBalance); err != nil {
		return err
	}

	st.trade.TakerAmount = sellerAmount
	return st.finalize()
}

// loadPool fetches the pool and checks the accounts of the request against
// it.
func (st *settlement) loadPool() error {
	pool, err := st.repoManager.PoolRepository().GetPool(st.ctx, st.req.Pool)
	if err != nil {
		return err
	}
	if err := pool.Validate(); err != nil {
		return err
	}
	if !pool.IsNative() {
		return domain.ErrUnsupportedCurrency
	}
	if !pool.Owner.Equals(st.req.Owner) {
		return domain.ErrWrongOwner
	}
	if pool.IsExpired(time.Now().Unix()) {
		return domain.ErrPoolExpired
	}
	if pool.Cosigner != nil {
		if st.req.Cosigner == nil || !pool.Cosigner.Equals(*st.req.Cosigner) {
			return domain.ErrBadCosigner
		}
	}
	if err := pool.CheckSharedEscrow(st.req.SharedEscrow); err != nil {
		return err
	}

	st.pool = pool
	st.trade = domain.NewTrade(pool, st.side, st.req.Mint, st.req.Taker)
	return nil
}

// quote prices the trade and emits its settlement event.
func (st *settlement) quote() error {
	mint := st.req.Mint
	p, err := st.price(
		st.ctx, st.pool, st.side, &mint, st.req.TakerBroker != nil,
		st.req.OptionalRoyaltyPct,
	)
	if err != nil {
		return err
	}
	st.pricing = p
	st.trade.Fees = p.fees
	st.trade.Event = domain.SettlementEvent{
		CurrentPrice: p.currentPrice,
		TakerFee:     p.fees.TakerFee,
		MMFee:        p.mmFee,
		CreatorsFee:  p.creators.Amount,
	}
	st.emitted = true

	log.WithFields(log.Fields{
		"pool":          st.pool.Address.String(),
		"side":          st.side.String(),
		"current_price": p.currentPrice,
		"taker_fee":     p.fees.TakerFee,
		"mm_fee":        p.mmFee,
		"creators_fee":  p.creators.Amount,
	}).Debug("settlement event")
	return nil
}

// planFees selects the fee transfers to execute. A transfer that would
// leave its recipient below the dust threshold is skipped and stays with the
// payer.
func (st *settlement) planFees() ([]feeTransfer, error) {
	fees := st.pricing.fees
	candidates := []feeTransfer{
		{stats.FeeProtocol, st.cfg.FeeVault, fees.ProtocolFee},
	}
	if st.pool.MakerBroker != nil {
		candidates = append(candidates, feeTransfer{
			stats.FeeMakerBroker, *st.pool.MakerBroker, fees.MakerBrokerFee,
		})
	}
	if st.req.TakerBroker != nil {
		candidates = append(candidates, feeTransfer{
			stats.FeeTakerBroker, *st.req.TakerBroker, fees.TakerBrokerFee,
		})
	}

	transfers := make([]feeTransfer, 0, len(candidates))
	for _, c := range candidates {
		if c.amount == 0 {
			continue
		}
		balance, err := st.balanceOf(c.to)
		if err != nil {
			return nil, err
		}
		total, err := mathutil.Add(balance, c.amount)
		if err != nil {
			return nil, arithmeticError(err)
		}
		if total < st.cfg.MinAccountBalance {
			log.Debugf(
				"skipping %s fee of %d lamports to %s", c.kind, c.amount, c.to,
			)
			st.trade.SkippedFees += c.amount
			continue
		}
		transfers = append(transfers, c)
	}
	return transfers, nil
}

func (st *settlement) payFees(
	from solana.PublicKey, transfers []feeTransfer,
) (uint64, error) {
	total := uint64(0)
	for _, t := range transfers {
		if err := st.pay(from, t.to, t.amount); err != nil {
			return 0, err
		}
		st.feesPaid = append(st.feesPaid, t)
		total += t.amount
	}
	return total, nil
}

func (st *settlement) payCreators(from solana.PublicKey) error {
	for _, payout := range st.pricing.creators.Payouts {
		if err := st.pay(from, payout.Address, payout.Amount); err != nil {
			return err
		}
	}
	return nil
}

func (st *settlement) pay(from, to solana.PublicKey, amount uint64) error {
	if amount == 0 {
		return nil
	}
	return st.repoManager.AccountRepository().Transfer(st.ctx, from, to, amount)
}

func (st *settlement) balanceOf(addr solana.PublicKey) (uint64, error) {
	return st.repoManager.AccountRepository().GetBalance(st.ctx, addr)
}

// withdrawFromEscrow funds the pool with what it pays out for a sell,
// leaving the escrow state bond untouched.
func (st *settlement) withdrawFromEscrow(amount uint64) error {
	addr := *st.pool.SharedEscrow
	escrow, err := st.repoManager.SharedEscrowRepository().GetSharedEscrow(
		st.ctx, addr,
	)
	if err != nil {
		return err
	}
	balance, err := st.balanceOf(addr)
	if err != nil {
		return err
	}
	if escrow.Spendable(balance) < amount {
		return domain.ErrInsufficientFunds
	}
	return st.pay(addr, st.pool.Address, amount)
}

// depositSoldNft moves the sold nft to the owner of a token pool, or into a
// trade pool along with its deposit receipt.
func (st *settlement) depositSoldNft() error {
	pool := st.pool
	if pool.Config.PoolType == domain.PoolTypeToken {
		return st.token.Transfer(
			st.ctx, st.req.Taker, pool.Owner, st.req.Mint, st.req.Authorization,
		)
	}

	if err := st.token.Transfer(
		st.ctx, st.req.Taker, pool.Address, st.req.Mint, st.req.Authorization,
	); err != nil {
		return err
	}
	addr, err := st.cfg.Deriver.NftReceiptAddress(st.req.Mint, pool.Address)
	if err != nil {
		return err
	}
	receipt := domain.NewNftReceipt(addr, st.req.Mint, pool.Address)
	return st.repoManager.NftReceiptRepository().AddReceipt(st.ctx, receipt)
}

// reconcileAmount applies the balance change of the pool to its tracked
// amount and checks the amount still matches the balance net of the state
// bond. Pools on a shared escrow don't track any amount.
func (st *settlement) reconcileAmount(initialBalance uint64) error {
	pool := st.pool
	if !pool.IsNative() || pool.IsOnSharedEscrow() {
		return nil
	}

	balance, err := st.balanceOf(pool.Address)
	if err != nil {
		return err
	}
	amount := pool.Amount
	if balance >= initialBalance {
		amount, err = mathutil.Add(amount, balance-initialBalance)
	} else {
		amount, err = mathutil.Sub(amount, initialBalance-balance)
	}
	if err != nil {
		return fmt.Errorf("%w: %s", domain.ErrInvalidPoolAmount, err)
	}
	if balance < pool.StateBond || balance-pool.StateBond != amount {
		return domain.ErrInvalidPoolAmount
	}
	pool.Amount = amount
	return nil
}

// finalize closes the pool if it can't trade anymore, otherwise stores its
// new state, then records the trade.
func (st *settlement) finalize() error {
	closure, err := st.lifecycle.TryAutoclose(
		st.ctx, st.pool, st.req.Owner, st.req.RentPayer,
	)
	if err != nil {
		return err
	}
	if closure == nil {
		if err := st.repoManager.PoolRepository().UpdatePool(
			st.ctx, st.pool.Address,
			func(_ *domain.Pool) (*domain.Pool, error) {
				return st.pool, nil
			},
		); err != nil {
			return err
		}
	}

	st.closure = closure
	st.trade.PoolClosed = closure != nil
	st.trade.Status = domain.TradeStatusSettled
	return st.repoManager.TradeRepository().AddTrade(st.ctx, st.trade)
}

// wrapError attaches the settlement event to errors occurred after it was
// emitted.
func (st *settlement) wrapError(err error) error {
	if st == nil || !st.emitted {
		return err
	}
	return &domain.SettlementError{Event: st.trade.Event, Err: err}
}
