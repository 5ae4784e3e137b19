package application_test

import (
	"errors"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tswap-network/tswap-daemon/internal/core/application"
	"github.com/tswap-network/tswap-daemon/internal/core/domain"
)

func TestSellToTokenPool(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 0, nil, nil)
	owner := env.newAccount(t, 55e9+poolStateBond)
	pool := env.newPool(
		t, owner, linearConfig(domain.PoolTypeToken, 10e9, 1e9),
	)
	err := env.operator.DepositSol(ctx, pool.Address, owner, 55e9)
	require.NoError(t, err)

	taker := env.newAccount(t, 0)
	expectedTakerBalance := uint64(0)
	for i := 0; i < 10; i++ {
		price := uint64(10-i) * 1e9
		req := tradeRequest(pool, taker)

		quote, err := env.trade.Quote(
			ctx, pool.Address, domain.TakerSideSell, nil, false, nil,
		)
		require.NoError(t, err)
		require.Equal(t, price, quote.CurrentPrice)

		trade, err := env.trade.Sell(ctx, application.SellRequest{
			TradeRequest: req,
			MinPrice:     price,
		})
		require.NoError(t, err)
		require.NotNil(t, trade)
		require.Equal(t, domain.TradeStatusSettled, trade.Status)
		require.Equal(t, price, trade.Event.CurrentPrice)
		require.Equal(t, price/50, trade.Event.TakerFee)
		require.Zero(t, trade.Event.MMFee)
		require.Equal(t, price-price/50, trade.TakerAmount)
		require.False(t, trade.PoolClosed)

		env.token.AssertCalled(t, "Transfer", taker, owner, req.Mint)
		expectedTakerBalance += trade.TakerAmount
	}

	info := env.getPool(t, pool.Address)
	require.Equal(t, int32(-10), info.PriceOffset)
	require.Equal(t, uint32(10), info.Stats.TakerSellCount)
	require.Zero(t, info.Amount)
	require.Equal(t, poolStateBond, info.Balance)
	require.Equal(t, expectedTakerBalance, env.balance(t, taker))
	require.Equal(t, uint64(53.9e9), env.balance(t, taker))
	require.Equal(t, uint64(1.1e9), env.balance(t, env.feeVault))

	quote, err := env.trade.Quote(
		ctx, pool.Address, domain.TakerSideSell, nil, false, nil,
	)
	require.NoError(t, err)
	require.Zero(t, quote.CurrentPrice)
	require.Zero(t, quote.Total)

	// The price curve can't move below zero, so the next sell fails after
	// its event is emitted and leaves no trace but the failed trade.
	_, err = env.trade.Sell(ctx, application.SellRequest{
		TradeRequest: tradeRequest(pool, taker),
	})
	require.ErrorIs(t, err, domain.ErrArithmetic)
	var settlementErr *domain.SettlementError
	require.True(t, errors.As(err, &settlementErr))
	require.Zero(t, settlementErr.Event.CurrentPrice)

	info = env.getPool(t, pool.Address)
	require.Equal(t, int32(-10), info.PriceOffset)
	require.Equal(t, uint32(10), info.Stats.TakerSellCount)
	require.Equal(t, expectedTakerBalance, env.balance(t, taker))

	trades, err := env.trade.ListTrades(ctx, &pool.Address)
	require.NoError(t, err)
	require.Len(t, trades, 11)
	last := trades[len(trades)-1]
	require.Equal(t, domain.TradeStatusFailed, last.Status)
	require.NotEmpty(t, last.FailureReason)
	require.Zero(t, last.TakerAmount)

	got, err := env.trade.GetTrade(ctx, last.ID)
	require.NoError(t, err)
	require.Equal(t, last, *got)
}

func TestSellToSharedEscrowPool(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 0, nil, nil)
	owner := env.newAccount(t, 20e9)
	escrow, err := env.operator.CreateSharedEscrow(ctx, owner, 0, 10e9)
	require.NoError(t, err)

	pool := env.newPool(
		t, owner, linearConfig(domain.PoolTypeTrade, 1e9, 1e8),
		func(req *application.CreatePoolRequest) {
			req.SharedEscrow = &escrow.Address
			req.MaxTakerSellCount = 5
		},
	)
	require.Equal(t, escrow.Address, *pool.SharedEscrow)

	// Two nfts already bought and sold back do not count toward the cap.
	err = env.repo.PoolRepository().UpdatePool(
		ctx, pool.Address, func(p *domain.Pool) (*domain.Pool, error) {
			p.Stats.TakerBuyCount = 2
			p.Stats.TakerSellCount = 2
			return p, nil
		},
	)
	require.NoError(t, err)

	t.Run("bad shared escrow", func(t *testing.T) {
		req := tradeRequest(pool, randomKey())
		req.SharedEscrow = nil
		_, err := env.trade.Sell(ctx, application.SellRequest{TradeRequest: req})
		require.ErrorIs(t, err, domain.ErrBadSharedEscrow)

		other := randomKey()
		req.SharedEscrow = &other
		_, err = env.trade.Sell(ctx, application.SellRequest{TradeRequest: req})
		require.ErrorIs(t, err, domain.ErrBadSharedEscrow)
	})

	taker := env.newAccount(t, 0)
	for i := 0; i < 5; i++ {
		req := tradeRequest(pool, taker)
		trade, err := env.trade.Sell(
			ctx, application.SellRequest{TradeRequest: req},
		)
		require.NoError(t, err)
		require.Equal(t, uint64(9-i)*1e8, trade.Event.CurrentPrice)

		env.token.AssertCalled(t, "Transfer", taker, pool.Address, req.Mint)
	}

	_, err = env.trade.Sell(ctx, application.SellRequest{
		TradeRequest: tradeRequest(pool, taker),
	})
	require.ErrorIs(t, err, domain.ErrMaxTakerSellCountExceeded)
	var settlementErr *domain.SettlementError
	require.False(t, errors.As(err, &settlementErr))

	info := env.getPool(t, pool.Address)
	require.Equal(t, uint32(5), info.NftsHeld)
	require.Equal(t, uint32(7), info.Stats.TakerSellCount)
	require.Zero(t, info.Amount)
	require.Equal(t, poolStateBond, info.Balance)

	escrowInfo, err := env.operator.GetSharedEscrow(ctx, escrow.Address)
	require.NoError(t, err)
	require.Equal(t, uint32(1), escrowInfo.PoolsAttached)
	require.Equal(t, uint64(6.5e9)+escrowStateBond, escrowInfo.Balance)

	receipts, err := env.operator.ListPoolNfts(ctx, pool.Address)
	require.NoError(t, err)
	require.Len(t, receipts, 5)

	trades, err := env.trade.ListTrades(ctx, &pool.Address)
	require.NoError(t, err)
	require.Len(t, trades, 5)
}

func TestBuyFromNftPool(t *testing.T) {
	t.Parallel()

	mint := randomKey()
	creator := randomKey()
	royaltyMock := &mockRoyaltyPolicy{}
	royaltyMock.On("CreatorsFee", mint, mock.Anything, mock.Anything).Return(
		func(price uint64) domain.CreatorsFee {
			amount := price / 20
			return domain.CreatorsFee{
				Amount:  amount,
				Payouts: []domain.CreatorPayout{{Address: creator, Amount: amount}},
			}
		}, nil,
	)

	env := newTestEnv(t, 0, royaltyMock, nil)
	owner := env.newAccount(t, poolStateBond)
	pool := env.newPool(t, owner, linearConfig(domain.PoolTypeNFT, 1e9, 1e8))
	env.depositNft(t, pool, mint)

	quote, err := env.trade.Quote(
		ctx, pool.Address, domain.TakerSideBuy, &mint, false, nil,
	)
	require.NoError(t, err)
	require.Equal(t, uint64(1e9), quote.CurrentPrice)
	require.Equal(t, uint64(5e7), quote.CreatorsFee)
	require.Equal(t, uint64(2e7), quote.Fees.TakerFee)
	require.Equal(t, uint64(1.07e9), quote.Total)

	taker := env.newAccount(t, 2e9)
	req := tradeRequest(pool, taker)
	req.Mint = mint

	_, err = env.trade.Buy(ctx, application.BuyRequest{
		TradeRequest: req,
		MaxPrice:     1e9,
	})
	require.ErrorIs(t, err, domain.ErrPriceMismatch)
	var settlementErr *domain.SettlementError
	require.True(t, errors.As(err, &settlementErr))
	require.Equal(t, domain.SettlementEvent{
		CurrentPrice: 1e9,
		TakerFee:     2e7,
		CreatorsFee:  5e7,
	}, settlementErr.Event)

	require.Equal(t, uint64(2e9), env.balance(t, taker))
	info := env.getPool(t, pool.Address)
	require.Equal(t, uint32(1), info.NftsHeld)
	require.Zero(t, info.PriceOffset)

	trade, err := env.trade.Buy(ctx, application.BuyRequest{
		TradeRequest: req,
		MaxPrice:     1.05e9,
	})
	require.NoError(t, err)
	require.Equal(t, uint64(1.07e9), trade.TakerAmount)
	require.True(t, trade.PoolClosed)
	env.token.AssertCalled(t, "Transfer", pool.Address, taker, mint)

	require.Equal(t, uint64(0.93e9), env.balance(t, taker))
	require.Equal(t, uint64(5e7), env.balance(t, creator))
	require.Equal(t, uint64(2e7), env.balance(t, env.feeVault))
	require.Equal(t, uint64(1e9)+poolStateBond, env.balance(t, owner))
	require.Zero(t, env.balance(t, pool.Address))

	_, err = env.trade.GetPool(ctx, pool.Address)
	require.ErrorIs(t, err, domain.ErrPoolNotFound)

	trades, err := env.trade.ListTrades(ctx, nil)
	require.NoError(t, err)
	require.Len(t, trades, 2)
	require.Equal(t, domain.TradeStatusFailed, trades[0].Status)
	require.Equal(t, domain.TradeStatusSettled, trades[1].Status)
}

func TestTradePoolRoundTrip(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 0, nil, nil)
	owner := env.newAccount(t, poolStateBond)
	makerBroker := randomKey()
	takerBroker := randomKey()
	pool := env.newPool(
		t, owner, linearConfig(domain.PoolTypeTrade, 1e9, 1e8),
		func(req *application.CreatePoolRequest) {
			req.MakerBroker = &makerBroker
		},
	)
	mint := randomKey()
	env.depositNft(t, pool, mint)

	taker := env.newAccount(t, 2e9)
	accounts := []solana.PublicKey{
		taker, owner, pool.Address, env.feeVault, makerBroker, takerBroker,
	}
	total := func() uint64 {
		sum := uint64(0)
		for _, addr := range accounts {
			sum += env.balance(t, addr)
		}
		return sum
	}
	initialTotal := total()

	req := tradeRequest(pool, taker)
	req.Mint = mint
	req.TakerBroker = &takerBroker
	trade, err := env.trade.Buy(ctx, application.BuyRequest{
		TradeRequest: req,
		MaxPrice:     1.025e9,
	})
	require.NoError(t, err)
	require.Equal(t, domain.Fees{
		TakerFee:       2e7,
		ProtocolFee:    1e7,
		MakerBrokerFee: 8e6,
		TakerBrokerFee: 2e6,
	}, trade.Fees)
	require.Equal(t, uint64(2.5e7), trade.Event.MMFee)
	require.Equal(t, uint64(1.045e9), trade.TakerAmount)
	require.False(t, trade.PoolClosed)

	require.Equal(t, initialTotal, total())
	require.Equal(t, uint64(0.955e9), env.balance(t, taker))
	require.Equal(t, uint64(2.5e7), env.balance(t, owner))
	require.Equal(t, uint64(1e7), env.balance(t, env.feeVault))
	require.Equal(t, uint64(8e6), env.balance(t, makerBroker))
	require.Equal(t, uint64(2e6), env.balance(t, takerBroker))

	info := env.getPool(t, pool.Address)
	require.Equal(t, uint64(1e9), info.Amount)
	require.Equal(t, uint64(1e9)+poolStateBond, info.Balance)
	require.Equal(t, int32(1), info.PriceOffset)
	require.Zero(t, info.NftsHeld)
	require.Equal(t, uint64(2.5e7), info.Stats.AccumulatedMMProfit)

	quote, err := env.trade.Quote(
		ctx, pool.Address, domain.TakerSideSell, nil, true, nil,
	)
	require.NoError(t, err)
	require.Equal(t, uint64(1e9), quote.CurrentPrice)
	require.Equal(t, uint64(0.955e9), quote.Total)

	trade, err = env.trade.Sell(ctx, application.SellRequest{
		TradeRequest: req,
		MinPrice:     0.975e9,
	})
	require.NoError(t, err)
	require.Equal(t, uint64(0.955e9), trade.TakerAmount)

	require.Equal(t, initialTotal, total())
	require.Equal(t, uint64(1.91e9), env.balance(t, taker))
	require.Equal(t, uint64(5e7), env.balance(t, owner))

	info = env.getPool(t, pool.Address)
	require.Zero(t, info.Amount)
	require.Equal(t, poolStateBond, info.Balance)
	require.Zero(t, info.PriceOffset)
	require.Equal(t, uint32(1), info.NftsHeld)
	require.Equal(t, uint64(5e7), info.Stats.AccumulatedMMProfit)
}

func TestTradePoolCompoundFees(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		onEscrow bool
	}{
		{"pool balance", false},
		{"shared escrow", true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(t, 0, nil, nil)
			owner := env.newAccount(t, poolStateBond+escrowStateBond+1e9)
			config := linearConfig(domain.PoolTypeTrade, 1e9, 1e8)
			config.MMCompoundFees = true

			var escrow *domain.SharedEscrow
			opts := []func(*application.CreatePoolRequest){}
			if tt.onEscrow {
				var err error
				escrow, err = env.operator.CreateSharedEscrow(ctx, owner, 0, 1e9)
				require.NoError(t, err)
				opts = append(opts, func(req *application.CreatePoolRequest) {
					req.SharedEscrow = &escrow.Address
				})
			}
			pool := env.newPool(t, owner, config, opts...)
			ownerBalance := env.balance(t, owner)

			mint := randomKey()
			env.depositNft(t, pool, mint)

			taker := env.newAccount(t, 2e9)
			req := tradeRequest(pool, taker)
			req.Mint = mint

			// pool amount, pool balance and escrow balance after each trade.
			checkPool := func(amount, escrowBalance uint64) {
				info := env.getPool(t, pool.Address)
				require.Equal(t, amount, info.Amount)
				require.Equal(t, amount+poolStateBond, info.Balance)
				if escrow != nil {
					require.Equal(t,
						escrowBalance+escrowStateBond,
						env.balance(t, escrow.Address),
					)
				}
				require.Equal(t, ownerBalance, env.balance(t, owner))
			}

			trade, err := env.trade.Buy(ctx, application.BuyRequest{
				TradeRequest: req,
				MaxPrice:     1.025e9,
			})
			require.NoError(t, err)
			require.Equal(t, uint64(2.5e7), trade.Event.MMFee)
			require.Equal(t, uint64(1.045e9), trade.TakerAmount)
			require.Equal(t, uint64(0.955e9), env.balance(t, taker))
			require.Equal(t, uint64(2e7), env.balance(t, env.feeVault))
			if tt.onEscrow {
				checkPool(0, 2.025e9)
			} else {
				checkPool(1.025e9, 0)
			}

			trade, err = env.trade.Sell(ctx, application.SellRequest{
				TradeRequest: req,
				MinPrice:     0.975e9,
			})
			require.NoError(t, err)
			require.Equal(t, uint64(0.955e9), trade.TakerAmount)
			require.Equal(t, uint64(1.91e9), env.balance(t, taker))
			require.Equal(t, uint64(4e7), env.balance(t, env.feeVault))
			if tt.onEscrow {
				checkPool(0, 1.05e9)
			} else {
				checkPool(5e7, 0)
			}

			info := env.getPool(t, pool.Address)
			require.Equal(t, uint64(5e7), info.Stats.AccumulatedMMProfit)
			require.Zero(t, info.PriceOffset)
		})
	}
}

func TestSellWithUntrackedPoolBalance(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 0, nil, nil)
	owner := env.newAccount(t, 5e9+poolStateBond)
	pool := env.newPool(t, owner, linearConfig(domain.PoolTypeToken, 1e9, 1e8))
	err := env.operator.DepositSol(ctx, pool.Address, owner, 5e9)
	require.NoError(t, err)

	// Funds sent to the pool address outside of a deposit are not part of
	// the pool amount.
	_, err = env.operator.Fund(ctx, pool.Address, 1e8)
	require.NoError(t, err)

	taker := env.newAccount(t, 0)
	_, err = env.trade.Sell(ctx, application.SellRequest{
		TradeRequest: tradeRequest(pool, taker),
	})
	require.ErrorIs(t, err, domain.ErrInvalidPoolAmount)
	var settlementErr *domain.SettlementError
	require.True(t, errors.As(err, &settlementErr))

	info := env.getPool(t, pool.Address)
	require.Equal(t, uint64(5e9), info.Amount)
	require.Equal(t, uint64(5.1e9)+poolStateBond, info.Balance)
	require.Zero(t, info.PriceOffset)
	require.Zero(t, info.Stats.TakerSellCount)
	require.Zero(t, env.balance(t, taker))
	require.Zero(t, env.balance(t, env.feeVault))
}

func TestTokenPoolAutoclose(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 0, nil, nil)
	owner := env.newAccount(t, 1.5e9+poolStateBond)
	pool := env.newPool(t, owner, linearConfig(domain.PoolTypeToken, 1e9, 1e8))
	err := env.operator.DepositSol(ctx, pool.Address, owner, 1.5e9)
	require.NoError(t, err)

	trade, err := env.trade.Sell(ctx, application.SellRequest{
		TradeRequest: tradeRequest(pool, randomKey()),
	})
	require.NoError(t, err)
	require.True(t, trade.PoolClosed)

	require.Equal(t, uint64(0.5e9)+poolStateBond, env.balance(t, owner))
	require.Zero(t, env.balance(t, pool.Address))

	pools, err := env.trade.ListPools(ctx)
	require.NoError(t, err)
	require.Empty(t, pools)
}

func TestSkipUneconomicalFees(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 1e8, nil, nil)
	owner := env.newAccount(t, 2*poolStateBond)
	taker := env.newAccount(t, 3e9)

	buy := func() *domain.Trade {
		pool := env.newPool(t, owner, linearConfig(domain.PoolTypeNFT, 1e9, 0))
		mint := randomKey()
		env.depositNft(t, pool, mint)

		req := tradeRequest(pool, taker)
		req.Mint = mint
		trade, err := env.trade.Buy(ctx, application.BuyRequest{
			TradeRequest: req,
			MaxPrice:     1e9,
		})
		require.NoError(t, err)
		return trade
	}

	trade := buy()
	require.Equal(t, uint64(2e7), trade.SkippedFees)
	require.Equal(t, uint64(1e9), trade.TakerAmount)
	require.Zero(t, env.balance(t, env.feeVault))

	_, err := env.operator.Fund(ctx, env.feeVault, 1e8)
	require.NoError(t, err)

	trade = buy()
	require.Zero(t, trade.SkippedFees)
	require.Equal(t, uint64(1.02e9), trade.TakerAmount)
	require.Equal(t, uint64(1.2e8), env.balance(t, env.feeVault))
}

func TestSellWithInsufficientFunds(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 0, nil, nil)
	owner := env.newAccount(t, poolStateBond)
	pool := env.newPool(t, owner, linearConfig(domain.PoolTypeToken, 1e9, 1e8))

	_, err := env.trade.Sell(ctx, application.SellRequest{
		TradeRequest: tradeRequest(pool, randomKey()),
	})
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)
	var settlementErr *domain.SettlementError
	require.True(t, errors.As(err, &settlementErr))
	require.Equal(t, uint64(1e9), settlementErr.Event.CurrentPrice)

	trades, err := env.trade.ListTrades(ctx, &pool.Address)
	require.NoError(t, err)
	require.Len(t, trades, 1)
	require.Equal(t, domain.TradeStatusFailed, trades[0].Status)
}

func TestTradeRejectedBeforePricing(t *testing.T) {
	t.Parallel()

	blockedMint := randomKey()
	cosigner := randomKey()
	tests := []struct {
		name        string
		poolType    domain.PoolType
		side        domain.TakerSide
		createOpt   func(*application.CreatePoolRequest)
		editReq     func(*application.TradeRequest)
		expectedErr error
	}{
		{
			name:     "wrong owner",
			poolType: domain.PoolTypeToken,
			side:     domain.TakerSideSell,
			editReq: func(req *application.TradeRequest) {
				req.Owner = randomKey()
			},
			expectedErr: domain.ErrWrongOwner,
		},
		{
			name:     "expired pool",
			poolType: domain.PoolTypeToken,
			side:     domain.TakerSideSell,
			createOpt: func(req *application.CreatePoolRequest) {
				req.Expiry = time.Now().Add(-time.Hour).Unix()
			},
			expectedErr: domain.ErrPoolExpired,
		},
		{
			name:     "missing cosigner",
			poolType: domain.PoolTypeToken,
			side:     domain.TakerSideSell,
			createOpt: func(req *application.CreatePoolRequest) {
				req.Cosigner = &cosigner
			},
			expectedErr: domain.ErrBadCosigner,
		},
		{
			name:     "wrong cosigner",
			poolType: domain.PoolTypeToken,
			side:     domain.TakerSideSell,
			createOpt: func(req *application.CreatePoolRequest) {
				req.Cosigner = &cosigner
			},
			editReq: func(req *application.TradeRequest) {
				other := randomKey()
				req.Cosigner = &other
			},
			expectedErr: domain.ErrBadCosigner,
		},
		{
			name:     "pool not on shared escrow",
			poolType: domain.PoolTypeToken,
			side:     domain.TakerSideSell,
			editReq: func(req *application.TradeRequest) {
				escrow := randomKey()
				req.SharedEscrow = &escrow
			},
			expectedErr: domain.ErrPoolNotOnSharedEscrow,
		},
		{
			name:     "nft not whitelisted",
			poolType: domain.PoolTypeToken,
			side:     domain.TakerSideSell,
			editReq: func(req *application.TradeRequest) {
				req.Mint = blockedMint
			},
			expectedErr: domain.ErrNftNotWhitelisted,
		},
		{
			name:        "sell to nft pool",
			poolType:    domain.PoolTypeNFT,
			side:        domain.TakerSideSell,
			expectedErr: domain.ErrWrongPoolType,
		},
		{
			name:        "buy from token pool",
			poolType:    domain.PoolTypeToken,
			side:        domain.TakerSideBuy,
			expectedErr: domain.ErrWrongPoolType,
		},
		{
			name:        "buy nft not in pool",
			poolType:    domain.PoolTypeTrade,
			side:        domain.TakerSideBuy,
			expectedErr: domain.ErrNftNotInPool,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			whitelistMock := &mockWhitelistPolicy{}
			whitelistMock.On("IsWhitelisted", mock.Anything, blockedMint).
				Return(false, nil)
			env := newTestEnv(t, 0, nil, whitelistMock)

			owner := env.newAccount(t, poolStateBond)
			opts := []func(*application.CreatePoolRequest){}
			if tt.createOpt != nil {
				opts = append(opts, tt.createOpt)
			}
			pool := env.newPool(
				t, owner, linearConfig(tt.poolType, 1e9, 1e8), opts...,
			)

			taker := env.newAccount(t, 2e9)
			req := tradeRequest(pool, taker)
			if tt.editReq != nil {
				tt.editReq(&req)
			}

			var err error
			if tt.side == domain.TakerSideBuy {
				_, err = env.trade.Buy(ctx, application.BuyRequest{
					TradeRequest: req,
					MaxPrice:     2e9,
				})
			} else {
				_, err = env.trade.Sell(
					ctx, application.SellRequest{TradeRequest: req},
				)
			}
			require.ErrorIs(t, err, tt.expectedErr)
			var settlementErr *domain.SettlementError
			require.False(t, errors.As(err, &settlementErr))

			trades, err := env.trade.ListTrades(ctx, &pool.Address)
			require.NoError(t, err)
			require.Empty(t, trades)
			require.Equal(t, uint64(2e9), env.balance(t, taker))
		})
	}
}
