package application_test

import (
	"context"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tswap-network/tswap-daemon/internal/core/application"
	"github.com/tswap-network/tswap-daemon/internal/core/domain"
	"github.com/tswap-network/tswap-daemon/internal/core/ports"
)

const (
	poolStateBond   = uint64(1000)
	escrowStateBond = uint64(500)
)

var (
	ctx = context.Background()

	fees = domain.FeeConfig{
		TakerFeeBps:    200,
		BrokerFeePct:   50,
		MakerBrokerPct: 80,
	}
)

type testEnv struct {
	trade     application.TradeService
	operator  application.OperatorService
	pubsub    application.PubSubService
	repo      ports.RepoManager
	royalty   *mockRoyaltyPolicy
	token     *mockTokenTransfer
	whitelist *mockWhitelistPolicy
	feeVault  solana.PublicKey
}

// newTestEnv wires the services on an in-memory db. Token transfers always
// succeed, every nft is whitelisted and no royalty is due unless the test
// registers more specific expectations before calling it.
func newTestEnv(
	t *testing.T, minAccountBalance uint64, royaltyMock *mockRoyaltyPolicy,
	whitelistMock *mockWhitelistPolicy,
) *testEnv {
	t.Helper()
	return newTestEnvWithPubSub(
		t, nil, minAccountBalance, royaltyMock, whitelistMock,
	)
}

func newTestEnvWithPubSub(
	t *testing.T, securePubSub ports.SecurePubSub, minAccountBalance uint64,
	royaltyMock *mockRoyaltyPolicy, whitelistMock *mockWhitelistPolicy,
) *testEnv {
	t.Helper()

	if royaltyMock == nil {
		royaltyMock = &mockRoyaltyPolicy{}
	}
	royaltyMock.On("CreatorsFee", mock.Anything, mock.Anything, mock.Anything).
		Return(domain.CreatorsFee{}, nil)
	tokenMock := &mockTokenTransfer{}
	tokenMock.On("Transfer", mock.Anything, mock.Anything, mock.Anything).
		Return(nil)
	if whitelistMock == nil {
		whitelistMock = &mockWhitelistPolicy{}
	}
	whitelistMock.On("IsWhitelisted", mock.Anything, mock.Anything).
		Return(true, nil)

	feeVault := randomKey()
	cfg := &application.Config{
		DBType:            application.DBInMemory,
		SecurePubSub:      securePubSub,
		RoyaltyPolicy:     royaltyMock,
		TokenTransfer:     tokenMock,
		WhitelistPolicy:   whitelistMock,
		ProgramID:         randomKey(),
		FeeVault:          feeVault,
		Fees:              fees,
		MinAccountBalance: minAccountBalance,
		PoolStateBond:     poolStateBond,
		EscrowStateBond:   escrowStateBond,
	}
	require.NoError(t, cfg.Validate())

	repo := cfg.RepoManager()
	t.Cleanup(repo.Close)

	return &testEnv{
		trade:     cfg.TradeService(),
		operator:  cfg.OperatorService(),
		pubsub:    cfg.PubSubService(),
		repo:      repo,
		royalty:   royaltyMock,
		token:     tokenMock,
		whitelist: whitelistMock,
		feeVault:  feeVault,
	}
}

// newAccount returns a new address funded with the given amount.
func (e *testEnv) newAccount(t *testing.T, amount uint64) solana.PublicKey {
	t.Helper()

	addr := randomKey()
	if amount > 0 {
		_, err := e.operator.Fund(ctx, addr, amount)
		require.NoError(t, err)
	}
	return addr
}

func (e *testEnv) balance(t *testing.T, addr solana.PublicKey) uint64 {
	t.Helper()

	balance, err := e.operator.GetBalance(ctx, addr)
	require.NoError(t, err)
	return balance
}

// newPool creates a pool owned and paid by owner.
func (e *testEnv) newPool(
	t *testing.T, owner solana.PublicKey, config domain.PoolConfig,
	opts ...func(*application.CreatePoolRequest),
) *domain.Pool {
	t.Helper()

	req := application.CreatePoolRequest{
		Owner:     owner,
		RentPayer: owner,
		Config:    config,
	}
	for _, opt := range opts {
		opt(&req)
	}
	pool, err := e.operator.CreatePool(ctx, req)
	require.NoError(t, err)
	return pool
}

func (e *testEnv) depositNft(
	t *testing.T, pool *domain.Pool, mint solana.PublicKey,
) {
	t.Helper()

	err := e.operator.DepositNft(ctx, application.NftRequest{
		Pool:  pool.Address,
		Owner: pool.Owner,
		Mint:  mint,
	})
	require.NoError(t, err)
}

func (e *testEnv) getPool(
	t *testing.T, addr solana.PublicKey,
) *application.PoolInfo {
	t.Helper()

	info, err := e.trade.GetPool(ctx, addr)
	require.NoError(t, err)
	return info
}

func tradeRequest(pool *domain.Pool, taker solana.PublicKey) application.TradeRequest {
	return application.TradeRequest{
		Pool:         pool.Address,
		Taker:        taker,
		Mint:         randomKey(),
		Owner:        pool.Owner,
		RentPayer:    pool.RentPayer,
		SharedEscrow: pool.SharedEscrow,
	}
}

func linearConfig(
	poolType domain.PoolType, startingPrice, delta uint64,
) domain.PoolConfig {
	config := domain.PoolConfig{
		PoolType:      poolType,
		CurveType:     domain.CurveLinear,
		StartingPrice: startingPrice,
		Delta:         delta,
	}
	if poolType == domain.PoolTypeTrade {
		mmFee := uint16(250)
		config.MMFeeBps = &mmFee
	}
	return config
}

func randomKey() solana.PublicKey {
	return solana.NewWallet().PublicKey()
}
