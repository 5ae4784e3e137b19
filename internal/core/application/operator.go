package application

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/tswap-network/tswap-daemon/internal/core/application/lifecycle"
	"github.com/tswap-network/tswap-daemon/internal/core/application/operator"
	"github.com/tswap-network/tswap-daemon/internal/core/application/pubsub"
	"github.com/tswap-network/tswap-daemon/internal/core/domain"
	"github.com/tswap-network/tswap-daemon/internal/core/ports"
)

type (
	CreatePoolRequest  = operator.CreatePoolRequest
	EditPoolRequest    = operator.EditPoolRequest
	NftRequest         = operator.NftRequest
	RegisterNftRequest = operator.RegisterNftRequest
	EscrowInfo         = operator.EscrowInfo
)

type OperatorService interface {
	// Pools
	CreatePool(ctx context.Context, req CreatePoolRequest) (*domain.Pool, error)
	EditPool(ctx context.Context, req EditPoolRequest) (*domain.Pool, error)
	ClosePool(
		ctx context.Context, pool, owner, rentPayer solana.PublicKey,
	) (*domain.PoolClosure, error)
	GetPool(ctx context.Context, pool solana.PublicKey) (*domain.Pool, error)
	ListPools(
		ctx context.Context, owner *solana.PublicKey,
	) ([]domain.Pool, error)
	ListPoolNfts(
		ctx context.Context, pool solana.PublicKey,
	) ([]domain.NftReceipt, error)
	DepositSol(
		ctx context.Context, pool, owner solana.PublicKey, amount uint64,
	) error
	WithdrawSol(
		ctx context.Context, pool, owner solana.PublicKey, amount uint64,
	) error
	DepositNft(ctx context.Context, req NftRequest) error
	WithdrawNft(ctx context.Context, req NftRequest) error

	// Shared escrows
	CreateSharedEscrow(
		ctx context.Context, owner solana.PublicKey, nonce uint16, amount uint64,
	) (*domain.SharedEscrow, error)
	GetSharedEscrow(
		ctx context.Context, escrow solana.PublicKey,
	) (*EscrowInfo, error)
	DepositToSharedEscrow(
		ctx context.Context, escrow, owner solana.PublicKey, amount uint64,
	) error
	WithdrawFromSharedEscrow(
		ctx context.Context, escrow, owner solana.PublicKey, amount uint64,
	) error
	CloseSharedEscrow(
		ctx context.Context, escrow, owner solana.PublicKey,
	) (uint64, error)
	AttachPoolToSharedEscrow(
		ctx context.Context, pool, owner, escrow solana.PublicKey,
	) error
	DetachPoolFromSharedEscrow(
		ctx context.Context, pool, owner, escrow solana.PublicKey, amount uint64,
	) error

	// Nfts
	RegisterNft(ctx context.Context, req RegisterNftRequest) (*domain.Nft, error)
	GetNft(ctx context.Context, mint solana.PublicKey) (*domain.Nft, error)

	// Accounts
	GetBalance(ctx context.Context, addr solana.PublicKey) (uint64, error)
	Fund(
		ctx context.Context, addr solana.PublicKey, amount uint64,
	) (uint64, error)

	// Webhooks
	AddWebhook(ctx context.Context, event, endpoint, secret string) (string, error)
	RemoveWebhook(ctx context.Context, id string) error
	ListWebhooks(ctx context.Context, event string) ([]ports.Subscription, error)
}

func NewOperatorService(
	repoManager ports.RepoManager,
	pubsubSvc PubSubService,
	lifecycleMgr *lifecycle.Manager,
	token ports.TokenTransfer,
	whitelist ports.WhitelistPolicy,
	deriver domain.AddressDeriver,
	poolStateBond, escrowStateBond uint64,
) (OperatorService, error) {
	p, _ := pubsubSvc.(*pubsub.Service)
	svc, err := operator.NewService(
		repoManager, p, lifecycleMgr, token, whitelist, deriver,
		poolStateBond, escrowStateBond,
	)
	if err != nil {
		return nil, err
	}
	return svc, nil
}
