package operator

import (
	"context"
	"fmt"

	"github.com/tswap-network/tswap-daemon/internal/core/application/lifecycle"
	"github.com/tswap-network/tswap-daemon/internal/core/application/pubsub"
	"github.com/tswap-network/tswap-daemon/internal/core/domain"
	"github.com/tswap-network/tswap-daemon/internal/core/ports"
)

type service struct {
	repoManager ports.RepoManager
	pubsub      *pubsub.Service
	lifecycle   *lifecycle.Manager
	token       ports.TokenTransfer
	whitelist   ports.WhitelistPolicy

	deriver         domain.AddressDeriver
	poolStateBond   uint64
	escrowStateBond uint64
}

func NewService(
	repoManager ports.RepoManager,
	pubsubSvc *pubsub.Service,
	lifecycleMgr *lifecycle.Manager,
	token ports.TokenTransfer,
	whitelist ports.WhitelistPolicy,
	deriver domain.AddressDeriver,
	poolStateBond, escrowStateBond uint64,
) (*service, error) {
	if repoManager == nil {
		return nil, fmt.Errorf("missing repo manager")
	}
	if pubsubSvc == nil {
		return nil, fmt.Errorf("missing pubsub service")
	}
	if lifecycleMgr == nil {
		return nil, fmt.Errorf("missing pool lifecycle manager")
	}
	if token == nil {
		return nil, fmt.Errorf("missing token transfer")
	}
	if whitelist == nil {
		return nil, fmt.Errorf("missing whitelist policy")
	}

	return &service{
		repoManager, pubsubSvc, lifecycleMgr, token, whitelist,
		deriver, poolStateBond, escrowStateBond,
	}, nil
}

// withTx runs handler in a read-write transaction.
func (s *service) withTx(
	ctx context.Context, handler func(ctx context.Context) error,
) error {
	_, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			return nil, handler(ctx)
		},
	)
	return err
}
