package application

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	log "github.com/sirupsen/logrus"
	"github.com/tswap-network/tswap-daemon/internal/core/application/lifecycle"
	"github.com/tswap-network/tswap-daemon/internal/core/domain"
	"github.com/tswap-network/tswap-daemon/internal/core/ports"
	"github.com/tswap-network/tswap-daemon/internal/infrastructure/royalty"
	dbbadger "github.com/tswap-network/tswap-daemon/internal/infrastructure/storage/db/badger"
	"github.com/tswap-network/tswap-daemon/internal/infrastructure/storage/db/inmemory"
	"github.com/tswap-network/tswap-daemon/internal/infrastructure/token"
)

const (
	DBBadger   = "badger"
	DBInMemory = "inmemory"
)

var (
	SupportedDBType = map[string]struct{}{
		DBBadger:   {},
		DBInMemory: {},
	}
)

type Config struct {
	DBType string
	// DBConfig is the datadir of the badger db.
	DBConfig interface{}

	SecurePubSub ports.SecurePubSub
	// The collaborators below default to the implementations backed by the
	// nft registry of the daemon.
	RoyaltyPolicy    ports.RoyaltyPolicy
	TokenTransfer    ports.TokenTransfer
	WhitelistPolicy  ports.WhitelistPolicy
	RoyaltyCacheSize int

	ProgramID solana.PublicKey
	// FeeVault defaults to the address derived from ProgramID.
	FeeVault          solana.PublicKey
	Fees              domain.FeeConfig
	MinAccountBalance uint64
	PoolStateBond     uint64
	EscrowStateBond   uint64

	repo      ports.RepoManager
	pubsub    PubSubService
	lifecycle *lifecycle.Manager
	operator  OperatorService
	trade     TradeService
}

func (c *Config) Validate() error {
	if _, ok := SupportedDBType[c.DBType]; !ok {
		return fmt.Errorf("unsupported db type %s", c.DBType)
	}
	if c.ProgramID.IsZero() {
		return fmt.Errorf("missing program id")
	}
	if err := c.Fees.Validate(); err != nil {
		return err
	}
	if _, err := c.repoManager(); err != nil {
		return err
	}
	if _, err := c.tradeService(); err != nil {
		return err
	}
	if _, err := c.operatorService(); err != nil {
		return err
	}
	return nil
}

func (c *Config) RepoManager() ports.RepoManager {
	svc, _ := c.repoManager()
	return svc
}

func (c *Config) PubSubService() PubSubService {
	svc, _ := c.pubsubService()
	return svc
}

func (c *Config) OperatorService() OperatorService {
	svc, _ := c.operatorService()
	return svc
}

func (c *Config) TradeService() TradeService {
	svc, _ := c.tradeService()
	return svc
}

func (c *Config) deriver() domain.AddressDeriver {
	return domain.AddressDeriver{ProgramID: c.ProgramID}
}

func (c *Config) repoManager() (ports.RepoManager, error) {
	if c.repo == nil {
		switch c.DBType {
		case DBBadger:
			datadir, _ := c.DBConfig.(string)
			repoManager, err := dbbadger.NewRepoManager(datadir, log.StandardLogger())
			if err != nil {
				return nil, err
			}
			c.repo = repoManager
		case DBInMemory:
			c.repo = inmemory.NewRepoManager()
		default:
			return nil, fmt.Errorf("unsupported db type %s", c.DBType)
		}
	}
	return c.repo, nil
}

func (c *Config) pubsubService() (PubSubService, error) {
	if c.pubsub == nil {
		c.pubsub = NewPubSubService(c.SecurePubSub)
	}
	return c.pubsub, nil
}

func (c *Config) lifecycleManager() (*lifecycle.Manager, error) {
	if c.lifecycle == nil {
		repo, err := c.repoManager()
		if err != nil {
			return nil, err
		}
		mgr, err := lifecycle.NewManager(repo)
		if err != nil {
			return nil, err
		}
		c.lifecycle = mgr
	}
	return c.lifecycle, nil
}

func (c *Config) collaborators() (
	ports.RoyaltyPolicy, ports.TokenTransfer, ports.WhitelistPolicy, error,
) {
	repo, err := c.repoManager()
	if err != nil {
		return nil, nil, nil, err
	}
	if c.RoyaltyPolicy == nil {
		policy, err := royalty.NewPolicy(repo, c.RoyaltyCacheSize)
		if err != nil {
			return nil, nil, nil, err
		}
		c.RoyaltyPolicy = policy
	}
	if c.TokenTransfer == nil {
		transfer, err := token.NewTransfer(repo)
		if err != nil {
			return nil, nil, nil, err
		}
		c.TokenTransfer = transfer
	}
	if c.WhitelistPolicy == nil {
		whitelist, err := token.NewWhitelist(repo)
		if err != nil {
			return nil, nil, nil, err
		}
		c.WhitelistPolicy = whitelist
	}
	return c.RoyaltyPolicy, c.TokenTransfer, c.WhitelistPolicy, nil
}

func (c *Config) operatorService() (OperatorService, error) {
	if c.operator == nil {
		repo, err := c.repoManager()
		if err != nil {
			return nil, err
		}
		pubsub, _ := c.pubsubService()
		mgr, err := c.lifecycleManager()
		if err != nil {
			return nil, err
		}
		_, transfer, whitelist, err := c.collaborators()
		if err != nil {
			return nil, err
		}
		operator, err := NewOperatorService(
			repo, pubsub, mgr, transfer, whitelist, c.deriver(),
			c.PoolStateBond, c.EscrowStateBond,
		)
		if err != nil {
			return nil, err
		}
		c.operator = operator
	}
	return c.operator, nil
}

func (c *Config) tradeService() (TradeService, error) {
	if c.trade == nil {
		repo, err := c.repoManager()
		if err != nil {
			return nil, err
		}
		pubsub, _ := c.pubsubService()
		mgr, err := c.lifecycleManager()
		if err != nil {
			return nil, err
		}
		policy, transfer, whitelist, err := c.collaborators()
		if err != nil {
			return nil, err
		}
		feeVault := c.FeeVault
		if feeVault.IsZero() {
			if feeVault, err = c.deriver().FeeVaultAddress(); err != nil {
				return nil, err
			}
		}
		trade, err := NewTradeService(
			repo, pubsub, mgr, policy, transfer, whitelist,
			SettlementConfig{
				Fees:              c.Fees,
				Deriver:           c.deriver(),
				FeeVault:          feeVault,
				MinAccountBalance: c.MinAccountBalance,
			},
		)
		if err != nil {
			return nil, err
		}
		c.trade = trade
	}
	return c.trade, nil
}
