package operator

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/tswap-network/tswap-daemon/internal/core/domain"
	"github.com/tswap-network/tswap-daemon/pkg/stats"
)

// CreatePool derives the address of a new pool, charges its state bond to
// the rent payer and stores it, optionally attached to a shared escrow.
func (s *service) CreatePool(
	ctx context.Context, req CreatePoolRequest,
) (*domain.Pool, error) {
	if req.Currency != nil {
		return nil, domain.ErrUnsupportedCurrency
	}
	if err := req.Config.Validate(); err != nil {
		return nil, err
	}

	var poolID [32]byte
	if req.PoolID != nil {
		poolID = *req.PoolID
	} else {
		id := uuid.New()
		copy(poolID[:], id[:])
	}
	addr, err := s.deriver.PoolAddress(req.Owner, poolID)
	if err != nil {
		return nil, err
	}

	unlock := s.lifecycle.Lock(addr)
	defer unlock()

	pool, err := domain.NewPool(
		addr, req.Owner, req.RentPayer, poolID, req.Config, s.poolStateBond,
	)
	if err != nil {
		return nil, err
	}
	pool.Cosigner = req.Cosigner
	pool.MakerBroker = req.MakerBroker
	pool.Whitelist = req.Whitelist
	pool.Expiry = req.Expiry

	if err := s.withTx(ctx, func(ctx context.Context) error {
		if req.SharedEscrow != nil {
			if err := s.attachEscrow(ctx, pool, *req.SharedEscrow); err != nil {
				return err
			}
		}
		if err := pool.SetMaxTakerSellCount(req.MaxTakerSellCount); err != nil {
			return err
		}
		if err := s.repoManager.PoolRepository().AddPool(ctx, pool); err != nil {
			return err
		}
		if s.poolStateBond <= 0 {
			return nil
		}
		return s.repoManager.AccountRepository().Transfer(
			ctx, req.RentPayer, addr, s.poolStateBond,
		)
	}); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"pool":  addr.String(),
		"owner": req.Owner.String(),
		"type":  req.Config.PoolType.String(),
		"curve": req.Config.CurveType.String(),
	}).Info("pool created")
	return pool, nil
}

func (s *service) EditPool(
	ctx context.Context, req EditPoolRequest,
) (*domain.Pool, error) {
	unlock := s.lifecycle.Lock(req.Pool)
	defer unlock()

	var pool *domain.Pool
	err := s.withTx(ctx, func(ctx context.Context) error {
		return s.repoManager.PoolRepository().UpdatePool(
			ctx, req.Pool, func(p *domain.Pool) (*domain.Pool, error) {
				if !p.Owner.Equals(req.Owner) {
					return nil, domain.ErrWrongOwner
				}
				if req.Config != nil {
					if err := p.UpdateConfig(*req.Config); err != nil {
						return nil, err
					}
				}
				if req.ResetPriceOffset {
					p.ResetPriceOffset()
				}
				switch {
				case req.ClearCosigner:
					p.Cosigner = nil
				case req.Cosigner != nil:
					p.Cosigner = req.Cosigner
				}
				switch {
				case req.ClearMakerBroker:
					p.MakerBroker = nil
				case req.MakerBroker != nil:
					p.MakerBroker = req.MakerBroker
				}
				if req.MaxTakerSellCount != nil {
					if err := p.SetMaxTakerSellCount(*req.MaxTakerSellCount); err != nil {
						return nil, err
					}
				}
				if req.Expiry != nil {
					p.Expiry = *req.Expiry
				}
				pool = p
				return p, nil
			},
		)
	})
	if err != nil {
		return nil, err
	}
	return pool, nil
}

// ClosePool closes a pool holding no nfts and refunds its balance.
func (s *service) ClosePool(
	ctx context.Context, addr, owner, rentPayer solana.PublicKey,
) (*domain.PoolClosure, error) {
	unlock := s.lifecycle.Lock(addr)
	defer unlock()

	var closure *domain.PoolClosure
	if err := s.withTx(ctx, func(ctx context.Context) error {
		pool, err := s.repoManager.PoolRepository().GetPool(ctx, addr)
		if err != nil {
			return err
		}
		closure, err = s.lifecycle.Close(ctx, pool, owner, rentPayer)
		return err
	}); err != nil {
		return nil, err
	}

	stats.RecordPoolClosed(closure.Reason.String())
	go func(closure domain.PoolClosure) {
		if err := s.pubsub.PublishPoolClosedEvent(closure); err != nil {
			log.WithError(err).Warn("failed to publish pool closed event")
		}
	}(*closure)
	return closure, nil
}

func (s *service) GetPool(
	ctx context.Context, addr solana.PublicKey,
) (*domain.Pool, error) {
	return s.repoManager.PoolRepository().GetPool(ctx, addr)
}

// ListPools returns the pools of the given owner, or all of them if owner is
// nil.
func (s *service) ListPools(
	ctx context.Context, owner *solana.PublicKey,
) ([]domain.Pool, error) {
	if owner != nil {
		return s.repoManager.PoolRepository().GetPoolsByOwner(ctx, *owner)
	}
	return s.repoManager.PoolRepository().GetAllPools(ctx)
}

func (s *service) DepositSol(
	ctx context.Context, addr, owner solana.PublicKey, amount uint64,
) error {
	unlock := s.lifecycle.Lock(addr)
	defer unlock()

	return s.withTx(ctx, func(ctx context.Context) error {
		pool, err := s.ownedPool(ctx, addr, owner)
		if err != nil {
			return err
		}
		if err := pool.DepositSol(amount); err != nil {
			return err
		}
		if err := s.repoManager.AccountRepository().Transfer(
			ctx, owner, addr, amount,
		); err != nil {
			return err
		}
		return s.savePool(ctx, pool)
	})
}

func (s *service) WithdrawSol(
	ctx context.Context, addr, owner solana.PublicKey, amount uint64,
) error {
	unlock := s.lifecycle.Lock(addr)
	defer unlock()

	return s.withTx(ctx, func(ctx context.Context) error {
		pool, err := s.ownedPool(ctx, addr, owner)
		if err != nil {
			return err
		}
		if err := pool.WithdrawSol(amount); err != nil {
			return err
		}
		if err := s.repoManager.AccountRepository().Transfer(
			ctx, addr, owner, amount,
		); err != nil {
			return err
		}
		return s.savePool(ctx, pool)
	})
}

// DepositNft moves an nft of the owner into a nft or trade pool.
func (s *service) DepositNft(ctx context.Context, req NftRequest) error {
	unlock := s.lifecycle.Lock(req.Pool)
	defer unlock()

	return s.withTx(ctx, func(ctx context.Context) error {
		pool, err := s.ownedPool(ctx, req.Pool, req.Owner)
		if err != nil {
			return err
		}
		if err := pool.DepositNft(); err != nil {
			return err
		}
		whitelisted, err := s.whitelist.IsWhitelisted(ctx, pool, req.Mint)
		if err != nil {
			return err
		}
		if !whitelisted {
			return domain.ErrNftNotWhitelisted
		}
		if err := s.token.Transfer(
			ctx, req.Owner, pool.Address, req.Mint, req.Authorization,
		); err != nil {
			return err
		}
		receiptAddr, err := s.deriver.NftReceiptAddress(req.Mint, pool.Address)
		if err != nil {
			return err
		}
		receipt := domain.NewNftReceipt(receiptAddr, req.Mint, pool.Address)
		if err := s.repoManager.NftReceiptRepository().AddReceipt(
			ctx, receipt,
		); err != nil {
			return err
		}
		return s.savePool(ctx, pool)
	})
}

// WithdrawNft moves an nft escrowed by a pool back to its owner.
func (s *service) WithdrawNft(ctx context.Context, req NftRequest) error {
	unlock := s.lifecycle.Lock(req.Pool)
	defer unlock()

	return s.withTx(ctx, func(ctx context.Context) error {
		pool, err := s.ownedPool(ctx, req.Pool, req.Owner)
		if err != nil {
			return err
		}
		receipts := s.repoManager.NftReceiptRepository()
		if _, err := receipts.GetReceipt(ctx, req.Mint, pool.Address); err != nil {
			if err == domain.ErrReceiptNotFound {
				return domain.ErrNftNotInPool
			}
			return err
		}
		if err := pool.WithdrawNft(); err != nil {
			return err
		}
		if err := s.token.Transfer(
			ctx, pool.Address, req.Owner, req.Mint, req.Authorization,
		); err != nil {
			return err
		}
		if err := receipts.DeleteReceipt(ctx, req.Mint, pool.Address); err != nil {
			return err
		}
		return s.savePool(ctx, pool)
	})
}

func (s *service) ListPoolNfts(
	ctx context.Context, addr solana.PublicKey,
) ([]domain.NftReceipt, error) {
	if _, err := s.repoManager.PoolRepository().GetPool(ctx, addr); err != nil {
		return nil, err
	}
	return s.repoManager.NftReceiptRepository().GetReceiptsByPool(ctx, addr)
}

func (s *service) ownedPool(
	ctx context.Context, addr, owner solana.PublicKey,
) (*domain.Pool, error) {
	pool, err := s.repoManager.PoolRepository().GetPool(ctx, addr)
	if err != nil {
		return nil, err
	}
	if !pool.Owner.Equals(owner) {
		return nil, domain.ErrWrongOwner
	}
	return pool, nil
}

func (s *service) savePool(ctx context.Context, pool *domain.Pool) error {
	return s.repoManager.PoolRepository().UpdatePool(
		ctx, pool.Address, func(_ *domain.Pool) (*domain.Pool, error) {
			return pool, nil
		},
	)
}
