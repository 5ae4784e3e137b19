package dbbadger

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/dgraph-io/badger/v3"
	"github.com/dgraph-io/badger/v3/options"
	log "github.com/sirupsen/logrus"
	"github.com/timshannon/badgerhold/v4"
	"github.com/tswap-network/tswap-daemon/internal/core/domain"
	"github.com/tswap-network/tswap-daemon/internal/core/ports"
)

const (
	mainDbDir = "main"
	// maxTxRetries caps the attempts of a transaction aborted by a conflict.
	maxTxRetries = 5
)

type repoManager struct {
	store *badgerhold.Store

	poolRepository    domain.PoolRepository
	escrowRepository  domain.SharedEscrowRepository
	accountRepository domain.AccountRepository
	nftRepository     domain.NftRepository
	receiptRepository domain.NftReceiptRepository
	tradeRepository   domain.TradeRepository
}

// NewRepoManager opens (or creates if not exists) the badger store in the
// given base dir. An empty dir makes for an in-memory store.
func NewRepoManager(baseDbDir string, logger badger.Logger) (ports.RepoManager, error) {
	var dbDir string
	if len(baseDbDir) > 0 {
		dbDir = filepath.Join(baseDbDir, mainDbDir)
	}

	store, err := createDb(dbDir, logger)
	if err != nil {
		return nil, fmt.Errorf("opening main db: %w", err)
	}

	return &repoManager{
		store:             store,
		poolRepository:    NewPoolRepositoryImpl(store),
		escrowRepository:  NewSharedEscrowRepositoryImpl(store),
		accountRepository: NewAccountRepositoryImpl(store),
		nftRepository:     NewNftRepositoryImpl(store),
		receiptRepository: NewNftReceiptRepositoryImpl(store),
		tradeRepository:   NewTradeRepositoryImpl(store),
	}, nil
}

func (r *repoManager) PoolRepository() domain.PoolRepository {
	return r.poolRepository
}

func (r *repoManager) SharedEscrowRepository() domain.SharedEscrowRepository {
	return r.escrowRepository
}

func (r *repoManager) AccountRepository() domain.AccountRepository {
	return r.accountRepository
}

func (r *repoManager) NftRepository() domain.NftRepository {
	return r.nftRepository
}

func (r *repoManager) NftReceiptRepository() domain.NftReceiptRepository {
	return r.receiptRepository
}

func (r *repoManager) TradeRepository() domain.TradeRepository {
	return r.tradeRepository
}

// RunTransaction runs the handler within a badger transaction stored in the
// context under the "tx" key. A transaction aborted because of a conflict
// has not committed anything and is retried with exponential backoff.
func (r *repoManager) RunTransaction(
	ctx context.Context, readOnly bool,
	handler func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	if ctx.Value("tx") != nil {
		return handler(ctx)
	}

	var result interface{}
	run := func() error {
		tx := r.store.Badger().NewTransaction(!readOnly)
		defer tx.Discard()

		res, err := handler(context.WithValue(ctx, "tx", tx))
		if err != nil {
			return retryOnConflict(err)
		}
		if !readOnly {
			if err := tx.Commit(); err != nil {
				return retryOnConflict(err)
			}
		}
		result = res
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxTxRetries),
		ctx,
	)
	notify := func(err error, next time.Duration) {
		log.WithError(err).Debugf("transaction conflict, retrying in %s", next)
	}
	if err := backoff.RetryNotify(run, policy, notify); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *repoManager) Close() {
	r.store.Close()
}

func retryOnConflict(err error) error {
	if errors.Is(err, badger.ErrConflict) {
		return err
	}
	return backoff.Permanent(err)
}

func createDb(dbDir string, logger badger.Logger) (*badgerhold.Store, error) {
	isInMemory := len(dbDir) <= 0

	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger

	if isInMemory {
		opts.InMemory = true
	} else {
		opts.Compression = options.ZSTD
	}

	db, err := badgerhold.Open(badgerhold.Options{
		Encoder:          badgerhold.DefaultEncode,
		Decoder:          badgerhold.DefaultDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
	if err != nil {
		return nil, err
	}

	if !isInMemory {
		ticker := time.NewTicker(30 * time.Minute)

		go func() {
			for {
				<-ticker.C
				if err := db.Badger().RunValueLogGC(0.5); err != nil &&
					err != badger.ErrNoRewrite {
					log.Error(err)
				}
			}
		}()
	}

	return db, nil
}
