package inmemory

import (
	"context"
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/tswap-network/tswap-daemon/internal/core/domain"
	"github.com/tswap-network/tswap-daemon/internal/core/ports"
)

type txContextKey struct{}

type receiptKey struct {
	mint solana.PublicKey
	pool solana.PublicKey
}

// dbStore holds every in-memory collection. Values are stored by copy and
// always replaced as a whole, hence a shallow copy of the maps is a
// consistent snapshot.
type dbStore struct {
	pools    map[solana.PublicKey]domain.Pool
	escrows  map[solana.PublicKey]domain.SharedEscrow
	balances map[solana.PublicKey]uint64
	nfts     map[solana.PublicKey]domain.Nft
	receipts map[receiptKey]domain.NftReceipt
	trades   map[string]domain.Trade
	// tradeIDs keeps the insertion order of trades.
	tradeIDs []string

	locker *sync.Mutex
}

func newDbStore() *dbStore {
	return &dbStore{
		pools:    make(map[solana.PublicKey]domain.Pool),
		escrows:  make(map[solana.PublicKey]domain.SharedEscrow),
		balances: make(map[solana.PublicKey]uint64),
		nfts:     make(map[solana.PublicKey]domain.Nft),
		receipts: make(map[receiptKey]domain.NftReceipt),
		trades:   make(map[string]domain.Trade),
		locker:   &sync.Mutex{},
	}
}

// withLock runs fn holding the store lock, unless ctx belongs to a running
// transaction that already holds it.
func (s *dbStore) withLock(ctx context.Context, fn func() error) error {
	if ctx.Value(txContextKey{}) != nil {
		return fn()
	}
	s.locker.Lock()
	defer s.locker.Unlock()
	return fn()
}

func (s *dbStore) snapshot() *dbStore {
	snap := newDbStore()
	for k, v := range s.pools {
		snap.pools[k] = v
	}
	for k, v := range s.escrows {
		snap.escrows[k] = v
	}
	for k, v := range s.balances {
		snap.balances[k] = v
	}
	for k, v := range s.nfts {
		snap.nfts[k] = v
	}
	for k, v := range s.receipts {
		snap.receipts[k] = v
	}
	for k, v := range s.trades {
		snap.trades[k] = v
	}
	snap.tradeIDs = append([]string(nil), s.tradeIDs...)
	return snap
}

func (s *dbStore) restore(snap *dbStore) {
	s.pools = snap.pools
	s.escrows = snap.escrows
	s.balances = snap.balances
	s.nfts = snap.nfts
	s.receipts = snap.receipts
	s.trades = snap.trades
	s.tradeIDs = snap.tradeIDs
}

type repoManager struct {
	db *dbStore

	poolRepository    domain.PoolRepository
	escrowRepository  domain.SharedEscrowRepository
	accountRepository domain.AccountRepository
	nftRepository     domain.NftRepository
	receiptRepository domain.NftReceiptRepository
	tradeRepository   domain.TradeRepository
}

func NewRepoManager() ports.RepoManager {
	db := newDbStore()
	return &repoManager{
		db:                db,
		poolRepository:    NewPoolRepositoryImpl(db),
		escrowRepository:  NewSharedEscrowRepositoryImpl(db),
		accountRepository: NewAccountRepositoryImpl(db),
		nftRepository:     NewNftRepositoryImpl(db),
		receiptRepository: NewNftReceiptRepositoryImpl(db),
		tradeRepository:   NewTradeRepositoryImpl(db),
	}
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

// RunTransaction serializes transactions with a global lock. The state is
// rolled back to the snapshot taken at the beginning if the handler fails.
func (r *repoManager) RunTransaction(
	ctx context.Context, readOnly bool,
	handler func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	if ctx.Value(txContextKey{}) != nil {
		return handler(ctx)
	}

	r.db.locker.Lock()
	defer r.db.locker.Unlock()

	var snap *dbStore
	if !readOnly {
		snap = r.db.snapshot()
	}

	res, err := handler(context.WithValue(ctx, txContextKey{}, struct{}{}))
	if err != nil {
		if snap != nil {
			r.db.restore(snap)
		}
		return nil, err
	}
	return res, nil
}

func (r *repoManager) Close() {}
