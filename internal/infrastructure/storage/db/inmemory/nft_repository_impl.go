package inmemory

import (
	"context"
	"sort"

	"github.com/gagliardetto/solana-go"
	"github.com/tswap-network/tswap-daemon/internal/core/domain"
)

type nftRepositoryImpl struct {
	db *dbStore
}

// NewNftRepositoryImpl returns a new inmemory NftRepository implementation.
func NewNftRepositoryImpl(db *dbStore) domain.NftRepository {
	return &nftRepositoryImpl{db}
}

func (r *nftRepositoryImpl) AddNft(ctx context.Context, nft *domain.Nft) error {
	return r.db.withLock(ctx, func() error {
		if _, ok := r.db.nfts[nft.Mint]; ok {
			return domain.ErrNftAlreadyExists
		}
		r.db.nfts[nft.Mint] = *nft
		return nil
	})
}

func (r *nftRepositoryImpl) GetNft(
	ctx context.Context, mint solana.PublicKey,
) (*domain.Nft, error) {
	var nft *domain.Nft
	err := r.db.withLock(ctx, func() error {
		n, ok := r.db.nfts[mint]
		if !ok {
			return domain.ErrNftNotFound
		}
		nft = &n
		return nil
	})
	return nft, err
}

func (r *nftRepositoryImpl) UpdateNft(
	ctx context.Context, mint solana.PublicKey,
	updateFn func(n *domain.Nft) (*domain.Nft, error),
) error {
	return r.db.withLock(ctx, func() error {
		n, ok := r.db.nfts[mint]
		if !ok {
			return domain.ErrNftNotFound
		}
		updated, err := updateFn(&n)
		if err != nil {
			return err
		}
		r.db.nfts[mint] = *updated
		return nil
	})
}

type nftReceiptRepositoryImpl struct {
	db *dbStore
}

// NewNftReceiptRepositoryImpl returns a new inmemory NftReceiptRepository
// implementation.
func NewNftReceiptRepositoryImpl(db *dbStore) domain.NftReceiptRepository {
	return &nftReceiptRepositoryImpl{db}
}

func (r *nftReceiptRepositoryImpl) AddReceipt(
	ctx context.Context, receipt *domain.NftReceipt,
) error {
	return r.db.withLock(ctx, func() error {
		key := receiptKey{receipt.Mint, receipt.Pool}
		if _, ok := r.db.receipts[key]; ok {
			return domain.ErrNftAlreadyExists
		}
		r.db.receipts[key] = *receipt
		return nil
	})
}

func (r *nftReceiptRepositoryImpl) GetReceipt(
	ctx context.Context, mint, pool solana.PublicKey,
) (*domain.NftReceipt, error) {
	var receipt *domain.NftReceipt
	err := r.db.withLock(ctx, func() error {
		rc, ok := r.db.receipts[receiptKey{mint, pool}]
		if !ok {
			return domain.ErrReceiptNotFound
		}
		receipt = &rc
		return nil
	})
	return receipt, err
}

func (r *nftReceiptRepositoryImpl) GetReceiptsByPool(
	ctx context.Context, pool solana.PublicKey,
) ([]domain.NftReceipt, error) {
	receipts := make([]domain.NftReceipt, 0)
	err := r.db.withLock(ctx, func() error {
		for key, rc := range r.db.receipts {
			if key.pool.Equals(pool) {
				receipts = append(receipts, rc)
			}
		}
		return nil
	})
	sort.SliceStable(receipts, func(i, j int) bool {
		return receipts[i].DepositedAt < receipts[j].DepositedAt
	})
	return receipts, err
}

func (r *nftReceiptRepositoryImpl) DeleteReceipt(
	ctx context.Context, mint, pool solana.PublicKey,
) error {
	return r.db.withLock(ctx, func() error {
		key := receiptKey{mint, pool}
		if _, ok := r.db.receipts[key]; !ok {
			return domain.ErrReceiptNotFound
		}
		delete(r.db.receipts, key)
		return nil
	})
}
