package dbbadger

import (
	"context"
	"fmt"
	"sort"

	"github.com/gagliardetto/solana-go"
	"github.com/timshannon/badgerhold/v4"
	"github.com/tswap-network/tswap-daemon/internal/core/domain"
)

type nftRepositoryImpl struct {
	store *badgerhold.Store
}

// NewNftRepositoryImpl initialize a badger implementation of the
// domain.NftRepository.
func NewNftRepositoryImpl(store *badgerhold.Store) domain.NftRepository {
	return nftRepositoryImpl{store}
}

func (r nftRepositoryImpl) AddNft(ctx context.Context, nft *domain.Nft) error {
	if err := insert(ctx, r.store, nft.Mint.String(), *nft); err != nil {
		if err == badgerhold.ErrKeyExists {
			return domain.ErrNftAlreadyExists
		}
		return err
	}
	return nil
}

func (r nftRepositoryImpl) GetNft(
	ctx context.Context, mint solana.PublicKey,
) (*domain.Nft, error) {
	var nft domain.Nft
	if err := get(ctx, r.store, mint.String(), &nft); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, domain.ErrNftNotFound
		}
		return nil, err
	}
	return &nft, nil
}

func (r nftRepositoryImpl) UpdateNft(
	ctx context.Context, mint solana.PublicKey,
	updateFn func(n *domain.Nft) (*domain.Nft, error),
) error {
	nft, err := r.GetNft(ctx, mint)
	if err != nil {
		return err
	}

	updatedNft, err := updateFn(nft)
	if err != nil {
		return err
	}

	return update(ctx, r.store, mint.String(), *updatedNft)
}

type nftReceiptRepositoryImpl struct {
	store *badgerhold.Store
}

// NewNftReceiptRepositoryImpl initialize a badger implementation of the
// domain.NftReceiptRepository.
func NewNftReceiptRepositoryImpl(
	store *badgerhold.Store,
) domain.NftReceiptRepository {
	return nftReceiptRepositoryImpl{store}
}

func (r nftReceiptRepositoryImpl) AddReceipt(
	ctx context.Context, receipt *domain.NftReceipt,
) error {
	key := receiptKey(receipt.Mint, receipt.Pool)
	if err := insert(ctx, r.store, key, *receipt); err != nil {
		if err == badgerhold.ErrKeyExists {
			return domain.ErrNftAlreadyExists
		}
		return err
	}
	return nil
}

func (r nftReceiptRepositoryImpl) GetReceipt(
	ctx context.Context, mint, pool solana.PublicKey,
) (*domain.NftReceipt, error) {
	var receipt domain.NftReceipt
	if err := get(ctx, r.store, receiptKey(mint, pool), &receipt); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, domain.ErrReceiptNotFound
		}
		return nil, err
	}
	return &receipt, nil
}

func (r nftReceiptRepositoryImpl) GetReceiptsByPool(
	ctx context.Context, pool solana.PublicKey,
) ([]domain.NftReceipt, error) {
	var all []domain.NftReceipt
	if err := find(ctx, r.store, &all, nil); err != nil {
		return nil, err
	}

	receipts := make([]domain.NftReceipt, 0)
	for _, rc := range all {
		if rc.Pool.Equals(pool) {
			receipts = append(receipts, rc)
		}
	}
	sort.SliceStable(receipts, func(i, j int) bool {
		return receipts[i].DepositedAt < receipts[j].DepositedAt
	})
	return receipts, nil
}

func (r nftReceiptRepositoryImpl) DeleteReceipt(
	ctx context.Context, mint, pool solana.PublicKey,
) error {
	if err := remove(
		ctx, r.store, receiptKey(mint, pool), domain.NftReceipt{},
	); err != nil {
		if err == badgerhold.ErrNotFound {
			return domain.ErrReceiptNotFound
		}
		return err
	}
	return nil
}

func receiptKey(mint, pool solana.PublicKey) string {
	return fmt.Sprintf("%s:%s", mint, pool)
}
