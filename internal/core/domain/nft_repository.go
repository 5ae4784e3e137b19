package domain

import (
	"context"

	"github.com/gagliardetto/solana-go"
)

// NftRepository is the abstraction for any kind of database intended to
// persist the registry of Nfts.
type NftRepository interface {
	AddNft(ctx context.Context, nft *Nft) error
	GetNft(ctx context.Context, mint solana.PublicKey) (*Nft, error)
	UpdateNft(
		ctx context.Context, mint solana.PublicKey,
		updateFn func(n *Nft) (*Nft, error),
	) error
}

// NftReceiptRepository persists the deposit receipts of the nfts escrowed by
// pools.
type NftReceiptRepository interface {
	AddReceipt(ctx context.Context, receipt *NftReceipt) error
	GetReceipt(ctx context.Context, mint, pool solana.PublicKey) (*NftReceipt, error)
	GetReceiptsByPool(ctx context.Context, pool solana.PublicKey) ([]NftReceipt, error)
	DeleteReceipt(ctx context.Context, mint, pool solana.PublicKey) error
}
