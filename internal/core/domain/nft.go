package domain

import (
	"time"

	"github.com/gagliardetto/solana-go"
)

// Nft is a registered asset along with its current holder.
type Nft struct {
	Mint       solana.PublicKey
	Holder     solana.PublicKey
	Collection string
	Royalty    Royalty
	CreatedAt  int64
}

func NewNft(
	mint, holder solana.PublicKey, collection string, royalty Royalty,
) (*Nft, error) {
	if err := royalty.Validate(); err != nil {
		return nil, err
	}
	return &Nft{
		Mint:       mint,
		Holder:     holder,
		Collection: collection,
		Royalty:    royalty,
		CreatedAt:  time.Now().Unix(),
	}, nil
}

// IsWhitelisted tells whether the nft is accepted by the given whitelist.
func (n *Nft) IsWhitelisted(whitelist string) bool {
	return len(whitelist) <= 0 || n.Collection == whitelist
}

// MoveTo changes the holder of the nft.
func (n *Nft) MoveTo(from, to solana.PublicKey) error {
	if !n.Holder.Equals(from) {
		return ErrNftNotOwned
	}
	n.Holder = to
	return nil
}

// NftReceipt binds an nft to the pool that escrows it.
type NftReceipt struct {
	Address     solana.PublicKey
	Mint        solana.PublicKey
	Pool        solana.PublicKey
	DepositedAt int64
}

func NewNftReceipt(address, mint, pool solana.PublicKey) *NftReceipt {
	return &NftReceipt{
		Address:     address,
		Mint:        mint,
		Pool:        pool,
		DepositedAt: time.Now().Unix(),
	}
}
