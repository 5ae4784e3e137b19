package royalty_test

import (
	"context"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
	"github.com/tswap-network/tswap-daemon/internal/core/domain"
	"github.com/tswap-network/tswap-daemon/internal/core/ports"
	"github.com/tswap-network/tswap-daemon/internal/infrastructure/royalty"
	"github.com/tswap-network/tswap-daemon/internal/infrastructure/storage/db/inmemory"
)

func TestCreatorsFee(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repoManager := inmemory.NewRepoManager()
	creator := solana.NewWallet().PublicKey()
	legacyMint := registerNft(t, repoManager, domain.Royalty{
		SellerFeeBps: 1000,
		Standard:     domain.StandardLegacy,
		Creators:     []domain.Creator{{Address: creator, Share: 100}},
	})
	programmableMint := registerNft(t, repoManager, domain.Royalty{
		SellerFeeBps: 1000,
		Standard:     domain.StandardProgrammable,
		Creators:     []domain.Creator{{Address: creator, Share: 100}},
	})

	policy, err := royalty.NewPolicy(repoManager, 0)
	require.NoError(t, err)

	half := uint16(50)

	tests := []struct {
		name        string
		mint        solana.PublicKey
		overridePct *uint16
		expected    uint64
	}{
		{"legacy_without_override", legacyMint, nil, 0},
		{"legacy_with_override", legacyMint, &half, 50_000},
		{"programmable", programmableMint, nil, 100_000},
		{"programmable_ignores_override", programmableMint, &half, 100_000},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fee, err := policy.CreatorsFee(ctx, tt.mint, 1_000_000, tt.overridePct)
			require.NoError(t, err)
			require.Equal(t, tt.expected, fee.Amount)
			if tt.expected > 0 {
				require.Len(t, fee.Payouts, 1)
				require.Equal(t, creator, fee.Payouts[0].Address)
			}
		})
	}
}

func TestFailingCreatorsFee(t *testing.T) {
	t.Parallel()

	policy, err := royalty.NewPolicy(inmemory.NewRepoManager(), 10)
	require.NoError(t, err)

	_, err = policy.CreatorsFee(
		context.Background(), solana.NewWallet().PublicKey(), 1_000_000, nil,
	)
	require.ErrorIs(t, err, domain.ErrNftNotFound)

	_, err = royalty.NewPolicy(nil, 10)
	require.Error(t, err)
}

func registerNft(
	t *testing.T, repoManager ports.RepoManager, royaltyConfig domain.Royalty,
) solana.PublicKey {
	nft, err := domain.NewNft(
		solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey(), "",
		royaltyConfig,
	)
	require.NoError(t, err)
	err = repoManager.NftRepository().AddNft(context.Background(), nft)
	require.NoError(t, err)
	return nft.Mint
}
