package domain_test

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
	"github.com/tswap-network/tswap-daemon/internal/core/domain"
)

func TestCreatorsFee(t *testing.T) {
	t.Parallel()

	creatorA := solana.NewWallet().PublicKey()
	creatorB := solana.NewWallet().PublicKey()
	creators := []domain.Creator{{creatorA, 70}, {creatorB, 30}}
	half := uint16(50)

	tests := []struct {
		name        string
		royalty     domain.Royalty
		overridePct *uint16
		expected    domain.CreatorsFee
	}{
		{
			name: "enforced",
			royalty: domain.Royalty{
				SellerFeeBps: 500, Standard: domain.StandardProgrammable, Creators: creators,
			},
			expected: domain.CreatorsFee{
				Amount: 50_000_000,
				Payouts: []domain.CreatorPayout{
					{creatorA, 35_000_000}, {creatorB, 15_000_000},
				},
			},
		},
		{
			name: "enforced_ignores_override",
			royalty: domain.Royalty{
				SellerFeeBps: 500, Standard: domain.StandardProgrammable, Creators: creators,
			},
			overridePct: &half,
			expected: domain.CreatorsFee{
				Amount: 50_000_000,
				Payouts: []domain.CreatorPayout{
					{creatorA, 35_000_000}, {creatorB, 15_000_000},
				},
			},
		},
		{
			name:    "legacy_without_override",
			royalty: domain.Royalty{SellerFeeBps: 500, Creators: creators},
		},
		{
			name:        "legacy_with_override",
			royalty:     domain.Royalty{SellerFeeBps: 500, Creators: creators},
			overridePct: &half,
			expected: domain.CreatorsFee{
				Amount: 25_000_000,
				Payouts: []domain.CreatorPayout{
					{creatorA, 17_500_000}, {creatorB, 7_500_000},
				},
			},
		},
	}

	for i := range tests {
		tt := tests[i]
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fee, err := tt.royalty.CreatorsFee(1_000_000_000, tt.overridePct)
			require.NoError(t, err)
			require.Equal(t, tt.expected.Amount, fee.Amount)
			require.Equal(t, len(tt.expected.Payouts), len(fee.Payouts))
			for i, p := range tt.expected.Payouts {
				require.Equal(t, p, fee.Payouts[i])
			}
		})
	}
}

func TestCreatorsFeeRoundsDown(t *testing.T) {
	t.Parallel()

	creators := []domain.Creator{
		{solana.NewWallet().PublicKey(), 33},
		{solana.NewWallet().PublicKey(), 33},
		{solana.NewWallet().PublicKey(), 34},
	}
	royalty := domain.Royalty{
		SellerFeeBps: 1000, Standard: domain.StandardProgrammable, Creators: creators,
	}

	fee, err := royalty.CreatorsFee(1001, nil)
	require.NoError(t, err)
	// full fee is 100, split as 33 + 33 + 34.
	require.Equal(t, uint64(100), fee.Amount)

	fee, err = royalty.CreatorsFee(99, nil)
	require.NoError(t, err)
	// full fee is 9, split as 2 + 2 + 3.
	require.Equal(t, uint64(7), fee.Amount)
	require.LessOrEqual(t, fee.Amount, uint64(9))
}

func TestRoyaltyValidate(t *testing.T) {
	t.Parallel()

	creator := solana.NewWallet().PublicKey()

	require.NoError(t, domain.Royalty{}.Validate())
	require.NoError(t, domain.Royalty{
		SellerFeeBps: 10000, Creators: []domain.Creator{{creator, 100}},
	}.Validate())

	invalid := []domain.Royalty{
		{SellerFeeBps: 10001, Creators: []domain.Creator{{creator, 100}}},
		{SellerFeeBps: 100},
		{SellerFeeBps: 100, Creators: []domain.Creator{{creator, 99}}},
	}
	for _, r := range invalid {
		require.ErrorIs(t, r.Validate(), domain.ErrInvalidRoyalty)
	}
}

func TestNftMoveTo(t *testing.T) {
	t.Parallel()

	holder := solana.NewWallet().PublicKey()
	pool := solana.NewWallet().PublicKey()
	nft, err := domain.NewNft(
		solana.NewWallet().PublicKey(), holder, "degods", domain.Royalty{},
	)
	require.NoError(t, err)

	require.True(t, nft.IsWhitelisted(""))
	require.True(t, nft.IsWhitelisted("degods"))
	require.False(t, nft.IsWhitelisted("okaybears"))

	require.ErrorIs(t, nft.MoveTo(pool, holder), domain.ErrNftNotOwned)
	require.NoError(t, nft.MoveTo(holder, pool))
	require.Equal(t, pool, nft.Holder)
}

func TestSharedEscrowAttach(t *testing.T) {
	t.Parallel()

	owner := solana.NewWallet().PublicKey()
	escrow := domain.NewSharedEscrow(solana.NewWallet().PublicKey(), owner, 0, 100)
	require.False(t, escrow.IsInUse())
	require.Zero(t, escrow.Spendable(50))
	require.Equal(t, uint64(400), escrow.Spendable(500))

	require.ErrorIs(t, escrow.Attach(solana.NewWallet().PublicKey()), domain.ErrWrongOwner)
	require.NoError(t, escrow.Attach(owner))
	require.True(t, escrow.IsInUse())
	require.NoError(t, escrow.Detach())
	require.ErrorIs(t, escrow.Detach(), domain.ErrArithmetic)
}
