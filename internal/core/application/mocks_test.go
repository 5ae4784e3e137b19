package application_test

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/mock"
	"github.com/tswap-network/tswap-daemon/internal/core/domain"
)

type mockRoyaltyPolicy struct {
	mock.Mock
}

// CreatorsFee accepts either a fixed domain.CreatorsFee or a func of the
// price as return value.
func (m *mockRoyaltyPolicy) CreatorsFee(
	_ context.Context, mint solana.PublicKey, price uint64, overridePct *uint16,
) (domain.CreatorsFee, error) {
	args := m.Called(mint, price, overridePct)

	var res domain.CreatorsFee
	switch v := args.Get(0).(type) {
	case domain.CreatorsFee:
		res = v
	case func(uint64) domain.CreatorsFee:
		res = v(price)
	}
	var err error
	if a := args.Get(1); a != nil {
		err = a.(error)
	}
	return res, err
}

type mockTokenTransfer struct {
	mock.Mock
}

func (m *mockTokenTransfer) Transfer(
	_ context.Context, from, to, mint solana.PublicKey, _ []byte,
) error {
	args := m.Called(from, to, mint)

	var err error
	if a := args.Get(0); a != nil {
		err = a.(error)
	}
	return err
}

type mockWhitelistPolicy struct {
	mock.Mock
}

func (m *mockWhitelistPolicy) IsWhitelisted(
	_ context.Context, pool *domain.Pool, mint solana.PublicKey,
) (bool, error) {
	args := m.Called(pool.Address, mint)

	var res bool
	if a := args.Get(0); a != nil {
		res = a.(bool)
	}
	var err error
	if a := args.Get(1); a != nil {
		err = a.(error)
	}
	return res, err
}
