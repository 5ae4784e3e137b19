package operator

import (
	"context"

	"github.com/gagliardetto/solana-go"
	log "github.com/sirupsen/logrus"
)

func (s *service) GetBalance(
	ctx context.Context, addr solana.PublicKey,
) (uint64, error) {
	return s.repoManager.AccountRepository().GetBalance(ctx, addr)
}

// Fund credits an account with lamports coming from outside the ledger.
func (s *service) Fund(
	ctx context.Context, addr solana.PublicKey, amount uint64,
) (uint64, error) {
	accounts := s.repoManager.AccountRepository()
	if err := accounts.Fund(ctx, addr, amount); err != nil {
		return 0, err
	}
	log.Debugf("funded account %s with %d lamports", addr, amount)
	return accounts.GetBalance(ctx, addr)
}
