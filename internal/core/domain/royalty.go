package domain

import (
	"github.com/gagliardetto/solana-go"
	"github.com/tswap-network/tswap-daemon/pkg/mathutil"
)

// TokenStandard tells whether royalties are enforced for an nft.
type TokenStandard uint8

const (
	// StandardLegacy nfts pay royalties only if the taker opts in.
	StandardLegacy TokenStandard = iota
	// StandardProgrammable nfts always pay full royalties.
	StandardProgrammable
)

func (s TokenStandard) String() string {
	if s == StandardProgrammable {
		return "programmable"
	}
	return "legacy"
}

func (s TokenStandard) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *TokenStandard) UnmarshalText(text []byte) error {
	switch string(text) {
	case "", "legacy":
		*s = StandardLegacy
	case "programmable":
		*s = StandardProgrammable
	default:
		return ErrInvalidRoyalty
	}
	return nil
}

type Creator struct {
	Address solana.PublicKey
	Share   uint8
}

// Royalty is the royalty configuration of an nft.
type Royalty struct {
	SellerFeeBps uint16
	Standard     TokenStandard
	Creators     []Creator
}

func (r Royalty) Validate() error {
	if r.SellerFeeBps > MaxSellerFeeBps {
		return ErrInvalidRoyalty
	}
	if len(r.Creators) <= 0 {
		if r.SellerFeeBps > 0 {
			return ErrInvalidRoyalty
		}
		return nil
	}
	total := 0
	for _, c := range r.Creators {
		total += int(c.Share)
	}
	if total != int(HundredPct) {
		return ErrInvalidRoyalty
	}
	return nil
}

type CreatorPayout struct {
	Address solana.PublicKey
	Amount  uint64
}

// CreatorsFee is the royalty due for a trade, already split among creators.
type CreatorsFee struct {
	Amount  uint64
	Payouts []CreatorPayout
}

// CreatorsFee computes the royalty due on price. Enforced standards always
// pay the full seller fee, otherwise overridePct (if any) scales it, and no
// override means no royalty. Each creator gets its share rounded down, the
// fee amount is the sum of what is actually paid.
func (r Royalty) CreatorsFee(price uint64, overridePct *uint16) (CreatorsFee, error) {
	pct := uint64(0)
	if r.Standard == StandardProgrammable {
		pct = mathutil.HundredPct
	} else if overridePct != nil {
		pct = uint64(*overridePct)
		if pct > mathutil.HundredPct {
			pct = mathutil.HundredPct
		}
	}
	if pct == 0 || r.SellerFeeBps == 0 || len(r.Creators) <= 0 {
		return CreatorsFee{}, nil
	}

	fullFee, err := mathutil.BpsOf(price, uint64(r.SellerFeeBps))
	if err != nil {
		return CreatorsFee{}, arithmeticError(err)
	}
	fee, err := mathutil.PctOf(fullFee, pct)
	if err != nil {
		return CreatorsFee{}, arithmeticError(err)
	}

	result := CreatorsFee{Payouts: make([]CreatorPayout, 0, len(r.Creators))}
	for _, c := range r.Creators {
		amount, err := mathutil.PctOf(fee, uint64(c.Share))
		if err != nil {
			return CreatorsFee{}, arithmeticError(err)
		}
		if amount == 0 {
			continue
		}
		result.Payouts = append(result.Payouts, CreatorPayout{c.Address, amount})
		result.Amount += amount
	}
	return result, nil
}
