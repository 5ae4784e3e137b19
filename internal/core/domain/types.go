package domain

import "strings"

// PoolType defines which side(s) of the market a pool makes.
type PoolType uint8

const (
	// PoolTypeToken holds only currency and buys nfts from takers.
	PoolTypeToken PoolType = iota
	// PoolTypeNFT holds only nfts and sells them to takers.
	PoolTypeNFT
	// PoolTypeTrade holds both and trades in both directions.
	PoolTypeTrade
)

var poolTypeLabels = map[PoolType]string{
	PoolTypeToken: "token",
	PoolTypeNFT:   "nft",
	PoolTypeTrade: "trade",
}

func (t PoolType) IsValid() bool {
	_, ok := poolTypeLabels[t]
	return ok
}

func (t PoolType) String() string {
	if label, ok := poolTypeLabels[t]; ok {
		return label
	}
	return "unknown"
}

func (t PoolType) MarshalText() ([]byte, error) {
	if !t.IsValid() {
		return nil, ErrUnknownPoolType
	}
	return []byte(t.String()), nil
}

func (t *PoolType) UnmarshalText(text []byte) error {
	pt, err := ParsePoolType(string(text))
	if err != nil {
		return err
	}
	*t = pt
	return nil
}

// ParsePoolType returns the pool type with the given case-insensitive label.
func ParsePoolType(label string) (PoolType, error) {
	for t, l := range poolTypeLabels {
		if strings.EqualFold(l, label) {
			return t, nil
		}
	}
	return 0, ErrUnknownPoolType
}

// CurveType defines the bonding curve of a pool.
type CurveType uint8

const (
	CurveLinear CurveType = iota
	CurveExponential
)

var curveTypeLabels = map[CurveType]string{
	CurveLinear:      "linear",
	CurveExponential: "exponential",
}

func (c CurveType) IsValid() bool {
	_, ok := curveTypeLabels[c]
	return ok
}

func (c CurveType) String() string {
	if label, ok := curveTypeLabels[c]; ok {
		return label
	}
	return "unknown"
}

func (c CurveType) MarshalText() ([]byte, error) {
	if !c.IsValid() {
		return nil, ErrUnknownCurveType
	}
	return []byte(c.String()), nil
}

func (c *CurveType) UnmarshalText(text []byte) error {
	ct, err := ParseCurveType(string(text))
	if err != nil {
		return err
	}
	*c = ct
	return nil
}

// ParseCurveType ...
func ParseCurveType(label string) (CurveType, error) {
	for c, l := range curveTypeLabels {
		if strings.EqualFold(l, label) {
			return c, nil
		}
	}
	return 0, ErrUnknownCurveType
}

// TakerSide is the direction of a trade from the taker's point of view.
// Buy means the taker acquires an nft from the pool, Sell means the taker
// supplies an nft to the pool.
type TakerSide uint8

const (
	TakerSideBuy TakerSide = iota
	TakerSideSell
)

func (s TakerSide) IsValid() bool {
	return s == TakerSideBuy || s == TakerSideSell
}

func (s TakerSide) String() string {
	switch s {
	case TakerSideBuy:
		return "buy"
	case TakerSideSell:
		return "sell"
	default:
		return "unknown"
	}
}

func (s TakerSide) MarshalText() ([]byte, error) {
	if !s.IsValid() {
		return nil, ErrUnknownTakerSide
	}
	return []byte(s.String()), nil
}

func (s *TakerSide) UnmarshalText(text []byte) error {
	side, err := ParseTakerSide(string(text))
	if err != nil {
		return err
	}
	*s = side
	return nil
}

// ParseTakerSide ...
func ParseTakerSide(label string) (TakerSide, error) {
	switch strings.ToLower(label) {
	case "buy":
		return TakerSideBuy, nil
	case "sell":
		return TakerSideSell, nil
	default:
		return 0, ErrUnknownTakerSide
	}
}
