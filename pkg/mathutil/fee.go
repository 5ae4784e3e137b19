package mathutil

const (
	// HundredPct is 100% expressed in percentage points.
	HundredPct = uint64(100)
	// HundredPctBps is 100% expressed in basis points.
	HundredPctBps = uint64(10000)
)

// BpsOf returns floor(amount * bps / 10000).
func BpsOf(amount, bps uint64) (uint64, error) {
	return MulDiv(amount, bps, HundredPctBps)
}

// PctOf returns floor(amount * pct / 100).
func PctOf(amount, pct uint64) (uint64, error) {
	return MulDiv(amount, pct, HundredPct)
}
