package domain

import (
	"github.com/tswap-network/tswap-daemon/pkg/mathutil"
)

// FeeConfig defines how the flat taker fee charged on every trade is split
// between the protocol and the brokers.
type FeeConfig struct {
	// TakerFeeBps is the taker fee rate applied to the current price.
	TakerFeeBps uint64
	// BrokerFeePct is the share of the taker fee reserved to brokers.
	BrokerFeePct uint64
	// MakerBrokerPct is the share of the broker fee going to the maker
	// broker, the rest goes to the taker broker.
	MakerBrokerPct uint64
}

func (c FeeConfig) Validate() error {
	if c.TakerFeeBps > mathutil.HundredPctBps ||
		c.BrokerFeePct > mathutil.HundredPct ||
		c.MakerBrokerPct > mathutil.HundredPct {
		return ErrInvalidFeeConfig
	}
	return nil
}

// Fees is the decomposition of the taker fee of a trade.
type Fees struct {
	TakerFee       uint64
	ProtocolFee    uint64
	MakerBrokerFee uint64
	TakerBrokerFee uint64
}

// Split computes the taker fee for the given price and allocates it. A
// broker share with no recipient is folded into the protocol fee, hence the
// three parts always sum up to the taker fee.
func (c FeeConfig) Split(
	currentPrice uint64, makerBrokerPresent, takerBrokerPresent bool,
) (Fees, error) {
	takerFee, err := mathutil.BpsOf(currentPrice, c.TakerFeeBps)
	if err != nil {
		return Fees{}, arithmeticError(err)
	}
	brokerFee, err := mathutil.PctOf(takerFee, c.BrokerFeePct)
	if err != nil {
		return Fees{}, arithmeticError(err)
	}
	makerShare, err := mathutil.PctOf(brokerFee, c.MakerBrokerPct)
	if err != nil {
		return Fees{}, arithmeticError(err)
	}
	takerShare := brokerFee - makerShare

	fees := Fees{TakerFee: takerFee}
	if makerBrokerPresent {
		fees.MakerBrokerFee = makerShare
	}
	if takerBrokerPresent {
		fees.TakerBrokerFee = takerShare
	}
	fees.ProtocolFee = takerFee - fees.MakerBrokerFee - fees.TakerBrokerFee
	return fees, nil
}
