package pubsub

import (
	"github.com/tswap-network/tswap-daemon/internal/core/domain"
)

func getTradePayload(trade domain.Trade) map[string]interface{} {
	payload := map[string]interface{}{
		"id":        trade.ID,
		"pool":      trade.Pool.String(),
		"pool_type": trade.PoolType.String(),
		"side":      trade.Side.String(),
		"mint":      trade.Mint.String(),
		"taker":     trade.Taker.String(),
		"status":    trade.Status.String(),
		"timestamp": trade.Timestamp,
		"event": map[string]uint64{
			"current_price": trade.Event.CurrentPrice,
			"taker_fee":     trade.Event.TakerFee,
			"mm_fee":        trade.Event.MMFee,
			"creators_fee":  trade.Event.CreatorsFee,
		},
	}
	if trade.Status == domain.TradeStatusFailed {
		payload["failure_reason"] = trade.FailureReason
		return payload
	}
	payload["fees"] = map[string]uint64{
		"protocol":     trade.Fees.ProtocolFee,
		"maker_broker": trade.Fees.MakerBrokerFee,
		"taker_broker": trade.Fees.TakerBrokerFee,
		"skipped":      trade.SkippedFees,
	}
	payload["taker_amount"] = trade.TakerAmount
	payload["pool_closed"] = trade.PoolClosed
	return payload
}

func getClosurePayload(closure domain.PoolClosure) map[string]interface{} {
	return map[string]interface{}{
		"address":         closure.Pool.String(),
		"owner":           closure.Owner.String(),
		"rent_payer":      closure.RentPayer.String(),
		"reason":          closure.Reason.String(),
		"refunded_amount": closure.Refund,
		"refunded_bond":   closure.Bond,
		"timestamp":       closure.Timestamp,
	}
}
