package stats

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tswap"

var (
	tradesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "trades_total",
		Help:      "Number of trade attempts by pool type, side and status.",
	}, []string{"pool_type", "side", "status"})

	feesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fees_lamports_total",
		Help:      "Lamports paid as fees by recipient kind.",
	}, []string{"kind"})

	tradeVolume = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "volume_lamports_total",
		Help:      "Lamports traded at curve price by side.",
	}, []string{"side"})

	poolsClosed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pools_closed_total",
		Help:      "Number of closed pools by reason.",
	}, []string{"reason"})
)

const (
	FeeProtocol    = "protocol"
	FeeMakerBroker = "maker_broker"
	FeeTakerBroker = "taker_broker"
	FeeMM          = "mm"
	FeeCreators    = "creators"
	FeeSkipped     = "skipped"
)

func RecordTrade(poolType, side, status string) {
	tradesTotal.WithLabelValues(poolType, side, status).Inc()
}

func RecordVolume(side string, amount uint64) {
	tradeVolume.WithLabelValues(side).Add(float64(amount))
}

func RecordFee(kind string, amount uint64) {
	if amount == 0 {
		return
	}
	feesTotal.WithLabelValues(kind).Add(float64(amount))
}

func RecordPoolClosed(reason string) {
	poolsClosed.WithLabelValues(reason).Inc()
}
