package domain_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tswap-network/tswap-daemon/internal/core/domain"
)

var testFeeConfig = domain.FeeConfig{
	TakerFeeBps:    200,
	BrokerFeePct:   50,
	MakerBrokerPct: 80,
}

func TestFeeSplit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		makerBroker bool
		takerBroker bool
		expected    domain.Fees
	}{
		{
			name:        "both_brokers",
			makerBroker: true,
			takerBroker: true,
			expected: domain.Fees{
				TakerFee:       20_000_000,
				ProtocolFee:    10_000_000,
				MakerBrokerFee: 8_000_000,
				TakerBrokerFee: 2_000_000,
			},
		},
		{
			name:        "maker_broker_only",
			makerBroker: true,
			expected: domain.Fees{
				TakerFee:       20_000_000,
				ProtocolFee:    12_000_000,
				MakerBrokerFee: 8_000_000,
			},
		},
		{
			name:        "taker_broker_only",
			takerBroker: true,
			expected: domain.Fees{
				TakerFee:       20_000_000,
				ProtocolFee:    18_000_000,
				TakerBrokerFee: 2_000_000,
			},
		},
		{
			name: "no_brokers",
			expected: domain.Fees{
				TakerFee:    20_000_000,
				ProtocolFee: 20_000_000,
			},
		},
	}

	for i := range tests {
		tt := tests[i]
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fees, err := testFeeConfig.Split(1_000_000_000, tt.makerBroker, tt.takerBroker)
			require.NoError(t, err)
			require.Equal(t, tt.expected, fees)
		})
	}
}

func TestFeeSplitConservation(t *testing.T) {
	t.Parallel()

	prices := []uint64{0, 1, 49, 50, 99, 12_345, 987_654_321, math.MaxUint64}
	configs := []domain.FeeConfig{
		testFeeConfig,
		{TakerFeeBps: 150, BrokerFeePct: 100, MakerBrokerPct: 33},
		{TakerFeeBps: 10000, BrokerFeePct: 7, MakerBrokerPct: 100},
	}

	for _, config := range configs {
		for _, price := range prices {
			for _, makerBroker := range []bool{true, false} {
				for _, takerBroker := range []bool{true, false} {
					fees, err := config.Split(price, makerBroker, takerBroker)
					require.NoError(t, err)
					require.Equal(
						t, fees.TakerFee,
						fees.ProtocolFee+fees.MakerBrokerFee+fees.TakerBrokerFee,
					)
					require.LessOrEqual(t, fees.TakerFee, price)
				}
			}
		}
	}
}

func TestFeeConfigValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, testFeeConfig.Validate())

	invalid := []domain.FeeConfig{
		{TakerFeeBps: 10001},
		{BrokerFeePct: 101},
		{MakerBrokerPct: 101},
	}
	for _, c := range invalid {
		require.ErrorIs(t, c.Validate(), domain.ErrInvalidFeeConfig)
	}
}
