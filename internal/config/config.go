package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/gagliardetto/solana-go"
	"github.com/spf13/viper"
	"github.com/tswap-network/tswap-daemon/internal/core/application"
	"github.com/tswap-network/tswap-daemon/internal/core/domain"
)

const (
	// TradeListeningPortKey is the port where the HTTP Trade interface will
	// listen on.
	TradeListeningPortKey = "TRADE_LISTENING_PORT"
	// OperatorListeningPortKey is the port where the HTTP Operator interface
	// will listen on.
	OperatorListeningPortKey = "OPERATOR_LISTENING_PORT"
	// DatadirKey is the local data directory to store the internal state of
	// the daemon.
	DatadirKey = "DATADIR"
	// LogLevelKey are the different logging levels. For reference on the
	// values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// DBTypeKey is used to switch database type between those supported.
	DBTypeKey = "DB_TYPE"
	// ProgramIDKey is the base58 id used to derive every pool, escrow,
	// receipt and fee vault address.
	ProgramIDKey = "PROGRAM_ID"
	// FeeVaultKey is the base58 address collecting the protocol fee. Defaults
	// to the address derived from the program id.
	FeeVaultKey = "FEE_VAULT"
	// TakerFeeBpsKey is the fee charged to takers on top of the curve price.
	TakerFeeBpsKey = "TAKER_FEE_BPS"
	// BrokerFeePctKey is the share of the taker fee reserved to brokers.
	BrokerFeePctKey = "BROKER_FEE_PCT"
	// MakerBrokerPctKey is the share of the broker fee paid to the maker
	// broker, the rest goes to the taker broker.
	MakerBrokerPctKey = "MAKER_BROKER_PCT"
	// MinAccountBalanceKey is the dust threshold below which fee transfers
	// are skipped.
	MinAccountBalanceKey = "MIN_ACCOUNT_BALANCE"
	// PoolStateBondKey is the amount locked by the rent payer of a pool until
	// it's closed.
	PoolStateBondKey = "POOL_STATE_BOND"
	// EscrowStateBondKey is the amount locked in a shared escrow until it's
	// closed.
	EscrowStateBondKey = "ESCROW_STATE_BOND"
	// EnableFaucetKey exposes the operator endpoint to fund any account, for
	// test deployments only.
	EnableFaucetKey = "ENABLE_FAUCET"
	// WebhookRateLimitKey is the max number of webhook requests per second.
	WebhookRateLimitKey = "WEBHOOK_RATE_LIMIT"
	// RoyaltyCacheSizeKey is the number of nft royalty configs kept in memory.
	RoyaltyCacheSizeKey = "ROYALTY_CACHE_SIZE"
	// EnableProfilerKey enables profiler that can be used to investigate
	// performance issues.
	EnableProfilerKey = "ENABLE_PROFILER"
	// StatsIntervalKey defines interval for printing basic tswap statistics.
	StatsIntervalKey = "STATS_INTERVAL"

	DbLocation       = "db"
	PubSubLocation   = "pubsub"
	ProfilerLocation = "stats"

	defaultProgramID = "TSWAPaqyCSx2KABk68Shruf4rp7CxcNi8hAsbdwmHbN"
)

var vip *viper.Viper
var defaultDatadir = btcutil.AppDataDir("tswap-daemon", false)

func InitConfig() error {
	vip = viper.New()
	vip.SetEnvPrefix("TSWAP")
	vip.AutomaticEnv()

	vip.SetDefault(TradeListeningPortKey, 9945)
	vip.SetDefault(OperatorListeningPortKey, 9000)
	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(DatadirKey, defaultDatadir)
	vip.SetDefault(DBTypeKey, application.DBBadger)
	vip.SetDefault(ProgramIDKey, defaultProgramID)
	vip.SetDefault(TakerFeeBpsKey, 200)
	vip.SetDefault(BrokerFeePctKey, 50)
	vip.SetDefault(MakerBrokerPctKey, 80)
	vip.SetDefault(MinAccountBalanceKey, 890880)
	vip.SetDefault(PoolStateBondKey, 2039280)
	vip.SetDefault(EscrowStateBondKey, 1176240)
	vip.SetDefault(EnableFaucetKey, false)
	vip.SetDefault(WebhookRateLimitKey, 10)
	vip.SetDefault(RoyaltyCacheSizeKey, 1024)
	vip.SetDefault(EnableProfilerKey, false)
	vip.SetDefault(StatsIntervalKey, 600)

	if err := validate(); err != nil {
		return fmt.Errorf("error while validating config: %s", err)
	}

	if err := initDatadir(); err != nil {
		return fmt.Errorf("error while creating datadir: %s", err)
	}

	return nil
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetUint64(key string) uint64 {
	return vip.GetUint64(key)
}

func GetDuration(key string) time.Duration {
	return vip.GetDuration(key)
}

func GetBool(key string) bool {
	return vip.GetBool(key)
}

func GetDatadir() string {
	return GetString(DatadirKey)
}

func GetProgramID() solana.PublicKey {
	key, _ := solana.PublicKeyFromBase58(GetString(ProgramIDKey))
	return key
}

// GetFeeVault returns the configured fee vault, or the one derived from the
// program id if not set.
func GetFeeVault() solana.PublicKey {
	if vip.IsSet(FeeVaultKey) {
		key, _ := solana.PublicKeyFromBase58(GetString(FeeVaultKey))
		return key
	}
	key, _ := domain.AddressDeriver{ProgramID: GetProgramID()}.FeeVaultAddress()
	return key
}

func GetFees() domain.FeeConfig {
	return domain.FeeConfig{
		TakerFeeBps:    GetUint64(TakerFeeBpsKey),
		BrokerFeePct:   GetUint64(BrokerFeePctKey),
		MakerBrokerPct: GetUint64(MakerBrokerPctKey),
	}
}

func validate() error {
	datadir := GetString(DatadirKey)
	if len(datadir) <= 0 {
		return fmt.Errorf("missing datadir")
	}

	dbType := GetString(DBTypeKey)
	if _, ok := application.SupportedDBType[dbType]; !ok {
		return fmt.Errorf("unsupported db type %s", dbType)
	}

	if _, err := solana.PublicKeyFromBase58(GetString(ProgramIDKey)); err != nil {
		return fmt.Errorf("invalid program id: %s", err)
	}
	if vip.IsSet(FeeVaultKey) {
		if _, err := solana.PublicKeyFromBase58(GetString(FeeVaultKey)); err != nil {
			return fmt.Errorf("invalid fee vault: %s", err)
		}
	}

	for _, key := range []string{
		TakerFeeBpsKey, BrokerFeePctKey, MakerBrokerPctKey, WebhookRateLimitKey,
		RoyaltyCacheSizeKey,
	} {
		if GetInt(key) < 0 {
			return fmt.Errorf("%s must not be negative", key)
		}
	}
	if err := GetFees().Validate(); err != nil {
		return err
	}

	if GetInt(TradeListeningPortKey) == GetInt(OperatorListeningPortKey) {
		return fmt.Errorf(
			"%s and %s must be different", TradeListeningPortKey,
			OperatorListeningPortKey,
		)
	}

	return nil
}

func initDatadir() error {
	datadir := GetDatadir()
	if err := makeDirectoryIfNotExists(filepath.Join(datadir, DbLocation)); err != nil {
		return err
	}
	if err := makeDirectoryIfNotExists(filepath.Join(datadir, PubSubLocation)); err != nil {
		return err
	}

	profilerEnabled := GetBool(EnableProfilerKey)
	if profilerEnabled {
		if err := makeDirectoryIfNotExists(filepath.Join(datadir, ProfilerLocation)); err != nil {
			return err
		}
	}
	return nil
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}
