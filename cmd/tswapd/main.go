package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/tswap-network/tswap-daemon/internal/config"
	"github.com/tswap-network/tswap-daemon/internal/core/application"
	"github.com/tswap-network/tswap-daemon/internal/core/ports"
	"github.com/tswap-network/tswap-daemon/internal/infrastructure/pubsub"
	httpinterface "github.com/tswap-network/tswap-daemon/internal/interfaces/http"
	"github.com/tswap-network/tswap-daemon/pkg/stats"
)

func main() {
	if err := config.InitConfig(); err != nil {
		log.WithError(err).Fatal("failed to init config")
	}

	logLevel := config.GetInt(config.LogLevelKey)
	datadir := config.GetDatadir()
	dbType := config.GetString(config.DBTypeKey)
	operatorAddress := fmt.Sprintf(
		":%d", config.GetInt(config.OperatorListeningPortKey),
	)
	tradeAddress := fmt.Sprintf(":%d", config.GetInt(config.TradeListeningPortKey))
	profilerEnabled := config.GetBool(config.EnableProfilerKey)
	statsInterval := time.Duration(config.GetInt(config.StatsIntervalKey)) * time.Second

	log.SetLevel(log.Level(logLevel))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if profilerEnabled {
		stats.EnableMemoryStatistics(
			ctx, statsInterval, filepath.Join(datadir, config.ProfilerLocation),
		)
	}

	pubsubSvc, err := pubsub.NewService(
		filepath.Join(datadir, config.PubSubLocation),
		config.GetInt(config.WebhookRateLimitKey),
	)
	if err != nil {
		log.WithError(err).Fatal("failed to init webhook manager")
	}
	defer closePubSub(pubsubSvc)

	var dbConfig interface{}
	if dbType == application.DBBadger {
		dbConfig = filepath.Join(datadir, config.DbLocation)
	}

	appConfig := &application.Config{
		DBType:            dbType,
		DBConfig:          dbConfig,
		SecurePubSub:      pubsubSvc,
		RoyaltyCacheSize:  config.GetInt(config.RoyaltyCacheSizeKey),
		ProgramID:         config.GetProgramID(),
		FeeVault:          config.GetFeeVault(),
		Fees:              config.GetFees(),
		MinAccountBalance: config.GetUint64(config.MinAccountBalanceKey),
		PoolStateBond:     config.GetUint64(config.PoolStateBondKey),
		EscrowStateBond:   config.GetUint64(config.EscrowStateBondKey),
	}
	if err := appConfig.Validate(); err != nil {
		log.WithError(err).Fatal("invalid app config")
	}
	repoManager := appConfig.RepoManager()
	defer repoManager.Close()

	svc, err := httpinterface.NewService(httpinterface.ServiceOpts{
		OperatorAddress: operatorAddress,
		TradeAddress:    tradeAddress,
		EnableFaucet:    config.GetBool(config.EnableFaucetKey),
		OperatorSvc:     appConfig.OperatorService(),
		TradeSvc:        appConfig.TradeService(),
		PubSubSvc:       appConfig.PubSubService(),
	})
	if err != nil {
		log.WithError(err).Fatal("failed to init interfaces")
	}

	log.RegisterExitHandler(svc.Stop)

	log.Info("starting daemon")
	log.Infof("program id: %s", appConfig.ProgramID)
	log.Infof("fee vault: %s", appConfig.FeeVault)

	if err := svc.Start(); err != nil {
		log.WithError(err).Fatal("failed to start daemon")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT, os.Interrupt)
	<-sigChan

	log.Info("shutting down daemon")
	svc.Stop()

	log.Debug("exiting")
}

func closePubSub(svc ports.SecurePubSub) {
	if err := svc.Store().Close(); err != nil {
		log.WithError(err).Warn("failed to close webhook store")
	}
}
