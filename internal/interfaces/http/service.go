package httpinterface

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"
	"github.com/tswap-network/tswap-daemon/internal/core/application"
	"github.com/tswap-network/tswap-daemon/internal/interfaces"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

const shutdownTimeout = 5 * time.Second

type ServiceOpts struct {
	OperatorAddress string
	TradeAddress    string
	// EnableFaucet exposes the route to fund any account from nothing, for
	// test deployments.
	EnableFaucet bool

	OperatorSvc application.OperatorService
	TradeSvc    application.TradeService
	PubSubSvc   application.PubSubService
}

func (o ServiceOpts) validate() error {
	if !isValidAddress(o.OperatorAddress) {
		return fmt.Errorf("invalid operator address %s", o.OperatorAddress)
	}
	if !isValidAddress(o.TradeAddress) {
		return fmt.Errorf("invalid trade address %s", o.TradeAddress)
	}
	if o.OperatorAddress == o.TradeAddress {
		return fmt.Errorf("operator and trade interfaces must listen on different addresses")
	}
	if o.OperatorSvc == nil {
		return fmt.Errorf("operator app service must not be null")
	}
	if o.TradeSvc == nil {
		return fmt.Errorf("trade app service must not be null")
	}
	if o.PubSubSvc == nil {
		return fmt.Errorf("pubsub app service must not be null")
	}
	return nil
}

type service struct {
	opts           ServiceOpts
	operatorServer *http.Server
	tradeServer    *http.Server
}

func NewService(opts ServiceOpts) (interfaces.Service, error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("invalid opts: %s", err)
	}

	return &service{
		opts: opts,
		operatorServer: &http.Server{
			Addr:              opts.OperatorAddress,
			Handler:           NewOperatorHandler(opts),
			ReadHeaderTimeout: 10 * time.Second,
		},
		tradeServer: &http.Server{
			Addr:              opts.TradeAddress,
			Handler:           NewTradeHandler(opts),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

func (s *service) Start() error {
	operatorLis, err := net.Listen("tcp", s.opts.OperatorAddress)
	if err != nil {
		return err
	}
	tradeLis, err := net.Listen("tcp", s.opts.TradeAddress)
	if err != nil {
		operatorLis.Close()
		return err
	}

	go serve(s.operatorServer, operatorLis)
	log.Infof("operator interface is listening on %s", s.opts.OperatorAddress)

	go serve(s.tradeServer, tradeLis)
	log.Infof("trade interface is listening on %s", s.opts.TradeAddress)

	return nil
}

func (s *service) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.tradeServer.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("failed to stop trade interface")
	}
	log.Debug("stopped trade interface")

	if err := s.operatorServer.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("failed to stop operator interface")
	}
	log.Debug("stopped operator interface")
}

// NewTradeHandler returns the handler of the public interface used by takers.
func NewTradeHandler(opts ServiceOpts) http.Handler {
	router := httprouter.New()
	newTradeHandler(opts.TradeSvc, opts.OperatorSvc).register(router)
	newEventsHandler(opts.PubSubSvc).register(router)
	return wrap(router)
}

// NewOperatorHandler returns the handler of the interface used by pool owners
// and daemon operators.
func NewOperatorHandler(opts ServiceOpts) http.Handler {
	router := httprouter.New()
	newOperatorHandler(opts.OperatorSvc).register(router, opts.EnableFaucet)
	return wrap(router)
}

func wrap(router *httprouter.Router) http.Handler {
	handler := cors.AllowAll().Handler(logger(router))
	return h2c.NewHandler(handler, &http2.Server{})
}

func serve(server *http.Server, lis net.Listener) {
	if err := server.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Warnf("interface on %s stopped", lis.Addr())
	}
}
