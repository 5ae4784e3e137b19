package httpinterface_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
	"github.com/tswap-network/tswap-daemon/internal/core/application"
	"github.com/tswap-network/tswap-daemon/internal/core/domain"
	httpinterface "github.com/tswap-network/tswap-daemon/internal/interfaces/http"
)

func newTestServers(t *testing.T, enableFaucet bool) (operator, trade *httptest.Server) {
	t.Helper()

	cfg := &application.Config{
		DBType:    application.DBInMemory,
		ProgramID: solana.NewWallet().PublicKey(),
		FeeVault:  solana.NewWallet().PublicKey(),
		Fees: domain.FeeConfig{
			TakerFeeBps:    200,
			BrokerFeePct:   50,
			MakerBrokerPct: 80,
		},
		PoolStateBond:   1000,
		EscrowStateBond: 500,
	}
	require.NoError(t, cfg.Validate())
	t.Cleanup(cfg.RepoManager().Close)

	opts := httpinterface.ServiceOpts{
		EnableFaucet: enableFaucet,
		OperatorSvc:  cfg.OperatorService(),
		TradeSvc:     cfg.TradeService(),
		PubSubSvc:    cfg.PubSubService(),
	}
	operator = httptest.NewServer(httpinterface.NewOperatorHandler(opts))
	trade = httptest.NewServer(httpinterface.NewTradeHandler(opts))
	t.Cleanup(operator.Close)
	t.Cleanup(trade.Close)
	return
}

func doRequest(
	t *testing.T, method, url string, body, resp interface{},
) int {
	t.Helper()

	var reqBody bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&reqBody).Encode(body))
	}
	req, err := http.NewRequest(method, url, &reqBody)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	if resp != nil && res.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(res.Body).Decode(resp))
	}
	return res.StatusCode
}

func TestNewService(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts httpinterface.ServiceOpts
	}{
		{
			name: "invalid operator address",
			opts: httpinterface.ServiceOpts{
				OperatorAddress: "localhost",
				TradeAddress:    ":9001",
			},
		},
		{
			name: "same address",
			opts: httpinterface.ServiceOpts{
				OperatorAddress: ":9000",
				TradeAddress:    ":9000",
			},
		},
		{
			name: "missing services",
			opts: httpinterface.ServiceOpts{
				OperatorAddress: ":9000",
				TradeAddress:    ":9001",
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc, err := httpinterface.NewService(tt.opts)
			require.Error(t, err)
			require.Nil(t, svc)
		})
	}
}

func TestBuyFromNftPool(t *testing.T) {
	t.Parallel()

	operator, trade := newTestServers(t, true)
	owner := solana.NewWallet().PublicKey()
	taker := solana.NewWallet().PublicKey()
	mint := solana.NewWallet().PublicKey()

	var balance httpinterface.Balance
	for _, addr := range []solana.PublicKey{owner, taker} {
		status := doRequest(t, http.MethodPost,
			fmt.Sprintf("%s/v1/accounts/%s/fund", operator.URL, addr),
			httpinterface.FundRequest{Amount: 1e10}, &balance,
		)
		require.Equal(t, http.StatusOK, status)
		require.Equal(t, uint64(1e10), balance.Balance)
	}

	var nft httpinterface.Nft
	status := doRequest(t, http.MethodPost, operator.URL+"/v1/nfts",
		httpinterface.RegisterNftRequest{Mint: mint, Holder: owner}, &nft,
	)
	require.Equal(t, http.StatusCreated, status)
	require.Equal(t, owner, nft.Holder)

	var pool httpinterface.Pool
	status = doRequest(t, http.MethodPost, operator.URL+"/v1/pools",
		httpinterface.CreatePoolRequest{
			Owner: owner,
			Config: httpinterface.PoolConfig{
				PoolType:      domain.PoolTypeNFT,
				CurveType:     domain.CurveLinear,
				StartingPrice: 1e9,
				Delta:         1e8,
			},
		}, &pool,
	)
	require.Equal(t, http.StatusCreated, status)
	require.Equal(t, owner, pool.RentPayer)
	poolURL := fmt.Sprintf("/v1/pools/%s", pool.Address)

	status = doRequest(t, http.MethodPost, operator.URL+poolURL+"/deposit-nft",
		httpinterface.NftRequest{Owner: owner, Mint: mint}, &pool,
	)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, uint32(1), pool.NftsHeld)

	var quote httpinterface.Quote
	status = doRequest(t, http.MethodGet, trade.URL+poolURL+"/quote?side=buy",
		nil, &quote,
	)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, domain.TakerSideBuy, quote.Side)
	require.NotZero(t, quote.CurrentPrice)
	require.Greater(t, quote.Total, quote.CurrentPrice)

	req := httpinterface.BuyRequest{
		TradeRequest: httpinterface.TradeRequest{
			Taker:     taker,
			Mint:      mint,
			Owner:     owner,
			RentPayer: owner,
		},
		MaxPrice: 1,
	}

	var httpErr httpinterface.HTTPError
	status = doRequest(t, http.MethodPost, trade.URL+poolURL+"/buy", req, &httpErr)
	require.Equal(t, http.StatusConflict, status)
	require.NotEmpty(t, httpErr.ErrorStr)
	require.NotNil(t, httpErr.Event)
	require.Equal(t, quote.CurrentPrice, httpErr.Event.CurrentPrice)

	req.MaxPrice = quote.CurrentPrice
	var settled httpinterface.Trade
	status = doRequest(t, http.MethodPost, trade.URL+poolURL+"/buy", req, &settled)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, domain.TradeStatusSettled, settled.Status)
	require.Equal(t, quote.Total, settled.TakerAmount)
	require.True(t, settled.PoolClosed)

	status = doRequest(t, http.MethodGet, trade.URL+poolURL, nil, &httpErr)
	require.Equal(t, http.StatusNotFound, status)

	status = doRequest(t, http.MethodGet,
		fmt.Sprintf("%s/v1/nfts/%s", trade.URL, mint), nil, &nft,
	)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, taker, nft.Holder)

	var trades []httpinterface.Trade
	status = doRequest(t, http.MethodGet,
		fmt.Sprintf("%s/v1/trades?pool=%s", trade.URL, pool.Address), nil, &trades,
	)
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, trades)

	var found httpinterface.Trade
	status = doRequest(t, http.MethodGet,
		fmt.Sprintf("%s/v1/trades/%s", trade.URL, settled.ID), nil, &found,
	)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, settled.ID, found.ID)
}

func TestErrorResponses(t *testing.T) {
	t.Parallel()

	operator, trade := newTestServers(t, false)
	unknown := solana.NewWallet().PublicKey()

	tests := []struct {
		name           string
		method         string
		url            string
		body           interface{}
		expectedStatus int
	}{
		{
			name:           "invalid pool address",
			method:         http.MethodGet,
			url:            trade.URL + "/v1/pools/not-a-key",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown pool",
			method:         http.MethodGet,
			url:            fmt.Sprintf("%s/v1/pools/%s", trade.URL, unknown),
			expectedStatus: http.StatusNotFound,
		},
		{
			name:   "unknown taker side",
			method: http.MethodGet,
			url: fmt.Sprintf(
				"%s/v1/pools/%s/quote?side=swap", trade.URL, unknown,
			),
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:   "invalid pool config",
			method: http.MethodPost,
			url:    operator.URL + "/v1/pools",
			body: httpinterface.CreatePoolRequest{
				Owner: unknown,
				Config: httpinterface.PoolConfig{
					PoolType:  domain.PoolTypeTrade,
					CurveType: domain.CurveLinear,
					Delta:     1,
				},
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:   "webhooks without pubsub",
			method: http.MethodPost,
			url:    operator.URL + "/v1/webhooks",
			body: httpinterface.AddWebhookRequest{
				Event:    application.EventTradeSettled,
				Endpoint: "http://127.0.0.1:8080",
			},
			expectedStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var httpErr httpinterface.HTTPError
			status := doRequest(t, tt.method, tt.url, tt.body, &httpErr)
			require.Equal(t, tt.expectedStatus, status)
			require.NotEmpty(t, httpErr.ErrorStr)
		})
	}

	t.Run("faucet disabled", func(t *testing.T) {
		t.Parallel()

		res, err := http.Post(
			fmt.Sprintf("%s/v1/accounts/%s/fund", operator.URL, unknown),
			"application/json", bytes.NewBufferString(`{"amount":1}`),
		)
		require.NoError(t, err)
		defer res.Body.Close()
		require.Equal(t, http.StatusNotFound, res.StatusCode)
	})
}
