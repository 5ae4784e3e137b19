package httpinterface

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/tswap-network/tswap-daemon/internal/core/application"
	"github.com/tswap-network/tswap-daemon/internal/core/domain"
)

type tradeHandler struct {
	tradeSvc    application.TradeService
	operatorSvc application.OperatorService
}

func newTradeHandler(
	tradeSvc application.TradeService, operatorSvc application.OperatorService,
) *tradeHandler {
	return &tradeHandler{tradeSvc, operatorSvc}
}

func (h *tradeHandler) register(r *httprouter.Router) {
	r.GET("/v1/pools", h.listPools)
	r.GET("/v1/pools/:address", h.getPool)
	r.GET("/v1/pools/:address/quote", h.quote)
	r.GET("/v1/pools/:address/nfts", h.listPoolNfts)
	r.POST("/v1/pools/:address/buy", h.buy)
	r.POST("/v1/pools/:address/sell", h.sell)
	r.GET("/v1/trades", h.listTrades)
	r.GET("/v1/trades/:id", h.getTrade)
	r.GET("/v1/nfts/:mint", h.getNft)
	r.GET("/v1/accounts/:address", h.getBalance)
}

func (h *tradeHandler) listPools(
	w http.ResponseWriter, r *http.Request, _ httprouter.Params,
) {
	pools, err := h.tradeSvc.ListPools(r.Context())
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeSuccess(w, newPools(pools), http.StatusOK)
}

func (h *tradeHandler) getPool(
	w http.ResponseWriter, r *http.Request, ps httprouter.Params,
) {
	addr, err := parseParamKey(ps, "address")
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	info, err := h.tradeSvc.GetPool(r.Context(), addr)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeSuccess(w, newPoolInfo(*info), http.StatusOK)
}

// quote previews the next trade. Query params: side (buy|sell), mint,
// taker_broker (true|false) and royalty_pct.
func (h *tradeHandler) quote(
	w http.ResponseWriter, r *http.Request, ps httprouter.Params,
) {
	addr, err := parseParamKey(ps, "address")
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	query := r.URL.Query()
	side, err := domain.ParseTakerSide(query.Get("side"))
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	mint, err := parseOptionalKey(query.Get("mint"), "mint")
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	royaltyPct, err := parseOptionalUint16(query.Get("royalty_pct"), "royalty_pct")
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	withTakerBroker := query.Get("taker_broker") == "true"

	quote, err := h.tradeSvc.Quote(
		r.Context(), addr, side, mint, withTakerBroker, royaltyPct,
	)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeSuccess(w, newQuote(*quote), http.StatusOK)
}

func (h *tradeHandler) listPoolNfts(
	w http.ResponseWriter, r *http.Request, ps httprouter.Params,
) {
	addr, err := parseParamKey(ps, "address")
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	receipts, err := h.operatorSvc.ListPoolNfts(r.Context(), addr)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeSuccess(w, newNftReceipts(receipts), http.StatusOK)
}

func (h *tradeHandler) buy(
	w http.ResponseWriter, r *http.Request, ps httprouter.Params,
) {
	addr, err := parseParamKey(ps, "address")
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	var req BuyRequest
	if err := unmarshalBody(r, &req); err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}

	trade, err := h.tradeSvc.Buy(r.Context(), application.BuyRequest{
		TradeRequest: req.toApp(addr),
		MaxPrice:     req.MaxPrice,
	})
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeSuccess(w, newTrade(*trade), http.StatusOK)
}

func (h *tradeHandler) sell(
	w http.ResponseWriter, r *http.Request, ps httprouter.Params,
) {
	addr, err := parseParamKey(ps, "address")
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	var req SellRequest
	if err := unmarshalBody(r, &req); err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}

	trade, err := h.tradeSvc.Sell(r.Context(), application.SellRequest{
		TradeRequest: req.toApp(addr),
		MinPrice:     req.MinPrice,
	})
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeSuccess(w, newTrade(*trade), http.StatusOK)
}

func (h *tradeHandler) listTrades(
	w http.ResponseWriter, r *http.Request, _ httprouter.Params,
) {
	pool, err := parseOptionalKey(r.URL.Query().Get("pool"), "pool")
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	trades, err := h.tradeSvc.ListTrades(r.Context(), pool)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeSuccess(w, newTrades(trades), http.StatusOK)
}

func (h *tradeHandler) getTrade(
	w http.ResponseWriter, r *http.Request, ps httprouter.Params,
) {
	trade, err := h.tradeSvc.GetTrade(r.Context(), ps.ByName("id"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeSuccess(w, newTrade(*trade), http.StatusOK)
}

func (h *tradeHandler) getNft(
	w http.ResponseWriter, r *http.Request, ps httprouter.Params,
) {
	mint, err := parseParamKey(ps, "mint")
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	nft, err := h.operatorSvc.GetNft(r.Context(), mint)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeSuccess(w, newNft(*nft), http.StatusOK)
}

func (h *tradeHandler) getBalance(
	w http.ResponseWriter, r *http.Request, ps httprouter.Params,
) {
	addr, err := parseParamKey(ps, "address")
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	balance, err := h.operatorSvc.GetBalance(r.Context(), addr)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeSuccess(w, Balance{addr, balance}, http.StatusOK)
}
