package httpinterface

import (
	"context"
	"net/http"

	"github.com/gagliardetto/solana-go"
	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tswap-network/tswap-daemon/internal/core/application"
)

type operatorHandler struct {
	operatorSvc application.OperatorService
}

func newOperatorHandler(operatorSvc application.OperatorService) *operatorHandler {
	return &operatorHandler{operatorSvc}
}

func (h *operatorHandler) register(r *httprouter.Router, withFaucet bool) {
	r.GET("/v1/pools", h.listPools)
	r.POST("/v1/pools", h.createPool)
	r.GET("/v1/pools/:address", h.getPool)
	r.PATCH("/v1/pools/:address", h.editPool)
	r.DELETE("/v1/pools/:address", h.closePool)
	r.GET("/v1/pools/:address/nfts", h.listPoolNfts)
	r.POST("/v1/pools/:address/deposit-sol", h.depositSol)
	r.POST("/v1/pools/:address/withdraw-sol", h.withdrawSol)
	r.POST("/v1/pools/:address/deposit-nft", h.depositNft)
	r.POST("/v1/pools/:address/withdraw-nft", h.withdrawNft)
	r.POST("/v1/pools/:address/attach-escrow", h.attachEscrow)
	r.POST("/v1/pools/:address/detach-escrow", h.detachEscrow)

	r.POST("/v1/escrows", h.createEscrow)
	r.GET("/v1/escrows/:address", h.getEscrow)
	r.POST("/v1/escrows/:address/deposit", h.depositToEscrow)
	r.POST("/v1/escrows/:address/withdraw", h.withdrawFromEscrow)
	r.DELETE("/v1/escrows/:address", h.closeEscrow)

	r.POST("/v1/nfts", h.registerNft)
	r.GET("/v1/nfts/:mint", h.getNft)

	r.GET("/v1/accounts/:address", h.getBalance)
	if withFaucet {
		r.POST("/v1/accounts/:address/fund", h.fund)
	}

	r.GET("/v1/webhooks", h.listWebhooks)
	r.POST("/v1/webhooks", h.addWebhook)
	r.DELETE("/v1/webhooks/:id", h.removeWebhook)

	r.Handler(http.MethodGet, "/metrics", promhttp.Handler())
}

func (h *operatorHandler) listPools(
	w http.ResponseWriter, r *http.Request, _ httprouter.Params,
) {
	owner, err := parseOptionalKey(r.URL.Query().Get("owner"), "owner")
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	pools, err := h.operatorSvc.ListPools(r.Context(), owner)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeSuccess(w, newPools(pools), http.StatusOK)
}

func (h *operatorHandler) createPool(
	w http.ResponseWriter, r *http.Request, _ httprouter.Params,
) {
	var body CreatePoolRequest
	if err := unmarshalBody(r, &body); err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	req, err := body.toApp()
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}

	pool, err := h.operatorSvc.CreatePool(r.Context(), req)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeSuccess(w, newPool(*pool), http.StatusCreated)
}

func (h *operatorHandler) getPool(
	w http.ResponseWriter, r *http.Request, ps httprouter.Params,
) {
	addr, err := parseParamKey(ps, "address")
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	pool, err := h.operatorSvc.GetPool(r.Context(), addr)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeSuccess(w, newPool(*pool), http.StatusOK)
}

func (h *operatorHandler) editPool(
	w http.ResponseWriter, r *http.Request, ps httprouter.Params,
) {
	addr, err := parseParamKey(ps, "address")
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	var body EditPoolRequest
	if err := unmarshalBody(r, &body); err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}

	pool, err := h.operatorSvc.EditPool(r.Context(), body.toApp(addr))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeSuccess(w, newPool(*pool), http.StatusOK)
}

func (h *operatorHandler) closePool(
	w http.ResponseWriter, r *http.Request, ps httprouter.Params,
) {
	addr, err := parseParamKey(ps, "address")
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	var body ClosePoolRequest
	if err := unmarshalBody(r, &body); err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	if body.RentPayer.IsZero() {
		body.RentPayer = body.Owner
	}

	closure, err := h.operatorSvc.ClosePool(
		r.Context(), addr, body.Owner, body.RentPayer,
	)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeSuccess(w, newPoolClosure(*closure), http.StatusOK)
}

func (h *operatorHandler) listPoolNfts(
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

func (h *operatorHandler) depositSol(
	w http.ResponseWriter, r *http.Request, ps httprouter.Params,
) {
	h.moveSol(w, r, ps, h.operatorSvc.DepositSol)
}

func (h *operatorHandler) withdrawSol(
	w http.ResponseWriter, r *http.Request, ps httprouter.Params,
) {
	h.moveSol(w, r, ps, h.operatorSvc.WithdrawSol)
}

func (h *operatorHandler) depositNft(
	w http.ResponseWriter, r *http.Request, ps httprouter.Params,
) {
	h.moveNft(w, r, ps, h.operatorSvc.DepositNft)
}

func (h *operatorHandler) withdrawNft(
	w http.ResponseWriter, r *http.Request, ps httprouter.Params,
) {
	h.moveNft(w, r, ps, h.operatorSvc.WithdrawNft)
}

func (h *operatorHandler) attachEscrow(
	w http.ResponseWriter, r *http.Request, ps httprouter.Params,
) {
	addr, err := parseParamKey(ps, "address")
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	var body EscrowRequest
	if err := unmarshalBody(r, &body); err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}

	if err := h.operatorSvc.AttachPoolToSharedEscrow(
		r.Context(), addr, body.Owner, body.Escrow,
	); err != nil {
		writeAppError(w, err)
		return
	}
	h.getPool(w, r, ps)
}

func (h *operatorHandler) detachEscrow(
	w http.ResponseWriter, r *http.Request, ps httprouter.Params,
) {
	addr, err := parseParamKey(ps, "address")
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	var body EscrowRequest
	if err := unmarshalBody(r, &body); err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}

	if err := h.operatorSvc.DetachPoolFromSharedEscrow(
		r.Context(), addr, body.Owner, body.Escrow, body.Amount,
	); err != nil {
		writeAppError(w, err)
		return
	}
	h.getPool(w, r, ps)
}

func (h *operatorHandler) createEscrow(
	w http.ResponseWriter, r *http.Request, _ httprouter.Params,
) {
	var body CreateEscrowRequest
	if err := unmarshalBody(r, &body); err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}

	escrow, err := h.operatorSvc.CreateSharedEscrow(
		r.Context(), body.Owner, body.Nonce, body.Amount,
	)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeSuccess(w, newSharedEscrow(*escrow), http.StatusCreated)
}

func (h *operatorHandler) getEscrow(
	w http.ResponseWriter, r *http.Request, ps httprouter.Params,
) {
	addr, err := parseParamKey(ps, "address")
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	info, err := h.operatorSvc.GetSharedEscrow(r.Context(), addr)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeSuccess(w, newEscrowInfo(*info), http.StatusOK)
}

func (h *operatorHandler) depositToEscrow(
	w http.ResponseWriter, r *http.Request, ps httprouter.Params,
) {
	h.moveEscrowFunds(w, r, ps, h.operatorSvc.DepositToSharedEscrow)
}

func (h *operatorHandler) withdrawFromEscrow(
	w http.ResponseWriter, r *http.Request, ps httprouter.Params,
) {
	h.moveEscrowFunds(w, r, ps, h.operatorSvc.WithdrawFromSharedEscrow)
}

func (h *operatorHandler) closeEscrow(
	w http.ResponseWriter, r *http.Request, ps httprouter.Params,
) {
	addr, err := parseParamKey(ps, "address")
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	var body CloseEscrowRequest
	if err := unmarshalBody(r, &body); err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}

	refund, err := h.operatorSvc.CloseSharedEscrow(r.Context(), addr, body.Owner)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeSuccess(w, Balance{body.Owner, refund}, http.StatusOK)
}

func (h *operatorHandler) registerNft(
	w http.ResponseWriter, r *http.Request, _ httprouter.Params,
) {
	var body RegisterNftRequest
	if err := unmarshalBody(r, &body); err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}

	nft, err := h.operatorSvc.RegisterNft(r.Context(), application.RegisterNftRequest{
		Mint:       body.Mint,
		Holder:     body.Holder,
		Collection: body.Collection,
		Royalty:    body.Royalty.toDomain(),
	})
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeSuccess(w, newNft(*nft), http.StatusCreated)
}

func (h *operatorHandler) getNft(
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

func (h *operatorHandler) getBalance(
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

func (h *operatorHandler) fund(
	w http.ResponseWriter, r *http.Request, ps httprouter.Params,
) {
	addr, err := parseParamKey(ps, "address")
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	var body FundRequest
	if err := unmarshalBody(r, &body); err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}

	balance, err := h.operatorSvc.Fund(r.Context(), addr, body.Amount)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeSuccess(w, Balance{addr, balance}, http.StatusOK)
}

func (h *operatorHandler) listWebhooks(
	w http.ResponseWriter, r *http.Request, _ httprouter.Params,
) {
	event := r.URL.Query().Get("event")
	subs, err := h.operatorSvc.ListWebhooks(r.Context(), event)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeSuccess(w, newWebhooks(subs), http.StatusOK)
}

func (h *operatorHandler) addWebhook(
	w http.ResponseWriter, r *http.Request, _ httprouter.Params,
) {
	var body AddWebhookRequest
	if err := unmarshalBody(r, &body); err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}

	id, err := h.operatorSvc.AddWebhook(
		r.Context(), body.Event, body.Endpoint, body.Secret,
	)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeSuccess(w, Webhook{
		ID:        id,
		Event:     body.Event,
		Endpoint:  body.Endpoint,
		IsSecured: body.Secret != "",
	}, http.StatusCreated)
}

func (h *operatorHandler) removeWebhook(
	w http.ResponseWriter, r *http.Request, ps httprouter.Params,
) {
	if err := h.operatorSvc.RemoveWebhook(r.Context(), ps.ByName("id")); err != nil {
		writeAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type solMover func(
	ctx context.Context, pool, owner solana.PublicKey, amount uint64,
) error

type nftMover func(ctx context.Context, req application.NftRequest) error

func (h *operatorHandler) moveSol(
	w http.ResponseWriter, r *http.Request, ps httprouter.Params, move solMover,
) {
	addr, err := parseParamKey(ps, "address")
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	var body AmountRequest
	if err := unmarshalBody(r, &body); err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}

	if err := move(r.Context(), addr, body.Owner, body.Amount); err != nil {
		writeAppError(w, err)
		return
	}
	h.getPool(w, r, ps)
}

func (h *operatorHandler) moveNft(
	w http.ResponseWriter, r *http.Request, ps httprouter.Params, move nftMover,
) {
	addr, err := parseParamKey(ps, "address")
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	var body NftRequest
	if err := unmarshalBody(r, &body); err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}

	if err := move(r.Context(), application.NftRequest{
		Pool:          addr,
		Owner:         body.Owner,
		Mint:          body.Mint,
		Authorization: body.Authorization,
	}); err != nil {
		writeAppError(w, err)
		return
	}
	h.getPool(w, r, ps)
}

func (h *operatorHandler) moveEscrowFunds(
	w http.ResponseWriter, r *http.Request, ps httprouter.Params, move solMover,
) {
	addr, err := parseParamKey(ps, "address")
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	var body AmountRequest
	if err := unmarshalBody(r, &body); err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}

	if err := move(r.Context(), addr, body.Owner, body.Amount); err != nil {
		writeAppError(w, err)
		return
	}
	h.getEscrow(w, r, ps)
}
