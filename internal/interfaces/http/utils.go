package httpinterface

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/julienschmidt/httprouter"
	log "github.com/sirupsen/logrus"
	"github.com/tswap-network/tswap-daemon/internal/core/application"
	"github.com/tswap-network/tswap-daemon/internal/core/domain"
	"github.com/tswap-network/tswap-daemon/internal/core/ports"
)

const maxBodySize = 1 << 20

type HTTPError struct {
	ErrorStr string           `json:"error"`
	Event    *SettlementEvent `json:"event,omitempty"`
}

var (
	notFoundErrors = []error{
		domain.ErrPoolNotFound,
		domain.ErrEscrowNotFound,
		domain.ErrNftNotFound,
		domain.ErrReceiptNotFound,
		domain.ErrTradeNotFound,
		ports.ErrSubscriptionNotFound,
	}
	conflictErrors = []error{
		domain.ErrPriceMismatch,
		domain.ErrPoolAlreadyExists,
		domain.ErrEscrowAlreadyExists,
		domain.ErrNftAlreadyExists,
	}
	badRequestErrors = []error{
		domain.ErrArithmetic,
		domain.ErrWrongPoolType,
		domain.ErrMaxTakerSellCountExceeded,
		domain.ErrMaxTakerSellCountTooSmall,
		domain.ErrBadSharedEscrow,
		domain.ErrPoolOnSharedEscrow,
		domain.ErrPoolNotOnSharedEscrow,
		domain.ErrWrongRentPayer,
		domain.ErrWrongOwner,
		domain.ErrUnknownPoolType,
		domain.ErrUnknownCurveType,
		domain.ErrUnknownTakerSide,
		domain.ErrStartingPriceTooSmall,
		domain.ErrDeltaTooLarge,
		domain.ErrMissingMMFee,
		domain.ErrMMFeeNotAllowed,
		domain.ErrMMFeeTooHigh,
		domain.ErrUnsupportedCurrency,
		domain.ErrUnsupportedPoolVersion,
		domain.ErrExistingNfts,
		domain.ErrPoolExpired,
		domain.ErrBadCosigner,
		domain.ErrNftNotWhitelisted,
		domain.ErrNftNotInPool,
		domain.ErrNftNotOwned,
		domain.ErrInsufficientFunds,
		domain.ErrEscrowInUse,
		domain.ErrInvalidRoyalty,
		domain.ErrInvalidFeeConfig,
		application.ErrUnknownEvent,
	}
)

// errorStatus maps an application error to the status code of the response.
func errorStatus(err error) int {
	if errors.Is(err, application.ErrWebhookManagerNotInitialized) {
		return http.StatusServiceUnavailable
	}
	for _, e := range notFoundErrors {
		if errors.Is(err, e) {
			return http.StatusNotFound
		}
	}
	for _, e := range conflictErrors {
		if errors.Is(err, e) {
			return http.StatusConflict
		}
	}
	for _, e := range badRequestErrors {
		if errors.Is(err, e) {
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}

func writeAppError(w http.ResponseWriter, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		log.WithError(err).Warn("request failed")
	}

	resp := HTTPError{ErrorStr: err.Error()}
	var settlementErr *domain.SettlementError
	if errors.As(err, &settlementErr) {
		event := newSettlementEvent(settlementErr.Event)
		resp.Event = &event
	}
	writeJSON(w, resp, status)
}

func writeError(w http.ResponseWriter, err error, status int) {
	writeJSON(w, HTTPError{ErrorStr: err.Error()}, status)
}

func writeSuccess(w http.ResponseWriter, data interface{}, status int) {
	writeJSON(w, data, status)
}

func writeJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.WithError(err).Debug("failed to write response")
	}
}

func unmarshalBody(r *http.Request, v interface{}) error {
	defer r.Body.Close()

	buf, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("failed to read body: %w", err)
	}
	if err := json.Unmarshal(buf, v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func parsePublicKey(key, name string) (solana.PublicKey, error) {
	if key == "" {
		return solana.PublicKey{}, fmt.Errorf("missing %s", name)
	}
	pk, err := solana.PublicKeyFromBase58(key)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("invalid %s: %w", name, err)
	}
	return pk, nil
}

func parseParamKey(ps httprouter.Params, name string) (solana.PublicKey, error) {
	return parsePublicKey(ps.ByName(name), name)
}

func parseOptionalKey(key, name string) (*solana.PublicKey, error) {
	if key == "" {
		return nil, nil
	}
	pk, err := parsePublicKey(key, name)
	if err != nil {
		return nil, err
	}
	return &pk, nil
}

func parseOptionalUint16(str, name string) (*uint16, error) {
	if str == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(str, 10, 16)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", name, err)
	}
	n := uint16(v)
	return &n, nil
}

func parseEvents(str string) []string {
	if str == "" {
		return nil
	}
	events := make([]string, 0)
	for _, e := range strings.Split(str, ",") {
		if e = strings.TrimSpace(e); e != "" {
			events = append(events, strings.ToUpper(e))
		}
	}
	return events
}

func isValidAddress(addr string) bool {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return false
	}
	if host != "" && net.ParseIP(host) == nil && host != "localhost" {
		return false
	}
	p, err := strconv.Atoi(port)
	if err != nil {
		return false
	}
	return p > 1024 && p < 65536
}
