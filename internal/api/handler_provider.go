package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/quantgoal/walletd/internal/services/wallet"
)

// HandlerProvider wraps the wallet service and exposes HTTP handlers.
type HandlerProvider struct {
	svc *wallet.Service
}

// NewHandler returns a new Handler provider.
func NewHandler(svc *wallet.Service) *HandlerProvider {
	return &HandlerProvider{svc: svc}
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode JSON response", "error", err)

		// As best-effort, write a minimal error payload if headers not sent
		http.Error(w, `{"error":"internal json encode failure"}`, http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

type mutationRequest struct {
	Amount      string `json:"amount"`
	Description string `json:"description"`
}

// decodeMutation reads a spend/earn body: a positive decimal amount
// string and a free-form description.
func decodeMutation(w http.ResponseWriter, r *http.Request) (decimal.Decimal, string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB cap
	defer r.Body.Close()

	var req mutationRequest

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(&req)
	if err != nil {
		if errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "empty body")
			return decimal.Decimal{}, "", false
		}

		writeError(w, http.StatusBadRequest, "invalid JSON")
		return decimal.Decimal{}, "", false
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(req.Amount))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount")
		return decimal.Decimal{}, "", false
	}

	if req.Description == "" {
		writeError(w, http.StatusBadRequest, "description required")
		return decimal.Decimal{}, "", false
	}

	return amount, req.Description, true
}

type transactionResponse struct {
	Desc   string `json:"desc"`
	Amount string `json:"amount"`
	Date   string `json:"date"`
}

// --- Handlers ---

// GetBalanceHandler handles GET /wallet/balance
func (h *HandlerProvider) GetBalanceHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"balance": h.svc.Balance().StringFixed(2),
	})
}

// GetTransactionsHandler handles GET /wallet/transactions (newest first).
func (h *HandlerProvider) GetTransactionsHandler(w http.ResponseWriter, _ *http.Request) {
	txs := h.svc.Transactions()

	resp := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		resp = append(resp, transactionResponse{
			Desc:   tx.Desc,
			Amount: tx.Amount.String(),
			Date:   tx.Date.Format(time.RFC3339),
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

// SpendHandler handles POST /wallet/spend
func (h *HandlerProvider) SpendHandler(w http.ResponseWriter, r *http.Request) {
	amount, description, ok := decodeMutation(w, r)
	if !ok {
		return
	}

	applied, err := h.svc.Spend(r.Context(), amount, description)
	if err != nil {
		if errors.Is(err, wallet.ErrNonPositiveAmount) {
			writeError(w, http.StatusBadRequest, "amount must be positive")
			return
		}

		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if !applied {
		writeError(w, http.StatusConflict, wallet.ErrInsufficientFunds.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// EarnHandler handles POST /wallet/earn
func (h *HandlerProvider) EarnHandler(w http.ResponseWriter, r *http.Request) {
	amount, description, ok := decodeMutation(w, r)
	if !ok {
		return
	}

	err := h.svc.Earn(r.Context(), amount, description)
	if err != nil {
		if errors.Is(err, wallet.ErrNonPositiveAmount) {
			writeError(w, http.StatusBadRequest, "amount must be positive")
			return
		}

		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ResetHandler handles POST /wallet/reset
func (h *HandlerProvider) ResetHandler(w http.ResponseWriter, r *http.Request) {
	err := h.svc.Reset(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ReconcileHandler handles POST /wallet/reconcile: an on-demand
// settlement pass in addition to the background poller.
func (h *HandlerProvider) ReconcileHandler(w http.ResponseWriter, r *http.Request) {
	err := h.svc.Reconcile(r.Context())
	if err != nil {
		slog.Warn("on-demand settlement pass failed", "error", err)
		writeError(w, http.StatusBadGateway, "settlement feed unavailable")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
