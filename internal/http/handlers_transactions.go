package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"
	applog "fintrack/internal/log"
)

type createTransactionRequest struct {
	Type          string     `json:"type"`
	Amount        core.Money `json:"amount"`
	Description   string     `json:"description"`
	Category      string     `json:"category"`
	PaymentMethod string     `json:"payment_method"`
	Date          string     `json:"date"`
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := userIDFrom(ctx)

	txs, err := s.store.TransactionsByUser(ctx, userID)
	if err != nil {
		slog.ErrorContext(ctx, "Transaction list failed", applog.FieldError, err, applog.FieldUserID, userID)
		respondError(w, http.StatusInternalServerError, "Failed to fetch transactions")
		return
	}
	if txs == nil {
		txs = []core.Transaction{}
	}
	respondJSON(w, http.StatusOK, txs)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := userIDFrom(ctx)

	var req createTransactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Type == "" || req.Amount.Cents == 0 || req.Description == "" || req.Date == "" {
		respondError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	kind, err := core.ParseKind(req.Type)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	t := core.Transaction{
		ID:            uuid.NewString(),
		UserID:        userID,
		Kind:          kind,
		Amount:        req.Amount,
		Description:   req.Description,
		Category:      req.Category,
		PaymentMethod: req.PaymentMethod,
		Date:          req.Date,
		CreatedAt:     time.Now().UTC(),
	}
	t.Normalize()
	if err := t.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.CreateTransaction(ctx, t); err != nil {
		slog.ErrorContext(ctx, "Transaction create failed", applog.FieldError, err, applog.FieldUserID, userID)
		respondError(w, http.StatusInternalServerError, "Failed to add transaction")
		return
	}

	s.invalidateReports(userID)
	respondJSON(w, http.StatusCreated, t)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := userIDFrom(ctx)
	id := r.PathValue("id")

	if err := s.store.DeleteTransaction(ctx, userID, id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Transaction not found")
			return
		}
		slog.ErrorContext(ctx, "Transaction delete failed",
			applog.FieldError, err,
			applog.FieldUserID, userID,
			applog.FieldTxID, id)
		respondError(w, http.StatusInternalServerError, "Failed to delete transaction")
		return
	}

	s.invalidateReports(userID)
	respondJSON(w, http.StatusOK, map[string]string{"message": "Transaction deleted"})
}

func (s *Server) invalidateReports(userID string) {
	if n := s.reportCache.DeletePrefix(userID + "/"); n > 0 {
		slog.Debug("Report cache invalidated", applog.FieldUserID, userID, "entries", n)
	}
}
