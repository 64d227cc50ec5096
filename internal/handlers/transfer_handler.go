package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/ledgerpay/backend/internal/services"
)

const idempotencyKeyHeader = "Idempotency-Key"

type TransferHandler struct {
	service   *services.TransferService
	idem      *services.IdempotencyStore
	validator *services.ValidationHelper
}

func NewTransferHandler(service *services.TransferService, idem *services.IdempotencyStore) *TransferHandler {
	return &TransferHandler{
		service:   service,
		idem:      idem,
		validator: services.NewValidationHelper(),
	}
}

type transferRequest struct {
	SourceAccount *int64 `json:"sourceAccount"`
	TargetAccount *int64 `json:"targetAccount"`
	Amount        *int64 `json:"amount" validate:"required"`
}

// CreateTransfer handles POST /transfers. A client may send an
// Idempotency-Key header (a UUID): if a transfer already completed under that
// key, the stored response is replayed instead of moving money twice.
func (h *TransferHandler) CreateTransfer(w http.ResponseWriter, r *http.Request) {
	idemKey := r.Header.Get(idempotencyKeyHeader)
	if idemKey != "" {
		if _, err := uuid.Parse(idemKey); err != nil {
			writeBadRequest(w, "Idempotency-Key must be a valid UUID")
			return
		}
		if payload, ok := h.idem.Lookup(r.Context(), idemKey); ok {
			w.Header().Set("Idempotent-Replayed", "true")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write(payload)
			return
		}
	}

	var req transferRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		writeError(w, err)
		return
	}

	op, err := h.service.Transfer(r.Context(), services.TransferRequest{
		SourceAccount: req.SourceAccount,
		TargetAccount: req.TargetAccount,
		Amount:        *req.Amount,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	if idemKey != "" {
		if payload, err := json.Marshal(op); err == nil {
			h.idem.Save(r.Context(), idemKey, payload)
		}
	}
	writeJSON(w, http.StatusOK, op)
}
