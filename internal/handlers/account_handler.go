package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/ledgerpay/backend/internal/models"
	"github.com/ledgerpay/backend/internal/services"
)

type AccountHandler struct {
	service   *services.AccountService
	validator *services.ValidationHelper
}

func NewAccountHandler(service *services.AccountService) *AccountHandler {
	return &AccountHandler{
		service:   service,
		validator: services.NewValidationHelper(),
	}
}

type accountRequest struct {
	Status string `json:"status" validate:"required,oneof=ACTIVE BLOCKED"`
}

// CreateAccount handles POST /accounts.
func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		writeError(w, err)
		return
	}

	status, err := models.ParseAccountStatus(req.Status)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	acc, err := h.service.CreateAccount(r.Context(), status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, acc)
}

// GetAccount handles GET /accounts/{accountID}.
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := accountIDParam(w, r)
	if !ok {
		return
	}

	acc, err := h.service.GetAccount(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, acc)
}

// UpdateAccount handles PUT /accounts/{accountID}.
func (h *AccountHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := accountIDParam(w, r)
	if !ok {
		return
	}

	var req accountRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		writeError(w, err)
		return
	}

	status, err := models.ParseAccountStatus(req.Status)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	acc, err := h.service.UpdateAccount(r.Context(), id, status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, acc)
}

// GetBalance handles GET /accounts/{accountID}/balance.
func (h *AccountHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	id, ok := accountIDParam(w, r)
	if !ok {
		return
	}

	bal, err := h.service.GetBalance(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bal)
}

func accountIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "accountID"), 10, 64)
	if err != nil {
		writeBadRequest(w, "Invalid account id")
		return 0, false
	}
	return id, true
}

// decodeBody reads a single JSON object from the request body, rejecting
// unknown fields and trailing content.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1_048_576)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		writeBadRequest(w, "Invalid request body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeBadRequest(w, "Request body must only contain a single JSON object")
		return false
	}
	return true
}
