package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-auth-nosql/internal/application/confirmation"
	"github.com/go-auth-nosql/internal/domain"
	"github.com/go-auth-nosql/internal/pkg/validate"
)

// ResendConfirmationHandler re-sends the activation email for pending accounts.
type ResendConfirmationHandler struct {
	svc confirmation.Service
}

func NewResendConfirmationHandler(svc confirmation.Service) *ResendConfirmationHandler {
	return &ResendConfirmationHandler{svc: svc}
}

func (h *ResendConfirmationHandler) Resend(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Available(); err != nil {
		httpError(w, err)
		return
	}
	var req domain.AccountLookup
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		httpError(w, err)
		return
	}
	sess, err := h.svc.Resend(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}
