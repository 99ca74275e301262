package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-auth-nosql/internal/domain"
)

// errorStatuses maps domain sentinels to HTTP statuses. The sentinel's own
// message is what the client sees.
var errorStatuses = []struct {
	target error
	status int
}{
	{domain.ErrAccountNotFound, http.StatusBadRequest},
	{domain.ErrAccountAlreadyActive, http.StatusBadRequest},
	{domain.ErrThrottled, http.StatusTooManyRequests},
	{domain.ErrConfigurationDisabled, http.StatusInternalServerError},
	{domain.ErrEmailDisabled, http.StatusInternalServerError},
	{domain.ErrDeliveryFailure, http.StatusInternalServerError},
}

// httpError writes err as a JSON error envelope.
func httpError(w http.ResponseWriter, err error) {
	for _, e := range errorStatuses {
		if errors.Is(err, e.target) {
			writeError(w, e.status, e.target.Error())
			return
		}
	}
	if errors.Is(err, domain.ErrBadRequest) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	slog.Error("unhandled request error", "err", err)
	writeError(w, http.StatusInternalServerError, "internal server error")
}
