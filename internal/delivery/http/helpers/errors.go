package helpers

import (
	"errors"
	"log/slog"
	"net/http"

	"tempus/internal/domain"
)

// WriteDomainError maps service errors to HTTP responses. Unexpected errors are
// logged and reported as 500 without their message.
func WriteDomainError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var (
		conflict   *domain.ConflictError
		validation *domain.ValidationError
	)
	switch {
	case errors.As(err, &conflict):
		var details any
		if conflict.Meeting != nil {
			details = map[string]any{"conflicting_meeting": conflict.Meeting}
		}
		WriteJSONErrorDetails(w, http.StatusConflict, ErrCodeConflict, domain.ErrConflict.Error(), details)
	case errors.Is(err, domain.ErrConflict):
		WriteJSONError(w, http.StatusConflict, ErrCodeConflict, domain.ErrConflict.Error())
	case errors.As(err, &validation):
		WriteJSONErrorDetails(w, http.StatusBadRequest, ErrCodeBadRequest, validation.Message, map[string]string{"field": validation.Field})
	case errors.Is(err, domain.ErrInvalidInput):
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		WriteJSONError(w, http.StatusNotFound, ErrCodeNotFound, "not found")
	case errors.Is(err, domain.ErrInvalidCredentials):
		WriteJSONError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "invalid credentials")
	case errors.Is(err, domain.ErrDuplicateEmail):
		WriteJSONError(w, http.StatusConflict, ErrCodeConflict, "email already registered")
	default:
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		WriteJSONError(w, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
	}
}
