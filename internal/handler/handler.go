package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"promo-admin/internal/middleware"
	"promo-admin/internal/model"

	"github.com/rs/zerolog"
)

// maxBodyBytes bounds request bodies; card numbers alone may be 5000 characters.
const maxBodyBytes = 1 << 20

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		return
	}
}

// writeError writes a model.ErrorResponse carrying the request's correlation ID.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, logger zerolog.Logger) {
	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.
		Str("code", code).
		Str("error", message).
		Int("status", status).
		Str("correlation_id", middleware.CorrelationID(r.Context())).
		Msg("handler error")

	writeJSON(w, status, model.ErrorResponse{
		Error:         code,
		Message:       message,
		CorrelationID: middleware.CorrelationID(r.Context()),
	})
}

// writeServiceError maps a service error to a status code. Errors that are
// neither validation nor domain errors are reported as fallback.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string, logger zerolog.Logger) {
	var validationErr *model.ValidationError
	if errors.As(err, &validationErr) {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeValidationFailed, validationErr.Error(), logger)
		return
	}

	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		status := http.StatusBadRequest
		if domainErr.Code == model.ErrCodePromotionNotFound {
			status = http.StatusNotFound
		}
		writeError(w, r, status, domainErr.Code, domainErr.Message, logger)
		return
	}

	logger.Error().Err(err).Str("correlation_id", middleware.CorrelationID(r.Context())).Msg(fallback)
	writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternalError, fallback, logger)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request, logger zerolog.Logger) {
	writeError(w, r, http.StatusMethodNotAllowed, model.ErrCodeMethodNotAllowed, "method not allowed", logger)
}
