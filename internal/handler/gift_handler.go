package handler

import (
	"net/http"

	"promo-admin/internal/service"

	"github.com/rs/zerolog"
)

// GiftHandler serves the read-only gift catalog.
type GiftHandler struct {
	service service.GiftService
	logger  zerolog.Logger
}

// NewGiftHandler creates a new gift handler.
func NewGiftHandler(service service.GiftService, logger zerolog.Logger) *GiftHandler {
	return &GiftHandler{
		service: service,
		logger:  logger.With().Str("handler", "gift").Logger(),
	}
}

// List handles GET /api/gifts.
func (h *GiftHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, h.logger)
		return
	}

	gifts, err := h.service.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "failed to retrieve gifts", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, gifts)
}
