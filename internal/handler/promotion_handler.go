package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"promo-admin/internal/model"
	"promo-admin/internal/service"

	"github.com/rs/zerolog"
)

const promotionsPath = "/api/promotions/"

// PromotionHandler handles promotion-related HTTP requests.
type PromotionHandler struct {
	service service.PromotionService
	logger  zerolog.Logger
}

// NewPromotionHandler creates a new promotion handler.
func NewPromotionHandler(service service.PromotionService, logger zerolog.Logger) *PromotionHandler {
	return &PromotionHandler{
		service: service,
		logger:  logger.With().Str("handler", "promotion").Logger(),
	}
}

// List handles GET /api/promotions?sort=&order=&page=&limit=&search=.
// page is one-based.
func (h *PromotionHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, h.logger)
		return
	}

	values := r.URL.Query()
	q := service.ListQuery{
		Sort:   values.Get("sort"),
		Order:  values.Get("order"),
		Search: values.Get("search"),
	}

	var err error
	if q.Page, err = intParam(values.Get("page")); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidQuery, "invalid page parameter", h.logger)
		return
	}
	if q.Limit, err = intParam(values.Get("limit")); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidQuery, "invalid limit parameter", h.logger)
		return
	}

	promotions, err := h.service.List(r.Context(), q)
	if err != nil {
		writeServiceError(w, r, err, "failed to retrieve promotions", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, promotions)
}

// Create handles POST /api/promotions.
func (h *PromotionHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, h.logger)
		return
	}

	p, ok := h.decode(w, r)
	if !ok {
		return
	}

	created, err := h.service.Create(r.Context(), p)
	if err != nil {
		writeServiceError(w, r, err, "failed to create promotion", h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// ByID handles GET, PUT and DELETE on /api/promotions/{id}.
func (h *PromotionHandler) ByID(w http.ResponseWriter, r *http.Request) {
	id, err := promotionID(r.URL.Path)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidPromotionID, err.Error(), h.logger)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.remove(w, r, id)
	default:
		methodNotAllowed(w, r, h.logger)
	}
}

func (h *PromotionHandler) get(w http.ResponseWriter, r *http.Request, id int64) {
	p, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, "failed to retrieve promotion", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, p)
}

func (h *PromotionHandler) update(w http.ResponseWriter, r *http.Request, id int64) {
	p, ok := h.decode(w, r)
	if !ok {
		return
	}

	updated, err := h.service.Update(r.Context(), id, p)
	if err != nil {
		writeServiceError(w, r, err, "failed to update promotion", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *PromotionHandler) remove(w http.ResponseWriter, r *http.Request, id int64) {
	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err, "failed to delete promotion", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.DeleteResponse{ID: id})
}

func (h *PromotionHandler) decode(w http.ResponseWriter, r *http.Request) (model.Promotion, bool) {
	var p model.Promotion
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(&p); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return model.Promotion{}, false
	}
	return p, true
}

// promotionID extracts the ID from /api/promotions/{id}.
func promotionID(path string) (int64, error) {
	raw := strings.Trim(strings.TrimPrefix(path, promotionsPath), "/")
	if raw == "" {
		return 0, model.ErrInvalidPromotionID
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, model.ErrInvalidPromotionID
	}
	return id, nil
}

// intParam parses an optional integer query parameter; "" is zero.
func intParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
