package router

import (
	"net/http"

	"promo-admin/internal/handler"
	"promo-admin/internal/middleware"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	promotionHandler *handler.PromotionHandler,
	giftHandler *handler.GiftHandler,
	apiKey string,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	promotionRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/promotions" && r.URL.Path != "/api/promotions/" {
			promotionHandler.ByID(w, r)
			return
		}
		if r.Method == http.MethodPost {
			promotionHandler.Create(w, r)
			return
		}
		promotionHandler.List(w, r)
	}

	mux.HandleFunc("/api/promotions", promotionRouteHandler)
	mux.HandleFunc("/api/promotions/", promotionRouteHandler)
	mux.HandleFunc("/api/gifts", giftHandler.List)

	// Apply middleware in order: Recovery -> RequestID -> Logging -> CORS -> APIKeyAuth
	var handler http.Handler = mux
	handler = middleware.APIKeyAuth(apiKey, logger)(handler)
	handler = middleware.CORS(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.RequestID(handler)
	handler = middleware.Recovery(logger)(handler)

	return handler
}
