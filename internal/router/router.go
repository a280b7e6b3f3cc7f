package router

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/skypass/booking-orchestrator/internal/handlers"
	ws "github.com/skypass/booking-orchestrator/internal/websocket"
)

// SetupRouter creates and configures the HTTP router
func SetupRouter(h *handlers.Handler, hub *ws.Hub) *mux.Router {
	r := mux.NewRouter()

	// CORS middleware
	r.Use(corsMiddleware)

	// API routes
	api := r.PathPrefix("/api").Subrouter()

	// Sessions: one per UI client, each carrying its own booking workflow
	api.HandleFunc("/sessions", h.CreateSession).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/sessions/{id}", h.GetSession).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/sessions/{id}/refresh", h.Refresh).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/sessions/{id}/search", h.Search).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/sessions/{id}/select", h.SelectFlight).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/sessions/{id}/seats", h.SetSeatCount).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/sessions/{id}/book", h.Book).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/sessions/{id}/payment", h.ConfirmPayment).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/sessions/{id}/ticket", h.Ticket).Methods(http.MethodGet, http.MethodOptions)

	// WebSocket for real-time snapshot pushes
	api.HandleFunc("/sessions/{id}/ws", hub.HandleWebSocket)

	// Metrics and health check
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
