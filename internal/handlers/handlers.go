package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/skypass/booking-orchestrator/internal/booking"
	"github.com/skypass/booking-orchestrator/internal/service"
)

// Handler contains the HTTP handlers of the session gateway. They carry no
// business logic: every request is decoded, handed to the booking service,
// and the resulting session view is written back for the UI to render.
type Handler struct {
	bookingService service.BookingService
}

// NewHandler creates a new Handler instance
func NewHandler(bookingService service.BookingService) *Handler {
	return &Handler{
		bookingService: bookingService,
	}
}

// SearchRequest carries the flight search parameters. All three fields are
// required by the Inventory Service contract.
type SearchRequest struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Date        string `json:"date"`
}

// SelectFlightRequest names the flight to make the session's selection.
type SelectFlightRequest struct {
	FlightID int64 `json:"flightId"`
}

// SeatCountRequest sets how many seats the next hold should cover.
type SeatCountRequest struct {
	Count int `json:"count"`
}

// PaymentRequest reports the mock payment outcome to resolve the hold with.
type PaymentRequest struct {
	Success bool `json:"success"`
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func sessionID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	return id, err == nil
}

// CreateSession handles POST /api/sessions
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	view, err := h.bookingService.CreateSession(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, view)
}

// GetSession handles GET /api/sessions/{id}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid session ID")
		return
	}

	view, err := h.bookingService.GetSession(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusNotFound, "Session not found")
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// Refresh handles POST /api/sessions/{id}/refresh
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid session ID")
		return
	}

	view, err := h.bookingService.Refresh(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusNotFound, "Session not found")
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// Search handles POST /api/sessions/{id}/search
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid session ID")
		return
	}

	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Origin == "" || req.Destination == "" || req.Date == "" {
		respondError(w, http.StatusBadRequest, "Origin, destination and date are required")
		return
	}

	view, err := h.bookingService.Search(r.Context(), id, req.Origin, req.Destination, req.Date)
	if err != nil {
		respondError(w, http.StatusNotFound, "Session not found")
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// SelectFlight handles POST /api/sessions/{id}/select
func (h *Handler) SelectFlight(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid session ID")
		return
	}

	var req SelectFlightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.FlightID == 0 {
		respondError(w, http.StatusBadRequest, "Flight ID is required")
		return
	}

	view, err := h.bookingService.SelectFlight(r.Context(), id, req.FlightID)
	if err != nil {
		respondError(w, http.StatusNotFound, "Session not found")
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// SetSeatCount handles POST /api/sessions/{id}/seats
func (h *Handler) SetSeatCount(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid session ID")
		return
	}

	var req SeatCountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	view, err := h.bookingService.SetSeatCount(r.Context(), id, req.Count)
	if err != nil {
		respondError(w, http.StatusNotFound, "Session not found")
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// Book handles POST /api/sessions/{id}/book
func (h *Handler) Book(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid session ID")
		return
	}

	view, err := h.bookingService.Book(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusNotFound, "Session not found")
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// ConfirmPayment handles POST /api/sessions/{id}/payment
func (h *Handler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid session ID")
		return
	}

	var req PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	view, err := h.bookingService.ConfirmPayment(r.Context(), id, req.Success)
	if err != nil {
		respondError(w, http.StatusNotFound, "Session not found")
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// Ticket handles GET /api/sessions/{id}/ticket by redirecting to the
// Inventory Service's ticket endpoint. The download is fire-and-forget.
func (h *Handler) Ticket(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid session ID")
		return
	}

	url, err := h.bookingService.TicketURL(r.Context(), id)
	if err != nil {
		if errors.Is(err, booking.ErrNoActiveHold) {
			respondError(w, http.StatusNotFound, "No booking to fetch a ticket for")
			return
		}
		respondError(w, http.StatusNotFound, "Session not found")
		return
	}
	http.Redirect(w, r, url, http.StatusFound)
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}
