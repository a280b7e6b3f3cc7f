package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/skypass/booking-orchestrator/internal/metrics"
	"github.com/skypass/booking-orchestrator/internal/model"
)

// APIError is a non-2xx response from the Inventory Service. The body is kept
// verbatim: the service reports failures as plain text or a {"message": ...}
// object, and both are surfaced to the user as-is.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("inventory service returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("inventory service returned status %d: %s", e.StatusCode, e.Body)
}

// HoldRequest is the body of POST /api/book/hold. Amount is computed
// client-side (price times seat count); the server echoes the authoritative
// value back on the created hold.
type HoldRequest struct {
	UserID   int64    `json:"userId"`
	FlightID int64    `json:"flightId"`
	Seats    []string `json:"seats"`
	Amount   float64  `json:"amount"`
}

type confirmRequest struct {
	BookingID int64 `json:"bookingId"`
	Success   bool  `json:"success"`
}

// Client talks to the Inventory Service, the remote system of record for
// flights, seats, holds, and payments.
type Client struct {
	baseURL    string
	userID     int64
	httpClient *http.Client
}

// NewClient creates a Client for the given base address. No request timeout
// is set: a hang blocks the calling action until the transport errors, and
// in-flight requests are never cancelled.
func NewClient(baseURL string, userID int64) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userID:     userID,
		httpClient: &http.Client{},
	}
}

// ListFlights returns the full flight listing.
func (c *Client) ListFlights(ctx context.Context) ([]model.Flight, error) {
	var flights []model.Flight
	if err := c.getJSON(ctx, "/api/flights", "list_flights", &flights); err != nil {
		return nil, err
	}
	return flights, nil
}

// SearchFlights runs the parameterized flight search. All three parameters
// are required by the service and are query-escaped here.
func (c *Client) SearchFlights(ctx context.Context, origin, destination, date string) ([]model.Flight, error) {
	path := fmt.Sprintf("/api/flights/search?origin=%s&destination=%s&date=%s",
		url.QueryEscape(origin), url.QueryEscape(destination), url.QueryEscape(date))

	var flights []model.Flight
	if err := c.getJSON(ctx, path, "search_flights", &flights); err != nil {
		return nil, err
	}
	return flights, nil
}

// SeatMap returns the seat map for one flight.
func (c *Client) SeatMap(ctx context.Context, flightID int64) ([]model.Seat, error) {
	var seats []model.Seat
	path := fmt.Sprintf("/api/flights/%d/seats", flightID)
	if err := c.getJSON(ctx, path, "seat_map", &seats); err != nil {
		return nil, err
	}
	return seats, nil
}

// CreateHold asks the service to place a provisional reservation on the
// requested seats. The returned hold carries the server-issued booking id,
// PNR, echoed amount, and the hold deadline.
func (c *Client) CreateHold(ctx context.Context, req HoldRequest) (*model.Hold, error) {
	if req.UserID == 0 {
		req.UserID = c.userID
	}

	var hold model.Hold
	if err := c.postJSON(ctx, "/api/book/hold", "create_hold", req, &hold); err != nil {
		return nil, err
	}
	hold.FlightID = req.FlightID
	hold.Seats = req.Seats
	return &hold, nil
}

// ConfirmPayment reports the payment outcome for a booking. A 2xx response
// means the service processed the resolution, regardless of the success flag;
// the response body carries nothing the orchestrator needs.
func (c *Client) ConfirmPayment(ctx context.Context, bookingID int64, success bool) error {
	return c.postJSON(ctx, "/api/payment/confirm", "confirm_payment", confirmRequest{
		BookingID: bookingID,
		Success:   success,
	}, nil)
}

// TicketURL returns the ticket retrieval address for a booking. Ticket
// downloads are fire-and-forget: the orchestrator hands the URL to the
// presentation layer and never awaits the response.
func (c *Client) TicketURL(bookingID int64) string {
	return fmt.Sprintf("%s/api/booking/%d/ticket", c.baseURL, bookingID)
}

func (c *Client) getJSON(ctx context.Context, path, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	return c.do(req, endpoint, out)
}

func (c *Client) postJSON(ctx context.Context, path, endpoint string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, endpoint, out)
}

func (c *Client) do(req *http.Request, endpoint string, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.InventoryRequests.WithLabelValues(endpoint, "transport_error").Inc()
		return fmt.Errorf("inventory service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.InventoryRequests.WithLabelValues(endpoint, "error").Inc()
		body, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	metrics.InventoryRequests.WithLabelValues(endpoint, "ok").Inc()
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode inventory response: %w", err)
	}
	return nil
}
