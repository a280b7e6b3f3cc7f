package inventory

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xeipuuv/gojsonschema"

	"github.com/skypass/booking-orchestrator/internal/model"
)

// holdRequestSchema pins the wire shape of POST /api/book/hold; the Inventory
// Service rejects anything else.
const holdRequestSchema = `{
	"type": "object",
	"required": ["userId", "flightId", "seats", "amount"],
	"properties": {
		"userId":   {"type": "integer", "minimum": 1},
		"flightId": {"type": "integer", "minimum": 1},
		"seats":    {"type": "array", "items": {"type": "string"}, "minItems": 1},
		"amount":   {"type": "number", "minimum": 0}
	},
	"additionalProperties": false
}`

func TestClient_ListFlights(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/flights", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[
			{"id":1,"airline":"SkyPass Air","flightNo":"SP101","origin":"DEL","destination":"BOM","price":5000,"seatsAvailable":3},
			{"id":2,"airline":"SkyPass Air","flightNo":"SP102","origin":"BOM","destination":"DEL","price":4500,"seatsAvailable":0}
		]`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 1)
	flights, err := client.ListFlights(context.Background())
	require.NoError(t, err)
	require.Len(t, flights, 2)
	assert.Equal(t, "SP101", flights[0].FlightNo)
	assert.Equal(t, 0, flights[1].SeatsAvailable)
}

func TestClient_SearchFlights_EscapesParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/flights/search", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "New Delhi", q.Get("origin"))
		assert.Equal(t, "Mumbai & Goa", q.Get("destination"))
		assert.Equal(t, "2025-11-05", q.Get("date"))
		io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 1)
	flights, err := client.SearchFlights(context.Background(), "New Delhi", "Mumbai & Goa", "2025-11-05")
	require.NoError(t, err)
	assert.Empty(t, flights)
}

func TestClient_SearchFlights_SurfacesErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, "date is required")
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 1)
	_, err := client.SearchFlights(context.Background(), "DEL", "BOM", "")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "date is required", apiErr.Body)
}

func TestClient_SeatMap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/flights/7/seats", r.URL.Path)
		io.WriteString(w, `[
			{"seatLabel":"A1","status":"AVAILABLE"},
			{"seatLabel":"A2","status":"available"},
			{"seatLabel":"A3","status":"BOOKED"}
		]`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 1)
	seats, err := client.SeatMap(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, seats, 3)
	assert.Equal(t, model.SeatStatusAvailable, seats[1].Status)
}

func TestClient_CreateHold(t *testing.T) {
	var captured []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/book/hold", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		captured, _ = io.ReadAll(r.Body)
		io.WriteString(w, `{"bookingId":42,"pnr":"7ABC12XY","amount":10000,"expiresAt":"2025-11-05T11:00:00"}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 1)
	hold, err := client.CreateHold(context.Background(), HoldRequest{
		FlightID: 7,
		Seats:    []string{"A1", "A2"},
		Amount:   10000,
	})
	require.NoError(t, err)

	// Request body matches the service's contract exactly.
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(holdRequestSchema),
		gojsonschema.NewBytesLoader(captured),
	)
	require.NoError(t, err)
	assert.True(t, result.Valid(), "hold request schema errors: %v", result.Errors())

	var sent HoldRequest
	require.NoError(t, json.Unmarshal(captured, &sent))
	assert.Equal(t, int64(1), sent.UserID, "default user id should be filled in")
	assert.Equal(t, int64(7), sent.FlightID)

	assert.Equal(t, int64(42), hold.BookingID)
	assert.Equal(t, "7ABC12XY", hold.PNR)
	assert.Equal(t, int64(7), hold.FlightID)
	assert.Equal(t, []string{"A1", "A2"}, hold.Seats)
	assert.False(t, hold.ExpiresAt.IsZero())
}

func TestClient_CreateHold_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		io.WriteString(w, `{"message":"Seat not available: A1"}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 1)
	_, err := client.CreateHold(context.Background(), HoldRequest{FlightID: 7, Seats: []string{"A1"}, Amount: 5000})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "Seat not available")
}

func TestClient_ConfirmPayment(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr bool
	}{
		{name: "processed", status: http.StatusOK, wantErr: false},
		{name: "processing failure", status: http.StatusInternalServerError, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/payment/confirm", r.URL.Path)

				var body confirmRequest
				require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				assert.Equal(t, int64(42), body.BookingID)
				assert.True(t, body.Success)

				w.WriteHeader(tt.status)
				io.WriteString(w, `{"success":true}`)
			}))
			defer srv.Close()

			client := NewClient(srv.URL, 1)
			err := client.ConfirmPayment(context.Background(), 42, true)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestClient_TicketURL(t *testing.T) {
	client := NewClient("http://inventory.local/", 1)
	assert.Equal(t, "http://inventory.local/api/booking/42/ticket", client.TicketURL(42))
}
