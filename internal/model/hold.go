package model

// Hold is a time-boxed provisional seat reservation pending payment. The
// orchestrator keeps at most one live Hold per session. Expiry is enforced
// server-side only; ExpiresAt is carried for display ("pay before HH:MM").
type Hold struct {
	BookingID int64     `json:"bookingId"`
	PNR       string    `json:"pnr"`
	Seats     []string  `json:"seats,omitempty"`
	Amount    float64   `json:"amount"`
	ExpiresAt Timestamp `json:"expiresAt"`

	// FlightID is tracked client-side so the catalog can be refreshed after
	// the hold resolves; the confirmation endpoint does not return it.
	FlightID int64 `json:"flightId,omitempty"`
}

// BookingResult is the ephemeral payload behind the success notification
// shown once payment confirmation succeeds.
type BookingResult struct {
	BookingID int64  `json:"bookingId"`
	PNR       string `json:"pnr"`
}
