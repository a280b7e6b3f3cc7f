package booking

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/skypass/booking-orchestrator/internal/inventory"
	"github.com/skypass/booking-orchestrator/internal/metrics"
	"github.com/skypass/booking-orchestrator/internal/model"
)

// HoldAPI is the slice of the inventory client the manager consumes.
type HoldAPI interface {
	CreateHold(ctx context.Context, req inventory.HoldRequest) (*model.Hold, error)
	ConfirmPayment(ctx context.Context, bookingID int64, success bool) error
}

// Catalog is what the manager needs from the catalog cache: the current seat
// map, and refreshes after every mutating operation.
type Catalog interface {
	LoadAll(ctx context.Context) error
	LoadSeatMap(ctx context.Context, flightID int64) error
	SeatMap() ([]model.Seat, int64)
}

// Manager owns the single outstanding hold, if any, and drives its lifecycle:
// no hold, hold active, resolved (confirmed, cancelled, or lapsed server-side).
// Expiry is never enforced here; the server signals a lapsed hold through a
// failed confirmation.
type Manager struct {
	mu      sync.Mutex
	inv     HoldAPI
	catalog Catalog
	current *model.Hold
}

func NewManager(inv HoldAPI, catalog Catalog) *Manager {
	return &Manager{inv: inv, catalog: catalog}
}

// CreateHold reserves the first seatCount AVAILABLE seats of the flight's
// seat map, in seat-map order. seatCount values below one are coerced to one.
// The sequence is fixed: ensure seat map, select seats, request the hold,
// refresh the catalog.
func (m *Manager) CreateHold(ctx context.Context, flight model.Flight, seatCount int) (*model.Hold, error) {
	if seatCount < 1 {
		seatCount = 1
	}

	if m.Active() != nil {
		return nil, ErrHoldOutstanding
	}

	seats, mapFlight := m.catalog.SeatMap()
	if len(seats) == 0 || mapFlight != flight.ID {
		if err := m.catalog.LoadSeatMap(ctx, flight.ID); err != nil {
			// Non-fatal: selection proceeds against the (empty) cache and
			// fails the availability check below instead.
			log.Warn().Err(err).Int64("flight_id", flight.ID).Msg("seat map load failed during hold creation")
		}
		seats, _ = m.catalog.SeatMap()
	}

	// Simplest-available policy: AVAILABLE seats in seat-map order, no
	// proximity or fairness considerations.
	var available []string
	for _, seat := range seats {
		if seat.Available() {
			available = append(available, seat.SeatLabel)
		}
	}
	if len(available) < seatCount {
		return nil, &InsufficientSeatsError{Requested: seatCount, Available: len(available)}
	}
	labels := available[:seatCount]

	amount := flight.Price * float64(seatCount)
	hold, err := m.inv.CreateHold(ctx, inventory.HoldRequest{
		FlightID: flight.ID,
		Seats:    labels,
		Amount:   amount,
	})
	if err != nil {
		metrics.HoldsRejected.Inc()
		return nil, &HoldRejectedError{Detail: rejectionDetail(err), Err: err}
	}

	m.mu.Lock()
	m.current = hold
	m.mu.Unlock()
	metrics.HoldsCreated.Inc()

	log.Info().
		Int64("booking_id", hold.BookingID).
		Str("pnr", hold.PNR).
		Strs("seats", labels).
		Float64("amount", hold.Amount).
		Msg("hold created")

	m.refresh(ctx, flight.ID)
	return hold, nil
}

// ResolveHold reports the payment outcome for the active hold. On a processed
// resolution the hold is cleared and the catalog refreshed; a BookingResult
// is returned only for a successful payment. On a failed confirmation call
// the hold is kept so the action can be repeated manually.
func (m *Manager) ResolveHold(ctx context.Context, success bool) (*model.BookingResult, error) {
	hold := m.Active()
	if hold == nil {
		return nil, ErrNoActiveHold
	}

	if err := m.inv.ConfirmPayment(ctx, hold.BookingID, success); err != nil {
		return nil, &PaymentConfirmError{Err: err}
	}

	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()

	outcome := "confirmed"
	if !success {
		outcome = "cancelled"
	}
	metrics.PaymentResolutions.WithLabelValues(outcome).Inc()
	log.Info().Int64("booking_id", hold.BookingID).Str("outcome", outcome).Msg("hold resolved")

	m.refresh(ctx, hold.FlightID)

	if !success {
		return nil, nil
	}
	return &model.BookingResult{BookingID: hold.BookingID, PNR: hold.PNR}, nil
}

// Active returns the live hold, or nil.
func (m *Manager) Active() *model.Hold {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Clear drops the client-side hold reference without contacting the server.
// Used when the user switches flights: the prior hold's server-side fate is
// left to the service's own expiry.
func (m *Manager) Clear() {
	m.mu.Lock()
	cleared := m.current
	m.current = nil
	m.mu.Unlock()

	if cleared != nil {
		log.Warn().Int64("booking_id", cleared.BookingID).Msg("hold abandoned client-side")
	}
}

// refresh reloads the flight list and seat map so seat counts reflect the
// mutation immediately. Failures here are logged, not surfaced: the mutation
// itself already succeeded.
func (m *Manager) refresh(ctx context.Context, flightID int64) {
	if err := m.catalog.LoadAll(ctx); err != nil {
		log.Warn().Err(err).Msg("flight list refresh failed after hold mutation")
	}
	if err := m.catalog.LoadSeatMap(ctx, flightID); err != nil {
		log.Warn().Err(err).Msg("seat map refresh failed after hold mutation")
	}
}

func rejectionDetail(err error) string {
	var apiErr *inventory.APIError
	if errors.As(err, &apiErr) && apiErr.Body != "" {
		return apiErr.Body
	}
	return err.Error()
}
