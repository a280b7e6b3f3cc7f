package workflow

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skypass/booking-orchestrator/internal/booking"
	"github.com/skypass/booking-orchestrator/internal/model"
)

type fakeCatalog struct {
	flights      []model.Flight
	seats        []model.Seat
	seatsFlight  int64
	pendingSeats []model.Seat

	loadAllErr error
	searchErr  error
	seatErr    error

	loadAllCalls int
	searchCalls  int
	clearCalls   int
}

func (f *fakeCatalog) LoadAll(ctx context.Context) error {
	f.loadAllCalls++
	return f.loadAllErr
}

func (f *fakeCatalog) Search(ctx context.Context, origin, destination, date string) error {
	f.searchCalls++
	return f.searchErr
}

func (f *fakeCatalog) LoadSeatMap(ctx context.Context, flightID int64) error {
	if f.seatErr != nil {
		f.seats = nil
		return f.seatErr
	}
	f.seats = f.pendingSeats
	f.seatsFlight = flightID
	return nil
}

func (f *fakeCatalog) ClearSeatMap() {
	f.clearCalls++
	f.seats = nil
	f.seatsFlight = 0
}

func (f *fakeCatalog) Flights() []model.Flight { return f.flights }

func (f *fakeCatalog) Flight(id int64) (model.Flight, bool) {
	for _, fl := range f.flights {
		if fl.ID == id {
			return fl, true
		}
	}
	return model.Flight{}, false
}

func (f *fakeCatalog) SeatMap() ([]model.Seat, int64) { return f.seats, f.seatsFlight }

type fakeHolds struct {
	active     *model.Hold
	createErr  error
	resolveErr error
	clearCalls int
}

func (f *fakeHolds) CreateHold(ctx context.Context, flight model.Flight, seatCount int) (*model.Hold, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if seatCount < 1 {
		seatCount = 1
	}
	f.active = &model.Hold{
		BookingID: 42,
		PNR:       "7ABC12XY",
		Amount:    flight.Price * float64(seatCount),
		FlightID:  flight.ID,
		ExpiresAt: model.Timestamp{Time: time.Now().Add(10 * time.Minute)},
	}
	return f.active, nil
}

func (f *fakeHolds) ResolveHold(ctx context.Context, success bool) (*model.BookingResult, error) {
	if f.active == nil {
		return nil, booking.ErrNoActiveHold
	}
	if f.resolveErr != nil {
		return nil, f.resolveErr
	}
	hold := f.active
	f.active = nil
	if !success {
		return nil, nil
	}
	return &model.BookingResult{BookingID: hold.BookingID, PNR: hold.PNR}, nil
}

func (f *fakeHolds) Active() *model.Hold { return f.active }

func (f *fakeHolds) Clear() {
	f.clearCalls++
	f.active = nil
}

func testFlights() []model.Flight {
	return []model.Flight{
		{ID: 7, Airline: "SkyPass Air", FlightNo: "SP101", Price: 5000, SeatsAvailable: 3},
		{ID: 8, Airline: "SkyPass Air", FlightNo: "SP102", Price: 4500, SeatsAvailable: 1},
	}
}

func newTestController(policy Policy) (*Controller, *fakeCatalog, *fakeHolds) {
	cat := &fakeCatalog{
		flights: testFlights(),
		pendingSeats: []model.Seat{
			{SeatLabel: "A1", Status: model.SeatStatusAvailable},
			{SeatLabel: "A2", Status: model.SeatStatusAvailable},
			{SeatLabel: "A3", Status: model.SeatStatusBooked},
		},
	}
	holds := &fakeHolds{}
	return NewController(cat, holds, policy), cat, holds
}

func TestController_InitialState(t *testing.T) {
	c, _, _ := newTestController(Policy{})
	snap := c.Snapshot()
	assert.Equal(t, StateBrowsing, snap.State)
	assert.Equal(t, 1, snap.SeatCount)
	assert.Nil(t, snap.SelectedFlight)
	assert.Nil(t, snap.Hold)
}

func TestController_SelectFlight(t *testing.T) {
	c, cat, holds := newTestController(Policy{})

	snap := c.SelectFlight(context.Background(), 7)
	assert.Equal(t, StateFlightSelected, snap.State)
	require.NotNil(t, snap.SelectedFlight)
	assert.Equal(t, int64(7), snap.SelectedFlight.ID)
	assert.Equal(t, 1, snap.SeatCount)
	assert.Len(t, snap.SeatMap, 3)
	assert.Equal(t, int64(7), cat.seatsFlight)
	assert.Equal(t, 1, holds.clearCalls, "selection always drops the prior hold reference")
}

func TestController_SelectFlight_Unknown(t *testing.T) {
	c, _, _ := newTestController(Policy{})

	snap := c.SelectFlight(context.Background(), 99)
	assert.Equal(t, StateBrowsing, snap.State)
	assert.Contains(t, snap.Message, "Unknown flight 99")
	assert.Nil(t, snap.SelectedFlight)
}

func TestController_SelectFlight_SeatMapFailureIsNonFatal(t *testing.T) {
	c, cat, _ := newTestController(Policy{})
	cat.seatErr = assert.AnError

	snap := c.SelectFlight(context.Background(), 7)
	assert.Equal(t, StateFlightSelected, snap.State, "selection sticks even without a seat map")
	assert.Contains(t, snap.Message, "Could not load seat map")
	assert.Empty(t, snap.SeatMap)
}

func TestController_SetSeatCount(t *testing.T) {
	c, _, _ := newTestController(Policy{})

	snap := c.SetSeatCount(2)
	assert.Equal(t, "Please select a flight first", snap.Message)
	assert.Equal(t, 1, snap.SeatCount)

	c.SelectFlight(context.Background(), 7)

	snap = c.SetSeatCount(2)
	assert.Equal(t, 2, snap.SeatCount)

	snap = c.SetSeatCount(0)
	assert.Equal(t, 1, snap.SeatCount, "non-positive counts coerce to one")

	snap = c.SetSeatCount(99)
	assert.Equal(t, 3, snap.SeatCount, "advisory clamp to seatsAvailable")
}

func TestController_Book(t *testing.T) {
	c, _, _ := newTestController(Policy{})
	c.SelectFlight(context.Background(), 7)
	c.SetSeatCount(2)

	snap := c.Book(context.Background())
	assert.Equal(t, StateHoldActive, snap.State)
	require.NotNil(t, snap.Hold)
	assert.Equal(t, 10000.0, snap.Hold.Amount)
	assert.Contains(t, snap.Message, "PNR 7ABC12XY")
}

func TestController_Book_WithoutSelection(t *testing.T) {
	c, _, _ := newTestController(Policy{})

	snap := c.Book(context.Background())
	assert.Equal(t, StateBrowsing, snap.State)
	assert.Equal(t, "Please select a flight first", snap.Message)
	assert.Nil(t, snap.Hold)
}

func TestController_Book_FailureFallsBackToSelection(t *testing.T) {
	c, _, holds := newTestController(Policy{})
	holds.createErr = &booking.InsufficientSeatsError{Requested: 3, Available: 2}

	c.SelectFlight(context.Background(), 7)
	snap := c.Book(context.Background())

	assert.Equal(t, StateFlightSelected, snap.State)
	assert.Contains(t, snap.Message, "requested 3, available 2")
	assert.Nil(t, snap.Hold)
}

func TestController_Book_WhileHoldActive(t *testing.T) {
	c, _, _ := newTestController(Policy{})
	c.SelectFlight(context.Background(), 7)
	c.Book(context.Background())

	snap := c.Book(context.Background())
	assert.Equal(t, StateHoldActive, snap.State)
	assert.Equal(t, "Booking is not available right now", snap.Message)
}

func TestController_ConfirmPayment_Success(t *testing.T) {
	c, _, _ := newTestController(Policy{})
	c.SelectFlight(context.Background(), 7)
	c.Book(context.Background())

	snap := c.ConfirmPayment(context.Background(), true)

	// Default policy keeps the flight selected after a resolved payment.
	assert.Equal(t, StateFlightSelected, snap.State)
	require.NotNil(t, snap.SelectedFlight)
	assert.Nil(t, snap.Hold)
	assert.Contains(t, snap.Message, "Payment successful")

	require.NotNil(t, snap.Notification)
	assert.Equal(t, int64(42), snap.Notification.BookingID)
	assert.Equal(t, "7ABC12XY", snap.Notification.PNR)
}

func TestController_ConfirmPayment_SuccessClearingSelection(t *testing.T) {
	c, cat, _ := newTestController(Policy{ClearSelectionAfterPayment: true})
	c.SelectFlight(context.Background(), 7)
	c.Book(context.Background())

	snap := c.ConfirmPayment(context.Background(), true)
	assert.Equal(t, StateBrowsing, snap.State)
	assert.Nil(t, snap.SelectedFlight)
	assert.Equal(t, 1, snap.SeatCount)
	assert.Equal(t, 1, cat.clearCalls)
	require.NotNil(t, snap.Notification)
}

func TestController_ConfirmPayment_Cancellation(t *testing.T) {
	c, _, _ := newTestController(Policy{})
	c.SelectFlight(context.Background(), 7)
	c.Book(context.Background())

	snap := c.ConfirmPayment(context.Background(), false)
	assert.Equal(t, StateFlightSelected, snap.State)
	assert.Nil(t, snap.Hold)
	assert.Contains(t, snap.Message, "Booking cancelled")
	assert.Nil(t, snap.Notification, "cancellations never produce a booking result")
}

func TestController_ConfirmPayment_NothingToConfirm(t *testing.T) {
	c, _, _ := newTestController(Policy{})
	c.SelectFlight(context.Background(), 7)

	snap := c.ConfirmPayment(context.Background(), true)
	assert.Equal(t, StateFlightSelected, snap.State)
	assert.Equal(t, "No booking to confirm", snap.Message)
}

func TestController_ConfirmPayment_FailureKeepsHold(t *testing.T) {
	c, _, holds := newTestController(Policy{})
	c.SelectFlight(context.Background(), 7)
	c.Book(context.Background())
	holds.resolveErr = &booking.PaymentConfirmError{Err: assert.AnError}

	snap := c.ConfirmPayment(context.Background(), true)
	assert.Equal(t, StateHoldActive, snap.State)
	require.NotNil(t, snap.Hold, "hold survives a failed confirmation for manual retry")
	assert.Contains(t, snap.Message, "Payment confirm failed")
}

func TestController_SelectFlight_AbandonsActiveHold(t *testing.T) {
	c, _, holds := newTestController(Policy{})
	c.SelectFlight(context.Background(), 7)
	c.Book(context.Background())
	require.NotNil(t, holds.active)

	snap := c.SelectFlight(context.Background(), 8)
	assert.Equal(t, StateFlightSelected, snap.State)
	assert.Equal(t, int64(8), snap.SelectedFlight.ID)
	assert.Nil(t, snap.Hold, "no cancellation call, the reference is simply dropped")
}

func TestController_NotificationAutoDismiss(t *testing.T) {
	c, _, _ := newTestController(Policy{NotificationTTL: 5 * time.Second})
	c.SelectFlight(context.Background(), 7)
	c.Book(context.Background())
	c.ConfirmPayment(context.Background(), true)

	require.NotNil(t, c.Snapshot().Notification)

	base := time.Now()
	c.now = func() time.Time { return base.Add(6 * time.Second) }
	assert.Nil(t, c.Snapshot().Notification, "notification dismisses itself after the TTL")
}

func TestController_Refresh(t *testing.T) {
	c, cat, _ := newTestController(Policy{})

	snap := c.Refresh(context.Background())
	assert.Equal(t, StateBrowsing, snap.State)
	assert.Empty(t, snap.Message)
	assert.Equal(t, 1, cat.loadAllCalls)

	cat.loadAllErr = assert.AnError
	snap = c.Refresh(context.Background())
	assert.Equal(t, StateBrowsing, snap.State, "refresh never changes the workflow state")
	assert.Contains(t, snap.Message, "Could not load flights")
}

func TestController_SearchFlights(t *testing.T) {
	c, cat, _ := newTestController(Policy{})

	snap := c.SearchFlights(context.Background(), "DEL", "BOM", "2025-11-05")
	assert.Empty(t, snap.Message)
	assert.Equal(t, 1, cat.searchCalls)

	cat.searchErr = assert.AnError
	snap = c.SearchFlights(context.Background(), "DEL", "BOM", "2025-11-05")
	assert.Contains(t, snap.Message, "Search failed")
}

func TestController_TicketBookingID(t *testing.T) {
	c, _, _ := newTestController(Policy{})

	_, err := c.TicketBookingID()
	assert.ErrorIs(t, err, booking.ErrNoActiveHold)

	c.SelectFlight(context.Background(), 7)
	c.Book(context.Background())

	id, err := c.TicketBookingID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	c.ConfirmPayment(context.Background(), true)

	id, err = c.TicketBookingID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), id, "last confirmed booking remains ticketable")
}

func TestController_OnChangePushesSnapshots(t *testing.T) {
	c, _, _ := newTestController(Policy{})

	var pushed []Snapshot
	c.SetOnChange(func(s Snapshot) { pushed = append(pushed, s) })

	c.SelectFlight(context.Background(), 7)
	c.Book(context.Background())

	require.Len(t, pushed, 2)
	assert.Equal(t, StateFlightSelected, pushed[0].State)
	assert.Equal(t, StateHoldActive, pushed[1].State)
	assert.False(t, pushed[1].Busy)
}
