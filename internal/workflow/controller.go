package workflow

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/skypass/booking-orchestrator/internal/booking"
	"github.com/skypass/booking-orchestrator/internal/model"
)

// DefaultNotificationTTL is how long a booking success notification stays on
// the snapshot before it is auto-dismissed.
const DefaultNotificationTTL = 8 * time.Second

// Policy holds the configurable behavior variants of the controller.
type Policy struct {
	// ClearSelectionAfterPayment settles a resolved session back to browsing
	// instead of keeping the flight selected. Defaults to false, matching the
	// behavior of keeping the selection and only clearing the hold.
	ClearSelectionAfterPayment bool

	NotificationTTL time.Duration
}

// Notification is the ephemeral success payload surfaced once a payment is
// confirmed. It disappears from snapshots after ExpiresAt.
type Notification struct {
	BookingID int64     `json:"bookingId"`
	PNR       string    `json:"pnr"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Snapshot is the full view the presentation layer renders after every
// action. It carries no behavior.
type Snapshot struct {
	State          State          `json:"state"`
	Busy           bool           `json:"busy"`
	Message        string         `json:"message,omitempty"`
	Flights        []model.Flight `json:"flights"`
	SelectedFlight *model.Flight  `json:"selectedFlight,omitempty"`
	SeatCount      int            `json:"seatCount"`
	SeatMap        []model.Seat   `json:"seatMap,omitempty"`
	Hold           *model.Hold    `json:"hold,omitempty"`
	Notification   *Notification  `json:"notification,omitempty"`
}

// Holds is the slice of the hold manager the controller consumes.
type Holds interface {
	CreateHold(ctx context.Context, flight model.Flight, seatCount int) (*model.Hold, error)
	ResolveHold(ctx context.Context, success bool) (*model.BookingResult, error)
	Active() *model.Hold
	Clear()
}

// Catalog is the slice of the catalog cache the controller consumes.
type Catalog interface {
	LoadAll(ctx context.Context) error
	Search(ctx context.Context, origin, destination, date string) error
	LoadSeatMap(ctx context.Context, flightID int64) error
	ClearSeatMap()
	Flights() []model.Flight
	Flight(id int64) (model.Flight, bool)
	SeatMap() ([]model.Seat, int64)
}

// Controller sequences calls to the catalog cache and hold manager in
// response to user intents and reconciles session state after each remote
// effect. Every action catches its errors at the boundary and folds them into
// the snapshot's user-facing message; nothing escapes.
//
// Actions are sequential by design: the busy flag on the snapshot is the
// presentation layer's cue to gate controls while a remote call is in the
// air. Re-entrant calls are tolerated, not queued; list replacement is
// last-write-wins.
type Controller struct {
	mu      sync.Mutex
	catalog Catalog
	holds   Holds
	policy  Policy
	now     func() time.Time

	state      State
	selected   *model.Flight
	seatCount  int
	busy       bool
	message    string
	note       *Notification
	lastResult *model.BookingResult

	onChange func(Snapshot)
}

func NewController(catalog Catalog, holds Holds, policy Policy) *Controller {
	if policy.NotificationTTL <= 0 {
		policy.NotificationTTL = DefaultNotificationTTL
	}
	return &Controller{
		catalog:   catalog,
		holds:     holds,
		policy:    policy,
		now:       time.Now,
		state:     StateBrowsing,
		seatCount: 1,
	}
}

// SetOnChange registers a callback invoked with the fresh snapshot after
// every completed action. Used by the gateway to push re-renders.
func (c *Controller) SetOnChange(fn func(Snapshot)) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// Refresh reloads the flight list, plus the seat map when a flight is
// selected. Valid in every state and leaves the state unchanged.
func (c *Controller) Refresh(ctx context.Context) Snapshot {
	c.begin()

	listErr := c.catalog.LoadAll(ctx)

	c.mu.Lock()
	selected := c.selected
	c.mu.Unlock()

	var seatErr error
	if listErr == nil && selected != nil {
		seatErr = c.catalog.LoadSeatMap(ctx, selected.ID)
	}

	return c.finish(func() {
		if listErr != nil {
			c.message = "Could not load flights. Is the inventory service running?"
		} else if seatErr != nil {
			c.message = fmt.Sprintf("Could not load seat map: %v", seatErr)
		}
	})
}

// SearchFlights runs a parameterized flight query and replaces the listing
// with the result. The state is unchanged; an empty result is not an error.
func (c *Controller) SearchFlights(ctx context.Context, origin, destination, date string) Snapshot {
	c.begin()
	err := c.catalog.Search(ctx, origin, destination, date)
	return c.finish(func() {
		if err != nil {
			c.message = fmt.Sprintf("Search failed: %v", err)
		}
	})
}

// SelectFlight makes the given flight the session's selection, clears any
// prior hold reference (its server-side fate is not tracked further), resets
// the seat count, and loads the flight's seat map.
func (c *Controller) SelectFlight(ctx context.Context, flightID int64) Snapshot {
	c.begin()

	flight, ok := c.catalog.Flight(flightID)
	if !ok {
		return c.finish(func() {
			c.message = fmt.Sprintf("Unknown flight %d", flightID)
		})
	}

	c.holds.Clear()
	seatErr := c.catalog.LoadSeatMap(ctx, flight.ID)

	return c.finish(func() {
		if _, ok := Next(c.state, EventSelectFlight, c.policy.ClearSelectionAfterPayment); !ok {
			c.message = "Selection is not available right now"
			return
		}
		c.transitionLocked(EventSelectFlight)
		f := flight
		c.selected = &f
		c.seatCount = 1
		if seatErr != nil {
			// Non-fatal: booking will retry the seat map load.
			c.message = fmt.Sprintf("Could not load seat map: %v", seatErr)
		}
	})
}

// SetSeatCount updates how many seats the next hold should cover. The bounds
// check against seatsAvailable is advisory only; the authoritative check
// happens against the seat map when the hold is created.
func (c *Controller) SetSeatCount(count int) Snapshot {
	c.begin()
	return c.finish(func() {
		if _, ok := Next(c.state, EventSetSeatCount, c.policy.ClearSelectionAfterPayment); !ok {
			c.message = "Please select a flight first"
			return
		}
		if count < 1 {
			count = 1
		}
		if c.selected != nil && c.selected.SeatsAvailable > 0 && count > c.selected.SeatsAvailable {
			count = c.selected.SeatsAvailable
		}
		c.seatCount = count
	})
}

// Book creates a hold for the selected flight covering the session's seat
// count. On success the session holds the reservation and the catalog already
// reflects it; on failure the session falls back to the selected flight with
// the error surfaced as a message.
func (c *Controller) Book(ctx context.Context) Snapshot {
	c.begin()

	c.mu.Lock()
	selected := c.selected
	seatCount := c.seatCount
	_, legal := Next(c.state, EventBook, c.policy.ClearSelectionAfterPayment)
	if legal {
		c.transitionLocked(EventBook)
	}
	c.mu.Unlock()

	if selected == nil {
		return c.finish(func() { c.message = "Please select a flight first" })
	}
	if !legal {
		return c.finish(func() { c.message = "Booking is not available right now" })
	}

	hold, err := c.holds.CreateHold(ctx, *selected, seatCount)

	return c.finish(func() {
		if err != nil {
			c.transitionLocked(EventHoldFailed)
			c.message = fmt.Sprintf("Booking failed: %v", err)
			return
		}
		c.transitionLocked(EventHoldCreated)
		c.message = fmt.Sprintf("Hold created. PNR %s, pay to confirm before %s.",
			hold.PNR, hold.ExpiresAt.Format("15:04"))
	})
}

// ConfirmPayment resolves the active hold with the given outcome. With no
// active hold it is a no-op reported as a message, and no network call is
// made. A failed confirmation call keeps the hold for manual retry.
func (c *Controller) ConfirmPayment(ctx context.Context, success bool) Snapshot {
	c.begin()

	result, err := c.holds.ResolveHold(ctx, success)

	return c.finish(func() {
		if err != nil {
			if errors.Is(err, booking.ErrNoActiveHold) {
				c.message = "No booking to confirm"
				return
			}
			c.transitionLocked(EventConfirmFailed)
			c.message = fmt.Sprintf("Payment confirm failed: %v", err)
			return
		}

		if success {
			c.transitionLocked(EventConfirmOK)
			c.message = "Payment successful. Booking confirmed."
			c.lastResult = result
			c.note = &Notification{
				BookingID: result.BookingID,
				PNR:       result.PNR,
				ExpiresAt: c.now().Add(c.policy.NotificationTTL),
			}
		} else {
			c.transitionLocked(EventCancelOK)
			c.message = "Payment failed. Booking cancelled."
		}

		c.transitionLocked(EventSettle)
		if c.policy.ClearSelectionAfterPayment {
			c.selected = nil
			c.seatCount = 1
			c.catalog.ClearSeatMap()
		}
	})
}

// TicketBookingID names the booking a ticket can be retrieved for: the active
// hold's, or the last confirmed one.
func (c *Controller) TicketBookingID() (int64, error) {
	if hold := c.holds.Active(); hold != nil {
		return hold.BookingID, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastResult != nil {
		return c.lastResult.BookingID, nil
	}
	return 0, booking.ErrNoActiveHold
}

// Snapshot returns the current session view without running any action.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) begin() {
	c.mu.Lock()
	c.busy = true
	c.message = ""
	c.mu.Unlock()
}

// finish applies the action's state changes, clears the busy flag, and hands
// the fresh snapshot to the change listener.
func (c *Controller) finish(apply func()) Snapshot {
	c.mu.Lock()
	if apply != nil {
		apply()
	}
	c.busy = false
	snap := c.snapshotLocked()
	fn := c.onChange
	c.mu.Unlock()

	if fn != nil {
		fn(snap)
	}
	return snap
}

func (c *Controller) transitionLocked(e Event) {
	next, ok := Next(c.state, e, c.policy.ClearSelectionAfterPayment)
	if !ok {
		log.Error().
			Str("state", string(c.state)).
			Str("event", string(e)).
			Msg("illegal session transition ignored")
		return
	}
	c.state = next
}

func (c *Controller) snapshotLocked() Snapshot {
	if c.note != nil && c.now().After(c.note.ExpiresAt) {
		c.note = nil
	}

	seats, _ := c.catalog.SeatMap()
	snap := Snapshot{
		State:     c.state,
		Busy:      c.busy,
		Message:   c.message,
		Flights:   c.catalog.Flights(),
		SeatCount: c.seatCount,
		SeatMap:   seats,
		Hold:      c.holds.Active(),
	}
	if c.selected != nil {
		f := *c.selected
		snap.SelectedFlight = &f
	}
	if c.note != nil {
		n := *c.note
		snap.Notification = &n
	}
	return snap
}
