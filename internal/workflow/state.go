package workflow

// State is the position of a booking session in its lifecycle.
type State string

const (
	StateBrowsing       State = "browsing"
	StateFlightSelected State = "flight_selected"
	StateHoldPending    State = "hold_pending"
	StateHoldActive     State = "hold_active"
	StateConfirmed      State = "confirmed"
	StateCancelled      State = "cancelled"
)

// Event is a session transition trigger: either a user intent or the outcome
// of the remote call an intent started.
type Event string

const (
	EventSelectFlight  Event = "select_flight"
	EventSetSeatCount  Event = "set_seat_count"
	EventBook          Event = "book"
	EventHoldCreated   Event = "hold_created"
	EventHoldFailed    Event = "hold_failed"
	EventConfirmOK     Event = "confirm_accepted"
	EventCancelOK      Event = "cancel_accepted"
	EventConfirmFailed Event = "confirm_failed"
	EventSettle        Event = "settle"
	EventRefresh       Event = "refresh"
)

// Next is the pure transition function of the session state machine. It
// reports the target state and whether the event is legal in the given state;
// it performs no effects. clearSelection picks the rest state after a
// resolved payment: true settles back to browsing, false keeps the flight
// selected.
//
// Selecting a flight while a hold is active is legal and abandons the hold
// client-side; only an in-flight hold request blocks reselection.
func Next(s State, e Event, clearSelection bool) (State, bool) {
	switch e {
	case EventRefresh:
		return s, true

	case EventSelectFlight:
		if s == StateHoldPending {
			return s, false
		}
		return StateFlightSelected, true

	case EventSetSeatCount:
		return s, s == StateFlightSelected

	case EventBook:
		if s != StateFlightSelected {
			return s, false
		}
		return StateHoldPending, true

	case EventHoldCreated:
		if s != StateHoldPending {
			return s, false
		}
		return StateHoldActive, true

	case EventHoldFailed:
		if s != StateHoldPending {
			return s, false
		}
		return StateFlightSelected, true

	case EventConfirmOK:
		if s != StateHoldActive {
			return s, false
		}
		return StateConfirmed, true

	case EventCancelOK:
		if s != StateHoldActive {
			return s, false
		}
		return StateCancelled, true

	case EventConfirmFailed:
		// The hold survives a failed confirmation call for manual retry.
		return s, s == StateHoldActive

	case EventSettle:
		if s != StateConfirmed && s != StateCancelled {
			return s, false
		}
		if clearSelection {
			return StateBrowsing, true
		}
		return StateFlightSelected, true
	}

	return s, false
}
