package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/skypass/booking-orchestrator/internal/model"
)

// FetchError is a flight listing or search failure: the service was
// unreachable, returned a non-2xx status, or sent an undecodable body. The
// previously cached list survives it.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string { return fmt.Sprintf("flight fetch failed: %v", e.Err) }
func (e *FetchError) Unwrap() error { return e.Err }

// SeatMapError is a seat map fetch failure. It is non-fatal to the rest of
// the workflow; the seat map is simply left empty.
type SeatMapError struct {
	FlightID int64
	Err      error
}

func (e *SeatMapError) Error() string {
	return fmt.Sprintf("seat map fetch failed for flight %d: %v", e.FlightID, e.Err)
}
func (e *SeatMapError) Unwrap() error { return e.Err }

// Lister is the slice of the inventory client the cache consumes.
type Lister interface {
	ListFlights(ctx context.Context) ([]model.Flight, error)
	SearchFlights(ctx context.Context, origin, destination, date string) ([]model.Flight, error)
	SeatMap(ctx context.Context, flightID int64) ([]model.Seat, error)
}

// Cache holds the most recently fetched flight list and, for one flight, its
// seat map. It never mutates hold state. All methods are safe for concurrent
// use; replacement is last-write-wins.
type Cache struct {
	mu     sync.RWMutex
	client Lister

	flights       []model.Flight
	seatMap       []model.Seat
	seatMapFlight int64
}

func NewCache(client Lister) *Cache {
	return &Cache{client: client}
}

// LoadAll fetches the full flight listing and replaces the in-memory list.
// On failure the prior list is left untouched.
func (c *Cache) LoadAll(ctx context.Context) error {
	flights, err := c.client.ListFlights(ctx)
	if err != nil {
		return &FetchError{Err: err}
	}

	c.mu.Lock()
	c.flights = flights
	c.mu.Unlock()

	log.Debug().Int("flights", len(flights)).Msg("flight list refreshed")
	return nil
}

// Search runs a parameterized flight query and replaces the in-memory list
// with the result, which may be empty. On failure the prior list is left
// untouched.
func (c *Cache) Search(ctx context.Context, origin, destination, date string) error {
	flights, err := c.client.SearchFlights(ctx, origin, destination, date)
	if err != nil {
		return &FetchError{Err: err}
	}

	c.mu.Lock()
	c.flights = flights
	c.mu.Unlock()

	log.Debug().
		Str("origin", origin).
		Str("destination", destination).
		Str("date", date).
		Int("flights", len(flights)).
		Msg("flight search completed")
	return nil
}

// LoadSeatMap fetches the seat map for one flight. The cached map is cleared
// before the fetch so stale seats are never shown while it is in flight; on
// failure the map stays empty.
func (c *Cache) LoadSeatMap(ctx context.Context, flightID int64) error {
	c.mu.Lock()
	c.seatMap = nil
	c.seatMapFlight = flightID
	c.mu.Unlock()

	seats, err := c.client.SeatMap(ctx, flightID)
	if err != nil {
		return &SeatMapError{FlightID: flightID, Err: err}
	}

	c.mu.Lock()
	// Another load may have switched flights while this fetch was in the air.
	if c.seatMapFlight == flightID {
		c.seatMap = seats
	}
	c.mu.Unlock()
	return nil
}

// ClearSeatMap drops the cached seat map, e.g. when the selection is cleared.
func (c *Cache) ClearSeatMap() {
	c.mu.Lock()
	c.seatMap = nil
	c.seatMapFlight = 0
	c.mu.Unlock()
}

// Flights returns the cached flight list.
func (c *Cache) Flights() []model.Flight {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.flights
}

// Flight looks a flight up in the cached list by id.
func (c *Cache) Flight(id int64) (model.Flight, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, f := range c.flights {
		if f.ID == id {
			return f, true
		}
	}
	return model.Flight{}, false
}

// SeatMap returns the cached seat map and the flight it belongs to.
func (c *Cache) SeatMap() ([]model.Seat, int64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.seatMap, c.seatMapFlight
}
