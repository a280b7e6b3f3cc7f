package service

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/skypass/booking-orchestrator/internal/booking"
	"github.com/skypass/booking-orchestrator/internal/catalog"
	"github.com/skypass/booking-orchestrator/internal/inventory"
	"github.com/skypass/booking-orchestrator/internal/workflow"
)

// ErrSessionNotFound is returned for unknown session ids.
var ErrSessionNotFound = errors.New("session not found")

// SessionView is a session snapshot tagged with the session's id.
type SessionView struct {
	SessionID uuid.UUID `json:"sessionId"`
	workflow.Snapshot
}

// Broadcaster pushes session views to whoever is watching, typically the
// WebSocket hub.
type Broadcaster interface {
	BroadcastSession(sessionID uuid.UUID, view SessionView)
}

// BookingService defines the session-facing surface of the orchestrator.
// Every intent returns the fresh view for the presentation layer to render.
type BookingService interface {
	CreateSession(ctx context.Context) (*SessionView, error)
	GetSession(ctx context.Context, id uuid.UUID) (*SessionView, error)
	Refresh(ctx context.Context, id uuid.UUID) (*SessionView, error)
	Search(ctx context.Context, id uuid.UUID, origin, destination, date string) (*SessionView, error)
	SelectFlight(ctx context.Context, id uuid.UUID, flightID int64) (*SessionView, error)
	SetSeatCount(ctx context.Context, id uuid.UUID, count int) (*SessionView, error)
	Book(ctx context.Context, id uuid.UUID) (*SessionView, error)
	ConfirmPayment(ctx context.Context, id uuid.UUID, success bool) (*SessionView, error)
	TicketURL(ctx context.Context, id uuid.UUID) (string, error)
}

type session struct {
	controller *workflow.Controller
}

// bookingServiceImpl implements BookingService with an in-memory session
// registry. Each session owns its own catalog cache, hold manager, and
// workflow controller; nothing is persisted beyond the process.
type bookingServiceImpl struct {
	mu       sync.RWMutex
	inv      *inventory.Client
	policy   workflow.Policy
	hub      Broadcaster
	sessions map[uuid.UUID]*session
}

// NewBookingService creates a BookingService backed by the given inventory
// client. hub may be nil when no push channel is wanted.
func NewBookingService(inv *inventory.Client, policy workflow.Policy, hub Broadcaster) BookingService {
	return &bookingServiceImpl{
		inv:      inv,
		policy:   policy,
		hub:      hub,
		sessions: make(map[uuid.UUID]*session),
	}
}

// CreateSession registers a new browsing session and primes its flight list,
// the way the original client loads the listing on startup.
func (s *bookingServiceImpl) CreateSession(ctx context.Context) (*SessionView, error) {
	id := uuid.New()

	cache := catalog.NewCache(s.inv)
	holds := booking.NewManager(s.inv, cache)
	controller := workflow.NewController(cache, holds, s.policy)

	if s.hub != nil {
		hub := s.hub
		controller.SetOnChange(func(snap workflow.Snapshot) {
			hub.BroadcastSession(id, SessionView{SessionID: id, Snapshot: snap})
		})
	}

	s.mu.Lock()
	s.sessions[id] = &session{controller: controller}
	s.mu.Unlock()

	log.Info().Str("session_id", id.String()).Msg("session created")

	snap := controller.Refresh(ctx)
	return &SessionView{SessionID: id, Snapshot: snap}, nil
}

func (s *bookingServiceImpl) GetSession(ctx context.Context, id uuid.UUID) (*SessionView, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	return &SessionView{SessionID: id, Snapshot: sess.controller.Snapshot()}, nil
}

func (s *bookingServiceImpl) Refresh(ctx context.Context, id uuid.UUID) (*SessionView, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	return &SessionView{SessionID: id, Snapshot: sess.controller.Refresh(ctx)}, nil
}

func (s *bookingServiceImpl) Search(ctx context.Context, id uuid.UUID, origin, destination, date string) (*SessionView, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	return &SessionView{SessionID: id, Snapshot: sess.controller.SearchFlights(ctx, origin, destination, date)}, nil
}

func (s *bookingServiceImpl) SelectFlight(ctx context.Context, id uuid.UUID, flightID int64) (*SessionView, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	return &SessionView{SessionID: id, Snapshot: sess.controller.SelectFlight(ctx, flightID)}, nil
}

func (s *bookingServiceImpl) SetSeatCount(ctx context.Context, id uuid.UUID, count int) (*SessionView, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	return &SessionView{SessionID: id, Snapshot: sess.controller.SetSeatCount(count)}, nil
}

func (s *bookingServiceImpl) Book(ctx context.Context, id uuid.UUID) (*SessionView, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	return &SessionView{SessionID: id, Snapshot: sess.controller.Book(ctx)}, nil
}

func (s *bookingServiceImpl) ConfirmPayment(ctx context.Context, id uuid.UUID, success bool) (*SessionView, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	return &SessionView{SessionID: id, Snapshot: sess.controller.ConfirmPayment(ctx, success)}, nil
}

// TicketURL resolves the ticket address for the session's current or last
// confirmed booking. The gateway redirects to it; the download itself is
// fire-and-forget and never awaited here.
func (s *bookingServiceImpl) TicketURL(ctx context.Context, id uuid.UUID) (string, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return "", err
	}
	bookingID, err := sess.controller.TicketBookingID()
	if err != nil {
		return "", err
	}
	return s.inv.TicketURL(bookingID), nil
}

func (s *bookingServiceImpl) lookup(id uuid.UUID) (*session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}
