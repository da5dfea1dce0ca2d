package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tracklite/ticketd/internal/api/dto"
	"github.com/tracklite/ticketd/internal/domain"
	"github.com/tracklite/ticketd/internal/events"
	"github.com/tracklite/ticketd/internal/repository"
)

// TicketService coordinates ticket workflows. Reads map stored tickets through
// the view transform; a nil view with a nil error means the ticket does not
// exist.
type TicketService struct {
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
	now        func() time.Time
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	Dispatcher events.Dispatcher
	Clock      func() time.Time
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	now := deps.Clock
	if now == nil {
		now = time.Now
	}
	return &TicketService{
		tickets:    deps.TicketRepo,
		dispatcher: deps.Dispatcher,
		now:        now,
	}
}

// Create persists a new ticket and returns its view.
func (s *TicketService) Create(ctx context.Context, req dto.CreateTicketRequest) (*dto.TicketView, error) {
	ticket, err := s.tickets.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Payload: events.TicketCreatedPayload{
			Title:  ticket.Title,
			Status: ticket.Status,
		},
	})
	view := NewTicketView(*ticket, s.now())
	return &view, nil
}

// GetByID returns the view for a single ticket, or nil when absent.
func (s *TicketService) GetByID(ctx context.Context, id uuid.UUID) (*dto.TicketView, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil || ticket == nil {
		return nil, err
	}
	view := NewTicketView(*ticket, s.now())
	return &view, nil
}

// GetAll returns views for every stored ticket.
func (s *TicketService) GetAll(ctx context.Context) ([]dto.TicketView, error) {
	tickets, err := s.tickets.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.viewAll(tickets, nil), nil
}

// GetByStatus returns views for tickets whose status exactly equals the given
// value. Case-sensitive, no normalization.
func (s *TicketService) GetByStatus(ctx context.Context, status string) ([]dto.TicketView, error) {
	tickets, err := s.tickets.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.viewAll(tickets, func(t domain.Ticket) bool {
		return t.Status == status
	}), nil
}

// GetByTextSearch returns views for tickets whose title or description
// contains the term as a case-sensitive substring. Scans every stored ticket;
// a known ceiling at this scope.
func (s *TicketService) GetByTextSearch(ctx context.Context, term string) ([]dto.TicketView, error) {
	tickets, err := s.tickets.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.viewAll(tickets, func(t domain.Ticket) bool {
		return strings.Contains(t.Title, term) || strings.Contains(t.Description, term)
	}), nil
}

// Update applies a partial update and returns the refreshed view, or nil when
// no ticket matches the identifier.
func (s *TicketService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateTicketRequest) (*dto.TicketView, error) {
	ticket, err := s.tickets.Update(ctx, id, req)
	if err != nil || ticket == nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketUpdated,
		TicketID: ticket.ID,
		Payload: events.TicketUpdatedPayload{
			Title:       req.Title,
			Description: req.Description,
			Status:      req.Status,
		},
	})
	view := NewTicketView(*ticket, s.now())
	return &view, nil
}

// Delete removes a ticket and reports whether a row was actually removed.
func (s *TicketService) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	removed, err := s.tickets.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if removed {
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketDeleted,
			TicketID: id,
		})
	}
	return removed, nil
}

func (s *TicketService) viewAll(tickets []domain.Ticket, keep func(domain.Ticket) bool) []dto.TicketView {
	now := s.now()
	views := make([]dto.TicketView, 0, len(tickets))
	for _, ticket := range tickets {
		if keep != nil && !keep(ticket) {
			continue
		}
		views = append(views, NewTicketView(ticket, now))
	}
	return views
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
