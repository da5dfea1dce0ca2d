package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracklite/ticketd/internal/api/dto"
	"github.com/tracklite/ticketd/internal/domain"
	"github.com/tracklite/ticketd/internal/events"
)

// stubTicketRepo is an in-memory TicketRepository double.
type stubTicketRepo struct {
	tickets []domain.Ticket
	err     error
}

func (s *stubTicketRepo) Create(_ context.Context, req dto.CreateTicketRequest) (*domain.Ticket, error) {
	if s.err != nil {
		return nil, s.err
	}
	ticket := domain.Ticket{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	s.tickets = append(s.tickets, ticket)
	return &ticket, nil
}

func (s *stubTicketRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Ticket, error) {
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.tickets {
		if s.tickets[i].ID == id {
			return &s.tickets[i], nil
		}
	}
	return nil, nil
}

func (s *stubTicketRepo) List(_ context.Context) ([]domain.Ticket, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.tickets, nil
}

func (s *stubTicketRepo) Update(_ context.Context, id uuid.UUID, req dto.UpdateTicketRequest) (*domain.Ticket, error) {
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.tickets {
		if s.tickets[i].ID != id {
			continue
		}
		if req.Title != nil {
			s.tickets[i].Title = *req.Title
		}
		if req.Description != nil {
			s.tickets[i].Description = *req.Description
		}
		if req.Status != nil {
			s.tickets[i].Status = *req.Status
		}
		s.tickets[i].UpdatedAt = time.Now()
		return &s.tickets[i], nil
	}
	return nil, nil
}

func (s *stubTicketRepo) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	for i := range s.tickets {
		if s.tickets[i].ID == id {
			s.tickets = append(s.tickets[:i], s.tickets[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func newTestService(repo *stubTicketRepo, dispatcher events.Dispatcher) *TicketService {
	return NewTicketService(TicketDependencies{
		TicketRepo: repo,
		Dispatcher: dispatcher,
		Clock:      time.Now,
	})
}

func seedTickets(repo *stubTicketRepo) {
	now := time.Now()
	repo.tickets = []domain.Ticket{
		{ID: uuid.New(), Title: "Fix bug", Description: "NPE on save", Status: "To Do", CreatedAt: now, UpdatedAt: now},
		{ID: uuid.New(), Title: "Write docs", Description: "Getting started guide", Status: "In Progress", CreatedAt: now, UpdatedAt: now},
		{ID: uuid.New(), Title: "Release", Description: "Cut v1.2", Status: "Done", CreatedAt: now, UpdatedAt: now},
	}
}

func TestTicketService_GetByStatus(t *testing.T) {
	tests := []struct {
		name       string
		status     string
		wantTitles []string
	}{
		{"exact match", "To Do", []string{"Fix bug"}},
		{"other status", "Done", []string{"Release"}},
		{"case sensitive", "to do", nil},
		{"unknown status", "Blocked", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &stubTicketRepo{}
			seedTickets(repo)
			svc := newTestService(repo, nil)

			views, err := svc.GetByStatus(context.Background(), tt.status)
			require.NoError(t, err)

			titles := make([]string, 0, len(views))
			for _, v := range views {
				titles = append(titles, v.Title)
			}
			if tt.wantTitles == nil {
				assert.Empty(t, titles)
			} else {
				assert.Equal(t, tt.wantTitles, titles)
			}
		})
	}
}

func TestTicketService_GetByTextSearch(t *testing.T) {
	tests := []struct {
		name       string
		term       string
		wantTitles []string
	}{
		{"matches title", "Fix", []string{"Fix bug"}},
		{"matches description", "NPE", []string{"Fix bug"}},
		{"substring across tickets", "i", []string{"Fix bug", "Write docs"}},
		{"case sensitive", "fix", nil},
		{"no match", "zzz", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &stubTicketRepo{}
			seedTickets(repo)
			svc := newTestService(repo, nil)

			views, err := svc.GetByTextSearch(context.Background(), tt.term)
			require.NoError(t, err)

			titles := make([]string, 0, len(views))
			for _, v := range views {
				titles = append(titles, v.Title)
			}
			if tt.wantTitles == nil {
				assert.Empty(t, titles)
			} else {
				assert.Equal(t, tt.wantTitles, titles)
			}
		})
	}
}

func TestTicketService_GetAll(t *testing.T) {
	repo := &stubTicketRepo{}
	seedTickets(repo)
	svc := newTestService(repo, nil)

	views, err := svc.GetAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, views, 3)
	// Views are derived, never raw entities.
	assert.Equal(t, "Status: To Do", views[0].StatusDisplay)
}

func TestTicketService_CreateAppliesView(t *testing.T) {
	repo := &stubTicketRepo{}
	svc := newTestService(repo, nil)

	view, err := svc.Create(context.Background(), dto.CreateTicketRequest{
		Title:       "Fix bug",
		Description: "NPE on save",
		Status:      "To Do",
	})
	require.NoError(t, err)
	require.NotNil(t, view)
	assert.Equal(t, 0, view.DaysOld)
	assert.Equal(t, "Normal", view.Priority)
	assert.Equal(t, "#red", view.StatusColor)
}

func TestTicketService_CreatePropagatesStorageError(t *testing.T) {
	repo := &stubTicketRepo{err: errors.New("connection refused")}
	svc := newTestService(repo, nil)

	view, err := svc.Create(context.Background(), dto.CreateTicketRequest{Title: "x", Description: "y", Status: "z"})
	require.Error(t, err)
	assert.Nil(t, view)
}

func TestTicketService_GetByIDAbsence(t *testing.T) {
	repo := &stubTicketRepo{}
	svc := newTestService(repo, nil)

	view, err := svc.GetByID(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, view)
}

func TestTicketService_UpdateAbsence(t *testing.T) {
	repo := &stubTicketRepo{}
	svc := newTestService(repo, nil)

	title := "new"
	view, err := svc.Update(context.Background(), uuid.New(), dto.UpdateTicketRequest{Title: &title})
	require.NoError(t, err)
	assert.Nil(t, view)
}

func TestTicketService_PartialUpdateLeavesOtherFields(t *testing.T) {
	repo := &stubTicketRepo{}
	seedTickets(repo)
	svc := newTestService(repo, nil)

	status := "Done"
	view, err := svc.Update(context.Background(), repo.tickets[0].ID, dto.UpdateTicketRequest{Status: &status})
	require.NoError(t, err)
	require.NotNil(t, view)

	assert.Equal(t, "Fix bug", view.Title)
	assert.Equal(t, "Status: Done", view.StatusDisplay)
	assert.Equal(t, "NPE on save", repo.tickets[0].Description)
}

func TestTicketService_Delete(t *testing.T) {
	repo := &stubTicketRepo{}
	seedTickets(repo)
	svc := newTestService(repo, nil)
	id := repo.tickets[0].ID

	removed, err := svc.Delete(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = svc.Delete(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestTicketService_PublishesLifecycleEvents(t *testing.T) {
	repo := &stubTicketRepo{}
	dispatcher := events.NewInMemoryDispatcher()

	var seen []events.EventType
	record := func(_ context.Context, e events.Event) error {
		seen = append(seen, e.Type)
		return nil
	}
	dispatcher.Subscribe(events.EventTicketCreated, record)
	dispatcher.Subscribe(events.EventTicketUpdated, record)
	dispatcher.Subscribe(events.EventTicketDeleted, record)

	svc := newTestService(repo, dispatcher)
	ctx := context.Background()

	view, err := svc.Create(ctx, dto.CreateTicketRequest{Title: "a", Description: "b", Status: "c"})
	require.NoError(t, err)

	status := "Done"
	_, err = svc.Update(ctx, view.ID, dto.UpdateTicketRequest{Status: &status})
	require.NoError(t, err)

	_, err = svc.Delete(ctx, view.ID)
	require.NoError(t, err)

	assert.Equal(t, []events.EventType{
		events.EventTicketCreated,
		events.EventTicketUpdated,
		events.EventTicketDeleted,
	}, seen)
}

func TestTicketService_DeleteAbsentPublishesNothing(t *testing.T) {
	repo := &stubTicketRepo{}
	dispatcher := events.NewInMemoryDispatcher()

	var seen int
	dispatcher.Subscribe(events.EventTicketDeleted, func(context.Context, events.Event) error {
		seen++
		return nil
	})

	svc := newTestService(repo, dispatcher)
	removed, err := svc.Delete(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Zero(t, seen)
}
