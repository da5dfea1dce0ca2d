package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/tracklite/ticketd/internal/api/dto"
	"github.com/tracklite/ticketd/internal/service"
	apperrors "github.com/tracklite/ticketd/pkg/errorutil"
)

// TicketsHandler manages ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Title == "" || req.Description == "" || req.Status == "" {
		return apperrors.NewValidationError("title, description, status required", nil)
	}

	view, err := h.service.Create(c.UserContext(), req)
	if err != nil {
		return apperrors.NewBadRequest("TICKET_CREATE_FAILED", err)
	}
	return c.Status(fiber.StatusCreated).JSON(view)
}

// ListTickets GET /tickets. A request may search (q) or filter (status), never
// both.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	queries := c.Queries()
	q, hasQ := queries["q"]
	status, hasStatus := queries["status"]

	if hasQ && hasStatus {
		return apperrors.NewValidationError("cannot filter and search at the same time", nil)
	}

	var (
		views []dto.TicketView
		err   error
	)
	switch {
	case hasQ:
		views, err = h.service.GetByTextSearch(c.UserContext(), q)
	case hasStatus:
		views, err = h.service.GetByStatus(c.UserContext(), status)
	default:
		views, err = h.service.GetAll(c.UserContext())
	}
	if err != nil {
		return apperrors.NewStorageError(err)
	}
	return c.JSON(views)
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	id, err := parseTicketID(c)
	if err != nil {
		return err
	}
	view, err := h.service.GetByID(c.UserContext(), id)
	if err != nil {
		return apperrors.NewStorageError(err)
	}
	if view == nil {
		return apperrors.NewNotFound("ticket", map[string]any{"id": id.String()})
	}
	return c.JSON(view)
}

// UpdateTicket PUT /tickets/:id.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	id, err := parseTicketID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	view, err := h.service.Update(c.UserContext(), id, req)
	if err != nil {
		return apperrors.NewStorageError(err)
	}
	if view == nil {
		return apperrors.NewNotFound("ticket", map[string]any{"id": id.String()})
	}
	return c.JSON(view)
}

// DeleteTicket DELETE /tickets/:id.
func (h *TicketsHandler) DeleteTicket(c *fiber.Ctx) error {
	id, err := parseTicketID(c)
	if err != nil {
		return err
	}
	removed, err := h.service.Delete(c.UserContext(), id)
	if err != nil {
		return apperrors.NewStorageError(err)
	}
	if !removed {
		return apperrors.NewNotFound("ticket", map[string]any{"id": id.String()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func parseTicketID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, apperrors.NewValidationError("invalid ticket id", nil)
	}
	return id, nil
}
