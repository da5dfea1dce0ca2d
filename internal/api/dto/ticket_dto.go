package dto

import "github.com/google/uuid"

// CreateTicketRequest payload. All fields are required; the server applies no
// defaults.
type CreateTicketRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// UpdateTicketRequest payload. Absent fields leave the stored value unchanged.
type UpdateTicketRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

// TicketView is the derived representation returned to clients. The raw
// status, description and timestamps are intentionally not exposed.
type TicketView struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	StatusDisplay string    `json:"status_display"`
	DaysOld       int       `json:"days_old"`
	Priority      string    `json:"priority"`
	StatusColor   string    `json:"status_color"`
}
