package service

import (
	"time"

	"github.com/tracklite/ticketd/internal/api/dto"
	"github.com/tracklite/ticketd/internal/domain"
)

const (
	priorityNormal = "Normal"
	priorityHigh   = "High"

	colorRed    = "#red"
	colorYellow = "#yellow"
	colorGreen  = "#green"

	// Tickets older than this many whole days are flagged High.
	highPriorityAgeDays = 7
)

// NewTicketView derives the client-facing view from a stored ticket. It is
// pure: the current time is passed in so day counts are deterministic.
func NewTicketView(ticket domain.Ticket, now time.Time) dto.TicketView {
	daysOld := int(now.Sub(ticket.CreatedAt) / (24 * time.Hour))

	priority := priorityNormal
	if daysOld > highPriorityAgeDays {
		priority = priorityHigh
	}

	return dto.TicketView{
		ID:            ticket.ID,
		Title:         ticket.Title,
		StatusDisplay: "Status: " + ticket.Status,
		DaysOld:       daysOld,
		Priority:      priority,
		StatusColor:   statusColor(ticket.Status),
	}
}

// statusColor maps the two recognized statuses to their tags; anything else,
// including empty or custom workflow values, gets the green default.
func statusColor(status string) string {
	switch status {
	case domain.StatusToDo:
		return colorRed
	case domain.StatusInProgress:
		return colorYellow
	default:
		return colorGreen
	}
}
