package domain

import (
	"time"

	"github.com/google/uuid"
)

// Status values the view layer recognizes. Status itself is free-form text:
// tickets may carry any value, unrecognized ones fall through to the default
// color tag.
const (
	StatusToDo       = "To Do"
	StatusInProgress = "In Progress"
)

// Ticket is the persisted work item.
type Ticket struct {
	ID          uuid.UUID
	Title       string
	Description string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
