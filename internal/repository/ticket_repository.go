package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tracklite/ticketd/internal/api/dto"
	"github.com/tracklite/ticketd/internal/domain"
)

// Querier is the subset of pgxpool.Pool the repository needs. Narrowing to an
// interface lets tests substitute a mock pool.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TicketRepository encapsulates ticket persistence. Absence of a row is
// reported as a nil ticket with a nil error, never as an error.
type TicketRepository interface {
	Create(ctx context.Context, req dto.CreateTicketRequest) (*domain.Ticket, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Ticket, error)
	List(ctx context.Context) ([]domain.Ticket, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateTicketRequest) (*domain.Ticket, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type ticketRepository struct {
	db Querier
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(db Querier) TicketRepository {
	return &ticketRepository{db: db}
}

const ticketColumns = "id, title, description, status, created_at, updated_at"

func (r *ticketRepository) Create(ctx context.Context, req dto.CreateTicketRequest) (*domain.Ticket, error) {
	const query = `
        INSERT INTO tickets (title, description, status)
        VALUES ($1, $2, $3)
        RETURNING ` + ticketColumns
	ticket, err := r.scanOne(r.db.QueryRow(ctx, query, req.Title, req.Description, req.Status))
	if err != nil {
		return nil, fmt.Errorf("insert ticket: %w", err)
	}
	return ticket, nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Ticket, error) {
	const query = `
        SELECT ` + ticketColumns + `
        FROM tickets
        WHERE id = $1`
	ticket, err := r.scanOne(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select ticket: %w", err)
	}
	return ticket, nil
}

func (r *ticketRepository) List(ctx context.Context) ([]domain.Ticket, error) {
	const query = `
        SELECT ` + ticketColumns + `
        FROM tickets`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("select tickets: %w", err)
	}
	defer rows.Close()
	return scanTickets(rows)
}

// Update applies only the fields present in the request. A single COALESCE
// statement keeps concurrent updates to the same row from interleaving
// field-by-field.
func (r *ticketRepository) Update(ctx context.Context, id uuid.UUID, req dto.UpdateTicketRequest) (*domain.Ticket, error) {
	const query = `
        UPDATE tickets
        SET title = COALESCE($2, title),
            description = COALESCE($3, description),
            status = COALESCE($4, status),
            updated_at = NOW()
        WHERE id = $1
        RETURNING ` + ticketColumns
	ticket, err := r.scanOne(r.db.QueryRow(ctx, query, id, req.Title, req.Description, req.Status))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update ticket: %w", err)
	}
	return ticket, nil
}

func (r *ticketRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	const query = `
        DELETE FROM tickets
        WHERE id = $1`
	cmd, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("delete ticket: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *ticketRepository) scanOne(row pgx.Row) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := row.Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Status,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.Title,
			&ticket.Description,
			&ticket.Status,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
