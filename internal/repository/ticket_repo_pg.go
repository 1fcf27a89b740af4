package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/fastboat/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const ticketColumns = `id, name, description, departure_location, arrival_location, to_char(departure_time, 'HH24:MI'), price_cents, capacity, is_active, created_at, updated_at`

type PGTicketRepository struct {
	db *pgxpool.Pool
}

func NewTicketRepository(db *pgxpool.Pool) TicketRepository {
	return &PGTicketRepository{db: db}
}

func (r *PGTicketRepository) ListActive(ctx context.Context) ([]domain.Ticket, error) {
	rows, err := r.db.Query(ctx, `SELECT `+ticketColumns+` FROM fastboat_tickets WHERE is_active ORDER BY departure_time`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := make([]domain.Ticket, 0)
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, *t)
	}
	return tickets, rows.Err()
}

func (r *PGTicketRepository) GetActive(ctx context.Context, id int64) (*domain.Ticket, error) {
	t, err := scanTicket(r.db.QueryRow(ctx, `SELECT `+ticketColumns+` FROM fastboat_tickets WHERE id=$1 AND is_active`, id))
	return t, notFound(err)
}

func (r *PGTicketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	t, err := scanTicket(r.db.QueryRow(ctx, `SELECT `+ticketColumns+` FROM fastboat_tickets WHERE id=$1`, id))
	return t, notFound(err)
}

func (r *PGTicketRepository) List(ctx context.Context, limit int) ([]domain.TicketSummary, error) {
	rows, err := r.db.Query(ctx, `
		SELECT t.id, t.name, t.description, t.departure_location, t.arrival_location, to_char(t.departure_time, 'HH24:MI'),
		       t.price_cents, t.capacity, t.is_active, t.created_at, t.updated_at, COUNT(b.id)
		FROM fastboat_tickets t
		LEFT JOIN bookings b ON b.bookable_type = 'ticket' AND b.bookable_id = t.id
		GROUP BY t.id
		ORDER BY t.created_at DESC, t.id DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make([]domain.TicketSummary, 0)
	for rows.Next() {
		var s domain.TicketSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.DepartureLocation, &s.ArrivalLocation, &s.DepartureTime,
			&s.PriceCents, &s.Capacity, &s.Active, &s.CreatedAt, &s.UpdatedAt, &s.BookingsCount); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

func (r *PGTicketRepository) CountActive(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM fastboat_tickets WHERE is_active`).Scan(&n)
	return n, err
}

func (r *PGTicketRepository) Create(ctx context.Context, t *domain.Ticket) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO fastboat_tickets (name, description, departure_location, arrival_location, departure_time, price_cents, capacity, is_active)
		VALUES ($1, $2, $3, $4, $5::time, $6, $7, $8)
		RETURNING id, created_at, updated_at`,
		t.Name, t.Description, t.DepartureLocation, t.ArrivalLocation, t.DepartureTime, t.PriceCents, t.Capacity, t.Active).
		Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

func (r *PGTicketRepository) Update(ctx context.Context, t *domain.Ticket) error {
	err := r.db.QueryRow(ctx, `
		UPDATE fastboat_tickets
		SET name=$2, description=$3, departure_location=$4, arrival_location=$5, departure_time=$6::time,
		    price_cents=$7, capacity=$8, is_active=$9, updated_at=now()
		WHERE id=$1
		RETURNING created_at, updated_at`,
		t.ID, t.Name, t.Description, t.DepartureLocation, t.ArrivalLocation, t.DepartureTime, t.PriceCents, t.Capacity, t.Active).
		Scan(&t.CreatedAt, &t.UpdatedAt)
	return notFound(err)
}

func (r *PGTicketRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `
		DELETE FROM fastboat_tickets
		WHERE id = $1
		AND NOT EXISTS (SELECT 1 FROM bookings WHERE bookable_type = 'ticket' AND bookable_id = $1)`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM fastboat_tickets WHERE id=$1)`, id).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("ticket %d has bookings: %w", id, ErrConflict)
	}
	return ErrNotFound
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTicket(row rowScanner) (*domain.Ticket, error) {
	var t domain.Ticket
	if err := row.Scan(&t.ID, &t.Name, &t.Description, &t.DepartureLocation, &t.ArrivalLocation, &t.DepartureTime,
		&t.PriceCents, &t.Capacity, &t.Active, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

var _ TicketRepository = (*PGTicketRepository)(nil)
