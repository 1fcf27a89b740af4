package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/fastboat/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	bookingColumns = `id, booking_number, customer_name, customer_email, customer_phone, quantity, booking_date,
		bookable_type, bookable_id, total_cents, payment_method, payment_status, COALESCE(payment_reference, ''),
		paid_at, COALESCE(eticket_path, ''), created_at, updated_at`

	uniqueViolation         = "23505"
	bookingNumberConstraint = "bookings_booking_number_key"
)

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

func (r *PGBookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO bookings (booking_number, customer_name, customer_email, customer_phone, quantity, booking_date,
			bookable_type, bookable_id, total_cents, payment_method, payment_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`,
		b.Number, b.CustomerName, b.CustomerEmail, b.CustomerPhone, b.Quantity, b.ServiceDate,
		b.Bookable.Type, b.Bookable.ID, b.TotalCents, b.PaymentMethod, b.PaymentStatus).
		Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == bookingNumberConstraint {
			return fmt.Errorf("insert booking %s: %w", b.Number, ErrDuplicateBookingNumber)
		}
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

func (r *PGBookingRepository) GetByNumber(ctx context.Context, number string) (*domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE booking_number=$1`, number))
	return b, notFound(err)
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id))
	return b, notFound(err)
}

func (r *PGBookingRepository) MarkPaid(ctx context.Context, number, reference string, paidAt time.Time) (*domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRow(ctx, `
		UPDATE bookings
		SET payment_status=$2, paid_at=$3, payment_reference=$4, updated_at=now()
		WHERE booking_number=$1 AND payment_status=$5
		RETURNING `+bookingColumns,
		number, domain.PaymentStatusPaid, paidAt, reference, domain.PaymentStatusPending))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotPending
	}
	return b, err
}

func (r *PGBookingRepository) Cancel(ctx context.Context, number string) (*domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRow(ctx, `
		UPDATE bookings
		SET payment_status=$2, updated_at=now()
		WHERE booking_number=$1 AND payment_status=$3
		RETURNING `+bookingColumns,
		number, domain.PaymentStatusCancelled, domain.PaymentStatusPending))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotPending
	}
	return b, err
}

func (r *PGBookingRepository) ListByBookable(ctx context.Context, ref domain.BookableRef, limit int) ([]domain.Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE bookable_type=$1 AND bookable_id=$2 ORDER BY created_at DESC, id DESC LIMIT $3`,
		ref.Type, ref.ID, limit)
}

func (r *PGBookingRepository) Recent(ctx context.Context, limit int) ([]domain.Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings ORDER BY created_at DESC, id DESC LIMIT $1`, limit)
}

func (r *PGBookingRepository) list(ctx context.Context, query string, args ...any) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func (r *PGBookingRepository) Stats(ctx context.Context) (domain.BookingStats, error) {
	var s domain.BookingStats
	err := r.db.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE bookable_type = 'ticket'),
			COUNT(*) FILTER (WHERE bookable_type = 'package'),
			COALESCE(SUM(total_cents) FILTER (WHERE payment_status = 'paid'), 0)::bigint,
			COUNT(*) FILTER (WHERE payment_status = 'pending')
		FROM bookings`).
		Scan(&s.TicketBookings, &s.PackageBookings, &s.RevenueCents, &s.PendingBookings)
	return s, err
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.Number, &b.CustomerName, &b.CustomerEmail, &b.CustomerPhone, &b.Quantity, &b.ServiceDate,
		&b.Bookable.Type, &b.Bookable.ID, &b.TotalCents, &b.PaymentMethod, &b.PaymentStatus, &b.PaymentReference,
		&b.PaidAt, &b.ETicketPath, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)
