// Package repository holds the storage contracts of the service and their
// Postgres implementations.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Domenick1991/fastboat/internal/domain"
)

// ErrNotFound is returned when no row matches the lookup.
var ErrNotFound = errors.New("not found")

// ErrDuplicateBookingNumber signals a unique-constraint hit on the booking
// number; callers regenerate and retry.
var ErrDuplicateBookingNumber = errors.New("duplicate booking number")

// ErrNotPending is returned by conditional payment updates that matched no
// pending row.
var ErrNotPending = errors.New("booking is not pending")

// ErrConflict is returned when a delete is blocked by bookings that still
// reference the row.
var ErrConflict = errors.New("conflict")

type TicketRepository interface {
	ListActive(ctx context.Context) ([]domain.Ticket, error)
	GetActive(ctx context.Context, id int64) (*domain.Ticket, error)
	GetByID(ctx context.Context, id int64) (*domain.Ticket, error)
	List(ctx context.Context, limit int) ([]domain.TicketSummary, error)
	CountActive(ctx context.Context) (int, error)
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	Delete(ctx context.Context, id int64) error
}

type PackageRepository interface {
	ListActive(ctx context.Context) ([]domain.TourPackage, error)
	GetActive(ctx context.Context, id int64) (*domain.TourPackage, error)
	GetByID(ctx context.Context, id int64) (*domain.TourPackage, error)
	List(ctx context.Context, limit int) ([]domain.TourPackage, error)
	CountActive(ctx context.Context) (int, error)
	Create(ctx context.Context, pkg *domain.TourPackage) error
	Update(ctx context.Context, pkg *domain.TourPackage) error
}

type BookingRepository interface {
	// Create inserts a pending booking. A clash on the booking number
	// yields ErrDuplicateBookingNumber.
	Create(ctx context.Context, booking *domain.Booking) error
	GetByNumber(ctx context.Context, number string) (*domain.Booking, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	// MarkPaid moves a pending booking to paid in a single conditional
	// update; ErrNotPending when no pending row matched.
	MarkPaid(ctx context.Context, number, reference string, paidAt time.Time) (*domain.Booking, error)
	Cancel(ctx context.Context, number string) (*domain.Booking, error)
	ListByBookable(ctx context.Context, ref domain.BookableRef, limit int) ([]domain.Booking, error)
	Recent(ctx context.Context, limit int) ([]domain.Booking, error)
	Stats(ctx context.Context) (domain.BookingStats, error)
}
