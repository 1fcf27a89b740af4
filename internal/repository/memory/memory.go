// Package memory keeps the catalog and bookings in process memory. It
// mirrors the Postgres constraints the services rely on: unique booking
// numbers and conditional status updates.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Domenick1991/fastboat/internal/domain"
	"github.com/Domenick1991/fastboat/internal/repository"
)

type Store struct {
	mu sync.RWMutex

	now func() time.Time

	lastTicketID  int64
	lastPackageID int64
	lastBookingID int64

	tickets  map[int64]domain.Ticket
	packages map[int64]domain.TourPackage
	bookings map[int64]domain.Booking
	numbers  map[string]int64
}

func New() *Store {
	return &Store{
		now:      time.Now,
		tickets:  make(map[int64]domain.Ticket),
		packages: make(map[int64]domain.TourPackage),
		bookings: make(map[int64]domain.Booking),
		numbers:  make(map[string]int64),
	}
}

func (s *Store) Tickets() repository.TicketRepository   { return &ticketRepo{s} }
func (s *Store) Packages() repository.PackageRepository { return &packageRepo{s} }
func (s *Store) Bookings() repository.BookingRepository { return &bookingRepo{s} }

type ticketRepo struct{ s *Store }

func (r *ticketRepo) ListActive(_ context.Context) ([]domain.Ticket, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]domain.Ticket, 0)
	for _, t := range r.s.tickets {
		if t.Active {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DepartureTime == out[j].DepartureTime {
			return out[i].ID < out[j].ID
		}
		return out[i].DepartureTime < out[j].DepartureTime
	})
	return out, nil
}

func (r *ticketRepo) GetActive(ctx context.Context, id int64) (*domain.Ticket, error) {
	t, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !t.Active {
		return nil, repository.ErrNotFound
	}
	return t, nil
}

func (r *ticketRepo) GetByID(_ context.Context, id int64) (*domain.Ticket, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.tickets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (r *ticketRepo) List(_ context.Context, limit int) ([]domain.TicketSummary, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]domain.TicketSummary, 0, len(r.s.tickets))
	for _, t := range r.s.tickets {
		out = append(out, domain.TicketSummary{
			Ticket:        t,
			BookingsCount: r.s.countBookingsLocked(t.Ref()),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return truncate(out, limit), nil
}

func (r *ticketRepo) CountActive(_ context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n := 0
	for _, t := range r.s.tickets {
		if t.Active {
			n++
		}
	}
	return n, nil
}

func (r *ticketRepo) Create(_ context.Context, t *domain.Ticket) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.lastTicketID++
	now := r.s.now()
	t.ID, t.CreatedAt, t.UpdatedAt = r.s.lastTicketID, now, now
	r.s.tickets[t.ID] = *t
	return nil
}

func (r *ticketRepo) Update(_ context.Context, t *domain.Ticket) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.tickets[t.ID]
	if !ok {
		return repository.ErrNotFound
	}
	t.CreatedAt, t.UpdatedAt = existing.CreatedAt, r.s.now()
	r.s.tickets[t.ID] = *t
	return nil
}

func (r *ticketRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.tickets[id]
	if !ok {
		return repository.ErrNotFound
	}
	if r.s.countBookingsLocked(t.Ref()) > 0 {
		return fmt.Errorf("ticket %d has bookings: %w", id, repository.ErrConflict)
	}
	delete(r.s.tickets, id)
	return nil
}

type packageRepo struct{ s *Store }

func (r *packageRepo) ListActive(_ context.Context) ([]domain.TourPackage, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]domain.TourPackage, 0)
	for _, p := range r.s.packages {
		if p.Active {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *packageRepo) GetActive(ctx context.Context, id int64) (*domain.TourPackage, error) {
	p, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.Active {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

func (r *packageRepo) GetByID(_ context.Context, id int64) (*domain.TourPackage, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.packages[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r *packageRepo) List(_ context.Context, limit int) ([]domain.TourPackage, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]domain.TourPackage, 0, len(r.s.packages))
	for _, p := range r.s.packages {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return truncate(out, limit), nil
}

func (r *packageRepo) CountActive(_ context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n := 0
	for _, p := range r.s.packages {
		if p.Active {
			n++
		}
	}
	return n, nil
}

func (r *packageRepo) Create(_ context.Context, p *domain.TourPackage) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.lastPackageID++
	now := r.s.now()
	p.ID, p.CreatedAt, p.UpdatedAt = r.s.lastPackageID, now, now
	r.s.packages[p.ID] = *p
	return nil
}

func (r *packageRepo) Update(_ context.Context, p *domain.TourPackage) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.packages[p.ID]
	if !ok {
		return repository.ErrNotFound
	}
	p.CreatedAt, p.UpdatedAt = existing.CreatedAt, r.s.now()
	r.s.packages[p.ID] = *p
	return nil
}

type bookingRepo struct{ s *Store }

func (r *bookingRepo) Create(_ context.Context, b *domain.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, taken := r.s.numbers[b.Number]; taken {
		return fmt.Errorf("insert booking %s: %w", b.Number, repository.ErrDuplicateBookingNumber)
	}

	r.s.lastBookingID++
	now := r.s.now()
	b.ID, b.CreatedAt, b.UpdatedAt = r.s.lastBookingID, now, now
	r.s.bookings[b.ID] = copyBooking(*b)
	r.s.numbers[b.Number] = b.ID
	return nil
}

func (r *bookingRepo) GetByNumber(_ context.Context, number string) (*domain.Booking, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.numbers[number]
	if !ok {
		return nil, repository.ErrNotFound
	}
	b := copyBooking(r.s.bookings[id])
	return &b, nil
}

func (r *bookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	b, ok := r.s.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	b = copyBooking(b)
	return &b, nil
}

func (r *bookingRepo) MarkPaid(_ context.Context, number, reference string, paidAt time.Time) (*domain.Booking, error) {
	return r.transition(number, domain.PaymentStatusPaid, func(b *domain.Booking) {
		b.PaymentReference = reference
		b.PaidAt = &paidAt
	})
}

func (r *bookingRepo) Cancel(_ context.Context, number string) (*domain.Booking, error) {
	return r.transition(number, domain.PaymentStatusCancelled, nil)
}

// transition moves the booking to next when its current status allows it,
// then applies any extra changes.
func (r *bookingRepo) transition(number string, next domain.PaymentStatus, apply func(*domain.Booking)) (*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	id, ok := r.s.numbers[number]
	if !ok {
		return nil, repository.ErrNotPending
	}
	b := r.s.bookings[id]
	if !b.PaymentStatus.CanTransitionTo(next) {
		return nil, repository.ErrNotPending
	}
	b.PaymentStatus = next
	if apply != nil {
		apply(&b)
	}
	b.UpdatedAt = r.s.now()
	r.s.bookings[id] = b

	out := copyBooking(b)
	return &out, nil
}

func (r *bookingRepo) ListByBookable(_ context.Context, ref domain.BookableRef, limit int) ([]domain.Booking, error) {
	return r.collect(limit, func(b domain.Booking) bool { return b.Bookable == ref }), nil
}

func (r *bookingRepo) Recent(_ context.Context, limit int) ([]domain.Booking, error) {
	return r.collect(limit, func(domain.Booking) bool { return true }), nil
}

func (r *bookingRepo) collect(limit int, keep func(domain.Booking) bool) []domain.Booking {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]domain.Booking, 0)
	for _, b := range r.s.bookings {
		if keep(b) {
			out = append(out, copyBooking(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return truncate(out, limit)
}

func (r *bookingRepo) Stats(_ context.Context) (domain.BookingStats, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var st domain.BookingStats
	for _, b := range r.s.bookings {
		switch b.Bookable.Type {
		case domain.BookableTicket:
			st.TicketBookings++
		case domain.BookablePackage:
			st.PackageBookings++
		}
		switch b.PaymentStatus {
		case domain.PaymentStatusPaid:
			st.RevenueCents += b.TotalCents
		case domain.PaymentStatusPending:
			st.PendingBookings++
		}
	}
	return st, nil
}

func (s *Store) countBookingsLocked(ref domain.BookableRef) int {
	n := 0
	for _, b := range s.bookings {
		if b.Bookable == ref {
			n++
		}
	}
	return n
}

func copyBooking(b domain.Booking) domain.Booking {
	if b.PaidAt != nil {
		paidAt := *b.PaidAt
		b.PaidAt = &paidAt
	}
	return b
}

func truncate[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

var (
	_ repository.TicketRepository  = (*ticketRepo)(nil)
	_ repository.PackageRepository = (*packageRepo)(nil)
	_ repository.BookingRepository = (*bookingRepo)(nil)
)
