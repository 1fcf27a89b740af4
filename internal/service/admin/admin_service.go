package admin

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/Domenick1991/fastboat/internal/domain"
	"github.com/Domenick1991/fastboat/internal/kafka"
	"github.com/Domenick1991/fastboat/internal/metrics"
	"github.com/Domenick1991/fastboat/internal/repository"
	"github.com/Domenick1991/fastboat/internal/validation"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	listLimit          = 100
	ticketBookingLimit = 50
	defaultRecentLimit = 10
)

type AdminUseCase interface {
	Dashboard(ctx context.Context) (*Dashboard, error)
	ListTickets(ctx context.Context) ([]domain.TicketSummary, error)
	GetTicket(ctx context.Context, id int64) (*TicketDetails, error)
	CreateTicket(ctx context.Context, input TicketInput) (*domain.Ticket, error)
	UpdateTicket(ctx context.Context, id int64, input TicketInput) (*domain.Ticket, error)
	DeleteTicket(ctx context.Context, id int64) error
	ListPackages(ctx context.Context) ([]domain.TourPackage, error)
	CreatePackage(ctx context.Context, input PackageInput) (*domain.TourPackage, error)
	UpdatePackage(ctx context.Context, id int64, input PackageInput) (*domain.TourPackage, error)
	CancelBooking(ctx context.Context, bookingNumber string) (*domain.Booking, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type Stats struct {
	domain.BookingStats
	ActiveTickets  int
	ActivePackages int
}

type Dashboard struct {
	Stats  Stats
	Recent []domain.Booking
}

type TicketDetails struct {
	Ticket   *domain.Ticket
	Bookings []domain.Booking
}

type TicketInput struct {
	Name              string `json:"name" validate:"required,max=255"`
	Description       string `json:"description" validate:"required"`
	DepartureLocation string `json:"departure_location" validate:"required,max=255"`
	ArrivalLocation   string `json:"arrival_location" validate:"required,max=255"`
	DepartureTime     string `json:"departure_time" validate:"required,datetime=15:04"`
	PriceCents        int64  `json:"price_cents" validate:"gte=0"`
	Capacity          int    `json:"capacity" validate:"gte=1"`
	IsActive          *bool  `json:"is_active"`

	// DecodeErrors are fields the transport could not decode.
	DecodeErrors []domain.FieldError `json:"-"`
}

type PackageInput struct {
	Name         string `json:"name" validate:"required,max=255"`
	Description  string `json:"description" validate:"required"`
	Itinerary    string `json:"itinerary" validate:"required"`
	PriceCents   int64  `json:"price_cents" validate:"gte=0"`
	ImagePath    string `json:"image_path" validate:"max=255"`
	DurationDays int    `json:"duration_days" validate:"gte=1"`
	IsActive     *bool  `json:"is_active"`

	// DecodeErrors are fields the transport could not decode.
	DecodeErrors []domain.FieldError `json:"-"`
}

var inputMessages = validation.Messages{
	"departure_time": "The departure time must be in HH:MM format.",
	"price_cents":    "The price must be at least 0.",
	"capacity":       "The capacity must be at least 1.",
	"duration_days":  "The duration must be at least 1 day.",
}

type AdminService struct {
	tickets            repository.TicketRepository
	packages           repository.PackageRepository
	bookings           repository.BookingRepository
	validate           *validation.Validator
	recentLimit        int
	producer           Producer
	bookingTopic       string
	notificationsTopic string
	log                logrus.FieldLogger
}

type AdminServiceOption func(*AdminService)

func WithRecentLimit(n int) AdminServiceOption {
	return func(s *AdminService) {
		if n > 0 {
			s.recentLimit = n
		}
	}
}

func WithProducer(p Producer, bookingTopic, notificationsTopic string) AdminServiceOption {
	return func(s *AdminService) {
		s.producer = p
		s.bookingTopic = bookingTopic
		s.notificationsTopic = notificationsTopic
	}
}

func WithLogger(log logrus.FieldLogger) AdminServiceOption {
	return func(s *AdminService) {
		s.log = log
	}
}

func NewAdminService(
	tickets repository.TicketRepository,
	packages repository.PackageRepository,
	bookings repository.BookingRepository,
	opts ...AdminServiceOption,
) *AdminService {
	service := &AdminService{
		tickets:     tickets,
		packages:    packages,
		bookings:    bookings,
		validate:    validation.New(),
		recentLimit: defaultRecentLimit,
		log:         logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Dashboard gathers the aggregate counters and the latest bookings. The
// queries are independent and run concurrently.
func (s *AdminService) Dashboard(ctx context.Context) (*Dashboard, error) {
	var d Dashboard
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		d.Stats.BookingStats, err = s.bookings.Stats(gctx)
		return err
	})
	g.Go(func() (err error) {
		d.Stats.ActiveTickets, err = s.tickets.CountActive(gctx)
		return err
	})
	g.Go(func() (err error) {
		d.Stats.ActivePackages, err = s.packages.CountActive(gctx)
		return err
	})
	g.Go(func() (err error) {
		d.Recent, err = s.bookings.Recent(gctx, s.recentLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *AdminService) ListTickets(ctx context.Context) ([]domain.TicketSummary, error) {
	return s.tickets.List(ctx, listLimit)
}

func (s *AdminService) GetTicket(ctx context.Context, id int64) (*TicketDetails, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, notFound("ticket", id, err)
	}
	bookings, err := s.bookings.ListByBookable(ctx, ticket.Ref(), ticketBookingLimit)
	if err != nil {
		return nil, err
	}
	return &TicketDetails{Ticket: ticket, Bookings: bookings}, nil
}

func (s *AdminService) CreateTicket(ctx context.Context, input TicketInput) (*domain.Ticket, error) {
	input.normalize()
	if fields := validation.Merge(input.DecodeErrors, s.validate.Struct(input, inputMessages)); len(fields) > 0 {
		return nil, domain.ValidationError{Fields: fields}
	}

	ticket := &domain.Ticket{Active: true}
	input.apply(ticket)
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}
	s.log.WithField("ticket_id", ticket.ID).Info("ticket created")
	return ticket, nil
}

func (s *AdminService) UpdateTicket(ctx context.Context, id int64, input TicketInput) (*domain.Ticket, error) {
	input.normalize()
	if fields := validation.Merge(input.DecodeErrors, s.validate.Struct(input, inputMessages)); len(fields) > 0 {
		return nil, domain.ValidationError{Fields: fields}
	}

	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, notFound("ticket", id, err)
	}
	input.apply(ticket)
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, notFound("ticket", id, err)
	}
	s.log.WithField("ticket_id", ticket.ID).Info("ticket updated")
	return ticket, nil
}

// DeleteTicket refuses to remove a ticket that bookings still reference.
func (s *AdminService) DeleteTicket(ctx context.Context, id int64) error {
	err := s.tickets.Delete(ctx, id)
	switch {
	case err == nil:
		s.log.WithField("ticket_id", id).Info("ticket deleted")
		return nil
	case errors.Is(err, repository.ErrConflict):
		return domain.ConflictError{Resource: "ticket", Msg: "ticket has bookings; deactivate it instead"}
	default:
		return notFound("ticket", id, err)
	}
}

func (s *AdminService) ListPackages(ctx context.Context) ([]domain.TourPackage, error) {
	return s.packages.List(ctx, listLimit)
}

func (s *AdminService) CreatePackage(ctx context.Context, input PackageInput) (*domain.TourPackage, error) {
	input.normalize()
	if fields := validation.Merge(input.DecodeErrors, s.validate.Struct(input, inputMessages)); len(fields) > 0 {
		return nil, domain.ValidationError{Fields: fields}
	}

	pkg := &domain.TourPackage{Active: true}
	input.apply(pkg)
	if err := s.packages.Create(ctx, pkg); err != nil {
		return nil, err
	}
	s.log.WithField("package_id", pkg.ID).Info("package created")
	return pkg, nil
}

func (s *AdminService) UpdatePackage(ctx context.Context, id int64, input PackageInput) (*domain.TourPackage, error) {
	input.normalize()
	if fields := validation.Merge(input.DecodeErrors, s.validate.Struct(input, inputMessages)); len(fields) > 0 {
		return nil, domain.ValidationError{Fields: fields}
	}

	pkg, err := s.packages.GetByID(ctx, id)
	if err != nil {
		return nil, notFound("package", id, err)
	}
	input.apply(pkg)
	if err := s.packages.Update(ctx, pkg); err != nil {
		return nil, notFound("package", id, err)
	}
	s.log.WithField("package_id", pkg.ID).Info("package updated")
	return pkg, nil
}

// CancelBooking moves a pending booking to cancelled with the same
// conditional update used for payments.
func (s *AdminService) CancelBooking(ctx context.Context, bookingNumber string) (*domain.Booking, error) {
	number := strings.TrimSpace(bookingNumber)
	cancelled, err := s.bookings.Cancel(ctx, number)
	if err == nil {
		metrics.BookingsCancelled.Inc()
		s.log.WithField("booking_number", number).Info("booking cancelled")
		s.publish(ctx, cancelled)
		return cancelled, nil
	}
	if !errors.Is(err, repository.ErrNotPending) {
		return nil, err
	}

	current, gerr := s.bookings.GetByNumber(ctx, number)
	if gerr != nil {
		if errors.Is(gerr, repository.ErrNotFound) {
			return nil, domain.NotFoundError{Resource: "booking", Key: number, Err: gerr}
		}
		return nil, gerr
	}
	return nil, domain.StateConflictError{BookingNumber: number, Status: current.PaymentStatus}
}

func (s *AdminService) publish(ctx context.Context, booking *domain.Booking) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}
	event := kafka.NewBookingEvent(kafka.EventBookingCancelled, booking, booking.UpdatedAt)
	for _, topic := range []string{s.bookingTopic, s.notificationsTopic} {
		if topic == "" {
			continue
		}
		if err := s.producer.Publish(ctx, topic, booking.Number, event); err != nil {
			s.log.WithError(err).WithField("booking_number", booking.Number).Warn("failed to publish cancellation")
		}
	}
}

func (in *TicketInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.DepartureLocation = strings.TrimSpace(in.DepartureLocation)
	in.ArrivalLocation = strings.TrimSpace(in.ArrivalLocation)
	in.DepartureTime = strings.TrimSpace(in.DepartureTime)
}

func (in TicketInput) apply(t *domain.Ticket) {
	t.Name = in.Name
	t.Description = in.Description
	t.DepartureLocation = in.DepartureLocation
	t.ArrivalLocation = in.ArrivalLocation
	t.DepartureTime = in.DepartureTime
	t.PriceCents = in.PriceCents
	t.Capacity = in.Capacity
	if in.IsActive != nil {
		t.Active = *in.IsActive
	}
}

func (in *PackageInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Itinerary = strings.TrimSpace(in.Itinerary)
	in.ImagePath = strings.TrimSpace(in.ImagePath)
}

func (in PackageInput) apply(p *domain.TourPackage) {
	p.Name = in.Name
	p.Description = in.Description
	p.Itinerary = in.Itinerary
	p.PriceCents = in.PriceCents
	p.ImagePath = in.ImagePath
	p.DurationDays = in.DurationDays
	if in.IsActive != nil {
		p.Active = *in.IsActive
	}
}

func notFound(resource string, id int64, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return domain.NotFoundError{Resource: resource, Key: strconv.FormatInt(id, 10), Err: err}
	}
	return err
}

var _ AdminUseCase = (*AdminService)(nil)
