package booking

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Domenick1991/fastboat/internal/domain"
	"github.com/Domenick1991/fastboat/internal/kafka"
	"github.com/Domenick1991/fastboat/internal/metrics"
	"github.com/Domenick1991/fastboat/internal/repository"
	"github.com/Domenick1991/fastboat/internal/validation"
	"github.com/sirupsen/logrus"
)

const defaultMaxNumberAttempts = 100

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	GetBooking(ctx context.Context, ref string) (*BookingDetails, error)
}

// Catalog resolves bookable references.
type Catalog interface {
	GetActive(ctx context.Context, ref domain.BookableRef) (domain.Bookable, error)
	Get(ctx context.Context, ref domain.BookableRef) (domain.Bookable, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type CreateBookingInput struct {
	CustomerName  string `json:"customer_name" validate:"required,max=255"`
	CustomerEmail string `json:"customer_email" validate:"required,email,max=255"`
	CustomerPhone string `json:"customer_phone" validate:"required,max=20"`
	Quantity      int    `json:"quantity" validate:"min=1,max=10"`
	BookingDate   string `json:"booking_date" validate:"required,datetime=2006-01-02"`
	BookableType  string `json:"bookable_type" validate:"required,oneof=ticket package"`
	BookableID    int64  `json:"bookable_id" validate:"required,gt=0"`
	PaymentMethod string `json:"payment_method" validate:"required,oneof=credit_card bank_transfer pay_at_office"`

	// DecodeErrors are fields the transport could not decode. They are
	// reported ahead of, and instead of, validation failures on the same
	// field.
	DecodeErrors []domain.FieldError `json:"-"`
}

// normalize trims free text and maps accepted aliases onto canonical
// values before validation.
func (in *CreateBookingInput) normalize() {
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.CustomerEmail = strings.TrimSpace(in.CustomerEmail)
	in.CustomerPhone = strings.TrimSpace(in.CustomerPhone)
	in.BookingDate = strings.TrimSpace(in.BookingDate)
	if t, ok := domain.ParseBookableType(in.BookableType); ok {
		in.BookableType = string(t)
	}
	if m, ok := domain.ParsePaymentMethod(in.PaymentMethod); ok {
		in.PaymentMethod = string(m)
	}
}

var createMessages = validation.Messages{
	"customer_name.required":  "Full name is required.",
	"customer_name.max":       "Full name may not be greater than 255 characters.",
	"customer_email.required": "Email address is required.",
	"customer_email":          "Please provide a valid email address.",
	"customer_phone.required": "Phone number is required.",
	"customer_phone.max":      "Phone number may not be greater than 20 characters.",
	"quantity.min":            "Minimum 1 ticket/participant is required.",
	"quantity.max":            "Maximum 10 tickets/participants allowed per booking.",
	"booking_date.required":   "Booking date is required.",
	"booking_date.datetime":   "Booking date must be a valid date (YYYY-MM-DD).",
	"bookable_type":           "Please select a fastboat ticket or a tour package.",
	"bookable_id":             "Selected item is not available.",
	"payment_method.required": "Payment method is required.",
	"payment_method.oneof":    "Please select a valid payment method.",
}

const (
	msgDateInFuture    = "Booking date must be in the future."
	msgItemUnavailable = "Selected item is not available."
)

// BookingDetails is a booking with its catalog item. Bookable is nil when
// the item has since been removed.
type BookingDetails struct {
	Booking  *domain.Booking
	Bookable domain.Bookable
}

type BookingService struct {
	bookings           repository.BookingRepository
	catalog            Catalog
	producer           Producer
	bookingTopic       string
	notificationsTopic string
	validate           *validation.Validator
	location           *time.Location
	now                func() time.Time
	newNumber          NumberGenerator
	maxAttempts        int
	log                logrus.FieldLogger
}

type BookingServiceOption func(*BookingService)

func WithProducer(p Producer, bookingTopic, notificationsTopic string) BookingServiceOption {
	return func(s *BookingService) {
		s.producer = p
		s.bookingTopic = bookingTopic
		s.notificationsTopic = notificationsTopic
	}
}

// WithLocation sets the timezone that defines "today" and the date part of
// booking numbers.
func WithLocation(loc *time.Location) BookingServiceOption {
	return func(s *BookingService) {
		s.location = loc
	}
}

func WithClock(now func() time.Time) BookingServiceOption {
	return func(s *BookingService) {
		s.now = now
	}
}

func WithNumberGenerator(g NumberGenerator) BookingServiceOption {
	return func(s *BookingService) {
		s.newNumber = g
	}
}

func WithMaxNumberAttempts(n int) BookingServiceOption {
	return func(s *BookingService) {
		s.maxAttempts = n
	}
}

func WithLogger(log logrus.FieldLogger) BookingServiceOption {
	return func(s *BookingService) {
		s.log = log
	}
}

func NewBookingService(bookings repository.BookingRepository, catalog Catalog, opts ...BookingServiceOption) *BookingService {
	service := &BookingService{
		bookings:    bookings,
		catalog:     catalog,
		validate:    validation.New(),
		location:    time.Local,
		now:         time.Now,
		newNumber:   GenerateNumber,
		maxAttempts: defaultMaxNumberAttempts,
		log:         logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// CreateBooking validates input, prices the referenced item at its current
// price and persists a pending booking under a fresh booking number.
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	input.normalize()

	verr := domain.ValidationError{Fields: validation.Merge(input.DecodeErrors, s.validate.Struct(input, createMessages))}
	now := s.now().In(s.location)

	serviceDate := s.checkServiceDate(input.BookingDate, now, &verr)

	var item domain.Bookable
	ref := domain.BookableRef{Type: domain.BookableType(input.BookableType), ID: input.BookableID}
	if _, bad := verr.Field("bookable_type"); !bad {
		if _, bad := verr.Field("bookable_id"); !bad {
			var err error
			item, err = s.catalog.GetActive(ctx, ref)
			if err != nil {
				if !domain.IsNotFound(err) {
					return nil, err
				}
				verr.Fields = append(verr.Fields, domain.FieldError{Field: "bookable_id", Message: msgItemUnavailable, Err: err})
			}
		}
	}

	if len(verr.Fields) > 0 {
		return nil, verr
	}

	booking := &domain.Booking{
		CustomerName:  input.CustomerName,
		CustomerEmail: input.CustomerEmail,
		CustomerPhone: input.CustomerPhone,
		Quantity:      input.Quantity,
		ServiceDate:   serviceDate,
		Bookable:      item.Ref(),
		TotalCents:    item.UnitPriceCents() * int64(input.Quantity),
		PaymentMethod: domain.PaymentMethod(input.PaymentMethod),
		PaymentStatus: domain.PaymentStatusPending,
	}

	if err := s.insertWithFreshNumber(ctx, booking, now); err != nil {
		return nil, err
	}

	metrics.BookingsCreated.WithLabelValues(string(booking.Bookable.Type)).Inc()
	s.log.WithFields(logrus.Fields{
		"booking_number": booking.Number,
		"bookable":       booking.Bookable.String(),
		"total_cents":    booking.TotalCents,
	}).Info("booking created")

	s.publish(ctx, kafka.EventBookingCreated, booking)
	return booking, nil
}

// checkServiceDate requires a date strictly after today in the service
// location. Format errors are already reported by the validator.
func (s *BookingService) checkServiceDate(raw string, now time.Time, verr *domain.ValidationError) time.Time {
	if _, bad := verr.Field("booking_date"); bad {
		return time.Time{}
	}
	date, err := time.ParseInLocation(time.DateOnly, raw, s.location)
	if err != nil {
		verr.Fields = append(verr.Fields, domain.FieldError{Field: "booking_date", Message: createMessages["booking_date.datetime"], Err: err})
		return time.Time{}
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.location)
	if !date.After(today) {
		verr.Fields = append(verr.Fields, domain.FieldError{Field: "booking_date", Message: msgDateInFuture})
		return time.Time{}
	}
	return date
}

func (s *BookingService) insertWithFreshNumber(ctx context.Context, booking *domain.Booking, now time.Time) error {
	for attempt := 1; ; attempt++ {
		booking.Number = s.newNumber(now)

		err := s.bookings.Create(ctx, booking)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repository.ErrDuplicateBookingNumber) {
			return err
		}

		metrics.BookingNumberCollisions.Inc()
		s.log.WithField("booking_number", booking.Number).Debug("booking number taken, regenerating")
		if attempt >= s.maxAttempts {
			return fmt.Errorf("allocate booking number after %d attempts: %w", attempt, err)
		}
	}
}

// GetBooking looks a booking up by booking number or numeric id and
// resolves its catalog item regardless of the active flag.
func (s *BookingService) GetBooking(ctx context.Context, ref string) (*BookingDetails, error) {
	ref = strings.TrimSpace(ref)

	var (
		booking *domain.Booking
		err     error
	)
	if domain.LooksLikeBookingNumber(ref) {
		booking, err = s.bookings.GetByNumber(ctx, ref)
	} else if id, perr := strconv.ParseInt(ref, 10, 64); perr == nil {
		booking, err = s.bookings.GetByID(ctx, id)
	} else {
		err = repository.ErrNotFound
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NotFoundError{Resource: "booking", Key: ref, Err: err}
		}
		return nil, err
	}

	item, err := s.catalog.Get(ctx, booking.Bookable)
	if err != nil && !domain.IsNotFound(err) {
		return nil, err
	}
	return &BookingDetails{Booking: booking, Bookable: item}, nil
}

// publish is best-effort: a broker failure never fails the booking.
func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}
	event := kafka.NewBookingEvent(eventType, booking, s.now())
	if err := s.producer.Publish(ctx, s.bookingTopic, booking.Number, event); err != nil {
		s.log.WithError(err).WithField("booking_number", booking.Number).Warn("failed to publish booking event")
		return
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, booking.Number, event); err != nil {
			s.log.WithError(err).WithField("booking_number", booking.Number).Warn("failed to publish notification")
		}
	}
}

var _ BookingUseCase = (*BookingService)(nil)
