package payment

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Domenick1991/fastboat/internal/domain"
	"github.com/Domenick1991/fastboat/internal/kafka"
	"github.com/Domenick1991/fastboat/internal/metrics"
	"github.com/Domenick1991/fastboat/internal/repository"
	"github.com/Domenick1991/fastboat/internal/validation"
	"github.com/sirupsen/logrus"
)

const (
	MessagePayAtOffice  = "Booking confirmed! Please visit our office for payment."
	MessageBankTransfer = "Payment confirmed! Your e-ticket will be sent to your email."
	MessageCard         = "Payment successful! Your e-ticket will be sent to your email."
)

type PaymentUseCase interface {
	ShowPayment(ctx context.Context, bookingNumber string) (*PaymentPage, error)
	ResolvePayment(ctx context.Context, input ResolvePaymentInput) (*PaymentResult, error)
}

type Catalog interface {
	Get(ctx context.Context, ref domain.BookableRef) (domain.Bookable, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// PaymentPage is what a customer needs to settle a booking. AlreadyPaid
// means the caller should send the customer to the booking instead.
type PaymentPage struct {
	Booking     *domain.Booking
	Bookable    domain.Bookable
	BankDetails domain.BankDetails
	Methods     []domain.PaymentMethod
	AlreadyPaid bool
}

type ResolvePaymentInput struct {
	BookingNumber    string `json:"-"`
	PaymentMethod    string `json:"payment_method"`
	PaymentReference string `json:"payment_reference" validate:"max=255"`

	// DecodeErrors are fields the transport could not decode.
	DecodeErrors []domain.FieldError `json:"-"`
}

var resolveMessages = validation.Messages{
	"payment_reference.max": "Payment reference may not be greater than 255 characters.",
}

type PaymentResult struct {
	Booking *domain.Booking
	Message string
}

type PaymentService struct {
	bookings           repository.BookingRepository
	catalog            Catalog
	bank               domain.BankDetails
	producer           Producer
	bookingTopic       string
	notificationsTopic string
	validate           *validation.Validator
	now                func() time.Time
	log                logrus.FieldLogger
}

type PaymentServiceOption func(*PaymentService)

func WithProducer(p Producer, bookingTopic, notificationsTopic string) PaymentServiceOption {
	return func(s *PaymentService) {
		s.producer = p
		s.bookingTopic = bookingTopic
		s.notificationsTopic = notificationsTopic
	}
}

func WithClock(now func() time.Time) PaymentServiceOption {
	return func(s *PaymentService) {
		s.now = now
	}
}

func WithLogger(log logrus.FieldLogger) PaymentServiceOption {
	return func(s *PaymentService) {
		s.log = log
	}
}

func NewPaymentService(bookings repository.BookingRepository, catalog Catalog, bank domain.BankDetails, opts ...PaymentServiceOption) *PaymentService {
	service := &PaymentService{
		bookings: bookings,
		catalog:  catalog,
		bank:     bank,
		validate: validation.New(),
		now:      time.Now,
		log:      logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *PaymentService) ShowPayment(ctx context.Context, bookingNumber string) (*PaymentPage, error) {
	booking, err := s.load(ctx, bookingNumber)
	if err != nil {
		return nil, err
	}
	if booking.PaymentStatus == domain.PaymentStatusPaid {
		return &PaymentPage{Booking: booking, AlreadyPaid: true}, nil
	}

	item, err := s.catalog.Get(ctx, booking.Bookable)
	if err != nil && !domain.IsNotFound(err) {
		return nil, err
	}
	return &PaymentPage{
		Booking:     booking,
		Bookable:    item,
		BankDetails: s.bank,
		Methods:     domain.PaymentMethods,
	}, nil
}

// ResolvePayment settles a pending booking with the requested method, or
// the one chosen at booking time. The payment reference is capped at 255
// characters. Card and bank transfer succeed
// immediately; pay at office leaves the booking pending.
func (s *PaymentService) ResolvePayment(ctx context.Context, input ResolvePaymentInput) (*PaymentResult, error) {
	number := strings.TrimSpace(input.BookingNumber)
	current, err := s.load(ctx, number)
	if err != nil {
		return nil, err
	}
	if !current.IsPending() {
		return nil, domain.StateConflictError{BookingNumber: number, Status: current.PaymentStatus}
	}

	input.PaymentReference = strings.TrimSpace(input.PaymentReference)
	if fields := validation.Merge(input.DecodeErrors, s.validate.Struct(input, resolveMessages)); len(fields) > 0 {
		return nil, domain.ValidationError{Fields: fields}
	}

	method := current.PaymentMethod
	if raw := strings.TrimSpace(input.PaymentMethod); raw != "" {
		parsed, ok := domain.ParsePaymentMethod(raw)
		if !ok {
			metrics.PaymentsResolved.WithLabelValues(raw, "invalid_method").Inc()
			return nil, domain.InvalidPaymentMethodError{Method: raw}
		}
		method = parsed
	}

	log := s.log.WithFields(logrus.Fields{"booking_number": number, "method": method})

	var reference, message string
	switch method {
	case domain.PaymentMethodPayAtOffice:
		metrics.PaymentsResolved.WithLabelValues(string(method), "deferred").Inc()
		log.Info("payment deferred to office")
		s.publish(ctx, kafka.EventPaymentDeferred, current)
		return &PaymentResult{Booking: current, Message: MessagePayAtOffice}, nil
	case domain.PaymentMethodBankTransfer:
		reference = input.PaymentReference
		if reference == "" {
			reference = "BANK_TRANSFER_" + number
		}
		message = MessageBankTransfer
	case domain.PaymentMethodCard:
		reference = "CARD_" + number
		message = MessageCard
	default:
		return nil, domain.InvalidPaymentMethodError{Method: string(method)}
	}

	updated, err := s.bookings.MarkPaid(ctx, number, reference, s.now())
	if err != nil {
		if errors.Is(err, repository.ErrNotPending) {
			metrics.PaymentsResolved.WithLabelValues(string(method), "conflict").Inc()
			return nil, s.conflict(ctx, number)
		}
		return nil, err
	}

	metrics.PaymentsResolved.WithLabelValues(string(method), "paid").Inc()
	log.WithField("payment_reference", reference).Info("booking paid")
	s.publish(ctx, kafka.EventBookingPaid, updated)
	return &PaymentResult{Booking: updated, Message: message}, nil
}

func (s *PaymentService) load(ctx context.Context, number string) (*domain.Booking, error) {
	booking, err := s.bookings.GetByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NotFoundError{Resource: "booking", Key: number, Err: err}
		}
		return nil, err
	}
	return booking, nil
}

// conflict reports the status that won the race, when it can be read.
func (s *PaymentService) conflict(ctx context.Context, number string) error {
	cerr := domain.StateConflictError{BookingNumber: number}
	if latest, err := s.bookings.GetByNumber(ctx, number); err == nil {
		cerr.Status = latest.PaymentStatus
	}
	return cerr
}

func (s *PaymentService) publish(ctx context.Context, eventType string, booking *domain.Booking) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}
	event := kafka.NewBookingEvent(eventType, booking, s.now())
	for _, topic := range []string{s.bookingTopic, s.notificationsTopic} {
		if topic == "" {
			continue
		}
		if err := s.producer.Publish(ctx, topic, booking.Number, event); err != nil {
			s.log.WithError(err).WithFields(logrus.Fields{"booking_number": booking.Number, "topic": topic}).
				Warn("failed to publish payment event")
		}
	}
}

var _ PaymentUseCase = (*PaymentService)(nil)
