package payment

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Domenick1991/fastboat/internal/domain"
	"github.com/Domenick1991/fastboat/internal/repository"
	"github.com/Domenick1991/fastboat/internal/repository/memory"
	"github.com/Domenick1991/fastboat/internal/service/booking"
	"github.com/Domenick1991/fastboat/internal/service/catalog"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	bookedAt   = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	resolvedAt = time.Date(2025, 3, 1, 10, 5, 0, 0, time.UTC)
	bank       = domain.BankDetails{
		BankName:      "Bank Central Asia (BCA)",
		AccountNumber: "1234567890",
		AccountName:   "Fastboat Tours Indonesia",
		Branch:        "Denpasar Main Branch",
	}
)

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

type fixture struct {
	store    *memory.Store
	bookings *booking.BookingService
	payments *PaymentService
}

func newFixture(t *testing.T, opts ...PaymentServiceOption) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, store.Tickets().Create(ctx, &domain.Ticket{
		Name: "Sanur to Nusa Penida Express", DepartureTime: "08:00", PriceCents: 75000, Capacity: 50, Active: true,
	}))

	logger, _ := test.NewNullLogger()
	cat := catalog.NewCatalogService(store.Tickets(), store.Packages())
	base := []PaymentServiceOption{WithClock(func() time.Time { return resolvedAt }), WithLogger(logger)}
	return &fixture{
		store: store,
		bookings: booking.NewBookingService(store.Bookings(), cat,
			booking.WithClock(func() time.Time { return bookedAt }),
			booking.WithLocation(time.UTC),
			booking.WithLogger(logger),
		),
		payments: NewPaymentService(store.Bookings(), cat, bank, append(base, opts...)...),
	}
}

func (f *fixture) book(t *testing.T, method domain.PaymentMethod) *domain.Booking {
	t.Helper()
	b, err := f.bookings.CreateBooking(context.Background(), booking.CreateBookingInput{
		CustomerName:  "Jane Doe",
		CustomerEmail: "jane@example.com",
		CustomerPhone: "+62 812 3456 7890",
		Quantity:      2,
		BookingDate:   "2025-03-02",
		BookableType:  "ticket",
		BookableID:    1,
		PaymentMethod: string(method),
	})
	require.NoError(t, err)
	return b
}

func TestPaymentService_EndToEndBankTransfer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created := f.book(t, domain.PaymentMethodBankTransfer)
	assert.Equal(t, int64(150000), created.TotalCents)
	assert.Equal(t, domain.PaymentStatusPending, created.PaymentStatus)

	result, err := f.payments.ResolvePayment(ctx, ResolvePaymentInput{
		BookingNumber: created.Number,
		PaymentMethod: "bank_transfer",
	})

	require.NoError(t, err)
	assert.Equal(t, MessageBankTransfer, result.Message)
	assert.Equal(t, domain.PaymentStatusPaid, result.Booking.PaymentStatus)
	assert.Equal(t, "BANK_TRANSFER_"+created.Number, result.Booking.PaymentReference)
	require.NotNil(t, result.Booking.PaidAt)
	assert.True(t, resolvedAt.Equal(*result.Booking.PaidAt))

	stored, err := f.store.Bookings().GetByNumber(ctx, created.Number)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPaid, stored.PaymentStatus)
	assert.Equal(t, int64(150000), stored.TotalCents)
}

func TestPaymentService_BankTransferWithReference(t *testing.T) {
	f := newFixture(t)
	created := f.book(t, domain.PaymentMethodBankTransfer)

	result, err := f.payments.ResolvePayment(context.Background(), ResolvePaymentInput{
		BookingNumber:    created.Number,
		PaymentReference: "TRX-778899",
	})

	require.NoError(t, err)
	assert.Equal(t, "TRX-778899", result.Booking.PaymentReference)
}

func TestPaymentService_ReferenceTooLong(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created := f.book(t, domain.PaymentMethodBankTransfer)

	_, err := f.payments.ResolvePayment(ctx, ResolvePaymentInput{
		BookingNumber:    created.Number,
		PaymentReference: strings.Repeat("x", 256),
	})

	var verr domain.ValidationError
	require.ErrorAs(t, err, &verr)
	field, ok := verr.Field("payment_reference")
	require.True(t, ok)
	assert.Equal(t, "Payment reference may not be greater than 255 characters.", field.Message)

	stored, err := f.store.Bookings().GetByNumber(ctx, created.Number)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPending, stored.PaymentStatus)

	result, err := f.payments.ResolvePayment(ctx, ResolvePaymentInput{
		BookingNumber:    created.Number,
		PaymentReference: strings.Repeat("x", 255),
	})
	require.NoError(t, err)
	assert.Len(t, result.Booking.PaymentReference, 255)
}

func TestPaymentService_DecodeErrors(t *testing.T) {
	f := newFixture(t)
	created := f.book(t, domain.PaymentMethodBankTransfer)

	_, err := f.payments.ResolvePayment(context.Background(), ResolvePaymentInput{
		BookingNumber:    created.Number,
		PaymentReference: strings.Repeat("x", 300),
		DecodeErrors:     []domain.FieldError{{Field: "payment_method", Message: "The payment method must be a string."}},
	})

	var verr domain.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 2)
	assert.Equal(t, "payment_method", verr.Fields[0].Field)
	assert.Equal(t, "payment_reference", verr.Fields[1].Field)
}

func TestPaymentService_Card(t *testing.T) {
	f := newFixture(t)
	created := f.book(t, domain.PaymentMethodCard)

	result, err := f.payments.ResolvePayment(context.Background(), ResolvePaymentInput{
		BookingNumber:    created.Number,
		PaymentReference: "ignored",
	})

	require.NoError(t, err)
	assert.Equal(t, MessageCard, result.Message)
	assert.Equal(t, "CARD_"+created.Number, result.Booking.PaymentReference)
	assert.Equal(t, domain.PaymentStatusPaid, result.Booking.PaymentStatus)
}

func TestPaymentService_PayAtOfficeStaysPending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created := f.book(t, domain.PaymentMethodPayAtOffice)

	for i := 0; i < 3; i++ {
		result, err := f.payments.ResolvePayment(ctx, ResolvePaymentInput{BookingNumber: created.Number})
		require.NoError(t, err)
		assert.Equal(t, MessagePayAtOffice, result.Message)
		assert.Equal(t, domain.PaymentStatusPending, result.Booking.PaymentStatus)
	}

	stored, err := f.store.Bookings().GetByNumber(ctx, created.Number)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPending, stored.PaymentStatus)
	assert.Nil(t, stored.PaidAt)
	assert.Empty(t, stored.PaymentReference)
}

func TestPaymentService_MethodOverrideDoesNotChangeStoredMethod(t *testing.T) {
	f := newFixture(t)
	created := f.book(t, domain.PaymentMethodPayAtOffice)

	result, err := f.payments.ResolvePayment(context.Background(), ResolvePaymentInput{
		BookingNumber: created.Number,
		PaymentMethod: "card",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPaid, result.Booking.PaymentStatus)
	assert.Equal(t, domain.PaymentMethodPayAtOffice, result.Booking.PaymentMethod)
}

func TestPaymentService_SecondResolutionConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created := f.book(t, domain.PaymentMethodBankTransfer)

	first, err := f.payments.ResolvePayment(ctx, ResolvePaymentInput{BookingNumber: created.Number})
	require.NoError(t, err)

	_, err = f.payments.ResolvePayment(ctx, ResolvePaymentInput{BookingNumber: created.Number, PaymentReference: "SECOND"})

	var conflict domain.StateConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, domain.PaymentStatusPaid, conflict.Status)

	stored, err := f.store.Bookings().GetByNumber(ctx, created.Number)
	require.NoError(t, err)
	assert.Equal(t, first.Booking.PaymentReference, stored.PaymentReference)
	assert.Equal(t, *first.Booking.PaidAt, *stored.PaidAt)
}

func TestPaymentService_ConcurrentResolutionPaysOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created := f.book(t, domain.PaymentMethodBankTransfer)

	const n = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		paid      int
		conflicts int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.payments.ResolvePayment(ctx, ResolvePaymentInput{BookingNumber: created.Number})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				paid++
			case domain.IsStateConflict(err):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, paid)
	assert.Equal(t, n-1, conflicts)
}

func TestPaymentService_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.payments.ResolvePayment(ctx, ResolvePaymentInput{BookingNumber: "BK209901010001"})
	assert.True(t, domain.IsNotFound(err))

	created := f.book(t, domain.PaymentMethodBankTransfer)
	_, err = f.payments.ResolvePayment(ctx, ResolvePaymentInput{BookingNumber: created.Number, PaymentMethod: "bitcoin"})
	var invalid domain.InvalidPaymentMethodError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "bitcoin", invalid.Method)

	stored, err := f.store.Bookings().GetByNumber(ctx, created.Number)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPending, stored.PaymentStatus)

	_, err = f.store.Bookings().Cancel(ctx, created.Number)
	require.NoError(t, err)
	_, err = f.payments.ResolvePayment(ctx, ResolvePaymentInput{BookingNumber: created.Number, PaymentMethod: "bitcoin"})
	assert.True(t, domain.IsStateConflict(err), "state is checked before the method")
}

func TestPaymentService_ShowPayment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created := f.book(t, domain.PaymentMethodBankTransfer)

	page, err := f.payments.ShowPayment(ctx, created.Number)
	require.NoError(t, err)
	assert.False(t, page.AlreadyPaid)
	assert.Equal(t, bank, page.BankDetails)
	assert.Equal(t, domain.PaymentMethods, page.Methods)
	require.NotNil(t, page.Bookable)
	assert.Equal(t, "Sanur to Nusa Penida Express", page.Bookable.Title())

	_, err = f.payments.ResolvePayment(ctx, ResolvePaymentInput{BookingNumber: created.Number})
	require.NoError(t, err)

	page, err = f.payments.ShowPayment(ctx, created.Number)
	require.NoError(t, err)
	assert.True(t, page.AlreadyPaid)

	_, err = f.payments.ShowPayment(ctx, "BK209901010001")
	assert.True(t, domain.IsNotFound(err))
}

func TestPaymentService_PublishesEvents(t *testing.T) {
	mockProducer := &MockProducer{}
	f := newFixture(t, WithProducer(mockProducer, "booking_topic", "notifications_topic"))
	ctx := context.Background()
	created := f.book(t, domain.PaymentMethodBankTransfer)

	mockProducer.On("Publish", ctx, "booking_topic", created.Number, mock.Anything).Return(nil).Once()
	mockProducer.On("Publish", ctx, "notifications_topic", created.Number, mock.Anything).
		Return(errors.New("kafka unavailable")).Once()

	result, err := f.payments.ResolvePayment(ctx, ResolvePaymentInput{BookingNumber: created.Number})

	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPaid, result.Booking.PaymentStatus)
	mockProducer.AssertExpectations(t)
}

func TestPaymentService_StorageFailure(t *testing.T) {
	repo := &failingRepo{BookingRepository: memory.New().Bookings(), err: errors.New("database error")}
	service := NewPaymentService(repo, nil, bank)

	_, err := service.ResolvePayment(context.Background(), ResolvePaymentInput{BookingNumber: "BK202503010001"})

	assert.EqualError(t, err, "database error")
	assert.False(t, domain.IsNotFound(err))
}

type failingRepo struct {
	repository.BookingRepository
	err error
}

func (r *failingRepo) GetByNumber(context.Context, string) (*domain.Booking, error) {
	return nil, r.err
}
