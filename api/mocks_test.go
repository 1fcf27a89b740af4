package api

import (
	"context"

	"github.com/Domenick1991/fastboat/internal/domain"
	"github.com/Domenick1991/fastboat/internal/service/admin"
	"github.com/Domenick1991/fastboat/internal/service/booking"
	"github.com/Domenick1991/fastboat/internal/service/payment"
	"github.com/stretchr/testify/mock"
)

type MockCatalogUseCase struct {
	mock.Mock
}

func (m *MockCatalogUseCase) ListActiveTickets(ctx context.Context) ([]domain.Ticket, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Ticket), args.Error(1)
}

func (m *MockCatalogUseCase) ListActivePackages(ctx context.Context) ([]domain.TourPackage, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.TourPackage), args.Error(1)
}

func (m *MockCatalogUseCase) GetActive(ctx context.Context, ref domain.BookableRef) (domain.Bookable, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Bookable), args.Error(1)
}

func (m *MockCatalogUseCase) Get(ctx context.Context, ref domain.BookableRef) (domain.Bookable, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Bookable), args.Error(1)
}

type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) CreateBooking(ctx context.Context, input booking.CreateBookingInput) (*domain.Booking, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) GetBooking(ctx context.Context, ref string) (*booking.BookingDetails, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.BookingDetails), args.Error(1)
}

type MockPaymentUseCase struct {
	mock.Mock
}

func (m *MockPaymentUseCase) ShowPayment(ctx context.Context, bookingNumber string) (*payment.PaymentPage, error) {
	args := m.Called(ctx, bookingNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.PaymentPage), args.Error(1)
}

func (m *MockPaymentUseCase) ResolvePayment(ctx context.Context, input payment.ResolvePaymentInput) (*payment.PaymentResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.PaymentResult), args.Error(1)
}

type MockAdminUseCase struct {
	mock.Mock
}

func (m *MockAdminUseCase) Dashboard(ctx context.Context) (*admin.Dashboard, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*admin.Dashboard), args.Error(1)
}

func (m *MockAdminUseCase) ListTickets(ctx context.Context) ([]domain.TicketSummary, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.TicketSummary), args.Error(1)
}

func (m *MockAdminUseCase) GetTicket(ctx context.Context, id int64) (*admin.TicketDetails, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*admin.TicketDetails), args.Error(1)
}

func (m *MockAdminUseCase) CreateTicket(ctx context.Context, input admin.TicketInput) (*domain.Ticket, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *MockAdminUseCase) UpdateTicket(ctx context.Context, id int64, input admin.TicketInput) (*domain.Ticket, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *MockAdminUseCase) DeleteTicket(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockAdminUseCase) ListPackages(ctx context.Context) ([]domain.TourPackage, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.TourPackage), args.Error(1)
}

func (m *MockAdminUseCase) CreatePackage(ctx context.Context, input admin.PackageInput) (*domain.TourPackage, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TourPackage), args.Error(1)
}

func (m *MockAdminUseCase) UpdatePackage(ctx context.Context, id int64, input admin.PackageInput) (*domain.TourPackage, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TourPackage), args.Error(1)
}

func (m *MockAdminUseCase) CancelBooking(ctx context.Context, bookingNumber string) (*domain.Booking, error) {
	args := m.Called(ctx, bookingNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
