package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Domenick1991/fastboat/internal/domain"
	"github.com/Domenick1991/fastboat/internal/service/booking"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testBooking() *domain.Booking {
	return &domain.Booking{
		ID:            1,
		Number:        "BK202610200042",
		CustomerName:  "Made Wirawan",
		CustomerEmail: "made@example.com",
		CustomerPhone: "+62 812 3456 7890",
		Quantity:      2,
		ServiceDate:   time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC),
		Bookable:      domain.BookableRef{Type: domain.BookableTicket, ID: 1},
		TotalCents:    150000,
		PaymentMethod: domain.PaymentMethodBankTransfer,
		PaymentStatus: domain.PaymentStatusPending,
		CreatedAt:     time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC),
	}
}

func testTicket() *domain.Ticket {
	return &domain.Ticket{
		ID:                1,
		Name:              "Sanur - Nusa Penida",
		DepartureLocation: "Sanur",
		ArrivalLocation:   "Nusa Penida",
		DepartureTime:     "08:00",
		PriceCents:        75000,
		Capacity:          50,
		Active:            true,
	}
}

func TestBookingHandler_create(t *testing.T) {
	mockService := &MockBookingUseCase{}
	log, _ := test.NewNullLogger()
	handler := NewBookingHandler(mockService, log)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	input := booking.CreateBookingInput{
		CustomerName:  "Made Wirawan",
		CustomerEmail: "made@example.com",
		CustomerPhone: "+62 812 3456 7890",
		Quantity:      2,
		BookingDate:   "2026-10-20",
		BookableType:  "ticket",
		BookableID:    1,
		PaymentMethod: "bank_transfer",
	}
	body, _ := json.Marshal(input)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/bookings", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("CreateBooking", c.Request.Context(), input).Return(testBooking(), nil)

	handler.create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "/api/v1/payments/BK202610200042", w.Header().Get("Location"))

	var response bookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "BK202610200042", response.BookingNumber)
	assert.Equal(t, "pending", response.PaymentStatus)
	assert.Equal(t, "2026-10-20", response.BookingDate)
	assert.Equal(t, int64(150000), response.TotalCents)
	assert.Nil(t, response.PaidAt)

	mockService.AssertExpectations(t)
}

func TestBookingHandler_createValidationError(t *testing.T) {
	mockService := &MockBookingUseCase{}
	log, _ := test.NewNullLogger()
	handler := NewBookingHandler(mockService, log)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/bookings", bytes.NewReader([]byte(`{"quantity":11}`)))
	c.Request.Header.Set("Content-Type", "application/json")

	verr := domain.ValidationError{Fields: []domain.FieldError{
		{Field: "customer_name", Message: "Full name is required."},
		{Field: "quantity", Message: "Maximum 10 tickets/participants allowed per booking."},
	}}
	mockService.On("CreateBooking", mock.Anything, mock.Anything).Return(nil, verr)

	handler.create(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var response errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "The given data was invalid.", response.Error)
	require.Len(t, response.Fields, 2)
	assert.Equal(t, "customer_name", response.Fields[0].Field)
	assert.Equal(t, "Maximum 10 tickets/participants allowed per booking.", response.Fields[1].Message)
}

func TestBookingHandler_createMalformedBody(t *testing.T) {
	mockService := &MockBookingUseCase{}
	log, hook := test.NewNullLogger()
	handler := NewBookingHandler(mockService, log)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/bookings", bytes.NewReader([]byte(`{"quantity":`)))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Malformed request body."}`, w.Body.String())
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "malformed request body", hook.LastEntry().Message)
	assert.Contains(t, hook.LastEntry().Data, "error")
	mockService.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
}

func TestBookingHandler_createTypeMismatch(t *testing.T) {
	mockService := &MockBookingUseCase{}
	log, _ := test.NewNullLogger()
	handler := NewBookingHandler(mockService, log)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body := `{"customer_name":"Made Wirawan","quantity":2.5,"bookable_id":"one"}`
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/bookings", bytes.NewReader([]byte(body)))
	c.Request.Header.Set("Content-Type", "application/json")

	var got booking.CreateBookingInput
	verr := domain.ValidationError{Fields: []domain.FieldError{
		{Field: "quantity", Message: "The quantity must be an integer."},
		{Field: "customer_email", Message: "Email address is required."},
	}}
	mockService.On("CreateBooking", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { got = args.Get(1).(booking.CreateBookingInput) }).
		Return(nil, verr)

	handler.create(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "Made Wirawan", got.CustomerName)
	require.Len(t, got.DecodeErrors, 2)
	assert.Equal(t, "quantity", got.DecodeErrors[0].Field)
	assert.Equal(t, "bookable_id", got.DecodeErrors[1].Field)
	assert.NotContains(t, w.Body.String(), "Go struct field")
	mockService.AssertExpectations(t)
}

func TestBookingHandler_show(t *testing.T) {
	mockService := &MockBookingUseCase{}
	log, _ := test.NewNullLogger()
	handler := NewBookingHandler(mockService, log)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "ref", Value: "BK202610200042"}}
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/bookings/BK202610200042", nil)

	details := &booking.BookingDetails{Booking: testBooking(), Bookable: testTicket()}
	mockService.On("GetBooking", c.Request.Context(), "BK202610200042").Return(details, nil)

	handler.show(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Booking  bookingResponse `json:"booking"`
		Bookable ticketResponse  `json:"bookable"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "BK202610200042", response.Booking.BookingNumber)
	assert.Equal(t, "ticket", response.Bookable.Type)
	assert.Equal(t, "Sanur", response.Bookable.DepartureLocation)

	mockService.AssertExpectations(t)
}

func TestBookingHandler_showRemovedItem(t *testing.T) {
	mockService := &MockBookingUseCase{}
	log, _ := test.NewNullLogger()
	handler := NewBookingHandler(mockService, log)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "ref", Value: "1"}}
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/bookings/1", nil)

	mockService.On("GetBooking", mock.Anything, "1").
		Return(&booking.BookingDetails{Booking: testBooking()}, nil)

	handler.show(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"bookable":null`)
}

func TestBookingHandler_showNotFound(t *testing.T) {
	mockService := &MockBookingUseCase{}
	log, _ := test.NewNullLogger()
	handler := NewBookingHandler(mockService, log)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "ref", Value: "BK000000000000"}}
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/bookings/BK000000000000", nil)

	mockService.On("GetBooking", mock.Anything, "BK000000000000").
		Return(nil, domain.NotFoundError{Resource: "booking", Key: "BK000000000000"})

	handler.show(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBookingHandler_internalError(t *testing.T) {
	mockService := &MockBookingUseCase{}
	log, hook := test.NewNullLogger()
	handler := NewBookingHandler(mockService, log)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "ref", Value: "7"}}
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/bookings/7", nil)

	mockService.On("GetBooking", mock.Anything, "7").Return(nil, errors.New("connection reset"))

	handler.show(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection reset")
	require.Len(t, hook.Entries, 1)
	assert.Equal(t, "request failed", hook.LastEntry().Message)
}
