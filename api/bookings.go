package api

import (
	"net/http"

	"github.com/Domenick1991/fastboat/internal/service/booking"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type BookingHandler struct {
	service booking.BookingUseCase
	log     logrus.FieldLogger
}

func NewBookingHandler(service booking.BookingUseCase, log logrus.FieldLogger) *BookingHandler {
	return &BookingHandler{service: service, log: log}
}

func (h *BookingHandler) Register(router *gin.RouterGroup, idempotency gin.HandlerFunc) {
	router.POST("", idempotency, h.create)
	router.GET("/:ref", h.show)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req booking.CreateBookingInput
	decodeErrs, ok := bindJSON(c, h.log, &req, false)
	if !ok {
		return
	}
	req.DecodeErrors = decodeErrs

	b, err := h.service.CreateBooking(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.Header("Location", "/api/v1/payments/"+b.Number)
	c.JSON(http.StatusCreated, toBookingResponse(b))
}

// show accepts either a booking number or a numeric id.
func (h *BookingHandler) show(c *gin.Context) {
	details, err := h.service.GetBooking(c.Request.Context(), c.Param("ref"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, bookingDetailsResponse{
		Booking:  toBookingResponse(details.Booking),
		Bookable: toBookableResponse(details.Bookable),
	})
}
