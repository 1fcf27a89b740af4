package api

import (
	"net/http"

	"github.com/Domenick1991/fastboat/internal/service/payment"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type PaymentHandler struct {
	service payment.PaymentUseCase
	log     logrus.FieldLogger
}

func NewPaymentHandler(service payment.PaymentUseCase, log logrus.FieldLogger) *PaymentHandler {
	return &PaymentHandler{service: service, log: log}
}

func (h *PaymentHandler) Register(router *gin.RouterGroup, idempotency gin.HandlerFunc) {
	router.GET("/:number", h.show)
	router.POST("/:number", idempotency, h.resolve)
}

func (h *PaymentHandler) show(c *gin.Context) {
	page, err := h.service.ShowPayment(c.Request.Context(), c.Param("number"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	if page.AlreadyPaid {
		c.JSON(http.StatusOK, redirectResponse{Redirect: "/api/v1/bookings/" + page.Booking.Number})
		return
	}

	methods := make([]string, 0, len(page.Methods))
	for _, m := range page.Methods {
		methods = append(methods, string(m))
	}
	c.JSON(http.StatusOK, paymentPageResponse{
		Booking:  toBookingResponse(page.Booking),
		Bookable: toBookableResponse(page.Bookable),
		BankDetails: bankDetailsResponse{
			BankName:      page.BankDetails.BankName,
			AccountNumber: page.BankDetails.AccountNumber,
			AccountName:   page.BankDetails.AccountName,
			Branch:        page.BankDetails.Branch,
		},
		Methods: methods,
	})
}

// resolve accepts an empty body, in which case the booking's own payment
// method is used.
func (h *PaymentHandler) resolve(c *gin.Context) {
	var req payment.ResolvePaymentInput
	decodeErrs, ok := bindJSON(c, h.log, &req, true)
	if !ok {
		return
	}
	req.BookingNumber = c.Param("number")
	req.DecodeErrors = decodeErrs

	result, err := h.service.ResolvePayment(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, paymentResultResponse{
		Message: result.Message,
		Booking: toBookingResponse(result.Booking),
	})
}
