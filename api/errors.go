package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/Domenick1991/fastboat/internal/domain"
	"github.com/Domenick1991/fastboat/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const msgMalformedBody = "Malformed request body."

type fieldErrorResponse struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error     string               `json:"error"`
	Fields    []fieldErrorResponse `json:"fields,omitempty"`
	Status    string               `json:"status,omitempty"`
	RequestID string               `json:"request_id,omitempty"`
}

// respondError maps service errors to HTTP statuses. Anything unknown is
// logged and reported as 500 without internal details.
func respondError(c *gin.Context, log logrus.FieldLogger, err error) {
	resp := errorResponse{Error: err.Error(), RequestID: requestID(c)}
	status := http.StatusInternalServerError

	var (
		verr     domain.ValidationError
		nf       domain.NotFoundError
		conflict domain.StateConflictError
		method   domain.InvalidPaymentMethodError
		blocked  domain.ConflictError
	)
	switch {
	case errors.As(err, &verr):
		status = http.StatusUnprocessableEntity
		resp.Error = "The given data was invalid."
		for _, f := range verr.Fields {
			resp.Fields = append(resp.Fields, fieldErrorResponse{Field: f.Field, Message: f.Message})
		}
	case errors.As(err, &nf):
		status = http.StatusNotFound
	case errors.As(err, &conflict):
		status = http.StatusConflict
		resp.Status = string(conflict.Status)
	case errors.As(err, &method):
		status = http.StatusUnprocessableEntity
		resp.Error = "Invalid payment method."
		resp.Fields = []fieldErrorResponse{{Field: "payment_method", Message: resp.Error}}
	case errors.As(err, &blocked):
		status = http.StatusConflict
	default:
		log.WithError(err).WithFields(logrus.Fields{
			"request_id": resp.RequestID,
			"path":       c.FullPath(),
		}).Error("request failed")
		resp.Error = http.StatusText(http.StatusInternalServerError)
	}

	c.AbortWithStatusJSON(status, resp)
}

// respondBadRequest sends a fixed message. Decoder and parser errors never
// reach the client.
func respondBadRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: msg, RequestID: requestID(c)})
}

func respondMalformedBody(c *gin.Context, log logrus.FieldLogger, err error) {
	log.WithError(err).WithFields(logrus.Fields{
		"request_id": requestID(c),
		"path":       c.FullPath(),
	}).Warn("malformed request body")
	respondBadRequest(c, msgMalformedBody)
}

// bindJSON decodes the request body into dst and returns the fields that
// had the wrong JSON type, for the service to report with the rest of its
// validation. Any other decode failure is answered with 400 and ok is
// false. allowEmpty accepts a missing body and leaves dst as is.
func bindJSON(c *gin.Context, log logrus.FieldLogger, dst any, allowEmpty bool) (fields []domain.FieldError, ok bool) {
	body, err := c.GetRawData()
	if err == nil {
		fields, err = validation.DecodeJSON(body, dst)
		if err == nil || (allowEmpty && errors.Is(err, io.EOF)) {
			return fields, true
		}
	}
	respondMalformedBody(c, log, err)
	return nil, false
}
