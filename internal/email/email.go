// Package email turns booking events into customer notifications. Delivery
// and e-ticket rendering are external collaborators; the sender records
// what would be sent.
package email

import (
	"context"
	"fmt"

	"github.com/Domenick1991/fastboat/internal/kafka"
	"github.com/sirupsen/logrus"
)

type Message struct {
	To      string
	Subject string
	Body    string
}

type Sender struct {
	log logrus.FieldLogger
}

func NewSender(log logrus.FieldLogger) *Sender {
	return &Sender{log: log}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	msg, ok := Compose(event)
	if !ok {
		return nil
	}
	s.log.WithFields(logrus.Fields{
		"to":             msg.To,
		"booking_number": event.BookingNumber,
		"event":          event.Type,
	}).Info(msg.Subject)
	return nil
}

// Compose builds the notification for event. Event types without a
// customer-facing message report false.
func Compose(event kafka.BookingEvent) (Message, bool) {
	if event.CustomerEmail == "" {
		return Message{}, false
	}
	msg := Message{To: event.CustomerEmail}
	switch event.Type {
	case kafka.EventBookingCreated:
		msg.Subject = fmt.Sprintf("Booking %s received", event.BookingNumber)
		msg.Body = fmt.Sprintf("Dear %s, your booking for %s is awaiting payment.", event.CustomerName, event.ServiceDate)
	case kafka.EventBookingPaid:
		msg.Subject = fmt.Sprintf("E-ticket for booking %s", event.BookingNumber)
		msg.Body = fmt.Sprintf("Dear %s, payment %s is confirmed. Your e-ticket is attached.", event.CustomerName, event.PaymentReference)
	case kafka.EventPaymentDeferred:
		msg.Subject = fmt.Sprintf("Booking %s confirmed", event.BookingNumber)
		msg.Body = fmt.Sprintf("Dear %s, please visit our office to pay for your booking.", event.CustomerName)
	case kafka.EventBookingCancelled:
		msg.Subject = fmt.Sprintf("Booking %s cancelled", event.BookingNumber)
		msg.Body = fmt.Sprintf("Dear %s, your booking has been cancelled.", event.CustomerName)
	default:
		return Message{}, false
	}
	return msg, true
}
