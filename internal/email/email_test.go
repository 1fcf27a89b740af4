package email

import (
	"context"
	"testing"

	"github.com/Domenick1991/fastboat/internal/kafka"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompose(t *testing.T) {
	testCases := []struct {
		name        string
		event       kafka.BookingEvent
		wantOK      bool
		wantSubject string
	}{
		{"created", kafka.BookingEvent{Type: kafka.EventBookingCreated, BookingNumber: "BK1", CustomerEmail: "a@b.c"}, true, "Booking BK1 received"},
		{"paid", kafka.BookingEvent{Type: kafka.EventBookingPaid, BookingNumber: "BK1", CustomerEmail: "a@b.c"}, true, "E-ticket for booking BK1"},
		{"deferred", kafka.BookingEvent{Type: kafka.EventPaymentDeferred, BookingNumber: "BK1", CustomerEmail: "a@b.c"}, true, "Booking BK1 confirmed"},
		{"cancelled", kafka.BookingEvent{Type: kafka.EventBookingCancelled, BookingNumber: "BK1", CustomerEmail: "a@b.c"}, true, "Booking BK1 cancelled"},
		{"unknown type", kafka.BookingEvent{Type: "something", CustomerEmail: "a@b.c"}, false, ""},
		{"no recipient", kafka.BookingEvent{Type: kafka.EventBookingPaid}, false, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			msg, ok := Compose(tc.event)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.wantSubject, msg.Subject)
		})
	}
}

func TestSender_Send(t *testing.T) {
	logger, hook := test.NewNullLogger()
	sender := NewSender(logger)

	err := sender.Send(context.Background(), kafka.BookingEvent{
		Type:          kafka.EventBookingPaid,
		BookingNumber: "BK202501010001",
		CustomerEmail: "jane@example.com",
	})

	require.NoError(t, err)
	require.Len(t, hook.Entries, 1)
	assert.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)
	assert.Equal(t, "jane@example.com", hook.LastEntry().Data["to"])
}
