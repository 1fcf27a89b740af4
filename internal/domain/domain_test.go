package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePaymentMethod(t *testing.T) {
	cases := map[string]PaymentMethod{
		"credit_card":   PaymentMethodCard,
		"card":          PaymentMethodCard,
		"bank-transfer": PaymentMethodBankTransfer,
		"BANK_TRANSFER": PaymentMethodBankTransfer,
		"pay_at_office": PaymentMethodPayAtOffice,
	}
	for in, want := range cases {
		got, ok := ParsePaymentMethod(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	_, ok := ParsePaymentMethod("crypto")
	assert.False(t, ok)
}

func TestParseBookableType(t *testing.T) {
	got, ok := ParseBookableType("fastboat")
	assert.True(t, ok)
	assert.Equal(t, BookableTicket, got)

	got, ok = ParseBookableType("tour")
	assert.True(t, ok)
	assert.Equal(t, BookablePackage, got)

	_, ok = ParseBookableType("App\\Models\\Hotel")
	assert.False(t, ok)
}

func TestPaymentStatus_CanTransitionTo(t *testing.T) {
	assert.True(t, PaymentStatusPending.CanTransitionTo(PaymentStatusPaid))
	assert.True(t, PaymentStatusPending.CanTransitionTo(PaymentStatusCancelled))
	assert.False(t, PaymentStatusPaid.CanTransitionTo(PaymentStatusPending))
	assert.False(t, PaymentStatusCancelled.CanTransitionTo(PaymentStatusPaid))
	assert.False(t, PaymentStatusPending.CanTransitionTo(PaymentStatusPending))
}

func TestValidationError_UnwrapsFieldCauses(t *testing.T) {
	cause := errors.New("item inactive")
	err := error(ValidationError{Fields: []FieldError{
		{Field: "quantity", Message: "too many"},
		{Field: "bookable_id", Message: "unavailable", Err: cause},
	}})

	assert.True(t, IsValidation(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "quantity: too many")

	var verr ValidationError
	assert.True(t, errors.As(err, &verr))
	f, ok := verr.Field("bookable_id")
	assert.True(t, ok)
	assert.Equal(t, "unavailable", f.Message)
}

func TestLooksLikeBookingNumber(t *testing.T) {
	assert.True(t, LooksLikeBookingNumber("BK202610200042"))
	assert.False(t, LooksLikeBookingNumber("42"))
	assert.False(t, LooksLikeBookingNumber("BK2026102"))
}

func TestBookableInterface(t *testing.T) {
	var b Bookable = &Ticket{ID: 5, Name: "Sanur - Nusa Penida", PriceCents: 75000, Active: false}
	assert.Equal(t, BookableRef{Type: BookableTicket, ID: 5}, b.Ref())
	assert.Equal(t, "ticket:5", b.Ref().String())
	assert.False(t, b.IsActive())
	assert.Equal(t, int64(75000), b.UnitPriceCents())
}
