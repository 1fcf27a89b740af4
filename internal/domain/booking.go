package domain

import (
	"regexp"
	"strings"
	"time"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusPaid      PaymentStatus = "paid"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

// CanTransitionTo reports whether moving to next is a legal forward step.
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	return s == PaymentStatusPending && (next == PaymentStatusPaid || next == PaymentStatusCancelled)
}

type PaymentMethod string

const (
	PaymentMethodCard         PaymentMethod = "credit_card"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodPayAtOffice  PaymentMethod = "pay_at_office"
)

var PaymentMethods = []PaymentMethod{PaymentMethodCard, PaymentMethodBankTransfer, PaymentMethodPayAtOffice}

// ParsePaymentMethod normalizes user input; "card" and dashed spellings
// are accepted as aliases.
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_") {
	case "credit_card", "card":
		return PaymentMethodCard, true
	case "bank_transfer":
		return PaymentMethodBankTransfer, true
	case "pay_at_office":
		return PaymentMethodPayAtOffice, true
	default:
		return "", false
	}
}

type Booking struct {
	ID               int64
	Number           string
	CustomerName     string
	CustomerEmail    string
	CustomerPhone    string
	Quantity         int
	ServiceDate      time.Time
	Bookable         BookableRef
	TotalCents       int64
	PaymentMethod    PaymentMethod
	PaymentStatus    PaymentStatus
	PaymentReference string
	PaidAt           *time.Time
	ETicketPath      string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (b *Booking) IsPending() bool {
	return b.PaymentStatus == PaymentStatusPending
}

var bookingNumberPattern = regexp.MustCompile(`^BK\d{12}$`)

// LooksLikeBookingNumber distinguishes booking numbers from numeric ids
// in lookups that accept either.
func LooksLikeBookingNumber(s string) bool {
	return bookingNumberPattern.MatchString(s)
}

// BankDetails is the static account shown on the payment page.
type BankDetails struct {
	BankName      string
	AccountNumber string
	AccountName   string
	Branch        string
}

type BookingStats struct {
	TicketBookings  int
	PackageBookings int
	RevenueCents    int64
	PendingBookings int
}
