package api

import (
	"time"

	"github.com/Domenick1991/fastboat/internal/domain"
	"github.com/Domenick1991/fastboat/internal/service/admin"
)

type ticketResponse struct {
	ID                int64  `json:"id"`
	Type              string `json:"type"`
	Name              string `json:"name"`
	Description       string `json:"description"`
	DepartureLocation string `json:"departure_location"`
	ArrivalLocation   string `json:"arrival_location"`
	DepartureTime     string `json:"departure_time"`
	PriceCents        int64  `json:"price_cents"`
	Capacity          int    `json:"capacity"`
	IsActive          bool   `json:"is_active"`
	BookingsCount     *int   `json:"bookings_count,omitempty"`
}

type packageResponse struct {
	ID           int64  `json:"id"`
	Type         string `json:"type"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Itinerary    string `json:"itinerary"`
	PriceCents   int64  `json:"price_cents"`
	ImagePath    string `json:"image_path,omitempty"`
	DurationDays int    `json:"duration_days"`
	IsActive     bool   `json:"is_active"`
}

type bookingResponse struct {
	ID               int64   `json:"id"`
	BookingNumber    string  `json:"booking_number"`
	CustomerName     string  `json:"customer_name"`
	CustomerEmail    string  `json:"customer_email"`
	CustomerPhone    string  `json:"customer_phone"`
	Quantity         int     `json:"quantity"`
	BookingDate      string  `json:"booking_date"`
	BookableType     string  `json:"bookable_type"`
	BookableID       int64   `json:"bookable_id"`
	TotalCents       int64   `json:"total_cents"`
	PaymentMethod    string  `json:"payment_method"`
	PaymentStatus    string  `json:"payment_status"`
	PaymentReference string  `json:"payment_reference,omitempty"`
	PaidAt           *string `json:"paid_at"`
	ETicketPath      string  `json:"eticket_path,omitempty"`
	CreatedAt        string  `json:"created_at"`
}

type bookingDetailsResponse struct {
	Booking  bookingResponse `json:"booking"`
	Bookable any             `json:"bookable"`
}

type bankDetailsResponse struct {
	BankName      string `json:"bank_name"`
	AccountNumber string `json:"account_number"`
	AccountName   string `json:"account_name"`
	Branch        string `json:"branch"`
}

type paymentPageResponse struct {
	Booking     bookingResponse     `json:"booking"`
	Bookable    any                 `json:"bookable"`
	BankDetails bankDetailsResponse `json:"bank_details"`
	Methods     []string            `json:"methods"`
}

type paymentResultResponse struct {
	Message string          `json:"message"`
	Booking bookingResponse `json:"booking"`
}

type redirectResponse struct {
	Redirect string `json:"redirect"`
}

type statsResponse struct {
	TotalTicketBookings  int   `json:"total_ticket_bookings"`
	TotalPackageBookings int   `json:"total_package_bookings"`
	TotalRevenueCents    int64 `json:"total_revenue_cents"`
	PendingBookings      int   `json:"pending_bookings"`
	ActiveTickets        int   `json:"active_tickets"`
	ActivePackages       int   `json:"active_packages"`
}

type dashboardResponse struct {
	Stats          statsResponse     `json:"stats"`
	RecentBookings []bookingResponse `json:"recent_bookings"`
}

type ticketDetailsResponse struct {
	Ticket   ticketResponse    `json:"ticket"`
	Bookings []bookingResponse `json:"bookings"`
}

func toTicketResponse(t *domain.Ticket) ticketResponse {
	return ticketResponse{
		ID:                t.ID,
		Type:              string(domain.BookableTicket),
		Name:              t.Name,
		Description:       t.Description,
		DepartureLocation: t.DepartureLocation,
		ArrivalLocation:   t.ArrivalLocation,
		DepartureTime:     t.DepartureTime,
		PriceCents:        t.PriceCents,
		Capacity:          t.Capacity,
		IsActive:          t.Active,
	}
}

func toPackageResponse(p *domain.TourPackage) packageResponse {
	return packageResponse{
		ID:           p.ID,
		Type:         string(domain.BookablePackage),
		Name:         p.Name,
		Description:  p.Description,
		Itinerary:    p.Itinerary,
		PriceCents:   p.PriceCents,
		ImagePath:    p.ImagePath,
		DurationDays: p.DurationDays,
		IsActive:     p.Active,
	}
}

// toBookableResponse renders whichever variant item holds; nil stays nil.
func toBookableResponse(item domain.Bookable) any {
	switch v := item.(type) {
	case *domain.Ticket:
		return toTicketResponse(v)
	case *domain.TourPackage:
		return toPackageResponse(v)
	default:
		return nil
	}
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	resp := bookingResponse{
		ID:               b.ID,
		BookingNumber:    b.Number,
		CustomerName:     b.CustomerName,
		CustomerEmail:    b.CustomerEmail,
		CustomerPhone:    b.CustomerPhone,
		Quantity:         b.Quantity,
		BookingDate:      b.ServiceDate.Format(time.DateOnly),
		BookableType:     string(b.Bookable.Type),
		BookableID:       b.Bookable.ID,
		TotalCents:       b.TotalCents,
		PaymentMethod:    string(b.PaymentMethod),
		PaymentStatus:    string(b.PaymentStatus),
		PaymentReference: b.PaymentReference,
		ETicketPath:      b.ETicketPath,
		CreatedAt:        b.CreatedAt.Format(time.RFC3339),
	}
	if b.PaidAt != nil {
		paidAt := b.PaidAt.Format(time.RFC3339)
		resp.PaidAt = &paidAt
	}
	return resp
}

func toBookingResponses(bookings []domain.Booking) []bookingResponse {
	out := make([]bookingResponse, 0, len(bookings))
	for i := range bookings {
		out = append(out, toBookingResponse(&bookings[i]))
	}
	return out
}

func toStatsResponse(s admin.Stats) statsResponse {
	return statsResponse{
		TotalTicketBookings:  s.TicketBookings,
		TotalPackageBookings: s.PackageBookings,
		TotalRevenueCents:    s.RevenueCents,
		PendingBookings:      s.PendingBookings,
		ActiveTickets:        s.ActiveTickets,
		ActivePackages:       s.ActivePackages,
	}
}
