package domain

import "time"

type Ticket struct {
	ID                int64
	Name              string
	Description       string
	DepartureLocation string
	ArrivalLocation   string
	DepartureTime     string // HH:MM
	PriceCents        int64
	Capacity          int
	Active            bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (t *Ticket) Ref() BookableRef      { return BookableRef{Type: BookableTicket, ID: t.ID} }
func (t *Ticket) Title() string         { return t.Name }
func (t *Ticket) UnitPriceCents() int64 { return t.PriceCents }
func (t *Ticket) IsActive() bool        { return t.Active }
func (*Ticket) bookable()               {}

type TourPackage struct {
	ID           int64
	Name         string
	Description  string
	Itinerary    string
	PriceCents   int64
	ImagePath    string
	DurationDays int
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (p *TourPackage) Ref() BookableRef      { return BookableRef{Type: BookablePackage, ID: p.ID} }
func (p *TourPackage) Title() string         { return p.Name }
func (p *TourPackage) UnitPriceCents() int64 { return p.PriceCents }
func (p *TourPackage) IsActive() bool        { return p.Active }
func (*TourPackage) bookable()               {}

// TicketSummary is a ticket with the number of bookings referencing it.
type TicketSummary struct {
	Ticket
	BookingsCount int
}

var (
	_ Bookable = (*Ticket)(nil)
	_ Bookable = (*TourPackage)(nil)
)
