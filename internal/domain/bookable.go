package domain

import (
	"fmt"
	"strings"
)

type BookableType string

const (
	BookableTicket  BookableType = "ticket"
	BookablePackage BookableType = "package"
)

// ParseBookableType accepts the canonical tags plus the "fastboat" and
// "tour" aliases used by the storefront links.
func ParseBookableType(s string) (BookableType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ticket", "fastboat":
		return BookableTicket, true
	case "package", "tour":
		return BookablePackage, true
	default:
		return "", false
	}
}

// BookableRef is the (variant, id) pair a booking stores instead of a
// foreign key.
type BookableRef struct {
	Type BookableType
	ID   int64
}

func (r BookableRef) String() string {
	return fmt.Sprintf("%s:%d", r.Type, r.ID)
}

// Bookable is the closed set of catalog items a booking can reference.
// Only *Ticket and *TourPackage implement it.
type Bookable interface {
	Ref() BookableRef
	Title() string
	UnitPriceCents() int64
	IsActive() bool

	bookable()
}
