package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/Domenick1991/fastboat/internal/domain"
	"github.com/Domenick1991/fastboat/internal/repository"
)

type CatalogUseCase interface {
	ListActiveTickets(ctx context.Context) ([]domain.Ticket, error)
	ListActivePackages(ctx context.Context) ([]domain.TourPackage, error)
	GetActive(ctx context.Context, ref domain.BookableRef) (domain.Bookable, error)
	Get(ctx context.Context, ref domain.BookableRef) (domain.Bookable, error)
}

// CatalogService reads straight from storage on every call so that prices
// and the active flag are always current.
type CatalogService struct {
	tickets  repository.TicketRepository
	packages repository.PackageRepository
}

func NewCatalogService(tickets repository.TicketRepository, packages repository.PackageRepository) *CatalogService {
	return &CatalogService{tickets: tickets, packages: packages}
}

func (s *CatalogService) ListActiveTickets(ctx context.Context) ([]domain.Ticket, error) {
	return s.tickets.ListActive(ctx)
}

func (s *CatalogService) ListActivePackages(ctx context.Context) ([]domain.TourPackage, error) {
	return s.packages.ListActive(ctx)
}

// GetActive returns the item only while it is purchasable.
func (s *CatalogService) GetActive(ctx context.Context, ref domain.BookableRef) (domain.Bookable, error) {
	switch ref.Type {
	case domain.BookableTicket:
		t, err := s.tickets.GetActive(ctx, ref.ID)
		if err != nil {
			return nil, lookupError(ref, err)
		}
		return t, nil
	case domain.BookablePackage:
		p, err := s.packages.GetActive(ctx, ref.ID)
		if err != nil {
			return nil, lookupError(ref, err)
		}
		return p, nil
	default:
		return nil, domain.NotFoundError{Resource: "bookable", Key: ref.String()}
	}
}

// Get resolves the item regardless of its active flag, for display of
// existing bookings.
func (s *CatalogService) Get(ctx context.Context, ref domain.BookableRef) (domain.Bookable, error) {
	switch ref.Type {
	case domain.BookableTicket:
		t, err := s.tickets.GetByID(ctx, ref.ID)
		if err != nil {
			return nil, lookupError(ref, err)
		}
		return t, nil
	case domain.BookablePackage:
		p, err := s.packages.GetByID(ctx, ref.ID)
		if err != nil {
			return nil, lookupError(ref, err)
		}
		return p, nil
	default:
		return nil, domain.NotFoundError{Resource: "bookable", Key: ref.String()}
	}
}

func lookupError(ref domain.BookableRef, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return domain.NotFoundError{Resource: string(ref.Type), Key: strconv.FormatInt(ref.ID, 10), Err: err}
	}
	return fmt.Errorf("load %s: %w", ref, err)
}

var _ CatalogUseCase = (*CatalogService)(nil)
