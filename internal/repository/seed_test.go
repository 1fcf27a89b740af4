package repository

import (
	"context"
	"testing"

	"github.com/Domenick1991/fastboat/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingTickets struct {
	TicketRepository
	created []domain.Ticket
}

func (r *recordingTickets) Create(_ context.Context, t *domain.Ticket) error {
	t.ID = int64(len(r.created) + 1)
	r.created = append(r.created, *t)
	return nil
}

type recordingPackages struct {
	PackageRepository
	created []domain.TourPackage
}

func (r *recordingPackages) Create(_ context.Context, p *domain.TourPackage) error {
	p.ID = int64(len(r.created) + 1)
	r.created = append(r.created, *p)
	return nil
}

func TestSeedCatalog_prices(t *testing.T) {
	tickets := &recordingTickets{}
	packages := &recordingPackages{}

	require.NoError(t, SeedCatalog(context.Background(), tickets, packages))

	ticketPrices := map[string]int64{}
	for _, ticket := range tickets.created {
		ticketPrices[ticket.Name] = ticket.PriceCents
	}
	assert.Equal(t, map[string]int64{
		"Sanur to Nusa Penida Express": 7500000,
		"Sanur to Nusa Penida Morning": 7500000,
		"Sanur to Gili Trawangan":      12500000,
		"Nusa Penida to Sanur Return":  7500000,
		"Padang Bai to Lombok":         15000000,
	}, ticketPrices)

	packagePrices := map[string]int64{}
	for _, pkg := range packages.created {
		packagePrices[pkg.Name] = pkg.PriceCents
	}
	assert.Equal(t, map[string]int64{
		"Nusa Penida Full Day Adventure": 45000000,
		"Gili Islands Hopping 2D1N":      85000000,
		"Lombok Cultural Heritage Tour":  55000000,
		"Bali East Coast Explorer 3D2N":  120000000,
		"Ultimate Island Paradise 4D3N":  250000000,
	}, packagePrices)
}

func TestSeedCatalog_allActive(t *testing.T) {
	tickets := &recordingTickets{}
	packages := &recordingPackages{}

	require.NoError(t, SeedCatalog(context.Background(), tickets, packages))

	for _, ticket := range tickets.created {
		assert.True(t, ticket.Active, ticket.Name)
		assert.Positive(t, ticket.Capacity, ticket.Name)
	}
	for _, pkg := range packages.created {
		assert.True(t, pkg.Active, pkg.Name)
		assert.Positive(t, pkg.DurationDays, pkg.Name)
	}
}
