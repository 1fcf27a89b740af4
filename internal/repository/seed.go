package repository

import (
	"context"
	"fmt"

	"github.com/Domenick1991/fastboat/internal/domain"
)

// SeedCatalog inserts the default routes and tour packages. It is used for
// local runs against the in-memory store.
func SeedCatalog(ctx context.Context, tickets TicketRepository, packages PackageRepository) error {
	for _, t := range defaultTickets() {
		if err := tickets.Create(ctx, &t); err != nil {
			return fmt.Errorf("seed ticket %q: %w", t.Name, err)
		}
	}
	for _, p := range defaultPackages() {
		if err := packages.Create(ctx, &p); err != nil {
			return fmt.Errorf("seed package %q: %w", p.Name, err)
		}
	}
	return nil
}

// rupiah converts a whole-rupiah price to the stored cents amount.
func rupiah(amount int64) int64 {
	return amount * 100
}

func defaultTickets() []domain.Ticket {
	return []domain.Ticket{
		{
			Name:              "Sanur to Nusa Penida Express",
			Description:       "Fast and comfortable journey from Sanur Beach to Nusa Penida.",
			DepartureLocation: "Sanur Beach",
			ArrivalLocation:   "Nusa Penida",
			DepartureTime:     "08:00",
			PriceCents:        rupiah(75000),
			Capacity:          50,
			Active:            true,
		},
		{
			Name:              "Sanur to Nusa Penida Morning",
			Description:       "Early departure for a full day on Nusa Penida. Crew and safety equipment included.",
			DepartureLocation: "Sanur Beach",
			ArrivalLocation:   "Nusa Penida",
			DepartureTime:     "09:30",
			PriceCents:        rupiah(75000),
			Capacity:          50,
			Active:            true,
		},
		{
			Name:              "Sanur to Gili Trawangan",
			Description:       "Direct route to Gili Trawangan.",
			DepartureLocation: "Sanur Beach",
			ArrivalLocation:   "Gili Trawangan",
			DepartureTime:     "10:00",
			PriceCents:        rupiah(125000),
			Capacity:          40,
			Active:            true,
		},
		{
			Name:              "Nusa Penida to Sanur Return",
			Description:       "Return journey from Nusa Penida to Sanur.",
			DepartureLocation: "Nusa Penida",
			ArrivalLocation:   "Sanur Beach",
			DepartureTime:     "15:30",
			PriceCents:        rupiah(75000),
			Capacity:          50,
			Active:            true,
		},
		{
			Name:              "Padang Bai to Lombok",
			Description:       "Cross-island journey to Lombok.",
			DepartureLocation: "Padang Bai",
			ArrivalLocation:   "Lombok",
			DepartureTime:     "11:00",
			PriceCents:        rupiah(150000),
			Capacity:          60,
			Active:            true,
		},
	}
}

func defaultPackages() []domain.TourPackage {
	return []domain.TourPackage{
		{
			Name:         "Nusa Penida Full Day Adventure",
			Description:  "Kelingking Beach, Angel's Billabong and Broken Beach with lunch and guide.",
			Itinerary:    "07:00 pickup, 08:00 fastboat, 09:30 Kelingking, 12:30 lunch, 17:00 return",
			PriceCents:   rupiah(450000),
			DurationDays: 1,
			Active:       true,
		},
		{
			Name:         "Gili Islands Hopping 2D1N",
			Description:  "Trawangan, Meno and Air with accommodation and meals.",
			Itinerary:    "Day 1: transfer, check-in, sunset. Day 2: island hopping, snorkeling, return.",
			PriceCents:   rupiah(850000),
			DurationDays: 2,
			Active:       true,
		},
		{
			Name:         "Lombok Cultural Heritage Tour",
			Description:  "Sasak villages, weaving demonstrations, temples and markets.",
			Itinerary:    "08:00 fastboat, 10:00 Sukarara, 11:30 Sade, 13:00 lunch, 14:30 Lingsar, 17:30 return",
			PriceCents:   rupiah(550000),
			DurationDays: 1,
			Active:       true,
		},
		{
			Name:         "Bali East Coast Explorer 3D2N",
			Description:  "Amed, Tulamben and Sidemen for divers and nature lovers.",
			Itinerary:    "Day 1: Amed, wreck snorkeling. Day 2: Tulamben dive, Tirta Gangga, Sidemen. Day 3: sunrise yoga, markets, return.",
			PriceCents:   rupiah(1200000),
			DurationDays: 3,
			Active:       true,
		},
		{
			Name:         "Ultimate Island Paradise 4D3N",
			Description:  "Nusa Penida, the Gili Islands and Lombok with private guides and transfers.",
			Itinerary:    "Day 1: Nusa Penida. Day 2: Gili Trawangan. Day 3: Gili Meno and Gili Air. Day 4: Lombok, return.",
			PriceCents:   rupiah(2500000),
			DurationDays: 4,
			Active:       true,
		},
	}
}
