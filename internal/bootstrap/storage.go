package bootstrap

import (
	"context"
	"fmt"

	"github.com/Domenick1991/fastboat/config"
	"github.com/Domenick1991/fastboat/internal/repository"
	"github.com/Domenick1991/fastboat/internal/repository/memory"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

type Repositories struct {
	Tickets  repository.TicketRepository
	Packages repository.PackageRepository
	Bookings repository.BookingRepository

	close func()
}

func (r *Repositories) Close() {
	if r.close != nil {
		r.close()
	}
}

// OpenRepositories connects the configured storage driver. The memory
// driver starts with the default catalog seeded.
func OpenRepositories(ctx context.Context, cfg config.DatabaseConfig, log logrus.FieldLogger) (*Repositories, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		store := memory.New()
		if err := repository.SeedCatalog(ctx, store.Tickets(), store.Packages()); err != nil {
			return nil, fmt.Errorf("seed catalog: %w", err)
		}
		log.Warn("using in-memory storage, data is lost on restart")
		return &Repositories{
			Tickets:  store.Tickets(),
			Packages: store.Packages(),
			Bookings: store.Bookings(),
		}, nil
	default:
		pool, err := pgxpool.New(ctx, cfg.DSN())
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("ping postgres: %w", err)
		}
		return &Repositories{
			Tickets:  repository.NewTicketRepository(pool),
			Packages: repository.NewPackageRepository(pool),
			Bookings: repository.NewBookingRepository(pool),
			close:    pool.Close,
		}, nil
	}
}
