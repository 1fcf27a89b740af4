package repository

import (
	"context"

	"github.com/Domenick1991/fastboat/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

const packageColumns = `id, name, description, itinerary, price_cents, COALESCE(image_path, ''), duration_days, is_active, created_at, updated_at`

type PGPackageRepository struct {
	db *pgxpool.Pool
}

func NewPackageRepository(db *pgxpool.Pool) PackageRepository {
	return &PGPackageRepository{db: db}
}

func (r *PGPackageRepository) ListActive(ctx context.Context) ([]domain.TourPackage, error) {
	return r.list(ctx, `SELECT `+packageColumns+` FROM tour_packages WHERE is_active ORDER BY name`)
}

func (r *PGPackageRepository) List(ctx context.Context, limit int) ([]domain.TourPackage, error) {
	return r.list(ctx, `SELECT `+packageColumns+` FROM tour_packages ORDER BY created_at DESC, id DESC LIMIT $1`, limit)
}

func (r *PGPackageRepository) list(ctx context.Context, query string, args ...any) ([]domain.TourPackage, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	packages := make([]domain.TourPackage, 0)
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, err
		}
		packages = append(packages, *p)
	}
	return packages, rows.Err()
}

func (r *PGPackageRepository) GetActive(ctx context.Context, id int64) (*domain.TourPackage, error) {
	p, err := scanPackage(r.db.QueryRow(ctx, `SELECT `+packageColumns+` FROM tour_packages WHERE id=$1 AND is_active`, id))
	return p, notFound(err)
}

func (r *PGPackageRepository) GetByID(ctx context.Context, id int64) (*domain.TourPackage, error) {
	p, err := scanPackage(r.db.QueryRow(ctx, `SELECT `+packageColumns+` FROM tour_packages WHERE id=$1`, id))
	return p, notFound(err)
}

func (r *PGPackageRepository) CountActive(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM tour_packages WHERE is_active`).Scan(&n)
	return n, err
}

func (r *PGPackageRepository) Create(ctx context.Context, p *domain.TourPackage) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO tour_packages (name, description, itinerary, price_cents, image_path, duration_days, is_active)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7)
		RETURNING id, created_at, updated_at`,
		p.Name, p.Description, p.Itinerary, p.PriceCents, p.ImagePath, p.DurationDays, p.Active).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *PGPackageRepository) Update(ctx context.Context, p *domain.TourPackage) error {
	err := r.db.QueryRow(ctx, `
		UPDATE tour_packages
		SET name=$2, description=$3, itinerary=$4, price_cents=$5, image_path=NULLIF($6, ''),
		    duration_days=$7, is_active=$8, updated_at=now()
		WHERE id=$1
		RETURNING created_at, updated_at`,
		p.ID, p.Name, p.Description, p.Itinerary, p.PriceCents, p.ImagePath, p.DurationDays, p.Active).
		Scan(&p.CreatedAt, &p.UpdatedAt)
	return notFound(err)
}

func scanPackage(row rowScanner) (*domain.TourPackage, error) {
	var p domain.TourPackage
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Itinerary, &p.PriceCents, &p.ImagePath,
		&p.DurationDays, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

var _ PackageRepository = (*PGPackageRepository)(nil)
