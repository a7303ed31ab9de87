package repository

import (
	"context"
	"fmt"

	"food-ordering/internal/data/entity"
	"food-ordering/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type VendorRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Vendor, error)
	FindAll(ctx context.Context, limit, offset int) ([]*entity.Vendor, error)
	Count(ctx context.Context) (int64, error)
}

type vendorRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewVendorRepository(db database.PgxIface, log *zap.Logger) VendorRepository {
	return &vendorRepository{
		db:  db,
		log: log.With(zap.String("repository", "vendor")),
	}
}

const vendorColumns = `id, name, description, image, address, latitude, longitude,
	phone, rating, is_open, is_active, created_at, updated_at`

func scanVendor(row pgx.Row) (*entity.Vendor, error) {
	var vendor entity.Vendor
	err := row.Scan(
		&vendor.ID,
		&vendor.Name,
		&vendor.Description,
		&vendor.Image,
		&vendor.Address,
		&vendor.Latitude,
		&vendor.Longitude,
		&vendor.Phone,
		&vendor.Rating,
		&vendor.IsOpen,
		&vendor.IsActive,
		&vendor.CreatedAt,
		&vendor.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &vendor, nil
}

func (r *vendorRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Vendor, error) {
	query := `SELECT ` + vendorColumns + ` FROM vendors WHERE id = $1 AND is_active = true`

	vendor, err := scanVendor(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find vendor by ID",
			zap.Error(err),
			zap.String("vendor_id", id.String()),
		)
		return nil, fmt.Errorf("find vendor by ID %s: %w", id.String(), err)
	}

	return vendor, nil
}

func (r *vendorRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.Vendor, error) {
	query := `
		SELECT ` + vendorColumns + `
		FROM vendors
		WHERE is_active = true
		ORDER BY is_open DESC, rating DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to list vendors", zap.Error(err))
		return nil, fmt.Errorf("list vendors: %w", err)
	}
	defer rows.Close()

	var vendors []*entity.Vendor
	for rows.Next() {
		vendor, err := scanVendor(rows)
		if err != nil {
			r.log.Error("Failed to scan vendor row", zap.Error(err))
			return nil, fmt.Errorf("scan vendor row: %w", err)
		}
		vendors = append(vendors, vendor)
	}

	return vendors, rows.Err()
}

func (r *vendorRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM vendors WHERE is_active = true`).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count vendors", zap.Error(err))
		return 0, fmt.Errorf("count vendors: %w", err)
	}
	return count, nil
}
