package repository

import (
	"context"
	"fmt"

	"food-ordering/internal/data/entity"
	"food-ordering/pkg/database"

	"go.uber.org/zap"
)

type BannerRepository interface {
	FindActive(ctx context.Context) ([]*entity.Banner, error)
}

type bannerRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBannerRepository(db database.PgxIface, log *zap.Logger) BannerRepository {
	return &bannerRepository{
		db:  db,
		log: log.With(zap.String("repository", "banner")),
	}
}

func (r *bannerRepository) FindActive(ctx context.Context) ([]*entity.Banner, error) {
	query := `
		SELECT id, vendor_id, title, image, position, is_active, created_at, updated_at
		FROM banners
		WHERE is_active = true
		ORDER BY position
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to list active banners", zap.Error(err))
		return nil, fmt.Errorf("list active banners: %w", err)
	}
	defer rows.Close()

	var banners []*entity.Banner
	for rows.Next() {
		var banner entity.Banner
		err := rows.Scan(
			&banner.ID,
			&banner.VendorID,
			&banner.Title,
			&banner.Image,
			&banner.Position,
			&banner.IsActive,
			&banner.CreatedAt,
			&banner.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan banner row", zap.Error(err))
			return nil, fmt.Errorf("scan banner row: %w", err)
		}
		banners = append(banners, &banner)
	}

	return banners, rows.Err()
}
