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

type FoodRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Food, error)
	FindByVendorID(ctx context.Context, vendorID uuid.UUID, limit, offset int) ([]*entity.Food, error)
	CountByVendorID(ctx context.Context, vendorID uuid.UUID) (int64, error)
}

type foodRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewFoodRepository(db database.PgxIface, log *zap.Logger) FoodRepository {
	return &foodRepository{
		db:  db,
		log: log.With(zap.String("repository", "food")),
	}
}

const foodColumns = `id, vendor_id, name, description, image, food_type, price,
	discount_price, packing_charge, is_available, is_prebook,
	prebook_from, prebook_until, created_at, updated_at`

func scanFood(row pgx.Row) (*entity.Food, error) {
	var food entity.Food
	err := row.Scan(
		&food.ID,
		&food.VendorID,
		&food.Name,
		&food.Description,
		&food.Image,
		&food.FoodType,
		&food.Price,
		&food.DiscountPrice,
		&food.PackingCharge,
		&food.IsAvailable,
		&food.IsPrebook,
		&food.PrebookFrom,
		&food.PrebookUntil,
		&food.CreatedAt,
		&food.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &food, nil
}

func (r *foodRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Food, error) {
	query := `SELECT ` + foodColumns + ` FROM foods WHERE id = $1`

	food, err := scanFood(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find food by ID",
			zap.Error(err),
			zap.String("food_id", id.String()),
		)
		return nil, fmt.Errorf("find food by ID %s: %w", id.String(), err)
	}

	return food, nil
}

func (r *foodRepository) FindByVendorID(ctx context.Context, vendorID uuid.UUID, limit, offset int) ([]*entity.Food, error) {
	query := `
		SELECT ` + foodColumns + `
		FROM foods
		WHERE vendor_id = $1 AND is_available = true
		ORDER BY name
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, vendorID, limit, offset)
	if err != nil {
		r.log.Error("Failed to list foods by vendor",
			zap.Error(err),
			zap.String("vendor_id", vendorID.String()),
		)
		return nil, fmt.Errorf("list foods for vendor %s: %w", vendorID.String(), err)
	}
	defer rows.Close()

	var foods []*entity.Food
	for rows.Next() {
		food, err := scanFood(rows)
		if err != nil {
			r.log.Error("Failed to scan food row", zap.Error(err))
			return nil, fmt.Errorf("scan food row: %w", err)
		}
		foods = append(foods, food)
	}

	return foods, rows.Err()
}

func (r *foodRepository) CountByVendorID(ctx context.Context, vendorID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM foods WHERE vendor_id = $1 AND is_available = true`,
		vendorID,
	).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count foods by vendor",
			zap.Error(err),
			zap.String("vendor_id", vendorID.String()),
		)
		return 0, fmt.Errorf("count foods for vendor %s: %w", vendorID.String(), err)
	}
	return count, nil
}
