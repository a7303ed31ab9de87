package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"food-ordering/internal/data/entity"
	"food-ordering/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type CouponRepository interface {
	FindByCode(ctx context.Context, code string) (*entity.Coupon, error)
	HasUserUsed(ctx context.Context, couponID, userID uuid.UUID) (bool, error)
	RecordUsage(ctx context.Context, couponID, userID uuid.UUID) error
}

type couponRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewCouponRepository(db database.PgxIface, log *zap.Logger) CouponRepository {
	return &couponRepository{
		db:  db,
		log: log.With(zap.String("repository", "coupon")),
	}
}

func (r *couponRepository) FindByCode(ctx context.Context, code string) (*entity.Coupon, error) {
	query := `
		SELECT id, code, description, vendor_id, discount_type, discount_value,
		       max_discount_amount, min_order_amount, usage_limit, usage_count,
		       one_time_use, is_active, valid_from, valid_until, created_at, updated_at
		FROM coupons
		WHERE UPPER(code) = $1
	`

	var coupon entity.Coupon
	err := r.db.QueryRow(ctx, query, strings.ToUpper(code)).Scan(
		&coupon.ID,
		&coupon.Code,
		&coupon.Description,
		&coupon.VendorID,
		&coupon.DiscountType,
		&coupon.DiscountValue,
		&coupon.MaxDiscountAmount,
		&coupon.MinOrderAmount,
		&coupon.UsageLimit,
		&coupon.UsageCount,
		&coupon.OneTimeUse,
		&coupon.IsActive,
		&coupon.ValidFrom,
		&coupon.ValidUntil,
		&coupon.CreatedAt,
		&coupon.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find coupon by code",
			zap.Error(err),
			zap.String("code", code),
		)
		return nil, fmt.Errorf("find coupon by code %s: %w", code, err)
	}

	return &coupon, nil
}

func (r *couponRepository) HasUserUsed(ctx context.Context, couponID, userID uuid.UUID) (bool, error) {
	query := `SELECT COUNT(*) FROM coupon_usages WHERE coupon_id = $1 AND user_id = $2`

	var count int64
	err := r.db.QueryRow(ctx, query, couponID, userID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to check coupon usage",
			zap.Error(err),
			zap.String("coupon_id", couponID.String()),
			zap.String("user_id", userID.String()),
		)
		return false, fmt.Errorf("check coupon %s usage by user %s: %w", couponID.String(), userID.String(), err)
	}

	return count > 0, nil
}

// RecordUsage writes the per-user usage row and bumps the aggregate counter.
func (r *couponRepository) RecordUsage(ctx context.Context, couponID, userID uuid.UUID) error {
	usageQuery := `
		INSERT INTO coupon_usages (id, coupon_id, user_id, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.Exec(ctx, usageQuery, uuid.New(), couponID, userID, time.Now())
	if err != nil {
		r.log.Error("Failed to record coupon usage",
			zap.Error(err),
			zap.String("coupon_id", couponID.String()),
			zap.String("user_id", userID.String()),
		)
		return fmt.Errorf("record coupon %s usage: %w", couponID.String(), err)
	}

	countQuery := `UPDATE coupons SET usage_count = usage_count + 1, updated_at = NOW() WHERE id = $1`
	if _, err := r.db.Exec(ctx, countQuery, couponID); err != nil {
		r.log.Error("Failed to increment coupon usage count",
			zap.Error(err),
			zap.String("coupon_id", couponID.String()),
		)
		return fmt.Errorf("increment coupon %s usage count: %w", couponID.String(), err)
	}

	return nil
}
