package usecase

import (
	"context"
	"fmt"
	"time"

	"food-ordering/internal/data/entity"
	"food-ordering/internal/data/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CouponService interface {
	// ValidateCoupon checks the coupon against current rules and returns the
	// discount it grants on the given amount. Rule failures come back as
	// *CouponInvalidError; other errors are system failures.
	ValidateCoupon(ctx context.Context, code string, userID uuid.UUID, amount float64, vendorID uuid.UUID) (float64, *entity.Coupon, error)

	// MarkAsUsed records consumption for one-time-use enforcement.
	MarkAsUsed(ctx context.Context, couponID, userID uuid.UUID) error
}

type couponService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewCouponService(repo *repository.Repository, log *zap.Logger) CouponService {
	return &couponService{
		repo: repo,
		log:  log.With(zap.String("service", "coupon")),
	}
}

func (s *couponService) ValidateCoupon(ctx context.Context, code string, userID uuid.UUID, amount float64, vendorID uuid.UUID) (float64, *entity.Coupon, error) {
	coupon, err := s.repo.Coupon.FindByCode(ctx, code)
	if err != nil {
		return 0, nil, fmt.Errorf("validate coupon %s: %w", code, err)
	}
	if coupon == nil {
		return 0, nil, &CouponInvalidError{Code: code, Reason: "coupon does not exist"}
	}

	now := time.Now()
	switch {
	case !coupon.IsActive:
		return 0, nil, &CouponInvalidError{Code: code, Reason: "coupon is no longer active"}
	case now.Before(coupon.ValidFrom):
		return 0, nil, &CouponInvalidError{Code: code, Reason: "coupon is not valid yet"}
	case now.After(coupon.ValidUntil):
		return 0, nil, &CouponInvalidError{Code: code, Reason: "coupon has expired"}
	}

	if coupon.VendorID != nil && *coupon.VendorID != vendorID {
		return 0, nil, &CouponInvalidError{Code: code, Reason: "coupon is not valid for this vendor"}
	}

	if amount < coupon.MinOrderAmount {
		return 0, nil, &CouponInvalidError{
			Code:   code,
			Reason: fmt.Sprintf("order amount must be at least %.2f", coupon.MinOrderAmount),
		}
	}

	if coupon.UsageLimit > 0 && coupon.UsageCount >= coupon.UsageLimit {
		return 0, nil, &CouponInvalidError{Code: code, Reason: "coupon usage limit reached"}
	}

	if coupon.OneTimeUse {
		used, err := s.repo.Coupon.HasUserUsed(ctx, coupon.ID, userID)
		if err != nil {
			return 0, nil, fmt.Errorf("validate coupon %s: %w", code, err)
		}
		if used {
			return 0, nil, &CouponInvalidError{Code: code, Reason: "coupon already used"}
		}
	}

	discount := coupon.DiscountFor(amount)

	s.log.Debug("Coupon validated",
		zap.String("code", coupon.Code),
		zap.String("user_id", userID.String()),
		zap.Float64("amount", amount),
		zap.Float64("discount", discount),
	)

	return discount, coupon, nil
}

func (s *couponService) MarkAsUsed(ctx context.Context, couponID, userID uuid.UUID) error {
	if err := s.repo.Coupon.RecordUsage(ctx, couponID, userID); err != nil {
		s.log.Error("Failed to mark coupon as used",
			zap.Error(err),
			zap.String("coupon_id", couponID.String()),
			zap.String("user_id", userID.String()),
		)
		return fmt.Errorf("mark coupon %s used: %w", couponID.String(), err)
	}

	return nil
}
