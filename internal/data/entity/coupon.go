package entity

import (
	"time"

	"github.com/google/uuid"
)

type DiscountType string

const (
	DiscountTypeFlat    DiscountType = "flat"
	DiscountTypePercent DiscountType = "percent"
)

type Coupon struct {
	Base
	Code              string       `db:"code"`
	Description       string       `db:"description"`
	VendorID          *uuid.UUID   `db:"vendor_id"`
	DiscountType      DiscountType `db:"discount_type"`
	DiscountValue     float64      `db:"discount_value"`
	MaxDiscountAmount float64      `db:"max_discount_amount"`
	MinOrderAmount    float64      `db:"min_order_amount"`
	UsageLimit        int          `db:"usage_limit"`
	UsageCount        int          `db:"usage_count"`
	OneTimeUse        bool         `db:"one_time_use"`
	IsActive          bool         `db:"is_active"`
	ValidFrom         time.Time    `db:"valid_from"`
	ValidUntil        time.Time    `db:"valid_until"`
}

// DiscountFor computes the discount the coupon grants on an order amount.
// Percent discounts are capped at MaxDiscountAmount when set.
func (c *Coupon) DiscountFor(amount float64) float64 {
	var discount float64
	switch c.DiscountType {
	case DiscountTypePercent:
		discount = amount * c.DiscountValue / 100
		if c.MaxDiscountAmount > 0 && discount > c.MaxDiscountAmount {
			discount = c.MaxDiscountAmount
		}
	default:
		discount = c.DiscountValue
	}
	if discount > amount {
		discount = amount
	}
	return discount
}

// CouponUsage records one user's consumption of a coupon.
type CouponUsage struct {
	BaseSimple
	CouponID uuid.UUID `db:"coupon_id"`
	UserID   uuid.UUID `db:"user_id"`
}
