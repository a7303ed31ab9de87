package entity

import (
	"time"

	"github.com/google/uuid"
)

type Food struct {
	Base
	VendorID      uuid.UUID  `db:"vendor_id"`
	Name          string     `db:"name"`
	Description   string     `db:"description"`
	Image         string     `db:"image"`
	FoodType      string     `db:"food_type"`
	Price         float64    `db:"price"`
	DiscountPrice float64    `db:"discount_price"`
	PackingCharge float64    `db:"packing_charge"`
	IsAvailable   bool       `db:"is_available"`
	IsPrebook     bool       `db:"is_prebook"`
	PrebookFrom   *time.Time `db:"prebook_from"`
	PrebookUntil  *time.Time `db:"prebook_until"`
}
