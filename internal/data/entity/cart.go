package entity

import (
	"github.com/google/uuid"
)

// ItemOption is a customization or add-on attached to a cart line.
type ItemOption struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Price    float64   `json:"price"`
	Quantity int       `json:"quantity"`
}

type CartItem struct {
	FoodID         uuid.UUID    `json:"food_id"`
	Name           string       `json:"name"`
	Image          string       `json:"image,omitempty"`
	FoodType       string       `json:"food_type,omitempty"`
	Quantity       int          `json:"quantity"`
	BasePrice      float64      `json:"base_price"`
	DiscountPrice  float64      `json:"discount_price"`
	EffectivePrice float64      `json:"effective_price"`
	Customizations []ItemOption `json:"customizations,omitempty"`
	AddOns         []ItemOption `json:"add_ons,omitempty"`
	PackingCharge  float64      `json:"packing_charge"`
	IsPrebook      bool         `json:"is_prebook"`
	LineTotal      float64      `json:"line_total"`
	Notes          string       `json:"notes,omitempty"`
}

// SnapshotItem is the frozen form of a cart line attached to a booking.
// Identical in shape to CartItem; the distinct type keeps accidental
// writes into live carts from compiling.
type SnapshotItem CartItem

type Cart struct {
	Base
	UserID          uuid.UUID   `db:"user_id"`
	VendorID        *uuid.UUID  `db:"vendor_id"`
	ServiceType     ServiceType `db:"service_type"`
	Items           []CartItem  `db:"items"`
	Totals          CartTotals  `db:"totals"`
	CouponCode      string      `db:"coupon_code"`
	CouponDiscount  float64     `db:"coupon_discount"`
	CouponID        *uuid.UUID  `db:"coupon_id"`
	ConnectedCartID *uuid.UUID  `db:"connected_cart_id"`
}

// CartTotals mirrors AmountSummary on the live cart side.
type CartTotals struct {
	SubTotal           float64 `json:"sub_total"`
	AddOnTotal         float64 `json:"add_on_total"`
	CustomizationTotal float64 `json:"customization_total"`
	PackingChargeTotal float64 `json:"packing_charge_total"`
	DiscountTotal      float64 `json:"discount_total"`
	CouponDiscount     float64 `json:"coupon_discount"`
	TaxAmount          float64 `json:"tax_amount"`
	TaxPercentage      float64 `json:"tax_percentage"`
	GrandTotal         float64 `json:"grand_total"`
	ItemCount          int     `json:"item_count"`
}

// Recalculate recomputes per-line totals and the cart totals from the items,
// the configured tax percentage and the current coupon discount.
func (c *Cart) Recalculate(taxPercentage float64) {
	totals := CartTotals{TaxPercentage: taxPercentage, CouponDiscount: c.CouponDiscount}

	for i := range c.Items {
		item := &c.Items[i]

		optionTotal := 0.0
		for _, cz := range item.Customizations {
			optionTotal += cz.Price * float64(cz.Quantity)
			totals.CustomizationTotal += cz.Price * float64(cz.Quantity) * float64(item.Quantity)
		}
		addOnTotal := 0.0
		for _, ao := range item.AddOns {
			addOnTotal += ao.Price * float64(ao.Quantity)
			totals.AddOnTotal += ao.Price * float64(ao.Quantity) * float64(item.Quantity)
		}

		item.EffectivePrice = item.BasePrice
		if item.DiscountPrice > 0 && item.DiscountPrice < item.BasePrice {
			item.EffectivePrice = item.DiscountPrice
			totals.DiscountTotal += (item.BasePrice - item.DiscountPrice) * float64(item.Quantity)
		}
		item.LineTotal = (item.EffectivePrice + optionTotal + addOnTotal) * float64(item.Quantity)

		totals.SubTotal += item.EffectivePrice * float64(item.Quantity)
		totals.PackingChargeTotal += item.PackingCharge * float64(item.Quantity)
		totals.ItemCount += item.Quantity
	}

	taxable := totals.SubTotal + totals.AddOnTotal + totals.CustomizationTotal - totals.CouponDiscount
	if taxable < 0 {
		taxable = 0
	}
	totals.TaxAmount = taxable * taxPercentage / 100
	totals.GrandTotal = taxable + totals.TaxAmount + totals.PackingChargeTotal

	c.Totals = totals
}

// HasPrebookItem reports whether any line was flagged prebook.
func (c *Cart) HasPrebookItem() bool {
	for _, item := range c.Items {
		if item.IsPrebook {
			return true
		}
	}
	return false
}
