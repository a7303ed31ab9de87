package entity

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusAccepted       OrderStatus = "accepted"
	OrderStatusRejected       OrderStatus = "rejected"
	OrderStatusTimeout        OrderStatus = "timeout"
	OrderStatusPreparing      OrderStatus = "preparing"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusReadyForPickup OrderStatus = "ready_for_pickup"
	OrderStatusServed         OrderStatus = "served"
	OrderStatusCompleted      OrderStatus = "completed"
)

// Terminal reports whether no further transition may leave the status.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusRejected || s == OrderStatusTimeout || s == OrderStatusCompleted
}

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
)

// ServiceDetails carries the service-type-specific fields captured at booking
// time. Stored as JSONB; only the fields relevant to the group are set.
type ServiceDetails struct {
	Address        string  `json:"address,omitempty"`
	Latitude       float64 `json:"latitude,omitempty"`
	Longitude      float64 `json:"longitude,omitempty"`
	Name           string  `json:"name,omitempty"`
	PhoneNumber    string  `json:"phone_number,omitempty"`
	PersonCount    int     `json:"person_count,omitempty"`
	VehicleDetails string  `json:"vehicle_details,omitempty"`
	ReachTime      string  `json:"reach_time,omitempty"`
}

// AmountSummary is the authoritative totals copy attached to a booking.
type AmountSummary struct {
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

type PaymentDetails struct {
	TransactionID       string    `json:"transaction_id,omitempty"`
	ProviderReferenceID string    `json:"provider_reference_id,omitempty"`
	Amount              float64   `json:"amount,omitempty"`
	PaymentMethod       string    `json:"payment_method,omitempty"`
	PaidAt              time.Time `json:"paid_at"`
}

// ModifiedItem describes a partial-quantity reduction proposed on rejection.
type ModifiedItem struct {
	FoodID           uuid.UUID `json:"food_id"`
	FoodName         string    `json:"food_name,omitempty"`
	OriginalQuantity int       `json:"original_quantity"`
	UpdatedQuantity  int       `json:"updated_quantity"`
	Reason           string    `json:"reason,omitempty"`
}

type Booking struct {
	Base
	OrderID          string          `db:"order_id"`
	UserID           uuid.UUID       `db:"user_id"`
	VendorID         uuid.UUID       `db:"vendor_id"`
	ServiceType      ServiceType     `db:"service_type"`
	IsPrebook        bool            `db:"is_prebook"`
	ServiceDetails   ServiceDetails  `db:"service_details"`
	CartSnapshot     []SnapshotItem  `db:"cart_snapshot"`
	AmountSummary    AmountSummary   `db:"amount_summary"`
	Notes            string          `db:"notes"`
	CouponCode       string          `db:"coupon_code"`
	CouponDiscount   float64         `db:"coupon_discount"`
	CouponID         *uuid.UUID      `db:"coupon_id"`
	OrderStatus      OrderStatus     `db:"order_status"`
	PaymentStatus    PaymentStatus   `db:"payment_status"`
	PaymentDetails   *PaymentDetails `db:"payment_details"`
	VendorResponseAt *time.Time      `db:"vendor_response_at"`
	RejectionReason  string          `db:"rejection_reason"`
	SuggestedTime    string          `db:"suggested_time"`
	ModifiedItems    []ModifiedItem  `db:"modified_items"`
}

// SnapshotLine returns the snapshot line for a food id, if present.
func (b *Booking) SnapshotLine(foodID uuid.UUID) (*SnapshotItem, bool) {
	for i := range b.CartSnapshot {
		if b.CartSnapshot[i].FoodID == foodID {
			return &b.CartSnapshot[i], true
		}
	}
	return nil, false
}
