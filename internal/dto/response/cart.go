package response

import (
	"time"

	"food-ordering/internal/data/entity"
)

type CartResponse struct {
	ID              string            `json:"id"`
	UserID          string            `json:"user_id"`
	VendorID        string            `json:"vendor_id,omitempty"`
	ServiceType     string            `json:"service_type,omitempty"`
	Items           []entity.CartItem `json:"items"`
	Totals          entity.CartTotals `json:"totals"`
	CouponCode      string            `json:"coupon_code,omitempty"`
	CouponDiscount  float64           `json:"coupon_discount,omitempty"`
	IsConnectedCart bool              `json:"is_connected_cart"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

func CartToResponse(cart *entity.Cart, connected bool) *CartResponse {
	resp := &CartResponse{
		ID:              cart.ID.String(),
		UserID:          cart.UserID.String(),
		ServiceType:     string(cart.ServiceType),
		Items:           cart.Items,
		Totals:          cart.Totals,
		CouponCode:      cart.CouponCode,
		CouponDiscount:  cart.CouponDiscount,
		IsConnectedCart: connected,
		UpdatedAt:       cart.UpdatedAt,
	}
	if cart.VendorID != nil {
		resp.VendorID = cart.VendorID.String()
	}
	return resp
}
