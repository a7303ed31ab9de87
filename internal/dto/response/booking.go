package response

import (
	"time"

	"food-ordering/internal/data/entity"
)

type TrackingStep struct {
	Step      string `json:"step"`
	Label     string `json:"label"`
	Completed bool   `json:"completed"`
	Active    bool   `json:"active"`
}

type ModifiedItemResponse struct {
	FoodID           string `json:"food_id"`
	FoodName         string `json:"food_name,omitempty"`
	OriginalQuantity int    `json:"original_quantity"`
	UpdatedQuantity  int    `json:"updated_quantity"`
	Reason           string `json:"reason,omitempty"`
}

type RejectionDetails struct {
	Reason              string                 `json:"reason,omitempty"`
	SuggestedTime       string                 `json:"suggested_time,omitempty"`
	ModifiedItems       []ModifiedItemResponse `json:"modified_items,omitempty"`
	HasPartialRejection bool                   `json:"hasPartialRejection"`
	HasTimeSuggestion   bool                   `json:"hasTimeSuggestion"`
}

type BookingResponse struct {
	ID               string                 `json:"id"`
	OrderID          string                 `json:"order_id"`
	UserID           string                 `json:"user_id"`
	VendorID         string                 `json:"vendor_id"`
	ServiceType      string                 `json:"service_type"`
	ServiceGroup     string                 `json:"service_group"`
	IsPrebook        bool                   `json:"is_prebook"`
	ServiceDetails   entity.ServiceDetails  `json:"service_details"`
	Items            []entity.SnapshotItem  `json:"items"`
	AmountSummary    entity.AmountSummary   `json:"amount_summary"`
	Notes            string                 `json:"notes,omitempty"`
	CouponCode       string                 `json:"coupon_code,omitempty"`
	CouponDiscount   float64                `json:"coupon_discount,omitempty"`
	OrderStatus      entity.OrderStatus     `json:"order_status"`
	PaymentStatus    entity.PaymentStatus   `json:"payment_status"`
	PaymentDetails   *entity.PaymentDetails `json:"payment_details,omitempty"`
	VendorResponseAt *time.Time             `json:"vendor_response_at,omitempty"`
	RejectionDetails *RejectionDetails      `json:"rejection_details,omitempty"`
	TrackingSteps    []TrackingStep         `json:"tracking_steps"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at"`
}

// StatusUpdateEvent is the live stream frame pushed after a status advance.
type StatusUpdateEvent struct {
	Type          string             `json:"type"`
	OrderStatus   entity.OrderStatus `json:"orderStatus"`
	TrackingSteps []TrackingStep     `json:"trackingSteps"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

// InitialEvent is the first live stream frame, carrying the full booking.
type InitialEvent struct {
	Type    string           `json:"type"`
	Booking *BookingResponse `json:"booking"`
}

// TrackingStepsFor projects the group's step template against the current
// status: steps at or before the current position are completed, the current
// one is active, later ones are neither. Statuses outside the template
// (rejected, timeout) complete nothing.
func TrackingStepsFor(group entity.ServiceGroup, status entity.OrderStatus) []TrackingStep {
	flow := entity.StatusFlow(group)

	current := -1
	for i, s := range flow {
		if s == status {
			current = i
			break
		}
	}

	steps := make([]TrackingStep, len(flow))
	for i, s := range flow {
		steps[i] = TrackingStep{
			Step:      string(s),
			Label:     entity.StepLabel(s),
			Completed: current >= 0 && i <= current,
			Active:    current == i,
		}
	}
	return steps
}

// BookingToResponse is a pure projection of the persisted booking into the
// wire shape.
func BookingToResponse(booking *entity.Booking) *BookingResponse {
	serviceType := booking.ServiceType
	if normalized, err := entity.NormalizeServiceType(string(booking.ServiceType)); err == nil {
		serviceType = normalized
	}
	group, _ := entity.GroupOf(serviceType)

	isPrebook := booking.IsPrebook
	if !isPrebook {
		for _, line := range booking.CartSnapshot {
			if line.IsPrebook {
				isPrebook = true
				break
			}
		}
	}

	resp := &BookingResponse{
		ID:               booking.ID.String(),
		OrderID:          booking.OrderID,
		UserID:           booking.UserID.String(),
		VendorID:         booking.VendorID.String(),
		ServiceType:      string(serviceType),
		ServiceGroup:     string(group),
		IsPrebook:        isPrebook,
		ServiceDetails:   booking.ServiceDetails,
		Items:            booking.CartSnapshot,
		AmountSummary:    booking.AmountSummary,
		Notes:            booking.Notes,
		CouponCode:       booking.CouponCode,
		CouponDiscount:   booking.CouponDiscount,
		OrderStatus:      booking.OrderStatus,
		PaymentStatus:    booking.PaymentStatus,
		PaymentDetails:   booking.PaymentDetails,
		VendorResponseAt: booking.VendorResponseAt,
		TrackingSteps:    TrackingStepsFor(group, booking.OrderStatus),
		CreatedAt:        booking.CreatedAt,
		UpdatedAt:        booking.UpdatedAt,
	}

	if booking.OrderStatus == entity.OrderStatusRejected {
		details := &RejectionDetails{
			Reason:              booking.RejectionReason,
			SuggestedTime:       booking.SuggestedTime,
			HasPartialRejection: len(booking.ModifiedItems) > 0,
			HasTimeSuggestion:   booking.SuggestedTime != "",
		}
		for _, item := range booking.ModifiedItems {
			details.ModifiedItems = append(details.ModifiedItems, ModifiedItemResponse{
				FoodID:           item.FoodID.String(),
				FoodName:         item.FoodName,
				OriginalQuantity: item.OriginalQuantity,
				UpdatedQuantity:  item.UpdatedQuantity,
				Reason:           item.Reason,
			})
		}
		resp.RejectionDetails = details
	}

	return resp
}

// PaymentInitiation tells the client whether and how much to pay after the
// vendor accepts. Gateway hand-off fields are filled once a provider is
// integrated.
type PaymentInitiation struct {
	Required bool    `json:"required"`
	Amount   float64 `json:"amount"`
}

type VendorRespondResponse struct {
	Booking     *BookingResponse   `json:"booking"`
	TotalAmount float64            `json:"totalAmount"`
	Payment     *PaymentInitiation `json:"payment,omitempty"`
}

// NewStatusUpdateEvent builds the STATUS_UPDATE frame for a booking.
func NewStatusUpdateEvent(booking *entity.Booking) StatusUpdateEvent {
	group, _ := entity.GroupOf(booking.ServiceType)
	return StatusUpdateEvent{
		Type:          "STATUS_UPDATE",
		OrderStatus:   booking.OrderStatus,
		TrackingSteps: TrackingStepsFor(group, booking.OrderStatus),
		UpdatedAt:     booking.UpdatedAt,
	}
}
