package response

import (
	"testing"
	"time"

	"food-ordering/internal/data/entity"

	"github.com/google/uuid"
)

func sampleBooking(status entity.OrderStatus) *entity.Booking {
	return &entity.Booking{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		OrderID:     "ORD-20260828-120000-0001",
		UserID:      uuid.New(),
		VendorID:    uuid.New(),
		ServiceType: entity.ServiceTypeDelivery,
		CartSnapshot: []entity.SnapshotItem{
			{FoodID: uuid.New(), Name: "Margherita", Quantity: 2, BasePrice: 200, EffectivePrice: 200, LineTotal: 400},
		},
		AmountSummary: entity.AmountSummary{SubTotal: 400, GrandTotal: 420, ItemCount: 2},
		OrderStatus:   status,
		PaymentStatus: entity.PaymentStatusPending,
	}
}

func stepByName(t *testing.T, steps []TrackingStep, name string) TrackingStep {
	t.Helper()
	for _, s := range steps {
		if s.Step == name {
			return s
		}
	}
	t.Fatalf("step %q not found", name)
	return TrackingStep{}
}

func TestTrackingStepsCompletionFlags(t *testing.T) {
	steps := TrackingStepsFor(entity.ServiceGroupDelivery, entity.OrderStatusPreparing)

	placed := stepByName(t, steps, string(entity.OrderStatusPending))
	accepted := stepByName(t, steps, string(entity.OrderStatusAccepted))
	preparing := stepByName(t, steps, string(entity.OrderStatusPreparing))
	out := stepByName(t, steps, string(entity.OrderStatusOutForDelivery))
	completed := stepByName(t, steps, string(entity.OrderStatusCompleted))

	if !placed.Completed || placed.Active {
		t.Errorf("placed = %+v, want completed and not active", placed)
	}
	if !accepted.Completed || accepted.Active {
		t.Errorf("accepted = %+v, want completed and not active", accepted)
	}
	if !preparing.Completed || !preparing.Active {
		t.Errorf("preparing = %+v, want completed and active", preparing)
	}
	if out.Completed || out.Active {
		t.Errorf("out_for_delivery = %+v, want neither", out)
	}
	if completed.Completed || completed.Active {
		t.Errorf("completed = %+v, want neither", completed)
	}
}

func TestTrackingStepsPerGroupTemplates(t *testing.T) {
	cases := map[entity.ServiceGroup]string{
		entity.ServiceGroupDelivery: string(entity.OrderStatusOutForDelivery),
		entity.ServiceGroupTakeaway: string(entity.OrderStatusReadyForPickup),
		entity.ServiceGroupDineIn:   string(entity.OrderStatusServed),
	}
	for group, distinctive := range cases {
		steps := TrackingStepsFor(group, entity.OrderStatusAccepted)
		if len(steps) != 5 {
			t.Fatalf("group %s: %d steps, want 5", group, len(steps))
		}
		stepByName(t, steps, distinctive)
	}
}

func TestTrackingStepsRejectedCompletesNothing(t *testing.T) {
	steps := TrackingStepsFor(entity.ServiceGroupDelivery, entity.OrderStatusRejected)
	for _, s := range steps {
		if s.Completed || s.Active {
			t.Errorf("step %s = %+v, want neither completed nor active", s.Step, s)
		}
	}
}

func TestRejectionDetailsOnlyWhenRejected(t *testing.T) {
	accepted := BookingToResponse(sampleBooking(entity.OrderStatusAccepted))
	if accepted.RejectionDetails != nil {
		t.Error("accepted booking should carry no rejection details")
	}

	booking := sampleBooking(entity.OrderStatusRejected)
	booking.RejectionReason = "kitchen overloaded"
	rejected := BookingToResponse(booking)
	if rejected.RejectionDetails == nil {
		t.Fatal("rejected booking should carry rejection details")
	}
	if rejected.RejectionDetails.Reason != "kitchen overloaded" {
		t.Errorf("reason = %q", rejected.RejectionDetails.Reason)
	}
	if rejected.RejectionDetails.HasPartialRejection {
		t.Error("hasPartialRejection should be false with no modified items")
	}
	if rejected.RejectionDetails.HasTimeSuggestion {
		t.Error("hasTimeSuggestion should be false with no suggested time")
	}
}

func TestRejectionDetailsFlags(t *testing.T) {
	booking := sampleBooking(entity.OrderStatusRejected)
	booking.SuggestedTime = "19:30"
	booking.ModifiedItems = []entity.ModifiedItem{
		{FoodID: booking.CartSnapshot[0].FoodID, OriginalQuantity: 2, UpdatedQuantity: 1},
	}

	resp := BookingToResponse(booking)
	if resp.RejectionDetails == nil {
		t.Fatal("expected rejection details")
	}
	if !resp.RejectionDetails.HasPartialRejection {
		t.Error("hasPartialRejection should be true with modified items")
	}
	if !resp.RejectionDetails.HasTimeSuggestion {
		t.Error("hasTimeSuggestion should be true with suggested time")
	}
	if len(resp.RejectionDetails.ModifiedItems) != 1 {
		t.Fatalf("modified items = %d, want 1", len(resp.RejectionDetails.ModifiedItems))
	}
	if resp.RejectionDetails.ModifiedItems[0].UpdatedQuantity != 1 {
		t.Errorf("updated quantity = %d", resp.RejectionDetails.ModifiedItems[0].UpdatedQuantity)
	}
}

func TestIsPrebookFallsBackToSnapshot(t *testing.T) {
	booking := sampleBooking(entity.OrderStatusAccepted)
	if BookingToResponse(booking).IsPrebook {
		t.Error("no prebook flag anywhere, want false")
	}

	booking.CartSnapshot[0].IsPrebook = true
	if !BookingToResponse(booking).IsPrebook {
		t.Error("snapshot line flagged prebook, want true")
	}

	booking.CartSnapshot[0].IsPrebook = false
	booking.IsPrebook = true
	if !BookingToResponse(booking).IsPrebook {
		t.Error("explicit flag set, want true")
	}
}

func TestServiceTypeNormalizedInResponse(t *testing.T) {
	booking := sampleBooking(entity.OrderStatusAccepted)
	booking.ServiceType = entity.ServiceType("car-dine-in")

	resp := BookingToResponse(booking)
	if resp.ServiceType != string(entity.ServiceTypeCarDineIn) {
		t.Errorf("service type = %q, want %q", resp.ServiceType, entity.ServiceTypeCarDineIn)
	}
	if resp.ServiceGroup != string(entity.ServiceGroupTakeaway) {
		t.Errorf("service group = %q, want takeaway", resp.ServiceGroup)
	}
}
