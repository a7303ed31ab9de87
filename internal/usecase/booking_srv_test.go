package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"food-ordering/internal/data/entity"
	"food-ordering/internal/dto/request"
	"food-ordering/pkg/stream"
	"food-ordering/pkg/utils"

	"github.com/google/uuid"
)

func testConfig() *utils.Config {
	return &utils.Config{
		Booking: utils.BookingConfig{
			PollInterval:    10 * time.Millisecond,
			ResponseTimeout: 150 * time.Millisecond,
			StreamKeepAlive: time.Second,
		},
		Tax: utils.TaxConfig{Percentage: 5},
	}
}

func newBookingService(env *testEnv, config *utils.Config) BookingService {
	log := testLogger()
	coupon := NewCouponService(env.repo, log)
	broadcaster := stream.NewBroadcaster(log)
	return NewBookingService(env.repo, coupon, broadcaster, config, log)
}

func seedCart(env *testEnv, userID uuid.UUID, serviceType entity.ServiceType) (*entity.Cart, uuid.UUID) {
	vendorID := uuid.New()
	env.vendor.vendors[vendorID] = &entity.Vendor{
		Base: entity.Base{ID: vendorID},
		Name: "Spice Route",
	}

	cart := &entity.Cart{
		Base:        entity.Base{ID: uuid.New()},
		UserID:      userID,
		VendorID:    &vendorID,
		ServiceType: serviceType,
		Items: []entity.CartItem{
			{
				FoodID:    uuid.New(),
				Name:      "Paneer Tikka",
				Quantity:  2,
				BasePrice: 120,
			},
		},
	}
	cart.Recalculate(5)
	env.cart.carts[cart.ID] = cart
	return cart, vendorID
}

func deliveryRequest() *request.CreateBookingRequest {
	return &request.CreateBookingRequest{
		ServiceType: "delivery",
		Address:     "12 MG Road",
		Latitude:    12.9716,
		Longitude:   77.5946,
		Name:        "Asha",
		PhoneNumber: "9876543210",
	}
}

func TestCreateBookingAcceptedMidPoll(t *testing.T) {
	env := newTestEnv()
	svc := newBookingService(env, testConfig())
	userID := uuid.New()
	_, vendorID := seedCart(env, userID, entity.ServiceTypeDelivery)

	go func() {
		time.Sleep(30 * time.Millisecond)
		bookings, _ := env.booking.FindByVendorID(context.Background(), vendorID, 0, 0)
		if len(bookings) != 1 {
			return
		}
		_, err := svc.VendorRespond(context.Background(), vendorID, bookings[0].ID, &request.VendorRespondRequest{Action: "accept"})
		if err != nil {
			t.Errorf("vendor respond: %v", err)
		}
	}()

	resp, message, err := svc.CreateBooking(context.Background(), userID, deliveryRequest())
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	if message != msgAccepted {
		t.Fatalf("message = %q, want %q", message, msgAccepted)
	}
	if resp.OrderStatus != entity.OrderStatusAccepted {
		t.Fatalf("order status = %s, want accepted", resp.OrderStatus)
	}
	if resp.AmountSummary.GrandTotal <= 0 {
		t.Fatalf("grand total = %v, want > 0", resp.AmountSummary.GrandTotal)
	}
}

func TestCreateBookingTimeoutLeavesNoTrace(t *testing.T) {
	env := newTestEnv()
	svc := newBookingService(env, testConfig())
	userID := uuid.New()
	seedCart(env, userID, entity.ServiceTypeDelivery)

	resp, message, err := svc.CreateBooking(context.Background(), userID, deliveryRequest())
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	if message != msgTimeout {
		t.Fatalf("message = %q, want %q", message, msgTimeout)
	}
	if resp.OrderStatus != entity.OrderStatusTimeout {
		t.Fatalf("order status = %s, want timeout", resp.OrderStatus)
	}

	bookingID, err := uuid.Parse(resp.ID)
	if err != nil {
		t.Fatalf("parse booking id: %v", err)
	}
	if _, err := svc.GetBooking(context.Background(), userID, bookingID); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("lookup after timeout = %v, want ErrOrderNotFound", err)
	}
}

func TestCreateBookingEmptyCart(t *testing.T) {
	env := newTestEnv()
	svc := newBookingService(env, testConfig())

	_, _, err := svc.CreateBooking(context.Background(), uuid.New(), deliveryRequest())
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("err = %v, want ErrEmptyCart", err)
	}
}

func TestCreateBookingStaleConnectedCart(t *testing.T) {
	env := newTestEnv()
	svc := newBookingService(env, testConfig())
	userID := uuid.New()
	cart, _ := seedCart(env, userID, entity.ServiceTypeDelivery)

	gone := uuid.New()
	cart.ConnectedCartID = &gone
	env.cart.carts[cart.ID] = cart

	_, _, err := svc.CreateBooking(context.Background(), userID, deliveryRequest())
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("err = %v, want ErrEmptyCart", err)
	}

	stored, _ := env.cart.FindByUserID(context.Background(), userID)
	if stored.ConnectedCartID != nil {
		t.Fatal("stale connected cart link was not cleared")
	}
}

func TestCreateBookingServiceTypeChecks(t *testing.T) {
	env := newTestEnv()
	svc := newBookingService(env, testConfig())
	userID := uuid.New()
	seedCart(env, userID, entity.ServiceTypeDelivery)

	req := deliveryRequest()
	req.ServiceType = "drive thru"
	_, _, err := svc.CreateBooking(context.Background(), userID, req)
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("unknown service type err = %v, want ValidationError", err)
	}

	req = deliveryRequest()
	req.ServiceType = "Dine in"
	req.PersonCount = 2
	req.ReachTime = "19:30"
	if _, _, err := svc.CreateBooking(context.Background(), userID, req); !errors.Is(err, ErrServiceTypeMismatch) {
		t.Fatalf("mismatched service type err = %v, want ErrServiceTypeMismatch", err)
	}
}

func TestCreateBookingDeliveryFieldValidation(t *testing.T) {
	env := newTestEnv()
	svc := newBookingService(env, testConfig())
	userID := uuid.New()
	seedCart(env, userID, entity.ServiceTypeDelivery)

	req := deliveryRequest()
	req.Address = ""
	req.PhoneNumber = ""

	_, _, err := svc.CreateBooking(context.Background(), userID, req)
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if _, ok := validation.Fields["address"]; !ok {
		t.Fatal("expected address in validation fields")
	}
	if _, ok := validation.Fields["phoneNumber"]; !ok {
		t.Fatal("expected phoneNumber in validation fields")
	}
}

func TestCreateBookingCouponInvalidatedAtBookingTime(t *testing.T) {
	env := newTestEnv()
	svc := newBookingService(env, testConfig())
	userID := uuid.New()
	cart, _ := seedCart(env, userID, entity.ServiceTypeDelivery)

	coupon := &entity.Coupon{
		Base:           entity.Base{ID: uuid.New()},
		Code:           "SAVE50",
		DiscountType:   entity.DiscountTypeFlat,
		DiscountValue:  50,
		MinOrderAmount: 10000, // far above the cart total
		IsActive:       true,
		ValidFrom:      time.Now().Add(-time.Hour),
		ValidUntil:     time.Now().Add(time.Hour),
	}
	env.coupon.add(coupon)

	cart.CouponCode = coupon.Code
	cart.CouponDiscount = 50
	couponID := coupon.ID
	cart.CouponID = &couponID
	cart.Recalculate(5)
	env.cart.carts[cart.ID] = cart

	_, _, err := svc.CreateBooking(context.Background(), userID, deliveryRequest())
	var invalid *CouponInvalidError
	if !errors.As(err, &invalid) {
		t.Fatalf("err = %v, want CouponInvalidError", err)
	}

	stored, _ := env.cart.FindByUserID(context.Background(), userID)
	if stored.CouponCode != "" || stored.CouponDiscount != 0 {
		t.Fatal("invalid coupon was not stripped from the cart")
	}
	if stored.Totals.CouponDiscount != 0 {
		t.Fatal("cart totals still carry the coupon discount")
	}
}

func TestVendorRespondRejectValidatesModifiedItems(t *testing.T) {
	env := newTestEnv()
	svc := newBookingService(env, testConfig())
	vendorID := uuid.New()
	foodID := uuid.New()

	booking := &entity.Booking{
		Base:        entity.Base{ID: uuid.New()},
		OrderID:     "ORD-1",
		UserID:      uuid.New(),
		VendorID:    vendorID,
		ServiceType: entity.ServiceTypeDelivery,
		OrderStatus: entity.OrderStatusPending,
		CartSnapshot: []entity.SnapshotItem{
			{FoodID: foodID, Name: "Veg Biryani", Quantity: 3},
		},
	}
	env.booking.Create(context.Background(), booking)

	cases := []struct {
		name string
		item request.ModifiedItemRequest
	}{
		{"unknown food", request.ModifiedItemRequest{FoodID: uuid.NewString(), UpdatedQuantity: 1}},
		{"quantity above original", request.ModifiedItemRequest{FoodID: foodID.String(), UpdatedQuantity: 5}},
		{"malformed id", request.ModifiedItemRequest{FoodID: foodID.String()[:20], UpdatedQuantity: 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := &request.VendorRespondRequest{
				Action:          "reject",
				RejectionReason: "out of stock",
				ModifiedItems:   []request.ModifiedItemRequest{tc.item},
			}
			_, err := svc.VendorRespond(context.Background(), vendorID, booking.ID, req)
			var invalid *InvalidModifiedItemError
			var validation *ValidationError
			if !errors.As(err, &invalid) && !errors.As(err, &validation) {
				t.Fatalf("err = %v, want invalid-item or validation error", err)
			}

			stored, _ := env.booking.FindByID(context.Background(), booking.ID)
			if stored.OrderStatus != entity.OrderStatusPending {
				t.Fatal("rejected write went through despite invalid item")
			}
		})
	}
}

func TestVendorRespondRejectWithModifications(t *testing.T) {
	env := newTestEnv()
	svc := newBookingService(env, testConfig())
	vendorID := uuid.New()
	foodID := uuid.New()

	booking := &entity.Booking{
		Base:        entity.Base{ID: uuid.New()},
		OrderID:     "ORD-2",
		UserID:      uuid.New(),
		VendorID:    vendorID,
		ServiceType: entity.ServiceTypeDelivery,
		OrderStatus: entity.OrderStatusPending,
		CartSnapshot: []entity.SnapshotItem{
			{FoodID: foodID, Name: "Veg Biryani", Quantity: 3},
		},
	}
	env.booking.Create(context.Background(), booking)

	resp, err := svc.VendorRespond(context.Background(), vendorID, booking.ID, &request.VendorRespondRequest{
		Action:          "reject",
		RejectionReason: "only two portions left",
		SuggestedTime:   "20:30",
		ModifiedItems: []request.ModifiedItemRequest{
			{FoodID: foodID.String(), UpdatedQuantity: 2, Reason: "limited stock"},
		},
	})
	if err != nil {
		t.Fatalf("vendor respond: %v", err)
	}

	details := resp.Booking.RejectionDetails
	if details == nil {
		t.Fatal("rejection details missing")
	}
	if !details.HasPartialRejection || !details.HasTimeSuggestion {
		t.Fatalf("flags = %v/%v, want true/true", details.HasPartialRejection, details.HasTimeSuggestion)
	}
	if len(details.ModifiedItems) != 1 || details.ModifiedItems[0].OriginalQuantity != 3 {
		t.Fatalf("modified items = %+v", details.ModifiedItems)
	}

	stored, _ := env.booking.FindByID(context.Background(), booking.ID)
	if stored.OrderStatus != entity.OrderStatusRejected {
		t.Fatalf("stored status = %s, want rejected", stored.OrderStatus)
	}
}

func TestVendorRespondHidesForeignBookings(t *testing.T) {
	env := newTestEnv()
	svc := newBookingService(env, testConfig())
	vendorID := uuid.New()

	booking := &entity.Booking{
		Base:        entity.Base{ID: uuid.New()},
		UserID:      uuid.New(),
		VendorID:    vendorID,
		ServiceType: entity.ServiceTypeDelivery,
		OrderStatus: entity.OrderStatusPending,
	}
	env.booking.Create(context.Background(), booking)

	_, err := svc.VendorRespond(context.Background(), uuid.New(), booking.ID, &request.VendorRespondRequest{Action: "accept"})
	if !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("foreign vendor err = %v, want ErrOrderNotFound", err)
	}

	env.booking.UpdateAcceptance(context.Background(), booking.ID, time.Now())
	_, err = svc.VendorRespond(context.Background(), vendorID, booking.ID, &request.VendorRespondRequest{Action: "accept"})
	if !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("already-decided err = %v, want ErrOrderNotFound", err)
	}
}

func TestAdvanceStatusPaymentGate(t *testing.T) {
	env := newTestEnv()
	svc := newBookingService(env, testConfig())
	vendorID := uuid.New()

	booking := &entity.Booking{
		Base:          entity.Base{ID: uuid.New()},
		UserID:        uuid.New(),
		VendorID:      vendorID,
		ServiceType:   entity.ServiceTypeDelivery,
		OrderStatus:   entity.OrderStatusAccepted,
		PaymentStatus: entity.PaymentStatusPending,
	}
	env.booking.Create(context.Background(), booking)

	_, err := svc.AdvanceStatus(context.Background(), vendorID, booking.ID)
	var state *StateError
	if !errors.As(err, &state) {
		t.Fatalf("err = %v, want StateError", err)
	}
	stored, _ := env.booking.FindByID(context.Background(), booking.ID)
	if stored.OrderStatus != entity.OrderStatusAccepted {
		t.Fatal("gated advance mutated the booking")
	}

	env.booking.UpdatePayment(context.Background(), booking.ID, entity.PaymentStatusCompleted, nil)

	resp, err := svc.AdvanceStatus(context.Background(), vendorID, booking.ID)
	if err != nil {
		t.Fatalf("advance after payment: %v", err)
	}
	if resp.OrderStatus != entity.OrderStatusPreparing {
		t.Fatalf("status = %s, want preparing", resp.OrderStatus)
	}
}

func TestAdvanceStatusTerminalAndPending(t *testing.T) {
	env := newTestEnv()
	svc := newBookingService(env, testConfig())
	vendorID := uuid.New()

	for _, status := range []entity.OrderStatus{
		entity.OrderStatusPending,
		entity.OrderStatusRejected,
		entity.OrderStatusCompleted,
	} {
		booking := &entity.Booking{
			Base:        entity.Base{ID: uuid.New()},
			UserID:      uuid.New(),
			VendorID:    vendorID,
			ServiceType: entity.ServiceTypeDelivery,
			OrderStatus: status,
		}
		env.booking.Create(context.Background(), booking)

		_, err := svc.AdvanceStatus(context.Background(), vendorID, booking.ID)
		var state *StateError
		if !errors.As(err, &state) {
			t.Fatalf("status %s: err = %v, want StateError", status, err)
		}
	}
}

func TestConfirmPayment(t *testing.T) {
	env := newTestEnv()
	svc := newBookingService(env, testConfig())
	userID := uuid.New()

	booking := &entity.Booking{
		Base:          entity.Base{ID: uuid.New()},
		UserID:        userID,
		VendorID:      uuid.New(),
		ServiceType:   entity.ServiceTypeDelivery,
		OrderStatus:   entity.OrderStatusPending,
		PaymentStatus: entity.PaymentStatusPending,
	}
	env.booking.Create(context.Background(), booking)

	req := &request.PaymentConfirmRequest{TransactionID: "txn-1", Amount: 252, PaymentMethod: "upi"}

	_, err := svc.ConfirmPayment(context.Background(), userID, booking.ID, req)
	var state *StateError
	if !errors.As(err, &state) {
		t.Fatalf("payment on pending order err = %v, want StateError", err)
	}

	env.booking.UpdateAcceptance(context.Background(), booking.ID, time.Now())

	resp, err := svc.ConfirmPayment(context.Background(), userID, booking.ID, req)
	if err != nil {
		t.Fatalf("confirm payment: %v", err)
	}
	if resp.PaymentStatus != entity.PaymentStatusCompleted {
		t.Fatalf("payment status = %s, want completed", resp.PaymentStatus)
	}

	if _, err := svc.ConfirmPayment(context.Background(), userID, booking.ID, req); !errors.As(err, &state) {
		t.Fatalf("double payment err = %v, want StateError", err)
	}
}

func TestSnapshotImmuneToLaterCartEdits(t *testing.T) {
	env := newTestEnv()
	svc := newBookingService(env, testConfig())
	userID := uuid.New()
	cart, vendorID := seedCart(env, userID, entity.ServiceTypeDelivery)

	done := make(chan struct{})
	go func() {
		defer close(done)
		time.Sleep(30 * time.Millisecond)
		bookings, _ := env.booking.FindByVendorID(context.Background(), vendorID, 0, 0)
		if len(bookings) != 1 {
			return
		}

		// Mutate the live cart while the booking waits; the snapshot must
		// keep the quantities from booking time.
		cart.Items[0].Quantity = 99
		env.cart.Update(context.Background(), cart)

		svc.VendorRespond(context.Background(), vendorID, bookings[0].ID, &request.VendorRespondRequest{Action: "accept"})
	}()

	resp, _, err := svc.CreateBooking(context.Background(), userID, deliveryRequest())
	<-done
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	if len(resp.Items) != 1 || resp.Items[0].Quantity != 2 {
		t.Fatalf("snapshot = %+v, want original quantity 2", resp.Items)
	}
}
