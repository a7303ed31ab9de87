package usecase

import (
	"context"
	"sync"
	"time"

	"food-ordering/internal/data/entity"
	"food-ordering/internal/data/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// In-memory repository fakes. All of them are safe for concurrent use so the
// vendor-decision wait can be raced against respond calls from the test
// goroutine.

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*entity.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: map[uuid.UUID]*entity.Booking{}}
}

func (r *fakeBookingRepo) clone(b *entity.Booking) *entity.Booking {
	cp := *b
	cp.CartSnapshot = append([]entity.SnapshotItem(nil), b.CartSnapshot...)
	cp.ModifiedItems = append([]entity.ModifiedItem(nil), b.ModifiedItems...)
	return &cp
}

func (r *fakeBookingRepo) Create(_ context.Context, booking *entity.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings[booking.ID] = r.clone(booking)
	return nil
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[id]
	if !ok {
		return nil, nil
	}
	return r.clone(booking), nil
}

func (r *fakeBookingRepo) FindByUserID(_ context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Booking
	for _, b := range r.bookings {
		if b.UserID == userID {
			out = append(out, r.clone(b))
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) CountByUserID(_ context.Context, userID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, b := range r.bookings {
		if b.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r *fakeBookingRepo) FindByVendorID(_ context.Context, vendorID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Booking
	for _, b := range r.bookings {
		if b.VendorID == vendorID {
			out = append(out, r.clone(b))
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) CountByVendorID(_ context.Context, vendorID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, b := range r.bookings {
		if b.VendorID == vendorID {
			n++
		}
	}
	return n, nil
}

func (r *fakeBookingRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.bookings, id)
	return nil
}

func (r *fakeBookingRepo) UpdateStatus(_ context.Context, id uuid.UUID, status entity.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.bookings[id]; ok {
		b.OrderStatus = status
		b.UpdatedAt = time.Now()
	}
	return nil
}

func (r *fakeBookingRepo) MarkTimeout(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok || b.OrderStatus != entity.OrderStatusPending {
		return false, nil
	}
	b.OrderStatus = entity.OrderStatusTimeout
	b.UpdatedAt = time.Now()
	return true, nil
}

func (r *fakeBookingRepo) UpdateAcceptance(_ context.Context, id uuid.UUID, respondedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.bookings[id]; ok {
		b.OrderStatus = entity.OrderStatusAccepted
		b.VendorResponseAt = &respondedAt
		b.UpdatedAt = respondedAt
	}
	return nil
}

func (r *fakeBookingRepo) UpdateRejection(_ context.Context, id uuid.UUID, reason, suggestedTime string, items []entity.ModifiedItem, respondedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.bookings[id]; ok {
		b.OrderStatus = entity.OrderStatusRejected
		b.RejectionReason = reason
		b.SuggestedTime = suggestedTime
		b.ModifiedItems = append([]entity.ModifiedItem(nil), items...)
		b.VendorResponseAt = &respondedAt
		b.UpdatedAt = respondedAt
	}
	return nil
}

func (r *fakeBookingRepo) UpdatePayment(_ context.Context, id uuid.UUID, status entity.PaymentStatus, details *entity.PaymentDetails) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.bookings[id]; ok {
		b.PaymentStatus = status
		b.PaymentDetails = details
		b.UpdatedAt = time.Now()
	}
	return nil
}

type fakeCartRepo struct {
	mu    sync.Mutex
	carts map[uuid.UUID]*entity.Cart
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{carts: map[uuid.UUID]*entity.Cart{}}
}

func (r *fakeCartRepo) clone(c *entity.Cart) *entity.Cart {
	cp := *c
	cp.Items = append([]entity.CartItem(nil), c.Items...)
	return &cp
}

func (r *fakeCartRepo) Create(_ context.Context, cart *entity.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.carts[cart.ID] = r.clone(cart)
	return nil
}

func (r *fakeCartRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cart, ok := r.carts[id]
	if !ok {
		return nil, nil
	}
	return r.clone(cart), nil
}

func (r *fakeCartRepo) FindByUserID(_ context.Context, userID uuid.UUID) (*entity.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, cart := range r.carts {
		if cart.UserID == userID {
			return r.clone(cart), nil
		}
	}
	return nil, nil
}

func (r *fakeCartRepo) Update(_ context.Context, cart *entity.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.carts[cart.ID] = r.clone(cart)
	return nil
}

func (r *fakeCartRepo) ClearConnectedCart(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, cart := range r.carts {
		if cart.UserID == userID {
			cart.ConnectedCartID = nil
		}
	}
	return nil
}

func (r *fakeCartRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, id)
	return nil
}

type fakeCouponRepo struct {
	mu      sync.Mutex
	coupons map[string]*entity.Coupon
	usages  map[uuid.UUID]map[uuid.UUID]bool
}

func newFakeCouponRepo() *fakeCouponRepo {
	return &fakeCouponRepo{
		coupons: map[string]*entity.Coupon{},
		usages:  map[uuid.UUID]map[uuid.UUID]bool{},
	}
}

func (r *fakeCouponRepo) add(coupon *entity.Coupon) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.coupons[coupon.Code] = coupon
}

func (r *fakeCouponRepo) FindByCode(_ context.Context, code string) (*entity.Coupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	coupon, ok := r.coupons[code]
	if !ok {
		return nil, nil
	}
	cp := *coupon
	return &cp, nil
}

func (r *fakeCouponRepo) HasUserUsed(_ context.Context, couponID, userID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.usages[couponID][userID], nil
}

func (r *fakeCouponRepo) RecordUsage(_ context.Context, couponID, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.usages[couponID] == nil {
		r.usages[couponID] = map[uuid.UUID]bool{}
	}
	r.usages[couponID][userID] = true
	for _, c := range r.coupons {
		if c.ID == couponID {
			c.UsageCount++
		}
	}
	return nil
}

type fakeVendorRepo struct {
	vendors map[uuid.UUID]*entity.Vendor
}

func newFakeVendorRepo() *fakeVendorRepo {
	return &fakeVendorRepo{vendors: map[uuid.UUID]*entity.Vendor{}}
}

func (r *fakeVendorRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Vendor, error) {
	vendor, ok := r.vendors[id]
	if !ok {
		return nil, nil
	}
	return vendor, nil
}

func (r *fakeVendorRepo) FindAll(_ context.Context, limit, offset int) ([]*entity.Vendor, error) {
	var out []*entity.Vendor
	for _, v := range r.vendors {
		out = append(out, v)
	}
	return out, nil
}

func (r *fakeVendorRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.vendors)), nil
}

type fakeFoodRepo struct {
	foods map[uuid.UUID]*entity.Food
}

func newFakeFoodRepo() *fakeFoodRepo {
	return &fakeFoodRepo{foods: map[uuid.UUID]*entity.Food{}}
}

func (r *fakeFoodRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Food, error) {
	food, ok := r.foods[id]
	if !ok {
		return nil, nil
	}
	return food, nil
}

func (r *fakeFoodRepo) FindByVendorID(_ context.Context, vendorID uuid.UUID, limit, offset int) ([]*entity.Food, error) {
	var out []*entity.Food
	for _, f := range r.foods {
		if f.VendorID == vendorID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *fakeFoodRepo) CountByVendorID(_ context.Context, vendorID uuid.UUID) (int64, error) {
	foods, _ := r.FindByVendorID(context.Background(), vendorID, 0, 0)
	return int64(len(foods)), nil
}

// testEnv bundles the fakes behind a Repository so services can be built the
// same way production wiring does.
type testEnv struct {
	repo    *repository.Repository
	booking *fakeBookingRepo
	cart    *fakeCartRepo
	coupon  *fakeCouponRepo
	vendor  *fakeVendorRepo
	food    *fakeFoodRepo
}

func newTestEnv() *testEnv {
	env := &testEnv{
		booking: newFakeBookingRepo(),
		cart:    newFakeCartRepo(),
		coupon:  newFakeCouponRepo(),
		vendor:  newFakeVendorRepo(),
		food:    newFakeFoodRepo(),
	}
	env.repo = &repository.Repository{
		Vendor:  env.vendor,
		Food:    env.food,
		Cart:    env.cart,
		Coupon:  env.coupon,
		Booking: env.booking,
	}
	return env
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}
