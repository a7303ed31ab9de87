package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"food-ordering/internal/data/entity"
	"food-ordering/internal/data/repository"
	"food-ordering/internal/dto/request"
	"food-ordering/internal/dto/response"
	"food-ordering/pkg/stream"
	"food-ordering/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService interface {
	// CreateBooking persists a pending booking and blocks until the vendor
	// decides or the response window elapses. The returned message explains
	// the accepted/rejected/timeout outcome; all three are success-class.
	CreateBooking(ctx context.Context, userID uuid.UUID, req *request.CreateBookingRequest) (*response.BookingResponse, string, error)

	GetBooking(ctx context.Context, userID, bookingID uuid.UUID) (*response.BookingResponse, error)
	GetUserBookings(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	GetVendorBookings(ctx context.Context, vendorID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)

	VendorRespond(ctx context.Context, vendorID, bookingID uuid.UUID, req *request.VendorRespondRequest) (*response.VendorRespondResponse, error)
	AdvanceStatus(ctx context.Context, vendorID, bookingID uuid.UUID) (*response.BookingResponse, error)
	ConfirmPayment(ctx context.Context, userID, bookingID uuid.UUID, req *request.PaymentConfirmRequest) (*response.BookingResponse, error)
}

type bookingService struct {
	repo        *repository.Repository
	coupon      CouponService
	broadcaster *stream.Broadcaster
	config      *utils.Config
	log         *zap.Logger
}

func NewBookingService(repo *repository.Repository, coupon CouponService, broadcaster *stream.Broadcaster, config *utils.Config, log *zap.Logger) BookingService {
	return &bookingService{
		repo:        repo,
		coupon:      coupon,
		broadcaster: broadcaster,
		config:      config,
		log:         log.With(zap.String("service", "booking")),
	}
}

const (
	msgAccepted = "Booking accepted by vendor"
	msgRejected = "Booking rejected by vendor"
	msgTimeout  = "Vendor did not respond in time"
)

func (s *bookingService) CreateBooking(ctx context.Context, userID uuid.UUID, req *request.CreateBookingRequest) (*response.BookingResponse, string, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, "", &ValidationError{Fields: errs}
	}

	serviceType, err := entity.NormalizeServiceType(req.ServiceType)
	if err != nil {
		return nil, "", NewFieldError("serviceType", err.Error())
	}
	group, err := entity.GroupOf(serviceType)
	if err != nil {
		return nil, "", NewFieldError("serviceType", err.Error())
	}

	cart, err := s.resolveBookingCart(ctx, userID)
	if err != nil {
		return nil, "", err
	}

	if cart.ServiceType != serviceType {
		return nil, "", ErrServiceTypeMismatch
	}

	if cart.VendorID == nil {
		return nil, "", ErrVendorMissing
	}
	vendor, err := s.repo.Vendor.FindByID(ctx, *cart.VendorID)
	if err != nil {
		return nil, "", fmt.Errorf("create booking: %w", err)
	}
	if vendor == nil {
		return nil, "", ErrVendorNotFound
	}

	serviceDetails, err := buildServiceDetails(group, req)
	if err != nil {
		return nil, "", err
	}

	booking := &entity.Booking{
		OrderID:        utils.GenerateOrderID(),
		UserID:         userID,
		VendorID:       vendor.ID,
		ServiceType:    serviceType,
		IsPrebook:      cart.HasPrebookItem(),
		ServiceDetails: serviceDetails,
		Notes:          req.Notes,
		OrderStatus:    entity.OrderStatusPending,
		PaymentStatus:  entity.PaymentStatusPending,
	}

	// Re-validate the coupon at booking time; rules may have changed since
	// it was applied to the cart.
	if cart.CouponCode != "" {
		if err := s.reconcileCoupon(ctx, cart, booking); err != nil {
			return nil, "", err
		}
	}

	now := time.Now()
	booking.ID = uuid.New()
	booking.CreatedAt = now
	booking.UpdatedAt = now
	booking.CartSnapshot = buildSnapshot(cart)
	booking.AmountSummary = entity.AmountSummary(cart.Totals)

	if err := s.repo.Booking.Create(ctx, booking); err != nil {
		return nil, "", fmt.Errorf("create booking: %w", err)
	}

	s.log.Info("Booking created, waiting for vendor",
		zap.String("booking_id", booking.ID.String()),
		zap.String("order_id", booking.OrderID),
		zap.String("vendor_id", vendor.ID.String()),
		zap.String("service_type", string(serviceType)),
		zap.Float64("grand_total", booking.AmountSummary.GrandTotal),
	)

	if booking.CouponID != nil {
		if err := s.coupon.MarkAsUsed(ctx, *booking.CouponID, userID); err != nil {
			// Degrade: the booking proceeds even if usage bookkeeping fails.
			s.log.Warn("Failed to mark coupon as used", zap.Error(err))
		}
	}

	return s.waitForVendorDecision(ctx, booking.ID)
}

// resolveBookingCart picks the cart to book: the connected cart when linked,
// otherwise the user's own non-empty cart. A stale link is cleared and the
// attempt fails with EmptyCart.
func (s *bookingService) resolveBookingCart(ctx context.Context, userID uuid.UUID) (*entity.Cart, error) {
	cart, err := s.repo.Cart.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolve booking cart: %w", err)
	}
	if cart == nil {
		return nil, ErrEmptyCart
	}

	if cart.ConnectedCartID != nil {
		connected, err := s.repo.Cart.FindByID(ctx, *cart.ConnectedCartID)
		if err != nil {
			return nil, fmt.Errorf("resolve connected cart: %w", err)
		}
		if connected == nil {
			if err := s.repo.Cart.ClearConnectedCart(ctx, userID); err != nil {
				s.log.Warn("Failed to clear stale connected cart", zap.Error(err))
			}
			return nil, ErrEmptyCart
		}
		if len(connected.Items) == 0 {
			return nil, ErrEmptyCart
		}
		return connected, nil
	}

	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}
	return cart, nil
}

// buildSnapshot freezes the cart lines by value. Option slices are copied so
// later cart edits cannot reach into the booked order.
func buildSnapshot(cart *entity.Cart) []entity.SnapshotItem {
	snapshot := make([]entity.SnapshotItem, len(cart.Items))
	for i, item := range cart.Items {
		line := entity.SnapshotItem(item)
		line.Customizations = append([]entity.ItemOption(nil), item.Customizations...)
		line.AddOns = append([]entity.ItemOption(nil), item.AddOns...)
		snapshot[i] = line
	}
	return snapshot
}

// buildServiceDetails validates the per-group required subset and copies the
// relevant fields.
func buildServiceDetails(group entity.ServiceGroup, req *request.CreateBookingRequest) (entity.ServiceDetails, error) {
	details := entity.ServiceDetails{ReachTime: req.ReachTime}

	switch group {
	case entity.ServiceGroupDelivery:
		fields := map[string]string{}
		if req.Address == "" {
			fields["address"] = "This field is required"
		}
		if req.Latitude == 0 || req.Longitude == 0 {
			fields["latitude"] = "Delivery coordinates are required"
		}
		if req.Name == "" {
			fields["name"] = "This field is required"
		}
		if req.PhoneNumber == "" {
			fields["phoneNumber"] = "This field is required"
		}
		if len(fields) > 0 {
			return details, &ValidationError{Fields: fields}
		}
		details.Address = req.Address
		details.Latitude = req.Latitude
		details.Longitude = req.Longitude
		details.Name = req.Name
		details.PhoneNumber = req.PhoneNumber
		details.ReachTime = ""

	case entity.ServiceGroupDineIn:
		fields := map[string]string{}
		if req.PersonCount < 1 {
			fields["personCount"] = "This field is required"
		}
		if req.ReachTime == "" {
			fields["reachTime"] = "This field is required"
		}
		if len(fields) > 0 {
			return details, &ValidationError{Fields: fields}
		}
		details.PersonCount = req.PersonCount

	case entity.ServiceGroupTakeaway:
		if req.ReachTime == "" {
			return details, NewFieldError("reachTime", "This field is required")
		}
		details.VehicleDetails = req.VehicleDetails
	}

	return details, nil
}

// reconcileCoupon re-runs coupon validation against current rules. On
// invalidation the coupon is stripped from the cart and the booking attempt
// fails with the validator's reason; on success the cart totals are
// reconciled with the fresh discount.
func (s *bookingService) reconcileCoupon(ctx context.Context, cart *entity.Cart, booking *entity.Booking) error {
	orderAmount := cart.Totals.SubTotal + cart.Totals.AddOnTotal + cart.Totals.CustomizationTotal

	discount, coupon, err := s.coupon.ValidateCoupon(ctx, cart.CouponCode, booking.UserID, orderAmount, booking.VendorID)
	if err != nil {
		var invalid *CouponInvalidError
		if !errors.As(err, &invalid) {
			return fmt.Errorf("reconcile coupon: %w", err)
		}

		s.log.Info("Coupon invalidated at booking time",
			zap.String("user_id", booking.UserID.String()),
			zap.String("code", cart.CouponCode),
			zap.String("reason", invalid.Reason),
		)

		cart.CouponCode = ""
		cart.CouponDiscount = 0
		cart.CouponID = nil
		cart.Recalculate(s.config.Tax.Percentage)
		if err := s.repo.Cart.Update(ctx, cart); err != nil {
			s.log.Error("Failed to persist coupon strip", zap.Error(err))
		}
		return invalid
	}

	if discount != cart.CouponDiscount {
		cart.CouponDiscount = discount
		cart.Recalculate(s.config.Tax.Percentage)
		if err := s.repo.Cart.Update(ctx, cart); err != nil {
			s.log.Error("Failed to persist reconciled discount", zap.Error(err))
		}
	}

	booking.CouponCode = coupon.Code
	booking.CouponDiscount = discount
	couponID := coupon.ID
	booking.CouponID = &couponID
	return nil
}

// waitForVendorDecision polls the persisted booking until it leaves pending
// or the response window elapses. The booking may be mutated by the vendor's
// respond call at any point between polls; the wait itself survives client
// disconnect, so the terminal state is always written.
func (s *bookingService) waitForVendorDecision(ctx context.Context, bookingID uuid.UUID) (*response.BookingResponse, string, error) {
	ctx = context.WithoutCancel(ctx)

	deadline := time.NewTimer(s.config.Booking.ResponseTimeout)
	defer deadline.Stop()
	ticker := time.NewTicker(s.config.Booking.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			booking, err := s.repo.Booking.FindByID(ctx, bookingID)
			if err != nil {
				return nil, "", fmt.Errorf("poll booking: %w", err)
			}
			if booking == nil {
				return nil, "", ErrOrderNotFound
			}
			if booking.OrderStatus == entity.OrderStatusPending {
				continue
			}

			message := msgAccepted
			if booking.OrderStatus == entity.OrderStatusRejected {
				message = msgRejected
			}
			return response.BookingToResponse(booking), message, nil

		case <-deadline.C:
			timedOut, err := s.repo.Booking.MarkTimeout(ctx, bookingID)
			if err != nil {
				return nil, "", fmt.Errorf("mark booking timeout: %w", err)
			}

			booking, err := s.repo.Booking.FindByID(ctx, bookingID)
			if err != nil {
				return nil, "", fmt.Errorf("read booking after timeout: %w", err)
			}
			if booking == nil {
				return nil, "", ErrOrderNotFound
			}

			if !timedOut {
				// A vendor decision landed in the same instant; honor it.
				message := msgAccepted
				if booking.OrderStatus == entity.OrderStatusRejected {
					message = msgRejected
				}
				return response.BookingToResponse(booking), message, nil
			}

			// Timed-out bookings leave no queryable trace.
			resp := response.BookingToResponse(booking)
			if err := s.repo.Booking.Delete(ctx, bookingID); err != nil {
				s.log.Error("Failed to delete timed-out booking",
					zap.Error(err),
					zap.String("booking_id", bookingID.String()),
				)
			}

			s.log.Info("Booking timed out",
				zap.String("booking_id", bookingID.String()),
				zap.String("order_id", booking.OrderID),
			)
			return resp, msgTimeout, nil
		}
	}
}

func (s *bookingService) GetBooking(ctx context.Context, userID, bookingID uuid.UUID) (*response.BookingResponse, error) {
	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if booking == nil || booking.UserID != userID {
		return nil, ErrOrderNotFound
	}

	return response.BookingToResponse(booking), nil
}

func (s *bookingService) GetUserBookings(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	bookings, err := s.repo.Booking.FindByUserID(ctx, userID, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("get user bookings: %w", err)
	}

	total, err := s.repo.Booking.CountByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count user bookings: %w", err)
	}

	responses := make([]response.BookingResponse, len(bookings))
	for i, booking := range bookings {
		responses[i] = *response.BookingToResponse(booking)
	}

	return response.NewPaginatedResponse(responses, req.Page, req.PerPage, total), nil
}

func (s *bookingService) GetVendorBookings(ctx context.Context, vendorID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	bookings, err := s.repo.Booking.FindByVendorID(ctx, vendorID, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("get vendor bookings: %w", err)
	}

	total, err := s.repo.Booking.CountByVendorID(ctx, vendorID)
	if err != nil {
		return nil, fmt.Errorf("count vendor bookings: %w", err)
	}

	responses := make([]response.BookingResponse, len(bookings))
	for i, booking := range bookings {
		responses[i] = *response.BookingToResponse(booking)
	}

	return response.NewPaginatedResponse(responses, req.Page, req.PerPage, total), nil
}

func (s *bookingService) VendorRespond(ctx context.Context, vendorID, bookingID uuid.UUID, req *request.VendorRespondRequest) (*response.VendorRespondResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("vendor respond: %w", err)
	}
	// Wrong vendor and wrong state both read as not-found; existence is not
	// revealed to a vendor the booking does not belong to.
	if booking == nil || booking.VendorID != vendorID || booking.OrderStatus != entity.OrderStatusPending {
		return nil, ErrOrderNotFound
	}

	now := time.Now()

	if req.Action == "accept" {
		if err := s.repo.Booking.UpdateAcceptance(ctx, bookingID, now); err != nil {
			return nil, fmt.Errorf("vendor respond: %w", err)
		}
		booking.OrderStatus = entity.OrderStatusAccepted
		booking.VendorResponseAt = &now
		booking.UpdatedAt = now

		s.log.Info("Booking accepted",
			zap.String("booking_id", bookingID.String()),
			zap.String("vendor_id", vendorID.String()),
		)

		s.publishStatus(booking)

		return &response.VendorRespondResponse{
			Booking:     response.BookingToResponse(booking),
			TotalAmount: booking.AmountSummary.GrandTotal,
			Payment: &response.PaymentInitiation{
				Required: true,
				Amount:   booking.AmountSummary.GrandTotal,
			},
		}, nil
	}

	// reject: validate every modified item against the snapshot before any
	// write; one bad entry fails the whole request.
	modifiedItems, err := validateModifiedItems(booking, req.ModifiedItems)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Booking.UpdateRejection(ctx, bookingID, req.RejectionReason, req.SuggestedTime, modifiedItems, now); err != nil {
		return nil, fmt.Errorf("vendor respond: %w", err)
	}
	booking.OrderStatus = entity.OrderStatusRejected
	booking.RejectionReason = req.RejectionReason
	booking.SuggestedTime = req.SuggestedTime
	booking.ModifiedItems = modifiedItems
	booking.VendorResponseAt = &now
	booking.UpdatedAt = now

	s.log.Info("Booking rejected",
		zap.String("booking_id", bookingID.String()),
		zap.String("vendor_id", vendorID.String()),
		zap.Int("modified_items", len(modifiedItems)),
	)

	s.publishStatus(booking)

	return &response.VendorRespondResponse{
		Booking:     response.BookingToResponse(booking),
		TotalAmount: booking.AmountSummary.GrandTotal,
	}, nil
}

func validateModifiedItems(booking *entity.Booking, items []request.ModifiedItemRequest) ([]entity.ModifiedItem, error) {
	if len(items) == 0 {
		return nil, nil
	}

	modified := make([]entity.ModifiedItem, 0, len(items))
	for _, item := range items {
		foodID, err := uuid.Parse(item.FoodID)
		if err != nil {
			return nil, &InvalidModifiedItemError{FoodID: item.FoodID, Reason: "not a valid food id"}
		}

		line, ok := booking.SnapshotLine(foodID)
		if !ok {
			return nil, &InvalidModifiedItemError{FoodID: item.FoodID, Reason: "food is not part of the order"}
		}
		if item.UpdatedQuantity < 1 || item.UpdatedQuantity > line.Quantity {
			return nil, &InvalidModifiedItemError{
				FoodID: item.FoodID,
				Reason: fmt.Sprintf("updated quantity must be between 1 and %d", line.Quantity),
			}
		}

		modified = append(modified, entity.ModifiedItem{
			FoodID:           foodID,
			FoodName:         line.Name,
			OriginalQuantity: line.Quantity,
			UpdatedQuantity:  item.UpdatedQuantity,
			Reason:           item.Reason,
		})
	}

	return modified, nil
}

func (s *bookingService) AdvanceStatus(ctx context.Context, vendorID, bookingID uuid.UUID) (*response.BookingResponse, error) {
	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("advance status: %w", err)
	}
	if booking == nil || booking.VendorID != vendorID {
		return nil, ErrOrderNotFound
	}

	switch {
	case booking.OrderStatus == entity.OrderStatusCompleted:
		return nil, &StateError{Message: "order is already completed"}
	case booking.OrderStatus.Terminal():
		return nil, &StateError{Message: fmt.Sprintf("order is %s and cannot advance", booking.OrderStatus)}
	case booking.OrderStatus == entity.OrderStatusPending:
		return nil, &StateError{Message: "order is awaiting vendor response"}
	case booking.OrderStatus == entity.OrderStatusAccepted && booking.PaymentStatus != entity.PaymentStatusCompleted:
		return nil, &StateError{Message: "payment must be completed before the order can advance"}
	}

	group, err := entity.GroupOf(booking.ServiceType)
	if err != nil {
		return nil, fmt.Errorf("advance status: %w", err)
	}

	next, err := entity.NextStatus(group, booking.OrderStatus)
	if err != nil {
		return nil, &StateError{Message: err.Error()}
	}

	if err := s.repo.Booking.UpdateStatus(ctx, bookingID, next); err != nil {
		return nil, fmt.Errorf("advance status: %w", err)
	}
	booking.OrderStatus = next
	booking.UpdatedAt = time.Now()

	s.log.Info("Booking status advanced",
		zap.String("booking_id", bookingID.String()),
		zap.String("vendor_id", vendorID.String()),
		zap.String("status", string(next)),
	)

	s.publishStatus(booking)

	return response.BookingToResponse(booking), nil
}

func (s *bookingService) ConfirmPayment(ctx context.Context, userID, bookingID uuid.UUID, req *request.PaymentConfirmRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("confirm payment: %w", err)
	}
	if booking == nil || booking.UserID != userID {
		return nil, ErrOrderNotFound
	}

	if booking.PaymentStatus == entity.PaymentStatusCompleted {
		return nil, &StateError{Message: "payment is already completed"}
	}
	if booking.OrderStatus != entity.OrderStatusAccepted {
		return nil, &StateError{Message: fmt.Sprintf("payment can only be confirmed for an accepted order, not %s", booking.OrderStatus)}
	}

	details := &entity.PaymentDetails{
		TransactionID:       req.TransactionID,
		ProviderReferenceID: req.ProviderReferenceID,
		Amount:              req.Amount,
		PaymentMethod:       req.PaymentMethod,
		PaidAt:              time.Now(),
	}

	if err := s.repo.Booking.UpdatePayment(ctx, bookingID, entity.PaymentStatusCompleted, details); err != nil {
		return nil, fmt.Errorf("confirm payment: %w", err)
	}
	booking.PaymentStatus = entity.PaymentStatusCompleted
	booking.PaymentDetails = details

	s.log.Info("Payment confirmed",
		zap.String("booking_id", bookingID.String()),
		zap.String("user_id", userID.String()),
		zap.Float64("amount", req.Amount),
	)

	return response.BookingToResponse(booking), nil
}

// publishStatus pushes a STATUS_UPDATE frame to any open streams for the
// booking. Failures never abort the triggering request.
func (s *bookingService) publishStatus(booking *entity.Booking) {
	if s.broadcaster == nil {
		return
	}
	s.broadcaster.Publish(booking.ID, stream.Event{
		Type:    stream.EventTypeStatusUpdate,
		Payload: response.NewStatusUpdateEvent(booking),
	})
}
