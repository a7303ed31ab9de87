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
	"food-ordering/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CartService interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*response.CartResponse, error)
	AddItem(ctx context.Context, userID uuid.UUID, req *request.AddCartItemRequest) (*response.CartResponse, error)
	UpdateItem(ctx context.Context, userID uuid.UUID, req *request.UpdateCartItemRequest) (*response.CartResponse, error)
	ApplyCoupon(ctx context.Context, userID uuid.UUID, req *request.ApplyCouponRequest) (*response.CartResponse, error)
	RemoveCoupon(ctx context.Context, userID uuid.UUID) (*response.CartResponse, error)
	ConnectCart(ctx context.Context, userID uuid.UUID, req *request.ConnectCartRequest) (*response.CartResponse, error)
	DisconnectCart(ctx context.Context, userID uuid.UUID) (*response.CartResponse, error)
}

type cartService struct {
	repo   *repository.Repository
	coupon CouponService
	config *utils.Config
	log    *zap.Logger
}

func NewCartService(repo *repository.Repository, coupon CouponService, config *utils.Config, log *zap.Logger) CartService {
	return &cartService{
		repo:   repo,
		coupon: coupon,
		config: config,
		log:    log.With(zap.String("service", "cart")),
	}
}

func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) (*response.CartResponse, error) {
	cart, err := s.repo.Cart.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	if cart == nil {
		return nil, ErrCartNotFound
	}

	// A linked shared cart takes precedence over the user's own cart.
	if cart.ConnectedCartID != nil {
		connected, err := s.repo.Cart.FindByID(ctx, *cart.ConnectedCartID)
		if err != nil {
			return nil, fmt.Errorf("get connected cart: %w", err)
		}
		if connected == nil {
			// Stale link: the shared cart was deleted.
			if err := s.repo.Cart.ClearConnectedCart(ctx, userID); err != nil {
				s.log.Warn("Failed to clear stale connected cart", zap.Error(err))
			}
		} else {
			return response.CartToResponse(connected, true), nil
		}
	}

	return response.CartToResponse(cart, false), nil
}

func (s *cartService) AddItem(ctx context.Context, userID uuid.UUID, req *request.AddCartItemRequest) (*response.CartResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	serviceType, err := entity.NormalizeServiceType(req.ServiceType)
	if err != nil {
		return nil, NewFieldError("serviceType", err.Error())
	}

	foodID, err := uuid.Parse(req.FoodID)
	if err != nil {
		return nil, NewFieldError("foodId", "Must be a valid UUID")
	}

	food, err := s.repo.Food.FindByID(ctx, foodID)
	if err != nil {
		return nil, fmt.Errorf("add cart item: %w", err)
	}
	if food == nil || !food.IsAvailable {
		return nil, ErrFoodNotFound
	}

	cart, err := s.repo.Cart.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("add cart item: %w", err)
	}

	created := false
	if cart == nil {
		now := time.Now()
		cart = &entity.Cart{
			Base:   entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
			UserID: userID,
		}
		created = true
	}

	if len(cart.Items) > 0 {
		// Vendor and service type lock in with the first item.
		if cart.VendorID != nil && *cart.VendorID != food.VendorID {
			return nil, ErrDifferentVendor
		}
		if cart.ServiceType != serviceType {
			return nil, ErrServiceTypeMismatch
		}
	} else {
		vendorID := food.VendorID
		cart.VendorID = &vendorID
		cart.ServiceType = serviceType
	}

	item := entity.CartItem{
		FoodID:        food.ID,
		Name:          food.Name,
		Image:         food.Image,
		FoodType:      food.FoodType,
		Quantity:      req.Quantity,
		BasePrice:     food.Price,
		DiscountPrice: food.DiscountPrice,
		PackingCharge: food.PackingCharge,
		IsPrebook:     food.IsPrebook,
		Notes:         req.Notes,
	}
	for _, c := range req.Customizations {
		id, err := uuid.Parse(c.ID)
		if err != nil {
			return nil, NewFieldError("customizations", "Must be a valid UUID")
		}
		item.Customizations = append(item.Customizations, entity.ItemOption{
			ID: id, Name: c.Name, Price: c.Price, Quantity: c.Quantity,
		})
	}
	for _, a := range req.AddOns {
		id, err := uuid.Parse(a.ID)
		if err != nil {
			return nil, NewFieldError("addOns", "Must be a valid UUID")
		}
		item.AddOns = append(item.AddOns, entity.ItemOption{
			ID: id, Name: a.Name, Price: a.Price, Quantity: a.Quantity,
		})
	}

	// Same food added again replaces that line.
	replaced := false
	for i := range cart.Items {
		if cart.Items[i].FoodID == food.ID {
			cart.Items[i] = item
			replaced = true
			break
		}
	}
	if !replaced {
		cart.Items = append(cart.Items, item)
	}

	cart.Recalculate(s.config.Tax.Percentage)

	if created {
		err = s.repo.Cart.Create(ctx, cart)
	} else {
		err = s.repo.Cart.Update(ctx, cart)
	}
	if err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}

	s.log.Info("Cart item added",
		zap.String("user_id", userID.String()),
		zap.String("food_id", food.ID.String()),
		zap.Int("quantity", req.Quantity),
	)

	return response.CartToResponse(cart, false), nil
}

func (s *cartService) UpdateItem(ctx context.Context, userID uuid.UUID, req *request.UpdateCartItemRequest) (*response.CartResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	foodID, err := uuid.Parse(req.FoodID)
	if err != nil {
		return nil, NewFieldError("foodId", "Must be a valid UUID")
	}

	cart, err := s.repo.Cart.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("update cart item: %w", err)
	}
	if cart == nil {
		return nil, ErrCartNotFound
	}

	found := false
	items := cart.Items[:0]
	for _, item := range cart.Items {
		if item.FoodID == foodID {
			found = true
			if req.Quantity == 0 {
				continue // quantity zero removes the line
			}
			item.Quantity = req.Quantity
		}
		items = append(items, item)
	}
	if !found {
		return nil, ErrFoodNotFound
	}
	cart.Items = items

	if len(cart.Items) == 0 {
		cart.VendorID = nil
		cart.CouponCode = ""
		cart.CouponDiscount = 0
		cart.CouponID = nil
	}

	cart.Recalculate(s.config.Tax.Percentage)

	if err := s.repo.Cart.Update(ctx, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}

	return response.CartToResponse(cart, false), nil
}

func (s *cartService) ApplyCoupon(ctx context.Context, userID uuid.UUID, req *request.ApplyCouponRequest) (*response.CartResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	cart, err := s.repo.Cart.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("apply coupon: %w", err)
	}
	if cart == nil || len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}
	if cart.VendorID == nil {
		return nil, ErrVendorMissing
	}

	orderAmount := cart.Totals.SubTotal + cart.Totals.AddOnTotal + cart.Totals.CustomizationTotal
	discount, coupon, err := s.coupon.ValidateCoupon(ctx, req.Code, userID, orderAmount, *cart.VendorID)
	if err != nil {
		var invalid *CouponInvalidError
		if errors.As(err, &invalid) {
			return nil, invalid
		}
		return nil, err
	}

	cart.CouponCode = coupon.Code
	cart.CouponDiscount = discount
	couponID := coupon.ID
	cart.CouponID = &couponID
	cart.Recalculate(s.config.Tax.Percentage)

	if err := s.repo.Cart.Update(ctx, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}

	s.log.Info("Coupon applied to cart",
		zap.String("user_id", userID.String()),
		zap.String("code", coupon.Code),
		zap.Float64("discount", discount),
	)

	return response.CartToResponse(cart, false), nil
}

func (s *cartService) RemoveCoupon(ctx context.Context, userID uuid.UUID) (*response.CartResponse, error) {
	cart, err := s.repo.Cart.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("remove coupon: %w", err)
	}
	if cart == nil {
		return nil, ErrCartNotFound
	}

	cart.CouponCode = ""
	cart.CouponDiscount = 0
	cart.CouponID = nil
	cart.Recalculate(s.config.Tax.Percentage)

	if err := s.repo.Cart.Update(ctx, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}

	return response.CartToResponse(cart, false), nil
}

func (s *cartService) ConnectCart(ctx context.Context, userID uuid.UUID, req *request.ConnectCartRequest) (*response.CartResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	targetID, err := uuid.Parse(req.CartID)
	if err != nil {
		return nil, NewFieldError("cartId", "Must be a valid UUID")
	}

	target, err := s.repo.Cart.FindByID(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("connect cart: %w", err)
	}
	if target == nil {
		return nil, ErrCartNotFound
	}

	cart, err := s.repo.Cart.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("connect cart: %w", err)
	}

	if cart == nil {
		now := time.Now()
		cart = &entity.Cart{
			Base:   entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
			UserID: userID,
		}
		cart.ConnectedCartID = &targetID
		if err := s.repo.Cart.Create(ctx, cart); err != nil {
			return nil, fmt.Errorf("connect cart: %w", err)
		}
	} else {
		cart.ConnectedCartID = &targetID
		if err := s.repo.Cart.Update(ctx, cart); err != nil {
			return nil, fmt.Errorf("connect cart: %w", err)
		}
	}

	s.log.Info("Cart connected",
		zap.String("user_id", userID.String()),
		zap.String("connected_cart_id", targetID.String()),
	)

	return response.CartToResponse(target, true), nil
}

func (s *cartService) DisconnectCart(ctx context.Context, userID uuid.UUID) (*response.CartResponse, error) {
	cart, err := s.repo.Cart.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("disconnect cart: %w", err)
	}
	if cart == nil {
		return nil, ErrCartNotFound
	}

	cart.ConnectedCartID = nil
	if err := s.repo.Cart.Update(ctx, cart); err != nil {
		return nil, fmt.Errorf("disconnect cart: %w", err)
	}

	return response.CartToResponse(cart, false), nil
}
