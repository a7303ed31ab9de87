package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"food-ordering/internal/dto/request"
	"food-ordering/internal/usecase"
	"food-ordering/pkg/utils"

	"go.uber.org/zap"
)

type CartHandler struct {
	service usecase.CartService
	log     *zap.Logger
}

func NewCartHandler(service usecase.CartService, log *zap.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		log:     log.With(zap.String("handler", "cart")),
	}
}

// GetCart handles GET /api/cart (protected)
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	cart, err := h.service.GetCart(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, err, "get cart")
		return
	}

	utils.ResponseSuccess(w, "success", cart)
}

// AddItem handles POST /api/cart/items (protected)
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.AddCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	cart, err := h.service.AddItem(r.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(w, err, "add cart item")
		return
	}

	utils.ResponseSuccess(w, "success", cart)
}

// UpdateItem handles PATCH /api/cart/items (protected). Quantity zero
// removes the line.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.UpdateCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	cart, err := h.service.UpdateItem(r.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(w, err, "update cart item")
		return
	}

	utils.ResponseSuccess(w, "success", cart)
}

// ApplyCoupon handles POST /api/cart/coupon (protected)
func (h *CartHandler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.ApplyCouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	cart, err := h.service.ApplyCoupon(r.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(w, err, "apply coupon")
		return
	}

	utils.ResponseSuccess(w, "success", cart)
}

// RemoveCoupon handles DELETE /api/cart/coupon (protected)
func (h *CartHandler) RemoveCoupon(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	cart, err := h.service.RemoveCoupon(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, err, "remove coupon")
		return
	}

	utils.ResponseSuccess(w, "success", cart)
}

// ConnectCart handles POST /api/cart/connect (protected)
func (h *CartHandler) ConnectCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.ConnectCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	cart, err := h.service.ConnectCart(r.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(w, err, "connect cart")
		return
	}

	utils.ResponseSuccess(w, "success", cart)
}

// DisconnectCart handles DELETE /api/cart/connect (protected)
func (h *CartHandler) DisconnectCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	cart, err := h.service.DisconnectCart(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, err, "disconnect cart")
		return
	}

	utils.ResponseSuccess(w, "success", cart)
}

func (h *CartHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	var validation *usecase.ValidationError
	var couponInvalid *usecase.CouponInvalidError

	switch {
	case errors.As(err, &validation):
		h.log.Warn(operation+" validation failed", zap.Any("fields", validation.Fields))
		utils.ResponseBadRequest(w, "Validation failed", validation.Fields)

	case errors.Is(err, usecase.ErrCartNotFound),
		errors.Is(err, usecase.ErrFoodNotFound),
		errors.Is(err, usecase.ErrVendorNotFound):
		h.log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, usecase.ErrDifferentVendor),
		errors.Is(err, usecase.ErrServiceTypeMismatch),
		errors.Is(err, usecase.ErrEmptyCart):
		h.log.Warn(operation+" failed - cart state", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.As(err, &couponInvalid):
		h.log.Warn(operation+" failed - coupon invalid", zap.Error(err))
		utils.ResponseBadRequest(w, couponInvalid.Error(), nil)

	default:
		h.log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
