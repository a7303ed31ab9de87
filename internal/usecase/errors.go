package usecase

import (
	"errors"
	"fmt"
)

// Sentinel errors classified by the handlers: not-found errors answer 404
// without revealing whether the resource exists for another caller; conflict
// errors answer 400 with the violated rule.
var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrCartNotFound   = errors.New("cart not found")
	ErrVendorNotFound = errors.New("vendor not found")
	ErrFoodNotFound   = errors.New("food not found")

	ErrEmptyCart           = errors.New("cart is empty")
	ErrServiceTypeMismatch = errors.New("requested service type does not match the cart")
	ErrVendorMissing       = errors.New("cart has no vendor")
	ErrDifferentVendor     = errors.New("cart already has items from another vendor")
)

// ValidationError carries the field-error map from request validation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// NewFieldError builds a ValidationError for a single field.
func NewFieldError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// CouponInvalidError reports why an applied coupon no longer validates at
// booking time. The caller must surface the reason to the user.
type CouponInvalidError struct {
	Code   string
	Reason string
}

func (e *CouponInvalidError) Error() string {
	return fmt.Sprintf("coupon %s invalid: %s", e.Code, e.Reason)
}

// InvalidModifiedItemError rejects a whole respond request over one bad
// modified-item entry; nothing is applied partially.
type InvalidModifiedItemError struct {
	FoodID string
	Reason string
}

func (e *InvalidModifiedItemError) Error() string {
	return fmt.Sprintf("invalid modified item %s: %s", e.FoodID, e.Reason)
}

// StateError marks an operation attempted against a booking in the wrong
// lifecycle state.
type StateError struct {
	Message string
}

func (e *StateError) Error() string {
	return e.Message
}
