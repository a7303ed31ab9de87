package utils

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	UserIDKey   contextKey = "user_id"
	RoleKey     contextKey = "role"
	VendorIDKey contextKey = "vendor_id"
)

func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userIDVal := ctx.Value(UserIDKey)
	if userIDVal == nil {
		return uuid.Nil, false
	}

	userIDStr, ok := userIDVal.(string)
	if !ok {
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, false
	}

	return userID, true
}

func GetRoleFromContext(ctx context.Context) (string, bool) {
	roleVal := ctx.Value(RoleKey)
	if roleVal == nil {
		return "", false
	}

	role, ok := roleVal.(string)
	return role, ok
}

// GetVendorIDFromContext returns the vendor a vendor-role caller acts for.
func GetVendorIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	vendorIDVal := ctx.Value(VendorIDKey)
	if vendorIDVal == nil {
		return uuid.Nil, false
	}

	vendorIDStr, ok := vendorIDVal.(string)
	if !ok {
		return uuid.Nil, false
	}

	vendorID, err := uuid.Parse(vendorIDStr)
	if err != nil {
		return uuid.Nil, false
	}

	return vendorID, true
}

func SetUserContext(ctx context.Context, userID uuid.UUID, role string) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID.String())
	ctx = context.WithValue(ctx, RoleKey, role)
	return ctx
}

func SetVendorContext(ctx context.Context, vendorID uuid.UUID) context.Context {
	return context.WithValue(ctx, VendorIDKey, vendorID.String())
}
