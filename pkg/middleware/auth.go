package middleware

import (
	"net/http"
	"strings"

	"food-ordering/internal/data/repository"
	"food-ordering/pkg/utils"

	"go.uber.org/zap"
)

// AuthSession validates the bearer session token and puts the user on the context.
func AuthSession(sessionRepo repository.SessionRepository, userRepo repository.UserRepository, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				utils.ResponseUnauthorized(w, "Missing authorization token")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				utils.ResponseUnauthorized(w, "Invalid token format. Use: Bearer <token>")
				return
			}

			token := parts[1]

			session, err := sessionRepo.FindValidSession(r.Context(), token)
			if err != nil {
				logger.Error("Failed to validate session", zap.Error(err))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}

			if session == nil {
				logger.Warn("Invalid or expired session")
				utils.ResponseUnauthorized(w, "Invalid or expired session")
				return
			}

			user, err := userRepo.FindByID(r.Context(), session.UserID)
			if err != nil {
				logger.Error("Failed to load session user",
					zap.Error(err),
					zap.String("user_id", session.UserID.String()))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}

			if user == nil || !user.IsActive {
				utils.ResponseUnauthorized(w, "Invalid or expired session")
				return
			}

			ctx := utils.SetUserContext(r.Context(), user.ID, user.Role)
			if user.VendorID != nil {
				ctx = utils.SetVendorContext(ctx, *user.VendorID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Vendor gates routes to callers with the vendor role and a linked vendor id.
func Vendor(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := utils.GetRoleFromContext(r.Context())
			if !ok || role != "vendor" {
				userID, _ := utils.GetUserIDFromContext(r.Context())
				logger.Warn("Vendor check: non-vendor access attempt",
					zap.String("user_id", userID.String()),
					zap.String("path", r.URL.Path))
				utils.ResponseForbidden(w, "Vendor access required")
				return
			}

			if _, ok := utils.GetVendorIDFromContext(r.Context()); !ok {
				utils.ResponseForbidden(w, "Vendor access required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
