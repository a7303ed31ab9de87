package repository

import (
	"context"
	"fmt"
	"time"

	"food-ordering/internal/data/entity"
	"food-ordering/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error)
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
	FindByVendorID(ctx context.Context, vendorID uuid.UUID, limit, offset int) ([]*entity.Booking, error)
	CountByVendorID(ctx context.Context, vendorID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// Lifecycle writes
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.OrderStatus) error
	MarkTimeout(ctx context.Context, id uuid.UUID) (bool, error)
	UpdateAcceptance(ctx context.Context, id uuid.UUID, respondedAt time.Time) error
	UpdateRejection(ctx context.Context, id uuid.UUID, reason, suggestedTime string, items []entity.ModifiedItem, respondedAt time.Time) error
	UpdatePayment(ctx context.Context, id uuid.UUID, status entity.PaymentStatus, details *entity.PaymentDetails) error
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `id, order_id, user_id, vendor_id, service_type, is_prebook,
	service_details, cart_snapshot, amount_summary, notes,
	coupon_code, coupon_discount, coupon_id,
	order_status, payment_status, payment_details, vendor_response_at,
	rejection_reason, suggested_time, modified_items, created_at, updated_at`

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var booking entity.Booking
	err := row.Scan(
		&booking.ID,
		&booking.OrderID,
		&booking.UserID,
		&booking.VendorID,
		&booking.ServiceType,
		&booking.IsPrebook,
		&booking.ServiceDetails,
		&booking.CartSnapshot,
		&booking.AmountSummary,
		&booking.Notes,
		&booking.CouponCode,
		&booking.CouponDiscount,
		&booking.CouponID,
		&booking.OrderStatus,
		&booking.PaymentStatus,
		&booking.PaymentDetails,
		&booking.VendorResponseAt,
		&booking.RejectionReason,
		&booking.SuggestedTime,
		&booking.ModifiedItems,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
	`

	_, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.OrderID,
		booking.UserID,
		booking.VendorID,
		booking.ServiceType,
		booking.IsPrebook,
		booking.ServiceDetails,
		booking.CartSnapshot,
		booking.AmountSummary,
		booking.Notes,
		booking.CouponCode,
		booking.CouponDiscount,
		booking.CouponID,
		booking.OrderStatus,
		booking.PaymentStatus,
		booking.PaymentDetails,
		booking.VendorResponseAt,
		booking.RejectionReason,
		booking.SuggestedTime,
		booking.ModifiedItems,
		booking.CreatedAt,
		booking.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("order_id", booking.OrderID),
			zap.String("user_id", booking.UserID.String()),
		)
		return fmt.Errorf("create booking %s: %w", booking.OrderID, err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) findPage(ctx context.Context, query string, owner uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	rows, err := r.db.Query(ctx, query, owner, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}

func (r *bookingRepository) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	bookings, err := r.findPage(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find bookings by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find bookings by user ID %s: %w", userID.String(), err)
	}
	return bookings, nil
}

func (r *bookingRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM bookings WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count bookings by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("count bookings by user ID %s: %w", userID.String(), err)
	}
	return count, nil
}

func (r *bookingRepository) FindByVendorID(ctx context.Context, vendorID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE vendor_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	bookings, err := r.findPage(ctx, query, vendorID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find bookings by vendor ID",
			zap.Error(err),
			zap.String("vendor_id", vendorID.String()),
		)
		return nil, fmt.Errorf("find bookings by vendor ID %s: %w", vendorID.String(), err)
	}
	return bookings, nil
}

func (r *bookingRepository) CountByVendorID(ctx context.Context, vendorID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM bookings WHERE vendor_id = $1`, vendorID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count bookings by vendor ID",
			zap.Error(err),
			zap.String("vendor_id", vendorID.String()),
		)
		return 0, fmt.Errorf("count bookings by vendor ID %s: %w", vendorID.String(), err)
	}
	return count, nil
}

func (r *bookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete booking",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return fmt.Errorf("delete booking %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s not found", id.String())
	}

	r.log.Info("Booking deleted", zap.String("booking_id", id.String()))
	return nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.OrderStatus) error {
	query := `UPDATE bookings SET order_status = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", id.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update booking %s status to %s: %w", id.String(), string(status), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s not found", id.String())
	}

	return nil
}

// MarkTimeout transitions a booking to timeout only if it is still pending.
// The condition guards against clobbering a vendor decision that lands in
// the same instant; false means the booking already left pending.
func (r *bookingRepository) MarkTimeout(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		UPDATE bookings SET order_status = $2, updated_at = NOW()
		WHERE id = $1 AND order_status = $3
	`

	result, err := r.db.Exec(ctx, query, id, entity.OrderStatusTimeout, entity.OrderStatusPending)
	if err != nil {
		r.log.Error("Failed to mark booking timeout",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return false, fmt.Errorf("mark booking %s timeout: %w", id.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *bookingRepository) UpdateAcceptance(ctx context.Context, id uuid.UUID, respondedAt time.Time) error {
	query := `
		UPDATE bookings
		SET order_status = $2, vendor_response_at = $3, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query, id, entity.OrderStatusAccepted, respondedAt)
	if err != nil {
		r.log.Error("Failed to accept booking",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return fmt.Errorf("accept booking %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s not found", id.String())
	}

	return nil
}

func (r *bookingRepository) UpdateRejection(ctx context.Context, id uuid.UUID, reason, suggestedTime string, items []entity.ModifiedItem, respondedAt time.Time) error {
	query := `
		UPDATE bookings
		SET order_status = $2, rejection_reason = $3, suggested_time = $4,
		    modified_items = $5, vendor_response_at = $6, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query, id, entity.OrderStatusRejected, reason, suggestedTime, items, respondedAt)
	if err != nil {
		r.log.Error("Failed to reject booking",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return fmt.Errorf("reject booking %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s not found", id.String())
	}

	return nil
}

func (r *bookingRepository) UpdatePayment(ctx context.Context, id uuid.UUID, status entity.PaymentStatus, details *entity.PaymentDetails) error {
	query := `
		UPDATE bookings
		SET payment_status = $2, payment_details = $3, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query, id, status, details)
	if err != nil {
		r.log.Error("Failed to update booking payment",
			zap.Error(err),
			zap.String("booking_id", id.String()),
			zap.String("payment_status", string(status)),
		)
		return fmt.Errorf("update booking %s payment: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s not found", id.String())
	}

	return nil
}
