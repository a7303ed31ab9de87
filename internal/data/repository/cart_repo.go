package repository

import (
	"context"
	"fmt"

	"food-ordering/internal/data/entity"
	"food-ordering/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type CartRepository interface {
	Create(ctx context.Context, cart *entity.Cart) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Cart, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Cart, error)
	Update(ctx context.Context, cart *entity.Cart) error
	ClearConnectedCart(ctx context.Context, userID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type cartRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewCartRepository(db database.PgxIface, log *zap.Logger) CartRepository {
	return &cartRepository{
		db:  db,
		log: log.With(zap.String("repository", "cart")),
	}
}

const cartColumns = `id, user_id, vendor_id, service_type, items, totals,
	coupon_code, coupon_discount, coupon_id, connected_cart_id, created_at, updated_at`

func scanCart(row pgx.Row) (*entity.Cart, error) {
	var cart entity.Cart
	err := row.Scan(
		&cart.ID,
		&cart.UserID,
		&cart.VendorID,
		&cart.ServiceType,
		&cart.Items,
		&cart.Totals,
		&cart.CouponCode,
		&cart.CouponDiscount,
		&cart.CouponID,
		&cart.ConnectedCartID,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepository) Create(ctx context.Context, cart *entity.Cart) error {
	query := `
		INSERT INTO carts (` + cartColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.Exec(ctx, query,
		cart.ID,
		cart.UserID,
		cart.VendorID,
		cart.ServiceType,
		cart.Items,
		cart.Totals,
		cart.CouponCode,
		cart.CouponDiscount,
		cart.CouponID,
		cart.ConnectedCartID,
		cart.CreatedAt,
		cart.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create cart",
			zap.Error(err),
			zap.String("user_id", cart.UserID.String()),
		)
		return fmt.Errorf("create cart for user %s: %w", cart.UserID.String(), err)
	}

	return nil
}

func (r *cartRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Cart, error) {
	query := `SELECT ` + cartColumns + ` FROM carts WHERE id = $1`

	cart, err := scanCart(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find cart by ID",
			zap.Error(err),
			zap.String("cart_id", id.String()),
		)
		return nil, fmt.Errorf("find cart by ID %s: %w", id.String(), err)
	}

	return cart, nil
}

func (r *cartRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Cart, error) {
	query := `SELECT ` + cartColumns + ` FROM carts WHERE user_id = $1`

	cart, err := scanCart(r.db.QueryRow(ctx, query, userID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find cart by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find cart by user ID %s: %w", userID.String(), err)
	}

	return cart, nil
}

func (r *cartRepository) Update(ctx context.Context, cart *entity.Cart) error {
	query := `
		UPDATE carts
		SET vendor_id = $2, service_type = $3, items = $4, totals = $5,
		    coupon_code = $6, coupon_discount = $7, coupon_id = $8,
		    connected_cart_id = $9, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		cart.ID,
		cart.VendorID,
		cart.ServiceType,
		cart.Items,
		cart.Totals,
		cart.CouponCode,
		cart.CouponDiscount,
		cart.CouponID,
		cart.ConnectedCartID,
	)

	if err != nil {
		r.log.Error("Failed to update cart",
			zap.Error(err),
			zap.String("cart_id", cart.ID.String()),
		)
		return fmt.Errorf("update cart %s: %w", cart.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("cart %s not found", cart.ID.String())
	}

	return nil
}

// ClearConnectedCart drops a stale shared-cart link.
func (r *cartRepository) ClearConnectedCart(ctx context.Context, userID uuid.UUID) error {
	query := `UPDATE carts SET connected_cart_id = NULL, updated_at = NOW() WHERE user_id = $1`

	_, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to clear connected cart",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return fmt.Errorf("clear connected cart for user %s: %w", userID.String(), err)
	}

	return nil
}

func (r *cartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM carts WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete cart",
			zap.Error(err),
			zap.String("cart_id", id.String()),
		)
		return fmt.Errorf("delete cart %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("cart %s not found", id.String())
	}

	return nil
}
