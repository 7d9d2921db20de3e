package checkout

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"storefront-be/internal/cart"
	"storefront-be/internal/logger"
	"storefront-be/internal/order"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, c *Checkout) error
	GetByID(ctx context.Context, id uuid.UUID) (*Checkout, error)
	MarkPaid(ctx context.Context, c *Checkout) error
	// Finalize converts a paid checkout into an order, marks it finalized and
	// clears the owner's cart in one transaction.
	Finalize(ctx context.Context, id uuid.UUID, now time.Time) (*order.Order, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const checkoutColumns = `id, user_id, checkout_items, shipping_address, payment_method, total_price,
	is_paid, paid_at, payment_status, payment_details, is_finalized, finalized_at, created_at, updated_at`

func scanCheckout(row interface{ Scan(dest ...any) error }) (*Checkout, error) {
	var (
		c           Checkout
		paidAt      sql.NullTime
		finalizedAt sql.NullTime
	)
	err := row.Scan(
		&c.ID, &c.UserID, &c.CheckoutItems, &c.ShippingAddress, &c.PaymentMethod, &c.TotalPrice,
		&c.IsPaid, &paidAt, &c.PaymentStatus, &c.PaymentDetails, &c.IsFinalized, &finalizedAt,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if paidAt.Valid {
		c.PaidAt = &paidAt.Time
	}
	if finalizedAt.Valid {
		c.FinalizedAt = &finalizedAt.Time
	}
	return &c, nil
}

func (r *repository) Create(ctx context.Context, c *Checkout) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO checkouts (user_id, checkout_items, shipping_address, payment_method, total_price, payment_status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`,
		c.UserID, c.CheckoutItems, c.ShippingAddress, c.PaymentMethod, c.TotalPrice, c.PaymentStatus,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to insert checkout",
			zap.String("layer", "repository"),
			zap.Error(err),
		)
		return fmt.Errorf("insert checkout: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Checkout, error) {
	c, err := scanCheckout(r.db.QueryRowContext(ctx,
		"SELECT "+checkoutColumns+" FROM checkouts WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCheckoutNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get checkout: %w", err)
	}
	return c, nil
}

// MarkPaid only touches checkouts that are not finalized yet.
func (r *repository) MarkPaid(ctx context.Context, c *Checkout) error {
	err := r.db.QueryRowContext(ctx,
		`UPDATE checkouts SET
			is_paid = $2,
			payment_status = $3,
			payment_details = $4,
			paid_at = $5,
			updated_at = NOW()
		WHERE id = $1 AND is_finalized = FALSE
		RETURNING updated_at`,
		c.ID, c.IsPaid, c.PaymentStatus, c.PaymentDetails, c.PaidAt,
	).Scan(&c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrAlreadyFinalized
	}
	if err != nil {
		return fmt.Errorf("mark checkout paid: %w", err)
	}
	return nil
}

func (r *repository) Finalize(ctx context.Context, id uuid.UUID, now time.Time) (*order.Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Finalize"),
		zap.String("checkout_id", id.String()),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin finalize: %w", err)
	}
	defer tx.Rollback()

	// Concurrent finalize calls queue on this lock and see the winner's result.
	c, err := scanCheckout(tx.QueryRowContext(ctx,
		"SELECT "+checkoutColumns+" FROM checkouts WHERE id = $1 FOR UPDATE", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCheckoutNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock checkout: %w", err)
	}
	if err := c.CanFinalize(); err != nil {
		return nil, err
	}

	o := c.ToOrder()
	if err := order.Insert(ctx, tx, o); err != nil {
		if errors.Is(err, order.ErrOrderExists) {
			return nil, ErrAlreadyFinalized
		}
		log.Error("failed to insert order", zap.Error(err))
		return nil, err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE checkouts SET is_finalized = TRUE, finalized_at = $2, updated_at = NOW() WHERE id = $1`,
		id, now,
	); err != nil {
		return nil, fmt.Errorf("mark checkout finalized: %w", err)
	}

	if err := cart.ClearUserCart(ctx, tx, c.UserID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit finalize: %w", err)
	}
	return o, nil
}
