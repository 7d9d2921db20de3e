package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront-be/internal/db"
	"storefront-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Querier is satisfied by *sql.DB and *sql.Tx.
type Querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Repository interface {
	ListAll(ctx context.Context) ([]Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Order, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
	// FindCustomer returns an empty summary for a deleted account.
	FindCustomer(ctx context.Context, userID uuid.UUID) (UserSummary, error)
	UpdateStatus(ctx context.Context, o *Order) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const selectOrder = `
	SELECT
		o.id,
		o.user_id,
		COALESCE(u.name, ''),
		COALESCE(u.email, ''),
		o.checkout_id,
		o.order_items,
		o.shipping_address,
		o.payment_method,
		o.total_price,
		o.is_paid,
		o.paid_at,
		o.is_delivered,
		o.delivered_at,
		o.status,
		o.payment_status,
		o.payment_details,
		o.created_at,
		o.updated_at
	FROM orders o
	LEFT JOIN users u ON u.id = o.user_id`

func scanOrder(row interface{ Scan(dest ...any) error }) (*Order, error) {
	var (
		o           Order
		paidAt      sql.NullTime
		deliveredAt sql.NullTime
	)
	err := row.Scan(
		&o.ID,
		&o.User.ID,
		&o.User.Name,
		&o.User.Email,
		&o.CheckoutID,
		&o.OrderItems,
		&o.ShippingAddress,
		&o.PaymentMethod,
		&o.TotalPrice,
		&o.IsPaid,
		&paidAt,
		&o.IsDelivered,
		&deliveredAt,
		&o.Status,
		&o.PaymentStatus,
		&o.PaymentDetails,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if paidAt.Valid {
		o.PaidAt = &paidAt.Time
	}
	if deliveredAt.Valid {
		o.DeliveredAt = &deliveredAt.Time
	}
	return &o, nil
}

func (r *repository) list(ctx context.Context, query string, args ...any) ([]Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

func (r *repository) ListAll(ctx context.Context) ([]Order, error) {
	orders, err := r.list(ctx, selectOrder+" ORDER BY o.created_at DESC")
	if err != nil {
		logger.FromCtx(ctx).Error("failed to list orders",
			zap.String("layer", "repository"),
			zap.Error(err),
		)
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Order, error) {
	orders, err := r.list(ctx, selectOrder+" WHERE o.user_id = $1 ORDER BY o.created_at DESC", userID)
	if err != nil {
		return nil, fmt.Errorf("list user orders: %w", err)
	}
	return orders, nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx, selectOrder+" WHERE o.id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

func (r *repository) FindCustomer(ctx context.Context, userID uuid.UUID) (UserSummary, error) {
	u := UserSummary{ID: userID}
	err := r.db.QueryRowContext(ctx, "SELECT name, email FROM users WHERE id = $1", userID).Scan(&u.Name, &u.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return u, nil
	}
	if err != nil {
		return UserSummary{}, fmt.Errorf("find order customer: %w", err)
	}
	return u, nil
}

func (r *repository) UpdateStatus(ctx context.Context, o *Order) error {
	err := r.db.QueryRowContext(ctx,
		`UPDATE orders SET
			status = $2,
			is_delivered = $3,
			delivered_at = $4,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		o.ID, o.Status, o.IsDelivered, o.DeliveredAt,
	).Scan(&o.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrOrderNotFound
	}
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM orders WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if n == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// Insert writes o on q, normally the finalize transaction.
// A second order for the same checkout is rejected by the checkout_id constraint.
func Insert(ctx context.Context, q Querier, o *Order) error {
	err := q.QueryRowContext(ctx,
		`INSERT INTO orders (
			user_id, checkout_id, order_items, shipping_address, payment_method,
			total_price, is_paid, paid_at, is_delivered, status, payment_status, payment_details
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at`,
		o.User.ID, o.CheckoutID, o.OrderItems, o.ShippingAddress, o.PaymentMethod,
		o.TotalPrice, o.IsPaid, o.PaidAt, o.IsDelivered, o.Status, o.PaymentStatus, o.PaymentDetails,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return ErrOrderExists
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}
