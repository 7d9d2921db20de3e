package cart

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

// Execer is satisfied by *sql.DB and *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type Repository interface {
	FindByIdentity(ctx context.Context, owner Identity) (*Cart, error)
	Create(ctx context.Context, c *Cart) error
	Save(ctx context.Context, c *Cart) error
	Delete(ctx context.Context, id uuid.UUID) error
	// MergeInto saves target and deletes the cart guestCartID in one transaction.
	MergeInto(ctx context.Context, target *Cart, guestCartID uuid.UUID) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const cartColumns = "id, user_id, guest_id, products, total_price, version, created_at, updated_at"

func scanCart(row interface{ Scan(dest ...any) error }) (*Cart, error) {
	var (
		c       Cart
		userID  uuid.NullUUID
		guestID sql.NullString
	)
	if err := row.Scan(&c.ID, &userID, &guestID, &c.Products, &c.TotalPrice, &c.Version, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	if userID.Valid {
		c.UserID = &userID.UUID
	}
	c.GuestID = guestID.String
	if c.Products == nil {
		c.Products = LineItems{}
	}
	// total_price is rounded to cents; line prices are not.
	c.Recalculate()
	return &c, nil
}

func nullGuest(guestID string) sql.NullString {
	return sql.NullString{String: guestID, Valid: guestID != ""}
}

func (r *repository) FindByIdentity(ctx context.Context, owner Identity) (*Cart, error) {
	var row *sql.Row
	if id, ok := owner.UserID(); ok {
		row = r.db.QueryRowContext(ctx, "SELECT "+cartColumns+" FROM carts WHERE user_id = $1", id)
	} else if guest, ok := owner.GuestID(); ok {
		row = r.db.QueryRowContext(ctx, "SELECT "+cartColumns+" FROM carts WHERE guest_id = $1", guest)
	} else {
		return nil, ErrCartNotFound
	}

	c, err := scanCart(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find cart: %w", err)
	}
	return c, nil
}

func (r *repository) Create(ctx context.Context, c *Cart) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO carts (user_id, guest_id, products, total_price)
		VALUES ($1, $2, $3, $4)
		RETURNING id, version, created_at, updated_at`,
		c.UserID, nullGuest(c.GuestID), c.Products, c.TotalPrice,
	).Scan(&c.ID, &c.Version, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		// Another request created the owner's cart first.
		if db.IsUniqueViolation(err) {
			return ErrCartConflict
		}
		logger.FromCtx(ctx).Error("db: failed to insert cart",
			zap.String("layer", "repository"),
			zap.Error(err),
		)
		return fmt.Errorf("insert cart: %w", err)
	}
	return nil
}

func (r *repository) Save(ctx context.Context, c *Cart) error {
	return saveCart(ctx, r.db, c)
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// saveCart writes c only if nobody else saved it since it was read.
func saveCart(ctx context.Context, q queryRower, c *Cart) error {
	err := q.QueryRowContext(ctx,
		`UPDATE carts SET
			user_id = $2,
			guest_id = $3,
			products = $4,
			total_price = $5,
			version = version + 1,
			updated_at = NOW()
		WHERE id = $1 AND version = $6
		RETURNING version, updated_at`,
		c.ID, c.UserID, nullGuest(c.GuestID), c.Products, c.TotalPrice, c.Version,
	).Scan(&c.Version, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrCartConflict
	}
	if err != nil {
		if db.IsUniqueViolation(err) {
			return ErrCartConflict
		}
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM carts WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}

func (r *repository) MergeInto(ctx context.Context, target *Cart, guestCartID uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin merge: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM carts WHERE id = $1", guestCartID); err != nil {
		return fmt.Errorf("delete guest cart: %w", err)
	}
	if err := saveCart(ctx, tx, target); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit merge: %w", err)
	}
	return nil
}

// ClearUserCart deletes the cart owned by userID, if any. It runs on ex so
// callers can include it in their own transaction.
func ClearUserCart(ctx context.Context, ex Execer, userID uuid.UUID) error {
	if _, err := ex.ExecContext(ctx, "DELETE FROM carts WHERE user_id = $1", userID); err != nil {
		return fmt.Errorf("clear user cart: %w", err)
	}
	return nil
}
