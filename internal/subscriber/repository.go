package subscriber

import (
	"context"
	"database/sql"
	"fmt"

	"storefront-be/internal/db"
	"storefront-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, email string) (*Subscriber, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, email string) (*Subscriber, error) {
	s := &Subscriber{Email: email}
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO subscribers (email) VALUES ($1) RETURNING id, subscribed_at`,
		email,
	).Scan(&s.ID, &s.SubscribedAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrAlreadySubscribed
		}
		logger.FromCtx(ctx).Error("db: failed to insert subscriber",
			zap.String("layer", "repository"),
			zap.Error(err),
		)
		return nil, fmt.Errorf("insert subscriber: %w", err)
	}
	return s, nil
}
