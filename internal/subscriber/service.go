package subscriber

import (
	"context"

	"storefront-be/internal/utils"
)

type Service interface {
	Subscribe(ctx context.Context, email string) (*Subscriber, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Subscribe adds email to the newsletter list. Emails are compared case-insensitively.
func (s *service) Subscribe(ctx context.Context, email string) (*Subscriber, error) {
	email = utils.NormalizeEmail(email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	return s.repo.Create(ctx, email)
}
