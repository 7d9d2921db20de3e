package subscriber

import "storefront-be/internal/apperror"

var (
	ErrEmailRequired     = apperror.Validation("Email is required")
	ErrAlreadySubscribed = apperror.Validation("Email is already subscribed")
)
