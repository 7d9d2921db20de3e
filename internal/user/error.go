package user

import "storefront-be/internal/apperror"

var (
	ErrFieldsRequired     = apperror.Validation("All fields are required")
	ErrUserExists         = apperror.Validation("User already exists")
	ErrInvalidCredentials = apperror.Validation("Invalid Credentials")
	ErrInvalidRole        = apperror.Validation("Role must be customer or admin")
	ErrUserNotFound       = apperror.NotFound("User not found")
)
