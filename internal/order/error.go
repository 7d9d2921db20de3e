package order

import "storefront-be/internal/apperror"

var (
	ErrOrderNotFound = apperror.NotFound("Order not found")
	ErrInvalidStatus = apperror.Validation("Invalid order status")
	ErrOrderExists   = apperror.Conflict("Order already exists for this checkout")
	ErrNotOrderOwner = apperror.Forbidden("Not authorized to view this order")
	ErrAuthRequired  = apperror.Unauthorized("Not authorized, no token")
)
