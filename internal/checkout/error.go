package checkout

import "storefront-be/internal/apperror"

var (
	ErrNoItems              = apperror.Validation("No items in checkout")
	ErrUnauthenticated      = apperror.Unauthorized("User not authenticated")
	ErrCheckoutNotFound     = apperror.NotFound("Checkout not found")
	ErrInvalidPaymentStatus = apperror.Validation("Invalid payment status")
	ErrAlreadyFinalized     = apperror.Validation("Checkout already finalized")
	ErrNotPaid              = apperror.Validation("Checkout is not paid")
	ErrNotCheckoutOwner     = apperror.Forbidden("Not authorized to access this checkout")
)
