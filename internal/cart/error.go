package cart

import "storefront-be/internal/apperror"

var (
	ErrProductIDRequired = apperror.Validation("Product ID is required")
	ErrInvalidQuantity   = apperror.Validation("Quantity must be at least 1")
	ErrProductNotFound   = apperror.NotFound("Product not found")

	ErrCartNotFound  = apperror.NotFound("Cart not found")
	ErrItemNotInCart = apperror.NotFound("Product not found in cart")

	ErrGuestCartEmpty    = apperror.Validation("Guest cart is empty")
	ErrGuestCartNotFound = apperror.NotFound("Guest cart not found")
	ErrGuestIDRequired   = apperror.Validation("Guest ID is required")

	ErrCartConflict = apperror.Conflict("Cart was modified concurrently, please retry")
)
