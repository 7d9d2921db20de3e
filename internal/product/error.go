package product

import "storefront-be/internal/apperror"

var (
	ErrProductNotFound    = apperror.NotFound("Product not found")
	ErrNoBestSeller       = apperror.NotFound("No best seller found")
	ErrNameRequired       = apperror.Validation("Product name is required")
	ErrSKURequired        = apperror.Validation("Product SKU is required")
	ErrInvalidPrice       = apperror.Validation("Product price must be greater than zero")
	ErrInvalidStock       = apperror.Validation("Product stock cannot be negative")
	ErrInvalidDiscount    = apperror.Validation("Discount price cannot be negative")
	ErrDuplicateSKU       = apperror.Validation("Product SKU already exists")
	ErrInvalidPriceFilter = apperror.Validation("minPrice cannot exceed maxPrice")
)
