package domain

import "errors"

var (
	// ErrInvalidQuery is returned when a match query lacks a product name
	ErrInvalidQuery = errors.New("invalid match query: product name is required")

	// ErrInvalidQuantity is returned by unit pricing when quantity is zero or negative
	ErrInvalidQuantity = errors.New("invalid quantity: must be positive")

	// ErrProductNotFound is returned when a catalog product id does not exist
	ErrProductNotFound = errors.New("product not found in catalog")

	// ErrDuplicateProduct is returned when a (name, unit) pair already exists in the catalog
	ErrDuplicateProduct = errors.New("catalog entry already exists for name and unit")

	// ErrEmptyDocument is returned when an extracted document contains zero price lines
	ErrEmptyDocument = errors.New("document contains no extracted price lines")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")
)
