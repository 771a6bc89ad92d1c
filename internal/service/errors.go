package service

import "errors"

var (
	// ErrCartNotPersisted means the in-memory cart changed but the durable slot was not
	// updated. The returned error wraps the storage cause.
	ErrCartNotPersisted   = errors.New("cart change was not persisted")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrProductNotFound    = errors.New("product not found")
	ErrCatalogUnavailable = errors.New("catalog unavailable")
)
