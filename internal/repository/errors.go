package repository

import "errors"

var (
	ErrNotFound  = errors.New("entity not found")
	ErrCorrupted = errors.New("stored data is corrupted")
)
