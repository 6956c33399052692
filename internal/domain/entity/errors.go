package entity

import "errors"

var (
	// ErrInvalidResolution — разрешение (PPI) должно быть конечным положительным числом.
	ErrInvalidResolution = errors.New("resolution must be a positive number of pixels per inch")

	// ErrDimensionMismatch: маска и снимок разного размера.
	ErrDimensionMismatch = errors.New("mask and image dimensions differ")

	// ErrEmptyImage: растр нулевой площади.
	ErrEmptyImage = errors.New("empty image")
)
