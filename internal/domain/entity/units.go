package entity

import (
	"fmt"
	"math"
)

const (
	// CentimetersPerInch сантиметров в дюйме.
	CentimetersPerInch = 2.54

	// DefaultResolutionPPI: разрешение снимка по умолчанию (пикселей на дюйм).
	DefaultResolutionPPI = 300.0
)

// PixelsToCentimeters переводит длину в пикселях в сантиметры при заданном PPI.
// Разрешение не проверяется: используйте ValidateResolution до вызова.
func PixelsToCentimeters(pixels, ppi float64) float64 {
	return pixels * (CentimetersPerInch / ppi)
}

// ValidateResolution проверяет, что PPI пригоден для перевода в сантиметры.
func ValidateResolution(ppi float64) error {
	if math.IsNaN(ppi) || math.IsInf(ppi, 0) || ppi <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidResolution, ppi)
	}
	return nil
}
