package geometry

import (
	"errors"
	"image"

	"heart-dimensions/internal/domain/entity"
	"heart-dimensions/internal/domain/port"
)

// Native — геометрия на чистом Go, без OpenCV.
type Native struct{}

// NewNative создаёт провайдер геометрии на чистом Go.
func NewNative() *Native {
	return &Native{}
}

// FindExternalContours возвращает внешние контуры областей переднего плана.
func (n *Native) FindExternalContours(mask *image.Gray) ([]entity.Contour, error) {
	if mask == nil {
		return nil, errors.New("mask is nil")
	}
	return findExternalContours(mask), nil
}

// FitMinAreaRect подбирает повёрнутый прямоугольник минимальной площади.
func (n *Native) FitMinAreaRect(contour entity.Contour) (entity.OrientedBox, error) {
	if len(contour) == 0 {
		return entity.OrientedBox{}, errors.New("empty contour")
	}
	return minAreaRect(contour), nil
}

// Проверка реализации интерфейса
var _ port.GeometryProvider = (*Native)(nil)
