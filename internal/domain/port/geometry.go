package port

import (
	"image"

	"heart-dimensions/internal/domain/entity"
)

// GeometryProvider интерфейс вычислительной геометрии над бинарной маской
type GeometryProvider interface {
	// FindExternalContours возвращает внешние контуры областей переднего плана
	FindExternalContours(mask *image.Gray) ([]entity.Contour, error)

	// FitMinAreaRect подбирает повёрнутый прямоугольник минимальной площади вокруг контура
	FitMinAreaRect(contour entity.Contour) (entity.OrientedBox, error)
}
