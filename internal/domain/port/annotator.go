package port

import (
	"image"

	"heart-dimensions/internal/domain/entity"
)

// Annotator интерфейс разметки снимка
type Annotator interface {
	// Annotate рисует линии длины и ширины с подписями на копии снимка
	Annotate(src image.Image, dims *entity.HeartDimensions, style entity.AnnotationStyle) (image.Image, error)
}
