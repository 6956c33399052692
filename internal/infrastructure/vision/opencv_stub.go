//go:build !gocv
// +build !gocv

package vision

import (
	"errors"
	"image"

	"heart-dimensions/internal/domain/entity"
	"heart-dimensions/internal/domain/port"
)

var errNotEnabled = errors.New("gocv build tag is not enabled")

// Available сообщает, собран ли бинарник с OpenCV.
func Available() bool {
	return false
}

type GoCVGeometry struct{}

// NewGoCVGeometry создаёт провайдер-заглушку (без OpenCV).
func NewGoCVGeometry() *GoCVGeometry {
	return &GoCVGeometry{}
}

// FindExternalContours возвращает ошибку, если сборка без тега gocv.
func (g *GoCVGeometry) FindExternalContours(mask *image.Gray) ([]entity.Contour, error) {
	return nil, errNotEnabled
}

// FitMinAreaRect возвращает ошибку, если сборка без тега gocv.
func (g *GoCVGeometry) FitMinAreaRect(contour entity.Contour) (entity.OrientedBox, error) {
	return entity.OrientedBox{}, errNotEnabled
}

type GoCVAnnotator struct{}

// NewGoCVAnnotator создаёт разметчик-заглушку (без OpenCV).
func NewGoCVAnnotator() *GoCVAnnotator {
	return &GoCVAnnotator{}
}

// Annotate возвращает ошибку, если сборка без тега gocv.
func (a *GoCVAnnotator) Annotate(src image.Image, dims *entity.HeartDimensions, style entity.AnnotationStyle) (image.Image, error) {
	return nil, errNotEnabled
}

var (
	_ port.GeometryProvider = (*GoCVGeometry)(nil)
	_ port.Annotator        = (*GoCVAnnotator)(nil)
)
