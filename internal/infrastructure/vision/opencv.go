//go:build gocv
// +build gocv

package vision

import (
	"errors"
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"heart-dimensions/internal/domain/entity"
	"heart-dimensions/internal/domain/port"
)

// Available сообщает, собран ли бинарник с OpenCV.
func Available() bool {
	return true
}

// GoCVGeometry — контуры и минимальный прямоугольник средствами OpenCV.
type GoCVGeometry struct{}

// NewGoCVGeometry создаёт провайдер геометрии на OpenCV.
func NewGoCVGeometry() *GoCVGeometry {
	return &GoCVGeometry{}
}

// FindExternalContours ищет внешние контуры (RETR_EXTERNAL, CHAIN_APPROX_SIMPLE).
func (g *GoCVGeometry) FindExternalContours(mask *image.Gray) ([]entity.Contour, error) {
	if mask == nil {
		return nil, errors.New("mask is nil")
	}

	mat, err := gocv.ImageGrayToMatGray(mask)
	if err != nil {
		return nil, fmt.Errorf("failed to convert mask: %w", err)
	}
	defer mat.Close()

	if mat.Empty() {
		return nil, entity.ErrEmptyImage
	}

	contours := gocv.FindContours(mat, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	out := make([]entity.Contour, 0, contours.Size())
	for i := 0; i < contours.Size(); i++ {
		pts := contours.At(i).ToPoints()
		c := make(entity.Contour, len(pts))
		for j, p := range pts {
			c[j] = p.Add(mask.Rect.Min)
		}
		out = append(out, c)
	}

	return out, nil
}

// FitMinAreaRect подбирает прямоугольник через cv::minAreaRect.
func (g *GoCVGeometry) FitMinAreaRect(contour entity.Contour) (entity.OrientedBox, error) {
	if len(contour) == 0 {
		return entity.OrientedBox{}, errors.New("empty contour")
	}

	pv := gocv.NewPointVectorFromPoints([]image.Point(contour))
	defer pv.Close()

	r := gocv.MinAreaRect2(pv)
	return entity.OrientedBox{
		Center: entity.Point2f{X: float64(r.Center.X), Y: float64(r.Center.Y)},
		Width:  float64(r.Width),
		Height: float64(r.Height),
		Angle:  r.Angle,
	}, nil
}

// GoCVAnnotator рисует разметку функциями OpenCV (Hershey Simplex, сглаженный текст).
type GoCVAnnotator struct{}

// NewGoCVAnnotator создаёт разметчик на OpenCV.
func NewGoCVAnnotator() *GoCVAnnotator {
	return &GoCVAnnotator{}
}

// Annotate возвращает копию снимка с линиями длины и ширины и подписями.
func (a *GoCVAnnotator) Annotate(src image.Image, dims *entity.HeartDimensions, style entity.AnnotationStyle) (image.Image, error) {
	if src == nil {
		return nil, errors.New("source image is nil")
	}

	mat, err := gocv.ImageToMatRGB(src)
	if err != nil {
		return nil, fmt.Errorf("failed to convert image: %w", err)
	}
	defer mat.Close()

	if mat.Empty() {
		return nil, entity.ErrEmptyImage
	}

	if dims != nil && dims.Detected {
		gocv.Line(&mat, dims.Length.Start, dims.Length.End, style.LengthColor, style.LineThickness)
		gocv.Line(&mat, dims.Breadth.Start, dims.Breadth.End, style.BreadthColor, style.LineThickness)

		length, breadth := dims.Labels(style.LabelOffset)
		for _, l := range []entity.Label{length, breadth} {
			gocv.PutTextWithParams(&mat, l.Text, l.Origin, gocv.FontHersheySimplex,
				style.FontScale, style.TextColor, style.TextThickness, gocv.LineAA, false)
		}
	}

	return mat.ToImage()
}

// Проверка реализации интерфейсов
var (
	_ port.GeometryProvider = (*GoCVGeometry)(nil)
	_ port.Annotator        = (*GoCVAnnotator)(nil)
)
