package entity

import (
	"fmt"
	"image"
	"math"
)

// Axis — одно измерение сердца (длина или ширина) и его центральная линия.
type Axis struct {
	Pixels      int         // размер в пикселях после отбрасывания дробной части
	Angle       float64     // направление оси в градусах
	Centimeters float64     // размер в сантиметрах
	Start       image.Point // первый конец центральной линии
	End         image.Point // второй конец центральной линии
}

// Midpoint возвращает середину центральной линии (деление с округлением вниз).
func (a Axis) Midpoint() image.Point {
	return image.Pt(floorDiv(a.Start.X+a.End.X, 2), floorDiv(a.Start.Y+a.End.Y, 2))
}

// AxisAssignment — разбиение сторон прямоугольника на длину и ширину.
type AxisAssignment struct {
	Length  Axis
	Breadth Axis
}

// ClassifyAxes назначает длину и ширину по сторонам прямоугольника.
//
// Стороны сначала усекаются до целых пикселей. Длиной становится большая из сторон,
// шириной меньшая. Угол прямоугольника достаётся длине, только если
// Height строго больше Width; иначе (в том числе для квадрата) длина
// получает Angle+90, а ширина Angle.
func ClassifyAxes(box OrientedBox) AxisAssignment {
	w, h := int(box.Width), int(box.Height)

	a := AxisAssignment{
		Length:  Axis{Pixels: max(w, h)},
		Breadth: Axis{Pixels: min(w, h)},
	}
	if h > w {
		a.Length.Angle = box.Angle
		a.Breadth.Angle = box.Angle + 90
	} else {
		a.Length.Angle = box.Angle + 90
		a.Breadth.Angle = box.Angle
	}

	return a
}

// Centerline возвращает концы отрезка длиной pixels через center под углом angle (градусы).
// Координаты концов усекаются до целых.
func Centerline(center image.Point, pixels int, angle float64) (start, end image.Point) {
	rad := angle * math.Pi / 180
	half := float64(pixels) / 2
	dx, dy := half*math.Cos(rad), half*math.Sin(rad)
	cx, cy := float64(center.X), float64(center.Y)

	start = image.Pt(int(cx-dx), int(cy-dy))
	end = image.Pt(int(cx+dx), int(cy+dy))
	return start, end
}

// HeartDimensions хранит итог измерения сердца.
type HeartDimensions struct {
	Detected      bool        // найдена ли область на маске
	Box           OrientedBox // прямоугольник минимальной площади
	Center        image.Point // центр прямоугольника, усечённый до пикселя
	Length        Axis
	Breadth       Axis
	ResolutionPPI float64
}

// NotDetected возвращает пустой результат: на маске нет ни одной области.
func NotDetected(ppi float64) *HeartDimensions {
	return &HeartDimensions{ResolutionPPI: ppi}
}

// NewHeartDimensions считает длину, ширину и центральные линии по прямоугольнику.
func NewHeartDimensions(box OrientedBox, ppi float64) *HeartDimensions {
	center := box.Center.Truncate()
	axes := ClassifyAxes(box)

	for _, ax := range []*Axis{&axes.Length, &axes.Breadth} {
		ax.Centimeters = PixelsToCentimeters(float64(ax.Pixels), ppi)
		ax.Start, ax.End = Centerline(center, ax.Pixels, ax.Angle)
	}

	return &HeartDimensions{
		Detected:      true,
		Box:           box,
		Center:        center,
		Length:        axes.Length,
		Breadth:       axes.Breadth,
		ResolutionPPI: ppi,
	}
}

// Label описывает подпись на снимке. Origin задаёт левый край базовой линии текста.
type Label struct {
	Text   string
	Origin image.Point
}

// Labels возвращает подписи для длины и ширины.
// Подпись длины смещена от середины линии на offset вправо и вверх,
// подпись ширины смещена на offset вправо и на 2*offset вниз.
func (d *HeartDimensions) Labels(offset int) (length, breadth Label) {
	lm := d.Length.Midpoint()
	bm := d.Breadth.Midpoint()

	length = Label{
		Text:   fmt.Sprintf("Length: %.2f cm", d.Length.Centimeters),
		Origin: image.Pt(lm.X+offset, lm.Y-offset),
	}
	breadth = Label{
		Text:   fmt.Sprintf("Breadth: %.2f cm", d.Breadth.Centimeters),
		Origin: image.Pt(bm.X+offset, bm.Y+2*offset),
	}
	return length, breadth
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
