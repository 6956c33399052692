package entity

import (
	"image"
	"math"
)

// Point2f точка с вещественными координатами.
type Point2f struct {
	X float64
	Y float64
}

// Truncate отбрасывает дробную часть координат (в сторону нуля).
func (p Point2f) Truncate() image.Point {
	return image.Pt(int(p.X), int(p.Y))
}

// Contour — замкнутая граница связной области маски, точки идут по порядку обхода.
type Contour []image.Point

// Area возвращает площадь многоугольника, заданного контуром (формула Гаусса).
// Для контура из одной или двух точек площадь равна нулю.
func (c Contour) Area() float64 {
	if len(c) < 3 {
		return 0
	}

	var sum int64
	for i := range c {
		j := (i + 1) % len(c)
		sum += int64(c[i].X)*int64(c[j].Y) - int64(c[j].X)*int64(c[i].Y)
	}

	return math.Abs(float64(sum)) / 2
}

// LargestContour выбирает контур с максимальной площадью.
// При равенстве побеждает первый. Для пустого списка ok == false.
func LargestContour(contours []Contour) (largest Contour, ok bool) {
	best := -1.0
	for _, c := range contours {
		if a := c.Area(); a > best {
			best = a
			largest = c
			ok = true
		}
	}
	return largest, ok
}

// OrientedBox — прямоугольник минимальной площади произвольного поворота.
//
// Width и Height идут в том порядке, в котором их вернул алгоритм
// подгонки, и не отсортированы. Angle задаёт направление стороны Width в градусах.
type OrientedBox struct {
	Center Point2f
	Width  float64
	Height float64
	Angle  float64
}
