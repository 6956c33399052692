package geometry

import (
	"cmp"
	"image"
	"math"
	"slices"

	"heart-dimensions/internal/domain/entity"
)

// snapEpsilon убирает шум вычислений с плавающей точкой около целых значений.
const snapEpsilon = 1e-9

// minAreaRect подбирает прямоугольник минимальной площади методом вращающихся
// калиперов по выпуклой оболочке.
//
// Соглашение об углах как у OpenCV 4.5+: Angle лежит в (0, 90], это угол
// стороны Width к оси X (ось Y вниз). Для прямоугольника, выровненного по
// осям, Angle == 90 а Width равна вертикальной стороне.
func minAreaRect(points []image.Point) entity.OrientedBox {
	hull := convexHull(points)

	switch len(hull) {
	case 0:
		return entity.OrientedBox{}
	case 1:
		return entity.OrientedBox{Center: entity.Point2f{X: float64(hull[0].X), Y: float64(hull[0].Y)}}
	}

	best := math.Inf(1)
	var box entity.OrientedBox

	for i := range hull {
		a, b := hull[i], hull[(i+1)%len(hull)]
		ex, ey := float64(b.X-a.X), float64(b.Y-a.Y)
		norm := math.Hypot(ex, ey)
		ux, uy := ex/norm, ey/norm
		vx, vy := -uy, ux

		minU, maxU := math.Inf(1), math.Inf(-1)
		minV, maxV := math.Inf(1), math.Inf(-1)
		for _, p := range hull {
			px, py := float64(p.X), float64(p.Y)
			u := px*ux + py*uy
			v := px*vx + py*vy
			minU, maxU = math.Min(minU, u), math.Max(maxU, u)
			minV, maxV = math.Min(minV, v), math.Max(maxV, v)
		}

		lu, lv := maxU-minU, maxV-minV
		if area := lu * lv; area < best {
			best = area
			cu, cv := (minU+maxU)/2, (minV+maxV)/2
			box = orient(ux, uy, lu, lv)
			box.Center = entity.Point2f{
				X: snap(cu*ux + cv*vx),
				Y: snap(cu*uy + cv*vy),
			}
		}
	}

	return box
}

// orient приводит угол стороны u к (0, 90] и раскладывает протяжённости
// lu (вдоль u) и lv (поперёк u) в Width и Height.
func orient(ux, uy, lu, lv float64) entity.OrientedBox {
	a := math.Atan2(uy, ux) * 180 / math.Pi

	angle := a - 90*math.Floor(a/90)
	if angle < snapEpsilon || 90-angle < snapEpsilon {
		angle = 90
	}

	width, height := lu, lv
	if k := int(math.Round((angle - a) / 90)); k%2 != 0 {
		width, height = lv, lu
	}

	return entity.OrientedBox{
		Width:  snap(width),
		Height: snap(height),
		Angle:  angle,
	}
}

// convexHull строит выпуклую оболочку (монотонная цепочка Эндрю).
// Коллинеарные точки отбрасываются.
func convexHull(points []image.Point) []image.Point {
	pts := slices.Clone(points)
	slices.SortFunc(pts, func(a, b image.Point) int {
		if c := cmp.Compare(a.X, b.X); c != 0 {
			return c
		}
		return cmp.Compare(a.Y, b.Y)
	})
	pts = slices.Compact(pts)
	if len(pts) < 3 {
		return pts
	}

	hull := make([]image.Point, 0, 2*len(pts))
	for _, p := range pts {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}

	lower := len(hull) + 1
	for i := len(pts) - 2; i >= 0; i-- {
		p := pts[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}

	return hull[:len(hull)-1]
}

func cross(o, a, b image.Point) int {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

func snap(v float64) float64 {
	if r := math.Round(v); math.Abs(v-r) < snapEpsilon {
		return r
	}
	return v
}
