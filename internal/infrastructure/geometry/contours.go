package geometry

import (
	"image"

	"heart-dimensions/internal/domain/entity"
)

// Соседи пикселя по часовой стрелке (ось Y вниз), начиная с востока.
var neighbours = [8]image.Point{
	{X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}, {X: -1, Y: 1},
	{X: -1, Y: 0}, {X: -1, Y: -1}, {X: 0, Y: -1}, {X: 1, Y: -1},
}

const west = 4

// grid хранит бинарную маску в относительных координатах.
type grid struct {
	w, h int
	fg   []bool
}

func newGrid(mask *image.Gray) *grid {
	r := mask.Rect
	g := &grid{w: r.Dx(), h: r.Dy(), fg: make([]bool, r.Dx()*r.Dy())}
	for y := 0; y < g.h; y++ {
		for x := 0; x < g.w; x++ {
			g.fg[y*g.w+x] = entity.IsForeground(mask, r.Min.X+x, r.Min.Y+y)
		}
	}
	return g
}

func (g *grid) at(p image.Point) bool {
	if p.X < 0 || p.Y < 0 || p.X >= g.w || p.Y >= g.h {
		return false
	}
	return g.fg[p.Y*g.w+p.X]
}

// findExternalContours находит внешние границы 8-связных областей маски.
//
// Область считается внешней, если она граничит с фоном, связанным с краем
// изображения; области внутри дыр других областей пропускаются. Контуры
// идут в порядке построчного обхода их верхней левой точки.
func findExternalContours(mask *image.Gray) []entity.Contour {
	g := newGrid(mask)
	outside := g.outerBackground()
	labels := make([]bool, g.w*g.h)

	contours := make([]entity.Contour, 0)
	for y := 0; y < g.h; y++ {
		for x := 0; x < g.w; x++ {
			if !g.fg[y*g.w+x] || labels[y*g.w+x] {
				continue
			}

			size, external := g.labelComponent(labels, outside, image.Pt(x, y))
			if !external {
				continue
			}

			c := compress(g.traceBoundary(image.Pt(x, y), 8*size+16))
			for i := range c {
				c[i] = c[i].Add(mask.Rect.Min)
			}
			contours = append(contours, c)
		}
	}

	return contours
}

// outerBackground помечает фон, 4-связный с рамкой вокруг изображения.
// Индексация с рамкой шириной в один пиксель: (x+1) + (y+1)*(w+2).
func (g *grid) outerBackground() []bool {
	pw, ph := g.w+2, g.h+2
	outside := make([]bool, pw*ph)

	stack := []image.Point{{X: 0, Y: 0}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.X < 0 || p.Y < 0 || p.X >= pw || p.Y >= ph {
			continue
		}
		if outside[p.Y*pw+p.X] || g.at(image.Pt(p.X-1, p.Y-1)) {
			continue
		}

		outside[p.Y*pw+p.X] = true
		stack = append(stack,
			image.Pt(p.X+1, p.Y), image.Pt(p.X-1, p.Y),
			image.Pt(p.X, p.Y+1), image.Pt(p.X, p.Y-1),
		)
	}

	return outside
}

// labelComponent заливает 8-связную область от start, возвращает её размер
// и признак соседства с внешним фоном.
func (g *grid) labelComponent(labels, outside []bool, start image.Point) (size int, external bool) {
	pw := g.w + 2
	stack := []image.Point{start}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !g.at(p) || labels[p.Y*g.w+p.X] {
			continue
		}
		labels[p.Y*g.w+p.X] = true
		size++

		if !external {
			for _, d := range []image.Point{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}} {
				q := p.Add(d)
				if outside[(q.Y+1)*pw+q.X+1] {
					external = true
					break
				}
			}
		}

		for _, d := range neighbours {
			stack = append(stack, p.Add(d))
		}
	}

	return size, external
}

// traceBoundary обходит внешнюю границу области по соседям Мура.
// start должен быть верхней левой точкой области: его западный сосед принадлежит фону.
// Обход заканчивается, когда из start снова делается тот же первый шаг.
func (g *grid) traceBoundary(start image.Point, limit int) entity.Contour {
	contour := entity.Contour{start}
	cur, back := start, west

	var second image.Point
	for step := 0; step < limit; step++ {
		next, nextBack, ok := g.nextBoundaryPixel(cur, back)
		if !ok {
			break
		}

		if step == 0 {
			second = next
		} else if cur == start && next == second {
			return contour[:len(contour)-1]
		}

		contour = append(contour, next)
		cur, back = next, nextBack
	}

	return contour
}

// nextBoundaryPixel ищет следующий пиксель границы по часовой стрелке от
// фонового соседа back. Возвращает направление от нового пикселя на последний
// просмотренный фоновый сосед.
func (g *grid) nextBoundaryPixel(cur image.Point, back int) (image.Point, int, bool) {
	for i := 1; i <= 8; i++ {
		d := (back + i) % 8
		next := cur.Add(neighbours[d])
		if !g.at(next) {
			continue
		}

		prev := cur.Add(neighbours[(back+i-1)%8])
		return next, direction(prev.Sub(next)), true
	}
	return image.Point{}, 0, false
}

func direction(d image.Point) int {
	for i, n := range neighbours {
		if n == d {
			return i
		}
	}
	return west
}

// compress оставляет только точки излома, как CHAIN_APPROX_SIMPLE.
func compress(c entity.Contour) entity.Contour {
	if len(c) < 3 {
		return c
	}

	n := len(c)
	out := make(entity.Contour, 0, n)
	for i, p := range c {
		prev, next := c[(i+n-1)%n], c[(i+1)%n]
		if p.Sub(prev) == next.Sub(p) {
			continue
		}
		out = append(out, p)
	}

	if len(out) == 0 {
		return c
	}
	return out
}
