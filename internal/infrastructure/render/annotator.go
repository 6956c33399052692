package render

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"heart-dimensions/internal/domain/entity"
	"heart-dimensions/internal/domain/port"
)

const (
	// Высота строки Hershey Simplex при масштабе 1.0, в пикселях.
	hersheyLineHeight = 22.0
	// Допуск, при котором подпись не масштабируется.
	scaleTolerance = 0.05
)

// Annotator рисует центральные линии и подписи без OpenCV.
type Annotator struct {
	face font.Face
}

// NewAnnotator создаёт разметчик со встроенным растровым шрифтом 7x13.
func NewAnnotator() *Annotator {
	return &Annotator{face: basicfont.Face7x13}
}

// Annotate возвращает копию снимка с линиями длины и ширины и подписями.
// Если сердце не найдено, возвращается неизменённая копия.
func (a *Annotator) Annotate(src image.Image, dims *entity.HeartDimensions, style entity.AnnotationStyle) (image.Image, error) {
	if src == nil {
		return nil, errors.New("source image is nil")
	}
	if src.Bounds().Empty() {
		return nil, entity.ErrEmptyImage
	}

	dst := imaging.Clone(src)
	if dims == nil || !dims.Detected {
		return dst, nil
	}

	drawSegment(dst, dims.Length.Start, dims.Length.End, style.LineThickness, style.LengthColor)
	drawSegment(dst, dims.Breadth.Start, dims.Breadth.End, style.LineThickness, style.BreadthColor)

	length, breadth := dims.Labels(style.LabelOffset)
	a.drawLabel(dst, length, style)
	a.drawLabel(dst, breadth, style)

	return dst, nil
}

// drawSegment рисует отрезок заданной толщины между центрами пикселей p1 и p2.
func drawSegment(dst draw.Image, p1, p2 image.Point, thickness int, c color.Color) {
	b := dst.Bounds()
	half := float64(max(thickness, 1)) / 2

	x1, y1 := float64(p1.X-b.Min.X)+0.5, float64(p1.Y-b.Min.Y)+0.5
	x2, y2 := float64(p2.X-b.Min.X)+0.5, float64(p2.Y-b.Min.Y)+0.5

	// dx, dy идут вдоль отрезка, nx, ny поперёк; длина обоих half
	dx, dy := x2-x1, y2-y1
	if l := math.Hypot(dx, dy); l > 0 {
		dx, dy = dx/l*half, dy/l*half
	} else {
		dx, dy = half, 0
	}
	nx, ny := -dy, dx

	z := vector.NewRasterizer(b.Dx(), b.Dy())
	z.MoveTo(float32(x1-dx+nx), float32(y1-dy+ny))
	z.LineTo(float32(x2+dx+nx), float32(y2+dy+ny))
	z.LineTo(float32(x2+dx-nx), float32(y2+dy-ny))
	z.LineTo(float32(x1-dx-nx), float32(y1-dy-ny))
	z.ClosePath()
	z.Draw(dst, b, image.NewUniform(c), image.Point{})
}

// drawLabel выводит подпись так, чтобы начало базовой линии совпало с label.Origin.
func (a *Annotator) drawLabel(dst draw.Image, label entity.Label, style entity.AnnotationStyle) {
	stroke := max(style.TextThickness, 1)
	m := a.face.Metrics()
	ascent, descent := m.Ascent.Ceil(), m.Descent.Ceil()
	width := font.MeasureString(a.face, label.Text).Ceil()

	canvas := image.NewNRGBA(image.Rect(0, 0, width+stroke, ascent+descent+stroke))
	d := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(style.TextColor),
		Face: a.face,
	}
	// толщина штриха набирается повторной печатью со сдвигом
	for oy := 0; oy < stroke; oy++ {
		for ox := 0; ox < stroke; ox++ {
			d.Dot = fixed.P(ox, ascent+oy)
			d.DrawString(label.Text)
		}
	}

	var rendered image.Image = canvas
	scale := style.FontScale * hersheyLineHeight / float64(ascent+descent)
	if scale > 0 && math.Abs(scale-1) > scaleTolerance {
		w := max(int(math.Round(float64(canvas.Rect.Dx())*scale)), 1)
		h := max(int(math.Round(float64(canvas.Rect.Dy())*scale)), 1)
		rendered = imaging.Resize(canvas, w, h, imaging.Linear)
		ascent = int(math.Round(float64(ascent) * scale))
	}

	topLeft := image.Pt(label.Origin.X, label.Origin.Y-ascent).Add(dst.Bounds().Min)
	r := image.Rectangle{Min: topLeft, Max: topLeft.Add(rendered.Bounds().Size())}
	draw.Draw(dst, r, rendered, image.Point{}, draw.Over)
}

// Проверка реализации интерфейса
var _ port.Annotator = (*Annotator)(nil)
