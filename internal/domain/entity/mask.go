package entity

import (
	"image"
	"image/color"
)

const (
	// DefaultMaskCutoff — порог бинаризации маски; всё, что строго больше, считается сердцем.
	DefaultMaskCutoff uint8 = 127

	// Foreground и Background задают два уровня бинарной маски.
	Foreground uint8 = 255
	Background uint8 = 0
)

// Binarize переводит маску в оттенки серого и оставляет ровно два уровня.
// Пиксель становится Foreground, если его яркость строго больше cutoff.
// Результат всегда начинается в (0, 0), независимо от Bounds исходника.
func Binarize(mask image.Image, cutoff uint8) *image.Gray {
	b := mask.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))

	if g, ok := mask.(*image.Gray); ok {
		for y := 0; y < b.Dy(); y++ {
			src := g.Pix[g.PixOffset(b.Min.X, b.Min.Y+y):]
			row := out.Pix[y*out.Stride : y*out.Stride+b.Dx()]
			for x := range row {
				if src[x] > cutoff {
					row[x] = Foreground
				}
			}
		}
		return out
	}

	for y := 0; y < b.Dy(); y++ {
		row := out.Pix[y*out.Stride : y*out.Stride+b.Dx()]
		for x := range row {
			g := color.GrayModel.Convert(mask.At(b.Min.X+x, b.Min.Y+y)).(color.Gray)
			if g.Y > cutoff {
				row[x] = Foreground
			} else {
				row[x] = Background
			}
		}
	}

	return out
}

// IsForeground сообщает, помечен ли пиксель бинарной маски как сердце.
// Координаты вне маски считаются фоном.
func IsForeground(mask *image.Gray, x, y int) bool {
	if !(image.Point{X: x, Y: y}.In(mask.Rect)) {
		return false
	}
	return mask.Pix[mask.PixOffset(x, y)] == Foreground
}

// CountForeground возвращает число пикселей переднего плана.
func CountForeground(mask *image.Gray) int {
	n := 0
	for _, v := range mask.Pix {
		if v == Foreground {
			n++
		}
	}
	return n
}
