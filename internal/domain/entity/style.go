package entity

import "image/color"

// AnnotationStyle задаёт оформление размеченного снимка.
type AnnotationStyle struct {
	LengthColor   color.RGBA // цвет линии длины
	BreadthColor  color.RGBA // цвет линии ширины
	TextColor     color.RGBA // цвет подписей
	LineThickness int        // толщина линий в пикселях
	FontScale     float64    // масштаб шрифта (1.0 ≈ 22 px по высоте заглавных)
	TextThickness int        // толщина штриха текста
	LabelOffset   int        // отступ подписи от середины линии
}

// DefaultAnnotationStyle: зелёная длина, синяя ширина, белые подписи.
func DefaultAnnotationStyle() AnnotationStyle {
	return AnnotationStyle{
		LengthColor:   color.RGBA{G: 255, A: 255},
		BreadthColor:  color.RGBA{B: 255, A: 255},
		TextColor:     color.RGBA{R: 255, G: 255, B: 255, A: 255},
		LineThickness: 2,
		FontScale:     0.6,
		TextThickness: 2,
		LabelOffset:   10,
	}
}
