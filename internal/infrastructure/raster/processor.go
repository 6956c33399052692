package raster

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	"heart-dimensions/internal/domain/port"
)

// Processor декодирует, кодирует и масштабирует изображения.
type Processor struct{}

// NewProcessor создаёт обработчик изображений.
func NewProcessor() *Processor {
	return &Processor{}
}

// Decode разбирает PNG, JPEG, GIF, BMP, TIFF и WebP.
func (p *Processor) Decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, errors.New("empty image data")
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err == nil {
		return img, nil
	}

	// WebP отдельно: у стандартных декодеров его нет
	if wimg, werr := webp.Decode(bytes.NewReader(data)); werr == nil {
		return wimg, nil
	}

	return nil, fmt.Errorf("failed to decode image: %w", err)
}

// Encode кодирует изображение в PNG без потерь.
func (p *Processor) Encode(img image.Image) ([]byte, error) {
	if img == nil {
		return nil, errors.New("image is nil")
	}

	var buf bytes.Buffer
	if err := imgio.PNGEncoder()(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// Resize масштабирует изображение билинейной интерполяцией.
func (p *Processor) Resize(img image.Image, w, h int) image.Image {
	return imaging.Resize(img, w, h, imaging.Linear)
}

// Проверка реализации интерфейса
var _ port.ImageProcessor = (*Processor)(nil)
