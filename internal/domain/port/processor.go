package port

import "image"

// ImageProcessor интерфейс работы с растрами на границе приложения
type ImageProcessor interface {
	// Decode разбирает байты изображения любого поддерживаемого формата
	Decode(data []byte) (image.Image, error)

	// Encode кодирует изображение в PNG
	Encode(img image.Image) ([]byte, error)

	// Resize масштабирует изображение до точного размера w×h
	Resize(img image.Image, w, h int) image.Image
}
