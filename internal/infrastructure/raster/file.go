package raster

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

// Load читает изображение с диска; WebP разбирается отдельно.
func Load(path string) (image.Image, error) {
	img, err := imaging.Open(path)
	if err == nil {
		return img, nil
	}

	if strings.EqualFold(filepath.Ext(path), ".webp") {
		f, ferr := os.Open(path)
		if ferr != nil {
			return nil, fmt.Errorf("failed to open image: %w", ferr)
		}
		defer f.Close()

		if wimg, werr := webp.Decode(f); werr == nil {
			return wimg, nil
		}
	}

	return nil, fmt.Errorf("failed to load image %s: %w", path, err)
}

// Save записывает изображение; формат выбирается по расширению файла.
func Save(path string, img image.Image) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("failed to save image %s: %w", path, err)
	}
	return nil
}
