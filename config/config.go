package config

import (
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/lucasb-eyer/go-colorful"

	app "heart-dimensions/internal/application"
	"heart-dimensions/internal/domain/entity"
)

// Бэкенды геометрии
const (
	BackendNative = "native"
	BackendGoCV   = "gocv"
)

type Config struct {
	TelegramToken string

	ResolutionPPI   float64 // разрешение снимков по умолчанию
	MaskCutoff      uint8   // порог бинаризации маски
	OutputPath      string  // куда CLI сохраняет размеченный снимок
	GeometryBackend string  // native или gocv
	ResizeMask      bool    // подгонять маску под размер снимка

	LengthColor   color.RGBA
	BreadthColor  color.RGBA
	TextColor     color.RGBA
	LineThickness int
	FontScale     float64
	TextThickness int
	LabelOffset   int
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	style := entity.DefaultAnnotationStyle()
	cfg := &Config{
		TelegramToken:   os.Getenv("TELEGRAM_TOKEN"),
		ResolutionPPI:   entity.DefaultResolutionPPI,
		MaskCutoff:      entity.DefaultMaskCutoff,
		OutputPath:      "annotated_xray_lines.png",
		GeometryBackend: BackendNative,
		LengthColor:     style.LengthColor,
		BreadthColor:    style.BreadthColor,
		TextColor:       style.TextColor,
		LineThickness:   style.LineThickness,
		FontScale:       style.FontScale,
		TextThickness:   style.TextThickness,
		LabelOffset:     style.LabelOffset,
	}

	var err error
	if cfg.ResolutionPPI, err = envFloat("HEART_RESOLUTION_PPI", cfg.ResolutionPPI); err != nil {
		return nil, err
	}
	if err := entity.ValidateResolution(cfg.ResolutionPPI); err != nil {
		return nil, fmt.Errorf("HEART_RESOLUTION_PPI: %w", err)
	}

	if v, ok := os.LookupEnv("HEART_MASK_CUTOFF"); ok {
		n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 8)
		if err != nil {
			return nil, fmt.Errorf("HEART_MASK_CUTOFF: %w", err)
		}
		cfg.MaskCutoff = uint8(n)
	}

	if v := os.Getenv("HEART_OUTPUT_PATH"); v != "" {
		cfg.OutputPath = v
	}

	if v := os.Getenv("HEART_GEOMETRY_BACKEND"); v != "" {
		cfg.GeometryBackend = strings.ToLower(strings.TrimSpace(v))
	}
	switch cfg.GeometryBackend {
	case BackendNative, BackendGoCV:
	default:
		return nil, fmt.Errorf("HEART_GEOMETRY_BACKEND: unknown backend %q", cfg.GeometryBackend)
	}

	if v, ok := os.LookupEnv("HEART_RESIZE_MASK"); ok {
		if cfg.ResizeMask, err = strconv.ParseBool(strings.TrimSpace(v)); err != nil {
			return nil, fmt.Errorf("HEART_RESIZE_MASK: %w", err)
		}
	}

	if cfg.LengthColor, err = envColor("HEART_LENGTH_COLOR", cfg.LengthColor); err != nil {
		return nil, err
	}
	if cfg.BreadthColor, err = envColor("HEART_BREADTH_COLOR", cfg.BreadthColor); err != nil {
		return nil, err
	}
	if cfg.TextColor, err = envColor("HEART_TEXT_COLOR", cfg.TextColor); err != nil {
		return nil, err
	}

	if cfg.LineThickness, err = envInt("HEART_LINE_THICKNESS", cfg.LineThickness); err != nil {
		return nil, err
	}
	if cfg.FontScale, err = envFloat("HEART_FONT_SCALE", cfg.FontScale); err != nil {
		return nil, err
	}
	if cfg.TextThickness, err = envInt("HEART_TEXT_THICKNESS", cfg.TextThickness); err != nil {
		return nil, err
	}
	if cfg.LabelOffset, err = envInt("HEART_LABEL_OFFSET", cfg.LabelOffset); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Style собирает оформление разметки из конфигурации.
func (c *Config) Style() entity.AnnotationStyle {
	return entity.AnnotationStyle{
		LengthColor:   c.LengthColor,
		BreadthColor:  c.BreadthColor,
		TextColor:     c.TextColor,
		LineThickness: c.LineThickness,
		FontScale:     c.FontScale,
		TextThickness: c.TextThickness,
		LabelOffset:   c.LabelOffset,
	}
}

// Options собирает параметры сервиса измерения.
func (c *Config) Options() app.Options {
	return app.Options{
		MaskCutoff:    c.MaskCutoff,
		ResolutionPPI: c.ResolutionPPI,
		ResizeMask:    c.ResizeMask,
		Style:         c.Style(),
	}
}

func envFloat(key string, def float64) (float64, error) {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func envInt(key string, def int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

// envColor читает цвет в виде #RRGGBB.
func envColor(key string, def color.RGBA) (color.RGBA, error) {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return def, nil
	}
	c, err := colorful.Hex(strings.TrimSpace(v))
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%s: %w", key, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}
