package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"

	"heart-dimensions/internal/domain/entity"
	"heart-dimensions/internal/domain/port"
)

// Options — параметры анализа, общие для всех вызовов сервиса.
type Options struct {
	MaskCutoff    uint8                  // порог бинаризации маски
	ResolutionPPI float64                // разрешение по умолчанию для вызывающих
	ResizeMask    bool                   // подгонять маску под размер снимка
	Style         entity.AnnotationStyle // оформление разметки
}

// DefaultOptions возвращает параметры исходного скрипта измерения.
func DefaultOptions() Options {
	return Options{
		MaskCutoff:    entity.DefaultMaskCutoff,
		ResolutionPPI: entity.DefaultResolutionPPI,
		Style:         entity.DefaultAnnotationStyle(),
	}
}

type MeasurementService struct {
	geometry  port.GeometryProvider
	annotator port.Annotator
	images    port.ImageProcessor
	opts      Options
}

// MeasurementOutput содержит результат измерения и размеченный снимок.
// Если сердце не найдено, Annotated и AnnotatedPNG пусты.
type MeasurementOutput struct {
	Dimensions   *entity.HeartDimensions
	Annotated    image.Image
	AnnotatedPNG []byte
}

// NewMeasurementService создаёт сервис измерения размеров сердца.
func NewMeasurementService(geometry port.GeometryProvider, annotator port.Annotator, images port.ImageProcessor, opts Options) *MeasurementService {
	return &MeasurementService{
		geometry:  geometry,
		annotator: annotator,
		images:    images,
		opts:      opts,
	}
}

// Options возвращает параметры, с которыми создан сервис.
func (s *MeasurementService) Options() Options {
	return s.opts
}

// Measure находит самую большую область маски и считает её длину и ширину.
// Отсутствие областей не ошибка: возвращается результат с Detected == false.
func (s *MeasurementService) Measure(ctx context.Context, mask image.Image, ppi float64) (*entity.HeartDimensions, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.geometry == nil {
		return nil, errors.New("geometry provider is not configured")
	}
	if err := entity.ValidateResolution(ppi); err != nil {
		return nil, err
	}
	if mask == nil || mask.Bounds().Empty() {
		return nil, fmt.Errorf("mask: %w", entity.ErrEmptyImage)
	}

	binary := entity.Binarize(mask, s.opts.MaskCutoff)

	contours, err := s.geometry.FindExternalContours(binary)
	if err != nil {
		return nil, fmt.Errorf("find contours: %w", err)
	}

	largest, ok := entity.LargestContour(contours)
	if !ok {
		log.Printf("No heart detected in the segmentation mask (%dx%d)", binary.Rect.Dx(), binary.Rect.Dy())
		return entity.NotDetected(ppi), nil
	}
	log.Printf("Mask: %d contours, %d foreground pixels", len(contours), entity.CountForeground(binary))

	box, err := s.geometry.FitMinAreaRect(largest)
	if err != nil {
		return nil, fmt.Errorf("fit rotated rectangle: %w", err)
	}

	return entity.NewHeartDimensions(box, ppi), nil
}

// Analyze измеряет сердце по маске и размечает снимок.
// Маска должна совпадать со снимком по размеру, если не включён ResizeMask.
func (s *MeasurementService) Analyze(ctx context.Context, img, mask image.Image, ppi float64) (*MeasurementOutput, error) {
	if s.annotator == nil {
		return nil, errors.New("annotator is not configured")
	}
	if err := entity.ValidateResolution(ppi); err != nil {
		return nil, err
	}
	if img == nil || img.Bounds().Empty() {
		return nil, fmt.Errorf("image: %w", entity.ErrEmptyImage)
	}

	mask, err := s.alignMask(img, mask)
	if err != nil {
		return nil, err
	}

	dims, err := s.Measure(ctx, mask, ppi)
	if err != nil {
		return nil, err
	}
	if !dims.Detected {
		return &MeasurementOutput{Dimensions: dims}, nil
	}

	annotated, err := s.annotator.Annotate(img, dims, s.opts.Style)
	if err != nil {
		return nil, fmt.Errorf("annotate image: %w", err)
	}

	return &MeasurementOutput{Dimensions: dims, Annotated: annotated}, nil
}

// AnalyzeBytes разбирает снимок и маску, измеряет и кодирует разметку в PNG.
func (s *MeasurementService) AnalyzeBytes(ctx context.Context, imageData, maskData []byte, ppi float64) (*MeasurementOutput, error) {
	if s.images == nil {
		return nil, errors.New("image processor is not configured")
	}

	img, err := s.images.Decode(imageData)
	if err != nil {
		return nil, fmt.Errorf("image: %w", err)
	}
	mask, err := s.images.Decode(maskData)
	if err != nil {
		return nil, fmt.Errorf("mask: %w", err)
	}

	out, err := s.Analyze(ctx, img, mask, ppi)
	if err != nil {
		return nil, err
	}
	if out.Annotated == nil {
		return out, nil
	}

	out.AnnotatedPNG, err = s.images.Encode(out.Annotated)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// alignMask приводит маску к размеру снимка или сообщает о расхождении.
func (s *MeasurementService) alignMask(img, mask image.Image) (image.Image, error) {
	if mask == nil || mask.Bounds().Empty() {
		return nil, fmt.Errorf("mask: %w", entity.ErrEmptyImage)
	}

	want, got := img.Bounds().Size(), mask.Bounds().Size()
	if want == got {
		return mask, nil
	}
	if !s.opts.ResizeMask || s.images == nil {
		return nil, fmt.Errorf("%w: image %dx%d, mask %dx%d", entity.ErrDimensionMismatch, want.X, want.Y, got.X, got.Y)
	}

	return s.images.Resize(mask, want.X, want.Y), nil
}
