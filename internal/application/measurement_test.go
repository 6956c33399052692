package app

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"heart-dimensions/internal/domain/entity"
	"heart-dimensions/internal/infrastructure/geometry"
	"heart-dimensions/internal/infrastructure/raster"
	"heart-dimensions/internal/infrastructure/render"
)

func newTestMeasurementService(opts Options) *MeasurementService {
	return NewMeasurementService(geometry.NewNative(), render.NewAnnotator(), raster.NewProcessor(), opts)
}

func createXray(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Gray{Y: 40}), image.Point{}, draw.Src)
	return img
}

// createMask рисует маску с закрашенными прямоугольниками [x1,x2)×[y1,y2).
func createMask(w, h int, rects ...image.Rectangle) *image.Gray {
	m := image.NewGray(image.Rect(0, 0, w, h))
	for _, r := range rects {
		draw.Draw(m, r, image.NewUniform(color.Gray{Y: 255}), image.Point{}, draw.Src)
	}
	return m
}

// fakeGeometry возвращает заранее заданный прямоугольник.
type fakeGeometry struct {
	box   entity.OrientedBox
	err   error
	calls int
}

func (f *fakeGeometry) FindExternalContours(mask *image.Gray) ([]entity.Contour, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []entity.Contour{{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}}, nil
}

func (f *fakeGeometry) FitMinAreaRect(contour entity.Contour) (entity.OrientedBox, error) {
	return f.box, nil
}

func TestMeasurementService_MeasureRectangle(t *testing.T) {
	svc := newTestMeasurementService(DefaultOptions())
	mask := createMask(120, 100, image.Rect(20, 30, 80, 70))

	dims, err := svc.Measure(context.Background(), mask, 300)
	require.NoError(t, err)
	require.True(t, dims.Detected)

	require.InDelta(t, 60, dims.Length.Pixels, 1)
	require.InDelta(t, 40, dims.Breadth.Pixels, 1)
	require.Equal(t, entity.PixelsToCentimeters(float64(dims.Length.Pixels), 300), dims.Length.Centimeters)
	require.Equal(t, entity.PixelsToCentimeters(float64(dims.Breadth.Pixels), 300), dims.Breadth.Centimeters)
	require.Equal(t, image.Pt(49, 49), dims.Center)

	// Height > Width: длина получает угол прямоугольника
	require.Equal(t, 90.0, dims.Box.Angle)
	require.Equal(t, dims.Box.Angle, dims.Length.Angle)
	require.Equal(t, dims.Box.Angle+90, dims.Breadth.Angle)
}

func TestMeasurementService_MeasureTallRectangle(t *testing.T) {
	svc := newTestMeasurementService(DefaultOptions())
	mask := createMask(100, 100, image.Rect(40, 10, 60, 90))

	dims, err := svc.Measure(context.Background(), mask, 300)
	require.NoError(t, err)
	require.InDelta(t, 80, dims.Length.Pixels, 1)
	require.InDelta(t, 20, dims.Breadth.Pixels, 1)
	require.Equal(t, dims.Box.Angle+90, dims.Length.Angle)
	require.Equal(t, dims.Box.Angle, dims.Breadth.Angle)
}

func TestMeasurementService_MeasureRotatedRegion(t *testing.T) {
	const (
		cx, cy      = 100.0, 100.0
		halfL       = 40.0
		halfB       = 15.0
		angleDegree = 30.0
	)
	rad := angleDegree * math.Pi / 180
	ux, uy := math.Cos(rad), math.Sin(rad)

	mask := image.NewGray(image.Rect(0, 0, 200, 200))
	for y := 0; y < 200; y++ {
		for x := 0; x < 200; x++ {
			dx, dy := float64(x)-cx, float64(y)-cy
			if math.Abs(dx*ux+dy*uy) <= halfL && math.Abs(-dx*uy+dy*ux) <= halfB {
				mask.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}

	dims, err := newTestMeasurementService(DefaultOptions()).Measure(context.Background(), mask, 300)
	require.NoError(t, err)
	require.True(t, dims.Detected)
	require.InDelta(t, 2*halfL, dims.Length.Pixels, 2.5)
	require.InDelta(t, 2*halfB, dims.Breadth.Pixels, 2.5)
	require.InDelta(t, cx, dims.Box.Center.X, 1)
	require.InDelta(t, cy, dims.Box.Center.Y, 1)
}

func TestMeasurementService_PicksLargestRegion(t *testing.T) {
	svc := newTestMeasurementService(DefaultOptions())
	mask := createMask(200, 100,
		image.Rect(5, 5, 25, 95),
		image.Rect(60, 20, 190, 80),
	)

	dims, err := svc.Measure(context.Background(), mask, 300)
	require.NoError(t, err)
	require.InDelta(t, 130, dims.Length.Pixels, 1)
	require.InDelta(t, 60, dims.Breadth.Pixels, 1)
}

func TestMeasurementService_SquareUsesElseBranch(t *testing.T) {
	svc := newTestMeasurementService(DefaultOptions())
	mask := createMask(100, 100, image.Rect(30, 30, 70, 70))

	dims, err := svc.Measure(context.Background(), mask, 300)
	require.NoError(t, err)
	require.Equal(t, dims.Length.Pixels, dims.Breadth.Pixels)
	require.Equal(t, dims.Box.Angle+90, dims.Length.Angle)
	require.Equal(t, dims.Box.Angle, dims.Breadth.Angle)

	fake := &fakeGeometry{box: entity.OrientedBox{Center: entity.Point2f{X: 10, Y: 10}, Width: 50, Height: 50, Angle: 30}}
	svc = NewMeasurementService(fake, render.NewAnnotator(), raster.NewProcessor(), DefaultOptions())

	dims, err = svc.Measure(context.Background(), mask, 300)
	require.NoError(t, err)
	require.Equal(t, 120.0, dims.Length.Angle)
	require.Equal(t, 30.0, dims.Breadth.Angle)
}

func TestMeasurementService_NoRegion(t *testing.T) {
	svc := newTestMeasurementService(DefaultOptions())
	mask := createMask(64, 64)
	// всё, что не выше порога, считается фоном
	draw.Draw(mask, mask.Bounds(), image.NewUniform(color.Gray{Y: 127}), image.Point{}, draw.Src)

	dims, err := svc.Measure(context.Background(), mask, 300)
	require.NoError(t, err)
	require.False(t, dims.Detected)

	out, err := svc.Analyze(context.Background(), createXray(64, 64), mask, 300)
	require.NoError(t, err)
	require.False(t, out.Dimensions.Detected)
	require.Nil(t, out.Annotated)
}

func TestMeasurementService_LengthNotLessThanBreadth(t *testing.T) {
	svc := newTestMeasurementService(DefaultOptions())
	rects := []image.Rectangle{
		image.Rect(10, 10, 90, 20),
		image.Rect(10, 10, 20, 90),
		image.Rect(0, 0, 100, 100),
		image.Rect(50, 50, 51, 51),
		image.Rect(33, 10, 67, 11),
	}

	for _, r := range rects {
		dims, err := svc.Measure(context.Background(), createMask(100, 100, r), 300)
		require.NoError(t, err)
		require.True(t, dims.Detected)
		require.GreaterOrEqual(t, dims.Length.Centimeters, dims.Breadth.Centimeters)
		require.GreaterOrEqual(t, dims.Breadth.Centimeters, 0.0)
	}
}

func TestMeasurementService_ResolutionScaling(t *testing.T) {
	svc := newTestMeasurementService(DefaultOptions())
	mask := createMask(100, 100, image.Rect(10, 20, 90, 60))

	base, err := svc.Measure(context.Background(), mask, 300)
	require.NoError(t, err)
	scaled, err := svc.Measure(context.Background(), mask, 900)
	require.NoError(t, err)

	require.InDelta(t, base.Length.Centimeters/3, scaled.Length.Centimeters, 1e-12)
	require.InDelta(t, base.Breadth.Centimeters/3, scaled.Breadth.Centimeters, 1e-12)
	require.Equal(t, base.Length.Pixels, scaled.Length.Pixels)
}

func TestMeasurementService_Idempotent(t *testing.T) {
	svc := newTestMeasurementService(DefaultOptions())
	img := createXray(100, 100)
	mask := createMask(100, 100, image.Rect(15, 25, 85, 60))

	first, err := svc.Analyze(context.Background(), img, mask, 300)
	require.NoError(t, err)
	second, err := svc.Analyze(context.Background(), img, mask, 300)
	require.NoError(t, err)

	require.Equal(t, first.Dimensions, second.Dimensions)
	require.Equal(t, first.Annotated, second.Annotated)
}

func TestMeasurementService_InvalidResolution(t *testing.T) {
	fake := &fakeGeometry{}
	svc := NewMeasurementService(fake, render.NewAnnotator(), raster.NewProcessor(), DefaultOptions())
	mask := createMask(10, 10, image.Rect(2, 2, 8, 8))

	for _, ppi := range []float64{0, -1, math.NaN()} {
		_, err := svc.Measure(context.Background(), mask, ppi)
		require.ErrorIs(t, err, entity.ErrInvalidResolution)

		_, err = svc.Analyze(context.Background(), createXray(10, 10), mask, ppi)
		require.ErrorIs(t, err, entity.ErrInvalidResolution)
	}
	require.Zero(t, fake.calls)
}

func TestMeasurementService_DimensionMismatch(t *testing.T) {
	mask := createMask(50, 50, image.Rect(10, 10, 40, 30))

	_, err := newTestMeasurementService(DefaultOptions()).Analyze(context.Background(), createXray(100, 100), mask, 300)
	require.ErrorIs(t, err, entity.ErrDimensionMismatch)

	opts := DefaultOptions()
	opts.ResizeMask = true
	out, err := newTestMeasurementService(opts).Analyze(context.Background(), createXray(100, 100), mask, 300)
	require.NoError(t, err)
	require.True(t, out.Dimensions.Detected)
	require.InDelta(t, 60, out.Dimensions.Length.Pixels, 3)
	require.InDelta(t, 40, out.Dimensions.Breadth.Pixels, 3)
	require.Equal(t, image.Rect(0, 0, 100, 100), out.Annotated.Bounds())
}

func TestMeasurementService_EmptyInputs(t *testing.T) {
	svc := newTestMeasurementService(DefaultOptions())

	_, err := svc.Measure(context.Background(), nil, 300)
	require.ErrorIs(t, err, entity.ErrEmptyImage)

	_, err = svc.Analyze(context.Background(), nil, createMask(4, 4), 300)
	require.ErrorIs(t, err, entity.ErrEmptyImage)

	_, err = svc.Analyze(context.Background(), createXray(4, 4), image.NewGray(image.Rectangle{}), 300)
	require.ErrorIs(t, err, entity.ErrEmptyImage)
}

func TestMeasurementService_GeometryError(t *testing.T) {
	boom := errors.New("boom")
	svc := NewMeasurementService(&fakeGeometry{err: boom}, render.NewAnnotator(), raster.NewProcessor(), DefaultOptions())

	_, err := svc.Measure(context.Background(), createMask(10, 10, image.Rect(1, 1, 5, 5)), 300)
	require.ErrorIs(t, err, boom)
}

func TestMeasurementService_NotConfigured(t *testing.T) {
	svc := NewMeasurementService(nil, nil, nil, DefaultOptions())

	_, err := svc.Measure(context.Background(), createMask(4, 4), 300)
	require.Error(t, err)

	_, err = svc.Analyze(context.Background(), createXray(4, 4), createMask(4, 4), 300)
	require.Error(t, err)

	_, err = svc.AnalyzeBytes(context.Background(), []byte("x"), []byte("y"), 300)
	require.Error(t, err)
}

func TestMeasurementService_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestMeasurementService(DefaultOptions()).Measure(ctx, createMask(4, 4), 300)
	require.ErrorIs(t, err, context.Canceled)
}

func TestMeasurementService_AnalyzeBytes(t *testing.T) {
	proc := raster.NewProcessor()
	svc := newTestMeasurementService(DefaultOptions())

	xray, err := proc.Encode(createXray(120, 90))
	require.NoError(t, err)
	mask, err := proc.Encode(createMask(120, 90, image.Rect(30, 20, 100, 70)))
	require.NoError(t, err)

	out, err := svc.AnalyzeBytes(context.Background(), xray, mask, 300)
	require.NoError(t, err)
	require.True(t, out.Dimensions.Detected)
	require.Equal(t, []byte("\x89PNG"), out.AnnotatedPNG[:4])

	empty, err := proc.Encode(createMask(120, 90))
	require.NoError(t, err)
	out, err = svc.AnalyzeBytes(context.Background(), xray, empty, 300)
	require.NoError(t, err)
	require.False(t, out.Dimensions.Detected)
	require.Nil(t, out.AnnotatedPNG)

	_, err = svc.AnalyzeBytes(context.Background(), []byte("broken"), mask, 300)
	require.Error(t, err)
}
