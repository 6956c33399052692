package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"heart-dimensions/internal/domain/entity"
)

// chdirTemp переходит во временный каталог, чтобы не подхватить чужой .env.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)
	t.Setenv("TELEGRAM_TOKEN", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 300.0, cfg.ResolutionPPI)
	require.Equal(t, uint8(127), cfg.MaskCutoff)
	require.Equal(t, "annotated_xray_lines.png", cfg.OutputPath)
	require.Equal(t, BackendNative, cfg.GeometryBackend)
	require.False(t, cfg.ResizeMask)
	require.Equal(t, entity.DefaultAnnotationStyle(), cfg.Style())

	opts := cfg.Options()
	require.Equal(t, 300.0, opts.ResolutionPPI)
	require.Equal(t, uint8(127), opts.MaskCutoff)
}

func TestLoad_Overrides(t *testing.T) {
	chdirTemp(t)
	t.Setenv("HEART_RESOLUTION_PPI", "150")
	t.Setenv("HEART_MASK_CUTOFF", "200")
	t.Setenv("HEART_OUTPUT_PATH", "out/result.png")
	t.Setenv("HEART_GEOMETRY_BACKEND", "GoCV")
	t.Setenv("HEART_RESIZE_MASK", "true")
	t.Setenv("HEART_LENGTH_COLOR", "#ff0000")
	t.Setenv("HEART_LINE_THICKNESS", "3")
	t.Setenv("HEART_FONT_SCALE", "1.2")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 150.0, cfg.ResolutionPPI)
	require.Equal(t, uint8(200), cfg.MaskCutoff)
	require.Equal(t, "out/result.png", cfg.OutputPath)
	require.Equal(t, BackendGoCV, cfg.GeometryBackend)
	require.True(t, cfg.ResizeMask)
	require.Equal(t, color.RGBA{R: 255, A: 255}, cfg.LengthColor)
	require.Equal(t, 3, cfg.LineThickness)
	require.Equal(t, 1.2, cfg.FontScale)
	require.True(t, cfg.Options().ResizeMask)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("HEART_LABEL_OFFSET=25\n"), 0o644))
	t.Cleanup(func() { _ = os.Unsetenv("HEART_LABEL_OFFSET") })

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 25, cfg.LabelOffset)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"HEART_RESOLUTION_PPI":   "0",
		"HEART_MASK_CUTOFF":      "300",
		"HEART_GEOMETRY_BACKEND": "cuda",
		"HEART_RESIZE_MASK":      "maybe",
		"HEART_TEXT_COLOR":       "white",
		"HEART_TEXT_THICKNESS":   "thick",
	}

	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			chdirTemp(t)
			t.Setenv(key, value)

			_, err := Load()
			require.Error(t, err)
			require.Contains(t, err.Error(), key)
		})
	}
}

func TestLoad_InvalidResolutionIsTyped(t *testing.T) {
	chdirTemp(t)
	t.Setenv("HEART_RESOLUTION_PPI", "-72")

	_, err := Load()
	require.ErrorIs(t, err, entity.ErrInvalidResolution)
}
