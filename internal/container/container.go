package container

import (
	"fmt"

	app "heart-dimensions/internal/application"
	"heart-dimensions/internal/domain/port"
	"heart-dimensions/internal/infrastructure/geometry"
	"heart-dimensions/internal/infrastructure/raster"
	"heart-dimensions/internal/infrastructure/render"
	"heart-dimensions/internal/infrastructure/vision"
)

type Container struct {
	UserService        *app.UserService
	MeasurementService *app.MeasurementService
	SessionService     *app.SessionService
}

func New(userRepo port.UserRepository, geometry port.GeometryProvider, annotator port.Annotator, images port.ImageProcessor, opts app.Options) *Container {
	userService := app.NewUserService(userRepo)
	measurementService := app.NewMeasurementService(geometry, annotator, images, opts)
	sessionService := app.NewSessionService(userService, measurementService)

	return &Container{
		UserService:        userService,
		MeasurementService: measurementService,
		SessionService:     sessionService,
	}
}

// Backend возвращает геометрию и разметчик для выбранного бэкенда.
func Backend(name string) (port.GeometryProvider, port.Annotator, error) {
	switch name {
	case "", "native":
		return geometry.NewNative(), render.NewAnnotator(), nil
	case "gocv":
		if !vision.Available() {
			return nil, nil, fmt.Errorf("backend %q requires building with -tags gocv", name)
		}
		return vision.NewGoCVGeometry(), vision.NewGoCVAnnotator(), nil
	default:
		return nil, nil, fmt.Errorf("unknown geometry backend %q", name)
	}
}

// NewDefault собирает контейнер с выбранным бэкендом и обработчиком изображений.
func NewDefault(userRepo port.UserRepository, backend string, opts app.Options) (*Container, error) {
	geom, annotator, err := Backend(backend)
	if err != nil {
		return nil, err
	}
	return New(userRepo, geom, annotator, raster.NewProcessor(), opts), nil
}
