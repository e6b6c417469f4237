package engine

import (
	"fmt"

	"volseg/pkg/config"
	"volseg/pkg/raster"
	"volseg/pkg/scissors"
)

// NewFromConfig creates an engine sized and parameterized from a loaded
// configuration.
func NewFromConfig(cfg *config.Config) (*Engine, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil config", ErrInvalidInput)
	}
	e, err := New(cfg.Raster.Width, cfg.Raster.Height, cfg.Raster.Depth)
	if err != nil {
		return nil, err
	}
	if err := e.ApplyConfig(cfg); err != nil {
		return nil, err
	}
	return e, nil
}

// ApplyConfig installs every configured tool default. Each parameter set is
// validated as a unit; the first invalid set aborts with the prior values of
// that set retained.
func (e *Engine) ApplyConfig(cfg *config.Config) error {
	if cfg == nil {
		return fmt.Errorf("%w: nil config", ErrInvalidInput)
	}

	shape, err := parseBrushShape(cfg.Brush.Shape)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParameters, err)
	}
	if err := e.SetBrushParams(BrushParams{Size: cfg.Brush.Size, Shape: shape}); err != nil {
		return err
	}
	if err := e.SetFillParams(FillParams{
		Connectivity: cfg.Fill.Connectivity,
		Tolerance:    cfg.Fill.Tolerance,
	}); err != nil {
		return err
	}
	if err := e.SetFreehandParams(FreehandParams{
		SmoothingEnabled:        cfg.Freehand.SmoothingEnabled,
		SmoothingWindow:         cfg.Freehand.SmoothingWindow,
		SimplificationEnabled:   cfg.Freehand.SimplificationEnabled,
		SimplificationTolerance: cfg.Freehand.SimplificationTolerance,
		FillInterior:            cfg.Freehand.FillInterior,
		CloseThreshold:          cfg.Freehand.CloseThreshold,
		StrokeWidth:             cfg.Freehand.StrokeWidth,
	}); err != nil {
		return err
	}
	if err := e.SetPolygonParams(PolygonParams{
		FillInterior:    cfg.Polygon.FillInterior,
		DrawOutline:     cfg.Polygon.DrawOutline,
		MinimumVertices: cfg.Polygon.MinimumVertices,
	}); err != nil {
		return err
	}
	if err := e.SetScissorsParams(ScissorsParams{
		Params: scissors.Params{
			GradientWeight:   cfg.Scissors.GradientWeight,
			DirectionWeight:  cfg.Scissors.DirectionWeight,
			LaplacianWeight:  cfg.Scissors.LaplacianWeight,
			GaussianSigma:    cfg.Scissors.GaussianSigma,
			SmoothingEnabled: cfg.Scissors.SmoothingEnabled,
		},
		FillInterior:   cfg.Scissors.FillInterior,
		CloseThreshold: cfg.Scissors.CloseThreshold,
	}); err != nil {
		return err
	}
	e.history.SetLimit(cfg.History.MaxEntries)
	return nil
}

func parseBrushShape(name string) (raster.BrushShape, error) {
	switch name {
	case "circle", "":
		return raster.Circle, nil
	case "square":
		return raster.Square, nil
	default:
		return raster.Circle, fmt.Errorf("unknown brush shape %q", name)
	}
}
