package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"math"
	"os"
	"time"

	"gonum.org/v1/gonum/stat"

	"volseg/internal/models"
	"volseg/pkg/config"
	"volseg/pkg/engine"
)

// Distinct display colors for the first few label ids; background stays black.
var labelColors = []color.RGBA{
	{0, 0, 0, 255},
	{230, 60, 60, 255},
	{60, 200, 90, 255},
	{70, 110, 230, 255},
	{230, 200, 60, 255},
}

func main() {
	configPath := flag.String("config", "volseg.yaml", "Path to YAML configuration")
	writeConfig := flag.Bool("write-config", false, "Write the default configuration file and exit")
	outputFile := flag.String("output", "", "Optional PNG dump of slice 0 after the scripted session")
	flag.Parse()

	if *writeConfig {
		if err := config.CreateDefaultConfigFile(*configPath); err != nil {
			log.Fatalf("Failed to write default config: %v", err)
		}
		fmt.Printf("Default configuration written to %s\n", *configPath)
		return
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	eng, err := engine.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}

	fmt.Println("================================")
	fmt.Println("VOLSEG INTERACTIVE SEGMENTATION ENGINE - SCRIPTED SESSION")
	fmt.Println("================================")
	r := eng.LabelRaster()
	fmt.Printf("Raster: %dx%dx%d, history depth %d\n",
		r.Width(), r.Height(), r.Depth(), cfg.History.MaxEntries)

	modifications := 0
	eng.SetModificationCallback(func(slice int) { modifications++ })
	eng.SetUndoRedoCallback(func(canUndo, canRedo bool) {
		fmt.Printf("  undo available: %v, redo available: %v\n", canUndo, canRedo)
	})

	start := time.Now()
	if err := runSession(eng); err != nil {
		log.Fatalf("Scripted session failed: %v", err)
	}
	elapsed := time.Since(start)

	fmt.Printf("\nSession completed in %.3f seconds with %d modification notifications\n",
		elapsed.Seconds(), modifications)
	printCensus(eng)

	if *outputFile != "" {
		if err := writeSlicePNG(eng, 0, *outputFile); err != nil {
			log.Fatalf("Failed to write slice image: %v", err)
		}
		fmt.Printf("Slice 0 written to %s\n", *outputFile)
	}
}

// runSession drives the engine through one of each tool operation plus an
// undo/redo round trip, the way an interactive caller would.
func runSession(eng *engine.Engine) error {
	w := eng.LabelRaster().Width()
	h := eng.LabelRaster().Height()

	// Brush stroke across the upper third.
	fmt.Println("\nStep 1: Brush stroke...")
	if err := eng.SetActiveTool(engine.ToolBrush); err != nil {
		return err
	}
	if err := eng.PointerDown(models.Point{X: w / 8, Y: h / 3}, 0); err != nil {
		return err
	}
	for x := w / 8; x <= 7*w/8; x += w / 16 {
		if err := eng.PointerMove(models.Point{X: x, Y: h / 3}, 0); err != nil {
			return err
		}
	}
	if err := eng.PointerUp(models.Point{X: 7 * w / 8, Y: h / 3}, 0); err != nil {
		return err
	}

	// Flood fill below the stroke with a second label.
	fmt.Println("Step 2: Flood fill...")
	if err := eng.SetActiveLabel(2); err != nil {
		return err
	}
	if err := eng.SetActiveTool(engine.ToolFill); err != nil {
		return err
	}
	if err := eng.PointerDown(models.Point{X: w / 2, Y: 2 * h / 3}, 0); err != nil {
		return err
	}

	// Filled triangle with a third label.
	fmt.Println("Step 3: Polygon...")
	if err := eng.SetActiveLabel(3); err != nil {
		return err
	}
	if err := eng.SetActiveTool(engine.ToolPolygon); err != nil {
		return err
	}
	if err := eng.SetPolygonParams(engine.PolygonParams{
		FillInterior: true, DrawOutline: true, MinimumVertices: 3,
	}); err != nil {
		return err
	}
	for _, v := range []models.Point{
		{X: w / 4, Y: h / 8}, {X: w / 2, Y: h / 16}, {X: 3 * w / 8, Y: h / 4},
	} {
		if err := eng.PointerDown(v, 0); err != nil {
			return err
		}
	}
	if err := eng.CompletePolygon(); err != nil {
		return err
	}

	// Freehand loop with a fourth label.
	fmt.Println("Step 4: Freehand loop...")
	if err := eng.SetActiveLabel(4); err != nil {
		return err
	}
	if err := eng.SetActiveTool(engine.ToolFreehand); err != nil {
		return err
	}
	cx, cy, radius := 3*w/4, 3*h/4, h/10
	first := models.Point{X: cx + radius, Y: cy}
	if err := eng.PointerDown(first, 0); err != nil {
		return err
	}
	for i := 1; i <= 36; i++ {
		angle := float64(i) * 2 * math.Pi / 36
		p := models.Point{
			X: cx + int(float64(radius)*math.Cos(angle)),
			Y: cy + int(float64(radius)*math.Sin(angle)),
		}
		if err := eng.PointerMove(p, 0); err != nil {
			return err
		}
	}
	if err := eng.PointerUp(first, 0); err != nil {
		return err
	}

	// Undo/redo round trip over the freehand commit.
	fmt.Println("Step 5: Undo/redo round trip...")
	if err := eng.Undo(); err != nil {
		return err
	}
	if err := eng.Redo(); err != nil {
		return err
	}
	return nil
}

// printCensus reports per-label coverage of slice 0.
func printCensus(eng *engine.Engine) {
	r := eng.LabelRaster()
	total := float64(r.Width() * r.Height())

	fmt.Println("\nLabel census (slice 0):")
	fmt.Println("=======================")
	coverages := make([]float64, 0, 4)
	for label := uint8(1); label <= 4; label++ {
		n := r.CountValue(label, 0)
		cov := float64(n) / total * 100
		coverages = append(coverages, cov)
		fmt.Printf("Label %d: %6d cells (%.2f%%)\n", label, n, cov)
	}
	fmt.Printf("Mean label coverage: %.2f%%\n", stat.Mean(coverages, nil))
}

// writeSlicePNG dumps one slice of the label raster as a colored PNG.
func writeSlicePNG(eng *engine.Engine, slice int, path string) error {
	r := eng.LabelRaster()
	img := image.NewRGBA(image.Rect(0, 0, r.Width(), r.Height()))
	for y := 0; y < r.Height(); y++ {
		for x := 0; x < r.Width(); x++ {
			v := r.Get(x, y, slice)
			c := labelColors[0]
			if int(v) < len(labelColors) {
				c = labelColors[v]
			} else {
				c = color.RGBA{255, 255, 255, 255}
			}
			img.SetRGBA(x, y, c)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create image file: %w", err)
	}
	defer file.Close()

	return png.Encode(file, img)
}
