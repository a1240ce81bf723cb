package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"jsolex-core/internal/broadcast"
	"jsolex-core/internal/emitter"
	"jsolex-core/internal/params"
	"jsolex-core/pkg/pipeline"
)

func main() {
	inputFile := flag.String("input", "", "Path to the SER video to process")
	outputDir := flag.String("output-dir", "", "Directory to write generated images to (default: a jsolex-output directory next to the input file)")
	configPath := flag.String("config", "", "Path to a YAML process-parameters file (default: the embedded defaults)")
	detectionThreshold := flag.Float64("detection-threshold", 0, "Spectral line detection threshold override (0 keeps the configured default)")
	pixelShift := flag.Float64("pixel-shift", 0, "Base pixel shift for the reference reconstruction")
	extraShifts := flag.String("extra-shifts", "", "Comma-separated additional pixel shifts to reconstruct")
	bandingWidth := flag.Int("banding-width", 0, "Banding correction moving-average width override (0 keeps the configured default)")
	bandingPasses := flag.Int("banding-passes", 0, "Banding correction pass count override (0 keeps the configured default)")
	horizontalMirror := flag.Bool("hflip", false, "Mirror the output horizontally")
	verticalMirror := flag.Bool("vflip", false, "Mirror the output vertically")
	autosave := flag.Bool("autosave", true, "Write generated images to disk")
	debugImages := flag.Bool("debug-images", false, "Also generate DEBUG/TECHNICAL_CARD diagnostic images")
	quiet := flag.Bool("quiet", false, "Suppress progress notifications")
	flag.Parse()

	if *inputFile == "" {
		flag.Usage()
		os.Exit(1)
	}

	p, err := loadParams(*configPath)
	if err != nil {
		log.Fatalf("failed to load process parameters: %v", err)
	}
	p = applyOverrides(p, *detectionThreshold, *pixelShift, *extraShifts, *bandingWidth, *bandingPasses, *horizontalMirror, *verticalMirror, *autosave, *debugImages)

	dir := *outputDir
	if dir == "" {
		dir = filepath.Join(filepath.Dir(*inputFile), "jsolex-output")
	}
	basename := strings.TrimSuffix(filepath.Base(*inputFile), filepath.Ext(*inputFile))

	b := broadcast.New()
	if !*quiet {
		b.AddListener(logListener)
	}
	em := emitter.NewFileEmitter(dir, basename, p.Extra, b)

	fmt.Println("================================")
	fmt.Println("JSOL'EX SPECTROHELIOGRAPH RECONSTRUCTION PIPELINE")
	fmt.Println("================================")
	fmt.Printf("Input:      %s\n", *inputFile)
	fmt.Printf("Output dir: %s\n", dir)

	pipe := pipeline.New(*inputFile, p, em, b)

	start := time.Now()
	result, err := pipe.Process()
	if err != nil {
		log.Fatalf("reconstruction failed: %v", err)
	}
	elapsed := time.Since(start)

	fmt.Printf("\nReconstruction completed in %.2f seconds\n", elapsed.Seconds())
	fmt.Printf("Reconstructed shifts: %v\n", result.Shifts)
	if result.Corrected {
		fmt.Printf("Geometry corrected: center=(%.1f, %.1f) radius=%.1f\n",
			result.Ellipse.CenterX, result.Ellipse.CenterY, result.Ellipse.SemiMajor)
	} else {
		fmt.Println("Geometry left uncorrected (ellipse fit was rejected or no disk edges were found)")
	}
	fmt.Printf("Output min: %.1f, mean: %.1f, stddev: %.1f\n", result.Stats.Min, result.Stats.Mean, result.Stats.StdDev)
}

func loadParams(configPath string) (params.ProcessParams, error) {
	if configPath == "" {
		return params.Defaults(), nil
	}
	return params.ReadFrom(configPath)
}

func applyOverrides(p params.ProcessParams, detectionThreshold, pixelShift float64, extraShifts string, bandingWidth, bandingPasses int, hflip, vflip, autosave, debugImages bool) params.ProcessParams {
	spectrum := p.Spectrum
	if detectionThreshold > 0 {
		spectrum.DetectionThreshold = detectionThreshold
	}
	spectrum.PixelShift = pixelShift
	p = p.WithSpectrum(spectrum)

	images := p.Images
	images.PixelShifts = parseShifts(extraShifts)
	p = p.WithImages(images)

	banding := p.Banding
	if bandingWidth > 0 {
		banding.Width = bandingWidth
	}
	if bandingPasses > 0 {
		banding.Passes = bandingPasses
	}
	p = p.WithBanding(banding)

	geometry := p.Geometry
	geometry.HorizontalMirror = hflip
	geometry.VerticalMirror = vflip
	p = p.WithGeometry(geometry)

	extra := p.Extra
	extra.Autosave = autosave
	extra.DebugImages = debugImages
	p = p.WithExtra(extra)

	return p
}

func parseShifts(raw string) []float64 {
	if raw == "" {
		return nil
	}
	var shifts []float64
	for _, field := range strings.Split(raw, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			continue
		}
		shifts = append(shifts, v)
	}
	return shifts
}

func logListener(e broadcast.Event) {
	switch e.Kind {
	case broadcast.Notification:
		n := e.Notification
		fmt.Printf("[%s] %s: %s\n", severityLabel(n.Severity), n.Header, n.Message)
	case broadcast.Suggestion:
		fmt.Printf("[suggestion] %s\n", e.Suggestion)
	case broadcast.ImageGenerated:
		fmt.Printf("wrote %s -> %s\n", e.ImageGenerated.Kind, e.ImageGenerated.Path)
	case broadcast.FileGenerated:
		fmt.Printf("wrote %s -> %s\n", e.FileGenerated.Kind, e.FileGenerated.Path)
	}
}

func severityLabel(s broadcast.Severity) string {
	switch s {
	case broadcast.SeverityWarning:
		return "warning"
	case broadcast.SeverityError:
		return "error"
	default:
		return "info"
	}
}
