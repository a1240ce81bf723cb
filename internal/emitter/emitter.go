// Package emitter implements the ImageEmitter collaborator the core
// delegates rendering and persistence to (§6). The core never encodes
// files itself; it hands the emitter in-memory float buffers and the
// emitter decides how (and whether) to turn them into JPEGs or other
// artifacts on disk.
package emitter

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"

	"jsolex-core/internal/broadcast"
	"jsolex-core/internal/imaging"
	"jsolex-core/internal/params"
)

// ImageEmitter is the collaborator the pipeline invokes with in-memory
// results. Implementations own rendering and persistence; the pipeline
// only supplies data and a kind/category/title/name tag.
type ImageEmitter interface {
	NewMonoImage(kind, category, title, name string, w *imaging.Wrapper, transform func([]float64) []float64) error
	NewColorImage(kind, category, title, name string, width, height int, rgbSupplier func(x, y int) (r, g, b uint8), painter func(dc *gg.Context)) error
	NewGenericFile(kind, category, title, name, path string) error
}

// debugKinds names the generated-image kinds gated by ExtraParams.DebugImages.
var debugKinds = map[string]bool{
	"DEBUG":          true,
	"TECHNICAL_CARD": true,
}

// FileEmitter is the reference ImageEmitter: it renders mono and color
// buffers to JPEG under baseDir, names files from the configured
// FilePattern, and broadcasts an ImageGenerated or FileGenerated event
// for every artifact it produces (or would have produced, when autosave
// is off).
type FileEmitter struct {
	baseDir     string
	basename    string
	pattern     string
	autosave    bool
	debugImages bool
	broadcaster *broadcast.Broadcaster
}

// NewFileEmitter builds a FileEmitter writing under baseDir, deriving
// filenames from basename and extra.FilePattern, and broadcasting
// through b (nil is allowed; events are simply dropped).
func NewFileEmitter(baseDir, basename string, extra params.ExtraParams, b *broadcast.Broadcaster) *FileEmitter {
	pattern := extra.FilePattern
	if pattern == "" {
		pattern = "%BASENAME%_%KIND%"
	}
	return &FileEmitter{
		baseDir:     baseDir,
		basename:    basename,
		pattern:     pattern,
		autosave:    extra.Autosave,
		debugImages: extra.DebugImages,
		broadcaster: b,
	}
}

func (e *FileEmitter) resolvePath(kind, category, name, ext string) string {
	stem := strings.NewReplacer("%BASENAME%", e.basename, "%KIND%", kind).Replace(e.pattern)
	if name != "" {
		stem = stem + "_" + name
	}
	dir := e.baseDir
	if category != "" {
		dir = filepath.Join(e.baseDir, category)
	}
	return filepath.Join(dir, stem+ext)
}

func (e *FileEmitter) notify(kind broadcast.Kind, event broadcast.Event) {
	if e.broadcaster == nil {
		return
	}
	event.Kind = kind
	e.broadcaster.Broadcast(event)
}

// NewMonoImage renders w.Data (optionally passed through transform) as a
// grayscale JPEG. The buffer is built at 16-bit depth, but jpeg.Encode
// quantizes it down to 8 bits on write.
func (e *FileEmitter) NewMonoImage(kind, category, title, name string, w *imaging.Wrapper, transform func([]float64) []float64) error {
	if debugKinds[kind] && !e.debugImages {
		return nil
	}

	data := w.Data
	if transform != nil {
		data = transform(data)
	}

	path := e.resolvePath(kind, category, name, ".jpg")
	if e.autosave {
		if err := writeGray16JPEG(path, data, w.Width, w.Height); err != nil {
			return fmt.Errorf("emitter: writing mono image %s: %w", path, err)
		}
	}

	e.notify(broadcast.ImageGenerated, broadcast.Event{
		ImageGenerated: broadcast.ImageGeneratedPayload{
			Kind:  kind,
			Title: title,
			Path:  path,
			Image: w,
		},
	})
	return nil
}

// NewColorImage renders an RGB image of the given dimensions, sampling
// rgbSupplier per pixel and optionally running painter over the result
// for debug annotations, then saves it as a JPEG.
func (e *FileEmitter) NewColorImage(kind, category, title, name string, width, height int, rgbSupplier func(x, y int) (r, g, b uint8), painter func(dc *gg.Context)) error {
	if debugKinds[kind] && !e.debugImages {
		return nil
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b := rgbSupplier(x, y)
			img.Set(x, y, color.RGBA{R: r, G: g, B: b, A: 255})
		}
	}

	var out image.Image = img
	if painter != nil {
		dc := gg.NewContextForImage(img)
		painter(dc)
		out = dc.Image()
	}

	path := e.resolvePath(kind, category, name, ".jpg")
	if e.autosave {
		if err := writeJPEG(path, out); err != nil {
			return fmt.Errorf("emitter: writing color image %s: %w", path, err)
		}
	}

	e.notify(broadcast.ImageGenerated, broadcast.Event{
		ImageGenerated: broadcast.ImageGeneratedPayload{
			Kind:  kind,
			Title: title,
			Path:  path,
		},
	})
	return nil
}

// NewGenericFile registers a non-image artifact already written at path
// (e.g. a FITS file or a script result) by broadcasting a FileGenerated
// event; it performs no I/O of its own.
func (e *FileEmitter) NewGenericFile(kind, category, title, name, path string) error {
	e.notify(broadcast.FileGenerated, broadcast.Event{
		FileGenerated: broadcast.FileGeneratedPayload{
			Kind:  kind,
			Title: title,
			Path:  path,
		},
	})
	return nil
}

func writeGray16JPEG(path string, data []float64, width, height int) error {
	img := image.NewGray16(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			idx := y*width + x
			v := data[idx]
			if v < 0 {
				v = 0
			}
			if v > 65535 {
				v = 65535
			}
			img.SetGray16(x, y, color.Gray16{Y: uint16(v)})
		}
	}
	return writeJPEG(path, img)
}

func writeJPEG(path string, img image.Image) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return jpeg.Encode(file, img, &jpeg.Options{Quality: 90})
}
