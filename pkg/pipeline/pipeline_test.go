package pipeline

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"jsolex-core/internal/broadcast"
	"jsolex-core/internal/emitter"
	"jsolex-core/internal/params"
)

const (
	headerSize = 178
	magic      = "LUCAM-RECORDER"
)

// writeTestSER writes a mono 8-bit SER file where every frame has the same
// bright background with a dark horizontal band at lineRow, simulating a
// flat (undistorted) spectral absorption line.
func writeTestSER(t *testing.T, width, height, frameCount, lineRow int) string {
	dir := t.TempDir()
	path := filepath.Join(dir, "sun.ser")

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create test SER file: %v", err)
	}
	defer f.Close()

	header := make([]byte, headerSize)
	copy(header[0:14], magic)
	binary.LittleEndian.PutUint32(header[14:18], 0) // LuID
	binary.LittleEndian.PutUint32(header[18:22], 0) // MONO
	binary.LittleEndian.PutUint32(header[22:26], 0) // little-endian
	binary.LittleEndian.PutUint32(header[26:30], uint32(width))
	binary.LittleEndian.PutUint32(header[30:34], uint32(height))
	binary.LittleEndian.PutUint32(header[34:38], 8)
	binary.LittleEndian.PutUint32(header[38:42], uint32(frameCount))
	if _, err := f.Write(header); err != nil {
		t.Fatalf("failed to write header: %v", err)
	}

	frame := make([]byte, width*height)
	for y := 0; y < height; y++ {
		rowValue := byte(156)
		if y == lineRow {
			rowValue = byte(8)
		}
		for x := 0; x < width; x++ {
			frame[y*width+x] = rowValue
		}
	}
	for i := 0; i < frameCount; i++ {
		if _, err := f.Write(frame); err != nil {
			t.Fatalf("failed to write frame %d: %v", i, err)
		}
	}

	return path
}

func TestProcessRunsEndToEndOnAFlatSpectralLine(t *testing.T) {
	width, height, frameCount, lineRow := 40, 30, 20, 15
	serPath := writeTestSER(t, width, height, frameCount, lineRow)

	outDir := t.TempDir()
	p := params.Defaults()
	p.Extra.Autosave = true
	p.Extra.DebugImages = true
	em := emitter.NewFileEmitter(outDir, "sun", p.Extra, nil)

	var events []broadcast.Event
	b := broadcast.New()
	b.AddListener(func(e broadcast.Event) { events = append(events, e) })

	pipe := New(serPath, p, em, b)
	result, err := pipe.Process()
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	if result.Corrected {
		t.Error("expected a flat, edgeless reconstruction to leave geometry uncorrected")
	}

	var sawStart, sawDone bool
	for _, e := range events {
		switch e.Kind {
		case broadcast.ProcessingStart:
			sawStart = true
		case broadcast.ProcessingDone:
			sawDone = true
		}
	}
	if !sawStart {
		t.Error("expected a ProcessingStart event")
	}
	if !sawDone {
		t.Error("expected a ProcessingDone event")
	}

	entries, err := os.ReadDir(outDir)
	if err != nil || len(entries) == 0 {
		t.Errorf("expected the emitter to have written output files under %s, got %v (err=%v)", outDir, entries, err)
	}
}

func TestProcessFailsGracefullyOnMissingFile(t *testing.T) {
	p := params.Defaults()
	pipe := New(filepath.Join(t.TempDir(), "missing.ser"), p, nil, nil)

	if _, err := pipe.Process(); err == nil {
		t.Fatal("expected an error opening a missing SER file")
	}
}
