package ser

import (
	"fmt"
	"io"
	"os"
)

// Reader sequentially reads frames from a SER file. It owns an exclusive
// position cursor: only one goroutine may call NextFrame/Seek/CurrentFrameBytes
// on a given Reader at a time (see §4.1/§5 — the pipeline copies frame
// bytes into a task-owned buffer before returning the reader to its
// caller for the next advance).
type Reader struct {
	file     *os.File
	header   Header
	geometry Geometry

	frameIndex  int
	current     []byte
	frameBytes  int
	dataStart   int64
}

// Open opens the SER file at path and decodes its header.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ser: failed to open %s: %w", path, err)
	}

	h, err := readHeader(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	geom := h.geometry()
	dataStart, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("ser: failed to locate frame data start: %w", err)
	}

	return &Reader{
		file:       f,
		header:     h,
		geometry:   geom,
		frameIndex: -1,
		frameBytes: geom.FrameSizeBytes(),
		dataStart:  dataStart,
	}, nil
}

// Close releases the underlying file handle.
func (r *Reader) Close() error {
	return r.file.Close()
}

// Header returns the decoded file header.
func (r *Reader) Header() Header { return r.header }

// Geometry returns the frame geometry.
func (r *Reader) Geometry() Geometry { return r.geometry }

// FrameCount returns the number of frames declared in the header.
func (r *Reader) FrameCount() int { return int(r.header.FrameCount) }

// EstimateFPS derives an average frame rate from the optional per-frame
// timestamp trailer that follows the raw frame data, when present. SER
// files don't carry an explicit frame-rate field.
func (r *Reader) EstimateFPS() (float64, bool) {
	count := r.FrameCount()
	if count < 2 {
		return 0, false
	}
	trailerOffset := r.dataStart + int64(r.frameBytes)*int64(count)
	info, err := r.file.Stat()
	if err != nil || info.Size() < trailerOffset+int64(count)*timestampBytes {
		return 0, false
	}

	ts := make([]byte, int64(count)*timestampBytes)
	if _, err := r.file.ReadAt(ts, trailerOffset); err != nil {
		return 0, false
	}

	first := decodeDotNetTicks(int64(leUint64(ts[0:8])))
	last := decodeDotNetTicks(int64(leUint64(ts[len(ts)-8:])))
	elapsed := last.Sub(first).Seconds()
	if elapsed <= 0 {
		return 0, false
	}
	return float64(count-1) / elapsed, true
}

func leUint64(b []byte) uint64 {
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}

// Seek repositions the reader's cursor to frame index (0-based), without
// reading it.
func (r *Reader) Seek(index int) error {
	if index < 0 || index >= r.FrameCount() {
		return fmt.Errorf("ser: frame index %d out of range [0, %d)", index, r.FrameCount())
	}
	r.frameIndex = index - 1
	return nil
}

// NextFrame reads the next sequential frame into the reader's internal
// buffer and advances the cursor. Returns io.EOF once all frames have
// been consumed.
func (r *Reader) NextFrame() error {
	next := r.frameIndex + 1
	if next >= r.FrameCount() {
		return io.EOF
	}
	offset := r.dataStart + int64(next)*int64(r.frameBytes)
	if _, err := r.file.Seek(offset, io.SeekStart); err != nil {
		return fmt.Errorf("ser: seek to frame %d failed: %w", next, err)
	}
	buf := make([]byte, r.frameBytes)
	if _, err := io.ReadFull(r.file, buf); err != nil {
		return fmt.Errorf("ser: short read on frame %d: %w", next, err)
	}
	r.current = buf
	r.frameIndex = next
	return nil
}

// CurrentFrameBytes returns the raw bytes of the most recently read frame.
// The caller must copy these bytes before the reader advances again if it
// intends to hand them to another goroutine (§4.1/§5).
func (r *Reader) CurrentFrameBytes() []byte {
	return r.current
}

// CurrentFrameIndex returns the 0-based index of the most recently read frame.
func (r *Reader) CurrentFrameIndex() int {
	return r.frameIndex
}
