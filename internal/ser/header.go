package ser

import (
	"encoding/binary"
	"fmt"
	"io"
	"strings"
	"time"
)

const (
	magic          = "LUCAM-RECORDER"
	headerSize     = 178
	timestampBytes = 8
)

// Header is the decoded SER v3 file header.
type Header struct {
	Magic        string
	LuID         int32
	ColorID      int32
	LittleEndian bool
	ImageWidth   int32
	ImageHeight  int32
	PixelDepth   int32
	FrameCount   int32
	Observer     string
	Instrument   string
	Telescope    string
	DateUTC      time.Time
	DateUTCLocal time.Time
}

// readHeader decodes the 178-byte SER header from r.
func readHeader(r io.Reader) (Header, error) {
	buf := make([]byte, headerSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return Header{}, fmt.Errorf("ser: failed to read header: %w", err)
	}

	m := string(buf[0:14])
	if m != magic {
		return Header{}, fmt.Errorf("ser: unsupported file, missing %q magic (got %q)", magic, m)
	}

	h := Header{Magic: m}
	h.LuID = int32(binary.LittleEndian.Uint32(buf[14:18]))
	h.ColorID = int32(binary.LittleEndian.Uint32(buf[18:22]))
	littleEndianFlag := int32(binary.LittleEndian.Uint32(buf[22:26]))
	h.LittleEndian = littleEndianFlag == 0
	h.ImageWidth = int32(binary.LittleEndian.Uint32(buf[26:30]))
	h.ImageHeight = int32(binary.LittleEndian.Uint32(buf[30:34]))
	h.PixelDepth = int32(binary.LittleEndian.Uint32(buf[34:38]))
	h.FrameCount = int32(binary.LittleEndian.Uint32(buf[38:42]))
	h.Observer = trimNul(buf[42:82])
	h.Instrument = trimNul(buf[82:122])
	h.Telescope = trimNul(buf[122:162])
	h.DateUTC = decodeDotNetTicks(int64(binary.LittleEndian.Uint64(buf[162:170])))
	h.DateUTCLocal = decodeDotNetTicks(int64(binary.LittleEndian.Uint64(buf[170:178])))

	return h, nil
}

func trimNul(b []byte) string {
	return strings.TrimRight(string(b), "\x00 ")
}

// decodeDotNetTicks converts a .NET DateTime tick count (100ns intervals
// since 0001-01-01) into a time.Time, the convention SER files use for
// their UTC timestamp fields.
func decodeDotNetTicks(ticks int64) time.Time {
	const ticksPerSecond = 10_000_000
	epochOffsetSeconds := int64(62135596800) // seconds between 0001-01-01 and 1970-01-01
	seconds := ticks/ticksPerSecond - epochOffsetSeconds
	nanos := (ticks % ticksPerSecond) * 100
	return time.Unix(seconds, nanos).UTC()
}

// geometry derives a Geometry record from the decoded header.
func (h Header) geometry() Geometry {
	bpp := 1
	if h.PixelDepth > 8 {
		bpp = 2
	}
	mode := colorModeFromID(h.ColorID)
	switch mode {
	case ColorModeRGB, ColorModeBGR:
		bpp *= 3
	}
	return Geometry{
		Width:         int(h.ImageWidth),
		Height:        int(h.ImageHeight),
		BytesPerPixel: bpp,
		ColorMode:     mode,
		LittleEndian:  h.LittleEndian,
	}
}
