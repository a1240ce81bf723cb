// Package bayer converts raw SER frame bytes into single-channel float
// buffers, demosaicing Bayer-pattern frames before reducing them to
// luminance.
package bayer

import (
	"encoding/binary"
	"fmt"

	"jsolex-core/internal/ser"
)

// Converter maps raw frame bytes to a width x height float buffer in
// [0, 65535], writing into a caller-provided output buffer that the caller
// may reuse across frames.
type Converter struct {
	geometry ser.Geometry
}

// New creates a Converter for the given frame geometry.
func New(geometry ser.Geometry) *Converter {
	return &Converter{geometry: geometry}
}

// CreateBuffer allocates a fresh width*height float buffer sized for this
// converter's geometry.
func (c *Converter) CreateBuffer() []float64 {
	return make([]float64, c.geometry.Width*c.geometry.Height)
}

// Convert decodes raw into out, which must be sized width*height. Bayer
// frames are demosaiced into three separate R, G, B float planes (no
// interleaved RGB buffer is built), then reduced to luminance.
func (c *Converter) Convert(raw []byte, out []float64) error {
	g := c.geometry
	want := g.FrameSizeBytes()
	if len(raw) != want {
		return fmt.Errorf("bayer: raw frame is %d bytes, expected %d", len(raw), want)
	}
	if len(out) != g.Width*g.Height {
		return fmt.Errorf("bayer: output buffer is %d samples, expected %d", len(out), g.Width*g.Height)
	}

	switch g.ColorMode {
	case ser.ColorModeMono:
		return c.convertMono(raw, out)
	case ser.ColorModeRGB, ser.ColorModeBGR:
		return c.convertRGB(raw, out, g.ColorMode == ser.ColorModeBGR)
	case ser.ColorModeBayerRGGB, ser.ColorModeBayerBGGR, ser.ColorModeBayerGBRG, ser.ColorModeBayerGRBG:
		return c.convertBayer(raw, out)
	default:
		return fmt.Errorf("bayer: unsupported color mode %v", g.ColorMode)
	}
}

func (c *Converter) convertMono(raw []byte, out []float64) error {
	g := c.geometry
	n := g.Width * g.Height
	switch g.BytesPerPixel {
	case 1:
		for i := 0; i < n; i++ {
			out[i] = float64(raw[i]) * 257 // 8-bit to 16-bit range
		}
	case 2:
		order := binaryOrder(g.LittleEndian)
		for i := 0; i < n; i++ {
			out[i] = float64(order.Uint16(raw[i*2 : i*2+2]))
		}
	default:
		return fmt.Errorf("bayer: unsupported mono bytes-per-pixel %d", g.BytesPerPixel)
	}
	return nil
}

func (c *Converter) convertRGB(raw []byte, out []float64, bgr bool) error {
	g := c.geometry
	n := g.Width * g.Height
	channelBytes := g.BytesPerPixel / 3
	order := binaryOrder(g.LittleEndian)
	readChannel := func(off int) float64 {
		if channelBytes == 1 {
			return float64(raw[off]) * 257
		}
		return float64(order.Uint16(raw[off : off+2]))
	}
	for i := 0; i < n; i++ {
		base := i * 3 * channelBytes
		r := readChannel(base)
		g2 := readChannel(base + channelBytes)
		b := readChannel(base + 2*channelBytes)
		if bgr {
			r, b = b, r
		}
		out[i] = 0.299*r + 0.587*g2 + 0.114*b
	}
	return nil
}

func (c *Converter) convertBayer(raw []byte, out []float64) error {
	g := c.geometry
	n := g.Width * g.Height
	raw16 := make([]float64, n)
	order := binaryOrder(g.LittleEndian)
	switch g.BytesPerPixel {
	case 1:
		for i := 0; i < n; i++ {
			raw16[i] = float64(raw[i]) * 257
		}
	case 2:
		for i := 0; i < n; i++ {
			raw16[i] = float64(order.Uint16(raw[i*2 : i*2+2]))
		}
	default:
		return fmt.Errorf("bayer: unsupported bayer bytes-per-pixel %d", g.BytesPerPixel)
	}

	r, gr, b := Demosaic(raw16, g.Width, g.Height, g.ColorMode)
	for i := 0; i < n; i++ {
		out[i] = 0.299*r[i] + 0.587*gr[i] + 0.114*b[i]
	}
	return nil
}

func binaryOrder(littleEndian bool) binary.ByteOrder {
	if littleEndian {
		return binary.LittleEndian
	}
	return binary.BigEndian
}
