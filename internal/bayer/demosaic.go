package bayer

import "jsolex-core/internal/ser"

// colorKind identifies which Bayer sensor site a pixel belongs to.
type colorKind int

const (
	kindRed colorKind = iota
	kindGreen
	kindBlue
)

// Demosaic performs bilinear Bayer demosaicing of a single raw channel
// into separate R, G, B float planes, following the exact neighbor
// pattern of the original bilinear demosaicing strategy: a 4-neighbor
// average at R/B sites, a 2-neighbor average at G sites selected by row
// parity and Bayer variant. The first/last row and first/last column are
// left at zero in every channel, since they have no interior neighbors to
// average (§4.2/§8).
func Demosaic(raw []float64, width, height int, mode ser.ColorMode) (r, g, b []float64) {
	n := width * height
	r = make([]float64, n)
	g = make([]float64, n)
	b = make([]float64, n)

	idx := func(x, y int) int { return y*width + x }

	for y := 1; y < height-1; y++ {
		row := y % 2
		for x := 1; x < width-1; x++ {
			k := idx(x, y)
			kind := colorKindAt(x, y, mode)
			west, east := idx(x-1, y), idx(x+1, y)
			north, south := idx(x, y-1), idx(x, y+1)
			nw, ne := idx(x-1, y-1), idx(x+1, y-1)
			sw, se := idx(x-1, y+1), idx(x+1, y+1)

			switch kind {
			case kindRed:
				r[k] = raw[k]
				g[k] = avg4(raw[north], raw[west], raw[east], raw[south])
				b[k] = avg4(raw[nw], raw[ne], raw[sw], raw[se])
			case kindBlue:
				b[k] = raw[k]
				g[k] = avg4(raw[north], raw[west], raw[east], raw[south])
				r[k] = avg4(raw[nw], raw[ne], raw[sw], raw[se])
			case kindGreen:
				g[k] = raw[k]
				if redOnSameRow(mode, row) {
					r[k] = avg2(raw[west], raw[east])
					b[k] = avg2(raw[north], raw[south])
				} else {
					r[k] = avg2(raw[north], raw[south])
					b[k] = avg2(raw[west], raw[east])
				}
			}
		}
	}

	return r, g, b
}

// colorKindAt returns which Bayer site (x, y) is, given the sensor's color
// mode and 0-indexed, 0-based-row-parity layout.
func colorKindAt(x, y int, mode ser.ColorMode) colorKind {
	evenRow := y%2 == 0
	evenCol := x%2 == 0

	switch mode {
	case ser.ColorModeBayerRGGB:
		switch {
		case evenRow && evenCol:
			return kindRed
		case !evenRow && !evenCol:
			return kindBlue
		default:
			return kindGreen
		}
	case ser.ColorModeBayerBGGR:
		switch {
		case evenRow && evenCol:
			return kindBlue
		case !evenRow && !evenCol:
			return kindRed
		default:
			return kindGreen
		}
	case ser.ColorModeBayerGRBG:
		switch {
		case evenRow && !evenCol:
			return kindRed
		case !evenRow && evenCol:
			return kindBlue
		default:
			return kindGreen
		}
	case ser.ColorModeBayerGBRG:
		switch {
		case evenRow && !evenCol:
			return kindBlue
		case !evenRow && evenCol:
			return kindRed
		default:
			return kindGreen
		}
	default:
		return kindGreen
	}
}

// redOnSameRow reports, for a green pixel on the given row parity
// (0 = even row), whether the red channel should be sampled from the
// same-row (west/east) neighbors — the Bayer variant determines whether
// the even or odd row's green sites sit on a red row or a blue row.
func redOnSameRow(mode ser.ColorMode, row int) bool {
	switch mode {
	case ser.ColorModeBayerRGGB, ser.ColorModeBayerGRBG:
		return row == 0
	default: // BGGR, GBRG
		return row == 1
	}
}

func avg4(a, b, c, d float64) float64 {
	return (a + b + c + d) / 4
}

func avg2(a, b float64) float64 {
	return (a + b) / 2
}
