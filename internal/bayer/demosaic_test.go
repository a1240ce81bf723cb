package bayer

import (
	"testing"

	"jsolex-core/internal/ser"
)

func TestDemosaicRGGBBordersAreZero(t *testing.T) {
	width, height := 6, 6
	raw := make([]float64, width*height)
	for i := range raw {
		raw[i] = 1000
	}

	r, g, b := Demosaic(raw, width, height, ser.ColorModeBayerRGGB)

	for x := 0; x < width; x++ {
		for _, y := range []int{0, height - 1} {
			idx := y*width + x
			if r[idx] != 0 || g[idx] != 0 || b[idx] != 0 {
				t.Errorf("border pixel (%d,%d) not zero: r=%v g=%v b=%v", x, y, r[idx], g[idx], b[idx])
			}
		}
	}
	for y := 0; y < height; y++ {
		for _, x := range []int{0, width - 1} {
			idx := y*width + x
			if r[idx] != 0 || g[idx] != 0 || b[idx] != 0 {
				t.Errorf("border pixel (%d,%d) not zero: r=%v g=%v b=%v", x, y, r[idx], g[idx], b[idx])
			}
		}
	}
}

func TestDemosaicRGGBGreenAtRedSiteIsMeanOfFourNeighbors(t *testing.T) {
	width, height := 6, 6
	raw := make([]float64, width*height)

	// Raw mosaic where every sensor site carries a non-zero value that
	// varies with position, so the green interpolated at a red site is both
	// non-zero and exactly the mean of its four immediate neighbors.
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			raw[y*width+x] = float64((x*7+y*13)%50 + 1)
		}
	}

	_, g, _ := Demosaic(raw, width, height, ser.ColorModeBayerRGGB)

	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			if colorKindAt(x, y, ser.ColorModeBayerRGGB) != kindRed {
				continue
			}
			k := y*width + x
			sum := raw[k-1] + raw[k+1] + raw[(y-1)*width+x] + raw[(y+1)*width+x]
			want := sum / 4
			if g[k] != want {
				t.Errorf("green at red site (%d,%d) = %v, want %v", x, y, g[k], want)
			}
			if g[k] == 0 {
				t.Errorf("green at red site (%d,%d) unexpectedly zero", x, y)
			}
		}
	}
}

func TestDemosaicAllVariantsPreserveNativeSite(t *testing.T) {
	width, height := 8, 8
	raw := make([]float64, width*height)
	for i := range raw {
		raw[i] = float64(i%97) + 1
	}

	for _, mode := range []ser.ColorMode{
		ser.ColorModeBayerRGGB, ser.ColorModeBayerBGGR,
		ser.ColorModeBayerGBRG, ser.ColorModeBayerGRBG,
	} {
		r, g, b := Demosaic(raw, width, height, mode)
		for y := 1; y < height-1; y++ {
			for x := 1; x < width-1; x++ {
				k := y*width + x
				switch colorKindAt(x, y, mode) {
				case kindRed:
					if r[k] != raw[k] {
						t.Errorf("mode %v: red site (%d,%d) not preserved", mode, x, y)
					}
				case kindGreen:
					if g[k] != raw[k] {
						t.Errorf("mode %v: green site (%d,%d) not preserved", mode, x, y)
					}
				case kindBlue:
					if b[k] != raw[k] {
						t.Errorf("mode %v: blue site (%d,%d) not preserved", mode, x, y)
					}
				}
			}
		}
	}
}
