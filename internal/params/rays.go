package params

import "math"

// SpectralRay is a named absorption line Sol'Ex commonly targets, with its
// approximate air wavelength in nanometers (see
// https://en.wikipedia.org/wiki/Fraunhofer_lines).
type SpectralRay struct {
	Label        string
	WavelengthNM float64
}

var (
	RayAuto        = SpectralRay{"Autodetect", 0}
	RayCalciumK    = SpectralRay{"Calcium (K)", 393.366}
	RayCalciumH    = SpectralRay{"Calcium (H)", 396.847}
	RayCalciumIron = SpectralRay{"Calcium+Iron+CH (G)", 430.782}
	RayHBeta       = SpectralRay{"H-beta", 486.134}
	RayMagnesiumB1 = SpectralRay{"Magnesium (b1)", 518.362}
	RayIronE2      = SpectralRay{"Iron (E2)", 527.039}
	RayMercuryE    = SpectralRay{"Mercury (e)", 546.073}
	RayHeliumD3    = SpectralRay{"Helium (D3)", 587.562}
	RaySodiumD2    = SpectralRay{"Sodium (D2)", 588.995}
	RaySodiumD1    = SpectralRay{"Sodium (D1)", 589.592}
	RayHAlpha      = SpectralRay{"H-alpha", 656.281}
	RayOther       = SpectralRay{"Other", 0}
)

// PredefinedRays lists the catalog in display order: Autodetect first,
// Other last, and the real lines in between in a fixed order that is not
// sorted by wavelength.
var PredefinedRays = []SpectralRay{
	RayAuto,
	RayCalciumK,
	RayCalciumH,
	RayCalciumIron,
	RayHBeta,
	RayIronE2,
	RayHAlpha,
	RaySodiumD1,
	RaySodiumD2,
	RayMercuryE,
	RayHeliumD3,
	RayMagnesiumB1,
	RayOther,
}

func (r SpectralRay) String() string { return r.Label }

// ToRGB approximates the visible color of the ray's wavelength using the
// standard piecewise visible-spectrum mapping, gamma-corrected and then
// softened towards a lighter, less saturated tone so it reads well as a
// colorize target.
func (r SpectralRay) ToRGB() (red, green, blue uint8) {
	wl := r.WavelengthNM
	var rr, gg, bb float64
	switch {
	case wl >= 380 && wl < 440:
		rr, gg, bb = -(wl-440)/(440-380), 0, 1
	case wl >= 440 && wl < 490:
		rr, gg, bb = 0, (wl-440)/(490-440), 1
	case wl >= 490 && wl < 510:
		rr, gg, bb = 0, 1, -(wl-510)/(510-490)
	case wl >= 510 && wl < 580:
		rr, gg, bb = (wl-510)/(580-510), 1, 0
	case wl >= 580 && wl < 645:
		rr, gg, bb = 1, -(wl-645)/(645-580), 0
	case wl >= 645 && wl < 781:
		rr, gg, bb = 1, 0, 0
	default:
		rr, gg, bb = 0, 0, 0
	}

	var factor float64
	switch {
	case wl >= 380 && wl < 420:
		factor = 0.3 + 0.7*(wl-380)/(420-380)
	case wl >= 420 && wl < 701:
		factor = 1.0
	case wl >= 701 && wl < 781:
		factor = 0.3 + 0.7*(780-wl)/(780-700)
	default:
		factor = 0
	}

	toByte := func(channel float64) uint8 {
		if channel == 0 {
			return 0
		}
		return uint8(math.Round(255 * math.Pow(channel*factor, 0.7)))
	}

	return softenEsthetics(toByte(rr), toByte(gg), toByte(bb))
}

// softenEsthetics desaturates and lightens a raw spectral color so it
// renders pleasantly against a dark background rather than as a pure
// spectral primary.
func softenEsthetics(r, g, b uint8) (uint8, uint8, uint8) {
	h, s, l := rgbToHSL(r, g, b)
	s *= 0.8
	l += (1 - l) * 0.45
	return hslToRGB(h, s, l)
}

func rgbToHSL(r, g, b uint8) (h, s, l float64) {
	rf, gf, bf := float64(r)/255, float64(g)/255, float64(b)/255
	max := math.Max(rf, math.Max(gf, bf))
	min := math.Min(rf, math.Min(gf, bf))
	l = (max + min) / 2

	if max == min {
		return 0, 0, l
	}
	d := max - min
	if l > 0.5 {
		s = d / (2 - max - min)
	} else {
		s = d / (max + min)
	}
	switch max {
	case rf:
		h = (gf - bf) / d
		if gf < bf {
			h += 6
		}
	case gf:
		h = (bf-rf)/d + 2
	default:
		h = (rf-gf)/d + 4
	}
	return h / 6, s, l
}

func hslToRGB(h, s, l float64) (uint8, uint8, uint8) {
	if s == 0 {
		v := uint8(l * 255)
		return v, v, v
	}
	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q
	toByte := func(v float64) uint8 { return uint8(v * 255) }
	return toByte(hueToRGB(p, q, h+1.0/3)), toByte(hueToRGB(p, q, h)), toByte(hueToRGB(p, q, h-1.0/3))
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 1.0/2:
		return q
	case t < 2.0/3:
		return p + (q-p)*(2.0/3-t)*6
	default:
		return p
	}
}
