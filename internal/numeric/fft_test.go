package numeric

import (
	"math"
	"testing"
)

func TestFFTRoundTrip(t *testing.T) {
	signal := []float64{0, 2, 2, 2, 1, 1.5, 2, 4, 2, 2, 2, 1, 0, 0, 5, 0}

	spectrum, err := FFT(RealToComplex(signal))
	if err != nil {
		t.Fatalf("FFT failed: %v", err)
	}

	recovered, err := InverseFFT(spectrum)
	if err != nil {
		t.Fatalf("InverseFFT failed: %v", err)
	}

	for i, want := range signal {
		got := recovered[i]
		if math.Abs(real(got)-want) > 1e-6 {
			t.Errorf("index %d: real part = %v, want %v", i, real(got), want)
		}
		if math.Abs(imag(got)) > 1e-6 {
			t.Errorf("index %d: imaginary part = %v, want ~0", i, imag(got))
		}
	}
}

func TestFFTRejectsNonPowerOfTwo(t *testing.T) {
	if _, err := FFT(make([]complex128, 3)); err == nil {
		t.Fatal("expected error for non-power-of-two length")
	}
}

func TestFFTPowerOfTwoLengths(t *testing.T) {
	for n := 2; n <= 64; n *= 2 {
		x := make([]float64, n)
		for i := range x {
			x[i] = float64(i%5) - 2
		}
		spectrum, err := FFT(RealToComplex(x))
		if err != nil {
			t.Fatalf("n=%d: %v", n, err)
		}
		recovered, err := InverseFFT(spectrum)
		if err != nil {
			t.Fatalf("n=%d: %v", n, err)
		}
		for i, want := range x {
			if math.Abs(real(recovered[i])-want) > 1e-6 {
				t.Errorf("n=%d index %d: got %v want %v", n, i, real(recovered[i]), want)
			}
		}
	}
}
