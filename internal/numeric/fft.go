// Package numeric holds the small numeric kernels the reconstruction
// pipeline is built on: FFT, Gaussian kernels, bilinear sampling, and
// image rotate/rescale.
package numeric

import (
	"fmt"
	"math"
	"math/bits"
)

// FFT computes the forward discrete Fourier transform of x using a
// recursive radix-2 Cooley-Tukey algorithm. len(x) must be a power of two.
func FFT(x []complex128) ([]complex128, error) {
	if err := checkPowerOfTwo(len(x)); err != nil {
		return nil, err
	}
	out := make([]complex128, len(x))
	copy(out, x)
	fftRecursive(out, false)
	return out, nil
}

// InverseFFT computes the inverse discrete Fourier transform of x,
// normalizing by len(x). len(x) must be a power of two.
func InverseFFT(x []complex128) ([]complex128, error) {
	if err := checkPowerOfTwo(len(x)); err != nil {
		return nil, err
	}
	out := make([]complex128, len(x))
	copy(out, x)
	fftRecursive(out, true)
	n := float64(len(out))
	for i := range out {
		out[i] /= complex(n, 0)
	}
	return out, nil
}

func checkPowerOfTwo(n int) error {
	if n == 0 || bits.OnesCount(uint(n)) != 1 {
		return fmt.Errorf("numeric: FFT length %d is not a power of two", n)
	}
	return nil
}

// fftRecursive performs an in-place-equivalent Cooley-Tukey FFT on x,
// returning the transform through the same slice it was given (a fresh
// copy, since even/odd splits allocate). inverse flips the sign of the
// exponent; the caller is responsible for the 1/n normalization.
func fftRecursive(x []complex128, inverse bool) {
	n := len(x)
	if n <= 1 {
		return
	}

	even := make([]complex128, n/2)
	odd := make([]complex128, n/2)
	for i := 0; i < n/2; i++ {
		even[i] = x[2*i]
		odd[i] = x[2*i+1]
	}

	fftRecursive(even, inverse)
	fftRecursive(odd, inverse)

	sign := -1.0
	if inverse {
		sign = 1.0
	}
	for k := 0; k < n/2; k++ {
		angle := sign * 2 * math.Pi * float64(k) / float64(n)
		twiddle := complex(math.Cos(angle), math.Sin(angle)) * odd[k]
		x[k] = even[k] + twiddle
		x[k+n/2] = even[k] - twiddle
	}
}

// RealToComplex lifts a real-valued signal into the complex domain for FFT.
func RealToComplex(x []float64) []complex128 {
	out := make([]complex128, len(x))
	for i, v := range x {
		out[i] = complex(v, 0)
	}
	return out
}

// ComplexToReal returns the real part of each element, dropping the
// imaginary part whatever its size.
func ComplexToReal(x []complex128) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = real(v)
	}
	return out
}
