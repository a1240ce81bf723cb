// Package fit holds the least-squares solvers shared by the spectrum
// analyzer (parabolic distortion fit) and the geometry corrector
// (ellipse fit).
package fit

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Parabola holds the coefficients of y = A*x^2 + B*x + C.
type Parabola struct {
	A, B, C float64
}

// Eval returns y(x).
func (p Parabola) Eval(x float64) float64 {
	return p.A*x*x + p.B*x + p.C
}

// FitParabola fits y = A*x^2 + B*x + C to the given (x, y) samples using
// ordinary least squares via QR decomposition of the Vandermonde system,
// the same solve strategy the kriging system uses (mat.Dense + mat.QR).
// Returns an error if fewer than 3 points are given or the system is
// singular.
func FitParabola(xs, ys []float64) (Parabola, float64, error) {
	n := len(xs)
	if n != len(ys) {
		return Parabola{}, 0, fmt.Errorf("fit: xs and ys length mismatch (%d != %d)", n, len(ys))
	}
	if n < 3 {
		return Parabola{}, 0, fmt.Errorf("fit: need at least 3 points to fit a parabola, got %d", n)
	}

	vandermonde := mat.NewDense(n, 3, nil)
	target := mat.NewVecDense(n, ys)
	for i, x := range xs {
		vandermonde.SetRow(i, []float64{x * x, x, 1})
	}

	var qr mat.QR
	qr.Factorize(vandermonde)

	solution := mat.NewDense(3, 1, nil)
	if err := qr.SolveTo(solution, false, target); err != nil {
		return Parabola{}, 0, fmt.Errorf("fit: parabola solve failed: %w", err)
	}

	p := Parabola{A: solution.At(0, 0), B: solution.At(1, 0), C: solution.At(2, 0)}

	residualVariance := 0.0
	for i, x := range xs {
		diff := ys[i] - p.Eval(x)
		residualVariance += diff * diff
	}
	residualVariance /= float64(n)

	return p, math.Sqrt(residualVariance), nil
}
