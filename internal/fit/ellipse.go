package fit

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Ellipse holds the geometric parameters of a fitted ellipse: center,
// semi-major axis A, semi-minor axis B (A >= B), and rotation angle in
// radians.
type Ellipse struct {
	CenterX, CenterY float64
	SemiMajor        float64
	SemiMinor        float64
	RotationRadians  float64
}

// conic holds the general conic coefficients A*x^2 + B*xy + C*y^2 + D*x + E*y + F = 0.
type conic struct {
	A, B, C, D, E, F float64
}

// FitEllipse performs a direct least-squares fit of a general conic
// constrained to an ellipse (Halir & Flusser's numerically stable variant
// of Fitzgibbon's algorithm) over the given edge points, then converts the
// conic to geometric parameters.
//
// Returns an error if fewer than 6 points are supplied, the scatter matrix
// is singular, or no eigenvector satisfies the ellipse-specific
// discriminant condition 4*A*C - B^2 > 0.
func FitEllipse(xs, ys []float64) (Ellipse, error) {
	n := len(xs)
	if n != len(ys) {
		return Ellipse{}, fmt.Errorf("fit: xs and ys length mismatch (%d != %d)", n, len(ys))
	}
	if n < 6 {
		return Ellipse{}, fmt.Errorf("fit: need at least 6 points to fit an ellipse, got %d", n)
	}

	d1 := mat.NewDense(n, 3, nil)
	d2 := mat.NewDense(n, 3, nil)
	for i := 0; i < n; i++ {
		x, y := xs[i], ys[i]
		d1.SetRow(i, []float64{x * x, x * y, y * y})
		d2.SetRow(i, []float64{x, y, 1})
	}

	var s1, s2, s3 mat.Dense
	s1.Mul(d1.T(), d1)
	s2.Mul(d1.T(), d2)
	s3.Mul(d2.T(), d2)

	var s3inv mat.Dense
	if err := s3inv.Inverse(&s3); err != nil {
		return Ellipse{}, fmt.Errorf("fit: scatter matrix S3 is singular: %w", err)
	}

	// T = -S3^-1 * S2^T
	var negS3invS2T mat.Dense
	negS3invS2T.Mul(&s3inv, s2.T())
	negS3invS2T.Scale(-1, &negS3invS2T)

	var s2TVal mat.Dense
	s2TVal.Mul(&s2, &negS3invS2T)

	var m mat.Dense
	m.Add(&s1, &s2TVal)

	c1inv := mat.NewDense(3, 3, []float64{
		0, 0, 0.5,
		0, -1, 0,
		0.5, 0, 0,
	})
	var reduced mat.Dense
	reduced.Mul(c1inv, &m)

	var eig mat.Eigen
	if ok := eig.Factorize(&reduced, mat.EigenRight); !ok {
		return Ellipse{}, fmt.Errorf("fit: eigendecomposition of reduced scatter matrix failed")
	}
	values := eig.Values(nil)
	var vectors mat.CDense
	eig.VectorsTo(&vectors)

	var a1 []float64
	for col := 0; col < 3; col++ {
		if math.Abs(imag(values[col])) > 1e-6 {
			continue
		}
		candidate := []float64{
			real(vectors.At(0, col)),
			real(vectors.At(1, col)),
			real(vectors.At(2, col)),
		}
		disc := 4*candidate[0]*candidate[2] - candidate[1]*candidate[1]
		if disc > 0 {
			a1 = candidate
			break
		}
	}
	if a1 == nil {
		return Ellipse{}, fmt.Errorf("fit: no eigenvector satisfied the ellipse discriminant condition")
	}

	a1Vec := mat.NewVecDense(3, a1)
	var a2Vec mat.VecDense
	a2Vec.MulVec(&negS3invS2T, a1Vec)

	conicCoeffs := conic{
		A: a1[0], B: a1[1], C: a1[2],
		D: a2Vec.AtVec(0), E: a2Vec.AtVec(1), F: a2Vec.AtVec(2),
	}

	return conicToEllipse(conicCoeffs)
}

func conicToEllipse(c conic) (Ellipse, error) {
	denom := c.B*c.B - 4*c.A*c.C
	if math.Abs(denom) < 1e-12 {
		return Ellipse{}, fmt.Errorf("fit: degenerate conic (B^2 - 4AC ~= 0)")
	}

	x0 := (2*c.C*c.D - c.B*c.E) / denom
	y0 := (2*c.A*c.E - c.B*c.D) / denom

	numerator := c.A*c.E*c.E + c.C*c.D*c.D + c.F*c.B*c.B - c.B*c.D*c.E - 4*c.A*c.C*c.F
	commonTerm := math.Sqrt((c.A-c.C)*(c.A-c.C) + c.B*c.B)

	semiA := -math.Sqrt(2*numerator*((c.A+c.C)+commonTerm)) / denom
	semiB := -math.Sqrt(2*numerator*((c.A+c.C)-commonTerm)) / denom
	semiA, semiB = math.Abs(semiA), math.Abs(semiB)

	major, minor := semiA, semiB
	if minor > major {
		major, minor = minor, major
	}

	var theta float64
	if c.B == 0 {
		if c.A < c.C {
			theta = 0
		} else {
			theta = math.Pi / 2
		}
	} else {
		theta = math.Atan((c.C - c.A - commonTerm) / c.B)
	}

	return Ellipse{
		CenterX:         x0,
		CenterY:         y0,
		SemiMajor:       major,
		SemiMinor:       minor,
		RotationRadians: theta,
	}, nil
}
