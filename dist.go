package survtest

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ChiSquareTest performs an upper tail chi-squared test of the statistic u
// with the given degrees of freedom.  It returns the p-value and whether the
// test is significant at the confidence level alpha (p < 1-alpha).
func ChiSquareTest(u, df, alpha float64) (bool, float64) {
	p := distuv.ChiSquared{K: df}.Survival(u)
	return p < 1-alpha, p
}

// TwoSidedZTest performs a two-sided test of the standard normal statistic z,
// with p = 2*(1 - Phi(|z|)).  It returns the p-value and whether the test is
// significant at the confidence level alpha.
func TwoSidedZTest(z, alpha float64) (bool, float64) {
	p := 2 * distuv.UnitNormal.Survival(math.Abs(z))
	return p < 1-alpha/2, p
}

// varianceRatio returns (n-d)/(n-1), the finite population correction in the
// hypergeometric variance, replaced by 1 when the risk set has a single
// subject or the ratio is not finite.
func varianceRatio(n, d float64) float64 {
	if n <= 1 {
		return 1
	}
	r := (n - d) / (n - 1)
	if math.IsInf(r, 0) || math.IsNaN(r) {
		return 1
	}
	return r
}

// pinv returns the Moore-Penrose pseudo-inverse of a, computed from the
// singular value decomposition.  Singular values below a tolerance scaled to
// the largest singular value are treated as zero, so nearly singular inputs
// produce a finite result instead of an error.
func pinv(a mat.Matrix) *mat.Dense {

	sv := new(mat.SVD)
	if !sv.Factorize(a, mat.SVDThin) {
		panic("SVD!\n")
	}

	s := sv.Values(nil)
	u := new(mat.Dense)
	sv.UTo(u)
	v := new(mat.Dense)
	sv.VTo(v)

	r, c := a.Dims()
	m := r
	if c > m {
		m = c
	}
	var tol float64
	if len(s) > 0 {
		tol = float64(m) * s[0] * 2.220446049250313e-16
	}

	d := mat.NewDense(len(s), len(s), nil)
	for i, x := range s {
		if x > tol {
			d.Set(i, i, 1/x)
		}
	}

	pi := new(mat.Dense)
	pi.Product(v, d, u.T())
	return pi
}
