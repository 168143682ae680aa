package survtest

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// SampleSizeNecessaryUnderCPH computes the per-arm sample sizes needed to
// detect a postulated hazard ratio between an experimental and a control
// group under a Cox proportional hazards model.
//
// power is the desired power to detect a hazard ratio as small as the
// postulated one, ratio is the ratio of participants in the experimental
// group over the control group, pExp and pCon are the probabilities of
// failure in each group over the period of study, and alpha is the type I
// error rate (conventionally 0.05).
//
// It returns the experimental and control group sizes, rounded up.
// Reference: the powerSurvEpi package,
// https://cran.r-project.org/web/packages/powerSurvEpi/powerSurvEpi.pdf.
func SampleSizeNecessaryUnderCPH(power, ratio, pExp, pCon, hazardRatio, alpha float64) (int, int) {

	z := distuv.UnitNormal.Quantile

	m := (1 / ratio) *
		math.Pow((ratio*hazardRatio+1)/(hazardRatio-1), 2) *
		math.Pow(z(1-alpha/2)+z(power), 2)

	nExp := m * ratio / (ratio*pExp + pCon)
	nCon := m / (ratio*pExp + pCon)

	return int(math.Ceil(nExp)), int(math.Ceil(nCon))
}

// PowerUnderCPH computes the power of the test that the experimental and
// control groups have different hazards, given fixed group sizes.  It is the
// inverse direction of SampleSizeNecessaryUnderCPH: nExp and nCon are the
// group sizes, pExp and pCon the probabilities of failure over the period of
// study, and alpha the type I error rate.
//
// Reference: the powerSurvEpi package,
// https://cran.r-project.org/web/packages/powerSurvEpi/powerSurvEpi.pdf.
func PowerUnderCPH(nExp, nCon int, pExp, pCon, hazardRatio, alpha float64) float64 {

	z := distuv.UnitNormal.Quantile

	m := float64(nExp)*pExp + float64(nCon)*pCon
	k := float64(nExp) / float64(nCon)

	return distuv.UnitNormal.CDF(
		math.Sqrt(k*m)*math.Abs(hazardRatio-1)/(k*hazardRatio+1) - z(1-alpha/2),
	)
}
