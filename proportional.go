package survtest

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// CoxPHModel exposes the quantities of a fitted Cox proportional hazards
// regression needed to test the proportional hazards assumption.  Fitting is
// out of scope for this package; any fitted model can implement this
// interface.
type CoxPHModel interface {

	// EventObserved returns the status indicator per subject, 1 if the
	// event was observed and 0 if censored.
	EventObserved() []float64

	// Durations returns the event or censoring time per subject.
	Durations() []float64

	// ScaledSchoenfeldResiduals returns one row per subject with an
	// observed event, in data order, and one column per covariate.
	ScaledSchoenfeldResiduals() [][]float64

	// VCov returns the fitted sampling variance/covariance matrix of the
	// coefficients, vectorized to one dimension, row major.
	VCov() []float64

	// Names returns the covariate names.
	Names() []string
}

// PHTestConfig holds optional settings for ProportionalHazardTest.
type PHTestConfig struct {

	// Alpha is the confidence level, in (0, 1].
	Alpha float64

	// TimeTransform maps event times before centering.  It must be
	// monotonic.  Nil means the identity transform.
	TimeTransform func(float64) float64

	// TimeTransformName labels the transform in the result metadata.
	TimeTransformName string

	// Meta is additional metadata recorded on the result.
	Meta []MetaItem
}

// DefaultPHTestConfig returns the default settings: a 0.95 confidence level
// and the identity time transform.
func DefaultPHTestConfig() *PHTestConfig {
	return &PHTestConfig{
		Alpha:             0.95,
		TimeTransformName: "identity",
	}
}

// ProportionalHazardTest tests the proportional hazards assumption of a
// fitted Cox model, one chi-squared test with one degree of freedom per
// covariate.  For each covariate, the transformed event times (centered at
// their mean over the uncensored subjects) are correlated against the scaled
// Schoenfeld residuals; a nonzero correlation indicates a time varying
// coefficient.  The result holds one p-value per covariate, named by
// covariate.
func ProportionalHazardTest(model CoxPHModel, config *PHTestConfig) (*StatisticalResult, error) {

	if config == nil {
		config = DefaultPHTestConfig()
	}
	if !(0 < config.Alpha && config.Alpha <= 1) {
		return nil, fmt.Errorf("survtest: alpha parameter must be between 0 and 1")
	}

	events := model.EventObserved()
	durations := model.Durations()
	if len(events) != len(durations) {
		return nil, fmt.Errorf("survtest: event and duration arrays must be of the same length")
	}

	deaths := floats.Sum(events)
	if deaths == 0 {
		return nil, fmt.Errorf("survtest: no observed events")
	}

	// Transformed event times for the uncensored subjects, centered.
	var times []float64
	for i, e := range events {
		if e == 1 {
			t := durations[i]
			if config.TimeTransform != nil {
				t = config.TimeTransform(t)
			}
			times = append(times, t)
		}
	}
	mn := floats.Sum(times) / float64(len(times))
	floats.AddConst(-mn, times)

	resid := model.ScaledSchoenfeldResiduals()
	if len(resid) != len(times) {
		return nil, fmt.Errorf("survtest: expected one residual row per observed event")
	}

	names := model.Names()
	vcov := model.VCov()
	p := len(names)
	if len(vcov) != p*p {
		return nil, fmt.Errorf("survtest: variance matrix does not match the covariate names")
	}

	var tss float64
	for _, t := range times {
		tss += t * t
	}

	stats := make([]float64, p)
	pvalues := make([]float64, p)
	rnames := make([][]string, p)
	for j := 0; j < p; j++ {
		var num float64
		for i, t := range times {
			num += t * resid[i][j]
		}
		stats[j] = num * num / (deaths * vcov[j*p+j] * tss)
		_, pvalues[j] = ChiSquareTest(stats[j], 1, config.Alpha)
		rnames[j] = []string{names[j]}
	}

	r := NewStatisticalResult(pvalues, stats, rnames).
		Meta("alpha", config.Alpha).
		Meta("test_name", "proportional_hazard_test").
		Meta("time_transform", config.TimeTransformName).
		Meta("null_distribution", "chi squared").
		Meta("df", 1)
	for _, m := range config.Meta {
		r.Meta(m.Key, m.Value)
	}

	return r, nil
}
