package survtest

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// TestConfig holds optional settings for the log-rank tests.
type TestConfig struct {

	// Alpha is the confidence level, in (0, 1].  A test is significant
	// when its p-value is below 1-Alpha.
	Alpha float64

	// Horizon is the final time under observation.  Subjects with
	// durations past the horizon are censored at the horizon.  A
	// negative horizon means all time.
	Horizon float64

	// Bonferroni applies the Bonferroni correction in the pairwise test,
	// inflating the confidence level to account for the number of pairs
	// compared.  It has no effect on the other tests.
	Bonferroni bool

	// Meta is additional metadata recorded on the result.
	Meta []MetaItem
}

// DefaultTestConfig returns the default settings: a 0.95 confidence level,
// no horizon, and the Bonferroni correction enabled for pairwise tests.
func DefaultTestConfig() *TestConfig {
	return &TestConfig{
		Alpha:      0.95,
		Horizon:    -1,
		Bonferroni: true,
	}
}

// MultivariateLogRankTest tests the null hypothesis that all groups share
// the same event time distribution, against the alternative that at least
// one group differs.  It generalizes the two-sample log-rank test to two or
// more groups, and agrees with it numerically when there are two groups.
//
// The durations, group labels, and status indicators (1 observed, 0
// censored) are parallel arrays; a nil status array treats every subject as
// observed.  The test statistic is chi-squared with one degree of freedom
// less than the number of groups.
func MultivariateLogRankTest(durations []float64, groups []string, status []float64, config *TestConfig) (*StatisticalResult, error) {

	if config == nil {
		config = DefaultTestConfig()
	}
	if !(0 < config.Alpha && config.Alpha <= 1) {
		return nil, fmt.Errorf("survtest: alpha parameter must be between 0 and 1")
	}

	tab, err := NewSurvivalTable(durations, groups, status, config.Horizon)
	if err != nil {
		return nil, err
	}

	return logRankFromTable(tab, config)
}

// logRankFromTable reduces a grouped risk set table to a chi-squared
// statistic via the quadratic form of the observed-minus-expected vector
// against the pseudo-inverse of the reduced covariance matrix.
func logRankFromTable(tab *SurvivalTable, config *TestConfig) (*StatisticalResult, error) {

	k := tab.NumGroups()
	if k < 2 {
		return nil, fmt.Errorf("survtest: log-rank test requires at least two groups")
	}

	z := tab.ObservedMinusExpected()

	// The entries of z cancel by construction.
	tol := 1e-8 * (1 + floats.Sum(tab.TotalEvents()))
	if math.Abs(floats.Sum(z)) > tol {
		panic("survtest: observed minus expected does not sum to zero\n")
	}

	// The full covariance matrix is singular (rows sum to zero), so drop
	// the last group before inverting.  A pseudo-inverse keeps nearly
	// singular inputs from failing.
	v := tab.Covariance()
	vr := v.Slice(0, k-1, 0, k-1)
	vi := pinv(vr)

	zr := mat.NewVecDense(k-1, z[:k-1])
	tmp := mat.NewVecDense(k-1, nil)
	tmp.MulVec(vi, zr)
	u := mat.Dot(zr, tmp)

	_, p := ChiSquareTest(u, float64(k-1), config.Alpha)

	r := NewStatisticalResult([]float64{p}, []float64{u}, nil).
		Meta("t_0", config.Horizon).
		Meta("alpha", config.Alpha).
		Meta("null_distribution", "chi squared").
		Meta("df", k-1)
	for _, m := range config.Meta {
		r.Meta(m.Key, m.Value)
	}

	return r, nil
}

// LogRankTest tests whether two independent samples of event durations are
// drawn from the same event time distribution.  Each sample has optional
// status indicators (1 observed, 0 censored); nil treats every subject as
// observed.  The samples are pooled with a binary group label and passed to
// MultivariateLogRankTest, so the two calls agree numerically.
func LogRankTest(durationsA, durationsB, statusA, statusB []float64, config *TestConfig) (*StatisticalResult, error) {

	if statusA == nil {
		statusA = ones(len(durationsA))
	}
	if statusB == nil {
		statusB = ones(len(durationsB))
	}

	durations := append(append([]float64{}, durationsA...), durationsB...)
	status := append(append([]float64{}, statusA...), statusB...)

	groups := make([]string, len(durations))
	for i := range groups {
		if i < len(durationsA) {
			groups[i] = "0"
		} else {
			groups[i] = "1"
		}
	}

	return MultivariateLogRankTest(durations, groups, status, config)
}

// PairwiseLogRankTest runs the two-sample log-rank test on every unordered
// pair of distinct groups and merges the outcomes into one result, with each
// comparison named by its pair of group labels.  When config.Bonferroni is
// set (the default), the confidence level is inflated to 1-(1-alpha)/M,
// where M is the number of pairs, before testing each pair, to keep the
// family-wise error rate near the nominal level.
func PairwiseLogRankTest(durations []float64, groups []string, status []float64, config *TestConfig) (*StatisticalResult, error) {

	if config == nil {
		config = DefaultTestConfig()
	}
	if status == nil {
		status = ones(len(durations))
	}
	if len(durations) != len(groups) || len(durations) != len(status) {
		return nil, fmt.Errorf("survtest: inputs must be of the same length")
	}

	unique := uniqueSorted(groups)
	k := len(unique)
	if k < 2 {
		return nil, fmt.Errorf("survtest: pairwise log-rank test requires at least two groups")
	}

	alpha := config.Alpha
	if config.Bonferroni {
		m := float64(k*(k-1)) / 2
		alpha = 1 - (1-config.Alpha)/m
	}

	var result *StatisticalResult
	for i1 := 0; i1 < k; i1++ {
		for i2 := i1 + 1; i2 < k; i2++ {
			g1, g2 := unique[i1], unique[i2]

			var dA, dB, sA, sB []float64
			for i, g := range groups {
				switch g {
				case g1:
					dA = append(dA, durations[i])
					sA = append(sA, status[i])
				case g2:
					dB = append(dB, durations[i])
					sB = append(sB, status[i])
				}
			}

			cfg := *config
			cfg.Alpha = alpha
			cfg.Meta = append([]MetaItem{}, config.Meta...)
			cfg.Meta = append(cfg.Meta, MetaItem{"use_bonferroni", config.Bonferroni})

			r, err := LogRankTest(dA, dB, sA, sB, &cfg)
			if err != nil {
				return nil, err
			}
			r.names = [][]string{{g1, g2}}

			if result == nil {
				result = r
			} else {
				result = result.Combine(r)
			}
		}
	}

	return result, nil
}

// uniqueSorted returns the distinct values of x in increasing order.
func uniqueSorted(x []string) []string {
	seen := make(map[string]bool)
	var u []string
	for _, v := range x {
		if !seen[v] {
			seen[v] = true
			u = append(u, v)
		}
	}
	sort.Strings(u)
	return u
}

func ones(n int) []float64 {
	x := make([]float64, n)
	for i := range x {
		x[i] = 1
	}
	return x
}
