package survtest

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// SurvivalTable is a grouped risk set table for right censored duration
// data.  Each row corresponds to a distinct event or censoring time, in
// increasing order.  Each column corresponds to a group, with the group
// labels sorted in increasing order.  The table records, per time and group,
// the number of subjects removed from the risk set (by event or censoring),
// the number of observed events, and the risk set size just before the time.
type SurvivalTable struct {

	// Sorted unique group labels.
	groups []string

	// Sorted distinct event/censoring times.
	times []float64

	// removed[i][j] is the number of subjects in group j leaving the
	// risk set at times[i], by event or by censoring.
	removed [][]float64

	// observed[i][j] is the number of events in group j at times[i].
	observed [][]float64

	// atRisk[i][j] is the number of subjects in group j under
	// observation just before times[i].
	atRisk [][]float64

	// The horizon used to truncate the table, negative for all time.
	horizon float64
}

// NewSurvivalTable builds a grouped risk set table from parallel arrays of
// durations, group labels, and status indicators (1 if the event was
// observed at the duration, 0 if censored).  A nil status array treats every
// subject as observed.  A non-negative horizon truncates the table: subjects
// with durations past the horizon are censored at the horizon.
func NewSurvivalTable(durations []float64, groups []string, status []float64, horizon float64) (*SurvivalTable, error) {

	if status == nil {
		status = make([]float64, len(durations))
		for i := range status {
			status[i] = 1
		}
	}

	if len(durations) != len(groups) || len(durations) != len(status) {
		return nil, fmt.Errorf("survtest: inputs must be of the same length")
	}
	if len(durations) == 0 {
		return nil, fmt.Errorf("survtest: no observations")
	}

	for _, t := range durations {
		if t < 0 {
			panic("survtest: durations cannot be negative\n")
		}
	}

	tab := &SurvivalTable{horizon: horizon}

	// Sorted unique group labels; the label order fixes the column order.
	gpos := make(map[string]int)
	for _, g := range groups {
		if _, ok := gpos[g]; !ok {
			gpos[g] = 0
			tab.groups = append(tab.groups, g)
		}
	}
	sort.Strings(tab.groups)
	for j, g := range tab.groups {
		gpos[g] = j
	}

	// Sorted distinct times, after truncating at the horizon.
	seen := make(map[float64]bool)
	for _, t := range durations {
		if horizon >= 0 && t > horizon {
			t = horizon
		}
		if !seen[t] {
			seen[t] = true
			tab.times = append(tab.times, t)
		}
	}
	sort.Float64s(tab.times)

	nt := len(tab.times)
	ng := len(tab.groups)
	tab.removed = zeromat(nt, ng)
	tab.observed = zeromat(nt, ng)
	tab.atRisk = zeromat(nt, ng)

	for i, t := range durations {
		e := status[i]
		if horizon >= 0 && t > horizon {
			t = horizon
			e = 0
		}
		ii := sort.SearchFloat64s(tab.times, t)
		j := gpos[groups[i]]
		tab.removed[ii][j]++
		if e == 1 {
			tab.observed[ii][j]++
		} else if e != 0 {
			panic("survtest: status values must be 0 or 1\n")
		}
	}

	// The risk set size just before each time is the number of removals
	// at that time or later.
	for j := 0; j < ng; j++ {
		var z float64
		for i := nt - 1; i >= 0; i-- {
			z += tab.removed[i][j]
			tab.atRisk[i][j] = z
		}
	}

	return tab, nil
}

func zeromat(r, c int) [][]float64 {
	x := make([][]float64, r)
	for i := range x {
		x[i] = make([]float64, c)
	}
	return x
}

// Groups returns the sorted unique group labels.
func (tab *SurvivalTable) Groups() []string {
	return tab.groups
}

// Times returns the sorted distinct event/censoring times.
func (tab *SurvivalTable) Times() []float64 {
	return tab.times
}

// NumGroups returns the number of groups in the table.
func (tab *SurvivalTable) NumGroups() int {
	return len(tab.groups)
}

// AtRisk returns the risk set sizes per time and group.
func (tab *SurvivalTable) AtRisk() [][]float64 {
	return tab.atRisk
}

// Observed returns the observed event counts per time and group.
func (tab *SurvivalTable) Observed() [][]float64 {
	return tab.observed
}

// TotalEvents returns the total number of observed events in each group.
func (tab *SurvivalTable) TotalEvents() []float64 {
	n := make([]float64, len(tab.groups))
	for _, row := range tab.observed {
		floats.Add(n, row)
	}
	return n
}

// Expected returns, per time and group, the expected number of events under
// the null hypothesis that all groups share the same hazard.  At each time
// the total events are allocated to the groups in proportion to the risk set
// sizes (the hypergeometric expectation).
func (tab *SurvivalTable) Expected() [][]float64 {

	ev := zeromat(len(tab.times), len(tab.groups))
	for i := range tab.times {
		d := floats.Sum(tab.observed[i])
		n := floats.Sum(tab.atRisk[i])
		if n == 0 {
			continue
		}
		for j, r := range tab.atRisk[i] {
			ev[i][j] = r * d / n
		}
	}
	return ev
}

// ObservedMinusExpected returns the vector of total observed events minus
// total expected events per group.  The entries sum to zero up to floating
// point error.
func (tab *SurvivalTable) ObservedMinusExpected() []float64 {

	z := tab.TotalEvents()
	for _, row := range tab.Expected() {
		floats.Sub(z, row)
	}
	return z
}

// Covariance returns the covariance matrix of the observed-minus-expected
// vector under the null hypothesis.  The matrix is built additively over the
// time points from the hypergeometric variance at each risk set.  Its rows
// and columns sum to zero, so the full matrix is always singular; callers
// drop the last row and column before inverting.
func (tab *SurvivalTable) Covariance() *mat.Dense {

	ng := len(tab.groups)
	v := mat.NewDense(ng, ng, nil)

	for i := range tab.times {
		d := floats.Sum(tab.observed[i])
		n := floats.Sum(tab.atRisk[i])
		if n == 0 || d == 0 {
			continue
		}
		f := varianceRatio(n, d) * d / (n * n)
		for j := 0; j < ng; j++ {
			rj := tab.atRisk[i][j]
			for l := 0; l < ng; l++ {
				v.Set(j, l, v.At(j, l)-f*rj*tab.atRisk[i][l])
			}
			v.Set(j, j, v.At(j, j)+f*rj*n)
		}
	}

	return v
}
