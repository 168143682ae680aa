package survtest

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// MetaItem is one metadata key/value pair attached to a StatisticalResult.
type MetaItem struct {
	Key   string
	Value interface{}
}

// StatisticalResult holds the outcome of one or more statistical tests: a
// test statistic and p-value per comparison, optional comparison names, and
// metadata describing how the tests were run.  Results from separate tests
// can be combined into a single result with Combine.
type StatisticalResult struct {
	pvalues []float64
	stats   []float64

	// names[i] labels the i'th comparison.  An entry has one component
	// for a single comparison, or two for a pairwise comparison.  The
	// field is nil when the comparisons are unnamed.
	names [][]string

	// Metadata in insertion order.  Meta overwrites by key.
	meta []MetaItem
}

// NewStatisticalResult creates a result from parallel arrays of p-values and
// test statistics, with optional comparison names.  The arrays must have the
// same length.
func NewStatisticalResult(pvalues, stats []float64, names [][]string) *StatisticalResult {

	if len(pvalues) != len(stats) {
		panic("survtest: p-values and test statistics must be of the same length\n")
	}
	if names != nil && len(names) != len(pvalues) {
		panic("survtest: names must be of the same length as the test statistics\n")
	}

	return &StatisticalResult{
		pvalues: pvalues,
		stats:   stats,
		names:   names,
	}
}

// PValues returns the p-values for all comparisons in the result.
func (sr *StatisticalResult) PValues() []float64 {
	return sr.pvalues
}

// TestStatistics returns the test statistics for all comparisons.
func (sr *StatisticalResult) TestStatistics() []float64 {
	return sr.stats
}

// PValue returns the p-value of a single-comparison result.
func (sr *StatisticalResult) PValue() float64 {
	return sr.pvalues[0]
}

// TestStatistic returns the test statistic of a single-comparison result.
func (sr *StatisticalResult) TestStatistic() float64 {
	return sr.stats[0]
}

// Names returns the comparison names, or nil if the result is unnamed.
func (sr *StatisticalResult) Names() [][]string {
	return sr.names
}

// Meta attaches a metadata key/value pair to the result and returns the
// result for chaining.  Setting an existing key overwrites its value while
// keeping its position.
func (sr *StatisticalResult) Meta(key string, value interface{}) *StatisticalResult {

	for i := range sr.meta {
		if sr.meta[i].Key == key {
			sr.meta[i].Value = value
			return sr
		}
	}
	sr.meta = append(sr.meta, MetaItem{key, value})
	return sr
}

// MetaValue looks up a metadata value by key.
func (sr *StatisticalResult) MetaValue(key string) (interface{}, bool) {

	for _, m := range sr.meta {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// MetaItems returns the metadata in insertion order.
func (sr *StatisticalResult) MetaItems() []MetaItem {
	return sr.meta
}

// Combine concatenates two results into one, preserving comparison order and
// names and merging metadata.  On a metadata key collision the other
// result's value wins.  Either both results must be named or neither.
func (sr *StatisticalResult) Combine(other *StatisticalResult) *StatisticalResult {

	if (sr.names == nil) != (other.names == nil) {
		panic("survtest: cannot combine a named result with an unnamed result\n")
	}

	var names [][]string
	if sr.names != nil {
		names = append(names, sr.names...)
		names = append(names, other.names...)
	}

	r := NewStatisticalResult(
		append(append([]float64{}, sr.pvalues...), other.pvalues...),
		append(append([]float64{}, sr.stats...), other.stats...),
		names,
	)

	for _, m := range sr.meta {
		r.Meta(m.Key, m.Value)
	}
	for _, m := range other.meta {
		r.Meta(m.Key, m.Value)
	}

	return r
}

// significanceCode maps a p-value to the conventional significance marker.
func significanceCode(p float64) string {
	switch {
	case p < 0.001:
		return "***"
	case p < 0.01:
		return "**"
	case p < 0.05:
		return "*"
	case p < 0.1:
		return "."
	}
	return ""
}

const significanceLegend = "Signif. codes:  0 '***' 0.001 '**' 0.01 '*' 0.05 '.' 0.1 ' ' 1"

// formatPValue renders a p-value for display, collapsing very small values.
func formatPValue(p float64) string {
	if p < 0.0001 {
		return "<0.0001"
	}
	return fmt.Sprintf("%.4f", p)
}

// Summary returns a summary table with one row per comparison and columns
// test_statistic and p.  Named results are sorted by name; unnamed results
// keep their original order.
func (sr *StatisticalResult) Summary() *SummaryTable {

	ix := make([]int, len(sr.pvalues))
	for i := range ix {
		ix[i] = i
	}
	if sr.names != nil {
		sort.SliceStable(ix, func(a, b int) bool {
			return strings.Join(sr.names[ix[a]], "\x00") < strings.Join(sr.names[ix[b]], "\x00")
		})
	}

	sum := &SummaryTable{Title: sr.title()}

	if sr.names != nil {
		nc := 1
		for _, na := range sr.names {
			if len(na) > nc {
				nc = len(na)
			}
		}
		for c := 0; c < nc; c++ {
			var col []string
			for _, i := range ix {
				if c < len(sr.names[i]) {
					col = append(col, sr.names[i][c])
				} else {
					col = append(col, "")
				}
			}
			sum.AddStrings("", col)
		}
	}

	stat := make([]float64, len(ix))
	pv := make([]float64, len(ix))
	for k, i := range ix {
		stat[k] = sr.stats[i]
		pv[k] = sr.pvalues[i]
	}
	sum.AddFloats("test_statistic", stat)
	sum.AddPValues("p", pv)

	return sum
}

func (sr *StatisticalResult) title() string {
	if v, ok := sr.MetaValue("test_name"); ok {
		return fmt.Sprintf("%v", v)
	}
	return "Statistical test"
}

// String renders the result as a text table with a metadata header, the
// summary columns, log(p), a significance code per row, and a legend of the
// significance codes.
func (sr *StatisticalResult) String() string {

	sum := sr.Summary()

	logp := make([]float64, len(sum.pv))
	codes := make([]string, len(sum.pv))
	for i, p := range sum.pv {
		logp[i] = math.Log(p)
		codes[i] = significanceCode(p)
	}
	sum.AddFloats("log(p)", logp)
	sum.AddStrings("", codes)

	for _, m := range sr.meta {
		sum.Top = append(sum.Top, fmt.Sprintf("%s = %v", m.Key, m.Value))
	}
	sum.Msg = append(sum.Msg, significanceLegend)

	return sum.String()
}
