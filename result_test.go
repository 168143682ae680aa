package survtest

import (
	"strings"
	"testing"
)

func TestResultCombine(t *testing.T) {

	r1 := NewStatisticalResult([]float64{0.01}, []float64{6.63}, [][]string{{"a"}}).
		Meta("alpha", 0.95).
		Meta("df", 1)
	r2 := NewStatisticalResult([]float64{0.2, 0.5}, []float64{1.64, 0.45}, [][]string{{"b"}, {"c"}}).
		Meta("df", 2).
		Meta("null_distribution", "chi squared")

	c := r1.Combine(r2)

	if len(c.PValues()) != 3 || len(c.TestStatistics()) != 3 || len(c.Names()) != 3 {
		t.Fail()
	}
	if c.Summary().NumRows() != r1.Summary().NumRows()+r2.Summary().NumRows() {
		t.Fail()
	}

	// Metadata keys are the union of both sides, the right side winning
	// on collision.
	if v, ok := c.MetaValue("alpha"); !ok || v.(float64) != 0.95 {
		t.Fail()
	}
	if v, ok := c.MetaValue("df"); !ok || v.(int) != 2 {
		t.Fail()
	}
	if _, ok := c.MetaValue("null_distribution"); !ok {
		t.Fail()
	}

	// The inputs are untouched.
	if len(r1.PValues()) != 1 || len(r2.PValues()) != 2 {
		t.Fail()
	}
}

func TestResultMetaOverwrite(t *testing.T) {

	r := NewStatisticalResult([]float64{0.5}, []float64{0.45}, nil)
	r.Meta("alpha", 0.95).Meta("alpha", 0.99)

	items := r.MetaItems()
	if len(items) != 1 || items[0].Value.(float64) != 0.99 {
		t.Fail()
	}
}

func TestResultConstructionErrors(t *testing.T) {

	shouldPanic := func(f func()) {
		defer func() {
			if recover() == nil {
				t.Fail()
			}
		}()
		f()
	}

	shouldPanic(func() {
		NewStatisticalResult([]float64{0.1, 0.2}, []float64{1}, nil)
	})
	shouldPanic(func() {
		NewStatisticalResult([]float64{0.1}, []float64{1}, [][]string{{"a"}, {"b"}})
	})
	shouldPanic(func() {
		named := NewStatisticalResult([]float64{0.1}, []float64{1}, [][]string{{"a"}})
		unnamed := NewStatisticalResult([]float64{0.1}, []float64{1}, nil)
		named.Combine(unnamed)
	})
}

func TestResultSummarySorted(t *testing.T) {

	r := NewStatisticalResult(
		[]float64{0.2, 0.01, 0.5},
		[]float64{1.64, 6.63, 0.45},
		[][]string{{"c"}, {"a"}, {"b"}},
	)

	sum := r.Summary()
	if sum.NumRows() != 3 {
		t.Fail()
	}

	// Rows are sorted by name: a, b, c.
	if sum.cols[0][0] != "a" || sum.cols[0][1] != "b" || sum.cols[0][2] != "c" {
		t.Fail()
	}
	if sum.cols[1][0] != "6.6300" {
		t.Fail()
	}
}

func TestResultString(t *testing.T) {

	r := NewStatisticalResult([]float64{0.0004, 0.7676}, []float64{12.5, 0.0872},
		[][]string{{"0", "1"}, {"0", "2"}}).
		Meta("alpha", 0.95).
		Meta("null_distribution", "chi squared")

	s := r.String()

	for _, want := range []string{
		"test_statistic",
		"p",
		"log(p)",
		"alpha = 0.95",
		"null_distribution = chi squared",
		"***",
		"Signif. codes",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("summary missing %q", want)
		}
	}
}

func TestSignificanceCode(t *testing.T) {

	for _, r := range []struct {
		p    float64
		code string
	}{
		{0.0001, "***"},
		{0.005, "**"},
		{0.03, "*"},
		{0.07, "."},
		{0.5, ""},
	} {
		if significanceCode(r.p) != r.code {
			t.Fail()
		}
	}
}
