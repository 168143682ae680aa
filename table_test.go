package survtest

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
)

// The worked two-sample example from Python lifelines.
func exampleData() ([]float64, []string, []float64) {

	t1 := []float64{1, 4, 10, 12, 12, 3, 5.4}
	e1 := []float64{1, 0, 1, 0, 1, 1, 1}
	t2 := []float64{4, 5, 7, 11, 14, 20, 8, 8}
	e2 := []float64{1, 1, 1, 1, 1, 1, 1, 1}

	var durations, status []float64
	var groups []string
	for i := range t1 {
		durations = append(durations, t1[i])
		status = append(status, e1[i])
		groups = append(groups, "0")
	}
	for i := range t2 {
		durations = append(durations, t2[i])
		status = append(status, e2[i])
		groups = append(groups, "1")
	}

	return durations, groups, status
}

func TestTable1(t *testing.T) {

	durations, groups, status := exampleData()

	tab, err := NewSurvivalTable(durations, groups, status, -1)
	if err != nil {
		t.Fatal(err)
	}

	if len(tab.Groups()) != 2 || tab.Groups()[0] != "0" || tab.Groups()[1] != "1" {
		t.Fail()
	}

	timesExp := []float64{1, 3, 4, 5, 5.4, 7, 8, 10, 11, 12, 14, 20}
	if !floats.EqualApprox(tab.Times(), timesExp, 1e-12) {
		t.Fail()
	}

	// Risk set sizes per group just before each time.
	nrisk0 := []float64{7, 6, 5, 4, 4, 3, 3, 3, 2, 2, 0, 0}
	nrisk1 := []float64{8, 8, 8, 7, 6, 6, 5, 3, 3, 2, 2, 1}
	for i := range timesExp {
		if tab.AtRisk()[i][0] != nrisk0[i] {
			t.Fail()
		}
		if tab.AtRisk()[i][1] != nrisk1[i] {
			t.Fail()
		}
	}

	// Risk sets are non-increasing in time.
	for j := 0; j < tab.NumGroups(); j++ {
		for i := 1; i < len(tab.Times()); i++ {
			if tab.AtRisk()[i][j] > tab.AtRisk()[i-1][j] {
				t.Fail()
			}
		}
	}

	ne := tab.TotalEvents()
	if ne[0] != 5 || ne[1] != 8 {
		t.Fail()
	}
}

func TestTableHorizon(t *testing.T) {

	durations, groups, status := exampleData()

	tab, err := NewSurvivalTable(durations, groups, status, 10)
	if err != nil {
		t.Fatal(err)
	}

	timesExp := []float64{1, 3, 4, 5, 5.4, 7, 8, 10}
	if !floats.EqualApprox(tab.Times(), timesExp, 1e-12) {
		t.Fail()
	}

	// Subjects with durations past the horizon are censored at the
	// horizon, so the removal columns still sum to the group sizes.
	var rm0, rm1 float64
	for i := range timesExp {
		rm0 += tab.removed[i][0]
		rm1 += tab.removed[i][1]
	}
	if rm0 != 7 || rm1 != 8 {
		t.Fail()
	}

	// Events at 11, 12, 14, and 20 fall past the horizon.
	ne := tab.TotalEvents()
	if ne[0] != 4 || ne[1] != 5 {
		t.Fail()
	}

	last := len(timesExp) - 1
	if tab.Observed()[last][0] != 1 || tab.Observed()[last][1] != 0 {
		t.Fail()
	}
}

func TestTableObservedMinusExpected(t *testing.T) {

	for _, r := range []struct {
		durations []float64
		groups    []string
		status    []float64
	}{
		{
			durations: []float64{5, 3, 9, 8, 7, 4, 4, 3, 2, 5, 6, 7},
			status:    []float64{1, 1, 1, 1, 1, 1, 0, 0, 1, 1, 1, 0},
			groups:    []string{"0", "0", "0", "0", "1", "1", "1", "1", "1", "2", "2", "2"},
		},
		{
			durations: []float64{1, 2, 3, 4, 5, 6},
			status:    nil,
			groups:    []string{"a", "b", "a", "b", "a", "b"},
		},
	} {
		tab, err := NewSurvivalTable(r.durations, r.groups, r.status, -1)
		if err != nil {
			t.Fatal(err)
		}

		z := tab.ObservedMinusExpected()
		var s float64
		for _, x := range z {
			s += x
		}
		if math.Abs(s) > 1e-6 {
			t.Fail()
		}
	}
}

func TestTableCovarianceSymmetry(t *testing.T) {

	durations := []float64{5, 3, 9, 8, 7, 4, 4, 3, 2, 5, 6, 7}
	status := []float64{1, 1, 1, 1, 1, 1, 0, 0, 1, 1, 1, 0}
	groups := []string{"0", "0", "0", "0", "1", "1", "1", "1", "1", "2", "2", "2"}

	tab, err := NewSurvivalTable(durations, groups, status, -1)
	if err != nil {
		t.Fatal(err)
	}

	v := tab.Covariance()
	k := tab.NumGroups()

	// Symmetric, with rows summing to zero.
	for i := 0; i < k; i++ {
		var rs float64
		for j := 0; j < k; j++ {
			if math.Abs(v.At(i, j)-v.At(j, i)) > 1e-10 {
				t.Fail()
			}
			rs += v.At(i, j)
		}
		if math.Abs(rs) > 1e-10 {
			t.Fail()
		}
		if v.At(i, i) < 0 {
			t.Fail()
		}
	}
}

func TestTableErrors(t *testing.T) {

	if _, err := NewSurvivalTable([]float64{1, 2}, []string{"a"}, nil, -1); err == nil {
		t.Fail()
	}
	if _, err := NewSurvivalTable(nil, nil, nil, -1); err == nil {
		t.Fail()
	}
}
