package survtest

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// LogRankPlotter plots the cumulative observed and expected event counts per
// group from a SurvivalTable.  Divergence between a group's observed and
// expected curves is the signal the log-rank test aggregates.
type LogRankPlotter struct {
	plt *plot.Plot

	labels []string
	lines  []*plotter.Line

	width  vg.Length
	height vg.Length
}

// NewLogRankPlotter returns a default LogRankPlotter.
func NewLogRankPlotter() *LogRankPlotter {

	lp := &LogRankPlotter{
		width:  4,
		height: 4,
	}

	var err error
	lp.plt, err = plot.New()
	if err != nil {
		panic(err)
	}

	return lp
}

// Width sets the width of the plot.
func (lp *LogRankPlotter) Width(w float64) *LogRankPlotter {
	lp.width = vg.Length(w)
	return lp
}

// Height sets the height of the plot.
func (lp *LogRankPlotter) Height(h float64) *LogRankPlotter {
	lp.height = vg.Length(h)
	return lp
}

// stepCurve builds a step function through the cumulative sums of col.
func stepCurve(times []float64, col []float64) plotter.XYs {

	n := 2*len(times) + 1
	pts := make(plotter.XYs, n)

	j := 1
	var c float64
	for i, t := range times {
		pts[j].X = t
		pts[j].Y = c
		j++
		c += col[i]
		pts[j].X = t
		pts[j].Y = c
		j++
	}

	return pts
}

// Add plots the cumulative observed and expected event counts for every
// group in the table.  The expected counts use the pooled hazard under the
// null hypothesis.
func (lp *LogRankPlotter) Add(tab *SurvivalTable) *LogRankPlotter {

	ev := tab.Expected()

	for j, g := range tab.Groups() {

		obs := make([]float64, len(tab.Times()))
		exp := make([]float64, len(tab.Times()))
		for i := range tab.Times() {
			obs[i] = tab.Observed()[i][j]
			exp[i] = ev[i][j]
		}

		lp.addLine(stepCurve(tab.Times(), obs), g+" observed")
		lp.addLine(stepCurve(tab.Times(), exp), g+" expected")
	}

	return lp
}

func (lp *LogRankPlotter) addLine(pts plotter.XYs, label string) {

	line, err := plotter.NewLine(pts)
	if err != nil {
		panic(err)
	}
	line.Color = plotutil.Color(len(lp.lines))
	lp.lines = append(lp.lines, line)
	lp.labels = append(lp.labels, label)
}

// Plot constructs the plot.
func (lp *LogRankPlotter) Plot() *LogRankPlotter {

	lp.plt.X.Label.Text = "Time"
	lp.plt.Y.Label.Text = "Cumulative events"

	leg, err := plot.NewLegend()
	if err != nil {
		panic(err)
	}

	for i := range lp.lines {
		lp.plt.Add(lp.lines[i])
		leg.Add(lp.labels[i], lp.lines[i])
	}

	leg.Top = true
	leg.Left = true
	lp.plt.Legend = leg

	return lp
}

// GetPlotStruct returns the plotting structure for this plot.
func (lp *LogRankPlotter) GetPlotStruct() *plot.Plot {
	return lp.plt
}

// Save writes the plot to the given file.
func (lp *LogRankPlotter) Save(fname string) {

	if err := lp.plt.Save(lp.width*vg.Inch, lp.height*vg.Inch, fname); err != nil {
		panic(err)
	}
}
