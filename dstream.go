package survtest

import (
	"strconv"

	"github.com/kshedden/dstream/dstream"
)

// TableBuilder constructs a SurvivalTable from a Dstream.  The caller names
// the variables holding the durations, status indicators, and group codes;
// the status variable is optional and is assumed to be identically equal to
// 1 if not set.  The underlying data must have float64 type.
type TableBuilder struct {
	data dstream.Dstream

	timeVar   string
	statusVar string
	groupVar  string

	horizon float64

	timepos   int
	statuspos int
	grouppos  int
}

// NewTableBuilder creates a builder for a grouped risk set table, reading
// the named time, status, and group variables from the data.  Pass an empty
// status name to treat every subject as observed.
func NewTableBuilder(data dstream.Dstream, timevar, statusvar, groupvar string) *TableBuilder {

	return &TableBuilder{
		data:      data,
		timeVar:   timevar,
		statusVar: statusvar,
		groupVar:  groupvar,
		horizon:   -1,
	}
}

// Horizon truncates the table at the given time.
func (tb *TableBuilder) Horizon(h float64) *TableBuilder {
	tb.horizon = h
	return tb
}

func (tb *TableBuilder) init() {

	tb.data.Reset()

	tb.timepos = -1
	tb.statuspos = -1
	tb.grouppos = -1

	for k, na := range tb.data.Names() {
		switch na {
		case tb.timeVar:
			tb.timepos = k
		case tb.statusVar:
			tb.statuspos = k
		case tb.groupVar:
			tb.grouppos = k
		}
	}

	if tb.timepos == -1 {
		panic("Time variable not found")
	}
	if tb.statusVar != "" && tb.statuspos == -1 {
		panic("Status variable not found")
	}
	if tb.grouppos == -1 {
		panic("Group variable not found")
	}
}

// scan reads the dstream into parallel arrays.
func (tb *TableBuilder) scan() ([]float64, []string, []float64) {

	var durations []float64
	var groups []string
	var status []float64

	for tb.data.Next() {

		time := tb.data.GetPos(tb.timepos).([]float64)
		group := tb.data.GetPos(tb.grouppos).([]float64)

		var st []float64
		if tb.statuspos != -1 {
			st = tb.data.GetPos(tb.statuspos).([]float64)
		}

		for i, t := range time {
			durations = append(durations, t)
			groups = append(groups, formatGroupLabel(group[i]))
			if st != nil {
				status = append(status, st[i])
			} else {
				status = append(status, 1)
			}
		}
	}

	return durations, groups, status
}

// Done reads the data and builds the table.
func (tb *TableBuilder) Done() *SurvivalTable {

	tb.init()
	durations, groups, status := tb.scan()

	tab, err := NewSurvivalTable(durations, groups, status, tb.horizon)
	if err != nil {
		panic(err)
	}
	return tab
}

// MultivariateLogRankTestDstream runs the multivariate log-rank test on data
// held in a Dstream, reading the named time, status, and group variables.
// Pass an empty status name to treat every subject as observed.  The horizon
// is taken from the config.
func MultivariateLogRankTestDstream(data dstream.Dstream, timevar, statusvar, groupvar string, config *TestConfig) (*StatisticalResult, error) {

	if config == nil {
		config = DefaultTestConfig()
	}

	tb := NewTableBuilder(data, timevar, statusvar, groupvar)
	tb.init()
	durations, groups, status := tb.scan()

	return MultivariateLogRankTest(durations, groups, status, config)
}

// formatGroupLabel renders a numeric group code as a compact label.
func formatGroupLabel(g float64) string {
	return strconv.FormatFloat(g, 'g', -1, 64)
}
