package survtest

import (
	"bytes"
	"fmt"
	"strings"
)

// SummaryTable is a plain text table with a title, a block of header lines,
// named columns, and trailing messages.  Columns are added left to right.
type SummaryTable struct {

	// Title centered above the table.
	Title string

	// Lines displayed between the title and the column header.
	Top []string

	// Messages displayed below the table.
	Msg []string

	colNames []string
	cols     [][]string
	leftjust []bool

	// Raw p-values recorded by AddPValues, for derived columns.
	pv []float64
}

// AddStrings appends a left justified string column.
func (s *SummaryTable) AddStrings(name string, col []string) {
	s.colNames = append(s.colNames, name)
	s.cols = append(s.cols, col)
	s.leftjust = append(s.leftjust, true)
}

// AddFloats appends a right justified numeric column.
func (s *SummaryTable) AddFloats(name string, col []float64) {
	c := make([]string, len(col))
	for i, x := range col {
		c[i] = fmt.Sprintf("%.4f", x)
	}
	s.colNames = append(s.colNames, name)
	s.cols = append(s.cols, c)
	s.leftjust = append(s.leftjust, false)
}

// AddPValues appends a p-value column, collapsing very small values, and
// records the raw values.
func (s *SummaryTable) AddPValues(name string, col []float64) {
	c := make([]string, len(col))
	for i, p := range col {
		c[i] = formatPValue(p)
	}
	s.colNames = append(s.colNames, name)
	s.cols = append(s.cols, c)
	s.leftjust = append(s.leftjust, false)
	s.pv = col
}

// PValues returns the raw values recorded by AddPValues.
func (s *SummaryTable) PValues() []float64 {
	return s.pv
}

// NumRows returns the number of rows in the table.
func (s *SummaryTable) NumRows() int {
	if len(s.cols) == 0 {
		return 0
	}
	return len(s.cols[0])
}

// String returns the table as a string.
func (s *SummaryTable) String() string {

	// Column widths
	wx := make([]int, len(s.cols))
	for j, c := range s.cols {
		wx[j] = len(s.colNames[j])
		for _, x := range c {
			if len(x) > wx[j] {
				wx[j] = len(x)
			}
		}
	}

	// Total width of the table
	gap := 2
	tw := 0
	for _, w := range wx {
		tw += w + gap
	}
	if tw < len(s.Title) {
		tw = len(s.Title)
	}
	for _, x := range s.Top {
		if tw < len(x) {
			tw = len(x)
		}
	}

	cell := func(j int, x string) string {
		if s.leftjust[j] {
			return fmt.Sprintf("%-*s", wx[j]+gap, x)
		}
		return fmt.Sprintf("%*s  ", wx[j], x)
	}

	var buf bytes.Buffer

	// Center the title
	kr := (tw - len(s.Title)) / 2
	if kr < 0 {
		kr = 0
	}
	buf.WriteString(strings.Repeat(" ", kr))
	buf.WriteString(s.Title)
	buf.WriteString("\n")
	buf.WriteString(strings.Repeat("=", tw) + "\n")

	for _, x := range s.Top {
		buf.WriteString(x + "\n")
	}
	if len(s.Top) > 0 {
		buf.WriteString(strings.Repeat("-", tw) + "\n")
	}

	for j, c := range s.colNames {
		buf.WriteString(cell(j, c))
	}
	buf.WriteString("\n")
	buf.WriteString(strings.Repeat("-", tw) + "\n")

	for i := 0; i < s.NumRows(); i++ {
		for j := range s.cols {
			buf.WriteString(cell(j, s.cols[j][i]))
		}
		buf.WriteString("\n")
	}
	buf.WriteString(strings.Repeat("-", tw) + "\n")

	for _, msg := range s.Msg {
		buf.WriteString(msg + "\n")
	}

	return buf.String()
}
