package view

import "github.com/blackpearl/shipyard-console/internal/authz"

// StatCard is a single numeric display.
type StatCard struct {
	Label      string
	Value      string
	Generation int
}

// Update replaces the displayed value in place.
func (s *StatCard) Update(value string) {
	s.Value = value
	s.Generation++
}

// LineChart is the revenue-by-month widget.
type LineChart struct {
	Title      string
	Labels     []string
	Points     []float64
	Generation int
}

// Update replaces the series in place, keeping the widget identity stable.
func (l *LineChart) Update(labels []string, points []float64) {
	l.Labels = labels
	l.Points = points
	l.Generation++
}

// DonutChart is the orders-by-status widget.
type DonutChart struct {
	Title      string
	Labels     []string
	Values     []int64
	Generation int
}

// Update replaces the segment values in place.
func (d *DonutChart) Update(labels []string, values []int64) {
	d.Labels = labels
	d.Values = values
	d.Generation++
}

// Table is the per-section resource table.
type Table struct {
	Section    authz.Section
	Headers    []string
	Rows       [][]string
	Generation int
}

// Update replaces the table contents in place.
func (t *Table) Update(headers []string, rows [][]string) {
	t.Headers = headers
	t.Rows = rows
	t.Generation++
}
