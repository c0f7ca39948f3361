package view

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 2).
			Margin(0, 1)
	cardLabelStyle = lipgloss.NewStyle().Faint(true)
	cardValueStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220"))
	titleStyle     = lipgloss.NewStyle().Bold(true).Underline(true)
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
)

// TermRenderer draws widgets as styled blocks on a terminal writer.
type TermRenderer struct {
	out io.Writer
}

// NewTermRenderer creates a renderer writing to out.
func NewTermRenderer(out io.Writer) *TermRenderer {
	return &TermRenderer{out: out}
}

func (r *TermRenderer) RenderStats(cards []*StatCard) {
	blocks := make([]string, 0, len(cards))
	for _, card := range cards {
		blocks = append(blocks, cardStyle.Render(
			cardLabelStyle.Render(card.Label)+"\n"+cardValueStyle.Render(card.Value),
		))
	}
	fmt.Fprintln(r.out, lipgloss.JoinHorizontal(lipgloss.Top, blocks...))
}

func (r *TermRenderer) RenderLineChart(chart *LineChart) {
	fmt.Fprintln(r.out, titleStyle.Render(chart.Title))
	max := 0.0
	for _, p := range chart.Points {
		if p > max {
			max = p
		}
	}
	for i, label := range chart.Labels {
		width := 0
		if max > 0 {
			width = int(chart.Points[i] / max * 40)
		}
		fmt.Fprintf(r.out, "%-10s %s %.1f\n", label, strings.Repeat("█", width), chart.Points[i])
	}
}

func (r *TermRenderer) RenderDonutChart(chart *DonutChart) {
	fmt.Fprintln(r.out, titleStyle.Render(chart.Title))
	var total int64
	for _, v := range chart.Values {
		total += v
	}
	for i, label := range chart.Labels {
		share := 0.0
		if total > 0 {
			share = float64(chart.Values[i]) / float64(total) * 100
		}
		fmt.Fprintf(r.out, "%-12s %4d (%.0f%%)\n", label, chart.Values[i], share)
	}
}

func (r *TermRenderer) RenderTable(table *Table) {
	fmt.Fprintln(r.out, titleStyle.Render(string(table.Section)))
	if len(table.Rows) == 0 {
		fmt.Fprintln(r.out, cardLabelStyle.Render("no records"))
		return
	}
	fmt.Fprintln(r.out, headerStyle.Render(strings.Join(table.Headers, "  |  ")))
	for _, row := range table.Rows {
		fmt.Fprintln(r.out, strings.Join(row, "  |  "))
	}
}
