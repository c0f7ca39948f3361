package view

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/blackpearl/shipyard-console/internal/authz"
	"github.com/blackpearl/shipyard-console/models"
)

// Widget cache keys. One key per widget anchor, mirroring the dashboard's
// fixed layout.
const (
	keyStatTotalUsers    = "stat:totalUsers"
	keyStatTotalOrders   = "stat:totalOrders"
	keyStatActiveTenders = "stat:activeTenders"
	keyStatTotalRevenue  = "stat:totalRevenue"
	keyRevenueChart      = "chart:revenue"
	keyOrderStatusChart  = "chart:orderStatus"
)

// orderStatuses is the fixed segment order of the orders-by-status donut.
var orderStatuses = []string{"PENDING", "APPROVED", "IN_PROGRESS", "COMPLETED", "REJECTED"}

// Renderer is the display collaborator. Implementations draw widgets; the
// Dashboard only maintains their state.
type Renderer interface {
	RenderStats(cards []*StatCard)
	RenderLineChart(chart *LineChart)
	RenderDonutChart(chart *DonutChart)
	RenderTable(table *Table)
}

// NopRenderer discards all output. Used in tests and headless runs.
type NopRenderer struct{}

func (NopRenderer) RenderStats([]*StatCard)      {}
func (NopRenderer) RenderLineChart(*LineChart)   {}
func (NopRenderer) RenderDonutChart(*DonutChart) {}
func (NopRenderer) RenderTable(*Table)           {}

// Dashboard owns the summary widgets and per-section tables, applying fresh
// server state to them through the cache.
type Dashboard struct {
	cache    *Cache
	renderer Renderer
	logger   *zap.Logger
}

// NewDashboard creates a Dashboard drawing through renderer.
func NewDashboard(renderer Renderer, logger *zap.Logger) *Dashboard {
	if renderer == nil {
		renderer = NopRenderer{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dashboard{cache: NewCache(), renderer: renderer, logger: logger}
}

// Cache exposes the widget cache for inspection.
func (d *Dashboard) Cache() *Cache { return d.cache }

// ApplySummary updates the four stat cards and two charts from the aggregate
// summary. A nil summary is a no-op.
func (d *Dashboard) ApplySummary(summary *models.Summary) {
	if summary == nil {
		return
	}

	cards := []*StatCard{
		d.statCard(keyStatTotalUsers, "Total Users", fmt.Sprintf("%d", summary.TotalUsers)),
		d.statCard(keyStatTotalOrders, "Total Orders", fmt.Sprintf("%d", summary.TotalOrders)),
		d.statCard(keyStatActiveTenders, "Active Tenders", fmt.Sprintf("%d", summary.ActiveTenders)),
		d.statCard(keyStatTotalRevenue, "Revenue", formatRevenue(summary.TotalRevenue)),
	}
	d.renderer.RenderStats(cards)

	if len(summary.RevenueByMonth) > 0 {
		labels := make([]string, len(summary.RevenueByMonth))
		points := make([]float64, len(summary.RevenueByMonth))
		for i, m := range summary.RevenueByMonth {
			labels[i] = m.Month
			points[i] = m.Revenue / 100000
		}

		entry, existed := d.cache.GetOrCreate(keyRevenueChart, func() any {
			return &LineChart{Title: "Revenue (₹ Lakh)"}
		})
		chart := entry.(*LineChart)
		chart.Update(labels, points)
		if !existed {
			d.logger.Debug("revenue chart created")
		}
		d.renderer.RenderLineChart(chart)
	}

	if summary.OrdersByStatus != nil {
		values := make([]int64, len(orderStatuses))
		for i, status := range orderStatuses {
			values[i] = summary.OrdersByStatus[status]
		}

		entry, _ := d.cache.GetOrCreate(keyOrderStatusChart, func() any {
			return &DonutChart{Title: "Orders by Status"}
		})
		chart := entry.(*DonutChart)
		chart.Update(orderStatuses, values)
		d.renderer.RenderDonutChart(chart)
	}
}

// ApplyTable updates a section's table in place and redraws it.
func (d *Dashboard) ApplyTable(section authz.Section, headers []string, rows [][]string) {
	entry, _ := d.cache.GetOrCreate("table:"+string(section), func() any {
		return &Table{Section: section}
	})
	table := entry.(*Table)
	table.Update(headers, rows)
	d.renderer.RenderTable(table)
}

// Table returns the cached table widget for a section, if one has been
// rendered.
func (d *Dashboard) Table(section authz.Section) (*Table, bool) {
	entry, ok := d.cache.Lookup("table:" + string(section))
	if !ok {
		return nil, false
	}
	return entry.(*Table), true
}

func (d *Dashboard) statCard(key, label, value string) *StatCard {
	entry, _ := d.cache.GetOrCreate(key, func() any {
		return &StatCard{Label: label}
	})
	card := entry.(*StatCard)
	card.Update(value)
	return card
}

// formatRevenue renders rupees in lakh, matching the dashboard's display.
func formatRevenue(revenue float64) string {
	if revenue == 0 {
		return "₹0"
	}
	return fmt.Sprintf("₹%.1fL", revenue/100000)
}
