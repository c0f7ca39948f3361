// Package resync keeps the dashboard's views consistent with server state
// using pull semantics only: a fixed-interval tick plus a single choke point
// that every mutating action funnels through. Each refresh target carries a
// monotonically increasing sequence number, and a response is applied only if
// it is the latest issued for its target, so an overlapping tick and
// mutation-triggered refresh cannot clobber newer state with older data.
package resync

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/blackpearl/shipyard-console/internal/apiclient"
	"github.com/blackpearl/shipyard-console/internal/authz"
	"github.com/blackpearl/shipyard-console/internal/view"
	"github.com/blackpearl/shipyard-console/models"
)

// DefaultInterval is the periodic refresh cadence.
const DefaultInterval = 30 * time.Second

// Target identifies one unit of refresh work: the aggregate summary or a
// single section.
type Target struct {
	summary bool
	section authz.Section
}

// SummaryTarget is the aggregate summary refresh target.
func SummaryTarget() Target { return Target{summary: true} }

// SectionTarget is the refresh target for one section.
func SectionTarget(s authz.Section) Target { return Target{section: s} }

func (t Target) String() string {
	if t.summary {
		return "summary"
	}
	return "section:" + string(t.section)
}

// SummarySource fetches the aggregate summary. *apiclient.DashboardService
// satisfies it.
type SummarySource interface {
	Summary(ctx context.Context) (*models.Summary, error)
}

// Loader fetches one section's collection and returns a closure that renders
// it. Splitting fetch from render lets the coordinator discard a stale fetch
// without it ever touching the view.
type Loader func(ctx context.Context) (apply func(), err error)

// Config wires a Coordinator's collaborators.
type Config struct {
	// Loaders maps each section to its refresh behavior. A section without a
	// loader refreshes as a no-op.
	Loaders map[authz.Section]Loader
	// ActiveSection reports which section is currently shown, if any.
	ActiveSection func() (authz.Section, bool)
	// Interval overrides DefaultInterval when positive.
	Interval time.Duration
	Logger   *zap.Logger
}

// Stats counts refresh outcomes.
type Stats struct {
	SummaryApplied uint64
	SectionApplied uint64
	StaleDropped   uint64
	Failures       uint64
}

// Coordinator orchestrates summary and section refreshes.
type Coordinator struct {
	source   SummarySource
	dash     *view.Dashboard
	loaders  map[authz.Section]Loader
	active   func() (authz.Section, bool)
	interval time.Duration
	logger   *zap.Logger

	mu     sync.Mutex
	issued map[Target]uint64
	stats  Stats

	startOnce sync.Once
}

// New creates a Coordinator. Sections reachable through the authorization
// policy but missing a loader are reported once at construction.
func New(source SummarySource, dash *view.Dashboard, cfg Config) *Coordinator {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	active := cfg.ActiveSection
	if active == nil {
		active = func() (authz.Section, bool) { return "", false }
	}

	c := &Coordinator{
		source:   source,
		dash:     dash,
		loaders:  cfg.Loaders,
		active:   active,
		interval: interval,
		logger:   logger,
		issued:   make(map[Target]uint64),
	}
	for _, s := range authz.AllSections() {
		if s == authz.SectionDashboard {
			// The dashboard section is the summary itself.
			continue
		}
		if _, ok := c.loaders[s]; !ok {
			logger.Warn("no loader registered for section", zap.String("section", string(s)))
		}
	}
	return c
}

// RefreshSummary fetches the aggregate and applies it to the summary
// widgets. Failures are logged and swallowed; a missing aggregate and a
// stale response are both no-ops.
func (c *Coordinator) RefreshSummary(ctx context.Context) {
	target := SummaryTarget()
	seq := c.issue(target)

	summary, err := c.source.Summary(ctx)
	if err != nil {
		c.noteFailure(target, err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.issued[target] != seq {
		c.stats.StaleDropped++
		c.logger.Debug("stale summary response dropped", zap.Uint64("seq", seq))
		return
	}
	if summary == nil {
		return
	}
	c.dash.ApplySummary(summary)
	c.stats.SummaryApplied++
}

// RefreshSection runs the loader registered for the section. An unregistered
// section is a no-op. Failures are logged and swallowed; the previously
// rendered table is left as-is.
func (c *Coordinator) RefreshSection(ctx context.Context, section authz.Section) {
	loader, ok := c.loaders[section]
	if !ok {
		c.logger.Debug("refresh skipped, no loader", zap.String("section", string(section)))
		return
	}

	target := SectionTarget(section)
	seq := c.issue(target)

	apply, err := loader(ctx)
	if err != nil {
		c.noteFailure(target, err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.issued[target] != seq {
		c.stats.StaleDropped++
		c.logger.Debug("stale section response dropped",
			zap.String("section", string(section)),
			zap.Uint64("seq", seq))
		return
	}
	if apply != nil {
		apply()
		c.stats.SectionApplied++
	}
}

// AfterMutation is the choke point every successful create/approve/reject/
// update/delete/restock/dispatch action calls: refresh the summary, then
// whichever section is currently active.
func (c *Coordinator) AfterMutation(ctx context.Context) {
	c.RefreshSummary(ctx)
	if section, ok := c.active(); ok {
		c.RefreshSection(ctx, section)
	}
}

// Start launches the periodic tick, refreshing the same summary+active pair
// on each firing. It runs at most once per Coordinator and stops when ctx is
// cancelled. Ticks and mutation-triggered refreshes are not deduplicated;
// overlap is resolved by the sequence guard.
func (c *Coordinator) Start(ctx context.Context) {
	c.startOnce.Do(func() {
		go func() {
			ticker := time.NewTicker(c.interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					c.AfterMutation(ctx)
					c.logger.Debug("periodic refresh completed")
				}
			}
		}()
	})
}

// Stats returns a snapshot of refresh counters.
func (c *Coordinator) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

func (c *Coordinator) issue(target Target) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.issued[target]++
	return c.issued[target]
}

func (c *Coordinator) noteFailure(target Target, err error) {
	c.mu.Lock()
	c.stats.Failures++
	c.mu.Unlock()

	if apiclient.IsAuthRejected(err) {
		// Session is already torn down; render nothing and move on.
		c.logger.Info("refresh aborted, credential rejected", zap.Stringer("target", target))
		return
	}
	c.logger.Warn("refresh failed, keeping previous state",
		zap.Stringer("target", target),
		zap.Error(err))
}
