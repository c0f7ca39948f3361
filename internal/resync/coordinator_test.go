package resync

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/blackpearl/shipyard-console/internal/apiclient"
	"github.com/blackpearl/shipyard-console/internal/authz"
	"github.com/blackpearl/shipyard-console/internal/view"
	"github.com/blackpearl/shipyard-console/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// stubSource serves canned summaries, optionally blocking until released.
type stubSource struct {
	mu      sync.Mutex
	summary *models.Summary
	err     error
	calls   int
	gate    chan struct{}
}

func (s *stubSource) Summary(ctx context.Context) (*models.Summary, error) {
	s.mu.Lock()
	s.calls++
	summary, err, gate := s.summary, s.err, s.gate
	s.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return summary, err
}

func (s *stubSource) set(summary *models.Summary) {
	s.mu.Lock()
	s.summary = summary
	s.mu.Unlock()
}

func (s *stubSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func summaryWithUsers(n int64) *models.Summary {
	return &models.Summary{TotalUsers: n, OrdersByStatus: map[string]int64{}}
}

func countingLoader(counter *int) Loader {
	return func(ctx context.Context) (func(), error) {
		return func() { *counter++ }, nil
	}
}

func TestAfterMutation_RefreshesSummaryAndActiveSectionOnly(t *testing.T) {
	source := &stubSource{summary: summaryWithUsers(1)}
	dash := view.NewDashboard(nil, nil)

	var exports, tenders int
	active := authz.SectionStockExports
	c := New(source, dash, Config{
		Loaders: map[authz.Section]Loader{
			authz.SectionStockExports: countingLoader(&exports),
			authz.SectionTenders:      countingLoader(&tenders),
		},
		ActiveSection: func() (authz.Section, bool) { return active, true },
	})

	c.AfterMutation(context.Background())

	stats := c.Stats()
	assert.Equal(t, uint64(1), stats.SummaryApplied)
	assert.Equal(t, uint64(1), stats.SectionApplied)
	assert.Equal(t, 1, exports)
	assert.Equal(t, 0, tenders)
	assert.Equal(t, 1, source.callCount())
}

func TestAfterMutation_NoActiveSection(t *testing.T) {
	source := &stubSource{summary: summaryWithUsers(1)}
	c := New(source, view.NewDashboard(nil, nil), Config{
		ActiveSection: func() (authz.Section, bool) { return "", false },
	})

	c.AfterMutation(context.Background())

	stats := c.Stats()
	assert.Equal(t, uint64(1), stats.SummaryApplied)
	assert.Equal(t, uint64(0), stats.SectionApplied)
}

func TestRefreshSummary_NilAggregateIsNoop(t *testing.T) {
	source := &stubSource{summary: nil}
	dash := view.NewDashboard(nil, nil)
	c := New(source, dash, Config{})

	c.RefreshSummary(context.Background())

	assert.Equal(t, 0, dash.Cache().Len())
	assert.Equal(t, uint64(0), c.Stats().SummaryApplied)
	assert.Equal(t, uint64(0), c.Stats().Failures)
}

func TestRefreshSummary_FailureKeepsPreviousState(t *testing.T) {
	source := &stubSource{summary: summaryWithUsers(7)}
	dash := view.NewDashboard(nil, nil)
	c := New(source, dash, Config{})

	c.RefreshSummary(context.Background())
	entry, ok := dash.Cache().Lookup("stat:totalUsers")
	require.True(t, ok)
	assert.Equal(t, "7", entry.(*view.StatCard).Value)

	source.mu.Lock()
	source.err = errors.New("backend down")
	source.mu.Unlock()

	c.RefreshSummary(context.Background())

	entry, _ = dash.Cache().Lookup("stat:totalUsers")
	assert.Equal(t, "7", entry.(*view.StatCard).Value)
	assert.Equal(t, uint64(1), c.Stats().Failures)
}

func TestRefreshSummary_AuthRejectedRendersNothing(t *testing.T) {
	source := &stubSource{err: apiclient.ErrAuthRejected}
	dash := view.NewDashboard(nil, nil)
	c := New(source, dash, Config{})

	c.RefreshSummary(context.Background())

	assert.Equal(t, 0, dash.Cache().Len())
	assert.Equal(t, uint64(1), c.Stats().Failures)
}

func TestRefreshSection_UnregisteredIsNoop(t *testing.T) {
	source := &stubSource{}
	c := New(source, view.NewDashboard(nil, nil), Config{})

	c.RefreshSection(context.Background(), authz.SectionTenders)

	assert.Equal(t, uint64(0), c.Stats().SectionApplied)
}

func TestRefreshSection_LoaderFailureSwallowed(t *testing.T) {
	source := &stubSource{}
	c := New(source, view.NewDashboard(nil, nil), Config{
		Loaders: map[authz.Section]Loader{
			authz.SectionRepairs: func(ctx context.Context) (func(), error) {
				return nil, errors.New("fetch failed")
			},
		},
	})

	c.RefreshSection(context.Background(), authz.SectionRepairs)

	stats := c.Stats()
	assert.Equal(t, uint64(1), stats.Failures)
	assert.Equal(t, uint64(0), stats.SectionApplied)
}

func TestRefreshSummary_StaleResponseDiscarded(t *testing.T) {
	gate := make(chan struct{})
	source := &stubSource{summary: summaryWithUsers(1), gate: gate}
	dash := view.NewDashboard(nil, nil)
	c := New(source, dash, Config{})

	// First refresh hangs in flight.
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.RefreshSummary(context.Background())
	}()

	// Wait until the first request has been issued.
	require.Eventually(t, func() bool { return source.callCount() == 1 },
		time.Second, time.Millisecond)

	// A newer refresh is issued and completes while the first is in flight.
	source.mu.Lock()
	source.gate = nil
	source.summary = summaryWithUsers(2)
	source.mu.Unlock()
	c.RefreshSummary(context.Background())

	// Release the older response: it must be dropped.
	source.set(summaryWithUsers(1))
	close(gate)
	<-done

	entry, ok := dash.Cache().Lookup("stat:totalUsers")
	require.True(t, ok)
	assert.Equal(t, "2", entry.(*view.StatCard).Value)

	stats := c.Stats()
	assert.Equal(t, uint64(1), stats.SummaryApplied)
	assert.Equal(t, uint64(1), stats.StaleDropped)
}

func TestRefreshSection_StaleResponseDiscarded(t *testing.T) {
	gate := make(chan struct{})
	started := make(chan struct{})
	var applied []string

	source := &stubSource{}
	c := New(source, view.NewDashboard(nil, nil), Config{
		Loaders: map[authz.Section]Loader{
			authz.SectionInventory: func(ctx context.Context) (func(), error) {
				select {
				case <-started:
					// Second call: fast path.
					return func() { applied = append(applied, "new") }, nil
				default:
					close(started)
					<-gate
					return func() { applied = append(applied, "old") }, nil
				}
			},
		},
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.RefreshSection(context.Background(), authz.SectionInventory)
	}()
	<-started

	c.RefreshSection(context.Background(), authz.SectionInventory)
	close(gate)
	<-done

	assert.Equal(t, []string{"new"}, applied)
	stats := c.Stats()
	assert.Equal(t, uint64(1), stats.SectionApplied)
	assert.Equal(t, uint64(1), stats.StaleDropped)
}

func TestStart_PeriodicTickAndShutdown(t *testing.T) {
	source := &stubSource{summary: summaryWithUsers(3)}
	var sections int
	c := New(source, view.NewDashboard(nil, nil), Config{
		Loaders: map[authz.Section]Loader{
			authz.SectionPayments: countingLoader(&sections),
		},
		ActiveSection: func() (authz.Section, bool) { return authz.SectionPayments, true },
		Interval:      5 * time.Millisecond,
	})

	ctx, cancel := context.WithCancel(context.Background())
	c.Start(ctx)
	// Start is once-only; a second call must not spawn another ticker.
	c.Start(ctx)

	require.Eventually(t, func() bool {
		s := c.Stats()
		return s.SummaryApplied >= 2 && s.SectionApplied >= 2
	}, time.Second, time.Millisecond)

	cancel()
	// goleak's TestMain verifies the ticker goroutine exits.
	time.Sleep(20 * time.Millisecond)
}
