// Package console wires the session, authorization and resync engines into
// one client-facing surface: login/logout, section navigation gated by the
// access policy, and the refresh entry points.
package console

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/blackpearl/shipyard-console/internal/apiclient"
	"github.com/blackpearl/shipyard-console/internal/authz"
	"github.com/blackpearl/shipyard-console/internal/resync"
	"github.com/blackpearl/shipyard-console/internal/session"
	"github.com/blackpearl/shipyard-console/internal/token"
	"github.com/blackpearl/shipyard-console/internal/view"
	"github.com/blackpearl/shipyard-console/models"
)

var (
	// ErrNotAdmin is returned when a non-admin logs in through the admin
	// entry point.
	ErrNotAdmin = errors.New("access denied: not an admin")

	// ErrNotLoggedIn is returned by operations that need a session.
	ErrNotLoggedIn = errors.New("not logged in")

	// ErrSectionNotVisible is returned when navigation targets a section the
	// policy does not grant.
	ErrSectionNotVisible = errors.New("section not visible for this account")
)

// Console is the assembled client engine.
type Console struct {
	sessions    *session.Store
	policy      *authz.Policy
	client      *apiclient.Client
	dash        *view.Dashboard
	coordinator *resync.Coordinator
	logger      *zap.Logger

	mu      sync.Mutex
	active  authz.Section
	hasView bool
}

// Options configures New.
type Options struct {
	BaseURL     string
	Sessions    *session.Store
	Policy      *authz.Policy
	Renderer    view.Renderer
	Interval    int // seconds; 0 means the default cadence
	Logger      *zap.Logger
	Client      *apiclient.Client // overrides the built client, for tests
	OnForcedOut func()            // invoked after a 401 teardown
}

// New assembles a Console.
func New(opts Options) *Console {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Console{
		sessions: opts.Sessions,
		policy:   opts.Policy,
		logger:   logger,
	}

	c.client = opts.Client
	if c.client == nil {
		c.client = apiclient.New(opts.BaseURL, opts.Sessions, logger,
			apiclient.WithAuthRejectedHook(func() {
				if opts.OnForcedOut != nil {
					opts.OnForcedOut()
				}
			}))
	}

	c.dash = view.NewDashboard(opts.Renderer, logger)

	cfg := resync.Config{
		Loaders:       resync.BuildLoaders(c.client, c.dash),
		ActiveSection: c.ActiveSection,
		Logger:        logger,
	}
	if opts.Interval > 0 {
		cfg.Interval = time.Duration(opts.Interval) * time.Second
	}
	c.coordinator = resync.New(c.client.Dashboard, c.dash, cfg)
	return c
}

// Client exposes the API client for direct mutations.
func (c *Console) Client() *apiclient.Client { return c.client }

// Dashboard exposes the view state.
func (c *Console) Dashboard() *view.Dashboard { return c.dash }

// Coordinator exposes the resync coordinator.
func (c *Console) Coordinator() *resync.Coordinator { return c.coordinator }

// Sessions exposes the session store.
func (c *Console) Sessions() *session.Store { return c.sessions }

// Login exchanges credentials for a signed token and establishes the trust
// context. When adminOnly is set, a non-admin account is refused before any
// session is written. Claims decoded from the token take precedence over the
// login response's user record.
func (c *Console) Login(ctx context.Context, email, password string, adminOnly bool) (*session.TrustContext, error) {
	resp, err := c.client.Auth.Login(ctx, models.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	if adminOnly && (resp.User == nil || resp.User.Role != models.RoleAdmin) {
		return nil, ErrNotAdmin
	}

	claims, err := token.Decode(resp.Token)
	if err != nil {
		// Opaque token: fall back to the explicit user record.
		c.logger.Debug("credential not decodable, using login user record", zap.Error(err))
		claims = nil
	}
	if err := c.sessions.Save(resp.Token, claims, resp.User); err != nil {
		return nil, err
	}
	trust, _ := c.sessions.Read()
	return trust, nil
}

// Logout tells the backend goodbye (best effort) and clears the session.
func (c *Console) Logout(ctx context.Context) {
	if err := c.client.Auth.Logout(ctx); err != nil && !apiclient.IsAuthRejected(err) {
		c.logger.Debug("logout request failed", zap.Error(err))
	}
	c.sessions.Clear()
	c.mu.Lock()
	c.hasView = false
	c.mu.Unlock()
}

// VisibleSections evaluates the policy for the current session. Logged out
// means no sections at all.
func (c *Console) VisibleSections() ([]authz.Section, error) {
	trust, ok := c.sessions.Read()
	if !ok {
		return nil, ErrNotLoggedIn
	}
	return c.policy.VisibleSections(trust.Role, trust.Department), nil
}

// ShowSection marks a section active after checking the policy, then
// refreshes it.
func (c *Console) ShowSection(ctx context.Context, section authz.Section) error {
	trust, ok := c.sessions.Read()
	if !ok {
		return ErrNotLoggedIn
	}
	if !c.policy.Allows(trust.Role, trust.Department, section) {
		return ErrSectionNotVisible
	}

	c.mu.Lock()
	c.active = section
	c.hasView = true
	c.mu.Unlock()

	if section == authz.SectionDashboard {
		c.coordinator.RefreshSummary(ctx)
		return nil
	}
	c.coordinator.RefreshSection(ctx, section)
	return nil
}

// ActiveSection reports the currently shown section, if any.
func (c *Console) ActiveSection() (authz.Section, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active, c.hasView
}

// AfterMutation is the resync choke point; see resync.Coordinator.
func (c *Console) AfterMutation(ctx context.Context) {
	c.coordinator.AfterMutation(ctx)
}

// Start begins the periodic refresh loop.
func (c *Console) Start(ctx context.Context) {
	c.coordinator.Start(ctx)
}
