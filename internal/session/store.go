// Package session holds the current trust context: who is logged in, with
// what role and department, and under which credential. The context survives
// process restarts through a pluggable persistence backend and is committed
// as a single document so a crash can never leave a partial session.
package session

import (
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/blackpearl/shipyard-console/internal/authz"
	"github.com/blackpearl/shipyard-console/internal/token"
	"github.com/blackpearl/shipyard-console/models"
)

// ErrNoIdentity is returned by Save when neither decoded claims nor a login
// user record are available.
var ErrNoIdentity = errors.New("no identity available for session")

// TrustContext is the session-scoped representation of the authenticated
// user. A non-empty TrustContext exists if and only if a credential is
// stored; absence of either means logged out.
type TrustContext struct {
	UserID     int64      `json:"userId"`
	Email      string     `json:"email"`
	Role       authz.Role `json:"role"`
	Department string     `json:"department"`
	Credential string     `json:"credential"`
}

// Store reads and writes the trust context through an injected Backend.
// Callers hold an explicit *Store handle; there is no ambient global.
type Store struct {
	backend Backend
	logger  *zap.Logger
}

// NewStore creates a session store over the given backend.
func NewStore(backend Backend, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{backend: backend, logger: logger}
}

// Save establishes the trust context from a login exchange. Decoded claims
// take precedence; the explicit user record from the login response is the
// fallback when the credential could not be decoded. The full context is
// built in memory and committed as one write.
func (s *Store) Save(credential string, claims *token.Claims, user *models.User) error {
	ctx := TrustContext{Credential: credential}
	switch {
	case claims != nil:
		ctx.UserID = claims.UserID
		ctx.Email = claims.Email()
		ctx.Role = authz.Role(claims.Role)
		ctx.Department = claims.Department
	case user != nil:
		ctx.UserID = user.ID
		ctx.Email = user.Email
		ctx.Role = authz.Role(user.Role)
		ctx.Department = user.Department
	default:
		return ErrNoIdentity
	}

	data, err := json.Marshal(ctx)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.backend.Write(data); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	s.logger.Info("session established",
		zap.String("email", ctx.Email),
		zap.String("role", string(ctx.Role)),
		zap.String("department", ctx.Department))
	return nil
}

// Read reconstructs the trust context. The second return is false when no
// session is stored or the stored document cannot be decoded. Read does not
// re-validate the credential's shape or expiry.
func (s *Store) Read() (*TrustContext, bool) {
	data, ok, err := s.backend.Read()
	if err != nil {
		s.logger.Warn("session read failed", zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var ctx TrustContext
	if err := json.Unmarshal(data, &ctx); err != nil {
		s.logger.Warn("stored session is corrupt", zap.Error(err))
		return nil, false
	}
	if ctx.Credential == "" {
		return nil, false
	}
	return &ctx, true
}

// Clear wipes the stored session. Used by logout and by the forced-logout
// path after an authentication-rejected response.
func (s *Store) Clear() {
	if err := s.backend.Clear(); err != nil {
		s.logger.Warn("session clear failed", zap.Error(err))
		return
	}
	s.logger.Info("session cleared")
}

// IsLoggedIn reports whether a credential is present.
func (s *Store) IsLoggedIn() bool {
	_, ok := s.Read()
	return ok
}

// IsAdmin reports whether the stored role is ADMIN.
func (s *Store) IsAdmin() bool {
	ctx, ok := s.Read()
	return ok && ctx.Role == authz.RoleAdmin
}

// Department returns the stored department, or the empty string when logged
// out.
func (s *Store) Department() string {
	ctx, ok := s.Read()
	if !ok {
		return ""
	}
	return ctx.Department
}

// Credential returns the stored credential, or the empty string when logged
// out.
func (s *Store) Credential() string {
	ctx, ok := s.Read()
	if !ok {
		return ""
	}
	return ctx.Credential
}
