// Package session holds the identity of the acting user. The role
// predicates read the bound user on every call; nothing is cached beyond
// the user record itself.
package session

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/taskdesk/internal/logging"
	"github.com/mesh-intelligence/taskdesk/pkg/types"
)

// UserFinder looks a user up by external identity. A nil user with a nil
// error means no such user.
type UserFinder interface {
	FindByTelegramID(ctx context.Context, telegramID string) (*types.User, error)
}

// Session is the current-user binding shared by the stores.
type Session struct {
	mu      sync.RWMutex
	users   UserFinder
	logger  *zap.Logger
	current *types.User
	lastErr error
}

// New creates an empty session.
func New(users UserFinder, logger *zap.Logger) *Session {
	return &Session{users: users, logger: logging.OrNop(logger)}
}

// LoginByIdentity binds the session to the user with the given telegram
// id. An unknown identity or a failed lookup leaves the session empty; the
// lookup error, if any, is kept in LastError rather than returned.
func (s *Session) LoginByIdentity(ctx context.Context, telegramID string) {
	u, err := s.users.FindByTelegramID(ctx, telegramID)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastErr = err
	if err != nil {
		s.current = nil
		s.logger.Warn("login lookup failed", zap.String("identity", telegramID), zap.Error(err))
		return
	}
	s.current = u
	if u == nil {
		s.logger.Info("login denied", zap.String("identity", telegramID))
		return
	}
	s.logger.Debug("logged in", zap.String("user", u.ID), zap.String("role", string(u.Role)))
}

// Logout clears the session.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
}

// Refresh rebinds the session to the stored record of the same identity,
// picking up role changes made since login. A no-op when logged out.
func (s *Session) Refresh(ctx context.Context) {
	s.mu.RLock()
	cur := s.current
	s.mu.RUnlock()

	if cur != nil {
		s.LoginByIdentity(ctx, cur.TelegramID)
	}
}

// ClearIf logs out when the current user has the given telegram id.
func (s *Session) ClearIf(telegramID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil && s.current.TelegramID == telegramID {
		s.current = nil
	}
}

// User returns a copy of the current user, or nil.
func (s *Session) User() *types.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	u := *s.current
	return &u
}

// LastError returns the error of the last login lookup.
func (s *Session) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *Session) role() types.Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return ""
	}
	return s.current.Role
}

func (s *Session) IsAuthenticated() bool { return s.User() != nil }

func (s *Session) IsOwner() bool { return s.role() == types.RoleOwner }

// IsManager is true for managers and owners.
func (s *Session) IsManager() bool { return s.role().AtLeastManager() }

func (s *Session) IsEmployee() bool { return s.role() == types.RoleEmployee }
