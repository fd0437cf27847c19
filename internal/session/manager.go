//go:generate mockgen -source ./manager.go -destination=./mocks/manager.go -package=mock_session
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/returns-service/internal/metrics"
	"gitlab.ozon.dev/pupkingeorgij/returns-service/internal/repository"
)

// CookieName is the cookie that carries the session token.
const CookieName = "session"

const TTL = 24 * time.Hour

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrNoSession = errors.New("no valid session")

type Repository interface {
	Create(ctx context.Context, sess *repository.Session) error
	GetByToken(ctx context.Context, token uuid.UUID) (*repository.Session, error)
	Delete(ctx context.Context, token uuid.UUID) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type Users interface {
	Authenticate(ctx context.Context, username, password string) (*repository.User, error)
}

// Identity is what a valid session resolves to.
type Identity struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

type Manager struct {
	sessions Repository
	users    Users
	logger   *zap.Logger
}

func NewManager(sessions Repository, users Users, logger *zap.Logger) *Manager {
	return &Manager{
		sessions: sessions,
		users:    users,
		logger:   logger,
	}
}

// Login validates credentials and issues a session token. The error never
// reveals whether the username or the password was wrong.
func (m *Manager) Login(ctx context.Context, username, password string) (uuid.UUID, *Identity, error) {
	user, err := m.users.Authenticate(ctx, username, password)
	if err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			return uuid.Nil, nil, ErrInvalidCredentials
		}
		return uuid.Nil, nil, err
	}

	now := time.Now().UTC()
	sess := &repository.Session{
		Token:     uuid.New(),
		Username:  user.Username,
		Role:      user.Role,
		CreatedAt: now,
		ExpiresAt: now.Add(TTL),
	}
	if err := m.sessions.Create(ctx, sess); err != nil {
		return uuid.Nil, nil, err
	}

	metrics.ActiveSessions.Inc()
	m.logger.Info("session created", zap.String("user", user.Username), zap.String("role", user.Role))

	return sess.Token, &Identity{
		Username: user.Username,
		Name:     user.Name,
		Role:     user.Role,
	}, nil
}

// Resolve maps a session token to the identity it was issued for.
func (m *Manager) Resolve(ctx context.Context, token uuid.UUID) (*Identity, error) {
	sess, err := m.sessions.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			return nil, ErrNoSession
		}
		return nil, err
	}
	return &Identity{Username: sess.Username, Role: sess.Role}, nil
}

// Logout invalidates the session. Unknown tokens are ignored, so logging
// out twice is not an error.
func (m *Manager) Logout(ctx context.Context, token uuid.UUID) error {
	if err := m.sessions.Delete(ctx, token); err != nil {
		return err
	}
	metrics.ActiveSessions.Dec()
	return nil
}

// RunSweeper deletes expired sessions on a fixed interval until the
// context is cancelled.
func (m *Manager) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			removed, err := m.sessions.DeleteExpired(ctx, time.Now().UTC())
			if err != nil {
				m.logger.Error("session sweep failed", zap.Error(err))
				continue
			}
			if removed > 0 {
				metrics.ActiveSessions.Sub(float64(removed))
				m.logger.Debug("expired sessions removed", zap.Int64("count", removed))
			}
		case <-ctx.Done():
			return
		}
	}
}
