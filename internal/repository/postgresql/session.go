package postgresql

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"gitlab.ozon.dev/pupkingeorgij/returns-service/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/returns-service/internal/repository"
	"gitlab.ozon.dev/pupkingeorgij/returns-service/internal/session"
)

type SessionRepo struct {
	db db.DB
}

func NewSessionRepo(db db.DB) session.Repository {
	return &SessionRepo{db: db}
}

func (r *SessionRepo) Create(ctx context.Context, sess *repository.Session) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO sessions (
            token, username, role, created_at, expires_at
        ) VALUES ($1, $2, $3, $4, $5)
    `, sess.Token, sess.Username, sess.Role, sess.CreatedAt, sess.ExpiresAt)
	return err
}

func (r *SessionRepo) GetByToken(ctx context.Context, token uuid.UUID) (*repository.Session, error) {
	var sess repository.Session
	err := r.db.Get(ctx, &sess, `
        SELECT * FROM sessions
        WHERE token = $1 AND expires_at > now()
    `, token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &sess, nil
}

// Delete removes a session. Deleting an unknown token is not an error,
// which makes logout idempotent.
func (r *SessionRepo) Delete(ctx context.Context, token uuid.UUID) error {
	_, err := r.db.Exec(ctx, "DELETE FROM sessions WHERE token = $1", token)
	return err
}

func (r *SessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, "DELETE FROM sessions WHERE expires_at <= $1", now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
