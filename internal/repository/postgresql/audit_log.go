package postgresql

import (
	"context"
	"time"

	"gitlab.ozon.dev/pupkingeorgij/returns-service/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/returns-service/internal/repository"
	"gitlab.ozon.dev/pupkingeorgij/returns-service/internal/storage"
)

type AuditLogRepo struct {
	db db.DB
}

func NewAuditLogRepo(db db.DB) storage.AuditLogRepository {
	return &AuditLogRepo{db: db}
}

func (r *AuditLogRepo) Create(ctx context.Context, entry *repository.AuditLogEntry) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO audit_logs (
            id, action, actor, actor_role, details, timestamp
        ) VALUES ($1, $2, $3, $4, $5, $6)
    `, entry.ID, entry.Action, entry.Actor, entry.ActorRole, entry.Details, entry.Timestamp)
	return err
}

func (r *AuditLogRepo) CreateTx(ctx context.Context, tx db.Tx, entry *repository.AuditLogEntry) error {
	_, err := tx.Exec(ctx, `
        INSERT INTO audit_logs (
            id, action, actor, actor_role, details, timestamp
        ) VALUES ($1, $2, $3, $4, $5, $6)
    `, entry.ID, entry.Action, entry.Actor, entry.ActorRole, entry.Details, entry.Timestamp)
	return err
}

func (r *AuditLogRepo) List(ctx context.Context, limit int, ascending bool) ([]*repository.AuditLogEntry, error) {
	query := "SELECT * FROM audit_logs ORDER BY timestamp DESC LIMIT $1"
	if ascending {
		query = "SELECT * FROM audit_logs ORDER BY timestamp ASC LIMIT $1"
	}

	var entries []*repository.AuditLogEntry
	err := r.db.Select(ctx, &entries, query, limit)
	return entries, err
}

func (r *AuditLogRepo) CountByActionSince(ctx context.Context, action string, since time.Time) (int, error) {
	var count int
	err := r.db.ExecQueryRow(ctx, `
        SELECT COUNT(*) FROM audit_logs
        WHERE action = $1 AND timestamp >= $2
    `, action, since).Scan(&count)
	return count, err
}
