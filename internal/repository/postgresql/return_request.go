package postgresql

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"gitlab.ozon.dev/pupkingeorgij/returns-service/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/returns-service/internal/repository"
	"gitlab.ozon.dev/pupkingeorgij/returns-service/internal/storage"
)

type ReturnRequestRepo struct {
	db db.DB
}

func NewReturnRequestRepo(db db.DB) storage.ReturnRequestRepository {
	return &ReturnRequestRepo{db: db}
}

func (r *ReturnRequestRepo) CreateTx(ctx context.Context, tx db.Tx, req *repository.ReturnRequest) error {
	_, err := tx.Exec(ctx, `
        INSERT INTO return_requests (
            id, user_id, order_id, reason, status, refund_status, created_at, updated_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `, req.ID, req.UserID, req.OrderID, req.Reason, req.Status, req.RefundStatus, req.CreatedAt, req.UpdatedAt)
	return err
}

func (r *ReturnRequestRepo) GetByID(ctx context.Context, id uuid.UUID) (*repository.ReturnRequest, error) {
	var req repository.ReturnRequest
	err := r.db.Get(ctx, &req, "SELECT * FROM return_requests WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *ReturnRequestRepo) GetByIDTx(ctx context.Context, tx db.Tx, id uuid.UUID) (*repository.ReturnRequest, error) {
	var req repository.ReturnRequest
	err := tx.Get(ctx, &req, "SELECT * FROM return_requests WHERE id = $1 FOR UPDATE", id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *ReturnRequestRepo) UpdateTx(ctx context.Context, tx db.Tx, req *repository.ReturnRequest) error {
	_, err := tx.Exec(ctx, `
        UPDATE return_requests
        SET
            status = $1,
            refund_status = $2,
            updated_at = $3
        WHERE id = $4
    `, req.Status, req.RefundStatus, req.UpdatedAt, req.ID)
	return err
}

func (r *ReturnRequestRepo) GetByUserID(ctx context.Context, userID string) ([]*repository.ReturnRequest, error) {
	var reqs []*repository.ReturnRequest
	err := r.db.Select(ctx, &reqs, `
        SELECT * FROM return_requests
        WHERE user_id = $1
        ORDER BY created_at DESC
    `, userID)
	return reqs, err
}

func (r *ReturnRequestRepo) GetAll(ctx context.Context) ([]*repository.ReturnRequest, error) {
	var reqs []*repository.ReturnRequest
	err := r.db.Select(ctx, &reqs, `
        SELECT * FROM return_requests
        ORDER BY created_at DESC
    `)
	return reqs, err
}

// GetAllActive returns the requests still moving through the workflow:
// pending approval or with a refund in flight.
func (r *ReturnRequestRepo) GetAllActive(ctx context.Context) ([]*repository.ReturnRequest, error) {
	var reqs []*repository.ReturnRequest
	err := r.db.Select(ctx, &reqs, `
        SELECT * FROM return_requests
        WHERE status = 'Pending' OR refund_status = 'Refund Initiated'
        ORDER BY created_at ASC
    `)
	return reqs, err
}

// CountActiveByOrderTx counts non-rejected requests for (user, order). Runs
// inside the submit transaction, after the user row lock has been taken.
func (r *ReturnRequestRepo) CountActiveByOrderTx(ctx context.Context, tx db.Tx, userID, orderID string) (int, error) {
	var count int
	err := tx.ExecQueryRow(ctx, `
        SELECT COUNT(*) FROM return_requests
        WHERE user_id = $1 AND order_id = $2 AND status <> 'Rejected'
    `, userID, orderID).Scan(&count)
	return count, err
}

// CountCreatedSinceTx counts the user's requests with created_at >= since.
func (r *ReturnRequestRepo) CountCreatedSinceTx(ctx context.Context, tx db.Tx, userID string, since time.Time) (int, error) {
	var count int
	err := tx.ExecQueryRow(ctx, `
        SELECT COUNT(*) FROM return_requests
        WHERE user_id = $1 AND created_at >= $2
    `, userID, since).Scan(&count)
	return count, err
}

func (r *ReturnRequestRepo) GetStats(ctx context.Context, recentSince time.Time) (*repository.ReturnStats, error) {
	var stats repository.ReturnStats
	err := r.db.Get(ctx, &stats, `
        SELECT
            COUNT(*) AS total,
            COUNT(*) FILTER (WHERE status = 'Pending') AS pending,
            COUNT(*) FILTER (WHERE status = 'Approved') AS approved,
            COUNT(*) FILTER (WHERE status = 'Rejected') AS rejected,
            COUNT(*) FILTER (WHERE created_at >= $1) AS recent
        FROM return_requests
    `, recentSince)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *ReturnRequestRepo) GetUserCountsSince(ctx context.Context, since time.Time, threshold int) ([]*repository.UserReturnCount, error) {
	var counts []*repository.UserReturnCount
	err := r.db.Select(ctx, &counts, `
        SELECT
            user_id,
            COUNT(*) AS return_count,
            COUNT(DISTINCT order_id) AS unique_orders
        FROM return_requests
        WHERE created_at >= $1
        GROUP BY user_id
        HAVING COUNT(*) >= $2
        ORDER BY return_count DESC
    `, since, threshold)
	return counts, err
}
