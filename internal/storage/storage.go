//go:generate mockgen -source ./storage.go -destination=./mocks/storage.go -package=mock_storage
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/returns-service/internal/cache"
	"gitlab.ozon.dev/pupkingeorgij/returns-service/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/returns-service/internal/metrics"
	"gitlab.ozon.dev/pupkingeorgij/returns-service/internal/repository"
)

type ReturnRequestRepository interface {
	CreateTx(ctx context.Context, tx db.Tx, req *repository.ReturnRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*repository.ReturnRequest, error)
	GetByIDTx(ctx context.Context, tx db.Tx, id uuid.UUID) (*repository.ReturnRequest, error)
	UpdateTx(ctx context.Context, tx db.Tx, req *repository.ReturnRequest) error
	GetByUserID(ctx context.Context, userID string) ([]*repository.ReturnRequest, error)
	GetAll(ctx context.Context) ([]*repository.ReturnRequest, error)
	GetAllActive(ctx context.Context) ([]*repository.ReturnRequest, error)
	CountActiveByOrderTx(ctx context.Context, tx db.Tx, userID, orderID string) (int, error)
	CountCreatedSinceTx(ctx context.Context, tx db.Tx, userID string, since time.Time) (int, error)
	GetStats(ctx context.Context, recentSince time.Time) (*repository.ReturnStats, error)
	GetUserCountsSince(ctx context.Context, since time.Time, threshold int) ([]*repository.UserReturnCount, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, username, password, name, role string) error
	GetByUsername(ctx context.Context, username string) (*repository.User, error)
	Authenticate(ctx context.Context, username, password string) (*repository.User, error)
	LockByUsernameTx(ctx context.Context, tx db.Tx, username string) error
	CountAll(ctx context.Context) (int, error)
}

type AuditLogRepository interface {
	Create(ctx context.Context, entry *repository.AuditLogEntry) error
	CreateTx(ctx context.Context, tx db.Tx, entry *repository.AuditLogEntry) error
	List(ctx context.Context, limit int, ascending bool) ([]*repository.AuditLogEntry, error)
	CountByActionSince(ctx context.Context, action string, since time.Time) (int, error)
}

type OutboxTaskRepository interface {
	CreateTx(ctx context.Context, tx db.Tx, task *repository.OutboxTask) error
	GetProcessableTasks(ctx context.Context, db db.DB, limit int) ([]*repository.OutboxTask, error)
	UpdateTaskStatusTx(ctx context.Context, tx db.Tx, id uuid.UUID, status repository.TaskStatus, attempts int, lastError *string, completedAt *time.Time) error
	UpdateTaskStatus(ctx context.Context, db db.DB, id uuid.UUID, status repository.TaskStatus, attempts int, lastError *string, completedAt *time.Time) error
}

// Storage owns the return workflow rules. Every mutation runs as one
// transaction: submission takes the user's row lock before the quota and
// duplicate checks, transitions take the request's row lock before the
// state check, and the audit entry plus its outbox task commit with the
// change they describe.
type Storage struct {
	db      db.DB
	returns ReturnRequestRepository
	users   UserRepository
	audit   AuditLogRepository
	outbox  OutboxTaskRepository
	cache   *cache.ReturnCache
	logger  *zap.Logger
}

func NewStorage(
	database db.DB,
	returns ReturnRequestRepository,
	users UserRepository,
	audit AuditLogRepository,
	outbox OutboxTaskRepository,
	requestCache *cache.ReturnCache,
	logger *zap.Logger,
) *Storage {
	return &Storage{
		db:      database,
		returns: returns,
		users:   users,
		audit:   audit,
		outbox:  outbox,
		cache:   requestCache,
		logger:  logger,
	}
}

func (s *Storage) SubmitReturn(ctx context.Context, actor Actor, orderID, reason string) (*ReturnRequest, error) {
	if orderID == "" {
		return nil, fmt.Errorf("%w: order_id is required", ErrValidation)
	}
	if len(reason) < MinReasonLength {
		return nil, fmt.Errorf("%w: reason must be at least %d characters", ErrValidation, MinReasonLength)
	}

	now := time.Now().UTC()
	req := &repository.ReturnRequest{
		ID:           uuid.New(),
		UserID:       actor.Username,
		OrderID:      orderID,
		Reason:       reason,
		Status:       string(StatusPending),
		RefundStatus: string(RefundNotInitiated),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err := db.InTx(ctx, s.db, func(tx db.Tx) error {
		if err := s.users.LockByUsernameTx(ctx, tx, actor.Username); err != nil {
			if errors.Is(err, repository.ErrObjectNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("failed to lock user row: %w", err)
		}

		active, err := s.returns.CountActiveByOrderTx(ctx, tx, actor.Username, orderID)
		if err != nil {
			return fmt.Errorf("failed to check for duplicate return: %w", err)
		}
		if active > 0 {
			return ErrDuplicateReturn
		}

		recent, err := s.returns.CountCreatedSinceTx(ctx, tx, actor.Username, now.Add(-RateLimitWindow))
		if err != nil {
			return fmt.Errorf("failed to count recent returns: %w", err)
		}
		if recent >= MaxReturnsPerWindow {
			return ErrRateLimited
		}

		if err := s.returns.CreateTx(ctx, tx, req); err != nil {
			return fmt.Errorf("failed to create return request: %w", err)
		}

		details := fmt.Sprintf("Return created for order %s", orderID)
		return s.recordAuditTx(ctx, tx, ActionReturnCreated, actor, details, now)
	})
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("submit_return").Inc()
		return nil, err
	}

	s.cache.Set(req)
	metrics.ReturnsSubmittedTotal.Inc()
	s.logger.Info("return request submitted",
		zap.String("request_id", req.ID.String()),
		zap.String("user", actor.Username),
		zap.String("order_id", orderID))

	api := toAPIRequest(req)
	return &api, nil
}

func (s *Storage) ListUserReturns(ctx context.Context, username string) ([]ReturnRequest, error) {
	reqs, err := s.returns.GetByUserID(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to list user returns: %w", err)
	}
	return toAPIRequests(reqs), nil
}

func (s *Storage) ListAllReturns(ctx context.Context) ([]ReturnRequest, error) {
	reqs, err := s.returns.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list returns: %w", err)
	}
	return toAPIRequests(reqs), nil
}

func (s *Storage) GetReturn(ctx context.Context, id string) (*ReturnRequest, error) {
	reqID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}

	if cached, found := s.cache.Get(reqID); found {
		api := toAPIRequest(cached)
		return &api, nil
	}

	req, err := s.returns.GetByID(ctx, reqID)
	if err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get return request: %w", err)
	}
	api := toAPIRequest(req)
	return &api, nil
}

func (s *Storage) Approve(ctx context.Context, actor Actor, id string) (*ReturnRequest, error) {
	return s.transition(ctx, actor, id, "approve", func(req *repository.ReturnRequest) (string, string, error) {
		if Status(req.Status) != StatusPending {
			return "", "", ErrInvalidState
		}
		req.Status = string(StatusApproved)
		req.RefundStatus = string(RefundInitiated)
		details := fmt.Sprintf("Approved return request %s for order %s, refund initiated", req.ID, req.OrderID)
		return ActionReturnApproved, details, nil
	})
}

func (s *Storage) Reject(ctx context.Context, actor Actor, id string) (*ReturnRequest, error) {
	return s.transition(ctx, actor, id, "reject", func(req *repository.ReturnRequest) (string, string, error) {
		if Status(req.Status) != StatusPending {
			return "", "", ErrInvalidState
		}
		req.Status = string(StatusRejected)
		details := fmt.Sprintf("Rejected return request %s for order %s", req.ID, req.OrderID)
		return ActionReturnRejected, details, nil
	})
}

func (s *Storage) CompleteRefund(ctx context.Context, actor Actor, id string) (*ReturnRequest, error) {
	return s.transition(ctx, actor, id, "complete_refund", func(req *repository.ReturnRequest) (string, string, error) {
		if RefundStatus(req.RefundStatus) != RefundInitiated {
			return "", "", ErrInvalidState
		}
		req.RefundStatus = string(RefundSuccessful)
		details := fmt.Sprintf("Refund completed for return request %s, order %s", req.ID, req.OrderID)
		return ActionRefundCompleted, details, nil
	})
}

type transitionFn func(req *repository.ReturnRequest) (action, details string, err error)

func (s *Storage) transition(ctx context.Context, actor Actor, id, operation string, fn transitionFn) (*ReturnRequest, error) {
	reqID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var (
		updated *repository.ReturnRequest
		action  string
	)
	err = db.InTx(ctx, s.db, func(tx db.Tx) error {
		req, err := s.returns.GetByIDTx(ctx, tx, reqID)
		if err != nil {
			if errors.Is(err, repository.ErrObjectNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to get return request: %w", err)
		}

		var details string
		action, details, err = fn(req)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		req.UpdatedAt = now
		if err := s.returns.UpdateTx(ctx, tx, req); err != nil {
			return fmt.Errorf("failed to update return request: %w", err)
		}

		if err := s.recordAuditTx(ctx, tx, action, actor, details, now); err != nil {
			return err
		}

		updated = req
		return nil
	})
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues(operation).Inc()
		return nil, err
	}

	s.cache.Set(updated)
	switch action {
	case ActionReturnApproved:
		metrics.ReturnsApprovedTotal.Inc()
	case ActionReturnRejected:
		metrics.ReturnsRejectedTotal.Inc()
	case ActionRefundCompleted:
		metrics.RefundsCompletedTotal.Inc()
	}
	s.logger.Info("return request transitioned",
		zap.String("request_id", updated.ID.String()),
		zap.String("action", action),
		zap.String("actor", actor.Username))

	api := toAPIRequest(updated)
	return &api, nil
}

// AppendAudit records a non-transition event (logins, logouts). The entry
// and its outbox task still commit together.
func (s *Storage) AppendAudit(ctx context.Context, action string, actor Actor, details string) error {
	now := time.Now().UTC()
	err := db.InTx(ctx, s.db, func(tx db.Tx) error {
		return s.recordAuditTx(ctx, tx, action, actor, details, now)
	})
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("append_audit").Inc()
		return err
	}
	return nil
}

func (s *Storage) recordAuditTx(ctx context.Context, tx db.Tx, action string, actor Actor, details string, now time.Time) error {
	entry := &repository.AuditLogEntry{
		ID:        uuid.New(),
		Action:    action,
		Actor:     actor.Username,
		ActorRole: actor.Role,
		Details:   details,
		Timestamp: now,
	}
	if err := s.audit.CreateTx(ctx, tx, entry); err != nil {
		return fmt.Errorf("failed to write audit entry: %w", err)
	}

	payload, err := json.Marshal(toAPIAuditEntry(entry))
	if err != nil {
		return fmt.Errorf("failed to marshal audit event: %w", err)
	}
	task := &repository.OutboxTask{
		ID:      uuid.New(),
		Topic:   AuditTopic,
		Payload: payload,
	}
	if err := s.outbox.CreateTx(ctx, tx, task); err != nil {
		return fmt.Errorf("failed to enqueue audit event: %w", err)
	}
	return nil
}

func (s *Storage) ListAuditLogs(ctx context.Context, limit int, order string) ([]AuditLogEntry, error) {
	if limit < 0 {
		return nil, fmt.Errorf("%w: limit must not be negative", ErrValidation)
	}
	if limit == 0 {
		limit = 50
	}

	var ascending bool
	switch order {
	case "", "desc":
		ascending = false
	case "asc":
		ascending = true
	default:
		return nil, fmt.Errorf("%w: order must be 'asc' or 'desc'", ErrValidation)
	}

	entries, err := s.audit.List(ctx, limit, ascending)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}

	result := make([]AuditLogEntry, len(entries))
	for i, entry := range entries {
		result[i] = toAPIAuditEntry(entry)
	}
	return result, nil
}

func (s *Storage) GetStats(ctx context.Context) (*SystemStats, error) {
	now := time.Now().UTC()

	returnStats, err := s.returns.GetStats(ctx, now.Add(-24*time.Hour))
	if err != nil {
		return nil, fmt.Errorf("failed to get return stats: %w", err)
	}
	totalUsers, err := s.users.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	recentLogins, err := s.audit.CountByActionSince(ctx, ActionLoginSuccess, now.Add(-24*time.Hour))
	if err != nil {
		return nil, fmt.Errorf("failed to count recent logins: %w", err)
	}

	return &SystemStats{
		TotalUsers:      totalUsers,
		TotalReturns:    returnStats.Total,
		PendingReturns:  returnStats.Pending,
		ApprovedReturns: returnStats.Approved,
		RejectedReturns: returnStats.Rejected,
		ReturnsLast24h:  returnStats.Recent,
		LoginsLast24h:   recentLogins,
	}, nil
}

func (s *Storage) GetSuspiciousUsers(ctx context.Context, threshold int) ([]SuspiciousUser, error) {
	if threshold <= 0 {
		threshold = 5
	}

	counts, err := s.returns.GetUserCountsSince(ctx, time.Now().UTC().Add(-30*24*time.Hour), threshold)
	if err != nil {
		return nil, fmt.Errorf("failed to get user return counts: %w", err)
	}

	users := make([]SuspiciousUser, len(counts))
	for i, c := range counts {
		risk := "MEDIUM"
		if c.ReturnCount > 10 {
			risk = "HIGH"
		}
		users[i] = SuspiciousUser{
			UserID:       c.UserID,
			ReturnCount:  c.ReturnCount,
			UniqueOrders: c.UniqueOrders,
			RiskLevel:    risk,
		}
	}
	return users, nil
}

func toAPIRequest(req *repository.ReturnRequest) ReturnRequest {
	return ReturnRequest{
		ID:           req.ID.String(),
		UserID:       req.UserID,
		OrderID:      req.OrderID,
		Reason:       req.Reason,
		Status:       Status(req.Status),
		RefundStatus: RefundStatus(req.RefundStatus),
		CreatedAt:    req.CreatedAt,
		UpdatedAt:    req.UpdatedAt,
	}
}

func toAPIRequests(reqs []*repository.ReturnRequest) []ReturnRequest {
	result := make([]ReturnRequest, len(reqs))
	for i, req := range reqs {
		result[i] = toAPIRequest(req)
	}
	return result
}

func toAPIAuditEntry(entry *repository.AuditLogEntry) AuditLogEntry {
	return AuditLogEntry{
		ID:        entry.ID.String(),
		Action:    entry.Action,
		Actor:     entry.Actor,
		ActorRole: entry.ActorRole,
		Details:   entry.Details,
		Timestamp: entry.Timestamp,
	}
}
