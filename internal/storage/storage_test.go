package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/returns-service/internal/cache"
	"gitlab.ozon.dev/pupkingeorgij/returns-service/internal/db"
	mock_database "gitlab.ozon.dev/pupkingeorgij/returns-service/internal/db/mocks"
	"gitlab.ozon.dev/pupkingeorgij/returns-service/internal/repository"
	mock_storage "gitlab.ozon.dev/pupkingeorgij/returns-service/internal/storage/mocks"
)

type storageMocks struct {
	db      *mock_database.MockDB
	tx      *mock_database.MockTx
	returns *mock_storage.MockReturnRequestRepository
	users   *mock_storage.MockUserRepository
	audit   *mock_storage.MockAuditLogRepository
	outbox  *mock_storage.MockOutboxTaskRepository
	cache   *cache.ReturnCache
}

func newTestStorage(t *testing.T) (*Storage, *storageMocks) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	m := &storageMocks{
		db:      mock_database.NewMockDB(ctrl),
		tx:      mock_database.NewMockTx(ctrl),
		returns: mock_storage.NewMockReturnRequestRepository(ctrl),
		users:   mock_storage.NewMockUserRepository(ctrl),
		audit:   mock_storage.NewMockAuditLogRepository(ctrl),
		outbox:  mock_storage.NewMockOutboxTaskRepository(ctrl),
	}
	m.cache = cache.NewReturnCache(m.returns)

	s := NewStorage(m.db, m.returns, m.users, m.audit, m.outbox, m.cache, zap.NewNop())
	return s, m
}

// expectTx arranges a transaction that is expected to commit.
func (m *storageMocks) expectTx() {
	m.db.EXPECT().BeginTx(gomock.Any()).Return(db.Tx(m.tx), nil)
	m.tx.EXPECT().Commit(gomock.Any()).Return(nil)
	m.tx.EXPECT().Rollback(gomock.Any()).Return(errors.New("tx is closed")).AnyTimes()
}

// expectTxRollback arranges a transaction that is expected to roll back.
func (m *storageMocks) expectTxRollback() {
	m.db.EXPECT().BeginTx(gomock.Any()).Return(db.Tx(m.tx), nil)
	m.tx.EXPECT().Rollback(gomock.Any()).Return(nil)
}

func TestSubmitReturn(t *testing.T) {
	ctx := context.Background()
	actor := Actor{Username: "user1", Role: "user"}

	t.Run("Success", func(t *testing.T) {
		s, m := newTestStorage(t)
		m.expectTx()

		m.users.EXPECT().
			LockByUsernameTx(gomock.Any(), m.tx, "user1").
			Return(nil)
		m.returns.EXPECT().
			CountActiveByOrderTx(gomock.Any(), m.tx, "user1", "ORD-1").
			Return(0, nil)
		m.returns.EXPECT().
			CountCreatedSinceTx(gomock.Any(), m.tx, "user1", gomock.Any()).
			Return(2, nil)
		m.returns.EXPECT().
			CreateTx(gomock.Any(), m.tx, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ db.Tx, req *repository.ReturnRequest) error {
				assert.Equal(t, "user1", req.UserID)
				assert.Equal(t, "ORD-1", req.OrderID)
				assert.Equal(t, "Pending", req.Status)
				assert.Equal(t, "Not Initiated", req.RefundStatus)
				return nil
			})
		m.audit.EXPECT().
			CreateTx(gomock.Any(), m.tx, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ db.Tx, entry *repository.AuditLogEntry) error {
				assert.Equal(t, ActionReturnCreated, entry.Action)
				assert.Equal(t, "user1", entry.Actor)
				return nil
			})
		m.outbox.EXPECT().
			CreateTx(gomock.Any(), m.tx, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ db.Tx, task *repository.OutboxTask) error {
				assert.Equal(t, AuditTopic, task.Topic)
				assert.NotEmpty(t, task.Payload)
				return nil
			})

		created, err := s.SubmitReturn(ctx, actor, "ORD-1", "Item arrived damaged")
		require.NoError(t, err)
		assert.Equal(t, StatusPending, created.Status)
		assert.Equal(t, RefundNotInitiated, created.RefundStatus)

		cached, found := m.cache.Get(uuid.MustParse(created.ID))
		require.True(t, found)
		assert.Equal(t, "ORD-1", cached.OrderID)
	})

	t.Run("Missing Order ID", func(t *testing.T) {
		s, _ := newTestStorage(t)

		_, err := s.SubmitReturn(ctx, actor, "", "Item arrived damaged")
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("Reason Too Short", func(t *testing.T) {
		s, _ := newTestStorage(t)

		_, err := s.SubmitReturn(ctx, actor, "ORD-1", "012345678")
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("Reason At Minimum Length", func(t *testing.T) {
		s, m := newTestStorage(t)
		m.expectTx()

		m.users.EXPECT().LockByUsernameTx(gomock.Any(), m.tx, "user1").Return(nil)
		m.returns.EXPECT().CountActiveByOrderTx(gomock.Any(), m.tx, "user1", "ORD-1").Return(0, nil)
		m.returns.EXPECT().CountCreatedSinceTx(gomock.Any(), m.tx, "user1", gomock.Any()).Return(0, nil)
		m.returns.EXPECT().CreateTx(gomock.Any(), m.tx, gomock.Any()).Return(nil)
		m.audit.EXPECT().CreateTx(gomock.Any(), m.tx, gomock.Any()).Return(nil)
		m.outbox.EXPECT().CreateTx(gomock.Any(), m.tx, gomock.Any()).Return(nil)

		_, err := s.SubmitReturn(ctx, actor, "ORD-1", "0123456789")
		assert.NoError(t, err)
	})

	t.Run("Duplicate Return", func(t *testing.T) {
		s, m := newTestStorage(t)
		m.expectTxRollback()

		m.users.EXPECT().LockByUsernameTx(gomock.Any(), m.tx, "user1").Return(nil)
		m.returns.EXPECT().
			CountActiveByOrderTx(gomock.Any(), m.tx, "user1", "ORD-1").
			Return(1, nil)

		_, err := s.SubmitReturn(ctx, actor, "ORD-1", "Item arrived damaged")
		assert.ErrorIs(t, err, ErrDuplicateReturn)
	})

	t.Run("Rate Limited", func(t *testing.T) {
		s, m := newTestStorage(t)
		m.expectTxRollback()

		m.users.EXPECT().LockByUsernameTx(gomock.Any(), m.tx, "user1").Return(nil)
		m.returns.EXPECT().CountActiveByOrderTx(gomock.Any(), m.tx, "user1", "ORD-6").Return(0, nil)
		m.returns.EXPECT().
			CountCreatedSinceTx(gomock.Any(), m.tx, "user1", gomock.Any()).
			Return(MaxReturnsPerWindow, nil)

		_, err := s.SubmitReturn(ctx, actor, "ORD-6", "Item arrived damaged")
		assert.ErrorIs(t, err, ErrRateLimited)
	})

	t.Run("Unknown User", func(t *testing.T) {
		s, m := newTestStorage(t)
		m.expectTxRollback()

		m.users.EXPECT().
			LockByUsernameTx(gomock.Any(), m.tx, "user1").
			Return(repository.ErrObjectNotFound)

		_, err := s.SubmitReturn(ctx, actor, "ORD-1", "Item arrived damaged")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestApprove(t *testing.T) {
	ctx := context.Background()
	admin := Actor{Username: "admin", Role: "admin"}

	t.Run("Pending Request", func(t *testing.T) {
		s, m := newTestStorage(t)
		m.expectTx()

		id := uuid.New()
		pending := &repository.ReturnRequest{
			ID:           id,
			UserID:       "user1",
			OrderID:      "ORD-1",
			Status:       "Pending",
			RefundStatus: "Not Initiated",
		}

		m.returns.EXPECT().GetByIDTx(gomock.Any(), m.tx, id).Return(pending, nil)
		m.returns.EXPECT().
			UpdateTx(gomock.Any(), m.tx, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ db.Tx, req *repository.ReturnRequest) error {
				assert.Equal(t, "Approved", req.Status)
				assert.Equal(t, "Refund Initiated", req.RefundStatus)
				return nil
			})
		m.audit.EXPECT().
			CreateTx(gomock.Any(), m.tx, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ db.Tx, entry *repository.AuditLogEntry) error {
				assert.Equal(t, ActionReturnApproved, entry.Action)
				assert.Equal(t, "admin", entry.Actor)
				return nil
			}).
			Times(1)
		m.outbox.EXPECT().CreateTx(gomock.Any(), m.tx, gomock.Any()).Return(nil)

		updated, err := s.Approve(ctx, admin, id.String())
		require.NoError(t, err)
		assert.Equal(t, StatusApproved, updated.Status)
		assert.Equal(t, RefundInitiated, updated.RefundStatus)

		cached, found := m.cache.Get(id)
		require.True(t, found)
		assert.Equal(t, "Approved", cached.Status)
	})

	t.Run("Already Approved", func(t *testing.T) {
		s, m := newTestStorage(t)
		m.expectTxRollback()

		id := uuid.New()
		approved := &repository.ReturnRequest{
			ID:           id,
			Status:       "Approved",
			RefundStatus: "Refund Initiated",
		}

		m.returns.EXPECT().GetByIDTx(gomock.Any(), m.tx, id).Return(approved, nil)

		_, err := s.Approve(ctx, admin, id.String())
		assert.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("Not Found", func(t *testing.T) {
		s, m := newTestStorage(t)
		m.expectTxRollback()

		id := uuid.New()
		m.returns.EXPECT().
			GetByIDTx(gomock.Any(), m.tx, id).
			Return(nil, repository.ErrObjectNotFound)

		_, err := s.Approve(ctx, admin, id.String())
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Malformed ID", func(t *testing.T) {
		s, _ := newTestStorage(t)

		_, err := s.Approve(ctx, admin, "not-a-uuid")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestReject(t *testing.T) {
	ctx := context.Background()
	admin := Actor{Username: "admin", Role: "admin"}

	t.Run("Pending Request", func(t *testing.T) {
		s, m := newTestStorage(t)
		m.expectTx()

		id := uuid.New()
		pending := &repository.ReturnRequest{
			ID:           id,
			Status:       "Pending",
			RefundStatus: "Not Initiated",
		}

		m.returns.EXPECT().GetByIDTx(gomock.Any(), m.tx, id).Return(pending, nil)
		m.returns.EXPECT().
			UpdateTx(gomock.Any(), m.tx, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ db.Tx, req *repository.ReturnRequest) error {
				assert.Equal(t, "Rejected", req.Status)
				assert.Equal(t, "Not Initiated", req.RefundStatus)
				return nil
			})
		m.audit.EXPECT().
			CreateTx(gomock.Any(), m.tx, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ db.Tx, entry *repository.AuditLogEntry) error {
				assert.Equal(t, ActionReturnRejected, entry.Action)
				return nil
			}).
			Times(1)
		m.outbox.EXPECT().CreateTx(gomock.Any(), m.tx, gomock.Any()).Return(nil)

		updated, err := s.Reject(ctx, admin, id.String())
		require.NoError(t, err)
		assert.Equal(t, StatusRejected, updated.Status)

		// rejected requests leave the active cache
		_, found := m.cache.Get(id)
		assert.False(t, found)
	})

	t.Run("Already Rejected", func(t *testing.T) {
		s, m := newTestStorage(t)
		m.expectTxRollback()

		id := uuid.New()
		rejected := &repository.ReturnRequest{ID: id, Status: "Rejected"}

		m.returns.EXPECT().GetByIDTx(gomock.Any(), m.tx, id).Return(rejected, nil)

		_, err := s.Reject(ctx, admin, id.String())
		assert.ErrorIs(t, err, ErrInvalidState)
	})
}

func TestCompleteRefund(t *testing.T) {
	ctx := context.Background()
	admin := Actor{Username: "admin", Role: "admin"}

	t.Run("Refund In Flight", func(t *testing.T) {
		s, m := newTestStorage(t)
		m.expectTx()

		id := uuid.New()
		approved := &repository.ReturnRequest{
			ID:           id,
			Status:       "Approved",
			RefundStatus: "Refund Initiated",
		}

		m.returns.EXPECT().GetByIDTx(gomock.Any(), m.tx, id).Return(approved, nil)
		m.returns.EXPECT().
			UpdateTx(gomock.Any(), m.tx, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ db.Tx, req *repository.ReturnRequest) error {
				assert.Equal(t, "Approved", req.Status)
				assert.Equal(t, "Refund Successful", req.RefundStatus)
				return nil
			})
		m.audit.EXPECT().
			CreateTx(gomock.Any(), m.tx, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ db.Tx, entry *repository.AuditLogEntry) error {
				assert.Equal(t, ActionRefundCompleted, entry.Action)
				return nil
			}).
			Times(1)
		m.outbox.EXPECT().CreateTx(gomock.Any(), m.tx, gomock.Any()).Return(nil)

		updated, err := s.CompleteRefund(ctx, admin, id.String())
		require.NoError(t, err)
		assert.Equal(t, RefundSuccessful, updated.RefundStatus)

		// settled refunds leave the active cache
		_, found := m.cache.Get(id)
		assert.False(t, found)
	})

	t.Run("Refund Not Initiated", func(t *testing.T) {
		s, m := newTestStorage(t)
		m.expectTxRollback()

		id := uuid.New()
		pending := &repository.ReturnRequest{
			ID:           id,
			Status:       "Pending",
			RefundStatus: "Not Initiated",
		}

		m.returns.EXPECT().GetByIDTx(gomock.Any(), m.tx, id).Return(pending, nil)

		_, err := s.CompleteRefund(ctx, admin, id.String())
		assert.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("Refund Already Settled", func(t *testing.T) {
		s, m := newTestStorage(t)
		m.expectTxRollback()

		id := uuid.New()
		settled := &repository.ReturnRequest{
			ID:           id,
			Status:       "Approved",
			RefundStatus: "Refund Successful",
		}

		m.returns.EXPECT().GetByIDTx(gomock.Any(), m.tx, id).Return(settled, nil)

		_, err := s.CompleteRefund(ctx, admin, id.String())
		assert.ErrorIs(t, err, ErrInvalidState)
	})
}

func TestGetReturn(t *testing.T) {
	ctx := context.Background()

	t.Run("Cache Hit", func(t *testing.T) {
		s, m := newTestStorage(t)

		id := uuid.New()
		m.cache.Set(&repository.ReturnRequest{
			ID:      id,
			OrderID: "ORD-1",
			Status:  "Pending",
		})

		got, err := s.GetReturn(ctx, id.String())
		require.NoError(t, err)
		assert.Equal(t, "ORD-1", got.OrderID)
	})

	t.Run("Cache Miss", func(t *testing.T) {
		s, m := newTestStorage(t)

		id := uuid.New()
		m.returns.EXPECT().
			GetByID(gomock.Any(), id).
			Return(&repository.ReturnRequest{ID: id, OrderID: "ORD-2", Status: "Rejected"}, nil)

		got, err := s.GetReturn(ctx, id.String())
		require.NoError(t, err)
		assert.Equal(t, "ORD-2", got.OrderID)
	})

	t.Run("Not Found", func(t *testing.T) {
		s, m := newTestStorage(t)

		id := uuid.New()
		m.returns.EXPECT().
			GetByID(gomock.Any(), id).
			Return(nil, repository.ErrObjectNotFound)

		_, err := s.GetReturn(ctx, id.String())
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Malformed ID", func(t *testing.T) {
		s, _ := newTestStorage(t)

		_, err := s.GetReturn(ctx, "42")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestListUserReturns(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		s, m := newTestStorage(t)

		m.returns.EXPECT().
			GetByUserID(gomock.Any(), "user1").
			Return([]*repository.ReturnRequest{
				{ID: uuid.New(), UserID: "user1", OrderID: "ORD-2"},
				{ID: uuid.New(), UserID: "user1", OrderID: "ORD-1"},
			}, nil)

		returns, err := s.ListUserReturns(ctx, "user1")
		require.NoError(t, err)
		require.Len(t, returns, 2)
		assert.Equal(t, "ORD-2", returns[0].OrderID)
	})

	t.Run("Empty", func(t *testing.T) {
		s, m := newTestStorage(t)

		m.returns.EXPECT().GetByUserID(gomock.Any(), "user2").Return(nil, nil)

		returns, err := s.ListUserReturns(ctx, "user2")
		require.NoError(t, err)
		assert.Empty(t, returns)
	})
}

func TestListAuditLogs(t *testing.T) {
	ctx := context.Background()

	t.Run("Default Limit And Order", func(t *testing.T) {
		s, m := newTestStorage(t)

		m.audit.EXPECT().
			List(gomock.Any(), 50, false).
			Return([]*repository.AuditLogEntry{
				{ID: uuid.New(), Action: ActionLoginSuccess, Actor: "user1"},
			}, nil)

		logs, err := s.ListAuditLogs(ctx, 0, "")
		require.NoError(t, err)
		require.Len(t, logs, 1)
		assert.Equal(t, ActionLoginSuccess, logs[0].Action)
	})

	t.Run("Ascending", func(t *testing.T) {
		s, m := newTestStorage(t)

		m.audit.EXPECT().List(gomock.Any(), 10, true).Return(nil, nil)

		_, err := s.ListAuditLogs(ctx, 10, "asc")
		assert.NoError(t, err)
	})

	t.Run("Negative Limit", func(t *testing.T) {
		s, _ := newTestStorage(t)

		_, err := s.ListAuditLogs(ctx, -1, "")
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("Unknown Order", func(t *testing.T) {
		s, _ := newTestStorage(t)

		_, err := s.ListAuditLogs(ctx, 10, "sideways")
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestGetStats(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		s, m := newTestStorage(t)

		m.returns.EXPECT().
			GetStats(gomock.Any(), gomock.Any()).
			Return(&repository.ReturnStats{Total: 10, Pending: 4, Approved: 3, Rejected: 3, Recent: 2}, nil)
		m.users.EXPECT().CountAll(gomock.Any()).Return(7, nil)
		m.audit.EXPECT().
			CountByActionSince(gomock.Any(), ActionLoginSuccess, gomock.Any()).
			Return(5, nil)

		stats, err := s.GetStats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 7, stats.TotalUsers)
		assert.Equal(t, 10, stats.TotalReturns)
		assert.Equal(t, 4, stats.PendingReturns)
		assert.Equal(t, 2, stats.ReturnsLast24h)
		assert.Equal(t, 5, stats.LoginsLast24h)
	})

	t.Run("Repo Error", func(t *testing.T) {
		s, m := newTestStorage(t)

		m.returns.EXPECT().
			GetStats(gomock.Any(), gomock.Any()).
			Return(nil, errors.New("database error"))

		_, err := s.GetStats(ctx)
		assert.Error(t, err)
	})
}

func TestGetSuspiciousUsers(t *testing.T) {
	ctx := context.Background()

	t.Run("Risk Levels", func(t *testing.T) {
		s, m := newTestStorage(t)

		m.returns.EXPECT().
			GetUserCountsSince(gomock.Any(), gomock.Any(), 5).
			Return([]*repository.UserReturnCount{
				{UserID: "user1", ReturnCount: 12, UniqueOrders: 11},
				{UserID: "user2", ReturnCount: 6, UniqueOrders: 6},
			}, nil)

		users, err := s.GetSuspiciousUsers(ctx, 0)
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, "HIGH", users[0].RiskLevel)
		assert.Equal(t, "MEDIUM", users[1].RiskLevel)
	})

	t.Run("Custom Threshold", func(t *testing.T) {
		s, m := newTestStorage(t)

		m.returns.EXPECT().GetUserCountsSince(gomock.Any(), gomock.Any(), 8).Return(nil, nil)

		users, err := s.GetSuspiciousUsers(ctx, 8)
		require.NoError(t, err)
		assert.Empty(t, users)
	})
}

func TestAppendAudit(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		s, m := newTestStorage(t)
		m.expectTx()

		m.audit.EXPECT().
			CreateTx(gomock.Any(), m.tx, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ db.Tx, entry *repository.AuditLogEntry) error {
				assert.Equal(t, ActionLogout, entry.Action)
				assert.Equal(t, "user1", entry.Actor)
				assert.False(t, entry.Timestamp.IsZero())
				return nil
			})
		m.outbox.EXPECT().CreateTx(gomock.Any(), m.tx, gomock.Any()).Return(nil)

		err := s.AppendAudit(ctx, ActionLogout, Actor{Username: "user1", Role: "user"}, "User user1 logged out")
		assert.NoError(t, err)
	})

	t.Run("Audit Write Fails", func(t *testing.T) {
		s, m := newTestStorage(t)
		m.expectTxRollback()

		m.audit.EXPECT().
			CreateTx(gomock.Any(), m.tx, gomock.Any()).
			Return(errors.New("database error"))

		err := s.AppendAudit(ctx, ActionLogout, Actor{Username: "user1"}, "User user1 logged out")
		assert.Error(t, err)
	})
}

func TestSubmitThenApproveFlow(t *testing.T) {
	ctx := context.Background()
	user := Actor{Username: "user1", Role: "user"}
	admin := Actor{Username: "admin", Role: "admin"}

	s, m := newTestStorage(t)

	var stored *repository.ReturnRequest

	m.db.EXPECT().BeginTx(gomock.Any()).Return(db.Tx(m.tx), nil).Times(2)
	m.tx.EXPECT().Commit(gomock.Any()).Return(nil).Times(2)
	m.tx.EXPECT().Rollback(gomock.Any()).Return(errors.New("tx is closed")).AnyTimes()

	m.users.EXPECT().LockByUsernameTx(gomock.Any(), m.tx, "user1").Return(nil)
	m.returns.EXPECT().CountActiveByOrderTx(gomock.Any(), m.tx, "user1", "ORD-1").Return(0, nil)
	m.returns.EXPECT().CountCreatedSinceTx(gomock.Any(), m.tx, "user1", gomock.Any()).Return(0, nil)
	m.returns.EXPECT().
		CreateTx(gomock.Any(), m.tx, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ db.Tx, req *repository.ReturnRequest) error {
			reqCopy := *req
			stored = &reqCopy
			return nil
		})
	m.audit.EXPECT().CreateTx(gomock.Any(), m.tx, gomock.Any()).Return(nil).Times(2)
	m.outbox.EXPECT().CreateTx(gomock.Any(), m.tx, gomock.Any()).Return(nil).Times(2)

	created, err := s.SubmitReturn(ctx, user, "ORD-1", "Wrong size, does not fit")
	require.NoError(t, err)

	m.returns.EXPECT().
		GetByIDTx(gomock.Any(), m.tx, uuid.MustParse(created.ID)).
		DoAndReturn(func(_ context.Context, _ db.Tx, _ uuid.UUID) (*repository.ReturnRequest, error) {
			return stored, nil
		})
	m.returns.EXPECT().UpdateTx(gomock.Any(), m.tx, gomock.Any()).Return(nil)

	approved, err := s.Approve(ctx, admin, created.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, approved.Status)
	assert.Equal(t, RefundInitiated, approved.RefundStatus)
	assert.True(t, approved.UpdatedAt.After(created.CreatedAt) || approved.UpdatedAt.Equal(created.CreatedAt))
}

func TestSubmitReturnSameOrderAfterRejection(t *testing.T) {
	// a rejected request does not block a new submission for the order
	ctx := context.Background()
	actor := Actor{Username: "user1", Role: "user"}

	s, m := newTestStorage(t)
	m.expectTx()

	m.users.EXPECT().LockByUsernameTx(gomock.Any(), m.tx, "user1").Return(nil)
	m.returns.EXPECT().
		CountActiveByOrderTx(gomock.Any(), m.tx, "user1", "ORD-1").
		Return(0, nil)
	m.returns.EXPECT().CountCreatedSinceTx(gomock.Any(), m.tx, "user1", gomock.Any()).Return(1, nil)
	m.returns.EXPECT().CreateTx(gomock.Any(), m.tx, gomock.Any()).Return(nil)
	m.audit.EXPECT().CreateTx(gomock.Any(), m.tx, gomock.Any()).Return(nil)
	m.outbox.EXPECT().CreateTx(gomock.Any(), m.tx, gomock.Any()).Return(nil)

	_, err := s.SubmitReturn(ctx, actor, "ORD-1", "Replacement also arrived damaged")
	assert.NoError(t, err)
}

func TestTimeConstants(t *testing.T) {
	assert.Equal(t, 24*time.Hour, RateLimitWindow)
	assert.Equal(t, 5, MaxReturnsPerWindow)
	assert.Equal(t, 10, MinReasonLength)
}
