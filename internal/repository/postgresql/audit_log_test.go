package postgresql

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	mock_database "gitlab.ozon.dev/pupkingeorgij/returns-service/internal/db/mocks"
	"gitlab.ozon.dev/pupkingeorgij/returns-service/internal/repository"
)

func TestAuditLogRepo_CreateTx(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := mock_database.NewMockDB(ctrl)
	mockTx := mock_database.NewMockTx(ctrl)
	repo := NewAuditLogRepo(mockDB)
	ctx := context.Background()

	entry := &repository.AuditLogEntry{
		ID:        uuid.New(),
		Action:    "RETURN_CREATED",
		Actor:     "user1",
		ActorRole: "user",
		Details:   "Return created for order ORD-1",
		Timestamp: time.Now().UTC(),
	}

	t.Run("Success", func(t *testing.T) {
		mockTx.EXPECT().
			Exec(gomock.Any(), gomock.Any(),
				gomock.Eq(entry.ID),
				gomock.Eq(entry.Action),
				gomock.Eq(entry.Actor),
				gomock.Eq(entry.ActorRole),
				gomock.Eq(entry.Details),
				gomock.Eq(entry.Timestamp)).
			Return(nil, nil)

		err := repo.CreateTx(ctx, mockTx, entry)
		assert.NoError(t, err)
	})

	t.Run("Tx Error", func(t *testing.T) {
		txErr := errors.New("transaction error")

		mockTx.EXPECT().
			Exec(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(),
				gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, txErr)

		err := repo.CreateTx(ctx, mockTx, entry)
		assert.Equal(t, txErr, err)
	})
}

func TestAuditLogRepo_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := mock_database.NewMockDB(ctrl)
	repo := NewAuditLogRepo(mockDB)
	ctx := context.Background()

	entries := []*repository.AuditLogEntry{
		{ID: uuid.New(), Action: "LOGIN_SUCCESS", Actor: "user1"},
		{ID: uuid.New(), Action: "RETURN_CREATED", Actor: "user1"},
	}

	t.Run("Descending By Default", func(t *testing.T) {
		mockDB.EXPECT().
			Select(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Eq(50)).
			DoAndReturn(func(_ context.Context, dest interface{}, query string, _ ...interface{}) error {
				assert.Contains(t, query, "DESC")
				*dest.(*[]*repository.AuditLogEntry) = entries
				return nil
			})

		got, err := repo.List(ctx, 50, false)
		assert.NoError(t, err)
		assert.Equal(t, entries, got)
	})

	t.Run("Ascending", func(t *testing.T) {
		mockDB.EXPECT().
			Select(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Eq(10)).
			DoAndReturn(func(_ context.Context, dest interface{}, query string, _ ...interface{}) error {
				assert.Contains(t, query, "ASC")
				*dest.(*[]*repository.AuditLogEntry) = entries
				return nil
			})

		got, err := repo.List(ctx, 10, true)
		assert.NoError(t, err)
		assert.Equal(t, entries, got)
	})

	t.Run("DB Error", func(t *testing.T) {
		dbErr := errors.New("database error")

		mockDB.EXPECT().
			Select(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(dbErr)

		got, err := repo.List(ctx, 50, false)
		assert.Equal(t, dbErr, err)
		assert.Nil(t, got)
	})
}

func TestAuditLogRepo_CountByActionSince(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := mock_database.NewMockDB(ctrl)
	repo := NewAuditLogRepo(mockDB)
	ctx := context.Background()

	since := time.Now().UTC().Add(-24 * time.Hour)

	t.Run("Success", func(t *testing.T) {
		mockDB.EXPECT().
			ExecQueryRow(gomock.Any(), gomock.Any(), gomock.Eq("LOGIN_SUCCESS"), gomock.Eq(since)).
			Return(scanInt(4))

		count, err := repo.CountByActionSince(ctx, "LOGIN_SUCCESS", since)
		assert.NoError(t, err)
		assert.Equal(t, 4, count)
	})

	t.Run("Scan Error", func(t *testing.T) {
		scanError := errors.New("scan error")

		mockDB.EXPECT().
			ExecQueryRow(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(scanErr(scanError))

		_, err := repo.CountByActionSince(ctx, "LOGIN_SUCCESS", since)
		assert.Equal(t, scanError, err)
	})
}
