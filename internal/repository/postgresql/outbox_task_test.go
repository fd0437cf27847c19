package postgresql

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	mock_database "gitlab.ozon.dev/pupkingeorgij/returns-service/internal/db/mocks"
	"gitlab.ozon.dev/pupkingeorgij/returns-service/internal/repository"
)

func TestOutboxTaskRepo_CreateTx(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTx := mock_database.NewMockTx(ctrl)
	repo := NewOutboxTaskRepo()
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		task := &repository.OutboxTask{
			ID:      uuid.New(),
			Topic:   "audit_logs",
			Payload: []byte(`{"action":"RETURN_CREATED"}`),
		}

		mockTx.EXPECT().
			Exec(gomock.Any(), gomock.Any(),
				gomock.Eq(task.ID),
				gomock.Eq(repository.TaskStatusCreated),
				gomock.Eq(task.Payload),
				gomock.Eq(task.Topic),
				gomock.Any(),
				gomock.Any()).
			Return(nil, nil)

		err := repo.CreateTx(ctx, mockTx, task)
		assert.NoError(t, err)
	})

	t.Run("Assigns ID When Missing", func(t *testing.T) {
		task := &repository.OutboxTask{
			Topic:   "audit_logs",
			Payload: []byte(`{}`),
		}

		mockTx.EXPECT().
			Exec(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(),
				gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, nil)

		err := repo.CreateTx(ctx, mockTx, task)
		assert.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, task.ID)
	})
}

func TestOutboxTaskRepo_GetProcessableTasks(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := mock_database.NewMockDB(ctrl)
	repo := NewOutboxTaskRepo()
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		expected := []*repository.OutboxTask{
			{ID: uuid.New(), Status: repository.TaskStatusCreated, Topic: "audit_logs"},
		}

		mockDB.EXPECT().
			Select(gomock.Any(), gomock.Any(), gomock.Any(),
				gomock.Eq(repository.TaskStatusCreated),
				gomock.Eq(repository.TaskStatusFailed),
				gomock.Eq(5),
				gomock.Eq(10)).
			DoAndReturn(func(_ context.Context, dest interface{}, query string, _ ...interface{}) error {
				assert.Contains(t, query, "FOR UPDATE SKIP LOCKED")
				*dest.(*[]*repository.OutboxTask) = expected
				return nil
			})

		tasks, err := repo.GetProcessableTasks(ctx, mockDB, 10)
		assert.NoError(t, err)
		assert.Equal(t, expected, tasks)
	})

	t.Run("DB Error", func(t *testing.T) {
		mockDB.EXPECT().
			Select(gomock.Any(), gomock.Any(), gomock.Any(),
				gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("database error"))

		tasks, err := repo.GetProcessableTasks(ctx, mockDB, 10)
		assert.Error(t, err)
		assert.Nil(t, tasks)
	})
}

func TestOutboxTaskRepo_UpdateTaskStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := mock_database.NewMockDB(ctrl)
	mockTx := mock_database.NewMockTx(ctrl)
	repo := NewOutboxTaskRepo()
	ctx := context.Background()

	id := uuid.New()

	t.Run("Via Tx", func(t *testing.T) {
		mockTx.EXPECT().
			Exec(gomock.Any(), gomock.Any(),
				gomock.Eq(id),
				gomock.Eq(repository.TaskStatusProcessing),
				gomock.Eq(0), nil, nil).
			Return(pgconn.CommandTag("UPDATE 1"), nil)

		err := repo.UpdateTaskStatusTx(ctx, mockTx, id, repository.TaskStatusProcessing, 0, nil, nil)
		assert.NoError(t, err)
	})

	t.Run("Via DB", func(t *testing.T) {
		errMsg := "broker unavailable"

		mockDB.EXPECT().
			Exec(gomock.Any(), gomock.Any(),
				gomock.Eq(id),
				gomock.Eq(repository.TaskStatusFailed),
				gomock.Eq(2),
				gomock.Eq(&errMsg), nil).
			Return(pgconn.CommandTag("UPDATE 1"), nil)

		err := repo.UpdateTaskStatus(ctx, mockDB, id, repository.TaskStatusFailed, 2, &errMsg, nil)
		assert.NoError(t, err)
	})

	t.Run("Unknown Task", func(t *testing.T) {
		mockDB.EXPECT().
			Exec(gomock.Any(), gomock.Any(),
				gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(pgconn.CommandTag("UPDATE 0"), nil)

		err := repo.UpdateTaskStatus(ctx, mockDB, id, repository.TaskStatusDone, 0, nil, nil)
		assert.ErrorIs(t, err, repository.ErrObjectNotFound)
	})
}
