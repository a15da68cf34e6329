package postgres

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/GoArmGo/TodoApp/internal/domain"
	"github.com/GoArmGo/TodoApp/internal/logger"
)

func newMockGorm(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gdb, err := NewGormDB(db)
	require.NoError(t, err)
	return gdb, mock
}

func q(s string) string { return regexp.QuoteMeta(s) }

func TestGormUserStorage_CreateUser(t *testing.T) {
	gdb, mock := newMockGorm(t)
	s := NewGormUserStorage(gdb, logger.Discard())

	mock.ExpectQuery(q(`INSERT INTO "users"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	u := &domain.User{Username: "alice", PasswordHash: "h"}
	require.NoError(t, s.CreateUser(context.Background(), u))
	assert.Equal(t, int64(7), u.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormUserStorage_CreateUserDuplicate(t *testing.T) {
	gdb, mock := newMockGorm(t)
	s := NewGormUserStorage(gdb, logger.Discard())

	mock.ExpectQuery(q(`INSERT INTO "users"`)).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})

	err := s.CreateUser(context.Background(), &domain.User{Username: "alice", PasswordHash: "h"})
	assert.ErrorIs(t, err, domain.ErrDuplicateUsername)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormUserStorage_GetUserByUsername(t *testing.T) {
	gdb, mock := newMockGorm(t)
	s := NewGormUserStorage(gdb, logger.Discard())
	ctx := context.Background()

	mock.ExpectQuery(q(`SELECT * FROM "users" WHERE username = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash"}).AddRow(3, "alice", "h"))
	mock.ExpectQuery(q(`SELECT * FROM "users" WHERE username = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash"}))

	u, err := s.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, int64(3), u.ID)
	assert.Equal(t, "h", u.PasswordHash)

	missing, err := s.GetUserByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.Nil(t, missing)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormUserStorage_GetUserByID_NotFound(t *testing.T) {
	gdb, mock := newMockGorm(t)
	s := NewGormUserStorage(gdb, logger.Discard())

	mock.ExpectQuery(q(`SELECT * FROM "users" WHERE id = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash"}))

	u, err := s.GetUserByID(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, u)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTaskStorage_CreateAndGet(t *testing.T) {
	gdb, mock := newMockGorm(t)
	s := NewGormTaskStorage(gdb, logger.Discard())
	ctx := context.Background()

	mock.ExpectQuery(q(`INSERT INTO "tasks"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
	mock.ExpectQuery(q(`SELECT * FROM "tasks" WHERE id = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description", "completed", "priority", "user_id"}).
			AddRow(11, "Buy milk", "", false, "high", 3))

	task := &domain.Task{Title: "Buy milk", Priority: domain.PriorityHigh, UserID: 3}
	require.NoError(t, s.CreateTask(ctx, task))
	assert.Equal(t, int64(11), task.ID)

	got, err := s.GetTaskByID(ctx, 11)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, *task, *got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTaskStorage_ListTasksByUser(t *testing.T) {
	gdb, mock := newMockGorm(t)
	s := NewGormTaskStorage(gdb, logger.Discard())

	mock.ExpectQuery(q(`SELECT * FROM "tasks" WHERE user_id = $1 ORDER BY id`)).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description", "completed", "priority", "user_id"}).
			AddRow(1, "one", "", true, "low", 3).
			AddRow(2, "two", "", false, "medium", 3))
	mock.ExpectQuery(q(`SELECT * FROM "tasks" WHERE user_id = $1 ORDER BY id`)).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description", "completed", "priority", "user_id"}))

	tasks, err := s.ListTasksByUser(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "one", tasks[0].Title)
	assert.True(t, tasks[0].Completed)
	assert.Equal(t, domain.PriorityMedium, tasks[1].Priority)

	empty, err := s.ListTasksByUser(context.Background(), 4)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTaskStorage_UpdateAndDeleteScopedByOwner(t *testing.T) {
	gdb, mock := newMockGorm(t)
	s := NewGormTaskStorage(gdb, logger.Discard())
	ctx := context.Background()

	mock.ExpectExec(`UPDATE "tasks" SET .* WHERE id = \$\d+ AND user_id = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q(`DELETE FROM "tasks" WHERE id = $1 AND user_id = $2`)).
		WithArgs(int64(5), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	task := &domain.Task{ID: 5, Title: "t", Priority: domain.PriorityLow, Completed: false, UserID: 3}
	require.NoError(t, s.UpdateTask(ctx, task))
	require.NoError(t, s.DeleteTask(ctx, 5, 3))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTaskStorage_DeleteUserWithTasks(t *testing.T) {
	gdb, mock := newMockGorm(t)
	s := NewGormTaskStorage(gdb, logger.Discard())

	mock.ExpectBegin()
	mock.ExpectExec(q(`DELETE FROM "tasks" WHERE user_id = $1`)).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(q(`DELETE FROM "users" WHERE id = $1`)).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	removed, err := s.DeleteUserWithTasks(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTaskStorage_DeleteUserWithTasksRollsBack(t *testing.T) {
	gdb, mock := newMockGorm(t)
	s := NewGormTaskStorage(gdb, logger.Discard())

	mock.ExpectBegin()
	mock.ExpectExec(q(`DELETE FROM "tasks" WHERE user_id = $1`)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(q(`DELETE FROM "users" WHERE id = $1`)).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	_, err := s.DeleteUserWithTasks(context.Background(), 3)
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}
