package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/GoArmGo/TodoApp/internal/auth"
	"github.com/GoArmGo/TodoApp/internal/database/storage"
	"github.com/GoArmGo/TodoApp/internal/domain"
	"github.com/GoArmGo/TodoApp/internal/logger"
	"github.com/GoArmGo/TodoApp/internal/testutil"
)

type fixture struct {
	auth  AuthUseCase
	tasks TaskUseCase
	users *storage.UserStorage
	store *storage.TaskStorage
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	c := testutil.OpenDB(t)
	hasher, err := auth.NewHasher(bcrypt.MinCost)
	require.NoError(t, err)

	users := storage.NewUserStorage(c.DB, logger.Discard())
	tasks := storage.NewTaskStorage(c.DB, logger.Discard())
	return &fixture{
		auth:  NewAuthUseCase(users, hasher, logger.Discard()),
		tasks: NewTaskUseCase(tasks, logger.Discard()),
		users: users,
		store: tasks,
	}
}

func (f *fixture) register(t *testing.T, name string) *domain.User {
	t.Helper()
	u, err := f.auth.Register(context.Background(), RegisterInput{Username: name, Password: "pass"})
	require.NoError(t, err)
	return u
}

func validationReason(t *testing.T, err error) string {
	t.Helper()
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve), "expected validation error, got %v", err)
	return ve.Reason
}

func TestRegister(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u := f.register(t, "alice")
	assert.NotZero(t, u.ID)
	assert.NotEqual(t, "pass", u.PasswordHash)

	stored, err := f.users.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, strings.HasPrefix(stored.PasswordHash, "$2"))

	_, err = f.auth.Register(ctx, RegisterInput{Username: "alice", Password: "other"})
	assert.ErrorIs(t, err, domain.ErrDuplicateUsername)

	// уникальность с учётом регистра
	_, err = f.auth.Register(ctx, RegisterInput{Username: "Alice", Password: "pass"})
	assert.NoError(t, err)
}

func TestRegister_ValidationOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		in       RegisterInput
		contains string
	}{
		{"short username wins over short password", RegisterInput{"ab", "x"}, "too short"},
		{"long username", RegisterInput{strings.Repeat("a", 81), "pass"}, "too long"},
		{"bad characters", RegisterInput{"bad name", "pass"}, "invalid characters"},
		{"short password", RegisterInput{"alice", "abc"}, "Password is too short"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.auth.Register(ctx, tt.in)
			assert.Contains(t, validationReason(t, err), tt.contains)
		})
	}

	// ни одной записи не создано
	u, err := f.users.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")

	u, err := f.auth.Login(ctx, LoginInput{Username: "alice", Password: "pass"})
	require.NoError(t, err)
	assert.Equal(t, alice.ID, u.ID)

	_, err = f.auth.Login(ctx, LoginInput{Username: "alice", Password: "wrong"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = f.auth.Login(ctx, LoginInput{Username: "nobody", Password: "pass"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = f.auth.Login(ctx, LoginInput{Username: "ALICE", Password: "pass"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = f.auth.Login(ctx, LoginInput{Username: "a!", Password: "pass"})
	assert.True(t, domain.IsValidationError(err))
}

func TestCurrentUserAndFindUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")

	u, err := f.auth.CurrentUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)

	u, err = f.auth.CurrentUser(ctx, alice.ID+100)
	require.NoError(t, err)
	assert.Nil(t, u)

	found, err := f.auth.FindUser(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, found.ID)

	_, err = f.auth.FindUser(ctx, "bob")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAddAndListTasks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")

	list, err := f.tasks.ListTasks(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, list.Total)

	for _, title := range []string{"first", "second", "third"} {
		task, err := f.tasks.AddTask(ctx, alice.ID, TaskInput{Title: title, Priority: "medium"})
		require.NoError(t, err)
		assert.False(t, task.Completed)
		assert.Equal(t, alice.ID, task.UserID)
	}
	_, err = f.tasks.ToggleTask(ctx, alice.ID, 2)
	require.NoError(t, err)

	list, err = f.tasks.ListTasks(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, list.Total)
	assert.Equal(t, 1, list.Completed)
	assert.Equal(t, 2, list.Pending)
	assert.Equal(t, list.Total, list.Completed+list.Pending)
	require.Len(t, list.Tasks, 3)
	assert.Equal(t, "first", list.Tasks[0].Title)
	assert.Equal(t, "third", list.Tasks[2].Title)
}

func TestAddTask_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")

	tests := []struct {
		name   string
		in     TaskInput
		reason string
	}{
		{"blank title", TaskInput{Title: "   ", Priority: "low"}, "Task title is required"},
		{"blank title wins over bad priority", TaskInput{Title: "", Priority: "urgent"}, "Task title is required"},
		{"long title", TaskInput{Title: strings.Repeat("x", 201), Priority: "low"}, "too long"},
		{"bad priority", TaskInput{Title: "ok", Priority: "urgent"}, "Invalid priority"},
		{"case-sensitive priority", TaskInput{Title: "ok", Priority: "HIGH"}, "Invalid priority"},
		{"empty priority", TaskInput{Title: "ok", Priority: ""}, "Invalid priority"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.tasks.AddTask(ctx, alice.ID, tt.in)
			assert.Contains(t, validationReason(t, err), tt.reason)
		})
	}

	list, err := f.tasks.ListTasks(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, list.Total)

	// ровно 200 символов допустимо
	_, err = f.tasks.AddTask(ctx, alice.ID, TaskInput{Title: strings.Repeat("é", 200), Priority: "high"})
	assert.NoError(t, err)
}

func TestEditTask(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")

	task, err := f.tasks.AddTask(ctx, alice.ID, TaskInput{Title: "old", Description: "d", Priority: "low"})
	require.NoError(t, err)
	_, err = f.tasks.ToggleTask(ctx, alice.ID, task.ID)
	require.NoError(t, err)

	edited, err := f.tasks.EditTask(ctx, alice.ID, task.ID, TaskInput{Title: "new", Description: "", Priority: "high"})
	require.NoError(t, err)
	assert.Equal(t, "new", edited.Title)

	stored, err := f.store.GetTaskByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", stored.Title)
	assert.Equal(t, "", stored.Description)
	assert.Equal(t, domain.PriorityHigh, stored.Priority)
	assert.True(t, stored.Completed, "edit must not touch completed")
	assert.Equal(t, alice.ID, stored.UserID)

	// чужая и несуществующая задача неразличимы
	_, err = f.tasks.EditTask(ctx, bob.ID, task.ID, TaskInput{Title: "hacked", Priority: "low"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.tasks.EditTask(ctx, alice.ID, 9999, TaskInput{Title: "x", Priority: "low"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// владение проверяется раньше полей формы
	_, err = f.tasks.EditTask(ctx, bob.ID, task.ID, TaskInput{Title: "", Priority: "low"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.tasks.EditTask(ctx, alice.ID, task.ID, TaskInput{Title: "", Priority: "low"})
	assert.True(t, domain.IsValidationError(err))

	stored, err = f.store.GetTaskByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", stored.Title)
}

func TestGetTask(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")

	task, err := f.tasks.AddTask(ctx, alice.ID, TaskInput{Title: "mine", Priority: "medium"})
	require.NoError(t, err)

	got, err := f.tasks.GetTask(ctx, alice.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "mine", got.Title)

	_, err = f.tasks.GetTask(ctx, bob.ID, task.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestToggleTask(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")

	task, err := f.tasks.AddTask(ctx, alice.ID, TaskInput{Title: "t", Priority: "medium"})
	require.NoError(t, err)

	toggled, err := f.tasks.ToggleTask(ctx, alice.ID, task.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Completed)

	toggled, err = f.tasks.ToggleTask(ctx, alice.ID, task.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Completed)

	// чужая задача не меняется
	none, err := f.tasks.ToggleTask(ctx, bob.ID, task.ID)
	require.NoError(t, err)
	assert.Nil(t, none)
	none, err = f.tasks.ToggleTask(ctx, alice.ID, 9999)
	require.NoError(t, err)
	assert.Nil(t, none)

	stored, err := f.store.GetTaskByID(ctx, task.ID)
	require.NoError(t, err)
	assert.False(t, stored.Completed)
}

func TestDeleteTask(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")

	task, err := f.tasks.AddTask(ctx, alice.ID, TaskInput{Title: "t", Priority: "medium"})
	require.NoError(t, err)

	deleted, err := f.tasks.DeleteTask(ctx, bob.ID, task.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	stored, err := f.store.GetTaskByID(ctx, task.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored)

	deleted, err = f.tasks.DeleteTask(ctx, alice.ID, task.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = f.tasks.DeleteTask(ctx, alice.ID, task.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestDeleteUserCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")

	for i := 0; i < 3; i++ {
		_, err := f.tasks.AddTask(ctx, alice.ID, TaskInput{Title: "t", Priority: "low"})
		require.NoError(t, err)
	}
	_, err := f.tasks.AddTask(ctx, bob.ID, TaskInput{Title: "keep", Priority: "low"})
	require.NoError(t, err)

	removed, err := f.tasks.DeleteUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)

	list, err := f.tasks.ListTasks(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, list.Total)

	_, err = f.auth.FindUser(ctx, "alice")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err = f.tasks.ListTasks(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)
}

// racyUsers имитирует гонку: проверка имени проходит, а вставка упирается в уникальный индекс
type racyUsers struct{}

func (racyUsers) CreateUser(context.Context, *domain.User) error { return domain.ErrDuplicateUsername }
func (racyUsers) GetUserByID(context.Context, int64) (*domain.User, error) {
	return nil, nil
}
func (racyUsers) GetUserByUsername(context.Context, string) (*domain.User, error) {
	return nil, nil
}

func TestRegister_DuplicateFromStore(t *testing.T) {
	hasher, err := auth.NewHasher(bcrypt.MinCost)
	require.NoError(t, err)
	uc := NewAuthUseCase(racyUsers{}, hasher, logger.Discard())

	_, err = uc.Register(context.Background(), RegisterInput{Username: "alice", Password: "pass"})
	assert.ErrorIs(t, err, domain.ErrDuplicateUsername)
}
