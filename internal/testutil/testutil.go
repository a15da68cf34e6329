package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/GoArmGo/TodoApp/internal/database/client"
	"github.com/GoArmGo/TodoApp/internal/database/migrations"
	"github.com/GoArmGo/TodoApp/internal/logger"
)

// OpenDB открывает отдельную in-memory базу SQLite и применяет миграции.
// База закрывается через t.Cleanup.
func OpenDB(t *testing.T) *client.Client {
	t.Helper()

	// shared cache, чтобы все соединения пула видели одну и ту же базу
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	c, err := client.NewClient(context.Background(), dsn, logger.Discard())
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	if err := migrations.Apply(c.DB, logger.Discard()); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return c
}
