package storage

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/GoArmGo/TodoApp/internal/database/client"
)

const (
	usersTable = "users"
	tasksTable = "tasks"
)

var (
	userColumns = []string{"id", "username", "password_hash"}
	taskColumns = []string{"id", "title", "description", "completed", "priority", "user_id"}
)

// statementBuilder выбирает формат плейсхолдеров под драйвер: $1 для PostgreSQL, ? для остальных
func statementBuilder(db *sqlx.DB) sq.StatementBuilderType {
	if db.DriverName() == client.DriverPostgres {
		return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}
	return sq.StatementBuilder.PlaceholderFormat(sq.Question)
}

// insertReturningID выполняет INSERT и возвращает сгенерированный id.
// lib/pq не поддерживает LastInsertId, поэтому для PostgreSQL используется RETURNING.
func insertReturningID(ctx context.Context, db sqlx.ExtContext, driver string, ins sq.InsertBuilder) (int64, error) {
	if driver == client.DriverPostgres {
		query, args, err := ins.Suffix("RETURNING id").ToSql()
		if err != nil {
			return 0, err
		}
		var id int64
		if err := db.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}

	query, args, err := ins.ToSql()
	if err != nil {
		return 0, err
	}
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
