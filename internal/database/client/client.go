package client

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Client представляет подключение к реляционной БД (SQLite, PostgreSQL или MySQL)
type Client struct {
	DB     *sqlx.DB
	Driver string
	logger *slog.Logger
}

// NewClient разбирает DATABASE_URL и открывает подключение к БД
func NewClient(ctx context.Context, databaseURL string, logger *slog.Logger) (*Client, error) {
	start := time.Now()

	target, err := ParseDatabaseURL(databaseURL)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.ConnectContext(ctx, target.Driver, target.DSN)
	if err != nil {
		logger.Error("failed to open database connection", "driver", target.Driver, "error", err)
		return nil, fmt.Errorf("ошибка открытия соединения с БД: %w", err)
	}

	if target.Driver == DriverSQLite {
		// SQLite не любит конкурентных писателей, одного соединения достаточно
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		logger.Error("failed to ping database", "driver", target.Driver, "error", err)
		return nil, fmt.Errorf("не удалось подключиться к базе данных: %w", err)
	}

	logger.Info("database connection established successfully",
		"driver", target.Driver,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return &Client{DB: db, Driver: target.Driver, logger: logger}, nil
}

func (c *Client) Close() error {
	start := time.Now()
	err := c.DB.Close()
	if err != nil {
		c.logger.Error("failed to close database connection", "error", err)
		return err
	}
	c.logger.Info("database connection closed", "duration_ms", time.Since(start).Milliseconds())
	return nil
}
