// Package migrations применяет схему БД через golang-migrate.
// SQL-файлы встроены в бинарник, для каждого драйвера свой каталог.
package migrations

import (
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"

	"github.com/GoArmGo/TodoApp/internal/database/client"
)

//go:embed sqlite3/*.sql postgres/*.sql mysql/*.sql
var files embed.FS

// Migrator оборачивает migrate.Migrate для одного подключения.
// Close не вызывается намеренно: драйвер golang-migrate закрыл бы и *sql.DB приложения.
type Migrator struct {
	m      *migrate.Migrate
	logger *slog.Logger
}

// New создаёт мигратор для уже открытого подключения
func New(db *sqlx.DB, logger *slog.Logger) (*Migrator, error) {
	driverName := db.DriverName()

	src, err := iofs.New(files, driverName)
	if err != nil {
		return nil, fmt.Errorf("нет миграций для драйвера %s: %w", driverName, err)
	}

	var drv database.Driver
	switch driverName {
	case client.DriverSQLite:
		drv, err = sqlite3.WithInstance(db.DB, &sqlite3.Config{})
	case client.DriverPostgres:
		drv, err = postgres.WithInstance(db.DB, &postgres.Config{})
	case client.DriverMySQL:
		drv, err = migratemysql.WithInstance(db.DB, &migratemysql.Config{})
	default:
		return nil, fmt.Errorf("миграции не поддерживают драйвер %s", driverName)
	}
	if err != nil {
		return nil, fmt.Errorf("не удалось создать драйвер миграций: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, driverName, drv)
	if err != nil {
		return nil, fmt.Errorf("не удалось создать экземпляр мигратора: %w", err)
	}
	return &Migrator{m: m, logger: logger}, nil
}

// Up применяет все доступные миграции к бд
func (mg *Migrator) Up() error {
	err := mg.m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		mg.logger.Info("migrations are up to date")
		return nil
	}
	if err != nil {
		return fmt.Errorf("ошибка выполнения миграций: %w", err)
	}
	mg.logger.Info("migrations applied successfully")
	return nil
}

// Down откатывает последнюю применённую миграцию
func (mg *Migrator) Down() error {
	err := mg.m.Steps(-1)
	if errors.Is(err, migrate.ErrNoChange) || errors.Is(err, migrate.ErrNilVersion) {
		mg.logger.Info("nothing to roll back")
		return nil
	}
	if err != nil {
		return fmt.Errorf("ошибка отката миграции: %w", err)
	}
	mg.logger.Info("last migration rolled back")
	return nil
}

// Version возвращает текущую версию схемы; 0, если миграции ещё не применялись
func (mg *Migrator) Version() (uint, bool, error) {
	v, dirty, err := mg.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("не удалось получить версию схемы: %w", err)
	}
	return v, dirty, nil
}

// Apply применяет миграции при старте приложения
func Apply(db *sqlx.DB, logger *slog.Logger) error {
	mg, err := New(db, logger)
	if err != nil {
		return err
	}
	return mg.Up()
}
