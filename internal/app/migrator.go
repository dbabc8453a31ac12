package app

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationsDir = "migrations"

// Migrator обёртка над goose
type Migrator struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewMigrator создаёт новый мигратор
func NewMigrator(pool *pgxpool.Pool, logger *zap.Logger) (*Migrator, error) {
	if err := goose.SetDialect("postgres"); err != nil {
		return nil, fmt.Errorf("set goose dialect: %w", err)
	}
	goose.SetBaseFS(migrationsFS)

	// goose работает с *sql.DB поверх того же пула
	return &Migrator{
		db:     stdlib.OpenDBFromPool(pool),
		logger: logger,
	}, nil
}

// LatestVersion версия последней вшитой миграции
func LatestVersion() (int64, error) {
	goose.SetBaseFS(migrationsFS)

	migrations, err := goose.CollectMigrations(migrationsDir, 0, goose.MaxVersion)
	if err != nil {
		return 0, fmt.Errorf("collect migrations: %w", err)
	}
	last, err := migrations.Last()
	if err != nil {
		return 0, fmt.Errorf("latest migration: %w", err)
	}
	return last.Version, nil
}

// Run применяет все pending миграции.
// Схема новее вшитых миграций означает запуск старого бинарника, такой запуск прерывается.
func (mg *Migrator) Run(ctx context.Context) error {
	latest, err := LatestVersion()
	if err != nil {
		return err
	}

	current, err := mg.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	if current > latest {
		return fmt.Errorf("database schema version %d is newer than embedded migrations (%d)", current, latest)
	}

	if current == latest {
		mg.logger.Info("Database schema is up to date", zap.Int64("version", current))
		return nil
	}

	mg.logger.Info("Applying database migrations",
		zap.Int64("from", current),
		zap.Int64("to", latest),
	)

	if err := goose.UpContext(ctx, mg.db, migrationsDir); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	mg.logger.Info("Migrations applied", zap.Int64("version", latest))
	return nil
}

// SchemaVersion текущая версия схемы в БД, 0 для пустой базы
func (mg *Migrator) SchemaVersion(ctx context.Context) (int64, error) {
	version, err := goose.GetDBVersionContext(ctx, mg.db)
	if err != nil {
		return 0, fmt.Errorf("get schema version: %w", err)
	}
	return version, nil
}

// Close закрывает *sql.DB мигратора, пул остаётся открытым
func (mg *Migrator) Close() error {
	return mg.db.Close()
}
