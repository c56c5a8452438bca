package postgres

import (
	"context"
	"embed"
	stderrors "errors"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/turtacn/refsign-check/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/refsign-check/pkg/errors"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// migrationsTable keeps the version bookkeeping apart from other tenants of
// a shared database.
const migrationsTable = "refcheck_schema_migrations"

// withMigrator runs fn against a migrator bound to a single pooled
// connection. Closing the migrator returns the connection to the pool
// without closing the pool itself.
func (c *Connection) withMigrator(ctx context.Context, fn func(m *migrate.Migrate) error) error {
	src, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to open embedded migrations")
	}
	conn, err := c.db.Conn(ctx)
	if err != nil {
		_ = src.Close()
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to acquire migration connection")
	}
	driver, err := postgres.WithConnection(ctx, conn, &postgres.Config{MigrationsTable: migrationsTable})
	if err != nil {
		_ = src.Close()
		_ = conn.Close()
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to create migration driver")
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		_ = src.Close()
		_ = driver.Close()
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to create migrate instance")
	}
	defer m.Close()
	return fn(m)
}

// RunMigrations applies every pending migration. An up-to-date schema is not
// an error.
func (c *Connection) RunMigrations(ctx context.Context) error {
	return c.withMigrator(ctx, func(m *migrate.Migrate) error {
		if err := m.Up(); err != nil && !stderrors.Is(err, migrate.ErrNoChange) {
			version, _, _ := m.Version()
			return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to run migrations").
				WithDetail("current version " + itoa(version))
		}
		version, dirty, err := m.Version()
		if err != nil && !stderrors.Is(err, migrate.ErrNilVersion) {
			c.logger.Warn("Failed to get migration version", logging.Err(err))
		}
		c.logger.Info("Database migrations completed",
			logging.Int64("version", int64(version)),
			logging.Bool("dirty", dirty),
		)
		return nil
	})
}

// RollbackMigration reverts the given number of migrations.
func (c *Connection) RollbackMigration(ctx context.Context, steps int) error {
	if steps <= 0 {
		return errors.Newf(errors.ErrCodeValidation, "steps must be greater than 0, got %d", steps)
	}
	return c.withMigrator(ctx, func(m *migrate.Migrate) error {
		if err := m.Steps(-steps); err != nil {
			if stderrors.Is(err, migrate.ErrNoChange) {
				return errors.New(errors.ErrCodeConflict, "no migrations to roll back")
			}
			return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to roll back migrations")
		}
		return nil
	})
}

// MigrationStatus returns the applied version (0 when none) and whether a
// failed migration left the schema dirty.
func (c *Connection) MigrationStatus(ctx context.Context) (version uint, dirty bool, err error) {
	err = c.withMigrator(ctx, func(m *migrate.Migrate) error {
		var verr error
		version, dirty, verr = m.Version()
		if stderrors.Is(verr, migrate.ErrNilVersion) {
			version, dirty = 0, false
			return nil
		}
		if verr != nil {
			return errors.Wrap(verr, errors.ErrCodeDatabaseError, "failed to get migration version")
		}
		return nil
	})
	return version, dirty, err
}

func itoa(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}

//Personal.AI order the ending
