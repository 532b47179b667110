package db

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Direction selects which way Migrate moves the schema.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// Open opens the sqlite database at dbPath, creating the file if needed, and
// applies every pending migration.
func Open(dbPath string) (*sql.DB, error) {
	return open(fileDSN(dbPath), true)
}

// Connect opens the sqlite database at dbPath without touching the schema.
func Connect(dbPath string) (*sql.DB, error) {
	return open(fileDSN(dbPath), false)
}

// OpenForTesting returns a private in-memory database with the schema applied.
// Each call gets its own database, so tests never see each other's rows.
func OpenForTesting() (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	return open(dsn, true)
}

func fileDSN(dbPath string) string {
	return fmt.Sprintf("file:%s?mode=rwc&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", dbPath)
}

func open(dsn string, migrateUp bool) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps in-memory databases alive and serialises writers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, closeOnError(db, fmt.Errorf("failed to ping database: %w", err))
	}

	if migrateUp {
		if err := Migrate(db, Up, 0); err != nil {
			return nil, closeOnError(db, err)
		}
	}

	return db, nil
}

// Migrate moves the schema in the given direction. steps limits how many
// migrations are applied; zero means all of them.
func Migrate(db *sql.DB, dir Direction, steps int) error {
	m, err := newMigrator(db)
	if err != nil {
		return err
	}

	switch {
	case dir == Up && steps == 0:
		err = m.Up()
	case dir == Up:
		err = m.Steps(steps)
	case dir == Down && steps == 0:
		err = m.Down()
	case dir == Down:
		err = m.Steps(-steps)
	default:
		return fmt.Errorf("unknown migration direction %q", dir)
	}

	if err != nil && !nothingToDo(err) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// nothingToDo reports whether err only says the schema was already at, or
// reached, the end of the requested range. Stepping past the last or first
// migration surfaces as os.ErrNotExist or ErrShortLimit instead of ErrNoChange.
func nothingToDo(err error) bool {
	var short migrate.ErrShortLimit
	return errors.Is(err, migrate.ErrNoChange) ||
		errors.Is(err, os.ErrNotExist) ||
		errors.As(err, &short)
}

// Version reports the current schema version and whether the last migration
// left the schema dirty. A database without migrations reports version 0.
func Version(db *sql.DB) (uint, bool, error) {
	m, err := newMigrator(db)
	if err != nil {
		return 0, false, err
	}

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, dirty, nil
}

// newMigrator wires golang-migrate to the embedded migrations. The returned
// migrator is not closed: closing it would close db as well.
func newMigrator(db *sql.DB) (*migrate.Migrate, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}

	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrator: %w", err)
	}
	return m, nil
}

func closeOnError(db *sql.DB, err error) error {
	if cerr := db.Close(); cerr != nil {
		return fmt.Errorf("%w (also failed to close db: %v)", err, cerr)
	}
	return err
}
