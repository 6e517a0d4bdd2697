package database

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

// Migration is one schema change. Migrations ship embedded in the binary
// and are applied in version order, tracked in schema_migrations.
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// Migrations is the full schema history.
var Migrations = []Migration{
	{
		Version: 1,
		Name:    "create_documents",
		SQL: `
			CREATE TABLE IF NOT EXISTS documents (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				file_hash TEXT NOT NULL UNIQUE,
				file_type TEXT NOT NULL,
				original_filename TEXT NOT NULL,
				storage_path TEXT NOT NULL DEFAULT '',
				model_response TEXT NOT NULL DEFAULT '',
				audit_result TEXT NOT NULL DEFAULT '',
				created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
			CREATE INDEX IF NOT EXISTS idx_documents_file_hash ON documents(file_hash);
		`,
	},
	{
		Version: 2,
		Name:    "create_audit_rules",
		SQL: `
			CREATE TABLE IF NOT EXISTS audit_rules (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				category TEXT NOT NULL UNIQUE,
				max_limit REAL NOT NULL DEFAULT 0,
				is_restricted INTEGER NOT NULL DEFAULT 0,
				description TEXT NOT NULL DEFAULT ''
			);
		`,
	},
	{
		Version: 3,
		Name:    "create_audit_policies",
		SQL: `
			CREATE TABLE IF NOT EXISTS audit_policies (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				rule_name TEXT NOT NULL,
				rule_type TEXT NOT NULL,
				field_name TEXT NOT NULL,
				condition TEXT NOT NULL,
				expected_value TEXT NOT NULL DEFAULT '',
				severity TEXT NOT NULL DEFAULT '',
				is_active INTEGER NOT NULL DEFAULT 1
			);
		`,
	},
}

// Migrator applies pending migrations.
type Migrator struct {
	db     *DB
	logger *zap.Logger
}

// NewMigrator creates a migrator.
func NewMigrator(db *DB, logger *zap.Logger) *Migrator {
	return &Migrator{db: db, logger: logger}
}

// Run applies all pending migrations in order.
func (m *Migrator) Run() error {
	if err := m.createMigrationsTable(); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := m.appliedVersions()
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	for _, migration := range Migrations {
		if applied[migration.Version] {
			continue
		}

		m.logger.Info("Applying migration",
			zap.Int("version", migration.Version),
			zap.String("name", migration.Name))

		if err := m.apply(migration); err != nil {
			return fmt.Errorf("failed to apply migration %d: %w", migration.Version, err)
		}
	}

	m.logger.Info("Database migrations completed")
	return nil
}

func (m *Migrator) createMigrationsTable() error {
	_, err := m.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`)
	return err
}

func (m *Migrator) appliedVersions() (map[int]bool, error) {
	rows, err := m.db.Query("SELECT version FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

func (m *Migrator) apply(migration Migration) error {
	return m.db.WithTransaction(func(tx *sql.Tx) error {
		if _, err := tx.Exec(migration.SQL); err != nil {
			return fmt.Errorf("failed to execute migration SQL: %w", err)
		}
		if _, err := tx.Exec(
			"INSERT INTO schema_migrations (version, name) VALUES (?, ?)",
			migration.Version, migration.Name,
		); err != nil {
			return fmt.Errorf("failed to record migration: %w", err)
		}
		return nil
	})
}
