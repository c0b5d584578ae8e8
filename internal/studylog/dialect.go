package studylog

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// dialect carries the SQL that differs between the supported drivers.
// Data statements use "?" placeholders, which both drivers accept.
type dialect struct {
	name                   string
	createLearningLog      string
	addStudyTime           string
	createSchemaMigrations string
	columnExists           string
}

var sqliteDialect = dialect{
	name: "sqlite",
	createLearningLog: `CREATE TABLE IF NOT EXISTS learning_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		date TEXT NOT NULL,
		subject TEXT NOT NULL,
		topic TEXT NOT NULL DEFAULT '',
		score INTEGER NOT NULL,
		study_time INTEGER NOT NULL DEFAULT 0
	)`,
	addStudyTime: `ALTER TABLE learning_log ADD COLUMN study_time INTEGER NOT NULL DEFAULT 0`,
	createSchemaMigrations: `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		applied_at TEXT NOT NULL
	)`,
	columnExists: `SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`,
}

var mysqlDialect = dialect{
	name: "mysql",
	createLearningLog: `CREATE TABLE IF NOT EXISTS learning_log (
		id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		date VARCHAR(10) NOT NULL,
		subject VARCHAR(255) NOT NULL,
		topic TEXT NOT NULL,
		score INT NOT NULL,
		study_time INT NOT NULL DEFAULT 0
	)`,
	addStudyTime: `ALTER TABLE learning_log ADD COLUMN study_time INT NOT NULL DEFAULT 0`,
	createSchemaMigrations: `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INT NOT NULL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		applied_at VARCHAR(32) NOT NULL
	)`,
	columnExists: `SELECT COUNT(*) FROM information_schema.columns
		WHERE table_schema = DATABASE() AND table_name = ? AND column_name = ?`,
}

func dialectFor(driverName string) (dialect, error) {
	switch driverName {
	case "sqlite", "sqlite3":
		return sqliteDialect, nil
	case "mysql":
		return mysqlDialect, nil
	default:
		return dialect{}, fmt.Errorf("unsupported driver %q", driverName)
	}
}

func (d dialect) hasColumn(ctx context.Context, q sqlx.QueryerContext, table, column string) (bool, error) {
	var count int
	if err := sqlx.GetContext(ctx, q, &count, d.columnExists, table, column); err != nil {
		return false, fmt.Errorf("sqlx.GetContext(%s.%s exists) > %w", table, column, err)
	}
	return count > 0, nil
}
