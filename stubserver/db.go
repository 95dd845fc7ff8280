// Copyright (c) 2025 the fieldcheck authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package stubserver

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"fieldcheck/cliparse"
)

// DB wraps the SQL handle with placeholder rewriting so the same queries run
// on SQLite (the default, zero-setup backend) and PostgreSQL. Queries are
// written with '?' placeholders and rewritten to $N for postgres.
type DB struct {
	*sql.DB
	driver string
}

// Open connects to the configured database and ensures the schema exists.
func Open(cfg cliparse.Config) (*DB, error) {
	driver := cfg.DatabaseType
	if driver == "" {
		driver = "sqlite"
	}
	switch driver {
	case "sqlite", "postgres":
	default:
		return nil, fmt.Errorf("unsupported database type %q", driver)
	}

	conn, err := sql.Open(driver, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	if driver == "sqlite" {
		// Cross-table writes (answers plus report status) need this on.
		if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
			conn.Close()
			return nil, fmt.Errorf("enabling foreign keys: %w", err)
		}
	}

	db := &DB{DB: conn, driver: driver}
	if err := CreateSchema(db); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

func (d *DB) rebind(query string) string {
	if d.driver != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (d *DB) Exec(query string, args ...any) (sql.Result, error) {
	return d.DB.Exec(d.rebind(query), args...)
}

func (d *DB) Query(query string, args ...any) (*sql.Rows, error) {
	return d.DB.Query(d.rebind(query), args...)
}

func (d *DB) QueryRow(query string, args ...any) *sql.Row {
	return d.DB.QueryRow(d.rebind(query), args...)
}

// CreateSchema creates all tables needed by the stub backend.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *DB) error {
	for _, stmt := range strings.Split(schema, ";\n") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.DB.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

const schema = `
-- Officers
CREATE TABLE IF NOT EXISTS officer (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    password TEXT NOT NULL,
    name TEXT NOT NULL,
    role TEXT NOT NULL DEFAULT 'field_officer'
);

-- Bearer tokens
CREATE TABLE IF NOT EXISTS auth_token (
    token TEXT PRIMARY KEY,
    officer_id TEXT NOT NULL REFERENCES officer(id) ON DELETE CASCADE,
    created_at TIMESTAMP NOT NULL
);

-- Questionnaire structure
CREATE TABLE IF NOT EXISTS section (
    id INTEGER PRIMARY KEY,
    name TEXT NOT NULL,
    form_type TEXT NOT NULL CHECK (form_type IN ('A', 'B')),
    ordinal INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS question (
    id INTEGER PRIMARY KEY,
    section_id INTEGER NOT NULL REFERENCES section(id) ON DELETE CASCADE,
    text TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_question_section_id ON question(section_id);

-- Inspection Reports
CREATE TABLE IF NOT EXISTS inspection_report (
    id TEXT PRIMARY KEY,
    officer_id TEXT NOT NULL REFERENCES officer(id),
    status TEXT NOT NULL DEFAULT 'draft' CHECK (status IN ('yettostart', 'draft', 'in_progress', 'completed')),
    factory_name TEXT NOT NULL DEFAULT '',
    factory_registration_number TEXT NOT NULL DEFAULT '',
    factory_address TEXT NOT NULL DEFAULT '',
    latitude REAL,
    longitude REAL,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_inspection_report_officer ON inspection_report(officer_id);
CREATE INDEX IF NOT EXISTS idx_inspection_report_status ON inspection_report(status);

-- Answers
CREATE TABLE IF NOT EXISTS answer (
    inspection_report_id TEXT NOT NULL REFERENCES inspection_report(id) ON DELETE CASCADE,
    question_id INTEGER NOT NULL REFERENCES question(id) ON DELETE CASCADE,
    value TEXT NOT NULL CHECK (value IN ('Yes', 'No', 'NA')),
    notes TEXT NOT NULL DEFAULT '',
    updated_at TIMESTAMP NOT NULL,
    PRIMARY KEY (inspection_report_id, question_id)
);

CREATE INDEX IF NOT EXISTS idx_answer_report_id ON answer(inspection_report_id);

-- Applications
CREATE TABLE IF NOT EXISTS application (
    id TEXT PRIMARY KEY,
    external_id TEXT NOT NULL,
    inspection_report_id TEXT NOT NULL UNIQUE REFERENCES inspection_report(id) ON DELETE CASCADE,
    current_status TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_application_status ON application(current_status);

-- Application Status History
CREATE TABLE IF NOT EXISTS application_status_history (
    id TEXT PRIMARY KEY,
    application_id TEXT NOT NULL REFERENCES application(id) ON DELETE CASCADE,
    status TEXT NOT NULL,
    comment TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_history_application_id ON application_status_history(application_id);
`
