package database

import (
	"database/sql"
	"fmt"
)

// TableCreator builds the lead ledger schema.
type TableCreator struct{}

// NewTableCreator creates a new TableCreator.
func NewTableCreator() *TableCreator {
	return &TableCreator{}
}

var tables = []string{
	`CREATE TABLE IF NOT EXISTS submissions (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		email TEXT NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		business_type TEXT NOT NULL DEFAULT '',
		message TEXT NOT NULL DEFAULT '',
		campaign_tag TEXT NOT NULL DEFAULT '',
		utm TEXT NOT NULL DEFAULT '{}',
		fingerprint TEXT NOT NULL DEFAULT '',
		mail_outcome TEXT NOT NULL DEFAULT '{}',
		list_outcome TEXT NOT NULL DEFAULT '{}',
		delivered INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	)`,
}

var indexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_submissions_email ON submissions(email)`,
	`CREATE INDEX IF NOT EXISTS idx_submissions_fingerprint_created ON submissions(fingerprint, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_submissions_created ON submissions(created_at)`,
}

// CreateSchema executes all necessary queries to build the tables and indexes.
func (tc *TableCreator) CreateSchema(db *sql.DB) error {
	for _, tableSQL := range tables {
		if _, err := db.Exec(tableSQL); err != nil {
			return fmt.Errorf("failed to create table for query [%s]: %w", tableSQL, err)
		}
	}

	for _, indexSQL := range indexes {
		if _, err := db.Exec(indexSQL); err != nil {
			return fmt.Errorf("failed to create index for query [%s]: %w", indexSQL, err)
		}
	}
	return nil
}
