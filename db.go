package main

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

// AuditEntry is one row of the extraction audit trail. The trail is
// write-only from the pipeline's perspective: nothing feeds it back into
// later invocations.
type AuditEntry struct {
	InputMode     string // "numeric" or "narrative"
	InputChars    int
	Outcome       string // "ok" or "error"
	ErrMessage    string
	FieldCount    int
	ErrorIssues   int
	WarningIssues int
	InputTokens   int64
	OutputTokens  int64
}

type AuditDB struct {
	db *sql.DB
}

func InitAuditDB(path string) (*AuditDB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS extraction_audit (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		input_mode     TEXT NOT NULL,
		input_chars    INTEGER NOT NULL DEFAULT 0,
		outcome        TEXT NOT NULL,
		err_message    TEXT DEFAULT '',
		field_count    INTEGER NOT NULL DEFAULT 0,
		error_issues   INTEGER NOT NULL DEFAULT 0,
		warning_issues INTEGER NOT NULL DEFAULT 0,
		input_tokens   INTEGER NOT NULL DEFAULT 0,
		output_tokens  INTEGER NOT NULL DEFAULT 0,
		processed_at   DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_extraction_audit_processed_at ON extraction_audit(processed_at);
	CREATE INDEX IF NOT EXISTS idx_extraction_audit_outcome ON extraction_audit(outcome);
	`
	if _, err := db.Exec(schema); err != nil {
		return nil, err
	}

	return &AuditDB{db: db}, nil
}

func (a *AuditDB) RecordExtraction(entry AuditEntry) error {
	_, err := a.db.Exec(
		`INSERT INTO extraction_audit (input_mode, input_chars, outcome, err_message, field_count, error_issues, warning_issues, input_tokens, output_tokens)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.InputMode, entry.InputChars, entry.Outcome, entry.ErrMessage,
		entry.FieldCount, entry.ErrorIssues, entry.WarningIssues,
		entry.InputTokens, entry.OutputTokens,
	)
	return err
}

func (a *AuditDB) Close() error {
	return a.db.Close()
}
