package activitylog

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

var sqliteDialect = sqlDialect{
	name: "sqlite",
	createTable: `
		CREATE TABLE IF NOT EXISTS complaint_log (
			message_id TEXT PRIMARY KEY,
			message_ref TEXT,
			category TEXT,
			urgency TEXT,
			email_address TEXT,
			timestamp TEXT,
			email_content TEXT,
			summary TEXT
		)
	`,
	upsert: `
		INSERT OR REPLACE INTO complaint_log
			(message_id, message_ref, category, urgency, email_address, timestamp, email_content, summary)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
}

// NewSQLiteLog opens or creates a SQLite activity log
func NewSQLiteLog(dbPath string, logger *zap.Logger) (*SQLLog, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	return newSQLLog(db, sqliteDialect, logger)
}
