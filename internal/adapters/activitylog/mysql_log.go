package activitylog

import (
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

var mysqlDialect = sqlDialect{
	name: "mysql",
	createTable: `
		CREATE TABLE IF NOT EXISTS complaint_log (
			message_id VARCHAR(255) PRIMARY KEY,
			message_ref VARCHAR(255),
			category VARCHAR(255),
			urgency VARCHAR(32),
			email_address VARCHAR(320),
			timestamp VARCHAR(64),
			email_content MEDIUMTEXT,
			summary TEXT,
			INDEX idx_category (category)
		)
	`,
	upsert: `
		INSERT INTO complaint_log
			(message_id, message_ref, category, urgency, email_address, timestamp, email_content, summary)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			message_ref = VALUES(message_ref),
			category = VALUES(category),
			urgency = VALUES(urgency),
			email_address = VALUES(email_address),
			timestamp = VALUES(timestamp),
			email_content = VALUES(email_content),
			summary = VALUES(summary)
	`,
}

// NewMySQLLog connects to MySQL and creates the activity table if needed
func NewMySQLLog(dsn string, logger *zap.Logger) (*SQLLog, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	return newSQLLog(db, mysqlDialect, logger)
}
