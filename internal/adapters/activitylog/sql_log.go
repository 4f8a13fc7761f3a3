package activitylog

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/mikey/llm-email-categorizer/internal/core"
)

// sqlDialect holds the statements that differ between SQL engines
type sqlDialect struct {
	name        string
	createTable string
	upsert      string
}

// SQLLog is a database/sql implementation of the ActivityLogger interface
type SQLLog struct {
	db      *sql.DB
	dialect sqlDialect
	logger  *zap.Logger
}

var _ core.ActivityLogger = (*SQLLog)(nil)

func newSQLLog(db *sql.DB, dialect sqlDialect, logger *zap.Logger) (*SQLLog, error) {
	if _, err := db.Exec(dialect.createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}
	return &SQLLog{
		db:      db,
		dialect: dialect,
		logger:  logger,
	}, nil
}

// Put upserts the complaint record for a message id
func (l *SQLLog) Put(ctx context.Context, messageID string, complaint *core.Complaint) error {
	r := NewRecord(messageID, complaint)
	_, err := l.db.ExecContext(ctx, l.dialect.upsert,
		r.MessageKey, r.MessageID, r.Category, r.Urgency, r.SenderAddress, r.Timestamp, r.EmailContent, r.Summary)
	if err != nil {
		return fmt.Errorf("failed to insert activity record: %w", err)
	}

	l.logger.Debug("Stored activity record",
		zap.String("message_id", messageID),
		zap.String("store", l.dialect.name))
	return nil
}

// Get retrieves the complaint stored for a message id
func (l *SQLLog) Get(ctx context.Context, messageID string) (*core.Complaint, error) {
	var r Record
	err := l.db.QueryRowContext(ctx, `
		SELECT message_id, message_ref, category, urgency, email_address, timestamp, email_content, summary
		FROM complaint_log
		WHERE message_id = ?
	`, messageID).Scan(&r.MessageKey, &r.MessageID, &r.Category, &r.Urgency, &r.SenderAddress, &r.Timestamp, &r.EmailContent, &r.Summary)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query activity record: %w", err)
	}
	return r.Complaint(), nil
}

// Close closes the database connection
func (l *SQLLog) Close() error {
	if err := l.db.Close(); err != nil {
		l.logger.Error("Failed to close database", zap.String("store", l.dialect.name), zap.Error(err))
		return err
	}
	return nil
}
