package factory

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/mikey/llm-email-categorizer/internal/adapters/activitylog"
	"github.com/mikey/llm-email-categorizer/internal/config"
	"github.com/mikey/llm-email-categorizer/internal/core"
)

// ActivityLogFactory creates activity logs based on configuration
type ActivityLogFactory struct {
	cfg    *config.Config
	aws    *AWSFactory
	logger *zap.Logger
}

// NewActivityLogFactory creates a new activity log factory
func NewActivityLogFactory(cfg *config.Config, aws *AWSFactory, logger *zap.Logger) *ActivityLogFactory {
	return &ActivityLogFactory{
		cfg:    cfg,
		aws:    aws,
		logger: logger,
	}
}

// CreateActivityLogger creates an activity log based on the configuration
func (f *ActivityLogFactory) CreateActivityLogger(ctx context.Context) (core.ActivityLogger, error) {
	logCfg := f.cfg.GetActivityLog()

	switch logCfg.Type {
	case "memory":
		return activitylog.NewMemoryLog(f.logger), nil
	case "sqlite":
		// Ensure directory exists
		if err := os.MkdirAll(filepath.Dir(logCfg.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		return activitylog.NewSQLiteLog(logCfg.SQLitePath, f.logger)
	case "mysql":
		return activitylog.NewMySQLLog(logCfg.MySQLDSN, f.logger)
	case "dynamodb":
		if logCfg.Table == "" {
			return nil, fmt.Errorf("activity_log.table is required for dynamodb")
		}
		client, err := f.aws.DynamoDB(ctx)
		if err != nil {
			return nil, err
		}
		return activitylog.NewDynamoLog(client, logCfg.Table, f.logger), nil
	default:
		return nil, fmt.Errorf("unsupported activity log type: %s", logCfg.Type)
	}
}
