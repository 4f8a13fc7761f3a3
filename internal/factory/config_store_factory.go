package factory

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mikey/llm-email-categorizer/internal/adapters/configstore"
	"github.com/mikey/llm-email-categorizer/internal/config"
	"github.com/mikey/llm-email-categorizer/internal/core"
)

// ConfigStoreFactory creates pipeline configuration providers
type ConfigStoreFactory struct {
	cfg    *config.Config
	aws    *AWSFactory
	logger *zap.Logger
}

// NewConfigStoreFactory creates a new config store factory
func NewConfigStoreFactory(cfg *config.Config, aws *AWSFactory, logger *zap.Logger) *ConfigStoreFactory {
	return &ConfigStoreFactory{
		cfg:    cfg,
		aws:    aws,
		logger: logger,
	}
}

// CreateConfigProvider creates a configuration provider based on the configuration
func (f *ConfigStoreFactory) CreateConfigProvider(ctx context.Context) (core.ConfigProvider, error) {
	storeCfg := f.cfg.GetConfigStore()

	switch storeCfg.Type {
	case "dynamodb":
		if storeCfg.Table == "" || storeCfg.Key == "" {
			return nil, fmt.Errorf("config_store.table and config_store.key are required for dynamodb")
		}
		client, err := f.aws.DynamoDB(ctx)
		if err != nil {
			return nil, err
		}
		return configstore.NewDynamoProvider(client, storeCfg.Table, storeCfg.KeyAttribute, storeCfg.Key, f.logger), nil
	case "file":
		return configstore.NewFileProvider(storeCfg.File, f.logger), nil
	default:
		return nil, fmt.Errorf("unsupported config store type: %s", storeCfg.Type)
	}
}
