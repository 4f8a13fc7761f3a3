package configstore

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mikey/llm-email-categorizer/internal/core"
)

// fileConfig is the on-disk shape of the pipeline configuration
type fileConfig struct {
	ModelID        string               `mapstructure:"model_id"`
	ModelFamily    string               `mapstructure:"model_family"`
	Temperature    float64              `mapstructure:"temperature"`
	Instructions   string               `mapstructure:"instructions"`
	CategoryTopics []core.CategoryTopic `mapstructure:"category_topics"`
	ReplyTemplates map[string]string    `mapstructure:"reply_templates"`
}

// FileProvider loads the pipeline configuration from a YAML or JSON file
type FileProvider struct {
	path   string
	logger *zap.Logger
}

var _ core.ConfigProvider = (*FileProvider)(nil)

// NewFileProvider creates a provider reading path on every invocation
func NewFileProvider(path string, logger *zap.Logger) *FileProvider {
	return &FileProvider{
		path:   path,
		logger: logger,
	}
}

// GetConfig reads the file. A missing file is ErrConfigMissing.
func (p *FileProvider) GetConfig(_ context.Context) (*core.PipelineConfig, error) {
	if p.path == "" {
		return nil, fmt.Errorf("%w: no configuration file set", core.ErrConfigMissing)
	}
	if _, err := os.Stat(p.path); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", core.ErrConfigMissing, p.path)
	}

	v := viper.New()
	v.SetConfigFile(p.path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read pipeline configuration: %w", err)
	}

	var fc fileConfig
	if err := v.Unmarshal(&fc); err != nil {
		return nil, fmt.Errorf("failed to decode pipeline configuration: %w", err)
	}

	cfg, err := build(fc.ModelID, fc.ModelFamily, fc.Temperature, fc.Instructions, fc.CategoryTopics, fc.ReplyTemplates)
	if err != nil {
		return nil, err
	}

	p.logger.Debug("Loaded pipeline configuration",
		zap.String("file", p.path),
		zap.String("model_id", cfg.ModelID))
	return cfg, nil
}
