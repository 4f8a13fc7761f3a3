package factory

import (
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/mikey/llm-email-categorizer/internal/adapters/bedrock"
	"github.com/mikey/llm-email-categorizer/internal/adapters/gemini"
	"github.com/mikey/llm-email-categorizer/internal/adapters/openai"
	"github.com/mikey/llm-email-categorizer/internal/config"
	"github.com/mikey/llm-email-categorizer/internal/core"
)

// ModelFactory creates the registry of model backends
type ModelFactory struct {
	cfg    *config.Config
	aws    *AWSFactory
	logger *zap.Logger

	closers []io.Closer
}

// NewModelFactory creates a new model factory
func NewModelFactory(cfg *config.Config, aws *AWSFactory, logger *zap.Logger) *ModelFactory {
	return &ModelFactory{
		cfg:    cfg,
		aws:    aws,
		logger: logger,
	}
}

// CreateBackends registers every model family that can be served with the
// current configuration. Bedrock is always registered; OpenAI and Gemini only
// when their API keys are set.
func (f *ModelFactory) CreateBackends(ctx context.Context) (core.Backends, error) {
	backends := core.Backends{}

	awsCfg, err := f.aws.Config(ctx)
	if err != nil {
		return nil, err
	}
	bedrock.Register(backends, bedrock.NewFactory(awsCfg, f.logger).CreateRuntime())

	if apiKey := f.cfg.GetString("openai.api_key"); apiKey != "" {
		openaiRuntime, err := openai.NewFactory(apiKey, f.logger).CreateRuntime()
		if err != nil {
			return nil, err
		}
		openai.Register(backends, openaiRuntime)
	}

	if apiKey := f.cfg.GetString("gemini.api_key"); apiKey != "" {
		geminiRuntime, err := gemini.NewFactory(apiKey, f.logger).CreateRuntime(ctx)
		if err != nil {
			return nil, err
		}
		f.closers = append(f.closers, geminiRuntime)
		gemini.Register(backends, geminiRuntime)
	}

	families := make([]string, 0, len(backends))
	for family := range backends {
		families = append(families, string(family))
	}
	f.logger.Info("Registered model backends", zap.Strings("families", families))
	return backends, nil
}

// CreateClassifier creates the batch classifier with the configured retry policy
func (f *ModelFactory) CreateClassifier(backends core.Backends) *core.Classifier {
	p := f.cfg.GetPipeline()
	return core.NewClassifier(backends, f.logger, p.MaxAttempts, p.BackoffBase)
}

// Close releases runtimes holding client connections
func (f *ModelFactory) Close() error {
	var firstErr error
	for _, c := range f.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	f.closers = nil
	return firstErr
}
