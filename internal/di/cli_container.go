package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/llm-email-categorizer/internal/adapters/activitylog"
	"github.com/mikey/llm-email-categorizer/internal/adapters/objects"
	"github.com/mikey/llm-email-categorizer/internal/config"
	"github.com/mikey/llm-email-categorizer/internal/core"
	"github.com/mikey/llm-email-categorizer/internal/factory"
	"github.com/mikey/llm-email-categorizer/internal/logging"
)

// CLIFlags contains all command line flags for the CLI application
type CLIFlags struct {
	// Configuration flags
	ConfigFile   string
	PipelineFile string

	// Model flags
	Region       string
	OpenAIAPIKey string
	GeminiAPIKey string

	// Pipeline flags
	BatchSize         int
	MaxBodySize       int
	ExtractionFailure string

	// Publish sends complaints to the configured topics instead of logging them
	Publish bool

	// Output flags
	Verbose bool
	JSONLog bool
}

// BuildCLIContainer creates and configures a dependency injection container
// for the CLI application. Complaints are kept in memory so they can be printed.
func BuildCLIContainer(flags *CLIFlags) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(flags *CLIFlags) (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func(flags *CLIFlags, logger *zap.Logger) (*config.Config, error) {
		if flags.ConfigFile != "" {
			cfg, err := config.NewFromFile(flags.ConfigFile)
			if err != nil {
				return nil, err
			}
			logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
			applyCLIOverrides(cfg, flags)
			return cfg, nil
		}

		// Create config from command line flags
		cfg := config.NewFromViper(config.NewEmptyViper())
		applyCLIOverrides(cfg, flags)
		return cfg, nil
	}); err != nil {
		return nil, err
	}

	if err := providePipeline(container); err != nil {
		return nil, err
	}

	// Register in-memory activity log
	if err := container.Provide(activitylog.NewMemoryLog); err != nil {
		return nil, err
	}
	if err := container.Provide(func(l *activitylog.MemoryLog) core.ActivityLogger {
		return l
	}); err != nil {
		return nil, err
	}

	// Register in-memory object store
	if err := container.Provide(func(f *factory.ObjectsFactory) *objects.MemoryStore {
		return f.CreateMemoryStore()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(store *objects.MemoryStore) core.ObjectFetcher {
		return store
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// applyCLIOverrides layers command line flags over the loaded configuration
func applyCLIOverrides(cfg *config.Config, flags *CLIFlags) {
	v := cfg.GetViper()

	v.Set("activity_log.type", "memory")
	v.Set("metrics.type", "log")
	v.Set("mailer.enabled", false)
	if flags.Publish {
		v.Set("notifier.type", "sns")
	} else {
		v.Set("notifier.type", "log")
	}

	if flags.PipelineFile != "" {
		v.Set("config_store.type", "file")
		v.Set("config_store.file", flags.PipelineFile)
	}
	if flags.Region != "" {
		v.Set("aws.region", flags.Region)
	}
	if flags.OpenAIAPIKey != "" {
		v.Set("openai.api_key", flags.OpenAIAPIKey)
	}
	if flags.GeminiAPIKey != "" {
		v.Set("gemini.api_key", flags.GeminiAPIKey)
	}
	if flags.BatchSize > 0 {
		v.Set("pipeline.batch_size", flags.BatchSize)
	}
	if flags.MaxBodySize > 0 {
		v.Set("pipeline.max_body_size", flags.MaxBodySize)
	}
	if flags.ExtractionFailure != "" {
		v.Set("pipeline.extraction_failure", flags.ExtractionFailure)
	}
}
