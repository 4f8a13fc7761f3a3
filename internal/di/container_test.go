package di

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikey/llm-email-categorizer/internal/adapters/activitylog"
	"github.com/mikey/llm-email-categorizer/internal/adapters/objects"
	"github.com/mikey/llm-email-categorizer/internal/config"
	"github.com/mikey/llm-email-categorizer/internal/core"
	"github.com/mikey/llm-email-categorizer/internal/ports"
)

func TestApplyCLIOverrides(t *testing.T) {
	cfg := config.NewFromViper(config.NewEmptyViper())
	applyCLIOverrides(cfg, &CLIFlags{
		PipelineFile:      "pipeline.yaml",
		Region:            "eu-west-1",
		BatchSize:         5,
		ExtractionFailure: "skip",
	})

	assert.Equal(t, "memory", cfg.GetString("activity_log.type"))
	assert.Equal(t, "log", cfg.GetString("notifier.type"))
	assert.Equal(t, "log", cfg.GetString("metrics.type"))
	assert.False(t, cfg.GetBool("mailer.enabled"))
	assert.Equal(t, "file", cfg.GetString("config_store.type"))
	assert.Equal(t, "pipeline.yaml", cfg.GetString("config_store.file"))
	assert.Equal(t, "eu-west-1", cfg.GetString("aws.region"))
	assert.Equal(t, 5, cfg.GetPipeline().BatchSize)
	assert.Equal(t, 10, config.NewFromViper(config.NewEmptyViper()).GetPipeline().BatchSize)

	settings, err := cfg.GetOrchestration()
	require.NoError(t, err)
	assert.Equal(t, core.ExtractionSkip, settings.ExtractionPolicy)

	applyCLIOverrides(cfg, &CLIFlags{Publish: true})
	assert.Equal(t, "sns", cfg.GetString("notifier.type"))
}

func TestBuildCLIContainer(t *testing.T) {
	pipelineFile := filepath.Join(t.TempDir(), "pipeline.yaml")
	require.NoError(t, os.WriteFile(pipelineFile, []byte("model_id: amazon.nova-lite-v1:0\ninstructions: classify\n"), 0o600))

	container, err := BuildCLIContainer(&CLIFlags{
		PipelineFile: pipelineFile,
		Region:       "us-east-1",
	})
	require.NoError(t, err)

	err = container.Invoke(func(
		runner ports.InvocationRunner,
		store *objects.MemoryStore,
		log *activitylog.MemoryLog,
		activity core.ActivityLogger,
		fetcher core.ObjectFetcher,
		configs core.ConfigProvider,
	) {
		assert.NotNil(t, runner)
		assert.Same(t, log, activity)
		assert.Same(t, store, fetcher)

		cfg, err := configs.GetConfig(context.Background())
		require.NoError(t, err)
		assert.Equal(t, core.FamilyNova, cfg.Family)
	})
	require.NoError(t, err)
}
