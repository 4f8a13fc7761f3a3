package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikey/llm-email-categorizer/internal/core"
)

func TestDefaults(t *testing.T) {
	cfg := NewFromViper(NewEmptyViper())

	p := cfg.GetPipeline()
	assert.Equal(t, 10, p.BatchSize)
	assert.Equal(t, 3, p.MaxAttempts)
	assert.Equal(t, 2.0, p.BackoffBase)
	assert.Equal(t, "abort", p.ExtractionFailure)

	m := cfg.GetMetrics()
	assert.Equal(t, "GenAIEmailCategorizer", m.Namespace)
	assert.Equal(t, "LambdaErrors", m.ErrorMetric)

	assert.Equal(t, "inboundEmailAddress", cfg.GetConfigStore().KeyAttribute)
	assert.False(t, cfg.GetMailer().Enabled)
	assert.Equal(t, int64(30*1024*1024), cfg.GetIntake().MaxMessageBytes)
}

func TestNewFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
pipeline:
  batch_size: 5
  extraction_failure: skip
activity_log:
  type: sqlite
intake:
  allowed_recipients:
    - support@example.com
`), 0o600))

	cfg, err := NewFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.GetPipeline().BatchSize)
	assert.Equal(t, "sqlite", cfg.GetActivityLog().Type)
	assert.Equal(t, []string{"support@example.com"}, cfg.GetIntake().AllowedRecipients)

	settings, err := cfg.GetOrchestration()
	require.NoError(t, err)
	assert.Equal(t, core.ExtractionSkip, settings.ExtractionPolicy)
	assert.Equal(t, "We have received your email", settings.ReplySubject)
}

func TestLegacyEnvAliases(t *testing.T) {
	t.Setenv("CONFIGDB_NAME", "email-config")
	t.Setenv("LOGGIN_DB", "complaints")
	t.Setenv("INBOUND_EMAIL_ADDRESS", "support@example.com")

	cfg, err := NewFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Nil(t, cfg)

	cfg, err = New()
	require.NoError(t, err)
	assert.Equal(t, "email-config", cfg.GetConfigStore().Table)
	assert.Equal(t, "support@example.com", cfg.GetConfigStore().Key)
	assert.Equal(t, "complaints", cfg.GetActivityLog().Table)
}

func TestPrefixedEnvOverrides(t *testing.T) {
	t.Setenv("EMAIL_CATEGORIZER_PIPELINE_BATCH_SIZE", "7")
	t.Setenv("EMAIL_CATEGORIZER_CONFIG_STORE_TABLE", "primary")
	t.Setenv("CONFIGDB_NAME", "legacy")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.GetPipeline().BatchSize)
	assert.Equal(t, "primary", cfg.GetConfigStore().Table)
}

func TestGetOrchestration_InvalidPolicy(t *testing.T) {
	v := NewEmptyViper()
	v.Set("pipeline.extraction_failure", "retry")

	_, err := NewFromViper(v).GetOrchestration()
	assert.Error(t, err)
}
