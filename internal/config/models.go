package config

import (
	"github.com/mikey/llm-email-categorizer/internal/core"
)

// ConfigStoreConfig locates the pipeline configuration record
type ConfigStoreConfig struct {
	Type         string
	Table        string
	Key          string
	KeyAttribute string
	File         string
}

// PipelineSettings holds the orchestration and retry settings
type PipelineSettings struct {
	BatchSize         int
	MaxAttempts       int
	BackoffBase       float64
	ExtractionFailure string
	MaxBodySize       int
}

// ActivityLogConfig represents the configuration for the activity log
type ActivityLogConfig struct {
	Type       string
	Table      string
	SQLitePath string
	MySQLDSN   string
}

// MetricsConfig represents the configuration for failure metrics
type MetricsConfig struct {
	Type        string
	Namespace   string
	ErrorMetric string
}

// MailerConfig represents the configuration for acknowledgement mail
type MailerConfig struct {
	Enabled     bool
	Type        string
	From        string
	SMTPAddress string
	SMTPPort    int
	Subject     string
}

// IntakeConfig represents the configuration for the SMTP intake server
type IntakeConfig struct {
	ListenAddress     string
	Domain            string
	AllowedRecipients []string
	MaxMessageBytes   int64
	Bucket            string
}

// GetConfigStore returns the configuration store settings
func (c *Config) GetConfigStore() ConfigStoreConfig {
	return ConfigStoreConfig{
		Type:         c.GetString("config_store.type"),
		Table:        c.GetString("config_store.table"),
		Key:          c.GetString("config_store.key"),
		KeyAttribute: c.GetString("config_store.key_attribute"),
		File:         c.GetString("config_store.file"),
	}
}

// GetPipeline returns the pipeline settings
func (c *Config) GetPipeline() PipelineSettings {
	return PipelineSettings{
		BatchSize:         c.GetInt("pipeline.batch_size"),
		MaxAttempts:       c.GetInt("pipeline.max_attempts"),
		BackoffBase:       c.GetFloat64("pipeline.backoff_base"),
		ExtractionFailure: c.GetString("pipeline.extraction_failure"),
		MaxBodySize:       c.GetInt("pipeline.max_body_size"),
	}
}

// GetActivityLog returns the activity log configuration
func (c *Config) GetActivityLog() ActivityLogConfig {
	return ActivityLogConfig{
		Type:       c.GetString("activity_log.type"),
		Table:      c.GetString("activity_log.table"),
		SQLitePath: c.GetString("activity_log.sqlite_path"),
		MySQLDSN:   c.GetString("activity_log.mysql_dsn"),
	}
}

// GetMetrics returns the metrics configuration
func (c *Config) GetMetrics() MetricsConfig {
	return MetricsConfig{
		Type:        c.GetString("metrics.type"),
		Namespace:   c.GetString("metrics.namespace"),
		ErrorMetric: c.GetString("metrics.error_metric"),
	}
}

// GetMailer returns the mailer configuration
func (c *Config) GetMailer() MailerConfig {
	return MailerConfig{
		Enabled:     c.GetBool("mailer.enabled"),
		Type:        c.GetString("mailer.type"),
		From:        c.GetString("mailer.from"),
		SMTPAddress: c.GetString("mailer.smtp_address"),
		SMTPPort:    c.GetInt("mailer.smtp_port"),
		Subject:     c.GetString("mailer.subject"),
	}
}

// GetIntake returns the SMTP intake configuration
func (c *Config) GetIntake() IntakeConfig {
	return IntakeConfig{
		ListenAddress:     c.GetString("intake.listen_address"),
		Domain:            c.GetString("intake.domain"),
		AllowedRecipients: c.GetStringSlice("intake.allowed_recipients"),
		MaxMessageBytes:   c.v.GetInt64("intake.max_message_bytes"),
		Bucket:            c.GetString("intake.bucket"),
	}
}

// GetOrchestration converts the pipeline settings into core orchestrator settings
func (c *Config) GetOrchestration() (core.PipelineSettings, error) {
	p := c.GetPipeline()
	policy, err := core.ParseExtractionPolicy(p.ExtractionFailure)
	if err != nil {
		return core.PipelineSettings{}, err
	}
	m := c.GetMetrics()
	return core.PipelineSettings{
		BatchSize:        p.BatchSize,
		ExtractionPolicy: policy,
		MetricsNamespace: m.Namespace,
		ErrorMetric:      m.ErrorMetric,
		ReplySubject:     c.GetString("mailer.subject"),
	}, nil
}
