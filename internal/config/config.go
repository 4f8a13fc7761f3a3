package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment variable overrides
const EnvPrefix = "EMAIL_CATEGORIZER"

// legacyEnv maps environment variable names used by earlier deployments to config keys
var legacyEnv = map[string]string{
	"config_store.table": "CONFIGDB_NAME",
	"activity_log.table": "LOGGIN_DB",
	"config_store.key":   "INBOUND_EMAIL_ADDRESS",
}

// Config represents the application configuration
type Config struct {
	v *viper.Viper
}

// New creates a new configuration instance
func New() (*Config, error) {
	return NewFromFile("")
}

// NewFromFile creates a configuration instance. An empty path searches the default locations.
func NewFromFile(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/llm-email-categorizer/")
		v.AddConfigPath("$HOME/.llm-email-categorizer")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	// Set defaults
	setDefaults(v)

	// Environment variables
	v.AutomaticEnv()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for key, env := range legacyEnv {
		if err := v.BindEnv(key, EnvPrefix+"_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, using defaults
	}

	return &Config{v: v}, nil
}

// NewFromViper creates a new configuration instance from an existing Viper instance
func NewFromViper(v *viper.Viper) *Config {
	return &Config{v: v}
}

// NewEmptyViper creates a new Viper instance with defaults
func NewEmptyViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("aws.region", "")

	// Pipeline configuration store
	v.SetDefault("config_store.type", "dynamodb")
	v.SetDefault("config_store.table", "")
	v.SetDefault("config_store.key", "")
	v.SetDefault("config_store.key_attribute", "inboundEmailAddress")
	v.SetDefault("config_store.file", "")

	// Pipeline defaults
	v.SetDefault("pipeline.batch_size", 10)
	v.SetDefault("pipeline.max_attempts", 3)
	v.SetDefault("pipeline.backoff_base", 2.0)
	v.SetDefault("pipeline.extraction_failure", "abort")
	v.SetDefault("pipeline.max_body_size", 0)

	// Activity log defaults
	v.SetDefault("activity_log.type", "dynamodb")
	v.SetDefault("activity_log.table", "")
	v.SetDefault("activity_log.sqlite_path", "/data/complaint_log.db")
	v.SetDefault("activity_log.mysql_dsn", "user:password@tcp(localhost:3306)/email_categorizer")

	// Notifier defaults
	v.SetDefault("notifier.type", "sns")

	// Metrics defaults
	v.SetDefault("metrics.type", "cloudwatch")
	v.SetDefault("metrics.namespace", "GenAIEmailCategorizer")
	v.SetDefault("metrics.error_metric", "LambdaErrors")

	// Mailer defaults
	v.SetDefault("mailer.enabled", false)
	v.SetDefault("mailer.type", "ses")
	v.SetDefault("mailer.from", "")
	v.SetDefault("mailer.smtp_address", "localhost")
	v.SetDefault("mailer.smtp_port", 25)
	v.SetDefault("mailer.subject", "We have received your email")

	// Hosted model API keys
	v.SetDefault("openai.api_key", "")
	v.SetDefault("gemini.api_key", "")

	// SMTP intake defaults
	v.SetDefault("intake.listen_address", "0.0.0.0:10025")
	v.SetDefault("intake.domain", "localhost")
	v.SetDefault("intake.allowed_recipients", []string{})
	v.SetDefault("intake.max_message_bytes", 30*1024*1024)
	v.SetDefault("intake.bucket", "intake")
	v.SetDefault("intake.process_timeout", "2m")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// GetString gets a string value from the configuration
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt gets an integer value from the configuration
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// GetFloat64 gets a float64 value from the configuration
func (c *Config) GetFloat64(key string) float64 {
	return c.v.GetFloat64(key)
}

// GetBool gets a boolean value from the configuration
func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

// GetStringSlice gets a string slice value from the configuration
func (c *Config) GetStringSlice(key string) []string {
	return c.v.GetStringSlice(key)
}

// GetDuration gets a duration value from the configuration
func (c *Config) GetDuration(key string) (time.Duration, error) {
	return time.ParseDuration(c.GetString(key))
}

// GetViper returns the underlying Viper instance
func (c *Config) GetViper() *viper.Viper {
	return c.v
}
