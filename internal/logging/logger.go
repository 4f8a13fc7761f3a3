package logging

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mikey/llm-email-categorizer/internal/config"
)

// ServiceName is attached to every log entry of the long-running and Lambda binaries
const ServiceName = "email-categorizer"

// InitLogger initializes a logger based on configuration. Inside Lambda the
// function name is added as a field.
func InitLogger(cfg *config.Config) (*zap.Logger, error) {
	fields := map[string]interface{}{"service": ServiceName}
	if fn := os.Getenv("AWS_LAMBDA_FUNCTION_NAME"); fn != "" {
		fields["function"] = fn
	}
	return newLogger(ParseLevel(cfg.GetString("logging.level")), cfg.GetString("logging.format") == "json", fields)
}

// InitConsoleLogger initializes a console-friendly logger
func InitConsoleLogger(verbose bool, jsonFormat bool) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	return newLogger(level, jsonFormat, nil)
}

// ParseLevel maps a configured level name to a zap level, defaulting to info
func ParseLevel(name string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func newLogger(level zapcore.Level, jsonFormat bool, fields map[string]interface{}) (*zap.Logger, error) {
	logConfig := zap.NewDevelopmentConfig()
	logConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	if jsonFormat {
		logConfig = zap.NewProductionConfig()
		logConfig.EncoderConfig.TimeKey = "timestamp"
		logConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	logConfig.Level = zap.NewAtomicLevelAt(level)
	logConfig.InitialFields = fields

	logger, err := logConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
