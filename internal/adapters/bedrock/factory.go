package bedrock

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"go.uber.org/zap"

	"github.com/mikey/llm-email-categorizer/internal/core"
)

// Factory creates Bedrock model backends
type Factory struct {
	awsCfg aws.Config
	logger *zap.Logger
}

// NewFactory creates a new Bedrock factory over a loaded AWS configuration
func NewFactory(awsCfg aws.Config, logger *zap.Logger) *Factory {
	return &Factory{
		awsCfg: awsCfg,
		logger: logger,
	}
}

// CreateRuntime creates a Bedrock runtime
func (f *Factory) CreateRuntime() *BedrockRuntime {
	return NewBedrockRuntime(bedrockruntime.NewFromConfig(f.awsCfg), f.logger)
}

// Register adds the Nova and Claude families, served by one runtime, to backends
func Register(backends core.Backends, runtime core.ModelRuntime) {
	backends[core.FamilyNova] = core.ModelBackend{Format: NovaFormat{}, Runtime: runtime}
	backends[core.FamilyClaude] = core.ModelBackend{Format: ClaudeFormat{}, Runtime: runtime}
}
