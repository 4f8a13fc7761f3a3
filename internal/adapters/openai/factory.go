package openai

import (
	"fmt"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/mikey/llm-email-categorizer/internal/core"
)

// Factory creates OpenAI model backends
type Factory struct {
	apiKey string
	logger *zap.Logger
}

// NewFactory creates a new factory for OpenAI runtimes
func NewFactory(apiKey string, logger *zap.Logger) *Factory {
	return &Factory{
		apiKey: apiKey,
		logger: logger,
	}
}

// CreateRuntime creates a new OpenAI runtime
func (f *Factory) CreateRuntime() (*OpenAIRuntime, error) {
	if f.apiKey == "" {
		return nil, fmt.Errorf("openai.api_key is required")
	}
	return NewOpenAIRuntime(openai.NewClient(f.apiKey), f.logger), nil
}

// Register adds the OpenAI family to backends
func Register(backends core.Backends, runtime core.ModelRuntime) {
	backends[core.FamilyOpenAI] = core.ModelBackend{Format: ChatFormat{}, Runtime: runtime}
}
