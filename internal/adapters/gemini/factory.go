package gemini

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/mikey/llm-email-categorizer/internal/core"
)

// Factory creates Gemini model backends
type Factory struct {
	apiKey string
	logger *zap.Logger
}

// NewFactory creates a new factory for Gemini runtimes
func NewFactory(apiKey string, logger *zap.Logger) *Factory {
	return &Factory{
		apiKey: apiKey,
		logger: logger,
	}
}

// CreateRuntime creates a new Gemini runtime
func (f *Factory) CreateRuntime(ctx context.Context) (*GeminiRuntime, error) {
	if f.apiKey == "" {
		return nil, fmt.Errorf("gemini.api_key is required")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(f.apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return NewGeminiRuntime(client, f.logger), nil
}

// Register adds the Gemini family to backends
func Register(backends core.Backends, runtime core.ModelRuntime) {
	backends[core.FamilyGemini] = core.ModelBackend{Format: GenerateFormat{}, Runtime: runtime}
}
