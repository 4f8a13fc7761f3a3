package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/mikey/llm-email-categorizer/internal/core"
)

const openAIMaxTokens = 2048

// ChatCompleter is the subset of the OpenAI client used here
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIRuntime is an implementation of the ModelRuntime interface using OpenAI chat completions
type OpenAIRuntime struct {
	client ChatCompleter
	logger *zap.Logger
}

// NewOpenAIRuntime creates a new OpenAI runtime
func NewOpenAIRuntime(client ChatCompleter, logger *zap.Logger) *OpenAIRuntime {
	return &OpenAIRuntime{
		client: client,
		logger: logger,
	}
}

// Invoke sends a chat completion request and returns the JSON response
func (r *OpenAIRuntime) Invoke(ctx context.Context, modelID string, body []byte) ([]byte, error) {
	var req openai.ChatCompletionRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, fmt.Errorf("failed to unmarshal OpenAI request: %w", err)
	}
	req.Model = modelID

	resp, err := r.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion with OpenAI: %w", err)
	}

	r.logger.Debug("OpenAI model responded",
		zap.String("model_id", modelID),
		zap.String("response_id", resp.ID),
		zap.Int("choices", len(resp.Choices)))
	return json.Marshal(resp)
}

// ChatFormat renders chat completion requests with the instructions as the system message
type ChatFormat struct{}

// Family returns the model family
func (ChatFormat) Family() core.ModelFamily { return core.FamilyOpenAI }

// BuildRequest renders a chat completion request
func (ChatFormat) BuildRequest(req core.ClassificationRequest) ([]byte, error) {
	body, err := json.Marshal(openai.ChatCompletionRequest{
		Model: req.ModelID,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: req.Instructions,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: req.Payload,
			},
		},
		MaxTokens:   openAIMaxTokens,
		Temperature: chatTemperature(req.Temperature),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal OpenAI request: %w", err)
	}
	return body, nil
}

// chatTemperature maps a configured temperature onto the request field.
// The field is omitted when zero, which the API reads as its default of 1,
// so an explicit zero is sent as the smallest positive float32.
func chatTemperature(t float64) float32 {
	if t == 0 {
		return math.SmallestNonzeroFloat32
	}
	return float32(t)
}

// ParseResponse reads the content of the first choice
func (ChatFormat) ParseResponse(body []byte) (string, error) {
	var resp openai.ChatCompletionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to unmarshal OpenAI response: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", core.ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}
