package bedrock

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mikey/llm-email-categorizer/internal/core"
)

const (
	novaSchemaVersion   = "messages-v1"
	novaTopP            = 0.8
	novaMaxTokens       = 2048
	novaMicroMaxTokens  = 1024
	novaMicroModelToken = "micro"
)

type novaText struct {
	Text string `json:"text"`
}

type novaMessage struct {
	Role    string     `json:"role"`
	Content []novaText `json:"content"`
}

type novaInferenceConfig struct {
	MaxTokens   int     `json:"maxTokens"`
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"topP"`
}

type novaRequest struct {
	SchemaVersion   string              `json:"schemaVersion"`
	Messages        []novaMessage       `json:"messages"`
	System          []novaText          `json:"system"`
	InferenceConfig novaInferenceConfig `json:"inferenceConfig"`
}

type novaResponse struct {
	Output struct {
		Message struct {
			Content []novaText `json:"content"`
		} `json:"message"`
	} `json:"output"`
}

// NovaFormat renders requests for Amazon Nova models
type NovaFormat struct{}

// Family returns the model family
func (NovaFormat) Family() core.ModelFamily { return core.FamilyNova }

// NovaMaxTokens returns the output token limit for a Nova model id
func NovaMaxTokens(modelID string) int {
	if strings.Contains(strings.ToLower(modelID), novaMicroModelToken) {
		return novaMicroMaxTokens
	}
	return novaMaxTokens
}

// BuildRequest renders a Nova messages-v1 request
func (NovaFormat) BuildRequest(req core.ClassificationRequest) ([]byte, error) {
	body, err := json.Marshal(novaRequest{
		SchemaVersion: novaSchemaVersion,
		Messages: []novaMessage{
			{Role: "user", Content: []novaText{{Text: req.Payload}}},
		},
		System: []novaText{{Text: req.Instructions}},
		InferenceConfig: novaInferenceConfig{
			MaxTokens:   NovaMaxTokens(req.ModelID),
			Temperature: req.Temperature,
			TopP:        novaTopP,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal Nova request: %w", err)
	}
	return body, nil
}

// ParseResponse reads the text at output.message.content[0].text
func (NovaFormat) ParseResponse(body []byte) (string, error) {
	var resp novaResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to unmarshal Nova response: %w", err)
	}
	content := resp.Output.Message.Content
	if len(content) == 0 || content[0].Text == "" {
		return "", core.ErrEmptyResponse
	}
	return content[0].Text, nil
}
