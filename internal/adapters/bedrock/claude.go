package bedrock

import (
	"encoding/json"
	"fmt"

	"github.com/mikey/llm-email-categorizer/internal/core"
)

const (
	claudeAnthropicVersion = "bedrock-2023-05-31"
	claudeMaxTokens        = 2048
)

type claudeContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type claudeMessage struct {
	Role    string          `json:"role"`
	Content []claudeContent `json:"content"`
}

type claudeRequest struct {
	AnthropicVersion string          `json:"anthropic_version"`
	MaxTokens        int             `json:"max_tokens"`
	Temperature      float64         `json:"temperature"`
	Messages         []claudeMessage `json:"messages"`
}

type claudeResponse struct {
	Content []claudeContent `json:"content"`
}

// ClaudeFormat renders requests for Anthropic Claude models on Bedrock
type ClaudeFormat struct{}

// Family returns the model family
func (ClaudeFormat) Family() core.ModelFamily { return core.FamilyClaude }

// BuildRequest renders a messages API request with the instructions and the
// batch as two text segments of a single user message
func (ClaudeFormat) BuildRequest(req core.ClassificationRequest) ([]byte, error) {
	body, err := json.Marshal(claudeRequest{
		AnthropicVersion: claudeAnthropicVersion,
		MaxTokens:        claudeMaxTokens,
		Temperature:      req.Temperature,
		Messages: []claudeMessage{
			{
				Role: "user",
				Content: []claudeContent{
					{Type: "text", Text: req.Instructions},
					{Type: "text", Text: req.Payload},
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal Claude request: %w", err)
	}
	return body, nil
}

// ParseResponse reads the text at content[0].text
func (ClaudeFormat) ParseResponse(body []byte) (string, error) {
	var resp claudeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to unmarshal Claude response: %w", err)
	}
	if len(resp.Content) == 0 || resp.Content[0].Text == "" {
		return "", core.ErrEmptyResponse
	}
	return resp.Content[0].Text, nil
}
