package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"

	"github.com/mikey/llm-email-categorizer/internal/core"
)

const (
	geminiMaxOutputTokens = 2048
	geminiTopP            = 0.8
)

// generateRequest is the JSON request body rendered for Gemini models
type generateRequest struct {
	SystemInstruction string  `json:"systemInstruction"`
	Text              string  `json:"text"`
	Temperature       float64 `json:"temperature"`
	TopP              float64 `json:"topP"`
	MaxOutputTokens   int     `json:"maxOutputTokens"`
}

// generateResponse is the JSON envelope the runtime returns
type generateResponse struct {
	Text         string `json:"text"`
	FinishReason string `json:"finishReason,omitempty"`
}

// generateFunc performs one content generation call on a configured model
type generateFunc func(ctx context.Context, model *genai.GenerativeModel, parts ...genai.Part) (*genai.GenerateContentResponse, error)

// GeminiRuntime is an implementation of the ModelRuntime interface using Google Gemini
type GeminiRuntime struct {
	client   *genai.Client
	model    func(modelID string) *genai.GenerativeModel
	generate generateFunc
	logger   *zap.Logger
}

// NewGeminiRuntime creates a new Gemini runtime
func NewGeminiRuntime(client *genai.Client, logger *zap.Logger) *GeminiRuntime {
	return &GeminiRuntime{
		client:   client,
		model:    client.GenerativeModel,
		generate: generateContent,
		logger:   logger,
	}
}

func generateContent(ctx context.Context, model *genai.GenerativeModel, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	return model.GenerateContent(ctx, parts...)
}

// Close closes the Gemini client
func (r *GeminiRuntime) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

// Invoke generates content for a rendered request and returns the JSON envelope
func (r *GeminiRuntime) Invoke(ctx context.Context, modelID string, body []byte) ([]byte, error) {
	var req generateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, fmt.Errorf("failed to unmarshal Gemini request: %w", err)
	}

	model := r.model(modelID)
	model.SetTemperature(float32(req.Temperature))
	model.SetTopP(float32(req.TopP))
	model.SetMaxOutputTokens(int32(req.MaxOutputTokens))
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.SystemInstruction)}}

	resp, err := r.generate(ctx, model, genai.Text(req.Text))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content with Gemini: %w", err)
	}

	out := envelope(resp)
	r.logger.Debug("Gemini model responded",
		zap.String("model_id", modelID),
		zap.String("finish_reason", out.FinishReason))
	return json.Marshal(out)
}

// envelope collects the text parts of the first candidate
func envelope(resp *genai.GenerateContentResponse) generateResponse {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return generateResponse{}
	}
	candidate := resp.Candidates[0]
	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return generateResponse{Text: b.String(), FinishReason: candidate.FinishReason.String()}
}

// GenerateFormat renders Gemini requests with the instructions as the system instruction
type GenerateFormat struct{}

// Family returns the model family
func (GenerateFormat) Family() core.ModelFamily { return core.FamilyGemini }

// BuildRequest renders a Gemini request
func (GenerateFormat) BuildRequest(req core.ClassificationRequest) ([]byte, error) {
	body, err := json.Marshal(generateRequest{
		SystemInstruction: req.Instructions,
		Text:              req.Payload,
		Temperature:       req.Temperature,
		TopP:              geminiTopP,
		MaxOutputTokens:   geminiMaxOutputTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal Gemini request: %w", err)
	}
	return body, nil
}

// ParseResponse reads the generated text from the envelope
func (GenerateFormat) ParseResponse(body []byte) (string, error) {
	var resp generateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to unmarshal Gemini response: %w", err)
	}
	if resp.Text == "" {
		return "", core.ErrEmptyResponse
	}
	return resp.Text, nil
}
