package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mikey/llm-email-categorizer/internal/core"
)

func TestGenerateFormatBuildRequest(t *testing.T) {
	body, err := GenerateFormat{}.BuildRequest(core.ClassificationRequest{
		ModelID:      "gemini-1.5-flash",
		Temperature:  1,
		Instructions: "classify",
		Payload:      "[]",
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"systemInstruction": "classify",
		"text": "[]",
		"temperature": 1,
		"topP": 0.8,
		"maxOutputTokens": 2048
	}`, string(body))
}

func TestGenerateFormatParseResponse(t *testing.T) {
	text, err := GenerateFormat{}.ParseResponse([]byte(`{"text":"[]","finishReason":"FinishReasonStop"}`))
	require.NoError(t, err)
	assert.Equal(t, "[]", text)

	_, err = GenerateFormat{}.ParseResponse([]byte(`{"text":""}`))
	assert.True(t, errors.Is(err, core.ErrEmptyResponse))
}

func TestEnvelopeJoinsTextParts(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text(`[{"category":`), genai.Text(`"billing"}]`)}},
		}},
	}
	assert.Equal(t, `[{"category":"billing"}]`, envelope(resp).Text)
	assert.Empty(t, envelope(&genai.GenerateContentResponse{}).Text)
	assert.Empty(t, envelope(nil).Text)
}

type fakeGenerator struct {
	modelID string
	model   *genai.GenerativeModel
	parts   []genai.Part
	resp    *genai.GenerateContentResponse
	err     error
}

func (f *fakeGenerator) runtime() *GeminiRuntime {
	return &GeminiRuntime{
		model: func(modelID string) *genai.GenerativeModel {
			f.modelID = modelID
			f.model = &genai.GenerativeModel{}
			return f.model
		},
		generate: func(_ context.Context, model *genai.GenerativeModel, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
			f.parts = parts
			return f.resp, f.err
		},
		logger: zap.NewNop(),
	}
}

func TestGeminiRuntimeInvoke(t *testing.T) {
	gen := &fakeGenerator{resp: &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content:      &genai.Content{Parts: []genai.Part{genai.Text(`[{"category":"billing"}]`)}},
			FinishReason: genai.FinishReasonStop,
		}},
	}}
	rt := gen.runtime()
	format := GenerateFormat{}

	body, err := format.BuildRequest(core.ClassificationRequest{
		ModelID:      "gemini-1.5-flash",
		Temperature:  0.3,
		Instructions: "classify",
		Payload:      "[]",
	})
	require.NoError(t, err)

	out, err := rt.Invoke(context.Background(), "gemini-1.5-flash", body)
	require.NoError(t, err)

	assert.Equal(t, "gemini-1.5-flash", gen.modelID)
	require.NotNil(t, gen.model.Temperature)
	assert.Equal(t, float32(0.3), *gen.model.Temperature)
	require.NotNil(t, gen.model.TopP)
	assert.Equal(t, float32(0.8), *gen.model.TopP)
	require.NotNil(t, gen.model.MaxOutputTokens)
	assert.Equal(t, int32(2048), *gen.model.MaxOutputTokens)
	require.NotNil(t, gen.model.SystemInstruction)
	assert.Equal(t, []genai.Part{genai.Text("classify")}, gen.model.SystemInstruction.Parts)
	assert.Equal(t, []genai.Part{genai.Text("[]")}, gen.parts)

	text, err := format.ParseResponse(out)
	require.NoError(t, err)
	assert.Equal(t, `[{"category":"billing"}]`, text)
}

func TestGeminiRuntimeInvokeErrors(t *testing.T) {
	rt := (&fakeGenerator{err: errors.New("quota exceeded")}).runtime()
	_, err := rt.Invoke(context.Background(), "gemini-1.5-flash", []byte(`{"text":"[]"}`))
	assert.ErrorContains(t, err, "quota exceeded")

	_, err = rt.Invoke(context.Background(), "gemini-1.5-flash", []byte(`nope`))
	assert.ErrorContains(t, err, "failed to unmarshal Gemini request")
}

func TestGeminiRuntimeInvokeBlockedResponseIsEmpty(t *testing.T) {
	rt := (&fakeGenerator{resp: &genai.GenerateContentResponse{}}).runtime()
	out, err := rt.Invoke(context.Background(), "gemini-1.5-flash", []byte(`{"text":"[]"}`))
	require.NoError(t, err)

	_, err = GenerateFormat{}.ParseResponse(out)
	assert.True(t, errors.Is(err, core.ErrEmptyResponse))
}

func TestGeminiRuntimeCloseWithoutClient(t *testing.T) {
	assert.NoError(t, (&fakeGenerator{}).runtime().Close())
}
