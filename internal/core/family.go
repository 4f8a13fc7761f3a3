package core

import (
	"fmt"
	"strings"
)

// ModelFamily tags the request/response shape a model expects
type ModelFamily string

const (
	FamilyNova   ModelFamily = "nova"
	FamilyClaude ModelFamily = "claude"
	FamilyOpenAI ModelFamily = "openai"
	FamilyGemini ModelFamily = "gemini"
)

// inferenceProfilePrefixes are the cross-region prefixes Bedrock puts in front of model ids
var inferenceProfilePrefixes = []string{"us-gov.", "us.", "eu.", "apac.", "global."}

// ParseModelFamily validates an explicit family tag
func ParseModelFamily(s string) (ModelFamily, error) {
	switch f := ModelFamily(strings.ToLower(strings.TrimSpace(s))); f {
	case FamilyNova, FamilyClaude, FamilyOpenAI, FamilyGemini:
		return f, nil
	default:
		return "", fmt.Errorf("%w: unknown model family %q", ErrUnsupportedModel, s)
	}
}

// ResolveModelFamily determines the model family once, when the configuration
// is loaded. An explicit tag takes precedence over the model id naming convention.
func ResolveModelFamily(modelID, explicit string) (ModelFamily, error) {
	if strings.TrimSpace(explicit) != "" {
		return ParseModelFamily(explicit)
	}

	id := strings.ToLower(strings.TrimSpace(modelID))
	for _, prefix := range inferenceProfilePrefixes {
		if strings.HasPrefix(id, prefix) {
			id = strings.TrimPrefix(id, prefix)
			break
		}
	}

	switch {
	case strings.HasPrefix(id, "amazon."):
		return FamilyNova, nil
	case strings.HasPrefix(id, "anthropic."):
		return FamilyClaude, nil
	case strings.HasPrefix(id, "openai."), strings.HasPrefix(id, "gpt-"),
		strings.HasPrefix(id, "o1"), strings.HasPrefix(id, "o3"), strings.HasPrefix(id, "o4"):
		return FamilyOpenAI, nil
	case strings.HasPrefix(id, "gemini"), strings.HasPrefix(id, "models/gemini"):
		return FamilyGemini, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedModel, modelID)
	}
}

// RequestFormat renders requests for, and reads responses from, one model family
type RequestFormat interface {
	Family() ModelFamily

	// BuildRequest renders the family-specific request body
	BuildRequest(req ClassificationRequest) ([]byte, error)

	// ParseResponse extracts the model's text output from a response body.
	// A structurally invalid or empty response is an error.
	ParseResponse(body []byte) (string, error)
}

// ModelBackend pairs a request format with the runtime that serves it
type ModelBackend struct {
	Format  RequestFormat
	Runtime ModelRuntime
}

// Backends is the registry of model families available to the classifier
type Backends map[ModelFamily]ModelBackend

// Lookup returns the backend registered for a family
func (b Backends) Lookup(family ModelFamily) (ModelBackend, error) {
	backend, ok := b[family]
	if !ok || backend.Format == nil || backend.Runtime == nil {
		return ModelBackend{}, fmt.Errorf("%w: no backend registered for family %q", ErrUnsupportedModel, family)
	}
	return backend, nil
}
