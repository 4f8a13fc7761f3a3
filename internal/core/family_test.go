package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveModelFamily(t *testing.T) {
	tests := []struct {
		modelID string
		want    ModelFamily
	}{
		{"amazon.nova-micro-v1:0", FamilyNova},
		{"amazon.nova-lite-v1:0", FamilyNova},
		{"us.amazon.nova-pro-v1:0", FamilyNova},
		{"anthropic.claude-3-haiku-20240307-v1:0", FamilyClaude},
		{"eu.anthropic.claude-3-sonnet-20240229-v1:0", FamilyClaude},
		{"gpt-4o-mini", FamilyOpenAI},
		{"o3-mini", FamilyOpenAI},
		{"gemini-1.5-flash", FamilyGemini},
	}
	for _, tt := range tests {
		t.Run(tt.modelID, func(t *testing.T) {
			got, err := ResolveModelFamily(tt.modelID, "")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveModelFamily_ExplicitTagWins(t *testing.T) {
	got, err := ResolveModelFamily("my-custom-model", "Claude")
	require.NoError(t, err)
	assert.Equal(t, FamilyClaude, got)
}

func TestResolveModelFamily_Unsupported(t *testing.T) {
	_, err := ResolveModelFamily("meta.llama3-8b-instruct-v1:0", "")
	assert.True(t, errors.Is(err, ErrUnsupportedModel))

	_, err = ResolveModelFamily("amazon.nova-micro-v1:0", "titan")
	assert.True(t, errors.Is(err, ErrUnsupportedModel))
}

func TestBackendsLookup(t *testing.T) {
	b := testBackends(&fakeRuntime{})
	_, err := b.Lookup(FamilyNova)
	assert.NoError(t, err)

	_, err = b.Lookup(FamilyClaude)
	assert.True(t, errors.Is(err, ErrUnsupportedModel))
}

func TestParseUrgency(t *testing.T) {
	assert.Equal(t, UrgencyUrgent, ParseUrgency("urgent"))
	assert.Equal(t, UrgencyUrgent, ParseUrgency(" Urgent "))
	assert.Equal(t, UrgencyNonUrgent, ParseUrgency("non-urgent"))
	assert.Equal(t, UrgencyNonUrgent, ParseUrgency(""))
	assert.Equal(t, UrgencyNonUrgent, ParseUrgency("critical"))
}
