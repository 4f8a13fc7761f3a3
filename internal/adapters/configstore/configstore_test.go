package configstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mikey/llm-email-categorizer/internal/core"
)

type fakeGetItem struct {
	input *dynamodb.GetItemInput
	item  map[string]types.AttributeValue
	err   error
}

func (f *fakeGetItem) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &dynamodb.GetItemOutput{Item: f.item}, nil
}

func settingsItem() map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"inboundEmailAddress": &types.AttributeValueMemberS{Value: "support@example.com"},
		"bedrockModelID":      &types.AttributeValueMemberS{Value: "amazon.nova-micro-v1:0"},
		"llmTemperature":      &types.AttributeValueMemberN{Value: "1"},
		"llmInstructions":     &types.AttributeValueMemberS{Value: "classify"},
		"categoryTopics": &types.AttributeValueMemberL{Value: []types.AttributeValue{
			&types.AttributeValueMemberM{Value: map[string]types.AttributeValue{
				"category":  &types.AttributeValueMemberS{Value: "billing"},
				"topicName": &types.AttributeValueMemberS{Value: "GenAIEmailCategorizer-billing"},
				"topicArn":  &types.AttributeValueMemberS{Value: "arn:aws:sns:us-east-1:1:billing"},
			}},
		}},
	}
}

func TestDynamoProvider(t *testing.T) {
	client := &fakeGetItem{item: settingsItem()}
	p := NewDynamoProvider(client, "settings", "inboundEmailAddress", "support@example.com", zap.NewNop())

	cfg, err := p.GetConfig(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "settings", aws.ToString(client.input.TableName))
	assert.Equal(t, &types.AttributeValueMemberS{Value: "support@example.com"}, client.input.Key["inboundEmailAddress"])

	assert.Equal(t, "amazon.nova-micro-v1:0", cfg.ModelID)
	assert.Equal(t, core.FamilyNova, cfg.Family)
	assert.Equal(t, 1.0, cfg.Temperature)
	assert.Equal(t, "classify", cfg.Instructions)
	assert.Equal(t, []core.CategoryTopic{{
		Category:  "billing",
		TopicName: "GenAIEmailCategorizer-billing",
		TopicRef:  "arn:aws:sns:us-east-1:1:billing",
	}}, cfg.CategoryTopics)
}

func TestDynamoProvider_MissingItem(t *testing.T) {
	p := NewDynamoProvider(&fakeGetItem{}, "settings", "inboundEmailAddress", "support@example.com", zap.NewNop())

	_, err := p.GetConfig(context.Background())
	assert.True(t, errors.Is(err, core.ErrConfigMissing))
}

func TestDynamoProvider_ExplicitFamilyAndUnsupportedModel(t *testing.T) {
	item := settingsItem()
	item["bedrockModelID"] = &types.AttributeValueMemberS{Value: "meta.llama3-8b-instruct-v1:0"}
	p := NewDynamoProvider(&fakeGetItem{item: item}, "settings", "inboundEmailAddress", "k", zap.NewNop())

	_, err := p.GetConfig(context.Background())
	assert.True(t, errors.Is(err, core.ErrUnsupportedModel))

	item["modelFamily"] = &types.AttributeValueMemberS{Value: "claude"}
	cfg, err := p.GetConfig(context.Background())
	require.NoError(t, err)
	assert.Equal(t, core.FamilyClaude, cfg.Family)
}

func TestDynamoProvider_MissingInstructions(t *testing.T) {
	item := settingsItem()
	delete(item, "llmInstructions")
	p := NewDynamoProvider(&fakeGetItem{item: item}, "settings", "inboundEmailAddress", "k", zap.NewNop())

	_, err := p.GetConfig(context.Background())
	assert.True(t, errors.Is(err, core.ErrConfigMissing))
}

func TestFileProvider(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
model_id: anthropic.claude-3-haiku-20240307-v1:0
temperature: 0.5
instructions: |
  Classify each email.
category_topics:
  - category: billing
    topic_ref: T1
  - category: unknown
    topic_ref: T0
reply_templates:
  billing: Here is a discount.
`), 0o600))

	cfg, err := NewFileProvider(path, zap.NewNop()).GetConfig(context.Background())
	require.NoError(t, err)

	assert.Equal(t, core.FamilyClaude, cfg.Family)
	assert.Equal(t, 0.5, cfg.Temperature)
	assert.Equal(t, "Classify each email.\n", cfg.Instructions)
	assert.Equal(t, []core.CategoryTopic{
		{Category: "billing", TopicRef: "T1"},
		{Category: "unknown", TopicRef: "T0"},
	}, cfg.CategoryTopics)
	assert.Equal(t, "Here is a discount.", cfg.ReplyTemplates["billing"])
}

func TestFileProvider_Missing(t *testing.T) {
	_, err := NewFileProvider(filepath.Join(t.TempDir(), "nope.yaml"), zap.NewNop()).GetConfig(context.Background())
	assert.True(t, errors.Is(err, core.ErrConfigMissing))

	_, err = NewFileProvider("", zap.NewNop()).GetConfig(context.Background())
	assert.True(t, errors.Is(err, core.ErrConfigMissing))
}
