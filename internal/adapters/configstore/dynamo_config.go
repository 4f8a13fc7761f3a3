package configstore

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"github.com/mikey/llm-email-categorizer/internal/core"
)

// GetItemAPI is the subset of the DynamoDB client used here
type GetItemAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

// configItem is the settings item stored per inbound email address
type configItem struct {
	ModelID        string               `dynamodbav:"bedrockModelID"`
	ModelFamily    string               `dynamodbav:"modelFamily"`
	Temperature    float64              `dynamodbav:"llmTemperature"`
	Instructions   string               `dynamodbav:"llmInstructions"`
	CategoryTopics []core.CategoryTopic `dynamodbav:"categoryTopics"`
	ReplyTemplates map[string]string    `dynamodbav:"replyTemplates"`
}

// DynamoProvider loads the pipeline configuration from a DynamoDB settings table
type DynamoProvider struct {
	client       GetItemAPI
	tableName    string
	keyAttribute string
	key          string
	logger       *zap.Logger
}

var _ core.ConfigProvider = (*DynamoProvider)(nil)

// NewDynamoProvider creates a provider reading the item where keyAttribute = key
func NewDynamoProvider(client GetItemAPI, tableName, keyAttribute, key string, logger *zap.Logger) *DynamoProvider {
	return &DynamoProvider{
		client:       client,
		tableName:    tableName,
		keyAttribute: keyAttribute,
		key:          key,
		logger:       logger,
	}
}

// GetConfig reads the settings item. A missing item is ErrConfigMissing.
func (p *DynamoProvider) GetConfig(ctx context.Context) (*core.PipelineConfig, error) {
	result, err := p.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(p.tableName),
		Key: map[string]types.AttributeValue{
			p.keyAttribute: &types.AttributeValueMemberS{Value: p.key},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("GetItem %s=%s: %w", p.keyAttribute, p.key, err)
	}
	if result.Item == nil {
		p.logger.Warn("No configuration item found",
			zap.String("table", p.tableName),
			zap.String("key", p.key))
		return nil, fmt.Errorf("%w: %s=%s", core.ErrConfigMissing, p.keyAttribute, p.key)
	}

	var item configItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("unmarshal configuration %s=%s: %w", p.keyAttribute, p.key, err)
	}

	cfg, err := item.pipelineConfig()
	if err != nil {
		return nil, err
	}

	p.logger.Debug("Loaded pipeline configuration",
		zap.String("model_id", cfg.ModelID),
		zap.String("model_family", string(cfg.Family)),
		zap.Int("category_topics", len(cfg.CategoryTopics)))
	return cfg, nil
}

func (i configItem) pipelineConfig() (*core.PipelineConfig, error) {
	return build(i.ModelID, i.ModelFamily, i.Temperature, i.Instructions, i.CategoryTopics, i.ReplyTemplates)
}

// build resolves the model family and validates the configuration
func build(modelID, family string, temperature float64, instructions string, topics []core.CategoryTopic, replies map[string]string) (*core.PipelineConfig, error) {
	resolved, err := core.ResolveModelFamily(modelID, family)
	if err != nil {
		return nil, err
	}
	cfg := &core.PipelineConfig{
		ModelID:        modelID,
		Family:         resolved,
		Temperature:    temperature,
		Instructions:   instructions,
		CategoryTopics: topics,
		ReplyTemplates: replies,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
