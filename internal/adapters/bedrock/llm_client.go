package bedrock

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"go.uber.org/zap"
)

// InvokeModelAPI is the subset of the Bedrock runtime client used here
type InvokeModelAPI interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// BedrockRuntime is an implementation of the ModelRuntime interface using Amazon Bedrock
type BedrockRuntime struct {
	client InvokeModelAPI
	logger *zap.Logger
}

// NewBedrockRuntime creates a new Bedrock runtime
func NewBedrockRuntime(client InvokeModelAPI, logger *zap.Logger) *BedrockRuntime {
	return &BedrockRuntime{
		client: client,
		logger: logger,
	}
}

// Invoke sends a request body to a Bedrock model and returns the response body
func (r *BedrockRuntime) Invoke(ctx context.Context, modelID string, body []byte) ([]byte, error) {
	resp, err := r.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(modelID),
		Body:        body,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to invoke Bedrock model: %w", err)
	}

	r.logger.Debug("Bedrock model responded",
		zap.String("model_id", modelID),
		zap.Int("response_size", len(resp.Body)))
	return resp.Body, nil
}
