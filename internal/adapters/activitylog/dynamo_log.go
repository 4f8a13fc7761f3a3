package activitylog

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"

	"github.com/mikey/llm-email-categorizer/internal/core"
)

// PutItemAPI is the subset of the DynamoDB client used here
type PutItemAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// DynamoLog is a DynamoDB implementation of the ActivityLogger interface
type DynamoLog struct {
	client    PutItemAPI
	tableName string
	logger    *zap.Logger
}

var _ core.ActivityLogger = (*DynamoLog)(nil)

// NewDynamoLog creates an activity log writing to the given table
func NewDynamoLog(client PutItemAPI, tableName string, logger *zap.Logger) *DynamoLog {
	return &DynamoLog{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// Put writes the complaint as a flat item keyed by message_id
func (l *DynamoLog) Put(ctx context.Context, messageID string, complaint *core.Complaint) error {
	item, err := attributevalue.MarshalMap(NewRecord(messageID, complaint))
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	_, err = l.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(l.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("PutItem message_id=%s: %w", messageID, err)
	}

	l.logger.Debug("Stored activity record",
		zap.String("message_id", messageID),
		zap.String("table", l.tableName))
	return nil
}
