package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/mikey/llm-email-categorizer/internal/adapters/objects"
	"github.com/mikey/llm-email-categorizer/internal/core"
	"github.com/mikey/llm-email-categorizer/internal/di"
	"github.com/mikey/llm-email-categorizer/internal/ports"
)

// Handler runs one pipeline invocation per S3 event
type Handler struct {
	runner ports.InvocationRunner
	logger *zap.Logger
}

// Handle processes every object referenced by the event
func (h *Handler) Handle(ctx context.Context, event events.S3Event) (*core.InvocationReport, error) {
	refs, err := objects.RefsFromS3Event(event)
	if err != nil {
		h.logger.Error("Invalid S3 event", zap.Error(err))
		return nil, err
	}
	h.logger.Info("Received S3 event", zap.Int("records", len(refs)))
	return h.runner.Process(ctx, refs)
}

func main() {
	container, err := di.BuildLambdaContainer()
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	var h *Handler
	if err := container.Invoke(func(runner ports.InvocationRunner, logger *zap.Logger) {
		h = &Handler{runner: runner, logger: logger}
	}); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}

	lambda.Start(h.Handle)
}
