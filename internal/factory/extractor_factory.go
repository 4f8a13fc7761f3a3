package factory

import (
	"go.uber.org/zap"

	"github.com/mikey/llm-email-categorizer/internal/adapters/extract"
	"github.com/mikey/llm-email-categorizer/internal/config"
	"github.com/mikey/llm-email-categorizer/internal/utils"
)

// ExtractorFactory creates the email content extractor
type ExtractorFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewExtractorFactory creates a new ExtractorFactory
func NewExtractorFactory(cfg *config.Config, logger *zap.Logger) *ExtractorFactory {
	return &ExtractorFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateTextProcessor creates a new TextProcessor
func (f *ExtractorFactory) CreateTextProcessor() *utils.TextProcessor {
	return utils.NewTextProcessor(f.logger)
}

// CreateExtractor creates a MIME extractor truncating bodies to pipeline.max_body_size
func (f *ExtractorFactory) CreateExtractor() *extract.MIMEExtractor {
	return extract.NewMIMEExtractor(f.CreateTextProcessor(), f.cfg.GetPipeline().MaxBodySize, f.logger)
}
