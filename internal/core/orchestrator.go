package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultBatchSize is the maximum number of emails classified in one model call
const DefaultBatchSize = 10

const failureMetricTimeout = 5 * time.Second

// ExtractionPolicy decides what happens when a single email cannot be extracted
type ExtractionPolicy string

const (
	// ExtractionAbort fails the whole invocation
	ExtractionAbort ExtractionPolicy = "abort"
	// ExtractionSkip drops the email and continues with the rest
	ExtractionSkip ExtractionPolicy = "skip"
)

// ParseExtractionPolicy validates a configured extraction policy
func ParseExtractionPolicy(s string) (ExtractionPolicy, error) {
	switch p := ExtractionPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return ExtractionAbort, nil
	case ExtractionAbort, ExtractionSkip:
		return p, nil
	default:
		return "", fmt.Errorf("unsupported extraction failure policy: %s", s)
	}
}

// BatchClassifier classifies a batch of emails in one model call
type BatchClassifier interface {
	Classify(ctx context.Context, req ClassificationRequest, expected int) Outcome
}

// PipelineSettings holds the static orchestration settings
type PipelineSettings struct {
	BatchSize        int
	ExtractionPolicy ExtractionPolicy
	MetricsNamespace string
	ErrorMetric      string
	ReplySubject     string
}

// Pipeline accumulates email records into batches, classifies each batch and
// dispatches the resulting complaints
type Pipeline struct {
	configs    ConfigProvider
	fetcher    ObjectFetcher
	extractor  ContentExtractor
	classifier BatchClassifier
	notifier   *Notifier
	activity   ActivityLogger
	metrics    Metrics
	mailer     Mailer
	logger     *zap.Logger
	settings   PipelineSettings
	now        func() time.Time
}

// NewPipeline creates a new pipeline. mailer may be nil.
func NewPipeline(
	configs ConfigProvider,
	fetcher ObjectFetcher,
	extractor ContentExtractor,
	classifier BatchClassifier,
	notifier *Notifier,
	activity ActivityLogger,
	metrics Metrics,
	mailer Mailer,
	logger *zap.Logger,
	settings PipelineSettings,
) *Pipeline {
	if settings.BatchSize < 1 {
		settings.BatchSize = DefaultBatchSize
	}
	if settings.ExtractionPolicy == "" {
		settings.ExtractionPolicy = ExtractionAbort
	}
	return &Pipeline{
		configs:    configs,
		fetcher:    fetcher,
		extractor:  extractor,
		classifier: classifier,
		notifier:   notifier,
		activity:   activity,
		metrics:    metrics,
		mailer:     mailer,
		logger:     logger,
		settings:   settings,
		now:        time.Now,
	}
}

// Process runs one invocation over newly arrived email objects. Complaints
// dispatched before a failure stay dispatched.
func (p *Pipeline) Process(ctx context.Context, refs []ObjectRef) (*InvocationReport, error) {
	report := &InvocationReport{}
	if err := p.process(ctx, refs, report); err != nil {
		p.recordFailure(ctx)
		p.logger.Error("Invocation failed",
			zap.Int("records", report.Records),
			zap.Int("batches", report.Batches),
			zap.Int("dispatched", report.Dispatched),
			zap.Error(err))
		return report, err
	}

	p.logger.Info("Invocation complete",
		zap.Int("records", report.Records),
		zap.Int("skipped", report.Skipped),
		zap.Int("batches", report.Batches),
		zap.Int("degraded_batches", report.DegradedBatches),
		zap.Int("dispatched", report.Dispatched))
	return report, nil
}

// recordFailure counts a failed invocation. The failure is often ctx itself
// expiring, so the metric is sent on a detached context with its own deadline.
func (p *Pipeline) recordFailure(ctx context.Context) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), failureMetricTimeout)
	defer cancel()
	p.metrics.Increment(ctx, p.settings.MetricsNamespace, p.settings.ErrorMetric, 1)
}

func (p *Pipeline) process(ctx context.Context, refs []ObjectRef, report *InvocationReport) error {
	cfg, err := p.configs.GetConfig(ctx)
	if err != nil {
		return fmt.Errorf("failed to load pipeline configuration: %w", err)
	}
	if cfg == nil {
		return ErrConfigMissing
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	batch := make([]EmailRecord, 0, p.settings.BatchSize)
	for i, ref := range refs {
		record, err := p.loadRecord(ctx, ref)
		switch {
		case err == nil:
			batch = append(batch, record)
			report.Records++
		case errors.Is(err, ErrExtraction) && p.settings.ExtractionPolicy == ExtractionSkip:
			p.logger.Warn("Skipping email that could not be extracted",
				zap.String("bucket", ref.Bucket),
				zap.String("key", ref.Key),
				zap.Error(err))
			report.Skipped++
		default:
			return err
		}

		last := i == len(refs)-1
		if len(batch) >= p.settings.BatchSize || (last && len(batch) > 0) {
			if err := p.runBatch(ctx, cfg, batch, report); err != nil {
				return err
			}
			batch = make([]EmailRecord, 0, p.settings.BatchSize)
		}
	}
	return nil
}

// MessageIDFromKey derives a message id from the last segment of an object key
func MessageIDFromKey(key string) string {
	return key[strings.LastIndexByte(key, '/')+1:]
}

func (p *Pipeline) loadRecord(ctx context.Context, ref ObjectRef) (EmailRecord, error) {
	raw, err := p.fetcher.Fetch(ctx, ref)
	if err != nil {
		return EmailRecord{}, fmt.Errorf("failed to fetch s3://%s/%s: %w", ref.Bucket, ref.Key, err)
	}

	body, sender, subject, err := p.extractor.Extract(raw)
	if err != nil {
		return EmailRecord{}, fmt.Errorf("%s: %w", ref.Key, err)
	}

	return EmailRecord{
		MessageID:     MessageIDFromKey(ref.Key),
		Subject:       subject,
		Body:          body,
		SenderAddress: sender,
	}, nil
}

func (p *Pipeline) runBatch(ctx context.Context, cfg *PipelineConfig, batch []EmailRecord, report *InvocationReport) error {
	items := make([]batchItem, len(batch))
	for i, record := range batch {
		items[i] = batchItem{
			MessageID: record.MessageID,
			Email:     record.Body,
			Subject:   record.Subject,
		}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to serialize batch: %w", err)
	}

	p.logger.Debug("Classifying batch",
		zap.Int("batch_size", len(batch)),
		zap.String("model_id", cfg.ModelID))

	outcome := p.classifier.Classify(ctx, ClassificationRequest{
		ModelID:      cfg.ModelID,
		Family:       cfg.Family,
		Temperature:  cfg.Temperature,
		Instructions: cfg.Instructions,
		Payload:      string(payload),
	}, len(batch))

	results, err := outcome.Results()
	if err != nil {
		return err
	}
	if len(results) != len(batch) {
		return fmt.Errorf("%w: %d results for %d emails", ErrResultMisaligned, len(results), len(batch))
	}
	if outcome.Status == OutcomeDegraded {
		report.DegradedBatches++
	}

	timestamp := p.now().UTC().Format(time.RFC3339Nano)
	for i, record := range batch {
		complaint := &Complaint{
			MessageID:     record.MessageID,
			Category:      results[i].Category,
			Urgency:       results[i].Urgency,
			SenderAddress: record.SenderAddress,
			Timestamp:     timestamp,
			EmailContent:  record.Body,
			Summary:       results[i].Summary,
		}
		p.dispatch(ctx, cfg, complaint)
		report.Dispatched++
	}
	report.Batches++
	return nil
}

// dispatch delivers a complaint downstream. Failures are logged and do not stop the batch.
func (p *Pipeline) dispatch(ctx context.Context, cfg *PipelineConfig, complaint *Complaint) {
	logger := p.logger.With(
		zap.String("message_id", complaint.MessageID),
		zap.String("category", complaint.Category),
		zap.String("urgency", string(complaint.Urgency)))

	if err := p.notifier.Notify(ctx, complaint, complaint.Category, cfg.CategoryTopics); err != nil {
		logger.Error("Failed to notify", zap.Error(err))
	}

	if err := p.activity.Put(ctx, complaint.MessageID, complaint); err != nil {
		logger.Error("Failed to log activity", zap.Error(err))
	}

	if p.mailer == nil || complaint.SenderAddress == "" {
		return
	}
	body := ReplyBody(cfg.ReplyTemplates[complaint.Category])
	if err := p.mailer.Send(ctx, complaint.SenderAddress, p.settings.ReplySubject, body); err != nil {
		logger.Error("Failed to send acknowledgement", zap.Error(err))
	}
}

// ReplyBody renders the acknowledgement sent back to the sender
func ReplyBody(incentive string) string {
	var b strings.Builder
	b.WriteString("Hello,\n\n")
	if incentive != "" {
		b.WriteString(incentive)
		b.WriteString("\n\n")
	}
	b.WriteString("Please reply back if you have additional concerns or questions.\n\nSincerely,\nCustomer Success")
	return b.String()
}
