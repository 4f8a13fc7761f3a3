package core

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultMaxAttempts is the number of model calls made before giving up on a batch
	DefaultMaxAttempts = 3
	// DefaultBackoffBase is the exponential backoff base in seconds
	DefaultBackoffBase = 2.0
)

// OutcomeStatus tags how a classification call ended
type OutcomeStatus int

const (
	// OutcomeOK means the model returned parseable results
	OutcomeOK OutcomeStatus = iota
	// OutcomeDegraded means the model answered without usable JSON; results are placeholders
	OutcomeDegraded
	// OutcomeFailed means every attempt failed; there are no results
	OutcomeFailed
)

func (s OutcomeStatus) String() string {
	switch s {
	case OutcomeOK:
		return "ok"
	case OutcomeDegraded:
		return "degraded"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("OutcomeStatus(%d)", int(s))
	}
}

// Outcome is the tagged result of a classification call
type Outcome struct {
	Status   OutcomeStatus
	Reason   string
	Attempts int
	results  []ClassificationResult
}

// Results returns the classification results. A failed outcome has none and
// yields an error wrapping ErrModelUnavailable.
func (o Outcome) Results() ([]ClassificationResult, error) {
	if o.Status == OutcomeFailed {
		return nil, fmt.Errorf("%w after %d attempts: %s", ErrModelUnavailable, o.Attempts, o.Reason)
	}
	return o.results, nil
}

// SleepFunc waits for d or until ctx is done
type SleepFunc func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Classifier formats batches for a model family, invokes the model with
// bounded retries and normalizes the model output into results
type Classifier struct {
	backends    Backends
	logger      *zap.Logger
	maxAttempts int
	backoffBase float64
	sleep       SleepFunc
}

// ClassifierOption customizes a Classifier
type ClassifierOption func(*Classifier)

// WithSleep replaces the backoff sleep function
func WithSleep(fn SleepFunc) ClassifierOption {
	return func(c *Classifier) {
		c.sleep = fn
	}
}

// NewClassifier creates a new classifier
func NewClassifier(
	backends Backends,
	logger *zap.Logger,
	maxAttempts int,
	backoffBase float64,
	opts ...ClassifierOption,
) *Classifier {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}
	if backoffBase <= 0 {
		backoffBase = DefaultBackoffBase
	}
	c := &Classifier{
		backends:    backends,
		logger:      logger,
		maxAttempts: maxAttempts,
		backoffBase: backoffBase,
		sleep:       sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BackoffDelay returns the wait after the given failed attempt (1-based): base^attempt seconds
func (c *Classifier) BackoffDelay(attempt int) time.Duration {
	return time.Duration(math.Pow(c.backoffBase, float64(attempt)) * float64(time.Second))
}

// Classify classifies a batch of expected emails in a single model call
func (c *Classifier) Classify(ctx context.Context, req ClassificationRequest, expected int) Outcome {
	logger := c.logger.With(
		zap.String("model_id", req.ModelID),
		zap.String("model_family", string(req.Family)),
		zap.Int("batch_size", expected))

	backend, err := c.backends.Lookup(req.Family)
	if err != nil {
		logger.Error("No model backend for family", zap.Error(err))
		return Outcome{Status: OutcomeFailed, Reason: err.Error()}
	}

	body, err := backend.Format.BuildRequest(req)
	if err != nil {
		logger.Error("Failed to build model request", zap.Error(err))
		return Outcome{Status: OutcomeFailed, Reason: err.Error()}
	}

	var lastErr error
	var malformed string
	attempt := 1
	for ; attempt <= c.maxAttempts; attempt++ {
		text, err := invokeOnce(ctx, backend, req.ModelID, body)
		malformed = ""
		if err == nil {
			if results, ok := decodeResults(text); ok {
				logger.Debug("Model returned results",
					zap.Int("attempt", attempt),
					zap.Int("result_count", len(results)))
				return Outcome{Status: OutcomeOK, Attempts: attempt, results: results}
			}
			if !looksLikeJSON(text) {
				logger.Warn("Model output is not JSON, degrading to unknown category",
					zap.Int("attempt", attempt),
					zap.Int("output_size", len(text)))
				return degradedOutcome(text, expected, attempt)
			}
			malformed = text
			err = ErrMalformedOutput
		}

		lastErr = err
		if attempt == c.maxAttempts {
			break
		}

		delay := c.BackoffDelay(attempt)
		logger.Warn("Model attempt failed, retrying",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", c.maxAttempts),
			zap.Duration("backoff", delay),
			zap.Error(err))
		if err := c.sleep(ctx, delay); err != nil {
			lastErr = err
			break
		}
	}

	if malformed != "" {
		logger.Warn("Model output stayed malformed, degrading to unknown category",
			zap.Int("attempts", attempt),
			zap.Int("output_size", len(malformed)))
		return degradedOutcome(malformed, expected, attempt)
	}

	logger.Error("Cannot invoke model",
		zap.Int("attempts", attempt),
		zap.Error(lastErr))
	return Outcome{Status: OutcomeFailed, Reason: lastErr.Error(), Attempts: attempt}
}

func degradedOutcome(text string, expected, attempts int) Outcome {
	return Outcome{
		Status:   OutcomeDegraded,
		Reason:   "model output is not valid JSON",
		Attempts: attempts,
		results:  fallbackResults(text, expected),
	}
}

func invokeOnce(ctx context.Context, backend ModelBackend, modelID string, body []byte) (string, error) {
	resp, err := backend.Runtime.Invoke(ctx, modelID, body)
	if err != nil {
		return "", err
	}
	return backend.Format.ParseResponse(resp)
}

// rawResult is the JSON shape the model is instructed to emit per email
type rawResult struct {
	Category string `json:"category"`
	Urgency  string `json:"urgency"`
	Summary  string `json:"summary"`
}

func (r rawResult) normalize() ClassificationResult {
	category := strings.TrimSpace(r.Category)
	if category == "" {
		category = CategoryUnknown
	}
	return ClassificationResult{
		Category: category,
		Urgency:  ParseUrgency(r.Urgency),
		Summary:  r.Summary,
	}
}

// decodeResults parses model text as a JSON array or object of results.
// Code fences and surrounding prose are tolerated.
func decodeResults(text string) ([]ClassificationResult, bool) {
	trimmed := strings.TrimSpace(text)
	candidates := []string{trimmed}
	if unfenced := stripCodeFence(trimmed); unfenced != trimmed {
		candidates = append(candidates, unfenced)
	}
	if span := outerJSONSpan(candidates[len(candidates)-1]); span != "" {
		candidates = append(candidates, span)
	}

	for _, candidate := range candidates {
		if results, ok := parseResults([]byte(candidate)); ok {
			return results, true
		}
	}
	return nil, false
}

func parseResults(data []byte) ([]ClassificationResult, bool) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, false
	}

	var items []rawResult
	switch data[0] {
	case '[':
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, false
		}
	case '{':
		var item rawResult
		if err := json.Unmarshal(data, &item); err != nil {
			return nil, false
		}
		items = []rawResult{item}
	default:
		return nil, false
	}

	results := make([]ClassificationResult, len(items))
	for i, item := range items {
		results[i] = item.normalize()
	}
	return results, true
}

// looksLikeJSON reports whether unfenced model text opens a JSON array or object.
// Such text that fails to decode was most likely cut off and is worth another call.
func looksLikeJSON(text string) bool {
	s := stripCodeFence(strings.TrimSpace(text))
	return strings.HasPrefix(s, "[") || strings.HasPrefix(s, "{")
}

func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// outerJSONSpan returns the text between the first opening bracket and the
// last matching closing bracket
func outerJSONSpan(s string) string {
	start := strings.IndexAny(s, "[{")
	if start < 0 {
		return ""
	}
	closer := byte('}')
	if s[start] == '[' {
		closer = ']'
	}
	end := strings.LastIndexByte(s, closer)
	if end <= start {
		return ""
	}
	return s[start : end+1]
}

// fallbackResults marks every email in the batch as unknown with the raw model text as summary
func fallbackResults(text string, expected int) []ClassificationResult {
	if expected < 1 {
		expected = 1
	}
	results := make([]ClassificationResult, expected)
	for i := range results {
		results[i] = ClassificationResult{
			Category: CategoryUnknown,
			Urgency:  UrgencyNonUrgent,
			Summary:  text,
		}
	}
	return results
}
