package core

import "errors"

var (
	// ErrConfigMissing is returned when no pipeline configuration exists for the inbound address
	ErrConfigMissing = errors.New("pipeline configuration not found")
	// ErrExtraction is returned when a raw email document cannot be parsed
	ErrExtraction = errors.New("email extraction failed")
	// ErrModelUnavailable is returned when the model could not be invoked within the attempt limit
	ErrModelUnavailable = errors.New("model invocation failed")
	// ErrResultMisaligned is returned when the model returns a different number of results than emails
	ErrResultMisaligned = errors.New("classification results do not align with batch")
	// ErrUnsupportedModel is returned when a model id cannot be mapped to a model family
	ErrUnsupportedModel = errors.New("unsupported model")
	// ErrEmptyResponse is returned when the model response carries no text
	ErrEmptyResponse = errors.New("empty or invalid response content from model")
	// ErrMalformedOutput is returned when model text looks like JSON but does not decode
	ErrMalformedOutput = errors.New("model output is malformed JSON")
	// ErrTopicNotFound is returned when neither the category nor "unknown" has a topic
	ErrTopicNotFound = errors.New("no matching notification topic")
)
