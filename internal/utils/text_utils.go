package utils

import (
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// TruncationMarker is appended to email content cut at the body size limit
const TruncationMarker = "\n[... Content truncated due to size limits ...]"

// TextProcessor prepares email content before it is sent to a model
type TextProcessor struct {
	logger *zap.Logger
}

// NewTextProcessor creates a new TextProcessor
func NewTextProcessor(logger *zap.Logger) *TextProcessor {
	return &TextProcessor{
		logger: logger,
	}
}

// Truncate cuts text to at most maxSize bytes on a rune boundary and appends
// TruncationMarker. A maxSize of zero or less disables the limit.
func (tp *TextProcessor) Truncate(text string, maxSize int) string {
	if maxSize <= 0 || len(text) <= maxSize {
		return text
	}

	cut := maxSize
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}

	tp.logger.Debug("Email content truncated",
		zap.Int("original_size", len(text)),
		zap.Int("truncated_size", cut),
		zap.Int("max_size", maxSize))

	return text[:cut] + TruncationMarker
}

// TruncateRunes cuts s to at most n runes
func TruncateRunes(s string, n int) string {
	if n < 0 {
		n = 0
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// Sanitize drops invalid UTF-8 byte sequences
func (tp *TextProcessor) Sanitize(text string) string {
	if utf8.ValidString(text) {
		return text
	}
	clean := strings.ToValidUTF8(text, "")
	tp.logger.Debug("Email content sanitized",
		zap.Int("original_size", len(text)),
		zap.Int("sanitized_size", len(clean)))
	return clean
}

// Prepare truncates then sanitizes decoded email content
func (tp *TextProcessor) Prepare(text string, maxSize int) string {
	return tp.Sanitize(tp.Truncate(text, maxSize))
}
