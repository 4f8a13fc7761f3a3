package activitylog

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/mikey/llm-email-categorizer/internal/core"
)

// MemoryLog is an in-memory implementation of the ActivityLogger interface
type MemoryLog struct {
	records map[string]Record
	order   []string
	mu      sync.RWMutex
	logger  *zap.Logger
}

var _ core.ActivityLogger = (*MemoryLog)(nil)

// NewMemoryLog creates a new in-memory activity log
func NewMemoryLog(logger *zap.Logger) *MemoryLog {
	return &MemoryLog{
		records: make(map[string]Record),
		logger:  logger,
	}
}

// Put stores a complaint, replacing any earlier record for the message id
func (l *MemoryLog) Put(_ context.Context, messageID string, complaint *core.Complaint) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.records[messageID]; !ok {
		l.order = append(l.order, messageID)
	}
	l.records[messageID] = NewRecord(messageID, complaint)

	l.logger.Debug("Stored activity record",
		zap.String("message_id", messageID),
		zap.Int("record_count", len(l.records)))
	return nil
}

// Get retrieves the complaint stored for a message id
func (l *MemoryLog) Get(_ context.Context, messageID string) (*core.Complaint, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	record, ok := l.records[messageID]
	if !ok {
		return nil, ErrNotFound
	}
	return record.Complaint(), nil
}

// List returns all stored complaints in insertion order
func (l *MemoryLog) List() []*core.Complaint {
	l.mu.RLock()
	defer l.mu.RUnlock()

	complaints := make([]*core.Complaint, 0, len(l.order))
	for _, id := range l.order {
		complaints = append(complaints, l.records[id].Complaint())
	}
	return complaints
}
