package ports

import (
	"context"

	"github.com/mikey/llm-email-categorizer/internal/core"
)

// InvocationRunner runs one pipeline invocation over stored email objects
type InvocationRunner interface {
	Process(ctx context.Context, refs []core.ObjectRef) (*core.InvocationReport, error)
}

// EmailIntake defines the interface for long-running email receivers
type EmailIntake interface {
	// Start starts accepting mail
	Start() error

	// Stop stops accepting mail
	Stop() error

	// Addr returns the address the receiver listens on
	Addr() string
}
