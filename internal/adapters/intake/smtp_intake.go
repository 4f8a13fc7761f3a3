package intake

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/emersion/go-smtp"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mikey/llm-email-categorizer/internal/adapters/objects"
	"github.com/mikey/llm-email-categorizer/internal/core"
	"github.com/mikey/llm-email-categorizer/internal/ports"
	"github.com/mikey/llm-email-categorizer/internal/whitelist"
)

// Options configures the SMTP intake server
type Options struct {
	ListenAddress   string
	Domain          string
	Bucket          string
	MaxMessageBytes int64
	// ProcessTimeout bounds one invocation per received message
	ProcessTimeout time.Duration
}

// SMTPIntake accepts mail over SMTP, spools each message into an object store
// and runs one pipeline invocation per message
type SMTPIntake struct {
	runner    ports.InvocationRunner
	store     *objects.MemoryStore
	allowList *whitelist.Checker
	logger    *zap.Logger
	opts      Options

	mu       sync.Mutex
	server   *smtp.Server
	listener net.Listener
}

var _ ports.EmailIntake = (*SMTPIntake)(nil)

// NewSMTPIntake creates a new SMTP intake server
func NewSMTPIntake(
	runner ports.InvocationRunner,
	store *objects.MemoryStore,
	allowList *whitelist.Checker,
	logger *zap.Logger,
	opts Options,
) *SMTPIntake {
	if opts.Domain == "" {
		opts.Domain = "localhost"
	}
	if opts.Bucket == "" {
		opts.Bucket = "intake"
	}
	if opts.MaxMessageBytes <= 0 {
		opts.MaxMessageBytes = 30 * 1024 * 1024 // 30MB
	}
	if opts.ProcessTimeout <= 0 {
		opts.ProcessTimeout = 2 * time.Minute
	}
	return &SMTPIntake{
		runner:    runner,
		store:     store,
		allowList: allowList,
		logger:    logger,
		opts:      opts,
	}
}

// Start starts the SMTP server
func (s *SMTPIntake) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Create a new SMTP server
	server := smtp.NewServer(&smtpBackend{intake: s})

	// Configure the server
	server.Addr = s.opts.ListenAddress
	server.Domain = s.opts.Domain
	server.ReadTimeout = 30 * time.Second
	server.WriteTimeout = 30 * time.Second
	server.MaxMessageBytes = s.opts.MaxMessageBytes
	server.MaxRecipients = 50

	l, err := net.Listen("tcp", s.opts.ListenAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.opts.ListenAddress, err)
	}
	s.server = server
	s.listener = l

	s.logger.Info("SMTP intake starting", zap.String("address", l.Addr().String()))

	// Serve in a goroutine
	go func() {
		if err := server.Serve(l); err != nil && !errors.Is(err, smtp.ErrServerClosed) && !errors.Is(err, net.ErrClosed) {
			s.logger.Error("SMTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop stops the SMTP server
func (s *SMTPIntake) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.server != nil {
		return s.server.Close()
	}
	return nil
}

// Addr returns the listening address
func (s *SMTPIntake) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return s.opts.ListenAddress
	}
	return s.listener.Addr().String()
}

// accept spools a received message and runs an invocation over it
func (s *SMTPIntake) accept(sender string, recipients []string, raw []byte) error {
	ref := core.ObjectRef{
		Bucket: s.opts.Bucket,
		Key:    "inbound/" + uuid.NewString(),
	}
	s.store.Put(ref, raw)
	defer s.store.Delete(ref)

	ctx, cancel := context.WithTimeout(context.Background(), s.opts.ProcessTimeout)
	defer cancel()

	report, err := s.runner.Process(ctx, []core.ObjectRef{ref})
	if err != nil {
		s.logger.Error("Failed to process received email",
			zap.String("message_id", core.MessageIDFromKey(ref.Key)),
			zap.String("from", sender),
			zap.Error(err))
		return &smtp.SMTPError{
			Code:         451,
			EnhancedCode: smtp.EnhancedCode{4, 3, 0},
			Message:      "Temporary processing failure, please retry",
		}
	}

	s.logger.Info("Processed received email",
		zap.String("message_id", core.MessageIDFromKey(ref.Key)),
		zap.String("from", sender),
		zap.Strings("recipients", recipients),
		zap.Int("dispatched", report.Dispatched))
	return nil
}

// smtpBackend implements the go-smtp Backend interface
type smtpBackend struct {
	intake *SMTPIntake
}

// NewSession creates a new SMTP session
func (b *smtpBackend) NewSession(_ *smtp.Conn) (smtp.Session, error) {
	return &smtpSession{
		intake:     b.intake,
		recipients: make([]string, 0),
	}, nil
}

// smtpSession implements the go-smtp Session interface
type smtpSession struct {
	intake     *SMTPIntake
	sender     string
	recipients []string
}

var errRecipientRejected = &smtp.SMTPError{
	Code:         550,
	EnhancedCode: smtp.EnhancedCode{5, 1, 1},
	Message:      "Recipient address not accepted",
}

// Reset resets the session state
func (s *smtpSession) Reset() {
	s.sender = ""
	s.recipients = make([]string, 0)
}

// Mail sets the sender address
func (s *smtpSession) Mail(from string, _ *smtp.MailOptions) error {
	s.sender = from
	return nil
}

// Rcpt adds a recipient that is on the allow-list
func (s *smtpSession) Rcpt(to string, _ *smtp.RcptOptions) error {
	if !s.intake.allowList.IsAllowed(to) {
		s.intake.logger.Warn("Rejected recipient", zap.String("recipient", to))
		return errRecipientRejected
	}
	s.recipients = append(s.recipients, to)
	return nil
}

// Data reads the message and hands it to the pipeline
func (s *smtpSession) Data(r io.Reader) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		s.intake.logger.Error("Failed to read message data", zap.Error(err))
		return err
	}
	return s.intake.accept(s.sender, s.recipients, raw)
}

// Logout handles SMTP logout
func (s *smtpSession) Logout() error {
	return nil
}
