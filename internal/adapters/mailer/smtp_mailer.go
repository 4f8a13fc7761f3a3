package mailer

import (
	"context"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/emersion/go-smtp"
	"go.uber.org/zap"

	"github.com/mikey/llm-email-categorizer/internal/core"
)

// SMTPMailer delivers mail to an SMTP relay
type SMTPMailer struct {
	from    string
	address string
	port    int
	timeout time.Duration
	logger  *zap.Logger
}

var _ core.Mailer = (*SMTPMailer)(nil)

// NewSMTPMailer creates a mailer that relays through address:port
func NewSMTPMailer(from, address string, port int, logger *zap.Logger) *SMTPMailer {
	return &SMTPMailer{
		from:    from,
		address: address,
		port:    port,
		timeout: 30 * time.Second,
		logger:  logger,
	}
}

// Send delivers a plain-text message to a single recipient
func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	relay := net.JoinHostPort(m.address, fmt.Sprint(m.port))

	// Get hostname for EHLO
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}

	dialer := net.Dialer{Timeout: 10 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", relay)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP relay: %w", err)
	}

	deadline := time.Now().Add(m.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set connection deadline: %w", err)
	}

	c := smtp.NewClient(conn)
	defer c.Close()

	if err := c.Hello(hostname); err != nil {
		return fmt.Errorf("EHLO failed: %w", err)
	}
	if err := c.Mail(m.from, nil); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}
	if err := c.Rcpt(to, nil); err != nil {
		return fmt.Errorf("RCPT TO failed: %w", err)
	}

	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("DATA command failed: %w", err)
	}
	if _, err := wc.Write(buildMessage(m.from, to, subject, body, time.Now(), senderDomain(m.from))); err != nil {
		wc.Close()
		return fmt.Errorf("failed to send email data: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	if err := c.Quit(); err != nil {
		// The message is already accepted
		m.logger.Warn("QUIT command failed", zap.Error(err))
	}

	m.logger.Info("Sent acknowledgement",
		zap.String("to", to),
		zap.String("relay", relay))
	return nil
}

func senderDomain(from string) string {
	if at := strings.LastIndexByte(from, '@'); at >= 0 && at < len(from)-1 {
		return strings.Trim(from[at+1:], "> ")
	}
	return "localhost"
}
