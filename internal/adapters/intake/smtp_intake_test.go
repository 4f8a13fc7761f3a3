package intake

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/emersion/go-smtp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mikey/llm-email-categorizer/internal/adapters/mailer"
	"github.com/mikey/llm-email-categorizer/internal/adapters/objects"
	"github.com/mikey/llm-email-categorizer/internal/core"
	"github.com/mikey/llm-email-categorizer/internal/whitelist"
)

// recordingRunner captures the raw documents it was asked to process
type recordingRunner struct {
	mu    sync.Mutex
	store *objects.MemoryStore
	refs  []core.ObjectRef
	raw   [][]byte
	err   error
}

func (r *recordingRunner) Process(ctx context.Context, refs []core.ObjectRef) (*core.InvocationReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ref := range refs {
		data, err := r.store.Fetch(ctx, ref)
		if err != nil {
			return nil, err
		}
		r.refs = append(r.refs, ref)
		r.raw = append(r.raw, data)
	}
	if r.err != nil {
		return nil, r.err
	}
	return &core.InvocationReport{Records: len(refs), Dispatched: len(refs)}, nil
}

func newIntake(runner *recordingRunner, store *objects.MemoryStore, allowed ...string) *SMTPIntake {
	return NewSMTPIntake(runner, store, whitelist.NewChecker(allowed, nil), zap.NewNop(), Options{
		ListenAddress: "127.0.0.1:0",
		Bucket:        "intake",
	})
}

func TestSession_RejectsRecipientsNotOnAllowList(t *testing.T) {
	store := objects.NewMemoryStore()
	in := newIntake(&recordingRunner{store: store}, store, "support@example.com")
	session, err := (&smtpBackend{intake: in}).NewSession(nil)
	require.NoError(t, err)

	require.NoError(t, session.Mail("jane@example.com", nil))
	assert.NoError(t, session.Rcpt("support@example.com", nil))

	err = session.Rcpt("sales@example.com", nil)
	var smtpErr *smtp.SMTPError
	require.True(t, errors.As(err, &smtpErr))
	assert.Equal(t, 550, smtpErr.Code)
}

func TestSession_DataRunsInvocationAndCleansUp(t *testing.T) {
	store := objects.NewMemoryStore()
	runner := &recordingRunner{store: store}
	in := newIntake(runner, store)
	session, err := (&smtpBackend{intake: in}).NewSession(nil)
	require.NoError(t, err)

	require.NoError(t, session.Mail("jane@example.com", nil))
	require.NoError(t, session.Rcpt("support@example.com", nil))
	require.NoError(t, session.Data(strings.NewReader("Subject: hi\r\n\r\nbody\r\n")))

	require.Len(t, runner.refs, 1)
	assert.Equal(t, "intake", runner.refs[0].Bucket)
	assert.True(t, strings.HasPrefix(runner.refs[0].Key, "inbound/"))
	assert.Equal(t, "Subject: hi\r\n\r\nbody\r\n", string(runner.raw[0]))

	_, err = store.Fetch(context.Background(), runner.refs[0])
	assert.Error(t, err, "spooled object should be removed after processing")
}

func TestSession_ProcessingFailureIsTemporary(t *testing.T) {
	store := objects.NewMemoryStore()
	runner := &recordingRunner{store: store, err: core.ErrModelUnavailable}
	in := newIntake(runner, store)
	session, err := (&smtpBackend{intake: in}).NewSession(nil)
	require.NoError(t, err)

	err = session.Data(strings.NewReader("Subject: hi\r\n\r\nbody\r\n"))
	var smtpErr *smtp.SMTPError
	require.True(t, errors.As(err, &smtpErr))
	assert.Equal(t, 451, smtpErr.Code)
}

func TestSMTPIntake_EndToEnd(t *testing.T) {
	store := objects.NewMemoryStore()
	runner := &recordingRunner{store: store}
	in := newIntake(runner, store, "support@example.com")
	require.NoError(t, in.Start())
	defer in.Stop()

	host, port := splitAddr(t, in.Addr())
	m := mailer.NewSMTPMailer("jane@example.com", host, port, zap.NewNop())
	require.NoError(t, m.Send(context.Background(), "support@example.com", "Order late", "Where is my order?"))

	runner.mu.Lock()
	defer runner.mu.Unlock()
	require.Len(t, runner.raw, 1)
	assert.Contains(t, string(runner.raw[0]), "Where is my order?")

	assert.Error(t, m.Send(context.Background(), "sales@example.com", "x", "y"))
}
