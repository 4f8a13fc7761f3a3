package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// echoFormat sends the payload as the body and treats the response body as model text
type echoFormat struct {
	family ModelFamily
}

func (f echoFormat) Family() ModelFamily { return f.family }

func (f echoFormat) BuildRequest(req ClassificationRequest) ([]byte, error) {
	return []byte(req.Payload), nil
}

func (f echoFormat) ParseResponse(body []byte) (string, error) {
	if len(body) == 0 {
		return "", ErrEmptyResponse
	}
	return string(body), nil
}

// fakeRuntime answers model calls with a function and records the requests it saw
type fakeRuntime struct {
	mu       sync.Mutex
	calls    int
	requests [][]byte
	respond  func(call int, body []byte) ([]byte, error)
}

func (r *fakeRuntime) Invoke(_ context.Context, _ string, body []byte) ([]byte, error) {
	r.mu.Lock()
	r.calls++
	call := r.calls
	r.requests = append(r.requests, body)
	r.mu.Unlock()
	return r.respond(call, body)
}

// alignedResponder returns one result per email in the batch, echoing the subject as summary
func alignedResponder(_ int, body []byte) ([]byte, error) {
	var items []batchItem
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, err
	}
	results := make([]rawResult, len(items))
	for i, item := range items {
		results[i] = rawResult{Category: "billing", Urgency: "urgent", Summary: item.Subject}
	}
	return json.Marshal(results)
}

func testBackends(rt ModelRuntime) Backends {
	return Backends{FamilyNova: {Format: echoFormat{family: FamilyNova}, Runtime: rt}}
}

type fakeConfigProvider struct {
	cfg   *PipelineConfig
	err   error
	calls int
}

func (p *fakeConfigProvider) GetConfig(context.Context) (*PipelineConfig, error) {
	p.calls++
	return p.cfg, p.err
}

// memFetcher serves raw emails keyed by object key
type memFetcher map[string][]byte

func (m memFetcher) Fetch(_ context.Context, ref ObjectRef) ([]byte, error) {
	raw, ok := m[ref.Key]
	if !ok {
		return nil, fmt.Errorf("no such key: %s", ref.Key)
	}
	return raw, nil
}

// lineExtractor reads "sender|subject|body" documents; "bad" documents fail
type lineExtractor struct{}

func (lineExtractor) Extract(raw []byte) (string, string, string, error) {
	parts := strings.SplitN(string(raw), "|", 3)
	if len(parts) != 3 {
		return "", "", "", fmt.Errorf("%w: malformed document", ErrExtraction)
	}
	return "Subject: " + parts[1] + " \n\n\n Email content: " + parts[2], parts[0], parts[1], nil
}

type published struct {
	topic, message, subject string
}

type fakePublisher struct {
	published []published
	err       error
}

func (p *fakePublisher) Publish(_ context.Context, topic, message, subject string) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, published{topic, message, subject})
	return nil
}

type fakeActivityLogger struct {
	records map[string]*Complaint
	order   []string
	err     error
}

func newFakeActivityLogger() *fakeActivityLogger {
	return &fakeActivityLogger{records: make(map[string]*Complaint)}
}

func (l *fakeActivityLogger) Put(_ context.Context, messageID string, c *Complaint) error {
	if l.err != nil {
		return l.err
	}
	l.records[messageID] = c
	l.order = append(l.order, messageID)
	return nil
}

type metricCall struct {
	namespace, name string
	count           float64
}

type fakeMetrics struct {
	calls  []metricCall
	ctxErr []error
}

func (m *fakeMetrics) Increment(ctx context.Context, namespace, name string, count float64) {
	m.calls = append(m.calls, metricCall{namespace, name, count})
	m.ctxErr = append(m.ctxErr, ctx.Err())
}

type sentMail struct {
	to, subject, body string
}

type fakeMailer struct {
	sent []sentMail
}

func (m *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	if to == "" {
		return errors.New("no recipient")
	}
	m.sent = append(m.sent, sentMail{to, subject, body})
	return nil
}
