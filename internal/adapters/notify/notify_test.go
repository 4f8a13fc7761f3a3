package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeSNS struct {
	input *sns.PublishInput
	err   error
}

func (f *fakeSNS) Publish(_ context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &sns.PublishOutput{MessageId: aws.String("sns-1")}, nil
}

func TestSNSPublisher(t *testing.T) {
	client := &fakeSNS{}
	p := NewSNSPublisher(client, zap.NewNop())

	require.NoError(t, p.Publish(context.Background(), "arn:aws:sns:us-east-1:1:billing", `{"messageId":"m1"}`, "Email Complaint Categorized: billing"))
	assert.Equal(t, "arn:aws:sns:us-east-1:1:billing", aws.ToString(client.input.TopicArn))
	assert.Equal(t, `{"messageId":"m1"}`, aws.ToString(client.input.Message))
	assert.Equal(t, "Email Complaint Categorized: billing", aws.ToString(client.input.Subject))
}

func TestSNSPublisher_TruncatesSubject(t *testing.T) {
	client := &fakeSNS{}
	p := NewSNSPublisher(client, zap.NewNop())

	require.NoError(t, p.Publish(context.Background(), "arn", "{}", "Email Complaint Categorized: "+strings.Repeat("x", 200)))
	assert.Len(t, aws.ToString(client.input.Subject), 99)
}

func TestSNSPublisher_TruncatesSubjectOnRuneBoundary(t *testing.T) {
	client := &fakeSNS{}
	p := NewSNSPublisher(client, zap.NewNop())

	require.NoError(t, p.Publish(context.Background(), "arn", "{}", "Email Complaint Categorized: "+strings.Repeat("é", 80)))
	subject := aws.ToString(client.input.Subject)
	assert.True(t, utf8.ValidString(subject))
	assert.Equal(t, 99, utf8.RuneCountInString(subject))
}

func TestSNSPublisher_Error(t *testing.T) {
	p := NewSNSPublisher(&fakeSNS{err: errors.New("not authorized")}, zap.NewNop())
	assert.ErrorContains(t, p.Publish(context.Background(), "arn", "{}", "s"), "not authorized")
}

func TestLogPublisher(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	p := NewLogPublisher(zap.New(core))

	require.NoError(t, p.Publish(context.Background(), "T0", "{}", "Email Complaint Categorized: unknown"))

	entries := logs.FilterMessage("Notification").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "T0", entries[0].ContextMap()["topic"])
}
