package objects

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mikey/llm-email-categorizer/internal/core"
)

type fakeGetObject struct {
	input *s3.GetObjectInput
	body  string
	err   error
}

func (f *fakeGetObject) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(f.body))}, nil
}

func TestS3Fetcher(t *testing.T) {
	client := &fakeGetObject{body: "From: a@example.com\r\n\r\nhi"}
	fetcher := NewS3Fetcher(client, zap.NewNop())

	data, err := fetcher.Fetch(context.Background(), core.ObjectRef{Bucket: "inbound", Key: "emails/abc"})
	require.NoError(t, err)
	assert.Equal(t, "From: a@example.com\r\n\r\nhi", string(data))
	assert.Equal(t, "inbound", aws.ToString(client.input.Bucket))
	assert.Equal(t, "emails/abc", aws.ToString(client.input.Key))

	client.err = errors.New("access denied")
	_, err = fetcher.Fetch(context.Background(), core.ObjectRef{Bucket: "inbound", Key: "emails/abc"})
	assert.ErrorContains(t, err, "access denied")
}

func TestRefsFromS3Event(t *testing.T) {
	event := events.S3Event{Records: []events.S3EventRecord{
		{S3: events.S3Entity{Bucket: events.S3Bucket{Name: "inbound"}, Object: events.S3Object{Key: "emails/2024/abc%2B1+def"}}},
		{S3: events.S3Entity{Bucket: events.S3Bucket{Name: "inbound"}, Object: events.S3Object{Key: "plain"}}},
	}}

	refs, err := RefsFromS3Event(event)
	require.NoError(t, err)
	assert.Equal(t, []core.ObjectRef{
		{Bucket: "inbound", Key: "emails/2024/abc+1 def"},
		{Bucket: "inbound", Key: "plain"},
	}, refs)
	assert.Equal(t, "abc+1 def", core.MessageIDFromKey(refs[0].Key))

	_, err = RefsFromS3Event(events.S3Event{Records: []events.S3EventRecord{
		{S3: events.S3Entity{Object: events.S3Object{Key: "bad%zz"}}},
	}})
	assert.Error(t, err)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	ref := core.ObjectRef{Bucket: "intake", Key: "k1"}
	store.Put(ref, []byte("raw"))

	data, err := store.Fetch(context.Background(), ref)
	require.NoError(t, err)
	assert.Equal(t, "raw", string(data))

	store.Delete(ref)
	_, err = store.Fetch(context.Background(), ref)
	assert.Error(t, err)
}
