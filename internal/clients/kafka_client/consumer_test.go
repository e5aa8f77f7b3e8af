package kafka_client

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedReader struct {
	results []readResult
	calls   int
}

type readResult struct {
	msg *kafka.Message
	err error
}

func (r *scriptedReader) ReadMessage(_ time.Duration) (*kafka.Message, error) {
	if r.calls >= len(r.results) {
		return nil, kafka.NewError(kafka.ErrTimedOut, "timed out", false)
	}
	res := r.results[r.calls]
	r.calls++
	return res.msg, res.err
}

type countingCommitter struct {
	errs  []error
	calls int
}

func (c *countingCommitter) CommitMessage(_ *kafka.Message) ([]kafka.TopicPartition, error) {
	c.calls++
	if c.calls <= len(c.errs) {
		return nil, c.errs[c.calls-1]
	}
	return nil, nil
}

func TestMessageIterator_SkipsTimeouts(t *testing.T) {
	want := &kafka.Message{Value: []byte("x")}
	reader := &scriptedReader{results: []readResult{
		{err: kafka.NewError(kafka.ErrTimedOut, "timed out", false)},
		{err: kafka.NewError(kafka.ErrTimedOut, "timed out", false)},
		{msg: want},
	}}

	msg, err := NewMessageIterator(reader).Next(context.Background())
	require.NoError(t, err)
	assert.Same(t, want, msg)
	assert.Equal(t, 3, reader.calls)
}

func TestMessageIterator_AbortsWhenBrokersDown(t *testing.T) {
	reader := &scriptedReader{results: []readResult{
		{err: kafka.NewError(kafka.ErrAllBrokersDown, "down", false)},
	}}

	_, err := NewMessageIterator(reader).Next(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 1, reader.calls)
}

func TestMessageIterator_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMessageIterator(&scriptedReader{}).Next(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMessageIterator_NilReader(t *testing.T) {
	_, err := NewMessageIterator(nil).Next(context.Background())
	assert.Error(t, err)
}

func TestCommitHandler_Commits(t *testing.T) {
	committer := &countingCommitter{}
	err := NewCommitHandler(committer).Commit(context.Background(), &kafka.Message{})
	require.NoError(t, err)
	assert.Equal(t, 1, committer.calls)
}

func TestCommitHandler_AbortsWhenBrokersDown(t *testing.T) {
	committer := &countingCommitter{errs: []error{kafka.NewError(kafka.ErrAllBrokersDown, "down", false)}}
	err := NewCommitHandler(committer).Commit(context.Background(), &kafka.Message{})
	assert.Error(t, err)
	assert.Equal(t, 1, committer.calls)
}

func TestCommitHandler_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	committer := &countingCommitter{}
	err := NewCommitHandler(committer).Commit(ctx, &kafka.Message{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, committer.calls)
}

func TestDecodeRunSummary(t *testing.T) {
	summary, err := decodeRunSummary(&kafka.Message{
		Key:   []byte("run-7"),
		Value: []byte(`{"focal_brand":"atomberg","post_count":4,"spv":[{"brand":"lg","spv":null}]}`),
	})
	require.NoError(t, err)
	assert.Equal(t, "run-7", summary.RunID)
	assert.Equal(t, 4, summary.PostCount)
	require.Len(t, summary.SPV, 1)
	assert.False(t, summary.SPV[0].SPV.Valid)

	_, err = decodeRunSummary(&kafka.Message{Value: []byte("not json")})
	assert.Error(t, err)
	assert.False(t, errors.Is(err, context.Canceled))
}
