package source

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mqy/minisync/loop"
	source_mock "github.com/mqy/minisync/source/mock"
	"github.com/mqy/minisync/tl"
)

const titleFrame = `{"@type":"updateChatTitle","chat_id":42,"title":"Foo"}`

// feed returns a FetchMessage stub serving msgs in order, then blocking until
// ctx is done.
func feed(msgs ...kafka.Message) func(context.Context) (kafka.Message, error) {
	ch := make(chan kafka.Message, len(msgs))
	for _, m := range msgs {
		ch <- m
	}
	return func(ctx context.Context) (kafka.Message, error) {
		select {
		case m := <-ch:
			return m, nil
		case <-ctx.Done():
			return kafka.Message{}, ctx.Err()
		}
	}
}

func startLoop(ctx context.Context) *loop.Loop {
	l := loop.New()
	go l.Run(ctx)
	return l
}

func TestConsumeLoop(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()
	reader := source_mock.NewMockIKafkaReader(mockCtrl)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	msgs := []kafka.Message{
		{Offset: 1, Value: []byte(titleFrame), Time: time.Now()},
		{Offset: 2, Value: []byte(strings.Repeat("x", 64))},
		{Offset: 3, Value: []byte(`{"@type":"updateNoSuchThing"}`)},
		{Offset: 4, Value: []byte(`not json`)},
		{Offset: 5, Value: []byte(titleFrame), Time: time.Now().Add(-2 * time.Hour)},
	}
	reader.EXPECT().FetchMessage(gomock.Any()).DoAndReturn(feed(msgs...)).AnyTimes()

	committed := make(chan int64, len(msgs))
	reader.EXPECT().CommitMessages(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, ms ...kafka.Message) error {
			committed <- ms[0].Offset
			return nil
		}).Times(len(msgs))
	reader.EXPECT().Close().Times(1)

	var applied []string
	appliedC := make(chan struct{}, len(msgs))
	apply := func(up tl.Update) {
		applied = append(applied, up.(*tl.UpdateChatTitle).Title)
		appliedC <- struct{}{}
	}

	k := New(reader, startLoop(ctx), apply, Config{ValueMaxBytes: 60, MaxAge: time.Hour})
	stopped := make(chan struct{}, 1)
	runCtx, stop := context.WithCancel(ctx)
	go k.Run(runCtx, stopped)

	for i := range msgs {
		select {
		case off := <-committed:
			assert.Equal(t, msgs[i].Offset, off)
		case <-ctx.Done():
			t.Fatal("commit timeout")
		}
	}
	<-appliedC
	stop()
	<-stopped
	assert.Equal(t, []string{"Foo"}, applied)
}

func TestCommitRetry(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()
	reader := source_mock.NewMockIKafkaReader(mockCtrl)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	reader.EXPECT().FetchMessage(gomock.Any()).DoAndReturn(
		feed(kafka.Message{Offset: 7, Value: []byte(titleFrame)})).AnyTimes()
	done := make(chan struct{})
	gomock.InOrder(
		reader.EXPECT().CommitMessages(gomock.Any(), gomock.Any()).Return(errors.New("broker down")),
		reader.EXPECT().CommitMessages(gomock.Any(), gomock.Any()).DoAndReturn(
			func(context.Context, ...kafka.Message) error {
				close(done)
				return nil
			}),
	)
	reader.EXPECT().Close().Times(1)

	n := 0
	k := New(reader, startLoop(ctx), func(tl.Update) { n++ }, Config{})
	runCtx, stop := context.WithCancel(ctx)
	stopped := make(chan struct{}, 1)
	go k.Run(runCtx, stopped)

	select {
	case <-done:
	case <-ctx.Done():
		t.Fatal("no retry")
	}
	stop()
	<-stopped
	assert.Equal(t, 1, n, "a failed commit must not apply twice")
}

func TestStopWhileFetching(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()
	reader := source_mock.NewMockIKafkaReader(mockCtrl)

	reader.EXPECT().FetchMessage(gomock.Any()).DoAndReturn(feed()).Times(1)
	reader.EXPECT().Close().Return(nil).Times(1)

	ctx, cancel := context.WithCancel(context.Background())
	k := New(reader, loop.NewManual(time.Now()), func(tl.Update) {
		t.Error("nothing to apply")
	}, Config{})
	stopped := make(chan struct{}, 1)
	go k.Run(ctx, stopped)
	cancel()

	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("source did not stop")
	}
}

func TestBackoff(t *testing.T) {
	var d time.Duration
	backoff(&d)
	assert.Equal(t, BackoffMinInterval, d)
	backoff(&d)
	assert.Equal(t, 1500*time.Millisecond, d)
	backoff(&d)
	assert.Equal(t, 2250*time.Millisecond, d)

	d = 50 * time.Second
	backoff(&d)
	assert.Equal(t, BackoffMinInterval, d)
}

func TestPublish(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()
	writer := source_mock.NewMockIKafkaWriter(mockCtrl)

	var got []kafka.Message
	writer.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, ms ...kafka.Message) error {
			got = append(got, ms...)
			return nil
		}).AnyTimes()

	in := "# recorded\n" + titleFrame + "\n\n  " + titleFrame + "  \n"
	n, err := Publish(context.Background(), writer, strings.NewReader(in), "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Len(t, got, 2)
	assert.Equal(t, "s1", string(got[1].Key))
	assert.Equal(t, titleFrame, string(got[1].Value))
}

func TestPublishBadLine(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()
	writer := source_mock.NewMockIKafkaWriter(mockCtrl)

	n, err := Publish(context.Background(), writer, strings.NewReader(titleFrame+"\n{oops\n"), "s1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
	assert.Zero(t, n)
}

func TestPublishWriteError(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()
	writer := source_mock.NewMockIKafkaWriter(mockCtrl)
	writer.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).Return(errors.New("no leader"))

	_, err := Publish(context.Background(), writer, strings.NewReader(titleFrame), "s1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no leader")
}
