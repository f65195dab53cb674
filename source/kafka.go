package source

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/segmentio/kafka-go"

	"github.com/mqy/minisync/loop"
	"github.com/mqy/minisync/metrics"
	"github.com/mqy/minisync/tl"
)

const (
	kafkaReadTimeout  = 10 * time.Second
	kafkaWriteTimeout = 10 * time.Second

	DefaultValueMaxBytes = 1 << 20

	BackoffMinInterval = 1 * time.Second
	BackoffMaxInterval = 60 * time.Second
	BackoffMultiplier  = 1.5
)

type Config struct {
	Brokers []string
	Topic   string
	GroupID string

	// ValueMaxBytes bounds one frame. Zero means DefaultValueMaxBytes.
	ValueMaxBytes int
	// MaxAge discards messages older than it. Zero keeps everything.
	MaxAge time.Duration
}

// NewReader opens a consumer group reader for cfg.
func NewReader(cfg Config) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: cfg.Brokers,
		GroupID: cfg.GroupID,
		Topic:   cfg.Topic,
		Dialer: &kafka.Dialer{
			Timeout:   kafkaReadTimeout,
			DualStack: true,
		},
	})
}

// NewWriter opens a producer for cfg. Messages are balanced by key, so the
// pushes of one session stay in one partition.
func NewWriter(cfg Config) *kafka.Writer {
	return kafka.NewWriter(kafka.WriterConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.Topic,
		Balancer: &kafka.Hash{},
		Dialer: &kafka.Dialer{
			Timeout:   kafkaWriteTimeout,
			DualStack: true,
		},
	})
}

// Kafka consumes recorded pushes and applies them on the event loop. A
// message is committed only after it was applied; a crash in between replays
// it, which the dispatcher tolerates like any duplicate push.
type Kafka struct {
	reader        IKafkaReader
	sched         loop.Scheduler
	apply         func(tl.Update)
	valueMaxBytes int
	maxAge        time.Duration
	now           func() time.Time

	wg sync.WaitGroup
}

func New(reader IKafkaReader, sched loop.Scheduler, apply func(tl.Update), cfg Config) *Kafka {
	if cfg.ValueMaxBytes <= 0 {
		cfg.ValueMaxBytes = DefaultValueMaxBytes
	}
	return &Kafka{
		reader:        reader,
		sched:         sched,
		apply:         apply,
		valueMaxBytes: cfg.ValueMaxBytes,
		maxAge:        cfg.MaxAge,
		now:           time.Now,
	}
}

// Run consumes until ctx is done, then closes the reader and notifies
// stopDoneNotifyC when it is not nil.
func (k *Kafka) Run(ctx context.Context, stopDoneNotifyC chan<- struct{}) {
	glog.Info("source: enter")

	k.wg.Add(1)
	go k.consumeLoop(ctx)

	<-ctx.Done()

	glog.Info("source: stopping")
	_ = k.reader.Close()
	k.wg.Wait()

	glog.Info("source: stopped")
	if stopDoneNotifyC != nil {
		stopDoneNotifyC <- struct{}{}
	}
}

func (k *Kafka) consumeLoop(ctx context.Context) {
	glog.Info("source: consume loop enter")
	defer func() {
		glog.Info("source: consume loop exited")
		k.wg.Done()
	}()

	var sleep time.Duration
	for {
		msg, err := k.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				glog.V(5).Info("source: fetch was cancelled")
				return
			}
			glog.Errorf("source: fetch from kafka err: %v", err)
			if !wait(ctx, &sleep) {
				return
			}
			continue
		}
		sleep = 0

		if up := k.decode(&msg); up != nil {
			if err := loop.Call(ctx, k.sched, func() { k.apply(up) }); err != nil {
				// Not committed: fetched again by the next reader.
				return
			}
			metrics.SourceMessages.WithLabelValues(metrics.SourceApplied).Inc()
		} else {
			metrics.SourceMessages.WithLabelValues(metrics.SourceDiscarded).Inc()
		}

		for {
			err := k.reader.CommitMessages(ctx, msg)
			if err == nil {
				sleep = 0
				break
			}
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				glog.V(5).Info("source: commit was cancelled")
				return
			}
			glog.Errorf("source: commit offset %d err: %v", msg.Offset, err)
			if !wait(ctx, &sleep) {
				return
			}
		}
	}
}

// decode returns nil for a message that must be skipped: too large, too old
// or not an update.
func (k *Kafka) decode(msg *kafka.Message) tl.Update {
	if len(msg.Value) > k.valueMaxBytes {
		glog.Errorf("source: value of %d bytes out of limit, offset: %d", len(msg.Value), msg.Offset)
		return nil
	}
	if k.maxAge > 0 && !msg.Time.IsZero() && k.now().Sub(msg.Time) > k.maxAge {
		glog.Warningf("source: ignore message because too old, offset: %d, time: %s", msg.Offset, msg.Time)
		return nil
	}
	up, err := tl.DecodeUpdate(msg.Value)
	if err != nil {
		reason := metrics.DropMalformed
		if errors.Is(err, tl.ErrUnknownType) {
			reason = metrics.DropUnknownType
		}
		metrics.UpdatesDropped.WithLabelValues(reason).Inc()
		glog.Errorf("source: bad value at offset %d: %v", msg.Offset, err)
		return nil
	}
	return up
}

// wait sleeps for the next backoff interval. It returns false when ctx ended
// first.
func wait(ctx context.Context, sleep *time.Duration) bool {
	backoff(sleep)
	select {
	case <-time.After(*sleep):
		return true
	case <-ctx.Done():
		return false
	}
}

func backoff(d *time.Duration) {
	if *d == 0 {
		*d = BackoffMinInterval
	} else {
		*d = time.Duration(float64(*d) * BackoffMultiplier)
		if *d < BackoffMaxInterval {
			*d = d.Truncate(time.Millisecond)
		} else {
			*d = BackoffMinInterval
		}
	}
}
