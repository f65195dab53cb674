package source

import (
	"bufio"
	"bytes"
	"context"
	"io"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"

	"github.com/mqy/minisync/tl"
)

const publishBatch = 100

// Publish writes every line of r as one message keyed by key. Empty lines and
// lines starting with '#' are skipped. A line that is not an update stops the
// publish with an error naming the line. It returns the number of messages
// written.
func Publish(ctx context.Context, w IKafkaWriter, r io.Reader, key string) (int, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64<<10), DefaultValueMaxBytes)

	var (
		batch []kafka.Message
		n     int
		line  int
	)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := w.WriteMessages(ctx, batch...); err != nil {
			return errors.Wrapf(err, "write %d messages", len(batch))
		}
		n += len(batch)
		batch = batch[:0]
		return nil
	}

	for sc.Scan() {
		line++
		value := bytes.TrimSpace(sc.Bytes())
		if len(value) == 0 || value[0] == '#' {
			continue
		}
		if _, err := tl.DecodeUpdate(value); err != nil {
			return n, errors.Wrapf(err, "line %d", line)
		}
		batch = append(batch, kafka.Message{
			Key:   []byte(key),
			Value: append([]byte(nil), value...),
		})
		if len(batch) >= publishBatch {
			if err := flush(); err != nil {
				return n, err
			}
		}
	}
	if err := sc.Err(); err != nil {
		return n, errors.Wrapf(err, "read line %d", line+1)
	}
	return n, flush()
}
