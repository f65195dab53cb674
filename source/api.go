// Package source feeds recorded pushes from kafka into a session. Every
// message value is one raw update frame.
package source

import (
	"context"

	"github.com/segmentio/kafka-go"
)

type IKafkaReader interface {
	FetchMessage(context.Context) (kafka.Message, error)
	CommitMessages(context.Context, ...kafka.Message) error
	Close() error
}

type IKafkaWriter interface {
	WriteMessages(context.Context, ...kafka.Message) error
	Close() error
}
