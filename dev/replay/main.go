package main

import (
	"context"
	"flag"
	"os"
	"strings"
	"time"

	"github.com/golang/glog"

	"github.com/mqy/minisync/source"
)

// The replay tool publishes recorded updates, one JSON frame per line, to
// the kafka topic that `minisync replay` consumes.

// kafka-topics.sh --bootstrap-server localhost:9092 --topic minisync-updates --create
// kafka-topics.sh --bootstrap-server localhost:9092 --topic minisync-updates --delete

var (
	kafkaEndpoints = flag.String("kafka-endpoints", "127.0.0.1:9092", "kafka endpoints, ',' delimitted.")
	kafkaTopic     = flag.String("topic", "minisync-updates", "kafka topic")
	inputFile      = flag.String("input", "", "JSON-lines file of recorded updates, '-' for stdin")
	key            = flag.String("key", "replay", "message key; one key keeps the order of the whole file")
	timeout        = flag.Duration("timeout", time.Minute, "give up after this long")
)

func main() {
	flag.Parse()
	os.Exit(run())
}

func run() int {
	defer glog.Flush()

	if len(*kafkaEndpoints) == 0 {
		glog.Error("--kafka-endpoints is required.")
		return 1
	}
	if *inputFile == "" {
		glog.Error("--input is required.")
		return 1
	}

	in := os.Stdin
	if *inputFile != "-" {
		f, err := os.Open(*inputFile)
		if err != nil {
			glog.Errorf("open input: %v", err)
			return 1
		}
		defer f.Close()
		in = f
	}

	w := source.NewWriter(source.Config{
		Brokers: strings.Split(*kafkaEndpoints, ","),
		Topic:   *kafkaTopic,
	})
	defer w.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	n, err := source.Publish(ctx, w, in, *key)
	if err != nil {
		glog.Errorf("published %d updates before error: %v", n, err)
		return 1
	}
	glog.Infof("published %d updates to %s", n, *kafkaTopic)
	return 0
}
