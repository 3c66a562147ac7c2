// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package kafka

import (
	"context"

	"github.com/segmentio/kafka-go"

	"github.com/wangtaoking1/shopdesk/errors"
	"github.com/wangtaoking1/shopdesk/log"
)

// Message is one record of a topic.
type Message struct {
	// ID is the position of the message within its consumer, unset when
	// producing.
	ID      int64
	Key     string
	Value   []byte
	Headers []kafka.Header
}

// Producer writes messages to the configured topic.
type Producer interface {
	SendMessage(ctx context.Context, msgs ...Message) error
	Close()
}

type producer struct {
	topic  string
	writer *kafka.Writer
}

// NewProducer creates a producer for opts.Topic.
func NewProducer(opts *Options) (Producer, error) {
	if !opts.Enabled() {
		return nil, errors.New("no kafka brokers configured")
	}
	if errs := opts.Validate(); len(errs) > 0 {
		return nil, errors.NewAggregate(errs)
	}

	a, err := opts.authenticator()
	if err != nil {
		return nil, err
	}

	return &producer{
		topic: opts.Topic,
		writer: &kafka.Writer{
			Transport:              a.Transport(),
			Addr:                   kafka.TCP(opts.Brokers...),
			Topic:                  opts.Topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequiredAcks(opts.RequiredAcks),
			Async:                  opts.Async,
			Compression:            kafka.Gzip,
			AllowAutoTopicCreation: true,
		},
	}, nil
}

func (p *producer) Close() {
	if err := p.writer.Close(); err != nil {
		log.Error("Error close kafka producer", "error", err)
	}
}

// SendMessage writes msgs. Messages sharing a key land on one partition.
func (p *producer) SendMessage(ctx context.Context, msgs ...Message) error {
	kafkaMsgs := make([]kafka.Message, 0, len(msgs))
	for _, msg := range msgs {
		kafkaMsgs = append(kafkaMsgs, kafka.Message{
			Key:     []byte(msg.Key),
			Value:   msg.Value,
			Headers: msg.Headers,
		})
	}

	return errors.Wrapf(p.writer.WriteMessages(ctx, kafkaMsgs...), "write to %s", p.topic)
}
