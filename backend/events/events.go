// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

// Package events publishes domain events of the simulator.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/wangtaoking1/shopdesk/errors"
	kafkax "github.com/wangtaoking1/shopdesk/kafka"
	"github.com/wangtaoking1/shopdesk/log"
	"github.com/wangtaoking1/shopdesk/utils"
)

// Event types.
const (
	OrderPlaced        = "order.placed"
	OrderStatusChanged = "order.status_changed"
	DeliveryAccepted   = "delivery.accepted"
	TicketOpened       = "ticket.opened"
	TicketResponded    = "ticket.responded"
)

const typeHeader = "event-type"

// Event is something that happened to a resource. Subject is the id of the
// resource; events of one subject keep their order.
type Event struct {
	ID      string          `json:"id"`
	Type    string          `json:"type"`
	Subject string          `json:"subject"`
	Payload json.RawMessage `json:"payload,omitempty"`
	At      time.Time       `json:"at"`
}

// New builds an event with a fresh id. body is encoded as the payload.
func New(typ, subject string, body interface{}) (*Event, error) {
	e := &Event{
		ID:      uuid.NewString(),
		Type:    typ,
		Subject: subject,
		At:      time.Now().UTC(),
	}
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrapf(err, "encode %s event", typ)
		}
		e.Payload = data
	}

	return e, nil
}

// Publisher delivers events. Publish never fails the caller: delivery
// problems are logged.
type Publisher interface {
	Publish(ctx context.Context, typ, subject string, body interface{})
	Close()
}

// NewPublisher returns a kafka publisher when brokers are configured and a
// log publisher otherwise.
func NewPublisher(opts *kafkax.Options) (Publisher, error) {
	if !opts.Enabled() {
		log.Info("Kafka disabled, domain events are only logged")
		return NewLogPublisher(), nil
	}

	producer, err := kafkax.NewProducer(opts)
	if err != nil {
		return nil, err
	}

	return NewKafkaPublisher(producer, opts.RetryLimit, opts.RetryInterval), nil
}

type logPublisher struct{}

// NewLogPublisher returns a publisher writing events to the log.
func NewLogPublisher() Publisher {
	return logPublisher{}
}

func (logPublisher) Publish(ctx context.Context, typ, subject string, body interface{}) {
	e, err := New(typ, subject, body)
	if err != nil {
		log.From(ctx).Errorw("Drop event", "type", typ, "error", err)
		return
	}
	log.From(ctx).Infow("Event", "id", e.ID, "type", e.Type, "subject", e.Subject,
		"payload", string(e.Payload))
}

func (logPublisher) Close() {}

type kafkaPublisher struct {
	producer      kafkax.Producer
	retryLimit    int
	retryInterval time.Duration
}

// NewKafkaPublisher returns a publisher writing events to producer. Each
// event is keyed by its subject.
func NewKafkaPublisher(producer kafkax.Producer, retryLimit int, retryInterval time.Duration) Publisher {
	return &kafkaPublisher{
		producer:      producer,
		retryLimit:    retryLimit,
		retryInterval: retryInterval,
	}
}

func (p *kafkaPublisher) Publish(ctx context.Context, typ, subject string, body interface{}) {
	logger := log.From(ctx)

	e, err := New(typ, subject, body)
	if err != nil {
		logger.Errorw("Drop event", "type", typ, "error", err)
		return
	}
	value, err := json.Marshal(e)
	if err != nil {
		logger.Errorw("Drop event", "type", typ, "error", err)
		return
	}

	msg := kafkax.Message{
		Key:     subject,
		Value:   value,
		Headers: []kafka.Header{{Key: typeHeader, Value: []byte(typ)}},
	}
	err = utils.Retry(ctx, p.retryLimit, p.retryInterval, func() error {
		return p.producer.SendMessage(ctx, msg)
	})
	if err != nil {
		logger.Errorw("Failed to publish event", "id", e.ID, "type", typ, "subject", subject, "error", err)
	}
}

func (p *kafkaPublisher) Close() {
	p.producer.Close()
}

// Handler receives decoded events.
type Handler func(ctx context.Context, e *Event) error

// Subscribe consumes the event topic until ctx is done. Undecodable
// messages are dropped without retry.
func Subscribe(ctx context.Context, opts *kafkax.Options, handler Handler) error {
	consumer, err := kafkax.NewConsumer(opts, Decode(handler))
	if err != nil {
		return err
	}
	consumer.Run(ctx)

	return nil
}

// Decode adapts handler to raw kafka messages.
func Decode(handler Handler) kafkax.MessageHandler {
	return func(ctx context.Context, msg *kafkax.Message) error {
		var e Event
		if err := json.Unmarshal(msg.Value, &e); err != nil {
			return errors.Wrap(utils.NotRetryErr, err.Error())
		}

		return handler(ctx, &e)
	}
}
