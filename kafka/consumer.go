// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package kafka

import (
	"context"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/wangtaoking1/shopdesk/errors"
	"github.com/wangtaoking1/shopdesk/log"
	"github.com/wangtaoking1/shopdesk/utils"
)

const (
	// errorRetryInterval is the interval to retry when brokers error occurs.
	errorRetryInterval = 5 * time.Second

	queueCacheSize = 100
)

// MessageHandler processes one message. Returning an error wrapping
// utils.NotRetryErr drops the message without further attempts.
type MessageHandler func(ctx context.Context, msg *Message) error

// Consumer reads a topic as a member of a consumer group.
type Consumer interface {
	Run(ctx context.Context)
}

// reader is the part of kafka.Reader a consumer uses.
type reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type consumer struct {
	opts    *Options
	handler MessageHandler

	reader    reader
	queue     *keyedQueue
	offsetMgr *offsetManager
}

// NewConsumer creates a consumer of opts.Topic in group opts.GroupID.
func NewConsumer(opts *Options, handler MessageHandler) (Consumer, error) {
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

	r := kafka.NewReader(kafka.ReaderConfig{
		Dialer:      a.Dialer(),
		Brokers:     opts.Brokers,
		Topic:       opts.Topic,
		GroupID:     opts.GroupID,
		MinBytes:    1,
		MaxBytes:    1 << 20,
		MaxWait:     10 * time.Second,
		StartOffset: opts.startOffset(),
	})

	return newConsumer(opts, r, handler), nil
}

func newConsumer(opts *Options, r reader, handler MessageHandler) *consumer {
	c := &consumer{
		opts:    opts,
		handler: handler,
		reader:  r,
	}
	c.queue = newKeyedQueue(opts.Workers, queueCacheSize, c.handleMessage)
	c.offsetMgr = newOffsetManager(opts.CommitInterval, c.commit)

	return c
}

// Run consumes until ctx is done, then commits what was handled and closes
// the reader.
func (c *consumer) Run(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		c.consume(ctx)
	}()
	go func() {
		defer wg.Done()
		c.queue.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		c.offsetMgr.Run(ctx)
	}()
	wg.Wait()

	if err := c.reader.Close(); err != nil {
		log.Warn("Failed to close kafka reader", "error", err)
	}
	log.Infow("Consumer stopped", "topic", c.opts.Topic)
}

func (c *consumer) consume(ctx context.Context) {
	for ctx.Err() == nil {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() == nil {
				log.Errorw("Error fetch kafka message", "topic", c.opts.Topic, "error", err)
				select {
				case <-ctx.Done():
				case <-time.After(errorRetryInterval):
				}
			}
			continue
		}

		seqID := c.offsetMgr.addMessage(&msg)
		c.queue.Add(ctx, seqID, &msg)
	}
}

func (c *consumer) handleMessage(ctx context.Context, seqID int64, m *kafka.Message) {
	defer c.offsetMgr.finish(seqID)
	defer func() {
		if r := recover(); r != nil {
			log.Errorw("Handle kafka message panic", "error", r)
		}
	}()

	msg := &Message{
		ID:      seqID,
		Key:     string(m.Key),
		Value:   m.Value,
		Headers: m.Headers,
	}
	err := utils.Retry(ctx, c.opts.RetryLimit, c.opts.RetryInterval, func() error {
		return c.handler(ctx, msg)
	})
	if err != nil {
		log.Errorw("Error handle message from kafka", "error", err, "key", msg.Key,
			"body", string(msg.Value))
	}
}

func (c *consumer) commit(ctx context.Context, msgs []kafka.Message) error {
	return utils.Retry(ctx, c.opts.RetryLimit, c.opts.RetryInterval, func() error {
		return c.reader.CommitMessages(ctx, msgs...)
	})
}
