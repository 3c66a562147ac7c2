// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package kafka

import (
	"context"
	"hash/fnv"
	"sync"
	"sync/atomic"

	"github.com/segmentio/kafka-go"
)

type queueItem struct {
	seqID int64
	msg   *kafka.Message
}

type itemHandler func(ctx context.Context, seqID int64, msg *kafka.Message)

// keyedQueue fans messages out to a fixed set of workers. Messages with the
// same key always go to the same worker and are handled in fetch order;
// messages without a key are spread round robin.
type keyedQueue struct {
	workerQs []chan queueItem
	handler  itemHandler
	next     atomic.Uint32
}

func newKeyedQueue(workers, cacheSize int, handler itemHandler) *keyedQueue {
	workerQs := make([]chan queueItem, workers)
	for i := range workerQs {
		workerQs[i] = make(chan queueItem, cacheSize)
	}

	return &keyedQueue{workerQs: workerQs, handler: handler}
}

// Add blocks while the worker of the message is busy and its queue full.
func (q *keyedQueue) Add(ctx context.Context, seqID int64, msg *kafka.Message) {
	select {
	case <-ctx.Done():
	case q.workerQs[q.index(msg.Key)] <- queueItem{seqID: seqID, msg: msg}:
	}
}

func (q *keyedQueue) index(key []byte) int {
	n := uint32(len(q.workerQs))
	if len(key) == 0 {
		return int(q.next.Add(1) % n)
	}
	h := fnv.New32a()
	_, _ = h.Write(key)

	return int(h.Sum32() % n)
}

// Run handles queued messages until ctx is done.
func (q *keyedQueue) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for _, ch := range q.workerQs {
		wg.Add(1)
		go func(ch chan queueItem) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case it := <-ch:
					q.handler(ctx, it.seqID, it.msg)
				}
			}
		}(ch)
	}
	wg.Wait()
}
