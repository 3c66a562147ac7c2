// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package kafka

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
)

func TestKeyedQueue_SameKeyInOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		mtx   sync.Mutex
		wg    sync.WaitGroup
		byKey = map[string][]int64{}
	)
	q := newKeyedQueue(4, 10, func(_ context.Context, seqID int64, msg *kafka.Message) {
		defer wg.Done()
		mtx.Lock()
		defer mtx.Unlock()
		byKey[string(msg.Key)] = append(byKey[string(msg.Key)], seqID)
	})
	go q.Run(ctx)

	keys := []string{"order-1", "order-2", "order-3"}
	var seq int64
	for i := 0; i < 30; i++ {
		wg.Add(1)
		q.Add(ctx, seq, &kafka.Message{Key: []byte(keys[i%len(keys)])})
		seq++
	}
	wg.Wait()

	mtx.Lock()
	defer mtx.Unlock()
	for _, k := range keys {
		ids := byKey[k]
		assert.Len(t, ids, 10)
		for i := 1; i < len(ids); i++ {
			assert.Less(t, ids[i-1], ids[i], "key %s", k)
		}
	}
}

func TestKeyedQueue_Index(t *testing.T) {
	q := newKeyedQueue(3, 1, nil)

	assert.Equal(t, q.index([]byte("a")), q.index([]byte("a")))

	seen := map[int]bool{}
	for i := 0; i < 3; i++ {
		seen[q.index(nil)] = true
	}
	assert.Len(t, seen, 3, "keyless messages are spread over every worker")
}

func TestKeyedQueue_AddAfterStop(t *testing.T) {
	q := newKeyedQueue(1, 0, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		q.Add(ctx, 0, &kafka.Message{})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Add blocked on a stopped queue")
	}
}
