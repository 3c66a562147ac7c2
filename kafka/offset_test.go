// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type commitRecorder struct {
	mtx     sync.Mutex
	offsets []int64
	err     error
}

func (r *commitRecorder) commit(_ context.Context, msgs []kafka.Message) error {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if r.err != nil {
		return r.err
	}
	for _, m := range msgs {
		r.offsets = append(r.offsets, m.Offset)
	}
	return nil
}

func (r *commitRecorder) committed() []int64 {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	return append([]int64(nil), r.offsets...)
}

func addOffsets(om *offsetManager, n int) []int64 {
	var ids []int64
	for i := 0; i < n; i++ {
		ids = append(ids, om.addMessage(&kafka.Message{Offset: int64(100 + i)}))
	}
	return ids
}

func TestOffsetManager_CommitsContiguousPrefix(t *testing.T) {
	rec := &commitRecorder{}
	om := newOffsetManager(0, rec.commit)
	ids := addOffsets(om, 5)

	om.finish(ids[0], ids[1], ids[3])
	om.doCommit(context.Background())
	assert.Equal(t, []int64{100, 101}, rec.committed())
	assert.Equal(t, 3, om.pending())

	om.doCommit(context.Background())
	assert.Equal(t, []int64{100, 101}, rec.committed(), "nothing new is finished in order")

	om.finish(ids[2], ids[4])
	om.doCommit(context.Background())
	assert.Equal(t, []int64{100, 101, 102, 103, 104}, rec.committed())
	assert.Zero(t, om.pending())
}

func TestOffsetManager_ErrorCommit(t *testing.T) {
	rec := &commitRecorder{err: errors.New("commit error")}
	om := newOffsetManager(0, rec.commit)
	ids := addOffsets(om, 3)

	om.finish(ids...)
	om.doCommit(context.Background())
	assert.Empty(t, rec.committed())
	assert.Equal(t, 3, om.pending())

	rec.err = nil
	om.doCommit(context.Background())
	assert.Equal(t, []int64{100, 101, 102}, rec.committed())
	assert.Zero(t, om.pending())
}

func TestOffsetManager_FinishUnknown(t *testing.T) {
	om := newOffsetManager(0, (&commitRecorder{}).commit)
	om.finish(42)
	assert.Empty(t, om.finished)
}

func TestOffsetManager_RunFlushesOnStop(t *testing.T) {
	rec := &commitRecorder{}
	om := newOffsetManager(time.Hour, rec.commit)
	ids := addOffsets(om, 2)
	om.finish(ids...)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		om.Run(ctx)
		close(done)
	}()
	cancel()
	<-done

	require.Equal(t, []int64{100, 101}, rec.committed())
}
