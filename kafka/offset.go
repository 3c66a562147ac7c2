// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package kafka

import (
	"context"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/wangtaoking1/shopdesk/log"
)

type offsetCommitter func(ctx context.Context, messages []kafka.Message) error

// offsetManager commits messages in fetch order: a message is committed only
// once it and every message fetched before it are finished.
type offsetManager struct {
	mtx         sync.Mutex
	globalID    int64
	nextID      int64
	committedID int64

	commitInterval time.Duration
	commitFunc     offsetCommitter

	msgs     map[int64]*kafka.Message
	finished map[int64]struct{}
}

func newOffsetManager(commitInterval time.Duration, commitFunc offsetCommitter) *offsetManager {
	return &offsetManager{
		committedID:    -1,
		commitInterval: commitInterval,
		commitFunc:     commitFunc,
		msgs:           make(map[int64]*kafka.Message),
		finished:       make(map[int64]struct{}),
	}
}

// Run commits periodically until ctx is done, then commits once more.
func (m *offsetManager) Run(ctx context.Context) {
	t := time.NewTicker(m.commitInterval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			m.doCommit(context.Background())
			return
		case <-t.C:
			m.doCommit(ctx)
		}
	}
}

func (m *offsetManager) doCommit(ctx context.Context) {
	committedID, msgs := m.commitMsgs()
	if len(msgs) == 0 {
		return
	}

	if err := m.commitFunc(ctx, msgs); err != nil {
		log.Errorw("Error commit offset to kafka", "error", err)
		return
	}

	m.refreshStatus(committedID)
}

// commitMsgs returns the finished prefix not committed yet.
func (m *offsetManager) commitMsgs() (int64, []kafka.Message) {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	for m.nextID < m.globalID {
		if _, ok := m.finished[m.nextID]; !ok {
			break
		}
		delete(m.finished, m.nextID)
		m.nextID++
	}

	var msgs []kafka.Message
	for seqID := m.committedID + 1; seqID < m.nextID; seqID++ {
		msgs = append(msgs, *m.msgs[seqID])
	}

	return m.nextID - 1, msgs
}

func (m *offsetManager) refreshStatus(committedID int64) {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	for seqID := m.committedID + 1; seqID <= committedID; seqID++ {
		delete(m.msgs, seqID)
	}
	m.committedID = committedID
}

func (m *offsetManager) addMessage(msg *kafka.Message) int64 {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	seqID := m.globalID
	m.globalID++
	m.msgs[seqID] = msg

	return seqID
}

func (m *offsetManager) finish(seqIDs ...int64) {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	for _, seqID := range seqIDs {
		if _, ok := m.msgs[seqID]; ok {
			m.finished[seqID] = struct{}{}
		}
	}
}

func (m *offsetManager) pending() int {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	return len(m.msgs)
}
