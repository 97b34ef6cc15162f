package audit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"virapi/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memorySink 内存落盘目标
type memorySink struct {
	mu    sync.Mutex
	logs  []*model.RequestLog
	err   error
	block chan struct{} // 非nil时写入阻塞直到被关闭
}

func (s *memorySink) Insert(ctx context.Context, log *model.RequestLog) error {
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, log)
	return nil
}

func (s *memorySink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.logs)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestRecorderWritesAsync(t *testing.T) {
	sink := &memorySink{}
	rec, err := NewRecorder(sink, nil, RecorderConfig{PoolSize: 2})
	require.NoError(t, err)
	defer rec.Close()

	rec.Record(&model.RequestLog{AppID: "a-1", URI: "/demo/x"})

	waitFor(t, func() bool { return sink.count() == 1 })
	assert.Equal(t, "a-1", sink.logs[0].AppID)
	assert.False(t, sink.logs[0].Created.IsZero(), "created timestamp is filled in")
}

func TestRecorderSwallowsSinkFailure(t *testing.T) {
	sink := &memorySink{err: errors.New("mongo down")}
	rec, err := NewRecorder(sink, nil, RecorderConfig{PoolSize: 2})
	require.NoError(t, err)
	defer rec.Close()

	// 落盘失败不外溢，调用方无感知
	rec.Record(&model.RequestLog{AppID: "a-1"})
	rec.Record(&model.RequestLog{AppID: "a-1"})
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, sink.count())
}

func TestRecorderDropsWhenPoolSaturated(t *testing.T) {
	block := make(chan struct{})
	sink := &memorySink{block: block}
	rec, err := NewRecorder(sink, nil, RecorderConfig{
		PoolSize:     1,
		WriteTimeout: 5 * time.Second,
	})
	require.NoError(t, err)

	// 第一条占住唯一协程，后续投递被直接丢弃
	for i := 0; i < 5; i++ {
		rec.Record(&model.RequestLog{AppID: "a-1"})
	}
	close(block)
	rec.Close()

	assert.Equal(t, 1, sink.count())
}

func TestRecorderIgnoresNil(t *testing.T) {
	sink := &memorySink{}
	rec, err := NewRecorder(sink, nil, RecorderConfig{PoolSize: 1})
	require.NoError(t, err)
	defer rec.Close()

	rec.Record(nil)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 0, sink.count())
}

func TestRecorderCloseFlushesPending(t *testing.T) {
	sink := &memorySink{}
	rec, err := NewRecorder(sink, nil, RecorderConfig{PoolSize: 4, FlushTimeout: 2 * time.Second})
	require.NoError(t, err)

	for i := 0; i < 8; i++ {
		rec.Record(&model.RequestLog{AppID: "a-1"})
	}
	rec.Close()

	// 非阻塞池容量内的任务在关闭前写完
	assert.GreaterOrEqual(t, sink.count(), 4)
}
