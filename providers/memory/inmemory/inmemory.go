package inmemory

import (
	"context"
	"sync"
	"time"

	"github.com/leofalp/puter-go/core/content"
	"github.com/leofalp/puter-go/providers/memory"
	"github.com/leofalp/puter-go/providers/observability"
)

// Memory is a simple, concurrency-safe in-memory transcript.
// It uses RWMutex to guard access and is efficient for read-heavy workloads.
type Memory struct {
	mu      sync.RWMutex
	records []memory.Record
}

// New returns a new, empty [Memory] ready for immediate use.
func New() *Memory {
	return &Memory{
		records: []memory.Record{},
	}
}

// Ensure Memory implements memory.Provider at compile time.
var (
	_ memory.Provider    = (*Memory)(nil)
	_ memory.Timestamped = (*Memory)(nil)
)

// AppendMessages stores deep copies of messages under a single lock, so a
// concurrent reader sees either none or all of them. The batch shares one
// timestamp.
// When an observability span is present in ctx, a commit event is recorded with
// the running total message count.
func (m *Memory) AppendMessages(ctx context.Context, messages ...content.Message) error {
	if len(messages) == 0 {
		return nil
	}

	now := time.Now()
	copies := make([]memory.Record, len(messages))
	for i, message := range messages {
		copies[i] = memory.Record{Message: message.Clone(), CreatedAt: now}
	}

	m.mu.Lock()
	m.records = append(m.records, copies...)
	totalMessages := len(m.records)
	m.mu.Unlock()

	observability.AddEvent(ctx, observability.EventTranscriptCommit,
		observability.String(observability.AttrMemoryMessageRole, string(messages[len(messages)-1].Role)),
		observability.Int(observability.AttrMemoryTotalMessages, totalMessages),
	)
	return nil
}

// Count returns the number of messages stored. The returned error is always nil.
func (m *Memory) Count(_ context.Context) (int, error) {
	m.mu.RLock()
	n := len(m.records)
	m.mu.RUnlock()
	return n, nil
}

// AllMessages returns deep copies of all messages to avoid external mutation
// of internal state. The returned error is always nil.
func (m *Memory) AllMessages(_ context.Context) ([]content.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]content.Message, len(m.records))
	for i, record := range m.records {
		out[i] = record.Message.Clone()
	}
	return out, nil
}

// AllRecords is AllMessages with the time each message was appended.
func (m *Memory) AllRecords(_ context.Context) ([]memory.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]memory.Record, len(m.records))
	for i, record := range m.records {
		out[i] = memory.Record{Message: record.Message.Clone(), CreatedAt: record.CreatedAt}
	}
	return out, nil
}

// ClearMessages removes all messages while retaining the underlying slice capacity.
func (m *Memory) ClearMessages(ctx context.Context) error {
	observability.AddEvent(ctx, observability.EventTranscriptClear)

	m.mu.Lock()
	clear(m.records)
	m.records = m.records[:0]
	m.mu.Unlock()
	return nil
}
