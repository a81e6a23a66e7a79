// Package sqlitememory implements [memory.Provider] on a SQLite database
// file, so a transcript survives process restarts. Several conversations can
// share one file; each Memory is scoped to one conversation ID.
//
// The database is opened in WAL mode with a single connection, and every
// AppendMessages batch runs in one transaction.
//
//	mem, err := sqlitememory.Open("./transcripts.db", "")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer mem.Close()
package sqlitememory

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/leofalp/puter-go/core/content"
	"github.com/leofalp/puter-go/providers/memory"
	"github.com/leofalp/puter-go/providers/observability"
)

// Content is stored as its JSON encoding: a string for text, an array for parts.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS puter_messages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		conversation_id TEXT NOT NULL,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_puter_messages_conversation
		ON puter_messages (conversation_id, id)`,
}

// ErrClosed is returned by every method after Close.
var ErrClosed = errors.New("sqlitememory: closed")

// Memory is a transcript stored in SQLite.
type Memory struct {
	db             *sql.DB
	conversationID string
	closed         atomic.Bool
}

var (
	_ memory.Provider    = (*Memory)(nil)
	_ memory.Timestamped = (*Memory)(nil)
)

// Open opens (creating if needed) the database at path and scopes the Memory
// to conversationID. An empty conversationID starts a new conversation with a
// random UUID. Use ":memory:" for a database that lives as long as the Memory.
func Open(path, conversationID string) (*Memory, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlitememory: open %s: %w", path, err)
	}

	// One connection: SQLite has a single writer, and ":memory:" databases
	// are per connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx := context.Background()
	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000"} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlitememory: %s: %w", pragma, err)
		}
	}
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlitememory: create schema: %w", err)
		}
	}

	if conversationID == "" {
		conversationID = uuid.NewString()
	}
	return &Memory{db: db, conversationID: conversationID}, nil
}

// ConversationID returns the conversation this Memory reads and writes.
func (m *Memory) ConversationID() string {
	return m.conversationID
}

// Close closes the database. Later calls return nil.
func (m *Memory) Close() error {
	if m.closed.Swap(true) {
		return nil
	}
	return m.db.Close()
}

// AppendMessages inserts messages in one transaction.
func (m *Memory) AppendMessages(ctx context.Context, messages ...content.Message) (err error) {
	if m.closed.Load() {
		return ErrClosed
	}
	if len(messages) == 0 {
		return nil
	}

	encoded := make([][]byte, len(messages))
	for i, message := range messages {
		if encoded[i], err = json.Marshal(message.Content); err != nil {
			return fmt.Errorf("sqlitememory: encode message %d: %w", i, err)
		}
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return wrap("begin", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO puter_messages (conversation_id, role, content, created_at) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return wrap("prepare insert", err)
	}
	defer stmt.Close()

	created := time.Now().UTC().Format(time.RFC3339Nano)
	for i, message := range messages {
		if _, err = stmt.ExecContext(ctx, m.conversationID, string(message.Role), string(encoded[i]), created); err != nil {
			return wrap("insert", err)
		}
	}
	if err = tx.Commit(); err != nil {
		return wrap("commit", err)
	}

	observability.AddEvent(ctx, observability.EventTranscriptCommit,
		observability.String(observability.AttrMemoryMessageRole, string(messages[len(messages)-1].Role)),
		observability.Int(observability.AttrMessagesCount, len(messages)),
	)
	return nil
}

// AllMessages returns the conversation in insertion order.
func (m *Memory) AllMessages(ctx context.Context) ([]content.Message, error) {
	records, err := m.AllRecords(ctx)
	if err != nil {
		return nil, err
	}
	messages := make([]content.Message, len(records))
	for i, record := range records {
		messages[i] = record.Message
	}
	return messages, nil
}

// AllRecords returns the conversation in insertion order, each message with
// the time it was appended.
func (m *Memory) AllRecords(ctx context.Context) ([]memory.Record, error) {
	if m.closed.Load() {
		return nil, ErrClosed
	}
	rows, err := m.db.QueryContext(ctx,
		`SELECT role, content, created_at FROM puter_messages WHERE conversation_id = ? ORDER BY id ASC`,
		m.conversationID)
	if err != nil {
		return nil, wrap("query", err)
	}
	defer rows.Close()

	records := []memory.Record{}
	for rows.Next() {
		var role, raw, created string
		if err := rows.Scan(&role, &raw, &created); err != nil {
			return nil, wrap("scan", err)
		}
		record := memory.Record{Message: content.Message{Role: content.Role(role)}}
		if err := json.Unmarshal([]byte(raw), &record.Message.Content); err != nil {
			return nil, fmt.Errorf("sqlitememory: decode message: %w", err)
		}
		if record.CreatedAt, err = parseTime(created); err != nil {
			return nil, fmt.Errorf("sqlitememory: decode created_at: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("iterate", err)
	}
	return records, nil
}

// Count returns the number of messages in the conversation.
func (m *Memory) Count(ctx context.Context) (int, error) {
	if m.closed.Load() {
		return 0, ErrClosed
	}
	var count int
	err := m.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM puter_messages WHERE conversation_id = ?`,
		m.conversationID).Scan(&count)
	if err != nil {
		return 0, wrap("count", err)
	}
	return count, nil
}

// ClearMessages deletes the conversation's messages. Other conversations in
// the same file are untouched.
func (m *Memory) ClearMessages(ctx context.Context) error {
	if m.closed.Load() {
		return ErrClosed
	}
	if _, err := m.db.ExecContext(ctx,
		`DELETE FROM puter_messages WHERE conversation_id = ?`, m.conversationID); err != nil {
		return wrap("clear", err)
	}
	observability.AddEvent(ctx, observability.EventTranscriptClear)
	return nil
}

// parseTime reads created_at as written by AppendMessages, or in SQLite's
// CURRENT_TIMESTAMP form for rows inserted by other tools.
func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return time.Parse(time.DateTime, s)
}

func wrap(op string, err error) error {
	return fmt.Errorf("sqlitememory: %s: %w", op, err)
}
