// Package export serialises a conversation as a transcript log document:
// the bot identity, the start time and one {timestamp, user, bot} record per
// exchange, in order. JSON and YAML encodings share the same field names.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/leofalp/puter-go/core/content"
	"github.com/leofalp/puter-go/providers/memory"
)

// Entry is one user/bot exchange.
type Entry struct {
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	User      string    `json:"user" yaml:"user"`
	Bot       string    `json:"bot" yaml:"bot"`
}

// Log is a transcript log document. It is not safe for concurrent use.
type Log struct {
	Bot       string    `json:"bot" yaml:"bot"`
	StartedAt time.Time `json:"started_at" yaml:"started_at"`
	Entries   []Entry   `json:"entries" yaml:"entries"`
}

// New returns an empty log for bot.
func New(bot string, startedAt time.Time) *Log {
	return &Log{Bot: bot, StartedAt: startedAt, Entries: []Entry{}}
}

// Record appends an exchange that happened at at.
func (l *Log) Record(at time.Time, user, bot string) {
	l.Entries = append(l.Entries, Entry{Timestamp: at, User: user, Bot: bot})
}

// FromMessages pairs each user message with the assistant message that
// follows it. Plain messages carry no time, so every entry is stamped with
// startedAt; prefer [FromRecords] when the store keeps append times.
func FromMessages(bot string, startedAt time.Time, messages []content.Message) (*Log, error) {
	records := make([]memory.Record, len(messages))
	for i, message := range messages {
		records[i] = memory.Record{Message: message, CreatedAt: startedAt}
	}
	return FromRecords(bot, startedAt, records)
}

// FromRecords pairs each user message with the assistant message that
// follows it. An entry is stamped with the time its reply was stored.
// System messages are skipped; a user message without a reply is an error.
func FromRecords(bot string, startedAt time.Time, records []memory.Record) (*Log, error) {
	log := New(bot, startedAt)
	var pending *content.Message
	for i := range records {
		message := records[i].Message
		switch message.Role {
		case content.RoleUser:
			if pending != nil {
				return nil, fmt.Errorf("export: message %d: user message without a reply", i-1)
			}
			pending = &message
		case content.RoleAssistant:
			if pending == nil {
				return nil, fmt.Errorf("export: message %d: reply without a user message", i)
			}
			log.Record(records[i].CreatedAt, pending.Content.String(), message.Content.String())
			pending = nil
		}
	}
	if pending != nil {
		return nil, fmt.Errorf("export: last user message has no reply")
	}
	return log, nil
}

// WriteJSON writes log as indented JSON.
func WriteJSON(w io.Writer, log *Log) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(log)
}

// WriteYAML writes log as YAML.
func WriteYAML(w io.Writer, log *Log) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(log); err != nil {
		return err
	}
	return encoder.Close()
}

// ReadJSON decodes a log written by WriteJSON.
func ReadJSON(r io.Reader) (*Log, error) {
	var log Log
	if err := json.NewDecoder(r).Decode(&log); err != nil {
		return nil, fmt.Errorf("export: decode json: %w", err)
	}
	return &log, nil
}

// ReadYAML decodes a log written by WriteYAML.
func ReadYAML(r io.Reader) (*Log, error) {
	var log Log
	if err := yaml.NewDecoder(r).Decode(&log); err != nil {
		return nil, fmt.Errorf("export: decode yaml: %w", err)
	}
	return &log, nil
}

// SaveFile writes log to path, as YAML for .yaml and .yml and as JSON
// otherwise.
func SaveFile(path string, log *Log) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); err == nil && closeErr != nil {
			err = fmt.Errorf("export: %w", closeErr)
		}
	}()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return WriteYAML(f, log)
	default:
		return WriteJSON(f, log)
	}
}
