package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/leofalp/puter-go/core/content"
	"github.com/leofalp/puter-go/providers/memory"
)

var start = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func message(role content.Role, text string) content.Message {
	return content.Message{Role: role, Content: content.Text(text)}
}

func TestFromMessages(t *testing.T) {
	messages := []content.Message{
		message(content.RoleSystem, "be nice"),
		message(content.RoleUser, "hi"),
		message(content.RoleAssistant, "hello"),
		{Role: content.RoleUser, Content: content.Parts(content.TextPart("look "), content.ImagePart("https://x/y.png"), content.TextPart("here"))},
		message(content.RoleAssistant, "a cat"),
	}

	log, err := FromMessages("Puter", start, messages)
	if err != nil {
		t.Fatalf("FromMessages: %v", err)
	}
	if len(log.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(log.Entries))
	}
	if log.Entries[0].User != "hi" || log.Entries[0].Bot != "hello" {
		t.Errorf("entry 0 = %+v", log.Entries[0])
	}
	if log.Entries[1].User != "look here" || log.Entries[1].Bot != "a cat" {
		t.Errorf("entry 1 = %+v", log.Entries[1])
	}
	if !log.Entries[1].Timestamp.Equal(start) {
		t.Errorf("entries must be stamped with the start time, got %v", log.Entries[1].Timestamp)
	}
}

func TestFromRecords_StampsReplyTime(t *testing.T) {
	first, second := start.Add(time.Minute), start.Add(3*time.Minute)
	records := []memory.Record{
		{Message: message(content.RoleUser, "hi"), CreatedAt: first},
		{Message: message(content.RoleAssistant, "hello"), CreatedAt: first},
		{Message: message(content.RoleUser, "again"), CreatedAt: second},
		{Message: message(content.RoleAssistant, "sure"), CreatedAt: second},
	}

	log, err := FromRecords("Puter", start, records)
	if err != nil {
		t.Fatalf("FromRecords: %v", err)
	}
	if len(log.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(log.Entries))
	}
	if !log.Entries[0].Timestamp.Equal(first) || !log.Entries[1].Timestamp.Equal(second) {
		t.Errorf("timestamps = %v, %v", log.Entries[0].Timestamp, log.Entries[1].Timestamp)
	}
	if !log.StartedAt.Equal(start) {
		t.Errorf("started_at = %v", log.StartedAt)
	}
}

func TestFromMessages_Unpaired(t *testing.T) {
	tests := []struct {
		name     string
		messages []content.Message
	}{
		{"trailing user", []content.Message{message(content.RoleUser, "hi")}},
		{"leading reply", []content.Message{message(content.RoleAssistant, "hello")}},
		{"two users", []content.Message{message(content.RoleUser, "a"), message(content.RoleUser, "b")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FromMessages("Puter", start, tt.messages); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestWriteJSON_FieldNames(t *testing.T) {
	log := New("Puter", start)
	log.Record(start.Add(time.Minute), "hi", "hello")

	var buf bytes.Buffer
	if err := WriteJSON(&buf, log); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if doc["bot"] != "Puter" || doc["started_at"] != "2025-03-01T10:00:00Z" {
		t.Errorf("header fields = %v", doc)
	}
	entry := doc["entries"].([]any)[0].(map[string]any)
	if entry["timestamp"] != "2025-03-01T10:01:00Z" || entry["user"] != "hi" || entry["bot"] != "hello" {
		t.Errorf("entry = %v", entry)
	}

	back, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if back.Bot != log.Bot || !back.StartedAt.Equal(start) || len(back.Entries) != 1 || back.Entries[0] != log.Entries[0] {
		t.Errorf("round trip = %+v, want %+v", back, log)
	}
}

func TestEmptyLogHasEntriesArray(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, New("Puter", start)); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"entries": []`) {
		t.Errorf("empty log must serialise an empty entries array, got %s", buf.String())
	}
}

func TestSaveFile(t *testing.T) {
	log := New("Puter", start)
	log.Record(start, "hi", "hello")
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "conversation.json")
	if err := SaveFile(jsonPath, log); err != nil {
		t.Fatalf("SaveFile json: %v", err)
	}
	f, err := os.Open(jsonPath)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	fromJSON, err := ReadJSON(f)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if fromJSON.Bot != "Puter" || len(fromJSON.Entries) != 1 || fromJSON.Entries[0].Bot != "hello" {
		t.Errorf("json log = %+v", fromJSON)
	}

	yamlPath := filepath.Join(dir, "conversation.yaml")
	if err := SaveFile(yamlPath, log); err != nil {
		t.Fatalf("SaveFile yaml: %v", err)
	}
	data, err := os.ReadFile(yamlPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "started_at: 2025-03-01T10:00:00Z") {
		t.Errorf("unexpected yaml:\n%s", data)
	}
	fromYAML, err := ReadYAML(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ReadYAML: %v", err)
	}
	if !fromYAML.StartedAt.Equal(start) || fromYAML.Entries[0].User != "hi" {
		t.Errorf("yaml log = %+v", fromYAML)
	}
}
