package content

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Role is the author of a transcript entry.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one transcript entry. It is treated as immutable once stored;
// use Clone before handing it to code that may modify it.
type Message struct {
	Role    Role    `json:"role"`
	Content Content `json:"content"`
}

// Clone returns a deep copy of m.
func (m Message) Clone() Message {
	return Message{Role: m.Role, Content: m.Content.Clone()}
}

// Content is either a single text string or an ordered list of parts. It
// serialises as a JSON string in the first case and as an array otherwise.
type Content struct {
	text    string
	parts   []Part
	isParts bool
}

// Text wraps s as text content.
func Text(s string) Content {
	return Content{text: s}
}

// Parts wraps a copy of parts as multi-part content.
func Parts(parts ...Part) Content {
	return Content{parts: cloneParts(parts), isParts: true}
}

// IsText reports whether c is a bare string.
func (c Content) IsText() bool {
	return !c.isParts
}

// Parts returns a copy of the parts, or nil for text content.
func (c Content) Parts() []Part {
	if !c.isParts {
		return nil
	}
	return cloneParts(c.parts)
}

// String returns the text of c. For multi-part content the text parts are
// concatenated in order and images are skipped.
func (c Content) String() string {
	if !c.isParts {
		return c.text
	}
	var sb strings.Builder
	for _, p := range c.parts {
		if p.Type == PartText {
			sb.WriteString(p.Text)
		}
	}
	return sb.String()
}

// Clone returns a deep copy of c.
func (c Content) Clone() Content {
	if !c.isParts {
		return c
	}
	return Content{parts: cloneParts(c.parts), isParts: true}
}

// MarshalJSON implements json.Marshaler.
func (c Content) MarshalJSON() ([]byte, error) {
	if !c.isParts {
		return json.Marshal(c.text)
	}
	parts := c.parts
	if parts == nil {
		parts = []Part{}
	}
	return json.Marshal(parts)
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Content) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*c = Content{}
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = Text(s)
		return nil
	case '[':
		var parts []Part
		if err := json.Unmarshal(data, &parts); err != nil {
			return err
		}
		*c = Content{parts: parts, isParts: true}
		return nil
	default:
		return fmt.Errorf("content must be a string or an array, got %s", data[:1])
	}
}
