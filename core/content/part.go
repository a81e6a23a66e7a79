package content

import (
	"encoding/json"
	"maps"
)

// PartType tags a [Part].
type PartType string

const (
	PartText     PartType = "text"
	PartImageURL PartType = "image_url"
)

// ImageURL points at an image: an http(s) URL or a data: URI.
type ImageURL struct {
	URL string `json:"url"`
}

// Part is one unit of multi-part content. A part built by [RawPart] carries
// an opaque pre-built payload that is serialised exactly as given.
type Part struct {
	Type     PartType
	Text     string
	ImageURL *ImageURL

	raw map[string]any
}

// TextPart returns a text part.
func TextPart(text string) Part {
	return Part{Type: PartText, Text: text}
}

// ImagePart returns an image reference part for url.
func ImagePart(url string) Part {
	return Part{Type: PartImageURL, ImageURL: &ImageURL{URL: url}}
}

// RawPart wraps a pre-built payload. The map is deep-copied, so later changes
// by the caller are not observed.
func RawPart(payload map[string]any) Part {
	p := Part{raw: deepCopyMap(payload)}
	if t, ok := payload["type"].(string); ok {
		p.Type = PartType(t)
	}
	return p
}

// Raw returns a copy of the pre-built payload, or nil when p was not built
// from one.
func (p Part) Raw() map[string]any {
	if p.raw == nil {
		return nil
	}
	return deepCopyMap(p.raw)
}

// Clone returns a deep copy of p.
func (p Part) Clone() Part {
	out := p
	if p.ImageURL != nil {
		u := *p.ImageURL
		out.ImageURL = &u
	}
	if p.raw != nil {
		out.raw = deepCopyMap(p.raw)
	}
	return out
}

type wirePart struct {
	Type     PartType  `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (p Part) MarshalJSON() ([]byte, error) {
	if p.raw != nil {
		return json.Marshal(p.raw)
	}
	if p.Type == PartText {
		// Empty text must still carry the field.
		return json.Marshal(struct {
			Type PartType `json:"type"`
			Text string   `json:"text"`
		}{p.Type, p.Text})
	}
	return json.Marshal(wirePart{Type: p.Type, Text: p.Text, ImageURL: p.ImageURL})
}

// UnmarshalJSON implements json.Unmarshaler. Text and image_url parts decode
// into typed fields; any other shape is kept as a raw payload.
func (p *Part) UnmarshalJSON(data []byte) error {
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return err
	}

	switch payload["type"] {
	case string(PartText):
		if text, ok := payload["text"].(string); ok && len(payload) == 2 {
			*p = TextPart(text)
			return nil
		}
	case string(PartImageURL):
		if img, ok := payload["image_url"].(map[string]any); ok && len(payload) == 2 && len(img) == 1 {
			if url, ok := img["url"].(string); ok {
				*p = ImagePart(url)
				return nil
			}
		}
	}

	*p = RawPart(payload)
	return nil
}

func cloneParts(parts []Part) []Part {
	if parts == nil {
		return nil
	}
	out := make([]Part, len(parts))
	for i, p := range parts {
		out[i] = p.Clone()
	}
	return out
}

func deepCopyMap(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return deepCopyMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = deepCopyValue(item)
		}
		return out
	case []map[string]any:
		out := make([]map[string]any, len(val))
		for i, item := range val {
			out[i] = deepCopyMap(item)
		}
		return out
	case map[string]string:
		return maps.Clone(val)
	case []string:
		return append([]string(nil), val...)
	case []byte:
		return append([]byte(nil), val...)
	default:
		return v
	}
}
