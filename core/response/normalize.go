package response

import (
	"strings"

	"github.com/kaptinlin/jsonrepair"
	"github.com/tidwall/gjson"

	"github.com/leofalp/puter-go/internal/utils"
)

// MissPrefix starts the diagnostic marker returned in place of an answer.
const MissPrefix = "No content in AI response. Debug: "

// previewChars bounds the raw-body preview carried by a Miss.
const previewChars = 200

// Result is the outcome of [Normalize]: either Text or a Miss.
type Result struct {
	Text    string
	Matcher string
	Miss    *Miss
}

// Answer returns the text, or the diagnostic marker on a miss.
func (r Result) Answer() string {
	if r.Miss != nil {
		return r.Miss.String()
	}
	return r.Text
}

// Miss describes a reply from which no answer text could be extracted.
// Keys lists the top-level keys in document order and is nil when the body
// is not a JSON object.
type Miss struct {
	Status  int
	Keys    []string
	Preview string
}

type missDebug struct {
	Status          int    `json:"status"`
	ResponseKeys    any    `json:"response_keys"`
	ResponsePreview string `json:"response_preview"`
}

// String renders the marker: [MissPrefix] followed by an indented JSON object
// with the status, the top-level keys and a bounded preview of the body.
func (m *Miss) String() string {
	var keys any = "Not a dict"
	if m.Keys != nil {
		keys = m.Keys
	}
	debug := missDebug{Status: m.Status, ResponseKeys: keys, ResponsePreview: m.Preview}
	return MissPrefix + utils.JSONToString(debug, true)
}

// Normalize extracts the answer from body, received with HTTP status.
func Normalize(status int, body []byte) Result {
	parsed, raw, ok := parse(body)
	if !ok {
		return Result{Miss: &Miss{Status: status, Preview: utils.Preview(strings.TrimSpace(string(body)), previewChars)}}
	}

	for _, m := range Matchers {
		text, matched := m.Match(parsed)
		if !matched {
			continue
		}
		if strings.TrimSpace(text) == "" {
			break
		}
		return Result{Text: text, Matcher: m.Name}
	}
	return Result{Miss: newMiss(status, parsed, raw)}
}

// Extract returns the answer text of body and whether one was found.
func Extract(body []byte) (string, bool) {
	res := Normalize(0, body)
	return res.Text, res.Miss == nil
}

// parse validates body as JSON, repairing it when needed. It returns the
// parsed document and the JSON text it was parsed from.
func parse(body []byte) (gjson.Result, string, bool) {
	raw := strings.TrimSpace(string(body))
	if raw == "" {
		return gjson.Result{}, "", false
	}
	if !gjson.Valid(raw) {
		repaired, err := jsonrepair.JSONRepair(raw)
		if err != nil || !gjson.Valid(repaired) {
			return gjson.Result{}, "", false
		}
		raw = repaired
	}
	return gjson.Parse(raw), raw, true
}

func newMiss(status int, parsed gjson.Result, raw string) *Miss {
	miss := &Miss{Status: status, Preview: utils.Preview(raw, previewChars)}
	if parsed.IsObject() {
		miss.Keys = []string{}
		parsed.ForEach(func(key, _ gjson.Result) bool {
			miss.Keys = append(miss.Keys, key.String())
			return true
		})
	}
	return miss
}
