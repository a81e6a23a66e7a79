package utils

import (
	"math"
	"strings"
	"testing"
)

func TestJSONToString(t *testing.T) {
	input := map[string]any{"status": 200}

	if got := JSONToString(input, false); got != `{"status":200}` {
		t.Errorf("JSONToString() compact = %q", got)
	}
	if got := JSONToString(input, true); got != "{\n  \"status\": 200\n}" {
		t.Errorf("JSONToString() indented = %q", got)
	}
}

// NaN cannot be marshalled; the helper must still return valid-looking JSON.
func TestJSONToString_MarshalError(t *testing.T) {
	got := JSONToString(math.NaN(), false)
	if !strings.HasPrefix(got, `{"error": "failed to marshal to JSON:`) {
		t.Errorf("JSONToString(NaN) = %q", got)
	}
}

func TestTruncateString(t *testing.T) {
	testCases := []struct {
		name          string
		input         string
		maxLen        int
		wantTruncated bool
	}{
		{"shorter than maxLen returns unchanged", "hello", 10, false},
		{"exactly at maxLen returns unchanged", "hello", 5, false},
		{"longer than maxLen gets truncated", "hello world", 5, true},
		{"zero maxLen uses DefaultMaxStringLength", strings.Repeat("a", DefaultMaxStringLength+1), 0, true},
		{"zero maxLen keeps short input", "short", 0, false},
		{"negative maxLen uses DefaultMaxStringLength", strings.Repeat("b", DefaultMaxStringLength+1), -1, true},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			got := TruncateString(testCase.input, testCase.maxLen)

			hasSuffix := strings.Contains(got, "... (truncated, total:")
			if hasSuffix != testCase.wantTruncated {
				t.Errorf("TruncateString(%q, %d) truncated=%v, want truncated=%v; got %q",
					testCase.input, testCase.maxLen, hasSuffix, testCase.wantTruncated, got)
			}
		})
	}
}

func TestTruncateString_ContentPreserved(t *testing.T) {
	got := TruncateString("abcdefghij", 4)
	if got != "abcd... (truncated, total: 10 chars)" {
		t.Errorf("TruncateString() = %q", got)
	}
}

func TestPreview(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		maxChars int
		want     string
	}{
		{"fits", "abc", 3, "abc"},
		{"cut", "abcdef", 3, "abc..."},
		{"multibyte", "héllo wörld", 5, "héllo..."},
		{"empty", "", 10, ""},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if got := Preview(testCase.input, testCase.maxChars); got != testCase.want {
				t.Errorf("Preview(%q, %d) = %q, want %q", testCase.input, testCase.maxChars, got, testCase.want)
			}
		})
	}
}
