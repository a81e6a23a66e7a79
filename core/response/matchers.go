package response

import (
	"strings"

	"github.com/tidwall/gjson"
)

// Matcher tries one reply shape against the parsed body. It reports whether
// the shape is present and, if so, the text it yields. A present shape with
// blank text still counts as matched.
type Matcher struct {
	Name  string
	Match func(body gjson.Result) (string, bool)
}

// Matchers are tried in this order; the order is part of the contract since
// a body can carry several shapes at once.
var Matchers = []Matcher{
	MessageContent,
	ResultContent,
	ResultString,
	FirstChoice,
	ResultText,
	RootContent,
	RootText,
}

// MessageContent matches result.message.content as a string or a list of
// typed parts.
var MessageContent = Matcher{
	Name:  "result.message.content",
	Match: func(body gjson.Result) (string, bool) { return contentText(body.Get("result.message.content")) },
}

// ResultContent matches result.content as a string or a list of typed parts.
var ResultContent = Matcher{
	Name:  "result.content",
	Match: func(body gjson.Result) (string, bool) { return contentText(body.Get("result.content")) },
}

// ResultString matches a result that is itself a string.
var ResultString = Matcher{
	Name:  "result",
	Match: func(body gjson.Result) (string, bool) { return stringValue(body.Get("result")) },
}

// FirstChoice matches the OpenAI-style result.choices[0].message.content.
// Only the first choice is considered.
var FirstChoice = Matcher{
	Name: "result.choices[0].message.content",
	Match: func(body gjson.Result) (string, bool) {
		choices := body.Get("result.choices")
		if !choices.IsArray() {
			return "", false
		}
		content := choices.Get("0.message.content")
		if !content.Exists() {
			return "", false
		}
		text, _ := contentText(content)
		return text, true
	},
}

// ResultText matches a present result.text. A value that is not a string
// matches with blank text, which ends the search in a miss.
var ResultText = Matcher{
	Name:  "result.text",
	Match: func(body gjson.Result) (string, bool) { return presentValue(body.Get("result.text")) },
}

// RootContent matches a top-level content string. Content of any other type
// is skipped.
var RootContent = Matcher{
	Name:  "content",
	Match: func(body gjson.Result) (string, bool) { return stringValue(body.Get("content")) },
}

// RootText matches a present top-level text, like ResultText.
var RootText = Matcher{
	Name:  "text",
	Match: func(body gjson.Result) (string, bool) { return presentValue(body.Get("text")) },
}

// contentText accepts a string, or an array whose "text"-typed elements are
// concatenated in order. Other element types are skipped.
func contentText(value gjson.Result) (string, bool) {
	if value.Type == gjson.String {
		return value.Str, true
	}
	if !value.IsArray() {
		return "", false
	}

	var sb strings.Builder
	for _, item := range value.Array() {
		if item.Get("type").String() == "text" {
			sb.WriteString(item.Get("text").String())
		}
	}
	return sb.String(), true
}

func stringValue(value gjson.Result) (string, bool) {
	if value.Type != gjson.String {
		return "", false
	}
	return value.Str, true
}

func presentValue(value gjson.Result) (string, bool) {
	if !value.Exists() {
		return "", false
	}
	text, _ := stringValue(value)
	return text, true
}
