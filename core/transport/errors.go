package transport

import (
	"errors"
	"fmt"
	"mime"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/leofalp/puter-go/internal/utils"
)

// ErrExhausted is matched by every [*ExhaustedError].
var ErrExhausted = errors.New("puter: all retry attempts exhausted")

// ExhaustedError reports a logical request whose every attempt failed.
type ExhaustedError struct {
	// Attempts is the total number of attempts made.
	Attempts int
	// Err is the error of the last attempt.
	Err error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("request failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrExhausted) true.
func (e *ExhaustedError) Is(target error) bool { return target == ErrExhausted }

// previewLen bounds the reply text carried by a StatusError.
const previewLen = 500

// StatusError is a non-2xx reply from the gateway.
type StatusError struct {
	StatusCode int
	// Body is a readable preview of the reply. HTML error pages are converted
	// to markdown.
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("non-2xx status %d: %s", e.StatusCode, e.Body)
}

func newStatusError(status int, contentType string, body []byte) *StatusError {
	text := string(body)
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil && mediaType == "text/html" {
		if md, convErr := htmltomarkdown.ConvertString(text); convErr == nil {
			text = md
		}
	}
	return &StatusError{StatusCode: status, Body: utils.TruncateString(strings.TrimSpace(text), previewLen)}
}
