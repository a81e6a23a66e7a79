package content

import "errors"

// ErrInvalidInput is returned when caller data cannot be turned into message
// content: nothing to send, a missing image file, an empty image payload or
// an unsupported image source type. It is never retried.
var ErrInvalidInput = errors.New("puter: invalid input")
