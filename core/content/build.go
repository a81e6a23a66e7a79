package content

import "fmt"

// BuildUserContent assembles the content of a user message.
//
// When parts is non-nil it is deep-copied and returned as multi-part content
// verbatim; an empty non-nil slice fails with [ErrInvalidInput]. Otherwise a
// text part is built from prompt (if non-empty) followed by one image part per
// entry of images, in order. A result made of a single text part, typed or
// pre-built, collapses to bare text. Nothing to send fails with [ErrInvalidInput].
func BuildUserContent(prompt string, images []any, parts []Part) (Content, error) {
	if parts != nil {
		if len(parts) == 0 {
			return Content{}, fmt.Errorf("%w: content parts cannot be empty", ErrInvalidInput)
		}
		return Parts(parts...), nil
	}

	built := make([]Part, 0, len(images)+1)
	if prompt != "" {
		built = append(built, TextPart(prompt))
	}
	for i, img := range images {
		part, err := ResolveImage(img)
		if err != nil {
			return Content{}, fmt.Errorf("image %d: %w", i, err)
		}
		built = append(built, part)
	}

	if len(built) == 0 {
		return Content{}, fmt.Errorf("%w: provide at least a prompt, content parts, or images when sending a message", ErrInvalidInput)
	}

	if len(built) == 1 {
		if text, ok := singleText(built[0]); ok {
			return Text(text), nil
		}
	}
	return Content{parts: built, isParts: true}, nil
}

// singleText reports the text of a text part, typed or pre-built. A
// pre-built text part without a string "text" field is kept as is.
func singleText(p Part) (string, bool) {
	if p.Type != PartText {
		return "", false
	}
	if p.raw == nil {
		return p.Text, true
	}
	text, ok := p.raw["text"].(string)
	return text, ok
}

// NewUserMessage is [BuildUserContent] wrapped in a user [Message].
func NewUserMessage(prompt string, images []any, parts []Part) (Message, error) {
	c, err := BuildUserContent(prompt, images, parts)
	if err != nil {
		return Message{}, err
	}
	return Message{Role: RoleUser, Content: c}, nil
}
