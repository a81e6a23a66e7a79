package content

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// DefaultImageMIME is used when no MIME type is given and none can be
// inferred from a file extension.
const DefaultImageMIME = "image/png"

// Image pairs an image source with an explicit MIME type. Source may be any
// value accepted by [ResolveImage] except another Image.
type Image struct {
	Source any
	MIME   string
}

// MIMETyper is implemented by readers that know the type of their payload.
type MIMETyper interface {
	MIMEType() string
}

// ResolveImage converts one image input into an image [Part].
//
// Accepted inputs:
//   - string: an http(s) URL or data: URI (used verbatim) or a filesystem path
//     (read, MIME inferred from the extension, base64-encoded);
//   - []byte: base64-encoded with [DefaultImageMIME];
//   - io.Reader: drained and base64-encoded; a [MIMETyper] or a reader with a
//     Name() such as *os.File contributes the MIME type;
//   - [Image]: any of the above with an explicit MIME type;
//   - [Part] or map[string]any: a pre-built payload, deep-copied.
//
// Everything else, a missing file, and an empty payload fail with
// [ErrInvalidInput].
func ResolveImage(input any) (Part, error) {
	if img, ok := input.(Image); ok {
		if _, nested := img.Source.(Image); nested {
			return Part{}, fmt.Errorf("%w: image source cannot be another Image", ErrInvalidInput)
		}
		return resolveSource(img.Source, img.MIME)
	}
	if img, ok := input.(*Image); ok && img != nil {
		return ResolveImage(*img)
	}
	return resolveSource(input, "")
}

func resolveSource(source any, explicitMIME string) (Part, error) {
	switch src := source.(type) {
	case Part:
		return src.Clone(), nil
	case map[string]any:
		return RawPart(src), nil
	case string:
		return resolveString(src, explicitMIME)
	case []byte:
		return encodeDataURI(src, firstNonEmpty(explicitMIME, DefaultImageMIME))
	case io.Reader:
		return resolveReader(src, explicitMIME)
	case nil:
		return Part{}, fmt.Errorf("%w: image data could not be read", ErrInvalidInput)
	default:
		return Part{}, fmt.Errorf("%w: unsupported image input type %T; provide a path, bytes, "+
			"an io.Reader, a data URL, an HTTP(S) URL or a pre-built image payload", ErrInvalidInput, source)
	}
}

func resolveString(s, explicitMIME string) (Part, error) {
	if strings.HasPrefix(s, "data:") {
		return ImagePart(s), nil
	}
	if u, err := url.Parse(s); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return ImagePart(s), nil
	}

	data, err := os.ReadFile(s)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Part{}, fmt.Errorf("%w: image file not found: %s", ErrInvalidInput, s)
		}
		return Part{}, fmt.Errorf("%w: reading image %s: %v", ErrInvalidInput, s, err)
	}
	return encodeDataURI(data, firstNonEmpty(explicitMIME, mimeFromPath(s), DefaultImageMIME))
}

func resolveReader(r io.Reader, explicitMIME string) (Part, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Part{}, fmt.Errorf("%w: reading image: %v", ErrInvalidInput, err)
	}

	mimeType := explicitMIME
	if mimeType == "" {
		if typer, ok := r.(MIMETyper); ok {
			mimeType = typer.MIMEType()
		}
	}
	if mimeType == "" {
		if named, ok := r.(interface{ Name() string }); ok {
			mimeType = mimeFromPath(named.Name())
		}
	}
	return encodeDataURI(data, firstNonEmpty(mimeType, DefaultImageMIME))
}

func encodeDataURI(data []byte, mimeType string) (Part, error) {
	if len(data) == 0 {
		return Part{}, fmt.Errorf("%w: image data could not be read", ErrInvalidInput)
	}
	encoded := base64.StdEncoding.EncodeToString(data)
	return ImagePart("data:" + mimeType + ";base64," + encoded), nil
}

// mimeFromPath guesses the MIME type from the file extension, without
// parameters. It returns "" when the extension is unknown.
func mimeFromPath(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return ""
	}
	guessed := mime.TypeByExtension(ext)
	if guessed == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(guessed)
	if err != nil {
		return ""
	}
	return mediaType
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
