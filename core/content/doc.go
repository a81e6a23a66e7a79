// Package content turns caller input into the message payloads the gateway
// accepts: plain text, multi-part content mixing text and images, and the
// image references themselves.
//
// Images may be given as a filesystem path, an http(s) URL, a data: URI, raw
// bytes, an io.Reader, an [Image] pairing any of those with an explicit MIME
// type, or a pre-built payload ([Part] or map[string]any). Local bytes are
// base64-encoded into a data: URI; URLs and data URIs pass through verbatim.
//
//	content, err := content.BuildUserContent("What is in this picture?",
//	    []any{"./cat.jpg", content.Image{Source: raw, MIME: "image/webp"}}, nil)
//
// A message that ends up as a single text part is collapsed to a bare string,
// which is what text-only backends expect.
package content
