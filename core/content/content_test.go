package content

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

type namedReader struct {
	*strings.Reader
	mime string
}

func (n namedReader) MIMEType() string { return n.mime }

func TestResolveImage_BytesWithExplicitMIME(t *testing.T) {
	part, err := ResolveImage(Image{Source: []byte("abc"), MIME: "image/jpeg"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte("abc"))
	if part.Type != PartImageURL || part.ImageURL == nil || part.ImageURL.URL != want {
		t.Fatalf("got %+v, want image url %q", part, want)
	}
}

func TestResolveImage_BytesDefaultMIME(t *testing.T) {
	part, err := ResolveImage([]byte{0x89, 0x50})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(part.ImageURL.URL, "data:image/png;base64,") {
		t.Errorf("url = %q, want png data uri", part.ImageURL.URL)
	}
}

func TestResolveImage_URLsPassThrough(t *testing.T) {
	tests := []string{
		"https://example.com/cat.png",
		"http://example.com/a?b=c",
		"data:image/gif;base64,R0lGODlhAQABAAAAACw=",
	}
	for _, in := range tests {
		part, err := ResolveImage(in)
		if err != nil {
			t.Fatalf("ResolveImage(%q): %v", in, err)
		}
		if part.ImageURL.URL != in {
			t.Errorf("ResolveImage(%q) url = %q", in, part.ImageURL.URL)
		}
	}
}

func TestResolveImage_FilePath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "photo.jpg")
	if err := os.WriteFile(path, []byte("jpegdata"), 0o600); err != nil {
		t.Fatal(err)
	}

	part, err := ResolveImage(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte("jpegdata"))
	if part.ImageURL.URL != want {
		t.Errorf("url = %q, want %q", part.ImageURL.URL, want)
	}

	// Explicit MIME wins over the extension.
	part, err = ResolveImage(Image{Source: path, MIME: "image/webp"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(part.ImageURL.URL, "data:image/webp;base64,") {
		t.Errorf("url = %q, want webp", part.ImageURL.URL)
	}
}

func TestResolveImage_UnknownExtensionFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blob.zzunknown")
	if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	part, err := ResolveImage(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(part.ImageURL.URL, "data:image/png;base64,") {
		t.Errorf("url = %q, want png fallback", part.ImageURL.URL)
	}
}

func TestResolveImage_Reader(t *testing.T) {
	part, err := ResolveImage(namedReader{Reader: strings.NewReader("gif!"), mime: "image/gif"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "data:image/gif;base64," + base64.StdEncoding.EncodeToString([]byte("gif!"))
	if part.ImageURL.URL != want {
		t.Errorf("url = %q, want %q", part.ImageURL.URL, want)
	}

	part, err = ResolveImage(strings.NewReader("plain"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(part.ImageURL.URL, "data:image/png;base64,") {
		t.Errorf("url = %q, want default mime", part.ImageURL.URL)
	}
}

func TestResolveImage_OpenFileUsesName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shot.gif")
	if err := os.WriteFile(path, []byte("GIF89a"), 0o600); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = f.Close() }()

	part, err := ResolveImage(f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(part.ImageURL.URL, "data:image/gif;base64,") {
		t.Errorf("url = %q, want gif", part.ImageURL.URL)
	}
}

func TestResolveImage_PrebuiltIsDeepCopied(t *testing.T) {
	payload := map[string]any{
		"type":      "image_url",
		"image_url": map[string]any{"url": "https://example.com/x.png", "detail": "high"},
	}

	part, err := ResolveImage(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(part.Raw(), payload) {
		t.Fatalf("raw = %#v, want %#v", part.Raw(), payload)
	}

	payload["image_url"].(map[string]any)["url"] = "mutated"
	if got := part.Raw()["image_url"].(map[string]any)["url"]; got != "https://example.com/x.png" {
		t.Errorf("stored payload observed caller mutation: %v", got)
	}

	encoded, err := json.Marshal(part)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(encoded), `"detail":"high"`) {
		t.Errorf("raw payload not serialised verbatim: %s", encoded)
	}
}

func TestResolveImage_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input any
	}{
		{"missing file", filepath.Join(t.TempDir(), "nope.png")},
		{"empty bytes", []byte{}},
		{"empty reader", strings.NewReader("")},
		{"nil", nil},
		{"unsupported type", 42},
		{"nested image", Image{Source: Image{Source: []byte("a")}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveImage(tt.input)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestBuildUserContent_CollapsesSingleText(t *testing.T) {
	c, err := BuildUserContent("hello", nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !c.IsText() || c.String() != "hello" {
		t.Fatalf("got %+v, want bare text", c)
	}

	encoded, _ := json.Marshal(c)
	if string(encoded) != `"hello"` {
		t.Errorf("json = %s", encoded)
	}
}

func TestBuildUserContent_CollapsesSinglePrebuiltText(t *testing.T) {
	tests := []struct {
		name   string
		images []any
		want   string
		text   bool
	}{
		{"typed text part", []any{TextPart("x")}, "x", true},
		{"pre-built text map", []any{map[string]any{"type": "text", "text": "x"}}, "x", true},
		{"pre-built text without text field", []any{map[string]any{"type": "text"}}, "", false},
		{"pre-built image map", []any{map[string]any{"type": "image_url", "image_url": map[string]any{"url": "https://a/b.png"}}}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := BuildUserContent("", tt.images, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if c.IsText() != tt.text {
				t.Fatalf("IsText() = %v, want %v", c.IsText(), tt.text)
			}
			if tt.text {
				encoded, _ := json.Marshal(c)
				if string(encoded) != `"`+tt.want+`"` {
					t.Errorf("json = %s", encoded)
				}
			}
		})
	}
}

func TestBuildUserContent_TextAndImagesInOrder(t *testing.T) {
	c, err := BuildUserContent("describe", []any{"https://a/1.png", []byte("b")}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.IsText() {
		t.Fatal("expected multi-part content")
	}
	parts := c.Parts()
	if len(parts) != 3 {
		t.Fatalf("len(parts) = %d, want 3", len(parts))
	}
	if parts[0].Type != PartText || parts[0].Text != "describe" {
		t.Errorf("parts[0] = %+v", parts[0])
	}
	if parts[1].ImageURL.URL != "https://a/1.png" {
		t.Errorf("parts[1] = %+v", parts[1])
	}
	if !strings.HasPrefix(parts[2].ImageURL.URL, "data:image/png;base64,") {
		t.Errorf("parts[2] = %+v", parts[2])
	}
}

func TestBuildUserContent_ImageOnlyStaysList(t *testing.T) {
	c, err := BuildUserContent("", []any{"https://a/1.png"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.IsText() || len(c.Parts()) != 1 {
		t.Fatalf("got %+v, want single image part list", c)
	}
}

func TestBuildUserContent_ExplicitParts(t *testing.T) {
	parts := []Part{TextPart("only text")}
	c, err := BuildUserContent("ignored", []any{"https://ignored"}, parts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.IsText() {
		t.Fatal("explicit parts must not collapse")
	}
	got := c.Parts()
	if len(got) != 1 || got[0].Text != "only text" {
		t.Errorf("parts = %+v", got)
	}

	parts[0].Text = "changed"
	if c.Parts()[0].Text != "only text" {
		t.Error("explicit parts were not copied")
	}
}

func TestBuildUserContent_Errors(t *testing.T) {
	if _, err := BuildUserContent("", nil, nil); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("empty input error = %v", err)
	}
	if _, err := BuildUserContent("x", nil, []Part{}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("empty parts error = %v", err)
	}
	if _, err := BuildUserContent("x", []any{3.14}, nil); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("bad image error = %v", err)
	}
}

func TestContent_JSONRoundTrip(t *testing.T) {
	msg := Message{
		Role:    RoleUser,
		Content: Parts(TextPart("hi"), ImagePart("https://x/y.png"), RawPart(map[string]any{"type": "audio", "id": "a1"})),
	}
	encoded, err := json.Marshal(msg)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"role":"user","content":[{"type":"text","text":"hi"},{"type":"image_url","image_url":{"url":"https://x/y.png"}},{"id":"a1","type":"audio"}]}`
	if string(encoded) != want {
		t.Fatalf("json = %s\nwant  %s", encoded, want)
	}

	var decoded Message
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(decoded, msg) {
		t.Errorf("decoded = %#v\nwant %#v", decoded, msg)
	}
}
