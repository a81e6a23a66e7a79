package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/leofalp/puter-go/core/config"
	"github.com/leofalp/puter-go/core/content"
	"github.com/leofalp/puter-go/core/registry"
	"github.com/leofalp/puter-go/core/transport"
)

// gateway is a stub of the login and driver-call endpoints.
type gateway struct {
	server *httptest.Server

	mu       sync.Mutex
	payloads []map[string]any
	headers  []http.Header

	loginCalls atomic.Int32
	chatCalls  atomic.Int32

	// loginReply and chatReply build the JSON replies; nil means the defaults.
	loginReply func(user, pass string) (int, string)
	chatReply  func(payload map[string]any) (int, string)
}

func newGateway(t *testing.T) *gateway {
	t.Helper()
	g := &gateway{}
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		g.loginCalls.Add(1)
		var body loginRequest
		_ = json.NewDecoder(r.Body).Decode(&body)

		status, reply := http.StatusOK, `{"proceed":true,"token":"t1"}`
		if g.loginReply != nil {
			status, reply = g.loginReply(body.Username, body.Password)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	})
	mux.HandleFunc("/drivers/call", func(w http.ResponseWriter, r *http.Request) {
		g.chatCalls.Add(1)
		var payload map[string]any
		_ = json.NewDecoder(r.Body).Decode(&payload)

		g.mu.Lock()
		g.payloads = append(g.payloads, payload)
		g.headers = append(g.headers, r.Header.Clone())
		g.mu.Unlock()

		status, reply := http.StatusOK, echoReply(payload)
		if g.chatReply != nil {
			status, reply = g.chatReply(payload)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	})
	g.server = httptest.NewServer(mux)
	t.Cleanup(g.server.Close)
	return g
}

// echoReply answers "echo: <text of the last message>".
func echoReply(payload map[string]any) string {
	messages := payload["args"].(map[string]any)["messages"].([]any)
	last := messages[len(messages)-1].(map[string]any)
	text, _ := last["content"].(string)
	reply, _ := json.Marshal(map[string]any{"result": map[string]any{"message": map[string]any{"content": "echo: " + text}}})
	return string(reply)
}

func (g *gateway) config() *config.Config {
	return config.New(
		config.WithAPIBase(g.server.URL),
		config.WithLoginURL(g.server.URL+"/login"),
		config.WithMaxRetries(0),
		config.WithRetryDelay(0),
	)
}

func (g *gateway) lastPayload(t *testing.T) map[string]any {
	t.Helper()
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.payloads) == 0 {
		t.Fatal("no chat request received")
	}
	return g.payloads[len(g.payloads)-1]
}

func testRegistry() *registry.Registry {
	return registry.New(map[string]string{
		"claude-opus-4": "claude",
		"gpt-4o":        "openai-completion",
		"gemini-pro":    "gemini",
	})
}

func TestLogin_Success(t *testing.T) {
	g := newGateway(t)
	var gotUser, gotPass string
	g.loginReply = func(user, pass string) (int, string) {
		gotUser, gotPass = user, pass
		return http.StatusOK, `{"proceed":true,"token":"t1"}`
	}
	s := New(WithConfig(g.config()), WithCredentials("alice", "secret"))

	if s.Authenticated() {
		t.Fatal("session must start unauthenticated")
	}
	if err := s.Login(context.Background()); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !s.Authenticated() || s.Token() != "t1" {
		t.Errorf("expected token t1, got %q", s.Token())
	}
	if gotUser != "alice" || gotPass != "secret" {
		t.Errorf("login body = %q/%q", gotUser, gotPass)
	}
}

func TestLogin_Failures(t *testing.T) {
	tests := []struct {
		name       string
		creds      Option
		reply      func(string, string) (int, string)
		wantCalls  int32
		wantCauses []error
	}{
		{
			name:      "rejected",
			creds:     WithCredentials("alice", "wrong"),
			reply:     func(string, string) (int, string) { return http.StatusOK, `{"proceed":false}` },
			wantCalls: 1,
		},
		{
			name:      "proceed without token",
			creds:     WithCredentials("alice", "secret"),
			reply:     func(string, string) (int, string) { return http.StatusOK, `{"proceed":true}` },
			wantCalls: 1,
		},
		{
			name:      "missing credentials",
			creds:     WithCredentials("alice", ""),
			wantCalls: 0,
		},
		{
			name:       "server error",
			creds:      WithCredentials("alice", "secret"),
			reply:      func(string, string) (int, string) { return http.StatusInternalServerError, `{}` },
			wantCalls:  1,
			wantCauses: []error{transport.ErrExhausted},
		},
		{
			name:      "malformed reply",
			creds:     WithCredentials("alice", "secret"),
			reply:     func(string, string) (int, string) { return http.StatusOK, `not json` },
			wantCalls: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGateway(t)
			g.loginReply = tt.reply
			s := New(WithConfig(g.config()), tt.creds)

			err := s.Login(context.Background())
			if !errors.Is(err, ErrAuthFailed) {
				t.Fatalf("expected ErrAuthFailed, got %v", err)
			}
			for _, cause := range tt.wantCauses {
				if !errors.Is(err, cause) {
					t.Errorf("expected %v in the chain, got %v", cause, err)
				}
			}
			if s.Authenticated() {
				t.Error("failed login must not authenticate the session")
			}
			if got := g.loginCalls.Load(); got != tt.wantCalls {
				t.Errorf("login calls = %d, want %d", got, tt.wantCalls)
			}
		})
	}
}

func TestLoginAsync(t *testing.T) {
	g := newGateway(t)
	s := New(WithConfig(g.config()), WithCredentials("alice", "secret"))

	if err := <-s.LoginAsync(context.Background()); err != nil {
		t.Fatalf("LoginAsync: %v", err)
	}
	if s.Token() != "t1" {
		t.Errorf("expected token t1, got %q", s.Token())
	}
}

func TestWithToken_SkipsLogin(t *testing.T) {
	g := newGateway(t)
	s := New(WithConfig(g.config()), WithToken("direct"))

	answer, err := s.Chat(context.Background(), "hi")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if answer != "echo: hi" {
		t.Errorf("answer = %q", answer)
	}
	g.mu.Lock()
	auth := g.headers[0].Get("Authorization")
	g.mu.Unlock()
	if auth != "Bearer direct" {
		t.Errorf("Authorization = %q", auth)
	}
	if g.loginCalls.Load() != 0 {
		t.Error("a supplied token must bypass login")
	}
}

func TestSetModel(t *testing.T) {
	s := New(WithRegistry(testRegistry()))

	if s.Model() != DefaultModel {
		t.Fatalf("initial model = %q, want %q", s.Model(), DefaultModel)
	}
	if s.SetModel("nonexistent") {
		t.Error("SetModel(nonexistent) must fail")
	}
	if s.Model() != DefaultModel {
		t.Errorf("failed SetModel changed the model to %q", s.Model())
	}
	if !s.SetModel("gpt-4o") || s.Model() != "gpt-4o" {
		t.Errorf("SetModel(gpt-4o) did not switch, model %q", s.Model())
	}
}

func TestListModels_Stable(t *testing.T) {
	s := New(WithRegistry(testRegistry()))
	first := s.ListModels()
	if len(first) != 3 {
		t.Fatalf("expected 3 models, got %v", first)
	}
	second := s.ListModels()
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("ListModels order changed: %v vs %v", first, second)
		}
	}
}

func TestConfigOverridesArePrivate(t *testing.T) {
	base := config.New(config.WithMaxRetries(3))
	s := New(WithConfig(base), WithConfigOverrides(config.WithMaxRetries(7)))

	if got := s.Config().MaxRetries; got != 7 {
		t.Errorf("session MaxRetries = %d, want 7", got)
	}
	if base.MaxRetries != 3 {
		t.Errorf("base config was mutated: MaxRetries = %d", base.MaxRetries)
	}
}

func TestSessionIDUnique(t *testing.T) {
	a, b := New(), New()
	if a.ID() == "" || a.ID() == b.ID() {
		t.Errorf("expected distinct non-empty IDs, got %q and %q", a.ID(), b.ID())
	}
	if strings.Count(a.ID(), "-") != 4 {
		t.Errorf("expected a UUID, got %q", a.ID())
	}
}

func historyOf(t *testing.T, s *Session) []content.Message {
	t.Helper()
	history, err := s.History(context.Background())
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	return history
}
