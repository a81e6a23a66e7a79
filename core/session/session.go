package session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/leofalp/puter-go/core/config"
	"github.com/leofalp/puter-go/core/content"
	"github.com/leofalp/puter-go/core/registry"
	"github.com/leofalp/puter-go/core/transport"
	"github.com/leofalp/puter-go/providers/memory"
	"github.com/leofalp/puter-go/providers/memory/inmemory"
	"github.com/leofalp/puter-go/providers/observability"
)

// DefaultModel is the model a session starts with.
const DefaultModel = "claude-opus-4"

// Session is a conversation with the gateway. It is safe for concurrent use;
// concurrent chat calls commit their exchanges one pair at a time.
type Session struct {
	id        string
	startedAt time.Time
	cfg       *config.Config
	transport *transport.Transport
	registry  *registry.Registry
	memory    memory.Provider
	observer  observability.Provider
	username  string
	password  string

	mu    sync.RWMutex
	token string
	model string

	// commitMu serialises transcript mutation.
	commitMu sync.Mutex
}

// New creates a Session. It is authenticated only when [WithToken] is given.
func New(opts ...Option) *Session {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	base := o.cfg
	if base == nil {
		base = config.New()
	}
	cfg := base.With(o.cfgOverrides...)

	if o.registry == nil {
		o.registry = registry.Builtin()
	}
	if o.model == "" {
		o.model = DefaultModel
	}
	if o.memory == nil {
		o.memory = inmemory.New()
	}
	if o.observer == nil {
		o.observer = observability.Nop
	}

	return &Session{
		id:        uuid.NewString(),
		startedAt: time.Now(),
		cfg:       cfg,
		transport: transport.New(cfg, o.transport...),
		registry:  o.registry,
		memory:    o.memory,
		observer:  o.observer,
		username:  o.username,
		password:  o.password,
		token:     o.token,
		model:     o.model,
	}
}

// ID returns the random identifier of this session.
func (s *Session) ID() string {
	return s.id
}

// StartedAt returns when the session was created.
func (s *Session) StartedAt() time.Time {
	return s.startedAt
}

// Config returns a copy of the session's effective configuration.
func (s *Session) Config() *config.Config {
	return s.cfg.Clone()
}

// Authenticated reports whether the session holds a token.
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// Token returns the session token, or "" before authentication.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Login exchanges the session credentials for a token on the blocking path.
func (s *Session) Login(ctx context.Context) error {
	return s.login(ctx, false)
}

// LoginAsync logs in on the rate-limited asynchronous path. The returned
// channel receives exactly one value: nil on success.
func (s *Session) LoginAsync(ctx context.Context) <-chan error {
	out := make(chan error, 1)
	go func() {
		out <- s.login(ctx, true)
	}()
	return out
}

func (s *Session) login(ctx context.Context, async bool) (err error) {
	if s.username == "" || s.password == "" {
		return fmt.Errorf("%w: username and password must be set", ErrAuthFailed)
	}

	ctx, span := s.observer.StartSpan(ctx, observability.SpanLogin,
		observability.String(observability.AttrSessionID, s.id),
		observability.Bool(observability.AttrAsync, async),
	)
	defer func() {
		status := "ok"
		if err != nil {
			status = "error"
			span.RecordError(err)
			span.SetStatus(observability.StatusError, "login failed")
			s.observer.Error(ctx, "puter login failed", observability.Error(err))
		} else {
			span.SetStatus(observability.StatusOK, "")
			s.observer.Info(ctx, "puter login succeeded", observability.String(observability.AttrSessionID, s.id))
		}
		s.observer.Counter(observability.MetricLoginCount).Add(ctx, 1, observability.String(observability.AttrStatus, status))
		span.End()
	}()

	request := &transport.Request{
		Method: http.MethodPost,
		URL:    s.cfg.LoginURL,
		Body:   loginRequest{Username: s.username, Password: s.password},
	}
	resp, err := s.send(ctx, request, async)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAuthFailed, err)
	}

	var reply loginResponse
	if err := json.Unmarshal(resp.Body, &reply); err != nil {
		return fmt.Errorf("%w: decode login reply: %w", ErrAuthFailed, err)
	}
	if !reply.Proceed || reply.Token == "" {
		return fmt.Errorf("%w: login rejected, check your credentials", ErrAuthFailed)
	}

	s.mu.Lock()
	s.token = reply.Token
	s.mu.Unlock()
	return nil
}

// send dispatches request on the blocking or the rate-limited path.
func (s *Session) send(ctx context.Context, request *transport.Request, async bool) (*transport.Response, error) {
	if async {
		return transport.Await(ctx, s.transport.Go(ctx, request))
	}
	return s.transport.Do(ctx, request)
}

// Model returns the current default model.
func (s *Session) Model() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.model
}

// SetModel switches the default model. It returns false, leaving the model
// unchanged, when name is not registered.
func (s *Session) SetModel(name string) bool {
	if !s.registry.Has(name) {
		return false
	}
	s.mu.Lock()
	s.model = name
	s.mu.Unlock()
	return true
}

// ListModels returns the registered model names in a stable order.
func (s *Session) ListModels() []string {
	return s.registry.Names()
}

// History returns a copy of the transcript.
func (s *Session) History(ctx context.Context) ([]content.Message, error) {
	return s.memory.AllMessages(ctx)
}

// ClearHistory empties the transcript. Token and model are kept.
func (s *Session) ClearHistory(ctx context.Context) error {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()
	return s.memory.ClearMessages(ctx)
}
