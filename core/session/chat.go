package session

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/leofalp/puter-go/core/content"
	"github.com/leofalp/puter-go/core/response"
	"github.com/leofalp/puter-go/core/transport"
	"github.com/leofalp/puter-go/providers/observability"
)

// ChatRequest describes one chat call. Prompt, Images and Parts feed
// content.BuildUserContent: when Parts is non-nil it is sent verbatim and the
// other two are ignored.
type ChatRequest struct {
	Prompt string
	// Model overrides the session model for this call only.
	Model  string
	Images []any
	Parts  []content.Part
}

// ChatResult is delivered on the channel returned by [Session.ChatAsync].
type ChatResult struct {
	Text string
	Err  error
}

// ChatOption adjusts the request built by [Session.Chat].
type ChatOption func(*ChatRequest)

// WithChatModel uses model for this call instead of the session model.
func WithChatModel(model string) ChatOption {
	return func(r *ChatRequest) {
		r.Model = model
	}
}

// WithImages attaches images after the prompt. See content.ResolveImage for
// the accepted forms.
func WithImages(images ...any) ChatOption {
	return func(r *ChatRequest) {
		r.Images = append(r.Images, images...)
	}
}

// WithParts sends parts verbatim as the message content. Passing no parts is
// an InvalidInput error at call time.
func WithParts(parts ...content.Part) ChatOption {
	return func(r *ChatRequest) {
		r.Parts = append([]content.Part{}, parts...)
	}
}

// Chat sends prompt on the blocking path and returns the answer. On a
// content-extraction miss it returns the diagnostic marker and a nil error.
func (s *Session) Chat(ctx context.Context, prompt string, opts ...ChatOption) (string, error) {
	request := ChatRequest{Prompt: prompt}
	for _, opt := range opts {
		opt(&request)
	}
	return s.ChatWith(ctx, request)
}

// ChatWith is Chat taking a prebuilt request.
func (s *Session) ChatWith(ctx context.Context, request ChatRequest) (string, error) {
	return s.chat(ctx, request, false)
}

// ChatAsync sends request on the rate-limited asynchronous path. The returned
// channel receives exactly one value.
func (s *Session) ChatAsync(ctx context.Context, request ChatRequest) <-chan ChatResult {
	out := make(chan ChatResult, 1)
	go func() {
		text, err := s.chat(ctx, request, true)
		out <- ChatResult{Text: text, Err: err}
	}()
	return out
}

// ChatAll runs requests concurrently on the asynchronous path and returns the
// answers in request order. The first failure cancels the calls still
// waiting or in flight and is returned; exchanges that already completed stay
// committed.
func (s *Session) ChatAll(ctx context.Context, requests []ChatRequest) ([]string, error) {
	answers := make([]string, len(requests))
	g, gctx := errgroup.WithContext(ctx)
	for i, request := range requests {
		g.Go(func() error {
			text, err := s.chat(gctx, request, true)
			if err != nil {
				return fmt.Errorf("request %d: %w", i, err)
			}
			answers[i] = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return answers, nil
}

func (s *Session) chat(ctx context.Context, request ChatRequest, async bool) (answer string, err error) {
	token := s.Token()
	if token == "" {
		return "", ErrNotAuthenticated
	}

	model := request.Model
	if model == "" {
		model = s.Model()
	}
	driver := s.registry.DriverOrDefault(model)

	userMessage, err := content.NewUserMessage(request.Prompt, request.Images, request.Parts)
	if err != nil {
		return "", err
	}

	ctx, span := s.observer.StartSpan(ctx, observability.SpanChat,
		observability.String(observability.AttrSessionID, s.id),
		observability.String(observability.AttrModel, model),
		observability.String(observability.AttrDriver, driver),
		observability.Bool(observability.AttrAsync, async),
	)
	start := time.Now()
	status := "ok"
	defer func() {
		if err != nil {
			status = "error"
			span.RecordError(err)
			span.SetStatus(observability.StatusError, "chat failed")
			s.observer.Error(ctx, "puter chat failed",
				observability.Error(err),
				observability.String(observability.AttrModel, model),
			)
		} else {
			span.SetStatus(observability.StatusOK, "")
		}
		attrs := []observability.Attribute{
			observability.String(observability.AttrStatus, status),
			observability.String(observability.AttrModel, model),
		}
		s.observer.Counter(observability.MetricChatCount).Add(ctx, 1, attrs...)
		s.observer.Histogram(observability.MetricChatDuration).Record(ctx, time.Since(start).Seconds(), attrs...)
		span.End()
	}()

	history, err := s.memory.AllMessages(ctx)
	if err != nil {
		return "", fmt.Errorf("puter: read transcript: %w", err)
	}
	draft := append(history, userMessage)
	span.SetAttributes(
		observability.Int(observability.AttrMessagesCount, len(draft)),
		observability.Int(observability.AttrImagesCount, countImages(userMessage.Content)),
	)

	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)
	resp, err := s.send(ctx, &transport.Request{
		Method: http.MethodPost,
		URL:    s.cfg.DriversCallURL(),
		Header: header,
		Body:   newChatPayload(driver, model, draft),
	}, async)
	if err != nil {
		return "", fmt.Errorf("puter: chat: %w", err)
	}

	result := response.Normalize(resp.StatusCode, resp.Body)
	if result.Miss != nil {
		status = "miss"
		span.SetAttributes(observability.Bool(observability.AttrResponseMiss, true))
		s.observer.Counter(observability.MetricChatMissCount).Add(ctx, 1, observability.String(observability.AttrModel, model))
		s.observer.Warn(ctx, "puter chat reply had no content",
			observability.String(observability.AttrModel, model),
			observability.Int(observability.AttrHTTPStatusCode, resp.StatusCode),
		)
		return result.Answer(), nil
	}
	span.SetAttributes(observability.Int(observability.AttrResponseLength, len(result.Text)))

	if err := s.commit(ctx, userMessage, result.Text); err != nil {
		return "", err
	}
	return result.Text, nil
}

// commit appends the user message and the answer as one pair. A call whose
// context ended during the round trip commits nothing.
func (s *Session) commit(ctx context.Context, userMessage content.Message, answer string) error {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	reply := content.Message{Role: content.RoleAssistant, Content: content.Text(answer)}
	if err := s.memory.AppendMessages(ctx, userMessage, reply); err != nil {
		return fmt.Errorf("puter: commit transcript: %w", err)
	}
	return nil
}

func countImages(c content.Content) int {
	n := 0
	for _, p := range c.Parts() {
		if p.Type == content.PartImageURL {
			n++
		}
	}
	return n
}
