package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/leofalp/puter-go/providers/observability"
)

// maxBodySize caps how much of a reply is read.
const maxBodySize = 16 * 1024 * 1024

// HTTPSender returns a SendFunc performing exactly one HTTP attempt with
// client. defaultHeaders are set first, then request.Header overrides them.
// The request body is JSON-encoded and Content-Type is always
// application/json. A non-2xx reply is returned as a [*StatusError].
//
// When the context carries an observability span, request/response events are
// recorded on it.
func HTTPSender(client *http.Client, defaultHeaders map[string]string) SendFunc {
	if client == nil {
		client = http.DefaultClient
	}

	return func(ctx context.Context, request *Request) (*Response, error) {
		span := observability.SpanFromContext(ctx)

		var body io.Reader
		var bodySize int
		if request.Body != nil {
			encoded, err := json.Marshal(request.Body)
			if err != nil {
				return nil, fmt.Errorf("error marshaling body: %w", err)
			}
			body = bytes.NewReader(encoded)
			bodySize = len(encoded)
		}

		method := request.Method
		if method == "" {
			method = http.MethodPost
		}

		req, err := http.NewRequestWithContext(ctx, method, request.URL, body)
		if err != nil {
			return nil, fmt.Errorf("error creating request: %w", err)
		}
		for k, v := range defaultHeaders {
			req.Header.Set(k, v)
		}
		for k, values := range request.Header {
			req.Header.Del(k)
			for _, v := range values {
				req.Header.Add(k, v)
			}
		}
		req.Header.Set("Content-Type", "application/json")

		if span != nil {
			span.AddEvent(observability.EventHTTPRequest,
				observability.String(observability.AttrHTTPMethod, method),
				observability.String(observability.AttrHTTPURL, request.URL),
				observability.Int(observability.AttrHTTPRequestBodySize, bodySize),
				observability.Int(observability.AttrAttempt, AttemptFromContext(ctx)),
			)
		}

		start := time.Now()
		res, err := client.Do(req)
		elapsed := time.Since(start)
		if err != nil {
			if span != nil {
				span.AddEvent(observability.EventHTTPError,
					observability.Error(err),
					observability.Duration(observability.AttrHTTPDuration, elapsed),
				)
			}
			return nil, fmt.Errorf("error sending request: %w", err)
		}
		defer func(Body io.ReadCloser) {
			if closeErr := Body.Close(); closeErr != nil {
				slog.Warn("failed to close response body", "error", closeErr.Error(), "url", request.URL)
			}
		}(res.Body)

		respBody, err := io.ReadAll(io.LimitReader(res.Body, maxBodySize))
		if err != nil {
			return nil, fmt.Errorf("error reading response body: %w", err)
		}

		if span != nil {
			span.AddEvent(observability.EventHTTPResponse,
				observability.Int(observability.AttrHTTPStatusCode, res.StatusCode),
				observability.Int(observability.AttrHTTPResponseBodySize, len(respBody)),
				observability.Duration(observability.AttrHTTPDuration, elapsed),
			)
		}

		if res.StatusCode < 200 || res.StatusCode >= 300 {
			return nil, newStatusError(res.StatusCode, res.Header.Get("Content-Type"), respBody)
		}

		return &Response{StatusCode: res.StatusCode, Header: res.Header, Body: respBody}, nil
	}
}
