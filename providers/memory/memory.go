package memory

import (
	"context"
	"time"

	"github.com/leofalp/puter-go/core/content"
)

// Provider stores a transcript. Implementations must be safe for concurrent
// use and must return copies, never their internal state.
type Provider interface {
	// AppendMessages stores messages at the end of the transcript, all or
	// none. Appending no messages is a no-op.
	AppendMessages(ctx context.Context, messages ...content.Message) error
	// AllMessages returns the transcript in insertion order.
	AllMessages(ctx context.Context) ([]content.Message, error)
	Count(ctx context.Context) (int, error)
	ClearMessages(ctx context.Context) error
}

// Record is a stored message and the time it was stored.
type Record struct {
	Message   content.Message
	CreatedAt time.Time
}

// Timestamped is implemented by providers that keep the time each message
// was stored.
type Timestamped interface {
	// AllRecords returns the transcript in insertion order.
	AllRecords(ctx context.Context) ([]Record, error)
}
