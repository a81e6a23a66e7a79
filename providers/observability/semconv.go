package observability

// Semantic conventions for the attributes, spans, events and metrics recorded
// by the session and transport.

// --- Gateway Attributes ---

const (
	// AttrModel is the model name sent with a chat call.
	AttrModel = "puter.model"

	// AttrDriver is the backend driver the model resolves to.
	AttrDriver = "puter.driver"

	// AttrAsync is true for calls made on the asynchronous path.
	AttrAsync = "puter.async"

	// AttrMessagesCount is the number of messages sent, history included.
	AttrMessagesCount = "puter.messages_count"

	// AttrImagesCount is the number of image parts in the outgoing message.
	AttrImagesCount = "puter.images_count"

	// AttrResponseLength is the length of the extracted answer.
	AttrResponseLength = "puter.response.length"

	// AttrResponseMiss is true when no answer could be extracted.
	AttrResponseMiss = "puter.response.miss"

	// AttrAttempt is the zero-indexed attempt number of an HTTP call.
	AttrAttempt = "puter.attempt"

	// AttrSessionID identifies the session that issued a call.
	AttrSessionID = "puter.session_id"
)

// --- HTTP Attributes ---

const (
	AttrHTTPMethod           = "http.method"
	AttrHTTPStatusCode       = "http.status_code"
	AttrHTTPURL              = "http.url"
	AttrHTTPRequestBodySize  = "http.request.body.size"
	AttrHTTPResponseBodySize = "http.response.body.size"
	AttrHTTPDuration         = "http.request.duration"
)

// --- Memory Attributes ---

const (
	AttrMemoryMessageRole   = "memory.message.role"
	AttrMemoryTotalMessages = "memory.total_messages"
)

// --- General Attributes ---

const (
	AttrError             = "error"
	AttrDuration          = "duration"
	AttrStatus            = "status"
	AttrStatusDescription = "status_description"
)

// --- Span Names ---

const (
	SpanLogin = "puter.login"
	SpanChat  = "puter.chat"
)

// --- Event Names ---

const (
	EventHTTPRequest  = "http.request.prepared"
	EventHTTPResponse = "http.response.received"
	EventHTTPError    = "http.request.error"

	// EventTranscriptCommit marks a committed user/assistant pair.
	EventTranscriptCommit = "transcript.commit"

	// EventTranscriptClear marks a cleared transcript.
	EventTranscriptClear = "transcript.clear"
)

// --- Metric Names ---

const (
	MetricChatCount     = "puter.chat.count"
	MetricChatDuration  = "puter.chat.duration"
	MetricChatMissCount = "puter.chat.miss.count"
	MetricLoginCount    = "puter.login.count"
)
