package types

import "errors"

const (
	TypeWebsocketPing       = "ping"
	TypeWebsocketPong       = "pong"
	TypeWebsocketProcessing = "processing"
	TypeWebsocketError      = "error"
)

const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusPartial   = "partial"
	RunStatusFailed    = "failed"
)

// Error taxonomy of the engine. Per-document failures are isolated and
// reported next to partial results; only configuration errors are fatal
// to a whole run.
var (
	// ErrNoTextSpans marks a document whose extraction yielded nothing;
	// the document is reported without an outline.
	ErrNoTextSpans = errors.New("document yielded no text spans")
	// ErrEmbeddingUnavailable marks a text the embedding collaborator
	// could not handle; the text is ranked with similarity 0.
	ErrEmbeddingUnavailable = errors.New("embedding unavailable")
	// ErrInvalidConfig fails fast at startup.
	ErrInvalidConfig = errors.New("invalid configuration")
)

type WebsocketRequest struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type WebSocketResponse struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
