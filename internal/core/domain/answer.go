package domain

// Answer is the complete result of one RAG request.
type Answer struct {
	Text       string      `json:"text"`
	Sources    []string    `json:"sources"`
	Candidates []Candidate `json:"candidates,omitempty"`
}

// AnswerEventType tags events on the streaming answer channel.
type AnswerEventType string

const (
	EventChunk   AnswerEventType = "chunk"
	EventSources AnswerEventType = "sources"
	EventError   AnswerEventType = "error"
	EventDone    AnswerEventType = "done"
)

// AnswerEvent is one record of a streamed answer. Content chunks are always
// emitted before the single sources event; the stream ends with exactly one
// done or error event.
type AnswerEvent struct {
	Type    AnswerEventType `json:"type"`
	Chunk   string          `json:"chunk,omitempty"`
	Sources []string        `json:"sources,omitempty"`
	Err     error           `json:"-"`
}
