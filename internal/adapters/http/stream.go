package httpadapter

import (
	"encoding/json"
	"net/http"

	"github.com/askdoc/askdoc/internal/core/domain"
)

type streamEvent struct {
	Type    string   `json:"type"`
	Chunk   string   `json:"chunk,omitempty"`
	Sources []string `json:"sources"`
	Error   string   `json:"error,omitempty"`
}

// streamAnswerEvents writes the answer event sequence as NDJSON, flushing
// after every line so clients see chunks as they are generated. Returns the
// number of sources reported by the terminal sources event.
func streamAnswerEvents(w http.ResponseWriter, events <-chan domain.AnswerEvent) int {
	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	flusher, _ := w.(http.Flusher)
	encoder := json.NewEncoder(w)
	sourceCount := 0

	for event := range events {
		out := streamEvent{Type: string(event.Type)}
		switch event.Type {
		case domain.EventChunk:
			out.Chunk = event.Chunk
		case domain.EventSources:
			if event.Sources == nil {
				event.Sources = []string{}
			}
			out.Sources = event.Sources
			sourceCount = len(event.Sources)
		case domain.EventError:
			if event.Err != nil {
				out.Error = event.Err.Error()
			} else {
				out.Error = "stream failed"
			}
		}

		if err := encoder.Encode(out); err != nil {
			return sourceCount
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
	return sourceCount
}
