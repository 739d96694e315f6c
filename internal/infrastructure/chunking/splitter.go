package chunking

import (
	"strings"

	"github.com/askdoc/askdoc/internal/core/domain"
)

// Splitter cuts page text into overlapping rune windows. Chunks never span
// page boundaries, so every chunk carries an exact page number; chunk_index
// runs globally across the document.
type Splitter struct {
	ChunkSize int
	Overlap   int
}

func NewSplitter(chunkSize, overlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = 900
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= chunkSize {
		overlap = chunkSize / 4
	}
	return &Splitter{
		ChunkSize: chunkSize,
		Overlap:   overlap,
	}
}

func (s *Splitter) Split(documentName string, pages []domain.PageText) []domain.IndexChunk {
	var out []domain.IndexChunk
	index := 0
	for _, page := range pages {
		for _, text := range s.splitText(page.Text) {
			out = append(out, domain.IndexChunk{
				Content: text,
				Metadata: domain.ChunkMetadata{
					DocumentName: documentName,
					PageNumber:   page.Number,
					ChunkIndex:   index,
				},
			})
			index++
		}
	}
	for i := range out {
		out[i].Metadata.TotalChunks = len(out)
	}
	return out
}

func (s *Splitter) splitText(text string) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	step := s.ChunkSize - s.Overlap
	if step <= 0 {
		step = s.ChunkSize
	}

	out := make([]string, 0, len(runes)/step+1)
	for start := 0; start < len(runes); start += step {
		end := start + s.ChunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunk := strings.TrimSpace(string(runes[start:end]))
		if chunk != "" {
			out = append(out, chunk)
		}
		if end == len(runes) {
			break
		}
	}
	return out
}
