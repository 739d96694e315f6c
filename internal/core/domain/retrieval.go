package domain

type SearchFilter struct {
	DocumentName string
}

// ChunkMetadata is the persisted payload schema for an indexed chunk.
// PageNumber is 1-based; ChunkIndex is the global ordinal within the
// document, not per-page.
type ChunkMetadata struct {
	DocumentName string `json:"document_name"`
	PageNumber   int    `json:"page_number"`
	ChunkIndex   int    `json:"chunk_index"`
	TotalChunks  int    `json:"total_chunks,omitempty"`
}

// Candidate is a retrieved chunk flowing through the pipeline. Similarity is
// cosine-derived in [0,1] on the semantic path; merge boosting keeps it
// capped at 1.0. Relevance is the unbounded heuristic rerank score.
type Candidate struct {
	ID         int64         `json:"id"`
	Content    string        `json:"content"`
	Metadata   ChunkMetadata `json:"metadata"`
	Similarity float64       `json:"similarity"`
	Relevance  float64       `json:"relevance"`
}

// PageText is one page of extracted document text, before chunking.
type PageText struct {
	Number int
	Text   string
}

// IndexChunk is a chunk ready for embedding and indexing.
type IndexChunk struct {
	Content  string
	Metadata ChunkMetadata
}
