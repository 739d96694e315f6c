package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/askdoc/askdoc/internal/core/domain"
)

const scrollPageSize = 256

// Client talks to Qdrant over its HTTP API. One collection holds every
// document's chunks; points carry the chunk text and location metadata in
// the payload and are addressed by a stable integer id, so reindexing a
// document overwrites its previous points instead of duplicating them.
type Client struct {
	baseURL    string
	collection string
	httpClient *http.Client

	ensureMu          sync.Mutex
	ensuredCollection bool
	ensuredVectorSize int
}

func New(baseURL, collection string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		collection: collection,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// ChunkPointID derives the stable point id for a chunk of a document. The
// id doubles as the retrieval candidate id, so duplicate hits from the
// semantic and keyword paths collapse on it.
func ChunkPointID(documentName string, chunkIndex int) int64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s#%d", documentName, chunkIndex)
	return int64(h.Sum64() & (1<<63 - 1))
}

func (c *Client) IndexChunks(ctx context.Context, chunks []domain.IndexChunk, vectors [][]float32) error {
	if len(chunks) == 0 {
		return nil
	}
	if len(chunks) != len(vectors) {
		return fmt.Errorf("chunks/vectors mismatch: %d/%d", len(chunks), len(vectors))
	}

	if err := c.ensureCollection(ctx, len(vectors[0])); err != nil {
		return err
	}

	type point struct {
		ID      int64          `json:"id"`
		Vector  []float32      `json:"vector"`
		Payload map[string]any `json:"payload"`
	}

	points := make([]point, 0, len(chunks))
	for i, chunk := range chunks {
		points = append(points, point{
			ID:     ChunkPointID(chunk.Metadata.DocumentName, chunk.Metadata.ChunkIndex),
			Vector: vectors[i],
			Payload: map[string]any{
				"document_name": chunk.Metadata.DocumentName,
				"page_number":   chunk.Metadata.PageNumber,
				"chunk_index":   chunk.Metadata.ChunkIndex,
				"total_chunks":  chunk.Metadata.TotalChunks,
				"text":          chunk.Content,
			},
		})
	}

	url := fmt.Sprintf("%s/collections/%s/points?wait=true", c.baseURL, c.collection)
	return c.do(ctx, http.MethodPut, url, map[string]any{"points": points}, nil)
}

func (c *Client) Search(
	ctx context.Context,
	queryVector []float32,
	limit int,
	filter domain.SearchFilter,
) ([]domain.Candidate, error) {
	reqBody := map[string]any{
		"vector":       queryVector,
		"limit":        limit,
		"with_payload": true,
	}
	if f := documentFilter(filter); f != nil {
		reqBody["filter"] = f
	}

	var searchResp struct {
		Result []struct {
			ID      int64          `json:"id"`
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	url := fmt.Sprintf("%s/collections/%s/points/search", c.baseURL, c.collection)
	if err := c.do(ctx, http.MethodPost, url, reqBody, &searchResp); err != nil {
		return nil, err
	}

	out := make([]domain.Candidate, 0, len(searchResp.Result))
	for _, r := range searchResp.Result {
		candidate := candidateFromPayload(r.ID, r.Payload)
		candidate.Similarity = r.Score
		out = append(out, candidate)
	}
	return out, nil
}

// SearchContains scans the collection for chunks whose text contains the
// term, case-insensitively. Qdrant's full-text match is token-based, so the
// substring test runs client-side over scrolled payloads.
func (c *Client) SearchContains(
	ctx context.Context,
	term string,
	limit int,
	filter domain.SearchFilter,
) ([]domain.Candidate, error) {
	needle := strings.ToLower(term)
	if needle == "" || limit <= 0 {
		return nil, nil
	}

	var (
		out    []domain.Candidate
		offset any
	)
	for {
		reqBody := map[string]any{
			"limit":        scrollPageSize,
			"with_payload": true,
		}
		if f := documentFilter(filter); f != nil {
			reqBody["filter"] = f
		}
		if offset != nil {
			reqBody["offset"] = offset
		}

		var scrollResp struct {
			Result struct {
				Points []struct {
					ID      int64          `json:"id"`
					Payload map[string]any `json:"payload"`
				} `json:"points"`
				NextPageOffset any `json:"next_page_offset"`
			} `json:"result"`
		}
		url := fmt.Sprintf("%s/collections/%s/points/scroll", c.baseURL, c.collection)
		if err := c.do(ctx, http.MethodPost, url, reqBody, &scrollResp); err != nil {
			return nil, err
		}

		for _, p := range scrollResp.Result.Points {
			text := getStringPayload(p.Payload, "text")
			if !strings.Contains(strings.ToLower(text), needle) {
				continue
			}
			out = append(out, candidateFromPayload(p.ID, p.Payload))
			if len(out) >= limit {
				return out, nil
			}
		}

		if scrollResp.Result.NextPageOffset == nil {
			return out, nil
		}
		offset = scrollResp.Result.NextPageOffset
	}
}

func (c *Client) DeleteByDocument(ctx context.Context, documentName string) error {
	reqBody := map[string]any{
		"filter": map[string]any{
			"must": []map[string]any{
				{
					"key":   "document_name",
					"match": map[string]any{"value": documentName},
				},
			},
		},
	}
	url := fmt.Sprintf("%s/collections/%s/points/delete?wait=true", c.baseURL, c.collection)
	return c.do(ctx, http.MethodPost, url, reqBody, nil)
}

func (c *Client) ensureCollection(ctx context.Context, vectorSize int) error {
	c.ensureMu.Lock()
	if c.ensuredCollection && c.ensuredVectorSize == vectorSize {
		c.ensureMu.Unlock()
		return nil
	}
	c.ensureMu.Unlock()

	reqBody := map[string]any{
		"vectors": map[string]any{
			"size":     vectorSize,
			"distance": "Cosine",
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal create collection body: %w", err)
	}

	url := fmt.Sprintf("%s/collections/%s", c.baseURL, c.collection)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create collection request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("qdrant ensure collection request: %w", err)
	}
	defer resp.Body.Close()

	// 200/201 for create, 409 if already exists (depends on version/config).
	if resp.StatusCode == http.StatusConflict {
		c.markCollectionEnsured(vectorSize)
		return nil
	}
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		if msg := strings.TrimSpace(string(body)); msg != "" {
			return fmt.Errorf("qdrant ensure collection status: %s: %s", resp.Status, msg)
		}
		return fmt.Errorf("qdrant ensure collection status: %s", resp.Status)
	}
	c.markCollectionEnsured(vectorSize)
	return nil
}

func (c *Client) markCollectionEnsured(vectorSize int) {
	c.ensureMu.Lock()
	defer c.ensureMu.Unlock()
	c.ensuredCollection = true
	c.ensuredVectorSize = vectorSize
}

func (c *Client) do(ctx context.Context, method, url string, reqBody any, out any) error {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal qdrant request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create qdrant request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.WrapError(domain.ErrTemporary, "qdrant request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("qdrant %s %s: %s: %s", method, req.URL.Path, resp.Status, strings.TrimSpace(string(msg)))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode qdrant response: %w", err)
	}
	return nil
}

func documentFilter(filter domain.SearchFilter) map[string]any {
	if filter.DocumentName == "" {
		return nil
	}
	return map[string]any{
		"must": []map[string]any{
			{
				"key":   "document_name",
				"match": map[string]any{"value": filter.DocumentName},
			},
		},
	}
}

func candidateFromPayload(id int64, payload map[string]any) domain.Candidate {
	return domain.Candidate{
		ID:      id,
		Content: getStringPayload(payload, "text"),
		Metadata: domain.ChunkMetadata{
			DocumentName: getStringPayload(payload, "document_name"),
			PageNumber:   getIntPayload(payload, "page_number"),
			ChunkIndex:   getIntPayload(payload, "chunk_index"),
			TotalChunks:  getIntPayload(payload, "total_chunks"),
		},
	}
}

func getStringPayload(payload map[string]any, key string) string {
	v, ok := payload[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func getIntPayload(payload map[string]any, key string) int {
	switch v := payload[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case json.Number:
		n, _ := v.Int64()
		return int(n)
	default:
		return 0
	}
}
