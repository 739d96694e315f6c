package ollama

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/askdoc/askdoc/internal/core/ports"
	"github.com/askdoc/askdoc/internal/infrastructure/resilience"
)

// Task prefixes for nomic-style embedding models: documents and queries get
// different hints but land in the same vector space.
const (
	documentTaskPrefix = "search_document: "
	queryTaskPrefix    = "search_query: "
)

type Client struct {
	baseURL    string
	genModel   string
	embedModel string
	httpClient *http.Client
	executor   *resilience.Executor
}

func New(baseURL, genModel, embedModel string, executor *resilience.Executor) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		genModel:   genModel,
		embedModel: embedModel,
		httpClient: &http.Client{Timeout: 120 * time.Second},
		executor:   executor,
	}
}

func (c *Client) execute(ctx context.Context, operation string, fn func(context.Context) error) error {
	if c.executor == nil {
		return wrapOllamaError(operation, fn(ctx))
	}
	return wrapOllamaError(operation, c.executor.Execute(ctx, operation, fn, classifyOllamaError))
}

type Embedder struct {
	client *Client
}

func NewEmbedder(client *Client) *Embedder {
	return &Embedder{client: client}
}

func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return e.embed(ctx, texts, documentTaskPrefix)
}

func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.embed(ctx, []string{text}, queryTaskPrefix)
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}
	return vectors[0], nil
}

func (e *Embedder) embed(ctx context.Context, texts []string, taskPrefix string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	input := make([]string, len(texts))
	for i, text := range texts {
		input[i] = taskPrefix + text
	}
	request := map[string]any{
		"model": e.client.embedModel,
		"input": input,
	}

	var response struct {
		Embeddings [][]float32 `json:"embeddings"`
	}
	err := e.client.execute(ctx, "embed", func(ctx context.Context) error {
		return e.client.postJSON(ctx, "/api/embed", request, &response, "embed")
	})
	if err != nil {
		return nil, err
	}
	if len(response.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embeddings/texts mismatch: %d/%d", len(response.Embeddings), len(texts))
	}
	return response.Embeddings, nil
}

type Generator struct {
	client *Client
}

func NewGenerator(client *Client) *Generator {
	return &Generator{client: client}
}

func (g *Generator) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	reqBody := map[string]any{
		"model":  g.client.genModel,
		"system": systemPrompt,
		"prompt": userPrompt,
		"stream": false,
	}

	var response struct {
		Response string `json:"response"`
	}
	err := g.client.execute(ctx, "generate", func(ctx context.Context) error {
		return g.client.postJSON(ctx, "/api/generate", reqBody, &response, "generate")
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(response.Response), nil
}

// GenerateStream opens a streaming generation and forwards each NDJSON line
// as one fragment. The stream itself is not retried; only errors from before
// the first byte can be recovered by the caller.
func (g *Generator) GenerateStream(ctx context.Context, systemPrompt, userPrompt string) (<-chan ports.GenerationChunk, error) {
	reqBody := map[string]any{
		"model":  g.client.genModel,
		"system": systemPrompt,
		"prompt": userPrompt,
		"stream": true,
	}

	body, err := g.client.postStream(ctx, "/api/generate", reqBody, "generate_stream")
	if err != nil {
		return nil, wrapOllamaError("generate_stream", err)
	}

	out := make(chan ports.GenerationChunk)
	go func() {
		defer close(out)
		defer body.Close()

		scanner := bufio.NewScanner(body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}

			var event struct {
				Response string `json:"response"`
				Done     bool   `json:"done"`
				Error    string `json:"error"`
			}
			if err := json.Unmarshal([]byte(line), &event); err != nil {
				send(ctx, out, ports.GenerationChunk{Err: fmt.Errorf("decode stream line: %w", err)})
				return
			}
			if event.Error != "" {
				send(ctx, out, ports.GenerationChunk{Err: fmt.Errorf("ollama stream: %s", event.Error)})
				return
			}
			if event.Response != "" {
				if !send(ctx, out, ports.GenerationChunk{Text: event.Response}) {
					return
				}
			}
			if event.Done {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			send(ctx, out, ports.GenerationChunk{Err: fmt.Errorf("read stream: %w", err)})
		}
	}()
	return out, nil
}

func send(ctx context.Context, out chan<- ports.GenerationChunk, chunk ports.GenerationChunk) bool {
	select {
	case out <- chunk:
		return true
	case <-ctx.Done():
		return false
	}
}
