package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/askdoc/askdoc/internal/core/domain"
	"github.com/askdoc/askdoc/internal/core/ports"
)

const answerEventBuffer = 16

// QueryUseCase is the answer orchestrator: it composes retrieval, context
// assembly and prompt construction, then drives a single-shot or streamed
// generation call.
type QueryUseCase struct {
	retriever *HybridRetriever
	generator ports.AnswerGenerator
	tuning    RetrievalTuning
}

func NewQueryUseCase(
	retriever *HybridRetriever,
	generator ports.AnswerGenerator,
	tuning RetrievalTuning,
) *QueryUseCase {
	return &QueryUseCase{
		retriever: retriever,
		generator: generator,
		tuning:    tuning.normalize(),
	}
}

func (uc *QueryUseCase) prepare(
	ctx context.Context,
	query string,
	topK int,
	filter domain.SearchFilter,
) (domain.QueryAnalysis, []domain.Candidate, string, error) {
	if strings.TrimSpace(query) == "" {
		return domain.QueryAnalysis{}, nil, "", domain.WrapError(domain.ErrInvalidInput, "answer", fmt.Errorf("empty query"))
	}
	if topK <= 0 {
		topK = uc.tuning.DefaultTopK
	}

	analysis, candidates, err := uc.retriever.Retrieve(ctx, query, topK, filter)
	if err != nil {
		return analysis, nil, "", fmt.Errorf("retrieve candidates: %w", err)
	}

	prompt := buildAnswerPrompt(analysis, FormatContext(candidates, uc.tuning.ContextCharBudget))
	return analysis, candidates, prompt, nil
}

// Answer runs the full pipeline and blocks for the complete generation.
func (uc *QueryUseCase) Answer(
	ctx context.Context,
	query string,
	topK int,
	filter domain.SearchFilter,
) (*domain.Answer, error) {
	_, candidates, prompt, err := uc.prepare(ctx, query, topK, filter)
	if err != nil {
		return nil, err
	}

	text, err := uc.generator.Generate(ctx, answerSystemPrompt, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, domain.WrapError(domain.ErrEmptyAnswer, "generate answer", fmt.Errorf("model returned no content"))
	}

	return &domain.Answer{
		Text:       text,
		Sources:    FormatSources(candidates),
		Candidates: candidates,
	}, nil
}

// AnswerStream runs the same pipeline but emits the generation incrementally
// on a bounded channel: zero or more chunk events, then exactly one sources
// event, then done. A failed or empty generation ends the stream with an
// error event instead of done; the sources event is still emitted first so
// callers always observe the terminal sources record.
func (uc *QueryUseCase) AnswerStream(
	ctx context.Context,
	query string,
	topK int,
	filter domain.SearchFilter,
) (<-chan domain.AnswerEvent, error) {
	_, candidates, prompt, err := uc.prepare(ctx, query, topK, filter)
	if err != nil {
		return nil, err
	}

	fragments, err := uc.generator.GenerateStream(ctx, answerSystemPrompt, prompt)
	if err != nil {
		return nil, fmt.Errorf("start generation stream: %w", err)
	}

	sources := FormatSources(candidates)
	events := make(chan domain.AnswerEvent, answerEventBuffer)
	go func() {
		defer close(events)
		emitted := 0
		for fragment := range fragments {
			if fragment.Err != nil {
				send(ctx, events, domain.AnswerEvent{Type: domain.EventError, Err: fmt.Errorf("generation stream: %w", fragment.Err)})
				return
			}
			if fragment.Text == "" {
				continue
			}
			emitted++
			if !send(ctx, events, domain.AnswerEvent{Type: domain.EventChunk, Chunk: fragment.Text}) {
				return
			}
		}

		if !send(ctx, events, domain.AnswerEvent{Type: domain.EventSources, Sources: sources}) {
			return
		}
		if emitted == 0 {
			send(ctx, events, domain.AnswerEvent{
				Type: domain.EventError,
				Err:  domain.WrapError(domain.ErrEmptyAnswer, "generation stream", fmt.Errorf("model yielded no content")),
			})
			return
		}
		send(ctx, events, domain.AnswerEvent{Type: domain.EventDone})
	}()
	return events, nil
}

func send(ctx context.Context, events chan<- domain.AnswerEvent, event domain.AnswerEvent) bool {
	select {
	case events <- event:
		return true
	case <-ctx.Done():
		return false
	}
}
