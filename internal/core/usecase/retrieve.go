package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/askdoc/askdoc/internal/core/domain"
	"github.com/askdoc/askdoc/internal/core/ports"
)

// RetrievalMode selects between the canonical hybrid retrieval and the
// degraded semantic-only fallback.
type RetrievalMode string

const (
	ModeHybrid   RetrievalMode = "hybrid"
	ModeSemantic RetrievalMode = "semantic"
)

// HybridRetriever runs the semantic and lexical search paths concurrently,
// merges them by chunk id, filters by the similarity floor and delegates the
// final ordering to the reranker.
type HybridRetriever struct {
	embedder ports.Embedder
	vectors  ports.VectorStore
	mode     RetrievalMode
	tuning   RetrievalTuning
}

func NewHybridRetriever(
	embedder ports.Embedder,
	vectors ports.VectorStore,
	mode RetrievalMode,
	tuning RetrievalTuning,
) *HybridRetriever {
	if mode != ModeSemantic {
		mode = ModeHybrid
	}
	return &HybridRetriever{
		embedder: embedder,
		vectors:  vectors,
		mode:     mode,
		tuning:   tuning.normalize(),
	}
}

type semanticResult struct {
	candidates []domain.Candidate
	err        error
}

type keywordResult struct {
	matchCounts map[int64]int
	candidates  map[int64]domain.Candidate
	totalTerms  int
}

// Retrieve produces the final ranked candidate list (length <= topN) plus
// the query analysis for reuse by the orchestrator. An embedding or semantic
// search failure fails the request; the keyword path degrades to empty.
func (r *HybridRetriever) Retrieve(
	ctx context.Context,
	query string,
	topN int,
	filter domain.SearchFilter,
) (domain.QueryAnalysis, []domain.Candidate, error) {
	analysis := AnalyzeQuery(query)
	searchText := BuildSearchQuery(analysis)
	keywords := ExtractKeywords(query)

	semanticCh := make(chan semanticResult, 1)
	keywordCh := make(chan keywordResult, 1)

	go func() {
		candidates, err := r.searchSemantic(ctx, searchText, filter)
		semanticCh <- semanticResult{candidates: candidates, err: err}
	}()
	go func() {
		keywordCh <- r.searchKeywords(ctx, keywords, filter)
	}()

	semantic := <-semanticCh
	lexical := <-keywordCh
	if semantic.err != nil {
		return analysis, nil, fmt.Errorf("semantic search: %w", semantic.err)
	}

	merged := r.merge(semantic.candidates, lexical)
	filtered := merged[:0]
	for _, candidate := range merged {
		if candidate.Similarity >= r.tuning.SimilarityThreshold {
			filtered = append(filtered, candidate)
		}
	}

	return analysis, RerankCandidates(analysis, keywords, filtered, topN), nil
}

func (r *HybridRetriever) searchSemantic(ctx context.Context, searchText string, filter domain.SearchFilter) ([]domain.Candidate, error) {
	vector, err := r.embedder.EmbedQuery(ctx, searchText)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	return r.vectors.Search(ctx, vector, r.tuning.CandidateLimit, filter)
}

// searchKeywords runs up to MaxKeywordQueries substring searches and counts
// per-chunk matches. Any failure on this path is downgraded to an empty
// result; it never fails the request.
func (r *HybridRetriever) searchKeywords(ctx context.Context, keywords []string, filter domain.SearchFilter) keywordResult {
	result := keywordResult{
		matchCounts: make(map[int64]int),
		candidates:  make(map[int64]domain.Candidate),
	}
	if r.mode == ModeSemantic || len(keywords) == 0 {
		return result
	}
	if len(keywords) > r.tuning.MaxKeywordQueries {
		keywords = keywords[:r.tuning.MaxKeywordQueries]
	}

	for _, keyword := range keywords {
		if len(keyword) <= 2 {
			continue
		}
		result.totalTerms++
		matches, err := r.vectors.SearchContains(ctx, keyword, r.tuning.CandidateLimit, filter)
		if err != nil {
			slog.Warn("keyword search degraded", "term", keyword, "error", err)
			continue
		}
		for _, match := range matches {
			result.matchCounts[match.ID]++
			if _, ok := result.candidates[match.ID]; !ok {
				result.candidates[match.ID] = match
			}
		}
	}
	return result
}

// merge adds semantic results first, deduplicated by id, then folds in the
// keyword hits: new ids enter with the keyword-only boost, ids seen on both
// paths boost the semantic similarity, capped at 1.0. Output order is
// semantic order followed by keyword-only hits in ascending id order for
// determinism.
func (r *HybridRetriever) merge(semantic []domain.Candidate, lexical keywordResult) []domain.Candidate {
	out := make([]domain.Candidate, 0, len(semantic)+len(lexical.candidates))
	index := make(map[int64]int, len(semantic))
	for _, candidate := range semantic {
		if _, ok := index[candidate.ID]; ok {
			continue
		}
		index[candidate.ID] = len(out)
		out = append(out, candidate)
	}

	if lexical.totalTerms == 0 {
		return out
	}

	for _, id := range sortedIDs(lexical.matchCounts) {
		similarity := r.keywordSimilarity(lexical.matchCounts[id], lexical.totalTerms)
		if pos, ok := index[id]; ok {
			boosted := out[pos].Similarity + r.tuning.OverlapBoost
			if boosted > 1.0 {
				boosted = 1.0
			}
			out[pos].Similarity = boosted
			continue
		}
		candidate := lexical.candidates[id]
		candidate.Similarity = similarity + r.tuning.KeywordOnlyBoost
		index[id] = len(out)
		out = append(out, candidate)
	}
	return out
}

func (r *HybridRetriever) keywordSimilarity(matchCount, totalTerms int) float64 {
	similarity := r.tuning.KeywordBaseScore + float64(matchCount)/float64(totalTerms)*r.tuning.KeywordScoreSpan
	if similarity > r.tuning.KeywordScoreCap {
		similarity = r.tuning.KeywordScoreCap
	}
	return similarity
}

func sortedIDs(counts map[int64]int) []int64 {
	ids := make([]int64, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
