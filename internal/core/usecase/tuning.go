package usecase

// RetrievalTuning collects the pipeline's tunable constants. The boost and
// cap values have no documented derivation; they are deliberately plain
// configuration so deployments can override them without a rebuild.
type RetrievalTuning struct {
	// SimilarityThreshold is the post-merge floor. Kept low on purpose:
	// recall is favored here and the reranker restores precision.
	SimilarityThreshold float64 `yaml:"similarity_threshold"`

	// Keyword-path scoring: similarity = min(base + ratio*span, cap).
	// The cap stays below 1.0 so a keyword-only hit never outranks a
	// strong semantic match before boosting.
	KeywordBaseScore float64 `yaml:"keyword_base_score"`
	KeywordScoreSpan float64 `yaml:"keyword_score_span"`
	KeywordScoreCap  float64 `yaml:"keyword_score_cap"`

	// Merge boosts: lexical hits missing from the semantic pass enter with
	// KeywordOnlyBoost added; hits present on both paths get OverlapBoost,
	// capped at 1.0.
	KeywordOnlyBoost float64 `yaml:"keyword_only_boost"`
	OverlapBoost     float64 `yaml:"overlap_boost"`

	// MaxKeywordQueries bounds the lexical fan-out per request.
	MaxKeywordQueries int `yaml:"max_keyword_queries"`

	// CandidateLimit is the per-path retrieval cap; DefaultTopK the final
	// answer cap when the caller does not ask for one.
	CandidateLimit int `yaml:"candidate_limit"`
	DefaultTopK    int `yaml:"default_top_k"`

	// ContextCharBudget caps the assembled context passed to the model.
	ContextCharBudget int `yaml:"context_char_budget"`
}

func DefaultRetrievalTuning() RetrievalTuning {
	return RetrievalTuning{
		SimilarityThreshold: 0.1,
		KeywordBaseScore:    0.3,
		KeywordScoreSpan:    0.5,
		KeywordScoreCap:     0.9,
		KeywordOnlyBoost:    0.2,
		OverlapBoost:        0.15,
		MaxKeywordQueries:   5,
		CandidateLimit:      30,
		DefaultTopK:         5,
		ContextCharBudget:   6000,
	}
}

func (t RetrievalTuning) normalize() RetrievalTuning {
	def := DefaultRetrievalTuning()
	out := t
	if out.SimilarityThreshold <= 0 {
		out.SimilarityThreshold = def.SimilarityThreshold
	}
	if out.KeywordBaseScore <= 0 {
		out.KeywordBaseScore = def.KeywordBaseScore
	}
	if out.KeywordScoreSpan <= 0 {
		out.KeywordScoreSpan = def.KeywordScoreSpan
	}
	if out.KeywordScoreCap <= 0 || out.KeywordScoreCap > 1 {
		out.KeywordScoreCap = def.KeywordScoreCap
	}
	if out.KeywordOnlyBoost < 0 {
		out.KeywordOnlyBoost = def.KeywordOnlyBoost
	}
	if out.OverlapBoost < 0 {
		out.OverlapBoost = def.OverlapBoost
	}
	if out.MaxKeywordQueries <= 0 {
		out.MaxKeywordQueries = def.MaxKeywordQueries
	}
	if out.CandidateLimit <= 0 {
		out.CandidateLimit = def.CandidateLimit
	}
	if out.DefaultTopK <= 0 {
		out.DefaultTopK = def.DefaultTopK
	}
	if out.ContextCharBudget <= 0 {
		out.ContextCharBudget = def.ContextCharBudget
	}
	return out
}
