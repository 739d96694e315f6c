package usecase

import (
	"regexp"
	"sort"
	"strings"

	"github.com/askdoc/askdoc/internal/core/domain"
)

// Rerank scoring weights. All terms are computed independently and summed.
const (
	rerankBaseScale       = 100.0
	rerankKeywordBonus    = 8.0
	rerankKeywordRatioMax = 20.0
	rerankPrimaryBonus    = 25.0
	rerankContextBonus    = 10.0
	rerankHintBonus       = 5.0
	rerankPatternBonus    = 15.0

	rerankVeryShortPenalty = 20.0
	rerankShortPenalty     = 10.0
	rerankLongBonus        = 5.0
	rerankVeryLongBonus    = 5.0

	rerankVeryShortLimit = 50
	rerankShortLimit     = 100
	rerankLongLimit      = 300
	rerankVeryLongLimit  = 500
)

// contentPatterns are structural regexes rewarding content whose shape fits
// the question type: bullets for listings, step markers for procedures, and
// so on. Types without a structural signature get no bonus.
var contentPatterns = map[domain.QuestionType]*regexp.Regexp{
	domain.QuestionListing:    regexp.MustCompile(`(?m)^\s*(\d+[.)]|[-•*])\s+`),
	domain.QuestionProcedure:  regexp.MustCompile(`(?i)\b(step \d+|first,|then,|next,|finally)\b`),
	domain.QuestionQuantity:   regexp.MustCompile(`(?i)\d+(\.\d+)?\s*(%|percent|kg|km|cm|mm|mb|gb|years?|hours?|minutes?|seconds?|degrees?)\b`),
	domain.QuestionComparison: regexp.MustCompile(`(?i)\b(whereas|unlike|in contrast|compared (to|with)|on the other hand)\b`),
	domain.QuestionDefinition: regexp.MustCompile(`(?i)\b(is an?|is the|refers to|is defined as|means)\b`),
}

// RerankCandidates rescales and reorders merged candidates with the additive
// heuristic score, then truncates to topN. Scoring is deterministic; exact
// ties keep the original candidate order, so reranking the same input twice
// yields identical output.
func RerankCandidates(analysis domain.QueryAnalysis, keywords []string, candidates []domain.Candidate, topN int) []domain.Candidate {
	if len(candidates) == 0 {
		return candidates
	}

	out := make([]domain.Candidate, len(candidates))
	copy(out, candidates)
	for i := range out {
		out[i].Relevance = scoreCandidate(analysis, keywords, out[i])
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Relevance > out[j].Relevance
	})

	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}
	return out
}

func scoreCandidate(analysis domain.QueryAnalysis, keywords []string, candidate domain.Candidate) float64 {
	content := strings.ToLower(candidate.Content)
	score := candidate.Similarity * rerankBaseScale

	if len(keywords) > 0 {
		matched := 0
		for _, keyword := range keywords {
			if strings.Contains(content, keyword) {
				matched++
				score += rerankKeywordBonus
			}
		}
		score += rerankKeywordRatioMax * float64(matched) / float64(len(keywords))
	}

	for _, term := range analysis.PrimaryTerms {
		if strings.Contains(content, strings.ToLower(term)) {
			score += rerankPrimaryBonus
		}
	}
	for _, term := range analysis.ContextTerms {
		if strings.Contains(content, strings.ToLower(term)) {
			score += rerankContextBonus
		}
	}
	for _, hint := range analysis.SearchHints {
		if strings.Contains(content, hint) {
			score += rerankHintBonus
		}
	}

	if pattern, ok := contentPatterns[analysis.Type]; ok && pattern.MatchString(candidate.Content) {
		score += rerankPatternBonus
	}

	length := len(candidate.Content)
	if length < rerankVeryShortLimit {
		score -= rerankVeryShortPenalty
	}
	if length < rerankShortLimit {
		score -= rerankShortPenalty
	}
	if length > rerankLongLimit {
		score += rerankLongBonus
	}
	if length > rerankVeryLongLimit {
		score += rerankVeryLongBonus
	}
	return score
}
