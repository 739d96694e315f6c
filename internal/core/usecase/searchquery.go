package usecase

import (
	"strings"

	"github.com/askdoc/askdoc/internal/core/domain"
)

const maxExpandedQueries = 3

// BuildSearchQuery rewrites the raw query into one optimized search string
// for the detected question type. When the type has no rewrite rule, or its
// term-count precondition fails, the original query is returned unchanged,
// so the result is never empty.
func BuildSearchQuery(analysis domain.QueryAnalysis) string {
	primary := analysis.PrimaryTerms
	switch analysis.Type {
	case domain.QuestionDefinition:
		if len(primary) >= 1 {
			return strings.Join(primary, " ") + " definition meaning characteristics"
		}
	case domain.QuestionComparison:
		if len(primary) >= 2 {
			return primary[0] + " " + primary[1] + " difference comparison"
		}
	case domain.QuestionProcedure:
		return joinTermsWithSuffix(analysis, "steps process method how to")
	case domain.QuestionListing:
		return joinTermsWithSuffix(analysis, "types kinds list categories")
	}
	return analysis.Query
}

func joinTermsWithSuffix(analysis domain.QueryAnalysis, suffix string) string {
	terms := make([]string, 0, len(analysis.PrimaryTerms)+3)
	terms = append(terms, analysis.PrimaryTerms...)
	contextTerms := analysis.ContextTerms
	if len(contextTerms) > 3 {
		contextTerms = contextTerms[:3]
	}
	terms = append(terms, contextTerms...)
	if len(terms) == 0 {
		return analysis.Query
	}
	return strings.Join(terms, " ") + " " + suffix
}

var comparisonWords = []string{"difference between", "difference", "compare", "comparison", "versus", "vs"}

// ExpandQueries is the alternate multi-pass strategy: instead of rewriting
// the query it fans out into up to three variants. Callers use either this
// or BuildSearchQuery, never both.
func ExpandQueries(analysis domain.QueryAnalysis) []string {
	queries := []string{analysis.Query}

	for _, term := range analysis.PrimaryTerms {
		if len(queries) >= maxExpandedQueries {
			return queries
		}
		if !isAcronym(term) {
			continue
		}
		queries = append(queries, "What is "+term+"?")
		if len(queries) < maxExpandedQueries {
			queries = append(queries, term+" definition characteristics properties")
		}
	}

	if analysis.Type == domain.QuestionComparison && len(queries) < maxExpandedQueries {
		variant := strings.ToLower(analysis.Query)
		for _, word := range comparisonWords {
			variant = strings.ReplaceAll(variant, word, "characteristics")
		}
		if variant != strings.ToLower(analysis.Query) {
			queries = append(queries, variant)
		}
	}
	return queries
}

func isAcronym(term string) bool {
	return acronymPattern.MatchString(term) && acronymPattern.FindString(term) == term
}
