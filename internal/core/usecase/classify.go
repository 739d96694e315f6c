package usecase

import (
	"regexp"
	"strings"

	"github.com/askdoc/askdoc/internal/core/domain"
)

// questionRule pairs a pattern with its category. Rules are evaluated in
// order and the first match wins, so the order below is the precedence.
type questionRule struct {
	pattern  *regexp.Regexp
	category domain.QuestionType
}

var questionRules = []questionRule{
	{regexp.MustCompile(`\b(where|located|location|situated|in (what|which) (place|country|city|region))\b`), domain.QuestionLocation},
	{regexp.MustCompile(`\b(list|enumerate|name (all|the|some)|what are|which are|types of|kinds of|categories of)\b`), domain.QuestionListing},
	{regexp.MustCompile(`\b(how (many|much)|number of|count of|quantity|amount of|percentage)\b`), domain.QuestionQuantity},
	{regexp.MustCompile(`\b(how (do|does|to|can|is|are|did|would)|steps|procedure|process of|method (of|for))\b`), domain.QuestionProcedure},
	{regexp.MustCompile(`\b(why|cause[sd]?|effects? of|reasons? (for|behind)|results? (of|in|from)|leads? to|impact of|consequences?)\b`), domain.QuestionCauseEffect},
	{regexp.MustCompile(`\b(propert(y|ies)|characteristics?|features?|attributes?|qualit(y|ies)) (of|does|do|is|are)\b`), domain.QuestionProperty},
	{regexp.MustCompile(`\b(examples? of|instances? of|give (me )?an? example|such as what|illustrate)\b`), domain.QuestionExample},
	{regexp.MustCompile(`\b(when|what (year|time|date|century|period)|how long|during (what|which))\b`), domain.QuestionTime},
	{regexp.MustCompile(`\b(what (is|was|does .* mean)|define|definition of|meaning of|what do(es)? .* stand for)\b`), domain.QuestionDefinition},
	{regexp.MustCompile(`\b(compare|comparison|difference|differs?|distinguish|versus|vs\.?|similarit(y|ies)|better|worse)\b`), domain.QuestionComparison},
	{regexp.MustCompile(`\b(explain|describe|elaborate|tell me about|discuss|overview of)\b`), domain.QuestionExplanation},
}

// ClassifyQuestion assigns a query to exactly one question type. It is a pure
// function of the lower-cased query; anything unmatched falls back to the
// general category.
func ClassifyQuestion(query string) domain.QuestionType {
	lowered := strings.ToLower(strings.TrimSpace(query))
	if lowered == "" {
		return domain.QuestionGeneral
	}
	for _, rule := range questionRules {
		if rule.pattern.MatchString(lowered) {
			return rule.category
		}
	}
	return domain.QuestionGeneral
}
