package usecase

import (
	"regexp"
	"strings"

	"github.com/askdoc/askdoc/internal/core/domain"
)

const maxContextTerms = 5

var (
	acronymPattern     = regexp.MustCompile(`\b[A-Z]{2,}[0-9]*\b`)
	quotedPattern      = regexp.MustCompile(`"([^"]+)"|'([^']+)'`)
	capitalizedPattern = regexp.MustCompile(`\b[A-Z][a-z]+(?: [A-Z][a-z]+)+\b`)
	wordPattern        = regexp.MustCompile(`[A-Za-z0-9]+`)
)

var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "was": {}, "were": {},
	"this": {}, "that": {}, "with": {}, "from": {}, "what": {}, "which": {},
	"who": {}, "whom": {}, "when": {}, "where": {}, "why": {}, "how": {},
	"does": {}, "did": {}, "can": {}, "could": {}, "would": {}, "should": {},
	"have": {}, "has": {}, "had": {}, "been": {}, "being": {}, "about": {},
	"into": {}, "between": {}, "their": {}, "there": {}, "these": {}, "those": {},
	"will": {}, "all": {}, "any": {}, "some": {}, "its": {}, "it's": {},
	"not": {}, "but": {}, "you": {}, "your": {}, "they": {}, "them": {},
	"than": {}, "then": {}, "also": {}, "more": {}, "most": {}, "such": {},
	"other": {}, "each": {}, "many": {}, "much": {},
}

// searchHints is the fixed type-keyed vocabulary used for query building and
// rerank hint bonuses.
var searchHints = map[domain.QuestionType][]string{
	domain.QuestionDefinition:  {"definition", "meaning", "refers to", "is defined as", "is a"},
	domain.QuestionComparison:  {"difference", "compared to", "whereas", "unlike", "in contrast"},
	domain.QuestionExplanation: {"because", "explanation", "works by", "due to", "mechanism"},
	domain.QuestionLocation:    {"located", "found in", "situated", "region", "area"},
	domain.QuestionListing:     {"types", "kinds", "categories", "include", "following"},
	domain.QuestionQuantity:    {"number", "amount", "total", "approximately", "percent"},
	domain.QuestionProcedure:   {"step", "first", "then", "next", "finally"},
	domain.QuestionCauseEffect: {"causes", "results in", "leads to", "because", "consequence"},
	domain.QuestionProperty:    {"property", "characteristic", "feature", "consists of", "composed of"},
	domain.QuestionExample:     {"for example", "such as", "instance", "including", "e.g."},
	domain.QuestionTime:        {"during", "year", "period", "century", "date"},
}

// AnalyzeQuery derives the full per-request query state: question type,
// primary terms, context terms and the type-specific hint vocabulary. Pure,
// no I/O, stable for identical inputs.
func AnalyzeQuery(query string) domain.QueryAnalysis {
	questionType := ClassifyQuestion(query)
	primary := extractPrimaryTerms(query)
	return domain.QueryAnalysis{
		Query:        query,
		Type:         questionType,
		PrimaryTerms: primary,
		ContextTerms: extractContextTerms(query, primary),
		SearchHints:  searchHints[questionType],
	}
}

// extractPrimaryTerms collects high-priority tokens in priority order:
// acronyms, quoted phrases, capitalized multi-word sequences. Case is
// preserved; duplicates are dropped case-insensitively.
func extractPrimaryTerms(query string) []string {
	var terms []string
	seen := make(map[string]struct{})
	add := func(term string) {
		term = strings.TrimSpace(term)
		if term == "" {
			return
		}
		key := strings.ToLower(term)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		terms = append(terms, term)
	}

	for _, acronym := range acronymPattern.FindAllString(query, -1) {
		add(acronym)
	}
	for _, groups := range quotedPattern.FindAllStringSubmatch(query, -1) {
		if groups[1] != "" {
			add(groups[1])
		} else {
			add(groups[2])
		}
	}
	for _, phrase := range capitalizedPattern.FindAllString(query, -1) {
		add(phrase)
	}
	return terms
}

func extractContextTerms(query string, primary []string) []string {
	primarySet := make(map[string]struct{}, len(primary))
	for _, term := range primary {
		primarySet[strings.ToLower(term)] = struct{}{}
		for _, word := range wordPattern.FindAllString(term, -1) {
			primarySet[strings.ToLower(word)] = struct{}{}
		}
	}

	var terms []string
	seen := make(map[string]struct{})
	for _, word := range wordPattern.FindAllString(query, -1) {
		if len(terms) == maxContextTerms {
			break
		}
		lowered := strings.ToLower(word)
		if len(word) <= 2 {
			continue
		}
		if _, ok := stopWords[lowered]; ok {
			continue
		}
		if _, ok := primarySet[lowered]; ok {
			continue
		}
		if _, ok := seen[lowered]; ok {
			continue
		}
		seen[lowered] = struct{}{}
		terms = append(terms, word)
	}
	return terms
}

// ExtractKeywords produces the lowercase term set for the lexical search
// path: stopword-filtered, minimum length 3, acronyms lowered, first
// occurrence order preserved.
func ExtractKeywords(query string) []string {
	var keywords []string
	seen := make(map[string]struct{})
	for _, word := range wordPattern.FindAllString(query, -1) {
		lowered := strings.ToLower(word)
		if len(lowered) < 3 {
			continue
		}
		if _, ok := stopWords[lowered]; ok {
			continue
		}
		if _, ok := seen[lowered]; ok {
			continue
		}
		seen[lowered] = struct{}{}
		keywords = append(keywords, lowered)
	}
	return keywords
}
