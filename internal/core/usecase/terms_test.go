package usecase

import (
	"testing"

	"github.com/askdoc/askdoc/internal/core/domain"
)

func TestAnalyzeQueryAcronymKeepsCase(t *testing.T) {
	analysis := AnalyzeQuery("What is NASA?")
	if analysis.Type != domain.QuestionDefinition {
		t.Fatalf("expected definition, got %s", analysis.Type)
	}
	if len(analysis.PrimaryTerms) != 1 || analysis.PrimaryTerms[0] != "NASA" {
		t.Fatalf("expected primary terms [NASA], got %v", analysis.PrimaryTerms)
	}
}

func TestAnalyzeQueryAcronymWithTrailingDigits(t *testing.T) {
	analysis := AnalyzeQuery("Describe the MPEG4 container")
	if !containsTerm(analysis.PrimaryTerms, "MPEG4") {
		t.Fatalf("expected MPEG4 in primary terms, got %v", analysis.PrimaryTerms)
	}
}

func TestAnalyzeQueryQuotedPhrase(t *testing.T) {
	analysis := AnalyzeQuery(`What does "packet loss" mean here?`)
	if !containsTerm(analysis.PrimaryTerms, "packet loss") {
		t.Fatalf("expected quoted phrase in primary terms, got %v", analysis.PrimaryTerms)
	}
}

func TestAnalyzeQueryCapitalizedMultiWord(t *testing.T) {
	analysis := AnalyzeQuery("Tell me about the Border Gateway Protocol design")
	if !containsTerm(analysis.PrimaryTerms, "Border Gateway Protocol") {
		t.Fatalf("expected capitalized sequence in primary terms, got %v", analysis.PrimaryTerms)
	}
}

func TestAnalyzeQueryContextTermsCappedAndFiltered(t *testing.T) {
	analysis := AnalyzeQuery("please summarize the throughput latency jitter bandwidth saturation congestion figures")
	if len(analysis.ContextTerms) != 5 {
		t.Fatalf("expected 5 context terms, got %v", analysis.ContextTerms)
	}
	for _, term := range analysis.ContextTerms {
		if _, stop := stopWords[term]; stop {
			t.Fatalf("stopword leaked into context terms: %q", term)
		}
	}
}

func TestAnalyzeQueryContextExcludesPrimary(t *testing.T) {
	analysis := AnalyzeQuery("What is NASA doing about orbital debris?")
	for _, term := range analysis.ContextTerms {
		if term == "NASA" || term == "nasa" {
			t.Fatalf("primary term duplicated into context terms: %v", analysis.ContextTerms)
		}
	}
}

func TestExtractKeywordsLowercasedAndDeduplicated(t *testing.T) {
	keywords := ExtractKeywords("NASA budget and the NASA launch budget")
	want := []string{"nasa", "budget", "launch"}
	if len(keywords) != len(want) {
		t.Fatalf("expected %v, got %v", want, keywords)
	}
	for i, keyword := range want {
		if keywords[i] != keyword {
			t.Fatalf("expected %v, got %v", want, keywords)
		}
	}
}

func TestExtractKeywordsMinimumLength(t *testing.T) {
	for _, keyword := range ExtractKeywords("an io op tcp") {
		if len(keyword) < 3 {
			t.Fatalf("keyword below minimum length: %q", keyword)
		}
	}
}

func TestSearchHintsCoverDefinition(t *testing.T) {
	analysis := AnalyzeQuery("What is entropy?")
	if !containsTerm(analysis.SearchHints, "is defined as") {
		t.Fatalf("expected definition hints, got %v", analysis.SearchHints)
	}
}

func containsTerm(terms []string, want string) bool {
	for _, term := range terms {
		if term == want {
			return true
		}
	}
	return false
}
