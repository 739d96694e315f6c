package usecase

import (
	"testing"

	"github.com/askdoc/askdoc/internal/core/domain"
)

func TestBuildSearchQueryDefinition(t *testing.T) {
	analysis := AnalyzeQuery("What is NASA?")
	if got := BuildSearchQuery(analysis); got != "NASA definition meaning characteristics" {
		t.Fatalf("unexpected definition query: %q", got)
	}
}

func TestBuildSearchQueryComparison(t *testing.T) {
	analysis := AnalyzeQuery("Difference between TCP and UDP")
	if got := BuildSearchQuery(analysis); got != "TCP UDP difference comparison" {
		t.Fatalf("unexpected comparison query: %q", got)
	}
}

func TestBuildSearchQueryListingSuffix(t *testing.T) {
	analysis := AnalyzeQuery("What are the types of RAID levels?")
	got := BuildSearchQuery(analysis)
	if got == analysis.Query {
		t.Fatalf("expected rewritten listing query, got original")
	}
	if want := "types kinds list categories"; len(got) < len(want) || got[len(got)-len(want):] != want {
		t.Fatalf("expected listing suffix, got %q", got)
	}
}

func TestBuildSearchQueryFallsBackToOriginal(t *testing.T) {
	// Comparison with fewer than two primary terms keeps the raw query.
	analysis := domain.QueryAnalysis{
		Query:        "compare the approaches",
		Type:         domain.QuestionComparison,
		PrimaryTerms: []string{"OneTerm"},
	}
	if got := BuildSearchQuery(analysis); got != analysis.Query {
		t.Fatalf("expected fallback to original query, got %q", got)
	}
}

func TestBuildSearchQueryNeverEmpty(t *testing.T) {
	analysis := domain.QueryAnalysis{Query: "x", Type: domain.QuestionListing}
	if got := BuildSearchQuery(analysis); got == "" {
		t.Fatalf("expected non-empty query")
	}
}

func TestExpandQueriesAcronymVariants(t *testing.T) {
	analysis := AnalyzeQuery("What is NASA?")
	queries := ExpandQueries(analysis)
	if len(queries) != 3 {
		t.Fatalf("expected 3 expanded queries, got %v", queries)
	}
	if queries[0] != "What is NASA?" {
		t.Fatalf("expected original query first, got %q", queries[0])
	}
	if queries[1] != "What is NASA?" {
		t.Fatalf("unexpected second query %q", queries[1])
	}
	if queries[2] != "NASA definition characteristics properties" {
		t.Fatalf("unexpected third query %q", queries[2])
	}
}

func TestExpandQueriesComparisonVariant(t *testing.T) {
	analysis := AnalyzeQuery("Compare HTTP and FTP")
	queries := ExpandQueries(analysis)
	if len(queries) > maxExpandedQueries {
		t.Fatalf("expected at most %d queries, got %d", maxExpandedQueries, len(queries))
	}
	if queries[0] != analysis.Query {
		t.Fatalf("expected original first, got %q", queries[0])
	}
}
