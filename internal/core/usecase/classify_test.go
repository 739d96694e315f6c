package usecase

import (
	"testing"

	"github.com/askdoc/askdoc/internal/core/domain"
)

func TestClassifyQuestionTypes(t *testing.T) {
	cases := []struct {
		query string
		want  domain.QuestionType
	}{
		{"What is NASA?", domain.QuestionDefinition},
		{"Difference between TCP and UDP", domain.QuestionComparison},
		{"Where is the data center located?", domain.QuestionLocation},
		{"What are the types of memory?", domain.QuestionListing},
		{"How many satellites does GPS use?", domain.QuestionQuantity},
		{"How do I configure the firewall?", domain.QuestionProcedure},
		{"Why does the reaction accelerate?", domain.QuestionCauseEffect},
		{"What properties of helium matter here?", domain.QuestionProperty},
		{"Give me an example of a checksum", domain.QuestionExample},
		{"When was the protocol standardized?", domain.QuestionTime},
		{"Explain the handshake", domain.QuestionExplanation},
		{"telemetry ingestion pipeline", domain.QuestionGeneral},
		{"", domain.QuestionGeneral},
	}

	for _, tc := range cases {
		if got := ClassifyQuestion(tc.query); got != tc.want {
			t.Fatalf("ClassifyQuestion(%q) = %s, want %s", tc.query, got, tc.want)
		}
	}
}

func TestClassifyQuestionFirstMatchWins(t *testing.T) {
	// Matches both location and definition patterns; location is earlier in
	// the precedence list.
	if got := ClassifyQuestion("Where is the definition of the boundary located?"); got != domain.QuestionLocation {
		t.Fatalf("expected location to win precedence, got %s", got)
	}
	// "how many" must resolve to quantity even though "how..." also fits
	// the procedure pattern family.
	if got := ClassifyQuestion("How many steps are there?"); got != domain.QuestionQuantity {
		t.Fatalf("expected quantity, got %s", got)
	}
}

func TestClassifyQuestionDeterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		if got := ClassifyQuestion("What is entropy?"); got != domain.QuestionDefinition {
			t.Fatalf("run %d: expected definition, got %s", i, got)
		}
	}
}
