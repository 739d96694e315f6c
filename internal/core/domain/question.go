package domain

// QuestionType steers search-query construction, rerank bonuses and answer
// instructions. Classification always yields exactly one value;
// QuestionGeneral is the fallback.
type QuestionType string

const (
	QuestionDefinition  QuestionType = "definition"
	QuestionComparison  QuestionType = "comparison"
	QuestionExplanation QuestionType = "explanation"
	QuestionLocation    QuestionType = "location"
	QuestionListing     QuestionType = "listing"
	QuestionQuantity    QuestionType = "quantity"
	QuestionProcedure   QuestionType = "procedure"
	QuestionCauseEffect QuestionType = "cause_effect"
	QuestionProperty    QuestionType = "property"
	QuestionExample     QuestionType = "example"
	QuestionTime        QuestionType = "time"
	QuestionGeneral     QuestionType = "general"
)

// QueryAnalysis is the per-request derived state of a raw query. It is built
// fresh for every request and never cached across requests.
type QueryAnalysis struct {
	Query        string
	Type         QuestionType
	PrimaryTerms []string
	ContextTerms []string
	SearchHints  []string
}
