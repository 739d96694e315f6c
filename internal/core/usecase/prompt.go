package usecase

import (
	"fmt"
	"strings"

	"github.com/askdoc/askdoc/internal/core/domain"
)

const answerSystemPrompt = `You answer questions strictly from the supplied document context.
Cite nothing outside it. If the context does not cover the question, say so plainly.`

// typeInstructions tailor the answer shape to the detected question type.
var typeInstructions = map[domain.QuestionType]string{
	domain.QuestionDefinition:  "Give a concise definition first, then any distinguishing characteristics.",
	domain.QuestionComparison:  "Contrast the items point by point, covering both similarities and differences.",
	domain.QuestionExplanation: "Explain the mechanism or reasoning step by step.",
	domain.QuestionLocation:    "State the location directly, then add supporting detail.",
	domain.QuestionListing:     "Answer as a list, one item per line.",
	domain.QuestionQuantity:    "Lead with the exact number or amount from the context.",
	domain.QuestionProcedure:   "Lay out the steps in order, numbered.",
	domain.QuestionCauseEffect: "Name the cause, then the effect, and the link between them.",
	domain.QuestionProperty:    "Enumerate the relevant properties or characteristics.",
	domain.QuestionExample:     "Give the concrete examples found in the context.",
	domain.QuestionTime:        "State the date or period directly.",
	domain.QuestionGeneral:     "Answer directly and stay within the context.",
}

func buildAnswerPrompt(analysis domain.QueryAnalysis, contextText string) string {
	instruction := typeInstructions[analysis.Type]
	if instruction == "" {
		instruction = typeInstructions[domain.QuestionGeneral]
	}
	if contextText == NoContextSentinel {
		instruction = "The context contains nothing relevant. State that the topic is not covered by the uploaded documents; do not invent an answer."
	}

	var b strings.Builder
	b.WriteString("Context:\n")
	b.WriteString(contextText)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Instruction: %s\n\n", instruction)
	fmt.Fprintf(&b, "Question: %s\n", analysis.Query)
	return b.String()
}
