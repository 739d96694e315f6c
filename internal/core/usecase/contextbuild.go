package usecase

import (
	"fmt"
	"sort"
	"strings"

	"github.com/askdoc/askdoc/internal/core/domain"
)

// NoContextSentinel is returned by FormatContext when nothing survived
// retrieval. The prompt builder keys off it to instruct the model to say the
// topic is not covered instead of guessing.
const NoContextSentinel = "No relevant context was found in the uploaded documents."

// FormatContext groups candidates by page, orders pages ascending and
// concatenates labeled blocks under the character budget. Once adding a
// block would exceed the budget, assembly stops; dropped candidates are not
// an error.
func FormatContext(candidates []domain.Candidate, charBudget int) string {
	if len(candidates) == 0 {
		return NoContextSentinel
	}

	byPage := make(map[int][]domain.Candidate)
	pages := make([]int, 0, len(candidates))
	for _, candidate := range candidates {
		page := candidate.Metadata.PageNumber
		if _, ok := byPage[page]; !ok {
			pages = append(pages, page)
		}
		byPage[page] = append(byPage[page], candidate)
	}
	sort.Ints(pages)

	var b strings.Builder
assembly:
	for _, page := range pages {
		for _, candidate := range byPage[page] {
			block := fmt.Sprintf("[Page %d, Relevance: %.1f%%]\n%s\n\n",
				page, candidate.Similarity*100, candidate.Content)
			if charBudget > 0 && b.Len()+len(block) > charBudget {
				break assembly
			}
			b.WriteString(block)
		}
	}

	out := strings.TrimRight(b.String(), " \n\t")
	if out == "" {
		return NoContextSentinel
	}
	return out
}

type sourceEntry struct {
	document      string
	pages         map[int]struct{}
	maxSimilarity float64
}

// FormatSources renders one citation line per document in first-appearance
// order, with its distinct page numbers ascending. The maximum similarity
// per document is tracked but not rendered.
func FormatSources(candidates []domain.Candidate) []string {
	entries := make([]*sourceEntry, 0, 4)
	byDocument := make(map[string]*sourceEntry)

	for _, candidate := range candidates {
		name := candidate.Metadata.DocumentName
		entry, ok := byDocument[name]
		if !ok {
			entry = &sourceEntry{document: name, pages: make(map[int]struct{})}
			byDocument[name] = entry
			entries = append(entries, entry)
		}
		entry.pages[candidate.Metadata.PageNumber] = struct{}{}
		if candidate.Similarity > entry.maxSimilarity {
			entry.maxSimilarity = candidate.Similarity
		}
	}

	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		pages := make([]int, 0, len(entry.pages))
		for page := range entry.pages {
			pages = append(pages, page)
		}
		sort.Ints(pages)

		rendered := make([]string, len(pages))
		for i, page := range pages {
			rendered[i] = fmt.Sprintf("%d", page)
		}
		out = append(out, fmt.Sprintf("%s (pages: %s)", entry.document, strings.Join(rendered, ", ")))
	}
	return out
}
