package rag

import (
	"fmt"
	"strings"

	"github.com/ykhalidz/askdocs/internal/vectordb"
)

// NoContextMarker is the explicit text used when retrieval returns zero
// results, so the answer step can branch on it instead of receiving an
// empty string.
const NoContextMarker = "NO RELEVANT CONTEXT FOUND"

// Context is the assembled grounding context for one question: the
// selected fragments' text with provenance, bounded by a character
// budget. The budget bounds the fragments' combined text; the rendered
// Text also carries provenance headers and separators, so it can run
// slightly longer. Built fresh per question and discarded after use.
type Context struct {
	Text        string
	FragmentIDs []string
	Results     []vectordb.SearchResult // the fragments actually included
}

// Empty reports whether retrieval found no usable fragments.
func (c *Context) Empty() bool {
	return len(c.FragmentIDs) == 0
}

// assembleContext walks results in rank order, appending each fragment's
// text with a provenance header until the next fragment's text would
// exceed maxChars. Lower-ranked results are dropped whole rather than
// truncated mid-fragment, so the generation step never sees syntactically
// broken grounding text. The budget counts fragment text only; headers
// are bookkeeping.
func assembleContext(results []vectordb.SearchResult, maxChars int) *Context {
	if len(results) == 0 {
		return &Context{Text: NoContextMarker}
	}

	var (
		parts    []string
		ids      []string
		included []vectordb.SearchResult
		used     int
	)
	for i, r := range results {
		if used+len(r.Text) > maxChars {
			break
		}
		header := fmt.Sprintf("[Document %d - Source: %s (fragment %d of %d, relevance %.2f)]",
			i+1, r.Metadata.Source, r.Metadata.Ordinal+1, r.Metadata.TotalFragments, r.Score)
		parts = append(parts, header+"\n"+r.Text)
		ids = append(ids, r.FragmentID)
		included = append(included, r)
		used += len(r.Text)
	}

	if len(ids) == 0 {
		// Even the top-ranked fragment exceeds the budget.
		return &Context{Text: NoContextMarker}
	}

	return &Context{
		Text:        strings.Join(parts, "\n\n"),
		FragmentIDs: ids,
		Results:     included,
	}
}
