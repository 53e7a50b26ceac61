// Package chunker splits extracted document text into overlapping
// fixed-size fragments for embedding and retrieval.
package chunker

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/ykhalidz/askdocs/internal/faults"
)

// Fragment is a contiguous slice of a document's text, the unit of
// retrieval. Fragments are immutable once created; re-chunking the same
// input yields byte-identical fragments with identical IDs.
type Fragment struct {
	ID             string // deterministic: sha256 of docID + ordinal
	DocumentID     string
	Text           string
	Ordinal        int
	Start          int // rune offset of the window start
	End            int // rune offset one past the window end
	TotalFragments int
}

// FragmentID returns the stable identifier for the fragment at the given
// ordinal of a document. The hash of document ID plus ordinal is the
// idempotence mechanism: re-ingesting a document overwrites its prior
// fragments instead of appending duplicates.
func FragmentID(docID string, ordinal int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%d", docID, ordinal)))
	return hex.EncodeToString(sum[:])
}

// Split walks text with a sliding window of chunkSize characters,
// advancing by chunkSize-overlap each step. The final window is truncated
// to the remaining text. Empty text yields zero fragments. Text shorter
// than chunkSize yields exactly one fragment equal to the whole text.
//
// Windows are measured in runes, never bytes, so a boundary cannot land
// inside a multi-byte character: every fragment is valid UTF-8. Start and
// End are rune offsets. The overlap keeps facts that straddle a window
// boundary fully present in at least one fragment, though a window may
// still split mid-sentence. Concatenating fragments' non-overlapping
// portions in ordinal order reconstructs the input exactly.
func Split(docID, text string, chunkSize, overlap int) ([]Fragment, error) {
	if chunkSize <= 0 {
		return nil, faults.Configuration("chunk size must be positive, got %d", chunkSize)
	}
	if overlap < 0 || overlap >= chunkSize {
		return nil, faults.Configuration("overlap must satisfy 0 <= overlap < chunk size, got overlap=%d chunk size=%d", overlap, chunkSize)
	}

	runes := []rune(text)
	if len(runes) == 0 {
		return nil, nil
	}

	step := chunkSize - overlap
	var fragments []Fragment
	for start := 0; start < len(runes); start += step {
		end := start + chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		ordinal := len(fragments)
		fragments = append(fragments, Fragment{
			ID:         FragmentID(docID, ordinal),
			DocumentID: docID,
			Text:       string(runes[start:end]),
			Ordinal:    ordinal,
			Start:      start,
			End:        end,
		})
		if end == len(runes) {
			break
		}
	}

	for i := range fragments {
		fragments[i].TotalFragments = len(fragments)
	}
	return fragments, nil
}

// Reconstruct rebuilds the original text from fragments in ordinal order
// by dropping each fragment's overlap with its predecessor. Used by tests
// to verify the no-gaps invariant.
func Reconstruct(fragments []Fragment) string {
	var out []rune
	end := 0
	for _, f := range fragments {
		runes := []rune(f.Text)
		if f.Start >= end {
			out = append(out, runes...)
		} else {
			out = append(out, runes[end-f.Start:]...)
		}
		end = f.End
	}
	return string(out)
}
