package extract

import (
	"fmt"
	"unicode/utf8"

	"github.com/ykhalidz/askdocs/internal/faults"
)

// extractPlain returns UTF-8 text content unchanged.
func extractPlain(content []byte) (string, error) {
	if !utf8.Valid(content) {
		return "", faults.Permanent(fmt.Errorf("file is not valid UTF-8 text"))
	}
	return string(content), nil
}
