package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/ykhalidz/askdocs/internal/faults"
)

// extractPDF concatenates the plain text of every page in page order.
// Encrypted or image-only PDFs yield a permanent per-document error.
func extractPDF(content []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", faults.Permanent(fmt.Errorf("open PDF: %w", err))
	}

	var buf bytes.Buffer
	numPages := r.NumPage()
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", faults.Permanent(fmt.Errorf("extract page %d: %w", i, err))
		}
		buf.WriteString(text)
		buf.WriteByte('\n')
	}

	if strings.TrimSpace(buf.String()) == "" {
		return "", faults.Permanent(fmt.Errorf("PDF contains no extractable text (image-only or empty)"))
	}
	return buf.String(), nil
}
