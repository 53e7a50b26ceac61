package extract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/ykhalidz/askdocs/internal/faults"
)

// docxDocumentXMLPath is the main document body inside a .docx zip.
const docxDocumentXMLPath = "word/document.xml"

// wtTag matches <w:t>text</w:t>, including attribute-bearing variants such
// as <w:t xml:space="preserve">.
var wtTag = regexp.MustCompile(`<w:t[^>]*>([^<]*)</w:t>`)

// wpTag matches paragraph closers so paragraph breaks survive extraction.
var wpTag = regexp.MustCompile(`</w:p>`)

// extractDOCX extracts text from .docx bytes. DOCX is a ZIP containing
// word/document.xml; the visible text lives in <w:t> runs.
func extractDOCX(content []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", faults.Permanent(fmt.Errorf("open DOCX: %w", err))
	}

	var docXML []byte
	for _, f := range zr.File {
		if f.Name != docxDocumentXMLPath {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", faults.Permanent(fmt.Errorf("open %s: %w", f.Name, err))
		}
		docXML, err = io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return "", faults.Permanent(fmt.Errorf("read %s: %w", f.Name, err))
		}
		break
	}
	if docXML == nil {
		return "", faults.Permanent(fmt.Errorf("DOCX has no %s", docxDocumentXMLPath))
	}

	// Insert newlines at paragraph boundaries, then collect text runs.
	normalized := wpTag.ReplaceAll(docXML, []byte("</w:p>\n"))
	var buf strings.Builder
	for _, line := range strings.Split(string(normalized), "\n") {
		for _, m := range wtTag.FindAllStringSubmatch(line, -1) {
			buf.WriteString(unescapeXML(m[1]))
		}
		buf.WriteByte('\n')
	}

	text := strings.TrimRight(buf.String(), "\n")
	if strings.TrimSpace(text) == "" {
		return "", faults.Permanent(fmt.Errorf("DOCX contains no extractable text"))
	}
	return text + "\n", nil
}

func unescapeXML(s string) string {
	r := strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&apos;", "'",
	)
	return r.Replace(s)
}
