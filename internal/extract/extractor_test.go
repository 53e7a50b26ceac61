package extract

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/ykhalidz/askdocs/internal/faults"
)

func buildDOCX(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	if documentXML != "" {
		w, err := zw.Create(docxDocumentXMLPath)
		if err != nil {
			t.Fatalf("create zip entry: %v", err)
		}
		if _, err := w.Write([]byte(documentXML)); err != nil {
			t.Fatalf("write zip entry: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestSupported(t *testing.T) {
	for _, ext := range []string{".pdf", ".docx", ".txt", ".md", ".PDF", ".Md"} {
		if !Supported(ext) {
			t.Errorf("Supported(%q) = false", ext)
		}
	}
	for _, ext := range []string{".doc", ".html", ".csv", ""} {
		if Supported(ext) {
			t.Errorf("Supported(%q) = true", ext)
		}
	}
}

func TestExtractBytes_Plain(t *testing.T) {
	e := NewExtractor()

	text, err := e.ExtractBytes([]byte("hello\nworld"), ".txt")
	if err != nil {
		t.Fatalf("ExtractBytes: %v", err)
	}
	if text != "hello\nworld" {
		t.Errorf("got %q", text)
	}

	if _, err := e.ExtractBytes([]byte{0xff, 0xfe, 0x00}, ".md"); !faults.IsPermanent(err) {
		t.Errorf("invalid UTF-8: got %v, want permanent error", err)
	}
}

func TestExtractBytes_UnsupportedFormat(t *testing.T) {
	e := NewExtractor()
	if _, err := e.ExtractBytes([]byte("data"), ".csv"); !faults.IsPermanent(err) {
		t.Errorf("got %v, want permanent error", err)
	}
}

func TestExtractBytes_DOCX(t *testing.T) {
	e := NewExtractor()
	doc := buildDOCX(t, `<w:document><w:body>`+
		`<w:p><w:r><w:t>First paragraph.</w:t></w:r></w:p>`+
		`<w:p><w:r><w:t xml:space="preserve">Ampersand &amp; angle &lt;brackets&gt;.</w:t></w:r></w:p>`+
		`</w:body></w:document>`)

	text, err := e.ExtractBytes(doc, ".docx")
	if err != nil {
		t.Fatalf("ExtractBytes: %v", err)
	}
	want := "First paragraph.\nAmpersand & angle <brackets>.\n"
	if text != want {
		t.Errorf("got %q, want %q", text, want)
	}
}

func TestExtractBytes_DOCXFailures(t *testing.T) {
	e := NewExtractor()

	cases := []struct {
		name    string
		content []byte
	}{
		{"not a zip", []byte("plain bytes")},
		{"missing document xml", buildDOCX(t, "")},
		{"no text runs", buildDOCX(t, `<w:document><w:body><w:p></w:p></w:body></w:document>`)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := e.ExtractBytes(tc.content, ".docx"); !faults.IsPermanent(err) {
				t.Errorf("got %v, want permanent error", err)
			}
		})
	}
}

func TestExtractBytes_PDFGarbage(t *testing.T) {
	e := NewExtractor()
	if _, err := e.ExtractBytes([]byte("definitely not a pdf"), ".pdf"); !faults.IsPermanent(err) {
		t.Errorf("got %v, want permanent error", err)
	}
}

func TestExtract_MissingFile(t *testing.T) {
	e := NewExtractor()
	if _, err := e.Extract("/nonexistent/path/file.txt"); err == nil {
		t.Fatal("expected error")
	}
}
