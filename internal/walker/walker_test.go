package walker

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

func relPaths(files []FileInfo) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.RelPath
	}
	return out
}

func TestWalk_IncludeExclude(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "handbook.pdf", "pdf bytes")
	writeFile(t, root, "notes.txt", "notes")
	writeFile(t, root, "policies/leave.md", "leave policy")
	writeFile(t, root, "policies/draft/wip.md", "draft")
	writeFile(t, root, "image.png", "png bytes")

	files, err := Walk(Config{
		RootDir: root,
		Include: []string{"**/*.pdf", "**/*.txt", "**/*.md"},
		Exclude: []string{"policies/draft/**"},
	})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}

	got := relPaths(files)
	want := map[string]bool{"handbook.pdf": true, "notes.txt": true, "policies/leave.md": true}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %d files", got, len(want))
	}
	for _, rel := range got {
		if !want[rel] {
			t.Errorf("unexpected file %s", rel)
		}
	}
}

func TestWalk_SkipsGitAndOversize(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "keep.txt", "small")
	writeFile(t, root, ".git/config", "git internals")
	writeFile(t, root, "big.txt", "0123456789")

	files, err := Walk(Config{RootDir: root, MaxFileSize: 5})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}

	got := relPaths(files)
	if len(got) != 1 || got[0] != "keep.txt" {
		t.Errorf("got %v, want only keep.txt", got)
	}
}

func TestWalk_PopulatesHashes(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt", "same content")
	writeFile(t, root, "b.txt", "same content")
	writeFile(t, root, "c.txt", "different content")

	files, err := Walk(Config{RootDir: root})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("got %d files, want 3", len(files))
	}

	hashes := map[string]string{}
	for _, f := range files {
		if f.ContentHash == "" {
			t.Errorf("%s has no content hash", f.RelPath)
		}
		if f.Size == 0 {
			t.Errorf("%s has zero size", f.RelPath)
		}
		hashes[f.RelPath] = f.ContentHash
	}
	if hashes["a.txt"] != hashes["b.txt"] {
		t.Error("identical content produced different hashes")
	}
	if hashes["a.txt"] == hashes["c.txt"] {
		t.Error("different content produced the same hash")
	}
}

func TestMatchesInclude(t *testing.T) {
	cases := []struct {
		relPath  string
		patterns []string
		want     bool
	}{
		{"doc.pdf", nil, true},
		{"doc.pdf", []string{"**/*.pdf"}, true},
		{"nested/deep/doc.pdf", []string{"**/*.pdf"}, true},
		{"doc.pdf", []string{"*.pdf"}, true},
		{"nested/doc.pdf", []string{"*.pdf"}, true}, // basename fallback
		{"doc.txt", []string{"**/*.pdf"}, false},
	}
	for _, tc := range cases {
		if got := MatchesInclude(tc.relPath, tc.patterns); got != tc.want {
			t.Errorf("MatchesInclude(%q, %v) = %v, want %v", tc.relPath, tc.patterns, got, tc.want)
		}
	}
}

func TestMatchesExclude(t *testing.T) {
	if MatchesExclude("doc.pdf", nil) {
		t.Error("empty exclude list must match nothing")
	}
	if !MatchesExclude("tmp/scratch.txt", []string{"tmp/**"}) {
		t.Error("tmp/** should exclude nested files")
	}
}
