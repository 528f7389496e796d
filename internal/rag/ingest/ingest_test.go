package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/akolanti/ragassistant/internal/domain/commonModels"
	"github.com/akolanti/ragassistant/internal/rag/ragerr"
)

func writeFile(t *testing.T, path string, content []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestGetFileKind(t *testing.T) {
	tests := []struct {
		path     string
		expected fileKind
	}{
		{"test.pdf", kindPDF},
		{"DOC.DOCX", kindDOCX},
		{"notes.txt", kindTXT},
		{"chart.PNG", kindImage},
		{"photo.jpg", kindImage},
		{"photo.jpeg", kindImage},
		{"anim.gif", kindImage},
		{"sheet.xlsx", kindUnsupported},
		{"README", kindUnsupported},
	}

	for _, tt := range tests {
		if got := getFileKind(tt.path); got != tt.expected {
			t.Errorf("getFileKind(%s) = %v; want %v", tt.path, got, tt.expected)
		}
	}
}

func TestLoadDocuments(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), []byte("plain text content"))
	writeFile(t, filepath.Join(dir, "b.xyz"), []byte("unknown"))
	writeFile(t, filepath.Join(dir, "c.png"), []byte{0x89, 'P', 'N', 'G'})
	writeFile(t, filepath.Join(dir, "d.pdf"), []byte("this is not a pdf"))
	writeFile(t, filepath.Join(dir, "sub", "e.txt"), []byte("nested"))

	docs, errs := LoadDocuments(context.Background(), dir)

	if len(docs) != 3 {
		t.Fatalf("expected 3 documents, got %d", len(docs))
	}

	want := []struct {
		name    string
		docType commonModels.DocType
		content string
	}{
		{"a.txt", commonModels.Text, "plain text content"},
		{"c.png", commonModels.Image, filepath.Join(dir, "c.png")},
		{"e.txt", commonModels.Text, "nested"},
	}
	for i, w := range want {
		if docs[i].FileName() != w.name {
			t.Errorf("doc %d: expected file %s, got %s", i, w.name, docs[i].FileName())
		}
		if docs[i].Type != w.docType {
			t.Errorf("doc %d: expected type %s, got %s", i, w.docType, docs[i].Type)
		}
		if docs[i].Content != w.content {
			t.Errorf("doc %d: expected content %q, got %q", i, w.content, docs[i].Content)
		}
	}

	if len(errs) != 2 {
		t.Fatalf("expected 2 load errors, got %d: %v", len(errs), errs)
	}
	if !errors.Is(errs[0], ragerr.ErrUnsupported) {
		t.Errorf("expected unsupported error first, got %v", errs[0])
	}
	for _, err := range errs {
		if kind, _ := ragerr.KindOf(err); kind != ragerr.KindLoad {
			t.Errorf("expected load kind, got %q", kind)
		}
	}
	if item := ragerr.ItemOf(errs[1]); filepath.Base(item) != "d.pdf" {
		t.Errorf("expected the corrupt pdf to be reported, got %s", item)
	}
}

func TestLoadDocumentsInvalidUTF8(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bad.txt"), []byte{0xff, 0xfe, 0xfd})

	docs, errs := LoadDocuments(context.Background(), dir)
	if len(docs) != 0 || len(errs) != 1 {
		t.Fatalf("expected the file to be skipped, got %d docs and %d errors", len(docs), len(errs))
	}
}

func TestLoadDocumentsMissingDir(t *testing.T) {
	docs, errs := LoadDocuments(context.Background(), filepath.Join(t.TempDir(), "missing"))
	if len(docs) != 0 {
		t.Errorf("expected no documents, got %d", len(docs))
	}
	if len(errs) != 1 {
		t.Errorf("expected a single error for the missing directory, got %d", len(errs))
	}
}
