package docstore

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func uploadHeader(t *testing.T, name, content string) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	fw, err := w.CreateFormFile("file", name)
	if err != nil {
		t.Fatalf("CreateFormFile error: %v", err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	w.Close()

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if err := req.ParseMultipartForm(32 << 20); err != nil {
		t.Fatalf("ParseMultipartForm error: %v", err)
	}
	return req.MultipartForm.File["file"][0]
}

func TestSave(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := New(dir)

	clientPath, err := store.Save(uploadHeader(t, "final report (v2).pdf", "pdf-bytes"))
	if err != nil {
		t.Fatalf("Save error: %v", err)
	}

	if !strings.HasPrefix(clientPath, "/uploads/documents/") {
		t.Fatalf("unexpected client path: %q", clientPath)
	}

	stored := filepath.Base(clientPath)
	for _, ch := range []string{" ", "(", ")"} {
		if strings.Contains(stored, ch) {
			t.Fatalf("stored name not sanitized: %q", stored)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, stored))
	if err != nil {
		t.Fatalf("stored file missing: %v", err)
	}
	if string(data) != "pdf-bytes" {
		t.Fatalf("stored content mismatch: %q", data)
	}
}

func TestSave_UniqueNames(t *testing.T) {
	t.Parallel()

	store := New(t.TempDir())

	p1, err := store.Save(uploadHeader(t, "report.pdf", "a"))
	if err != nil {
		t.Fatalf("Save error: %v", err)
	}
	p2, err := store.Save(uploadHeader(t, "report.pdf", "b"))
	if err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if p1 == p2 {
		t.Fatalf("two uploads of the same name collided: %q", p1)
	}
}

func TestRemove(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := New(dir)

	clientPath, err := store.Save(uploadHeader(t, "report.pdf", "x"))
	if err != nil {
		t.Fatalf("Save error: %v", err)
	}

	if err := store.Remove(clientPath); err != nil {
		t.Fatalf("Remove error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, filepath.Base(clientPath))); !os.IsNotExist(err) {
		t.Fatal("file still on disk after Remove")
	}
}

func TestRemove_MissingFile(t *testing.T) {
	t.Parallel()

	store := New(t.TempDir())
	if err := store.Remove("/uploads/documents/never-existed.pdf"); err != nil {
		t.Fatalf("missing file must not be an error: %v", err)
	}
}

func TestRemove_IgnoresPathTraversal(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := New(dir)

	// A sibling file outside the store dir must survive a crafted path.
	outside := filepath.Join(filepath.Dir(dir), "outside.txt")
	if err := os.WriteFile(outside, []byte("keep"), 0o644); err != nil {
		t.Fatalf("write outside file: %v", err)
	}

	if err := store.Remove("../outside.txt"); err != nil {
		t.Fatalf("Remove error: %v", err)
	}
	if _, err := os.Stat(outside); err != nil {
		t.Fatal("file outside the store dir was removed")
	}
}
