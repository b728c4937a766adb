// Package docstore stores uploaded project documents on local disk.
package docstore

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"regexp"

	"github.com/google/uuid"
)

// urlPrefix is the client-visible path under which documents are served.
const urlPrefix = "/uploads/documents"

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

// Store writes uploaded files under a single directory and hands back
// client-visible relative paths.
type Store struct {
	dir string
}

// New creates a Store rooted at dir. The directory is created on demand.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Save writes the uploaded file to disk under a sanitized, unique name and
// returns the client-visible relative path.
func (s *Store) Save(file *multipart.FileHeader) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	name := unsafeChars.ReplaceAllString(filepath.Base(file.Filename), "_")
	stored := fmt.Sprintf("%s-%s", uuid.NewString(), name)

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.dir, stored))
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}

	return path.Join(urlPrefix, stored), nil
}

// Remove deletes the stored file behind a client-visible path. Only the
// base name is honored, so a crafted path cannot escape the store dir.
// A missing file is not an error.
func (s *Store) Remove(clientPath string) error {
	name := path.Base(clientPath)
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
