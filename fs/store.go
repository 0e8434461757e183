// Package fs provides file-based document storage mirroring URL paths.
package fs

import (
	"context"
	"encoding/json"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/podmirror"
)

// URLToPath converts a resource URL to a relative .jsonld path derived from
// the URL's path component. When asFile is set the path addresses a single
// terminal file (any trailing slash is trimmed); otherwise the path is
// treated as a directory-style prefix and a trailing slash lands on an
// index file inside that directory.
// Example: http://host/indexes/name/full → indexes/name/full.jsonld
func URLToPath(rawURL string, asFile bool) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}

	path := strings.TrimPrefix(u.Path, "/")

	if asFile {
		path = strings.TrimRight(path, "/")
		if path == "" {
			return "index.jsonld", nil
		}
		return path + ".jsonld", nil
	}

	if path == "" || strings.HasSuffix(path, "/") {
		return path + "index.jsonld", nil
	}
	return path + ".jsonld", nil
}

// Ensure Store implements podmirror.DocumentStore at compile time.
var _ podmirror.DocumentStore = (*Store)(nil)

// Store persists documents as indented JSON-LD files under a base
// directory, maintaining the servers' directory structure.
type Store struct {
	baseDir string
}

// NewStore creates a Store rooted at baseDir.
func NewStore(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// Read returns the stored document for key. Merge reconciliation only
// applies to file-addressed leaves, so keys resolve file-style here.
func (s *Store) Read(ctx context.Context, key string) (*podmirror.Document, error) {
	relPath, err := URLToPath(key, true)
	if err != nil {
		return nil, err
	}

	b, err := os.ReadFile(filepath.Join(s.baseDir, relPath))
	if os.IsNotExist(err) {
		return nil, podmirror.Errorf(podmirror.ENOTFOUND, "document %q not stored", key)
	}
	if err != nil {
		return nil, err
	}

	var doc podmirror.Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, podmirror.Errorf(podmirror.EINVALID, "stored document %q is not valid JSON: %v", key, err)
	}
	return &doc, nil
}

// Write persists doc under key, creating parent directories as needed.
func (s *Store) Write(ctx context.Context, key string, doc *podmirror.Document, saveAsFile bool) error {
	relPath, err := URLToPath(key, saveAsFile)
	if err != nil {
		return err
	}

	fullPath := filepath.Join(s.baseDir, relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}

	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(fullPath, b, 0644)
}
