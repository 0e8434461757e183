package fs

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/fwojciec/podmirror"
)

// WriteSnapshot writes the aggregated crawl artifact as indented JSON,
// creating parent directories as needed.
func WriteSnapshot(path string, snap *podmirror.Snapshot) error {
	b, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, b, 0644)
}
