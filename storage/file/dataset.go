package file

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sig-0/kpremium/storage"
	"github.com/sig-0/kpremium/storage/types"
)

// readDataset reads a JSON array dataset. A missing file is an empty dataset (first run)
func readDataset[E storage.Dated](path string) ([]E, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []E{}, nil
		}

		return nil, fmt.Errorf("unable to read dataset: %w", err)
	}

	var entries []E

	if err = json.Unmarshal(content, &entries); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", storage.ErrCorruptDataset, path, err)
	}

	var zero E

	for _, e := range entries {
		if e == zero || !types.ValidDate(e.Key()) {
			return nil, fmt.Errorf("%w: %s: entry with invalid date", storage.ErrCorruptDataset, path)
		}
	}

	storage.Sort(entries)

	return entries, nil
}

// writeDataset writes the dataset to a temporary file and renames it over
// the target, so readers never observe a half-written file
func writeDataset[E storage.Dated](path string, entries []E) error {
	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("unable to create dataset directory: %w", err)
	}

	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("unable to encode dataset: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("unable to create temporary file: %w", err)
	}

	tmpName := tmp.Name()

	if err = tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)

		return fmt.Errorf("unable to set dataset permissions: %w", err)
	}

	if _, err = tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)

		return fmt.Errorf("unable to write dataset: %w", err)
	}

	if err = tmp.Close(); err != nil {
		_ = os.Remove(tmpName)

		return fmt.Errorf("unable to write dataset: %w", err)
	}

	if err = os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)

		return fmt.Errorf("unable to replace dataset: %w", err)
	}

	return nil
}
