package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// FileTier implements Tier with a JSON file. It backs the durable tier for
// interactive use, the way CLI tools cache tokens under the user's home
// directory. The file is written with 0600 permissions via a temp file and
// rename so readers never observe a partial write.
type FileTier struct {
	path string
	mu   sync.Mutex
}

// NewFileTier creates a file-backed tier at path. The parent directory is
// created on first save.
func NewFileTier(path string) *FileTier {
	return &FileTier{path: path}
}

// Save replaces the namespace atomically.
func (t *FileTier) Save(ctx context.Context, values map[string]string) error {
	raw, err := json.Marshal(values)
	if err != nil {
		return errors.Join(ErrMalformedRecord, err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	dir := filepath.Dir(t.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return errors.Join(ErrTierUnavailable, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(t.path)+".tmp-*")
	if err != nil {
		return errors.Join(ErrTierUnavailable, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return errors.Join(ErrTierUnavailable, err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return errors.Join(ErrTierUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return errors.Join(ErrTierUnavailable, err)
	}

	if err := os.Rename(tmpName, t.path); err != nil {
		_ = os.Remove(tmpName)
		return errors.Join(ErrTierUnavailable, err)
	}
	return nil
}

// Load reads the namespace; a missing file is an empty namespace, a corrupt
// file is reported as ErrMalformedRecord for the store to discard.
func (t *FileTier) Load(ctx context.Context) (map[string]string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	raw, err := os.ReadFile(t.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, errors.Join(ErrTierUnavailable, err)
	}

	var values map[string]string
	if err := json.Unmarshal(raw, &values); err != nil {
		// Corrupt cache file: report empty so the store treats it as absent,
		// and remove it so the next save starts clean.
		_ = os.Remove(t.path)
		return map[string]string{}, nil
	}
	return values, nil
}

// Wipe removes the file; missing is fine.
func (t *FileTier) Wipe(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := os.Remove(t.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Join(ErrTierUnavailable, err)
	}
	return nil
}
