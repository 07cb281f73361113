package tokens

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/krancour/kurban/internal/file"
	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
)

// FileStore is a Store backed by a single JSON document on disk. Values are
// read from disk on every access so that separate processes sharing the same
// file observe each other's changes.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore returns a FileStore that persists to the file at the
// specified path. Neither the file nor its parent directory need exist yet.
func NewFileStore(path string) *FileStore {
	return &FileStore{
		path: path,
	}
}

// DefaultFilePath returns the location of the credentials file within the
// user's home directory.
func DefaultFilePath() (string, error) {
	homeDir, err := homedir.Dir()
	if err != nil {
		return "", errors.Wrap(err, "error locating user's home directory")
	}
	return filepath.Join(homeDir, ".kurban", "config"), nil
}

// Path returns the location of the backing file.
func (f *FileStore) Path() string {
	return f.path
}

func (f *FileStore) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	values, err := f.read()
	if err != nil {
		return "", false, err
	}
	value, ok := values[key]
	return value, ok, nil
}

func (f *FileStore) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	values, err := f.read()
	if err != nil {
		return err
	}
	values[key] = value
	return f.write(values)
}

func (f *FileStore) Delete(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !file.Exists(f.path) {
		return nil
	}
	values, err := f.read()
	if err != nil {
		return err
	}
	var changed bool
	for _, key := range keys {
		if _, ok := values[key]; ok {
			delete(values, key)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return f.write(values)
}

func (f *FileStore) read() (map[string]string, error) {
	values := map[string]string{}
	if !file.Exists(f.path) {
		return values, nil
	}
	fileBytes, err := os.ReadFile(f.path)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading credentials file at %s", f.path)
	}
	if len(fileBytes) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(fileBytes, &values); err != nil {
		return nil, errors.Wrapf(err, "error parsing credentials file at %s", f.path)
	}
	return values, nil
}

func (f *FileStore) write(values map[string]string) error {
	dir := filepath.Dir(f.path)
	if _, err := os.Stat(dir); err != nil {
		if !os.IsNotExist(err) {
			return errors.Wrapf(
				err,
				"error checking for existence of %s",
				dir,
			)
		}
		// The directory doesn't exist-- create it
		if err := os.MkdirAll(dir, 0700); err != nil {
			return errors.Wrapf(err, "error creating %s", dir)
		}
	}
	fileBytes, err := json.Marshal(values)
	if err != nil {
		return errors.Wrap(err, "error marshaling credentials")
	}
	// Write to a sibling file and rename so readers never see a partial write
	tmpPath := f.path + ".tmp"
	if err := os.WriteFile(tmpPath, fileBytes, 0600); err != nil {
		return errors.Wrapf(err, "error writing to %s", tmpPath)
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		return errors.Wrapf(err, "error replacing %s", f.path)
	}
	return nil
}
